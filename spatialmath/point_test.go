package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"
)

func TestNormalizeHeading(t *testing.T) {
	test.That(t, NormalizeHeading(0), test.ShouldEqual, 0)
	test.That(t, NormalizeHeading(2*math.Pi), test.ShouldEqual, 0)
	test.That(t, NormalizeHeading(-math.Pi/2), test.ShouldAlmostEqual, 3*math.Pi/2)
	test.That(t, NormalizeHeading(5*math.Pi), test.ShouldAlmostEqual, math.Pi)

	for _, h := range []float64{-10, -1, 0, 1, 3, 7, 100} {
		n := NormalizeHeading(h)
		test.That(t, n, test.ShouldBeGreaterThanOrEqualTo, 0)
		test.That(t, n, test.ShouldBeLessThan, 2*math.Pi)
	}
}

func TestHeadingBetween(t *testing.T) {
	origin := r2.Point{}

	// Compass convention: north is 0, east is pi/2.
	test.That(t, HeadingBetween(origin, r2.Point{X: 0, Y: 1}), test.ShouldAlmostEqual, 0)
	test.That(t, HeadingBetween(origin, r2.Point{X: 1, Y: 0}), test.ShouldAlmostEqual, math.Pi/2)
	test.That(t, HeadingBetween(origin, r2.Point{X: 0, Y: -1}), test.ShouldAlmostEqual, math.Pi)
	test.That(t, HeadingBetween(origin, r2.Point{X: -1, Y: 0}), test.ShouldAlmostEqual, 3*math.Pi/2)
}

func TestHeadingVectorRoundTrip(t *testing.T) {
	for _, h := range []float64{0, math.Pi / 4, math.Pi, 5} {
		v := HeadingVector(h)
		test.That(t, HeadingBetween(r2.Point{}, v), test.ShouldAlmostEqual, NormalizeHeading(h), 1e-9)
		test.That(t, v.Norm(), test.ShouldAlmostEqual, 1.0, 1e-12)
	}
}

func TestAngleDiff(t *testing.T) {
	test.That(t, AngleDiff(0, math.Pi/2), test.ShouldAlmostEqual, math.Pi/2)
	test.That(t, AngleDiff(math.Pi/2, 0), test.ShouldAlmostEqual, -math.Pi/2)
	// Wrap across 0/2pi.
	test.That(t, AngleDiff(0.1, 2*math.Pi-0.1), test.ShouldAlmostEqual, -0.2, 1e-9)
	test.That(t, AngleDiff(2*math.Pi-0.1, 0.1), test.ShouldAlmostEqual, 0.2, 1e-9)
}

func TestClosestPointOnSegment(t *testing.T) {
	a := r2.Point{X: 0, Y: 0}
	b := r2.Point{X: 10, Y: 0}

	pt, tt := ClosestPointOnSegment(a, b, r2.Point{X: 5, Y: 3})
	test.That(t, pt.X, test.ShouldAlmostEqual, 5)
	test.That(t, pt.Y, test.ShouldAlmostEqual, 0)
	test.That(t, tt, test.ShouldAlmostEqual, 0.5)

	// Clamped before the start and past the end.
	pt, tt = ClosestPointOnSegment(a, b, r2.Point{X: -4, Y: 2})
	test.That(t, pt, test.ShouldResemble, a)
	test.That(t, tt, test.ShouldEqual, 0)

	pt, tt = ClosestPointOnSegment(a, b, r2.Point{X: 14, Y: -2})
	test.That(t, pt, test.ShouldResemble, b)
	test.That(t, tt, test.ShouldEqual, 1)

	// Zero-length segment returns the start, never divides by zero.
	pt, tt = ClosestPointOnSegment(a, a, r2.Point{X: 3, Y: 3})
	test.That(t, pt, test.ShouldResemble, a)
	test.That(t, tt, test.ShouldEqual, 0)
}

func TestDistanceToSegment(t *testing.T) {
	a := r2.Point{X: 0, Y: 0}
	b := r2.Point{X: 0, Y: 10}
	test.That(t, DistanceToSegment(a, b, r2.Point{X: 3, Y: 5}), test.ShouldAlmostEqual, 3)
	test.That(t, DistanceToSegment(a, b, r2.Point{X: 0, Y: 14}), test.ShouldAlmostEqual, 4)
}

func TestSegmentsIntersect(t *testing.T) {
	test.That(t, SegmentsIntersect(
		r2.Point{X: 0, Y: 0}, r2.Point{X: 10, Y: 10},
		r2.Point{X: 0, Y: 10}, r2.Point{X: 10, Y: 0},
	), test.ShouldBeTrue)

	test.That(t, SegmentsIntersect(
		r2.Point{X: 0, Y: 0}, r2.Point{X: 10, Y: 0},
		r2.Point{X: 0, Y: 1}, r2.Point{X: 10, Y: 1},
	), test.ShouldBeFalse)

	// Shared endpoint counts as touching.
	test.That(t, SegmentsIntersect(
		r2.Point{X: 0, Y: 0}, r2.Point{X: 5, Y: 5},
		r2.Point{X: 5, Y: 5}, r2.Point{X: 10, Y: 0},
	), test.ShouldBeTrue)
}

func TestOffsetPerpendicular(t *testing.T) {
	// Heading north, positive offset goes east (right of travel).
	p := NewPoseFromXY(0, 0, 0)
	moved := p.OffsetPerpendicular(3)
	test.That(t, moved.Position.X, test.ShouldAlmostEqual, 3)
	test.That(t, moved.Position.Y, test.ShouldAlmostEqual, 0, 1e-12)
	test.That(t, moved.Heading, test.ShouldEqual, p.Heading)

	// Negative offset goes west.
	moved = p.OffsetPerpendicular(-3)
	test.That(t, moved.Position.X, test.ShouldAlmostEqual, -3)
}

func TestPointsAlmostEqual(t *testing.T) {
	a := r2.Point{X: 1, Y: 2}
	test.That(t, PointsAlmostEqual(a, r2.Point{X: 1 + 1e-12, Y: 2}), test.ShouldBeTrue)
	test.That(t, PointsAlmostEqual(a, r2.Point{X: 1.01, Y: 2}), test.ShouldBeFalse)
	test.That(t, PointsAlmostEqualEps(a, r2.Point{X: 1.01, Y: 2}, 0.1), test.ShouldBeTrue)
}
