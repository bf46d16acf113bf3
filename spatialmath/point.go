// Package spatialmath provides the planar geometry primitives shared by every
// guidance component: heading math in the local east/north frame, segment
// projection, and spline interpolation.
//
// All positions are r2.Point values in a local projected frame, X = easting
// and Y = northing, in meters. Headings are radians in [0, 2pi), compass
// convention: 0 points along +northing and angles increase clockwise toward
// +easting.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/floats/scalar"
)

const defaultEpsilon = 1e-8

// NormalizeHeading wraps a heading in radians into [0, 2pi).
func NormalizeHeading(heading float64) float64 {
	heading = math.Mod(heading, 2*math.Pi)
	if heading < 0 {
		heading += 2 * math.Pi
	}
	return heading
}

// HeadingBetween returns the compass heading of the direction from a to b.
// Coincident points yield heading 0.
func HeadingBetween(a, b r2.Point) float64 {
	return NormalizeHeading(math.Atan2(b.X-a.X, b.Y-a.Y))
}

// HeadingVector returns the unit direction vector for a compass heading.
func HeadingVector(heading float64) r2.Point {
	return r2.Point{X: math.Sin(heading), Y: math.Cos(heading)}
}

// AngleDiff returns the smallest signed difference from angle a to angle b,
// in (-pi, pi]. Positive means b is clockwise of a.
func AngleDiff(a, b float64) float64 {
	diff := math.Mod(b-a, 2*math.Pi)
	if diff > math.Pi {
		diff -= 2 * math.Pi
	} else if diff <= -math.Pi {
		diff += 2 * math.Pi
	}
	return diff
}

// Lerp linearly interpolates between a and b at parameter t.
func Lerp(a, b r2.Point, t float64) r2.Point {
	return a.Add(b.Sub(a).Mul(t))
}

// ClosestPointOnSegment projects pt onto the segment from a to b, clamping the
// parametric position to [0, 1]. A zero-length segment returns a with t = 0.
func ClosestPointOnSegment(a, b, pt r2.Point) (r2.Point, float64) {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return a, 0
	}
	t := pt.Sub(a).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(ab.Mul(t)), t
}

// DistanceToSegment returns the distance from pt to its clamped projection
// onto the segment from a to b.
func DistanceToSegment(a, b, pt r2.Point) float64 {
	closest, _ := ClosestPointOnSegment(a, b, pt)
	return pt.Sub(closest).Norm()
}

// SegmentsIntersect reports whether the closed segments p1-p2 and p3-p4
// intersect. Collinear overlap counts as an intersection.
func SegmentsIntersect(p1, p2, p3, p4 r2.Point) bool {
	d1 := orient(p3, p4, p1)
	d2 := orient(p3, p4, p2)
	d3 := orient(p1, p2, p3)
	d4 := orient(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}
	return false
}

func orient(a, b, c r2.Point) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

func onSegment(a, b, p r2.Point) bool {
	return math.Min(a.X, b.X) <= p.X && p.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= p.Y && p.Y <= math.Max(a.Y, b.Y)
}

// PointsAlmostEqual reports component-wise equality within the default
// tolerance.
func PointsAlmostEqual(a, b r2.Point) bool {
	return PointsAlmostEqualEps(a, b, defaultEpsilon)
}

// PointsAlmostEqualEps reports component-wise equality within epsilon.
func PointsAlmostEqualEps(a, b r2.Point, epsilon float64) bool {
	return scalar.EqualWithinAbs(a.X, b.X, epsilon) && scalar.EqualWithinAbs(a.Y, b.Y, epsilon)
}
