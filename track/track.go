// Package track models guidance tracks (AB lines and recorded curves) and the
// perpendicular "nudge" transforms that shift them laterally between passes.
package track

import (
	"github.com/golang/geo/r2"

	"github.com/chriskinal/agguidance/spatialmath"
)

// MinCurvePoints is the fewest points a curve may have and still be usable
// for nudging or guidance. Shorter curves are invalid input, never padded.
const MinCurvePoints = 6

// ABLine is a straight guidance reference defined by two endpoints and the
// heading from A to B.
type ABLine struct {
	A       r2.Point
	B       r2.Point
	Heading float64
}

// NewABLine builds an AB line, deriving the heading from the endpoints.
func NewABLine(a, b r2.Point) ABLine {
	return ABLine{A: a, B: b, Heading: spatialmath.HeadingBetween(a, b)}
}

// Poses renders the line as a two-point path for the controller.
func (l ABLine) Poses() []spatialmath.Pose {
	return []spatialmath.Pose{
		spatialmath.NewPose(l.A, l.Heading),
		spatialmath.NewPose(l.B, l.Heading),
	}
}

// Curve is a recorded guidance path: an ordered sequence of poses, insertion
// order equals traversal order, heading populated per point.
type Curve struct {
	Points []spatialmath.Pose
}

// Valid reports whether the curve has enough points to be nudged or followed.
func (c Curve) Valid() bool {
	return len(c.Points) >= MinCurvePoints
}

// Poses returns the curve's pose sequence.
func (c Curve) Poses() []spatialmath.Pose {
	return c.Points
}

// Length returns the polyline arc length of the curve.
func (c Curve) Length() float64 {
	var total float64
	for i := 1; i < len(c.Points); i++ {
		total += c.Points[i].Position.Sub(c.Points[i-1].Position).Norm()
	}
	return total
}

// RecomputeHeadings rewrites every point's heading from the point sequence:
// forward difference at the first point, backward difference at the last,
// centered difference between the neighbors everywhere else.
func RecomputeHeadings(points []spatialmath.Pose) {
	n := len(points)
	if n < 2 {
		return
	}
	points[0].Heading = spatialmath.HeadingBetween(points[0].Position, points[1].Position)
	points[n-1].Heading = spatialmath.HeadingBetween(points[n-2].Position, points[n-1].Position)
	for i := 1; i < n-1; i++ {
		points[i].Heading = spatialmath.HeadingBetween(points[i-1].Position, points[i+1].Position)
	}
}
