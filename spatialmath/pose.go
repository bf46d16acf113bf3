package spatialmath

import (
	"math"

	"github.com/golang/geo/r2"
)

// Pose is a planar position with a compass heading. It is the per-point type
// of every guidance path: steering laws need a direction at each point, not
// just a position.
type Pose struct {
	Position r2.Point
	Heading  float64
}

// NewPose creates a Pose with the heading normalized into [0, 2pi).
func NewPose(position r2.Point, heading float64) Pose {
	return Pose{Position: position, Heading: NormalizeHeading(heading)}
}

// NewPoseFromXY creates a Pose from easting/northing coordinates.
func NewPoseFromXY(easting, northing, heading float64) Pose {
	return NewPose(r2.Point{X: easting, Y: northing}, heading)
}

// OffsetPerpendicular translates the pose position sideways by the signed
// distance. Positive distances move to the right of the heading
// (perpendicular heading = heading + pi/2), negative to the left. The heading
// is unchanged.
func (p Pose) OffsetPerpendicular(distance float64) Pose {
	perp := NormalizeHeading(p.Heading + math.Pi/2)
	return Pose{
		Position: p.Position.Add(HeadingVector(perp).Mul(distance)),
		Heading:  p.Heading,
	}
}

// Direction returns the unit vector along the pose heading.
func (p Pose) Direction() r2.Point {
	return HeadingVector(p.Heading)
}

// PoseAlmostEqual reports position equality within the default tolerance and
// heading equality within the same tolerance after angle wrapping.
func PoseAlmostEqual(a, b Pose) bool {
	d := AngleDiff(a.Heading, b.Heading)
	return PointsAlmostEqual(a.Position, b.Position) && d < defaultEpsilon && d > -defaultEpsilon
}
