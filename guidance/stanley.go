package guidance

import (
	"math"

	"github.com/chriskinal/agguidance/spatialmath"
)

// stanleyStep runs one Stanley update: heading error plus the arctangent
// cross-track term, computed at the steer-axle reference point.
func (c *Controller) stanleyStep(s *Session, vs VehicleState) Output {
	a := s.points[s.segment]
	b := s.points[s.segment+1]
	xte := crossTrack(a, b, vs.Steer)

	pathHeading := b.Heading
	// Signed rotation from the vehicle heading to the path heading, positive
	// clockwise (steer right).
	headingErr := spatialmath.AngleDiff(vs.Heading, pathHeading)

	speedTerm := math.Abs(vs.Speed)
	floor := c.stanley.SpeedFloor
	if floor <= 0 {
		floor = defaultSpeedFloor
	}
	if speedTerm < floor {
		speedTerm = floor
	}

	// Positive cross track (right of line) must steer left, so the error
	// enters negated.
	steer := headingErr + math.Atan(c.stanley.HeadingGain*(c.stanley.DistanceGain*-xte)/speedTerm)
	if vs.Reverse {
		steer = -steer
	}
	steer = clampSteer(steer, c.stanley.MaxSteerAngle)

	return Output{
		SteerAngleDeg: steer * 180 / math.Pi,
		CrossTrack:    xte,
	}
}
