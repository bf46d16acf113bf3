package guidance

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/chriskinal/agguidance/spatialmath"
)

// pursuitStep runs one Pure Pursuit update against the session's current
// segment. The goal point sits GoalPointDistance of arc length ahead of the
// pivot's projection, never behind it.
func (c *Controller) pursuitStep(s *Session, vs VehicleState) Output {
	a := s.points[s.segment]
	b := s.points[s.segment+1]
	xte := crossTrack(a, b, vs.Pivot)

	goal := c.goalPoint(s, vs.Pivot)
	toGoal := goal.Sub(vs.Pivot)
	dist := toGoal.Norm()

	out := Output{CrossTrack: xte, GoalPoint: goal, PursuitRadius: math.Inf(1)}
	if dist < 1e-6 {
		return out
	}

	// Lateral offset of the goal in the vehicle frame, positive right.
	right := spatialmath.HeadingVector(vs.Heading + math.Pi/2)
	lateral := toGoal.Dot(right)
	if math.Abs(lateral) < 1e-9 {
		out.SteerAngleDeg = 0
		return out
	}

	// dist is the actual pivot-to-goal distance, not GoalPointDistance: once
	// the goal truncates at the final point the arc tightens with it.
	radius := (dist * dist) / (2 * lateral)
	steer := math.Atan(c.pursuit.Wheelbase / radius)
	if s.isTurn && c.pursuit.UTurnCompensation > 0 {
		steer *= c.pursuit.UTurnCompensation
	}
	steer = clampSteer(steer, c.pursuit.MaxSteerAngle)

	out.PursuitRadius = radius
	out.SteerAngleDeg = steer * 180 / math.Pi
	return out
}

// goalPoint walks the path forward from the pivot's projection, accumulating
// arc length until GoalPointDistance is consumed. If the path runs out the
// final point is the goal.
func (c *Controller) goalPoint(s *Session, pivot r2.Point) r2.Point {
	a := s.points[s.segment].Position
	b := s.points[s.segment+1].Position
	start, _ := spatialmath.ClosestPointOnSegment(a, b, pivot)

	remaining := c.pursuit.GoalPointDistance
	current := start
	for i := s.segment; i < len(s.points)-1; i++ {
		segEnd := s.points[i+1].Position
		segLen := segEnd.Sub(current).Norm()
		if segLen >= remaining {
			if segLen == 0 {
				return segEnd
			}
			return spatialmath.Lerp(current, segEnd, remaining/segLen)
		}
		remaining -= segLen
		current = segEnd
	}
	return s.points[len(s.points)-1].Position
}

func clampSteer(steer, maxSteer float64) float64 {
	if maxSteer <= 0 {
		return steer
	}
	if steer > maxSteer {
		return maxSteer
	}
	if steer < -maxSteer {
		return -maxSteer
	}
	return steer
}
