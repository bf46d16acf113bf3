package guidance

import (
	"math"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r2"

	"github.com/chriskinal/agguidance/spatialmath"
)

// VehicleState is the per-tick vehicle snapshot. Pivot is the Pure Pursuit
// reference point (steering-axle turning center); Steer is the Stanley
// reference point (front axle).
type VehicleState struct {
	Pivot   r2.Point
	Steer   r2.Point
	Heading float64
	Speed   float64
	Reverse bool
}

// Output is one steering decision. It is a pure function result; nothing in
// it is accumulated across ticks.
type Output struct {
	// SteerAngleDeg is the signed steering command in degrees. Positive
	// steers right.
	SteerAngleDeg float64
	// CrossTrack is the signed lateral error in meters; positive means the
	// vehicle is right of the line.
	CrossTrack float64
	// CrossTrackMM and SteerAngleCD mirror the above for fixed-point
	// consumers (millimeters, centidegrees).
	CrossTrackMM int
	SteerAngleCD int
	// GoalPoint and PursuitRadius are Pure Pursuit visualization aids.
	GoalPoint     r2.Point
	PursuitRadius float64
	// Completed is true once the session has finished its path.
	Completed bool
	// SegmentIndex is the path-progress index after this tick.
	SegmentIndex int
}

// PurePursuitConfig holds the Pure Pursuit gains.
type PurePursuitConfig struct {
	// GoalPointDistance is the lookahead arc length in meters.
	GoalPointDistance float64
	// Wheelbase in meters.
	Wheelbase float64
	// MaxSteerAngle in radians.
	MaxSteerAngle float64
	// UTurnCompensation scales the steer angle while following a turn path.
	// Zero means no scaling.
	UTurnCompensation float64
}

// StanleyConfig holds the Stanley gains.
type StanleyConfig struct {
	HeadingGain  float64
	DistanceGain float64
	// MaxSteerAngle in radians.
	MaxSteerAngle float64
	// SpeedFloor is the minimum speed term, guarding the division at
	// near-zero speed. Zero means the default of 0.5 m/s.
	SpeedFloor float64
}

const defaultSpeedFloor = 0.5

// progressWindow bounds the closest-segment search each tick: one segment
// back from the current index, this many forward. Progress never requires a
// full path re-scan.
const progressWindow = 10

// Controller computes steering decisions. It is stateless across ticks; all
// maneuver state lives in the Session passed to each Update call.
type Controller struct {
	pursuit PurePursuitConfig
	stanley StanleyConfig
	logger  golog.Logger
}

// NewController creates a controller with the given gain sets.
func NewController(pursuit PurePursuitConfig, stanley StanleyConfig, logger golog.Logger) *Controller {
	return &Controller{pursuit: pursuit, stanley: stanley, logger: logger}
}

// Update advances the session one tick and returns the steering decision.
// useStanley selects the control law; otherwise Pure Pursuit is used.
func (c *Controller) Update(s *Session, vs VehicleState, useStanley bool) Output {
	if s == nil || s.state == StateComplete {
		return Output{Completed: true}
	}

	seg := c.advance(s, vs.Pivot)
	if c.checkComplete(s, vs.Pivot) {
		s.state = StateComplete
		if c.logger != nil {
			c.logger.Debugw("path complete", "segments", len(s.points)-1)
		}
		return Output{Completed: true, SegmentIndex: seg}
	}

	var out Output
	if useStanley {
		out = c.stanleyStep(s, vs)
	} else {
		out = c.pursuitStep(s, vs)
	}
	out.SegmentIndex = seg
	out.CrossTrackMM = int(math.Round(out.CrossTrack * 1000))
	out.SteerAngleCD = int(math.Round(out.SteerAngleDeg * 100))
	return out
}

// advance moves the session's closest-segment index forward using a windowed
// scan around the current index.
func (c *Controller) advance(s *Session, ref r2.Point) int {
	lastSeg := len(s.points) - 2
	lo := s.segment - 1
	if lo < 0 {
		lo = 0
	}
	hi := s.segment + progressWindow
	if hi > lastSeg {
		hi = lastSeg
	}

	best := s.segment
	bestDist := math.Inf(1)
	for i := lo; i <= hi; i++ {
		d := spatialmath.DistanceToSegment(s.points[i].Position, s.points[i+1].Position, ref)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	s.segment = best
	if best == lastSeg {
		s.state = StateCompleting
	}
	return best
}

// checkComplete applies the session's completion policy once the vehicle is
// on the final segment.
func (c *Controller) checkComplete(s *Session, ref r2.Point) bool {
	if s.state != StateCompleting {
		return false
	}
	last := s.points[len(s.points)-1]
	toVehicle := ref.Sub(last.Position)
	switch s.policy {
	case CompleteOnProximity:
		return toVehicle.Norm() < s.proximityRadius
	default:
		// Crossed the perpendicular through the last point.
		return toVehicle.Dot(last.Direction()) >= 0
	}
}

// crossTrack returns the signed lateral distance from ref to the segment,
// positive when ref is right of the direction of travel.
func crossTrack(a, b spatialmath.Pose, ref r2.Point) float64 {
	closest, _ := spatialmath.ClosestPointOnSegment(a.Position, b.Position, ref)
	dir := b.Position.Sub(a.Position)
	norm := dir.Norm()
	if norm == 0 {
		return ref.Sub(closest).Norm()
	}
	offset := ref.Sub(closest)
	return -dir.Mul(1 / norm).Cross(offset)
}
