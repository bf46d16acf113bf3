// Package guidance computes one steering decision per tick for a vehicle
// following a guidance path: an AB line, a recorded curve, or a generated
// turn path. Two control laws are available, Pure Pursuit and Stanley.
package guidance

import (
	"github.com/chriskinal/agguidance/spatialmath"
	"github.com/chriskinal/agguidance/turnplan"
)

// Path is anything the controller can follow.
type Path interface {
	Poses() []spatialmath.Pose
}

// State is the session's progress through its path.
type State int

const (
	// StateFollowing means the vehicle is progressing along the path.
	StateFollowing State = iota
	// StateCompleting means the vehicle is on the final segment.
	StateCompleting
	// StateComplete means the path has been fully traversed.
	StateComplete
)

// CompletionPolicy is how "reached the end" is decided. It is style
// dependent: Albin turns complete on crossing the perpendicular through the
// last point, K turns on a proximity radius.
type CompletionPolicy int

const (
	// CompleteOnPerpendicular finishes when the vehicle crosses the line
	// perpendicular to the final point's heading.
	CompleteOnPerpendicular CompletionPolicy = iota
	// CompleteOnProximity finishes when the vehicle is within the proximity
	// radius of the final point.
	CompleteOnProximity
)

const defaultProximityRadius = 1.0

// Session owns one path for the duration of one maneuver: the path points,
// the progress index, and the completion policy. It is the only state the
// guidance core carries between ticks; a new maneuver gets a new session.
type Session struct {
	points          []spatialmath.Pose
	state           State
	segment         int
	policy          CompletionPolicy
	proximityRadius float64
	isTurn          bool
}

// NewSession starts a session over the given path. A path with fewer than
// two points is rejected by reporting immediate completion.
func NewSession(path Path, policy CompletionPolicy) *Session {
	s := &Session{
		points:          path.Poses(),
		policy:          policy,
		proximityRadius: defaultProximityRadius,
	}
	if len(s.points) < 2 {
		s.state = StateComplete
	}
	return s
}

// NewTurnSession starts a session over a generated turn path, choosing the
// completion policy from the turn style.
func NewTurnSession(tp *turnplan.TurnPath) *Session {
	policy := CompleteOnPerpendicular
	if tp.Style == turnplan.StyleK {
		policy = CompleteOnProximity
	}
	s := NewSession(tp, policy)
	s.isTurn = true
	return s
}

// State returns the session's current progress state.
func (s *Session) State() State {
	return s.state
}

// Done reports whether the path has been completed.
func (s *Session) Done() bool {
	return s.state == StateComplete
}

// Segment returns the current closest-segment index along the path.
func (s *Session) Segment() int {
	return s.segment
}
