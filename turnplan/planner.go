package turnplan

import (
	"fmt"
	"math"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/floats"

	"github.com/chriskinal/agguidance/headland"
	"github.com/chriskinal/agguidance/spatialmath"
	"github.com/chriskinal/agguidance/track"
)

// Style selects the turn geometry family.
type Style int

const (
	// StyleOmega is the Albin-style bulb turn used when the offset width is
	// smaller than the turning diameter.
	StyleOmega Style = iota
	// StyleWide is the Albin-style semicircular turn used when the offset
	// width allows it.
	StyleWide
	// StyleK is the squared-off turn: quarter arc, cross segment, quarter arc.
	StyleK
)

func (s Style) String() string {
	switch s {
	case StyleOmega:
		return "omega"
	case StyleWide:
		return "wide"
	case StyleK:
		return "k"
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// SkipMode is the policy for choosing the next guidance line.
type SkipMode int

const (
	// SkipNormal advances by the configured skip width.
	SkipNormal SkipMode = iota
	// SkipAlternate toggles between two preconfigured widths on successive
	// turns.
	SkipAlternate
	// SkipIgnoreWorked scans outward for the first unworked pass.
	SkipIgnoreWorked
)

// Kinematics is the vehicle's steering geometry.
type Kinematics struct {
	// Wheelbase in meters.
	Wheelbase float64
	// MaxSteerAngle in radians.
	MaxSteerAngle float64
}

// TurnRadius returns the minimum turning radius implied by the kinematics.
func (k Kinematics) TurnRadius() float64 {
	return k.Wheelbase / math.Tan(k.MaxSteerAngle)
}

// SkipConfig configures destination-line selection.
type SkipConfig struct {
	Mode SkipMode
	// Width is the lateral distance between adjacent passes.
	Width float64
	// AltWidths are the two widths toggled by SkipAlternate.
	AltWidths [2]float64
	// Worked marks pass indices already covered, for SkipIgnoreWorked.
	Worked map[int]bool
	// CurrentPass is the index of the pass being driven.
	CurrentPass int
	// TurnCount is how many turns have been made, the SkipAlternate parity
	// source.
	TurnCount int
	// MaxScan bounds the SkipIgnoreWorked outward search. Zero means the
	// default of 16 passes.
	MaxScan int
}

const defaultMaxScan = 16

// Request is one turn-planning invocation. Exactly one of Line or Curve is
// the current track.
type Request struct {
	Line     *track.ABLine
	Curve    *track.Curve
	Pivot    spatialmath.Pose
	TurnLeft bool
	Style    Style
	Skip     SkipConfig
	Rings    []headland.Ring
}

// TurnPath is a generated turn maneuver. It is created once and read-only
// while being followed; a new turn replaces it wholesale.
type TurnPath struct {
	Points []spatialmath.Pose
	// Style actually used; an Albin request resolves to Omega or Wide.
	Style Style
	// IsOutSameCurve is true when the turn doubles back onto an offset copy
	// of the same curve rather than continuing straight through.
	IsOutSameCurve bool
	// IsOutOfBounds is true when the path crosses any boundary ring. The
	// path is still returned; the caller decides whether to reject it.
	IsOutOfBounds bool
	Entry         spatialmath.Pose
	Exit          spatialmath.Pose
	// EntryDistance is the distance from the pivot to the turn entry.
	EntryDistance float64
	TotalLength   float64
}

// Poses returns the turn path point sequence.
func (tp *TurnPath) Poses() []spatialmath.Pose {
	return tp.Points
}

const defaultPointSeparation = 0.5

// Planner synthesizes turn paths for a fixed vehicle kinematic configuration.
type Planner struct {
	kin    Kinematics
	dubins Dubins
	logger golog.Logger
}

// NewPlanner creates a turn planner.
func NewPlanner(kin Kinematics, logger golog.Logger) *Planner {
	return &Planner{
		kin:    kin,
		dubins: Dubins{Radius: kin.TurnRadius(), PointSeparation: defaultPointSeparation},
		logger: logger,
	}
}

// Plan creates a turn path per the request. Failures (no destination line,
// no feasible geometry) are returned as errors and never retried internally.
// A path that crosses a boundary is returned with IsOutOfBounds set.
func (p *Planner) Plan(req Request) (*TurnPath, error) {
	if req.Line == nil && req.Curve == nil {
		return nil, NewInvalidTrackError()
	}
	if req.Curve != nil && !req.Curve.Valid() {
		return nil, NewInvalidTrackError()
	}
	if p.kin.Wheelbase <= 0 || p.kin.MaxSteerAngle <= 0 {
		return nil, NewPathGenerationError()
	}

	width, err := destinationWidth(req.Skip, req.TurnLeft)
	if err != nil {
		return nil, err
	}

	offset := width
	if req.TurnLeft {
		offset = -width
	}

	entry, exit, err := p.endpoints(req, offset)
	if err != nil {
		return nil, err
	}

	style := req.Style
	var points []spatialmath.Pose
	switch req.Style {
	case StyleK:
		// A squared-off turn cannot reach a line closer than the turning
		// diameter without reversing.
		if width < 2*p.dubins.Radius {
			return nil, errors.Wrap(NewPathGenerationError(), "pass width narrower than the turning diameter")
		}
		points = p.kTurnPoints(entry, width, req.TurnLeft)
	default:
		points, err = p.dubinsPoints(entry, exit)
		if err != nil {
			return nil, err
		}
		if width >= 2*p.dubins.Radius {
			style = StyleWide
		} else {
			style = StyleOmega
		}
	}
	if len(points) < 2 {
		return nil, NewPathGenerationError()
	}

	tp := &TurnPath{
		Points:        points,
		Style:         style,
		Entry:         points[0],
		Exit:          points[len(points)-1],
		EntryDistance: req.Pivot.Position.Sub(points[0].Position).Norm(),
		TotalLength:   pathLength(points),
	}

	directionChange := math.Abs(spatialmath.AngleDiff(tp.Entry.Heading, tp.Exit.Heading)) > math.Pi/2
	tp.IsOutSameCurve = req.Curve != nil && directionChange

	if verr := validateAgainstRings(points, req.Rings); verr != nil {
		tp.IsOutOfBounds = true
		p.logger.Debugw("turn path crosses boundary", "style", style.String(), "error", verr)
	}
	return tp, nil
}

// destinationWidth resolves the lateral distance to the next guidance line
// per the skip mode.
func destinationWidth(skip SkipConfig, turnLeft bool) (float64, error) {
	switch skip.Mode {
	case SkipAlternate:
		w := skip.AltWidths[skip.TurnCount%2]
		if w <= 0 {
			return 0, NewNoDestinationError()
		}
		return w, nil
	case SkipIgnoreWorked:
		if skip.Width <= 0 {
			return 0, NewNoDestinationError()
		}
		maxScan := skip.MaxScan
		if maxScan == 0 {
			maxScan = defaultMaxScan
		}
		dir := 1
		if turnLeft {
			dir = -1
		}
		for n := 1; n <= maxScan; n++ {
			if !skip.Worked[skip.CurrentPass+n*dir] {
				return float64(n) * skip.Width, nil
			}
		}
		return 0, NewNoDestinationError()
	default:
		if skip.Width <= 0 {
			return 0, NewNoDestinationError()
		}
		return skip.Width, nil
	}
}

// endpoints computes the turn entry pose on the current track and the exit
// pose on the destination line.
func (p *Planner) endpoints(req Request, offset float64) (spatialmath.Pose, spatialmath.Pose, error) {
	var current []spatialmath.Pose
	var dest []spatialmath.Pose
	if req.Line != nil {
		current = req.Line.Poses()
		dest = req.Line.Nudge(offset).Poses()
	} else {
		current = req.Curve.Poses()
		moved := req.Curve.Nudge(offset)
		if !moved.Valid() {
			return spatialmath.Pose{}, spatialmath.Pose{},
				errors.Wrap(NewNoDestinationError(), "offset curve collapsed below minimum points")
		}
		dest = moved.Poses()
	}

	entry := projectOntoPath(current, req.Pivot.Position)
	// Orient the entry along the vehicle's direction of travel.
	if entry.Direction().Dot(req.Pivot.Direction()) < 0 {
		entry.Heading = spatialmath.NormalizeHeading(entry.Heading + math.Pi)
	}

	exit := projectOntoPath(dest, entry.Position)
	// The exit is driven in the opposite direction.
	if exit.Direction().Dot(entry.Direction()) > 0 {
		exit.Heading = spatialmath.NormalizeHeading(exit.Heading + math.Pi)
	}
	return entry, exit, nil
}

// projectOntoPath returns the closest pose on the polyline to pt, with the
// heading of the closest segment.
func projectOntoPath(path []spatialmath.Pose, pt r2.Point) spatialmath.Pose {
	best := path[0]
	bestDist := math.Inf(1)
	for i := 0; i < len(path)-1; i++ {
		a := path[i].Position
		b := path[i+1].Position
		closest, _ := spatialmath.ClosestPointOnSegment(a, b, pt)
		if d := pt.Sub(closest).Norm(); d < bestDist {
			bestDist = d
			best = spatialmath.NewPose(closest, spatialmath.HeadingBetween(a, b))
		}
	}
	return best
}

// dubinsPoints solves the shortest feasible Dubins path between the poses and
// samples it.
func (p *Planner) dubinsPoints(entry, exit spatialmath.Pose) ([]spatialmath.Pose, error) {
	start := toMathPose(entry)
	end := toMathPose(exit)
	attrs := p.dubins.AllPaths(start, end, true)
	best := attrs[0]
	if math.IsInf(best.TotalLen, 1) {
		return nil, NewPathGenerationError()
	}
	return fromMathPoints(p.dubins.generatePoints(start, end, best)), nil
}

// kTurnPoints builds the squared-off turn: quarter arc, lateral cross
// segment, quarter arc, all at the kinematic radius.
func (p *Planner) kTurnPoints(entry spatialmath.Pose, width float64, turnLeft bool) []spatialmath.Pose {
	radius := p.dubins.Radius
	// Non-negative: narrower widths are rejected before this is called.
	cross := width - 2*radius

	side := segRight
	if turnLeft {
		side = segLeft
	}
	attr := DubinPathAttr{
		DubinsPath: [3]float64{math.Pi / 2, cross / radius, math.Pi / 2},
		Straight:   true,
		word:       [3]int{side, segStraight, side},
	}
	attr.TotalLen = (attr.DubinsPath[0] + attr.DubinsPath[1] + attr.DubinsPath[2]) * radius

	start := toMathPose(entry)
	end := start
	for i, param := range attr.DubinsPath {
		end = p.dubins.poseAlong(end, attr.word[i], param*radius)
	}
	return fromMathPoints(p.dubins.generatePoints(start, end, attr))
}

// validateAgainstRings checks every path segment against every ring edge,
// aggregating one error per crossed ring.
func validateAgainstRings(points []spatialmath.Pose, rings []headland.Ring) error {
	var result error
	for ri, ring := range rings {
		n := len(ring.Points)
		if n < 2 {
			continue
		}
		crossed := false
		for i := 0; i < len(points)-1 && !crossed; i++ {
			for j := 0; j < n; j++ {
				a := ring.Points[j].Position
				b := ring.Points[(j+1)%n].Position
				if spatialmath.SegmentsIntersect(points[i].Position, points[i+1].Position, a, b) {
					crossed = true
					break
				}
			}
		}
		if crossed {
			result = multierr.Append(result, errors.Errorf("turn path crosses boundary ring %d", ri))
		}
	}
	return result
}

func pathLength(points []spatialmath.Pose) float64 {
	if len(points) < 2 {
		return 0
	}
	segs := make([]float64, len(points)-1)
	for i := 1; i < len(points); i++ {
		segs[i-1] = points[i].Position.Sub(points[i-1].Position).Norm()
	}
	return floats.Sum(segs)
}

// toMathPose converts a compass-heading pose to []float64{x, y, theta} with a
// counterclockwise mathematical angle.
func toMathPose(p spatialmath.Pose) []float64 {
	return []float64{p.Position.X, p.Position.Y, math.Pi/2 - p.Heading}
}

// fromMathPoints converts sampled {x, y, theta} points back to compass poses.
func fromMathPoints(points [][]float64) []spatialmath.Pose {
	out := make([]spatialmath.Pose, len(points))
	for i, pt := range points {
		out[i] = spatialmath.NewPoseFromXY(pt[0], pt[1], math.Pi/2-pt[2])
	}
	return out
}
