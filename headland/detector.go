package headland

import (
	"math"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r2"

	"github.com/chriskinal/agguidance/spatialmath"
)

// ToolSection is a runtime snapshot of one implement section: its outer
// corner points and width.
type ToolSection struct {
	Left  r2.Point
	Right r2.Point
	Width float64
}

// Config carries the detector's lookahead geometry, all in meters.
type Config struct {
	// LookaheadOn is how far ahead of a section the on-trigger point sits.
	LookaheadOn float64
	// LookaheadOff is how far ahead the off-trigger point sits.
	LookaheadOff float64
	// ToolWidth is the full implement width.
	ToolWidth float64
	// WarnDistance is the range inside which the proximity warning fires.
	WarnDistance float64
}

// SectionStatus is the headland classification of a single tool section.
type SectionStatus struct {
	// CornersIn is true when both section corners are in the headland band.
	CornersIn bool
	// LookaheadIn is true when the section's on-trigger lookahead point is in
	// the band.
	LookaheadIn bool
	// LookaheadOffIn is true when the off-trigger lookahead point is in the
	// band.
	LookaheadOffIn bool
}

// Classification is the detector's per-call result record.
type Classification struct {
	// ToolLeftIn and ToolRightIn are the outermost tool corner flags.
	ToolLeftIn  bool
	ToolRightIn bool
	// Sections holds per-section status, index-aligned with the input.
	Sections []SectionStatus
	// NearestPoint is the closest headland vertex to the pivot.
	NearestPoint r2.Point
	// NearestDistance is the pivot's distance to NearestPoint.
	NearestDistance float64
	// Warn is true when NearestDistance is inside the warning range.
	Warn bool
}

// Detector evaluates headland proximity and containment. It holds only the
// headland lines and configuration; vehicle and tool state arrive fresh each
// call.
type Detector struct {
	lines  []Line
	config Config
	logger golog.Logger
}

// NewDetector builds a detector over the given headland lines. The first line
// must derive from the outer boundary; the rest from hole rings.
func NewDetector(lines []Line, config Config, logger golog.Logger) *Detector {
	return &Detector{lines: lines, config: config, logger: logger}
}

// InHeadland reports whether pt lies in the headland band. Against the outer
// line the band is everything not inside the line; drive-through hole lines
// invert the test, so being inside a hole's headland line counts as headland.
func (d *Detector) InHeadland(pt r2.Point) bool {
	if len(d.lines) == 0 {
		return false
	}
	if !d.lines[0].Ring.Contains(pt) {
		return true
	}
	for _, line := range d.lines[1:] {
		if line.Ring.DriveThrough && line.Ring.Contains(pt) {
			return true
		}
	}
	return false
}

// Classify evaluates the vehicle pose and tool sections against the headland
// lines and returns the full classification record.
func (d *Detector) Classify(pivot spatialmath.Pose, sections []ToolSection) Classification {
	result := Classification{
		Sections:        make([]SectionStatus, len(sections)),
		NearestDistance: math.Inf(1),
	}

	for _, line := range d.lines {
		pt, dist := line.Ring.NearestVertex(pivot.Position)
		if dist < result.NearestDistance {
			result.NearestDistance = dist
			result.NearestPoint = pt
		}
	}
	result.Warn = result.NearestDistance < d.config.WarnDistance

	heading := pivot.Direction()
	if len(sections) > 0 {
		result.ToolLeftIn = d.InHeadland(sections[0].Left)
		result.ToolRightIn = d.InHeadland(sections[len(sections)-1].Right)
	} else if d.config.ToolWidth > 0 {
		// No section snapshot supplied: fall back to the configured implement
		// width, centered on the pivot.
		right := spatialmath.HeadingVector(pivot.Heading + math.Pi/2)
		half := d.config.ToolWidth / 2
		result.ToolLeftIn = d.InHeadland(pivot.Position.Sub(right.Mul(half)))
		result.ToolRightIn = d.InHeadland(pivot.Position.Add(right.Mul(half)))
	}

	for i, s := range sections {
		leftIn := d.InHeadland(s.Left)
		rightIn := d.InHeadland(s.Right)
		result.Sections[i].CornersIn = leftIn && rightIn

		mid := spatialmath.Lerp(s.Left, s.Right, 0.5)
		result.Sections[i].LookaheadIn = d.InHeadland(mid.Add(heading.Mul(d.config.LookaheadOn)))
		result.Sections[i].LookaheadOffIn = d.InHeadland(mid.Add(heading.Mul(d.config.LookaheadOff)))
	}

	if result.Warn && d.logger != nil {
		d.logger.Debugw("headland proximity warning", "distance", result.NearestDistance)
	}
	return result
}
