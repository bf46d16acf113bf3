package headland

import (
	"testing"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r2"
	"go.viam.com/test"

	"github.com/chriskinal/agguidance/spatialmath"
	"github.com/chriskinal/agguidance/track"
)

// squareRing builds a clockwise ring around the square from (0,0) to
// (side,side), with vertices every step meters and headings populated.
func squareRing(side, step float64) Ring {
	var points []spatialmath.Pose
	for y := 0.0; y < side; y += step {
		points = append(points, spatialmath.Pose{Position: r2.Point{X: 0, Y: y}})
	}
	for x := 0.0; x < side; x += step {
		points = append(points, spatialmath.Pose{Position: r2.Point{X: x, Y: side}})
	}
	for y := side; y > 0; y -= step {
		points = append(points, spatialmath.Pose{Position: r2.Point{X: side, Y: y}})
	}
	for x := side; x > 0; x -= step {
		points = append(points, spatialmath.Pose{Position: r2.Point{X: x, Y: 0}})
	}
	track.RecomputeHeadings(points)
	return Ring{Points: points}
}

func TestRingContains(t *testing.T) {
	ring := squareRing(100, 5)

	test.That(t, ring.Contains(r2.Point{X: 50, Y: 50}), test.ShouldBeTrue)
	test.That(t, ring.Contains(r2.Point{X: 1, Y: 1}), test.ShouldBeTrue)
	test.That(t, ring.Contains(r2.Point{X: -1, Y: 50}), test.ShouldBeFalse)
	test.That(t, ring.Contains(r2.Point{X: 50, Y: 101}), test.ShouldBeFalse)
	test.That(t, ring.Contains(r2.Point{X: 200, Y: 200}), test.ShouldBeFalse)
}

func TestRingNearestVertex(t *testing.T) {
	ring := squareRing(100, 5)

	pt, dist := ring.NearestVertex(r2.Point{X: 3, Y: 50})
	test.That(t, pt.X, test.ShouldEqual, 0)
	test.That(t, pt.Y, test.ShouldEqual, 50)
	test.That(t, dist, test.ShouldAlmostEqual, 3)
}

func TestNewLineInset(t *testing.T) {
	ring := squareRing(100, 5)
	line := NewLine(ring, 5)

	// A clockwise ring insets toward the interior: the derived line no
	// longer contains points near the fence but still contains the middle.
	test.That(t, line.Ring.Contains(r2.Point{X: 50, Y: 50}), test.ShouldBeTrue)
	test.That(t, line.Ring.Contains(r2.Point{X: 2, Y: 50}), test.ShouldBeFalse)

	// Deriving is a copy: mutating the source ring afterwards does not move
	// the headland line.
	before := line.Ring.Points[0].Position
	ring.Points[0].Position = r2.Point{X: -50, Y: -50}
	test.That(t, line.Ring.Points[0].Position, test.ShouldResemble, before)
}

func TestDetectorInHeadland(t *testing.T) {
	logger := golog.NewTestLogger(t)
	outer := NewLine(squareRing(100, 5), 5)
	detector := NewDetector([]Line{outer}, Config{WarnDistance: 10}, logger)

	// Deep inside the field, outside the headland band.
	test.That(t, detector.InHeadland(r2.Point{X: 50, Y: 50}), test.ShouldBeFalse)
	// Between fence and headland line.
	test.That(t, detector.InHeadland(r2.Point{X: 2, Y: 50}), test.ShouldBeTrue)
	// Outside the field entirely still counts as headland side.
	test.That(t, detector.InHeadland(r2.Point{X: -5, Y: 50}), test.ShouldBeTrue)
}

func TestDetectorDriveThroughHole(t *testing.T) {
	logger := golog.NewTestLogger(t)
	outer := NewLine(squareRing(100, 5), 5)

	// A drive-through hole in the middle of the field: its headland line is
	// the band around the hole, here modeled directly as a ring.
	holeBand := Line{Ring: Ring{
		Points: []spatialmath.Pose{
			{Position: r2.Point{X: 60, Y: 40}},
			{Position: r2.Point{X: 80, Y: 40}},
			{Position: r2.Point{X: 80, Y: 60}},
			{Position: r2.Point{X: 60, Y: 60}},
		},
		DriveThrough: true,
	}}

	detector := NewDetector([]Line{outer, holeBand}, Config{WarnDistance: 10}, logger)

	// The hole inverts the containment test.
	test.That(t, detector.InHeadland(r2.Point{X: 70, Y: 50}), test.ShouldBeTrue)
	test.That(t, detector.InHeadland(r2.Point{X: 30, Y: 50}), test.ShouldBeFalse)
}

func TestClassifyFarFromHeadland(t *testing.T) {
	logger := golog.NewTestLogger(t)
	outer := NewLine(squareRing(100, 5), 5)
	detector := NewDetector([]Line{outer}, Config{LookaheadOn: 4, WarnDistance: 10}, logger)

	pivot := spatialmath.NewPoseFromXY(50, 50, 0)
	sections := []ToolSection{
		{Left: r2.Point{X: 47, Y: 50}, Right: r2.Point{X: 50, Y: 50}, Width: 3},
		{Left: r2.Point{X: 50, Y: 50}, Right: r2.Point{X: 53, Y: 50}, Width: 3},
	}

	result := detector.Classify(pivot, sections)
	test.That(t, result.ToolLeftIn, test.ShouldBeFalse)
	test.That(t, result.ToolRightIn, test.ShouldBeFalse)
	test.That(t, result.Warn, test.ShouldBeFalse)
	test.That(t, result.NearestDistance, test.ShouldBeGreaterThan, 10.0)
	for _, s := range result.Sections {
		test.That(t, s.CornersIn, test.ShouldBeFalse)
		test.That(t, s.LookaheadIn, test.ShouldBeFalse)
	}
}

func TestClassifyNearHeadland(t *testing.T) {
	logger := golog.NewTestLogger(t)
	outer := NewLine(squareRing(100, 5), 5)
	detector := NewDetector([]Line{outer}, Config{LookaheadOn: 4, WarnDistance: 10}, logger)

	// Vehicle just inside the headland line on the west side, tool hanging
	// into the band.
	pivot := spatialmath.NewPoseFromXY(8, 50, 0)
	sections := []ToolSection{
		{Left: r2.Point{X: 4, Y: 50}, Right: r2.Point{X: 8, Y: 50}, Width: 4},
		{Left: r2.Point{X: 8, Y: 50}, Right: r2.Point{X: 12, Y: 50}, Width: 4},
	}

	result := detector.Classify(pivot, sections)
	test.That(t, result.ToolLeftIn, test.ShouldBeTrue)
	test.That(t, result.ToolRightIn, test.ShouldBeFalse)
	test.That(t, result.Warn, test.ShouldBeTrue)
	test.That(t, result.NearestDistance, test.ShouldAlmostEqual, 3)
	test.That(t, result.Sections[0].CornersIn, test.ShouldBeFalse)
	test.That(t, result.Sections[1].CornersIn, test.ShouldBeFalse)
}

func TestClassifyLookaheadPoint(t *testing.T) {
	logger := golog.NewTestLogger(t)
	outer := NewLine(squareRing(100, 5), 5)
	detector := NewDetector([]Line{outer}, Config{LookaheadOn: 5, WarnDistance: 6}, logger)

	// Driving north close to the top headland line: the section lookahead
	// point pokes into the band before the section itself does.
	pivot := spatialmath.NewPoseFromXY(50, 92, 0)
	sections := []ToolSection{
		{Left: r2.Point{X: 48, Y: 92}, Right: r2.Point{X: 52, Y: 92}, Width: 4},
	}

	result := detector.Classify(pivot, sections)
	test.That(t, result.Sections[0].CornersIn, test.ShouldBeFalse)
	test.That(t, result.Sections[0].LookaheadIn, test.ShouldBeTrue)
}

func TestClassifyLookaheadOffBeforeOn(t *testing.T) {
	logger := golog.NewTestLogger(t)
	outer := NewLine(squareRing(100, 5), 5)
	detector := NewDetector([]Line{outer}, Config{LookaheadOn: 2, LookaheadOff: 5, WarnDistance: 6}, logger)

	// The off-trigger point sits further ahead than the on-trigger point, so
	// approaching the top band it enters first.
	pivot := spatialmath.NewPoseFromXY(50, 92, 0)
	sections := []ToolSection{
		{Left: r2.Point{X: 48, Y: 92}, Right: r2.Point{X: 52, Y: 92}, Width: 4},
	}

	result := detector.Classify(pivot, sections)
	test.That(t, result.Sections[0].CornersIn, test.ShouldBeFalse)
	test.That(t, result.Sections[0].LookaheadIn, test.ShouldBeFalse)
	test.That(t, result.Sections[0].LookaheadOffIn, test.ShouldBeTrue)
}

func TestClassifyToolWidthFallback(t *testing.T) {
	logger := golog.NewTestLogger(t)
	outer := NewLine(squareRing(100, 5), 5)
	detector := NewDetector([]Line{outer}, Config{ToolWidth: 8, WarnDistance: 10}, logger)

	// Without a section snapshot the configured implement width stands in:
	// half the tool hangs into the west band.
	result := detector.Classify(spatialmath.NewPoseFromXY(7, 50, 0), nil)
	test.That(t, result.ToolLeftIn, test.ShouldBeTrue)
	test.That(t, result.ToolRightIn, test.ShouldBeFalse)
	test.That(t, result.Sections, test.ShouldBeEmpty)
}

func TestClassifyEmptyLines(t *testing.T) {
	logger := golog.NewTestLogger(t)
	detector := NewDetector(nil, Config{}, logger)

	result := detector.Classify(spatialmath.NewPoseFromXY(0, 0, 0), nil)
	test.That(t, result.Warn, test.ShouldBeFalse)
	test.That(t, detector.InHeadland(r2.Point{X: 1, Y: 1}), test.ShouldBeFalse)
	test.That(t, result.Sections, test.ShouldBeEmpty)
}
