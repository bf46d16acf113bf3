package track

import (
	"math"

	"github.com/chriskinal/agguidance/spatialmath"
)

const (
	// minKeptSpacing is the minimum distance between consecutive points
	// retained after the offset pass.
	minKeptSpacing = 1.0
	// resampleSpacing is the target gap for Catmull-Rom re-densification.
	resampleSpacing = 1.2
)

// Nudge returns a copy of the AB line translated perpendicular to its heading
// by the signed distance. Positive is to the right of travel.
func (l ABLine) Nudge(distance float64) ABLine {
	perp := spatialmath.NormalizeHeading(l.Heading + math.Pi/2)
	offset := spatialmath.HeadingVector(perp).Mul(distance)
	return ABLine{A: l.A.Add(offset), B: l.B.Add(offset), Heading: l.Heading}
}

// Nudge returns a fresh curve offset perpendicular to the original by the
// signed distance, filtered against fold-back at tight bends and re-smoothed.
// An invalid input curve, or a curve filtered below the minimum point count,
// yields an empty curve. The receiver is never mutated.
func (c Curve) Nudge(distance float64) Curve {
	if !c.Valid() {
		return Curve{}
	}

	kept := offsetAndFilter(c.Points, distance)
	if len(kept) < MinCurvePoints {
		return Curve{}
	}

	// Headings of the raw offset points, before re-densification. The last
	// point has no successor so it copies its neighbor.
	for i := 0; i < len(kept)-1; i++ {
		kept[i].Heading = spatialmath.HeadingBetween(kept[i].Position, kept[i+1].Position)
	}
	kept[len(kept)-1].Heading = kept[len(kept)-2].Heading

	smoothed := resample(kept)
	RecomputeHeadings(smoothed)
	return Curve{Points: smoothed}
}

// offsetAndFilter translates every point sideways by its own heading, then
// drops points that fold back onto the original curve or crowd their
// predecessor. The first point is always kept.
func offsetAndFilter(original []spatialmath.Pose, distance float64) []spatialmath.Pose {
	// An offset point closer than sqrt(distance^2 - 0.01) to the source curve
	// has folded back into the bend it was offset from. For tiny distances
	// the limit goes negative and the guard is inert.
	foldLimitSq := distance*distance - 0.01

	kept := make([]spatialmath.Pose, 0, len(original))
	for i, p := range original {
		moved := p.OffsetPerpendicular(distance)
		if i == 0 {
			kept = append(kept, moved)
			continue
		}
		if foldLimitSq > 0 && foldsBack(moved, original, foldLimitSq) {
			continue
		}
		if moved.Position.Sub(kept[len(kept)-1].Position).Norm() < minKeptSpacing {
			continue
		}
		kept = append(kept, moved)
	}
	return kept
}

func foldsBack(moved spatialmath.Pose, original []spatialmath.Pose, limitSq float64) bool {
	for _, o := range original {
		diff := moved.Position.Sub(o.Position)
		if diff.Dot(diff) < limitSq {
			return true
		}
	}
	return false
}

// resample walks consecutive quadruples of points and inserts Catmull-Rom
// interpolated points wherever the gap between the middle two control points
// exceeds the spacing target. The raw first two and last two points are kept
// verbatim.
func resample(points []spatialmath.Pose) []spatialmath.Pose {
	n := len(points)
	out := make([]spatialmath.Pose, 0, n*2)
	out = append(out, points[0], points[1])

	for i := 0; i < n-3; i++ {
		p0 := points[i].Position
		p1 := points[i+1].Position
		p2 := points[i+2].Position
		p3 := points[i+3].Position

		gap := p2.Sub(p1).Norm()
		if gap > resampleSpacing {
			loopTimes := int(gap/resampleSpacing) + 1
			for j := 1; j < loopTimes; j++ {
				t := float64(j) / float64(loopTimes)
				pt := spatialmath.CatmullRom(p0, p1, p2, p3, t)
				out = append(out, spatialmath.Pose{Position: pt})
			}
		}
		out = append(out, points[i+2])
	}

	out = append(out, points[n-1])
	return out
}
