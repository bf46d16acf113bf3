// Package headland classifies vehicle and implement positions against field
// boundaries: whether tool sections sit in the headland band, how far the
// nearest headland line is, and whether a proximity warning should fire.
package headland

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/chriskinal/agguidance/spatialmath"
)

// Ring is a closed boundary loop. The first ring of a field is the outer
// fence; subsequent rings are holes, each flagged drive-through (the vehicle
// may cross it) or not (an obstacle).
type Ring struct {
	Points       []spatialmath.Pose
	DriveThrough bool
}

// Contains reports whether pt lies inside the ring, by ray casting against
// every edge. The ring is treated as closed: the last point connects back to
// the first.
func (r Ring) Contains(pt r2.Point) bool {
	n := len(r.Points)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		pi := r.Points[i].Position
		pj := r.Points[j].Position
		if (pi.Y > pt.Y) != (pj.Y > pt.Y) &&
			pt.X < (pj.X-pi.X)*(pt.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// NearestVertex returns the ring vertex closest to pt and its distance.
// Ties keep the first vertex found in traversal order.
func (r Ring) NearestVertex(pt r2.Point) (r2.Point, float64) {
	best := r2.Point{}
	bestDist := math.Inf(1)
	for _, p := range r.Points {
		if d := p.Position.Sub(pt).Norm(); d < bestDist {
			bestDist = d
			best = p.Position
		}
	}
	return best, bestDist
}

// Line is a headland line: a boundary-offset ring derived from a source Ring
// at a configured inset. It is a separate entity; editing the source ring
// does not update it, the caller must regenerate.
type Line struct {
	Ring Ring
}

// NewLine derives a headland line from the source ring by offsetting every
// vertex perpendicular to its own heading by the signed inset distance.
// For a ring recorded clockwise, a positive inset moves the line toward the
// field interior.
func NewLine(source Ring, inset float64) Line {
	points := make([]spatialmath.Pose, len(source.Points))
	for i, p := range source.Points {
		points[i] = p.OffsetPerpendicular(inset)
	}
	return Line{Ring: Ring{Points: points, DriveThrough: source.DriveThrough}}
}
