// Package turnplan synthesizes end-of-row turn paths connecting the current
// guidance line to the next one, honoring a turn style and the vehicle's
// kinematic turn radius, and validates them against field boundaries.
package turnplan

import (
	"math"
	"sort"
)

// segment kinds of a Dubins word.
const (
	segLeft = iota
	segStraight
	segRight
)

// Dubins solves for shortest paths under Dubins car kinematics: a vehicle
// moving forward at a bounded turning radius. Poses are []float64{x, y, theta}
// with theta a mathematical angle (counterclockwise from +x).
type Dubins struct {
	// Radius is the minimum turning radius.
	Radius float64
	// PointSeparation is the sampling distance used when generating points.
	PointSeparation float64
}

// DubinPathAttr describes one candidate Dubins path. DubinsPath holds the
// three segment parameters in radius units (arc segments in radians, the
// straight segment, if any, in radius-scaled length). Straight is true for
// CSC words, false for CCC.
type DubinPathAttr struct {
	TotalLen   float64
	DubinsPath [3]float64
	Straight   bool
	word       [3]int
}

func mod2pi(theta float64) float64 {
	theta = math.Mod(theta, 2*math.Pi)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	return theta
}

// AllPaths computes all six Dubins words from start to end. Infeasible words
// get TotalLen = +Inf. When sorts is true the result is ordered by ascending
// total length, shortest first.
func (d *Dubins) AllPaths(start, end []float64, sorts bool) []DubinPathAttr {
	dx := end[0] - start[0]
	dy := end[1] - start[1]
	dist := math.Hypot(dx, dy) / d.Radius
	phi := math.Atan2(dy, dx)
	alpha := mod2pi(start[2] - phi)
	beta := mod2pi(end[2] - phi)

	paths := []DubinPathAttr{
		d.lsl(alpha, beta, dist),
		d.rsr(alpha, beta, dist),
		d.lsr(alpha, beta, dist),
		d.rsl(alpha, beta, dist),
		d.rlr(alpha, beta, dist),
		d.lrl(alpha, beta, dist),
	}
	if sorts {
		sort.Slice(paths, func(i, j int) bool { return paths[i].TotalLen < paths[j].TotalLen })
	}
	return paths
}

func (d *Dubins) csc(t, p, q float64, word [3]int) DubinPathAttr {
	return DubinPathAttr{
		TotalLen:   (t + p + q) * d.Radius,
		DubinsPath: [3]float64{t, p, q},
		Straight:   true,
		word:       word,
	}
}

func (d *Dubins) ccc(t, p, q float64, word [3]int) DubinPathAttr {
	return DubinPathAttr{
		TotalLen:   (t + p + q) * d.Radius,
		DubinsPath: [3]float64{t, p, q},
		Straight:   false,
		word:       word,
	}
}

func infeasible() DubinPathAttr {
	return DubinPathAttr{TotalLen: math.Inf(1)}
}

func (d *Dubins) lsl(alpha, beta, dist float64) DubinPathAttr {
	pSq := 2 + dist*dist - 2*math.Cos(alpha-beta) + 2*dist*(math.Sin(alpha)-math.Sin(beta))
	if pSq < 0 {
		return infeasible()
	}
	tmp := math.Atan2(math.Cos(beta)-math.Cos(alpha), dist+math.Sin(alpha)-math.Sin(beta))
	t := mod2pi(-alpha + tmp)
	p := math.Sqrt(pSq)
	q := mod2pi(beta - tmp)
	return d.csc(t, p, q, [3]int{segLeft, segStraight, segLeft})
}

func (d *Dubins) rsr(alpha, beta, dist float64) DubinPathAttr {
	pSq := 2 + dist*dist - 2*math.Cos(alpha-beta) + 2*dist*(math.Sin(beta)-math.Sin(alpha))
	if pSq < 0 {
		return infeasible()
	}
	tmp := math.Atan2(math.Cos(alpha)-math.Cos(beta), dist-math.Sin(alpha)+math.Sin(beta))
	t := mod2pi(alpha - tmp)
	p := math.Sqrt(pSq)
	q := mod2pi(-beta + tmp)
	return d.csc(t, p, q, [3]int{segRight, segStraight, segRight})
}

func (d *Dubins) lsr(alpha, beta, dist float64) DubinPathAttr {
	pSq := -2 + dist*dist + 2*math.Cos(alpha-beta) + 2*dist*(math.Sin(alpha)+math.Sin(beta))
	if pSq < 0 {
		return infeasible()
	}
	p := math.Sqrt(pSq)
	tmp := math.Atan2(-math.Cos(alpha)-math.Cos(beta), dist+math.Sin(alpha)+math.Sin(beta)) - math.Atan2(-2, p)
	t := mod2pi(-alpha + tmp)
	q := mod2pi(-mod2pi(beta) + tmp)
	return d.csc(t, p, q, [3]int{segLeft, segStraight, segRight})
}

func (d *Dubins) rsl(alpha, beta, dist float64) DubinPathAttr {
	pSq := dist*dist - 2 + 2*math.Cos(alpha-beta) - 2*dist*(math.Sin(alpha)+math.Sin(beta))
	if pSq < 0 {
		return infeasible()
	}
	p := math.Sqrt(pSq)
	tmp := math.Atan2(math.Cos(alpha)+math.Cos(beta), dist-math.Sin(alpha)-math.Sin(beta)) - math.Atan2(2, p)
	t := mod2pi(alpha - tmp)
	q := mod2pi(beta - tmp)
	return d.csc(t, p, q, [3]int{segRight, segStraight, segLeft})
}

func (d *Dubins) rlr(alpha, beta, dist float64) DubinPathAttr {
	tmp := (6 - dist*dist + 2*math.Cos(alpha-beta) + 2*dist*(math.Sin(alpha)-math.Sin(beta))) / 8
	if math.Abs(tmp) > 1 {
		return infeasible()
	}
	p := mod2pi(2*math.Pi - math.Acos(tmp))
	t := mod2pi(alpha - math.Atan2(math.Cos(alpha)-math.Cos(beta), dist-math.Sin(alpha)+math.Sin(beta)) + p/2)
	q := mod2pi(alpha - beta - t + p)
	return d.ccc(t, p, q, [3]int{segRight, segLeft, segRight})
}

func (d *Dubins) lrl(alpha, beta, dist float64) DubinPathAttr {
	tmp := (6 - dist*dist + 2*math.Cos(alpha-beta) + 2*dist*(math.Sin(beta)-math.Sin(alpha))) / 8
	if math.Abs(tmp) > 1 {
		return infeasible()
	}
	p := mod2pi(2*math.Pi - math.Acos(tmp))
	t := mod2pi(-alpha - math.Atan2(math.Cos(alpha)-math.Cos(beta), dist+math.Sin(alpha)-math.Sin(beta)) + p/2)
	q := mod2pi(mod2pi(beta) - alpha - t + mod2pi(p))
	return d.ccc(t, p, q, [3]int{segLeft, segRight, segLeft})
}

// findCenter returns the turn-circle center for the pose, on its left or
// right side at distance Radius.
func (d *Dubins) findCenter(pose []float64, left bool) []float64 {
	angle := pose[2]
	if left {
		angle += math.Pi / 2
	} else {
		angle -= math.Pi / 2
	}
	return []float64{
		pose[0] + d.Radius*math.Cos(angle),
		pose[1] + d.Radius*math.Sin(angle),
	}
}

// generatePoints samples the path described by attr from start at
// PointSeparation intervals, ending exactly on the goal pose. Points are
// []float64{x, y, theta}.
func (d *Dubins) generatePoints(start, end []float64, attr DubinPathAttr) [][]float64 {
	if math.IsInf(attr.TotalLen, 1) {
		return nil
	}
	points := make([][]float64, 0, int(attr.TotalLen/d.PointSeparation)+4)
	pose := []float64{start[0], start[1], start[2]}
	points = append(points, append([]float64(nil), pose...))

	for i, param := range attr.DubinsPath {
		kind := attr.word[i]
		segLen := param * d.Radius
		steps := int(segLen / d.PointSeparation)
		for j := 1; j <= steps; j++ {
			s := float64(j) * d.PointSeparation
			points = append(points, d.poseAlong(pose, kind, s))
		}
		pose = d.poseAlong(pose, kind, segLen)
		last := points[len(points)-1]
		if math.Hypot(pose[0]-last[0], pose[1]-last[1]) > 1e-9 {
			points = append(points, append([]float64(nil), pose...))
		}
	}

	// Land exactly on the goal; accumulated float error otherwise leaves the
	// final pose a few millimeters off.
	points[len(points)-1] = []float64{end[0], end[1], end[2]}
	return points
}

// poseAlong advances a pose by arc length s along a single segment kind.
func (d *Dubins) poseAlong(pose []float64, kind int, s float64) []float64 {
	x, y, theta := pose[0], pose[1], pose[2]
	switch kind {
	case segStraight:
		return []float64{x + s*math.Cos(theta), y + s*math.Sin(theta), theta}
	case segLeft:
		phi := s / d.Radius
		cx := x + d.Radius*math.Cos(theta+math.Pi/2)
		cy := y + d.Radius*math.Sin(theta+math.Pi/2)
		newTheta := theta + phi
		return []float64{
			cx + d.Radius*math.Cos(newTheta-math.Pi/2),
			cy + d.Radius*math.Sin(newTheta-math.Pi/2),
			newTheta,
		}
	default: // segRight
		phi := s / d.Radius
		cx := x + d.Radius*math.Cos(theta-math.Pi/2)
		cy := y + d.Radius*math.Sin(theta-math.Pi/2)
		newTheta := theta - phi
		return []float64{
			cx + d.Radius*math.Cos(newTheta+math.Pi/2),
			cy + d.Radius*math.Sin(newTheta+math.Pi/2),
			newTheta,
		}
	}
}
