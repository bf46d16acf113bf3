package spatialmath

import (
	"github.com/golang/geo/r2"
)

// CatmullRom evaluates the uniform Catmull-Rom spline defined by the four
// control points at parameter t in [0, 1]. The curve passes through p1 at
// t = 0 and p2 at t = 1; p0 and p3 shape the tangents.
func CatmullRom(p0, p1, p2, p3 r2.Point, t float64) r2.Point {
	t2 := t * t
	t3 := t2 * t

	a := p1.Mul(2)
	b := p2.Sub(p0).Mul(t)
	c := p0.Mul(2).Sub(p1.Mul(5)).Add(p2.Mul(4)).Sub(p3).Mul(t2)
	d := p1.Mul(3).Sub(p0).Sub(p2.Mul(3)).Add(p3).Mul(t3)

	return a.Add(b).Add(c).Add(d).Mul(0.5)
}
