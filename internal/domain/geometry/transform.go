package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Transform is a planar affine map p ↦ M·p + T with M = [[A, B], [C, D]].
// Only rigid motions, reflections and uniform scalings are ever built.
type Transform struct {
	A, B, C, D float64
	T          r2.Vec
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{A: 1, D: 1}
}

// Translation returns p ↦ p + d.
func Translation(d r2.Vec) Transform {
	return Transform{A: 1, D: 1, T: d}
}

// Rotation returns the rotation by angle radians about pivot.
func Rotation(angle float64, pivot r2.Vec) Transform {
	s, c := math.Sincos(angle)
	m := Transform{A: c, B: -s, C: s, D: c}
	m.T = r2.Sub(pivot, m.linear(pivot))
	return m
}

// Reflection returns the mirror across the line through a and b.  A
// degenerate line yields the point reflection through a.
func Reflection(a, b r2.Vec) Transform {
	d := r2.Sub(b, a)
	n := r2.Norm2(d)
	if n == 0 {
		return Transform{A: -1, D: -1, T: r2.Scale(2, a)}
	}
	ux, uy := d.X*d.X/n, d.Y*d.Y/n
	xy := d.X * d.Y / n
	m := Transform{A: ux - uy, B: 2 * xy, C: 2 * xy, D: uy - ux}
	m.T = r2.Sub(a, m.linear(a))
	return m
}

// Scaling returns the uniform scaling by f about pivot.
func Scaling(f float64, pivot r2.Vec) Transform {
	m := Transform{A: f, D: f}
	m.T = r2.Sub(pivot, m.linear(pivot))
	return m
}

// AlignSegment returns the proper rigid motion that carries from0 onto to0
// and the direction from0→from1 onto to0→to1.  Lengths are not matched.
func AlignSegment(from0, from1, to0, to1 r2.Vec) Transform {
	src := r2.Sub(from1, from0)
	dst := r2.Sub(to1, to0)
	angle := math.Atan2(dst.Y, dst.X) - math.Atan2(src.Y, src.X)
	rot := Rotation(angle, r2.Vec{})
	return Compose(Translation(r2.Sub(to0, rot.Apply(from0))), rot)
}

func (t Transform) linear(p r2.Vec) r2.Vec {
	return r2.Vec{X: t.A*p.X + t.B*p.Y, Y: t.C*p.X + t.D*p.Y}
}

// Apply maps p through t.
func (t Transform) Apply(p r2.Vec) r2.Vec {
	return r2.Add(t.linear(p), t.T)
}

// Compose returns outer∘inner: inner is applied first.
func Compose(outer, inner Transform) Transform {
	return Transform{
		A: outer.A*inner.A + outer.B*inner.C,
		B: outer.A*inner.B + outer.B*inner.D,
		C: outer.C*inner.A + outer.D*inner.C,
		D: outer.C*inner.B + outer.D*inner.D,
		T: outer.Apply(inner.T),
	}
}

// Det returns the determinant of the linear part; negative for reflections.
func (t Transform) Det() float64 {
	return t.A*t.D - t.B*t.C
}
