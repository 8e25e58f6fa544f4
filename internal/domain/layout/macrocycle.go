package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/turtacn/KeyIP-Layout/internal/domain/geometry"
)

const (
	macroSpring     = 0.25
	macroTorque     = 0.02
	macroTargetAng  = 2 * math.Pi / 3
	macroConvergeAt = 1e-3
)

// relaxMacrocycle returns ring vertices for an n-membered ring, starting
// from the regular polygon and iterating spring and bond-angle forces until
// the largest per-step move falls below a thousandth of a bond or the
// iteration cap is reached.  The result is rescaled to mean bond length l.
// Vertex order and winding match RegularPolygon.
func relaxMacrocycle(n int, l float64, iterations int) []r2.Vec {
	pts := geometry.RegularPolygon(n, l)
	if n <= 6 {
		return pts
	}
	next := make([]r2.Vec, n)
	for it := 0; it < iterations; it++ {
		maxMove := 0.0
		for i := range pts {
			prev, succ := pts[(i+n-1)%n], pts[(i+1)%n]
			var f r2.Vec
			for _, nb := range []r2.Vec{prev, succ} {
				d := r2.Sub(nb, pts[i])
				dist := r2.Norm(d)
				if dist > 0 {
					f = r2.Add(f, r2.Scale(macroSpring*(dist-l)/dist, d))
				}
			}
			theta := geometry.AngleAt(pts[i], prev, succ)
			away := r2.Sub(pts[i], r2.Scale(0.5, r2.Add(prev, succ)))
			if r2.Norm2(away) > 0 {
				f = r2.Add(f, r2.Scale(macroTorque*(theta-macroTargetAng)*l, r2.Unit(away)))
			}
			next[i] = r2.Add(pts[i], f)
			if m := r2.Norm(f); m > maxMove {
				maxMove = m
			}
		}
		pts, next = next, pts
		if maxMove < macroConvergeAt*l {
			break
		}
	}
	// Re-centre on the origin and rescale to the mean bond length l.
	var c r2.Vec
	lengths := make([]float64, n)
	for i, p := range pts {
		c = r2.Add(c, p)
		lengths[i] = r2.Norm(r2.Sub(pts[(i+1)%n], p))
	}
	c = r2.Scale(1/float64(n), c)
	f := 1.0
	if mean := stat.Mean(lengths, nil); mean > 0 {
		f = l / mean
	}
	for i := range pts {
		pts[i] = r2.Scale(f, r2.Sub(pts[i], c))
	}
	return pts
}
