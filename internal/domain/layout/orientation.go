package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/turtacn/KeyIP-Layout/internal/domain/geometry"
	"github.com/turtacn/KeyIP-Layout/internal/domain/molecule"
	"github.com/turtacn/KeyIP-Layout/internal/domain/ringsystem"
)

// Shape is the coarse class of a molecule used to pick a canonical
// orientation.
type Shape string

const (
	ShapeEmpty         Shape = "empty"
	ShapeChain         Shape = "chain"
	ShapeSingleRing    Shape = "single-ring"
	ShapeTwoFused      Shape = "two-fused"
	ShapeSpiro         Shape = "spiro"
	ShapeLinearFused   Shape = "linear-fused"
	ShapePolycyclic    Shape = "polycyclic"
	ShapeRingWithChain Shape = "ring-with-chain"
	ShapeMultipleRings Shape = "multiple-ring-systems"
	ShapeCage          Shape = "cage"
)

// linearAspect is the principal-axis aspect ratio above which a path of
// fused rings counts as linear.
const linearAspect = 2.0

type orienter struct {
	g    *molecule.Graph
	rs   *ringsystem.Result
	c    *geometry.Coords
	opts Options
}

func (o *orienter) all() []int {
	ids := make([]int, o.c.Len())
	for i := range ids {
		ids[i] = i
	}
	return ids
}

func (o *orienter) classify() Shape {
	if o.c.Len() == 0 {
		return ShapeEmpty
	}
	switch len(o.rs.Systems) {
	case 0:
		return ShapeChain
	case 1:
	default:
		return ShapeMultipleRings
	}
	sys := o.rs.Systems[0]
	if sys.Kind == ringsystem.KindBridged {
		return ShapeCage
	}
	if sys.Kind == ringsystem.KindSpiro {
		return ShapeSpiro
	}
	substituted := len(sys.Atoms) < o.c.Len()
	switch len(sys.Rings) {
	case 1:
		if substituted {
			return ShapeRingWithChain
		}
		return ShapeSingleRing
	case 2:
		return ShapeTwoFused
	}
	if o.pathLike(sys) && o.axisAspect(sys.Atoms) > linearAspect {
		return ShapeLinearFused
	}
	return ShapePolycyclic
}

// pathLike reports whether the ring adjacency of sys is a simple path.
func (o *orienter) pathLike(sys *ringsystem.System) bool {
	ends, edges := 0, 0
	for _, ri := range sys.Rings {
		d := len(sys.Adjacency[ri])
		if d > 2 {
			return false
		}
		if d == 1 {
			ends++
		}
		edges += d
	}
	return ends == 2 && edges/2 == len(sys.Rings)-1
}

// axisAspect measures the extent of ids along and across their principal
// axis.
func (o *orienter) axisAspect(ids []int) float64 {
	pts := o.c.Points(ids)
	angle, ok := geometry.PrincipalAxisAngle(pts)
	if !ok {
		return 1
	}
	rot := geometry.Rotation(-angle, r2.Vec{})
	box := r2.Box{Min: rot.Apply(pts[0]), Max: rot.Apply(pts[0])}
	for _, p := range pts[1:] {
		q := rot.Apply(p)
		box.Min.X, box.Min.Y = math.Min(box.Min.X, q.X), math.Min(box.Min.Y, q.Y)
		box.Max.X, box.Max.Y = math.Max(box.Max.X, q.X), math.Max(box.Max.Y, q.Y)
	}
	return geometry.AspectRatio(box)
}

// target returns the rotation that brings the drawing into the canonical
// orientation for shape.
func (o *orienter) target(shape Shape) (float64, bool) {
	switch shape {
	case ShapeEmpty:
		return 0, false
	case ShapeSingleRing:
		r := o.rs.Rings[o.rs.Systems[0].Rings[0]]
		return o.ringEdgeRotation(r.Atoms, r.Size()%2 == 1), true
	case ShapeRingWithChain:
		sys := o.rs.Systems[0]
		var rest []int
		for id := 0; id < o.c.Len(); id++ {
			if !sys.HasAtom(id) {
				rest = append(rest, id)
			}
		}
		rc, _ := o.c.Centroid(sys.Atoms)
		sc, ok := o.c.Centroid(rest)
		v := r2.Sub(sc, rc)
		if !ok || r2.Norm(v) < 1e-9*o.opts.BondLength {
			return 0, false
		}
		return geometry.NormalizeAngle(-geometry.Direction(v)), true
	default:
		angle, ok := geometry.PrincipalAxisAngle(o.c.Points(o.all()))
		if !ok {
			return 0, false
		}
		return -angle, true
	}
}

// ringEdgeRotation returns the smallest rotation that makes some ring edge
// horizontal.  With bottom set, the horizontal edge must end up below the
// ring centre.
func (o *orienter) ringEdgeRotation(ring []int, bottom bool) float64 {
	centre, _ := o.c.Centroid(ring)
	best, bestPhi := math.Inf(1), 0.0
	n := len(ring)
	for i := range ring {
		a, b := o.c.At(ring[i]), o.c.At(ring[(i+1)%n])
		alpha := geometry.Direction(r2.Sub(b, a))
		mid := r2.Sub(r2.Scale(0.5, r2.Add(a, b)), centre)
		for _, phi := range []float64{geometry.NormalizeAngle(-alpha), geometry.NormalizeAngle(math.Pi - alpha)} {
			if bottom {
				s, c := math.Sincos(phi)
				if s*mid.X+c*mid.Y >= 0 {
					continue
				}
			}
			if math.Abs(phi) < best-1e-12 {
				best, bestPhi = math.Abs(phi), phi
			}
		}
	}
	return bestPhi
}

// orient rotates the drawing about its centroid and returns the shape and
// the applied rotation, zero when below OrientationThreshold.
func (o *orienter) orient() (Shape, float64) {
	shape := o.classify()
	phi, ok := o.target(shape)
	if !ok || math.Abs(phi) < o.opts.OrientationThreshold {
		return shape, 0
	}
	all := o.all()
	centre, _ := o.c.Centroid(all)
	o.c.Rotate(all, phi, centre)
	return shape, phi
}
