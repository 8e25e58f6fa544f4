package geometry

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// maxAspect caps AspectRatio for degenerate (zero-height) extents so the
// value stays representable in JSON.
const maxAspect = 1e6

// PrincipalAxisAngle returns the direction of the major principal axis of
// pts, in (-π/2, π/2].  ok is false for fewer than two points or isotropic
// point sets, which have no preferred axis.
func PrincipalAxisAngle(pts []r2.Vec) (angle float64, ok bool) {
	if len(pts) < 2 {
		return 0, false
	}
	var mean r2.Vec
	for _, p := range pts {
		mean = r2.Add(mean, p)
	}
	mean = r2.Scale(1/float64(len(pts)), mean)
	var sxx, sxy, syy float64
	for _, p := range pts {
		d := r2.Sub(p, mean)
		sxx += d.X * d.X
		sxy += d.X * d.Y
		syy += d.Y * d.Y
	}
	cov := mat.NewSymDense(2, []float64{sxx, sxy, sxy, syy})
	var eig mat.EigenSym
	if !eig.Factorize(cov, true) {
		return 0, false
	}
	values := eig.Values(nil)
	if values[1]-values[0] <= 1e-9*math.Max(1, values[1]) {
		return 0, false
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	// Eigenvalues ascend, so column 1 is the major axis.
	angle = math.Atan2(vecs.At(1, 1), vecs.At(0, 1))
	if angle > math.Pi/2 {
		angle -= math.Pi
	} else if angle <= -math.Pi/2 {
		angle += math.Pi
	}
	return angle, true
}

// AspectRatio returns width/height of box, 1 for a point and capped for a
// flat extent.
func AspectRatio(box r2.Box) float64 {
	s := box.Size()
	if s.Y <= 1e-12 {
		if s.X <= 1e-12 {
			return 1
		}
		return maxAspect
	}
	return math.Min(s.X/s.Y, maxAspect)
}
