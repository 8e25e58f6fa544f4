package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// CircumRadius returns the circumradius of a regular n-gon with edge length l.
func CircumRadius(n int, l float64) float64 {
	if n < 3 {
		return l / 2
	}
	return l / (2 * math.Sin(math.Pi/float64(n)))
}

// RegularPolygon returns the vertices of a regular n-gon with edge length l,
// centred on the origin and wound counter-clockwise.  The first edge is
// horizontal along the bottom: vertex 0 lies below-left and vertex 1
// below-right of the centre.
func RegularPolygon(n int, l float64) []r2.Vec {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []r2.Vec{{}}
	}
	if n == 2 {
		return []r2.Vec{{X: -l / 2}, {X: l / 2}}
	}
	r := CircumRadius(n, l)
	step := 2 * math.Pi / float64(n)
	start := -math.Pi/2 - step/2
	out := make([]r2.Vec, n)
	for i := range out {
		s, c := math.Sincos(start + float64(i)*step)
		out[i] = r2.Vec{X: r * c, Y: r * s}
	}
	return out
}

// Arc returns k points on a circular arc from a to b that bulges towards
// side (a point on the desired side of the chord).  The chord endpoints are
// not included.  The k+1 consecutive segments of the path a→…→b all have
// length l; a chord at least as long as the straight path falls back to
// evenly spaced points on the chord.
func Arc(a, b r2.Vec, k int, l float64, side r2.Vec) []r2.Vec {
	if k <= 0 {
		return nil
	}
	chord := r2.Sub(b, a)
	c := r2.Norm(chord)
	mid := r2.Scale(0.5, r2.Add(a, b))
	out := make([]r2.Vec, k)
	segs := float64(k + 1)
	if c == 0 || c >= segs*l*0.999 {
		for i := range out {
			out[i] = r2.Add(a, r2.Scale(float64(i+1)/segs, chord))
		}
		return out
	}
	// Each segment subtends theta at the centre: l = 2R sin(theta/2) and
	// c = 2R sin(segs*theta/2).  The ratio falls monotonically from segs to 0
	// on (0, 2π/segs).
	target := c / l
	lo, hi := 0.0, 2*math.Pi/segs
	for i := 0; i < 60; i++ {
		m := (lo + hi) / 2
		if math.Sin(segs*m/2)/math.Sin(m/2) > target {
			lo = m
		} else {
			hi = m
		}
	}
	theta := (lo + hi) / 2
	radius := l / (2 * math.Sin(theta/2))
	phi := segs * theta / 2
	normal := r2.Unit(r2.Vec{X: -chord.Y, Y: chord.X})
	if r2.Dot(normal, r2.Sub(side, mid)) < 0 {
		normal = r2.Scale(-1, normal)
	}
	// For phi < π/2 the centre sits opposite the bulge.
	centre := r2.Sub(mid, r2.Scale(radius*math.Cos(phi), normal))
	startAngle := Direction(r2.Sub(a, centre))
	endAngle := Direction(r2.Sub(b, centre))
	sweep := NormalizeAngle(endAngle - startAngle)
	if math.Abs(math.Abs(sweep)-2*phi) > 1e-6 {
		if sweep > 0 {
			sweep -= 2 * math.Pi
		} else {
			sweep += 2 * math.Pi
		}
	}
	for i := range out {
		out[i] = r2.Add(centre, FromAngle(startAngle+sweep*float64(i+1)/segs, radius))
	}
	return out
}
