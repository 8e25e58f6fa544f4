package geometry

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
)

// NormalizeAngle maps a into [-π, π].
func NormalizeAngle(a float64) float64 {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return 0
	}
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// Direction returns the angle of v measured from the +x axis.
func Direction(v r2.Vec) float64 {
	return math.Atan2(v.Y, v.X)
}

// FromAngle returns the vector of length l at angle a.
func FromAngle(a, l float64) r2.Vec {
	s, c := math.Sincos(a)
	return r2.Vec{X: l * c, Y: l * s}
}

// AngleAt returns the unsigned angle a-centre-b in [0, π].  Degenerate
// inputs yield 0.
func AngleAt(centre, a, b r2.Vec) float64 {
	u, v := r2.Sub(a, centre), r2.Sub(b, centre)
	if r2.Norm2(u) == 0 || r2.Norm2(v) == 0 {
		return 0
	}
	return math.Abs(math.Atan2(r2.Cross(u, v), r2.Dot(u, v)))
}

// LargestGap returns the direction that bisects the widest empty angular
// sector around centre, given the positions already bonded to it.  With no
// neighbours it returns fallback; with one, the opposite direction.
func LargestGap(centre r2.Vec, neighbours []r2.Vec, fallback float64) float64 {
	angles := make([]float64, 0, len(neighbours))
	for _, p := range neighbours {
		d := r2.Sub(p, centre)
		if r2.Norm2(d) == 0 {
			continue
		}
		angles = append(angles, Direction(d))
	}
	switch len(angles) {
	case 0:
		return fallback
	case 1:
		return NormalizeAngle(angles[0] + math.Pi)
	}
	sort.Float64s(angles)
	best, bestMid := -1.0, fallback
	for i, a := range angles {
		next := angles[(i+1)%len(angles)]
		gap := next - a
		if i == len(angles)-1 {
			gap += 2 * math.Pi
		}
		if gap > best+1e-9 {
			best = gap
			bestMid = NormalizeAngle(a + gap/2)
		}
	}
	return bestMid
}
