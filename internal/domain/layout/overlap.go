package layout

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/turtacn/KeyIP-Layout/internal/domain/geometry"
	"github.com/turtacn/KeyIP-Layout/internal/domain/molecule"
)

// pushDirection returns a unit vector derived from the atom pair alone, used
// to separate atoms that sit on top of each other.
func pushDirection(a, b int) r2.Vec {
	if b < a {
		a, b = b, a
	}
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(a))
	binary.LittleEndian.PutUint64(buf[8:], uint64(b))
	h := xxhash.Sum64(buf[:])
	angle := float64(h>>11) / (1 << 53) * 2 * math.Pi
	return geometry.FromAngle(angle, 1)
}

// overlapResolver pushes apart atoms closer than MinDistance bond lengths.
// Bonded and 1-3 pairs are never pushed.
type overlapResolver struct {
	g    *molecule.Graph
	c    *geometry.Coords
	opts Options
}

func (r *overlapResolver) limit() float64 {
	return r.opts.MinDistance * r.opts.BondLength
}

// count returns the number of overlapping non-excluded pairs.
func (r *overlapResolver) count() int {
	return countOverlaps(r.g, r.c, r.limit())
}

func countOverlaps(g *molecule.Graph, c *geometry.Coords, limit float64) int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if !c.Has(i) {
			continue
		}
		for j := i + 1; j < c.Len(); j++ {
			if c.Has(j) && !g.IsClose(i, j) && c.Dist(i, j) < limit-1e-9 {
				n++
			}
		}
	}
	return n
}

// resolve runs up to OverlapIterations sweeps and returns how many sweeps
// moved anything.
func (r *overlapResolver) resolve() int {
	limit := r.limit()
	n := r.c.Len()
	sweeps := 0
	for it := 0; it < r.opts.OverlapIterations; it++ {
		moved := false
		for i := 0; i < n; i++ {
			if !r.c.Has(i) {
				continue
			}
			for j := i + 1; j < n; j++ {
				if !r.c.Has(j) || r.g.IsClose(i, j) {
					continue
				}
				pi, pj := r.c.At(i), r.c.At(j)
				d := r2.Sub(pj, pi)
				dist := r2.Norm(d)
				if dist >= limit {
					continue
				}
				var dir r2.Vec
				if dist < 1e-9*r.opts.BondLength {
					dir = pushDirection(i, j)
				} else {
					dir = r2.Scale(1/dist, d)
				}
				push := r2.Scale(r.opts.PushFactor*(limit-dist)/2, dir)
				r.c.Set(i, r2.Sub(pi, push))
				r.c.Set(j, r2.Add(pj, push))
				moved = true
			}
		}
		if !moved {
			break
		}
		sweeps++
	}
	return sweeps
}
