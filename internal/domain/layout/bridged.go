package layout

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/turtacn/KeyIP-Layout/internal/domain/geometry"
	"github.com/turtacn/KeyIP-Layout/internal/domain/molecule"
	"github.com/turtacn/KeyIP-Layout/internal/infrastructure/monitoring/logging"
)

const (
	bridgedStretchK  = 0.5
	bridgedCompressK = 0.25
	bridgedRepelK    = 0.3
	bridgedRepelAt   = 1.2
	bridgedCooling   = 0.95
	bridgedStartTemp = 0.5
)

// bridgedRelaxer straightens bridged ring systems whose placed bonds came
// out badly stretched.  Only the core atoms move; substituents are carried
// along with the core atom they hang from.
type bridgedRelaxer struct {
	g      *molecule.Graph
	ug     *UnitGraph
	c      *geometry.Coords
	opts   Options
	logger logging.Logger
}

type anchoredAtom struct {
	id, anchor int
	offset     r2.Vec
}

func (b *bridgedRelaxer) run() int {
	relaxed := 0
	for _, u := range b.ug.Units {
		if !u.Bridged() {
			continue
		}
		bonds := b.coreBonds(u)
		before := b.maxStretch(bonds)
		if len(bonds) == 0 || before < b.opts.BridgedStretchLimit {
			continue
		}
		var subs []anchoredAtom
		for _, ci := range u.Children {
			a := b.ug.Units[ci].Attachment
			if a == nil {
				continue
			}
			anchor := b.c.At(a.ParentAtom)
			for _, id := range b.ug.SubtreeAtoms(ci) {
				subs = append(subs, anchoredAtom{id: id, anchor: a.ParentAtom, offset: r2.Sub(b.c.At(id), anchor)})
			}
		}
		b.relax(u.Atoms, bonds)
		for _, s := range subs {
			b.c.Set(s.id, r2.Add(b.c.At(s.anchor), s.offset))
		}
		relaxed++
		b.logger.Info("relaxed bridged ring system",
			logging.Int("unit", int(u.Index)),
			logging.Float64("stretch_before", before),
			logging.Float64("stretch_after", b.maxStretch(bonds)))
	}
	return relaxed
}

func (b *bridgedRelaxer) coreBonds(u *Unit) []molecule.BondKey {
	var out []molecule.BondKey
	for _, bk := range b.g.Bonds() {
		if b.ug.AtomUnit[bk.Lo] == u.Index && b.ug.AtomUnit[bk.Hi] == u.Index {
			out = append(out, bk)
		}
	}
	return out
}

// maxStretch returns the largest bond length as a multiple of BondLength.
func (b *bridgedRelaxer) maxStretch(bonds []molecule.BondKey) float64 {
	worst := 0.0
	for _, bk := range bonds {
		if r := b.c.Dist(bk.Lo, bk.Hi) / b.opts.BondLength; r > worst {
			worst = r
		}
	}
	return worst
}

// relax runs a cooling force iteration over the core: springs on bonds,
// softer when compressed, and short-range repulsion between non-bonded
// atoms.  Per-step moves are capped by the temperature, which decays
// geometrically.  The core centroid is kept fixed.
func (b *bridgedRelaxer) relax(atoms []int, bonds []molecule.BondKey) {
	l := b.opts.BondLength
	centre, _ := b.c.Centroid(atoms)
	slot := make(map[int]int, len(atoms))
	for i, id := range atoms {
		slot[id] = i
	}
	force := make([]r2.Vec, len(atoms))
	temp := bridgedStartTemp * l

	for it := 0; it < b.opts.BridgedIterations; it++ {
		for i := range force {
			force[i] = r2.Vec{}
		}
		for _, bk := range bonds {
			i, j := slot[bk.Lo], slot[bk.Hi]
			dir, dist := b.direction(bk.Lo, bk.Hi)
			k := bridgedCompressK
			if dist > l {
				k = bridgedStretchK
			}
			f := r2.Scale(k*(dist-l), dir)
			force[i] = r2.Add(force[i], f)
			force[j] = r2.Sub(force[j], f)
		}
		for x, a := range atoms {
			for y := x + 1; y < len(atoms); y++ {
				c := atoms[y]
				if b.g.HasBond(a, c) {
					continue
				}
				dir, dist := b.direction(a, c)
				if dist >= bridgedRepelAt*l {
					continue
				}
				f := r2.Scale(bridgedRepelK*(bridgedRepelAt*l-dist), dir)
				force[x] = r2.Sub(force[x], f)
				force[y] = r2.Add(force[y], f)
			}
		}
		maxMove := 0.0
		for i, id := range atoms {
			f := force[i]
			if n := r2.Norm(f); n > temp {
				f = r2.Scale(temp/n, f)
			}
			if n := r2.Norm(f); n > maxMove {
				maxMove = n
			}
			b.c.Set(id, r2.Add(b.c.At(id), f))
		}
		temp *= bridgedCooling
		if maxMove < 1e-3*l {
			break
		}
	}
	if now, ok := b.c.Centroid(atoms); ok {
		b.c.Translate(atoms, r2.Sub(centre, now))
	}
}

// direction returns the unit vector from a to b and their distance.
// Coincident atoms get a hashed direction.
func (b *bridgedRelaxer) direction(a, c int) (r2.Vec, float64) {
	d := r2.Sub(b.c.At(c), b.c.At(a))
	dist := r2.Norm(d)
	if dist < 1e-9*b.opts.BondLength {
		dir := pushDirection(a, c)
		if c < a {
			dir = r2.Scale(-1, dir)
		}
		return dir, dist
	}
	return r2.Scale(1/dist, d), dist
}
