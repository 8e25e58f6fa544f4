package depiction

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/turtacn/KeyIP-Layout/internal/domain/layout"
	mtypes "github.com/turtacn/KeyIP-Layout/pkg/types/molecule"
)

// keyVersion changes whenever the layout pipeline changes its output for
// the same input, invalidating older cache entries.
const keyVersion = 1

// CacheKey returns a stable digest of everything that determines a layout:
// atoms, bonds, rings and options.  Atom and bond input order and the
// molecule name do not affect the key.
func CacheKey(m *mtypes.Molecule, opts layout.Options) string {
	h := xxhash.New()
	var buf [8]byte
	putU := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = h.Write(buf[:])
	}
	putI := func(v int) { putU(uint64(int64(v))) }
	putF := func(v float64) { putU(math.Float64bits(v)) }
	putB := func(v bool) {
		if v {
			putU(1)
		} else {
			putU(0)
		}
	}
	putS := func(s string) {
		putI(len(s))
		_, _ = h.WriteString(s)
	}

	putI(keyVersion)

	atoms := append([]mtypes.Atom(nil), m.Atoms...)
	sort.Slice(atoms, func(i, j int) bool { return atoms[i].ID < atoms[j].ID })
	putI(len(atoms))
	for _, a := range atoms {
		putI(a.ID)
		putS(a.Symbol)
		putB(a.Aromatic)
	}

	bonds := make([][2]int, len(m.Bonds))
	for i, b := range m.Bonds {
		lo, hi := b.Atom1, b.Atom2
		if lo > hi {
			lo, hi = hi, lo
		}
		bonds[i] = [2]int{lo, hi}
	}
	sort.Slice(bonds, func(i, j int) bool {
		if bonds[i][0] != bonds[j][0] {
			return bonds[i][0] < bonds[j][0]
		}
		return bonds[i][1] < bonds[j][1]
	})
	putI(len(bonds))
	for _, b := range bonds {
		putI(b[0])
		putI(b[1])
	}

	// ring order and direction matter to the placer, so rings are hashed as given
	putI(len(m.Rings))
	for _, r := range m.Rings {
		putI(len(r))
		for _, a := range r {
			putI(a)
		}
	}

	putF(opts.BondLength)
	putB(opts.ResolveOverlaps)
	putI(opts.OverlapIterations)
	putI(opts.OverlapPasses)
	putF(opts.MinDistance)
	putF(opts.PushFactor)
	putB(opts.OptimizeOrientation)
	putF(opts.OrientationThreshold)
	putI(opts.RotationSteps)
	putB(opts.TryFlips)
	putI(opts.RefinementIterations)
	putF(opts.RefinementStep)
	putF(opts.StretchWeight)
	putF(opts.ClashWeight)
	putF(opts.AngleWeight)
	putI(opts.MacrocycleIterations)
	putB(opts.UseTemplates)
	putI(opts.BridgedIterations)
	putF(opts.BridgedStretchLimit)

	return fmt.Sprintf("%016x", h.Sum64())
}
