package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/turtacn/KeyIP-Layout/internal/domain/geometry"
	"github.com/turtacn/KeyIP-Layout/internal/infrastructure/monitoring/logging"
)

const energyEpsilon = 1e-12

type dofState struct {
	rot, flip int
	scale     float64
}

var identityState = dofState{scale: 1}

// minimizer moves whole unit subtrees rigidly to lower the energy.  It
// first searches every discrete rotation/flip/scale state per unit, then
// refines with small rotations until no unit improves.  Each trial runs on
// a snapshot that is restored unless the move is kept.
type minimizer struct {
	e      *energy
	ug     *UnitGraph
	c      *geometry.Coords
	opts   Options
	logger logging.Logger
	moves  int
}

func (m *minimizer) run() int {
	m.discrete()
	m.refine()
	m.logger.Debug("minimised unit placement", logging.Int("moves", m.moves), logging.Float64("energy", m.e.total()))
	return m.moves
}

// pivot returns the rotation centre of u and a second point on its flip
// axis.
func (m *minimizer) pivot(u *Unit) (r2.Vec, r2.Vec) {
	if a := u.Attachment; a != nil {
		return m.c.At(a.ParentAtom), m.c.At(a.ChildAtom)
	}
	c, _ := m.c.Centroid(u.Atoms)
	return c, r2.Add(c, r2.Vec{Y: 1})
}

func (m *minimizer) apply(u *Unit, sub []int, s dofState) {
	pivot, axis := m.pivot(u)
	if s.flip == 1 {
		m.c.Reflect(sub, pivot, axis)
	}
	if s.rot != 0 {
		m.c.Rotate(sub, 2*math.Pi*float64(s.rot)/float64(u.DOFs.Rotations), pivot)
	}
	if s.scale != 1 {
		m.scaleUnit(u, s.scale)
	}
}

// scaleUnit scales the unit's own atoms about its connection atom and
// carries every child subtree along with its anchor atom.
func (m *minimizer) scaleUnit(u *Unit, f float64) {
	var centre r2.Vec
	if a := u.Attachment; a != nil {
		centre = m.c.At(a.ChildAtom)
	} else {
		centre, _ = m.c.Centroid(u.Atoms)
	}
	for _, ci := range u.Children {
		ch := m.ug.Units[ci]
		if ch.Attachment == nil {
			continue
		}
		old := m.c.At(ch.Attachment.ParentAtom)
		moved := r2.Add(centre, r2.Scale(f, r2.Sub(old, centre)))
		m.c.Translate(m.ug.SubtreeAtoms(ci), r2.Sub(moved, old))
	}
	m.c.Scale(u.Atoms, f, centre)
}

func (m *minimizer) discrete() {
	for _, ui := range m.ug.Order {
		u := m.ug.Units[ui]
		if u.DOFs.States() <= 1 {
			continue
		}
		sub := m.ug.SubtreeAtoms(ui)
		snap := m.c.Snapshot(sub)
		best, bestState := m.e.total(), identityState
		for r := 0; r < u.DOFs.Rotations; r++ {
			for f := 0; f < u.DOFs.Flips; f++ {
				for _, s := range u.DOFs.Scales {
					st := dofState{rot: r, flip: f, scale: s}
					if st == identityState {
						continue
					}
					m.apply(u, sub, st)
					if v := m.e.total(); v < best-energyEpsilon {
						best, bestState = v, st
					}
					m.c.Restore(snap)
				}
			}
		}
		if bestState != identityState {
			m.apply(u, sub, bestState)
			m.moves++
		}
	}
}

func (m *minimizer) refine() {
	step := m.opts.RefinementStep
	if step == 0 {
		return
	}
	inSub := make([]bool, m.c.Len())
	for it := 0; it < m.opts.RefinementIterations; it++ {
		improved := false
		for _, ui := range m.ug.Order {
			u := m.ug.Units[ui]
			if u.DOFs.States() == 0 {
				continue
			}
			sub := m.ug.SubtreeAtoms(ui)
			for _, id := range sub {
				inSub[id] = true
			}
			base := m.e.local(u, sub, inSub)
			pivot, _ := m.pivot(u)
			snap := m.c.Snapshot(sub)
			bestDelta, bestE := 0.0, base
			for _, d := range []float64{step, -step} {
				m.c.Rotate(sub, d, pivot)
				if v := m.e.local(u, sub, inSub); v < bestE-energyEpsilon {
					bestDelta, bestE = d, v
				}
				m.c.Restore(snap)
			}
			if bestDelta != 0 {
				m.c.Rotate(sub, bestDelta, pivot)
				m.moves++
				improved = true
			}
			for _, id := range sub {
				inSub[id] = false
			}
		}
		if !improved {
			break
		}
	}
}
