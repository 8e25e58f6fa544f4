// Package ringsystem groups perceived rings into ring systems and classifies
// each system's topology as isolated, fused, spiro or bridged.
package ringsystem

import (
	"github.com/turtacn/KeyIP-Layout/internal/domain/molecule"
)

// Kind is the topology class of a ring system.
type Kind int

const (
	KindIsolated Kind = iota
	KindFused
	KindSpiro
	KindBridged
)

// String returns the lower-case name of k.
func (k Kind) String() string {
	switch k {
	case KindIsolated:
		return "isolated"
	case KindFused:
		return "fused"
	case KindSpiro:
		return "spiro"
	case KindBridged:
		return "bridged"
	default:
		return "unknown"
	}
}

// Ring is an ordered atom cycle.
type Ring struct {
	Atoms    []int
	Aromatic bool
	index    map[int]int
}

func newRing(atoms []int, g *molecule.Graph) Ring {
	r := Ring{Atoms: append([]int(nil), atoms...), Aromatic: true, index: make(map[int]int, len(atoms))}
	for i, a := range r.Atoms {
		r.index[a] = i
		if !g.IsAromatic(a) {
			r.Aromatic = false
		}
	}
	return r
}

// Size returns the number of atoms in the ring.
func (r Ring) Size() int { return len(r.Atoms) }

// Contains reports whether id is a member of the ring.
func (r Ring) Contains(id int) bool {
	_, ok := r.index[id]
	return ok
}

// IndexOf returns the position of id in the cycle, or -1.
func (r Ring) IndexOf(id int) int {
	if i, ok := r.index[id]; ok {
		return i
	}
	return -1
}

// Edges returns the bond keys of consecutive ring atoms, closing the cycle.
func (r Ring) Edges() []molecule.BondKey {
	out := make([]molecule.BondKey, 0, len(r.Atoms))
	for i, a := range r.Atoms {
		out = append(out, molecule.NewBondKey(a, r.Atoms[(i+1)%len(r.Atoms)]))
	}
	return out
}

// Shared returns the atoms r has in common with o, in r's cycle order.
func (r Ring) Shared(o Ring) []int {
	var out []int
	for _, a := range r.Atoms {
		if o.Contains(a) {
			out = append(out, a)
		}
	}
	return out
}

// AllCarbon reports whether every member is carbon.
func (r Ring) AllCarbon(g *molecule.Graph) bool {
	for _, a := range r.Atoms {
		if !g.IsCarbon(a) {
			return false
		}
	}
	return true
}
