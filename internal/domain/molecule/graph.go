// Package molecule provides the validated, immutable molecular graph the
// layout pipeline walks.  Atom ids are dense integers 0..N-1 and are never
// renumbered; adjacency lists and the bond list are sorted so that traversals
// are deterministic regardless of the order bonds were supplied in.
package molecule

import (
	"fmt"
	"sort"

	"github.com/turtacn/KeyIP-Layout/pkg/errors"
	mtypes "github.com/turtacn/KeyIP-Layout/pkg/types/molecule"
)

// BondKey identifies an undirected bond by its two atom ids, smaller first.
type BondKey struct {
	Lo, Hi int
}

// NewBondKey normalises an atom pair into a BondKey.
func NewBondKey(a, b int) BondKey {
	if a > b {
		a, b = b, a
	}
	return BondKey{Lo: a, Hi: b}
}

// Other returns the endpoint of k that is not id.
func (k BondKey) Other(id int) int {
	if k.Lo == id {
		return k.Hi
	}
	return k.Lo
}

// Graph is the read-only molecular graph.
type Graph struct {
	atoms  []mtypes.Atom
	adj    [][]int
	bonds  []BondKey
	orders map[BondKey]mtypes.BondOrder
}

// NewGraph validates m and builds its graph view.  Atoms may appear in any
// order but their ids must cover 0..N-1 exactly once.  Duplicate bonds are
// collapsed; the first occurrence wins.
func NewGraph(m *mtypes.Molecule) (*Graph, error) {
	if m == nil {
		return nil, errors.New(errors.ErrCodeMoleculeInvalidFormat, "molecule is nil")
	}
	n := len(m.Atoms)
	g := &Graph{
		atoms:  make([]mtypes.Atom, n),
		adj:    make([][]int, n),
		orders: make(map[BondKey]mtypes.BondOrder, len(m.Bonds)),
	}
	seen := make([]bool, n)
	for _, a := range m.Atoms {
		if a.ID < 0 || a.ID >= n {
			return nil, errors.New(errors.ErrCodeMoleculeInvalidFormat, "atom id out of range").
				WithDetail(fmt.Sprintf("id=%d atoms=%d", a.ID, n))
		}
		if seen[a.ID] {
			return nil, errors.New(errors.ErrCodeMoleculeInvalidFormat, "duplicate atom id").
				WithDetail(fmt.Sprintf("id=%d", a.ID))
		}
		seen[a.ID] = true
		g.atoms[a.ID] = a
	}
	for i, b := range m.Bonds {
		if b.Atom1 < 0 || b.Atom1 >= n || b.Atom2 < 0 || b.Atom2 >= n {
			return nil, errors.New(errors.ErrCodeMoleculeInvalidFormat, "bond references unknown atom").
				WithDetail(fmt.Sprintf("bond=%d atoms=(%d,%d)", i, b.Atom1, b.Atom2))
		}
		if b.Atom1 == b.Atom2 {
			return nil, errors.New(errors.ErrCodeMoleculeInvalidFormat, "self bond").
				WithDetail(fmt.Sprintf("bond=%d atom=%d", i, b.Atom1))
		}
		k := NewBondKey(b.Atom1, b.Atom2)
		if _, dup := g.orders[k]; dup {
			continue
		}
		order := b.Order
		if order == 0 {
			order = mtypes.BondSingle
		}
		g.orders[k] = order
		g.bonds = append(g.bonds, k)
		g.adj[k.Lo] = append(g.adj[k.Lo], k.Hi)
		g.adj[k.Hi] = append(g.adj[k.Hi], k.Lo)
	}
	for i := range g.adj {
		sort.Ints(g.adj[i])
	}
	sort.Slice(g.bonds, func(i, j int) bool {
		if g.bonds[i].Lo != g.bonds[j].Lo {
			return g.bonds[i].Lo < g.bonds[j].Lo
		}
		return g.bonds[i].Hi < g.bonds[j].Hi
	})
	return g, nil
}

// NumAtoms returns N.
func (g *Graph) NumAtoms() int { return len(g.atoms) }

// NumBonds returns the number of distinct bonds.
func (g *Graph) NumBonds() int { return len(g.bonds) }

// Atom returns the atom record for id.
func (g *Graph) Atom(id int) mtypes.Atom { return g.atoms[id] }

// Symbol returns the element symbol of id.
func (g *Graph) Symbol(id int) string { return g.atoms[id].Symbol }

// IsAromatic reports the aromatic flag of id.
func (g *Graph) IsAromatic(id int) bool { return g.atoms[id].Aromatic }

// IsCarbon reports whether id is a carbon atom (aliphatic or aromatic symbol).
func (g *Graph) IsCarbon(id int) bool {
	s := g.atoms[id].Symbol
	return s == "C" || s == "c"
}

// Neighbors returns the sorted neighbour list of id.  Callers must not mutate it.
func (g *Graph) Neighbors(id int) []int { return g.adj[id] }

// Degree returns the number of neighbours of id.
func (g *Graph) Degree(id int) int { return len(g.adj[id]) }

// Bonds returns every distinct bond sorted by (Lo, Hi).  Callers must not mutate it.
func (g *Graph) Bonds() []BondKey { return g.bonds }

// HasBond reports whether a and b are directly bonded.
func (g *Graph) HasBond(a, b int) bool {
	_, ok := g.orders[NewBondKey(a, b)]
	return ok
}

// BondOrder returns the order of the a-b bond, or 0 when they are not bonded.
func (g *Graph) BondOrder(a, b int) mtypes.BondOrder {
	return g.orders[NewBondKey(a, b)]
}

// IsOneThree reports whether a and b are two bonds apart through a common
// neighbour.
func (g *Graph) IsOneThree(a, b int) bool {
	if a == b {
		return false
	}
	na, nb := g.adj[a], g.adj[b]
	i, j := 0, 0
	for i < len(na) && j < len(nb) {
		switch {
		case na[i] == nb[j]:
			return true
		case na[i] < nb[j]:
			i++
		default:
			j++
		}
	}
	return false
}

// IsClose reports whether a and b are bonded or 1-3 separated.  Such pairs are
// expected to be near each other in any drawing.
func (g *Graph) IsClose(a, b int) bool {
	return g.HasBond(a, b) || g.IsOneThree(a, b)
}
