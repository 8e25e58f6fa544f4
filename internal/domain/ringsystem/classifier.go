package ringsystem

import (
	"sort"

	"github.com/turtacn/KeyIP-Layout/internal/domain/molecule"
	"github.com/turtacn/KeyIP-Layout/internal/infrastructure/monitoring/logging"
)

// System is a set of rings connected transitively through shared atoms.
type System struct {
	// Index is the position of the system in Result.Systems.
	Index int
	// Rings holds indices into Result.Rings, ascending.
	Rings []int
	// Atoms is the sorted union of member ring atoms.
	Atoms []int
	// Bonds is the union of ring edges that are real bonds.
	Bonds map[molecule.BondKey]struct{}
	Kind  Kind
	// Adjacency maps each member ring to the member rings it shares atoms
	// with, ascending.
	Adjacency map[int][]int
	// Seed is the ring placement starts from.
	Seed     int
	Aromatic bool

	atomSet map[int]struct{}
}

// HasAtom reports whether id belongs to the system.
func (s *System) HasAtom(id int) bool {
	_, ok := s.atomSet[id]
	return ok
}

// HasBond reports whether the a-b bond is an intra-system ring bond.
func (s *System) HasBond(a, b int) bool {
	_, ok := s.Bonds[molecule.NewBondKey(a, b)]
	return ok
}

// Result is the output of Classify.
type Result struct {
	Rings   []Ring
	Systems []*System
	// RingSystem maps ring index to system index.
	RingSystem []int
	// AtomSystem maps atom id to system index, -1 for acyclic atoms.
	AtomSystem []int
}

// SystemOf returns the system containing id, or nil.
func (r *Result) SystemOf(id int) *System {
	if id < 0 || id >= len(r.AtomSystem) || r.AtomSystem[id] < 0 {
		return nil
	}
	return r.Systems[r.AtomSystem[id]]
}

// RingsOf returns the member rings of s.
func (r *Result) RingsOf(s *System) []Ring {
	out := make([]Ring, len(s.Rings))
	for i, ri := range s.Rings {
		out[i] = r.Rings[ri]
	}
	return out
}

// Classifier groups rings into systems.
type Classifier struct {
	logger logging.Logger
}

// NewClassifier constructs a Classifier.
func NewClassifier(logger logging.Logger) *Classifier {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Classifier{logger: logger}
}

// Classify validates rings against g, groups them with union-find on shared
// atoms and classifies every group.  Rings with fewer than three atoms,
// repeated atoms or atoms outside g are dropped.
func (c *Classifier) Classify(g *molecule.Graph, rings [][]int) *Result {
	res := &Result{AtomSystem: make([]int, g.NumAtoms())}
	for i := range res.AtomSystem {
		res.AtomSystem[i] = -1
	}
	for i, atoms := range rings {
		if !validRing(g, atoms) {
			c.logger.Warn("dropping invalid ring", logging.Int("ring", i), logging.Int("size", len(atoms)))
			continue
		}
		res.Rings = append(res.Rings, newRing(atoms, g))
	}
	if len(res.Rings) == 0 {
		return res
	}

	uf := newUnionFind(len(res.Rings))
	owner := make(map[int]int)
	for ri, r := range res.Rings {
		for _, a := range r.Atoms {
			if prev, ok := owner[a]; ok {
				uf.union(prev, ri)
			} else {
				owner[a] = ri
			}
		}
	}

	groups := make(map[int][]int)
	var roots []int
	for ri := range res.Rings {
		root := uf.find(ri)
		if _, ok := groups[root]; !ok {
			roots = append(roots, root)
		}
		groups[root] = append(groups[root], ri)
	}
	// roots are discovered in ascending order of their lowest ring.
	res.RingSystem = make([]int, len(res.Rings))
	for _, root := range roots {
		sys := c.buildSystem(g, res.Rings, groups[root])
		sys.Index = len(res.Systems)
		for _, ri := range sys.Rings {
			res.RingSystem[ri] = sys.Index
		}
		for _, a := range sys.Atoms {
			res.AtomSystem[a] = sys.Index
		}
		res.Systems = append(res.Systems, sys)
		c.logger.Debug("classified ring system",
			logging.Int("system", sys.Index),
			logging.Int("rings", len(sys.Rings)),
			logging.Int("atoms", len(sys.Atoms)),
			logging.String("kind", sys.Kind.String()))
	}
	return res
}

func validRing(g *molecule.Graph, atoms []int) bool {
	if len(atoms) < 3 {
		return false
	}
	seen := make(map[int]bool, len(atoms))
	for _, a := range atoms {
		if a < 0 || a >= g.NumAtoms() || seen[a] {
			return false
		}
		seen[a] = true
	}
	return true
}

func (c *Classifier) buildSystem(g *molecule.Graph, rings []Ring, members []int) *System {
	sort.Ints(members)
	sys := &System{
		Rings:     members,
		Bonds:     make(map[molecule.BondKey]struct{}),
		Adjacency: make(map[int][]int, len(members)),
		atomSet:   make(map[int]struct{}),
		Aromatic:  true,
	}
	membership := make(map[int]int)
	for _, ri := range members {
		r := rings[ri]
		if !r.Aromatic {
			sys.Aromatic = false
		}
		for _, a := range r.Atoms {
			if _, ok := sys.atomSet[a]; !ok {
				sys.atomSet[a] = struct{}{}
				sys.Atoms = append(sys.Atoms, a)
			}
			membership[a]++
		}
		for _, e := range r.Edges() {
			if g.HasBond(e.Lo, e.Hi) {
				sys.Bonds[e] = struct{}{}
			}
		}
	}
	sort.Ints(sys.Atoms)

	var fused, spiro, bridged bool
	for i, a := range members {
		for _, b := range members[i+1:] {
			shared := rings[a].Shared(rings[b])
			if len(shared) == 0 {
				continue
			}
			sys.Adjacency[a] = append(sys.Adjacency[a], b)
			sys.Adjacency[b] = append(sys.Adjacency[b], a)
			switch {
			case len(shared) >= 3:
				bridged = true
			case len(shared) == 2:
				if g.HasBond(shared[0], shared[1]) {
					fused = true
				} else {
					bridged = true
				}
			default:
				spiro = true
			}
		}
	}
	for _, ri := range members {
		sort.Ints(sys.Adjacency[ri])
	}
	bridgeheads := 0
	for _, n := range membership {
		if n >= 3 {
			bridgeheads++
		}
	}
	if bridgeheads >= 3 {
		bridged = true
	}

	switch {
	case len(members) == 1:
		sys.Kind = KindIsolated
	case sys.Aromatic:
		// Flat aromatic polycycles are drawn as fused even when ring
		// overlap counts look cage-like.
		sys.Kind = KindFused
	case bridged:
		sys.Kind = KindBridged
	case fused:
		sys.Kind = KindFused
	case spiro:
		sys.Kind = KindSpiro
	default:
		sys.Kind = KindIsolated
	}

	sys.Seed = members[0]
	for _, ri := range members[1:] {
		best := sys.Seed
		na, nb := len(sys.Adjacency[ri]), len(sys.Adjacency[best])
		if na > nb || (na == nb && rings[ri].Size() > rings[best].Size()) {
			sys.Seed = ri
		}
	}
	return sys
}
