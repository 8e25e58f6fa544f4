package layout

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/turtacn/KeyIP-Layout/internal/domain/molecule"
	"github.com/turtacn/KeyIP-Layout/internal/domain/ringsystem"
)

// Priority weights.  Each tier dominates every tier below it for molecules
// of realistic size.
const (
	priorityAromatic  = 1e9
	priorityPerRing   = 1e6
	priorityRingSize  = 1e3
	priorityBenzenoid = 0.5
)

var bridgedScales = []float64{1.0, 0.9, 1.1}

// DetectUnits partitions g into rigid units: one per ring system, one per
// connected run of acyclic atoms with two or more atoms and one per isolated
// acyclic atom.  It then builds the placement tree rooted at the highest
// priority unit.
func DetectUnits(g *molecule.Graph, rs *ringsystem.Result, opts Options) *UnitGraph {
	n := g.NumAtoms()
	ug := &UnitGraph{Root: NoUnit, AtomUnit: make([]UnitIndex, n)}
	for i := range ug.AtomUnit {
		ug.AtomUnit[i] = NoUnit
	}
	if n == 0 {
		return ug
	}

	for _, sys := range rs.Systems {
		u := ug.add(UnitRingSystem, append([]int(nil), sys.Atoms...))
		u.System = sys
		u.Priority = ringSystemPriority(g, rs, sys)
	}

	for _, comp := range acyclicComponents(g, rs) {
		kind := UnitChain
		if len(comp) == 1 {
			kind = UnitSingleAtom
		}
		u := ug.add(kind, comp)
		u.Priority = float64(len(comp))
	}

	// Keep the lowest (Lo, Hi) bond between each unit pair.
	type pair struct{ a, b UnitIndex }
	seen := make(map[pair]bool)
	for _, b := range g.Bonds() {
		ua, ub := ug.AtomUnit[b.Lo], ug.AtomUnit[b.Hi]
		if ua == ub {
			continue
		}
		key := pair{ua, ub}
		if ub < ua {
			key = pair{ub, ua}
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		ug.InterBonds = append(ug.InterBonds, InterBond{A: ua, B: ub, AtomA: b.Lo, AtomB: b.Hi})
	}

	ug.buildTree()
	ug.assignDOFs(opts)
	return ug
}

func (ug *UnitGraph) add(kind UnitKind, atoms []int) *Unit {
	u := &Unit{Index: UnitIndex(len(ug.Units)), Kind: kind, Atoms: atoms, Parent: NoUnit}
	for _, a := range atoms {
		ug.AtomUnit[a] = u.Index
	}
	ug.Units = append(ug.Units, u)
	return u
}

func ringSystemPriority(g *molecule.Graph, rs *ringsystem.Result, sys *ringsystem.System) float64 {
	p := float64(len(sys.Rings))*priorityPerRing + float64(clamp(len(sys.Atoms), 999))
	if sys.Aromatic {
		p += priorityAromatic
	}
	maxSize := 0
	benzenoid := false
	for _, r := range rs.RingsOf(sys) {
		if r.Size() > maxSize {
			maxSize = r.Size()
		}
		if r.Size() == 6 && r.AllCarbon(g) {
			benzenoid = true
		}
	}
	p += float64(clamp(maxSize, 999)) * priorityRingSize
	if benzenoid {
		p += priorityBenzenoid
	}
	return p
}

func clamp(v, hi int) int {
	if v > hi {
		return hi
	}
	return v
}

// acyclicComponents returns the connected components of the subgraph
// induced by atoms outside every ring system, each sorted, ordered by their
// lowest atom id.
func acyclicComponents(g *molecule.Graph, rs *ringsystem.Result) [][]int {
	sub := simple.NewUndirectedGraph()
	for id := 0; id < g.NumAtoms(); id++ {
		if rs.AtomSystem[id] < 0 {
			sub.AddNode(simple.Node(id))
		}
	}
	for _, b := range g.Bonds() {
		if rs.AtomSystem[b.Lo] < 0 && rs.AtomSystem[b.Hi] < 0 {
			sub.SetEdge(simple.Edge{F: simple.Node(b.Lo), T: simple.Node(b.Hi)})
		}
	}
	var comps [][]int
	for _, nodes := range topo.ConnectedComponents(sub) {
		ids := make([]int, len(nodes))
		for i, nd := range nodes {
			ids[i] = int(nd.ID())
		}
		sort.Ints(ids)
		comps = append(comps, ids)
	}
	sort.Slice(comps, func(i, j int) bool { return comps[i][0] < comps[j][0] })
	return comps
}

type unitEdge struct {
	to         UnitIndex
	from, atom int
}

func (ug *UnitGraph) better(a, b UnitIndex) bool {
	pa, pb := ug.Units[a].Priority, ug.Units[b].Priority
	if pa != pb {
		return pa > pb
	}
	return a < b
}

// buildTree runs a breadth-first traversal from the best unit.  Fragments
// not reachable through bonds are hung off the root, best first.
func (ug *UnitGraph) buildTree() {
	if len(ug.Units) == 0 {
		return
	}
	adj := make([][]unitEdge, len(ug.Units))
	for _, ib := range ug.InterBonds {
		adj[ib.A] = append(adj[ib.A], unitEdge{to: ib.B, from: ib.AtomA, atom: ib.AtomB})
		adj[ib.B] = append(adj[ib.B], unitEdge{to: ib.A, from: ib.AtomB, atom: ib.AtomA})
	}
	for i := range adj {
		edges := adj[i]
		sort.Slice(edges, func(x, y int) bool { return ug.better(edges[x].to, edges[y].to) })
	}

	ranked := make([]UnitIndex, len(ug.Units))
	for i := range ranked {
		ranked[i] = UnitIndex(i)
	}
	sort.Slice(ranked, func(i, j int) bool { return ug.better(ranked[i], ranked[j]) })
	ug.Root = ranked[0]

	visited := make([]bool, len(ug.Units))
	bfs := func(start UnitIndex) {
		visited[start] = true
		queue := []UnitIndex{start}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			ug.Order = append(ug.Order, cur)
			for _, e := range adj[cur] {
				if visited[e.to] {
					continue
				}
				visited[e.to] = true
				child := ug.Units[e.to]
				child.Parent = cur
				child.Attachment = &Attachment{ParentAtom: e.from, ChildAtom: e.atom}
				ug.Units[cur].Children = append(ug.Units[cur].Children, e.to)
				queue = append(queue, e.to)
			}
		}
	}
	bfs(ug.Root)
	for _, ui := range ranked[1:] {
		if visited[ui] {
			continue
		}
		ug.Units[ui].Parent = ug.Root
		ug.Units[ug.Root].Children = append(ug.Units[ug.Root].Children, ui)
		ug.Orphans = append(ug.Orphans, ui)
		bfs(ui)
	}
}

func (ug *UnitGraph) assignDOFs(opts Options) {
	flips := 1
	if opts.TryFlips {
		flips = 2
	}
	for _, u := range ug.Units {
		if u.Index == ug.Root {
			continue
		}
		u.DOFs = DOFs{Rotations: opts.RotationSteps, Flips: flips, Scales: []float64{1.0}}
		if u.Bridged() {
			u.DOFs.Scales = append([]float64(nil), bridgedScales...)
		}
	}
}
