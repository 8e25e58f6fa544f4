package layout

import (
	"sort"

	"github.com/turtacn/KeyIP-Layout/internal/domain/molecule"
)

// matchTemplate searches for a bijection from template atoms onto atoms that
// maps template bonds exactly onto the bonds of g among atoms.  mapping[i]
// is the atom id assigned to template atom i.
func matchTemplate(g *molecule.Graph, atoms []int, t *Template) (mapping []int, ok bool) {
	if len(atoms) != t.Size() {
		return nil, false
	}
	inUnit := make(map[int]bool, len(atoms))
	for _, a := range atoms {
		inUnit[a] = true
	}
	bondCount := 0
	deg := make(map[int]int, len(atoms))
	for _, a := range atoms {
		for _, nb := range g.Neighbors(a) {
			if inUnit[nb] {
				deg[a]++
				if a < nb {
					bondCount++
				}
			}
		}
	}
	if bondCount != len(t.Bonds) {
		return nil, false
	}
	tdeg := t.Degrees()
	if !sameDegreeMultiset(tdeg, atoms, deg) {
		return nil, false
	}

	tadj := make([][]int, t.Size())
	for _, b := range t.Bonds {
		tadj[b[0]] = append(tadj[b[0]], b[1])
		tadj[b[1]] = append(tadj[b[1]], b[0])
	}
	order := searchOrder(tdeg, tadj)

	mapping = make([]int, t.Size())
	for i := range mapping {
		mapping[i] = -1
	}
	used := make(map[int]bool, len(atoms))
	candidates := append([]int(nil), atoms...)
	sort.Ints(candidates)

	var extend func(k int) bool
	extend = func(k int) bool {
		if k == len(order) {
			return true
		}
		v := order[k]
		for _, a := range candidates {
			if used[a] || deg[a] != tdeg[v] || !consistent(g, tadj, mapping, v, a) {
				continue
			}
			mapping[v] = a
			used[a] = true
			if extend(k + 1) {
				return true
			}
			mapping[v] = -1
			used[a] = false
		}
		return false
	}
	if !extend(0) {
		return nil, false
	}
	return mapping, true
}

func sameDegreeMultiset(tdeg []int, atoms []int, deg map[int]int) bool {
	a := append([]int(nil), tdeg...)
	b := make([]int, 0, len(atoms))
	for _, id := range atoms {
		b = append(b, deg[id])
	}
	sort.Ints(a)
	sort.Ints(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// searchOrder visits template atoms breadth first from the highest degree
// atom so every atom after the first has a mapped neighbour.
func searchOrder(tdeg []int, tadj [][]int) []int {
	start := 0
	for i, d := range tdeg {
		if d > tdeg[start] {
			start = i
		}
	}
	seen := make([]bool, len(tdeg))
	order := make([]int, 0, len(tdeg))
	for _, s := range append([]int{start}, indices(len(tdeg))...) {
		if seen[s] {
			continue
		}
		seen[s] = true
		queue := []int{s}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			order = append(order, v)
			for _, w := range tadj[v] {
				if !seen[w] {
					seen[w] = true
					queue = append(queue, w)
				}
			}
		}
	}
	return order
}

func indices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// consistent checks that mapping v to a keeps adjacency with every mapped
// template atom in agreement.
func consistent(g *molecule.Graph, tadj [][]int, mapping []int, v, a int) bool {
	adjacent := make(map[int]bool, len(tadj[v]))
	for _, w := range tadj[v] {
		adjacent[w] = true
	}
	for w, b := range mapping {
		if b < 0 || w == v {
			continue
		}
		if adjacent[w] != g.HasBond(a, b) {
			return false
		}
	}
	return true
}
