package testutil

import (
	mtypes "github.com/turtacn/KeyIP-Layout/pkg/types/molecule"
)

// BuildMolecule assembles a molecule from element symbols (lower case marks
// an aromatic atom), bond pairs and ring cycles.
func BuildMolecule(name string, symbols []string, bonds [][2]int, rings [][]int) *mtypes.Molecule {
	m := &mtypes.Molecule{Name: name, Rings: rings}
	for i, s := range symbols {
		aromatic := s == "c" || s == "n" || s == "o" || s == "s"
		m.Atoms = append(m.Atoms, mtypes.Atom{ID: i, Symbol: s, Aromatic: aromatic})
	}
	inRing := make(map[[2]int]bool)
	for _, r := range rings {
		for i := range r {
			a, b := r[i], r[(i+1)%len(r)]
			inRing[[2]int{a, b}] = true
			inRing[[2]int{b, a}] = true
		}
	}
	for _, b := range bonds {
		m.Bonds = append(m.Bonds, mtypes.Bond{Atom1: b[0], Atom2: b[1], Order: mtypes.BondSingle, InRing: inRing[b]})
	}
	return m
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func cycleBonds(atoms ...int) [][2]int {
	out := make([][2]int, len(atoms))
	for i, a := range atoms {
		out[i] = [2]int{a, atoms[(i+1)%len(atoms)]}
	}
	return out
}

// Benzene is a single aromatic six-ring.
func Benzene() *mtypes.Molecule {
	return BuildMolecule("benzene", repeat("c", 6), cycleBonds(0, 1, 2, 3, 4, 5), [][]int{{0, 1, 2, 3, 4, 5}})
}

// Cyclohexane is a single aliphatic six-ring.
func Cyclohexane() *mtypes.Molecule {
	return BuildMolecule("cyclohexane", repeat("C", 6), cycleBonds(0, 1, 2, 3, 4, 5), [][]int{{0, 1, 2, 3, 4, 5}})
}

// Cyclopentane is a single aliphatic five-ring.
func Cyclopentane() *mtypes.Molecule {
	return BuildMolecule("cyclopentane", repeat("C", 5), cycleBonds(0, 1, 2, 3, 4), [][]int{{0, 1, 2, 3, 4}})
}

// Naphthalene is two aromatic six-rings sharing the 4-9 edge.
func Naphthalene() *mtypes.Molecule {
	bonds := [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 9}, {9, 0}, {4, 5}, {5, 6}, {6, 7}, {7, 8}, {8, 9}}
	return BuildMolecule("naphthalene", repeat("c", 10), bonds, [][]int{{0, 1, 2, 3, 4, 9}, {4, 5, 6, 7, 8, 9}})
}

// Anthracene is three linearly fused aromatic six-rings.
func Anthracene() *mtypes.Molecule {
	bonds := [][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 0},
		{3, 6}, {6, 7}, {7, 8}, {8, 9}, {9, 4},
		{7, 10}, {10, 11}, {11, 12}, {12, 13}, {13, 8},
	}
	rings := [][]int{{0, 1, 2, 3, 4, 5}, {3, 6, 7, 8, 9, 4}, {7, 10, 11, 12, 13, 8}}
	return BuildMolecule("anthracene", repeat("c", 14), bonds, rings)
}

// Coronene is a fully aromatic hub ring surrounded by six fused rings.  Every
// hub atom lies in three rings.
func Coronene() *mtypes.Molecule {
	hub := func(i int) int { return i % 6 }
	spoke := func(i int) int { return 6 + i%6 }
	var bonds [][2]int
	var rings [][]int
	rings = append(rings, []int{0, 1, 2, 3, 4, 5})
	bonds = append(bonds, cycleBonds(0, 1, 2, 3, 4, 5)...)
	for i := 0; i < 6; i++ {
		x, y := 12+2*i, 13+2*i
		bonds = append(bonds, [2]int{hub(i), spoke(i)}, [2]int{spoke(i + 1), x}, [2]int{x, y}, [2]int{y, spoke(i)})
		rings = append(rings, []int{hub(i), hub(i + 1), spoke(i + 1), x, y, spoke(i)})
	}
	return BuildMolecule("coronene", repeat("c", 24), bonds, rings)
}

// Adamantane numbered as a depth-first walk: bridgeheads are 1, 3, 5 and 7.
func Adamantane() *mtypes.Molecule {
	bonds := [][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 6}, {6, 7}, {7, 8}, {7, 9},
		{5, 0}, {8, 1}, {9, 3},
	}
	rings := [][]int{{0, 1, 2, 3, 4, 5}, {0, 1, 8, 7, 6, 5}, {1, 2, 3, 9, 7, 8}}
	return BuildMolecule("adamantane", repeat("C", 10), bonds, rings)
}

// Norbornane is bicyclo[2.2.1]heptane with bridgeheads 0 and 3.
func Norbornane() *mtypes.Molecule {
	bonds := [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 0}, {0, 6}, {6, 3}}
	return BuildMolecule("norbornane", repeat("C", 7), bonds, [][]int{{0, 1, 2, 3, 6}, {0, 6, 3, 4, 5}})
}

// Bicyclooctane is bicyclo[2.2.2]octane with bridgeheads 0 and 3.
func Bicyclooctane() *mtypes.Molecule {
	bonds := [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 0}, {0, 6}, {6, 7}, {7, 3}}
	return BuildMolecule("bicyclo[2.2.2]octane", repeat("C", 8), bonds, [][]int{{0, 1, 2, 3, 4, 5}, {0, 1, 2, 3, 7, 6}})
}

// Cubane is the cube graph on eight carbons; vertices differing in one bit
// are bonded.  Five faces are supplied, as a smallest-ring search would.
func Cubane() *mtypes.Molecule {
	bonds := [][2]int{
		{0, 1}, {0, 2}, {0, 4}, {1, 3}, {1, 5}, {2, 3},
		{2, 6}, {3, 7}, {4, 5}, {4, 6}, {5, 7}, {6, 7},
	}
	rings := [][]int{{0, 2, 6, 4}, {1, 3, 7, 5}, {0, 1, 5, 4}, {2, 3, 7, 6}, {0, 1, 3, 2}}
	return BuildMolecule("cubane", repeat("C", 8), bonds, rings)
}

// SpiroDecane is spiro[4.5]decane; atom 0 is the spiro centre.
func SpiroDecane() *mtypes.Molecule {
	bonds := append(cycleBonds(0, 1, 2, 3, 4), cycleBonds(0, 5, 6, 7, 8, 9)...)
	return BuildMolecule("spiro[4.5]decane", repeat("C", 10), bonds, [][]int{{0, 1, 2, 3, 4}, {0, 5, 6, 7, 8, 9}})
}

// Cyclooctane is an eight-membered macrocycle.
func Cyclooctane() *mtypes.Molecule {
	atoms := []int{0, 1, 2, 3, 4, 5, 6, 7}
	return BuildMolecule("cyclooctane", repeat("C", 8), cycleBonds(atoms...), [][]int{atoms})
}

// Cyclododecane is a twelve-membered macrocycle.
func Cyclododecane() *mtypes.Molecule {
	atoms := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	return BuildMolecule("cyclododecane", repeat("C", 12), cycleBonds(atoms...), [][]int{atoms})
}

// PhenylPentanol is 5-phenylpentan-1-ol: O0, chain C1..C5, phenyl 6..11.
func PhenylPentanol() *mtypes.Molecule {
	symbols := append([]string{"O", "C", "C", "C", "C", "C"}, repeat("c", 6)...)
	bonds := [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 6}}
	bonds = append(bonds, cycleBonds(6, 7, 8, 9, 10, 11)...)
	return BuildMolecule("5-phenylpentan-1-ol", symbols, bonds, [][]int{{6, 7, 8, 9, 10, 11}})
}

// Toluene is benzene with a methyl on atom 0.
func Toluene() *mtypes.Molecule {
	symbols := append(repeat("c", 6), "C")
	bonds := append(cycleBonds(0, 1, 2, 3, 4, 5), [2]int{0, 6})
	return BuildMolecule("toluene", symbols, bonds, [][]int{{0, 1, 2, 3, 4, 5}})
}

// Biphenyl is two phenyl rings joined by the 0-6 bond.
func Biphenyl() *mtypes.Molecule {
	bonds := append(cycleBonds(0, 1, 2, 3, 4, 5), cycleBonds(6, 7, 8, 9, 10, 11)...)
	bonds = append(bonds, [2]int{0, 6})
	return BuildMolecule("biphenyl", repeat("c", 12), bonds, [][]int{{0, 1, 2, 3, 4, 5}, {6, 7, 8, 9, 10, 11}})
}

// Hexane is a straight six-carbon chain.
func Hexane() *mtypes.Molecule {
	return BuildMolecule("hexane", repeat("C", 6), [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}}, nil)
}

// Neopentane is a quaternary carbon with four methyls.
func Neopentane() *mtypes.Molecule {
	return BuildMolecule("neopentane", repeat("C", 5), [][2]int{{0, 1}, {0, 2}, {0, 3}, {0, 4}}, nil)
}

// TertButylBenzene is benzene carrying a tert-butyl group on atom 0.
func TertButylBenzene() *mtypes.Molecule {
	symbols := append(repeat("c", 6), repeat("C", 4)...)
	bonds := append(cycleBonds(0, 1, 2, 3, 4, 5), [2]int{0, 6}, [2]int{6, 7}, [2]int{6, 8}, [2]int{6, 9})
	return BuildMolecule("tert-butylbenzene", symbols, bonds, [][]int{{0, 1, 2, 3, 4, 5}})
}

// Disconnected is benzene plus a separate ethane fragment.
func Disconnected() *mtypes.Molecule {
	symbols := append(repeat("c", 6), "C", "C")
	bonds := append(cycleBonds(0, 1, 2, 3, 4, 5), [2]int{6, 7})
	return BuildMolecule("benzene.ethane", symbols, bonds, [][]int{{0, 1, 2, 3, 4, 5}})
}

// Methane is a single atom.
func Methane() *mtypes.Molecule {
	return BuildMolecule("methane", []string{"C"}, nil, nil)
}

// Empty has no atoms.
func Empty() *mtypes.Molecule {
	return &mtypes.Molecule{Name: "empty"}
}
