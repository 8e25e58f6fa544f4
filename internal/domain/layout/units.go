package layout

import (
	"sort"

	"github.com/turtacn/KeyIP-Layout/internal/domain/ringsystem"
)

// UnitKind tags the variant of a rigid unit.
type UnitKind int

const (
	UnitRingSystem UnitKind = iota
	UnitChain
	UnitSingleAtom
)

func (k UnitKind) String() string {
	switch k {
	case UnitRingSystem:
		return "ring-system"
	case UnitChain:
		return "chain"
	case UnitSingleAtom:
		return "single-atom"
	default:
		return "unknown"
	}
}

// UnitIndex addresses a unit in UnitGraph.Units.
type UnitIndex int

// NoUnit marks the absence of a unit, e.g. the parent of the root.
const NoUnit UnitIndex = -1

// Attachment is the bond joining a unit to its parent.
type Attachment struct {
	ParentAtom int
	ChildAtom  int
}

// DOFs are the discrete states the minimizer explores for a unit.
type DOFs struct {
	Rotations int
	Flips     int
	Scales    []float64
}

// States returns the size of the discrete search space.
func (d DOFs) States() int {
	return d.Rotations * d.Flips * len(d.Scales)
}

// Unit is a rigid body of atoms.  System is set for ring-system units only.
type Unit struct {
	Index    UnitIndex
	Kind     UnitKind
	System   *ringsystem.System
	Atoms    []int
	Parent   UnitIndex
	Children []UnitIndex
	// Attachment is nil for the root and for detached fragments hung off
	// the root.
	Attachment *Attachment
	DOFs       DOFs
	Priority   float64
}

// Bridged reports whether u is a bridged ring-system unit.
func (u *Unit) Bridged() bool {
	return u.Kind == UnitRingSystem && u.System != nil && u.System.Kind == ringsystem.KindBridged
}

// InterBond is the single bond kept between two units.
type InterBond struct {
	A, B         UnitIndex
	AtomA, AtomB int
}

// UnitGraph is the rigid-unit partition with its placement tree.
type UnitGraph struct {
	Units      []*Unit
	Root       UnitIndex
	AtomUnit   []UnitIndex
	InterBonds []InterBond
	// Order lists units root first, breadth first, children by descending
	// priority.
	Order []UnitIndex
	// Orphans are fragment roots attached to Root without a bond.
	Orphans []UnitIndex

	subtrees map[UnitIndex][]int
}

// Unit returns the unit at i.
func (ug *UnitGraph) Unit(i UnitIndex) *Unit { return ug.Units[i] }

// UnitOf returns the unit owning atom id.
func (ug *UnitGraph) UnitOf(id int) *Unit { return ug.Units[ug.AtomUnit[id]] }

// SubtreeAtoms returns the sorted atoms of unit i and all of its
// descendants.
func (ug *UnitGraph) SubtreeAtoms(i UnitIndex) []int {
	if ug.subtrees == nil {
		ug.subtrees = make(map[UnitIndex][]int)
	}
	if atoms, ok := ug.subtrees[i]; ok {
		return atoms
	}
	var atoms []int
	stack := []UnitIndex{i}
	for len(stack) > 0 {
		u := ug.Units[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		atoms = append(atoms, u.Atoms...)
		stack = append(stack, u.Children...)
	}
	sort.Ints(atoms)
	ug.subtrees[i] = atoms
	return atoms
}

// InSubtree reports whether unit j is i or one of its descendants.
func (ug *UnitGraph) InSubtree(i, j UnitIndex) bool {
	for j != NoUnit {
		if j == i {
			return true
		}
		j = ug.Units[j].Parent
	}
	return false
}
