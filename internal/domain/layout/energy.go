package layout

import (
	"math"

	"github.com/turtacn/KeyIP-Layout/internal/domain/geometry"
	"github.com/turtacn/KeyIP-Layout/internal/domain/molecule"
)

const (
	idealAngle = 2 * math.Pi / 3
	clashRange = 0.7
)

// energy scores how units hang off one another: stretch of every
// attachment bond, clashes between non-bonded atoms of different units and
// deviation from 120° at every attachment parent atom.
type energy struct {
	g    *molecule.Graph
	ug   *UnitGraph
	c    *geometry.Coords
	opts Options
}

func (e *energy) stretch(u *Unit) float64 {
	a := u.Attachment
	if a == nil {
		return 0
	}
	l := e.opts.BondLength
	r := (e.c.Dist(a.ParentAtom, a.ChildAtom) - l) / l
	return e.opts.StretchWeight * r * r
}

func (e *energy) angle(u *Unit) float64 {
	a := u.Attachment
	if a == nil {
		return 0
	}
	pp, pc := e.c.At(a.ParentAtom), e.c.At(a.ChildAtom)
	sum := 0.0
	for _, nb := range e.g.Neighbors(a.ParentAtom) {
		if nb == a.ChildAtom || !e.c.Has(nb) {
			continue
		}
		d := geometry.AngleAt(pp, pc, e.c.At(nb)) - idealAngle
		sum += d * d
	}
	return e.opts.AngleWeight * sum
}

func (e *energy) clash(i, j int) float64 {
	if e.ug.AtomUnit[i] == e.ug.AtomUnit[j] || e.g.HasBond(i, j) {
		return 0
	}
	l := e.opts.BondLength
	lim := clashRange * l
	d := e.c.Dist(i, j)
	if d >= lim {
		return 0
	}
	r := (lim - d) / l
	return e.opts.ClashWeight * r * r
}

// total is the energy of the whole drawing.
func (e *energy) total() float64 {
	sum := 0.0
	for _, u := range e.ug.Units {
		sum += e.stretch(u) + e.angle(u)
	}
	n := e.c.Len()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sum += e.clash(i, j)
		}
	}
	return sum
}

// local is the part of the energy that changes when the subtree of u moves
// rigidly: u's own terms, the angle terms of siblings sharing its parent
// atom and clashes between the subtree and everything else.
func (e *energy) local(u *Unit, sub []int, inSub []bool) float64 {
	sum := e.stretch(u) + e.angle(u)
	if u.Attachment != nil && u.Parent != NoUnit {
		for _, si := range e.ug.Units[u.Parent].Children {
			sib := e.ug.Units[si]
			if sib != u && sib.Attachment != nil && sib.Attachment.ParentAtom == u.Attachment.ParentAtom {
				sum += e.angle(sib)
			}
		}
	}
	n := e.c.Len()
	for _, i := range sub {
		for j := 0; j < n; j++ {
			if !inSub[j] {
				sum += e.clash(i, j)
			}
		}
	}
	return sum
}
