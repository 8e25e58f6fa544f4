// Package geometry holds the planar primitives shared by every layout stage:
// the dense coordinate store, rigid transforms, polygon construction and
// principal-axis analysis.  Vectors are gonum r2.Vec values throughout.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Coords is the coordinate store of one layout run.  It is a dense arena
// indexed by atom id; an atom that has not been placed reads as the origin.
type Coords struct {
	pts []r2.Vec
	set []bool
}

// NewCoords allocates a store for n atoms.
func NewCoords(n int) *Coords {
	return &Coords{pts: make([]r2.Vec, n), set: make([]bool, n)}
}

// Len returns the number of atom slots.
func (c *Coords) Len() int { return len(c.pts) }

// At returns the position of id, or the origin when id is unplaced or out of range.
func (c *Coords) At(id int) r2.Vec {
	if id < 0 || id >= len(c.pts) {
		return r2.Vec{}
	}
	return c.pts[id]
}

// Set places id at p.  Out-of-range ids are ignored.
func (c *Coords) Set(id int, p r2.Vec) {
	if id < 0 || id >= len(c.pts) {
		return
	}
	c.pts[id] = p
	c.set[id] = true
}

// Has reports whether id has been placed.
func (c *Coords) Has(id int) bool {
	return id >= 0 && id < len(c.set) && c.set[id]
}

// Placed returns the ids that have been placed, ascending.
func (c *Coords) Placed() []int {
	out := make([]int, 0, len(c.pts))
	for i, ok := range c.set {
		if ok {
			out = append(out, i)
		}
	}
	return out
}

// Empty reports whether no atom has been placed.
func (c *Coords) Empty() bool {
	for _, ok := range c.set {
		if ok {
			return false
		}
	}
	return true
}

// Dist returns the distance between two atoms.
func (c *Coords) Dist(a, b int) float64 {
	return r2.Norm(r2.Sub(c.At(a), c.At(b)))
}

// Clone returns an independent copy of the store.
func (c *Coords) Clone() *Coords {
	out := &Coords{pts: make([]r2.Vec, len(c.pts)), set: make([]bool, len(c.set))}
	copy(out.pts, c.pts)
	copy(out.set, c.set)
	return out
}

// Points returns the positions of ids in order.
func (c *Coords) Points(ids []int) []r2.Vec {
	out := make([]r2.Vec, len(ids))
	for i, id := range ids {
		out[i] = c.At(id)
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Snapshots
// ─────────────────────────────────────────────────────────────────────────────

// Snapshot records the state of a subset of atoms so it can be restored after
// a rejected trial move.
type Snapshot struct {
	ids []int
	pts []r2.Vec
	set []bool
}

// Snapshot captures ids.
func (c *Coords) Snapshot(ids []int) Snapshot {
	s := Snapshot{
		ids: append([]int(nil), ids...),
		pts: make([]r2.Vec, len(ids)),
		set: make([]bool, len(ids)),
	}
	for i, id := range ids {
		s.pts[i] = c.At(id)
		s.set[i] = c.Has(id)
	}
	return s
}

// Restore writes a snapshot back.
func (c *Coords) Restore(s Snapshot) {
	for i, id := range s.ids {
		if id < 0 || id >= len(c.pts) {
			continue
		}
		c.pts[id] = s.pts[i]
		c.set[id] = s.set[i]
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Rigid moves over atom subsets
// ─────────────────────────────────────────────────────────────────────────────

// Apply maps every atom in ids through t.
func (c *Coords) Apply(ids []int, t Transform) {
	for _, id := range ids {
		if id < 0 || id >= len(c.pts) {
			continue
		}
		c.pts[id] = t.Apply(c.pts[id])
	}
}

// Translate moves ids by d.
func (c *Coords) Translate(ids []int, d r2.Vec) {
	c.Apply(ids, Translation(d))
}

// Rotate turns ids by angle radians about pivot.
func (c *Coords) Rotate(ids []int, angle float64, pivot r2.Vec) {
	c.Apply(ids, Rotation(angle, pivot))
}

// Reflect mirrors ids across the line through a and b.
func (c *Coords) Reflect(ids []int, a, b r2.Vec) {
	c.Apply(ids, Reflection(a, b))
}

// Scale scales ids by f about pivot.
func (c *Coords) Scale(ids []int, f float64, pivot r2.Vec) {
	c.Apply(ids, Scaling(f, pivot))
}

// ─────────────────────────────────────────────────────────────────────────────
// Queries
// ─────────────────────────────────────────────────────────────────────────────

// Bounds returns the bounding box of the placed atoms among ids, or of every
// placed atom when ids is nil.  ok is false when nothing is placed.
func (c *Coords) Bounds(ids []int) (box r2.Box, ok bool) {
	if ids == nil {
		ids = c.Placed()
	}
	for _, id := range ids {
		if !c.Has(id) {
			continue
		}
		p := c.pts[id]
		if !ok {
			box = r2.Box{Min: p, Max: p}
			ok = true
			continue
		}
		box.Min.X = math.Min(box.Min.X, p.X)
		box.Min.Y = math.Min(box.Min.Y, p.Y)
		box.Max.X = math.Max(box.Max.X, p.X)
		box.Max.Y = math.Max(box.Max.Y, p.Y)
	}
	return box, ok
}

// Centroid returns the mean position of the placed atoms among ids, or of
// every placed atom when ids is nil.  ok is false when nothing is placed.
func (c *Coords) Centroid(ids []int) (r2.Vec, bool) {
	if ids == nil {
		ids = c.Placed()
	}
	var sum r2.Vec
	n := 0
	for _, id := range ids {
		if !c.Has(id) {
			continue
		}
		sum = r2.Add(sum, c.pts[id])
		n++
	}
	if n == 0 {
		return r2.Vec{}, false
	}
	return r2.Scale(1/float64(n), sum), true
}

// Valid reports whether at least one atom is placed and every placed atom has
// a finite position.
func (c *Coords) Valid() bool {
	any := false
	for i, ok := range c.set {
		if !ok {
			continue
		}
		any = true
		if !IsFinite(c.pts[i]) {
			return false
		}
	}
	return any
}

// Sanitize places every slot, resetting unplaced or non-finite positions to
// the origin.  It returns the ids that held non-finite values.
func (c *Coords) Sanitize() []int {
	var bad []int
	for i := range c.pts {
		if !IsFinite(c.pts[i]) {
			bad = append(bad, i)
			c.pts[i] = r2.Vec{}
		}
		c.set[i] = true
	}
	return bad
}

// IsFinite reports whether both components of p are finite.
func IsFinite(p r2.Vec) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
