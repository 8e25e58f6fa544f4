// Package molecule defines the molecule and depiction Data Transfer Objects
// used across every layer of KeyIP-Layout.  No domain logic lives here, only
// plain data types that are safe to import from any layer without creating
// circular dependencies.
package molecule

import (
	"github.com/turtacn/KeyIP-Layout/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Input graph
// ─────────────────────────────────────────────────────────────────────────────

// BondOrder is the formal order of a bond.  The layout engine treats every
// order alike; the value is carried through for renderers.
type BondOrder int

const (
	BondSingle   BondOrder = 1
	BondDouble   BondOrder = 2
	BondTriple   BondOrder = 3
	BondAromatic BondOrder = 4
)

// Atom is a vertex of the molecular graph.  IDs are dense, 0..N-1.
type Atom struct {
	ID       int    `json:"id"`
	Symbol   string `json:"symbol"`
	Aromatic bool   `json:"aromatic,omitempty"`
}

// Bond is an undirected edge between two atom ids.
type Bond struct {
	Atom1  int       `json:"atom1"`
	Atom2  int       `json:"atom2"`
	Order  BondOrder `json:"order,omitempty"`
	InRing bool      `json:"in_ring,omitempty"`
}

// Molecule is the input of a depiction request.  Rings is the precomputed
// ring list (each ring an ordered atom cycle) supplied by the ring
// perception stage upstream.
type Molecule struct {
	Name  string  `json:"name,omitempty"`
	Atoms []Atom  `json:"atoms"`
	Bonds []Bond  `json:"bonds"`
	Rings [][]int `json:"rings,omitempty"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Output
// ─────────────────────────────────────────────────────────────────────────────

// Point is a planar coordinate in bond-length units of the request.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// AtomPosition pairs an atom with its computed coordinate.
type AtomPosition struct {
	ID     int     `json:"id"`
	Symbol string  `json:"symbol"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// BoundingBox is the axis-aligned extent of a depiction.
type BoundingBox struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Width returns MaxX-MinX.
func (b BoundingBox) Width() float64 { return b.MaxX - b.MinX }

// Height returns MaxY-MinY.
func (b BoundingBox) Height() float64 { return b.MaxY - b.MinY }

// QualityReport summarises geometric quality of a depiction.
type QualityReport struct {
	Empty            bool    `json:"empty"`
	Finite           bool    `json:"finite"`
	BondLengthMean   float64 `json:"bond_length_mean"`
	BondLengthStdDev float64 `json:"bond_length_stddev"`
	BondLengthMin    float64 `json:"bond_length_min"`
	BondLengthMax    float64 `json:"bond_length_max"`
	OverlapCount     int     `json:"overlap_count"`
	AspectRatio      float64 `json:"aspect_ratio"`
}

// LayoutStats reports what the pipeline did for one molecule.
type LayoutStats struct {
	RingSystems    int    `json:"ring_systems"`
	Units          int    `json:"units"`
	TemplateUsed   string `json:"template_used,omitempty"`
	RelaxedUnits   int    `json:"relaxed_units"`
	OverlapPasses  int    `json:"overlap_passes"`
	OrphanUnits    int    `json:"orphan_units"`
	MinimizerMoves int    `json:"minimizer_moves"`
	SanitizedAtoms int    `json:"sanitized_atoms"`
}

// Depiction is the result of a depiction request.
type Depiction struct {
	ID         common.ID        `json:"id"`
	Name       string           `json:"name,omitempty"`
	BondLength float64          `json:"bond_length"`
	Shape      string           `json:"shape"`
	Atoms      []AtomPosition   `json:"atoms"`
	Bounds     BoundingBox      `json:"bounds"`
	Quality    QualityReport    `json:"quality"`
	Stats      LayoutStats      `json:"stats"`
	Cached     bool             `json:"cached"`
	CreatedAt  common.Timestamp `json:"created_at"`
}

// Coordinates returns the depiction as a map from atom id to point.
func (d *Depiction) Coordinates() map[int]Point {
	out := make(map[int]Point, len(d.Atoms))
	for _, a := range d.Atoms {
		out[a.ID] = Point{X: a.X, Y: a.Y}
	}
	return out
}
