package layout

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"
)

// Template is a pre-computed depiction of a cage scaffold with unit bond
// length.
type Template struct {
	Name   string
	Bonds  [][2]int
	Coords []r2.Vec
}

// Size returns the number of template atoms.
func (t *Template) Size() int { return len(t.Coords) }

// MeanBondLength returns the mean bond length of the template coordinates.
func (t *Template) MeanBondLength() float64 {
	lengths := make([]float64, len(t.Bonds))
	for i, b := range t.Bonds {
		lengths[i] = r2.Norm(r2.Sub(t.Coords[b[0]], t.Coords[b[1]]))
	}
	return stat.Mean(lengths, nil)
}

// Degrees returns the degree of every template atom.
func (t *Template) Degrees() []int {
	deg := make([]int, t.Size())
	for _, b := range t.Bonds {
		deg[b[0]]++
		deg[b[1]]++
	}
	return deg
}

var catalogue = []Template{
	{
		Name: "adamantane",
		Bonds: [][2]int{
			{0, 4}, {0, 6}, {0, 8}, {1, 4}, {1, 7}, {1, 9},
			{2, 5}, {2, 6}, {2, 9}, {3, 5}, {3, 7}, {3, 8},
		},
		Coords: []r2.Vec{
			{X: 0.6290, Y: 0.4136}, {X: 0.6290, Y: -0.4136},
			{X: -0.8555, Y: 0.9766}, {X: -0.8555, Y: -0.9766},
			{X: 1.5223, Y: 0}, {X: -1.0328, Y: 0},
			{X: 0.0976, Y: 1.2545}, {X: 0.0976, Y: -1.2545},
			{X: -0.1159, Y: -0.3404}, {X: -0.1159, Y: 0.3404},
		},
	},
	{
		Name:  "norbornane",
		Bonds: [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 0}, {0, 6}, {6, 3}},
		Coords: []r2.Vec{
			{X: 0.0643, Y: -0.9500}, {X: -0.8683, Y: -0.5824}, {X: -0.9583, Y: 0.4181},
			{X: -0.1063, Y: 0.9462}, {X: 0.8507, Y: 0.5994}, {X: 0.9443, Y: -0.4379},
			{X: 0.0736, Y: 0.0066},
		},
	},
	{
		Name:  "bicyclo[2.2.2]octane",
		Bonds: [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 0}, {0, 6}, {6, 7}, {7, 3}},
		Coords: []r2.Vec{
			{X: -0.0114, Y: 0.3858}, {X: 0.4267, Y: 1.2645}, {X: 0.7386, Y: 0.3334},
			{X: -0.0638, Y: -0.3643}, {X: 0.2480, Y: -1.2954}, {X: 0.6862, Y: -0.4166},
			{X: -0.9818, Y: 0.5363}, {X: -1.0425, Y: -0.4437},
		},
	},
	{
		Name: "cubane",
		Bonds: [][2]int{
			{0, 1}, {0, 2}, {0, 4}, {1, 3}, {1, 5}, {2, 3},
			{2, 6}, {3, 7}, {4, 5}, {4, 6}, {5, 7}, {6, 7},
		},
		Coords: []r2.Vec{
			{X: -0.8169, Y: -0.2712}, {X: -0.0344, Y: -0.8600}, {X: -0.9630, Y: 0.7247},
			{X: -0.2084, Y: 0.1568}, {X: 0.2084, Y: -0.1568}, {X: 0.9630, Y: -0.7247},
			{X: 0.0344, Y: 0.8600}, {X: 0.8169, Y: 0.2712},
		},
	},
}

// Templates returns a copy of the cage template catalogue.
func Templates() []Template {
	out := make([]Template, len(catalogue))
	for i, t := range catalogue {
		out[i] = Template{
			Name:   t.Name,
			Bonds:  append([][2]int(nil), t.Bonds...),
			Coords: append([]r2.Vec(nil), t.Coords...),
		}
	}
	return out
}
