package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/turtacn/KeyIP-Layout/internal/domain/geometry"
	"github.com/turtacn/KeyIP-Layout/internal/testutil"
)

func TestPushDirection(t *testing.T) {
	d := pushDirection(3, 9)
	assert.InDelta(t, 1, r2.Norm(d), 1e-12)
	assert.Equal(t, d, pushDirection(9, 3))
	assert.Equal(t, d, pushDirection(3, 9))
	assert.NotEqual(t, d, pushDirection(3, 10))
}

func TestOverlapResolver_SeparatesCoincidentAtoms(t *testing.T) {
	m := testutil.BuildMolecule("dimer", []string{"C", "C"}, nil, nil)
	g := graphOf(t, m)
	run := func() *geometry.Coords {
		c := geometry.NewCoords(2)
		c.Set(0, vec(0, 0))
		c.Set(1, vec(0, 0))
		r := &overlapResolver{g: g, c: c, opts: DefaultOptions()}
		assert.Equal(t, 1, r.count())
		assert.Greater(t, r.resolve(), 0)
		assert.Zero(t, r.count())
		return c
	}
	a, b := run(), run()
	assert.Equal(t, a.At(0), b.At(0), "resolution is deterministic")
	assert.Equal(t, a.At(1), b.At(1))
	assert.InDelta(t, 0.5*bond, a.Dist(0, 1), 1e-6)
}

func TestOverlapResolver_IgnoresBondedAndOneThree(t *testing.T) {
	m := testutil.BuildMolecule("propane", []string{"C", "C", "C"}, [][2]int{{0, 1}, {1, 2}}, nil)
	g := graphOf(t, m)
	c := geometry.NewCoords(3)
	c.Set(0, vec(0, 0))
	c.Set(1, vec(1, 0))
	c.Set(2, vec(2, 0))
	r := &overlapResolver{g: g, c: c, opts: DefaultOptions()}
	assert.Zero(t, r.count())
	assert.Zero(t, r.resolve())
	assert.Equal(t, vec(1, 0), c.At(1))
}

func TestOverlapResolver_ZeroIterations(t *testing.T) {
	m := testutil.BuildMolecule("dimer", []string{"C", "C"}, nil, nil)
	c := geometry.NewCoords(2)
	c.Set(0, vec(0, 0))
	c.Set(1, vec(1, 0))
	opts := DefaultOptions()
	opts.OverlapIterations = 0
	r := &overlapResolver{g: graphOf(t, m), c: c, opts: opts}
	assert.Zero(t, r.resolve())
	assert.Equal(t, 1, r.count())
}
