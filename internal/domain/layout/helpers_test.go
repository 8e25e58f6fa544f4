package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/turtacn/KeyIP-Layout/internal/domain/geometry"
	"github.com/turtacn/KeyIP-Layout/internal/domain/molecule"
	"github.com/turtacn/KeyIP-Layout/internal/domain/ringsystem"
	"github.com/turtacn/KeyIP-Layout/internal/testutil"
	mtypes "github.com/turtacn/KeyIP-Layout/pkg/types/molecule"
)

const bond = 35.0

func graphOf(t *testing.T, m *mtypes.Molecule) *molecule.Graph {
	t.Helper()
	g, err := molecule.NewGraph(m)
	require.NoError(t, err)
	return g
}

func newTestEngine(t *testing.T, mutate ...func(*Options)) *Engine {
	t.Helper()
	opts := DefaultOptions()
	for _, fn := range mutate {
		fn(&opts)
	}
	e, err := NewEngine(opts, nil)
	require.NoError(t, err)
	return e
}

func generate(t *testing.T, m *mtypes.Molecule, mutate ...func(*Options)) *Result {
	t.Helper()
	res, err := newTestEngine(t, mutate...).GenerateMolecule(m)
	require.NoError(t, err)
	return res
}

// staged runs the pipeline up to and including placement.
type staged struct {
	g    *molecule.Graph
	rs   *ringsystem.Result
	ug   *UnitGraph
	c    *geometry.Coords
	opts Options
	st   Stats
}

func place(t *testing.T, m *mtypes.Molecule, mutate ...func(*Options)) *staged {
	t.Helper()
	opts := DefaultOptions()
	for _, fn := range mutate {
		fn(&opts)
	}
	s := &staged{g: graphOf(t, m), opts: opts}
	s.rs = ringsystem.NewClassifier(nil).Classify(s.g, m.Rings)
	s.ug = DetectUnits(s.g, s.rs, opts)
	s.c = geometry.NewCoords(s.g.NumAtoms())
	p := &placer{g: s.g, rs: s.rs, ug: s.ug, c: s.c, opts: opts, logger: testutil.NewMockLogger(), stats: &s.st}
	p.place()
	return s
}

func (s *staged) minimizer() *minimizer {
	en := &energy{g: s.g, ug: s.ug, c: s.c, opts: s.opts}
	return &minimizer{e: en, ug: s.ug, c: s.c, opts: s.opts, logger: testutil.NewMockLogger()}
}

func assertBondLengths(t *testing.T, g *molecule.Graph, c *geometry.Coords, want, tol float64) {
	t.Helper()
	for _, b := range g.Bonds() {
		require.InDelta(t, want, c.Dist(b.Lo, b.Hi), tol, "bond %d-%d", b.Lo, b.Hi)
	}
}

func angleDeg(c *geometry.Coords, centre, a, b int) float64 {
	return geometry.AngleAt(c.At(centre), c.At(a), c.At(b)) * 180 / math.Pi
}

func allFinite(c *geometry.Coords) bool {
	for id := 0; id < c.Len(); id++ {
		if !geometry.IsFinite(c.At(id)) {
			return false
		}
	}
	return true
}

func vec(x, y float64) r2.Vec { return r2.Vec{X: x, Y: y} }
