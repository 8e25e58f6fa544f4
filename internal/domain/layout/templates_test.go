package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/turtacn/KeyIP-Layout/internal/testutil"
	mtypes "github.com/turtacn/KeyIP-Layout/pkg/types/molecule"
)

func TestTemplates_Catalogue(t *testing.T) {
	ts := Templates()
	require.Len(t, ts, 4)
	names := make([]string, len(ts))
	for i, tp := range ts {
		names[i] = tp.Name
		assert.InDelta(t, 1, tp.MeanBondLength(), 0.05, tp.Name)
		for _, b := range tp.Bonds {
			l := r2.Norm(r2.Sub(tp.Coords[b[0]], tp.Coords[b[1]]))
			assert.InDelta(t, 1, l, 0.1, "%s bond %v", tp.Name, b)
		}
	}
	assert.Equal(t, []string{"adamantane", "norbornane", "bicyclo[2.2.2]octane", "cubane"}, names)

	ts[0].Coords[0] = r2.Vec{X: 99}
	assert.NotEqual(t, r2.Vec{X: 99}, Templates()[0].Coords[0], "catalogue is copied")
}

func TestMatchTemplate(t *testing.T) {
	tests := []struct {
		name     string
		mol      *mtypes.Molecule
		template int
	}{
		{"adamantane", testutil.Adamantane(), 0},
		{"norbornane", testutil.Norbornane(), 1},
		{"bicyclooctane", testutil.Bicyclooctane(), 2},
		{"cubane", testutil.Cubane(), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graphOf(t, tt.mol)
			atoms := make([]int, g.NumAtoms())
			for i := range atoms {
				atoms[i] = i
			}
			for i := range catalogue {
				mapping, ok := matchTemplate(g, atoms, &catalogue[i])
				if i != tt.template {
					assert.False(t, ok, "matched %s", catalogue[i].Name)
					continue
				}
				require.True(t, ok)
				seen := make(map[int]bool)
				for _, id := range mapping {
					assert.False(t, seen[id])
					seen[id] = true
				}
				for _, b := range catalogue[i].Bonds {
					assert.True(t, g.HasBond(mapping[b[0]], mapping[b[1]]), "template bond %v", b)
				}
			}
		})
	}
}

func TestMatchTemplate_RejectsNonCages(t *testing.T) {
	g := graphOf(t, testutil.Naphthalene())
	atoms := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	_, ok := matchTemplate(g, atoms, &catalogue[0])
	assert.False(t, ok, "same atom count as adamantane is not enough")

	_, ok = matchTemplate(g, atoms[:7], &catalogue[1])
	assert.False(t, ok)
}
