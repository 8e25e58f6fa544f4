package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestPrincipalAxisAngle_Line(t *testing.T) {
	var pts []r2.Vec
	for i := 0; i < 5; i++ {
		pts = append(pts, FromAngle(math.Pi/6, float64(i)))
	}
	angle, ok := PrincipalAxisAngle(pts)
	require.True(t, ok)
	assert.InDelta(t, math.Pi/6, angle, 1e-9)
}

func TestPrincipalAxisAngle_RangeFolded(t *testing.T) {
	pts := []r2.Vec{{X: 0, Y: 0}, {X: -1, Y: 2}, {X: -2, Y: 4}}
	angle, ok := PrincipalAxisAngle(pts)
	require.True(t, ok)
	assert.Greater(t, angle, -math.Pi/2)
	assert.LessOrEqual(t, angle, math.Pi/2)
	assert.InDelta(t, math.Atan2(-2, 1), angle, 1e-9)
}

func TestPrincipalAxisAngle_Isotropic(t *testing.T) {
	_, ok := PrincipalAxisAngle(RegularPolygon(6, 1))
	assert.False(t, ok)
	_, ok = PrincipalAxisAngle([]r2.Vec{{X: 1}})
	assert.False(t, ok)
}

func TestAspectRatio(t *testing.T) {
	assert.InDelta(t, 2, AspectRatio(r2.NewBox(0, 0, 4, 2)), 1e-12)
	assert.Equal(t, 1.0, AspectRatio(r2.Box{}))
	assert.Equal(t, maxAspect, AspectRatio(r2.NewBox(0, 0, 3, 0)))
}
