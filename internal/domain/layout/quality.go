package layout

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/turtacn/KeyIP-Layout/internal/domain/geometry"
	"github.com/turtacn/KeyIP-Layout/internal/domain/molecule"
	mtypes "github.com/turtacn/KeyIP-Layout/pkg/types/molecule"
)

// Assess measures bond length statistics, residual overlaps and aspect
// ratio of a finished drawing.
func Assess(g *molecule.Graph, c *geometry.Coords, opts Options) mtypes.QualityReport {
	rep := mtypes.QualityReport{Empty: g.NumAtoms() == 0 || c.Empty(), AspectRatio: 1}
	if rep.Empty {
		return rep
	}
	rep.Finite = c.Valid()
	if !rep.Finite {
		return rep
	}
	if bonds := g.Bonds(); len(bonds) > 0 {
		lengths := make([]float64, len(bonds))
		for i, b := range bonds {
			lengths[i] = c.Dist(b.Lo, b.Hi)
		}
		if len(lengths) > 1 {
			rep.BondLengthMean, rep.BondLengthStdDev = stat.MeanStdDev(lengths, nil)
		} else {
			rep.BondLengthMean = lengths[0]
		}
		rep.BondLengthMin = floats.Min(lengths)
		rep.BondLengthMax = floats.Max(lengths)
	}
	rep.OverlapCount = countOverlaps(g, c, opts.MinDistance*opts.BondLength)
	if box, ok := c.Bounds(nil); ok {
		rep.AspectRatio = geometry.AspectRatio(box)
	}
	return rep
}
