// Package layout computes 2D coordinates for a molecular graph.  The engine
// decomposes the molecule into rigid units, places each unit with ideal
// internal geometry, optimises how units hang off one another, relaxes
// strained cages, pushes apart overlapping atoms and finally rotates the
// drawing into a conventional orientation.
package layout

import (
	"fmt"
	"math"

	"github.com/turtacn/KeyIP-Layout/pkg/errors"
)

// Options configures the layout engine.  Distances other than BondLength
// are fractions of BondLength.
type Options struct {
	BondLength float64

	ResolveOverlaps   bool
	OverlapIterations int
	OverlapPasses     int
	MinDistance       float64
	PushFactor        float64

	OptimizeOrientation  bool
	OrientationThreshold float64

	RotationSteps        int
	TryFlips             bool
	RefinementIterations int
	RefinementStep       float64
	StretchWeight        float64
	ClashWeight          float64
	AngleWeight          float64

	MacrocycleIterations int
	UseTemplates         bool
	BridgedIterations    int
	BridgedStretchLimit  float64
}

// DefaultOptions returns the standard configuration.
func DefaultOptions() Options {
	return Options{
		BondLength:           35,
		ResolveOverlaps:      true,
		OverlapIterations:    50,
		OverlapPasses:        3,
		MinDistance:          0.5,
		PushFactor:           0.5,
		OptimizeOrientation:  true,
		OrientationThreshold: 0.01,
		RotationSteps:        12,
		TryFlips:             true,
		RefinementIterations: 50,
		RefinementStep:       5 * math.Pi / 180,
		StretchWeight:        1.0,
		ClashWeight:          1.0,
		AngleWeight:          0.3,
		MacrocycleIterations: 200,
		UseTemplates:         true,
		BridgedIterations:    300,
		BridgedStretchLimit:  1.5,
	}
}

// Validate reports the first invalid field as an ErrCodeInvalidOptions error.
func (o Options) Validate() error {
	check := func(ok bool, field string, v interface{}) error {
		if ok {
			return nil
		}
		return errors.InvalidOptions("invalid layout option").WithDetail(fmt.Sprintf("%s=%v", field, v))
	}
	finitePos := func(v float64) bool { return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v) }
	nonNeg := func(v float64) bool { return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v) }

	for _, err := range []error{
		check(finitePos(o.BondLength), "bond_length", o.BondLength),
		check(o.OverlapIterations >= 0, "overlap_iterations", o.OverlapIterations),
		check(o.OverlapPasses >= 0, "overlap_passes", o.OverlapPasses),
		check(nonNeg(o.MinDistance) && o.MinDistance < 2, "min_distance", o.MinDistance),
		check(o.PushFactor > 0 && o.PushFactor <= 1, "push_factor", o.PushFactor),
		check(nonNeg(o.OrientationThreshold), "orientation_threshold", o.OrientationThreshold),
		check(o.RotationSteps >= 1, "rotation_steps", o.RotationSteps),
		check(o.RefinementIterations >= 0, "refinement_iterations", o.RefinementIterations),
		check(nonNeg(o.RefinementStep), "refinement_step", o.RefinementStep),
		check(nonNeg(o.StretchWeight), "stretch_weight", o.StretchWeight),
		check(nonNeg(o.ClashWeight), "clash_weight", o.ClashWeight),
		check(nonNeg(o.AngleWeight), "angle_weight", o.AngleWeight),
		check(o.MacrocycleIterations >= 0, "macrocycle_iterations", o.MacrocycleIterations),
		check(o.BridgedIterations >= 0, "bridged_iterations", o.BridgedIterations),
		check(o.BridgedStretchLimit >= 1, "bridged_stretch_limit", o.BridgedStretchLimit),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}
