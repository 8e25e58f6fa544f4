package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/KeyIP-Layout/pkg/errors"
)

func TestDefaultOptions_Valid(t *testing.T) {
	opts := DefaultOptions()
	require.NoError(t, opts.Validate())
	assert.Equal(t, 35.0, opts.BondLength)
	assert.Equal(t, 0.5, opts.MinDistance)
	assert.Equal(t, 0.5, opts.PushFactor)
	assert.Equal(t, 3, opts.OverlapPasses)
	assert.Equal(t, 12, opts.RotationSteps)
	assert.Equal(t, 1.5, opts.BridgedStretchLimit)
}

func TestOptions_Validate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
		field  string
	}{
		{"zero bond length", func(o *Options) { o.BondLength = 0 }, "bond_length"},
		{"nan bond length", func(o *Options) { o.BondLength = math.NaN() }, "bond_length"},
		{"negative iterations", func(o *Options) { o.OverlapIterations = -1 }, "overlap_iterations"},
		{"push factor above one", func(o *Options) { o.PushFactor = 1.5 }, "push_factor"},
		{"no rotation steps", func(o *Options) { o.RotationSteps = 0 }, "rotation_steps"},
		{"negative weight", func(o *Options) { o.ClashWeight = -1 }, "clash_weight"},
		{"stretch limit below one", func(o *Options) { o.BridgedStretchLimit = 0.5 }, "bridged_stretch_limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			err := opts.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidOptions))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestNewEngine_InvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.BondLength = -1
	e, err := NewEngine(opts, nil)
	assert.Nil(t, e)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidOptions))
}
