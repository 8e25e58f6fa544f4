package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/turtacn/KeyIP-Layout/internal/infrastructure/monitoring/logging"
)

func TestMockLogger_Records(t *testing.T) {
	m := NewMockLogger()
	var l logging.Logger = m

	l.Info("hello", logging.String("k", "v"))
	l.Named("child").With(logging.Int("n", 1)).Warn("careful")

	assert.True(t, m.HasMessage("info", "hello"))
	assert.True(t, m.HasMessage("warn", "careful"))
	assert.False(t, m.HasMessage("error", "hello"))
	assert.Equal(t, 1, m.CountLevel("warn"))
	assert.Len(t, m.GetMessages(), 2)

	m.Clear()
	assert.Empty(t, m.GetMessages())
}
