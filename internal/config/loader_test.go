package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/KeyIP-Layout/internal/testutil"
)

const validConfigYAML = `
layout:
  bond_length: 1.5
  resolve_overlaps: false
  rotation_steps: 24
  refinement_step_deg: 2.5
cache:
  enabled: true
  ttl: 30m
  redis:
    addr: "redis:6379"
    db: 2
metrics:
  namespace: "depict"
log:
  level: "debug"
  format: "console"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keyip-layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ValidFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, 1.5, cfg.Layout.BondLength)
	assert.False(t, cfg.Layout.ResolveOverlaps)
	assert.Equal(t, 24, cfg.Layout.RotationSteps)
	assert.Equal(t, 2.5, cfg.Layout.RefinementStepDeg)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "redis:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, 2, cfg.Cache.Redis.DB)
	assert.Equal(t, "depict", cfg.Metrics.Namespace)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_UnsetKeysUseDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "layout:\n  bond_length: 20\n"))
	require.NoError(t, err)

	assert.Equal(t, 20.0, cfg.Layout.BondLength)
	assert.True(t, cfg.Layout.ResolveOverlaps)
	assert.True(t, cfg.Layout.OptimizeOrientation)
	assert.True(t, cfg.Layout.UseTemplates)
	assert.Equal(t, 12, cfg.Layout.RotationSteps)
	assert.False(t, cfg.Cache.Enabled)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "layout: [unterminated"))
	assert.Error(t, err)
}

func TestLoad_ValidationFailure(t *testing.T) {
	_, err := Load(writeConfig(t, "layout:\n  push_factor: 3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("KEYIP_LAYOUT_LAYOUT_BOND_LENGTH", "50")
	t.Setenv("KEYIP_LAYOUT_LOG_LEVEL", "warn")

	cfg, err := Load(writeConfig(t, validConfigYAML))
	require.NoError(t, err)
	assert.Equal(t, 50.0, cfg.Layout.BondLength)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("KEYIP_LAYOUT_LAYOUT_USE_TEMPLATES", "false")
	t.Setenv("KEYIP_LAYOUT_CACHE_ENABLED", "true")
	t.Setenv("KEYIP_LAYOUT_CACHE_REDIS_ADDR", "cache:6380")
	t.Setenv("KEYIP_LAYOUT_CACHE_TTL", "5m")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.False(t, cfg.Layout.UseTemplates)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "cache:6380", cfg.Cache.Redis.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 35.0, cfg.Layout.BondLength)
}

func TestWatch_MissingFile(t *testing.T) {
	err := Watch(filepath.Join(t.TempDir(), "nope.yaml"), nil, func(*Config) {})
	assert.Error(t, err)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, "layout:\n  bond_length: 10\n")
	log := testutil.NewMockLogger()
	changes := make(chan *Config, 16)
	require.NoError(t, Watch(path, log, func(c *Config) { changes <- c }))

	require.NoError(t, os.WriteFile(path, []byte("layout:\n  bond_length: 12\n"), 0o600))

	// an editor may produce several events, the first on a truncated file
	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-changes:
			if cfg.Layout.BondLength == 12 {
				assert.True(t, log.HasMessage("info", "configuration reloaded"))
				return
			}
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}
}
