package config

import (
	"time"

	"github.com/spf13/viper"
	"github.com/turtacn/KeyIP-Layout/internal/domain/layout"
	"github.com/turtacn/KeyIP-Layout/internal/infrastructure/monitoring/logging"
)

const (
	DefaultCacheTTL       = time.Hour
	DefaultCacheKeyPrefix = "keyip-layout:depiction:"
	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisMode      = "standalone"

	DefaultMetricsNamespace = "keyip"
	DefaultMetricsSubsystem = "layout"

	DefaultLogLevel  = logging.LevelInfo
	DefaultLogFormat = logging.FormatJSON
)

// DefaultConfig returns a fully populated configuration: engine defaults,
// cache disabled, metrics enabled.
func DefaultConfig() *Config {
	return &Config{
		Layout: LayoutFromOptions(layout.DefaultOptions()),
		Cache: CacheConfig{
			TTL:       DefaultCacheTTL,
			KeyPrefix: DefaultCacheKeyPrefix,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultMetricsNamespace,
			Subsystem: DefaultMetricsSubsystem,
		},
		Log: logging.LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
	}
}

// ApplyDefaults fills zero-valued fields of cfg.  Booleans cannot be told
// apart from an explicit false, so they are left alone; loaders register
// boolean defaults with viper instead.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	d := layout.DefaultOptions()
	l := &cfg.Layout

	// ── Layout ───────────────────────────────────────────────────────────────
	if l.BondLength == 0 {
		l.BondLength = d.BondLength
	}
	if l.OverlapIterations == 0 {
		l.OverlapIterations = d.OverlapIterations
	}
	if l.OverlapPasses == 0 {
		l.OverlapPasses = d.OverlapPasses
	}
	if l.MinDistance == 0 {
		l.MinDistance = d.MinDistance
	}
	if l.PushFactor == 0 {
		l.PushFactor = d.PushFactor
	}
	if l.OrientationThreshold == 0 {
		l.OrientationThreshold = d.OrientationThreshold
	}
	if l.RotationSteps == 0 {
		l.RotationSteps = d.RotationSteps
	}
	if l.RefinementIterations == 0 {
		l.RefinementIterations = d.RefinementIterations
	}
	if l.RefinementStepDeg == 0 {
		l.RefinementStepDeg = LayoutFromOptions(d).RefinementStepDeg
	}
	if l.StretchWeight == 0 {
		l.StretchWeight = d.StretchWeight
	}
	if l.ClashWeight == 0 {
		l.ClashWeight = d.ClashWeight
	}
	if l.AngleWeight == 0 {
		l.AngleWeight = d.AngleWeight
	}
	if l.MacrocycleIterations == 0 {
		l.MacrocycleIterations = d.MacrocycleIterations
	}
	if l.BridgedIterations == 0 {
		l.BridgedIterations = d.BridgedIterations
	}
	if l.BridgedStretchLimit == 0 {
		l.BridgedStretchLimit = d.BridgedStretchLimit
	}

	// ── Cache ────────────────────────────────────────────────────────────────
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}
	if cfg.Cache.KeyPrefix == "" {
		cfg.Cache.KeyPrefix = DefaultCacheKeyPrefix
	}
	if cfg.Cache.Redis.Mode == "" {
		cfg.Cache.Redis.Mode = DefaultRedisMode
	}
	if cfg.Cache.Redis.Mode == DefaultRedisMode && cfg.Cache.Redis.Addr == "" {
		cfg.Cache.Redis.Addr = DefaultRedisAddr
	}

	// ── Metrics ──────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Subsystem == "" {
		cfg.Metrics.Subsystem = DefaultMetricsSubsystem
	}

	// ── Log ──────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

// setViperDefaults registers every key so AutomaticEnv can resolve it and
// booleans default to true where the engine expects it.
func setViperDefaults(v *viper.Viper) {
	d := DefaultConfig()
	l := d.Layout

	v.SetDefault("layout.bond_length", l.BondLength)
	v.SetDefault("layout.resolve_overlaps", l.ResolveOverlaps)
	v.SetDefault("layout.overlap_iterations", l.OverlapIterations)
	v.SetDefault("layout.overlap_passes", l.OverlapPasses)
	v.SetDefault("layout.min_distance", l.MinDistance)
	v.SetDefault("layout.push_factor", l.PushFactor)
	v.SetDefault("layout.optimize_orientation", l.OptimizeOrientation)
	v.SetDefault("layout.orientation_threshold", l.OrientationThreshold)
	v.SetDefault("layout.rotation_steps", l.RotationSteps)
	v.SetDefault("layout.try_flips", l.TryFlips)
	v.SetDefault("layout.refinement_iterations", l.RefinementIterations)
	v.SetDefault("layout.refinement_step_deg", l.RefinementStepDeg)
	v.SetDefault("layout.stretch_weight", l.StretchWeight)
	v.SetDefault("layout.clash_weight", l.ClashWeight)
	v.SetDefault("layout.angle_weight", l.AngleWeight)
	v.SetDefault("layout.macrocycle_iterations", l.MacrocycleIterations)
	v.SetDefault("layout.use_templates", l.UseTemplates)
	v.SetDefault("layout.bridged_iterations", l.BridgedIterations)
	v.SetDefault("layout.bridged_stretch_limit", l.BridgedStretchLimit)

	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.key_prefix", d.Cache.KeyPrefix)
	v.SetDefault("cache.redis.mode", DefaultRedisMode)
	v.SetDefault("cache.redis.addr", DefaultRedisAddr)
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
	v.SetDefault("metrics.subsystem", d.Metrics.Subsystem)
	v.SetDefault("metrics.enable_process_metrics", false)
	v.SetDefault("metrics.enable_go_metrics", false)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}
