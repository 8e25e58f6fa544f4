// Package config defines the configuration of keyip-layout.  Types and
// validation live here; defaults.go and loader.go hold defaults and I/O.
package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/turtacn/KeyIP-Layout/internal/domain/layout"
	"github.com/turtacn/KeyIP-Layout/internal/infrastructure/database/redis"
	"github.com/turtacn/KeyIP-Layout/internal/infrastructure/monitoring/logging"
)

// LayoutConfig mirrors layout.Options in file form.  Angles are degrees.
type LayoutConfig struct {
	BondLength float64 `mapstructure:"bond_length"`

	ResolveOverlaps   bool    `mapstructure:"resolve_overlaps"`
	OverlapIterations int     `mapstructure:"overlap_iterations"`
	OverlapPasses     int     `mapstructure:"overlap_passes"`
	MinDistance       float64 `mapstructure:"min_distance"`
	PushFactor        float64 `mapstructure:"push_factor"`

	OptimizeOrientation  bool    `mapstructure:"optimize_orientation"`
	OrientationThreshold float64 `mapstructure:"orientation_threshold"`

	RotationSteps        int     `mapstructure:"rotation_steps"`
	TryFlips             bool    `mapstructure:"try_flips"`
	RefinementIterations int     `mapstructure:"refinement_iterations"`
	RefinementStepDeg    float64 `mapstructure:"refinement_step_deg"`
	StretchWeight        float64 `mapstructure:"stretch_weight"`
	ClashWeight          float64 `mapstructure:"clash_weight"`
	AngleWeight          float64 `mapstructure:"angle_weight"`

	MacrocycleIterations int     `mapstructure:"macrocycle_iterations"`
	UseTemplates         bool    `mapstructure:"use_templates"`
	BridgedIterations    int     `mapstructure:"bridged_iterations"`
	BridgedStretchLimit  float64 `mapstructure:"bridged_stretch_limit"`
}

// ToOptions converts the file form into engine options.
func (c LayoutConfig) ToOptions() layout.Options {
	return layout.Options{
		BondLength:           c.BondLength,
		ResolveOverlaps:      c.ResolveOverlaps,
		OverlapIterations:    c.OverlapIterations,
		OverlapPasses:        c.OverlapPasses,
		MinDistance:          c.MinDistance,
		PushFactor:           c.PushFactor,
		OptimizeOrientation:  c.OptimizeOrientation,
		OrientationThreshold: c.OrientationThreshold,
		RotationSteps:        c.RotationSteps,
		TryFlips:             c.TryFlips,
		RefinementIterations: c.RefinementIterations,
		RefinementStep:       c.RefinementStepDeg * math.Pi / 180,
		StretchWeight:        c.StretchWeight,
		ClashWeight:          c.ClashWeight,
		AngleWeight:          c.AngleWeight,
		MacrocycleIterations: c.MacrocycleIterations,
		UseTemplates:         c.UseTemplates,
		BridgedIterations:    c.BridgedIterations,
		BridgedStretchLimit:  c.BridgedStretchLimit,
	}
}

// LayoutFromOptions is the inverse of ToOptions.
func LayoutFromOptions(o layout.Options) LayoutConfig {
	return LayoutConfig{
		BondLength:           o.BondLength,
		ResolveOverlaps:      o.ResolveOverlaps,
		OverlapIterations:    o.OverlapIterations,
		OverlapPasses:        o.OverlapPasses,
		MinDistance:          o.MinDistance,
		PushFactor:           o.PushFactor,
		OptimizeOrientation:  o.OptimizeOrientation,
		OrientationThreshold: o.OrientationThreshold,
		RotationSteps:        o.RotationSteps,
		TryFlips:             o.TryFlips,
		RefinementIterations: o.RefinementIterations,
		RefinementStepDeg:    o.RefinementStep * 180 / math.Pi,
		StretchWeight:        o.StretchWeight,
		ClashWeight:          o.ClashWeight,
		AngleWeight:          o.AngleWeight,
		MacrocycleIterations: o.MacrocycleIterations,
		UseTemplates:         o.UseTemplates,
		BridgedIterations:    o.BridgedIterations,
		BridgedStretchLimit:  o.BridgedStretchLimit,
	}
}

// CacheConfig controls the Redis depiction cache.
type CacheConfig struct {
	Enabled   bool              `mapstructure:"enabled"`
	TTL       time.Duration     `mapstructure:"ttl"`
	KeyPrefix string            `mapstructure:"key_prefix"`
	Redis     redis.RedisConfig `mapstructure:"redis"`
}

// MetricsConfig controls the Prometheus collector.
type MetricsConfig struct {
	Enabled              bool   `mapstructure:"enabled"`
	Namespace            string `mapstructure:"namespace"`
	Subsystem            string `mapstructure:"subsystem"`
	EnableProcessMetrics bool   `mapstructure:"enable_process_metrics"`
	EnableGoMetrics      bool   `mapstructure:"enable_go_metrics"`
}

// Config is the root configuration.
type Config struct {
	Layout  LayoutConfig      `mapstructure:"layout"`
	Cache   CacheConfig       `mapstructure:"cache"`
	Metrics MetricsConfig     `mapstructure:"metrics"`
	Log     logging.LogConfig `mapstructure:"log"`
}

// Validate returns the first semantic error in c.
func (c *Config) Validate() error {
	if err := c.Layout.ToOptions().Validate(); err != nil {
		return fmt.Errorf("config: layout: %w", err)
	}

	if c.Cache.Enabled {
		if c.Cache.TTL < 0 {
			return fmt.Errorf("config: cache.ttl must be ≥ 0, got %s", c.Cache.TTL)
		}
		switch c.Cache.Redis.Mode {
		case "", "standalone":
			if c.Cache.Redis.Addr == "" {
				return fmt.Errorf("config: cache.redis.addr is required")
			}
		case "sentinel":
			if c.Cache.Redis.MasterName == "" || len(c.Cache.Redis.SentinelAddrs) == 0 {
				return fmt.Errorf("config: cache.redis sentinel mode needs master_name and sentinel_addrs")
			}
		case "cluster":
			if len(c.Cache.Redis.ClusterAddrs) == 0 {
				return fmt.Errorf("config: cache.redis.cluster_addrs must not be empty")
			}
		default:
			return fmt.Errorf("config: cache.redis.mode %q is invalid; expected standalone|sentinel|cluster", c.Cache.Redis.Mode)
		}
		if c.Cache.Redis.DB < 0 {
			return fmt.Errorf("config: cache.redis.db must be ≥ 0, got %d", c.Cache.Redis.DB)
		}
	}

	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return fmt.Errorf("config: metrics.namespace is required when metrics are enabled")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case logging.FormatJSON, logging.FormatConsole:
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}
	return nil
}
