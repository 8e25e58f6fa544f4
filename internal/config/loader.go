package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"github.com/turtacn/KeyIP-Layout/internal/infrastructure/monitoring/logging"
)

// envPrefix is the environment variable prefix of every setting.
const envPrefix = "KEYIP_LAYOUT"

// newViper returns a Viper with YAML input, KEYIP_LAYOUT_ env binding where
// nested keys such as "layout.bond_length" resolve to
// KEYIP_LAYOUT_LAYOUT_BOND_LENGTH, and every key pre-registered.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setViperDefaults(v)
	return v
}

// Load reads the YAML file at configPath, merges KEYIP_LAYOUT_* overrides,
// applies defaults and validates.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from defaults and KEYIP_LAYOUT_* variables
// only.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}
	ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}

// Watch reloads configPath on every write and hands each valid result to
// onChange.  Invalid edits are logged and skipped so the previous
// configuration stays in force.  Watch does not block.
func Watch(configPath string, log logging.Logger, onChange func(*Config)) error {
	if log == nil {
		log = logging.NewNopLogger()
	}
	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			log.Warn("ignoring invalid configuration change",
				logging.String("file", e.Name), logging.String("op", e.Op.String()), logging.Err(err))
			return
		}
		log.Info("configuration reloaded", logging.String("file", e.Name))
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}
