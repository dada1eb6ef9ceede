// Package config loads the switcher settings from defaults, an optional YAML
// file and WPREFIX_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"wprefix/internal/platform"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "WPREFIX"

// Config holds all switcher configuration options
type Config struct {
	// Activation
	Hotkey string `mapstructure:"hotkey" yaml:"hotkey"` // Global hotkey that shows the switcher

	// Icon settings
	IconTimeout      time.Duration `mapstructure:"icon_timeout" yaml:"icon_timeout"`             // Wait for a window to answer an icon request
	CompactThreshold int           `mapstructure:"compact_threshold" yaml:"compact_threshold"`   // Icon cache size that triggers the first compaction
	FallbackIconSize int           `mapstructure:"fallback_icon_size" yaml:"fallback_icon_size"` // Icon size when the platform reports none

	// Logging
	LogLevel   string `mapstructure:"log_level" yaml:"log_level"`
	PrettyLogs bool   `mapstructure:"pretty_logs" yaml:"pretty_logs"`

	// Environment (development, production, test)
	Environment string `mapstructure:"environment" yaml:"environment"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Hotkey:           "ctrl+5",
		IconTimeout:      100 * time.Millisecond,
		CompactThreshold: 20,
		FallbackIconSize: 16,
		LogLevel:         "info",
		PrettyLogs:       false,
		Environment:      "production",
	}
}

// DevelopmentConfig returns a configuration for development. The hotkey
// differs so a development build can run next to an installed one.
func DevelopmentConfig() *Config {
	config := DefaultConfig()
	config.Hotkey = "ctrl+4"
	config.Environment = "development"
	config.LogLevel = "debug"
	config.PrettyLogs = true
	return config
}

// TestConfig returns a configuration for tests
func TestConfig() *Config {
	config := DefaultConfig()
	config.Environment = "test"
	config.LogLevel = "error"
	config.IconTimeout = 10 * time.Millisecond
	config.CompactThreshold = 4
	return config
}

// ConfigForEnvironment returns the base configuration for env
func ConfigForEnvironment(env string) *Config {
	switch env {
	case "development":
		return DevelopmentConfig()
	case "test":
		return TestConfig()
	default:
		return DefaultConfig()
	}
}

// Load builds the configuration for env, then applies the YAML file at path
// (when not empty) and the environment, and validates the result.
func Load(path, env string) (*Config, error) {
	config := ConfigForEnvironment(env)

	v := config.viper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadFromEnvironment applies WPREFIX_* environment variables on top of c
func (c *Config) LoadFromEnvironment() error {
	if err := c.viper().Unmarshal(c); err != nil {
		return fmt.Errorf("failed to decode environment: %w", err)
	}
	return nil
}

// viper returns a viper instance whose defaults are the values of c and
// which reads WPREFIX_<KEY> for every key.
func (c *Config) viper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("hotkey", c.Hotkey)
	v.SetDefault("icon_timeout", c.IconTimeout)
	v.SetDefault("compact_threshold", c.CompactThreshold)
	v.SetDefault("fallback_icon_size", c.FallbackIconSize)
	v.SetDefault("log_level", c.LogLevel)
	v.SetDefault("pretty_logs", c.PrettyLogs)
	v.SetDefault("environment", c.Environment)
	return v
}

// Validate validates the configuration parameters
func (c *Config) Validate() error {
	if _, err := platform.ParseHotkey(c.Hotkey); err != nil {
		return fmt.Errorf("invalid hotkey: %w", err)
	}

	if c.IconTimeout <= 0 {
		return fmt.Errorf("icon_timeout must be positive, got %v", c.IconTimeout)
	}
	if c.IconTimeout > 5*time.Second {
		return fmt.Errorf("icon_timeout cannot exceed 5s, got %v", c.IconTimeout)
	}

	if c.CompactThreshold < 2 {
		return fmt.Errorf("compact_threshold must be at least 2, got %d", c.CompactThreshold)
	}

	if c.FallbackIconSize <= 0 || c.FallbackIconSize > 256 {
		return fmt.Errorf("fallback_icon_size must be between 1 and 256, got %d", c.FallbackIconSize)
	}

	validEnvironments := map[string]bool{
		"development": true,
		"test":        true,
		"production":  true,
	}
	if !validEnvironments[c.Environment] {
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}

	return nil
}

// HotkeyBinding returns the parsed hotkey
func (c *Config) HotkeyBinding() (platform.Hotkey, error) {
	return platform.ParseHotkey(c.Hotkey)
}

// YAML renders the configuration in the format Load reads
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// IsDevelopment returns true if the environment is set to development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsTest returns true if the environment is set to test
func (c *Config) IsTest() bool {
	return c.Environment == "test"
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
