package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all SDK configuration. Precedence: environment variables over
// config file over defaults.
type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	Logging LoggingConfig `toml:"logging"`
}

// EngineConfig holds engine process configuration.
type EngineConfig struct {
	// Path is an explicit engine binary path. Empty means discover via
	// PIVOT_ENGINE_PATH, the execution PATH, then the bundled directory.
	Path string `envconfig:"PIVOT_ENGINE_PATH" toml:"path"`

	// BundledDir is the root of bundled per-platform engine binaries,
	// keyed by "<os>-<arch>" subdirectories.
	BundledDir string `envconfig:"PIVOT_BUNDLED_DIR" toml:"bundled_dir"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level       string `envconfig:"PIVOT_LOG_LEVEL" toml:"level"`
	Development bool   `envconfig:"PIVOT_LOG_DEV" toml:"development"`
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:       "info",
			Development: false,
		},
	}
}

// Load loads configuration from environment variables over defaults.
func Load() (*Config, error) {
	cfg := Default()
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// LoadFile loads a TOML config file, then lets environment variables
// override it.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
