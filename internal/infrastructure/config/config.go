package config

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bnema/dockwork/internal/domain/dock"
	"github.com/bnema/dockwork/internal/domain/entity"
)

// Default configuration constants
const (
	defaultSplitRatio       = 0.5
	defaultSaveIntervalMs   = 5000
	defaultLogLevel         = "info"
	defaultLogFormat        = "text" // text or json
	defaultAutoRestoreState = true
)

// Config is the root configuration structure.
type Config struct {
	Database DatabaseConfig `mapstructure:"database" toml:"database"`
	Logging  LoggingConfig  `mapstructure:"logging" toml:"logging"`
	Docking  DockingConfig  `mapstructure:"docking" toml:"docking"`
	Snapshot SnapshotConfig `mapstructure:"snapshot" toml:"snapshot"`
}

// DatabaseConfig controls the state database location.
type DatabaseConfig struct {
	Path string `mapstructure:"path" toml:"path"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level"`
	Format string `mapstructure:"format" toml:"format"`
}

// DockingConfig tunes the docking engine.
type DockingConfig struct {
	// MagneticThreshold is the snap distance in pixels for magnetic docking.
	MagneticThreshold float64 `mapstructure:"magnetic_threshold" toml:"magnetic_threshold"`
	// DefaultSplitRatio is used when a dock request carries no explicit ratio.
	DefaultSplitRatio float64 `mapstructure:"default_split_ratio" toml:"default_split_ratio"`
}

// SnapshotConfig controls state persistence.
type SnapshotConfig struct {
	AutoRestore    bool `mapstructure:"auto_restore" toml:"auto_restore"`
	SaveIntervalMs int  `mapstructure:"save_interval_ms" toml:"save_interval_ms"`
}

// DefaultConfig returns the default configuration values for dockwork.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			// Path is set dynamically in config.Load()
		},
		Logging: LoggingConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Docking: DockingConfig{
			MagneticThreshold: dock.DefaultMagneticThreshold,
			DefaultSplitRatio: defaultSplitRatio,
		},
		Snapshot: SnapshotConfig{
			AutoRestore:    defaultAutoRestoreState,
			SaveIntervalMs: defaultSaveIntervalMs,
		},
	}
}

func validateConfig(config *Config) error {
	if config.Docking.MagneticThreshold < 0 {
		return fmt.Errorf("docking.magnetic_threshold must be >= 0, got %v", config.Docking.MagneticThreshold)
	}
	if r := config.Docking.DefaultSplitRatio; r < entity.MinSplitRatio || r > entity.MaxSplitRatio {
		return fmt.Errorf("docking.default_split_ratio must be between %v and %v, got %v",
			entity.MinSplitRatio, entity.MaxSplitRatio, r)
	}
	if config.Snapshot.SaveIntervalMs <= 0 {
		return fmt.Errorf("snapshot.save_interval_ms must be positive, got %d", config.Snapshot.SaveIntervalMs)
	}
	if _, err := zerolog.ParseLevel(config.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level %q: %w", config.Logging.Level, err)
	}
	switch config.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be \"text\" or \"json\", got %q", config.Logging.Format)
	}
	return nil
}

func normalizeConfig(config *Config) {
	if config.Logging.Level == "" {
		config.Logging.Level = defaultLogLevel
	}
	if config.Logging.Format == "" {
		config.Logging.Format = defaultLogFormat
	}
}
