// Package config provides configuration management for the wave scanner.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"wave-scanner/internal/analysis"
	"wave-scanner/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Data     DataConfig     `mapstructure:"data"`
	Watch    WatchConfig    `mapstructure:"watch"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	UI       UIConfig       `mapstructure:"ui"`
	Dir      string         `mapstructure:"-"` // Directory the config was loaded from
}

// AnalysisConfig holds the default scan settings.
type AnalysisConfig struct {
	Sensitivity        int    `mapstructure:"sensitivity"`
	ScanMode           string `mapstructure:"scan_mode"` // motive, correction, auto
	LookbackBars       int    `mapstructure:"lookback_bars"`
	AutoLookbackMonths int    `mapstructure:"auto_lookback_months"`
	Workers            int    `mapstructure:"workers"`
}

// DataConfig holds storage settings.
type DataConfig struct {
	DBPath         string   `mapstructure:"db_path"`
	DefaultSymbols []string `mapstructure:"default_symbols"`
}

// WatchConfig holds the scheduled re-scan settings.
type WatchConfig struct {
	Cron    string   `mapstructure:"cron"`
	Symbols []string `mapstructure:"symbols"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	File       bool   `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/wave-scanner"
	}
	return filepath.Join(home, ".config", "wave-scanner")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing
// config.toml is written from the template and defaults are used.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{Dir: configDir}
	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if cfg.Data.DBPath == "" {
		cfg.Data.DBPath = filepath.Join(configDir, "candles.db")
	}
	cfg.Data.DBPath = expandHome(cfg.Data.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("analysis.sensitivity", 4)
	v.SetDefault("analysis.scan_mode", "auto")
	v.SetDefault("analysis.lookback_bars", 500)
	v.SetDefault("analysis.auto_lookback_months", 6)
	v.SetDefault("analysis.workers", 4)
	v.SetDefault("data.db_path", "")
	v.SetDefault("data.default_symbols", []string{})
	v.SetDefault("watch.cron", "0 16 * * 0-4")
	v.SetDefault("watch.symbols", []string{})
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.max_size_mb", 50)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "2006-01-02")
}

func loadConfigFile(configDir, name string, target interface{}) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		// Config file not found, create template and fall back to defaults
		if err := createTemplateConfig(configDir, name); err != nil {
			return err
		}
	}

	return v.Unmarshal(target)
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("WAVESCAN_SENSITIVITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(errors.ErrConfigInvalid, "WAVESCAN_SENSITIVITY=%q", v)
		}
		cfg.Analysis.Sensitivity = n
	}
	if v := os.Getenv("WAVESCAN_SCAN_MODE"); v != "" {
		cfg.Analysis.ScanMode = v
	}
	if v := os.Getenv("WAVESCAN_DB_PATH"); v != "" {
		cfg.Data.DBPath = v
	}
	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Analysis.Sensitivity < 2 {
		return errors.Wrapf(errors.ErrConfigInvalid, "analysis.sensitivity must be at least 2, got %d", c.Analysis.Sensitivity)
	}
	if _, ok := analysis.ParseScanMode(c.Analysis.ScanMode); !ok {
		return errors.Wrapf(errors.ErrConfigInvalid, "invalid analysis.scan_mode: %s (must be 'motive', 'correction' or 'auto')", c.Analysis.ScanMode)
	}
	if c.Analysis.LookbackBars < 0 {
		return errors.Wrap(errors.ErrConfigInvalid, "analysis.lookback_bars must be non-negative")
	}
	if c.Analysis.AutoLookbackMonths < 0 {
		return errors.Wrap(errors.ErrConfigInvalid, "analysis.auto_lookback_months must be non-negative")
	}
	if c.Analysis.Workers < 1 {
		return errors.Wrap(errors.ErrConfigInvalid, "analysis.workers must be at least 1")
	}
	if c.Watch.Cron == "" {
		return errors.Wrap(errors.ErrConfigInvalid, "watch.cron must not be empty")
	}
	return nil
}

// ScanMode returns the configured default scan mode.
func (c *Config) ScanMode() analysis.ScanMode {
	mode, _ := analysis.ParseScanMode(c.Analysis.ScanMode)
	return mode
}

// WatchSymbols returns the symbols the scheduler re-scans, falling back to
// the default symbol list.
func (c *Config) WatchSymbols() []string {
	if len(c.Watch.Symbols) > 0 {
		return c.Watch.Symbols
	}
	return c.Data.DefaultSymbols
}

// LogDir returns where rotated log files are written.
func (c *Config) LogDir() string {
	return filepath.Join(c.Dir, "logs")
}
