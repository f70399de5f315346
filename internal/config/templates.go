package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Wave Scanner Configuration

[analysis]
# Swing window half-width in bars (minimum 2)
sensitivity = 4
# Pattern family to report: "motive", "correction" or "auto"
scan_mode = "auto"
# Bars analysed for explicit modes
lookback_bars = 500
# Months analysed in auto mode (0 uses lookback_bars)
auto_lookback_months = 6
# Parallel scans for batch runs
workers = 4

[data]
# SQLite database; defaults to candles.db next to this file
db_path = ""
# Symbols scanned by "scan --all" when the store is empty
default_symbols = []

[watch]
# Cron schedule for re-scans (minute hour dom month dow)
cron = "0 16 * * 0-4"
# Symbols to re-scan; empty uses default_symbols
symbols = []

[logging]
# Log level: debug, info, warn, error
level = "info"
# Write rotated log files under logs/
file = true
max_size_mb = 50
max_backups = 5
max_age_days = 30

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "2006-01-02"
`

func createTemplateConfig(configDir, name string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name+".toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}

// TemplatePath returns where the config file lives for configDir.
func TemplatePath(configDir string) string {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	return filepath.Join(configDir, "config.toml")
}
