package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"wave-scanner/internal/analysis"
	"wave-scanner/internal/errors"
)

func TestLoad_CreatesTemplate(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.toml")); err != nil {
		t.Errorf("template not written: %v", err)
	}
	if cfg.Analysis.Sensitivity != 4 || cfg.ScanMode() != analysis.ScanAuto {
		t.Errorf("defaults = %+v", cfg.Analysis)
	}
	if cfg.Analysis.LookbackBars != 500 || cfg.Analysis.AutoLookbackMonths != 6 {
		t.Errorf("lookback defaults = %+v", cfg.Analysis)
	}
	if cfg.Data.DBPath != filepath.Join(dir, "candles.db") {
		t.Errorf("db path = %q", cfg.Data.DBPath)
	}

	// The written template must load back to the same values.
	again, err := Load(dir)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if again.Analysis != cfg.Analysis || again.Watch.Cron != cfg.Watch.Cron {
		t.Errorf("template round trip: %+v vs %+v", again, cfg)
	}
}

func TestLoad_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[analysis]
sensitivity = 3
scan_mode = "abc"

[data]
default_symbols = ["NABIL", "NICA"]

[watch]
cron = "*/30 * * * *"
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Analysis.Sensitivity != 3 || cfg.ScanMode() != analysis.ScanCorrection {
		t.Errorf("analysis = %+v", cfg.Analysis)
	}
	if cfg.Analysis.Workers != 4 {
		t.Errorf("workers = %d, want default 4", cfg.Analysis.Workers)
	}
	if got := strings.Join(cfg.WatchSymbols(), ","); got != "NABIL,NICA" {
		t.Errorf("watch symbols = %q, want fallback to default symbols", got)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("WAVESCAN_SENSITIVITY", "6")
	t.Setenv("WAVESCAN_SCAN_MODE", "motive")
	t.Setenv("WAVESCAN_DB_PATH", filepath.Join(dir, "other.db"))

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Analysis.Sensitivity != 6 || cfg.ScanMode() != analysis.ScanMotive {
		t.Errorf("analysis = %+v", cfg.Analysis)
	}
	if cfg.Data.DBPath != filepath.Join(dir, "other.db") {
		t.Errorf("db path = %q", cfg.Data.DBPath)
	}

	t.Setenv("WAVESCAN_SENSITIVITY", "lots")
	if _, err := Load(dir); !errors.Is(err, errors.ErrConfigInvalid) {
		t.Errorf("err = %v, want ErrConfigInvalid", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Analysis: AnalysisConfig{Sensitivity: 4, ScanMode: "auto", LookbackBars: 500, AutoLookbackMonths: 6, Workers: 2},
			Watch:    WatchConfig{Cron: "0 16 * * *"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"sensitivity below 2", func(c *Config) { c.Analysis.Sensitivity = 1 }},
		{"unknown mode", func(c *Config) { c.Analysis.ScanMode = "sideways" }},
		{"negative bars", func(c *Config) { c.Analysis.LookbackBars = -1 }},
		{"negative months", func(c *Config) { c.Analysis.AutoLookbackMonths = -1 }},
		{"no workers", func(c *Config) { c.Analysis.Workers = 0 }},
		{"empty cron", func(c *Config) { c.Watch.Cron = "" }},
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			if err := c.Validate(); !errors.Is(err, errors.ErrConfigInvalid) {
				t.Errorf("err = %v, want ErrConfigInvalid", err)
			}
		})
	}
}
