// Package elliott runs the swing → pattern → projection pipeline over one
// daily series. Every call re-scans the input from scratch and keeps no state.
package elliott

import (
	"fmt"

	"wave-scanner/internal/analysis"
	"wave-scanner/internal/analysis/patterns"
	"wave-scanner/internal/errors"
	"wave-scanner/internal/feed"
	"wave-scanner/internal/models"
)

// MinSensitivity is the smallest accepted swing window half-width.
const MinSensitivity = 2

// Config holds the per-call analysis settings.
type Config struct {
	Sensitivity int               `json:"sensitivity"`
	Mode        analysis.ScanMode `json:"mode"`
}

// DefaultConfig returns the default analysis configuration.
func DefaultConfig() Config {
	return Config{
		Sensitivity: 4,
		Mode:        analysis.ScanAuto,
	}
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.Sensitivity < MinSensitivity {
		return errors.NewValidationError("sensitivity", c.Sensitivity,
			fmt.Sprintf("must be at least %d", MinSensitivity))
	}
	switch c.Mode {
	case analysis.ScanMotive, analysis.ScanCorrection, analysis.ScanAuto:
	default:
		return errors.NewValidationError("mode", c.Mode, "must be motive, correction or auto")
	}
	return nil
}

// MinBars returns the shortest series that can hold a confirmed swing.
func (c Config) MinBars() int {
	return 2*c.Sensitivity + 1
}

// Outcome classifies a run that completed without error.
type Outcome string

const (
	OutcomeOK               Outcome = "ok"
	OutcomeInsufficientData Outcome = "insufficient_data"
	OutcomeNoPattern        Outcome = "no_pattern"
)

// Result is the full output of one analysis run.
type Result struct {
	Symbol      string                       `json:"symbol,omitempty"`
	Config      Config                       `json:"config"`
	Outcome     Outcome                      `json:"outcome"`
	Bars        int                          `json:"bars"`
	Dropped     int                          `json:"dropped_bars"`
	Latest      *models.Candle               `json:"latest,omitempty"`
	Swings      []analysis.Swing             `json:"swings"`
	Motives     []analysis.MotivePattern     `json:"motive_waves"`
	Corrections []analysis.CorrectivePattern `json:"abc_corrections"`
	Selection   Selection                    `json:"selection"`
	Active      analysis.WavePattern         `json:"active_pattern,omitempty"`
	Projection  analysis.ProjectionResult    `json:"projection"`
}

// HasPattern reports whether the run resolved to an active pattern.
func (r *Result) HasPattern() bool {
	return r.Active != nil
}

// Analyze runs the pipeline over candles, which must be in date order.
// Malformed bars are dropped; too little data or no matching structure are
// reported through Result.Outcome. Only invalid configuration or
// out-of-order dates return an error.
func Analyze(candles []models.Candle, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clean, dropped, err := feed.Sanitize(candles)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Config:     cfg,
		Bars:       len(clean),
		Dropped:    dropped,
		Selection:  Selection{Mode: analysis.ModeNone},
		Projection: Project(nil, models.Candle{}),
	}
	if len(clean) == 0 {
		res.Outcome = OutcomeInsufficientData
		return res, nil
	}
	latest := clean[len(clean)-1]
	res.Latest = &latest

	if len(clean) < cfg.MinBars() {
		res.Outcome = OutcomeInsufficientData
		return res, nil
	}

	res.Swings = patterns.FindSwings(clean, cfg.Sensitivity)
	if len(res.Swings) == 0 {
		res.Outcome = OutcomeInsufficientData
		return res, nil
	}

	res.Motives = patterns.FindMotiveWaves(res.Swings)
	res.Corrections = patterns.FindABCCorrections(res.Swings)
	res.Selection = SelectMode(res.Motives, res.Corrections, cfg.Mode)
	res.Active = res.Selection.Latest()
	if res.Active == nil {
		res.Outcome = OutcomeNoPattern
		return res, nil
	}

	res.Projection = Project(res.Active, latest)
	res.Outcome = OutcomeOK
	return res, nil
}

// AnalyzeSeries runs Analyze over a stored series and tags the result with its symbol.
func AnalyzeSeries(series models.Series, cfg Config) (*Result, error) {
	res, err := Analyze(series.Candles, cfg)
	if err != nil {
		return nil, errors.NewDataError("series", series.Symbol, "analysis failed", err)
	}
	res.Symbol = series.Symbol
	return res, nil
}
