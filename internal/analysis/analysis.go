// Package analysis provides the shared types for swing detection, wave
// pattern matching and Fibonacci projection.
package analysis

import (
	"time"
)

// SwingKind marks a swing as a local high or low.
type SwingKind string

const (
	SwingHigh SwingKind = "HIGH"
	SwingLow  SwingKind = "LOW"
)

// Swing is a local price extremum that survived alternation filtering.
// Price is the bar's High for SwingHigh and its Low for SwingLow.
type Swing struct {
	Index int       `json:"index"`
	Price float64   `json:"price"`
	Kind  SwingKind `json:"kind"`
	Date  time.Time `json:"date"`
	// Provisional is set on a swing taken from the last bar of the series
	// before it has a full window of bars on its right.
	Provisional bool `json:"provisional,omitempty"`
}

// IsHigh reports whether the swing is a swing high.
func (s Swing) IsHigh() bool {
	return s.Kind == SwingHigh
}

// WaveMode identifies a pattern family.
type WaveMode string

const (
	ModeNone       WaveMode = "none"
	ModeMotive     WaveMode = "motive"
	ModeCorrection WaveMode = "correction"
)

// ScanMode is the caller's request for which family to report.
type ScanMode string

const (
	ScanMotive     ScanMode = "motive"
	ScanCorrection ScanMode = "correction"
	ScanAuto       ScanMode = "auto"
)

// ParseScanMode maps user input onto a ScanMode.
func ParseScanMode(s string) (ScanMode, bool) {
	switch s {
	case "motive", "impulse", "12345":
		return ScanMotive, true
	case "correction", "corrective", "abc":
		return ScanCorrection, true
	case "auto", "":
		return ScanAuto, true
	}
	return "", false
}

// WavePattern is a validated, fixed-length tuple of swings.
type WavePattern interface {
	Mode() WaveMode
	Swings() []Swing
	Labels() []string
	Origin() Swing
	Terminal() Swing
}

// MotivePattern is a bullish 5-leg impulse: lows at 0, 2, 4 and highs at 1, 3, 5.
type MotivePattern struct {
	Points [6]Swing `json:"points"`
}

func (p MotivePattern) Mode() WaveMode { return ModeMotive }
func (p MotivePattern) Swings() []Swing { return p.Points[:] }
func (p MotivePattern) Labels() []string { return []string{"0", "1", "2", "3", "4", "5"} }
func (p MotivePattern) Origin() Swing { return p.Points[0] }
func (p MotivePattern) Terminal() Swing { return p.Points[5] }

// Wave1Peak returns the end of wave 1.
func (p MotivePattern) Wave1Peak() Swing { return p.Points[1] }

// CorrectivePattern is an A-B-C decline: highs at 0 and B, lows at A and C.
type CorrectivePattern struct {
	Points [4]Swing `json:"points"`
}

func (p CorrectivePattern) Mode() WaveMode { return ModeCorrection }
func (p CorrectivePattern) Swings() []Swing { return p.Points[:] }
func (p CorrectivePattern) Labels() []string { return []string{"0", "A", "B", "C"} }
func (p CorrectivePattern) Origin() Swing { return p.Points[0] }
func (p CorrectivePattern) Terminal() Swing { return p.Points[3] }

// PointA returns the end of the A leg.
func (p CorrectivePattern) PointA() Swing { return p.Points[1] }

// PointB returns the end of the B leg.
func (p CorrectivePattern) PointB() Swing { return p.Points[2] }

// PatternDirection represents the expected direction after a pattern.
type PatternDirection string

const (
	PatternBullish PatternDirection = "bullish"
	PatternBearish PatternDirection = "bearish"
	PatternNeutral PatternDirection = "neutral"
)

// ProjectionStatus is the per-run state of the projection state machine.
type ProjectionStatus string

const (
	StatusNoPattern        ProjectionStatus = "no_pattern"
	StatusAwaitingBreakout ProjectionStatus = "awaiting_breakout"
	StatusDirectional      ProjectionStatus = "directional_signal"
	StatusInvalidated      ProjectionStatus = "invalidated"
)

// SignalRecommendation is the qualitative trading call for a projection.
type SignalRecommendation string

const (
	SignalNone       SignalRecommendation = "NONE"
	SignalBuy        SignalRecommendation = "BUY"
	SignalAccumulate SignalRecommendation = "ACCUMULATE"
	SignalExit       SignalRecommendation = "EXIT"
	SignalTakeProfit SignalRecommendation = "TAKE_PROFIT"
)

// Level is a named Fibonacci price target.
type Level struct {
	Label string  `json:"label"`
	Ratio float64 `json:"ratio"`
	Price float64 `json:"price"`
}

// LiveLeg is the developing move from a pattern's terminal swing to the latest bar.
type LiveLeg struct {
	FromDate  time.Time `json:"from_date"`
	FromPrice float64   `json:"from_price"`
	ToDate    time.Time `json:"to_date"`
	ToPrice   float64   `json:"to_price"`
}

// ProjectionResult is the forward read computed from one pattern and the latest bar.
type ProjectionResult struct {
	Mode         WaveMode             `json:"mode"`
	Direction    PatternDirection     `json:"direction"`
	Status       ProjectionStatus     `json:"status"`
	Signal       SignalRecommendation `json:"signal"`
	Targets      []Level              `json:"targets,omitempty"`
	Invalidation float64              `json:"invalidation_level,omitempty"`
	LiveLeg      *LiveLeg             `json:"live_leg,omitempty"`
	// Provisional is true when the pattern ends on an unconfirmed live-edge swing.
	Provisional bool `json:"provisional,omitempty"`
	// Degenerate is true when the measured span was zero or negative.
	Degenerate bool `json:"degenerate,omitempty"`
}

// HasTargets reports whether numeric targets were produced.
func (r ProjectionResult) HasTargets() bool {
	return len(r.Targets) > 0
}
