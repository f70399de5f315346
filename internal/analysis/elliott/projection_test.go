package elliott

import (
	"testing"
	"time"

	"wave-scanner/internal/analysis"
	"wave-scanner/internal/models"
)

func swingsAt(startKind analysis.SwingKind, prices ...float64) []analysis.Swing {
	out := make([]analysis.Swing, len(prices))
	kind := startKind
	for i, p := range prices {
		out[i] = analysis.Swing{Index: i * 2, Price: p, Kind: kind, Date: testStart.AddDate(0, 0, i*2)}
		if kind == analysis.SwingHigh {
			kind = analysis.SwingLow
		} else {
			kind = analysis.SwingHigh
		}
	}
	return out
}

func motive(prices ...float64) analysis.MotivePattern {
	var p analysis.MotivePattern
	copy(p.Points[:], swingsAt(analysis.SwingLow, prices...))
	return p
}

func correction(prices ...float64) analysis.CorrectivePattern {
	var p analysis.CorrectivePattern
	copy(p.Points[:], swingsAt(analysis.SwingHigh, prices...))
	return p
}

func barAfter(p analysis.WavePattern, days int, close float64) models.Candle {
	return models.Candle{
		Timestamp: p.Terminal().Date.AddDate(0, 0, days),
		Open:      close,
		High:      close,
		Low:       close,
		Close:     close,
		Volume:    1,
	}
}

func TestProject_CorrectionStates(t *testing.T) {
	p := correction(50, 30, 40, 25)

	tests := []struct {
		name      string
		latest    models.Candle
		direction analysis.PatternDirection
		status    analysis.ProjectionStatus
		signal    analysis.SignalRecommendation
		targets   int
	}{
		{"breakout above C", barAfter(p, 3, 33), analysis.PatternBullish, analysis.StatusDirectional, analysis.SignalBuy, 2},
		{"still at C", barAfter(p, 3, 25), analysis.PatternNeutral, analysis.StatusAwaitingBreakout, analysis.SignalAccumulate, 0},
		{"same day as C", barAfter(p, 0, 33), analysis.PatternNeutral, analysis.StatusAwaitingBreakout, analysis.SignalAccumulate, 0},
		{"fully retraced", barAfter(p, 10, 52), analysis.PatternBullish, analysis.StatusInvalidated, analysis.SignalBuy, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Project(p, tt.latest)
			if res.Mode != analysis.ModeCorrection {
				t.Errorf("mode = %s, want correction", res.Mode)
			}
			if res.Direction != tt.direction || res.Status != tt.status || res.Signal != tt.signal {
				t.Errorf("got %s/%s/%s, want %s/%s/%s",
					res.Direction, res.Status, res.Signal, tt.direction, tt.status, tt.signal)
			}
			if len(res.Targets) != tt.targets {
				t.Errorf("got %d targets, want %d", len(res.Targets), tt.targets)
			}
			if res.Invalidation != 50 {
				t.Errorf("invalidation = %v, want 50", res.Invalidation)
			}
		})
	}
}

func TestProject_MotiveStates(t *testing.T) {
	p := motive(10, 20, 12, 28, 22, 35)

	tests := []struct {
		name      string
		latest    models.Candle
		direction analysis.PatternDirection
		status    analysis.ProjectionStatus
		signal    analysis.SignalRecommendation
	}{
		{"dump in progress", barAfter(p, 2, 30), analysis.PatternBearish, analysis.StatusDirectional, analysis.SignalExit},
		{"new high", barAfter(p, 2, 36), analysis.PatternNeutral, analysis.StatusAwaitingBreakout, analysis.SignalTakeProfit},
		{"top just printed", barAfter(p, 0, 30), analysis.PatternNeutral, analysis.StatusAwaitingBreakout, analysis.SignalTakeProfit},
		{"back in wave 1 territory", barAfter(p, 20, 18), analysis.PatternBearish, analysis.StatusInvalidated, analysis.SignalExit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Project(p, tt.latest)
			if res.Direction != tt.direction || res.Status != tt.status || res.Signal != tt.signal {
				t.Errorf("got %s/%s/%s, want %s/%s/%s",
					res.Direction, res.Status, res.Signal, tt.direction, tt.status, tt.signal)
			}
			if res.Invalidation != 20 {
				t.Errorf("invalidation = %v, want 20", res.Invalidation)
			}
			if tt.direction == analysis.PatternBearish && res.Targets[0].Price != 25.45 {
				t.Errorf("target = %v, want 25.45", res.Targets[0].Price)
			}
		})
	}
}

func TestProject_DegenerateSpan(t *testing.T) {
	flat := correction(30, 20, 25, 30)
	res := Project(flat, barAfter(flat, 2, 35))
	if !res.Degenerate || res.Direction != analysis.PatternNeutral || res.HasTargets() {
		t.Errorf("zero span correction: %+v", res)
	}

	inverted := motive(40, 20, 12, 28, 22, 35)
	res = Project(inverted, barAfter(inverted, 2, 30))
	if !res.Degenerate || res.Direction != analysis.PatternNeutral || res.HasTargets() {
		t.Errorf("negative span motive: %+v", res)
	}
}

func TestProject_NoPattern(t *testing.T) {
	res := Project(nil, models.Candle{Timestamp: time.Now(), Close: 10})
	if res.Status != analysis.StatusNoPattern || res.Signal != analysis.SignalNone || res.Mode != analysis.ModeNone {
		t.Errorf("nil pattern: %+v", res)
	}
}

func TestProject_ProvisionalTerminal(t *testing.T) {
	p := correction(50, 30, 40, 25)
	p.Points[3].Provisional = true

	res := Project(p, barAfter(p, 0, 25))
	if !res.Provisional {
		t.Error("expected provisional flag from unconfirmed C point")
	}
	if res.Direction != analysis.PatternNeutral {
		t.Errorf("direction = %s, want neutral while C is still forming", res.Direction)
	}
}
