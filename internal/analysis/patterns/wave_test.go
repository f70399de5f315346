package patterns

import (
	"reflect"
	"testing"

	"wave-scanner/internal/analysis"
)

func TestFindMotiveWaves_ImpulseSeries(t *testing.T) {
	candles := flatBars(14, 12, 10, 15, 20, 16, 12, 20, 28, 25, 22, 28.5, 35, 33, 31)

	waves := FindMotiveWaves(FindSwings(candles, 2))

	if len(waves) != 1 {
		t.Fatalf("got %d motive waves, want 1", len(waves))
	}
	want := []float64{10, 20, 12, 28, 22, 35}
	if got := swingPrices(waves[0].Swings()); !reflect.DeepEqual(got, want) {
		t.Errorf("motive prices = %v, want %v", got, want)
	}
	if waves[0].Terminal().Index != 12 {
		t.Errorf("terminal index = %d, want 12", waves[0].Terminal().Index)
	}
}

func TestIsMotive_Rules(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		want   bool
	}{
		{"valid impulse", []float64{10, 20, 12, 28, 22, 35}, true},
		{"wave 2 below origin", []float64{10, 20, 9, 28, 22, 35}, false},
		{"wave 2 equals origin", []float64{10, 20, 10, 28, 22, 35}, false},
		{"wave 4 overlaps wave 1", []float64{10, 20, 12, 28, 15, 35}, false},
		{"wave 4 touches wave 1 peak", []float64{10, 20, 12, 28, 20, 35}, false},
		{"wave 3 peak below wave 1", []float64{10, 20, 12, 19, 15, 35}, false},
		{"wave 5 fails to exceed wave 3", []float64{10, 20, 12, 28, 22, 27}, false},
		{"wave 3 shortest", []float64{10, 20, 18, 26, 21, 40}, false},
		{"wave 3 ties wave 1", []float64{10, 20, 15, 25, 21, 40}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p analysis.MotivePattern
			copy(p.Points[:], zigzag(analysis.SwingLow, tt.prices...))
			if got := IsMotive(p); got != tt.want {
				t.Errorf("IsMotive(%v) = %v, want %v", tt.prices, got, tt.want)
			}
		})
	}
}

func TestFindMotiveWaves_SkipsWindowsStartingOnHigh(t *testing.T) {
	swings := zigzag(analysis.SwingHigh, 30, 10, 20, 12, 28, 22, 35)

	waves := FindMotiveWaves(swings)

	if len(waves) != 1 {
		t.Fatalf("got %d waves, want 1", len(waves))
	}
	if waves[0].Origin().Price != 10 {
		t.Errorf("origin = %v, want 10", waves[0].Origin().Price)
	}
}

func TestFindMotiveWaves_ReturnsOverlappingMatches(t *testing.T) {
	// Windows starting at 10 and at 12 are both valid impulses.
	swings := zigzag(analysis.SwingLow, 10, 20, 12, 28, 22, 40, 30, 45)

	waves := FindMotiveWaves(swings)

	if len(waves) != 2 {
		t.Fatalf("got %d waves, want 2", len(waves))
	}
	if waves[0].Origin().Price != 10 || waves[1].Origin().Price != 12 {
		t.Errorf("unexpected scan order: %v then %v", waves[0].Origin().Price, waves[1].Origin().Price)
	}
}

func TestFindMotiveWaves_ShortInput(t *testing.T) {
	if waves := FindMotiveWaves(zigzag(analysis.SwingLow, 10, 20, 12, 28, 22)); waves != nil {
		t.Errorf("expected no waves for 5 swings, got %v", waves)
	}
	if waves := FindMotiveWaves(nil); waves != nil {
		t.Errorf("expected no waves for nil input, got %v", waves)
	}
}

func TestIsCorrection_Rules(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		want   bool
	}{
		{"valid abc", []float64{50, 30, 40, 25}, true},
		{"A above origin", []float64{50, 55, 60, 25}, false},
		{"B below A", []float64{50, 30, 28, 25}, false},
		{"B retraces all of A", []float64{50, 30, 50, 25}, false},
		{"B above origin", []float64{50, 30, 55, 25}, false},
		{"C holds above A", []float64{50, 30, 40, 31}, false},
		{"C equals A", []float64{50, 30, 40, 30}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p analysis.CorrectivePattern
			copy(p.Points[:], zigzag(analysis.SwingHigh, tt.prices...))
			if got := IsCorrection(p); got != tt.want {
				t.Errorf("IsCorrection(%v) = %v, want %v", tt.prices, got, tt.want)
			}
		})
	}
}

func TestFindABCCorrections_CorrectionSeries(t *testing.T) {
	candles := flatBars(46, 48, 50, 40, 30, 35, 40, 32, 25, 29, 33)

	swings := FindSwings(candles, 2)
	waves := FindABCCorrections(swings)

	if len(waves) != 1 {
		t.Fatalf("got %d corrections, want 1 (swings %v)", len(waves), swingPrices(swings))
	}
	want := []float64{50, 30, 40, 25}
	if got := swingPrices(waves[0].Swings()); !reflect.DeepEqual(got, want) {
		t.Errorf("correction prices = %v, want %v", got, want)
	}
	if waves[0].PointA().Price != 30 || waves[0].PointB().Price != 40 {
		t.Errorf("unexpected A/B points: %+v", waves[0])
	}
}

func TestFindABCCorrections_SkipsWindowsStartingOnLow(t *testing.T) {
	swings := zigzag(analysis.SwingLow, 20, 50, 30, 40, 25)

	waves := FindABCCorrections(swings)

	if len(waves) != 1 || waves[0].Origin().Price != 50 {
		t.Fatalf("expected single correction from 50, got %+v", waves)
	}
}
