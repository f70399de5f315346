// Package patterns provides swing detection and Elliott wave structure matching.
package patterns

import (
	"wave-scanner/internal/analysis"
	"wave-scanner/internal/models"
)

// SwingDetector finds alternating swing highs and lows in price data.
type SwingDetector struct {
	order int // Half-width of the extremum window
}

// NewSwingDetector creates a swing detector with the given sensitivity.
func NewSwingDetector(order int) *SwingDetector {
	return &SwingDetector{order: order}
}

// FindSwings is shorthand for NewSwingDetector(order).Find(candles).
func FindSwings(candles []models.Candle, order int) []analysis.Swing {
	return NewSwingDetector(order).Find(candles)
}

// Find returns the strictly alternating swing sequence for candles.
func (d *SwingDetector) Find(candles []models.Candle) []analysis.Swing {
	if len(candles) == 0 || d.order < 1 {
		return nil
	}
	return alternate(d.candidates(candles))
}

// candidates returns raw swing candidates in index order. A bar that is both
// a window high and a window low yields the high first.
func (d *SwingDetector) candidates(candles []models.Candle) []analysis.Swing {
	var swings []analysis.Swing
	n := len(candles)

	for i := d.order; i < n-d.order; i++ {
		if isWindowHigh(candles, i, i-d.order, i+d.order) {
			swings = append(swings, newSwing(candles, i, analysis.SwingHigh, false))
		}
		if isWindowLow(candles, i, i-d.order, i+d.order) {
			swings = append(swings, newSwing(candles, i, analysis.SwingLow, false))
		}
	}

	// Live edge: the last bar only has the trailing window to compare against.
	last := n - 1
	from := n - d.order
	if from < 0 {
		from = 0
	}
	isHigh := isWindowHigh(candles, last, from, last)
	isLow := isWindowLow(candles, last, from, last)
	if isHigh && isLow {
		// An outside bar at the edge counts once, as whichever kind extends
		// the alternation.
		kind := liveEdgeKind(candles[last], swings)
		isHigh, isLow = kind == analysis.SwingHigh, kind == analysis.SwingLow
	}
	if isHigh {
		swings = append(swings, newSwing(candles, last, analysis.SwingHigh, true))
	}
	if isLow {
		swings = append(swings, newSwing(candles, last, analysis.SwingLow, true))
	}

	return swings
}

func liveEdgeKind(c models.Candle, prior []analysis.Swing) analysis.SwingKind {
	if len(prior) > 0 {
		if prior[len(prior)-1].Kind == analysis.SwingHigh {
			return analysis.SwingLow
		}
		return analysis.SwingHigh
	}
	if c.Close >= (c.High+c.Low)/2 {
		return analysis.SwingHigh
	}
	return analysis.SwingLow
}

// alternate collapses runs of same-kind candidates onto their most extreme member.
func alternate(candidates []analysis.Swing) []analysis.Swing {
	var out []analysis.Swing
	for _, s := range candidates {
		if len(out) == 0 {
			out = append(out, s)
			continue
		}
		prev := &out[len(out)-1]
		if s.Kind != prev.Kind {
			out = append(out, s)
			continue
		}
		if s.Kind == analysis.SwingHigh && s.Price > prev.Price {
			*prev = s
		} else if s.Kind == analysis.SwingLow && s.Price < prev.Price {
			*prev = s
		}
	}
	return out
}

func newSwing(candles []models.Candle, i int, kind analysis.SwingKind, provisional bool) analysis.Swing {
	price := candles[i].Low
	if kind == analysis.SwingHigh {
		price = candles[i].High
	}
	return analysis.Swing{
		Index:       i,
		Price:       price,
		Kind:        kind,
		Date:        candles[i].Timestamp,
		Provisional: provisional,
	}
}

// isWindowHigh reports whether candles[i].High is the maximum over [from, to].
func isWindowHigh(candles []models.Candle, i, from, to int) bool {
	for j := from; j <= to; j++ {
		if candles[j].High > candles[i].High {
			return false
		}
	}
	return true
}

// isWindowLow reports whether candles[i].Low is the minimum over [from, to].
func isWindowLow(candles []models.Candle, i, from, to int) bool {
	for j := from; j <= to; j++ {
		if candles[j].Low < candles[i].Low {
			return false
		}
	}
	return true
}
