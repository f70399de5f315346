package patterns

import (
	"time"

	"wave-scanner/internal/analysis"
	"wave-scanner/internal/models"
)

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// flatBars builds one candle per price with open, high, low and close all equal.
func flatBars(prices ...float64) []models.Candle {
	candles := make([]models.Candle, len(prices))
	for i, p := range prices {
		candles[i] = models.Candle{
			Timestamp: testStart.AddDate(0, 0, i),
			Open:      p,
			High:      p,
			Low:       p,
			Close:     p,
			Volume:    1000,
		}
	}
	return candles
}

// zigzag builds alternating swings from prices, starting with startKind.
func zigzag(startKind analysis.SwingKind, prices ...float64) []analysis.Swing {
	swings := make([]analysis.Swing, len(prices))
	kind := startKind
	for i, p := range prices {
		swings[i] = analysis.Swing{
			Index: i * 3,
			Price: p,
			Kind:  kind,
			Date:  testStart.AddDate(0, 0, i*3),
		}
		if kind == analysis.SwingHigh {
			kind = analysis.SwingLow
		} else {
			kind = analysis.SwingHigh
		}
	}
	return swings
}

func swingPrices(swings []analysis.Swing) []float64 {
	out := make([]float64, len(swings))
	for i, s := range swings {
		out[i] = s.Price
	}
	return out
}
