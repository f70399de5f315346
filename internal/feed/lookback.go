package feed

import (
	"sort"

	"wave-scanner/internal/analysis"
	"wave-scanner/internal/models"
)

// Lookback bounds how much history is handed to the analysis.
type Lookback struct {
	Bars   int // Keep at most this many trailing bars (0 = unlimited)
	Months int // Keep bars within this many calendar months of the last bar (0 = unlimited)
}

// ForMode returns the default window for a scan mode: automatic scans look
// at recent months, explicit scans at a fixed bar count.
func ForMode(mode analysis.ScanMode, bars, autoMonths int) Lookback {
	if mode == analysis.ScanAuto && autoMonths > 0 {
		return Lookback{Months: autoMonths}
	}
	return Lookback{Bars: bars}
}

// Apply trims candles to the window. The input must be sorted by date.
func (l Lookback) Apply(candles []models.Candle) []models.Candle {
	if len(candles) == 0 {
		return candles
	}

	if l.Months > 0 {
		cutoff := candles[len(candles)-1].Timestamp.AddDate(0, -l.Months, 0)
		start := sort.Search(len(candles), func(i int) bool {
			return !candles[i].Timestamp.Before(cutoff)
		})
		candles = candles[start:]
	}

	if l.Bars > 0 && len(candles) > l.Bars {
		candles = candles[len(candles)-l.Bars:]
	}

	return candles
}
