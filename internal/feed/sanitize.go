// Package feed loads daily OHLCV series from files and prepares them for analysis.
package feed

import (
	"math"
	"sort"

	"wave-scanner/internal/errors"
	"wave-scanner/internal/models"
)

// IsMalformed reports whether a bar cannot take part in analysis: missing
// date, non-positive or non-finite prices, negative volume, or a high below
// the low.
func IsMalformed(c models.Candle) bool {
	if c.Timestamp.IsZero() || c.Volume < 0 {
		return true
	}
	for _, p := range []float64{c.Open, c.High, c.Low, c.Close} {
		if p <= 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			return true
		}
	}
	return c.High < c.Low
}

// Sanitize drops malformed bars and returns the clean bars and how many were
// dropped. Dates that do not strictly increase are an input error.
func Sanitize(candles []models.Candle) ([]models.Candle, int, error) {
	clean := make([]models.Candle, 0, len(candles))
	dropped := 0

	for _, c := range candles {
		if IsMalformed(c) {
			dropped++
			continue
		}
		if n := len(clean); n > 0 && !c.Timestamp.After(clean[n-1].Timestamp) {
			return nil, dropped, errors.NewValidationError("date", c.Timestamp.Format("2006-01-02"),
				"dates must be strictly increasing")
		}
		clean = append(clean, c)
	}

	return clean, dropped, nil
}

// DropMalformed splits off bars that fail IsMalformed, keeping the order of
// the rest.
func DropMalformed(candles []models.Candle) ([]models.Candle, int) {
	clean := make([]models.Candle, 0, len(candles))
	for _, c := range candles {
		if !IsMalformed(c) {
			clean = append(clean, c)
		}
	}
	return clean, len(candles) - len(clean)
}

// SortAndDedupe orders candles by date and keeps the last row seen for any
// repeated date. Imported files are passed through it before storage.
func SortAndDedupe(candles []models.Candle) []models.Candle {
	sorted := make([]models.Candle, len(candles))
	copy(sorted, candles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	out := sorted[:0]
	for _, c := range sorted {
		if n := len(out); n > 0 && out[n-1].Timestamp.Equal(c.Timestamp) {
			out[n-1] = c
			continue
		}
		out = append(out, c)
	}
	return out
}
