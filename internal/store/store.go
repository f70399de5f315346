// Package store provides persistence for imported price series.
package store

import (
	"context"
	"strings"
	"time"

	"wave-scanner/internal/models"
)

// CandleStore holds daily OHLCV series keyed by symbol.
type CandleStore interface {
	// Candles
	SaveCandles(ctx context.Context, symbol string, timeframe models.Timeframe, candles []models.Candle) error
	GetCandles(ctx context.Context, symbol string, timeframe models.Timeframe, from, to time.Time) ([]models.Candle, error)
	GetSeries(ctx context.Context, symbol string) (models.Series, error)
	GetCandlesFreshness(ctx context.Context, symbol string, timeframe models.Timeframe) (time.Time, error)

	// Symbols
	ListSymbols(ctx context.Context) ([]models.SymbolSummary, error)
	DeleteSymbol(ctx context.Context, symbol string) (int64, error)

	// Sync
	GetLastSync(key string) time.Time
	SetLastSync(key string, t time.Time) error

	// Lifecycle
	Close() error
}

// NormalizeSymbol upper-cases and trims a ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
