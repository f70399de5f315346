// Package models provides domain models shared across the scanner.
package models

import (
	"time"
)

// Timeframe represents the bar interval of a series.
type Timeframe string

const (
	TimeframeDaily Timeframe = "1day"
)

// Candle represents OHLCV data for one trading day. A candle's position in
// its series is its index.
type Candle struct {
	Timestamp time.Time `json:"date"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// Series is a chronologically ordered run of candles for one symbol.
type Series struct {
	Symbol    string    `json:"symbol"`
	Timeframe Timeframe `json:"timeframe"`
	Candles   []Candle  `json:"candles"`
}

// Len returns the number of bars in the series.
func (s Series) Len() int {
	return len(s.Candles)
}

// Last returns the most recent candle and false when the series is empty.
func (s Series) Last() (Candle, bool) {
	if len(s.Candles) == 0 {
		return Candle{}, false
	}
	return s.Candles[len(s.Candles)-1], true
}

// SymbolSummary describes what the store holds for a symbol.
type SymbolSummary struct {
	Symbol    string    `json:"symbol"`
	Bars      int       `json:"bars"`
	FirstDate time.Time `json:"first_date"`
	LastDate  time.Time `json:"last_date"`
}
