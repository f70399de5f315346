package elliott

import (
	"github.com/shopspring/decimal"

	"wave-scanner/internal/analysis"
	"wave-scanner/internal/models"
)

// Fibonacci ratios used for targets.
const (
	RatioFirstCorrection = 0.382
	RatioRetracement     = 0.618
	RatioExtension       = 1.618
)

// Target labels.
const (
	LabelFirstCorrection = "first correction target"
	LabelRetracement     = "near-term retracement target"
	LabelExtension       = "macro extension target"
)

// Project computes the forward read for pattern given the latest bar. A nil
// pattern yields a neutral no-pattern result.
func Project(pattern analysis.WavePattern, latest models.Candle) analysis.ProjectionResult {
	switch p := pattern.(type) {
	case analysis.MotivePattern:
		return projectMotive(p, latest)
	case analysis.CorrectivePattern:
		return projectCorrection(p, latest)
	}
	return analysis.ProjectionResult{
		Mode:      analysis.ModeNone,
		Direction: analysis.PatternNeutral,
		Status:    analysis.StatusNoPattern,
		Signal:    analysis.SignalNone,
	}
}

// projectCorrection reads a completed A-B-C. A close above C after C's date
// starts a new bullish leg measured off the 0-to-C span.
func projectCorrection(p analysis.CorrectivePattern, latest models.Candle) analysis.ProjectionResult {
	origin, end := p.Origin(), p.Terminal()
	res := awaiting(p, analysis.SignalAccumulate)
	res.Invalidation = origin.Price

	span := decimal.NewFromFloat(origin.Price).Sub(decimal.NewFromFloat(end.Price))
	if !span.IsPositive() {
		res.Degenerate = true
		return res
	}
	if !latest.Timestamp.After(end.Date) || latest.Close <= end.Price {
		return res
	}

	res.Direction = analysis.PatternBullish
	res.Status = analysis.StatusDirectional
	res.Signal = analysis.SignalBuy
	res.Targets = []analysis.Level{
		fibLevel(LabelRetracement, end.Price, span, RatioRetracement),
		fibLevel(LabelExtension, end.Price, span, RatioExtension),
	}
	res.LiveLeg = liveLeg(end, latest)
	if latest.Close > origin.Price {
		// The whole A-B-C has been retraced.
		res.Status = analysis.StatusInvalidated
	}
	return res
}

// projectMotive reads a completed impulse. A close below wave 5 after its
// date means the correction has started.
func projectMotive(p analysis.MotivePattern, latest models.Candle) analysis.ProjectionResult {
	origin, end := p.Origin(), p.Terminal()
	res := awaiting(p, analysis.SignalTakeProfit)
	res.Invalidation = p.Wave1Peak().Price

	span := decimal.NewFromFloat(end.Price).Sub(decimal.NewFromFloat(origin.Price))
	if !span.IsPositive() {
		res.Degenerate = true
		return res
	}
	if !latest.Timestamp.After(end.Date) || latest.Close >= end.Price {
		return res
	}

	res.Direction = analysis.PatternBearish
	res.Status = analysis.StatusDirectional
	res.Signal = analysis.SignalExit
	res.Targets = []analysis.Level{
		fibLevel(LabelFirstCorrection, end.Price, span.Neg(), RatioFirstCorrection),
	}
	res.LiveLeg = liveLeg(end, latest)
	if latest.Close < res.Invalidation {
		// Price is back inside wave 1 territory.
		res.Status = analysis.StatusInvalidated
	}
	return res
}

func awaiting(p analysis.WavePattern, signal analysis.SignalRecommendation) analysis.ProjectionResult {
	return analysis.ProjectionResult{
		Mode:        p.Mode(),
		Direction:   analysis.PatternNeutral,
		Status:      analysis.StatusAwaitingBreakout,
		Signal:      signal,
		Provisional: p.Terminal().Provisional,
	}
}

// fibLevel returns base + span*ratio, computed in decimal so targets such as
// 35 - 25*0.382 come out as exactly 25.45.
func fibLevel(label string, base float64, span decimal.Decimal, ratio float64) analysis.Level {
	price := decimal.NewFromFloat(base).Add(span.Mul(decimal.NewFromFloat(ratio)))
	return analysis.Level{
		Label: label,
		Ratio: ratio,
		Price: price.InexactFloat64(),
	}
}

func liveLeg(from analysis.Swing, latest models.Candle) *analysis.LiveLeg {
	return &analysis.LiveLeg{
		FromDate:  from.Date,
		FromPrice: from.Price,
		ToDate:    latest.Timestamp,
		ToPrice:   latest.Close,
	}
}
