package patterns

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"wave-scanner/internal/analysis"
	"wave-scanner/internal/models"
)

// barsFromMids builds candles around generated mid prices with a
// deterministic, price-dependent range so highs and lows differ.
func barsFromMids(mids []float64) []models.Candle {
	candles := make([]models.Candle, len(mids))
	for i, m := range mids {
		spread := math.Mod(m*7, 5)
		candles[i] = models.Candle{
			Timestamp: testStart.AddDate(0, 0, i),
			Open:      m,
			High:      m + spread,
			Low:       m - spread,
			Close:     m,
			Volume:    1,
		}
	}
	return candles
}

func newProperties() *gopter.Properties {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())
	return gopter.NewProperties(parameters)
}

// Property: no two consecutive swings share a kind, and swings never move
// backwards in the series.
func TestProperty_SwingsAlternate(t *testing.T) {
	properties := newProperties()

	properties.Property("swing kinds strictly alternate", prop.ForAll(
		func(mids []float64, order int) bool {
			swings := FindSwings(barsFromMids(mids), order)
			for i := 1; i < len(swings); i++ {
				if swings[i].Kind == swings[i-1].Kind {
					t.Logf("kind repeated at %d: %+v", i, swings)
					return false
				}
				if swings[i].Index < swings[i-1].Index {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(60, gen.Float64Range(50, 150)),
		gen.IntRange(1, 10),
	))

	properties.Property("swing prices come from the bar at the swing index", prop.ForAll(
		func(mids []float64, order int) bool {
			candles := barsFromMids(mids)
			for _, s := range FindSwings(candles, order) {
				c := candles[s.Index]
				if s.IsHigh() && s.Price != c.High {
					return false
				}
				if !s.IsHigh() && s.Price != c.Low {
					return false
				}
				if s.Provisional != (s.Index == len(candles)-1) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(60, gen.Float64Range(50, 150)),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t)
}

// Property: a single unambiguous peak of 100 at index k is always reported
// as a swing high at k.
func TestProperty_WindowPeakDetected(t *testing.T) {
	properties := newProperties()

	properties.Property("peak at k is a swing high", prop.ForAll(
		func(values []float64, order int, kSeed int) bool {
			n := len(values)
			if n <= 2*order {
				return true
			}
			k := order + kSeed%(n-2*order)

			candles := flatBars(values...)
			candles[k].High = 100
			candles[k].Close = 100

			for _, s := range FindSwings(candles, order) {
				if s.Index == k && s.Kind == analysis.SwingHigh && s.Price == 100 {
					return true
				}
			}
			t.Logf("no swing high at %d (order %d)", k, order)
			return false
		},
		gen.SliceOfN(40, gen.Float64Range(1, 99)),
		gen.IntRange(2, 6),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t)
}

// Property: any window whose wave 4 reaches into wave 1 territory is rejected.
func TestProperty_MotiveRejectsOverlap(t *testing.T) {
	properties := newProperties()

	properties.Property("wave 4 at or below wave 1 peak never matches", prop.ForAll(
		func(origin, w1, w2, w3, overlap, w5 float64) bool {
			p1 := origin + w1
			p2 := origin + w2
			p3 := p1 + w3
			p4 := p1 - overlap
			p5 := p3 + w5

			swings := zigzag(analysis.SwingLow, origin, p1, p2, p3, p4, p5)
			return len(FindMotiveWaves(swings)) == 0
		},
		gen.Float64Range(10, 100),
		gen.Float64Range(1, 50),
		gen.Float64Range(0.1, 1),
		gen.Float64Range(1, 50),
		gen.Float64Range(0, 20),
		gen.Float64Range(1, 50),
	))

	properties.Property("every reported impulse satisfies all rules", prop.ForAll(
		func(prices []float64) bool {
			for _, w := range FindMotiveWaves(zigzag(analysis.SwingLow, prices...)) {
				pr := swingPrices(w.Swings())
				if pr[2] <= pr[0] || pr[4] <= pr[1] || pr[3] <= pr[1] || pr[5] <= pr[3] {
					return false
				}
				w1, w3, w5 := pr[1]-pr[0], pr[3]-pr[2], pr[5]-pr[4]
				if w3 < w1 && w3 < w5 {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(20, gen.Float64Range(1, 100)),
	))

	properties.TestingRun(t)
}

// Property: any A-B-C whose B reaches the origin is rejected.
func TestProperty_CorrectionRejectsFullRetrace(t *testing.T) {
	properties := newProperties()

	properties.Property("B at or above origin never matches", prop.ForAll(
		func(origin, dropA, excessB, dropC float64) bool {
			a := origin - dropA
			b := origin + excessB
			c := a - dropC
			swings := zigzag(analysis.SwingHigh, origin, a, b, c)
			return len(FindABCCorrections(swings)) == 0
		},
		gen.Float64Range(50, 200),
		gen.Float64Range(1, 40),
		gen.Float64Range(0, 20),
		gen.Float64Range(1, 5),
	))

	properties.TestingRun(t)
}
