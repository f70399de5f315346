package feed

import (
	"encoding/json"
	"time"

	"wave-scanner/internal/errors"
	"wave-scanner/internal/models"
)

// tvHistory is the TradingView UDF history payload.
type tvHistory struct {
	Status string    `json:"s"`
	Time   []int64   `json:"t"`
	Open   []float64 `json:"o"`
	High   []float64 `json:"h"`
	Low    []float64 `json:"l"`
	Close  []float64 `json:"c"`
	Volume []float64 `json:"v"`
}

// ParseTradingView decodes a {"s":"ok","t":[...],"o":[...],...} history
// response. Volume may be omitted, in which case every bar gets volume 1.
func ParseTradingView(data []byte) ([]models.Candle, error) {
	var h tvHistory
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, errors.Wrap(err, "decoding tradingview history")
	}
	if h.Status != "ok" {
		return nil, errors.Wrapf(errors.ErrUnsupportedFormat, "tradingview status %q", h.Status)
	}

	n := len(h.Time)
	if len(h.Open) != n || len(h.High) != n || len(h.Low) != n || len(h.Close) != n {
		return nil, errors.Wrap(errors.ErrUnsupportedFormat, "tradingview arrays differ in length")
	}
	if len(h.Volume) != 0 && len(h.Volume) != n {
		return nil, errors.Wrap(errors.ErrUnsupportedFormat, "tradingview volume length mismatch")
	}

	candles := make([]models.Candle, n)
	for i := 0; i < n; i++ {
		candles[i] = models.Candle{
			Timestamp: time.Unix(h.Time[i], 0).UTC(),
			Open:      h.Open[i],
			High:      h.High[i],
			Low:       h.Low[i],
			Close:     h.Close[i],
			Volume:    1,
		}
		if len(h.Volume) == n {
			candles[i].Volume = int64(h.Volume[i])
		}
	}
	return candles, nil
}
