package patterns

import (
	"wave-scanner/internal/analysis"
)

const motiveLen = 6

// FindMotiveWaves returns every 6-swing window, starting on a swing low,
// that forms a valid bullish impulse. Overlapping windows are all returned
// in scan order; callers wanting the current structure take the last one.
func FindMotiveWaves(swings []analysis.Swing) []analysis.MotivePattern {
	var waves []analysis.MotivePattern
	for i := 0; i+motiveLen <= len(swings); i++ {
		if swings[i].Kind != analysis.SwingLow {
			continue
		}
		var p analysis.MotivePattern
		copy(p.Points[:], swings[i:i+motiveLen])
		if IsMotive(p) {
			waves = append(waves, p)
		}
	}
	return waves
}

// IsMotive checks the impulse rules against a candidate window:
// wave 2 holds above the origin, wave 4 stays out of wave 1 territory,
// each peak exceeds the previous one, and wave 3 is not the shortest leg.
func IsMotive(p analysis.MotivePattern) bool {
	var pr [motiveLen]float64
	for i, s := range p.Points {
		pr[i] = s.Price
	}

	if pr[2] <= pr[0] || pr[4] <= pr[1] {
		return false
	}
	if pr[3] <= pr[1] || pr[5] <= pr[3] {
		return false
	}

	w1, w3, w5 := pr[1]-pr[0], pr[3]-pr[2], pr[5]-pr[4]
	if w3 < w1 && w3 < w5 {
		return false
	}
	return true
}
