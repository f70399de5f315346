package patterns

import (
	"wave-scanner/internal/analysis"
)

const correctiveLen = 4

// FindABCCorrections returns every 4-swing window, starting on a swing high,
// that forms an A-B-C decline. All matches are returned in scan order.
func FindABCCorrections(swings []analysis.Swing) []analysis.CorrectivePattern {
	var waves []analysis.CorrectivePattern
	for i := 0; i+correctiveLen <= len(swings); i++ {
		if swings[i].Kind != analysis.SwingHigh {
			continue
		}
		var p analysis.CorrectivePattern
		copy(p.Points[:], swings[i:i+correctiveLen])
		if IsCorrection(p) {
			waves = append(waves, p)
		}
	}
	return waves
}

// IsCorrection checks that A drops below the origin, B retraces part but not
// all of A, and C makes a new low below A.
func IsCorrection(p analysis.CorrectivePattern) bool {
	origin, a, b, c := p.Points[0].Price, p.Points[1].Price, p.Points[2].Price, p.Points[3].Price
	if a >= origin {
		return false
	}
	if b <= a || b >= origin {
		return false
	}
	return c < a
}
