package elliott

import (
	"wave-scanner/internal/analysis"
)

// Selection is the resolved pattern family and its matches.
type Selection struct {
	Mode     analysis.WaveMode      `json:"mode"`
	Patterns []analysis.WavePattern `json:"patterns,omitempty"`
}

// Latest returns the most recent pattern in scan order, or nil.
func (s Selection) Latest() analysis.WavePattern {
	if len(s.Patterns) == 0 {
		return nil
	}
	return s.Patterns[len(s.Patterns)-1]
}

// SelectMode resolves the requested scan mode against both matchers'
// output. In auto mode the family whose last match ends strictly later wins;
// no matches or a tie resolve to ModeNone.
func SelectMode(motives []analysis.MotivePattern, corrections []analysis.CorrectivePattern, mode analysis.ScanMode) Selection {
	switch mode {
	case analysis.ScanMotive:
		return Selection{Mode: analysis.ModeMotive, Patterns: motivePatterns(motives)}
	case analysis.ScanCorrection:
		return Selection{Mode: analysis.ModeCorrection, Patterns: correctivePatterns(corrections)}
	}

	if len(motives) == 0 && len(corrections) == 0 {
		return Selection{Mode: analysis.ModeNone}
	}
	if len(corrections) == 0 {
		return Selection{Mode: analysis.ModeMotive, Patterns: motivePatterns(motives)}
	}
	if len(motives) == 0 {
		return Selection{Mode: analysis.ModeCorrection, Patterns: correctivePatterns(corrections)}
	}

	lastMotive := motives[len(motives)-1].Terminal().Date
	lastCorrection := corrections[len(corrections)-1].Terminal().Date
	switch {
	case lastMotive.After(lastCorrection):
		return Selection{Mode: analysis.ModeMotive, Patterns: motivePatterns(motives)}
	case lastCorrection.After(lastMotive):
		return Selection{Mode: analysis.ModeCorrection, Patterns: correctivePatterns(corrections)}
	}
	return Selection{Mode: analysis.ModeNone}
}

func motivePatterns(in []analysis.MotivePattern) []analysis.WavePattern {
	if len(in) == 0 {
		return nil
	}
	out := make([]analysis.WavePattern, len(in))
	for i, p := range in {
		out[i] = p
	}
	return out
}

func correctivePatterns(in []analysis.CorrectivePattern) []analysis.WavePattern {
	if len(in) == 0 {
		return nil
	}
	out := make([]analysis.WavePattern, len(in))
	for i, p := range in {
		out[i] = p
	}
	return out
}
