package scanner

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"wave-scanner/internal/analysis"
	"wave-scanner/internal/errors"
)

func TestWatcher_RunNowTracksTransitions(t *testing.T) {
	src := newMemorySource()
	// Correction with the last bar still at C: awaiting breakout.
	src.put("NICA", flatBars(46, 48, 50, 40, 30, 35, 40, 32, 25))
	src.put("NABIL", impulse())

	var got [][]Transition
	w := NewWatcher(context.Background(), New(src, 2, zerolog.Nop()), []string{"NICA", "NABIL", "GONE"}, testOptions(),
		func(_ []Report, transitions []Transition) {
			got = append(got, transitions)
		})

	first := w.RunNow()
	if len(first) != 3 {
		t.Fatalf("got %d reports, want 3", len(first))
	}
	if len(got) != 1 || len(got[0]) != 0 {
		t.Fatalf("first run transitions = %v, want none", got)
	}

	// The breakout bar arrives.
	src.put("NICA", correction())
	w.RunNow()

	if len(got) != 2 || len(got[1]) != 1 {
		t.Fatalf("second run transitions = %v, want one", got)
	}
	tr := got[1][0]
	if tr.Symbol != "NICA" || tr.From != analysis.StatusAwaitingBreakout || tr.To != analysis.StatusDirectional {
		t.Errorf("transition = %s", tr)
	}
}

func TestWatcher_Schedule(t *testing.T) {
	w := NewWatcher(context.Background(), New(newMemorySource(), 1, zerolog.Nop()), nil, testOptions(), nil)

	if err := w.Register("not a cron"); !errors.Is(err, errors.ErrConfigInvalid) {
		t.Errorf("bad spec err = %v, want ErrConfigInvalid", err)
	}
	if _, err := w.Next(); !errors.Is(err, errors.ErrSchedulerNotActive) {
		t.Errorf("Next before start: err = %v", err)
	}

	if err := w.Register("0 16 * * 1-5"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	w.Start()
	defer w.Stop()

	next, err := w.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if next.IsZero() || next.Hour() != 16 {
		t.Errorf("next run = %v, want a 16:00 slot", next)
	}
}
