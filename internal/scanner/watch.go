package scanner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"wave-scanner/internal/analysis"
	"wave-scanner/internal/errors"
	"wave-scanner/internal/logging"
)

// Transition records a symbol whose projection status changed between runs.
type Transition struct {
	Symbol string                    `json:"symbol"`
	From   analysis.ProjectionStatus `json:"from"`
	To     analysis.ProjectionStatus `json:"to"`
}

// RunHandler receives each scheduled batch.
type RunHandler func(reports []Report, transitions []Transition)

// Watcher re-scans a fixed symbol list on a cron schedule.
type Watcher struct {
	cron    *cron.Cron
	entry   cron.EntryID
	scanner *Scanner
	symbols []string
	opts    Options
	handler RunHandler
	logger  zerolog.Logger
	ctx     context.Context

	mu       sync.Mutex
	running  bool
	statuses map[string]analysis.ProjectionStatus
}

// NewWatcher creates a watcher for symbols. Scheduled runs use ctx.
func NewWatcher(ctx context.Context, s *Scanner, symbols []string, opts Options, handler RunHandler) *Watcher {
	return &Watcher{
		cron:     cron.New(),
		scanner:  s,
		symbols:  symbols,
		opts:     opts,
		handler:  handler,
		logger:   logging.WithOperation(s.logger, "watch"),
		ctx:      ctx,
		statuses: make(map[string]analysis.ProjectionStatus),
	}
}

// Register schedules the batch scan with a standard 5-field cron spec.
func (w *Watcher) Register(spec string) error {
	id, err := w.cron.AddFunc(spec, func() { w.RunNow() })
	if err != nil {
		return errors.Wrapf(errors.ErrConfigInvalid, "cron spec %q: %v", spec, err)
	}
	w.entry = id
	return nil
}

// Start starts the cron scheduler.
func (w *Watcher) Start() {
	w.mu.Lock()
	w.running = true
	w.mu.Unlock()

	w.cron.Start()
	w.logger.Info().Int("symbols", len(w.symbols)).Msg("Watcher started")
}

// Stop stops the scheduler and waits for a running batch to finish.
func (w *Watcher) Stop() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	<-w.cron.Stop().Done()
	w.logger.Info().Msg("Watcher stopped")
}

// Next returns when the next batch is due.
func (w *Watcher) Next() (time.Time, error) {
	w.mu.Lock()
	running := w.running
	w.mu.Unlock()

	if !running || w.entry == 0 {
		return time.Time{}, errors.ErrSchedulerNotActive
	}
	return w.cron.Entry(w.entry).Next, nil
}

// RunNow runs one batch immediately and passes it to the handler.
func (w *Watcher) RunNow() []Report {
	start := time.Now()
	reports, err := w.scanner.ScanAll(w.ctx, w.symbols, w.opts)
	if err != nil {
		w.logger.Error().Err(err).Msg("Scheduled scan aborted")
		return nil
	}

	failed := 0
	for _, r := range reports {
		if r.Failed() {
			failed++
		}
	}
	logging.LogWatchRun(w.logger, len(reports), failed, time.Since(start))

	transitions := w.track(reports)
	for _, t := range transitions {
		w.logger.Info().
			Str("symbol", t.Symbol).
			Str("from", string(t.From)).
			Str("to", string(t.To)).
			Msg("Status changed")
	}

	if w.handler != nil {
		w.handler(reports, transitions)
	}
	return reports
}

// track records the latest status per symbol and returns what changed since
// the previous run. The first sighting of a symbol is not a transition.
func (w *Watcher) track(reports []Report) []Transition {
	w.mu.Lock()
	defer w.mu.Unlock()

	var out []Transition
	for _, r := range reports {
		if r.Failed() {
			continue
		}
		status := r.Status()
		prev, seen := w.statuses[r.Symbol]
		w.statuses[r.Symbol] = status
		if seen && prev != status {
			out = append(out, Transition{Symbol: r.Symbol, From: prev, To: status})
		}
	}
	return out
}

func (t Transition) String() string {
	return fmt.Sprintf("%s: %s -> %s", t.Symbol, t.From, t.To)
}
