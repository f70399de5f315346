// Package scanner runs the wave analysis over stored symbols, one at a time
// or as a bounded parallel batch, and on a cron schedule.
package scanner

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"wave-scanner/internal/analysis"
	"wave-scanner/internal/analysis/elliott"
	"wave-scanner/internal/errors"
	"wave-scanner/internal/feed"
	"wave-scanner/internal/logging"
	"wave-scanner/internal/models"
)

// SeriesProvider loads the stored series for a symbol.
type SeriesProvider interface {
	GetSeries(ctx context.Context, symbol string) (models.Series, error)
}

// SyncRecorder remembers when a symbol was last scanned.
type SyncRecorder interface {
	SetLastSync(key string, t time.Time) error
}

// Options controls one scan.
type Options struct {
	Analysis elliott.Config
	Lookback feed.Lookback
}

// DefaultOptions returns auto-mode options with the default lookback.
func DefaultOptions() Options {
	cfg := elliott.DefaultConfig()
	return Options{
		Analysis: cfg,
		Lookback: feed.ForMode(cfg.Mode, 500, 6),
	}
}

// Report is the outcome of scanning one symbol.
type Report struct {
	Symbol   string          `json:"symbol"`
	Result   *elliott.Result `json:"result,omitempty"`
	Err      error           `json:"-"`
	Error    string          `json:"error,omitempty"`
	Duration time.Duration   `json:"duration"`
}

// Failed reports whether the scan returned an error.
func (r Report) Failed() bool {
	return r.Err != nil
}

// Status returns the projection status, or no_pattern for a failed scan.
func (r Report) Status() analysis.ProjectionStatus {
	if r.Result == nil {
		return analysis.StatusNoPattern
	}
	return r.Result.Projection.Status
}

// Scanner runs analyses against a SeriesProvider.
type Scanner struct {
	source   SeriesProvider
	recorder SyncRecorder
	workers  int
	logger   zerolog.Logger
}

// New creates a scanner that runs at most workers scans at once.
func New(source SeriesProvider, workers int, logger zerolog.Logger) *Scanner {
	if workers <= 0 {
		workers = 4
	}
	return &Scanner{
		source:  source,
		workers: workers,
		logger:  logger,
	}
}

// WithRecorder makes the scanner record successful scans as "scan:<SYMBOL>".
func (s *Scanner) WithRecorder(r SyncRecorder) *Scanner {
	s.recorder = r
	return s
}

// ScanSeries analyses an in-memory series.
func (s *Scanner) ScanSeries(series models.Series, opts Options) Report {
	start := time.Now()
	series.Candles = opts.Lookback.Apply(series.Candles)

	res, err := elliott.AnalyzeSeries(series, opts.Analysis)
	report := Report{Symbol: series.Symbol, Result: res, Duration: time.Since(start)}
	if err != nil {
		report.Err = err
		report.Error = err.Error()
		s.logger.Warn().Err(err).Str("symbol", series.Symbol).Msg("Scan failed")
		return report
	}

	logging.LogScan(s.logger, series.Symbol, string(res.Selection.Mode), string(res.Projection.Status),
		string(res.Projection.Signal), res.Bars, report.Duration)
	return report
}

// ScanSymbol loads symbol from the provider and analyses it.
func (s *Scanner) ScanSymbol(ctx context.Context, symbol string, opts Options) Report {
	series, err := s.source.GetSeries(ctx, symbol)
	if err != nil {
		err = errors.NewScanError(symbol, err)
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Series load failed")
		return Report{Symbol: symbol, Err: err, Error: err.Error()}
	}
	if series.Symbol == "" {
		series.Symbol = symbol
	}

	report := s.ScanSeries(series, opts)
	if report.Err == nil && s.recorder != nil {
		if err := s.recorder.SetLastSync("scan:"+series.Symbol, time.Now()); err != nil {
			s.logger.Warn().Err(err).Str("symbol", series.Symbol).Msg("Failed to record scan time")
		}
	}
	return report
}

// ScanAll scans symbols concurrently and returns one report per symbol,
// sorted by symbol. A failing symbol is reported in its Report; only
// cancellation of ctx aborts the batch.
func (s *Scanner) ScanAll(ctx context.Context, symbols []string, opts Options) ([]Report, error) {
	if len(symbols) == 0 {
		return nil, nil
	}
	if err := opts.Analysis.Validate(); err != nil {
		return nil, err
	}

	p := pool.NewWithResults[Report]().
		WithContext(ctx).
		WithMaxGoroutines(s.workers)

	for _, symbol := range symbols {
		symbol := symbol
		p.Go(func(ctx context.Context) (Report, error) {
			if err := ctx.Err(); err != nil {
				return Report{}, err
			}
			return s.ScanSymbol(ctx, symbol, opts), nil
		})
	}

	reports, err := p.Wait()
	if err != nil {
		return nil, err
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Symbol < reports[j].Symbol
	})
	return reports, nil
}
