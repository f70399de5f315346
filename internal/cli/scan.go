package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"wave-scanner/internal/analysis"
	"wave-scanner/internal/analysis/elliott"
	"wave-scanner/internal/errors"
	"wave-scanner/internal/feed"
	"wave-scanner/internal/models"
	"wave-scanner/internal/scanner"
)

func addScanCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newScanCmd(app))
}

func newScanCmd(app *App) *cobra.Command {
	var (
		files []string
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "scan [symbol...]",
		Short: "Scan symbols for Elliott wave patterns",
		Long: `Scan one or more stored symbols, or files given with --file, for the
latest motive (1-2-3-4-5) or corrective (A-B-C) structure and project
Fibonacci targets from it.

Modes:
  motive      report only 5-wave impulses
  correction  report only A-B-C corrections
  auto        report whichever family ends most recently`,
		Example: `  wavescan scan NABIL
  wavescan scan NABIL NICA --mode correction --sensitivity 3
  wavescan scan --file Stock_Data/NABIL.csv
  wavescan scan --all --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			opts, err := app.scanOptions(cmd)
			if err != nil {
				return err
			}

			var reports []scanner.Report
			switch {
			case len(files) > 0:
				reports, err = app.scanFiles(files, opts)
			case all || len(args) > 0:
				reports, err = app.scanStored(cmd, args, all, opts)
			default:
				return errors.NewValidationError("symbol", "", "give at least one symbol, --file or --all")
			}
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(reports)
			}
			renderReports(output, reports)
			return nil
		},
	}

	cmd.Flags().Int("sensitivity", 0, "swing window half-width in bars (default from config)")
	cmd.Flags().String("mode", "", "motive, correction or auto (default from config)")
	cmd.Flags().Int("bars", 0, "analyse at most this many trailing bars")
	cmd.Flags().Int("months", 0, "analyse bars within this many months of the last bar")
	cmd.Flags().StringSliceVar(&files, "file", nil, "scan a CSV or TradingView JSON file instead of the store")
	cmd.Flags().BoolVar(&all, "all", false, "scan every stored symbol")

	return cmd
}

// scanOptions merges command flags over the configured defaults.
func (a *App) scanOptions(cmd *cobra.Command) (scanner.Options, error) {
	cfg := elliott.Config{
		Sensitivity: a.Config.Analysis.Sensitivity,
		Mode:        a.Config.ScanMode(),
	}

	if cmd.Flags().Changed("sensitivity") {
		cfg.Sensitivity, _ = cmd.Flags().GetInt("sensitivity")
	}
	if cmd.Flags().Changed("mode") {
		raw, _ := cmd.Flags().GetString("mode")
		mode, ok := analysis.ParseScanMode(strings.ToLower(raw))
		if !ok {
			return scanner.Options{}, errors.NewValidationError("mode", raw, "must be motive, correction or auto")
		}
		cfg.Mode = mode
	}
	if err := cfg.Validate(); err != nil {
		return scanner.Options{}, err
	}

	lookback := feed.ForMode(cfg.Mode, a.Config.Analysis.LookbackBars, a.Config.Analysis.AutoLookbackMonths)
	barsSet, monthsSet := cmd.Flags().Changed("bars"), cmd.Flags().Changed("months")
	if barsSet || monthsSet {
		lookback = feed.Lookback{}
		if barsSet {
			lookback.Bars, _ = cmd.Flags().GetInt("bars")
		}
		if monthsSet {
			lookback.Months, _ = cmd.Flags().GetInt("months")
		}
		if lookback.Bars < 0 || lookback.Months < 0 {
			return scanner.Options{}, errors.NewValidationError("lookback", lookback, "must be non-negative")
		}
	}

	return scanner.Options{Analysis: cfg, Lookback: lookback}, nil
}

func (a *App) scanFiles(files []string, opts scanner.Options) ([]scanner.Report, error) {
	s := scanner.New(nil, a.Config.Analysis.Workers, a.Logger)

	reports := make([]scanner.Report, 0, len(files))
	for _, path := range files {
		candles, dropped, err := feed.LoadFile(path)
		if err != nil {
			return nil, err
		}
		series := models.Series{
			Symbol:    feed.SymbolFromPath(path),
			Timeframe: models.TimeframeDaily,
			Candles:   candles,
		}
		report := s.ScanSeries(series, opts)
		if report.Result != nil {
			report.Result.Dropped += dropped
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (a *App) scanStored(cmd *cobra.Command, symbols []string, all bool, opts scanner.Options) ([]scanner.Report, error) {
	st, err := a.store()
	if err != nil {
		return nil, err
	}
	if all {
		summaries, err := st.ListSymbols(cmd.Context())
		if err != nil {
			return nil, err
		}
		if len(summaries) == 0 && len(symbols) == 0 {
			return nil, errors.Wrap(errors.ErrDataNotFound, "no stored symbols; run 'wavescan data import' first")
		}
		for _, sum := range summaries {
			symbols = append(symbols, sum.Symbol)
		}
	}

	sc, err := a.scanner()
	if err != nil {
		return nil, err
	}
	return sc.ScanAll(cmd.Context(), dedupeSymbols(symbols), opts)
}

func dedupeSymbols(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func renderReports(output *Output, reports []scanner.Report) {
	if len(reports) == 1 {
		renderReport(output, reports[0])
		return
	}

	table := NewTable(output, "SYMBOL", "MODE", "STATUS", "SIGNAL", "TARGET", "INVALIDATION", "LAST")
	failed := 0
	var slowest time.Duration
	for _, r := range reports {
		if r.Duration > slowest {
			slowest = r.Duration
		}
		if r.Failed() {
			failed++
			table.AddRow(r.Symbol, "-", output.Red("error"), "-", "-", "-", "-")
			continue
		}
		res := r.Result
		p := res.Projection
		target, invalidation, last := "-", "-", "-"
		if p.HasTargets() {
			target = FormatPrice(p.Targets[0].Price)
		}
		if p.Invalidation != 0 {
			invalidation = FormatPrice(p.Invalidation)
		}
		if res.Latest != nil {
			last = FormatPrice(res.Latest.Close)
		}
		table.AddRow(r.Symbol, string(res.Selection.Mode), output.Status(p.Status), output.Signal(p.Signal),
			target, invalidation, last)
	}
	table.Render()
	output.Dim("%d symbols, slowest scan %s", len(reports), FormatDuration(slowest))

	if failed > 0 {
		output.Println()
		for _, r := range reports {
			if r.Failed() {
				output.Error("%s: %v", r.Symbol, r.Err)
			}
		}
	}
}

func renderReport(output *Output, r scanner.Report) {
	if r.Failed() {
		output.Error("%s: %v", r.Symbol, r.Err)
		return
	}
	res := r.Result
	if res.Dropped > 0 {
		output.Warning("%s: skipped %d malformed bars", r.Symbol, res.Dropped)
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("Bars:       %d (dropped %d)  sensitivity %d, mode %s",
		res.Bars, res.Dropped, res.Config.Sensitivity, res.Config.Mode))
	if res.Latest != nil {
		lines = append(lines, fmt.Sprintf("Last bar:   %s  close %s", FormatDate(res.Latest.Timestamp), FormatPrice(res.Latest.Close)))
	}
	lines = append(lines, fmt.Sprintf("Swings:     %d   motive waves: %d   A-B-C corrections: %d",
		len(res.Swings), len(res.Motives), len(res.Corrections)))

	switch res.Outcome {
	case elliott.OutcomeInsufficientData:
		lines = append(lines, output.Yellow(fmt.Sprintf("Not enough data: need at least %d clean bars", res.Config.MinBars())))
		output.Box(r.Symbol, lines)
		return
	case elliott.OutcomeNoPattern:
		lines = append(lines, output.DimText("No valid pattern found"))
		output.Box(r.Symbol, lines)
		return
	}

	lines = append(lines, "", output.BoldText(fmt.Sprintf("Active %s pattern", res.Selection.Mode)))
	labels := res.Active.Labels()
	for i, s := range res.Active.Swings() {
		point := fmt.Sprintf("  %-2s %-4s %12s  %s", labels[i], s.Kind, FormatPrice(s.Price), FormatDate(s.Date))
		if s.Provisional {
			point += output.DimText("  (provisional)")
		}
		lines = append(lines, point)
	}

	p := res.Projection
	lines = append(lines, "",
		fmt.Sprintf("Direction:  %s", output.Direction(p.Direction)),
		fmt.Sprintf("Status:     %s", output.Status(p.Status)),
		fmt.Sprintf("Signal:     %s", output.Signal(p.Signal)),
	)
	for _, lvl := range p.Targets {
		lines = append(lines, fmt.Sprintf("Target:     %s  (%s, %s)", FormatPrice(lvl.Price), lvl.Label, FormatRatio(lvl.Ratio)))
	}
	if p.Invalidation != 0 {
		lines = append(lines, fmt.Sprintf("Invalidate: %s", FormatPrice(p.Invalidation)))
	}
	if p.LiveLeg != nil {
		lines = append(lines, fmt.Sprintf("Live leg:   %s → %s  %s",
			FormatDate(p.LiveLeg.FromDate), FormatDate(p.LiveLeg.ToDate), FormatChange(p.LiveLeg.FromPrice, p.LiveLeg.ToPrice)))
	}
	if p.Degenerate {
		lines = append(lines, output.Yellow("Pattern span is zero; no targets projected"))
	}
	if p.Provisional {
		lines = append(lines, output.DimText("Last swing is still forming and may move"))
	}

	output.Box(r.Symbol, lines)
}
