package cli

import (
	"github.com/spf13/cobra"

	"wave-scanner/internal/errors"
	"wave-scanner/internal/scanner"
)

func addWatchCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newWatchCmd(app))
}

func newWatchCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [symbol...]",
		Short: "Re-scan symbols on a schedule",
		Long: `Re-scan symbols on a cron schedule and report status changes, such as
a correction moving from awaiting breakout to a directional signal.

Symbols default to [watch].symbols, then [data].default_symbols, then
every stored symbol.`,
		Example: `  wavescan watch
  wavescan watch NABIL NICA --cron "*/15 11-15 * * 0-4"
  wavescan watch --once`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			opts, err := app.scanOptions(cmd)
			if err != nil {
				return err
			}

			symbols, err := app.watchSymbols(cmd, args)
			if err != nil {
				return err
			}

			sc, err := app.scanner()
			if err != nil {
				return err
			}

			watcher := scanner.NewWatcher(cmd.Context(), sc, symbols, opts,
				func(reports []scanner.Report, transitions []scanner.Transition) {
					renderWatchRun(output, reports, transitions)
				})

			// First batch runs immediately so there is a baseline to compare against.
			watcher.RunNow()

			if once, _ := cmd.Flags().GetBool("once"); once {
				return nil
			}

			spec, _ := cmd.Flags().GetString("cron")
			if spec == "" {
				spec = app.Config.Watch.Cron
			}
			if err := watcher.Register(spec); err != nil {
				return err
			}
			watcher.Start()
			defer watcher.Stop()

			if next, err := watcher.Next(); err == nil && !output.IsJSON() {
				output.Dim("Next scan at %s (Ctrl+C to stop)", next.Format("2006-01-02 15:04"))
			}

			<-cmd.Context().Done()
			return nil
		},
	}

	cmd.Flags().Int("sensitivity", 0, "swing window half-width in bars (default from config)")
	cmd.Flags().String("mode", "", "motive, correction or auto (default from config)")
	cmd.Flags().Int("bars", 0, "analyse at most this many trailing bars")
	cmd.Flags().Int("months", 0, "analyse bars within this many months of the last bar")
	cmd.Flags().String("cron", "", "cron schedule (default from config)")
	cmd.Flags().Bool("once", false, "run a single batch and exit")

	return cmd
}

func (a *App) watchSymbols(cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) > 0 {
		return dedupeSymbols(args), nil
	}
	if symbols := a.Config.WatchSymbols(); len(symbols) > 0 {
		return dedupeSymbols(symbols), nil
	}

	st, err := a.store()
	if err != nil {
		return nil, err
	}
	summaries, err := st.ListSymbols(cmd.Context())
	if err != nil {
		return nil, err
	}
	symbols := make([]string, 0, len(summaries))
	for _, s := range summaries {
		symbols = append(symbols, s.Symbol)
	}
	if len(symbols) == 0 {
		return nil, errors.Wrap(errors.ErrDataNotFound, "nothing to watch; import data or set [watch].symbols")
	}
	return symbols, nil
}

type watchRun struct {
	Reports     []scanner.Report     `json:"reports"`
	Transitions []scanner.Transition `json:"transitions"`
}

func renderWatchRun(output *Output, reports []scanner.Report, transitions []scanner.Transition) {
	if output.IsJSON() {
		output.JSON(watchRun{Reports: reports, Transitions: transitions})
		return
	}

	renderReports(output, reports)
	for _, t := range transitions {
		output.Info("↻ %s: %s → %s", t.Symbol, t.From, t.To)
	}
	output.Println()
}
