package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"wave-scanner/internal/errors"
	"wave-scanner/internal/feed"
	"wave-scanner/internal/logging"
	"wave-scanner/internal/models"
	"wave-scanner/internal/store"
)

func addDataCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Manage stored price series",
		Long:  "Import, list, export and delete the daily series kept in the local SQLite store.",
	}

	cmd.AddCommand(newDataImportCmd(app))
	cmd.AddCommand(newDataListCmd(app))
	cmd.AddCommand(newDataExportCmd(app))
	cmd.AddCommand(newDataDeleteCmd(app))

	rootCmd.AddCommand(cmd)
}

// importResult is what one imported file produced.
type importResult struct {
	Symbol  string `json:"symbol"`
	File    string `json:"file"`
	Rows    int    `json:"rows"`
	New     int    `json:"new"`
	Dropped int    `json:"dropped"`
}

func newDataImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file...>",
		Short: "Import CSV or TradingView JSON files",
		Long: `Import daily bars from CSV (Date,Open,High,Low,Close,Volume) or
TradingView history JSON files. The symbol defaults to the file name.
Bars for dates already stored are replaced.`,
		Example: `  wavescan data import Stock_Data/NABIL.csv
  wavescan data import export.json --symbol NICA
  wavescan data import Stock_Data/*.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			symbol, _ := cmd.Flags().GetString("symbol")
			if symbol != "" && len(args) > 1 {
				return errors.NewValidationError("symbol", symbol, "--symbol can only be used with a single file")
			}

			st, err := app.store()
			if err != nil {
				return err
			}

			var results []importResult
			for _, path := range args {
				sym := symbol
				if sym == "" {
					sym = feed.SymbolFromPath(path)
				}
				res, err := importFile(cmd, app, st, store.NormalizeSymbol(sym), path)
				if err != nil {
					return err
				}
				results = append(results, res)
				if !output.IsJSON() {
					output.Success("✓ %s: %d bars from %s (%d new)", res.Symbol, res.Rows, res.File, res.New)
					if res.Dropped > 0 {
						output.Warning("  skipped %d malformed rows", res.Dropped)
					}
				}
			}

			if output.IsJSON() {
				return output.JSON(results)
			}
			return nil
		},
	}

	cmd.Flags().StringP("symbol", "s", "", "symbol to store the series under (default: file name)")

	return cmd
}

func importFile(cmd *cobra.Command, app *App, st store.CandleStore, symbol, path string) (importResult, error) {
	logger := logging.WithOperation(app.Logger, "import")

	candles, dropped, err := feed.LoadFile(path)
	if err == nil && len(candles) == 0 {
		err = errors.NewDataError("file", symbol, "no valid rows found in "+path, errors.ErrDataNotFound)
	}
	var latest time.Time
	if err == nil {
		latest, err = st.GetCandlesFreshness(cmd.Context(), symbol, models.TimeframeDaily)
	}
	if err == nil {
		err = st.SaveCandles(cmd.Context(), symbol, models.TimeframeDaily, candles)
	}
	logging.LogImport(logger, symbol, path, len(candles), dropped, err)
	if err != nil {
		return importResult{}, err
	}

	res := importResult{Symbol: symbol, File: path, Rows: len(candles), Dropped: dropped}
	for _, c := range candles {
		if c.Timestamp.After(latest) {
			res.New++
		}
	}
	return res, nil
}

func newDataListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored symbols",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			st, err := app.store()
			if err != nil {
				return err
			}

			summaries, err := st.ListSymbols(cmd.Context())
			if err != nil {
				return err
			}

			if output.IsJSON() {
				if summaries == nil {
					summaries = []models.SymbolSummary{}
				}
				return output.JSON(summaries)
			}
			if len(summaries) == 0 {
				output.Info("No stored symbols. Import data with 'wavescan data import <file>'.")
				return nil
			}

			table := NewTable(output, "SYMBOL", "BARS", "FIRST", "LAST", "LAST SCAN")
			for _, s := range summaries {
				scanned := "-"
				if t := st.GetLastSync("scan:" + s.Symbol); !t.IsZero() {
					scanned = t.Local().Format("2006-01-02 15:04")
				}
				table.AddRow(s.Symbol, fmt.Sprint(s.Bars), FormatDate(s.FirstDate), FormatDate(s.LastDate), scanned)
			}
			table.Render()
			return nil
		},
	}
}

func newDataExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <symbol>",
		Short: "Export a stored series as CSV",
		Example: `  wavescan data export NABIL > nabil.csv
  wavescan data export NABIL --output nabil.csv
  wavescan data export NABIL --from 2024-01-01 --to 2024-06-30`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, ranged, err := exportRange(cmd)
			if err != nil {
				return err
			}

			st, err := app.store()
			if err != nil {
				return err
			}

			var candles []models.Candle
			if ranged {
				candles, err = st.GetCandles(cmd.Context(), args[0], models.TimeframeDaily, from, to)
				if err == nil && len(candles) == 0 {
					err = errors.NewDataError("series", store.NormalizeSymbol(args[0]), "no stored bars in range", errors.ErrDataNotFound)
				}
			} else {
				var series models.Series
				series, err = st.GetSeries(cmd.Context(), args[0])
				candles = series.Candles
			}
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if path, _ := cmd.Flags().GetString("output"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return errors.Wrapf(err, "creating %s", path)
				}
				defer f.Close()
				w = f
			}
			return feed.WriteCSV(w, candles)
		},
	}

	cmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
	cmd.Flags().String("from", "", "first date to export (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "last date to export (YYYY-MM-DD)")

	return cmd
}

// exportRange reads --from/--to. Both ends are inclusive whole days; a
// missing end is open.
func exportRange(cmd *cobra.Command) (from, to time.Time, ranged bool, err error) {
	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")
	if fromStr == "" && toStr == "" {
		return from, to, false, nil
	}

	to = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	if fromStr != "" {
		if from, err = time.Parse("2006-01-02", fromStr); err != nil {
			return from, to, false, errors.NewValidationError("from", fromStr, "expected YYYY-MM-DD")
		}
	}
	if toStr != "" {
		day, perr := time.Parse("2006-01-02", toStr)
		if perr != nil {
			return from, to, false, errors.NewValidationError("to", toStr, "expected YYYY-MM-DD")
		}
		to = day.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if to.Before(from) {
		return from, to, false, errors.NewValidationError("to", toStr, "must not be before --from")
	}
	return from, to, true, nil
}

func newDataDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <symbol>",
		Short: "Delete a stored series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			st, err := app.store()
			if err != nil {
				return err
			}

			n, err := st.DeleteSymbol(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			symbol := store.NormalizeSymbol(args[0])
			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"symbol": symbol, "deleted": n})
			}
			output.Success("✓ Deleted %d bars for %s", n, symbol)
			return nil
		},
	}
}
