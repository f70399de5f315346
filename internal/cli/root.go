// Package cli provides the command-line interface for the wave scanner.
package cli

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"wave-scanner/internal/config"
	"wave-scanner/internal/logging"
	"wave-scanner/internal/scanner"
	"wave-scanner/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-06-01"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  store.CandleStore

	// OpenStore opens the candle store on first use.
	OpenStore func(dbPath string) (store.CandleStore, error)
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
		OpenStore: func(dbPath string) (store.CandleStore, error) {
			return store.NewSQLiteStore(dbPath)
		},
	}
	if cfg.UI.DateFormat != "" {
		DateLayout = cfg.UI.DateFormat
	}

	rootCmd := &cobra.Command{
		Use:   "wavescan",
		Short: "Elliott wave scanner for daily price series",
		Long: `wavescan finds Elliott wave structures in daily OHLCV data.

It detects alternating swing highs and lows, matches 5-wave motive and
A-B-C corrective patterns, and projects Fibonacci targets from the most
recent one.

Import data with 'wavescan data import', then run 'wavescan scan <symbol>'.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.Close()
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/wave-scanner)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("no-color", !cfg.UI.ColorEnabled, "disable colored output (default from ui.color_enabled)")

	addCoreCommands(rootCmd, app)
	addScanCommands(rootCmd, app)
	addDataCommands(rootCmd, app)
	addWatchCommands(rootCmd, app)

	return rootCmd
}

// ConfigDirFromArgs finds a --config value in raw arguments so the config
// can be loaded before the command tree is built.
func ConfigDirFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if v, ok := strings.CutPrefix(arg, "--config="); ok {
			return v
		}
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// store returns the candle store, opening it on first use.
func (a *App) store() (store.CandleStore, error) {
	if a.Store != nil {
		return a.Store, nil
	}
	s, err := a.OpenStore(a.Config.Data.DBPath)
	if err != nil {
		return nil, err
	}
	a.Logger.Debug().Str("path", a.Config.Data.DBPath).Msg("SQLite store opened")
	a.Store = s
	return s, nil
}

// scanner builds a scanner over the candle store.
func (a *App) scanner() (*scanner.Scanner, error) {
	s, err := a.store()
	if err != nil {
		return nil, err
	}
	return scanner.New(s, a.Config.Analysis.Workers, a.Logger).WithRecorder(s), nil
}

// Close releases the store if it was opened.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	err := a.Store.Close()
	a.Store = nil
	return err
}

func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("wavescan v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			path := config.TemplatePath(app.Config.Dir)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": path})
			} else {
				output.Println(path)
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"valid": true})
			}
			output.Success("✓ Configuration is valid")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Analysis")
	output.Printf("  Sensitivity:     %d\n", cfg.Analysis.Sensitivity)
	output.Printf("  Scan Mode:       %s\n", cfg.ScanMode())
	output.Printf("  Lookback Bars:   %d\n", cfg.Analysis.LookbackBars)
	output.Printf("  Auto Lookback:   %d months\n", cfg.Analysis.AutoLookbackMonths)
	output.Printf("  Workers:         %d\n", cfg.Analysis.Workers)
	output.Println()

	output.Bold("Data")
	output.Printf("  Database:        %s\n", cfg.Data.DBPath)
	output.Printf("  Default Symbols: %s\n", joinOrDash(cfg.Data.DefaultSymbols))
	output.Println()

	output.Bold("Watch")
	output.Printf("  Schedule:        %s\n", cfg.Watch.Cron)
	output.Printf("  Symbols:         %s\n", joinOrDash(cfg.WatchSymbols()))
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:           %s\n", cfg.Logging.Level)
	output.Printf("  File:            %v\n", cfg.Logging.File)
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
