package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/whiletrue-industries/yalla-negev-data/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

// RootFlags holds the global persistent flags.
type RootFlags struct {
	ConfigPath string
	JSON       bool
	Verbose    bool
	Quiet      bool
}

// CLIContext carries the resolved configuration and logger to subcommands
// via the command context.
type CLIContext struct {
	Flags  RootFlags
	Config *config.Config
	Logger *slog.Logger
}

type ctxKey int

const cliContextKey ctxKey = 0

// mustCLIContext retrieves the CLIContext installed by the root pre-run.
// Panics on absence, which would be a wiring bug, not a user error.
func mustCLIContext(ctx context.Context) *CLIContext {
	cc, ok := ctx.Value(cliContextKey).(*CLIContext)
	if !ok {
		panic("CLIContext missing from command context")
	}

	return cc
}

// newRootCmd builds and returns the fully-assembled root command with all
// subcommands registered. Called once from main().
func newRootCmd() *cobra.Command {
	var flags RootFlags

	cmd := &cobra.Command{
		Use:     "yalladata",
		Short:   "Yalla Negev survey data exporter",
		Long:    "Exports Yalla Negev survey data from Firestore to an Excel workbook and uploads it to Google Drive.",
		Version: version,
		// Silence Cobra's default error/usage printing — we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Resolve(config.ReadEnvOverrides(), config.CLIOverrides{
				ConfigPath: flags.ConfigPath,
			})
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cc := &CLIContext{
				Flags:  flags,
				Config: cfg,
				Logger: buildLogger(cfg, flags),
			}

			cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey, cc))

			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "config file path")
	cmd.PersistentFlags().BoolVar(&flags.JSON, "json", false, "output in JSON format")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "suppress informational output")

	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newSurveysCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newWatchCmd())

	return cmd
}

// buildLogger creates an slog.Logger configured by the resolved config and
// CLI flags. Config-file log level provides the baseline; --verbose and
// --quiet override it because CLI flags always win.
func buildLogger(cfg *config.Config, flags RootFlags) *slog.Logger {
	level := slog.LevelInfo

	switch cfg.Logging.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	if flags.Verbose {
		level = slog.LevelDebug
	}

	if flags.Quiet {
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Logging.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}

	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
