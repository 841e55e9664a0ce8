package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/whiletrue-industries/yalla-negev-data/internal/config"
	"github.com/whiletrue-industries/yalla-negev-data/internal/exporter"
)

// defaultWatchInterval matches the original weekly export schedule.
const defaultWatchInterval = 7 * 24 * time.Hour

func newWatchCmd() *cobra.Command {
	var (
		interval  time.Duration
		keepLocal bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Export on a fixed interval",
		Long: `Run the export pipeline repeatedly on a fixed interval. The config file
is monitored and reloaded when it changes, so schedule-adjacent settings
(folder, locales, retention) take effect without a restart.

Stop with Ctrl-C; a second Ctrl-C forces an immediate exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, interval, keepLocal)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", defaultWatchInterval, "time between exports")
	cmd.Flags().BoolVar(&keepLocal, "keep-local", false, "keep local workbooks after upload")

	return cmd
}

func runWatch(cmd *cobra.Command, interval time.Duration, keepLocal bool) error {
	if interval < time.Minute {
		return fmt.Errorf("--interval must be at least one minute, got %s", interval)
	}

	cc := mustCLIContext(cmd.Context())
	ctx := shutdownContext(cmd.Context(), cc.Logger)

	cfgPath := config.EffectivePath(config.ReadEnvOverrides(), config.CLIOverrides{
		ConfigPath: cc.Flags.ConfigPath,
	})

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating config watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors and provisioning tools
	// replace config files by rename, which drops a file-level watch.
	if err := watcher.Add(filepath.Dir(cfgPath)); err != nil {
		cc.Logger.Warn("config directory not watchable, hot reload disabled",
			slog.String("path", cfgPath),
			slog.String("error", err.Error()),
		)
	}

	cc.Logger.Info("watch mode started",
		slog.Duration("interval", interval),
		slog.String("config", cfgPath),
	)

	opts := exporter.Options{KeepLocal: keepLocal}

	for {
		if res, err := runExportOnce(ctx, cc, opts); err != nil {
			if ctx.Err() != nil {
				return nil
			}

			// Watch mode keeps going after a failed run; the failure is
			// already in the history ledger.
			cc.Logger.Error("export run failed", slog.String("error", err.Error()))
		} else {
			cc.Logger.Info("export run finished",
				slog.String("run_id", res.RunID),
				slog.String("drive_file_id", res.DriveFileID),
			)
		}

		if done := waitForNextRun(ctx, cc, watcher, cfgPath, interval); done {
			return nil
		}
	}
}

// waitForNextRun blocks until the next scheduled export, handling config
// reloads in the meantime. Returns true when the context is canceled.
func waitForNextRun(ctx context.Context, cc *CLIContext, watcher *fsnotify.Watcher, cfgPath string, interval time.Duration) bool {
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return true
		case <-timer.C:
			return false
		case event := <-watcher.Events:
			if event.Name != cfgPath || !event.Op.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}

			reloadConfig(cc, cfgPath)
		case err := <-watcher.Errors:
			cc.Logger.Warn("config watcher error", slog.String("error", err.Error()))
		}
	}
}

// reloadConfig re-resolves configuration after the config file changed.
// A broken edit keeps the previous config running.
func reloadConfig(cc *CLIContext, cfgPath string) {
	cfg, err := config.Resolve(config.ReadEnvOverrides(), config.CLIOverrides{
		ConfigPath: cc.Flags.ConfigPath,
	})
	if err != nil {
		cc.Logger.Error("config reload failed, keeping previous config",
			slog.String("path", cfgPath),
			slog.String("error", err.Error()),
		)

		return
	}

	cc.Config = cfg
	cc.Logger = buildLogger(cfg, cc.Flags)
	cc.Logger.Info("config reloaded", slog.String("path", cfgPath))
}
