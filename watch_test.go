package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whiletrue-industries/yalla-negev-data/internal/config"
)

func testCLIContext(t *testing.T) *CLIContext {
	t.Helper()

	return &CLIContext{
		Flags:  RootFlags{Quiet: true},
		Config: config.DefaultConfig(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestRunWatch_RejectsShortInterval(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	err := runWatch(cmd, 30*time.Second, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one minute")
}

func TestWaitForNextRun_ContextCancel(t *testing.T) {
	t.Parallel()

	cc := testCLIContext(t)

	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer watcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := waitForNextRun(ctx, cc, watcher, "/nonexistent/config.toml", time.Hour)
	assert.True(t, done)
}

func TestWaitForNextRun_IntervalElapsed(t *testing.T) {
	t.Parallel()

	cc := testCLIContext(t)

	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer watcher.Close()

	done := waitForNextRun(context.Background(), cc, watcher, "/nonexistent/config.toml", 10*time.Millisecond)
	assert.False(t, done)
}

func TestReloadConfig_KeepsPreviousOnBrokenFile(t *testing.T) {
	clearEnvOverrides(t)

	cfgPath := writeTestConfig(t, "")
	cc := testCLIContext(t)
	cc.Flags.ConfigPath = cfgPath

	reloadConfig(cc, cfgPath)
	assert.Equal(t, "folder-test", cc.Config.Drive.FolderID)

	require.NoError(t, os.WriteFile(cfgPath, []byte("[broken"), 0o600))

	reloadConfig(cc, cfgPath)
	assert.Equal(t, "folder-test", cc.Config.Drive.FolderID)
}
