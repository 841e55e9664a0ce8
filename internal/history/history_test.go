package history

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger returns a debug-level logger that writes to t.Log.
func testLogger(t *testing.T) *slog.Logger {
	t.Helper()

	return slog.New(slog.NewTextHandler(&testLogWriter{t: t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testLogWriter struct {
	t *testing.T
}

func (w *testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))

	return len(p), nil
}

// newTestStore creates a Store backed by a temp directory.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "history.db"), testLogger(t))
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, s.Close())
	})

	return s
}

// sampleRun builds a successful run that started at the given time.
func sampleRun(runID string, started time.Time) Run {
	return Run{
		RunID:            runID,
		StartedAt:        started,
		FinishedAt:       started.Add(2 * time.Minute),
		Status:           StatusOK,
		Workbook:         "yallanegev-2024-03-15.xlsx",
		DriveFileID:      "file-1",
		SurveyCount:      3,
		ResponseCount:    120,
		SkippedResponses: 2,
	}
}

func TestOpen_CreatesParentDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "history.db")

	s, err := Open(path, testLogger(t))
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestRecordAndList(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	started := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Record(ctx, sampleRun("run-1", started)))

	failed := Run{
		RunID:      "run-2",
		StartedAt:  started.Add(time.Hour),
		FinishedAt: started.Add(time.Hour + time.Second),
		Status:     StatusFailed,
		Error:      "drive: HTTP 403: no access",
	}
	require.NoError(t, s.Record(ctx, failed))

	runs, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first.
	assert.Equal(t, "run-2", runs[0].RunID)
	assert.Equal(t, StatusFailed, runs[0].Status)
	assert.Equal(t, "drive: HTTP 403: no access", runs[0].Error)

	got := runs[1]
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, started, got.StartedAt)
	assert.Equal(t, StatusOK, got.Status)
	assert.Equal(t, "file-1", got.DriveFileID)
	assert.Equal(t, 3, got.SurveyCount)
	assert.Equal(t, 120, got.ResponseCount)
	assert.Equal(t, 2, got.SkippedResponses)
}

func TestList_RespectsLimit(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Record(ctx, sampleRun(
			"run-"+string(rune('a'+i)), base.Add(time.Duration(i)*time.Hour))))
	}

	runs, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-e", runs[0].RunID)
}

func TestRecord_DuplicateRunID(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	run := sampleRun("run-1", time.Now())
	require.NoError(t, s.Record(ctx, run))
	require.Error(t, s.Record(ctx, run))
}

func TestPrune(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	old := sampleRun("run-old", time.Now().AddDate(0, 0, -400))
	recent := sampleRun("run-recent", time.Now())
	require.NoError(t, s.Record(ctx, old))
	require.NoError(t, s.Record(ctx, recent))

	removed, err := s.Prune(ctx, 365)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	runs, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-recent", runs[0].RunID)
}

func TestPrune_ZeroRetentionDisabled(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, sampleRun("run-old", time.Now().AddDate(-1, 0, 0))))

	removed, err := s.Prune(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, removed)

	runs, err := s.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
