// Package history persists a ledger of export runs in SQLite. Every run,
// successful or failed, leaves a row, so the history command can answer
// "when did the last export reach Drive" without trawling CI logs.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Run status values for the runs.status column.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Run is one export run, as recorded in the ledger.
type Run struct {
	RunID            string
	StartedAt        time.Time
	FinishedAt       time.Time
	Status           string
	Workbook         string
	DriveFileID      string
	SurveyCount      int
	ResponseCount    int
	SkippedResponses int
	Error            string
}

// Store manages the runs table. It holds a sole-writer connection:
// SetMaxOpenConns(1) means concurrent writers queue instead of hitting
// SQLITE_BUSY.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the history database at dbPath and runs
// migrations. The database uses WAL mode with synchronous=FULL for
// crash-safe durability.
func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("history: creating data directory %s: %w", dir, err)
		}
	}

	// DSN parameters ensure pragmas apply to every connection from the pool.
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(FULL)"+
			"&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)",
		dbPath,
	)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("history: opening database %s: %w", dbPath, err)
	}

	db.SetMaxOpenConns(1)

	if err := runMigrations(context.Background(), db, logger); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, logger: logger}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts a run row.
func (s *Store) Record(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs
			(run_id, started_at, finished_at, status, workbook, drive_file_id,
			 survey_count, response_count, skipped_responses, error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID,
		run.StartedAt.Unix(),
		run.FinishedAt.Unix(),
		run.Status,
		run.Workbook,
		run.DriveFileID,
		run.SurveyCount,
		run.ResponseCount,
		run.SkippedResponses,
		run.Error,
	)
	if err != nil {
		return fmt.Errorf("history: recording run %s: %w", run.RunID, err)
	}

	s.logger.Debug("recorded run",
		slog.String("run_id", run.RunID),
		slog.String("status", run.Status),
	)

	return nil
}

// List returns the most recent runs, newest first, up to limit.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit < 1 {
		limit = 1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, started_at, finished_at, status, workbook, drive_file_id,
			survey_count, response_count, skipped_responses, error
			FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run

	for rows.Next() {
		var (
			run                   Run
			startedAt, finishedAt int64
		)

		if err := rows.Scan(
			&run.RunID, &startedAt, &finishedAt, &run.Status, &run.Workbook,
			&run.DriveFileID, &run.SurveyCount, &run.ResponseCount,
			&run.SkippedResponses, &run.Error,
		); err != nil {
			return nil, fmt.Errorf("history: scanning run row: %w", err)
		}

		run.StartedAt = time.Unix(startedAt, 0).UTC()
		run.FinishedAt = time.Unix(finishedAt, 0).UTC()

		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterating run rows: %w", err)
	}

	return runs, nil
}

// Prune deletes runs older than retentionDays and returns the number of
// rows removed. A retention of zero disables pruning.
func (s *Store) Prune(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays).Unix()

	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("history: pruning runs: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("history: counting pruned runs: %w", err)
	}

	if n > 0 {
		s.logger.Info("pruned old runs", slog.Int64("removed", n))
	}

	return n, nil
}
