// Package exporter orchestrates a full export run: read Firestore sections,
// shape the report, write the workbook, upload it to Drive, and record the
// run in history. Collaborators are interfaces so the pipeline is testable
// without cloud access.
package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/whiletrue-industries/yalla-negev-data/internal/config"
	"github.com/whiletrue-industries/yalla-negev-data/internal/drive"
	"github.com/whiletrue-industries/yalla-negev-data/internal/history"
	"github.com/whiletrue-industries/yalla-negev-data/internal/report"
	"github.com/whiletrue-industries/yalla-negev-data/internal/store"
	"github.com/whiletrue-industries/yalla-negev-data/internal/workbook"
)

// Source reads the raw survey sections.
type Source interface {
	ReadSections(ctx context.Context, documentPath string) (store.Sections, error)
}

// Uploader sends a finished workbook to Drive.
type Uploader interface {
	Upload(ctx context.Context, folderID, name, localPath string) (string, error)
}

// Recorder persists run outcomes.
type Recorder interface {
	Record(ctx context.Context, run history.Run) error
	Prune(ctx context.Context, retentionDays int) (int64, error)
}

// Options are per-run overrides, typically from CLI flags. Zero values
// defer to the configuration.
type Options struct {
	OutputDir  string
	SkipUpload bool
	KeepLocal  bool
	Date       time.Time // workbook date stamp; zero = now
}

// Result summarizes a completed run.
type Result struct {
	RunID            string
	Workbook         string // local path (empty if removed after upload)
	DriveFileID      string
	Surveys          int
	Responses        int
	SkippedResponses int
}

// Engine runs the export pipeline.
type Engine struct {
	cfg      *config.Config
	source   Source
	uploader Uploader
	recorder Recorder
	logger   *slog.Logger

	// nowFunc and newRunID are injectable for deterministic tests.
	nowFunc  func() time.Time
	newRunID func() string
}

// New assembles an Engine. uploader may be nil only when every run uses
// SkipUpload.
func New(cfg *config.Config, source Source, uploader Uploader, recorder Recorder, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		cfg:      cfg,
		source:   source,
		uploader: uploader,
		recorder: recorder,
		logger:   logger,
		nowFunc:  time.Now,
		newRunID: uuid.NewString,
	}
}

// Run executes one export. Failures are recorded in history before being
// returned, so even a crashed CI job leaves a trace.
func (e *Engine) Run(ctx context.Context, opts Options) (*Result, error) {
	started := e.nowFunc()

	run := history.Run{
		RunID:     e.newRunID(),
		StartedAt: started,
	}

	e.logger.Info("starting export run",
		slog.String("run_id", run.RunID),
		slog.String("document", e.cfg.Firestore.DocumentPath),
	)

	result, err := e.run(ctx, opts, &run)

	run.FinishedAt = e.nowFunc()

	if err != nil {
		run.Status = history.StatusFailed
		run.Error = err.Error()
	} else {
		run.Status = history.StatusOK
	}

	e.record(ctx, run)

	if err != nil {
		return nil, err
	}

	result.RunID = run.RunID

	return result, nil
}

// run performs the pipeline steps, filling run with counters as it goes.
func (e *Engine) run(ctx context.Context, opts Options, run *history.Run) (*Result, error) {
	sections, err := e.source.ReadSections(ctx, e.cfg.Firestore.DocumentPath)
	if err != nil {
		return nil, err
	}

	surveys := report.BuildSurveys(sections[report.SectionSurveys], e.cfg.Export.LocalePriority, e.logger)
	run.SurveyCount = len(surveys)

	sheets, responses, skipped := e.buildSheets(sections[report.SectionResponses], surveys)
	run.ResponseCount = responses
	run.SkippedResponses = skipped

	path, name, err := e.writeWorkbook(surveys, sheets, opts)
	if err != nil {
		return nil, err
	}

	run.Workbook = name

	result := &Result{
		Workbook:         path,
		Surveys:          len(surveys),
		Responses:        responses,
		SkippedResponses: skipped,
	}

	if opts.SkipUpload {
		e.logger.Info("skipping upload", slog.String("workbook", path))
		return result, nil
	}

	fileID, err := e.upload(ctx, name, path)
	if err != nil {
		return nil, err
	}

	run.DriveFileID = fileID
	result.DriveFileID = fileID

	if !opts.KeepLocal && !e.cfg.Export.KeepLocal {
		if err := os.Remove(path); err != nil {
			e.logger.Warn("could not remove local workbook",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
		} else {
			result.Workbook = ""
		}
	}

	return result, nil
}

// buildSheets builds one sheet per survey, keeping only surveys that
// received responses (sheet-less surveys still show up in the summary).
func (e *Engine) buildSheets(responseDocs []store.Document, surveys []report.Survey) ([]report.Sheet, int, int) {
	var (
		sheets         []report.Sheet
		totalResponses int
		totalSkipped   int
	)

	for _, survey := range surveys {
		sheet, skipped := report.BuildSheet(responseDocs, survey, e.logger)
		totalSkipped += skipped

		e.logger.Info("processed responses",
			slog.String("survey", survey.Name),
			slog.Int("rows", len(sheet.Rows)),
			slog.Int("skipped", skipped),
		)

		if len(sheet.Rows) == 0 {
			continue
		}

		totalResponses += len(sheet.Rows)

		sheets = append(sheets, sheet)
	}

	return sheets, totalResponses, totalSkipped
}

// writeWorkbook builds and saves the workbook, returning its path and
// file name.
func (e *Engine) writeWorkbook(surveys []report.Survey, sheets []report.Sheet, opts Options) (string, string, error) {
	f, err := workbook.Build(surveys, sheets, e.logger)
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	date := opts.Date
	if date.IsZero() {
		date = e.nowFunc()
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = e.cfg.Export.OutputDir
	}

	name := workbook.Filename(e.cfg.Drive.FilenamePrefix, date)
	path := filepath.Join(outputDir, name)

	if err := f.SaveAs(path); err != nil {
		return "", "", fmt.Errorf("exporter: saving workbook %s: %w", path, err)
	}

	e.logger.Info("wrote workbook", slog.String("path", path))

	return path, name, nil
}

// upload sends the workbook to the configured Drive folder.
func (e *Engine) upload(ctx context.Context, name, path string) (string, error) {
	folderID := drive.NormalizeFolderID(e.cfg.Drive.FolderID)
	if folderID == "" {
		return "", fmt.Errorf("exporter: drive folder ID not configured (set %s or [drive] folder_id)", config.EnvFolderID)
	}

	if e.uploader == nil {
		return "", fmt.Errorf("exporter: no uploader configured")
	}

	return e.uploader.Upload(ctx, folderID, name, path)
}

// record writes the run to history and prunes old rows. Recording is
// best-effort: a ledger failure must not mask the export outcome.
func (e *Engine) record(ctx context.Context, run history.Run) {
	if e.recorder == nil {
		return
	}

	if err := e.recorder.Record(ctx, run); err != nil {
		e.logger.Warn("could not record run", slog.String("error", err.Error()))
	}

	if _, err := e.recorder.Prune(ctx, e.cfg.History.RetentionDays); err != nil {
		e.logger.Warn("could not prune history", slog.String("error", err.Error()))
	}
}
