package main

import (
	"context"
	"log/slog"

	"github.com/whiletrue-industries/yalla-negev-data/internal/config"
	"github.com/whiletrue-industries/yalla-negev-data/internal/drive"
	"github.com/whiletrue-industries/yalla-negev-data/internal/exporter"
	"github.com/whiletrue-industries/yalla-negev-data/internal/history"
	"github.com/whiletrue-industries/yalla-negev-data/internal/store"
)

// Service construction seams. Commands go through these variables so tests
// can substitute fakes without touching the cloud.
var (
	newSource = func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (exporter.Source, func() error, error) {
		c, err := store.NewClient(ctx, cfg.Firestore.ProjectID, cfg.Firestore.CredentialsFile,
			cfg.Export.ParallelFetch, logger)
		if err != nil {
			return nil, nil, err
		}

		return c, c.Close, nil
	}

	newUploader = func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (exporter.Uploader, error) {
		u, err := newDriveUploader(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}

		return u, nil
	}

	newRecorder = func(cfg *config.Config, logger *slog.Logger) (historyStore, func() error, error) {
		s, err := history.Open(cfg.History.DBPath, logger)
		if err != nil {
			return nil, nil, err
		}

		return s, s.Close, nil
	}
)

// historyStore is what commands need from the run ledger: recording for
// exports, listing for the history command.
type historyStore interface {
	exporter.Recorder
	List(ctx context.Context, limit int) ([]history.Run, error)
}

// newDriveUploader loads credentials and builds the concrete Drive client.
// check.go uses it directly because it needs CheckFolder, which the
// exporter.Uploader interface deliberately doesn't expose.
func newDriveUploader(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*drive.Uploader, error) {
	creds, err := drive.LoadCredentials(ctx, cfg.Firestore.CredentialsFile)
	if err != nil {
		return nil, err
	}

	return drive.NewUploader(ctx, creds, logger)
}
