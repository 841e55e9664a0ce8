package drive

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Retry and backoff constants.
const (
	maxRetries     = 5
	baseBackoff    = 1 * time.Second
	maxBackoff     = 60 * time.Second
	backoffFactor  = 2.0
	jitterFraction = 0.25
)

// MIME types used when creating files.
const (
	mimeXlsx   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeFolder = "application/vnd.google-apps.folder"
)

// FolderInfo describes the upload target, as returned by CheckFolder.
type FolderInfo struct {
	ID   string
	Name string
}

// Uploader creates files in a Google Drive folder. It retries transient
// failures with exponential backoff and classifies the rest into sentinel
// errors.
type Uploader struct {
	svc    *drivev3.Service
	logger *slog.Logger

	// sleepFunc is called to wait between retries. Defaults to timeSleep.
	// Tests override this to avoid real delays.
	sleepFunc func(ctx context.Context, d time.Duration) error
}

// LoadCredentials reads and parses a service-account key file, requesting
// the drive.file scope — the tool only ever touches files it created.
func LoadCredentials(ctx context.Context, path string) (*google.Credentials, error) {
	if path == "" {
		return nil, fmt.Errorf("drive: credentials file path is empty (set %s)", "GOOGLE_APPLICATION_CREDENTIALS")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("drive: reading credentials file: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, drivev3.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("drive: parsing credentials file %s: %w", path, err)
	}

	return creds, nil
}

// NewUploader creates an Uploader authenticated with the given credentials.
// Extra client options are appended after the credentials, so tests can
// override the endpoint and authentication.
func NewUploader(ctx context.Context, creds *google.Credentials, logger *slog.Logger, extra ...option.ClientOption) (*Uploader, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts := make([]option.ClientOption, 0, len(extra)+1)
	if creds != nil {
		opts = append(opts, option.WithCredentials(creds))
	}

	opts = append(opts, extra...)

	svc, err := drivev3.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("drive: creating drive service: %w", err)
	}

	return &Uploader{svc: svc, logger: logger, sleepFunc: timeSleep}, nil
}

// Upload creates name in folderID from the local file at localPath and
// returns the new file's ID. Each attempt reopens the file, because the
// media reader is consumed even by failed attempts.
func (u *Uploader) Upload(ctx context.Context, folderID, name, localPath string) (string, error) {
	u.logger.Info("uploading workbook",
		slog.String("name", name),
		slog.String("folder_id", folderID),
	)

	var attempt int
	for {
		id, err := u.uploadOnce(ctx, folderID, name, localPath)
		if err == nil {
			u.logger.Info("upload complete", slog.String("file_id", id))
			return id, nil
		}

		if ctx.Err() != nil {
			return "", fmt.Errorf("drive: upload canceled: %w", ctx.Err())
		}

		if !isRetryable(err) || attempt >= maxRetries {
			return "", classify(err)
		}

		backoff := calcBackoff(attempt)
		u.logger.Warn("retrying upload",
			slog.String("name", name),
			slog.Int("attempt", attempt+1),
			slog.Duration("backoff", backoff),
			slog.String("error", err.Error()),
		)

		if sleepErr := u.sleepFunc(ctx, backoff); sleepErr != nil {
			return "", fmt.Errorf("drive: upload canceled: %w", sleepErr)
		}

		attempt++
	}
}

// uploadOnce performs a single multipart create call.
func (u *Uploader) uploadOnce(ctx context.Context, folderID, name, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("drive: opening workbook %s: %w", localPath, err)
	}
	defer f.Close()

	meta := &drivev3.File{
		Name:    name,
		Parents: []string{folderID},
	}

	created, err := u.svc.Files.Create(meta).
		Media(f, googleapi.ContentType(mimeXlsx)).
		SupportsAllDrives(true).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}

	return created.Id, nil
}

// CheckFolder verifies that folderID exists, is reachable with the current
// credentials, and is actually a folder.
func (u *Uploader) CheckFolder(ctx context.Context, folderID string) (*FolderInfo, error) {
	f, err := u.svc.Files.Get(folderID).
		SupportsAllDrives(true).
		Fields("id", "name", "mimeType").
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify(err)
	}

	if f.MimeType != mimeFolder {
		return nil, fmt.Errorf("%w: %s has MIME type %s", ErrNotFolder, folderID, f.MimeType)
	}

	return &FolderInfo{ID: f.Id, Name: f.Name}, nil
}

// calcBackoff computes exponential backoff with ±25% jitter.
func calcBackoff(attempt int) time.Duration {
	backoff := float64(baseBackoff) * math.Pow(backoffFactor, float64(attempt))
	if backoff > float64(maxBackoff) {
		backoff = float64(maxBackoff)
	}

	jitter := backoff * jitterFraction * (rand.Float64()*2 - 1) //nolint:gosec // jitter does not need crypto rand
	backoff += jitter

	return time.Duration(backoff)
}

// timeSleep waits for the given duration or until the context is canceled.
// It is the default sleepFunc for Uploader.
func timeSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
