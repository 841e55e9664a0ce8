package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/whiletrue-industries/yalla-negev-data/internal/config"
	"github.com/whiletrue-industries/yalla-negev-data/internal/drive"
)

// folderChecker verifies access to the upload target.
type folderChecker interface {
	CheckFolder(ctx context.Context, folderID string) (*drive.FolderInfo, error)
}

// newFolderChecker is a construction seam for tests.
var newFolderChecker = func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (folderChecker, error) {
	return newDriveUploader(ctx, cfg, logger)
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify configuration, credentials, and Drive folder access",
		Long: `Run the pre-flight checks an export depends on: the credentials file
parses, the Drive folder exists and is reachable, and Firestore answers
for the configured document path. Nothing is written anywhere.`,
		Args: cobra.NoArgs,
		RunE: runCheck,
	}
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cc := mustCLIContext(cmd.Context())
	ctx := cmd.Context()

	creds, err := drive.LoadCredentials(ctx, cc.Config.Firestore.CredentialsFile)
	if err != nil {
		return err
	}

	cc.Statusf("Credentials: OK (project %s)\n", creds.ProjectID)

	folderID := drive.NormalizeFolderID(cc.Config.Drive.FolderID)
	if folderID == "" {
		return fmt.Errorf("drive folder ID not configured (set %s or [drive] folder_id)", config.EnvFolderID)
	}

	checker, err := newFolderChecker(ctx, cc.Config, cc.Logger)
	if err != nil {
		return err
	}

	info, err := checker.CheckFolder(ctx, folderID)
	if err != nil {
		return err
	}

	cc.Statusf("Drive folder: OK (%q, %s)\n", info.Name, info.ID)

	source, closeSource, err := newSource(ctx, cc.Config, cc.Logger)
	if err != nil {
		return err
	}
	defer closeSource()

	sections, err := source.ReadSections(ctx, cc.Config.Firestore.DocumentPath)
	if err != nil {
		return err
	}

	cc.Statusf("Firestore: OK (%d sections under %s)\n",
		len(sections), cc.Config.Firestore.DocumentPath)

	return nil
}
