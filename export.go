package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/whiletrue-industries/yalla-negev-data/internal/exporter"
)

// exportFlags holds the export command's flags.
type exportFlags struct {
	output     string
	skipUpload bool
	keepLocal  bool
	date       string
}

func newExportCmd() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export survey data to Excel and upload it to Drive",
		Long: `Read all survey sections from Firestore, build the dated Excel workbook,
upload it to the configured Drive folder, and record the run in history.

With --skip-upload the workbook is written locally and Drive is not touched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "directory for the workbook (default from config)")
	cmd.Flags().BoolVar(&flags.skipUpload, "skip-upload", false, "write the workbook locally without uploading")
	cmd.Flags().BoolVar(&flags.keepLocal, "keep-local", false, "keep the local workbook after a successful upload")
	cmd.Flags().StringVar(&flags.date, "date", "", "date stamp for the workbook name (YYYY-MM-DD, default today)")

	return cmd
}

func runExport(cmd *cobra.Command, flags exportFlags) error {
	cc := mustCLIContext(cmd.Context())

	opts, err := exportOptions(flags)
	if err != nil {
		return err
	}

	res, err := runExportOnce(cmd.Context(), cc, opts)
	if err != nil {
		return err
	}

	return printExportResult(cc, res)
}

// exportOptions translates command flags into engine options.
func exportOptions(flags exportFlags) (exporter.Options, error) {
	opts := exporter.Options{
		OutputDir:  flags.output,
		SkipUpload: flags.skipUpload,
		KeepLocal:  flags.keepLocal,
	}

	if flags.date != "" {
		date, err := time.Parse("2006-01-02", flags.date)
		if err != nil {
			return exporter.Options{}, fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", flags.date)
		}

		opts.Date = date
	}

	return opts, nil
}

// runExportOnce wires up the collaborators and runs one export. Shared by
// the export and watch commands.
func runExportOnce(ctx context.Context, cc *CLIContext, opts exporter.Options) (*exporter.Result, error) {
	source, closeSource, err := newSource(ctx, cc.Config, cc.Logger)
	if err != nil {
		return nil, err
	}
	defer closeSource()

	var uploader exporter.Uploader

	if !opts.SkipUpload {
		uploader, err = newUploader(ctx, cc.Config, cc.Logger)
		if err != nil {
			return nil, err
		}
	}

	recorder, closeRecorder, err := newRecorder(cc.Config, cc.Logger)
	if err != nil {
		return nil, err
	}
	defer closeRecorder()

	engine := exporter.New(cc.Config, source, uploader, recorder, cc.Logger)

	return engine.Run(ctx, opts)
}

// exportReport is the JSON shape of an export result.
type exportReport struct {
	RunID            string `json:"run_id"`
	Workbook         string `json:"workbook,omitempty"`
	DriveFileID      string `json:"drive_file_id,omitempty"`
	Surveys          int    `json:"surveys"`
	Responses        int    `json:"responses"`
	SkippedResponses int    `json:"skipped_responses"`
}

func printExportResult(cc *CLIContext, res *exporter.Result) error {
	if cc.Flags.JSON {
		return printJSON(exportReport{
			RunID:            res.RunID,
			Workbook:         res.Workbook,
			DriveFileID:      res.DriveFileID,
			Surveys:          res.Surveys,
			Responses:        res.Responses,
			SkippedResponses: res.SkippedResponses,
		})
	}

	cc.Statusf("Exported %d surveys, %d responses (%d skipped)\n",
		res.Surveys, res.Responses, res.SkippedResponses)

	if res.DriveFileID != "" {
		cc.Statusf("Uploaded to Drive: %s\n", res.DriveFileID)
	}

	if res.Workbook != "" {
		cc.Statusf("Workbook: %s\n", res.Workbook)
	}

	return nil
}
