package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// defaultHistoryLimit caps the history listing unless --limit says otherwise.
const defaultHistoryLimit = 20

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past export runs",
		Long:  "List recent export runs from the local run ledger, newest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", defaultHistoryLimit, "maximum number of runs to show")

	return cmd
}

// historyRow is the JSON shape of one listed run.
type historyRow struct {
	RunID            string    `json:"run_id"`
	StartedAt        time.Time `json:"started_at"`
	Status           string    `json:"status"`
	Workbook         string    `json:"workbook,omitempty"`
	DriveFileID      string    `json:"drive_file_id,omitempty"`
	Surveys          int       `json:"surveys"`
	Responses        int       `json:"responses"`
	SkippedResponses int       `json:"skipped_responses"`
	Error            string    `json:"error,omitempty"`
}

func runHistory(cmd *cobra.Command, limit int) error {
	cc := mustCLIContext(cmd.Context())
	ctx := cmd.Context()

	store, closeStore, err := newRecorder(cc.Config, cc.Logger)
	if err != nil {
		return err
	}
	defer closeStore()

	runs, err := store.List(ctx, limit)
	if err != nil {
		return err
	}

	if cc.Flags.JSON {
		rows := make([]historyRow, len(runs))
		for i, r := range runs {
			rows[i] = historyRow{
				RunID:            r.RunID,
				StartedAt:        r.StartedAt,
				Status:           r.Status,
				Workbook:         r.Workbook,
				DriveFileID:      r.DriveFileID,
				Surveys:          r.SurveyCount,
				Responses:        r.ResponseCount,
				SkippedResponses: r.SkippedResponses,
				Error:            r.Error,
			}
		}

		return printJSON(rows)
	}

	if len(runs) == 0 {
		cc.Statusf("No export runs recorded yet.\n")
		return nil
	}

	w := newTableWriter()
	fmt.Fprintln(w, "STARTED\tSTATUS\tSURVEYS\tRESPONSES\tWORKBOOK\tDETAIL")

	for _, r := range runs {
		detail := r.DriveFileID
		if r.Status != "ok" {
			detail = r.Error
		}

		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n",
			formatTime(r.StartedAt), r.Status, r.SurveyCount, r.ResponseCount,
			r.Workbook, detail)
	}

	return w.Flush()
}
