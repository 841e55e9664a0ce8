package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/whiletrue-industries/yalla-negev-data/internal/report"
)

func newSurveysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "surveys",
		Short: "List surveys found in Firestore",
		Long: `Read the survey definitions from Firestore and list the ones that would
appear in an export (surveys without a name or without questions are
excluded, exactly as during export).`,
		Args: cobra.NoArgs,
		RunE: runSurveys,
	}
}

// surveyRow is the JSON shape of one listed survey.
type surveyRow struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	Questions   int       `json:"questions"`
}

func runSurveys(cmd *cobra.Command, _ []string) error {
	cc := mustCLIContext(cmd.Context())
	ctx := cmd.Context()

	source, closeSource, err := newSource(ctx, cc.Config, cc.Logger)
	if err != nil {
		return err
	}
	defer closeSource()

	sections, err := source.ReadSections(ctx, cc.Config.Firestore.DocumentPath)
	if err != nil {
		return err
	}

	surveys := report.BuildSurveys(sections[report.SectionSurveys],
		cc.Config.Export.LocalePriority, cc.Logger)

	if cc.Flags.JSON {
		rows := make([]surveyRow, len(surveys))
		for i, s := range surveys {
			rows[i] = surveyRow{
				ID:          s.ID,
				Name:        s.Name,
				Description: s.Description,
				CreatedAt:   s.CreatedAt,
				Questions:   len(s.Questions),
			}
		}

		return printJSON(rows)
	}

	if len(surveys) == 0 {
		cc.Statusf("No exportable surveys found.\n")
		return nil
	}

	w := newTableWriter()
	fmt.Fprintln(w, "NAME\tQUESTIONS\tCREATED\tID")

	for _, s := range surveys {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
			s.Name, len(s.Questions), formatTime(s.CreatedAt), s.ID)
	}

	return w.Flush()
}
