package report

import (
	"log/slog"

	"github.com/whiletrue-industries/yalla-negev-data/internal/store"
)

// BuildSheet collects the responses belonging to one survey into a Sheet.
// Responses without coordinates are skipped and counted — field submissions
// are useless on the map without a location, and the original reports
// dropped them the same way. The returned skipped count feeds the run
// summary.
func BuildSheet(responses []store.Document, survey Survey, logger *slog.Logger) (Sheet, int) {
	if logger == nil {
		logger = slog.Default()
	}

	headers := make([]string, 0, len(baseHeaders)+len(survey.Questions))
	headers = append(headers, baseHeaders...)

	for _, q := range survey.Questions {
		headers = append(headers, q.Text)
	}

	sheet := Sheet{Title: survey.Name, Headers: headers}

	var skipped int

	for _, doc := range responses {
		if store.Stringify(doc["surveyId"]) != survey.ID {
			continue
		}

		if _, ok := doc["coordinates.latitude"]; !ok {
			logger.Warn("response missing coordinate data",
				slog.String("response_id", store.Stringify(doc["id"])),
				slog.String("survey", survey.Name),
			)

			skipped++

			continue
		}

		sheet.Rows = append(sheet.Rows, buildRow(doc, survey))
	}

	return sheet, skipped
}

// buildRow converts one response document into a header-keyed row. An
// answer cell is filled only when exactly one answer matches the question
// ID — zero matches means unanswered, more than one means corrupt data,
// and both leave the cell empty.
func buildRow(doc store.Document, survey Survey) map[string]string {
	row := map[string]string{
		"time": store.Stringify(doc["submittedTs"]),
		"lat":  store.Stringify(doc["coordinates.latitude"]),
		"lon":  store.Stringify(doc["coordinates.longitude"]),
	}

	answers, _ := doc["responses"].([]any)

	for _, q := range survey.Questions {
		var match any

		count := 0

		for _, a := range answers {
			am, ok := a.(map[string]any)
			if !ok {
				continue
			}

			if store.Stringify(am["questionId"]) == q.ID {
				match = am["response"]
				count++
			}
		}

		if count == 1 {
			row[q.Text] = store.Stringify(match)
		}
	}

	return row
}
