package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whiletrue-industries/yalla-negev-data/internal/store"
)

// testSurvey is a two-question survey used across the response tests.
var testSurvey = Survey{
	ID:   "s1",
	Name: "סקר",
	Questions: []Question{
		{ID: "q1", Text: "שאלה א"},
		{ID: "q2", Text: "שאלה ב"},
	},
}

// responseDoc builds a flattened response document with coordinates.
func responseDoc(id, surveyID string, answers []any) store.Document {
	return store.Document{
		"id":                    id,
		"surveyId":              surveyID,
		"submittedTs":           time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC),
		"coordinates.latitude":  31.25,
		"coordinates.longitude": 34.79,
		"responses":             answers,
	}
}

func answer(questionID string, response any) map[string]any {
	return map[string]any{"questionId": questionID, "response": response}
}

func TestBuildSheet_Headers(t *testing.T) {
	t.Parallel()

	sheet, skipped := BuildSheet(nil, testSurvey, nil)

	assert.Zero(t, skipped)
	assert.Equal(t, "סקר", sheet.Title)
	assert.Equal(t, []string{"time", "lat", "lon", "שאלה א", "שאלה ב"}, sheet.Headers)
	assert.Empty(t, sheet.Rows)
}

func TestBuildSheet_Row(t *testing.T) {
	t.Parallel()

	docs := []store.Document{
		responseDoc("r1", "s1", []any{answer("q1", "כן"), answer("q2", 4)}),
	}

	sheet, skipped := BuildSheet(docs, testSurvey, nil)

	assert.Zero(t, skipped)
	require.Len(t, sheet.Rows, 1)

	row := sheet.Rows[0]
	assert.Equal(t, "2024-02-01T12:00:00Z", row["time"])
	assert.Equal(t, "31.25", row["lat"])
	assert.Equal(t, "34.79", row["lon"])
	assert.Equal(t, "כן", row["שאלה א"])
	assert.Equal(t, "4", row["שאלה ב"], "numeric answers are stringified")
}

func TestBuildSheet_FiltersOtherSurveys(t *testing.T) {
	t.Parallel()

	docs := []store.Document{
		responseDoc("r1", "other", []any{answer("q1", "x")}),
	}

	sheet, skipped := BuildSheet(docs, testSurvey, nil)

	assert.Zero(t, skipped)
	assert.Empty(t, sheet.Rows)
}

func TestBuildSheet_SkipsMissingCoordinates(t *testing.T) {
	t.Parallel()

	noCoords := store.Document{
		"id":          "r2",
		"surveyId":    "s1",
		"submittedTs": time.Now(),
	}
	docs := []store.Document{
		noCoords,
		responseDoc("r1", "s1", nil),
	}

	sheet, skipped := BuildSheet(docs, testSurvey, nil)

	assert.Equal(t, 1, skipped)
	assert.Len(t, sheet.Rows, 1)
}

func TestBuildSheet_AnswerMatchRules(t *testing.T) {
	t.Parallel()

	docs := []store.Document{
		// q1 answered twice (corrupt), q2 unanswered.
		responseDoc("r1", "s1", []any{answer("q1", "a"), answer("q1", "b")}),
	}

	sheet, _ := BuildSheet(docs, testSurvey, nil)
	require.Len(t, sheet.Rows, 1)

	row := sheet.Rows[0]
	_, hasQ1 := row["שאלה א"]
	_, hasQ2 := row["שאלה ב"]
	assert.False(t, hasQ1, "duplicate answers leave the cell empty")
	assert.False(t, hasQ2, "unanswered questions leave the cell empty")
}

func TestBuildSheet_IgnoresMalformedAnswers(t *testing.T) {
	t.Parallel()

	docs := []store.Document{
		responseDoc("r1", "s1", []any{"not-a-map", answer("q1", "ok")}),
	}

	sheet, _ := BuildSheet(docs, testSurvey, nil)
	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, "ok", sheet.Rows[0]["שאלה א"])
}
