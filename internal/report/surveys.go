package report

import (
	"log/slog"
	"time"

	"github.com/whiletrue-industries/yalla-negev-data/internal/store"
)

// BuildSurveys processes flattened survey documents into Survey values.
// Surveys with no resolvable name or no questions are dropped. The result
// is sorted by name under Hebrew collation so sheet order is stable across
// runs (Firestore iteration order is not).
func BuildSurveys(docs []store.Document, locales []string, logger *slog.Logger) []Survey {
	if logger == nil {
		logger = slog.Default()
	}

	surveys := make([]Survey, 0, len(docs))

	for _, doc := range docs {
		survey, ok := buildSurvey(doc, locales)
		if !ok {
			logger.Debug("skipping survey", slog.String("id", store.Stringify(doc["id"])))
			continue
		}

		logger.Info("processed survey",
			slog.String("name", survey.Name),
			slog.Int("questions", len(survey.Questions)),
		)

		surveys = append(surveys, survey)
	}

	SortSurveys(surveys)

	return surveys
}

// buildSurvey converts one flattened survey document. The boolean is false
// when the survey has no name in any configured locale or no questions.
func buildSurvey(doc store.Document, locales []string) (Survey, bool) {
	name := localizedField(doc, "name", locales)
	if name == "" {
		return Survey{}, false
	}

	questions := buildQuestions(doc["questions"], locales)
	if len(questions) == 0 {
		return Survey{}, false
	}

	survey := Survey{
		ID:          store.Stringify(doc["id"]),
		Name:        name,
		Description: localizedField(doc, "description", locales),
		Questions:   questions,
	}

	if ts, ok := doc["creationDateTime"].(time.Time); ok {
		survey.CreatedAt = ts
	}

	return survey, true
}

// buildQuestions extracts questions from the raw (unflattened) questions
// array. Questions keep their position; a question with no localized text
// still occupies a column, matching the original reports.
func buildQuestions(raw any, locales []string) []Question {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}

	questions := make([]Question, 0, len(items))

	for _, item := range items {
		q, ok := item.(map[string]any)
		if !ok {
			continue
		}

		text, _ := q["text"].(map[string]any)

		questions = append(questions, Question{
			ID:   store.Stringify(q["id"]),
			Text: localizedValue(text, locales),
		})
	}

	return questions
}

// localizedField resolves a flattened localized field ("name" -> "name.he",
// "name.en", ...) through the locale priority chain, returning the first
// non-empty value.
func localizedField(doc store.Document, field string, locales []string) string {
	for _, loc := range locales {
		if v := store.Stringify(doc[field+"."+loc]); v != "" {
			return v
		}
	}

	return ""
}

// localizedValue is localizedField for an unflattened map value, used for
// question texts nested inside the questions array.
func localizedValue(m map[string]any, locales []string) string {
	for _, loc := range locales {
		if v := store.Stringify(m[loc]); v != "" {
			return v
		}
	}

	return ""
}
