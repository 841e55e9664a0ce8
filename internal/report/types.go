// Package report shapes flattened Firestore documents into the structures
// the workbook is built from: a list of surveys and one response sheet per
// survey. All functions here are pure; Firestore and Excel concerns live
// in the store and workbook packages.
package report

import "time"

// Section names within the version document.
const (
	SectionSurveys   = "surveys"
	SectionResponses = "responses"
)

// Fixed response columns that precede the per-question columns.
var baseHeaders = []string{"time", "lat", "lon"}

// Question is a single survey question. Text is resolved through the
// locale priority chain.
type Question struct {
	ID   string
	Text string
}

// Survey is a processed survey definition.
type Survey struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	Questions   []Question
}

// Sheet holds the response rows for one survey, ready to be written as a
// worksheet. Rows are keyed by header.
type Sheet struct {
	Title   string
	Headers []string
	Rows    []map[string]string
}
