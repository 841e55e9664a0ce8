package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whiletrue-industries/yalla-negev-data/internal/store"
)

// clearEnvOverrides neutralizes the environment variables the config
// resolver honors, so tests see only the --config file.
func clearEnvOverrides(t *testing.T) {
	t.Helper()

	for _, name := range []string{
		"YALLADATA_CONFIG",
		"GOOGLE_APPLICATION_CREDENTIALS",
		"DRIVE_FOLDER_ID",
		"FIRESTORE_PROJECT_ID",
	} {
		t.Setenv(name, "")
	}
}

// testSections is a minimal but complete dataset: one survey with one
// question, one response answering it.
func testSections() store.Sections {
	return store.Sections{
		"surveys": {
			{
				"id":      "s1",
				"name.he": "סקר שבילים",
				"questions": []any{
					map[string]any{"id": "q1", "text": map[string]any{"he": "מצב השביל"}},
				},
			},
		},
		"responses": {
			{
				"id":                    "r1",
				"surveyId":              "s1",
				"coordinates.latitude":  31.2518,
				"coordinates.longitude": 34.7913,
				"submittedTs":           "2024-03-14T09:30:00Z",
				"responses": []any{
					map[string]any{"questionId": "q1", "response": "תקין"},
				},
			},
		},
	}
}

func TestExportOptions_DateParsing(t *testing.T) {
	t.Parallel()

	opts, err := exportOptions(exportFlags{date: "2024-03-15"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), opts.Date)

	opts, err = exportOptions(exportFlags{})
	require.NoError(t, err)
	assert.True(t, opts.Date.IsZero())

	_, err = exportOptions(exportFlags{date: "15/03/2024"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestExportCommand_JSON(t *testing.T) {
	clearEnvOverrides(t)

	rec := &stubRecorder{}
	stubServices(t, &stubSource{sections: testSections()}, &stubUploader{fileID: "drive-file-1"}, rec)

	cfgPath := writeTestConfig(t, "")
	outDir := t.TempDir()

	out, err := execRoot(t, "--config", cfgPath, "--json", "export",
		"-o", outDir, "--date", "2024-03-15")
	require.NoError(t, err)

	var rep exportReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))

	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, "drive-file-1", rep.DriveFileID)
	assert.Equal(t, 1, rep.Surveys)
	assert.Equal(t, 1, rep.Responses)
	assert.Equal(t, 0, rep.SkippedResponses)

	// Uploaded workbooks are cleaned up by default.
	_, statErr := os.Stat(filepath.Join(outDir, "yallanegev-2024-03-15.xlsx"))
	assert.True(t, os.IsNotExist(statErr))

	// The run made it into the ledger.
	require.Len(t, rec.runs, 1)
	assert.Equal(t, "ok", rec.runs[0].Status)
}

func TestExportCommand_KeepLocal(t *testing.T) {
	clearEnvOverrides(t)

	stubServices(t, &stubSource{sections: testSections()}, &stubUploader{fileID: "drive-file-1"}, &stubRecorder{})

	cfgPath := writeTestConfig(t, "")
	outDir := t.TempDir()

	_, err := execRoot(t, "--config", cfgPath, "-q", "export",
		"-o", outDir, "--keep-local", "--date", "2024-03-15")
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(outDir, "yallanegev-2024-03-15.xlsx"))
	assert.NoError(t, statErr)
}

func TestExportCommand_SkipUpload(t *testing.T) {
	clearEnvOverrides(t)

	rec := &stubRecorder{}
	// The uploader must not be constructed at all with --skip-upload; a nil
	// stub would panic if it were called.
	stubServices(t, &stubSource{sections: testSections()}, nil, rec)

	cfgPath := writeTestConfig(t, "")
	outDir := t.TempDir()

	out, err := execRoot(t, "--config", cfgPath, "--json", "export",
		"-o", outDir, "--skip-upload", "--date", "2024-03-15")
	require.NoError(t, err)

	var rep exportReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))

	assert.Empty(t, rep.DriveFileID)
	assert.Equal(t, filepath.Join(outDir, "yallanegev-2024-03-15.xlsx"), rep.Workbook)

	_, statErr := os.Stat(rep.Workbook)
	assert.NoError(t, statErr)
}

func TestExportCommand_SourceFailureRecorded(t *testing.T) {
	clearEnvOverrides(t)

	rec := &stubRecorder{}
	stubServices(t, &stubSource{err: assert.AnError}, &stubUploader{}, rec)

	cfgPath := writeTestConfig(t, "")

	_, err := execRoot(t, "--config", cfgPath, "-q", "export", "-o", t.TempDir())
	require.Error(t, err)

	require.Len(t, rec.runs, 1)
	assert.Equal(t, "failed", rec.runs[0].Status)
	assert.NotEmpty(t, rec.runs[0].Error)
}
