package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whiletrue-industries/yalla-negev-data/internal/store"
)

func TestSurveysCommand_JSON(t *testing.T) {
	clearEnvOverrides(t)

	sections := testSections()
	// A nameless survey must be excluded from the listing.
	sections["surveys"] = append(sections["surveys"], store.Document{
		"id": "s2",
		"questions": []any{
			map[string]any{"id": "q9", "text": map[string]any{"he": "שאלה"}},
		},
	})

	stubServices(t, &stubSource{sections: sections}, &stubUploader{}, &stubRecorder{})

	out, err := execRoot(t, "--config", writeTestConfig(t, ""), "--json", "surveys")
	require.NoError(t, err)

	var rows []surveyRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))

	require.Len(t, rows, 1)
	assert.Equal(t, "s1", rows[0].ID)
	assert.Equal(t, "סקר שבילים", rows[0].Name)
	assert.Equal(t, 1, rows[0].Questions)
}

func TestSurveysCommand_Table(t *testing.T) {
	clearEnvOverrides(t)

	stubServices(t, &stubSource{sections: testSections()}, &stubUploader{}, &stubRecorder{})

	out, err := execRoot(t, "--config", writeTestConfig(t, ""), "surveys")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "NAME\t"))
	assert.Contains(t, out, "סקר שבילים")
	assert.Contains(t, out, "s1")
}
