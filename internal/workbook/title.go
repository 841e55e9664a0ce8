package workbook

import (
	"strconv"
	"strings"
)

// maxSheetTitleLen is Excel's hard limit on sheet names.
const maxSheetTitleLen = 31

// forbiddenTitleChars may not appear in Excel sheet names.
const forbiddenTitleChars = `:\/?*[]`

// titleSet hands out valid, unique sheet titles. Survey names can exceed
// Excel's 31-character limit, contain forbidden characters, or collide
// after truncation; any of those would make the xlsx writer fail.
type titleSet struct {
	used map[string]bool
}

func newTitleSet() *titleSet {
	return &titleSet{used: map[string]bool{SummarySheetName: true}}
}

// claim returns a valid sheet title derived from name, unique within the
// workbook. Collisions are resolved with a numeric suffix.
func (ts *titleSet) claim(name string) string {
	base := sanitizeTitle(name)

	title := base
	for n := 2; ts.used[title]; n++ {
		suffix := " (" + strconv.Itoa(n) + ")"
		title = truncateRunes(base, maxSheetTitleLen-len([]rune(suffix))) + suffix
	}

	ts.used[title] = true

	return title
}

// sanitizeTitle strips forbidden characters and truncates to the limit.
func sanitizeTitle(name string) string {
	var b strings.Builder

	for _, r := range name {
		if strings.ContainsRune(forbiddenTitleChars, r) {
			continue
		}

		b.WriteRune(r)
	}

	title := strings.TrimSpace(b.String())
	if title == "" {
		title = "Sheet"
	}

	return truncateRunes(title, maxSheetTitleLen)
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	return string(runes[:n])
}
