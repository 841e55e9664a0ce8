package report

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortSurveys orders surveys by name under Hebrew collation, with ID as a
// tiebreaker. Byte-wise sorting misorders Hebrew strings with mixed
// punctuation and nikud, so a proper collator is used.
func SortSurveys(surveys []Survey) {
	c := collate.New(language.Hebrew)

	sort.SliceStable(surveys, func(i, j int) bool {
		if cmp := c.CompareString(surveys[i].Name, surveys[j].Name); cmp != 0 {
			return cmp < 0
		}

		return surveys[i].ID < surveys[j].ID
	})
}
