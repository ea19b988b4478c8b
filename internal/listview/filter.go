package listview

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Filter returns the records that belong to category (when set) and whose
// SearchText contains query, ignoring case. Relative order is preserved and
// the input is never modified.
func Filter[T Record](records []T, query, category string) []T {
	lower := cases.Lower(language.Und)
	needle := lower.String(query)

	out := make([]T, 0, len(records))
	for _, r := range records {
		if category != "" && r.CategoryRef() != category {
			continue
		}
		if needle != "" && !strings.Contains(lower.String(r.SearchText()), needle) {
			continue
		}
		out = append(out, r)
	}
	return out
}
