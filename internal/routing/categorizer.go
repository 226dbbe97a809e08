package routing

import "strings"

// CategoryAutoDetect is the legacy sentinel some clients still send to
// request keyword categorization. An absent category means the same thing.
const CategoryAutoDetect = "Auto-detect (NLP)"

// CategoryGeneral is the fallback when no keyword group matches.
const CategoryGeneral = "General"

// keywordGroup maps a set of substrings to a category. Order matters:
// the first group with a match wins.
type keywordGroup struct {
	keywords []string
	category string
}

var keywordGroups = []keywordGroup{
	{[]string{"road", "pothole"}, "Roads"},
	{[]string{"water", "electricity"}, "Utilities"},
	{[]string{"crime", "safety"}, "Public Safety"},
}

// Categorize infers a category from a free-text description.
// Deterministic and total: unmatched text yields CategoryGeneral.
func Categorize(description string) string {
	text := strings.ToLower(description)
	for _, group := range keywordGroups {
		for _, kw := range group.keywords {
			if strings.Contains(text, kw) {
				return group.category
			}
		}
	}
	return CategoryGeneral
}

// IsAutoDetect reports whether the supplied category asks for inference.
func IsAutoDetect(category string) bool {
	return category == "" || category == CategoryAutoDetect
}
