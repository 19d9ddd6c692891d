package suggest

import "strings"

// KeywordRule maps a canonical category to the words that suggest it.
type KeywordRule struct {
	Category string
	Keywords []string
}

// KeywordMap is checked in order; the first rule with a hit wins.
type KeywordMap []KeywordRule

func DefaultKeywordMap() KeywordMap {
	return KeywordMap{
		{"Food Pantry", []string{"food", "pantry", "meal", "soup kitchen", "groceries", "nutrition"}},
		{"Housing Assistance", []string{"shelter", "housing", "homeless", "transitional", "rent assistance"}},
		{"Mental Health", []string{"mental health", "counseling", "therapy", "psychiatric", "behavioral health"}},
		{"Medical Care", []string{"clinic", "health center", "medical", "dental", "vision"}},
		{"Legal Assistance", []string{"legal aid", "legal services", "attorney", "lawyer"}},
		{"Crisis & Emergency", []string{"crisis", "hotline", "emergency", "domestic violence"}},
		{"Family & Children", []string{"child care", "childcare", "head start", "early childhood", "youth", "family"}},
		{"Employment & Financial Help", []string{"employment", "job", "career", "workforce", "utility assistance"}},
		{"Disability & Senior Services", []string{"senior", "older adults", "disability", "disabilities"}},
		{"Community Resource", []string{"community center", "library", "recreation center"}},
	}
}

// Predict returns the first category whose keyword occurs in any of the
// given texts, or "" when nothing matches.
func (m KeywordMap) Predict(texts ...string) string {
	haystack := strings.ToLower(strings.Join(texts, " "))
	if strings.TrimSpace(haystack) == "" {
		return ""
	}

	for _, rule := range m {
		for _, kw := range rule.Keywords {
			if kw != "" && strings.Contains(haystack, strings.ToLower(kw)) {
				return rule.Category
			}
		}
	}

	return ""
}
