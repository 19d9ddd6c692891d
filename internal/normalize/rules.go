package normalize

import (
	"strings"

	"humanaid/internal/utils"
)

// CanonicalCategories is the seeded taxonomy in priority order. Food
// assistance outranks everything else.
var CanonicalCategories = []string{
	"Food Pantry",
	"Housing Assistance",
	"Mental Health",
	"Medical Care",
	"Legal Assistance",
	"Crisis & Emergency",
	"Family & Children",
	"Employment & Financial Help",
	"Disability & Senior Services",
	"Community Resource",
}

// Rules are the tables driving classification.
type Rules struct {
	Priority       []string
	Fallback       string
	FoodCategory   string
	OnsiteKeywords []string
}

func DefaultRules() Rules {
	return Rules{
		Priority:       append([]string(nil), CanonicalCategories...),
		Fallback:       "Community Resource",
		FoodCategory:   "Food Pantry",
		OnsiteKeywords: []string{"pickup", "distribution", "market", "pantry"},
	}
}

// WithOverrides replaces the priority list and onsite keywords when the
// overrides are non-empty.
func (r Rules) WithOverrides(priority, keywords []string) Rules {
	if p := trimAll(priority); len(p) > 0 {
		r.Priority = p
	}
	if k := trimAll(keywords); len(k) > 0 {
		r.OnsiteKeywords = k
	}
	return r
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Plan is the outcome of classifying a resource. FoodDistOnsite is only set
// when it was derived by the keyword heuristic.
type Plan struct {
	Primary        string
	Tags           []string
	FoodDistOnsite *bool
}

func (r Rules) rank(name string) int {
	for i, p := range r.Priority {
		if p == name {
			return i
		}
	}
	return len(r.Priority)
}

// Classify picks exactly one primary category out of raw and turns the
// remaining names into tags. canonical holds every seeded category name.
// statedOnsite is the value the submitter gave, if any.
func (r Rules) Classify(raw []string, canonical map[string]int64, description string, statedOnsite *bool) Plan {
	names := trimAll(raw)

	primary := ""
	best := -1
	for _, name := range names {
		if _, ok := canonical[name]; !ok {
			continue
		}
		// ties keep the earliest raw name
		if rank := r.rank(name); best == -1 || rank < best {
			primary, best = name, rank
		}
	}
	if primary == "" {
		primary = r.Fallback
	}

	plan := Plan{Primary: primary}

	seen := map[string]bool{utils.Slugify(primary): true}
	for _, name := range names {
		slug := utils.Slugify(name)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		plan.Tags = append(plan.Tags, name)
	}

	if primary == r.FoodCategory && statedOnsite == nil {
		onsite := r.LooksOnsite(description)
		plan.FoodDistOnsite = &onsite
	}

	return plan
}

// LooksOnsite is a best effort guess at whether food is handed out on site.
// It only scans for keywords and is never authoritative.
func (r Rules) LooksOnsite(description string) bool {
	desc := strings.ToLower(description)
	for _, kw := range r.OnsiteKeywords {
		if strings.Contains(desc, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
