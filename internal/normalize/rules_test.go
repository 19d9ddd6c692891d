package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func canonicalIDs() map[string]int64 {
	out := make(map[string]int64, len(CanonicalCategories))
	for i, name := range CanonicalCategories {
		out[name] = int64(i + 1)
	}
	return out
}

func TestClassify_PriorityMatchWins(t *testing.T) {
	rules := DefaultRules()

	plan := rules.Classify([]string{"Food Pantry", "Senior Services"}, canonicalIDs(), "", nil)

	assert.Equal(t, "Food Pantry", plan.Primary)
	assert.Equal(t, []string{"Senior Services"}, plan.Tags)
}

func TestClassify_FallbackWhenNothingCanonical(t *testing.T) {
	rules := DefaultRules()

	plan := rules.Classify([]string{"Senior Services"}, canonicalIDs(), "", nil)

	assert.Equal(t, "Community Resource", plan.Primary)
	assert.Equal(t, []string{"Senior Services"}, plan.Tags)
	assert.Nil(t, plan.FoodDistOnsite)
}

func TestClassify_PriorityIgnoresRawOrder(t *testing.T) {
	rules := DefaultRules()

	plan := rules.Classify([]string{"Legal Assistance", "Medical Care", "Food Pantry"}, canonicalIDs(), "", nil)

	assert.Equal(t, "Food Pantry", plan.Primary)
	assert.Equal(t, []string{"Legal Assistance", "Medical Care"}, plan.Tags)
}

func TestClassify_UnrankedCanonicalKeepsRawOrder(t *testing.T) {
	rules := DefaultRules()
	rules.Priority = []string{"Food Pantry"}

	plan := rules.Classify([]string{"Legal Assistance", "Medical Care"}, canonicalIDs(), "", nil)

	assert.Equal(t, "Legal Assistance", plan.Primary)
	assert.Equal(t, []string{"Medical Care"}, plan.Tags)
}

func TestClassify_TagsDedupedBySlug(t *testing.T) {
	rules := DefaultRules()

	plan := rules.Classify([]string{" Senior Services ", "senior services", "", "Food Pantry", "food-pantry"}, canonicalIDs(), "", nil)

	assert.Equal(t, "Food Pantry", plan.Primary)
	assert.Equal(t, []string{"Senior Services"}, plan.Tags)
}

func TestClassify_OnsiteHeuristic(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name        string
		raw         []string
		description string
		stated      *bool
		want        *bool
	}{
		{"keyword found", []string{"Food Pantry"}, "Weekly PICKUP on Fridays", nil, boolPtr(true)},
		{"no keyword", []string{"Food Pantry"}, "Hot meals served daily", nil, boolPtr(false)},
		{"stated value wins", []string{"Food Pantry"}, "Mobile market", boolPtr(false), nil},
		{"not food", []string{"Medical Care"}, "pantry on site", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := rules.Classify(tt.raw, canonicalIDs(), tt.description, tt.stated)
			assert.Equal(t, tt.want, plan.FoodDistOnsite)
		})
	}
}

func TestWithOverrides(t *testing.T) {
	rules := DefaultRules().WithOverrides([]string{" Medical Care ", "", "Food Pantry"}, nil)

	require.Equal(t, []string{"Medical Care", "Food Pantry"}, rules.Priority)
	assert.Equal(t, DefaultRules().OnsiteKeywords, rules.OnsiteKeywords)

	plan := rules.Classify([]string{"Food Pantry", "Medical Care"}, canonicalIDs(), "", nil)
	assert.Equal(t, "Medical Care", plan.Primary)
}

func boolPtr(b bool) *bool {
	return &b
}
