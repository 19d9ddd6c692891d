package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Food Pantry":                   "food-pantry",
		"  Crisis & Emergency  ":        "crisis-emergency",
		"St. Vincent's -- Soup Kitchen": "st-vincent-s-soup-kitchen",
		"!!!":                           "",
		"ALL CAPS 24/7":                 "all-caps-24-7",
	}

	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestSlugWithSuffix(t *testing.T) {
	assert.Equal(t, "food-bank-1z", SlugWithSuffix("Food Bank", Base36(71)))
	assert.Equal(t, "resource-a", SlugWithSuffix("???", "a"))
	assert.Equal(t, "food-bank", SlugWithSuffix("Food Bank", ""))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"English", "Spanish"}, SplitList("English, Spanish"))
	assert.Equal(t, []string{"English"}, SplitList(" English ,, "))
	assert.Nil(t, SplitList(""))
	assert.Nil(t, SplitList(" , "))
}
