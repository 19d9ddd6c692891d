package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var slugSeparatorReg = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s, collapses every run of non alphanumeric characters
// into a single dash and trims dashes from both ends.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugSeparatorReg.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SlugWithSuffix joins the slug of name with the given suffix parts.
// Names that slugify to nothing fall back to "resource".
func SlugWithSuffix(name string, suffix ...string) string {
	base := Slugify(name)
	if base == "" {
		base = "resource"
	}

	parts := []string{base}
	for _, s := range suffix {
		if s = Slugify(s); s != "" {
			parts = append(parts, s)
		}
	}

	return strings.Join(parts, "-")
}

func Base36(i int64) string {
	return strconv.FormatInt(i, 36)
}

// SplitList splits a comma separated string, trimming every entry and
// dropping blanks. It returns nil rather than an empty slice.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
