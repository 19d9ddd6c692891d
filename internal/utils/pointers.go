package utils

import (
	"encoding/json"
	"fmt"
)

func BoolPtr(b bool) *bool {
	return &b
}

func Float64Ptr(f float64) *float64 {
	return &f
}

func Int64Ptr(i int64) *int64 {
	return &i
}

func StringPtr(s string) *string {
	return &s
}

// StringPtrOrNil returns nil for the empty string.
func StringPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func PtrFloat64(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func PtrString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func MustMarshalJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("failed to marshal to JSON: %w", err))
	}
	return data
}

const columnPrefixFmt = "%s.%s"

// PrefixSliceOfStrings qualifies every column with a table alias, skipping
// the ignored ones.
func PrefixSliceOfStrings(prefix string, input []string, ignore ...string) []string {
	out := make([]string, 0, len(input))

inputloop:
	for _, v := range input {
		for _, ignored := range ignore {
			if v == ignored {
				continue inputloop
			}
		}

		out = append(out, fmt.Sprintf(columnPrefixFmt, prefix, v))
	}
	return out
}
