package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrResourceNotFound   = errors.New("resource not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrCategoryNotFound   = errors.New("category not found")

	ErrInvalidTransition = errors.New("invalid submission state transition")
	ErrInvalidAction     = errors.New(`invalid action, use "approve" or "reject"`)

	ErrSuggesterDisabled = errors.New("field suggester is not configured")
)

// ValidationError maps input field names to a human readable problem.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
