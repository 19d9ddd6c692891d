package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"humanaid/pkg/types"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps domain errors onto HTTP status codes. Transition errors
// are checked first because they also match ErrSubmissionNotFound.
func statusFor(err error) int {
	var verr *types.ValidationError
	switch {
	case errors.As(err, &verr), errors.Is(err, types.ErrInvalidAction):
		return http.StatusBadRequest
	case errors.Is(err, errUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, types.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, types.ErrSubmissionNotFound),
		errors.Is(err, types.ErrResourceNotFound),
		errors.Is(err, types.ErrUserNotFound),
		errors.Is(err, types.ErrCategoryNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrSuggesterDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Service) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	if status == http.StatusInternalServerError {
		s.requestLogger(r).WithError(err).Error("request failed")
		writeMessage(w, status, "internal server error")
		return
	}

	var verr *types.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, status, errorResponse{Error: "validation failed", Fields: verr.Fields})
		return
	}

	writeMessage(w, status, err.Error())
}

// decodeJSON reads a bounded JSON body into v. An empty body leaves v
// untouched.
func decodeJSON(r *http.Request, v any) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return types.NewValidationError("body", fmt.Sprintf("invalid JSON: %v", err))
	}
	return nil
}
