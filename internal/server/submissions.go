package server

import (
	"net/http"
	"strings"

	"humanaid/pkg/types"

	"github.com/sirupsen/logrus"
)

type createSubmissionResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	SubmissionID int64  `json:"submissionId"`
}

type reviewResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	*types.ReviewOutcome
}

type suggestRequest struct {
	URL string `json:"url"`
}

func (s *Service) handleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	var input types.SubmissionInput
	if err := decodeJSON(r, &input); err != nil {
		s.writeError(w, r, err)
		return
	}

	// A signed-in submitter is recorded from the token, not the body.
	if identity := identityFromContext(r.Context()); identity != nil {
		input.SubmittedByUID = identity.Subject
		if strings.TrimSpace(input.SubmittedBy) == "" {
			input.SubmittedBy = identity.Email
		}
		if strings.TrimSpace(input.SubmittedByName) == "" {
			input.SubmittedByName = identity.Name
		}
	} else {
		input.SubmittedByUID = ""
	}

	submission, err := s.moderation.Submit(r.Context(), input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createSubmissionResponse{
		Success:      true,
		Message:      "Submission received and pending review",
		SubmissionID: submission.ID,
	})
}

func (s *Service) handleSuggest(w http.ResponseWriter, r *http.Request) {
	if s.suggester == nil {
		s.writeError(w, r, types.ErrSuggesterDisabled)
		return
	}

	var req suggestRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	draft, err := s.suggester.Suggest(r.Context(), req.URL)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, draft)
}

func (s *Service) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	status := types.SubmissionStatus(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status"))))

	submissions, err := s.moderation.Submissions(r.Context(), status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if submissions == nil {
		submissions = []*types.SubmissionListing{}
	}

	writeJSON(w, http.StatusOK, submissions)
}

func (s *Service) handleReviewSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var input types.ReviewInput
	if err := decodeJSON(r, &input); err != nil {
		s.writeError(w, r, err)
		return
	}
	input.Action = types.ReviewAction(strings.ToLower(strings.TrimSpace(string(input.Action))))

	// The audit trail names the authenticated admin, never the body.
	reviewer, err := s.currentUser(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	input.ReviewedBy = reviewer.ExternalUID
	if reviewer.Email != nil && *reviewer.Email != "" {
		input.ReviewedBy = *reviewer.Email
	}

	outcome, err := s.moderation.Review(r.Context(), id, input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.requestLogger(r).WithFields(logrus.Fields{
		"submission_id": id,
		"status":        outcome.Status,
	}).Info("submission reviewed")

	message := "Submission rejected"
	if outcome.Status == types.SubmissionStatusApproved {
		message = "Submission approved and published"
	}

	writeJSON(w, http.StatusOK, reviewResponse{
		Success:       true,
		Message:       message,
		ReviewOutcome: outcome,
	})
}
