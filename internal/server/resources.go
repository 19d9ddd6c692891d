package server

import (
	"context"
	"net/http"
	"time"

	"humanaid/pkg/types"
)

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Service) handleDBHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if s.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "error", "database": "not configured"})
		return
	}

	if err := s.db.Ping(ctx); err != nil {
		s.requestLogger(r).WithError(err).Error("database health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "error", "database": "unreachable"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "database": "connected"})
}

func (s *Service) handleListResources(w http.ResponseWriter, r *http.Request) {
	params, err := decodeListParams(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	page, err := s.resources.Resources(r.Context(), params.filter())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (s *Service) handleGetResource(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resource, err := s.resources.Resource(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resource)
}

func (s *Service) handleListCategories(w http.ResponseWriter, r *http.Request) {
	params := new(categoryParams)
	if err := decoder.Decode(params, r.URL.Query()); err != nil {
		s.writeError(w, r, types.NewValidationError("query", "malformed query string"))
		return
	}

	filter, err := params.filter()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	categories, err := s.categories.Categories(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if categories == nil {
		categories = []*types.CategoryListing{}
	}

	writeJSON(w, http.StatusOK, categories)
}

func (s *Service) handleSearch(w http.ResponseWriter, r *http.Request) {
	params := new(searchParams)
	if err := decoder.Decode(params, r.URL.Query()); err != nil {
		s.writeError(w, r, types.NewValidationError("query", "malformed query string"))
		return
	}

	result, err := s.search.Search(r.Context(), params.request())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Service) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.resources.Stats(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (s *Service) handleAdminListResources(w http.ResponseWriter, r *http.Request) {
	params, err := decodeListParams(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	page, err := s.resources.AdminResources(r.Context(), params.adminFilter())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (s *Service) handleAdminUpdateResource(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var patch types.ResourcePatch
	if err := decodeJSON(r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}

	resource, err := s.editor.Update(r.Context(), id, patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.requestLogger(r).WithField("resource_id", id).Info("resource updated")

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Resource updated",
		"resource": resource,
	})
}
