package server

import (
	"net/http"
	"strings"

	"humanaid/pkg/types"
)

func (s *Service) handleUserSync(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	if identity == nil {
		s.writeError(w, r, errUnauthenticated)
		return
	}

	var input types.UserSyncInput
	if err := decodeJSON(r, &input); err != nil {
		s.writeError(w, r, err)
		return
	}

	// Email is matched when promoting admins, so only the verified claim
	// is trusted. Profile fields fall back to the claims.
	input.Email = identity.Email
	if strings.TrimSpace(input.DisplayName) == "" {
		input.DisplayName = identity.Name
	}
	if strings.TrimSpace(input.PhotoURL) == "" {
		input.PhotoURL = identity.Picture
	}

	user, err := s.users.UpsertIdentity(r.Context(), identity.Subject, input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (s *Service) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	favorites, err := s.favorites.FavoritesByUser(r.Context(), user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if favorites == nil {
		favorites = []*types.ResourceListing{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":     len(favorites),
		"resources": favorites,
	})
}

func (s *Service) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	resourceID, err := parsePathID(r.PathValue("resourceID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.currentUser(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	favorited, err := s.favorites.Toggle(r.Context(), user.ID, resourceID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"resourceId": resourceID,
		"favorited":  favorited,
	})
}
