package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/portfolio-insights/internal/models"
	"github.com/portfolio-insights/internal/types"
)

// createUserRequest is the body for POST /api/users.
type createUserRequest struct {
	Email string         `json:"email"`
	Tier  types.UserTier `json:"tier"`
}

// updateTierRequest is the body for PUT /api/users/{id}/tier.
type updateTierRequest struct {
	Tier types.UserTier `json:"tier"`
}

func validTier(tier types.UserTier) bool {
	return tier == types.TierFree || tier == types.TierPaid
}

// handleCreateUser registers a user record for rate-limit tiering.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" {
		respondError(w, http.StatusBadRequest, "Email is required")
		return
	}
	if req.Tier != "" && !validTier(req.Tier) {
		respondError(w, http.StatusBadRequest, "Invalid tier")
		return
	}

	user := &models.User{Email: req.Email, Tier: req.Tier}
	if err := s.userStore.Create(r.Context(), user); err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// handleGetUser returns one user record.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	user, err := s.userStore.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// handleUpdateUserTier changes a user's service tier.
func (s *Server) handleUpdateUserTier(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req updateTierRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !validTier(req.Tier) {
		respondError(w, http.StatusBadRequest, "Invalid tier")
		return
	}

	if err := s.userStore.UpdateTier(r.Context(), id, req.Tier); err != nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
