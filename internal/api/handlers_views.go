package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/portfolio-insights/internal/types"
)

// saveViewRequest is the body for POST /api/views.
type saveViewRequest struct {
	Type   types.ViewType   `json:"type"`
	Source types.ViewSource `json:"source"`
	Title  string           `json:"title"`
	Data   json.RawMessage  `json:"data"`
}

// handleSaveView persists a chart or table view for the caller. The
// identity comes from X-User-ID; an absent identity fails closed with
// {success:false} instead of an HTTP error so the dashboard can render
// the outcome inline.
func (s *Server) handleSaveView(w http.ResponseWriter, r *http.Request) {
	var req saveViewRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result := s.viewService.SaveView(r.Context(), userID(r), req.Data, req.Type, req.Source, req.Title)
	respondJSON(w, http.StatusOK, result)
}

// handleListViews returns the caller's saved views, newest first.
func (s *Server) handleListViews(w http.ResponseWriter, r *http.Request) {
	result := s.viewService.ListViews(r.Context(), userID(r))
	respondJSON(w, http.StatusOK, result)
}

// handleGetView returns one saved view; other users' views read as absent.
func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	result := s.viewService.GetView(r.Context(), userID(r), mux.Vars(r)["id"])
	respondJSON(w, http.StatusOK, result)
}

// handleDeleteView removes one of the caller's saved views.
func (s *Server) handleDeleteView(w http.ResponseWriter, r *http.Request) {
	result := s.viewService.DeleteView(r.Context(), userID(r), mux.Vars(r)["id"])
	respondJSON(w, http.StatusOK, result)
}

// handleGetPreference returns the caller's stored settings for a view.
func (s *Server) handleGetPreference(w http.ResponseWriter, r *http.Request) {
	viewID := mux.Vars(r)["viewID"]

	pref, found, err := s.preferenceService.Get(r.Context(), userID(r), viewID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Preference not found")
		return
	}

	respondJSON(w, http.StatusOK, pref)
}

// handleSavePreference upserts the caller's settings for a view.
// Last write wins.
func (s *Server) handleSavePreference(w http.ResponseWriter, r *http.Request) {
	viewID := mux.Vars(r)["viewID"]

	var settings json.RawMessage
	if err := parseJSONBody(r, &settings); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.preferenceService.Save(r.Context(), userID(r), viewID, settings); err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleDeletePreference clears the caller's settings for a view.
func (s *Server) handleDeletePreference(w http.ResponseWriter, r *http.Request) {
	viewID := mux.Vars(r)["viewID"]

	if err := s.preferenceService.Delete(r.Context(), userID(r), viewID); err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
