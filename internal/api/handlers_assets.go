package api

import (
	"net/http"
	"strconv"
)

// handleAssetDetails returns the detail record for one asset.
func (s *Server) handleAssetDetails(w http.ResponseWriter, r *http.Request) {
	assetName := r.URL.Query().Get("asset-name")
	if assetName == "" {
		respondError(w, http.StatusBadRequest, "Asset name is required")
		return
	}

	rows, err := s.assetService.GetAssetDetails(r.Context(), assetName)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	// No rows is data absence, not a failure
	if len(rows) == 0 {
		respondError(w, http.StatusNotFound, "Asset not found")
		return
	}

	respondJSON(w, http.StatusOK, rows[0])
}

// handleAssetMetrics returns the nested metric observations for one asset.
func (s *Server) handleAssetMetrics(w http.ResponseWriter, r *http.Request) {
	assetName := r.URL.Query().Get("asset-name")
	if assetName == "" {
		respondError(w, http.StatusBadRequest, "Asset name is required")
		return
	}

	isPlan, _ := strconv.ParseBool(r.URL.Query().Get("isPlan"))

	metrics, err := s.assetService.GetAssetMetrics(r.Context(), assetName, isPlan)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	if len(metrics[assetName]) == 0 {
		respondError(w, http.StatusNotFound, "Asset not found or has no data")
		return
	}

	respondJSON(w, http.StatusOK, metrics)
}

// handleAssetList returns asset names, optionally filtered by sector.
func (s *Server) handleAssetList(w http.ResponseWriter, r *http.Request) {
	sectorID := 0
	if sid := r.URL.Query().Get("sid"); sid != "" {
		parsed, err := strconv.Atoi(sid)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid sector ID")
			return
		}
		sectorID = parsed
	}

	names, err := s.assetService.GetAssetList(r.Context(), sectorID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"assetList": names})
}

// handleDashboardCounts returns distinct-entity counts across the warehouse.
func (s *Server) handleDashboardCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := s.dashboardService.GetCounts(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, counts)
}
