package api

import "net/http"

// handleDealList returns deal list rows for one asset. An empty result is
// a valid response, not a 404: assets legitimately have no deals.
func (s *Server) handleDealList(w http.ResponseWriter, r *http.Request) {
	assetName := r.URL.Query().Get("asset-name")
	if assetName == "" {
		respondError(w, http.StatusBadRequest, "Asset name is required")
		return
	}

	rows, err := s.dealService.GetDealList(r.Context(), assetName)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, rows)
}

// handleDealCashflow returns deal-by-deal cashflow rows for one asset.
func (s *Server) handleDealCashflow(w http.ResponseWriter, r *http.Request) {
	assetName := r.URL.Query().Get("asset-name")
	if assetName == "" {
		respondError(w, http.StatusBadRequest, "Asset name is required")
		return
	}

	rows, err := s.dealService.GetDealCashflow(r.Context(), assetName)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, rows)
}

// handleInternationalMetrics returns international metric rows for one asset.
func (s *Server) handleInternationalMetrics(w http.ResponseWriter, r *http.Request) {
	assetName := r.URL.Query().Get("asset-name")
	if assetName == "" {
		respondError(w, http.StatusBadRequest, "Asset name is required")
		return
	}

	rows, err := s.metricsService.GetInternationalMetrics(r.Context(), assetName)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, rows)
}
