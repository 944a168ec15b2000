package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/portfolio-insights/internal/service"
	"github.com/portfolio-insights/internal/types"
)

// parseSeriesQuery reads the shared metric-series parameters.
func parseSeriesQuery(query url.Values) (service.SeriesQuery, string) {
	assetName := query.Get("asset-name")
	if assetName == "" {
		return service.SeriesQuery{}, "Asset name is required"
	}

	metrics := splitList(query.Get("metrics"))
	if len(metrics) == 0 {
		return service.SeriesQuery{}, "At least one metric is required"
	}

	periodType := types.PeriodQuarterly
	switch query.Get("period-type") {
	case "", string(types.PeriodQuarterly):
	case string(types.PeriodAnnual):
		periodType = types.PeriodAnnual
	default:
		return service.SeriesQuery{}, "Invalid period type"
	}

	return service.SeriesQuery{
		AssetName:  assetName,
		Metrics:    metrics,
		PeriodType: periodType,
		IsPlan:     query.Get("isPlan") == "true",
		InUSD:      query.Get("inUSD") == "true",
	}, ""
}

// parseTableOptions reads the interactive table state parameters.
func parseTableOptions(query url.Values) service.TableOptions {
	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("page-size"))
	return service.TableOptions{
		SortBy:     query.Get("sort-by"),
		Descending: query.Get("order") == "desc",
		Page:       page,
		PageSize:   pageSize,
		Hidden:     splitList(query.Get("hidden")),
	}
}

// splitList splits a comma-separated parameter, dropping empty entries.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// handleMetricChart returns the chart projection of the selected metric
// series: one point per period per metric, zero-filled.
func (s *Server) handleMetricChart(w http.ResponseWriter, r *http.Request) {
	q, problem := parseSeriesQuery(r.URL.Query())
	if problem != "" {
		respondError(w, http.StatusBadRequest, problem)
		return
	}

	rows, err := s.projectionService.GetMetricChart(r.Context(), q)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, rows)
}

// handleMetricTable returns a rendered table page of the selected metric
// series.
func (s *Server) handleMetricTable(w http.ResponseWriter, r *http.Request) {
	q, problem := parseSeriesQuery(r.URL.Query())
	if problem != "" {
		respondError(w, http.StatusBadRequest, problem)
		return
	}

	page, err := s.projectionService.GetMetricTable(r.Context(), q, parseTableOptions(r.URL.Query()))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, page)
}

// handleDealTable returns a rendered table page of the asset's deal list.
func (s *Server) handleDealTable(w http.ResponseWriter, r *http.Request) {
	assetName := r.URL.Query().Get("asset-name")
	if assetName == "" {
		respondError(w, http.StatusBadRequest, "Asset name is required")
		return
	}

	page, err := s.projectionService.GetDealTable(r.Context(), assetName, parseTableOptions(r.URL.Query()))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, page)
}
