package service

import (
	"context"
	"fmt"

	"github.com/portfolio-insights/internal/graphql"
	"github.com/portfolio-insights/internal/storage"
)

// internationalMetricFields are the columns of the
// metrics_charts_international table
var internationalMetricFields = []string{
	"Asset_Name",
	"Chart_Metric_Name",
	"Chart_Values",
	"Chart_Period_Type",
	"Chart_Period_Title",
	"Chart_Period_ID",
}

// MetricsService serves country-level metric series
type MetricsService struct {
	warehouse warehouse
	cache     *storage.CacheService
}

// NewMetricsService creates a new metrics service
func NewMetricsService(w warehouse, cache *storage.CacheService) *MetricsService {
	return &MetricsService{warehouse: w, cache: cache}
}

// GetInternationalMetrics returns the metrics_charts_international rows
// for one asset. Null chart values stay null; absence is meaningful to
// table consumers downstream.
func (s *MetricsService) GetInternationalMetrics(ctx context.Context, assetName string) ([]map[string]interface{}, error) {
	key := s.cache.GenerateCacheKey(storage.CacheKeyInternational, assetName)

	var cached []map[string]interface{}
	if cacheGet(ctx, s.cache, key, &cached) {
		return cached, nil
	}

	query := graphql.BuildEntityQuery("metrics_charts_international", internationalMetricFields, "Asset_Name")
	resp, err := s.warehouse.Query(ctx, query, map[string]interface{}{"Asset_Name": assetName})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch international metrics: %w", err)
	}

	rows := resp.Records("metrics_charts_international")
	cacheSet(ctx, s.cache, key, rows)
	return rows, nil
}
