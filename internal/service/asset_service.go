package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/portfolio-insights/internal/graphql"
	"github.com/portfolio-insights/internal/storage"
	"github.com/portfolio-insights/internal/types"
)

// assetDetailFields are the columns exposed by the asset_details table
var assetDetailFields = []string{
	"Asset_Name",
	"Support_Provided",
	"Latest_Developments",
	"Status",
	"Description",
	"Website",
	"Base_Currency",
	"Deal_Support",
	"Deal_Lead",
	"Sector_ID",
	"Sector_Name",
}

// metricChartFields are the columns shared by the plan and actuals
// metric chart tables
var metricChartFields = []string{
	"Asset_Name",
	"Chart_Metric_Name",
	"Chart_Period_ID",
	"Chart_Period_Type",
	"Chart_Period_Title",
	"Chart_Values",
	"Chart_Metric_Unit",
	"Currency_Code",
}

// metricChartRow is one warehouse row from a metric chart table
type metricChartRow struct {
	AssetName   string      `json:"Asset_Name"`
	MetricName  string      `json:"Chart_Metric_Name"`
	PeriodID    string      `json:"Chart_Period_ID"`
	PeriodType  string      `json:"Chart_Period_Type"`
	PeriodTitle string      `json:"Chart_Period_Title"`
	Value       json.Number `json:"Chart_Values"`
	Unit        string      `json:"Chart_Metric_Unit"`
	Currency    string      `json:"Currency_Code"`
}

// AssetService serves asset details, listings, and metric series from the
// warehouse, with Redis caching in front.
type AssetService struct {
	warehouse warehouse
	cache     *storage.CacheService
}

// NewAssetService creates a new asset service
func NewAssetService(w warehouse, cache *storage.CacheService) *AssetService {
	return &AssetService{warehouse: w, cache: cache}
}

// GetAssetDetails returns the asset_details rows for one asset name.
// Zero rows is a valid result, distinguished from upstream failure.
func (s *AssetService) GetAssetDetails(ctx context.Context, assetName string) ([]map[string]interface{}, error) {
	key := s.cache.GenerateCacheKey(storage.CacheKeyAssetDetails, assetName)

	var cached []map[string]interface{}
	if cacheGet(ctx, s.cache, key, &cached) {
		return cached, nil
	}

	query := graphql.BuildEntityQuery("asset_details", assetDetailFields, "Asset_Name")
	resp, err := s.warehouse.Query(ctx, query, map[string]interface{}{"Asset_Name": assetName})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch asset details: %w", err)
	}

	rows := resp.Records("asset_details")
	cacheSet(ctx, s.cache, key, rows)
	return rows, nil
}

// GetAssetList returns the distinct asset names, optionally filtered by
// sector. Sector 0 means all sectors.
func (s *AssetService) GetAssetList(ctx context.Context, sectorID int) ([]string, error) {
	key := s.cache.GenerateCacheKey(storage.CacheKeyAssetList, strconv.Itoa(sectorID))

	var cached []string
	if cacheGet(ctx, s.cache, key, &cached) {
		return cached, nil
	}

	var query string
	variables := map[string]interface{}{}
	if sectorID == 0 {
		query = graphql.BuildDistinctQuery("asset_details", "Asset_Name", "")
	} else {
		query = graphql.BuildDistinctQuery("asset_details", "Asset_Name", "Sector_ID")
		variables["Sector_ID"] = strconv.Itoa(sectorID)
	}

	resp, err := s.warehouse.Query(ctx, query, variables)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch asset list: %w", err)
	}

	names := []string{}
	for _, row := range resp.Records("asset_details") {
		if name, ok := row["Asset_Name"].(string); ok {
			names = append(names, name)
		}
	}

	cacheSet(ctx, s.cache, key, names)
	return names, nil
}

// GetAssetMetrics returns the nested asset -> metric -> observations map
// from the plan or actuals chart table.
func (s *AssetService) GetAssetMetrics(ctx context.Context, assetName string, isPlan bool) (types.AssetMetrics, error) {
	table := "metrics_charts_actuals"
	if isPlan {
		table = "metrics_charts_plan"
	}

	key := s.cache.GenerateCacheKey(storage.CacheKeyAssetMetrics, assetName, table)

	var cached types.AssetMetrics
	if cacheGet(ctx, s.cache, key, &cached) {
		return cached, nil
	}

	query := graphql.BuildEntityQuery(table, metricChartFields, "Asset_Name")
	resp, err := s.warehouse.Query(ctx, query, map[string]interface{}{"Asset_Name": assetName})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch asset metrics: %w", err)
	}

	var rows []metricChartRow
	if err := resp.Decode(table, &rows); err != nil {
		return nil, err
	}

	metrics := types.AssetMetrics{}
	for _, row := range rows {
		if metrics[row.AssetName] == nil {
			metrics[row.AssetName] = map[string][]types.MetricRecord{}
		}
		metrics[row.AssetName][row.MetricName] = append(metrics[row.AssetName][row.MetricName], types.MetricRecord{
			Period:       row.PeriodID,
			PeriodType:   types.PeriodType(row.PeriodType),
			PeriodTitle:  row.PeriodTitle,
			Value:        row.Value.String(),
			CurrencyCode: row.Currency,
			Unit:         row.Unit,
		})
	}

	cacheSet(ctx, s.cache, key, metrics)
	return metrics, nil
}
