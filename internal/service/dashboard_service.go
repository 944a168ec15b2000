package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/portfolio-insights/internal/storage"
)

// DashboardCounts is the distinct-count aggregate shown on the dashboard
// landing page.
type DashboardCounts struct {
	ScopeCount         int `json:"scopeCount"`
	AssetCount         int `json:"assetCount"`
	DealByDealIRRCount int `json:"dealByDealIRRCount"`
	DealListCount      int `json:"dealListCount"`
	MetricsCount       int `json:"metricsCount"`
}

// countsQuery aggregates distinct entity counts across the five warehouse
// tables in a single round trip.
const countsQuery = `
    query GetCounts {
      scope_details_aggregate(distinct_on: Scope_Name) {
        aggregate {
          count
        }
      }
      asset_details_aggregate(distinct_on: Asset_Name) {
        aggregate {
          count
        }
      }
      deal_by_deal_irr_aggregate(distinct_on: Asset_Name) {
        aggregate {
          count
        }
      }
      deal_list_details_aggregate(distinct_on: Asset_Name) {
        aggregate {
          count
        }
      }
      metrics_charts_actuals_aggregate(distinct_on: Asset_Name) {
        aggregate {
          count
        }
      }
    }
  `

type countAggregate struct {
	Aggregate struct {
		Count int `json:"count"`
	} `json:"aggregate"`
}

// DashboardService serves the dashboard count aggregate
type DashboardService struct {
	warehouse warehouse
	cache     *storage.CacheService
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(w warehouse, cache *storage.CacheService) *DashboardService {
	return &DashboardService{warehouse: w, cache: cache}
}

// GetCounts returns the distinct-count aggregate. Missing aggregates
// yield zero counts rather than an error.
func (s *DashboardService) GetCounts(ctx context.Context) (*DashboardCounts, error) {
	key := s.cache.GenerateCacheKey(storage.CacheKeyDashboardCounts)

	var cached DashboardCounts
	if cacheGet(ctx, s.cache, key, &cached) {
		return &cached, nil
	}

	resp, err := s.warehouse.Query(ctx, countsQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dashboard counts: %w", err)
	}

	counts := &DashboardCounts{
		ScopeCount:         decodeCount(resp.Data["scope_details_aggregate"]),
		AssetCount:         decodeCount(resp.Data["asset_details_aggregate"]),
		DealByDealIRRCount: decodeCount(resp.Data["deal_by_deal_irr_aggregate"]),
		DealListCount:      decodeCount(resp.Data["deal_list_details_aggregate"]),
		MetricsCount:       decodeCount(resp.Data["metrics_charts_actuals_aggregate"]),
	}

	cacheSet(ctx, s.cache, key, counts)
	return counts, nil
}

func decodeCount(raw []byte) int {
	if len(raw) == 0 {
		return 0
	}
	var agg countAggregate
	if err := json.Unmarshal(raw, &agg); err != nil {
		return 0
	}
	return agg.Aggregate.Count
}
