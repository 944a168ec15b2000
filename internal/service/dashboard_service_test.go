package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/portfolio-insights/internal/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_GetCounts(t *testing.T) {
	w := &stubWarehouse{resp: &graphql.Response{Data: map[string]json.RawMessage{
		"scope_details_aggregate":          json.RawMessage(`{"aggregate":{"count":3}}`),
		"asset_details_aggregate":          json.RawMessage(`{"aggregate":{"count":12}}`),
		"deal_by_deal_irr_aggregate":       json.RawMessage(`{"aggregate":{"count":7}}`),
		"deal_list_details_aggregate":      json.RawMessage(`{"aggregate":{"count":9}}`),
		"metrics_charts_actuals_aggregate": json.RawMessage(`{"aggregate":{"count":11}}`),
	}}}
	svc := NewDashboardService(w, testCache(t))

	counts, err := svc.GetCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &DashboardCounts{
		ScopeCount:         3,
		AssetCount:         12,
		DealByDealIRRCount: 7,
		DealListCount:      9,
		MetricsCount:       11,
	}, counts)
}

func TestDashboardService_GetCountsMissingData(t *testing.T) {
	w := &stubWarehouse{resp: &graphql.Response{Data: map[string]json.RawMessage{}}}
	svc := NewDashboardService(w, testCache(t))

	counts, err := svc.GetCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &DashboardCounts{}, counts)
}

func TestDashboardService_GetCountsCached(t *testing.T) {
	w := &stubWarehouse{resp: &graphql.Response{Data: map[string]json.RawMessage{
		"asset_details_aggregate": json.RawMessage(`{"aggregate":{"count":12}}`),
	}}}
	svc := NewDashboardService(w, testCache(t))

	ctx := context.Background()
	_, err := svc.GetCounts(ctx)
	require.NoError(t, err)
	counts, err := svc.GetCounts(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, w.calls)
	assert.Equal(t, 12, counts.AssetCount)
}
