package service

import (
	"context"
	"fmt"

	"github.com/portfolio-insights/internal/graphql"
	"github.com/portfolio-insights/internal/storage"
)

// dealListFields are the columns of the deal_list_details table
var dealListFields = []string{
	"Asset_Name",
	"Currency",
	"Deal_Expense",
	"Deal_Gross_Multiple",
	"Deal_Income",
	"Deal_Serial_Numbers",
	"Deal_Total_Value",
	"Entity_Names",
	"Fair_Market_Value",
	"Fully_Diluted_Ownership_percent",
	"Initial_Date",
	"Initial_Investment_Cost",
	"Investment_Rounds",
	"Number_of_Units_Remaining",
	"Proceeds",
	"Realized_Amount",
	"Realized_Gain_perLoss",
	"Remaining_Investment_Cost",
	"Unrealized_Gain_perLoss",
	"Value_per_Unit",
}

// dealCashflowFields are the columns of the deal_by_deal_irr table
var dealCashflowFields = []string{
	"Asset_Name",
	"Transaction_Date",
	"Total_Amount",
	"Percent_Allocation",
	"Net_IRR",
	"Latest_Valuation_Date",
	"Investor_Name",
	"Investment_FMV_NAV",
	"IRR_Date",
	"Gross_IRR",
	"Fund_Vehicle_Name",
	"Deal_Name",
	"Deal_ID",
	"Fund_Vehicle_ID",
	"As_of_Date",
	"Amount",
	"Allocation_Method",
}

// DealService serves deal listings and per-deal IRR cashflows
type DealService struct {
	warehouse warehouse
	cache     *storage.CacheService
}

// NewDealService creates a new deal service
func NewDealService(w warehouse, cache *storage.CacheService) *DealService {
	return &DealService{warehouse: w, cache: cache}
}

// GetDealList returns the deal_list_details rows for one asset
func (s *DealService) GetDealList(ctx context.Context, assetName string) ([]map[string]interface{}, error) {
	key := s.cache.GenerateCacheKey(storage.CacheKeyDealList, assetName)

	var cached []map[string]interface{}
	if cacheGet(ctx, s.cache, key, &cached) {
		return cached, nil
	}

	query := graphql.BuildEntityQuery("deal_list_details", dealListFields, "Asset_Name")
	resp, err := s.warehouse.Query(ctx, query, map[string]interface{}{"Asset_Name": assetName})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deal list: %w", err)
	}

	rows := resp.Records("deal_list_details")
	cacheSet(ctx, s.cache, key, rows)
	return rows, nil
}

// GetDealCashflow returns the deal_by_deal_irr rows for one asset.
// An empty result is valid; some assets simply have no cashflow rows.
func (s *DealService) GetDealCashflow(ctx context.Context, assetName string) ([]map[string]interface{}, error) {
	key := s.cache.GenerateCacheKey(storage.CacheKeyDealCashflow, assetName)

	var cached []map[string]interface{}
	if cacheGet(ctx, s.cache, key, &cached) {
		return cached, nil
	}

	query := graphql.BuildEntityQuery("deal_by_deal_irr", dealCashflowFields, "Asset_Name")
	resp, err := s.warehouse.Query(ctx, query, map[string]interface{}{"Asset_Name": assetName})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deal cashflow: %w", err)
	}

	rows := resp.Records("deal_by_deal_irr")
	cacheSet(ctx, s.cache, key, rows)
	return rows, nil
}
