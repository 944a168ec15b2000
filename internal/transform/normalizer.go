// Package transform contains the pure data-shaping layer: the metric series
// normalizer, the multi-series merger, and the stale-request gate.
package transform

import (
	"sort"

	"github.com/portfolio-insights/internal/types"
)

// emptySeries is the shared zero-length result. Callers that compare result
// identity to detect "still empty" must always see the same slice header.
var emptySeries = []types.MetricRecord{}

// EmptySeries returns the stable empty slice used for zero-match results.
func EmptySeries() []types.MetricRecord {
	return emptySeries
}

// SelectSeries picks the observations for one asset and metric, keeps those
// matching the requested period type, and decorates each with a currency
// code falling back to the asset's base currency. An absent asset or metric,
// or zero matches, yields the stable empty slice.
func SelectSeries(data types.AssetMetrics, asset, metric string, periodType types.PeriodType, baseCurrency string) []types.MetricRecord {
	metrics, ok := data[asset]
	if !ok {
		return emptySeries
	}
	records, ok := metrics[metric]
	if !ok || len(records) == 0 {
		return emptySeries
	}

	out := make([]types.MetricRecord, 0, len(records))
	for _, record := range records {
		if record.PeriodType != periodType {
			continue
		}
		if record.CurrencyCode == "" {
			record.CurrencyCode = baseCurrency
		}
		out = append(out, record)
	}
	if len(out) == 0 {
		return emptySeries
	}
	return out
}

// MetricNames lists the metrics available for an asset, sorted for a stable
// dropdown order.
func MetricNames(data types.AssetMetrics, asset string) []string {
	metrics, ok := data[asset]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
