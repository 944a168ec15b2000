package service

import (
	"context"

	"github.com/portfolio-insights/internal/table"
	"github.com/portfolio-insights/internal/transform"
	"github.com/portfolio-insights/internal/types"
)

// defaultBaseCurrency is assumed for assets whose details carry no
// Base_Currency column.
const defaultBaseCurrency = "INR"

// metricsSource is the slice of the asset service the projections need.
type metricsSource interface {
	GetAssetDetails(ctx context.Context, assetName string) ([]map[string]interface{}, error)
	GetAssetMetrics(ctx context.Context, assetName string, isPlan bool) (types.AssetMetrics, error)
}

// dealSource supplies deal rows for the deal table projection.
type dealSource interface {
	GetDealList(ctx context.Context, assetName string) ([]map[string]interface{}, error)
}

// recordAnnotator converts metric record batches between currencies.
type recordAnnotator interface {
	Annotate(ctx context.Context, records []types.MetricRecord, direction types.ConversionDirection, shouldConvert bool) ([]types.MetricRecord, error)
}

// SeriesQuery selects which metric series to project.
type SeriesQuery struct {
	AssetName  string
	Metrics    []string
	PeriodType types.PeriodType
	IsPlan     bool
	InUSD      bool
}

// TableOptions carry the interactive table state for a rendered page.
type TableOptions struct {
	SortBy     string
	Descending bool
	Page       int
	PageSize   int
	Hidden     []string
}

// ProjectionService renders metric series and deal rows into chart- and
// table-ready structures: series selection, optional currency conversion,
// multi-series merge, then the tabular view engine.
type ProjectionService struct {
	metrics  metricsSource
	deals    dealSource
	annotate recordAnnotator
}

// NewProjectionService creates a new projection service
func NewProjectionService(metrics metricsSource, deals dealSource, annotate recordAnnotator) *ProjectionService {
	return &ProjectionService{metrics: metrics, deals: deals, annotate: annotate}
}

// GetMetricChart returns the chart projection of the selected series: one
// row per period in chronological order, missing observations plotted as 0.
func (s *ProjectionService) GetMetricChart(ctx context.Context, q SeriesQuery) ([]types.Row, error) {
	merged, _, err := s.merge(ctx, q)
	if err != nil {
		return nil, err
	}
	return merged.ChartRows(), nil
}

// GetMetricTable renders the table projection of the selected series through
// the view engine, with the caller's sort, visibility, and page state.
func (s *ProjectionService) GetMetricTable(ctx context.Context, q SeriesQuery, opts TableOptions) (table.Page, error) {
	merged, currencyCode, err := s.merge(ctx, q)
	if err != nil {
		return table.Page{}, err
	}

	view := table.NewView(merged.TableRows(),
		table.WithSchema(seriesSchema(q.Metrics)),
		table.WithDefaultCurrency(currencyCode),
		table.WithHiddenColumns(opts.Hidden...),
		table.WithPageSize(opts.PageSize),
	)
	return renderView(view, opts), nil
}

// GetDealTable renders the asset's deal list through the view engine using
// the declared deal schema.
func (s *ProjectionService) GetDealTable(ctx context.Context, assetName string, opts TableOptions) (table.Page, error) {
	rows, err := s.deals.GetDealList(ctx, assetName)
	if err != nil {
		return table.Page{}, err
	}

	tableRows := make([]types.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = types.Row(row)
	}

	view := table.NewView(tableRows,
		table.WithSchema(declaredSchema(dealListFields)),
		table.WithDefaultCurrency(defaultBaseCurrency),
		table.WithHiddenColumns(opts.Hidden...),
		table.WithPageSize(opts.PageSize),
	)
	return renderView(view, opts), nil
}

// merge selects, optionally converts, and merges the requested series.
// It returns the merged result and the currency the values ended up in.
func (s *ProjectionService) merge(ctx context.Context, q SeriesQuery) (*transform.Merged, string, error) {
	data, err := s.metrics.GetAssetMetrics(ctx, q.AssetName, q.IsPlan)
	if err != nil {
		return nil, "", err
	}

	baseCurrency := s.baseCurrency(ctx, q.AssetName)
	currencyCode := baseCurrency

	series := make(map[string][]types.MetricRecord, len(q.Metrics))
	for _, metric := range q.Metrics {
		records := transform.SelectSeries(data, q.AssetName, metric, q.PeriodType, baseCurrency)
		if q.InUSD {
			converted, err := s.annotate.Annotate(ctx, records, types.DirectionINRToUSD, true)
			if err != nil {
				return nil, "", err
			}
			records = converted
			currencyCode = types.DirectionINRToUSD.Target()
		}
		series[metric] = records
	}

	merged := transform.Merge(series, q.Metrics, q.PeriodType)
	merged.SortChronological()
	return merged, currencyCode, nil
}

// baseCurrency reads the asset's Base_Currency detail column. Lookup
// failures fall back to the default rather than failing the projection.
func (s *ProjectionService) baseCurrency(ctx context.Context, assetName string) string {
	details, err := s.metrics.GetAssetDetails(ctx, assetName)
	if err != nil || len(details) == 0 {
		return defaultBaseCurrency
	}
	if code, ok := details[0]["Base_Currency"].(string); ok && code != "" {
		return code
	}
	return defaultBaseCurrency
}

// renderView initializes the view and applies the caller's table state.
func renderView(view *table.View, opts TableOptions) table.Page {
	view.Init()
	if opts.SortBy != "" {
		view.Sort(opts.SortBy, opts.Descending)
	}
	view.SetPage(opts.Page)
	return view.Render()
}

// seriesSchema declares the merged-series columns: the period key plus one
// column per selected metric.
func seriesSchema(metrics []string) table.Schema {
	schema := table.Schema{{Key: "period", Label: "Period", Sortable: true}}
	for _, metric := range metrics {
		schema = append(schema, table.Column{Key: metric, Label: table.Humanize(metric), Sortable: true})
	}
	return schema
}

// declaredSchema builds a schema from a warehouse field list.
func declaredSchema(fields []string) table.Schema {
	schema := make(table.Schema, 0, len(fields))
	for _, field := range fields {
		schema = append(schema, table.Column{Key: field, Label: table.Humanize(field), Sortable: true})
	}
	return schema
}
