package currency

import (
	"context"
	"strconv"
	"sync"

	"github.com/portfolio-insights/internal/logging"
	"github.com/portfolio-insights/internal/period"
	"github.com/portfolio-insights/internal/types"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// RateLookup is the slice of the rate client the annotator needs.
type RateLookup interface {
	Rate(ctx context.Context, date, base, symbol string) (float64, error)
}

// Annotator rewrites metric record values using external conversion rates.
// Rather than one lookup per record, it batches the distinct rate dates of
// the input into one concurrent lookup each and applies the cached rates,
// so external calls are bounded by the number of distinct dates.
type Annotator struct {
	rates       RateLookup
	maxInFlight int
}

// NewAnnotator creates an annotator over the given rate lookup.
func NewAnnotator(rates RateLookup) *Annotator {
	return &Annotator{rates: rates, maxInFlight: 8}
}

// RateDate derives the lookup date for a record: quarterly periods map to
// the last day of the quarter, annual ones to December 31, anything else
// passes through unchanged, and a missing period means "latest".
func RateDate(record types.MetricRecord) string {
	if record.Period == "" {
		return period.Latest
	}
	switch record.PeriodType {
	case types.PeriodQuarterly:
		return period.QuarterlyRateDate(record.Period)
	case types.PeriodAnnual:
		return period.AnnualRateDate(record.Period)
	default:
		return record.Period
	}
}

// Annotate converts every record's value into the direction's target
// currency. When shouldConvert is false it instead restores each record's
// pre-conversion value, making a convert/revert cycle exact.
//
// The returned slice preserves input order. A failed rate lookup leaves the
// records of that date unconverted without affecting siblings; the error
// return is non-nil only when the whole batch failed (context cancelled or
// every lookup failed), in which case the input is returned unchanged.
func (a *Annotator) Annotate(ctx context.Context, records []types.MetricRecord, direction types.ConversionDirection, shouldConvert bool) ([]types.MetricRecord, error) {
	if !shouldConvert {
		return revert(records, direction), nil
	}
	if len(records) == 0 {
		return []types.MetricRecord{}, nil
	}

	rates, err := a.fetchRates(ctx, records, direction)
	if err != nil {
		return records, err
	}

	out := make([]types.MetricRecord, len(records))
	for i, record := range records {
		out[i] = convertRecord(record, direction, rates)
	}
	return out, nil
}

// fetchRates looks up one rate per distinct derived date, concurrently.
// Individual failures are logged and skipped; only a context error or a
// fully failed batch is returned as an error.
func (a *Annotator) fetchRates(ctx context.Context, records []types.MetricRecord, direction types.ConversionDirection) (map[string]float64, error) {
	dates := make([]string, 0)
	seen := make(map[string]bool)
	for _, record := range records {
		date := RateDate(record)
		if !seen[date] {
			seen[date] = true
			dates = append(dates, date)
		}
	}

	var mu sync.Mutex
	rates := make(map[string]float64, len(dates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxInFlight)
	for _, date := range dates {
		date := date
		g.Go(func() error {
			rate, err := a.rates.Rate(gctx, date, direction.Base(), direction.Target())
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logging.FromContext(ctx).WithFields(map[string]interface{}{
					"date":      date,
					"direction": direction,
				}).WithError(err).Warn("Rate lookup failed, records for this date stay unconverted")
				return nil
			}
			mu.Lock()
			rates[date] = rate
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(rates) == 0 && len(dates) > 0 {
		return nil, &types.ServiceError{
			Code:    "CONVERSION_UNAVAILABLE",
			Message: "no conversion rates could be fetched",
		}
	}
	return rates, nil
}

// convertRecord applies a cached rate to one record. Records whose value is
// not numeric, or whose rate is missing, are passed through untouched.
// Period and period type never change.
func convertRecord(record types.MetricRecord, direction types.ConversionDirection, rates map[string]float64) types.MetricRecord {
	value, err := strconv.ParseFloat(record.Value, 64)
	if err != nil {
		return record
	}
	rate, ok := rates[RateDate(record)]
	if !ok {
		return record
	}

	converted := decimal.NewFromFloat(value).Mul(decimal.NewFromFloat(rate))
	out := record
	out.OriginalValue = record.Value
	out.Value = converted.StringFixed(2)
	out.CurrencyCode = direction.Target()
	return out
}

// revert restores pre-conversion values on previously annotated records.
// Untouched records (no retained original) pass through as-is.
func revert(records []types.MetricRecord, direction types.ConversionDirection) []types.MetricRecord {
	out := make([]types.MetricRecord, len(records))
	for i, record := range records {
		if record.OriginalValue != "" {
			record.Value = record.OriginalValue
			record.OriginalValue = ""
			record.CurrencyCode = direction.Base()
		}
		out[i] = record
	}
	return out
}
