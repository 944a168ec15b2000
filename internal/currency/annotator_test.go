package currency

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/portfolio-insights/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRates serves canned rates and counts lookups per date.
type stubRates struct {
	mu    sync.Mutex
	rates map[string]float64
	fail  map[string]bool
	calls map[string]int
}

func newStubRates(rates map[string]float64) *stubRates {
	return &stubRates{rates: rates, fail: make(map[string]bool), calls: make(map[string]int)}
}

func (s *stubRates) Rate(_ context.Context, date, _, _ string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[date]++
	if s.fail[date] {
		return 0, errors.New("upstream unavailable")
	}
	rate, ok := s.rates[date]
	if !ok {
		return 0, errors.New("no rate for date")
	}
	return rate, nil
}

func (s *stubRates) callCount(date string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[date]
}

func quarterlyRecord(fiscalID, value string) types.MetricRecord {
	return types.MetricRecord{
		Period:       fiscalID,
		PeriodType:   types.PeriodQuarterly,
		Value:        value,
		CurrencyCode: "INR",
	}
}

func TestAnnotate_ConvertsAndPreservesOrder(t *testing.T) {
	rates := newStubRates(map[string]float64{
		"2023-03-31": 0.012,
		"2023-06-30": 0.010,
	})
	annotator := NewAnnotator(rates)

	records := []types.MetricRecord{
		quarterlyRecord("1_2023", "1000"),
		quarterlyRecord("2_2023", "2000"),
		quarterlyRecord("1_2023", "3000"),
	}
	out, err := annotator.Annotate(context.Background(), records, types.DirectionINRToUSD, true)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, "12.00", out[0].Value)
	assert.Equal(t, "20.00", out[1].Value)
	assert.Equal(t, "36.00", out[2].Value)
	for i, record := range out {
		assert.Equal(t, records[i].Period, record.Period)
		assert.Equal(t, records[i].PeriodType, record.PeriodType)
		assert.Equal(t, records[i].Value, record.OriginalValue)
		assert.Equal(t, "USD", record.CurrencyCode)
	}
}

func TestAnnotate_BatchesDistinctDates(t *testing.T) {
	rates := newStubRates(map[string]float64{"2023-03-31": 0.012})
	annotator := NewAnnotator(rates)

	records := []types.MetricRecord{
		quarterlyRecord("1_2023", "10"),
		quarterlyRecord("1_2023", "20"),
		quarterlyRecord("1_2023", "30"),
		quarterlyRecord("1_2023", "40"),
	}
	_, err := annotator.Annotate(context.Background(), records, types.DirectionINRToUSD, true)
	require.NoError(t, err)
	assert.Equal(t, 1, rates.callCount("2023-03-31"))
}

func TestAnnotate_PartialFailureLeavesOnlyThatDateUnconverted(t *testing.T) {
	rates := newStubRates(map[string]float64{
		"2023-03-31": 0.012,
		"2023-06-30": 0.010,
	})
	rates.fail["2023-06-30"] = true
	annotator := NewAnnotator(rates)

	records := []types.MetricRecord{
		quarterlyRecord("1_2023", "1000"),
		quarterlyRecord("2_2023", "2000"),
	}
	out, err := annotator.Annotate(context.Background(), records, types.DirectionINRToUSD, true)
	require.NoError(t, err)

	assert.Equal(t, "12.00", out[0].Value)
	assert.Equal(t, "USD", out[0].CurrencyCode)

	assert.Equal(t, "2000", out[1].Value)
	assert.Empty(t, out[1].OriginalValue)
	assert.Equal(t, "INR", out[1].CurrencyCode)
}

func TestAnnotate_AllLookupsFailedReturnsInputUnchanged(t *testing.T) {
	rates := newStubRates(nil)
	rates.fail["2023-03-31"] = true
	annotator := NewAnnotator(rates)

	records := []types.MetricRecord{quarterlyRecord("1_2023", "1000")}
	out, err := annotator.Annotate(context.Background(), records, types.DirectionINRToUSD, true)

	var serviceErr *types.ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, "CONVERSION_UNAVAILABLE", serviceErr.Code)
	assert.Equal(t, records, out)
}

func TestAnnotate_RoundTripWithReciprocalRates(t *testing.T) {
	// The converted value is quantized to two decimals, so the reverse
	// pass can drift by up to half a cent times the reciprocal rate;
	// 0.8 keeps that inside the two-decimal tolerance for any input.
	const rate = 0.8

	records := []types.MetricRecord{
		quarterlyRecord("1_2023", "1000"),
		quarterlyRecord("2_2023", "2345.65"),
		quarterlyRecord("1_2023", "0.05"),
	}

	forward := NewAnnotator(newStubRates(map[string]float64{
		"2023-03-31": rate,
		"2023-06-30": rate,
	}))
	converted, err := forward.Annotate(context.Background(), records, types.DirectionINRToUSD, true)
	require.NoError(t, err)

	backward := NewAnnotator(newStubRates(map[string]float64{
		"2023-03-31": 1 / rate,
		"2023-06-30": 1 / rate,
	}))
	restored, err := backward.Annotate(context.Background(), converted, types.DirectionUSDToINR, true)
	require.NoError(t, err)
	require.Len(t, restored, len(records))

	// A full convert cycle through reciprocal rates lands back on the
	// original value, despite the intermediate two-decimal rounding.
	for i, record := range restored {
		want, err := strconv.ParseFloat(records[i].Value, 64)
		require.NoError(t, err)
		got, err := strconv.ParseFloat(record.Value, 64)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 0.01, "record %d", i)
		assert.Equal(t, "INR", record.CurrencyCode)
	}
}

func TestAnnotate_RevertRestoresOriginalExactly(t *testing.T) {
	rates := newStubRates(map[string]float64{"2023-03-31": 0.0123456})
	annotator := NewAnnotator(rates)

	records := []types.MetricRecord{quarterlyRecord("1_2023", "987654.32")}
	converted, err := annotator.Annotate(context.Background(), records, types.DirectionINRToUSD, true)
	require.NoError(t, err)
	require.NotEqual(t, records[0].Value, converted[0].Value)

	reverted, err := annotator.Annotate(context.Background(), converted, types.DirectionINRToUSD, false)
	require.NoError(t, err)
	assert.Equal(t, "987654.32", reverted[0].Value)
	assert.Equal(t, "INR", reverted[0].CurrencyCode)
	assert.Empty(t, reverted[0].OriginalValue)
}

func TestAnnotate_RevertPassesThroughUnconvertedRecords(t *testing.T) {
	annotator := NewAnnotator(newStubRates(nil))

	records := []types.MetricRecord{quarterlyRecord("1_2023", "1000")}
	out, err := annotator.Annotate(context.Background(), records, types.DirectionINRToUSD, false)
	require.NoError(t, err)
	assert.Equal(t, records, out)
}

func TestAnnotate_NonNumericValuePassesThrough(t *testing.T) {
	rates := newStubRates(map[string]float64{"2023-03-31": 0.012})
	annotator := NewAnnotator(rates)

	records := []types.MetricRecord{
		quarterlyRecord("1_2023", "n/a"),
		quarterlyRecord("1_2023", "100"),
	}
	out, err := annotator.Annotate(context.Background(), records, types.DirectionINRToUSD, true)
	require.NoError(t, err)
	assert.Equal(t, "n/a", out[0].Value)
	assert.Equal(t, "1.20", out[1].Value)
}

func TestAnnotate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rates := newStubRates(nil)
	rates.fail["2023-03-31"] = true
	annotator := NewAnnotator(rates)

	records := []types.MetricRecord{quarterlyRecord("1_2023", "1000")}
	out, err := annotator.Annotate(ctx, records, types.DirectionINRToUSD, true)
	require.Error(t, err)
	assert.Equal(t, records, out)
}

func TestRateDate(t *testing.T) {
	tests := []struct {
		name   string
		record types.MetricRecord
		want   string
	}{
		{"quarterly fiscal id", types.MetricRecord{Period: "2_2023", PeriodType: types.PeriodQuarterly}, "2023-06-30"},
		{"quarterly label", types.MetricRecord{Period: "Q4 2022", PeriodType: types.PeriodQuarterly}, "2022-12-31"},
		{"annual year", types.MetricRecord{Period: "2023", PeriodType: types.PeriodAnnual}, "2023-12-31"},
		{"unparsable passes through", types.MetricRecord{Period: "TTM", PeriodType: types.PeriodQuarterly}, "TTM"},
		{"empty means latest", types.MetricRecord{}, "latest"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RateDate(tt.record))
		})
	}
}
