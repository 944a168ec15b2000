package transform

import (
	"testing"

	"github.com/portfolio-insights/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quarterly(periodKey, value string) types.MetricRecord {
	return types.MetricRecord{Period: periodKey, PeriodType: types.PeriodQuarterly, Value: value}
}

func TestMerge_ExampleScenario(t *testing.T) {
	series := map[string][]types.MetricRecord{
		"CompanyX": {quarterly("Q1 2023", "100")},
		"CompanyY": {quarterly("Q2 2023", "200")},
	}

	merged := Merge(series, []string{"CompanyX", "CompanyY"}, types.PeriodQuarterly)
	rows := merged.ChartRows()

	require.Len(t, rows, 2)
	assert.Equal(t, types.Row{"period": "Q1 2023", "CompanyX": 100.0, "CompanyY": 0.0}, rows[0])
	assert.Equal(t, types.Row{"period": "Q2 2023", "CompanyX": 0.0, "CompanyY": 200.0}, rows[1])
}

func TestMerge_TableRowsUseSentinel(t *testing.T) {
	series := map[string][]types.MetricRecord{
		"CompanyX": {quarterly("Q1 2023", "100")},
		"CompanyY": {quarterly("Q2 2023", "200")},
	}

	rows := Merge(series, []string{"CompanyX", "CompanyY"}, types.PeriodQuarterly).TableRows()

	require.Len(t, rows, 2)
	// CompanyY key is present with an explicit nil, not missing
	value, present := rows[0]["CompanyY"]
	assert.True(t, present)
	assert.Nil(t, value)
	assert.Equal(t, "100", rows[0]["CompanyX"])
}

func TestMerge_ZeroSeries(t *testing.T) {
	merged := Merge(nil, nil, types.PeriodQuarterly)
	assert.Empty(t, merged.TableRows())
	assert.Empty(t, merged.ChartRows())
}

func TestMerge_FiltersPeriodType(t *testing.T) {
	series := map[string][]types.MetricRecord{
		"CompanyX": {
			quarterly("Q1 2023", "100"),
			{Period: "2023", PeriodType: types.PeriodAnnual, Value: "450"},
		},
	}

	merged := Merge(series, []string{"CompanyX"}, types.PeriodAnnual)
	assert.Equal(t, []string{"2023"}, merged.Periods())
}

func TestMerge_FirstSeenPeriodOrder(t *testing.T) {
	series := map[string][]types.MetricRecord{
		"A": {quarterly("Q3 2022", "1"), quarterly("Q1 2022", "2")},
		"B": {quarterly("Q2 2022", "3"), quarterly("Q1 2022", "4")},
	}

	merged := Merge(series, []string{"A", "B"}, types.PeriodQuarterly)
	assert.Equal(t, []string{"Q3 2022", "Q1 2022", "Q2 2022"}, merged.Periods())
}

func TestMerge_SortChronological(t *testing.T) {
	series := map[string][]types.MetricRecord{
		"A": {quarterly("Q3 2022", "1"), quarterly("Q1 2022", "2")},
		"B": {quarterly("Q2 2022", "3")},
	}

	merged := Merge(series, []string{"A", "B"}, types.PeriodQuarterly)
	merged.SortChronological()
	assert.Equal(t, []string{"Q1 2022", "Q2 2022", "Q3 2022"}, merged.Periods())
}

func TestMerge_NonNumericCoercesToZeroOnlyForCharts(t *testing.T) {
	series := map[string][]types.MetricRecord{
		"A": {quarterly("Q1 2023", "n/a")},
	}

	merged := Merge(series, []string{"A"}, types.PeriodQuarterly)
	assert.Equal(t, 0.0, merged.ChartRows()[0]["A"])
	assert.Equal(t, "n/a", merged.TableRows()[0]["A"])
}

func TestMerge_LabelWithoutSeriesStillAColumn(t *testing.T) {
	series := map[string][]types.MetricRecord{
		"A": {quarterly("Q1 2023", "7")},
	}

	rows := Merge(series, []string{"A", "Ghost"}, types.PeriodQuarterly).TableRows()
	require.Len(t, rows, 1)
	_, present := rows[0]["Ghost"]
	assert.True(t, present)
}
