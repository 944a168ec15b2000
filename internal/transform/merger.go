package transform

import (
	"strconv"

	"github.com/portfolio-insights/internal/period"
	"github.com/portfolio-insights/internal/types"
)

// Merged is the result of combining several period-keyed series into one
// row-per-period structure. It exposes a table projection (explicit nil
// sentinel for missing observations) and a chart projection (zero-filled).
type Merged struct {
	labels  []string
	periods []string
	values  map[string]map[string]string // period -> label -> raw value
	present map[string]map[string]bool
}

// Merge combines the given series, filtered by period type, into one merged
// result. Period order is first-seen across labels in the given label order;
// labels without a series entry still appear as columns. Zero labels yields
// an empty merge.
func Merge(series map[string][]types.MetricRecord, labels []string, periodType types.PeriodType) *Merged {
	m := &Merged{
		labels:  append([]string(nil), labels...),
		values:  make(map[string]map[string]string),
		present: make(map[string]map[string]bool),
	}

	for _, label := range labels {
		for _, record := range series[label] {
			if record.PeriodType != periodType {
				continue
			}
			key := record.Period
			if _, seen := m.values[key]; !seen {
				m.periods = append(m.periods, key)
				m.values[key] = make(map[string]string)
				m.present[key] = make(map[string]bool)
			}
			m.values[key][label] = record.Value
			m.present[key][label] = true
		}
	}
	return m
}

// Labels returns the series labels known to the merge.
func (m *Merged) Labels() []string {
	return m.labels
}

// Periods returns the distinct period keys in merge order.
func (m *Merged) Periods() []string {
	return m.periods
}

// SortChronological reorders the merged periods by fiscal chronology.
// Quarter-shaped keys sort by year then quarter; other keys keep insertion
// order after the sorted block.
func (m *Merged) SortChronological() {
	m.periods = period.SortLabels(m.periods)
}

// TableRows is the table projection: one row per period, every label key
// present, with an explicit nil sentinel where a series has no observation.
func (m *Merged) TableRows() []types.Row {
	rows := make([]types.Row, 0, len(m.periods))
	for _, key := range m.periods {
		row := types.Row{"period": key}
		for _, label := range m.labels {
			if m.present[key][label] {
				row[label] = m.values[key][label]
			} else {
				row[label] = nil
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// ChartRows is the chart projection: missing or non-numeric observations
// coerce to 0 so every series plots a point at every period.
func (m *Merged) ChartRows() []types.Row {
	rows := make([]types.Row, 0, len(m.periods))
	for _, key := range m.periods {
		row := types.Row{"period": key}
		for _, label := range m.labels {
			row[label] = coerceNumeric(m.values[key][label])
		}
		rows = append(rows, row)
	}
	return rows
}

// coerceNumeric parses a raw observation for plotting; anything that does
// not parse as a number becomes 0.
func coerceNumeric(raw string) float64 {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return value
}
