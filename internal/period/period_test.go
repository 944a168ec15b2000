package period

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuarterLabel(t *testing.T) {
	tests := []struct {
		label  string
		want   Key
		wantOK bool
	}{
		{"Q2 2019", Key{Quarter: 2, Year: 2019}, true},
		{"Q4 2023", Key{Quarter: 4, Year: 2023}, true},
		{"q1 2020", Key{Quarter: 1, Year: 2020}, true},
		{"Q5 2020", Key{}, false},
		{"Q0 2020", Key{}, false},
		{"2020", Key{}, false},
		{"FY 2020", Key{}, false},
		{"", Key{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseQuarterLabel(tt.label)
		assert.Equal(t, tt.wantOK, ok, "label %q", tt.label)
		if ok {
			assert.Equal(t, tt.want, got, "label %q", tt.label)
		}
	}
}

func TestParseFiscalID(t *testing.T) {
	key, ok := ParseFiscalID("1_2023")
	assert.True(t, ok)
	assert.Equal(t, Key{Quarter: 1, Year: 2023}, key)

	_, ok = ParseFiscalID("5_2023")
	assert.False(t, ok)

	_, ok = ParseFiscalID("2023")
	assert.False(t, ok)
}

func TestQuarterEnd(t *testing.T) {
	assert.Equal(t, "2023-03-31", Key{Quarter: 1, Year: 2023}.QuarterEnd())
	assert.Equal(t, "2023-06-30", Key{Quarter: 2, Year: 2023}.QuarterEnd())
	assert.Equal(t, "2023-09-30", Key{Quarter: 3, Year: 2023}.QuarterEnd())
	assert.Equal(t, "2023-12-31", Key{Quarter: 4, Year: 2023}.QuarterEnd())
}

func TestQuarterlyRateDate(t *testing.T) {
	assert.Equal(t, "2023-06-30", QuarterlyRateDate("2_2023"))
	assert.Equal(t, "2019-03-31", QuarterlyRateDate("Q1 2019"))
	// unknown shapes pass through untouched
	assert.Equal(t, "latest", QuarterlyRateDate("latest"))
	assert.Equal(t, "2023-01-15", QuarterlyRateDate("2023-01-15"))
}

func TestAnnualRateDate(t *testing.T) {
	assert.Equal(t, "2023-12-31", AnnualRateDate("2023"))
	assert.Equal(t, "latest", AnnualRateDate("latest"))
}

func TestSortLabels(t *testing.T) {
	got := SortLabels([]string{"Q2 2019", "Q1 2018", "Q4 2018", "Q1 2019"})
	assert.Equal(t, []string{"Q1 2018", "Q4 2018", "Q1 2019", "Q2 2019"}, got)
}

func TestSortLabels_UnparsableKeepInsertionOrder(t *testing.T) {
	// Keys that do not match the quarter shape are not interleaved with the
	// chronologically sorted block; they follow it in insertion order.
	got := SortLabels([]string{"FY21", "Q2 2020", "opening", "Q1 2020"})
	assert.Equal(t, []string{"Q1 2020", "Q2 2020", "FY21", "opening"}, got)
}

func TestSortLabels_Empty(t *testing.T) {
	assert.Empty(t, SortLabels(nil))
}
