package table

import (
	"fmt"
	"testing"

	"github.com/portfolio-insights/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metricRows() []types.Row {
	return []types.Row{
		{"period": "Q1 2023", "periodType": "Quarterly", "value": "100", "Currency_Code": "INR"},
		{"period": "Q2 2023", "periodType": "Quarterly", "value": "2500000", "Currency_Code": "INR"},
		{"period": "Q3 2023", "periodType": "Quarterly", "value": "1234567.89", "Currency_Code": "USD"},
	}
}

func TestView_EmptyDataIsTerminalNotPanic(t *testing.T) {
	view := NewView(nil)
	assert.Equal(t, StateEmpty, view.Init())

	page := view.Render()
	assert.Equal(t, StateEmpty, page.State)
	assert.Empty(t, page.Rows)
}

func TestView_PreparingIsDistinctFromEmpty(t *testing.T) {
	view := NewView(metricRows())
	assert.Equal(t, StatePreparing, view.State())
	assert.Equal(t, StatePreparing, view.Render().State)

	view.Init()
	assert.Equal(t, StateReady, view.State())
}

func TestView_DefaultHiddenColumns(t *testing.T) {
	view := NewView(metricRows(), WithHiddenColumns("periodtype", "CURRENCY_CODE"))
	view.Init()

	assert.False(t, view.IsVisible("periodType"))
	assert.False(t, view.IsVisible("Currency_Code"))
	assert.True(t, view.IsVisible("period"))
	assert.True(t, view.IsVisible("value"))
}

func TestView_ToggleVisibilityRoundTrip(t *testing.T) {
	view := NewView(metricRows())
	view.Init()

	require.True(t, view.IsVisible("value"))
	view.ToggleVisibility("value")
	assert.False(t, view.IsVisible("value"))
	view.ToggleVisibility("value")
	assert.True(t, view.IsVisible("value"))
}

func TestView_VisibilityIndependentOfFilterAndPin(t *testing.T) {
	view := NewView(metricRows())
	view.Init()

	view.SetFilter("period", []string{"Q1 2023"})
	view.TogglePin("period")
	view.ToggleVisibility("value")

	assert.False(t, view.IsVisible("value"))
	assert.True(t, view.IsPinned("period"))
	assert.Equal(t, 1, view.ActiveFilterCount())

	view.ToggleVisibility("value")
	assert.True(t, view.IsPinned("period"))
	assert.Equal(t, 1, view.ActiveFilterCount())
}

func TestView_CurrencyAwareFormatting(t *testing.T) {
	view := NewView(metricRows(), WithHiddenColumns("periodType"))
	view.Init()

	page := view.Render()
	require.Equal(t, StateReady, page.State)
	require.Len(t, page.Rows, 3)

	keys := make(map[string]int)
	for i, col := range page.Columns {
		keys[col.Key] = i
	}

	// INR rows use Indian grouping, the USD row uses US grouping
	assert.Equal(t, "25,00,000", page.Rows[1][keys["value"]])
	assert.Equal(t, "1,234,567.89", page.Rows[2][keys["value"]])
}

func TestView_MultiValueFilter(t *testing.T) {
	view := NewView(metricRows())
	view.Init()

	view.SetFilter("period", []string{"Q1 2023", "Q3 2023"})
	page := view.Render()
	assert.Equal(t, 2, page.TotalRows)

	view.SetFilter("period", nil)
	assert.Equal(t, 3, view.Render().TotalRows)
}

func TestView_NumericSort(t *testing.T) {
	view := NewView(metricRows())
	view.Init()
	view.TogglePin("value")
	view.ToggleVisibility("period")
	view.ToggleVisibility("periodType")
	view.ToggleVisibility("Currency_Code")

	view.Sort("value", false)
	page := view.Render()
	require.Len(t, page.Columns, 1)
	assert.Equal(t, "100", page.Rows[0][0])

	view.Sort("value", true)
	page = view.Render()
	assert.Equal(t, "25,00,000", page.Rows[0][0])
}

func TestView_SentinelSortsLast(t *testing.T) {
	rows := []types.Row{
		{"period": "Q1", "CompanyX": nil},
		{"period": "Q2", "CompanyX": "5"},
	}
	view := NewView(rows)
	view.Init()
	view.Sort("CompanyX", false)

	page := view.Render()
	keys := map[string]int{}
	for i, col := range page.Columns {
		keys[col.Key] = i
	}
	assert.Equal(t, "5", page.Rows[0][keys["CompanyX"]])
	assert.Equal(t, "", page.Rows[1][keys["CompanyX"]])
}

func TestView_SentinelSortsLastDescending(t *testing.T) {
	rows := []types.Row{
		{"period": "Q1", "CompanyX": nil},
		{"period": "Q2", "CompanyX": "5"},
		{"period": "Q3", "CompanyX": "9"},
	}
	view := NewView(rows)
	view.Init()
	view.Sort("CompanyX", true)

	page := view.Render()
	keys := map[string]int{}
	for i, col := range page.Columns {
		keys[col.Key] = i
	}
	assert.Equal(t, "9", page.Rows[0][keys["CompanyX"]])
	assert.Equal(t, "5", page.Rows[1][keys["CompanyX"]])
	assert.Equal(t, "", page.Rows[2][keys["CompanyX"]])
}

func TestView_PageCarriesCurrencyMetadata(t *testing.T) {
	view := NewView(metricRows(), WithDefaultCurrency("INR"))
	view.Init()

	page := view.Render()
	assert.Equal(t, "INR", page.Currency)
	assert.Equal(t, "₹", page.CurrencySymbol)

	view = NewView(metricRows(), WithDefaultCurrency("USD"))
	view.Init()
	assert.Equal(t, "$", view.Render().CurrencySymbol)
}

func TestView_ZeroFractionCurrencyDropsDecimals(t *testing.T) {
	rows := []types.Row{
		{"value": "1234567.89", "Currency_Code": "JPY"},
	}
	view := NewView(rows, WithHiddenColumns("Currency_Code"))
	view.Init()

	page := view.Render()
	require.Len(t, page.Rows, 1)
	// JPY has no minor unit, so the cell rounds to whole yen
	assert.Equal(t, "12,34,568", page.Rows[0][0])
}

func TestView_PinnedColumnsRenderFirst(t *testing.T) {
	view := NewView(metricRows())
	view.Init()
	view.TogglePin("value")

	page := view.Render()
	assert.Equal(t, "value", page.Columns[0].Key)

	view.TogglePin("value")
	page = view.Render()
	assert.NotEqual(t, "value", page.Columns[0].Key)
}

func TestView_Pagination(t *testing.T) {
	var rows []types.Row
	for i := 0; i < 25; i++ {
		rows = append(rows, types.Row{"n": fmt.Sprintf("%d", i)})
	}
	view := NewView(rows)
	view.Init()

	page := view.Render()
	assert.Equal(t, 3, page.PageCount)
	assert.Len(t, page.Rows, 10)

	view.NextPage()
	view.NextPage()
	page = view.Render()
	assert.Equal(t, 2, page.PageIndex)
	assert.Len(t, page.Rows, 5)

	// out-of-range page indexes clamp instead of failing
	view.SetPage(99)
	assert.Equal(t, 2, view.Render().PageIndex)
	view.SetPage(-5)
	assert.Equal(t, 0, view.Render().PageIndex)
}

func TestView_ClearAll(t *testing.T) {
	view := NewView(metricRows(), WithHiddenColumns("periodType"))
	view.Init()
	view.SetFilter("period", []string{"Q1 2023"})
	view.TogglePin("period")

	view.ClearAll()

	assert.Equal(t, 0, view.ActiveFilterCount())
	assert.False(t, view.IsPinned("period"))
	assert.True(t, view.IsVisible("periodType"))
	assert.Equal(t, 3, view.Render().TotalRows)
}

func TestView_UniqueValues(t *testing.T) {
	view := NewView(metricRows())
	view.Init()

	assert.Equal(t, []string{"INR", "USD"}, view.UniqueValues("Currency_Code"))
	assert.Equal(t, []string{"Quarterly"}, view.UniqueValues("periodType"))
}

func TestView_DeclaredSchema(t *testing.T) {
	schema := Schema{
		{Key: "period", Label: "Period", Sortable: true},
		{Key: "value", Label: "Value", Sortable: true},
	}
	view := NewView(metricRows(), WithSchema(schema))
	view.Init()

	page := view.Render()
	require.Len(t, page.Columns, 2)
	assert.Equal(t, "period", page.Columns[0].Key)
	assert.Equal(t, "value", page.Columns[1].Key)
}
