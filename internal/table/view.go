package table

import (
	"sort"
	"strconv"
	"strings"

	"github.com/portfolio-insights/internal/types"
)

// currencyColumn is the record key used to pick a row's grouping style.
const currencyColumn = "Currency_Code"

// DefaultPageSize matches the dashboard's table pagination.
const DefaultPageSize = 10

// State describes the lifecycle of a view.
type State string

const (
	// StatePreparing means visibility has not been computed yet; this is a
	// transient state distinct from "no data".
	StatePreparing State = "preparing"
	// StateEmpty is the terminal "no data" state.
	StateEmpty State = "empty"
	// StateReady means the view can render pages.
	StateReady State = "ready"
)

// View is an interactive column-oriented projection of a row set. All state
// is per-instance; there is no cross-view coordination.
type View struct {
	rows          []types.Row
	schema        Schema
	declared      bool
	defaultHidden []string
	defaultCcy    string

	state     State
	visible   map[string]bool
	pinned    []string
	filters   map[string][]string
	sortKey   string
	sortDesc  bool
	pageIndex int
	pageSize  int
}

// Option configures a View before initialization.
type Option func(*View)

// WithSchema declares the dataset's columns instead of deriving them from
// the first row.
func WithSchema(schema Schema) Option {
	return func(v *View) {
		v.schema = schema
		v.declared = true
	}
}

// WithHiddenColumns forces the named columns hidden at initialization.
// Matching is case-insensitive against the column key.
func WithHiddenColumns(keys ...string) Option {
	return func(v *View) { v.defaultHidden = keys }
}

// WithDefaultCurrency sets the currency assumed for rows that carry no
// currency tag of their own. It drives grouping style, fraction digits,
// and the symbol reported on rendered pages.
func WithDefaultCurrency(code string) Option {
	return func(v *View) {
		if code != "" {
			v.defaultCcy = code
		}
	}
}

// WithPageSize overrides the default page size.
func WithPageSize(size int) Option {
	return func(v *View) {
		if size > 0 {
			v.pageSize = size
		}
	}
}

// NewView creates a view over the given rows. The view stays in the
// preparing state until Init computes column visibility.
func NewView(rows []types.Row, opts ...Option) *View {
	v := &View{
		rows:       rows,
		defaultCcy: "INR",
		state:      StatePreparing,
		filters:    make(map[string][]string),
		pageSize:   DefaultPageSize,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Init computes the schema and initial visibility, settling the view into
// the empty or ready state. Empty input is terminal, not an error.
func (v *View) Init() State {
	if v.state != StatePreparing {
		return v.state
	}
	if len(v.rows) == 0 {
		v.state = StateEmpty
		return v.state
	}
	if !v.declared {
		v.schema = DeriveSchema(v.rows)
	}

	v.visible = make(map[string]bool, len(v.schema))
	for _, col := range v.schema {
		v.visible[col.Key] = true
	}
	for _, hidden := range v.defaultHidden {
		for _, col := range v.schema {
			if strings.EqualFold(col.Key, hidden) {
				v.visible[col.Key] = false
			}
		}
	}
	v.state = StateReady
	return v.state
}

// State returns the current lifecycle state.
func (v *View) State() State {
	return v.state
}

// IsVisible reports whether a column is currently shown.
func (v *View) IsVisible(key string) bool {
	return v.state == StateReady && v.visible[key]
}

// ToggleVisibility flips one column's visibility. Visibility is independent
// of filter, sort, and pin state.
func (v *View) ToggleVisibility(key string) {
	if v.state != StateReady {
		return
	}
	if _, known := v.visible[key]; known {
		v.visible[key] = !v.visible[key]
	}
}

// IsPinned reports whether a column is pinned to the left edge.
func (v *View) IsPinned(key string) bool {
	for _, pinnedKey := range v.pinned {
		if pinnedKey == key {
			return true
		}
	}
	return false
}

// TogglePin pins or unpins a column.
func (v *View) TogglePin(key string) {
	if v.IsPinned(key) {
		out := v.pinned[:0]
		for _, pinnedKey := range v.pinned {
			if pinnedKey != key {
				out = append(out, pinnedKey)
			}
		}
		v.pinned = out
		return
	}
	v.pinned = append(v.pinned, key)
}

// SetFilter restricts a column to rows whose cell matches one of the given
// values. An empty value list removes the filter.
func (v *View) SetFilter(key string, values []string) {
	if len(values) == 0 {
		delete(v.filters, key)
		return
	}
	v.filters[key] = append([]string(nil), values...)
	v.pageIndex = 0
}

// ActiveFilterCount returns the total number of selected filter values.
func (v *View) ActiveFilterCount() int {
	count := 0
	for _, values := range v.filters {
		count += len(values)
	}
	return count
}

// Sort orders rows by one column. Numeric-looking cells compare numerically,
// everything else lexicographically; the sentinel sorts last.
func (v *View) Sort(key string, descending bool) {
	v.sortKey = key
	v.sortDesc = descending
}

// ClearSort removes the sort order, restoring input order.
func (v *View) ClearSort() {
	v.sortKey = ""
}

// ClearAll resets filters, pins, and visibility in one step.
func (v *View) ClearAll() {
	v.filters = make(map[string][]string)
	v.pinned = nil
	v.sortKey = ""
	v.pageIndex = 0
	for key := range v.visible {
		v.visible[key] = true
	}
}

// UniqueValues returns the distinct non-empty cell values for a column, in
// first-seen order, for building filter options.
func (v *View) UniqueValues(key string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, row := range v.rows {
		s := cellString(row[key])
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		values = append(values, s)
	}
	return values
}

// SetPage moves to the given zero-based page, clamped to the valid range.
func (v *View) SetPage(index int) {
	v.pageIndex = index
}

// NextPage advances one page.
func (v *View) NextPage() {
	v.pageIndex++
}

// PrevPage moves back one page.
func (v *View) PrevPage() {
	v.pageIndex--
}

// Page is one rendered slice of the view.
type Page struct {
	State          State      `json:"state"`
	Columns        []Column   `json:"columns"`
	Rows           [][]string `json:"rows"`
	Currency       string     `json:"currency,omitempty"`
	CurrencySymbol string     `json:"currencySymbol,omitempty"`
	PageIndex      int        `json:"pageIndex"`
	PageCount      int        `json:"pageCount"`
	TotalRows      int        `json:"totalRows"`
}

// Render applies filters, sort, visibility, and pagination and formats the
// resulting cells. It never panics on empty or unprepared views: the
// returned page carries the state instead.
func (v *View) Render() Page {
	if v.state != StateReady {
		return Page{State: v.state}
	}

	rows := v.filteredRows()
	v.sortRows(rows)

	columns := v.visibleColumns()
	pageCount := (len(rows) + v.pageSize - 1) / v.pageSize
	if pageCount == 0 {
		pageCount = 1
	}
	index := v.pageIndex
	if index >= pageCount {
		index = pageCount - 1
	}
	if index < 0 {
		index = 0
	}
	v.pageIndex = index

	start := index * v.pageSize
	end := start + v.pageSize
	if start > len(rows) {
		start = len(rows)
	}
	if end > len(rows) {
		end = len(rows)
	}

	rendered := make([][]string, 0, end-start)
	for _, row := range rows[start:end] {
		code := v.defaultCcy
		if tag, ok := row[currencyColumn].(string); ok && tag != "" {
			code = tag
		}
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = FormatAmount(row[col.Key], code)
		}
		rendered = append(rendered, cells)
	}

	return Page{
		State:          StateReady,
		Columns:        columns,
		Rows:           rendered,
		Currency:       v.defaultCcy,
		CurrencySymbol: CurrencySymbol(v.defaultCcy),
		PageIndex:      index,
		PageCount:      pageCount,
		TotalRows:      len(rows),
	}
}

// visibleColumns returns pinned columns first, then the rest, preserving
// schema order within each group.
func (v *View) visibleColumns() []Column {
	var pinned, unpinned []Column
	for _, col := range v.schema {
		if !v.visible[col.Key] {
			continue
		}
		if v.IsPinned(col.Key) {
			pinned = append(pinned, col)
		} else {
			unpinned = append(unpinned, col)
		}
	}
	return append(pinned, unpinned...)
}

func (v *View) filteredRows() []types.Row {
	if len(v.filters) == 0 {
		return append([]types.Row(nil), v.rows...)
	}
	var out []types.Row
	for _, row := range v.rows {
		if v.rowMatches(row) {
			out = append(out, row)
		}
	}
	return out
}

func (v *View) rowMatches(row types.Row) bool {
	for key, allowed := range v.filters {
		cell := cellString(row[key])
		match := false
		for _, value := range allowed {
			if cell == value {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}
	return true
}

func (v *View) sortRows(rows []types.Row) {
	if v.sortKey == "" {
		return
	}
	key := v.sortKey
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i][key], rows[j][key]
		// Missing values stay last regardless of direction.
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		if v.sortDesc {
			return cellLess(b, a)
		}
		return cellLess(a, b)
	})
}

// cellLess orders two non-nil cells: numbers before strings.
func cellLess(a, b interface{}) bool {
	as, bs := cellString(a), cellString(b)
	an, aerr := strconv.ParseFloat(as, 64)
	bn, berr := strconv.ParseFloat(bs, 64)
	if aerr == nil && berr == nil {
		return an < bn
	}
	if aerr == nil {
		return true
	}
	if berr == nil {
		return false
	}
	return as < bs
}
