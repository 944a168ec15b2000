// Package table implements the tabular view engine: column schemas,
// visibility/pinning/sorting/filtering state, locale-aware cell formatting,
// and pagination over arbitrary row sets.
package table

import (
	"sort"
	"strings"
	"unicode"

	"github.com/portfolio-insights/internal/types"
)

// Column describes one table column.
type Column struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Sortable bool   `json:"sortable"`
}

// Schema is an ordered set of columns for one dataset.
type Schema []Column

// Keys returns the column keys in schema order.
func (s Schema) Keys() []string {
	keys := make([]string, len(s))
	for i, col := range s {
		keys[i] = col.Key
	}
	return keys
}

// DeriveSchema infers a schema from the first row of a dataset: one column
// per key, sorted for a stable order, with a humanized label. Preferred
// practice is a declared per-dataset schema; derivation is the fallback for
// ad hoc row sets.
func DeriveSchema(rows []types.Row) Schema {
	if len(rows) == 0 {
		return nil
	}
	keys := make([]string, 0, len(rows[0]))
	for key := range rows[0] {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	schema := make(Schema, 0, len(keys))
	for _, key := range keys {
		schema = append(schema, Column{Key: key, Label: Humanize(key), Sortable: true})
	}
	return schema
}

// Humanize turns a record key into a display label: first letter
// capitalized, camel-case boundaries and underscores spaced.
func Humanize(key string) string {
	if key == "" {
		return ""
	}
	var b strings.Builder
	runes := []rune(strings.ReplaceAll(key, "_", " "))
	for i, r := range runes {
		if i == 0 {
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		if unicode.IsUpper(r) && !unicode.IsUpper(runes[i-1]) && runes[i-1] != ' ' {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
