package table

import (
	"testing"

	"github.com/portfolio-insights/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestHumanize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"period", "Period"},
		{"periodType", "Period Type"},
		{"Asset_Name", "Asset Name"},
		{"value", "Value"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Humanize(tt.in), "key %q", tt.in)
	}
}

func TestDeriveSchema(t *testing.T) {
	rows := []types.Row{
		{"period": "Q1 2023", "value": "100", "Currency_Code": "INR"},
		{"period": "Q2 2023"}, // later rows do not contribute columns
	}

	schema := DeriveSchema(rows)

	assert.Equal(t, []string{"Currency_Code", "period", "value"}, schema.Keys())
	assert.Equal(t, "Currency Code", schema[0].Label)
	assert.True(t, schema[0].Sortable)
}

func TestDeriveSchema_Empty(t *testing.T) {
	assert.Nil(t, DeriveSchema(nil))
	assert.Nil(t, DeriveSchema([]types.Row{}))
}
