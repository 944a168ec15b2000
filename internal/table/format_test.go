package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber_USGrouping(t *testing.T) {
	assert.Equal(t, "1,234,567.89", FormatNumber("1234567.89", StyleUS))
	assert.Equal(t, "1,234", FormatNumber(1234, StyleUS))
	assert.Equal(t, "123", FormatNumber("123", StyleUS))
	assert.Equal(t, "-1,234.5", FormatNumber("-1234.50", StyleUS))
}

func TestFormatNumber_IndianGrouping(t *testing.T) {
	assert.Equal(t, "12,34,567.89", FormatNumber("1234567.89", StyleIndian))
	assert.Equal(t, "1,00,000", FormatNumber("100000", StyleIndian))
	assert.Equal(t, "12,345", FormatNumber("12345", StyleIndian))
	assert.Equal(t, "999", FormatNumber("999", StyleIndian))
}

func TestFormatNumber_RoundsToTwoFractionDigits(t *testing.T) {
	assert.Equal(t, "1,234.57", FormatNumber("1234.567", StyleUS))
	assert.Equal(t, "1,234.5", FormatNumber("1234.5", StyleUS))
}

func TestFormatNumber_NonNumericPassThrough(t *testing.T) {
	assert.Equal(t, "Active AI", FormatNumber("Active AI", StyleUS))
	assert.Equal(t, "", FormatNumber(nil, StyleUS))
	assert.Equal(t, "", FormatNumber("", StyleIndian))
}

func TestFormatAmount_CurrencyPrecision(t *testing.T) {
	assert.Equal(t, "1,234.57", FormatAmount("1234.567", "USD"))
	assert.Equal(t, "12,34,567.89", FormatAmount("1234567.89", "INR"))
	// JPY carries no minor unit
	assert.Equal(t, "1,235", FormatAmount("1234.567", "JPY"))
	// Unknown codes fall back to two fraction digits
	assert.Equal(t, "1,234.57", FormatAmount("1234.567", "ZZZ"))
}

func TestCurrencySymbol(t *testing.T) {
	assert.Equal(t, "$", CurrencySymbol("USD"))
	assert.Equal(t, "₹", CurrencySymbol("inr"))
	assert.Equal(t, "ZZZ", CurrencySymbol("ZZZ"))
}

func TestStyleForCurrency(t *testing.T) {
	assert.Equal(t, StyleUS, StyleForCurrency("USD"))
	assert.Equal(t, StyleUS, StyleForCurrency("usd"))
	assert.Equal(t, StyleIndian, StyleForCurrency("INR"))
	assert.Equal(t, StyleIndian, StyleForCurrency(""))
}
