package table

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// NumberStyle selects the digit-grouping convention for a cell.
type NumberStyle string

const (
	// StyleUS groups digits in threes (1,234,567.89)
	StyleUS NumberStyle = "US"
	// StyleIndian groups the last three digits then twos (12,34,567.89)
	StyleIndian NumberStyle = "INR"
)

// StyleForCurrency maps a currency code to its grouping style. USD uses US
// grouping; everything else follows the Indian convention, matching the
// dashboard's two supported reporting currencies.
func StyleForCurrency(code string) NumberStyle {
	if strings.EqualFold(code, money.USD) {
		return StyleUS
	}
	return StyleIndian
}

// fractionDigits returns the currency's minor-unit count, falling back to
// two for unknown codes.
func fractionDigits(code string) int32 {
	if c := money.GetCurrency(strings.ToUpper(code)); c != nil {
		return int32(c.Fraction)
	}
	return 2
}

// CurrencySymbol returns the display grapheme for a currency code ("$",
// "₹"), or the code itself when the currency is unknown.
func CurrencySymbol(code string) string {
	if c := money.GetCurrency(strings.ToUpper(code)); c != nil {
		return c.Grapheme
	}
	return code
}

// FormatAmount renders a monetary cell using the currency's minor-unit
// precision and grouping convention, so zero-fraction currencies render
// without a decimal tail.
func FormatAmount(value interface{}, code string) string {
	return formatNumeric(value, StyleForCurrency(code), fractionDigits(code))
}

// FormatNumber renders a numeric-looking value with grouping and up to two
// fraction digits. Non-numeric values are returned in their string form and
// nil renders empty.
func FormatNumber(value interface{}, style NumberStyle) string {
	return formatNumeric(value, style, 2)
}

func formatNumeric(value interface{}, style NumberStyle, digits int32) string {
	if value == nil {
		return ""
	}
	raw := cellString(value)
	if raw == "" {
		return ""
	}
	num, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}

	rounded := decimal.NewFromFloat(num).Round(digits).String()
	negative := strings.HasPrefix(rounded, "-")
	rounded = strings.TrimPrefix(rounded, "-")

	intPart, fracPart, hasFrac := strings.Cut(rounded, ".")
	grouped := groupDigits(intPart, style)
	if hasFrac {
		grouped += "." + fracPart
	}
	if negative {
		grouped = "-" + grouped
	}
	return grouped
}

// groupDigits inserts thousand separators. The Indian convention groups the
// last three digits, then pairs.
func groupDigits(digits string, style NumberStyle) string {
	if len(digits) <= 3 {
		return digits
	}
	if style == StyleUS {
		var parts []string
		for len(digits) > 3 {
			parts = append([]string{digits[len(digits)-3:]}, parts...)
			digits = digits[:len(digits)-3]
		}
		return digits + "," + strings.Join(parts, ",")
	}

	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	parts = append(parts, tail)
	return head + "," + strings.Join(parts, ",")
}

// cellString renders a raw cell value for display and filtering.
func cellString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
