// Package period handles fiscal period keys: chart-style quarter labels
// ("Q2 2023"), warehouse fiscal ids ("2_2023"), and bare years ("2023").
package period

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Latest is the sentinel passed to the rate lookup when no period is known.
const Latest = "latest"

// Key is a parsed quarter/year period key.
type Key struct {
	Quarter int // 1-4, 0 for annual keys
	Year    int
}

// ParseQuarterLabel parses chart-style labels of the form "Q<n> <year>".
func ParseQuarterLabel(label string) (Key, bool) {
	parts := strings.SplitN(strings.TrimSpace(label), " ", 2)
	if len(parts) != 2 {
		return Key{}, false
	}
	abbrev := parts[0]
	if len(abbrev) < 2 || (abbrev[0] != 'Q' && abbrev[0] != 'q') {
		return Key{}, false
	}
	quarter, err := strconv.Atoi(abbrev[1:])
	if err != nil || quarter < 1 || quarter > 4 {
		return Key{}, false
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return Key{}, false
	}
	return Key{Quarter: quarter, Year: year}, true
}

// ParseFiscalID parses warehouse period ids of the form "<q>_<year>".
func ParseFiscalID(id string) (Key, bool) {
	parts := strings.SplitN(id, "_", 2)
	if len(parts) != 2 {
		return Key{}, false
	}
	quarter, err := strconv.Atoi(parts[0])
	if err != nil || quarter < 1 || quarter > 4 {
		return Key{}, false
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return Key{}, false
	}
	return Key{Quarter: quarter, Year: year}, true
}

// QuarterEnd returns the ISO date of the last calendar day of the quarter.
func (k Key) QuarterEnd() string {
	switch k.Quarter {
	case 1:
		return fmt.Sprintf("%d-03-31", k.Year)
	case 2:
		return fmt.Sprintf("%d-06-30", k.Year)
	case 3:
		return fmt.Sprintf("%d-09-30", k.Year)
	default:
		return fmt.Sprintf("%d-12-31", k.Year)
	}
}

// YearEnd returns December 31 of the given year as an ISO date.
func YearEnd(year string) string {
	return year + "-12-31"
}

// QuarterlyRateDate maps a quarterly period id to the date used for rate
// lookup. Ids that do not match the fiscal shape pass through unchanged.
func QuarterlyRateDate(id string) string {
	if key, ok := ParseFiscalID(id); ok {
		return key.QuarterEnd()
	}
	if key, ok := ParseQuarterLabel(id); ok {
		return key.QuarterEnd()
	}
	return id
}

// AnnualRateDate maps an annual period id to the date used for rate lookup.
// Ids that are not a bare year pass through unchanged.
func AnnualRateDate(id string) string {
	if _, err := strconv.Atoi(id); err == nil {
		return YearEnd(id)
	}
	return id
}

// SortLabels orders quarter labels chronologically: year ascending, then
// quarter number ascending. Labels that do not match the "Q<n> <year>" shape
// keep their relative insertion order and follow the sorted block rather
// than interleaving with it.
func SortLabels(labels []string) []string {
	type parsedLabel struct {
		label string
		key   Key
	}
	parsed := make([]parsedLabel, 0, len(labels))
	unparsed := make([]string, 0)
	for _, label := range labels {
		if key, ok := ParseQuarterLabel(label); ok {
			parsed = append(parsed, parsedLabel{label: label, key: key})
		} else {
			unparsed = append(unparsed, label)
		}
	}
	sort.SliceStable(parsed, func(i, j int) bool {
		if parsed[i].key.Year != parsed[j].key.Year {
			return parsed[i].key.Year < parsed[j].key.Year
		}
		return parsed[i].key.Quarter < parsed[j].key.Quarter
	})

	out := make([]string, 0, len(labels))
	for _, p := range parsed {
		out = append(out, p.label)
	}
	return append(out, unparsed...)
}
