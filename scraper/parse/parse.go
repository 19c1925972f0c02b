// Package parse extracts numeric prices from scraped text. Vietnamese
// sites write 58000 as "58.000" while international ones write "4,280.50",
// so the separator roles have to be inferred before converting.
package parse

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	numberRegexp   = regexp.MustCompile(`\d[\d.,]*\d|\d`)
	dotGrouping    = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)
	commaGrouping  = regexp.MustCompile(`^\d{1,3}(,\d{3})+$`)
	plainDigitsRun = regexp.MustCompile(`\d{4,6}`)
)

// Price extracts the first numeric value from text.
func Price(text string) (float64, bool) {
	match := numberRegexp.FindString(text)
	if match == "" {
		return 0, false
	}

	normalized := normalize(match)
	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// PriceInRange extracts the first numeric value from text that falls
// within [min, max]; extractors use it to pick the plausible number out
// of mixed table cells.
func PriceInRange(text string, min, max float64) (float64, bool) {
	for _, match := range numberRegexp.FindAllString(text, -1) {
		v, err := strconv.ParseFloat(normalize(match), 64)
		if err != nil {
			continue
		}
		if v >= min && v <= max {
			return v, true
		}
	}
	return 0, false
}

// BareDigitsInRange scans for raw 4-6 digit runs, the last-resort pattern
// when a page carries prices without any markup or separators.
func BareDigitsInRange(text string, min, max float64) (float64, bool) {
	for _, match := range plainDigitsRun.FindAllString(text, -1) {
		v, err := strconv.ParseFloat(match, 64)
		if err != nil {
			continue
		}
		if v >= min && v <= max {
			return v, true
		}
	}
	return 0, false
}

func normalize(s string) string {
	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")

	switch {
	case hasDot && hasComma:
		// The later separator is the decimal mark, the other is grouping.
		if strings.LastIndex(s, ".") > strings.LastIndex(s, ",") {
			return strings.ReplaceAll(s, ",", "")
		}
		s = strings.ReplaceAll(s, ".", "")
		return strings.ReplaceAll(s, ",", ".")
	case hasDot:
		if dotGrouping.MatchString(s) {
			return strings.ReplaceAll(s, ".", "")
		}
		return s
	case hasComma:
		if commaGrouping.MatchString(s) {
			return strings.ReplaceAll(s, ",", "")
		}
		return strings.ReplaceAll(s, ",", ".")
	default:
		return s
	}
}
