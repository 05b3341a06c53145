package util

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	amountPattern   = regexp.MustCompile(`(\d{1,3}(?:[\s.,]\d{3})+|\d+(?:[.,]\d+)?)`)
	fractionPattern = regexp.MustCompile(`^(\d+)\s*/\s*(\d+)$`)
	thousandsDotted = regexp.MustCompile(`^[1-9]\d{0,2}(?:\.\d{3})+$`)
	thousandsComma  = regexp.MustCompile(`^[1-9]\d{0,2}(?:,\d{3})+$`)
	vulgarFractions = strings.NewReplacer("½", "1/2", "¼", "1/4", "¾", "3/4", "⅓", "1/3", "⅔", "2/3")
)

// ParseDecimal parses a number written with either '.' or ',' as the decimal separator.
func ParseDecimal(token string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(token), ",", ".", 1), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseAmount extracts the first quantity from a spreadsheet or table cell.
// Thousand separators and simple fractions ("1/2", "½") are understood.
func ParseAmount(input string) *float64 {
	cell := strings.TrimSpace(strings.ReplaceAll(input, "\u00A0", " "))
	cell = vulgarFractions.Replace(cell)
	if m := fractionPattern.FindStringSubmatch(cell); m != nil {
		num, _ := strconv.ParseFloat(m[1], 64)
		den, _ := strconv.ParseFloat(m[2], 64)
		if den == 0 {
			return nil
		}
		return FloatPtr(num / den)
	}

	m := amountPattern.FindStringSubmatch(cell)
	if m == nil {
		return nil
	}
	parsed, err := strconv.ParseFloat(normalizeNumericToken(m[1]), 64)
	if err != nil || parsed <= 0 {
		return nil
	}
	return FloatPtr(parsed)
}

func normalizeNumericToken(token string) string {
	compact := strings.ReplaceAll(token, " ", "")
	if thousandsDotted.MatchString(compact) {
		return strings.ReplaceAll(compact, ".", "")
	}
	if thousandsComma.MatchString(compact) {
		return strings.ReplaceAll(compact, ",", "")
	}
	if strings.Contains(compact, ",") && !strings.Contains(compact, ".") {
		return strings.ReplaceAll(compact, ",", ".")
	}
	return compact
}
