package util

import (
	"math"
	"strconv"
	"strings"
)

// ParseFloatCell parses a numeric CSV cell. Empty, "null", "NaN" and "NA"
// cells are missing and return NaN with ok=true. Infinite values are
// rejected.
func ParseFloatCell(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "null", "nan", "na", "n/a":
		return math.NaN(), true
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// FormatFloat renders a value for CSV output; NaN becomes an empty cell.
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
