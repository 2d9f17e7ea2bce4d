package utils

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the only accepted free-text date format.
const DateLayout = "2006-01-02"

// ParseQuantity parses a decimal number, accepting either '.' or ','
// as the decimal separator ("4.25" and "4,25" are the same value).
func ParseQuantity(input string) (float64, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(input), ",", ".")
	return strconv.ParseFloat(normalized, 64)
}

// ParsePositiveQuantity parses a quantity and rejects values <= 0.
func ParsePositiveQuantity(input string) (float64, bool) {
	value, err := ParseQuantity(input)
	if err != nil || value <= 0 {
		return 0, false
	}
	return value, true
}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(input string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(input))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsDigits reports whether s is a non-empty run of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// AtoiDefault parses s as an int, returning def on any failure.
func AtoiDefault(s string, def int) int {
	if !IsDigits(s) {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
