// Package core parsing helpers for user-supplied numeric input.
//
// The input lexicon is digits plus a single decimal separator; anything
// else is rejected before the value reaches the normalizer.
package core

import (
	"strconv"
	"strings"
)

// ParseAmount converts a decimal string to a non-negative amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Signs, exponents and any non-numeric characters are rejected.
func ParseAmount(s string) (float64, error) {
	v, err := parseDecimal(s)
	if err != nil {
		return 0, err
	}
	return v, nil
}

// ParsePercentage converts a decimal string to a percentage value.
// Range clamping is the normalizer's job; this only enforces the lexicon.
func ParsePercentage(s string) (float64, error) {
	return parseDecimal(s)
}

func parseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.Count(s, ".") > 1 {
		return 0, ErrInvalidAmount
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return 0, ErrInvalidAmount
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return v, nil
}
