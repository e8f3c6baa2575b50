package core

import (
	"strconv"
	"strings"
	"unicode"
)

// MaxCount is the largest count a single day can hold. It keeps yearly
// sums and chart scaling far from integer overflow.
const MaxCount = 1_000_000_000

// ParseCount converts user input into a shipment count.
//
// Surrounding whitespace is ignored. Only plain decimal digits are
// accepted: signs, separators and fractions are rejected, as is anything
// above MaxCount.
//
//	ParseCount("12")  -> 12, nil
//	ParseCount(" 0 ") -> 0, nil
//	ParseCount("")    -> 0, ErrEmptyCount
//	ParseCount("1.5") -> 0, ErrInvalidCount
func ParseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrEmptyCount
	}
	for _, r := range s {
		if !unicode.IsDigit(r) || r > unicode.MaxASCII {
			return 0, ErrInvalidCount
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n > MaxCount {
		return 0, ErrInvalidCount
	}
	return n, nil
}
