package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseCents reads a non-negative decimal amount written with either "," or
// "." as separator and returns it in cents.
func ParseCents(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, fmt.Errorf("missing")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("%q is negative", s)
	}
	return int64(math.Round(v * 100)), nil
}
