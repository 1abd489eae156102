package core

import (
	"strconv"
	"strings"
)

// ParseAmount converts a user-entered amount string to a float64.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Negative values are accepted; amounts are not constrained by design.
// Returns ErrInvalidAmount for empty or non-numeric input — callers at
// the web boundary substitute 0.0 in that case instead of rejecting the
// submission (inherited behavior, see DESIGN.md).
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return v, nil
}
