// Package identifier normalizes CNIC numbers and tests digit-only containment.
//
// Merit lists render the same CNIC as "12345-6789012-3", "12345 6789012 3" or
// "1234567890123" depending on who typed the list, so every comparison happens on
// the digit projection of both sides. A short query can match inside an unrelated
// longer digit run; that is a known limitation of substring matching.
package identifier

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidIdentifier is returned when a query is empty or contains non-digit characters.
var ErrInvalidIdentifier = errors.New("invalid identifier")

// Normalize strips every non-digit character, keeping digit order.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Contains reports whether the digit projection of haystack contains needle.
// needle must already be normalized; an empty needle never matches.
func Contains(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	return strings.Contains(Normalize(haystack), needle)
}

// Validate checks a raw query. Dashes and spaces are rejected, not stripped.
func Validate(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: CNIC is empty", ErrInvalidIdentifier)
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return "", fmt.Errorf("%w: CNIC must be digits only (no dashes), got %q", ErrInvalidIdentifier, raw)
		}
	}
	return raw, nil
}

// StripDashes removes dashes and surrounding whitespace the way a form front-end would
// before handing the value to Validate.
func StripDashes(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.ReplaceAll(raw, "-", "")
	return strings.ReplaceAll(raw, " ", "")
}
