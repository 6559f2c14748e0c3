package core

// convert.go provides conversion helpers for raw source values.
//
// Sources disagree on how they spell timestamps and numbers:
//   - created_at is usually "YYYY-MM-DD HH:MM:SS" but may arrive as RFC3339
//     (structured-object exports) or as a bare date
//   - ages may be JSON numbers, quoted strings, or "12.0" from spreadsheet exports
//
// Parse* functions return an error describing the rejected value so callers can
// attach it to a per-record diagnostic.

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// timestampLayouts are tried in order; the first is the canonical layout.
var timestampLayouts = []string{
	TimeLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp converts a created_at value to a time.Time in UTC.
// Returns an error if no known layout matches.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("invalid timestamp: empty value")
	}

	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid timestamp %q (use %s)", s, TimeLayout)
}

// ParseAge converts a child age value to a non-negative integer.
// Whole-number floats such as "7.0" are accepted.
func ParseAge(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("invalid age: empty value")
	}

	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("invalid age %q", s)
	}
	return int(f), nil
}

// CleanCell unwraps a spreadsheet text cell written as ="...".
// Anything else, whitespace included, is returned unchanged.
func CleanCell(s string) string {
	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		return s[2 : len(s)-1]
	}
	return s
}
