// Package dates provides canonical date/datetime parsing and validation
// helpers.
//
// This package exists to avoid duplicating date handling across:
// - frontmatter decoding
// - expression evaluation (date comparisons and date arithmetic)
// - view sorting/grouping
package dates

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Layouts used throughout loam.
const (
	DateLayout            = "2006-01-02"
	DatetimeLayout        = "2006-01-02T15:04"
	DatetimeSecondsLayout = "2006-01-02T15:04:05"
)

var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsValidDate checks if a string is a valid YYYY-MM-DD date.
func IsValidDate(s string) bool {
	if !dateRegex.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !IsValidDate(s) {
		return time.Time{}, fmt.Errorf("invalid date: %q", s)
	}
	return time.Parse(DateLayout, s)
}

// IsValidDatetime checks if a string is a valid datetime.
//
// Accepted formats:
// - RFC3339 (e.g. 2025-01-01T10:30:00Z)
// - YYYY-MM-DDTHH:MM
// - YYYY-MM-DDTHH:MM:SS
func IsValidDatetime(s string) bool {
	_, err := ParseDatetime(s)
	return err == nil
}

// ParseDatetime parses a datetime in one of the accepted formats.
func ParseDatetime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("invalid datetime: empty")
	}

	formats := []string{
		time.RFC3339,
		DatetimeLayout,
		DatetimeSecondsLayout,
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid datetime: %q", s)
}

// ParseAny parses either a date or a datetime.
func ParseAny(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if IsValidDate(s) {
		return time.Parse(DateLayout, s)
	}
	return ParseDatetime(s)
}

// IsTemporal reports whether s parses as a date or datetime.
func IsTemporal(s string) bool {
	_, err := ParseAny(s)
	return err == nil
}

// DaysBetween returns the signed difference a-b in whole days.
// Fractional days are truncated toward zero, so notes touched less than a
// day apart count as zero days apart.
func DaysBetween(a, b time.Time) float64 {
	return float64(int64(a.Sub(b).Hours() / 24))
}
