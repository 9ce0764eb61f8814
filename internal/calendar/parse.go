package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrEmptyTimestamp is wrapped by ParseError for blank input
var ErrEmptyTimestamp = errors.New("empty timestamp")

// ParseError reports input that is not an ISO-8601 timestamp
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse ISO-8601 %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Extended and basic ISO-8601 forms. Inputs without an offset are UTC.
// Fractional seconds are accepted after any seconds field.
var isoLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05Z07",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"20060102T150405Z0700",
	"20060102T150405Z07:00",
	"20060102T150405",
	"2006-01-02",
	"20060102",
}

// ParseISO8601 parses an ISO-8601 timestamp and returns it in UTC
func ParseISO8601(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return time.Time{}, &ParseError{Input: s, Err: ErrEmptyTimestamp}
	}

	var firstErr error
	for _, layout := range isoLayouts {
		t, err := time.Parse(layout, trimmed)
		if err == nil {
			return t.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	return time.Time{}, &ParseError{Input: s, Err: firstErr}
}
