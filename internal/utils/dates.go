package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/club-backoffice/internal/constants"
)

// ParseDate parses a YYYY-MM-DD string as a UTC date.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(constants.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t.UTC(), nil
}

// ParseOptionalDate parses value, treating an empty string as no date.
func ParseOptionalDate(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ValidateTimeRange checks two HH:MM values and that end is after start.
func ValidateTimeRange(start, end string) error {
	s, err := time.Parse(constants.TimeLayout, start)
	if err != nil {
		return fmt.Errorf("invalid start time %q, expected HH:MM", start)
	}
	e, err := time.Parse(constants.TimeLayout, end)
	if err != nil {
		return fmt.Errorf("invalid end time %q, expected HH:MM", end)
	}
	if !e.After(s) {
		return fmt.Errorf("end time must be after start time")
	}
	return nil
}

// MonthRange returns [first day of month, first day of next month) in UTC.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
