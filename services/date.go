package services

import (
	"fmt"
	"time"
)

const (
	eventDateLayout = "2006-01-02"
	monthYearLayout = "January 2006"
)

// ParseEventDate parses an ISO calendar date (YYYY-MM-DD) as a UTC midnight
func ParseEventDate(s string) (time.Time, error) {
	parsed, err := time.Parse(eventDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid event date %q: expected YYYY-MM-DD", s)
	}
	return parsed, nil
}

// FormatEventDate renders a date with a locale layout such as "1/2/2006".
// An empty layout falls back to ISO.
func FormatEventDate(t time.Time, layout string) string {
	if layout == "" {
		layout = eventDateLayout
	}
	return t.Format(layout)
}

// MonthYearLabel returns the grouping key for a date, e.g. "January 2024"
func MonthYearLabel(t time.Time) string {
	return t.Format(monthYearLayout)
}

// dateOnly strips the clock so comparisons happen on calendar dates
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WindowEnd returns the last calendar day shown for a window of the given
// number of months starting at now: day zero of month+months, which is the
// last day of month+months-1 (2024-01-15 with 3 months ends 2024-03-31).
func WindowEnd(now time.Time, months int) time.Time {
	return time.Date(now.Year(), now.Month()+time.Month(months), 0, 0, 0, 0, 0, time.UTC)
}
