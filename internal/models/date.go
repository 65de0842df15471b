package models

import "time"

// DateLayout is the wire format for calendar dates. Appointment dates are
// date-only values with no time zone component.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a normalized date.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// NormalizeDate truncates a timestamp to its date component in UTC.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a date in the wire format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
