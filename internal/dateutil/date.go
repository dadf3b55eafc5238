package dateutil

import (
	"fmt"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

// ParseDate validates a "YYYY-MM-DD" string and returns its canonical form.
func ParseDate(s string) (string, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t.Format(dateLayout), nil
}

// Weekday returns the day of week for a "YYYY-MM-DD" date, 0=Sunday..6=Saturday.
func Weekday(date string) (int, error) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return int(t.Weekday()), nil
}

// MonthRange expands a "YYYY-MM" month into the half-open date interval
// [first day of month, first day of next month).
func MonthRange(month string) (start, end string, err error) {
	t, err := time.Parse(monthLayout, month)
	if err != nil {
		return "", "", fmt.Errorf("invalid month %q: %w", month, err)
	}
	return t.Format(dateLayout), t.AddDate(0, 1, 0).Format(dateLayout), nil
}

// MonthTimeRange is MonthRange as a UTC timestamp interval, for filtering
// timestamp columns.
func MonthTimeRange(month string) (start, end time.Time, err error) {
	t, err := time.Parse(monthLayout, month)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q: %w", month, err)
	}
	return t, t.AddDate(0, 1, 0), nil
}

// MonthDays lists every "YYYY-MM-DD" date of a "YYYY-MM" month in order.
func MonthDays(month string) ([]string, error) {
	t, err := time.Parse(monthLayout, month)
	if err != nil {
		return nil, fmt.Errorf("invalid month %q: %w", month, err)
	}
	next := t.AddDate(0, 1, 0)
	var days []string
	for d := t; d.Before(next); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(dateLayout))
	}
	return days, nil
}
