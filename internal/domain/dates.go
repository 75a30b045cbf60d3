package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the persisted form of every calendar date in project documents.
const DateLayout = "02/01/2006"

// ParseDate parses a DD/MM/YYYY string into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected DD/MM/YYYY", s)
	}
	return t, nil
}

// FormatDate renders t as DD/MM/YYYY using its calendar components.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// IsDateSet reports whether a persisted date string carries a value.
func IsDateSet(s string) bool {
	return strings.TrimSpace(s) != ""
}

// CalendarDay truncates t to its calendar date in t's own location, expressed in UTC.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the signed number of calendar days from `from` to `to`.
func DaysBetween(from, to time.Time) int {
	return int(CalendarDay(to).Sub(CalendarDay(from)).Hours() / 24)
}
