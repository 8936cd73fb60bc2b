package timeutil

import "time"

// DateLayout is the wire format for calendar dates (scheduled production
// dates, capacity dates, measurement dates).
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date in the local business timezone.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, time.Local)
}

// StartOfDay returns midnight of the given day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Today returns midnight of the current day.
func Today() time.Time {
	return StartOfDay(time.Now())
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// FormatDate renders a timestamp as a calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
