package timeutil

import "time"

// Now returns the current time in UTC.
// Always use this instead of time.Now() to ensure timezone consistency.
func Now() time.Time {
	return time.Now().UTC()
}

// StartOfDay returns the start of the day (midnight) in UTC
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same UTC calendar day
func SameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b))
}
