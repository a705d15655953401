package core

import "time"

// TimeProvider abstracts time operations for the domain.
// Balance reconstruction orders transactions by wall-clock time, so tests
// need full control over "now".
type TimeProvider interface {
	// Now returns the current time in UTC
	Now() time.Time
	// Since returns the elapsed time since t
	Since(t time.Time) time.Duration
}

// StartOfMonth returns midnight on the first day of t's month.
// Monthly balance snapshots never cross this boundary.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
