package time

import (
	stdtime "time"
)

// RealTimeProvider implements the TimeProvider port using the system clock.
// All ledger timestamps are UTC.
type RealTimeProvider struct{}

// NewRealTimeProvider creates a time provider backed by the system clock
func NewRealTimeProvider() *RealTimeProvider {
	return &RealTimeProvider{}
}

// Now returns the current UTC time
func (p *RealTimeProvider) Now() stdtime.Time {
	return stdtime.Now().UTC()
}

// Since returns the elapsed time since t
func (p *RealTimeProvider) Since(t stdtime.Time) stdtime.Duration {
	return stdtime.Since(t)
}
