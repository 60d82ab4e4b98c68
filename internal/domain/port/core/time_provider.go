package core

import "time"

// Duration is the domain's span of time, convertible to time.Duration at the edges
type Duration time.Duration

// Std converts domain Duration to time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// TimeProvider is the clock every timestamp and expiry check reads from
type TimeProvider interface {
	// Now returns the current instant in UTC
	Now() time.Time
	// Since returns the time elapsed since t
	Since(t time.Time) Duration
}
