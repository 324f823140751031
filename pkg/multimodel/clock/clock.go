// Package clock abstracts wall-clock access so artifact timestamps
// (analysis log lines, stored result rows) stay testable.
package clock

import "time"

// Clock wraps the time functions the analyzer stamps artifacts with.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

func (RealClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}

// FixedClock reports a programmable instant, for tests.
type FixedClock struct {
	now time.Time
}

func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{now: t}
}

func (c *FixedClock) Now() time.Time {
	return c.now
}

func (c *FixedClock) Since(t time.Time) time.Duration {
	return c.now.Sub(t)
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
