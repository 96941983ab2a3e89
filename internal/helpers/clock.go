package helpers

import (
	"sync"
	"time"
)

// ISOLayout renders UTC instants without an offset, e.g. 2024-01-01T00:00:00.123456.
const ISOLayout = "2006-01-02T15:04:05.000000"

// Clock hands out UTC instants that never go backwards, even if the wall clock is stepped.
type Clock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

// NewClock returns a Clock reading from now, or time.Now when now is nil.
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

// Now returns the current UTC time truncated to microseconds.
func (c *Clock) Now() time.Time {
	t := c.now().UTC().Truncate(time.Microsecond)

	c.mu.Lock()
	defer c.mu.Unlock()
	if t.Before(c.last) {
		return c.last
	}
	c.last = t
	return t
}

// Timestamp returns Now formatted with FormatISO.
func (c *Clock) Timestamp() string {
	return FormatISO(c.Now())
}

// FormatISO formats t in UTC as ISO-8601, omitting the fraction when it is zero.
func FormatISO(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond()/int(time.Microsecond) == 0 {
		return t.Format("2006-01-02T15:04:05")
	}
	return t.Format(ISOLayout)
}
