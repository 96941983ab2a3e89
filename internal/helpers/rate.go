package helpers

import (
	"time"

	"golang.org/x/time/rate"
)

// NewOnceAMinute returns a limiter that runs its function at most once per minute.
func NewOnceAMinute() *rate.Sometimes {
	return &rate.Sometimes{
		First:    1,
		Interval: time.Minute,
	}
}
