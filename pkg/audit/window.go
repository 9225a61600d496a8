package audit

import (
	"fmt"
	"time"
)

// Day is the unit of the configured maximum age
const Day = 24 * time.Hour

// Window is the freshness window of a single run. It is computed once at run
// start so every bucket is judged against the same cutoff.
type Window struct {
	MaxAgeDays int
	StartedAt  time.Time
	Cutoff     time.Time
}

// NewWindow computes the cutoff for a maximum age in days relative to now
func NewWindow(maxAgeDays int, now time.Time) (Window, error) {
	if maxAgeDays <= 0 {
		return Window{}, fmt.Errorf("maximum age must be a positive number of days, got %d", maxAgeDays)
	}
	now = now.UTC()
	return Window{
		MaxAgeDays: maxAgeDays,
		StartedAt:  now,
		Cutoff:     now.Add(-time.Duration(maxAgeDays) * Day),
	}, nil
}
