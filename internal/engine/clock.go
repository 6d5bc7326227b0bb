package engine

import (
	"time"

	"github.com/tartampluch/hpde-analytics/internal/config"
)

// Clock abstracts time.Now() to allow deterministic testing.
// It stamps report and export file names.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Timestamp formats the clock's current time for file and folder names.
func Timestamp(c Clock) string {
	if c == nil {
		c = RealClock{}
	}
	return c.Now().Format(config.TimestampLayout)
}
