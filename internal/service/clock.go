package service

import (
	"time"

	"github.com/msomdec/timeclock/internal/domain"
)

// Clock supplies the current time. Attendance dates and clock times are
// derived from Now in whatever location it carries.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	loc *time.Location
}

// NewSystemClock returns a clock that reports time.Now in loc.
func NewSystemClock(loc *time.Location) SystemClock {
	if loc == nil {
		loc = time.Local
	}
	return SystemClock{loc: loc}
}

func (c SystemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

func dateOf(t time.Time) string {
	return t.Format(domain.DateLayout)
}

func clockOf(t time.Time) string {
	return t.Format(domain.ClockLayout)
}
