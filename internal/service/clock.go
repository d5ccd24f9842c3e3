package service

import (
	"time"

	"github.com/pathfinder-ai/pathfinder/internal/calendar"
)

// Clock fixes the instant and the timezone that calendar days are read in.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return Clock{Now: time.Now, Location: loc}
}

func (c Clock) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c Clock) loc() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

func (c Clock) Today() calendar.Date {
	return calendar.Of(c.now().In(c.loc()))
}
