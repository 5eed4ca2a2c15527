package roster

import (
	"time"

	"github.com/jinzhu/now"
)

// Calendar normalizes instants to calendar days in the organization's time
// zone. "Today" for follow-ups and date-range bounds are both judged here.
type Calendar struct {
	Location *time.Location
	Now      func() time.Time
}

func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{Location: loc, Now: time.Now}
}

// LoadCalendar builds a calendar from an IANA zone name, falling back to UTC
// when the name is empty or unknown.
func LoadCalendar(zone string) Calendar {
	if zone == "" {
		return NewCalendar(time.UTC)
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return NewCalendar(time.UTC)
	}
	return NewCalendar(loc)
}

func (c Calendar) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// DayOf returns midnight of t's calendar day in the organization's zone.
func (c Calendar) DayOf(t time.Time) time.Time {
	return now.With(t.In(c.location())).BeginningOfDay()
}

func (c Calendar) Today() time.Time {
	clock := c.Now
	if clock == nil {
		clock = time.Now
	}
	return c.DayOf(clock())
}
