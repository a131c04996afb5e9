// Package utils provides utility functions for the application.
package utils

import (
	"fmt"
	"time"
)

// DayLayout is the canonical wire/storage format for calendar days.
const DayLayout = "2006-01-02"

// Day is a calendar day at UTC day granularity. Keeping day arithmetic on a
// dedicated type avoids timezone and format drift between "today" and
// "yesterday" computations done as raw strings.
type Day struct {
	t time.Time
}

// Today returns the current UTC calendar day.
func Today() Day {
	return DayOf(UTCNow())
}

// DayOf truncates a timestamp to its UTC calendar day.
func DayOf(t time.Time) Day {
	u := t.UTC()
	return Day{t: time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDay parses a YYYY-MM-DD string into a Day.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid day %q: %w", s, err)
	}
	return Day{t: t}, nil
}

// Prev returns the preceding calendar day.
func (d Day) Prev() Day {
	return Day{t: d.t.AddDate(0, 0, -1)}
}

// Next returns the following calendar day.
func (d Day) Next() Day {
	return Day{t: d.t.AddDate(0, 0, 1)}
}

// Equal reports whether two values name the same calendar day.
func (d Day) Equal(other Day) bool {
	return d.t.Equal(other.t)
}

// String renders the day in YYYY-MM-DD form.
func (d Day) String() string {
	return d.t.Format(DayLayout)
}

// Time returns the UTC midnight instant of the day.
func (d Day) Time() time.Time {
	return d.t
}

// IsZero reports whether the day is the zero value.
func (d Day) IsZero() bool {
	return d.t.IsZero()
}
