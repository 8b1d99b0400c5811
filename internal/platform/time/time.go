// Package time contains calendar helpers shared by listing and projection code
package time

import (
	"fmt"
	"time"
)

// Ptr returns &t, or nil for the zero time
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// StartOfDay truncates t to midnight in loc (t's own location when loc is nil)
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day in loc
func SameDay(a, b time.Time, loc *time.Location) bool {
	return StartOfDay(a, loc).Equal(StartOfDay(b, loc))
}

// Clock is a wall clock time of day
type Clock struct {
	Hour, Minute, Second int
}

// ClockOf returns the time of day of t
func ClockOf(t time.Time) Clock {
	return Clock{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

// ParseClock reads "15:04" or "15:04:05"
func ParseClock(s string) (Clock, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockOf(t), nil
		}
	}
	return Clock{}, fmt.Errorf("invalid time of day %q", s)
}

// On places the clock on day's calendar date as a wall time in loc.
// The date is read in day's own zone, so a date column scanned as UTC midnight
// keeps its day in zones west of UTC
func (c Clock) On(day time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = day.Location()
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, c.Hour, c.Minute, c.Second, 0, loc)
}

// Since returns the duration from earlier to c, wrapping past midnight
func (c Clock) Since(earlier Clock) time.Duration {
	d := c.secs() - earlier.secs()
	if d < 0 {
		d += 24 * 60 * 60
	}
	return time.Duration(d) * time.Second
}

func (c Clock) secs() int { return c.Hour*3600 + c.Minute*60 + c.Second }

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}
