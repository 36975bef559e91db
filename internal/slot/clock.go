// Package slot maps wall-clock times onto the fixed scheduling grid.
package slot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock errors.
var (
	ErrInvalidClock = errors.New("time must be in HH:MM or HH:MM:SS format")
)

const (
	secondsPerMinute = 60
	secondsPerDay    = 24 * 60 * 60

	// MinutesPerDay is the number of minutes in a scheduling day.
	MinutesPerDay = 24 * 60
)

// Clock is a time of day in seconds since midnight, 00:00:00 to 23:59:59.
type Clock int

// At builds a Clock from hour and minute.
func At(hour, minute int) Clock {
	return Clock(hour*3600 + minute*60)
}

// FromMinutes builds a Clock from a minute of day.
func FromMinutes(m int) Clock {
	return Clock(m * secondsPerMinute)
}

// FromTime returns the wall-clock part of t.
func FromTime(t time.Time) Clock {
	return Clock(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

// ParseClock parses "HH:MM" or "HH:MM:SS". A single-digit hour is accepted.
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w, got %q", ErrInvalidClock, s)
	}

	limits := []int{23, 59, 59}
	values := make([]int, 3)
	for i, p := range parts {
		if p == "" || len(p) > 2 || (i > 0 && len(p) != 2) {
			return 0, fmt.Errorf("%w, got %q", ErrInvalidClock, s)
		}
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 || v > limits[i] {
			return 0, fmt.Errorf("%w, got %q", ErrInvalidClock, s)
		}
		values[i] = v
	}

	return Clock(values[0]*3600 + values[1]*60 + values[2]), nil
}

// MustParseClock is like ParseClock but panics on error.
func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hour returns the hour component.
func (c Clock) Hour() int { return int(c) / 3600 }

// Minute returns the minute component.
func (c Clock) Minute() int { return int(c) % 3600 / 60 }

// Second returns the second component.
func (c Clock) Second() int { return int(c) % 60 }

// MinuteOfDay returns the minutes since midnight, dropping seconds.
func (c Clock) MinuteOfDay() int { return int(c) / secondsPerMinute }

// Valid reports whether c lies within a single day.
func (c Clock) Valid() bool { return c >= 0 && c < secondsPerDay }

// String formats c as "HH:MM", or "HH:MM:SS" when seconds are set.
func (c Clock) String() string {
	if c.Second() != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", c.Hour(), c.Minute(), c.Second())
	}
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// On returns the instant at c on the given day, in the day's location.
func (c Clock) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour(), c.Minute(), c.Second(), 0, day.Location())
}
