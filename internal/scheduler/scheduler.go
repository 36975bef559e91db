// Package scheduler finds openings: the earliest place inside working hours
// where a task of a given length still fits under the overlap cap.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/javiermolinar/wasabi/internal/dateutil"
	"github.com/javiermolinar/wasabi/internal/slot"
)

// Errors returned by Find.
var (
	ErrNoOpening     = errors.New("no opening found")
	ErrInvalidLength = errors.New("length must be positive")
)

// Scheduler searches a grid for free runs of slots within working hours.
type Scheduler struct {
	grid       slot.Grid
	maxOverlap int
	workdays   map[time.Weekday]bool
	dayStart   slot.Clock
	dayEnd     slot.Clock
}

// New creates a new Scheduler. A slot is free while it holds fewer than
// maxOverlap tasks.
func New(grid slot.Grid, maxOverlap int, workdays []time.Weekday, dayStart, dayEnd slot.Clock) *Scheduler {
	wd := make(map[time.Weekday]bool, len(workdays))
	for _, d := range workdays {
		wd[d] = true
	}
	return &Scheduler{
		grid:       grid,
		maxOverlap: maxOverlap,
		workdays:   wd,
		dayStart:   dayStart,
		dayEnd:     dayEnd,
	}
}

// AvailableSlot is the point a search starts from.
type AvailableSlot struct {
	Date  time.Time
	Start slot.Clock
}

// Opening is a place a task fits.
type Opening struct {
	Date  time.Time
	Range slot.Range
}

// DayLoader returns the per-slot occupancy of one day.
type DayLoader func(ctx context.Context, date time.Time) ([]int, error)

// NextAvailableStart returns the earliest grid-aligned start at or after now.
// If now is before dayStart, returns dayStart of today (if workday) or next workday.
// If now is during work hours, returns now rounded up to the grid.
// If now is after dayEnd, returns dayStart of next workday.
func (s *Scheduler) NextAvailableStart(now time.Time) AvailableSlot {
	today := dateutil.TruncateToDay(now)
	if s.IsWorkday(now) {
		start := max(s.ceil(slot.FromTime(now)), s.dayStart)
		if start < s.dayEnd {
			return AvailableSlot{Date: today, Start: start}
		}
	}
	return s.nextWorkday(today)
}

// nextWorkday finds the next workday starting from the day after the given time.
func (s *Scheduler) nextWorkday(from time.Time) AvailableSlot {
	next := from.AddDate(0, 0, 1)
	for range 7 {
		if s.IsWorkday(next) {
			return AvailableSlot{Date: next, Start: s.dayStart}
		}
		next = next.AddDate(0, 0, 1)
	}
	// No workdays configured.
	return AvailableSlot{Date: from.AddDate(0, 0, 1), Start: s.dayStart}
}

// IsWorkday returns true if the given time falls on a configured workday.
func (s *Scheduler) IsWorkday(t time.Time) bool {
	return s.workdays[t.Weekday()]
}

// FirstFit returns the earliest range of at least minutes, starting at or
// after from and inside working hours, whose slots are all below the cap.
func (s *Scheduler) FirstFit(load []int, from slot.Clock, minutes int) (slot.Range, bool) {
	if minutes <= 0 {
		return slot.Range{}, false
	}
	step := s.grid.Minutes()
	need := (minutes + step - 1) / step

	first, end := s.window()
	first = max(first, s.grid.Index(s.ceil(from)))

	run := 0
	for i := first; i < end && i < len(load); i++ {
		if load[i] >= s.maxOverlap {
			run = 0
			continue
		}
		run++
		if run == need {
			return slot.Range{Start: s.grid.Start(i - need + 1), End: s.grid.Start(i + 1)}, true
		}
	}
	return slot.Range{}, false
}

// Find walks workdays from now, for at most horizonDays calendar days, and
// returns the first opening of the given length.
func (s *Scheduler) Find(ctx context.Context, load DayLoader, now time.Time, minutes, horizonDays int) (Opening, error) {
	if minutes <= 0 {
		return Opening{}, fmt.Errorf("%w, got %d", ErrInvalidLength, minutes)
	}

	start := s.NextAvailableStart(now)
	from := start.Start
	for d := range horizonDays {
		day := start.Date.AddDate(0, 0, d)
		if d > 0 {
			from = s.dayStart
		}
		if !s.IsWorkday(day) {
			continue
		}

		l, err := load(ctx, day)
		if err != nil {
			return Opening{}, err
		}
		if r, ok := s.FirstFit(l, from, minutes); ok {
			return Opening{Date: day, Range: r}, nil
		}
	}
	return Opening{}, fmt.Errorf("%w for %d minutes within %d days", ErrNoOpening, minutes, horizonDays)
}

// window returns the slot indexes [first, end) inside working hours. The
// last slot of the day is never usable, since no task may start there.
func (s *Scheduler) window() (first, end int) {
	first = s.grid.Index(s.ceil(s.dayStart))
	end = min(s.dayEnd.MinuteOfDay()/s.grid.Minutes(), s.grid.SlotsPerDay()-1)
	return first, end
}

// ceil rounds c up to the next grid boundary.
func (s *Scheduler) ceil(c slot.Clock) slot.Clock {
	step := s.grid.Minutes()
	m := c.MinuteOfDay()
	if m%step == 0 && c.Second() == 0 {
		return c
	}
	m = (m/step + 1) * step
	if m >= slot.MinutesPerDay {
		return s.grid.LastStart()
	}
	return slot.FromMinutes(m)
}
