package slot

import (
	"errors"
	"fmt"
)

// DefaultMinutes is the default slot granularity.
const DefaultMinutes = 15

// Interval errors. Both wrap ErrInvalidInterval.
var (
	ErrInvalidInterval   = errors.New("invalid interval")
	ErrStartNotBeforeEnd = fmt.Errorf("%w: start not before end", ErrInvalidInterval)
	ErrZeroLength        = fmt.Errorf("%w: zero-length after rounding", ErrInvalidInterval)
)

// ErrInvalidGrid is returned for a granularity that does not divide an hour.
var ErrInvalidGrid = errors.New("slot minutes must be a positive divisor of 60")

// Grid is a fixed partition of the day into equal slots.
type Grid struct {
	minutes int
}

// NewGrid returns a grid of the given slot length in minutes.
func NewGrid(minutes int) (Grid, error) {
	if minutes <= 0 || 60%minutes != 0 {
		return Grid{}, fmt.Errorf("%w, got %d", ErrInvalidGrid, minutes)
	}
	return Grid{minutes: minutes}, nil
}

// DefaultGrid returns the 15-minute grid.
func DefaultGrid() Grid {
	return Grid{minutes: DefaultMinutes}
}

// Minutes returns the slot length.
func (g Grid) Minutes() int {
	if g.minutes == 0 {
		return DefaultMinutes
	}
	return g.minutes
}

// SlotsPerDay returns the number of slots in a day (96 for 15 minutes).
func (g Grid) SlotsPerDay() int {
	return MinutesPerDay / g.Minutes()
}

// Index returns the slot containing c.
func (g Grid) Index(c Clock) int {
	return c.MinuteOfDay() / g.Minutes()
}

// Start returns the first instant of slot idx.
func (g Grid) Start(idx int) Clock {
	return FromMinutes(idx * g.Minutes())
}

// LastStart returns the start of the final slot of the day (23:45 for 15 minutes).
func (g Grid) LastStart() Clock {
	return g.Start(g.SlotsPerDay() - 1)
}

// Aligned reports whether c sits on a slot boundary with no seconds.
func (g Grid) Aligned(c Clock) bool {
	return c.Second() == 0 && c.MinuteOfDay()%g.Minutes() == 0
}

// Range is a half-open [Start, End) span within a day.
type Range struct {
	Start Clock
	End   Clock
}

// String formats the range as "HH:MM-HH:MM".
func (r Range) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// Contains reports whether c falls in [Start, End).
func (r Range) Contains(c Clock) bool {
	return r.Start <= c && c < r.End
}

// Normalize snaps a raw (start, end) pair onto the grid.
//
// The start is truncated down to a boundary. The end is kept when its minute
// is already on a boundary and otherwise rounded up; a result of 24:00
// collapses to LastStart. The raw order is checked before rounding, because
// rounding alone can make a valid pair equal.
func (g Grid) Normalize(start, end Clock) (Range, error) {
	if !start.Valid() || !end.Valid() {
		return Range{}, fmt.Errorf("%w: %s-%s outside the day", ErrInvalidInterval, start, end)
	}
	if start >= end {
		return Range{}, fmt.Errorf("%w (%s-%s)", ErrStartNotBeforeEnd, start, end)
	}

	step := g.Minutes()
	normStart := FromMinutes(start.MinuteOfDay() / step * step)

	endMin := end.MinuteOfDay()
	if endMin%step != 0 {
		endMin = (endMin/step + 1) * step
	}
	normEnd := FromMinutes(endMin)
	if endMin >= MinutesPerDay {
		normEnd = g.LastStart()
	}

	if normStart == normEnd {
		return Range{}, fmt.Errorf("%w (%s-%s rounds to %s)", ErrZeroLength, start, end, normStart)
	}

	return Range{Start: normStart, End: normEnd}, nil
}

// Slots returns the indexes of every slot whose start lies in r.
func (g Grid) Slots(r Range) []int {
	var out []int
	step := Clock(g.Minutes() * secondsPerMinute)
	for s := r.Start; s < r.End; s += step {
		out = append(out, g.Index(s))
	}
	return out
}
