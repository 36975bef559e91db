// Package conflict bounds how many tasks may overlap in any slot of a day.
package conflict

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/javiermolinar/wasabi/internal/slot"
	"github.com/javiermolinar/wasabi/internal/task"
)

// DefaultMaxOverlap is the default per-slot cap on existing tasks.
const DefaultMaxOverlap = 5

// ErrOverlapExceeded is matched by every *OverlapError.
var ErrOverlapExceeded = errors.New("overlap limit exceeded")

// SlotLoad is the number of existing tasks occupying one slot.
type SlotLoad struct {
	Index int
	Start slot.Clock
	Count int
}

// OverlapError rejects a candidate and names every slot that is full.
type OverlapError struct {
	Max   int
	Slots []SlotLoad
}

func (e *OverlapError) Error() string {
	starts := make([]string, len(e.Slots))
	for i, s := range e.Slots {
		starts[i] = fmt.Sprintf("%s (slot %d, %d tasks)", s.Start, s.Index, s.Count)
	}
	return fmt.Sprintf("%s: at most %d overlapping tasks, full at %s",
		ErrOverlapExceeded, e.Max, strings.Join(starts, ", "))
}

// Is lets errors.Is match ErrOverlapExceeded.
func (e *OverlapError) Is(target error) bool {
	return target == ErrOverlapExceeded
}

// First returns the earliest offending slot.
func (e *OverlapError) First() SlotLoad {
	return e.Slots[0]
}

// Occupancy maps a slot index to the number of existing tasks covering it.
// It is built fresh for every evaluation.
type Occupancy map[int]int

// Evaluator checks candidates against the tasks already on a calendar.
type Evaluator struct {
	grid       slot.Grid
	maxOverlap int
}

// New creates an Evaluator. A non-positive maxOverlap selects DefaultMaxOverlap.
func New(grid slot.Grid, maxOverlap int) *Evaluator {
	if maxOverlap <= 0 {
		maxOverlap = DefaultMaxOverlap
	}
	return &Evaluator{grid: grid, maxOverlap: maxOverlap}
}

// MaxOverlap returns the configured cap.
func (e *Evaluator) MaxOverlap() int {
	return e.maxOverlap
}

// Grid returns the slot grid used for evaluation.
func (e *Evaluator) Grid() slot.Grid {
	return e.grid
}

// Occupancy counts, for every slot starting inside the candidate's range,
// how many relevant existing tasks cover the slot's start instant. The
// candidate itself is not counted.
func (e *Evaluator) Occupancy(existing []*task.Task, c task.Candidate) Occupancy {
	peers := e.peers(existing, c.CalendarID, c.Date, c)
	occ := make(Occupancy)
	for _, idx := range e.grid.Slots(c.Range) {
		start := e.grid.Start(idx)
		n := 0
		for _, t := range peers {
			if t.Covers(start) {
				n++
			}
		}
		occ[idx] = n
	}
	return occ
}

// Evaluate accepts the candidate (nil) or returns an *OverlapError naming
// every slot that already holds MaxOverlap or more existing tasks.
func (e *Evaluator) Evaluate(existing []*task.Task, c task.Candidate) error {
	occ := e.Occupancy(existing, c)

	var full []SlotLoad
	for idx, n := range occ {
		if n >= e.maxOverlap {
			full = append(full, SlotLoad{Index: idx, Start: e.grid.Start(idx), Count: n})
		}
	}
	if len(full) == 0 {
		return nil
	}

	slices.SortFunc(full, func(a, b SlotLoad) int { return a.Index - b.Index })
	return &OverlapError{Max: e.maxOverlap, Slots: full}
}

// DayLoad returns the occupancy of every slot of the day for one calendar.
func (e *Evaluator) DayLoad(existing []*task.Task, calendarID int64, date time.Time) []int {
	load := make([]int, e.grid.SlotsPerDay())
	for _, t := range e.peers(existing, calendarID, date, task.Candidate{}) {
		for _, idx := range e.grid.Slots(t.Range()) {
			load[idx]++
		}
	}
	return load
}

// peers keeps the tasks on the calendar and date that the candidate is not
// replacing.
func (e *Evaluator) peers(existing []*task.Task, calendarID int64, date time.Time, c task.Candidate) []*task.Task {
	out := make([]*task.Task, 0, len(existing))
	for _, t := range existing {
		if t == nil || t.CalendarID != calendarID || !t.OnDate(date) || c.Excludes(t.ID) {
			continue
		}
		out = append(out, t)
	}
	return out
}
