package conflict

import (
	"errors"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javiermolinar/wasabi/internal/slot"
	"github.com/javiermolinar/wasabi/internal/task"
)

var day = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

func newTask(id, calendarID int64, date time.Time, start, end string) *task.Task {
	return &task.Task{
		ID:         id,
		CalendarID: calendarID,
		Fields: task.Fields{
			Topic: "task",
			Date:  date,
			Start: slot.MustParseClock(start),
			End:   slot.MustParseClock(end),
		},
	}
}

func candidate(start, end string) task.Candidate {
	return task.Candidate{
		CalendarID: 1,
		Date:       day,
		Range:      slot.Range{Start: slot.MustParseClock(start), End: slot.MustParseClock(end)},
	}
}

// covering returns n tasks that all span 10:00-10:15 (slot 40).
func covering(n int) []*task.Task {
	tasks := make([]*task.Task, n)
	for i := range tasks {
		tasks[i] = newTask(int64(i+1), 1, day, "09:30", "10:15")
	}
	return tasks
}

func TestEvaluate_CapBoundary(t *testing.T) {
	e := New(slot.DefaultGrid(), DefaultMaxOverlap)
	c := candidate("10:00", "10:30")

	t.Run("one below the cap is accepted", func(t *testing.T) {
		require.NoError(t, e.Evaluate(covering(DefaultMaxOverlap-1), c))
	})

	t.Run("at the cap is rejected naming slot 40", func(t *testing.T) {
		err := e.Evaluate(covering(DefaultMaxOverlap), c)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrOverlapExceeded))

		var oe *OverlapError
		require.True(t, errors.As(err, &oe))
		require.Len(t, oe.Slots, 1)
		assert.Equal(t, 40, oe.First().Index)
		assert.Equal(t, "10:00", oe.First().Start.String())
		assert.Equal(t, DefaultMaxOverlap, oe.First().Count)
		assert.Equal(t, DefaultMaxOverlap, oe.Max)
	})
}

func TestEvaluate_BoundaryExclusive(t *testing.T) {
	e := New(slot.DefaultGrid(), 1)

	// Ends exactly where the candidate starts.
	before := []*task.Task{newTask(1, 1, day, "09:00", "10:00")}
	require.NoError(t, e.Evaluate(before, candidate("10:00", "11:00")))

	// Starts exactly where the candidate ends.
	after := []*task.Task{newTask(1, 1, day, "11:00", "12:00")}
	require.NoError(t, e.Evaluate(after, candidate("10:00", "11:00")))

	// Starts in the candidate's last slot.
	inside := []*task.Task{newTask(1, 1, day, "10:45", "12:00")}
	err := e.Evaluate(inside, candidate("10:00", "11:00"))
	var oe *OverlapError
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, 43, oe.First().Index)
}

func TestEvaluate_Filters(t *testing.T) {
	e := New(slot.DefaultGrid(), 1)
	c := candidate("10:00", "11:00")

	tests := []struct {
		name     string
		existing []*task.Task
		cand     task.Candidate
	}{
		{name: "no existing tasks", existing: nil, cand: c},
		{name: "other calendar", existing: []*task.Task{newTask(1, 2, day, "10:00", "11:00")}, cand: c},
		{name: "other date", existing: []*task.Task{newTask(1, 1, day.AddDate(0, 0, 1), "10:00", "11:00")}, cand: c},
		{name: "nil entries ignored", existing: []*task.Task{nil}, cand: c},
		{
			name:     "excluded task being replaced",
			existing: []*task.Task{newTask(7, 1, day, "10:00", "11:00")},
			cand: task.Candidate{
				CalendarID: c.CalendarID,
				Date:       c.Date,
				Range:      c.Range,
				Exclude:    mo.Some[int64](7),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, e.Evaluate(tt.existing, tt.cand))
		})
	}
}

func TestEvaluate_DateIgnoresTimeOfDay(t *testing.T) {
	e := New(slot.DefaultGrid(), 1)
	existing := []*task.Task{newTask(1, 1, time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local), "10:00", "11:00")}
	require.Error(t, e.Evaluate(existing, candidate("10:00", "10:15")))
}

func TestEvaluate_CollectsAllSlots(t *testing.T) {
	e := New(slot.DefaultGrid(), 2)
	existing := []*task.Task{
		newTask(1, 1, day, "09:00", "12:00"),
		newTask(2, 1, day, "09:00", "09:30"),
		newTask(3, 1, day, "11:00", "11:15"),
	}

	err := e.Evaluate(existing, candidate("08:45", "11:30"))
	var oe *OverlapError
	require.True(t, errors.As(err, &oe))

	got := make([]string, len(oe.Slots))
	for i, s := range oe.Slots {
		got[i] = s.Start.String()
	}
	assert.Equal(t, []string{"09:00", "09:15", "11:00"}, got)
	assert.Contains(t, err.Error(), "at most 2 overlapping tasks")
}

func TestOccupancy(t *testing.T) {
	e := New(slot.DefaultGrid(), DefaultMaxOverlap)
	existing := []*task.Task{
		newTask(1, 1, day, "09:00", "10:00"),
		newTask(2, 1, day, "09:30", "09:45"),
	}

	occ := e.Occupancy(existing, candidate("09:15", "10:15"))
	assert.Equal(t, Occupancy{37: 1, 38: 2, 39: 1, 40: 0}, occ)
}

func TestDayLoad(t *testing.T) {
	e := New(slot.DefaultGrid(), DefaultMaxOverlap)
	existing := []*task.Task{
		newTask(1, 1, day, "00:00", "00:30"),
		newTask(2, 1, day, "00:15", "00:45"),
		newTask(3, 2, day, "00:00", "23:45"),
	}

	load := e.DayLoad(existing, 1, day)
	require.Len(t, load, 96)
	assert.Equal(t, []int{1, 2, 1, 0}, load[:4])
}

func TestNew_DefaultsCap(t *testing.T) {
	assert.Equal(t, DefaultMaxOverlap, New(slot.DefaultGrid(), 0).MaxOverlap())
	assert.Equal(t, 3, New(slot.DefaultGrid(), 3).MaxOverlap())
}
