// Package schedule is the task scheduling engine: it validates, normalizes
// and conflict-checks task mutations and commits them through the version
// guard.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"
	"go.uber.org/zap"

	"github.com/javiermolinar/wasabi/internal/conflict"
	"github.com/javiermolinar/wasabi/internal/guard"
	"github.com/javiermolinar/wasabi/internal/slot"
	"github.com/javiermolinar/wasabi/internal/task"
)

// Options configures an Engine.
type Options struct {
	// SlotMinutes is the grid granularity. Zero selects slot.DefaultMinutes.
	SlotMinutes int
	// MaxOverlap caps existing tasks per slot. Zero selects conflict.DefaultMaxOverlap.
	MaxOverlap int
	// Logger receives one line per operation. Nil discards.
	Logger *zap.Logger
	// Now stamps versions. Nil selects time.Now.
	Now func() time.Time
}

// Engine runs create, update and delete requests against a store.
type Engine struct {
	store task.Store
	grid  slot.Grid
	eval  *conflict.Evaluator
	guard *guard.Guard
	log   *zap.Logger
}

// New creates an Engine.
func New(store task.Store, opts Options) (*Engine, error) {
	grid := slot.DefaultGrid()
	if opts.SlotMinutes != 0 {
		g, err := slot.NewGrid(opts.SlotMinutes)
		if err != nil {
			return nil, err
		}
		grid = g
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	guardOpts := []guard.Option{guard.WithLogger(log)}
	if opts.Now != nil {
		guardOpts = append(guardOpts, guard.WithClock(opts.Now))
	}

	return &Engine{
		store: store,
		grid:  grid,
		eval:  conflict.New(grid, opts.MaxOverlap),
		guard: guard.New(store, guardOpts...),
		log:   log,
	}, nil
}

// Grid returns the slot grid in use.
func (e *Engine) Grid() slot.Grid {
	return e.grid
}

// MaxOverlap returns the per-slot cap in use.
func (e *Engine) MaxOverlap() int {
	return e.eval.MaxOverlap()
}

// Create schedules a new task on a calendar.
func (e *Engine) Create(ctx context.Context, calendarID int64, d task.Draft) (_ *task.Task, err error) {
	log := e.opLogger("create", zap.Int64("calendar_id", calendarID))
	defer func() { e.logOutcome(log, err) }()

	if err := d.Validate(); err != nil {
		return nil, err
	}
	r, err := e.grid.Normalize(d.Start, d.End)
	if err != nil {
		return nil, err
	}

	t := &task.Task{
		CalendarID: calendarID,
		Fields:     d.Fields(r),
		CreatedBy:  d.Actor,
	}
	cand := task.Candidate{CalendarID: calendarID, Date: t.Date, Range: r, Exclude: mo.None[int64]()}

	_, err = e.guard.Create(ctx, func(ctx context.Context, tx task.Tx, version task.Version) error {
		if _, err := tx.GetCalendar(ctx, calendarID); err != nil {
			return err
		}
		if err := e.check(ctx, tx, cand); err != nil {
			return err
		}

		t.Version = version
		t.CreatedAt = version.Time()
		return tx.InsertTask(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	log = log.With(zap.Int64("task_id", t.ID))
	return t, nil
}

// Update replaces every field of task id, provided the stored version still
// equals expected.
func (e *Engine) Update(ctx context.Context, id int64, expected task.Version, d task.Draft) (_ *task.Task, err error) {
	log := e.opLogger("update", zap.Int64("task_id", id))
	defer func() { e.logOutcome(log, err) }()

	if err := d.Validate(); err != nil {
		return nil, err
	}

	var updated task.Task
	_, err = e.guard.Mutate(ctx, id, expected, func(ctx context.Context, tx task.Tx, current *task.Task, next task.Version) error {
		r, err := e.grid.Normalize(d.Start, d.End)
		if err != nil {
			return err
		}

		fields := d.Fields(r)
		cand := task.Candidate{
			CalendarID: current.CalendarID,
			Date:       fields.Date,
			Range:      r,
			Exclude:    mo.Some(id),
		}
		if err := e.check(ctx, tx, cand); err != nil {
			return err
		}

		if err := tx.ReplaceTask(ctx, id, fields, next); err != nil {
			return err
		}
		updated = *current
		updated.Fields = fields
		updated.Version = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// Delete removes task id, provided the stored version still equals expected.
func (e *Engine) Delete(ctx context.Context, id int64, expected task.Version) (err error) {
	log := e.opLogger("delete", zap.Int64("task_id", id))
	defer func() { e.logOutcome(log, err) }()

	_, err = e.guard.Mutate(ctx, id, expected, func(ctx context.Context, tx task.Tx, current *task.Task, _ task.Version) error {
		return tx.DeleteTask(ctx, current.ID)
	})
	return err
}

// Get returns a task, typically to capture its version before editing.
func (e *Engine) Get(ctx context.Context, id int64) (*task.Task, error) {
	return e.store.GetTask(ctx, id)
}

// List returns a calendar's tasks between two dates (inclusive).
func (e *Engine) List(ctx context.Context, calendarID int64, from, to time.Time) ([]*task.Task, error) {
	if _, err := e.store.GetCalendar(ctx, calendarID); err != nil {
		return nil, err
	}
	return e.store.ListTasksByDateRange(ctx, calendarID, from, to)
}

// DayLoad returns the per-slot occupancy of a calendar on one day.
func (e *Engine) DayLoad(ctx context.Context, calendarID int64, date time.Time) ([]int, error) {
	if _, err := e.store.GetCalendar(ctx, calendarID); err != nil {
		return nil, err
	}
	tasks, err := e.store.ListTasksByCalendarAndDate(ctx, calendarID, date)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return e.eval.DayLoad(tasks, calendarID, date), nil
}

// check evaluates a candidate against the tasks stored for its calendar and
// date, read inside the caller's transaction.
func (e *Engine) check(ctx context.Context, tx task.Tx, c task.Candidate) error {
	existing, err := tx.ListTasksByCalendarAndDate(ctx, c.CalendarID, c.Date)
	if err != nil {
		return fmt.Errorf("listing tasks: %w", err)
	}
	return e.eval.Evaluate(existing, c)
}

func (e *Engine) opLogger(op string, fields ...zap.Field) *zap.Logger {
	return e.log.With(append([]zap.Field{zap.String("op", op), zap.String("op_id", uuid.NewString())}, fields...)...)
}

func (e *Engine) logOutcome(log *zap.Logger, err error) {
	kind := KindOf(err)
	switch kind {
	case KindNone:
		log.Info("committed")
	case KindInternal:
		log.Error("failed", zap.Error(err))
	default:
		log.Info("rejected", zap.Stringer("kind", kind), zap.Error(err))
	}
}
