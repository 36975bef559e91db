package task

import (
	"context"
	"time"
)

// Store defines the storage interface the scheduling engine relies on.
type Store interface {
	// GetTask retrieves a task by ID. Returns ErrTaskNotFound if absent.
	GetTask(ctx context.Context, id int64) (*Task, error)

	// ListTasksByCalendarAndDate returns the tasks of one calendar on one day,
	// ordered by start time.
	ListTasksByCalendarAndDate(ctx context.Context, calendarID int64, date time.Time) ([]*Task, error)

	// ListTasksByDateRange returns the tasks of one calendar scheduled within
	// the date range (inclusive).
	ListTasksByDateRange(ctx context.Context, calendarID int64, start, end time.Time) ([]*Task, error)

	// CreateCalendar adds a new calendar.
	CreateCalendar(ctx context.Context, cal *Calendar) error

	// GetCalendar retrieves a calendar by ID. Returns ErrCalendarNotFound if absent.
	GetCalendar(ctx context.Context, id int64) (*Calendar, error)

	// ListCalendars returns every calendar ordered by ID.
	ListCalendars(ctx context.Context) ([]*Calendar, error)

	// WithinTx runs fn inside a write transaction. Write transactions are
	// serialized against each other for their whole duration. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any resources held by the store.
	Close() error
}

// Tx is the view of the store inside a write transaction.
type Tx interface {
	// LockTask fetches a task and holds it exclusively until the transaction
	// ends. Returns ErrTaskNotFound if absent.
	LockTask(ctx context.Context, id int64) (*Task, error)

	// GetCalendar retrieves a calendar by ID. Returns ErrCalendarNotFound if absent.
	GetCalendar(ctx context.Context, id int64) (*Calendar, error)

	// ListTasksByCalendarAndDate is the transactional form of the Store method.
	ListTasksByCalendarAndDate(ctx context.Context, calendarID int64, date time.Time) ([]*Task, error)

	// InsertTask adds a task and sets its ID.
	InsertTask(ctx context.Context, t *Task) error

	// ReplaceTask overwrites every replaceable field of a task and stamps
	// the new version.
	ReplaceTask(ctx context.Context, id int64, fields Fields, version Version) error

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, id int64) error
}
