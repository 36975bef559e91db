// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/wasabi/internal/dateutil"
	"github.com/javiermolinar/wasabi/internal/slot"
	"github.com/javiermolinar/wasabi/internal/task"
)

// busyTimeout bounds how long a writer waits for another writer's transaction.
const busyTimeout = 10 * time.Second

const taskColumns = `
	id, calendar_id, topic, tag, location, link, notes,
	task_date, start_time, end_time, created_by, updated_by, created_at, version`

// SQLite implements task.Store using SQLite.
//
// Every write transaction is opened with BEGIN IMMEDIATE, which takes the
// database write lock up front. Write transactions are therefore serialized,
// and rows read inside one cannot change until it ends. Readers outside a
// transaction see the last committed state (WAL mode).
type SQLite struct {
	db *sql.DB
}

var _ task.Store = (*SQLite)(nil)

// New creates a new SQLite store and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == ":memory:" {
		// Each connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

func dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeout.Milliseconds()))
	q.Add("_pragma", "foreign_keys(1)")
	if path != ":memory:" {
		q.Add("_pragma", "journal_mode(WAL)")
	}
	q.Set("_txlock", "immediate")
	return "file:" + path + "?" + q.Encode()
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// WithinTx runs fn inside a serialized write transaction.
func (s *SQLite) WithinTx(ctx context.Context, fn func(tx task.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&sqliteTx{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetTask retrieves a task by ID.
func (s *SQLite) GetTask(ctx context.Context, id int64) (*task.Task, error) {
	return getTask(ctx, s.db, id)
}

// ListTasksByCalendarAndDate returns one calendar's tasks on one day.
func (s *SQLite) ListTasksByCalendarAndDate(ctx context.Context, calendarID int64, date time.Time) ([]*task.Task, error) {
	return listTasks(ctx, s.db, calendarID, date, date)
}

// ListTasksByDateRange returns one calendar's tasks within the date range (inclusive).
func (s *SQLite) ListTasksByDateRange(ctx context.Context, calendarID int64, start, end time.Time) ([]*task.Task, error) {
	return listTasks(ctx, s.db, calendarID, start, end)
}

// CreateCalendar adds a new calendar.
func (s *SQLite) CreateCalendar(ctx context.Context, cal *task.Calendar) error {
	if cal.CreatedAt.IsZero() {
		cal.CreatedAt = time.Now()
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO calendars (name, owner, created_at) VALUES (?, ?, ?)`,
		cal.Name, cal.Owner, cal.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting calendar: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	cal.ID = id
	return nil
}

// GetCalendar retrieves a calendar by ID.
func (s *SQLite) GetCalendar(ctx context.Context, id int64) (*task.Calendar, error) {
	return getCalendar(ctx, s.db, id)
}

// ListCalendars returns every calendar ordered by ID.
func (s *SQLite) ListCalendars(ctx context.Context) ([]*task.Calendar, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, owner, created_at FROM calendars ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying calendars: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cals []*task.Calendar
	for rows.Next() {
		cal, err := scanCalendar(rows)
		if err != nil {
			return nil, err
		}
		cals = append(cals, cal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating calendars: %w", err)
	}
	return cals, nil
}

// sqliteTx implements task.Tx on an open transaction.
type sqliteTx struct {
	q querier
}

// LockTask fetches a task. The transaction already holds the write lock, so
// the row stays as read until commit or rollback.
func (t *sqliteTx) LockTask(ctx context.Context, id int64) (*task.Task, error) {
	return getTask(ctx, t.q, id)
}

func (t *sqliteTx) GetCalendar(ctx context.Context, id int64) (*task.Calendar, error) {
	return getCalendar(ctx, t.q, id)
}

func (t *sqliteTx) ListTasksByCalendarAndDate(ctx context.Context, calendarID int64, date time.Time) ([]*task.Task, error) {
	return listTasks(ctx, t.q, calendarID, date, date)
}

func (t *sqliteTx) InsertTask(ctx context.Context, tsk *task.Task) error {
	query := `
		INSERT INTO tasks (
			calendar_id, topic, tag, location, link, notes,
			task_date, start_time, end_time, created_by, updated_by, created_at, version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := t.q.ExecContext(ctx, query,
		tsk.CalendarID,
		tsk.Topic,
		tsk.Tag,
		tsk.Location,
		tsk.Link,
		tsk.Notes,
		dateutil.FormatDate(tsk.Date),
		tsk.Start.String(),
		tsk.End.String(),
		tsk.CreatedBy,
		tsk.UpdatedBy,
		tsk.CreatedAt.Format(time.RFC3339Nano),
		int64(tsk.Version),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	tsk.ID = id
	return nil
}

func (t *sqliteTx) ReplaceTask(ctx context.Context, id int64, f task.Fields, version task.Version) error {
	query := `
		UPDATE tasks SET
			topic = ?, tag = ?, location = ?, link = ?, notes = ?,
			task_date = ?, start_time = ?, end_time = ?, updated_by = ?, version = ?
		WHERE id = ?
	`

	result, err := t.q.ExecContext(ctx, query,
		f.Topic,
		f.Tag,
		f.Location,
		f.Link,
		f.Notes,
		dateutil.FormatDate(f.Date),
		f.Start.String(),
		f.End.String(),
		f.UpdatedBy,
		int64(version),
		id,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return requireRow(result, id)
}

func (t *sqliteTx) DeleteTask(ctx context.Context, id int64) error {
	result, err := t.q.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return requireRow(result, id)
}

func requireRow(result sql.Result, id int64) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %d", task.ErrTaskNotFound, id)
	}
	return nil
}

func getTask(ctx context.Context, q querier, id int64) (*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`

	t, err := scanTask(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", task.ErrTaskNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func listTasks(ctx context.Context, q querier, calendarID int64, start, end time.Time) ([]*task.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE calendar_id = ? AND task_date >= ? AND task_date <= ?
		ORDER BY task_date, start_time, id
	`

	rows, err := q.QueryContext(ctx, query, calendarID, dateutil.FormatDate(start), dateutil.FormatDate(end))
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func getCalendar(ctx context.Context, q querier, id int64) (*task.Calendar, error) {
	row := q.QueryRowContext(ctx, `SELECT id, name, owner, created_at FROM calendars WHERE id = ?`, id)
	cal, err := scanCalendar(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", task.ErrCalendarNotFound, id)
	}
	return cal, err
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*task.Task, error) {
	var (
		t         task.Task
		taskDate  string
		start     string
		end       string
		createdAt string
		version   int64
	)

	err := row.Scan(
		&t.ID,
		&t.CalendarID,
		&t.Topic,
		&t.Tag,
		&t.Location,
		&t.Link,
		&t.Notes,
		&taskDate,
		&start,
		&end,
		&t.CreatedBy,
		&t.UpdatedBy,
		&createdAt,
		&version,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	if t.Date, err = parseDate(taskDate); err != nil {
		return nil, fmt.Errorf("parsing task date: %w", err)
	}
	if t.Start, err = slot.ParseClock(start); err != nil {
		return nil, fmt.Errorf("parsing start time: %w", err)
	}
	if t.End, err = slot.ParseClock(end); err != nil {
		return nil, fmt.Errorf("parsing end time: %w", err)
	}
	if t.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	t.Version = task.Version(version)

	return &t, nil
}

func scanCalendar(row rowScanner) (*task.Calendar, error) {
	var (
		cal       task.Calendar
		createdAt string
	)
	err := row.Scan(&cal.ID, &cal.Name, &cal.Owner, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning calendar: %w", err)
	}
	if cal.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	return &cal, nil
}

// parseDate parses a date string in various formats SQLite might return.
// Date-only values (midnight) are parsed in local timezone to match time.Now() behavior.
func parseDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(dateutil.DateLayout, s, time.Local); err == nil {
		return t, nil
	}

	// SQLite returns DATE columns as "2006-01-02T00:00:00Z"; treat as local midnight.
	if len(s) == 20 && s[10] == 'T' && s[19] == 'Z' {
		if t, err := time.ParseInLocation(dateutil.DateLayout, s[:10], time.Local); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %s", s)
}
