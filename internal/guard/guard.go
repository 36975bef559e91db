// Package guard serializes task mutations behind an optimistic version check.
//
// A caller captures a task's version when it renders the task for editing,
// outside any lock. Mutate later locks the task, compares the stored version
// with the captured one and only then applies the change, stamping a fresh
// version in the same transaction.
package guard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/javiermolinar/wasabi/internal/task"
)

// ErrVersionConflict is matched by every *ConflictError.
var ErrVersionConflict = errors.New("task was modified by someone else")

// ConflictError reports a stale expected version.
type ConflictError struct {
	ID       int64
	Expected task.Version
	Current  task.Version
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: task %d is at version %s, expected %s", ErrVersionConflict, e.ID, e.Current, e.Expected)
}

// Is lets errors.Is match ErrVersionConflict.
func (e *ConflictError) Is(target error) bool {
	return target == ErrVersionConflict
}

// MutateFunc applies a change to a locked task. next is the version the
// change must be stamped with. Returning an error rolls the transaction back.
type MutateFunc func(ctx context.Context, tx task.Tx, current *task.Task, next task.Version) error

// CreateFunc inserts inside a serialized transaction, stamping version.
type CreateFunc func(ctx context.Context, tx task.Tx, version task.Version) error

// Transactor is the part of task.Store the guard needs.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx task.Tx) error) error
}

// Guard runs mutations through the store's serialized transactions.
type Guard struct {
	store Transactor
	now   func() time.Time
	log   *zap.Logger
}

// Option configures a Guard.
type Option func(*Guard)

// WithClock overrides the clock used to stamp versions.
func WithClock(now func() time.Time) Option {
	return func(g *Guard) { g.now = now }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(log *zap.Logger) Option {
	return func(g *Guard) { g.log = log }
}

// New creates a Guard over store.
func New(store Transactor, opts ...Option) *Guard {
	g := &Guard{store: store, now: time.Now, log: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Mutate locks task id, checks its version against expected and runs fn.
//
// It returns the committed version, task.ErrTaskNotFound when the task does
// not exist (whatever expected is), a *ConflictError when the versions
// differ, or the error fn returned. Nothing is applied unless it returns a
// nil error. The lock is held only for the duration of the call.
func (g *Guard) Mutate(ctx context.Context, id int64, expected task.Version, fn MutateFunc) (task.Version, error) {
	var committed task.Version

	err := g.store.WithinTx(ctx, func(tx task.Tx) error {
		current, err := tx.LockTask(ctx, id)
		if err != nil {
			return err
		}

		if current.Version != expected {
			g.log.Debug("version mismatch",
				zap.Int64("task_id", id),
				zap.Stringer("expected", expected),
				zap.Stringer("current", current.Version),
			)
			return &ConflictError{ID: id, Expected: expected, Current: current.Version}
		}

		next := current.Version.Next(g.now())
		if err := fn(ctx, tx, current, next); err != nil {
			return err
		}
		committed = next
		return nil
	})
	if err != nil {
		return 0, err
	}

	return committed, nil
}

// Create runs fn in a serialized transaction with a freshly stamped version,
// so concurrent creates on the same calendar and date see each other's
// inserts before evaluating overlap.
func (g *Guard) Create(ctx context.Context, fn CreateFunc) (task.Version, error) {
	version := task.Version(0).Next(g.now())

	err := g.store.WithinTx(ctx, func(tx task.Tx) error {
		return fn(ctx, tx, version)
	})
	if err != nil {
		return 0, err
	}

	return version, nil
}
