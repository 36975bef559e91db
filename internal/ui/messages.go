package ui

import (
	"errors"
	"fmt"

	"github.com/javiermolinar/wasabi/internal/conflict"
	"github.com/javiermolinar/wasabi/internal/schedule"
	"github.com/javiermolinar/wasabi/internal/slot"
	"github.com/javiermolinar/wasabi/internal/task"
)

// userError carries the message shown to the user while keeping the
// underlying error for errors.Is.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }
func (e *userError) Unwrap() error { return e.err }

// explain turns an engine error into a message the user can act on. start is
// the requested start time, used to word end-of-day rejections.
func (a *App) explain(err error, start slot.Clock) error {
	if err == nil {
		return nil
	}

	grid := a.engine.Grid()
	var msg string
	switch schedule.KindOf(err) {
	case schedule.KindVersionConflict:
		msg = "Another user has modified this task. Please re-enter."
	case schedule.KindOverlapExceeded:
		msg = fmt.Sprintf("You can only create up to %d overlapped tasks.", a.engine.MaxOverlap())
		var oe *conflict.OverlapError
		if errors.As(err, &oe) {
			msg += fmt.Sprintf(" The %s slot is full.", oe.First().Start)
		}
	case schedule.KindInvalidInterval:
		switch {
		case errors.Is(err, slot.ErrZeroLength) && grid.Index(start) >= grid.SlotsPerDay()-1:
			msg = fmt.Sprintf("Task cannot begin after %s.", grid.LastStart())
		case errors.Is(err, slot.ErrZeroLength):
			msg = fmt.Sprintf("Task must cover at least one %d-minute slot.", grid.Minutes())
		default:
			msg = "Start time must be before end time."
		}
	case schedule.KindNotFound:
		switch {
		case errors.Is(err, task.ErrCalendarNotFound):
			msg = "Calendar not found."
		default:
			msg = "Task not found. It may have been deleted by another user."
		}
	case schedule.KindInvalidInput:
		msg = err.Error()
	default:
		return err
	}
	return &userError{msg: msg, err: err}
}
