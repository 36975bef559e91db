// Package commands provides board command constructors and message types.
package commands

import (
	"context"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/wasabi/internal/task"
)

// Lister returns a calendar's tasks between two dates (inclusive).
type Lister interface {
	List(ctx context.Context, calendarID int64, from, to time.Time) ([]*task.Task, error)
}

// WeekLoadedMsg is sent when a week's tasks are loaded.
type WeekLoadedMsg struct {
	Start time.Time
	Tasks []*task.Task
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsg is sent for temporary status messages.
type StatusMsg struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// LoadWeek loads the seven days starting at weekStart.
func LoadWeek(src Lister, calendarID int64, weekStart time.Time) tea.Cmd {
	return func() tea.Msg {
		tasks, err := src.List(context.Background(), calendarID, weekStart, weekStart.AddDate(0, 0, 6))
		if err != nil {
			return ErrMsg{Err: err}
		}
		return WeekLoadedMsg{Start: weekStart, Tasks: tasks}
	}
}

// CopyVersion copies a task's version token to the clipboard.
func CopyVersion(copyFn func(string) error, t *task.Task) tea.Cmd {
	return func() tea.Msg {
		if err := copyFn(t.Version.String()); err != nil {
			return ErrMsg{Err: err}
		}
		return StatusMsg{Msg: "Copied version of #" + strconv.FormatInt(t.ID, 10)}
	}
}

// ClearStatusAfter clears the status line after d.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
