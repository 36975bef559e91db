package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/javiermolinar/wasabi/internal/slot"
	"github.com/javiermolinar/wasabi/internal/task"
	"github.com/javiermolinar/wasabi/internal/tui/commands"
	"github.com/javiermolinar/wasabi/internal/tui/theme"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

type fakeSource struct {
	tasks []*task.Task
	err   error
	calls int
}

func (f *fakeSource) List(_ context.Context, calendarID int64, from, to time.Time) ([]*task.Task, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []*task.Task
	for _, t := range f.tasks {
		if t.CalendarID == calendarID && !t.Date.Before(from) && !t.Date.After(to) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeSource) Grid() slot.Grid { return slot.DefaultGrid() }
func (f *fakeSource) MaxOverlap() int { return 2 }

// Wednesday 2025-01-15, 09:10.
var testNow = time.Date(2025, 1, 15, 9, 10, 0, 0, time.Local)

func mkTask(id int64, day int, topic string, start, end slot.Clock) *task.Task {
	return &task.Task{
		ID:         id,
		CalendarID: 1,
		Fields: task.Fields{
			Topic: topic,
			Date:  time.Date(2025, 1, day, 0, 0, 0, 0, time.Local),
			Start: start,
			End:   end,
		},
		Version: task.Version(id),
	}
}

func newTestModel(t *testing.T, src *fakeSource) Model {
	t.Helper()
	return New(Options{
		Source:   src,
		Calendar: &task.Calendar{ID: 1, Name: "team"},
		Theme:    theme.Load("mocha"),
		Now:      func() time.Time { return testNow },
	})
}

// load runs the model's Init command and feeds the result back.
func load(t *testing.T, m Model) Model {
	t.Helper()
	msg := m.Init()()
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		updated, cmd := m.Update(msg)
		m = updated.(Model)
		// Follow week reloads synchronously. Other commands, such as the
		// prompt's cursor blink, are dropped.
		if m.loading && cmd != nil {
			updated, _ = m.Update(cmd())
			m = updated.(Model)
		}
	}
	return m
}

func TestNew_CursorOnToday(t *testing.T) {
	m := newTestModel(t, &fakeSource{})

	if got := m.WeekStart(); got.Day() != 13 || got.Weekday() != time.Monday {
		t.Errorf("WeekStart() = %v, want Monday the 13th", got)
	}
	if m.Cursor().Day != 2 {
		t.Errorf("cursor day = %d, want 2 (Wednesday)", m.Cursor().Day)
	}
	if m.Cursor().Slot != slot.DefaultGrid().Index(slot.At(9, 0)) {
		t.Errorf("cursor slot = %d, want the 09:00 slot", m.Cursor().Slot)
	}
}

func TestUpdate_WeekLoaded(t *testing.T) {
	src := &fakeSource{tasks: []*task.Task{
		mkTask(1, 15, "Standup", slot.At(9, 0), slot.At(9, 30)),
		mkTask(2, 15, "Review", slot.At(9, 15), slot.At(10, 0)),
		mkTask(3, 17, "Demo", slot.At(14, 0), slot.At(15, 0)),
	}}
	m := load(t, newTestModel(t, src))

	if m.loading {
		t.Error("expected loading to be cleared")
	}
	g := slot.DefaultGrid()
	wed := m.Load(2)
	if wed[g.Index(slot.At(9, 0))] != 1 || wed[g.Index(slot.At(9, 15))] != 2 || wed[g.Index(slot.At(9, 45))] != 1 {
		t.Errorf("unexpected wednesday load around 09:00: %v", wed[36:40])
	}
	if m.Load(4)[g.Index(slot.At(14, 0))] != 1 {
		t.Error("expected friday 14:00 to hold one task")
	}
	if m.Load(0)[g.Index(slot.At(9, 0))] != 0 {
		t.Error("expected monday to be empty")
	}
}

func TestUpdate_StaleWeekIgnored(t *testing.T) {
	m := newTestModel(t, &fakeSource{})
	stale := commands.WeekLoadedMsg{
		Start: m.WeekStart().AddDate(0, 0, -7),
		Tasks: []*task.Task{mkTask(1, 8, "Old", slot.At(9, 0), slot.At(10, 0))},
	}
	updated, _ := m.Update(stale)
	if !updated.(Model).loading {
		t.Error("stale reply should not finish loading")
	}
}

func TestSelectedTasks(t *testing.T) {
	src := &fakeSource{tasks: []*task.Task{
		mkTask(1, 15, "Standup", slot.At(9, 0), slot.At(9, 30)),
		mkTask(2, 15, "Review", slot.At(9, 15), slot.At(10, 0)),
	}}
	m := load(t, newTestModel(t, src))

	if got := m.SelectedTasks(); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("at 09:00 got %v, want task 1", got)
	}

	m = press(m, "j")
	if got := m.SelectedTasks(); len(got) != 2 {
		t.Fatalf("at 09:15 got %d tasks, want 2", len(got))
	}

	m = press(m, "j", "j")
	if got := m.SelectedTasks(); len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("at 09:45 got %v, want task 2", got)
	}
}

func TestNavigation(t *testing.T) {
	src := &fakeSource{}
	m := load(t, newTestModel(t, src))
	g := slot.DefaultGrid()

	tests := []struct {
		name     string
		keys     []string
		wantDay  int
		wantSlot int
		wantWeek int // day of month of the Monday shown
	}{
		{"right", []string{"l"}, 3, g.Index(slot.At(9, 0)), 13},
		{"left", []string{"h"}, 1, g.Index(slot.At(9, 0)), 13},
		{"down and up", []string{"j", "j", "k"}, 2, g.Index(slot.At(9, 15)), 13},
		{"right wraps to next week", []string{"l", "l", "l", "l", "l"}, 0, g.Index(slot.At(9, 0)), 20},
		{"left wraps to previous week", []string{"h", "h", "h"}, 6, g.Index(slot.At(9, 0)), 6},
		{"next week keeps the day", []string{"]"}, 2, g.Index(slot.At(9, 0)), 20},
		{"prev week", []string{"["}, 2, g.Index(slot.At(9, 0)), 6},
		{"today", []string{"]", "]", "h", "t"}, 2, g.Index(slot.At(9, 0)), 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := press(m, tt.keys...)
			if got.Cursor().Day != tt.wantDay {
				t.Errorf("day = %d, want %d", got.Cursor().Day, tt.wantDay)
			}
			if got.Cursor().Slot != tt.wantSlot {
				t.Errorf("slot = %d, want %d", got.Cursor().Slot, tt.wantSlot)
			}
			if got.WeekStart().Day() != tt.wantWeek {
				t.Errorf("week start = %v, want day %d", got.WeekStart(), tt.wantWeek)
			}
		})
	}
}

func TestNavigation_StopsBeforeLastSlot(t *testing.T) {
	m := load(t, newTestModel(t, &fakeSource{}))
	keys := make([]string, 200)
	for i := range keys {
		keys[i] = "j"
	}
	m = press(m, keys...)

	if want := slot.DefaultGrid().Index(slot.At(23, 30)); m.Cursor().Slot != want {
		t.Errorf("slot = %d, want %d", m.Cursor().Slot, want)
	}
}

func TestGoToDate(t *testing.T) {
	m := load(t, newTestModel(t, &fakeSource{}))

	m = press(m, "g", "2", "0", "2", "5", "-", "0", "3", "-", "0", "7", "enter")
	if m.prompting {
		t.Fatal("prompt should close on enter")
	}
	if m.WeekStart().Month() != time.March || m.WeekStart().Day() != 3 {
		t.Errorf("week start = %v, want 2025-03-03", m.WeekStart())
	}
	if m.Cursor().Day != 4 {
		t.Errorf("cursor day = %d, want 4 (Friday)", m.Cursor().Day)
	}

	m = press(m, "g", "n", "o", "p", "e", "enter")
	if m.err == nil {
		t.Error("expected an error for an invalid date")
	}

	before := m.WeekStart()
	m = press(m, "g", "1", "esc")
	if m.prompting || !m.WeekStart().Equal(before) {
		t.Error("esc should close the prompt without moving")
	}
}

func TestCopyVersion(t *testing.T) {
	src := &fakeSource{tasks: []*task.Task{mkTask(7, 15, "Standup", slot.At(9, 0), slot.At(9, 30))}}
	m := newTestModel(t, src)
	var copied string
	m.copy = func(s string) error { copied = s; return nil }
	m = load(t, m)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	if cmd == nil {
		t.Fatal("expected a copy command")
	}
	msg, ok := cmd().(commands.StatusMsg)
	if !ok {
		t.Fatalf("expected StatusMsg, got %T", msg)
	}
	if copied != task.Version(7).String() {
		t.Errorf("copied %q, want the version of task 7", copied)
	}
	if msg.Msg != "Copied version of #7" {
		t.Errorf("status = %q", msg.Msg)
	}

	updated, next := m.Update(msg)
	if updated.(Model).status != msg.Msg || next == nil {
		t.Error("expected the status to be shown and cleared later")
	}
	updated, _ = updated.Update(commands.ClearStatusMsg{})
	if updated.(Model).status != "" {
		t.Error("expected the status to be cleared")
	}
}

func TestLoadError(t *testing.T) {
	m := load(t, newTestModel(t, &fakeSource{err: errors.New("database is locked")}))
	if m.err == nil || m.loading {
		t.Fatal("expected an error and loading cleared")
	}
	if !strings.Contains(m.View(), "Error: database is locked") {
		t.Error("expected the error in the view")
	}
}

func TestView(t *testing.T) {
	src := &fakeSource{tasks: []*task.Task{
		mkTask(1, 15, "Standup", slot.At(9, 0), slot.At(9, 30)),
		mkTask(2, 15, "Review", slot.At(9, 15), slot.At(10, 0)),
	}}
	m := load(t, newTestModel(t, src))
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	m = press(updated.(Model), "j")

	out := m.View()
	for _, want := range []string{
		"team  week of Mon 2025-01-13",
		"Wed 15",
		"1/2 Standup",
		"2/2 Review",
		"Wed 2025-01-15 09:15  2/2",
		"#1 09:00-09:30 Standup",
		"#2 09:15-10:00 Review",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if got, want := lipgloss.Height(out), 30; got > want {
		t.Errorf("view is %d lines, taller than the %d line window", got, want)
	}
}

func TestRefresh(t *testing.T) {
	src := &fakeSource{}
	m := load(t, newTestModel(t, src))
	src.tasks = append(src.tasks, mkTask(1, 13, "Planning", slot.At(9, 0), slot.At(10, 0)))

	m = press(m, "r")
	if src.calls != 2 {
		t.Errorf("List called %d times, want 2", src.calls)
	}
	if m.Load(0)[slot.DefaultGrid().Index(slot.At(9, 0))] != 1 {
		t.Error("expected the refresh to pick up the new task")
	}
}
