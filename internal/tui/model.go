// Package tui provides the read-only week board for a shared calendar.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/wasabi/internal/conflict"
	"github.com/javiermolinar/wasabi/internal/dateutil"
	"github.com/javiermolinar/wasabi/internal/slot"
	"github.com/javiermolinar/wasabi/internal/task"
	"github.com/javiermolinar/wasabi/internal/tui/commands"
	"github.com/javiermolinar/wasabi/internal/tui/theme"
)

// Source is what the board reads from. *schedule.Engine satisfies it.
type Source interface {
	commands.Lister
	Grid() slot.Grid
	MaxOverlap() int
}

// Options configures a board.
type Options struct {
	Source   Source
	Calendar *task.Calendar
	Theme    *theme.Theme
	Week     time.Time          // any day of the first week shown, defaults to today
	Now      func() time.Time   // defaults to time.Now
	Copy     func(string) error // clipboard writer
}

// Position is a cursor position in the grid.
type Position struct {
	Day  int // 0=Monday, 6=Sunday
	Slot int // grid index
}

type day struct {
	date  time.Time
	tasks []*task.Task
	load  []int
}

// Model is the board's bubbletea model.
type Model struct {
	src      Source
	calendar *task.Calendar
	eval     *conflict.Evaluator
	styles   *Styles
	keys     keyMap
	help     help.Model
	prompt   textinput.Model
	now      func() time.Time
	copy     func(string) error

	weekStart time.Time
	days      [7]day
	cursor    Position
	offset    int // first visible slot
	prompting bool
	loading   bool
	status    string
	err       error

	width  int
	height int
}

// New creates a board model.
func New(opts Options) Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	week := opts.Week
	if week.IsZero() {
		week = now()
	}
	monday, _ := dateutil.WeekRange(week)

	prompt := textinput.New()
	prompt.Placeholder = "YYYY-MM-DD"
	prompt.Prompt = "Go to: "
	prompt.CharLimit = 10

	grid := opts.Source.Grid()
	m := Model{
		src:       opts.Source,
		calendar:  opts.Calendar,
		eval:      conflict.New(grid, opts.Source.MaxOverlap()),
		styles:    NewStyles(opts.Theme),
		keys:      defaultKeyMap(),
		help:      help.New(),
		prompt:    prompt,
		now:       now,
		copy:      opts.Copy,
		weekStart: monday,
		cursor:    Position{Slot: grid.Index(slot.At(9, 0))},
		loading:   true,
		width:     80,
		height:    24,
	}
	m.resetDays()
	if today := now(); !today.Before(monday) && today.Before(monday.AddDate(0, 0, 7)) {
		m.cursor.Day = weekdayIndex(today)
	}
	m.scrollToCursor()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return commands.LoadWeek(m.src, m.calendar.ID, m.weekStart)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.scrollToCursor()
		return m, nil

	case commands.WeekLoadedMsg:
		// A reply for a week we already left.
		if !msg.Start.Equal(m.weekStart) {
			return m, nil
		}
		m.loading = false
		m.err = nil
		m.fill(msg.Tasks)
		return m, nil

	case commands.ErrMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case commands.StatusMsg:
		m.status = msg.Msg
		return m, commands.ClearStatusAfter(3 * time.Second)

	case commands.ClearStatusMsg:
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		if m.prompting {
			return m.updatePrompt(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.prompting = false
		m.prompt.Blur()
		return m, nil
	case tea.KeyEnter:
		m.prompting = false
		m.prompt.Blur()
		date, err := dateutil.ParseDate(m.prompt.Value())
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.Local)
		m.cursor.Day = weekdayIndex(date)
		return m.gotoWeek(date)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	last := m.lastSlot()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Left):
		if m.cursor.Day == 0 {
			m.cursor.Day = 6
			return m.gotoWeek(m.weekStart.AddDate(0, 0, -7))
		}
		m.cursor.Day--

	case key.Matches(msg, m.keys.Right):
		if m.cursor.Day == 6 {
			m.cursor.Day = 0
			return m.gotoWeek(m.weekStart.AddDate(0, 0, 7))
		}
		m.cursor.Day++

	case key.Matches(msg, m.keys.Up):
		if m.cursor.Slot > 0 {
			m.cursor.Slot--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor.Slot < last {
			m.cursor.Slot++
		}

	case key.Matches(msg, m.keys.PrevWeek):
		return m.gotoWeek(m.weekStart.AddDate(0, 0, -7))

	case key.Matches(msg, m.keys.NextWeek):
		return m.gotoWeek(m.weekStart.AddDate(0, 0, 7))

	case key.Matches(msg, m.keys.Today):
		now := m.now()
		m.cursor.Day = weekdayIndex(now)
		m.cursor.Slot = min(m.src.Grid().Index(slot.FromTime(now)), last)
		return m.gotoWeek(now)

	case key.Matches(msg, m.keys.GoTo):
		m.prompting = true
		m.prompt.SetValue("")
		cmd := m.prompt.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, commands.LoadWeek(m.src, m.calendar.ID, m.weekStart)

	case key.Matches(msg, m.keys.Copy):
		tasks := m.SelectedTasks()
		if len(tasks) == 0 || m.copy == nil {
			return m, nil
		}
		return m, commands.CopyVersion(m.copy, tasks[0])

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	m.scrollToCursor()
	return m, nil
}

// gotoWeek moves the board to the week holding date and reloads it. The
// cursor day is left to the caller.
func (m Model) gotoWeek(date time.Time) (tea.Model, tea.Cmd) {
	monday, _ := dateutil.WeekRange(date)
	m.scrollToCursor()
	if monday.Equal(m.weekStart) {
		return m, nil
	}
	m.weekStart = monday
	m.resetDays()
	m.loading = true
	return m, commands.LoadWeek(m.src, m.calendar.ID, m.weekStart)
}

func (m *Model) resetDays() {
	n := m.src.Grid().SlotsPerDay()
	for i := range m.days {
		m.days[i] = day{date: m.weekStart.AddDate(0, 0, i), load: make([]int, n)}
	}
}

func (m *Model) fill(tasks []*task.Task) {
	for i := range m.days {
		d := &m.days[i]
		d.tasks = nil
		for _, t := range tasks {
			if t.CalendarID == m.calendar.ID && t.OnDate(d.date) {
				d.tasks = append(d.tasks, t)
			}
		}
		d.load = m.eval.DayLoad(tasks, m.calendar.ID, d.date)
	}
}

// SelectedTasks returns the tasks covering the slot under the cursor, in
// start order.
func (m Model) SelectedTasks() []*task.Task {
	d := m.days[m.cursor.Day]
	c := m.src.Grid().Start(m.cursor.Slot)
	var out []*task.Task
	for _, t := range d.tasks {
		if t.Covers(c) {
			out = append(out, t)
		}
	}
	return out
}

// Cursor returns the cursor position.
func (m Model) Cursor() Position { return m.cursor }

// WeekStart returns the Monday of the week shown.
func (m Model) WeekStart() time.Time { return m.weekStart }

// Load returns the occupancy of a day of the shown week.
func (m Model) Load(dayIdx int) []int { return m.days[dayIdx].load }

// lastSlot is the last slot a task can cover. Nothing starts at the final
// slot of the day.
func (m Model) lastSlot() int {
	return m.src.Grid().SlotsPerDay() - 2
}

// visibleRows is the number of grid rows that fit between the header and
// the footer.
func (m Model) visibleRows() int {
	helpLines := lipgloss.Height(m.help.View(m.keys))
	return max(m.height-chromeLines-helpLines, 1)
}

func (m *Model) scrollToCursor() {
	rows := m.visibleRows()
	if m.cursor.Slot < m.offset {
		m.offset = m.cursor.Slot
	}
	if m.cursor.Slot >= m.offset+rows {
		m.offset = m.cursor.Slot - rows + 1
	}
	m.offset = max(min(m.offset, m.lastSlot()+1-rows), 0)
}

// weekdayIndex maps a date to a Monday-based column.
func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// Run starts the board full screen and blocks until the user quits.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
