package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/wasabi/internal/dateutil"
)

const (
	timeColWidth = 6 // "09:30 "
	detailLines  = 4 // slot header plus up to three tasks
	// title, day headers, details, status
	chromeLines = 2 + detailLines + 1
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderTitle())
	b.WriteString("\n")
	b.WriteString(m.renderDayHeaders())
	b.WriteString("\n")
	b.WriteString(m.renderGrid())
	b.WriteString("\n")
	b.WriteString(m.renderDetails())
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m Model) colWidth() int {
	return max((m.width-timeColWidth)/7, defaultColWidth/2)
}

func (m Model) renderTitle() string {
	title := fmt.Sprintf("%s  week of %s", m.calendar.Name, m.weekStart.Format("Mon 2006-01-02"))
	if m.loading {
		title += "  loading..."
	}
	return m.styles.Title.Render(title)
}

func (m Model) renderDayHeaders() string {
	w := m.colWidth()
	today := m.now()

	cells := []string{strings.Repeat(" ", timeColWidth)}
	for _, d := range m.days {
		style := m.styles.DayHeader
		if dateutil.SameDay(d.date, today) {
			style = m.styles.Today
		}
		label := ansi.Truncate(d.date.Format("Mon 02"), w-1, "")
		cells = append(cells, style.Width(w-1).Render(label)+" ")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (m Model) renderGrid() string {
	grid := m.src.Grid()
	maxOverlap := m.src.MaxOverlap()
	w := m.colWidth()

	last := min(m.offset+m.visibleRows(), m.lastSlot()+1)
	rows := make([]string, 0, last-m.offset)
	for i := m.offset; i < last; i++ {
		var row strings.Builder
		row.WriteString(m.styles.Time.Render(fmt.Sprintf("%-*s", timeColWidth, grid.Start(i))))

		for dayIdx, d := range m.days {
			n := d.load[i]
			style := m.styles.occupancy(n, maxOverlap)
			if m.cursor == (Position{Day: dayIdx, Slot: i}) {
				style = m.styles.Cursor
			}
			text := ansi.Truncate(m.cellText(d, i, maxOverlap), w-1, "…")
			row.WriteString(style.Width(w - 1).Render(text))
			row.WriteString(" ")
		}
		rows = append(rows, row.String())
	}
	return strings.Join(rows, "\n")
}

// cellText shows the occupancy of a slot, followed by the topic of a task
// starting there.
func (m Model) cellText(d day, idx, maxOverlap int) string {
	n := d.load[idx]
	if n == 0 {
		return "·"
	}
	text := fmt.Sprintf("%d/%d", n, maxOverlap)
	start := m.src.Grid().Start(idx)
	for _, t := range d.tasks {
		if t.Start == start {
			return text + " " + t.Topic
		}
	}
	return text
}

func (m Model) renderDetails() string {
	d := m.days[m.cursor.Day]
	at := m.src.Grid().Start(m.cursor.Slot)
	tasks := m.SelectedTasks()

	lines := make([]string, 0, detailLines)
	lines = append(lines, m.styles.DayHeader.Render(fmt.Sprintf("%s %s  %d/%d",
		d.date.Format("Mon 2006-01-02"), at, d.load[m.cursor.Slot], m.src.MaxOverlap())))

	shown := min(len(tasks), detailLines-1)
	for i, t := range tasks[:shown] {
		if i == shown-1 && len(tasks) > shown {
			lines = append(lines, m.styles.Muted.Render(fmt.Sprintf("  +%d more", len(tasks)-i)))
			break
		}
		line := fmt.Sprintf("  #%d %s %s", t.ID, t.Range(), t.Topic)
		if t.Tag != "" {
			line += " [" + t.Tag + "]"
		}
		lines = append(lines, m.styles.Detail.Render(ansi.Truncate(line, max(m.width, 20), "…")))
	}
	for len(lines) < detailLines {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n") + "\n"
}

func (m Model) renderStatus() string {
	switch {
	case m.prompting:
		return m.prompt.View()
	case m.err != nil:
		return m.styles.Error.Render("Error: " + m.err.Error())
	case m.status != "":
		return m.styles.Status.Render(m.status)
	}
	return ""
}
