package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/wasabi/internal/tui/theme"
)

// Default column width - recalculated from the terminal width.
const defaultColWidth = 14

// Styles holds all lipgloss styles for the board, derived from a theme.
type Styles struct {
	Title     lipgloss.Style
	DayHeader lipgloss.Style
	Today     lipgloss.Style
	Time      lipgloss.Style

	Free    lipgloss.Style
	Busy    lipgloss.Style
	Warning lipgloss.Style
	Full    lipgloss.Style
	Cursor  lipgloss.Style

	Detail lipgloss.Style
	Muted  lipgloss.Style
	Error  lipgloss.Style
	Status lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t *theme.Theme) *Styles {
	if t == nil {
		t = theme.Load("")
	}
	p := theme.NewPalette(t)

	return &Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		DayHeader: lipgloss.NewStyle().Bold(true).Foreground(p.Fg),
		Today:     lipgloss.NewStyle().Bold(true).Foreground(p.TextOnAccent).Background(p.Accent),
		Time:      lipgloss.NewStyle().Foreground(p.FgMuted),

		Free:    lipgloss.NewStyle().Foreground(p.FgMuted),
		Busy:    lipgloss.NewStyle().Foreground(p.TextOnBusy).Background(p.BusyBg),
		Warning: lipgloss.NewStyle().Foreground(p.TextOnWarning).Background(p.WarningBg),
		Full:    lipgloss.NewStyle().Bold(true).Foreground(p.TextOnFull).Background(p.FullBg),
		Cursor:  lipgloss.NewStyle().Foreground(p.Fg).Background(p.Selection).Bold(true),

		Detail: lipgloss.NewStyle().Foreground(p.Fg),
		Muted:  lipgloss.NewStyle().Foreground(p.FgMuted),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Full)),
		Status: lipgloss.NewStyle().Foreground(p.Accent),
	}
}

// occupancy returns the cell style for a slot holding n of maxOverlap tasks.
func (s *Styles) occupancy(n, maxOverlap int) lipgloss.Style {
	switch {
	case n == 0:
		return s.Free
	case n >= maxOverlap:
		return s.Full
	case n == maxOverlap-1:
		return s.Warning
	default:
		return s.Busy
	}
}
