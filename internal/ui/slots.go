package ui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/wasabi/internal/dateutil"
	"github.com/javiermolinar/wasabi/internal/slot"
)

// Occupancy cell styles.
var (
	cellFree = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	cellUsed = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("2"))
	cellNear = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("3"))
	cellFull = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("1")).Bold(true)
)

func (a *App) slotsCmd() *cobra.Command {
	var (
		calendarID int64
		date       string
		week       string
		fromHour   int
		toHour     int
	)

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Show how full each slot of a day is",
		Long: `Show, for every slot of a day, how many tasks already occupy it.

A slot that holds the maximum number of overlapping tasks is full: new or
moved tasks cannot use it. With --week, prints the peak load of each day of
the week starting at the given Monday.`,
		Example: `  wasabi slots -c 1 --date=2025-01-15 --from=8 --to=18
  wasabi slots -c 1 --week=2025-01-13`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureEngine(); err != nil {
				return err
			}
			if fromHour < 0 || toHour > 24 || fromHour >= toHour {
				return fmt.Errorf("invalid hour window %d-%d", fromHour, toHour)
			}

			ctx := context.Background()
			if week != "" {
				days, err := dateutil.WeekDays(week)
				if err != nil {
					return err
				}
				for _, day := range days {
					load, err := a.engine.DayLoad(ctx, calendarID, day)
					if err != nil {
						return a.explain(err, 0)
					}
					fmt.Fprintf(a.out, "%s  %s\n", formatHeader(day.Format("Mon 2006-01-02")), a.summarizeLoad(load))
				}
				return nil
			}

			day, err := dateutil.ParseDate(date)
			if err != nil {
				return err
			}
			load, err := a.engine.DayLoad(ctx, calendarID, day)
			if err != nil {
				return a.explain(err, 0)
			}

			fmt.Fprintf(a.out, "=== %s ===\n", formatHeader(day.Format("Monday, January 2, 2006")))
			fmt.Fprint(a.out, renderLoad(load, a.engine.Grid(), a.engine.MaxOverlap(), fromHour, toHour))
			fmt.Fprintln(a.out, a.summarizeLoad(load))
			return nil
		},
	}

	cmd.Flags().Int64VarP(&calendarID, "calendar", "c", 0, "Calendar ID (required)")
	cmd.Flags().StringVar(&date, "date", "", "Day to show (YYYY-MM-DD, default: today)")
	cmd.Flags().StringVar(&week, "week", "", "Summarize the week starting at this Monday (YYYY-MM-DD)")
	cmd.Flags().IntVar(&fromHour, "from", 0, "First hour to show")
	cmd.Flags().IntVar(&toHour, "to", 24, "Hour to stop at (exclusive)")
	_ = cmd.MarkFlagRequired("calendar")

	return cmd
}

// renderLoad draws one row per hour with one cell per slot.
func renderLoad(load []int, grid slot.Grid, maxOverlap, fromHour, toHour int) string {
	perHour := 60 / grid.Minutes()

	var b strings.Builder
	for h := fromHour; h < toHour; h++ {
		cells := make([]string, 0, perHour)
		for i := range perHour {
			n := load[h*perHour+i]
			cells = append(cells, cellStyle(n, maxOverlap).Render(fmt.Sprintf(" %d ", n)))
		}
		fmt.Fprintf(&b, "%s %s\n", formatMuted(slot.At(h, 0).String()), lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return b.String()
}

func cellStyle(n, maxOverlap int) lipgloss.Style {
	switch {
	case n == 0:
		return cellFree
	case n >= maxOverlap:
		return cellFull
	case n == maxOverlap-1:
		return cellNear
	default:
		return cellUsed
	}
}

// summarizeLoad reports the peak occupancy and the number of full slots.
func (a *App) summarizeLoad(load []int) string {
	maxOverlap := a.engine.MaxOverlap()
	peak := slices.Max(load)
	full := 0
	for _, n := range load {
		if n >= maxOverlap {
			full++
		}
	}

	s := fmt.Sprintf("peak %d/%d", peak, maxOverlap)
	if full > 0 {
		return s + "  " + formatWarn(fmt.Sprintf("%d full slots", full))
	}
	return s + "  " + formatMuted("no full slots")
}
