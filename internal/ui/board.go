package ui

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/wasabi/internal/dateutil"
	"github.com/javiermolinar/wasabi/internal/tui"
	"github.com/javiermolinar/wasabi/internal/tui/theme"
)

// runBoard is swapped out in tests.
var runBoard = func(opts tui.Options) error {
	if !isTerminal() {
		return errors.New("board needs an interactive terminal")
	}
	return tui.Run(opts)
}

func (a *App) boardCmd() *cobra.Command {
	var (
		calendarID int64
		week       string
	)

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Browse a calendar's week in the terminal",
		Long: `Open a full-screen, read-only week view of a calendar. Each cell shows
how many tasks hold the slot out of the overlap limit.

Keys: h/l days, j/k slots, [ ] weeks, t today, g go to date, r refresh,
y copy the version of the task under the cursor, ? help, q quit.`,
		Example: `  wasabi board -c 1
  wasabi board -c 1 --week=2025-01-20`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureEngine(); err != nil {
				return err
			}

			cal, err := a.store.GetCalendar(context.Background(), calendarID)
			if err != nil {
				return a.explain(err, 0)
			}

			var start time.Time
			if week != "" {
				d, err := dateutil.ParseDate(week)
				if err != nil {
					return err
				}
				start = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.Local)
			}

			return runBoard(tui.Options{
				Source:   a.engine,
				Calendar: cal,
				Theme:    theme.Load(a.config.UI.Theme),
				Week:     start,
				Copy:     copyToClipboard,
			})
		},
	}

	cmd.Flags().Int64VarP(&calendarID, "calendar", "c", 0, "Calendar ID (required)")
	cmd.Flags().StringVar(&week, "week", "", "Any date in the first week shown (YYYY-MM-DD, default: this week)")
	_ = cmd.MarkFlagRequired("calendar")

	return cmd
}
