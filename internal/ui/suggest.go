package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/wasabi/internal/dateutil"
	"github.com/javiermolinar/wasabi/internal/scheduler"
	"github.com/javiermolinar/wasabi/internal/slot"
	"github.com/javiermolinar/wasabi/internal/task"
)

// now is swapped out in tests.
var now = time.Now

func (a *App) suggestCmd() *cobra.Command {
	var (
		calendarID int64
		minutes    int
		after      string
		days       int
		addTopic   string
		details    detailFlags
	)

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Find the next time a task fits",
		Long: `Find the earliest opening on a calendar where a task of the given
length fits within working hours without exceeding the overlap limit.

Working days and hours come from the [schedule] section of the config.
With --add, the task is created there right away; if another user takes the
opening first, the add is rejected like any other.`,
		Example: `  wasabi suggest -c 1 --minutes=90
  wasabi suggest -c 1 --minutes=30 --after=2025-01-20 --add="1:1 with Sam"`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureEngine(); err != nil {
				return err
			}

			finder, err := a.newScheduler()
			if err != nil {
				return err
			}

			from := now()
			if after != "" {
				if from, err = dateutil.ParseDate(after); err != nil {
					return err
				}
				from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.Local)
			}

			ctx := context.Background()
			load := func(ctx context.Context, date time.Time) ([]int, error) {
				return a.engine.DayLoad(ctx, calendarID, date)
			}
			opening, err := finder.Find(ctx, load, from, minutes, days)
			switch {
			case errors.Is(err, scheduler.ErrNoOpening):
				fmt.Fprintln(a.out, formatWarn(fmt.Sprintf("No opening for %s in the next %d days.", FormatDuration(minutes), days)))
				return nil
			case err != nil:
				return a.explain(err, 0)
			}

			date := dateutil.FormatDate(opening.Date)
			if addTopic == "" {
				fmt.Fprintf(a.out, "Next opening: %s %s\n", formatHeader(opening.Date.Format("Mon 2006-01-02")), opening.Range)
				fmt.Fprintln(a.out, formatMuted(fmt.Sprintf("  wasabi add TOPIC -c %d --date=%s --start=%s --end=%s",
					calendarID, date, opening.Range.Start, opening.Range.End)))
				return nil
			}

			d := task.Draft{
				Topic:    addTopic,
				Tag:      details.tag,
				Location: details.location,
				Link:     details.link,
				Notes:    details.notes,
				Date:     opening.Date,
				Start:    opening.Range.Start,
				End:      opening.Range.End,
				Actor:    a.actor,
			}
			t, err := a.engine.Create(ctx, calendarID, d)
			if err != nil {
				return a.explain(err, d.Start)
			}

			fmt.Fprintln(a.out, formatOK("Task Created"))
			PrintTaskRow(a.out, t, PrintOpts{ShowDuration: true}, 50)
			fmt.Fprintf(a.out, "  %s\n", formatMuted(fmt.Sprintf("%s  version %s", date, t.Version)))
			return nil
		},
	}

	cmd.Flags().Int64VarP(&calendarID, "calendar", "c", 0, "Calendar ID (required)")
	cmd.Flags().IntVarP(&minutes, "minutes", "m", 60, "Task length in minutes")
	cmd.Flags().StringVar(&after, "after", "", "Search from this date (YYYY-MM-DD, default: now)")
	cmd.Flags().IntVar(&days, "days", 14, "How many days ahead to search")
	cmd.Flags().StringVar(&addTopic, "add", "", "Create a task with this topic at the opening")
	details.register(cmd)
	_ = cmd.MarkFlagRequired("calendar")

	return cmd
}

// newScheduler builds the opening finder from the engine and the working
// hours in the config.
func (a *App) newScheduler() (*scheduler.Scheduler, error) {
	cfg := a.config.Schedule
	start, err := slot.ParseClock(cfg.DayStart)
	if err != nil {
		return nil, fmt.Errorf("day_start: %w", err)
	}
	end, err := slot.ParseClock(cfg.DayEnd)
	if err != nil {
		return nil, fmt.Errorf("day_end: %w", err)
	}
	return scheduler.New(a.engine.Grid(), a.engine.MaxOverlap(), a.config.WorkdaySet(), start, end), nil
}
