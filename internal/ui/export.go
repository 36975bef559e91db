package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/wasabi/internal/dateutil"
	"github.com/javiermolinar/wasabi/internal/ical"
	"github.com/javiermolinar/wasabi/internal/task"
)

func (a *App) exportCmd() *cobra.Command {
	var (
		calendarIDs []int64
		startDate   string
		endDate     string
		dir         string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export calendars as .ics files",
		Long: `Write the tasks of one or more calendars within a date range as
iCalendar files, one file per calendar. Without --calendar every calendar
is exported.`,
		Example: `  wasabi export --start=2025-01-13 --end=2025-01-19 --dir=./out
  wasabi export -c 1 -c 2 --dir=./out`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureEngine(); err != nil {
				return err
			}

			dateRange, err := dateutil.NewDateRange(startDate, endDate)
			if err != nil {
				return err
			}

			ctx := context.Background()
			cals, err := a.exportTargets(ctx, calendarIDs)
			if err != nil {
				return err
			}
			if len(cals) == 0 {
				fmt.Fprintln(a.out, "No calendars to export.")
				return nil
			}

			paths, err := ical.WriteFiles(ctx, dir, a.engine, cals, dateRange.Start, dateRange.End)
			if err != nil {
				return a.explain(err, 0)
			}
			if len(paths) == 0 {
				fmt.Fprintln(a.out, "No tasks found in the specified date range.")
				return nil
			}
			for _, p := range paths {
				fmt.Fprintf(a.out, "Wrote %s\n", p)
			}
			return nil
		},
	}

	cmd.Flags().Int64SliceVarP(&calendarIDs, "calendar", "c", nil, "Calendar IDs to export (default: all)")
	cmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&endDate, "end", "", "End date (YYYY-MM-DD, defaults to start date)")
	cmd.Flags().StringVar(&dir, "dir", ".", "Output directory")

	return cmd
}

func (a *App) exportTargets(ctx context.Context, ids []int64) ([]*task.Calendar, error) {
	if len(ids) == 0 {
		cals, err := a.store.ListCalendars(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing calendars: %w", err)
		}
		return cals, nil
	}

	cals := make([]*task.Calendar, 0, len(ids))
	for _, id := range ids {
		cal, err := a.store.GetCalendar(ctx, id)
		if err != nil {
			return nil, a.explain(err, 0)
		}
		cals = append(cals, cal)
	}
	return cals, nil
}
