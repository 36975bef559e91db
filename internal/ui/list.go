package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/wasabi/internal/dateutil"
)

func (a *App) listCmd() *cobra.Command {
	var (
		calendarID int64
		startDate  string
		endDate    string
		week       bool
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in a date range",
		Long: `List the tasks of a calendar scheduled within a date range.

If no dates are specified, lists today's tasks.
If only --start is specified, lists tasks for that single day.
If both --start and --end are specified, lists tasks in that range (inclusive).
With --week, lists the Monday-to-Sunday week containing --start (or today).`,
		Example: `  wasabi list -c 1
  wasabi list -c 1 --start=2025-01-15
  wasabi list -c 1 --start=2025-01-15 --end=2025-01-20
  wasabi list -c 1 --week`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureEngine(); err != nil {
				return err
			}

			dateRange, err := dateutil.NewDateRange(startDate, endDate)
			if err != nil {
				return err
			}
			if week {
				dateRange.Start, dateRange.End = dateutil.WeekRange(dateRange.Start)
			}

			tasks, err := a.engine.List(context.Background(), calendarID, dateRange.Start, dateRange.End)
			if err != nil {
				return a.explain(err, 0)
			}

			if len(tasks) == 0 {
				fmt.Fprintln(a.out, "No tasks found in the specified date range.")
				return nil
			}

			opts := PrintOpts{Verbose: verbose, ShowDuration: true, ShowVersion: verbose}
			maxDescWidth := opts.CalcMaxDescWidth(40)

			// Print tasks grouped by date
			var currentDate string
			for _, t := range tasks {
				date := dateutil.FormatDate(t.Date)
				if date != currentDate {
					if currentDate != "" {
						fmt.Fprintln(a.out)
					}
					fmt.Fprintf(a.out, "=== %s ===\n", formatHeader(t.Date.Format("Mon 2006-01-02")))
					currentDate = date
				}
				PrintTaskRow(a.out, t, opts, maxDescWidth)
			}

			return nil
		},
	}

	cmd.Flags().Int64VarP(&calendarID, "calendar", "c", 0, "Calendar ID (required)")
	cmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&endDate, "end", "", "End date (YYYY-MM-DD, defaults to start date)")
	cmd.Flags().BoolVarP(&week, "week", "w", false, "List the whole week containing the start date")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show full topics and versions")
	_ = cmd.MarkFlagRequired("calendar")

	return cmd
}
