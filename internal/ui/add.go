package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/wasabi/internal/task"
)

// detailFlags are the optional task fields shared by add and edit.
type detailFlags struct {
	tag      string
	location string
	link     string
	notes    string
}

func (f *detailFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.tag, "tag", "", "Tag (letters, numbers and spaces)")
	cmd.Flags().StringVar(&f.location, "location", "", "Location")
	cmd.Flags().StringVar(&f.link, "link", "", "Link, e.g. a meeting URL")
	cmd.Flags().StringVar(&f.notes, "notes", "", "Free-form notes")
}

func (a *App) addCmd() *cobra.Command {
	var (
		calendarID int64
		date       string
		start      string
		end        string
		details    detailFlags
	)

	cmd := &cobra.Command{
		Use:   "add [topic]",
		Short: "Add a new task",
		Long: `Add a new task to a shared calendar.

Start times round down and end times round up to the slot grid.

Example:
  wasabi add "Design review" --calendar=1 --date=2025-01-15 --start=09:07 --end=10:22 --tag=eng`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureEngine(); err != nil {
				return err
			}

			d, err := task.NewDraft(args[0], date, start, end)
			if err != nil {
				return err
			}
			d.Tag = details.tag
			d.Location = details.location
			d.Link = details.link
			d.Notes = details.notes
			d.Actor = a.actor

			t, err := a.engine.Create(context.Background(), calendarID, d)
			if err != nil {
				return a.explain(err, d.Start)
			}

			fmt.Fprintln(a.out, formatOK("Task Created"))
			PrintTaskRow(a.out, t, PrintOpts{ShowDuration: true}, 50)
			fmt.Fprintf(a.out, "  %s\n", formatMuted(fmt.Sprintf("%s  version %s", t.Date.Format("2006-01-02"), t.Version)))
			return nil
		},
	}

	cmd.Flags().Int64VarP(&calendarID, "calendar", "c", 0, "Calendar ID (required)")
	cmd.Flags().StringVar(&date, "date", "", "Scheduled date (YYYY-MM-DD, default: today)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM, required)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM, required)")
	details.register(cmd)

	_ = cmd.MarkFlagRequired("calendar")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}
