package ui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/wasabi/internal/dateutil"
	"github.com/javiermolinar/wasabi/internal/slot"
	"github.com/javiermolinar/wasabi/internal/task"
)

func parseTaskID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task ID: %q", s)
	}
	return id, nil
}

func (a *App) editCmd() *cobra.Command {
	var (
		expected string
		topic    string
		date     string
		start    string
		end      string
		details  detailFlags
	)

	cmd := &cobra.Command{
		Use:   "edit [task-id]",
		Short: "Edit a task",
		Long: `Replace the fields of a task.

--expected-version must be the version shown by 'wasabi show' when you
decided on the change. If another user saved the task since, the edit is
rejected and nothing changes. Fields you do not pass keep their shown values.

Example:
  wasabi edit 42 --expected-version=1736931600000000000 --start=11:00 --end=12:00`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureEngine(); err != nil {
				return err
			}

			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			version, err := task.ParseVersion(expected)
			if err != nil {
				return err
			}

			ctx := context.Background()
			current, err := a.engine.Get(ctx, id)
			if err != nil {
				return a.explain(err, 0)
			}

			d := draftFrom(current)
			flags := cmd.Flags()
			if flags.Changed("topic") {
				d.Topic = topic
			}
			if flags.Changed("date") {
				if d.Date, err = dateutil.ParseDate(date); err != nil {
					return err
				}
			}
			if flags.Changed("start") {
				if d.Start, err = slot.ParseClock(start); err != nil {
					return fmt.Errorf("start time: %w", err)
				}
			}
			if flags.Changed("end") {
				if d.End, err = slot.ParseClock(end); err != nil {
					return fmt.Errorf("end time: %w", err)
				}
			}
			if flags.Changed("tag") {
				d.Tag = details.tag
			}
			if flags.Changed("location") {
				d.Location = details.location
			}
			if flags.Changed("link") {
				d.Link = details.link
			}
			if flags.Changed("notes") {
				d.Notes = details.notes
			}
			d.Actor = a.actor

			t, err := a.engine.Update(ctx, id, version, d)
			if err != nil {
				return a.explain(err, d.Start)
			}

			fmt.Fprintln(a.out, formatOK("Task updated"))
			PrintTaskRow(a.out, t, PrintOpts{ShowDuration: true}, 50)
			fmt.Fprintf(a.out, "  %s\n", formatMuted(fmt.Sprintf("%s  version %s", t.Date.Format("2006-01-02"), t.Version)))
			return nil
		},
	}

	cmd.Flags().StringVar(&expected, "expected-version", "", "Version the edit is based on (required)")
	cmd.Flags().StringVar(&topic, "topic", "", "Topic")
	cmd.Flags().StringVar(&date, "date", "", "Scheduled date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM)")
	details.register(cmd)

	_ = cmd.MarkFlagRequired("expected-version")

	return cmd
}

// draftFrom returns a draft holding the stored values of t.
func draftFrom(t *task.Task) task.Draft {
	return task.Draft{
		Topic:    t.Topic,
		Tag:      t.Tag,
		Location: t.Location,
		Link:     t.Link,
		Notes:    t.Notes,
		Date:     t.Date,
		Start:    t.Start,
		End:      t.End,
	}
}
