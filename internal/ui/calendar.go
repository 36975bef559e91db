package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/wasabi/internal/task"
)

func (a *App) calendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Manage shared calendars",
	}
	cmd.AddCommand(a.calendarAddCmd())
	cmd.AddCommand(a.calendarListCmd())
	return cmd
}

func (a *App) calendarAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add [name]",
		Short: "Create a calendar",
		Long: `Create a new shared calendar owned by the current user.

Example:
  wasabi calendar add Team`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureEngine(); err != nil {
				return err
			}

			cal, err := task.NewCalendar(args[0], a.actor)
			if err != nil {
				return err
			}
			if err := a.store.CreateCalendar(context.Background(), cal); err != nil {
				return fmt.Errorf("creating calendar: %w", err)
			}

			fmt.Fprintf(a.out, "Created calendar #%d: %s\n", cal.ID, cal.Name)
			return nil
		},
	}
}

func (a *App) calendarListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List calendars",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureEngine(); err != nil {
				return err
			}

			cals, err := a.store.ListCalendars(context.Background())
			if err != nil {
				return fmt.Errorf("listing calendars: %w", err)
			}
			if len(cals) == 0 {
				fmt.Fprintln(a.out, "No calendars yet. Create one with 'wasabi calendar add'.")
				return nil
			}

			for _, cal := range cals {
				fmt.Fprintf(a.out, "  #%-4d %-15s %s\n", cal.ID, cal.Name, formatMuted("owner: "+orDash(cal.Owner)))
			}
			return nil
		},
	}
}
