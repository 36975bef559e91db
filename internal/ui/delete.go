package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/wasabi/internal/task"
)

func (a *App) deleteCmd() *cobra.Command {
	var expected string

	cmd := &cobra.Command{
		Use:   "delete [task-id]",
		Short: "Delete a task",
		Long: `Delete a task by its ID.

The deletion only happens if the task is still at --expected-version.

Example:
  wasabi delete 42 --expected-version=1736931600000000000`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
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

			if err := a.engine.Delete(context.Background(), id, version); err != nil {
				return a.explain(err, 0)
			}

			fmt.Fprintf(a.out, "%s #%d\n", formatOK("Task deleted"), id)
			return nil
		},
	}

	cmd.Flags().StringVar(&expected, "expected-version", "", "Version the deletion is based on (required)")
	_ = cmd.MarkFlagRequired("expected-version")

	return cmd
}
