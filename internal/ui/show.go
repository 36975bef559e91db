package ui

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

// copyToClipboard is swapped out in tests.
var copyToClipboard = clipboard.WriteAll

func (a *App) showCmd() *cobra.Command {
	var copyVersion bool

	cmd := &cobra.Command{
		Use:   "show [task-id]",
		Short: "Show a task and its version",
		Long: `Display every field of a task, including the version token that
'wasabi edit' and 'wasabi delete' expect.

Example:
  wasabi show 42 --copy-version`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureEngine(); err != nil {
				return err
			}

			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			t, err := a.engine.Get(context.Background(), id)
			if err != nil {
				return a.explain(err, 0)
			}

			PrintTaskDetail(a.out, t)

			if copyVersion {
				if err := copyToClipboard(t.Version.String()); err != nil {
					return fmt.Errorf("copying version to clipboard: %w", err)
				}
				fmt.Fprintln(a.out, formatMuted("Version copied to clipboard."))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&copyVersion, "copy-version", false, "Copy the version token to the clipboard")
	return cmd
}
