package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notchtrack/notchtrack/internal/files"
)

func newDirCommand(manager *files.Manager) *cobra.Command {
	return &cobra.Command{
		Use:   "dir [path]",
		Short: "Show or choose the directory day files are written to.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(manager, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				if current := a.access.CurrentPath(); current != "" {
					fmt.Fprintln(out, current)
				} else {
					fmt.Fprintln(out, "No log directory configured")
				}
				return nil
			}

			path, err := files.ExpandPath(args[0])
			if err != nil {
				return err
			}
			if err := a.access.SetDirectory(path); err != nil {
				return err
			}
			fmt.Fprintf(out, "Log directory set to %s\n", a.access.CurrentPath())
			return nil
		},
	}
}
