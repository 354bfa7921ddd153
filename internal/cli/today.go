package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/notchtrack/notchtrack/internal/files"
	"github.com/notchtrack/notchtrack/internal/tracker"
)

func newTodayCommand(ctx context.Context, manager *files.Manager) *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show the tracked entries for today or a specific date.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			targetDate, err := resolveDate(dateFlag)
			if err != nil {
				return err
			}

			a, err := openApp(manager, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			dir := a.access.CurrentPath()
			if dir == "" {
				return fmt.Errorf("%w: run 'notchtrack dir <path>' first", tracker.ErrNoDirectory)
			}

			entries, err := a.store.Load(ctx, dir, targetDate)
			if err != nil {
				return err
			}
			a.logger.Debug("loaded day", slog.String("path", a.store.Path(dir, targetDate)), slog.Int("entries", len(entries)))

			if len(entries) == 0 {
				printMissingDay(cmd, targetDate)
				return nil
			}
			printDay(cmd, targetDate, entries)
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Target date in YYYY-MM-DD (default: today)")

	return cmd
}
