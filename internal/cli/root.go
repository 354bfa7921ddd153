package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/notchtrack/notchtrack/internal/files"
	"github.com/notchtrack/notchtrack/internal/tray"
	"github.com/notchtrack/notchtrack/internal/ui"
)

// NewRootCommand creates the top-level Cobra command to host subcommands and TUI launcher.
func NewRootCommand(ctx context.Context, manager *files.Manager) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notchtrack",
		Short: "Track what you are working on, one YAML file per day.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := manager.EnsureBase(); err != nil {
				return err
			}
			// The TUI owns the terminal, so logs go to a file.
			logFile, err := os.OpenFile(manager.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer logFile.Close()

			a, err := openApp(manager, logFile)
			if err != nil {
				return err
			}
			if _, err := tea.NewProgram(ui.NewModel(ctx, a.tracker)).Run(); err != nil {
				return fmt.Errorf("run TUI: %w", err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		newTrayCommand(ctx, manager),
		newTodayCommand(ctx, manager),
		newDirCommand(manager),
		newVersionCommand(),
	)

	return cmd
}

func newTrayCommand(ctx context.Context, manager *files.Manager) *cobra.Command {
	return &cobra.Command{
		Use:   "tray",
		Short: "Run the tracker in the system menu bar.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(manager, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			tray.Run(ctx, a.tracker, a.logger)
			return nil
		},
	}
}

// ExecuteCommand is a thin wrapper that executes the Cobra root command.
func ExecuteCommand(ctx context.Context) error {
	manager, err := files.NewManager("")
	if err != nil {
		return err
	}
	cmd := NewRootCommand(ctx, manager)
	return cmd.Execute()
}

// Main is a helper used by cmd/notchtrack/main.go to keep wiring contained in one package.
func Main(ctx context.Context) {
	if err := ExecuteCommand(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
