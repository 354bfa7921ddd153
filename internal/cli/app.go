package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/notchtrack/notchtrack/internal/access"
	"github.com/notchtrack/notchtrack/internal/config"
	"github.com/notchtrack/notchtrack/internal/files"
	"github.com/notchtrack/notchtrack/internal/logbook"
	"github.com/notchtrack/notchtrack/internal/tracker"
)

// app holds the collaborators shared by every command.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	access  access.Manager
	store   *logbook.Store
	tracker *tracker.Tracker
}

// openApp loads configuration and preferences under manager, restores the
// log directory and builds the tracker. Log records go to logOut.
func openApp(manager *files.Manager, logOut io.Writer) (*app, error) {
	if err := manager.EnsureBase(); err != nil {
		return nil, err
	}

	cfg, err := config.Load(manager.ConfigPath())
	if err != nil {
		return nil, err
	}
	logger := config.NewLogger(cfg, logOut)

	prefs, err := config.OpenPreferences(manager.PreferencesPath())
	if err != nil {
		return nil, err
	}

	mgr := newAccessManager(cfg, prefs, logger)
	if err := mgr.RestoreDirectory(); err != nil {
		logger.Warn("could not restore log directory", slog.String("error", err.Error()))
	}
	if mgr.CurrentPath() == "" && cfg.LogDirectory != "" {
		if err := seedDirectory(mgr, cfg.LogDirectory); err != nil {
			logger.Warn("could not use configured log directory",
				slog.String("path", cfg.LogDirectory),
				slog.String("error", err.Error()),
			)
		}
	}

	store := logbook.NewStore(logger)
	return &app{
		cfg:     cfg,
		logger:  logger,
		access:  mgr,
		store:   store,
		tracker: tracker.New(store, mgr, tracker.WithLogger(logger)),
	}, nil
}

func newAccessManager(cfg *config.Config, prefs *config.Preferences, logger *slog.Logger) access.Manager {
	if cfg.AccessMode == config.AccessBookmark {
		return access.NewBookmarked(prefs, config.KeyLogDirectoryBookmark, access.PathBookmarker{}, logger)
	}
	return access.NewDirect(prefs, config.KeyLogDirectoryPath, logger)
}

func seedDirectory(mgr access.Manager, raw string) error {
	path, err := files.ExpandPath(raw)
	if err != nil {
		return fmt.Errorf("expand %s: %w", raw, err)
	}
	return mgr.SetDirectory(path)
}
