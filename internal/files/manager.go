package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	dirPermissions = 0o755

	// DayFileExt is appended to the YYYY-MM-DD stem of every day file.
	DayFileExt = ".yaml"

	preferencesFileName = "preferences.yaml"
	configFileName      = "config.yaml"
	logFileName         = "notchtrack.log"
)

// Manager centralizes where notchtrack keeps its own state on disk.
type Manager struct {
	basePath string
}

// NewManager constructs a Manager rooted at the provided directory. If basePath
// is empty, it falls back to ~/.notchtrack (or another location determined by
// ResolveBasePath).
func NewManager(basePath string) (*Manager, error) {
	var err error
	if basePath == "" {
		basePath, err = ResolveBasePath()
		if err != nil {
			return nil, err
		}
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}

	return &Manager{basePath: abs}, nil
}

// BasePath returns the root directory holding config and preferences.
func (m *Manager) BasePath() string {
	return m.basePath
}

// PreferencesPath is the file storing the persisted directory grant.
func (m *Manager) PreferencesPath() string {
	return filepath.Join(m.basePath, preferencesFileName)
}

// ConfigPath is the optional user-edited configuration file.
func (m *Manager) ConfigPath() string {
	return filepath.Join(m.basePath, configFileName)
}

// LogPath receives log output while the terminal is owned by the TUI.
func (m *Manager) LogPath() string {
	return filepath.Join(m.basePath, logFileName)
}

// EnsureBase creates the base directory if needed.
func (m *Manager) EnsureBase() error {
	if m == nil {
		return errors.New("files.Manager is nil")
	}
	if err := os.MkdirAll(m.basePath, dirPermissions); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	return nil
}

// DayFile resolves the day file for t inside dir. The local calendar day of t
// picks the name, so the path moves on by itself once the day advances.
func DayFile(dir string, t time.Time) string {
	return filepath.Join(dir, DayFileName(t))
}

// DayFileName returns the base name of the day file, e.g. "2024-10-21.yaml".
func DayFileName(t time.Time) string {
	t = t.In(time.Local)
	return fmt.Sprintf("%04d-%02d-%02d%s", t.Year(), t.Month(), t.Day(), DayFileExt)
}
