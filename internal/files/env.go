package files

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultDirName defines the folder under the user's home directory.
	DefaultDirName = ".notchtrack"

	// HomeEnv overrides where notchtrack keeps its config and preferences.
	HomeEnv = "NOTCHTRACK_HOME"
)

// ResolveBasePath determines where notchtrack keeps config and preferences,
// defaulting to ~/.notchtrack. The location can be overridden by exporting
// NOTCHTRACK_HOME. Day files live in the user-chosen log directory instead.
func ResolveBasePath() (string, error) {
	if override, ok := os.LookupEnv(HomeEnv); ok {
		override = strings.TrimSpace(override)
		if override != "" {
			return ExpandPath(override)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultDirName), nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(input string) (string, error) {
	if strings.HasPrefix(input, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		input = filepath.Join(home, strings.TrimPrefix(input, "~"))
	}
	return input, nil
}
