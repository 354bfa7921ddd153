// Package access remembers the user-chosen log directory across restarts.
//
// Two managers are provided. Direct persists the plain path and only checks
// that the directory is still usable. Bookmarked persists an opaque token
// produced by a Bookmarker and resolves it again on every start, refreshing
// the token when the Bookmarker reports it as stale.
package access

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Manager is the capability the tracker needs to know where to write.
type Manager interface {
	// SetDirectory persists access to path. On failure the previously set
	// directory stays active.
	SetDirectory(path string) error
	// RestoreDirectory re-establishes the persisted directory. It is best
	// effort: on failure the directory stays unset.
	RestoreDirectory() error
	// CurrentPath returns the active directory, or "" when unset.
	CurrentPath() string
}

// PreferenceStore persists small values between runs.
type PreferenceStore interface {
	String(key string) string
	SetString(key, value string) error
	Bytes(key string) []byte
	SetBytes(key string, data []byte) error
}

var (
	// ErrNotDirectory is returned when the chosen path is not a directory.
	ErrNotDirectory = errors.New("not a directory")
	// ErrNotWritable is returned when files cannot be created in the directory.
	ErrNotWritable = errors.New("directory not writable")
	// ErrInvalidToken is returned for tokens a Bookmarker cannot decode.
	ErrInvalidToken = errors.New("invalid bookmark token")
)

// Error reports a failed access operation on a directory.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("access %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("access %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// checkWritable verifies path is a directory we can create files in.
func checkWritable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return ErrNotDirectory
	}

	probe, err := os.CreateTemp(path, ".notchtrack-probe-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotWritable, err)
	}
	name := probe.Name()
	probe.Close()
	return os.Remove(name)
}

func absPath(path string) (string, error) {
	if path == "" {
		return "", errors.New("empty path")
	}
	return filepath.Abs(path)
}
