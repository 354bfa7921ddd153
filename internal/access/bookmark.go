package access

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Bookmarker creates and resolves opaque tokens granting access to a
// directory. Platforms with scoped permissions back this with their own
// bookmark API.
type Bookmarker interface {
	Create(path string) ([]byte, error)
	// Resolve maps a token back to its path. stale means the token still
	// resolved but should be re-created.
	Resolve(token []byte) (path string, stale bool, err error)
	// StartAccess opens the scoped access session for path. It is held
	// until the process exits.
	StartAccess(path string) error
}

// Bookmarked remembers the directory through a Bookmarker token.
type Bookmarked struct {
	prefs      PreferenceStore
	key        string
	bookmarker Bookmarker
	logger     *slog.Logger
	path       string
}

// NewBookmarked returns a manager persisting tokens from bookmarker under key.
func NewBookmarked(prefs PreferenceStore, key string, bookmarker Bookmarker, logger *slog.Logger) *Bookmarked {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bookmarked{prefs: prefs, key: key, bookmarker: bookmarker, logger: logger}
}

func (b *Bookmarked) SetDirectory(path string) error {
	abs, err := absPath(path)
	if err != nil {
		return &Error{Op: "bookmark", Path: path, Err: err}
	}
	token, err := b.bookmarker.Create(abs)
	if err != nil {
		return &Error{Op: "bookmark", Path: abs, Err: err}
	}
	if err := b.prefs.SetBytes(b.key, token); err != nil {
		return &Error{Op: "persist", Path: abs, Err: err}
	}
	b.path = abs
	b.logger.Debug("log directory set", slog.String("path", abs))
	return nil
}

func (b *Bookmarked) RestoreDirectory() error {
	token := b.prefs.Bytes(b.key)
	if len(token) == 0 {
		return nil
	}

	path, stale, err := b.bookmarker.Resolve(token)
	if err != nil {
		return &Error{Op: "resolve", Err: err}
	}

	if stale {
		fresh, err := b.bookmarker.Create(path)
		if err != nil {
			return &Error{Op: "refresh", Path: path, Err: err}
		}
		if err := b.prefs.SetBytes(b.key, fresh); err != nil {
			b.logger.Warn("could not persist refreshed bookmark",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
		} else {
			b.logger.Debug("refreshed stale bookmark", slog.String("path", path))
		}
	}

	if err := b.bookmarker.StartAccess(path); err != nil {
		return &Error{Op: "access", Path: path, Err: err}
	}
	b.path = path
	b.logger.Debug("restored access to log directory", slog.String("path", path))
	return nil
}

func (b *Bookmarked) CurrentPath() string {
	return b.path
}

const pathTokenVersion = 1

type pathToken struct {
	Version int    `yaml:"version"`
	Path    string `yaml:"path"`
	Target  string `yaml:"target"`
}

// PathBookmarker is a portable Bookmarker. Its token records the chosen path
// and where it pointed when created; once symlinks along the path lead
// somewhere else the token is reported stale.
type PathBookmarker struct{}

func (PathBookmarker) Create(path string) ([]byte, error) {
	abs, err := absPath(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, ErrNotDirectory
	}
	target, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(pathToken{Version: pathTokenVersion, Path: abs, Target: target})
}

func (PathBookmarker) Resolve(token []byte) (string, bool, error) {
	var tok pathToken
	if err := yaml.Unmarshal(token, &tok); err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if tok.Path == "" {
		return "", false, ErrInvalidToken
	}
	target, err := filepath.EvalSymlinks(tok.Path)
	if err != nil {
		return "", false, err
	}
	stale := tok.Version != pathTokenVersion || target != tok.Target
	return tok.Path, stale, nil
}

func (PathBookmarker) StartAccess(path string) error {
	return checkWritable(path)
}
