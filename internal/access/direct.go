package access

import (
	"log/slog"
)

// Direct remembers the directory by its path. It suits unsandboxed desktops
// where reaching a folder needs no grant beyond filesystem permissions.
type Direct struct {
	prefs  PreferenceStore
	key    string
	logger *slog.Logger
	path   string
}

// NewDirect returns a Direct manager persisting the path under key.
func NewDirect(prefs PreferenceStore, key string, logger *slog.Logger) *Direct {
	if logger == nil {
		logger = slog.Default()
	}
	return &Direct{prefs: prefs, key: key, logger: logger}
}

func (d *Direct) SetDirectory(path string) error {
	abs, err := absPath(path)
	if err != nil {
		return &Error{Op: "set", Path: path, Err: err}
	}
	if err := checkWritable(abs); err != nil {
		return &Error{Op: "set", Path: abs, Err: err}
	}
	if err := d.prefs.SetString(d.key, abs); err != nil {
		return &Error{Op: "persist", Path: abs, Err: err}
	}
	d.path = abs
	d.logger.Debug("log directory set", slog.String("path", abs))
	return nil
}

func (d *Direct) RestoreDirectory() error {
	saved := d.prefs.String(d.key)
	if saved == "" {
		return nil
	}
	if err := checkWritable(saved); err != nil {
		return &Error{Op: "restore", Path: saved, Err: err}
	}
	d.path = saved
	d.logger.Debug("restored log directory", slog.String("path", saved))
	return nil
}

func (d *Direct) CurrentPath() string {
	return d.path
}
