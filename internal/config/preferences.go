package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Preference keys.
const (
	KeyLogDirectoryBookmark = "logDirectoryBookmark"
	KeyLogDirectoryPath     = "logDirectory"
)

// Preferences is a small persistent key/value store backed by one YAML file.
// Every setter writes the file immediately.
type Preferences struct {
	path string
	v    *viper.Viper
}

// OpenPreferences loads the preferences file at path. A missing file is an
// empty store.
func OpenPreferences(path string) (*Preferences, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read preferences %s: %w", path, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("stat preferences %s: %w", path, err)
	}

	return &Preferences{path: path, v: v}, nil
}

// Path returns the file backing the store.
func (p *Preferences) Path() string {
	return p.path
}

// String returns the value under key, or "" when absent.
func (p *Preferences) String(key string) string {
	return p.v.GetString(key)
}

// SetString stores value under key and persists the file.
func (p *Preferences) SetString(key, value string) error {
	p.v.Set(key, value)
	return p.save()
}

// Bytes returns the binary value under key, or nil when absent or unreadable.
func (p *Preferences) Bytes(key string) []byte {
	raw := p.v.GetString(key)
	if raw == "" {
		return nil
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	return data
}

// SetBytes stores data under key as base64 and persists the file.
func (p *Preferences) SetBytes(key string, data []byte) error {
	return p.SetString(key, base64.StdEncoding.EncodeToString(data))
}

func (p *Preferences) save() error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}
	if err := p.v.WriteConfigAs(p.path); err != nil {
		return fmt.Errorf("write preferences %s: %w", p.path, err)
	}
	return nil
}
