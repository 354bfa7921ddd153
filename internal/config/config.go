// Package config loads notchtrack settings and the persisted preferences.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyAccessMode   = "access_mode"
	KeyLogLevel     = "log_level"
	KeyLogDirectory = "log_directory"

	envPrefix = "NOTCHTRACK"
)

// Access modes select the directory access manager.
const (
	AccessDirect   = "direct"
	AccessBookmark = "bookmark"
)

type Config struct {
	AccessMode string `mapstructure:"access_mode" validate:"required,oneof=direct bookmark"`
	LogLevel   string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// LogDirectory seeds the log directory when nothing has been chosen yet.
	LogDirectory string `mapstructure:"log_directory"`
}

// Load reads path (if present) and NOTCHTRACK_* environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	return loadAndValidate(v)
}

func loadAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.AccessMode = strings.ToLower(strings.TrimSpace(cfg.AccessMode))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyAccessMode, AccessDirect)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogDirectory, "")
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# notchtrack configuration
# direct: remember the chosen folder by path
# bookmark: remember it through a resolvable access token
access_mode: direct

log_level: info

# log_directory: ~/worklog
`
}

// Level maps the configured level name onto slog.
func (c *Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger writing text records to w.
func NewLogger(cfg *Config, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if cfg != nil {
		level = cfg.Level()
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
