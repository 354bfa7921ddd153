package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AccessMode != AccessDirect {
		t.Fatalf("AccessMode = %q, want %q", cfg.AccessMode, AccessDirect)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.Level() != slog.LevelInfo {
		t.Fatalf("Level() = %v, want info", cfg.Level())
	}
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "access_mode: bookmark\nlog_level: debug\nlog_directory: /tmp/logs\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AccessMode != AccessBookmark {
		t.Fatalf("AccessMode = %q, want %q", cfg.AccessMode, AccessBookmark)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Fatalf("Level() = %v, want debug", cfg.Level())
	}
	if cfg.LogDirectory != "/tmp/logs" {
		t.Fatalf("LogDirectory = %q, want /tmp/logs", cfg.LogDirectory)
	}
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("access_mode: direct\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("NOTCHTRACK_ACCESS_MODE", "bookmark")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AccessMode != AccessBookmark {
		t.Fatalf("AccessMode = %q, want %q", cfg.AccessMode, AccessBookmark)
	}
}

func TestLoadRejectsUnknownAccessMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("access_mode: sandbox\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatalf("Load expected validation error, got nil")
	} else if !strings.Contains(err.Error(), "validation failed") {
		t.Fatalf("Load error = %v, want validation failure", err)
	}
}

func TestExampleYAMLIsValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(ExampleYAML()), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("Load(ExampleYAML) error = %v", err)
	}
}

func TestNewLoggerHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{LogLevel: "warn"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("logger emitted info record at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Fatalf("logger dropped warn record: %q", out)
	}
}
