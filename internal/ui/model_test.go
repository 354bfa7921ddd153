package ui

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/notchtrack/notchtrack/internal/access"
	"github.com/notchtrack/notchtrack/internal/config"
	"github.com/notchtrack/notchtrack/internal/files"
	"github.com/notchtrack/notchtrack/internal/logbook"
	"github.com/notchtrack/notchtrack/internal/tracker"
)

func newTestModel(t *testing.T, withDir bool) (Model, string) {
	t.Helper()
	base := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	prefs, err := config.OpenPreferences(filepath.Join(base, "preferences.yaml"))
	if err != nil {
		t.Fatalf("OpenPreferences: %v", err)
	}
	mgr := access.NewDirect(prefs, config.KeyLogDirectoryPath, logger)

	dir := filepath.Join(base, "logs")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if withDir {
		if err := mgr.SetDirectory(dir); err != nil {
			t.Fatalf("SetDirectory: %v", err)
		}
	}

	tr := tracker.New(logbook.NewStore(logger), mgr, tracker.WithLogger(logger))
	m := NewModel(context.Background(), tr)
	next, _ := m.Update(loadMsg{})
	return next.(Model), dir
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, key := range keys {
		next, _ := m.Update(key)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestDescribeAndStartThenStop(t *testing.T) {
	m, dir := newTestModel(t, true)

	m = press(t, m, runes("e"), runes("write docs"), enter)
	if !m.snap.IsTracking() {
		t.Fatalf("expected tracking after describing, status %q error %q", m.statusLine, m.errorLine)
	}
	if got := m.snap.Current.Description; got != "write docs" {
		t.Fatalf("Description = %q, want write docs", got)
	}
	if !strings.Contains(m.View(), "write docs") {
		t.Fatalf("view missing running description:\n%s", m.View())
	}

	m = press(t, m, enter)
	if m.snap.IsTracking() {
		t.Fatalf("still tracking after enter")
	}
	if !strings.Contains(m.statusLine, `Saved "write docs"`) {
		t.Fatalf("statusLine = %q, want saved message", m.statusLine)
	}

	path := files.DayFile(dir, m.snap.Day)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("day file not written: %v", err)
	}
}

func TestToggleWithoutDescriptionHints(t *testing.T) {
	m, _ := newTestModel(t, true)

	m = press(t, m, enter)
	if m.snap.IsTracking() {
		t.Fatalf("started without a description")
	}
	if !strings.Contains(m.statusLine, "description") {
		t.Fatalf("statusLine = %q, want description hint", m.statusLine)
	}
}

func TestStartWithoutDirectoryShowsError(t *testing.T) {
	m, dir := newTestModel(t, false)
	if !strings.Contains(m.statusLine, "No log directory") {
		t.Fatalf("statusLine = %q, want no directory notice", m.statusLine)
	}

	m = press(t, m, runes("e"), runes("blocked"), enter)
	if m.snap.IsTracking() {
		t.Fatalf("started without a directory")
	}
	if !strings.Contains(m.errorLine, "log directory") {
		t.Fatalf("errorLine = %q, want directory error", m.errorLine)
	}

	m = press(t, m, runes("d"), runes(dir), enter)
	if m.errorLine != "" {
		t.Fatalf("errorLine = %q after choosing directory", m.errorLine)
	}
	if m.snap.LogDirectory != dir {
		t.Fatalf("LogDirectory = %q, want %q", m.snap.LogDirectory, dir)
	}

	m = press(t, m, enter)
	if !m.snap.IsTracking() {
		t.Fatalf("expected tracking once the directory is set, error %q", m.errorLine)
	}
}

func TestSetStartTime(t *testing.T) {
	m, _ := newTestModel(t, true)
	ref := time.Date(2025, time.November, 2, 14, 0, 0, 0, time.Local)
	m.now = func() time.Time { return ref }

	// Clear the prefilled value before typing.
	m = press(t, m, runes("t"))
	m.input.SetValue("")
	m = press(t, m, runes("09:15"), enter)

	if !m.snap.DisplayPinned {
		t.Fatalf("display time not pinned")
	}
	if got := m.snap.DisplayTime.Format("2006-01-02 15:04"); got != "2025-11-02 09:15" {
		t.Fatalf("DisplayTime = %s, want 2025-11-02 09:15", got)
	}

	m = press(t, m, runes("T"))
	if m.snap.DisplayPinned {
		t.Fatalf("display time still pinned after reset")
	}
}

func TestSetStartTimeRejectsGarbage(t *testing.T) {
	m, _ := newTestModel(t, true)

	m = press(t, m, runes("t"))
	m.input.SetValue("")
	m = press(t, m, runes("9am"), enter)

	if m.mode != modeTime {
		t.Fatalf("mode = %v, want to stay in time input", m.mode)
	}
	if !strings.Contains(m.errorLine, "invalid time") {
		t.Fatalf("errorLine = %q, want invalid time", m.errorLine)
	}
}

func TestEscapeRestoresDescription(t *testing.T) {
	m, _ := newTestModel(t, true)

	m = press(t, m, runes("e"), runes("first"), enter)
	m = press(t, m, runes("e"), runes(" draft"))
	if got := m.snap.Current.Description; got != "first draft" {
		t.Fatalf("live Description = %q, want first draft", got)
	}

	m = press(t, m, esc)
	if got := m.snap.Current.Description; got != "first" {
		t.Fatalf("Description after esc = %q, want first", got)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00:00"},
		{59 * time.Second, "0:00:59"},
		{90*time.Minute + 5*time.Second, "1:30:05"},
		{25 * time.Hour, "25:00:00"},
	}
	for _, tc := range cases {
		if got := formatDuration(tc.in); got != tc.want {
			t.Fatalf("formatDuration(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestConfirmedDescriptionIsTrimmedWhileTracking(t *testing.T) {
	m, _ := newTestModel(t, true)

	m = press(t, m, runes("e"), runes("first"), enter)
	m = press(t, m, runes("e"), runes(" pass  "), enter)

	if got := m.snap.Current.Description; got != "first pass" {
		t.Fatalf("Current.Description = %q, want first pass", got)
	}
	if got := m.snap.Description; got != "first pass" {
		t.Fatalf("draft = %q, want the same trimmed text", got)
	}
}

func TestClearingDescriptionWhileTrackingKeepsEntryNamed(t *testing.T) {
	m, _ := newTestModel(t, true)

	m = press(t, m, runes("e"), runes("named"), enter)
	m = press(t, m, runes("e"))
	m.input.SetValue("")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace}, enter)

	if got := m.snap.Current.Description; got != "named" {
		t.Fatalf("Current.Description = %q, want named", got)
	}
}

func TestRefusedStopKeepsTracking(t *testing.T) {
	m, dir := newTestModel(t, true)

	m = press(t, m, runes("e"), runes("careful"), enter)
	if err := os.WriteFile(files.DayFile(dir, m.snap.Day), []byte("not: [a, list\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	// The failed reload leaves nothing on disk the tracker can trust.
	m = press(t, m, runes("r"))

	m = press(t, m, enter)
	if !m.snap.IsTracking() {
		t.Fatalf("stopped although the day file could not be read")
	}
	if !strings.Contains(m.errorLine, "Still tracking") {
		t.Fatalf("errorLine = %q, want still tracking notice", m.errorLine)
	}
}
