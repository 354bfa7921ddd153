package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/notchtrack/notchtrack/internal/logbook"
	"github.com/notchtrack/notchtrack/internal/tracker"
)

func TestTodayCommandPrintsEntries(t *testing.T) {
	mgr := newTempManager(t)
	dir := useLogDirectory(t, mgr)

	date := time.Date(2025, time.November, 2, 0, 0, 0, 0, time.Local)
	first := logbook.NewEntry(time.Date(2025, time.November, 2, 9, 45, 0, 0, time.Local), "Fixed loan summary layout").
		Finish(time.Date(2025, time.November, 2, 10, 30, 0, 0, time.Local))
	second := logbook.NewEntry(time.Date(2025, time.November, 2, 11, 10, 0, 0, time.Local), "Review: lending dashboard #42").
		Finish(time.Date(2025, time.November, 2, 12, 40, 0, 0, time.Local))

	store := logbook.NewStore(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := store.Save(context.Background(), dir, date, []logbook.Entry{first, second}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	output := executeCommand(t, newTodayCommand(context.Background(), mgr), "--date", "2025-11-02")

	assertContains(t, output, "2025-11-02")
	assertContains(t, output, "1. 09:45-10:30 (0h45m) Fixed loan summary layout")
	assertContains(t, output, "2. 11:10-12:40 (1h30m) Review: lending dashboard #42")
	assertContains(t, output, "Total: 2h15m")
}

func TestTodayCommandWithoutEntries(t *testing.T) {
	mgr := newTempManager(t)
	useLogDirectory(t, mgr)

	output := executeCommand(t, newTodayCommand(context.Background(), mgr), "--date", "2025-11-03")
	assertContains(t, output, "No entries for 2025-11-03")
}

func TestTodayCommandWithoutDirectory(t *testing.T) {
	mgr := newTempManager(t)

	cmd := newTodayCommand(context.Background(), mgr)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	if !errors.Is(err, tracker.ErrNoDirectory) {
		t.Fatalf("Execute error = %v, want ErrNoDirectory", err)
	}
}

func TestTodayCommandRejectsBadDate(t *testing.T) {
	mgr := newTempManager(t)

	cmd := newTodayCommand(context.Background(), mgr)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--date", "02/11/2025"})

	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error for malformed date")
	}
}

func TestTodayCommandReportsBrokenFile(t *testing.T) {
	mgr := newTempManager(t)
	dir := useLogDirectory(t, mgr)
	writeDayFile(t, dir, "2025-11-04", "id: not-a-list\n")

	cmd := newTodayCommand(context.Background(), mgr)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--date", "2025-11-04"})

	err := cmd.Execute()
	var perr *logbook.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Execute error = %v, want *logbook.ParseError", err)
	}
}
