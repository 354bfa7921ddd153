package tray

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/notchtrack/notchtrack/internal/tracker"
)

const maxTitleDescription = 24

// menuState is what the tray shows for one snapshot.
type menuState struct {
	Title     string
	Tooltip   string
	Status    string
	Toggle    string
	Directory string

	// CanToggle is false when there is nothing to start.
	CanToggle bool
}

func render(snap tracker.Snapshot, now time.Time) menuState {
	st := menuState{
		Directory: "Log directory: " + orNone(snap.LogDirectory),
	}

	if cur := snap.Current; cur != nil {
		elapsed := formatElapsed(cur.Duration(now))
		st.Title = "● " + elapsed
		st.Tooltip = fmt.Sprintf("Tracking %s for %s", cur.Description, elapsed)
		st.Status = "Tracking: " + truncate(cur.Description, maxTitleDescription)
		st.Toggle = "Stop"
		st.CanToggle = true
		return st
	}

	st.Title = "○"
	st.Tooltip = "notchtrack: idle"
	st.Status = "Idle"
	switch description := resumeDescription(snap); {
	case snap.LogDirectory == "":
		st.Toggle = "Start (choose a log directory first)"
	case description == "":
		st.Toggle = "Start (no description)"
	default:
		st.Toggle = "Start: " + truncate(description, maxTitleDescription)
		st.CanToggle = true
	}
	return st
}

// resumeDescription is the description a Start click uses: the draft if
// there is one, otherwise the last finished entry's.
func resumeDescription(snap tracker.Snapshot) string {
	if snap.Description != "" {
		return snap.Description
	}
	if last, ok := snap.Last(); ok {
		return last.Description
	}
	return ""
}

// toggle stops the running entry, or starts one resuming the last
// description when no draft was typed.
func toggle(ctx context.Context, t *tracker.Tracker) error {
	snap := t.Snapshot()
	if !snap.IsTracking() && snap.Description == "" {
		if description := resumeDescription(snap); description != "" {
			t.SetDescription(description)
		}
	}
	return t.ToggleTracking(ctx)
}

func errorStatus(err error) string {
	var werr *tracker.WriteError
	switch {
	case errors.Is(err, tracker.ErrNoDirectory):
		return "No log directory configured"
	case errors.As(err, &werr):
		return "Save failed, entry kept in memory"
	default:
		return "Error: " + truncate(err.Error(), 40)
	}
}

func formatElapsed(d time.Duration) string {
	d = d.Truncate(time.Minute)
	return fmt.Sprintf("%d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute))
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
