package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/notchtrack/notchtrack/internal/files"
	"github.com/notchtrack/notchtrack/internal/logbook"
	"github.com/notchtrack/notchtrack/internal/tracker"
)

// Model renders a Tracker in the terminal. All tracker calls happen inside
// Update so the tracker is only ever touched by the Bubble Tea loop.
type Model struct {
	ctx     context.Context
	tracker *tracker.Tracker
	now     func() time.Time

	snap  tracker.Snapshot
	mode  mode
	input textinput.Model
	// previous holds the description to restore when editing is cancelled.
	previous string

	statusLine string
	errorLine  string
}

type mode uint8

const (
	modeNormal mode = iota
	modeDescription
	modeTime
	modeDirectory
)

type loadMsg struct{}

type tickMsg time.Time

const tickInterval = time.Second

// NewModel wraps t for the TUI.
func NewModel(ctx context.Context, t *tracker.Tracker) Model {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 48

	return Model{
		ctx:        ctx,
		tracker:    t,
		now:        time.Now,
		snap:       t.Snapshot(),
		input:      ti,
		statusLine: "Loading today's entries...",
	}
}

// Init loads the day and starts the clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return loadMsg{} },
		tick(),
	)
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update wires TUI state transitions from user input and the clock.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode != modeNormal {
			return m.handleInputKey(msg)
		}
		return m.handleKey(msg)
	case loadMsg:
		return m.load()
	case tickMsg:
		if err := m.tracker.RefreshDay(m.ctx); err != nil && !errors.Is(err, tracker.ErrNoDirectory) {
			m.setError(err)
		}
		m.snap = m.tracker.Snapshot()
		return m, tick()
	default:
		return m, nil
	}
}

func (m Model) load() (tea.Model, tea.Cmd) {
	err := m.tracker.Load(m.ctx)
	m.snap = m.tracker.Snapshot()
	switch {
	case errors.Is(err, tracker.ErrNoDirectory):
		m.errorLine = ""
		m.statusLine = "No log directory yet. Press d to choose one."
	case err != nil:
		m.setError(err)
	default:
		m.errorLine = ""
		m.statusLine = fmt.Sprintf("Loaded %d entr%s.", len(m.snap.Entries), plural(len(m.snap.Entries)))
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "enter", " ", "x":
		return m.toggle()
	case "e":
		m.previous = m.snap.Description
		return m.beginInput(modeDescription, m.snap.Description, "What are you working on?")
	case "t":
		return m.beginInput(modeTime, m.snap.DisplayTime.Format("15:04"), "HH:MM")
	case "T":
		m.tracker.ResetDisplayTime()
		m.snap = m.tracker.Snapshot()
		m.statusLine = "Start time follows the clock."
		m.errorLine = ""
	case "d":
		return m.beginInput(modeDirectory, m.snap.LogDirectory, "~/worklog")
	case "r":
		return m.load()
	}
	return m, nil
}

func (m Model) beginInput(next mode, value, placeholder string) (tea.Model, tea.Cmd) {
	m.mode = next
	m.input.Reset()
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Placeholder = placeholder
	m.statusLine = ""
	m.errorLine = ""
	cmd := m.input.Focus()
	return m, cmd
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		if m.mode == modeDescription {
			m.tracker.SetDescription(m.previous)
		}
		return m.endInput("Cancelled.")
	case tea.KeyEnter:
		return m.submitInput()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == modeDescription {
		// Descriptions are live: the running entry follows every keystroke.
		m.tracker.SetDescription(m.input.Value())
		m.snap = m.tracker.Snapshot()
	}
	return m, cmd
}

func (m Model) endInput(status string) (tea.Model, tea.Cmd) {
	m.mode = modeNormal
	m.input.Blur()
	m.input.Reset()
	m.previous = ""
	m.snap = m.tracker.Snapshot()
	if status != "" {
		m.statusLine = status
	}
	return m, nil
}

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())

	switch m.mode {
	case modeDescription:
		wasIdle := !m.snap.IsTracking()
		m.tracker.SetDescription(value)
		next, _ := m.endInput("")
		nm := next.(Model)
		if wasIdle && value != "" {
			return nm.toggle()
		}
		nm.statusLine = "Description updated."
		return nm, nil
	case modeTime:
		if value == "" {
			m.tracker.ResetDisplayTime()
			return m.endInput("Start time follows the clock.")
		}
		at, err := parseClock(value, m.now())
		if err != nil {
			m.errorLine = err.Error()
			return m, nil
		}
		m.tracker.SetDisplayTime(at)
		return m.endInput(fmt.Sprintf("Start time set to %s.", at.Format("15:04")))
	case modeDirectory:
		if value == "" {
			m.errorLine = "Directory cannot be empty."
			return m, nil
		}
		path, err := files.ExpandPath(value)
		if err != nil {
			m.errorLine = err.Error()
			return m, nil
		}
		err = m.tracker.SetLogDirectory(m.ctx, path)
		if err != nil && !errors.As(err, new(*logbook.ParseError)) {
			m.setError(err)
			return m, nil
		}
		next, _ := m.endInput(fmt.Sprintf("Logging to %s.", m.tracker.Snapshot().LogDirectory))
		nm := next.(Model)
		if err != nil {
			nm.setError(err)
		}
		return nm, nil
	}
	return m, nil
}

func (m Model) toggle() (tea.Model, tea.Cmd) {
	wasTracking := m.snap.IsTracking()
	err := m.tracker.ToggleTracking(m.ctx)
	m.snap = m.tracker.Snapshot()
	if err != nil {
		m.setError(err)
		if wasTracking && m.snap.IsTracking() && errors.As(err, new(*tracker.WriteError)) {
			m.errorLine += " Still tracking; fix the file and stop again."
		}
		return m, nil
	}

	m.errorLine = ""
	switch {
	case wasTracking:
		if last, ok := m.snap.Last(); ok {
			m.statusLine = fmt.Sprintf("Saved %q (%s).", last.Description, formatDuration(last.Duration(m.now())))
		}
	case m.snap.IsTracking():
		m.statusLine = "Tracking started."
	default:
		m.statusLine = "Type a description first (press e)."
	}
	return m, nil
}

func (m *Model) setError(err error) {
	m.statusLine = ""
	m.errorLine = errorMessage(err)
}

func errorMessage(err error) string {
	var (
		werr *tracker.WriteError
		perr *logbook.ParseError
	)
	switch {
	case errors.Is(err, tracker.ErrNoDirectory):
		return "Choose a log directory first (press d)."
	case errors.As(err, &werr):
		return fmt.Sprintf("Could not save %s: %v.", werr.Path, werr.Err)
	case errors.As(err, &perr):
		return fmt.Sprintf("Could not read today's file: %v", perr.Err)
	default:
		return err.Error()
	}
}

// parseClock maps HH:MM onto the calendar day of ref.
func parseClock(value string, ref time.Time) (time.Time, error) {
	parsed, err := time.ParseInLocation("15:04", value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (expected HH:MM)", value)
	}
	ref = ref.In(time.Local)
	return time.Date(ref.Year(), ref.Month(), ref.Day(), parsed.Hour(), parsed.Minute(), 0, 0, time.Local), nil
}

// View renders the frame.
func (m Model) View() string {
	var b strings.Builder
	now := m.now()

	header := now.Format("Monday, 02 January 2006")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n\n")

	if m.snap.Current != nil {
		cur := m.snap.Current
		b.WriteString(trackingStyle.Render("● " + formatDuration(cur.Duration(now))))
		b.WriteString("  ")
		b.WriteString(cur.Description)
		b.WriteString(dimStyle.Render("  since " + cur.StartTime.Format("15:04")))
	} else {
		b.WriteString(idleStyle.Render("○ idle"))
		b.WriteString("  ")
		if m.snap.Description != "" {
			b.WriteString(m.snap.Description)
		} else {
			b.WriteString(dimStyle.Render("(no description)"))
		}
		start := "start " + m.snap.DisplayTime.Format("15:04")
		if m.snap.DisplayPinned {
			b.WriteString("  " + pinnedStyle.Render(start+" (pinned)"))
		} else {
			b.WriteString("  " + dimStyle.Render(start))
		}
	}
	b.WriteString("\n\n")

	if len(m.snap.Entries) == 0 {
		b.WriteString(dimStyle.Render("(no entries today)"))
		b.WriteByte('\n')
	} else {
		var total time.Duration
		for _, entry := range m.snap.Entries {
			total += entry.Duration(now)
			b.WriteString(entryStyle.Render(formatEntry(entry, now)))
			b.WriteByte('\n')
		}
		b.WriteString(dimStyle.Render("total " + formatDuration(total)))
		b.WriteByte('\n')
	}

	dir := m.snap.LogDirectory
	if dir == "" {
		dir = "(not set)"
	}
	b.WriteString(dimStyle.Render("\nlog directory: " + dir))
	b.WriteByte('\n')

	if m.errorLine != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("! " + m.errorLine))
		b.WriteByte('\n')
	} else if m.statusLine != "" {
		b.WriteString("\n")
		b.WriteString(m.statusLine)
		b.WriteByte('\n')
	}

	if m.mode != modeNormal {
		b.WriteString("\n")
		b.WriteString(inputLabel(m.mode))
		b.WriteByte('\n')
		b.WriteString(m.input.View())
		b.WriteByte('\n')
	}

	b.WriteString(helpStyle.Render("enter start/stop  e describe  t set start  T reset start  d directory  r reload  q quit"))
	b.WriteByte('\n')

	return b.String()
}

func inputLabel(md mode) string {
	switch md {
	case modeDescription:
		return "Description (Enter to confirm, Esc to cancel):"
	case modeTime:
		return "Start time as HH:MM, empty to follow the clock (Enter to save, Esc to cancel):"
	case modeDirectory:
		return "Log directory (Enter to save, Esc to cancel):"
	}
	return ""
}

func formatEntry(entry logbook.Entry, now time.Time) string {
	end := "now  "
	if entry.EndTime != nil {
		end = entry.EndTime.In(time.Local).Format("15:04")
	}
	return fmt.Sprintf("%s-%s  %8s  %s",
		entry.StartTime.In(time.Local).Format("15:04"),
		end,
		formatDuration(entry.Duration(now)),
		entry.Description,
	)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

func plural(count int) string {
	if count == 1 {
		return "y"
	}
	return "ies"
}
