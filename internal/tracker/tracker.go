// Package tracker owns the start/stop state of the current work entry and
// writes finished entries to the day file.
package tracker

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/notchtrack/notchtrack/internal/access"
	"github.com/notchtrack/notchtrack/internal/logbook"
)

// State is either idle or tracking an open entry.
type State uint8

const (
	StateIdle State = iota
	StateTracking
)

func (s State) String() string {
	if s == StateTracking {
		return "tracking"
	}
	return "idle"
}

// Store persists the finished entries of one day.
type Store interface {
	Path(dir string, day time.Time) string
	Load(ctx context.Context, dir string, day time.Time) ([]logbook.Entry, error)
	Save(ctx context.Context, dir string, day time.Time, entries []logbook.Entry) error
}

// Snapshot is a copy of everything a presenter renders.
type Snapshot struct {
	State         State
	Current       *logbook.Entry
	Entries       []logbook.Entry
	Description   string
	DisplayTime   time.Time
	DisplayPinned bool
	LogDirectory  string
	Day           time.Time
}

// IsTracking reports whether an entry is open.
func (s Snapshot) IsTracking() bool {
	return s.State == StateTracking
}

// Last returns the most recently finished entry of the day.
func (s Snapshot) Last() (logbook.Entry, bool) {
	if len(s.Entries) == 0 {
		return logbook.Entry{}, false
	}
	return s.Entries[len(s.Entries)-1], true
}

// Option customizes a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger used for non-fatal failures.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

type subscriber struct {
	id int
	fn func(Snapshot)
}

// Tracker is the tracking state machine. It is not safe for concurrent use;
// drive it from a single goroutine.
type Tracker struct {
	store  Store
	access access.Manager
	logger *slog.Logger
	now    func() time.Time

	current *logbook.Entry
	entries []logbook.Entry
	day     time.Time
	// loaded is false until entries mirror the day file on disk.
	loaded bool
	draft  string
	pinned *time.Time

	subs   []subscriber
	nextID int
}

// New builds a Tracker. Call Load once the directory has been restored.
func New(store Store, manager access.Manager, opts ...Option) *Tracker {
	t := &Tracker{
		store:  store,
		access: manager,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// State reports idle or tracking.
func (t *Tracker) State() State {
	if t.current != nil {
		return StateTracking
	}
	return StateIdle
}

// DisplayTime is the start time the next entry will get: the pinned time if
// the user picked one, the clock otherwise.
func (t *Tracker) DisplayTime() time.Time {
	if t.pinned != nil {
		return *t.pinned
	}
	return t.now()
}

// Snapshot copies the observable state.
func (t *Tracker) Snapshot() Snapshot {
	snap := Snapshot{
		State:         t.State(),
		Entries:       append([]logbook.Entry(nil), t.entries...),
		Description:   t.draft,
		DisplayTime:   t.DisplayTime(),
		DisplayPinned: t.pinned != nil,
		LogDirectory:  t.access.CurrentPath(),
		Day:           t.day,
	}
	if t.current != nil {
		current := *t.current
		snap.Current = &current
	}
	return snap
}

// Subscribe registers fn to run after every state change. The returned
// function removes it.
func (t *Tracker) Subscribe(fn func(Snapshot)) (cancel func()) {
	t.nextID++
	id := t.nextID
	t.subs = append(t.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, sub := range t.subs {
			if sub.id == id {
				t.subs = append(t.subs[:i], t.subs[i+1:]...)
				return
			}
		}
	}
}

func (t *Tracker) notify() {
	if len(t.subs) == 0 {
		return
	}
	snap := t.Snapshot()
	for _, sub := range append([]subscriber(nil), t.subs...) {
		sub.fn(snap)
	}
}

// Load reads today's finished entries. Without a directory the list is
// cleared and ErrNoDirectory returned; a file that cannot be parsed leaves
// the list empty and returns the parse error.
func (t *Tracker) Load(ctx context.Context) error {
	err := t.reload(ctx, today(t.now()))
	t.notify()
	return err
}

func (t *Tracker) reload(ctx context.Context, day time.Time) error {
	t.day = day
	t.entries = nil
	t.loaded = false

	dir := t.access.CurrentPath()
	if dir == "" {
		return ErrNoDirectory
	}

	entries, err := t.store.Load(ctx, dir, day)
	if err != nil {
		t.logger.ErrorContext(ctx, "failed to load entries",
			slog.String("path", t.store.Path(dir, day)),
			slog.String("error", err.Error()),
		)
		return err
	}
	t.entries = entries
	t.loaded = true
	return nil
}

// ToggleTracking starts an entry when idle and stops the open one otherwise.
func (t *Tracker) ToggleTracking(ctx context.Context) error {
	if t.current != nil {
		return t.Stop(ctx)
	}
	return t.Start(ctx)
}

// Start opens an entry with the draft description at the display time. An
// empty draft is ignored. Starting while already tracking does nothing.
func (t *Tracker) Start(ctx context.Context) error {
	if t.current != nil {
		return nil
	}
	description := strings.TrimSpace(t.draft)
	if description == "" {
		return nil
	}
	if t.access.CurrentPath() == "" {
		t.logger.WarnContext(ctx, "cannot start tracking without a log directory")
		return ErrNoDirectory
	}

	entry := logbook.NewEntry(t.DisplayTime(), description)
	t.current = &entry
	t.logger.DebugContext(ctx, "started entry",
		slog.String("id", entry.ID.String()),
		slog.Time("start", entry.StartTime),
	)
	t.notify()
	return nil
}

// Stop finishes the open entry, appends it to the day and writes the day
// file. Without a directory the stop is refused and tracking continues. If
// the day file cannot be read first, it is left untouched, tracking
// continues and a *WriteError wrapping the read error is returned. On a
// write failure the entry stays in the list and a *WriteError is returned.
// Stopping while idle does nothing.
func (t *Tracker) Stop(ctx context.Context) error {
	if t.current == nil {
		return nil
	}
	dir := t.access.CurrentPath()
	if dir == "" {
		t.logger.WarnContext(ctx, "cannot save entry without a log directory")
		return ErrNoDirectory
	}

	now := t.now()
	day := today(now)
	if !t.loaded || !sameDay(t.day, day) {
		// Saving rewrites the whole file, so the list must hold what is on
		// disk for the day the entry stops on.
		entries, err := t.store.Load(ctx, dir, day)
		if err != nil {
			path := t.store.Path(dir, day)
			t.logger.ErrorContext(ctx, "refusing to overwrite unreadable day file",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
			return &WriteError{Path: path, Err: err}
		}
		t.day, t.entries, t.loaded = day, entries, true
	}

	done := t.current.Finish(now)
	t.entries = append(t.entries, done)
	t.current = nil
	t.draft = ""
	t.pinned = nil

	var result error
	if err := t.store.Save(ctx, dir, day, t.entries); err != nil {
		path := t.store.Path(dir, day)
		t.logger.ErrorContext(ctx, "failed to save entries",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		result = &WriteError{Path: path, Err: err}
	} else {
		t.logger.DebugContext(ctx, "stopped entry",
			slog.String("id", done.ID.String()),
			slog.Duration("duration", done.Duration(now)),
		)
	}
	t.notify()
	return result
}

// SetDescription updates the draft, and the open entry when tracking. The
// open entry keeps its description when text is blank.
func (t *Tracker) SetDescription(text string) {
	t.draft = text
	if t.current != nil {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			t.current.Description = trimmed
		}
	}
	t.notify()
}

// SetDisplayTime pins the start time, and moves the open entry's start when
// tracking.
func (t *Tracker) SetDisplayTime(at time.Time) {
	t.pinned = &at
	if t.current != nil {
		t.current.StartTime = at
	}
	t.notify()
}

// ResetDisplayTime lets the display time follow the clock again.
func (t *Tracker) ResetDisplayTime() {
	t.pinned = nil
	t.notify()
}

// SetLogDirectory switches to path and reloads today's entries from it. If
// access cannot be granted the current directory stays in use.
func (t *Tracker) SetLogDirectory(ctx context.Context, path string) error {
	if err := t.access.SetDirectory(path); err != nil {
		t.logger.WarnContext(ctx, "failed to set log directory",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return err
	}
	return t.Load(ctx)
}

// RefreshDay reloads the list if the calendar day changed since it was
// loaded. Presenters call it on activation or on a clock tick.
func (t *Tracker) RefreshDay(ctx context.Context) error {
	if sameDay(t.day, today(t.now())) {
		return nil
	}
	return t.Load(ctx)
}

func today(now time.Time) time.Time {
	local := now.In(time.Local)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
}

func sameDay(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	a, b = a.In(time.Local), b.In(time.Local)
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
