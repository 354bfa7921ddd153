// Package tray shows the tracker in the system menu bar.
package tray

import (
	"context"
	"log/slog"
	"time"

	"github.com/getlantern/systray"

	"github.com/notchtrack/notchtrack/internal/tracker"
)

const refreshInterval = 15 * time.Second

type menu struct {
	status    *systray.MenuItem
	toggle    *systray.MenuItem
	directory *systray.MenuItem
	reload    *systray.MenuItem
	quit      *systray.MenuItem
}

// Run shows the tray and blocks until Quit is clicked or ctx is done. It must
// run on the main goroutine. The tracker is driven only from the tray's event
// loop.
func Run(ctx context.Context, t *tracker.Tracker, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(ctx)
	onReady := func() {
		m := buildMenu()
		go quitOnDone(ctx, systray.Quit)
		go loop(ctx, t, m, logger)
	}
	onExit := func() {
		cancel()
	}
	systray.Run(onReady, onExit)
}

// quitOnDone tears the tray down once ctx is done, so a cancelled caller
// does not leave systray.Run blocked on the main goroutine.
func quitOnDone(ctx context.Context, quit func()) {
	<-ctx.Done()
	quit()
}

func buildMenu() *menu {
	systray.SetTitle("○")
	systray.SetTooltip("notchtrack")

	m := &menu{}
	m.status = systray.AddMenuItem("Loading...", "")
	m.status.Disable()
	m.toggle = systray.AddMenuItem("Start", "Start or stop tracking")

	systray.AddSeparator()

	m.directory = systray.AddMenuItem("Log directory: (none)", "")
	m.directory.Disable()
	m.reload = systray.AddMenuItem("Reload today", "Re-read today's day file")

	systray.AddSeparator()

	m.quit = systray.AddMenuItem("Quit", "Quit notchtrack")
	return m
}

func loop(ctx context.Context, t *tracker.Tracker, m *menu, logger *slog.Logger) {
	unsubscribe := t.Subscribe(func(snap tracker.Snapshot) {
		m.apply(render(snap, time.Now()))
	})
	defer unsubscribe()

	if err := t.Load(ctx); err != nil {
		m.status.SetTitle(errorStatus(err))
	}

	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-m.toggle.ClickedCh:
			if err := toggle(ctx, t); err != nil {
				logger.Warn("toggle from tray failed", slog.String("error", err.Error()))
				m.status.SetTitle(errorStatus(err))
			}

		case <-m.reload.ClickedCh:
			if err := t.Load(ctx); err != nil {
				m.status.SetTitle(errorStatus(err))
			}

		case <-m.quit.ClickedCh:
			systray.Quit()
			return

		case <-ticker.C:
			if err := t.RefreshDay(ctx); err != nil {
				logger.Debug("day refresh failed", slog.String("error", err.Error()))
			}
			m.apply(render(t.Snapshot(), time.Now()))
		}
	}
}

func (m *menu) apply(st menuState) {
	systray.SetTitle(st.Title)
	systray.SetTooltip(st.Tooltip)
	m.status.SetTitle(st.Status)
	m.toggle.SetTitle(st.Toggle)
	if st.CanToggle {
		m.toggle.Enable()
	} else {
		m.toggle.Disable()
	}
	m.directory.SetTitle(st.Directory)
}
