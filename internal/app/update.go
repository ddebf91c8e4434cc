package app

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/dodorz/dockyard/internal/surface"
)

// TickerMsg is the periodic frame tick driving handshakes, notification
// expiry, and redraws.
type TickerMsg time.Time

// InputHandler routes key and mouse messages. The input package installs
// one on the Desk so Update can delegate without a circular dependency.
type InputHandler func(msg tea.Msg, d *Desk) (tea.Model, tea.Cmd)

const tickInterval = time.Second / 30

// TickCmd schedules the next frame tick.
func TickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickerMsg(t)
	})
}

// Init starts the frame ticker.
func (d *Desk) Init() tea.Cmd {
	return TickCmd()
}

// Update advances the desk. Periodic work runs on the ticker; everything
// interactive goes through the installed input handler.
func (d *Desk) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.Resize(msg.Width, msg.Height)
		return d, nil
	case TickerMsg:
		// Expired timers run here, on the update goroutine, never on the
		// runtime's timer goroutine.
		if clock, ok := d.Clock.(*surface.StepClock); ok {
			clock.Flush()
		}
		d.BootstrapPendingSurfaces()
		d.CleanupNotifications()
		d.AdvanceGhosts(tickInterval)
		return d, TickCmd()
	default:
		if d.Input != nil {
			return d.Input(msg, d)
		}
	}
	return d, nil
}
