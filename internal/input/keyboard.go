package input

import (
	tea "charm.land/bubbletea/v2"

	"github.com/dodorz/dockyard/internal/app"
	"github.com/dodorz/dockyard/internal/config"
)

// handleKeyPress maps keys to desk operations. The log overlay captures
// navigation keys while it is open.
func handleKeyPress(msg tea.KeyPressMsg, d *app.Desk) (tea.Model, tea.Cmd) {
	key := msg.String()

	if d.ShowLogs {
		switch key {
		case "esc", "q", "L":
			d.ShowLogs = false
			d.LogScrollOffset = 0
			return d, nil
		case "up", "k":
			d.LogScrollOffset++
			return d, nil
		case "down", "j":
			if d.LogScrollOffset > 0 {
				d.LogScrollOffset--
			}
		}
		// Every other key is swallowed while the overlay is open.
		return d, nil
	}

	switch key {
	case "q", "ctrl+c":
		d.Shutdown()
		return d, tea.Quit
	case "esc":
		d.Tracker.CancelDrag()
	case "n":
		d.NewComponent("editor")
	case "t":
		d.NewComponent("terminal")
	case "p":
		d.PopOutFocused()
	case "P":
		config.PopoutWholeStack = !config.PopoutWholeStack
		state := "component"
		if config.PopoutWholeStack {
			state = "whole stack"
		}
		d.ShowNotification("pop out mode: "+state, "info", config.NotificationDuration)
	case "tab":
		d.CycleFocus()
	case "x":
		d.CloseFocused()
	case "s":
		if err := d.SaveDesk(); err != nil {
			d.ShowNotification("save failed: "+err.Error(), "error", config.NotificationDuration)
		} else {
			d.ShowNotification("desk saved", "success", config.NotificationDuration)
		}
	case "o":
		if err := d.LoadDesk(); err != nil {
			d.ShowNotification("load failed: "+err.Error(), "error", config.NotificationDuration)
		} else {
			d.ShowNotification("desk restored", "success", config.NotificationDuration)
		}
	case "L":
		d.ShowLogs = true
		d.LogScrollOffset = 0
	}
	return d, nil
}
