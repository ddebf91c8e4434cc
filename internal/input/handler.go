// Package input routes terminal key and mouse events to desk operations.
//
// The desk model delegates here through a function value so this package can
// import app without a cycle.
package input

import (
	tea "charm.land/bubbletea/v2"

	"github.com/dodorz/dockyard/internal/app"
)

// Install wires this package's handler into a desk.
func Install(d *app.Desk) {
	d.Input = HandleInput
}

// HandleInput is the main input coordinator routing messages to the
// keyboard and mouse handlers.
func HandleInput(msg tea.Msg, d *app.Desk) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return handleKeyPress(msg, d)
	case tea.MouseClickMsg:
		return handleMouseClick(msg, d)
	case tea.MouseMotionMsg:
		return handleMouseMotion(msg, d)
	case tea.MouseReleaseMsg:
		return handleMouseRelease(msg, d)
	case tea.MouseWheelMsg:
		return handleMouseWheel(msg, d)
	}
	return d, nil
}
