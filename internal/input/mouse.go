package input

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/dodorz/dockyard/internal/app"
	"github.com/dodorz/dockyard/internal/config"
	"github.com/dodorz/dockyard/internal/geom"
	"github.com/dodorz/dockyard/internal/layout"
)

// handleMouseClick resolves what the pointer landed on. Dock entries and
// stack tabs react immediately; anything else arms the drag tracker.
func handleMouseClick(msg tea.MouseClickMsg, d *app.Desk) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()
	if mouse.Button != tea.MouseLeft {
		return d, nil
	}
	p := geom.Point{X: mouse.X, Y: mouse.Y}

	if config.DockbarPosition != "hidden" && p.Y == d.DockRowY() {
		handleDockClick(p.X, d)
		return d, nil
	}

	if focusUnderPointer(p, d) {
		return d, nil
	}

	d.Tracker.PointerDown(p)
	return d, nil
}

// handleDockClick focuses the component or popout whose dock entry spans x.
func handleDockClick(x int, d *app.Desk) {
	for _, entry := range d.DockLayout() {
		if x < entry.StartX || x >= entry.EndX {
			continue
		}
		if entry.SurfaceID != "" {
			if p := d.Popouts.Find(entry.SurfaceID); p != nil {
				p.Surface().Focus()
				p.Surface().MoveToFront()
			}
			return
		}
		if it := d.Primary.FindItem(entry.ItemID); it != nil {
			d.Primary.SetFocused(it)
			d.Main.Focus()
			d.Main.MoveToFront()
		}
		return
	}
}

// focusUnderPointer focuses whatever stack content sits under the pointer.
// A click on a stack's header row selects the tab it hit; a click on the
// body focuses the active component. Returns false when the pointer is over
// nothing focusable so the caller can arm a drag instead.
func focusUnderPointer(p geom.Point, d *app.Desk) bool {
	win := d.Sys.At(p)
	if win == nil {
		return false
	}
	mgr := win.Layout()
	if mgr == nil {
		return false
	}
	content, ok := win.ContentBounds()
	if !ok {
		return false
	}
	local := p.Sub(geom.Point{X: content.X, Y: content.Y})

	area := mgr.GetArea(local)
	if area == nil || area.Item.Type != layout.ItemStack {
		return false
	}
	rect, ok := mgr.ItemRect(area.Item)
	if !ok {
		return false
	}

	win.Focus()
	win.MoveToFront()

	if local.Y == rect.Y {
		if tab := tabAt(area.Item, local.X-rect.X); tab != nil {
			mgr.SetFocused(tab)
			// Header clicks still feed the tracker so a tab can be
			// dragged straight out of its stack.
			d.Tracker.PointerDown(p)
			return true
		}
	}
	if active := area.Item.ActiveChild(); active != nil {
		mgr.SetFocused(active)
	}
	d.Tracker.PointerDown(p)
	return true
}

// tabAt maps an x offset within a stack's header row to the tab under it.
// Each tab is its title padded by one cell either side, packed left to
// right the way the renderer lays them out.
func tabAt(stack *layout.Item, x int) *layout.Item {
	pos := 0
	for _, child := range stack.Children() {
		w := lipgloss.Width(child.Title) + 2
		if x >= pos && x < pos+w {
			return child
		}
		pos += w
	}
	return nil
}

func handleMouseMotion(msg tea.MouseMotionMsg, d *app.Desk) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()
	d.Tracker.PointerMove(geom.Point{X: mouse.X, Y: mouse.Y})
	return d, nil
}

func handleMouseRelease(msg tea.MouseReleaseMsg, d *app.Desk) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()
	d.Tracker.PointerUp(geom.Point{X: mouse.X, Y: mouse.Y})
	return d, nil
}

// handleMouseWheel scrolls the log overlay. Offset grows toward older
// entries; the renderer clamps it against the ring size.
func handleMouseWheel(msg tea.MouseWheelMsg, d *app.Desk) (tea.Model, tea.Cmd) {
	if !d.ShowLogs {
		return d, nil
	}
	switch msg.Button {
	case tea.MouseWheelUp:
		d.LogScrollOffset++
	case tea.MouseWheelDown:
		if d.LogScrollOffset > 0 {
			d.LogScrollOffset--
		}
	}
	return d, nil
}
