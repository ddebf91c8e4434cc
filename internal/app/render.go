package app

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/dodorz/dockyard/internal/config"
	"github.com/dodorz/dockyard/internal/drag"
	"github.com/dodorz/dockyard/internal/geom"
	"github.com/dodorz/dockyard/internal/layout"
	"github.com/dodorz/dockyard/internal/surface"
	"github.com/dodorz/dockyard/internal/theme"
)

// View renders the whole desk: every window back to front, the dockbar,
// and the transient overlays.
func (d *Desk) View() tea.View {
	var view tea.View
	view.SetContent(d.canvas().Render())
	view.AltScreen = true
	view.MouseMode = tea.MouseModeAllMotion
	view.ReportFocus = true
	return view
}

func (d *Desk) canvas() *lipgloss.Canvas {
	canvas := lipgloss.NewCanvas(d.Width, d.Height)

	focused := d.Sys.Focused()
	for z, win := range d.Sys.Windows() {
		outer, ok := win.OuterBounds()
		if !ok {
			continue
		}
		borderColor := theme.BorderUnfocused()
		if win == focused {
			borderColor = theme.BorderFocused()
		}
		if d.Sys.Dragging() {
			borderColor = theme.BorderDragging()
		}

		content, _ := win.ContentBounds()
		inner := d.renderWindowContent(win, content.Width, content.Height)
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Width(content.Width).
			Height(content.Height).
			Render(inner)

		canvas.Compose(lipgloss.NewLayer(box).X(outer.X).Y(outer.Y).Z(z).ID(win.ID()))
	}

	if config.DockbarPosition != "hidden" {
		canvas.Compose(d.renderDock())
	}
	for i, layer := range d.renderNotifications() {
		canvas.Compose(layer.Z(100 + i))
	}
	if d.ShowLogs {
		canvas.Compose(d.renderLogOverlay())
	}
	return canvas
}

// renderWindowContent draws one surface's layout tree, plus its drop
// indicator and any proxy floating over it.
func (d *Desk) renderWindowContent(win *surface.Window, width, height int) string {
	inner := lipgloss.NewCanvas(width, height)

	mgr := win.Layout()
	if mgr == nil || mgr.Root() == nil {
		inner.Compose(lipgloss.NewLayer(d.renderWelcome(width, height)).X(0).Y(0).Z(0))
		return inner.Render()
	}

	z := 0
	for _, it := range mgr.Ground().Descendants(nil) {
		if it.Type != layout.ItemStack {
			continue
		}
		rect, ok := mgr.ItemRect(it)
		if !ok {
			continue
		}
		inner.Compose(lipgloss.NewLayer(d.renderStack(mgr, it, rect)).X(rect.X).Y(rect.Y).Z(z))
		z++
	}

	if ind, ok := mgr.Indicator.(*drag.Indicator); ok && ind.Visible() {
		area := ind.Area()
		highlight := lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(theme.DropZone()).
			Width(area.Width - 2).
			Height(area.Height - 2).
			Render("")
		inner.Compose(lipgloss.NewLayer(highlight).X(area.X).Y(area.Y).Z(50))
	}

	if d.Action != nil {
		for _, member := range d.Action.Family() {
			proxy := member.Proxy()
			if proxy == nil || member.Surface().ID() != win.ID() {
				continue
			}
			pw, ph := proxy.Size()
			box := lipgloss.NewStyle().
				Border(lipgloss.DoubleBorder()).
				BorderForeground(theme.ProxyBorder()).
				Foreground(theme.ProxyTitle()).
				Width(pw - 2).
				Height(ph - 2).
				Align(lipgloss.Center).
				AlignVertical(lipgloss.Center).
				Render(proxy.Item().Title)
			pos := proxy.Pos()
			inner.Compose(lipgloss.NewLayer(box).X(pos.X).Y(pos.Y).Z(60))
		}
	}

	for _, g := range d.Ghosts {
		if g.SurfaceID != win.ID() {
			continue
		}
		accent := theme.ProxyBorder()
		if g.Fade.Value < 0.5 {
			accent = theme.DockDimmed()
		}
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Foreground(accent).
			Width(g.Width - 2).
			Height(g.Height - 2).
			Align(lipgloss.Center).
			AlignVertical(lipgloss.Center).
			Render(g.Title)
		pos := g.Glide.Pos()
		inner.Compose(lipgloss.NewLayer(box).X(pos.X).Y(pos.Y).Z(55))
	}

	return inner.Render()
}

// renderStack draws a tab header row and the active component's body.
func (d *Desk) renderStack(mgr *layout.Manager, stack *layout.Item, rect geom.Rect) string {
	activeFg, activeBg := theme.TabActive()
	inactiveFg, inactiveBg := theme.TabInactive()

	var tabs []string
	for i, child := range stack.Children() {
		style := lipgloss.NewStyle().Foreground(inactiveFg).Background(inactiveBg).Padding(0, 1)
		if i == stack.ActiveIndex {
			style = style.Foreground(activeFg).Background(activeBg)
		}
		tabs = append(tabs, style.Render(child.Title))
	}
	header := lipgloss.NewStyle().
		Width(rect.Width).
		MaxWidth(rect.Width).
		Background(inactiveBg).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))

	body := ""
	if active := stack.ActiveChild(); active != nil {
		focusMark := mgr.Focused() == active
		body = d.renderComponent(active, rect.Width, rect.Height-1, focusMark)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

// renderComponent fills a component body. The demo components are
// placeholders; real content would run here.
func (d *Desk) renderComponent(it *layout.Item, width, height int, focused bool) string {
	style := lipgloss.NewStyle().
		Width(width).
		Height(height).
		MaxWidth(width).
		MaxHeight(height).
		Foreground(theme.SurfaceFg())

	switch it.Component {
	case "log":
		return style.Render(d.renderLogLines(height))
	case "clock":
		face := d.Clock.Now().Format("15:04:05")
		return style.Align(lipgloss.Center).AlignVertical(lipgloss.Center).Render(face)
	default:
		label := it.Title
		if focused {
			label = "* " + label
		}
		hint := lipgloss.NewStyle().Foreground(theme.WelcomeHighlight()).Render(it.Component)
		return style.Align(lipgloss.Center).AlignVertical(lipgloss.Center).
			Render(label + "\n" + hint)
	}
}

func (d *Desk) renderLogLines(height int) string {
	msgs := d.LogMessages
	if len(msgs) > height {
		msgs = msgs[len(msgs)-height:]
	}
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(logLevelColor(m.Level)).
			Render(m.Time.Format("15:04:05")+" "+m.Message))
	}
	return strings.Join(lines, "\n")
}

func logLevelColor(level string) color.Color {
	switch level {
	case "ERROR":
		return theme.LogError()
	case "WARN":
		return theme.LogWarn()
	default:
		return theme.LogInfo()
	}
}

func (d *Desk) renderWelcome(width, height int) string {
	title := lipgloss.NewStyle().Foreground(theme.WelcomeTitle()).Bold(true).Render("dockyard")
	hint := lipgloss.NewStyle().Foreground(theme.WelcomeText()).
		Render("press " + lipgloss.NewStyle().Foreground(theme.WelcomeHighlight()).Render("n") + " to spawn a component")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, title, "", hint))
}

// DockEntry is one clickable span in the dockbar.
type DockEntry struct {
	StartX int
	EndX   int
	ItemID string
	// SurfaceID is set for popout entries instead of ItemID.
	SurfaceID string
}

// DockRowY is the screen row occupied by the dockbar content.
func (d *Desk) DockRowY() int {
	if config.DockbarPosition == "top" {
		return 0
	}
	return d.Height - config.DockHeight
}

// DockLayout computes the dockbar's clickable spans. Rendering and hit
// testing share this so positions always match.
func (d *Desk) DockLayout() []DockEntry {
	var entries []DockEntry
	x := 1
	focused := d.Primary.Focused()
	for _, it := range d.Primary.Ground().Descendants(nil) {
		if !it.IsLeaf() {
			continue
		}
		label := " " + it.Title + " "
		if it == focused {
			label = "[" + it.Title + "]"
		}
		entries = append(entries, DockEntry{StartX: x, EndX: x + len(label), ItemID: it.ID})
		x += len(label) + 1
	}
	for _, p := range d.Popouts.Popouts() {
		label := " ^" + popoutLabel(p.Child()) + " "
		entries = append(entries, DockEntry{StartX: x, EndX: x + len(label), SurfaceID: p.ID()})
		x += len(label) + 1
	}
	return entries
}

func popoutLabel(child *layout.Manager) string {
	if child == nil {
		return "..."
	}
	if f := child.Root(); f != nil {
		if leaf := f.ActiveChild(); leaf != nil {
			return leaf.Title
		}
		return f.Title
	}
	return "..."
}

func (d *Desk) renderDock() *lipgloss.Layer {
	base := lipgloss.NewStyle().Background(theme.DockBg())
	focused := d.Primary.Focused()

	var parts []string
	for _, it := range d.Primary.Ground().Descendants(nil) {
		if !it.IsLeaf() {
			continue
		}
		style := base.Foreground(theme.DockFg())
		label := " " + it.Title + " "
		if it == focused {
			style = style.Foreground(theme.DockHighlight())
			label = "[" + it.Title + "]"
		}
		parts = append(parts, style.Render(label))
	}
	for _, p := range d.Popouts.Popouts() {
		parts = append(parts, base.Foreground(theme.DockDimmed()).Render(" ^"+popoutLabel(p.Child())+" "))
	}

	sep := base.Foreground(theme.DockSeparator()).Render("|")
	row := base.Width(d.Width).MaxWidth(d.Width).
		Render(" " + strings.Join(parts, sep))
	return lipgloss.NewLayer(row).X(0).Y(d.DockRowY()).Z(90).ID("dockbar")
}

func (d *Desk) renderNotifications() []*lipgloss.Layer {
	layers := make([]*lipgloss.Layer, 0, len(d.Notifications))
	y := 1
	if config.DockbarPosition == "top" {
		y += config.DockHeight
	}
	for _, n := range d.Notifications {
		var accent color.Color
		switch n.Type {
		case "error":
			accent = theme.NotificationError()
		case "warning":
			accent = theme.NotificationWarning()
		case "success":
			accent = theme.NotificationSuccess()
		default:
			accent = theme.NotificationInfo()
		}
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Foreground(theme.NotificationFg()).
			Background(theme.NotificationBg()).
			Padding(0, 1).
			Render(n.Message)
		w := lipgloss.Width(box)
		layers = append(layers, lipgloss.NewLayer(box).X(d.Width-w-1).Y(y).ID(n.ID))
		y += lipgloss.Height(box)
	}
	return layers
}

func (d *Desk) renderLogOverlay() *lipgloss.Layer {
	w := min(d.Width-4, 80)
	h := min(d.Height-4, 20)

	total := len(d.LogMessages)
	perPage := max(h-2, 1)
	maxScroll := max(total-perPage, 0)
	offset := min(d.LogScrollOffset, maxScroll)

	start := max(total-perPage-offset, 0)
	end := min(start+perPage, total)
	var lines []string
	for _, m := range d.LogMessages[start:end] {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(logLevelColor(m.Level)).
			Render(fmt.Sprintf("%s %-5s %s", m.Time.Format("15:04:05"), m.Level, m.Message)))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderFocused()).
		Width(w - 2).
		Height(h - 2).
		MaxWidth(w).
		Render(strings.Join(lines, "\n"))
	return lipgloss.NewLayer(box).
		X((d.Width - w) / 2).
		Y((d.Height - h) / 2).
		Z(95).
		ID("log-overlay")
}
