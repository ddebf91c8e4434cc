// Package app provides the demo desk: a Bubble Tea model hosting one
// primary docked surface plus any number of detached popout surfaces, all
// rendered inside a single terminal through the in-memory window system.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"

	"github.com/dodorz/dockyard/internal/config"
	"github.com/dodorz/dockyard/internal/drag"
	"github.com/dodorz/dockyard/internal/geom"
	"github.com/dodorz/dockyard/internal/layout"
	"github.com/dodorz/dockyard/internal/popout"
	"github.com/dodorz/dockyard/internal/surface"
	"github.com/dodorz/dockyard/internal/ui"
)

// Desk is the application state: the window system, the primary layout,
// the popout lifecycle, and the drag gesture wiring.
type Desk struct {
	Sys   *surface.System
	Clock surface.Clock

	Primary *layout.Manager
	Main    *surface.Window
	Popouts *popout.Manager

	Tracker *drag.Tracker
	Env     *drag.Env
	// Action is the live gesture's primary action, nil between gestures.
	Action *drag.Action

	Width  int
	Height int

	// Input handles key and mouse messages. Set by the input package at
	// startup so Update can delegate without a circular import.
	Input InputHandler

	ShowLogs        bool
	LogScrollOffset int
	LogMessages     []LogMessage
	Notifications   []Notification
	Ghosts          []*Ghost
}

// Ghost is the after-image of a resolved drag gesture. It glides from the
// proxy's last position toward where the item landed while fading out.
type Ghost struct {
	Glide     *ui.Glide
	Fade      *ui.Fade
	Title     string
	SurfaceID string
	Width     int
	Height    int
}

// Done reports whether the ghost has finished animating.
func (g *Ghost) Done() bool { return g.Glide.Done && g.Fade.Done }

// Notification is a temporary message shown over the desk.
type Notification struct {
	ID        string
	Message   string
	Type      string // "info", "success", "warning", "error"
	StartTime time.Time
	Duration  time.Duration
}

// LogMessage is one entry in the desk's log ring.
type LogMessage struct {
	Time    time.Time
	Level   string // INFO, WARN, ERROR
	Message string
}

// NewDesk builds a desk of the given terminal size with the default layout.
func NewDesk(width, height int) (*Desk, error) {
	d := &Desk{
		Sys:    surface.NewSystem(),
		Clock:  surface.NewStepClock(),
		Width:  width,
		Height: height,
	}

	main, err := d.Sys.CreateSurface("dockyard-desk", d.deskArea())
	if err != nil {
		return nil, fmt.Errorf("app: create primary surface: %w", err)
	}
	d.Main = main.(*surface.Window)

	content, _ := d.Main.ContentBounds()
	d.Primary = layout.New(content.Width, content.Height)
	if err := d.Primary.Load(DefaultDesk()); err != nil {
		return nil, fmt.Errorf("app: load default desk: %w", err)
	}
	d.decorate(d.Primary, d.Main)
	d.Main.AttachLayout(d.Primary)

	d.Popouts = popout.NewManager(d.Sys, d.Clock, d.Primary)

	d.Env = drag.NewEnv(d.Sys, d.Clock)
	d.Env.Surfaces = d.liveSurfaces
	d.Env.Detach = d.detach

	d.Tracker = drag.NewTracker(d.Sys, d.Clock, config.DragThresholdCells, config.DragActivationDelay)
	d.Tracker.OnDragStart = d.beginGesture
	d.Tracker.OnDrag = func(_, screen geom.Point) {
		if d.Action != nil {
			d.Action.HandleDrag(screen)
		}
	}
	d.Tracker.OnDragStop = func(geom.Point) {
		if d.Action == nil {
			return
		}
		action := d.Action
		d.Action = nil

		proxy := action.Proxy()
		from := proxy.Pos()
		w, h := proxy.Size()
		item := proxy.Item()
		surfID := action.Surface().ID()
		committed := action.CurrentTarget() != nil

		action.DragStop()
		d.spawnGhost(item, surfID, from, w, h, committed)
	}

	d.Primary.OnItemDropped(func(it *layout.Item) {
		d.LogInfo("item %q resolved", it.Title)
	})
	d.Primary.OnWindowOpened(func(id string) {
		d.LogInfo("popout opened: %s", id)
	})
	d.Primary.OnWindowClosed(func(id string) {
		d.LogInfo("popout closed: %s", id)
	})

	return d, nil
}

// DefaultDesk is the layout a fresh desk starts with.
func DefaultDesk() layout.Config {
	return layout.Config{
		Type: layout.ItemRow,
		Children: []layout.Config{
			{Type: layout.ItemStack, SizeHint: 2, Children: []layout.Config{
				{Type: layout.ItemComponent, Title: "editor", Component: "editor"},
			}},
			{Type: layout.ItemColumn, Children: []layout.Config{
				{Type: layout.ItemStack, Children: []layout.Config{
					{Type: layout.ItemComponent, Title: "shell", Component: "terminal"},
				}},
				{Type: layout.ItemStack, Children: []layout.Config{
					{Type: layout.ItemComponent, Title: "log", Component: "log"},
					{Type: layout.ItemComponent, Title: "clock", Component: "clock"},
				}},
			}},
		},
	}
}

// deskArea is the screen region available to the primary surface, the full
// terminal minus the dockbar row.
func (d *Desk) deskArea() geom.Rect {
	r := geom.Rect{Width: d.Width, Height: d.Height}
	switch config.DockbarPosition {
	case "top":
		r.Y = config.DockHeight
		r.Height -= config.DockHeight
	case "bottom":
		r.Height -= config.DockHeight
	}
	return r
}

// Resize follows a terminal size change.
func (d *Desk) Resize(width, height int) {
	d.Width = width
	d.Height = height
	_ = d.Main.SetOuterBounds(d.deskArea())
}

// decorate wires a layout manager to the surface presenting it.
func (d *Desk) decorate(mgr *layout.Manager, win *surface.Window) {
	mgr.Indicator = drag.NewIndicator()
	mgr.FocusSurface = win.Focus
	mgr.MoveToFront = win.MoveToFront
}

// liveSurfaces enumerates every open window for the drag engine.
func (d *Desk) liveSurfaces() []surface.Surface {
	windows := d.Sys.Windows()
	out := make([]surface.Surface, 0, len(windows))
	for _, w := range windows {
		out = append(out, w)
	}
	return out
}

// detach hands a dragged-out subtree to the popout lifecycle. A refusal is
// surfaced or merely logged depending on configuration; the drag engine
// restores the item either way.
func (d *Desk) detach(cfg layout.Config, placement layout.Placement, parentID string) error {
	_, err := d.Popouts.Create(cfg, placement, parentID)
	if err != nil {
		if config.RaisePopoutErrors {
			d.ShowNotification("popout blocked by window system", "error", config.NotificationDuration)
		} else {
			d.LogWarn("popout creation refused: %v", err)
		}
		return err
	}
	return nil
}

// beginGesture resolves what sits under the activation origin and starts a
// drag action for it. A gesture over nothing draggable is cancelled before
// it ever shows a proxy.
func (d *Desk) beginGesture(origin geom.Point) {
	win := d.Sys.At(origin)
	if win == nil {
		d.Tracker.CancelDrag()
		return
	}
	mgr := win.Layout()
	if mgr == nil {
		d.Tracker.CancelDrag()
		return
	}
	content, ok := win.ContentBounds()
	if !ok {
		d.Tracker.CancelDrag()
		return
	}
	local := origin.Sub(geom.Point{X: content.X, Y: content.Y})

	area := mgr.GetArea(local)
	if area == nil || area.Item.Type != layout.ItemStack {
		d.Tracker.CancelDrag()
		return
	}
	item := area.Item.ActiveChild()
	if config.PopoutWholeStack {
		item = area.Item
	}
	if item == nil {
		d.Tracker.CancelDrag()
		return
	}

	action, ok := drag.Start(d.Env, win, item, local)
	if !ok {
		d.Tracker.CancelDrag()
		return
	}
	d.Action = action
}

// spawnGhost leaves an after-image where a gesture resolved. The ghost
// glides toward the item's settled position when that position is on the
// same surface; otherwise it fades in place.
func (d *Desk) spawnGhost(item *layout.Item, surfID string, from geom.Point, w, h int, committed bool) {
	dur := config.GetAnimationDuration()
	if dur <= 0 {
		return
	}

	to := from
	for _, win := range d.Sys.Windows() {
		mgr := win.Layout()
		if mgr == nil || win.ID() != surfID || mgr.FindItem(item.ID) == nil {
			continue
		}
		if rect, ok := mgr.ItemRect(item); ok {
			to = geom.Point{X: rect.X, Y: rect.Y}
		}
		break
	}

	glide := ui.GlideTo(from, to, dur)
	if !committed {
		glide = ui.SnapBack(from, to, dur)
	}
	d.Ghosts = append(d.Ghosts, &Ghost{
		Glide:     glide,
		Fade:      ui.FadeOut(1, dur),
		Title:     item.Title,
		SurfaceID: surfID,
		Width:     w,
		Height:    h,
	})
}

// AdvanceGhosts steps every ghost animation and drops the finished ones.
func (d *Desk) AdvanceGhosts(dt time.Duration) {
	live := d.Ghosts[:0]
	for _, g := range d.Ghosts {
		g.Glide.Update(dt)
		g.Fade.Update(dt)
		if !g.Done() {
			live = append(live, g)
		}
	}
	d.Ghosts = live
}

// BootstrapPendingSurfaces plays the child context's side of the popout
// handshake for every window that has not built its layout yet. In this
// single-process desk the opener and the children share one event loop.
func (d *Desk) BootstrapPendingSurfaces() {
	for _, w := range d.Sys.Windows() {
		if w == d.Main || w.Layout() != nil {
			continue
		}
		if mgr, ok := d.Popouts.Bootstrap(w); ok {
			d.decorate(mgr, w)
		}
	}
}

// PopOutFocused detaches the focused component (or its whole stack when so
// configured) into a new surface next to its old position.
func (d *Desk) PopOutFocused() {
	item := d.Primary.Focused()
	if item == nil {
		d.ShowNotification("nothing focused to pop out", "warning", config.NotificationDuration)
		return
	}
	if config.PopoutWholeStack {
		if p := item.Parent(); p != nil && p.Type == layout.ItemStack {
			item = p
		}
	}

	rect, ok := d.Primary.ItemRect(item)
	if !ok {
		rect = geom.Rect{Width: config.DefaultPopoutWidth, Height: config.DefaultPopoutHeight}
	}
	content, _ := d.Main.ContentBounds()
	placement := layout.Placement{
		Left:   content.X + rect.X + 2,
		Top:    content.Y + rect.Y + 1,
		Width:  rect.Width,
		Height: rect.Height,
	}

	parentID := ""
	if p := item.Parent(); p != nil {
		parentID = p.ID
	}
	cfg := layout.ItemToConfig(item)
	d.Primary.RemoveChild(item)

	if err := d.detach(cfg, placement, parentID); err != nil {
		restored := layout.BuildItem(cfg)
		parent := d.Primary.FindItem(parentID)
		if parent == nil || !parent.IsContainer() {
			parent = d.Primary.TopmostContainer()
		}
		d.Primary.Insert(parent, restored)
	}
}

// NewComponent spawns a fresh component next to the focused one.
func (d *Desk) NewComponent(kind string) {
	title := fmt.Sprintf("%s-%s", kind, uuid.NewString()[:4])
	it := layout.NewItem(layout.ItemComponent, title, kind)

	target := d.Primary.TopmostContainer()
	if focused := d.Primary.Focused(); focused != nil {
		if p := focused.Parent(); p != nil && p.Type == layout.ItemStack {
			target = p
		}
	}
	d.Primary.Insert(target, it)
	d.Primary.SetFocused(it)
	d.LogInfo("spawned %s", title)
}

// CloseFocused removes the focused component from the desk.
func (d *Desk) CloseFocused() {
	item := d.Primary.Focused()
	if item == nil {
		return
	}
	d.Primary.RemoveChild(item)
	d.Primary.SetFocused(nil)
	d.LogInfo("closed %s", item.Title)
}

// CycleFocus moves focus to the next component leaf in tree order.
func (d *Desk) CycleFocus() {
	var leaves []*layout.Item
	for _, it := range d.Primary.Ground().Descendants(nil) {
		if it.IsLeaf() {
			leaves = append(leaves, it)
		}
	}
	if len(leaves) == 0 {
		return
	}
	next := leaves[0]
	if focused := d.Primary.Focused(); focused != nil {
		for i, leaf := range leaves {
			if leaf == focused {
				next = leaves[(i+1)%len(leaves)]
				break
			}
		}
	}
	d.Primary.SetFocused(next)
}

// Shutdown tears down every detached surface before the program exits.
func (d *Desk) Shutdown() {
	d.Tracker.Teardown()
	d.Popouts.CloseAll()
}

// DeskStatePath is where the desk layout is persisted between runs.
func DeskStatePath() (string, error) {
	return xdg.StateFile("dockyard/desk.toml")
}

// SaveDesk persists the primary tree and every live popout.
func (d *Desk) SaveDesk() error {
	path, err := DeskStatePath()
	if err != nil {
		return err
	}
	return d.SaveDeskTo(path)
}

// SaveDeskTo writes the desk state to an explicit path.
func (d *Desk) SaveDeskTo(path string) error {
	cfg := layout.DeskConfig{
		Root:    d.Primary.ToConfig(),
		Popouts: d.Popouts.ToConfigs(),
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("app: marshal desk state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("app: create state directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("app: write desk state: %w", err)
	}
	return nil
}

// LoadDesk restores the desk state saved by SaveDesk.
func (d *Desk) LoadDesk() error {
	path, err := DeskStatePath()
	if err != nil {
		return err
	}
	return d.LoadDeskFrom(path)
}

// LoadDeskFrom replaces the current desk with the state at an explicit
// path. Existing popouts close without popping their content back in.
func (d *Desk) LoadDeskFrom(path string) error {
	data, err := os.ReadFile(path) // #nosec G304 - desk state path comes from xdg or tests
	if err != nil {
		return fmt.Errorf("app: read desk state: %w", err)
	}
	var cfg layout.DeskConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("app: parse desk state: %w", err)
	}

	d.Popouts.SetPopInOnClose(false)
	d.Popouts.CloseAll()
	d.Popouts.SetPopInOnClose(config.PopInOnClose)

	if err := d.Primary.Load(cfg.Root); err != nil {
		return fmt.Errorf("app: restore desk layout: %w", err)
	}
	d.Popouts.Restore(cfg.Popouts)
	return nil
}

func createID() string {
	return uuid.New().String()
}

// Log appends a message to the desk's log ring.
func (d *Desk) Log(level, format string, args ...any) {
	d.LogMessages = append(d.LogMessages, LogMessage{
		Time:    d.Clock.Now(),
		Level:   level,
		Message: fmt.Sprintf(format, args...),
	})
	if len(d.LogMessages) > config.MaxLogMessages {
		d.LogMessages = d.LogMessages[len(d.LogMessages)-config.MaxLogMessages:]
	}
}

// LogInfo logs an informational message.
func (d *Desk) LogInfo(format string, args ...any) {
	d.Log("INFO", format, args...)
}

// LogWarn logs a warning message.
func (d *Desk) LogWarn(format string, args ...any) {
	d.Log("WARN", format, args...)
}

// LogError logs an error message.
func (d *Desk) LogError(format string, args ...any) {
	d.Log("ERROR", format, args...)
}

// ShowNotification displays a temporary notification and logs it.
func (d *Desk) ShowNotification(message, notifType string, duration time.Duration) {
	d.Notifications = append(d.Notifications, Notification{
		ID:        createID(),
		Message:   message,
		Type:      notifType,
		StartTime: d.Clock.Now(),
		Duration:  duration,
	})

	switch notifType {
	case "error":
		d.LogError("%s", message)
	case "warning":
		d.LogWarn("%s", message)
	default:
		d.LogInfo("%s", message)
	}
}

// CleanupNotifications drops expired notifications.
func (d *Desk) CleanupNotifications() {
	now := d.Clock.Now()
	active := d.Notifications[:0]
	for _, n := range d.Notifications {
		if now.Sub(n.StartTime) < n.Duration {
			active = append(active, n)
		}
	}
	d.Notifications = active
}
