package popout

import (
	"github.com/dodorz/dockyard/internal/geom"
	"github.com/dodorz/dockyard/internal/layout"
	"github.com/dodorz/dockyard/internal/surface"
)

// Popout is one detached surface's lifecycle record: the subtree it was
// created with, the surface handle, and the handshake state linking the
// opener to the layout instance running inside it.
type Popout struct {
	mgr *Manager
	key string
	cfg layout.PopoutConfig

	surf  surface.Surface
	child *layout.Manager

	initialised   bool
	pollCount     int
	pollTimer     surface.Timer
	ready         chan struct{}
	closing       bool
	suppressPopIn bool

	initialisedFns []func()
	closedFns      []func()
}

// ID returns the underlying surface's identifier.
func (p *Popout) ID() string { return p.surf.ID() }

// Surface returns the detached surface handle.
func (p *Popout) Surface() surface.Surface { return p.surf }

// Child returns the layout instance inside the surface, nil until the
// readiness handshake completes.
func (p *Popout) Child() *layout.Manager { return p.child }

// IsInitialised reports whether the handshake has completed.
func (p *Popout) IsInitialised() bool { return p.initialised }

// Ready is closed once the handshake completes. It never closes if the
// surface dies first or the poll budget runs out.
func (p *Popout) Ready() <-chan struct{} { return p.ready }

// OnInitialised registers a callback for handshake completion. A callback
// registered after the fact fires immediately.
func (p *Popout) OnInitialised(fn func()) {
	if p.initialised {
		fn()
		return
	}
	p.initialisedFns = append(p.initialisedFns, fn)
}

// OnClosed registers a callback for the delayed closed event.
func (p *Popout) OnClosed(fn func()) {
	p.closedFns = append(p.closedFns, fn)
}

// beginPoll starts the readiness handshake. The opener cannot call into
// the child before it has bootstrapped, so it polls the surface's layout
// marker at a fixed interval with a bounded budget. A push from the child
// would need the child to know its opener ahead of time, which is exactly
// the coupling the handoff store exists to avoid.
func (p *Popout) beginPoll() {
	p.ready = make(chan struct{})
	p.schedulePoll()
}

func (p *Popout) schedulePoll() {
	p.pollTimer = p.mgr.clock.AfterFunc(p.mgr.pollInterval, p.poll)
}

func (p *Popout) poll() {
	if p.closing || p.surf.IsClosed() {
		return
	}
	if child := p.surf.Layout(); child != nil && child.IsInitialised() {
		p.linkChild(child)
		return
	}
	p.pollCount++
	if p.pollCount >= p.mgr.pollBudget {
		// The child never came up. The surface stays open but the opener
		// stops waiting for it.
		return
	}
	p.schedulePoll()
}

// linkChild completes the handshake: parent and child are wired together,
// geometry is reconciled, and initialised fires.
func (p *Popout) linkChild(child *layout.Manager) {
	p.child = child
	p.initialised = true
	p.stopPoll()
	close(p.ready)
	p.reconcileGeometry()

	fns := p.initialisedFns
	p.initialisedFns = nil
	for _, fn := range fns {
		fn()
	}
}

func (p *Popout) stopPoll() {
	if p.pollTimer != nil {
		p.pollTimer.Stop()
		p.pollTimer = nil
	}
}

// reconcileGeometry corrects the surface's outer frame so its content box
// matches the requested placement. Window systems may report zero border
// metrics for a moment after creation; those reads are ignored and the
// correction retried on the poll cadence.
func (p *Popout) reconcileGeometry() {
	insets, ok := p.surf.FrameInsets()
	if !ok {
		return
	}
	if insets.Zero() {
		p.pollCount++
		if p.pollCount < p.mgr.pollBudget {
			p.pollTimer = p.mgr.clock.AfterFunc(p.mgr.pollInterval, p.reconcileGeometry)
		}
		return
	}
	want := p.cfg.Placement
	outer := geom.Rect{
		X:      want.Left - insets.Left,
		Y:      want.Top - insets.Top,
		Width:  want.Width + insets.Left + insets.Right,
		Height: want.Height + insets.Top + insets.Bottom,
	}
	if err := p.surf.SetOuterBounds(outer); err != nil {
		// The surface vanished between reads; close handling owns it now.
		return
	}
}

// handleClose reacts to the surface going away, whether by Close or
// externally. Pop-in runs synchronously while the child's tree is still
// reachable; the closed event itself is emitted after a short delay so
// listeners registered synchronously after the close still observe it.
func (p *Popout) handleClose() {
	if p.closing {
		return
	}
	p.closing = true
	p.stopPoll()

	if p.mgr.popInOnClose && !p.suppressPopIn {
		p.popIn()
	}

	p.mgr.clock.AfterFunc(p.mgr.closedDelay, func() {
		fns := p.closedFns
		p.closedFns = nil
		for _, fn := range fns {
			fn()
		}
		p.mgr.remove(p)
		p.mgr.owner.EmitWindowClosed(p.surf.ID())
	})
}

// popIn reattaches the detached content into the opener's tree. The
// subtree is serialized and deep-cloned first: the source object graph
// belongs to a context that is being destroyed and must not be referenced
// afterward. The recorded parent is preferred, the topmost container is
// the fallback, and an empty opener adopts the content as its sole root.
func (p *Popout) popIn() {
	root := p.cfg.Root
	if p.child != nil {
		root = p.child.ToConfig()
	}
	if root.Type == layout.ItemGround && len(root.Children) == 0 {
		// The popout emptied out before closing; nothing to reattach.
		return
	}
	item := layout.BuildItem(root.Clone())

	owner := p.mgr.owner
	parent := owner.FindItem(p.cfg.ParentID)
	if parent == nil || !parent.IsContainer() {
		parent = owner.TopmostContainer()
	}
	owner.Insert(parent, item)
}

// PopIn explicitly reattaches the content and closes the surface, without
// triggering a second pop-in from the close path.
func (p *Popout) PopIn() {
	if p.closing {
		return
	}
	p.popIn()
	p.suppressPopIn = true
	_ = p.surf.Close()
}

// Close closes the surface deliberately. Pop-in still applies when
// enabled; the closed event follows after the usual delay.
func (p *Popout) Close() error {
	return p.surf.Close()
}
