package surface

import (
	"github.com/dodorz/dockyard/internal/geom"
	"github.com/dodorz/dockyard/internal/layout"
	"github.com/google/uuid"
)

// System is the in-memory window system. The demo desk renders its windows
// inside one terminal, and the engine tests drive it directly; either way
// the engine only ever sees the WindowSystem interface.
type System struct {
	// Block makes CreateSurface refuse, simulating a pop-up blocker.
	Block bool
	// FrameInsets applied to every new window.
	FrameInsets Insets
	// MetricsSettleReads is how many FrameInsets reads report zero before
	// the real metrics become available. Real window systems do this for
	// a moment after creation.
	MetricsSettleReads int

	windows  []*Window
	focused  *Window
	dragging bool
}

// NewSystem returns a system whose windows carry a one-cell frame.
func NewSystem() *System {
	return &System{FrameInsets: Insets{Left: 1, Top: 1, Right: 1, Bottom: 1}}
}

// CreateSurface opens a window. The requested rectangle is applied as the
// outer frame verbatim, so callers that care about the content box must
// reconcile once the frame metrics settle.
func (s *System) CreateSurface(name string, content geom.Rect) (Surface, error) {
	if s.Block {
		return nil, ErrBlocked
	}
	w := &Window{
		id:     uuid.NewString(),
		name:   name,
		outer:  content,
		insets: s.FrameInsets,
		settle: s.MetricsSettleReads,
		sys:    s,
	}
	s.windows = append(s.windows, w)
	s.focused = w
	return w, nil
}

// SetDragging toggles the global dragging indicator.
func (s *System) SetDragging(active bool) { s.dragging = active }

// Dragging reports whether a gesture owns the pointer.
func (s *System) Dragging() bool { return s.dragging }

// Windows returns the live windows in stacking order, frontmost last.
func (s *System) Windows() []*Window {
	out := make([]*Window, 0, len(s.windows))
	for _, w := range s.windows {
		if !w.closed {
			out = append(out, w)
		}
	}
	return out
}

// At returns the frontmost window whose outer frame contains p, nil if the
// point hits the desktop.
func (s *System) At(p geom.Point) *Window {
	for i := len(s.windows) - 1; i >= 0; i-- {
		w := s.windows[i]
		if w.closed {
			continue
		}
		if w.outer.Contains(p) {
			return w
		}
	}
	return nil
}

// SurfaceAt returns At through the capability interface, with a typed nil
// flattened to a plain nil.
func (s *System) SurfaceAt(p geom.Point) Surface {
	if w := s.At(p); w != nil {
		return w
	}
	return nil
}

// Focused returns the window with input focus, nil if none.
func (s *System) Focused() *Window {
	if s.focused != nil && s.focused.closed {
		return nil
	}
	return s.focused
}

func (s *System) moveToFront(w *Window) {
	for i, cand := range s.windows {
		if cand == w {
			s.windows = append(s.windows[:i], s.windows[i+1:]...)
			s.windows = append(s.windows, w)
			return
		}
	}
}

// Window is one in-memory surface.
type Window struct {
	id     string
	name   string
	outer  geom.Rect
	insets Insets
	settle int

	layoutMgr *layout.Manager
	closed    bool
	onClose   []func()
	sys       *System
}

// ID returns the window's creation-unique identifier.
func (w *Window) ID() string { return w.id }

// Name returns the decoy name the window was created under.
func (w *Window) Name() string { return w.name }

// OuterBounds returns the whole frame rectangle.
func (w *Window) OuterBounds() (geom.Rect, bool) {
	if w.closed {
		return geom.Rect{}, false
	}
	return w.outer, true
}

// ContentBounds returns the frame minus the border insets.
func (w *Window) ContentBounds() (geom.Rect, bool) {
	if w.closed {
		return geom.Rect{}, false
	}
	return w.outer.Expand(-w.insets.Left, -w.insets.Top, -w.insets.Right, -w.insets.Bottom), true
}

// FrameInsets returns the border metrics once they have settled. Until
// then it reports zero insets, which callers must treat as "not yet".
func (w *Window) FrameInsets() (Insets, bool) {
	if w.closed {
		return Insets{}, false
	}
	if w.settle > 0 {
		w.settle--
		return Insets{}, true
	}
	return w.insets, true
}

// SetOuterBounds moves and resizes the frame.
func (w *Window) SetOuterBounds(r geom.Rect) error {
	if w.closed {
		return ErrClosed
	}
	w.outer = r
	if w.layoutMgr != nil {
		content, _ := w.ContentBounds()
		w.layoutMgr.SetSize(content.Width, content.Height)
	}
	return nil
}

// AttachLayout installs the layout instance running inside the window.
// This is the bootstrap step the readiness poll waits for.
func (w *Window) AttachLayout(m *layout.Manager) {
	w.layoutMgr = m
}

// Layout returns the window's layout instance, nil until bootstrapped and
// nil again once closed.
func (w *Window) Layout() *layout.Manager {
	if w.closed {
		return nil
	}
	return w.layoutMgr
}

// Focus gives the window input focus and raises it.
func (w *Window) Focus() {
	if w.closed {
		return
	}
	w.sys.focused = w
	w.sys.moveToFront(w)
}

// MoveToFront raises the window without changing focus.
func (w *Window) MoveToFront() {
	if w.closed {
		return
	}
	w.sys.moveToFront(w)
}

// OnClose registers a callback fired once when the window goes away.
func (w *Window) OnClose(fn func()) {
	if w.closed {
		fn()
		return
	}
	w.onClose = append(w.onClose, fn)
}

// Close destroys the window. Safe to call repeatedly.
func (w *Window) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.layoutMgr = nil
	if w.sys.focused == w {
		w.sys.focused = nil
	}
	callbacks := w.onClose
	w.onClose = nil
	for _, fn := range callbacks {
		fn()
	}
	return nil
}

// IsClosed reports whether the window is gone.
func (w *Window) IsClosed() bool { return w.closed }
