// Package surface defines the window-system capability boundary the
// docking engine negotiates through. The engine never touches a real
// window system directly; everything it needs (creating detached surfaces,
// focus, pointer-capture state, time) comes in through these interfaces so
// the negotiation logic runs the same against a terminal, a test fake, or
// nothing at all.
package surface

import (
	"errors"
	"time"

	"github.com/dodorz/dockyard/internal/geom"
	"github.com/dodorz/dockyard/internal/layout"
)

// ErrBlocked is returned when the window system declines to create a
// surface, the way a browser pop-up blocker would.
var ErrBlocked = errors.New("surface: creation blocked by window system")

// ErrClosed is returned by operations against a surface that is already
// gone.
var ErrClosed = errors.New("surface: already closed")

// Insets are a surface's measured border metrics. A window system may
// momentarily report all-zero insets before the surface has settled.
type Insets struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// Zero reports whether the metrics are implausible and should not be used
// for geometry reconciliation yet.
func (in Insets) Zero() bool {
	return in.Left == 0 && in.Top == 0 && in.Right == 0 && in.Bottom == 0
}

// Surface is one independently rendered window. Every accessor tolerates
// the surface having been closed externally between ticks: the ok result
// turns false and mutators return ErrClosed, never a crash.
type Surface interface {
	// ID is the surface's creation-unique identifier.
	ID() string
	// Name is the decoy name the surface was created under. It keys the
	// configuration handoff and is unique per creation so window-reuse
	// heuristics never attach to a stale surface.
	Name() string
	// ContentBounds is the content box in screen cells.
	ContentBounds() (geom.Rect, bool)
	// OuterBounds is the content box plus the border frame.
	OuterBounds() (geom.Rect, bool)
	// FrameInsets are the measured border metrics.
	FrameInsets() (Insets, bool)
	// SetOuterBounds repositions and resizes the whole frame.
	SetOuterBounds(geom.Rect) error
	// Layout is the layout instance running inside the surface, nil until
	// that context has bootstrapped. This is the readiness marker the
	// opener polls.
	Layout() *layout.Manager
	// AttachLayout installs the layout instance. Called from the child
	// context once it has built its tree.
	AttachLayout(*layout.Manager)
	// Focus gives the surface input focus.
	Focus()
	// MoveToFront raises the surface in the stacking order.
	MoveToFront()
	// OnClose registers a callback fired once when the surface goes away,
	// whether by Close or externally.
	OnClose(fn func())
	// Close destroys the surface. Closing twice is a no-op.
	Close() error
	// IsClosed reports whether the surface is gone.
	IsClosed() bool
}

// WindowSystem is the global capability: surface creation and the shared
// pointer-capture indicator other interactions check before competing with
// an active drag.
type WindowSystem interface {
	// CreateSurface opens a detached surface whose content box should
	// match the placement. Returns ErrBlocked when the environment
	// refuses.
	CreateSurface(name string, content geom.Rect) (Surface, error)
	// SurfaceAt returns the frontmost surface whose outer frame contains
	// the screen point, nil when the point hits the desktop. Drag
	// negotiation uses it so an occluded surface never claims the pointer.
	SurfaceAt(p geom.Point) Surface
	// SetDragging toggles the global dragging indicator.
	SetDragging(active bool)
	// Dragging reports whether a drag gesture currently owns the pointer.
	Dragging() bool
}

// Timer is a stoppable pending callback.
type Timer interface {
	// Stop cancels the callback if it has not fired. Reports whether the
	// call prevented it from firing.
	Stop() bool
}

// Clock abstracts time so gesture activation delays and readiness polls
// are testable without sleeping. StepClock is the wall-clock
// implementation; tests substitute a fake.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}
