// Package drag implements the cross-surface drag negotiation engine: the
// gesture tracker, the floating proxy, the per-surface action family that
// picks one drop target per tick, and the drop indicator overlay.
package drag

import (
	"time"

	"github.com/dodorz/dockyard/internal/geom"
	"github.com/dodorz/dockyard/internal/surface"
)

// TrackerState is the activation phase of a gesture.
type TrackerState int

const (
	// TrackIdle means no pointer contact.
	TrackIdle TrackerState = iota
	// TrackPending means the pointer is down but the gesture has not
	// activated yet.
	TrackPending
	// TrackDragging means the gesture is live and emitting drag events.
	TrackDragging
)

// Tracker turns raw pointer contact into a drag gesture. A gesture
// activates when either the configured delay elapses or the pointer moves
// past the distance threshold, whichever fires first.
type Tracker struct {
	sys       surface.WindowSystem
	clock     surface.Clock
	threshold int
	delay     time.Duration

	state  TrackerState
	origin geom.Point
	last   geom.Point
	timer  surface.Timer

	// OnDragStart fires once per gesture with the origin point.
	OnDragStart func(origin geom.Point)
	// OnDrag fires on every pointer move while active, with the absolute
	// offset from the origin and the raw screen position.
	OnDrag func(offset, screen geom.Point)
	// OnDragStop fires exactly once when the gesture ends.
	OnDragStop func(screen geom.Point)
}

// NewTracker builds a tracker against the given window system and clock.
func NewTracker(sys surface.WindowSystem, clock surface.Clock, thresholdCells int, delay time.Duration) *Tracker {
	return &Tracker{
		sys:       sys,
		clock:     clock,
		threshold: thresholdCells,
		delay:     delay,
	}
}

// State returns the tracker's activation phase.
func (t *Tracker) State() TrackerState { return t.state }

// Dragging reports whether a gesture is live.
func (t *Tracker) Dragging() bool { return t.state == TrackDragging }

// PointerDown begins tracking a potential gesture at p.
func (t *Tracker) PointerDown(p geom.Point) {
	if t.state != TrackIdle {
		return
	}
	t.state = TrackPending
	t.origin = p
	t.last = p
	t.timer = t.clock.AfterFunc(t.delay, t.activateByDelay)
}

func (t *Tracker) activateByDelay() {
	if t.state != TrackPending {
		return
	}
	t.activate()
}

// activate fires dragStart and flips the global dragging indicator. The
// pending timer and the distance check cancel each other: whichever fires
// first wins.
func (t *Tracker) activate() {
	t.stopTimer()
	t.state = TrackDragging
	t.sys.SetDragging(true)
	if t.OnDragStart != nil {
		t.OnDragStart(t.origin)
	}
	t.emitDrag(t.last)
}

// PointerMove advances the gesture. A pending gesture activates once the
// pointer travels past the distance threshold.
func (t *Tracker) PointerMove(p geom.Point) {
	switch t.state {
	case TrackIdle:
	case TrackPending:
		t.last = p
		if p.ChebyshevDist(t.origin) >= t.threshold {
			t.activate()
		}
	case TrackDragging:
		t.last = p
		t.emitDrag(p)
	}
}

func (t *Tracker) emitDrag(p geom.Point) {
	if t.OnDrag != nil {
		t.OnDrag(p.Sub(t.origin), p)
	}
}

// PointerUp ends the gesture. A pending gesture that never activated is
// dropped silently.
func (t *Tracker) PointerUp(p geom.Point) {
	switch t.state {
	case TrackIdle:
	case TrackPending:
		t.reset()
	case TrackDragging:
		t.last = p
		t.stop(p)
	}
}

// CancelDrag forces dragStop regardless of whether the gesture ever
// activated. Idempotent: cancelling an idle tracker is a no-op.
func (t *Tracker) CancelDrag() {
	if t.state == TrackIdle {
		return
	}
	t.stop(t.last)
}

// Teardown drops all tracking state without emitting events. Used when the
// source region goes away mid-track so no dangling callbacks remain.
func (t *Tracker) Teardown() {
	t.reset()
	t.OnDragStart = nil
	t.OnDrag = nil
	t.OnDragStop = nil
}

// stop runs the exactly-once gesture end path.
func (t *Tracker) stop(p geom.Point) {
	stopped := t.OnDragStop
	t.reset()
	if stopped != nil {
		stopped(p)
	}
}

func (t *Tracker) reset() {
	t.stopTimer()
	if t.state == TrackDragging {
		t.sys.SetDragging(false)
	}
	t.state = TrackIdle
}

func (t *Tracker) stopTimer() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
