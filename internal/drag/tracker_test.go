package drag

import (
	"testing"
	"time"

	"github.com/dodorz/dockyard/internal/geom"
	"github.com/dodorz/dockyard/internal/surface"
	"github.com/dodorz/dockyard/internal/testutil"
)

type trackerEvents struct {
	starts []geom.Point
	drags  []geom.Point
	stops  []geom.Point
}

func newTestTracker(threshold int, delay time.Duration) (*Tracker, *surface.System, *testutil.FakeClock, *trackerEvents) {
	sys := surface.NewSystem()
	clock := testutil.NewFakeClock()
	ev := &trackerEvents{}
	tr := NewTracker(sys, clock, threshold, delay)
	tr.OnDragStart = func(origin geom.Point) { ev.starts = append(ev.starts, origin) }
	tr.OnDrag = func(_, screen geom.Point) { ev.drags = append(ev.drags, screen) }
	tr.OnDragStop = func(screen geom.Point) { ev.stops = append(ev.stops, screen) }
	return tr, sys, clock, ev
}

func TestActivationByDistance(t *testing.T) {
	tr, sys, _, ev := newTestTracker(3, time.Second)

	tr.PointerDown(geom.Point{X: 10, Y: 10})
	tr.PointerMove(geom.Point{X: 11, Y: 10})
	if len(ev.starts) != 0 {
		t.Fatal("activated below the distance threshold")
	}
	tr.PointerMove(geom.Point{X: 13, Y: 10})
	if len(ev.starts) != 1 {
		t.Fatalf("starts = %d, want 1", len(ev.starts))
	}
	if ev.starts[0] != (geom.Point{X: 10, Y: 10}) {
		t.Errorf("start origin = %+v, want pointer-down point", ev.starts[0])
	}
	if !sys.Dragging() {
		t.Error("global dragging indicator not set")
	}
}

func TestActivationByDelay(t *testing.T) {
	tr, _, clock, ev := newTestTracker(3, 400*time.Millisecond)

	tr.PointerDown(geom.Point{X: 10, Y: 10})
	clock.Advance(399 * time.Millisecond)
	if len(ev.starts) != 0 {
		t.Fatal("activated before the delay elapsed")
	}
	clock.Advance(time.Millisecond)
	if len(ev.starts) != 1 {
		t.Fatalf("starts = %d, want 1", len(ev.starts))
	}
}

func TestActivationPathsCancelEachOther(t *testing.T) {
	t.Run("distance first", func(t *testing.T) {
		tr, _, clock, ev := newTestTracker(2, 400*time.Millisecond)
		tr.PointerDown(geom.Point{})
		tr.PointerMove(geom.Point{X: 5})
		clock.Advance(time.Second)
		if len(ev.starts) != 1 {
			t.Errorf("starts = %d, want 1", len(ev.starts))
		}
	})
	t.Run("delay first", func(t *testing.T) {
		tr, _, clock, ev := newTestTracker(2, 400*time.Millisecond)
		tr.PointerDown(geom.Point{})
		clock.Advance(time.Second)
		tr.PointerMove(geom.Point{X: 5})
		if len(ev.starts) != 1 {
			t.Errorf("starts = %d, want 1", len(ev.starts))
		}
	})
}

func TestReleaseBeforeActivationIsSilent(t *testing.T) {
	tr, _, clock, ev := newTestTracker(3, 400*time.Millisecond)

	tr.PointerDown(geom.Point{X: 10, Y: 10})
	tr.PointerUp(geom.Point{X: 11, Y: 10})
	clock.Advance(time.Second)

	if len(ev.starts)+len(ev.drags)+len(ev.stops) != 0 {
		t.Errorf("events fired for a gesture that never activated: %+v", ev)
	}
	if tr.State() != TrackIdle {
		t.Errorf("state = %v, want idle", tr.State())
	}
}

func TestStopIsIdempotent(t *testing.T) {
	tr, sys, _, ev := newTestTracker(1, time.Second)

	tr.PointerDown(geom.Point{})
	tr.PointerMove(geom.Point{X: 5})
	tr.PointerUp(geom.Point{X: 5})
	tr.PointerUp(geom.Point{X: 5})
	tr.CancelDrag()

	if len(ev.stops) != 1 {
		t.Errorf("stops = %d, want 1", len(ev.stops))
	}
	if sys.Dragging() {
		t.Error("dragging indicator still set after stop")
	}
}

func TestCancelDragForcesStopWithoutActivation(t *testing.T) {
	tr, _, _, ev := newTestTracker(3, time.Second)

	tr.PointerDown(geom.Point{X: 10, Y: 10})
	tr.CancelDrag()

	if len(ev.starts) != 0 {
		t.Error("cancel should not activate the gesture")
	}
	if len(ev.stops) != 1 {
		t.Errorf("stops = %d, want 1", len(ev.stops))
	}
}

func TestTeardownDetachesListeners(t *testing.T) {
	tr, _, clock, ev := newTestTracker(1, 100*time.Millisecond)

	tr.PointerDown(geom.Point{})
	tr.Teardown()
	clock.Advance(time.Second)
	tr.PointerMove(geom.Point{X: 50})
	tr.PointerUp(geom.Point{X: 50})

	if len(ev.starts)+len(ev.drags)+len(ev.stops) != 0 {
		t.Errorf("torn-down tracker still emitted events: %+v", ev)
	}
	if clock.PendingTimers() != 0 {
		t.Error("torn-down tracker left a timer armed")
	}
}
