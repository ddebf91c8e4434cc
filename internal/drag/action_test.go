package drag

import (
	"testing"

	"github.com/dodorz/dockyard/internal/geom"
	"github.com/dodorz/dockyard/internal/layout"
	"github.com/dodorz/dockyard/internal/surface"
	"github.com/dodorz/dockyard/internal/testutil"
)

// world is a window system with one primary surface hosting a two-stack
// desk, ready to grow secondaries.
type world struct {
	t       *testing.T
	sys     *surface.System
	clock   *testutil.FakeClock
	env     *Env
	primary surface.Surface
	pm      *layout.Manager
}

func deskConfig() layout.Config {
	return layout.Config{
		Type: layout.ItemRow,
		ID:   "root",
		Children: []layout.Config{
			{Type: layout.ItemStack, ID: "left", Children: []layout.Config{
				{Type: layout.ItemComponent, ID: "a", Title: "A", Component: "editor"},
				{Type: layout.ItemComponent, ID: "b", Title: "B", Component: "terminal"},
			}},
			{Type: layout.ItemStack, ID: "right", Children: []layout.Config{
				{Type: layout.ItemComponent, ID: "c", Title: "C", Component: "log"},
			}},
		},
	}
}

func newWorld(t *testing.T) *world {
	t.Helper()
	sys := surface.NewSystem()
	sys.FrameInsets = surface.Insets{}
	clock := testutil.NewFakeClock()

	primary, err := sys.CreateSurface("primary", geom.Rect{Width: 80, Height: 24})
	if err != nil {
		t.Fatalf("create primary: %v", err)
	}
	pm := layout.New(80, 24)
	if err := pm.Load(deskConfig()); err != nil {
		t.Fatalf("load desk: %v", err)
	}
	pm.Indicator = NewIndicator()
	primary.AttachLayout(pm)

	env := NewEnv(sys, clock)
	env.Surfaces = func() []surface.Surface {
		var out []surface.Surface
		for _, w := range sys.Windows() {
			out = append(out, w)
		}
		return out
	}
	return &world{t: t, sys: sys, clock: clock, env: env, primary: primary, pm: pm}
}

// addSurface opens an extra live surface hosting a single-stack tree.
func (w *world) addSurface(stackID string, r geom.Rect) (surface.Surface, *layout.Manager) {
	w.t.Helper()
	s, err := w.sys.CreateSurface(stackID+"-surface", r)
	if err != nil {
		w.t.Fatalf("create surface %s: %v", stackID, err)
	}
	m := layout.New(r.Width, r.Height)
	cfg := layout.Config{Type: layout.ItemStack, ID: stackID, Children: []layout.Config{
		{Type: layout.ItemComponent, ID: stackID + "-comp", Component: "viewer"},
	}}
	if err := m.Load(cfg); err != nil {
		w.t.Fatalf("load %s: %v", stackID, err)
	}
	m.Indicator = NewIndicator()
	s.AttachLayout(m)
	return s, m
}

func (w *world) startDrag(itemID string, at geom.Point) *Action {
	w.t.Helper()
	item := w.pm.FindItem(itemID)
	if item == nil {
		w.t.Fatalf("no item %s", itemID)
	}
	act, ok := Start(w.env, w.primary, item, at)
	if !ok {
		w.t.Fatal("Start refused the gesture")
	}
	return act
}

func TestDropCommitsIntoTargetContainer(t *testing.T) {
	w := newWorld(t)
	drops := 0
	w.pm.OnItemDropped(func(*layout.Item) { drops++ })

	act := w.startDrag("a", geom.Point{X: 5, Y: 5})
	act.HandleDrag(geom.Point{X: 60, Y: 5})
	if tgt := act.CurrentTarget(); tgt == nil || tgt.Item.ID != "right" {
		t.Fatalf("current target = %+v, want right stack", tgt)
	}
	act.DragStop()

	a := w.pm.FindItem("a")
	if a == nil || a.Parent() == nil || a.Parent().ID != "right" {
		t.Fatalf("item a parent = %+v, want right stack", a)
	}
	left := w.pm.FindItem("left")
	if left == nil || left.ComponentCount() != 1 {
		t.Error("pre-drag container should hold only the remaining item")
	}
	if drops != 1 {
		t.Errorf("itemDropped fired %d times, want 1", drops)
	}
}

func TestDragStopIsExactlyOnce(t *testing.T) {
	w := newWorld(t)
	drops := 0
	w.pm.OnItemDropped(func(*layout.Item) { drops++ })

	act := w.startDrag("a", geom.Point{X: 5, Y: 5})
	act.HandleDrag(geom.Point{X: 60, Y: 5})
	act.DragStop()
	before := w.pm.ToConfig()
	act.DragStop()
	act.HandleDrag(geom.Point{X: 5, Y: 5})

	if drops != 1 {
		t.Errorf("itemDropped fired %d times, want 1", drops)
	}
	after := w.pm.ToConfig()
	if len(before.Children) != len(after.Children) || w.pm.Ground().ComponentCount() != 3 {
		t.Error("second stop mutated the tree")
	}
}

func TestNoTargetDetachDisallowedDestroysItem(t *testing.T) {
	w := newWorld(t)
	w.env.AllowDetach = false
	windowsBefore := len(w.sys.Windows())

	act := w.startDrag("a", geom.Point{X: 5, Y: 5})
	act.HandleDrag(geom.Point{X: 200, Y: 40})
	act.DragStop()

	if w.pm.FindItem("a") != nil {
		t.Error("item survived a targetless drop with detachment off")
	}
	if got := len(w.sys.Windows()); got != windowsBefore {
		t.Errorf("windows = %d, want %d", got, windowsBefore)
	}
}

func TestNoTargetDetachAllowedSpawnsSurface(t *testing.T) {
	w := newWorld(t)
	var gotCfg layout.Config
	var gotPlacement layout.Placement
	var gotParent string
	calls := 0
	w.env.Detach = func(cfg layout.Config, pl layout.Placement, parentID string) error {
		calls++
		gotCfg, gotPlacement, gotParent = cfg, pl, parentID
		return nil
	}

	act := w.startDrag("a", geom.Point{X: 5, Y: 5})
	preDrag, ok := w.pm.ItemRect(w.pm.FindItem("b"))
	if !ok {
		t.Fatal("no rect for remaining tab")
	}
	act.HandleDrag(geom.Point{X: 120, Y: 30})
	act.DragStop()

	if calls != 1 {
		t.Fatalf("detach called %d times, want 1", calls)
	}
	if gotCfg.ID != "a" {
		t.Errorf("detached subtree = %s, want a", gotCfg.ID)
	}
	if gotPlacement.Left != 120 || gotPlacement.Top != 30 {
		t.Errorf("placement origin = (%d,%d), want proxy's final offset (120,30)", gotPlacement.Left, gotPlacement.Top)
	}
	// Tabs share their stack's body, so the sibling rect is the captured
	// pre-drag footprint.
	if gotPlacement.Width != preDrag.Width || gotPlacement.Height != preDrag.Height {
		t.Errorf("placement size = %dx%d, want pre-drag footprint %dx%d",
			gotPlacement.Width, gotPlacement.Height, preDrag.Width, preDrag.Height)
	}
	if gotParent != "left" {
		t.Errorf("recorded parent = %s, want left", gotParent)
	}
}

func TestBlockedDetachRestoresItem(t *testing.T) {
	w := newWorld(t)
	w.env.Detach = func(layout.Config, layout.Placement, string) error {
		return surface.ErrBlocked
	}

	act := w.startDrag("a", geom.Point{X: 5, Y: 5})
	act.HandleDrag(geom.Point{X: 200, Y: 40})
	act.DragStop()

	a := w.pm.FindItem("a")
	if a == nil || a.Parent() == nil || a.Parent().ID != "left" {
		t.Fatalf("item a parent = %+v, want restored into left", a)
	}
}

func TestStartCancelsWhenGestureCannotLandElsewhere(t *testing.T) {
	w := newWorld(t)
	single := layout.Config{Type: layout.ItemStack, ID: "s", Children: []layout.Config{
		{Type: layout.ItemComponent, ID: "only"},
	}}
	if err := w.pm.Load(single); err != nil {
		t.Fatalf("load: %v", err)
	}
	w.env.AllowDetach = false
	w.env.AllowCrossSurface = false

	item := w.pm.FindItem("only")
	act, ok := Start(w.env, w.primary, item, geom.Point{X: 5, Y: 5})
	if ok || act != nil {
		t.Fatal("gesture started though it could only land where it began")
	}
	if item.Parent() == nil {
		t.Error("start-time cancellation severed the item")
	}
}

func TestStartRefusesNonReorderableItem(t *testing.T) {
	w := newWorld(t)
	item := w.pm.FindItem("a")
	item.ReorderEnabled = false
	if _, ok := Start(w.env, w.primary, item, geom.Point{X: 5, Y: 5}); ok {
		t.Error("gesture started on a non-reorderable item")
	}
}

func TestCrossSurfaceProxyMaterializesAndSupersedes(t *testing.T) {
	w := newWorld(t)
	_, sm := w.addSurface("s2", geom.Rect{X: 100, Y: 0, Width: 40, Height: 20})

	act := w.startDrag("a", geom.Point{X: 5, Y: 5})
	if len(act.Family()) != 2 {
		t.Fatalf("family size = %d, want 2", len(act.Family()))
	}

	// First the primary holds the target, then the pointer crosses into
	// the detached surface.
	act.HandleDrag(geom.Point{X: 60, Y: 5})
	if tgt := act.CurrentTarget(); tgt == nil || tgt.Manager != w.pm {
		t.Fatal("expected the primary to hold the target first")
	}
	act.HandleDrag(geom.Point{X: 110, Y: 5})

	tgt := act.CurrentTarget()
	if tgt == nil || tgt.Manager != sm {
		t.Fatalf("target manager = %+v, want the detached surface's", tgt)
	}
	front := act.Family()[0]
	if !front.IsSecondary() || front.Proxy() == nil {
		t.Error("winning secondary has no proxy or did not move to front")
	}
}

func TestCrossSurfaceDropMovesItem(t *testing.T) {
	w := newWorld(t)
	_, sm := w.addSurface("s2", geom.Rect{X: 100, Y: 0, Width: 40, Height: 20})

	act := w.startDrag("a", geom.Point{X: 5, Y: 5})
	act.HandleDrag(geom.Point{X: 110, Y: 5})
	act.DragStop()

	moved := sm.FindItem("a")
	if moved == nil || moved.Parent() == nil || moved.Parent().ID != "s2" {
		t.Fatalf("item on detached surface = %+v, want child of s2", moved)
	}
	if w.pm.FindItem("a") != nil {
		t.Error("item still present in its pre-drag tree")
	}
}

func TestPriorityMovesWinnerToFront(t *testing.T) {
	w := newWorld(t)
	sb, _ := w.addSurface("sb", geom.Rect{X: 100, Y: 0, Width: 40, Height: 20})
	sc, _ := w.addSurface("sc", geom.Rect{X: 150, Y: 0, Width: 40, Height: 20})

	act := w.startDrag("a", geom.Point{X: 5, Y: 5})

	act.HandleDrag(geom.Point{X: 110, Y: 5})
	if got := act.Family()[0].Surface().ID(); got != sb.ID() {
		t.Fatalf("front surface = %s, want B after B wins", got)
	}
	act.HandleDrag(geom.Point{X: 160, Y: 5})
	order := act.Family()
	if order[0].Surface().ID() != sc.ID() {
		t.Errorf("front surface = %s, want C after C wins", order[0].Surface().ID())
	}
	if order[1].Surface().ID() != sb.ID() {
		t.Errorf("second surface = %s, want B to keep its recency edge", order[1].Surface().ID())
	}
}

func TestOccludedSurfaceNeverClaimsTarget(t *testing.T) {
	w := newWorld(t)
	r := geom.Rect{X: 100, Y: 0, Width: 40, Height: 20}
	_, backMgr := w.addSurface("back", r)
	front, frontMgr := w.addSurface("front", r)
	over := geom.Point{X: 110, Y: 5}

	act := w.startDrag("a", geom.Point{X: 5, Y: 5})
	act.HandleDrag(over)

	tgt := act.CurrentTarget()
	if tgt == nil || tgt.Manager != frontMgr {
		t.Fatalf("target manager = %+v, want the frontmost surface's", tgt)
	}
	if tgt.Manager == backMgr {
		t.Fatal("occluded surface claimed the pointer")
	}
	if got := act.Family()[0].Surface().ID(); got != front.ID() {
		t.Errorf("front of family = %s, want the frontmost surface", got)
	}
	// Winning must not reshuffle the stacking order under the pointer.
	if top := w.sys.At(over); top == nil || top.ID() != front.ID() {
		t.Error("occluded surface was raised over the one the user points at")
	}

	act.DragStop()
	if frontMgr.FindItem("a") == nil {
		t.Error("drop did not land on the frontmost surface")
	}
	if backMgr.FindItem("a") != nil {
		t.Error("occluded surface received the drop")
	}
}

func TestCullSparesCurrentTargetHolderForOneTick(t *testing.T) {
	w := newWorld(t)
	_, _ = w.addSurface("s2", geom.Rect{X: 200, Y: 0, Width: 40, Height: 20})

	act := w.startDrag("a", geom.Point{X: 5, Y: 5})
	act.HandleDrag(geom.Point{X: 210, Y: 5})
	sec := act.Family()[0]
	if sec.Proxy() == nil {
		t.Fatal("secondary proxy not materialized")
	}

	// The pointer moves back over the primary. The secondary is no longer
	// visible but still holds the target when its cull runs, so the proxy
	// survives this tick.
	act.HandleDrag(geom.Point{X: 5, Y: 5})
	if sec.Proxy() == nil {
		t.Fatal("target holder's proxy culled in the same tick it lost the target")
	}
	// On the next tick, ownership has moved on and the cull collects it.
	act.HandleDrag(geom.Point{X: 5, Y: 5})
	if sec.Proxy() != nil {
		t.Error("stale secondary proxy survived the following tick")
	}
	if sec.State() != StateSpawned {
		t.Errorf("culled secondary state = %v, want spawned", sec.State())
	}
}

func TestProxyMaterializesInsideEdgeMargin(t *testing.T) {
	w := newWorld(t)
	_, _ = w.addSurface("s2", geom.Rect{X: 100, Y: 0, Width: 40, Height: 20})

	act := w.startDrag("a", geom.Point{X: 5, Y: 5})
	// Inside the outward proxy-footprint margin but left of the surface.
	act.HandleDrag(geom.Point{X: 100 - w.env.ProxyWidth + 1, Y: 5})

	var sec *Action
	for _, m := range act.Family() {
		if m.IsSecondary() {
			sec = m
		}
	}
	if sec.Proxy() == nil {
		t.Fatal("proxy not materialized inside the edge margin")
	}
	if act.CurrentTarget() != nil {
		t.Error("a point outside the surface bounds produced a target")
	}
}

func TestClosedSurfaceReadsAsAbsent(t *testing.T) {
	w := newWorld(t)
	s2, _ := w.addSurface("s2", geom.Rect{X: 100, Y: 0, Width: 40, Height: 20})

	act := w.startDrag("a", geom.Point{X: 5, Y: 5})
	act.HandleDrag(geom.Point{X: 110, Y: 5})
	if err := s2.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// The surface vanished between ticks; negotiation continues without
	// it and the gesture still resolves.
	act.HandleDrag(geom.Point{X: 110, Y: 5})
	act.HandleDrag(geom.Point{X: 60, Y: 5})
	act.DragStop()

	a := w.pm.FindItem("a")
	if a == nil || a.Parent() == nil || a.Parent().ID != "right" {
		t.Fatalf("item a parent = %+v, want right stack on the primary", a)
	}
}

func TestTargetRetainedAcrossSplitterGap(t *testing.T) {
	w := newWorld(t)
	act := w.startDrag("a", geom.Point{X: 5, Y: 5})

	act.HandleDrag(geom.Point{X: 60, Y: 5})
	if tgt := act.CurrentTarget(); tgt == nil || tgt.Item.ID != "right" {
		t.Fatalf("target = %+v, want right stack", tgt)
	}

	left, _ := w.pm.ItemRect(w.pm.FindItem("left"))
	gutter := geom.Point{X: left.X + left.Width, Y: 5}
	act.HandleDrag(gutter)
	if tgt := act.CurrentTarget(); tgt == nil || tgt.Item.ID != "right" {
		t.Errorf("target over the splitter gutter = %+v, want the retained right stack", tgt)
	}

	act.HandleDrag(geom.Point{X: 200, Y: 40})
	if tgt := act.CurrentTarget(); tgt != nil {
		t.Errorf("target outside the host = %+v, want nil", tgt)
	}
}

func TestIndicatorFollowsWinner(t *testing.T) {
	w := newWorld(t)
	_, sm := w.addSurface("s2", geom.Rect{X: 100, Y: 0, Width: 40, Height: 20})
	pInd := w.pm.Indicator.(*Indicator)
	sInd := sm.Indicator.(*Indicator)

	act := w.startDrag("a", geom.Point{X: 5, Y: 5})
	act.HandleDrag(geom.Point{X: 60, Y: 5})
	if !pInd.Visible() || sInd.Visible() {
		t.Fatal("primary indicator should be the only one visible")
	}
	act.HandleDrag(geom.Point{X: 110, Y: 5})
	if pInd.Visible() {
		t.Error("previous owner's indicator still visible after the target moved")
	}
	if !sInd.Visible() {
		t.Error("winning surface's indicator not shown")
	}
	act.DragStop()
	if pInd.Visible() || sInd.Visible() {
		t.Error("indicator visible after the gesture resolved")
	}
}

func TestSpawnFromSecondaryPanics(t *testing.T) {
	w := newWorld(t)
	s2, _ := w.addSurface("s2", geom.Rect{X: 100, Y: 0, Width: 40, Height: 20})

	act := w.startDrag("a", geom.Point{X: 5, Y: 5})
	var sec *Action
	for _, m := range act.Family() {
		if m.IsSecondary() {
			sec = m
		}
	}
	defer func() {
		if recover() == nil {
			t.Error("spawning from a secondary did not panic")
		}
	}()
	sec.Spawn(s2)
}
