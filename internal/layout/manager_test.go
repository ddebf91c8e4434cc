package layout

import (
	"testing"

	"github.com/dodorz/dockyard/internal/geom"
)

func boolPtr(v bool) *bool { return &v }

// deskConfig builds a row of two stacks with two tabs each.
func deskConfig() Config {
	return Config{
		Type: ItemRow,
		ID:   "root",
		Children: []Config{
			{Type: ItemStack, ID: "left", Children: []Config{
				{Type: ItemComponent, ID: "a", Title: "A", Component: "editor"},
				{Type: ItemComponent, ID: "b", Title: "B", Component: "terminal"},
			}},
			{Type: ItemStack, ID: "right", Children: []Config{
				{Type: ItemComponent, ID: "c", Title: "C", Component: "log"},
				{Type: ItemComponent, ID: "d", Title: "D", Component: "tree"},
			}},
		},
	}
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := New(80, 24)
	if err := m.Load(deskConfig()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return m
}

func TestLoadRoundTrip(t *testing.T) {
	m := newTestManager(t)
	if !m.IsInitialised() {
		t.Fatal("manager not initialised after Load")
	}

	cfg := m.ToConfig()
	m2 := New(80, 24)
	if err := m2.Load(cfg); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got, want := m2.Root().ComponentCount(), 4; got != want {
		t.Errorf("reloaded component count = %d, want %d", got, want)
	}
	if m2.FindItem("c") == nil {
		t.Error("item c lost in round trip")
	}
}

func TestLoadRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"unknown type", Config{Type: "blob"}},
		{"container inside stack", Config{
			Type:     ItemStack,
			Children: []Config{{Type: ItemRow}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := New(80, 24).Load(tt.cfg); err == nil {
				t.Error("Load accepted invalid config")
			}
		})
	}
}

func TestGetAreaPrefersSmallest(t *testing.T) {
	m := newTestManager(t)

	a := m.GetArea(geom.Point{X: 5, Y: 5})
	if a == nil {
		t.Fatal("no area at interior point")
	}
	if a.Item.ID != "left" {
		t.Errorf("area = %s, want left", a.Item.ID)
	}
	if got := m.GetArea(geom.Point{X: 200, Y: 5}); got != nil {
		t.Errorf("area outside bounds = %+v, want nil", got)
	}
	// The splitter gutter between the stacks belongs to no area.
	left, _ := m.ItemRect(m.FindItem("left"))
	gutter := geom.Point{X: left.X + left.Width, Y: 5}
	if got := m.GetArea(gutter); got != nil {
		t.Errorf("area at splitter gutter = %s, want nil", got.Item.ID)
	}
}

func TestHeldAreaUnchangedByRecompute(t *testing.T) {
	m := newTestManager(t)
	area := m.GetArea(geom.Point{X: 60, Y: 5})
	if area == nil || area.Item.ID != "right" {
		t.Fatalf("area = %+v, want right stack", area)
	}
	item, rect := area.Item, area.Rect

	// A drop commit recomputes every area while the rest of the gesture
	// still reads handles from the previous pass.
	m.Insert(m.Ground(), BuildItem(Config{Type: ItemStack, Children: []Config{
		{Type: ItemComponent, ID: "z"},
	}}))

	if area.Manager != m || area.Item != item || area.Rect != rect {
		t.Errorf("held area mutated by recompute: %+v", area)
	}
}

func TestEmptySurfaceAcceptsDropsEverywhere(t *testing.T) {
	m := New(40, 10)
	a := m.GetArea(geom.Point{X: 3, Y: 3})
	if a == nil || a.Item.Type != ItemGround {
		t.Fatalf("empty surface area = %+v, want ground", a)
	}
}

func TestRemoveChildPrunesEmptyContainers(t *testing.T) {
	m := newTestManager(t)
	left := m.FindItem("left")

	m.RemoveChild(m.FindItem("a"))
	m.RemoveChild(m.FindItem("b"))

	if m.FindItem("left") != nil {
		t.Error("empty stack survived child removal")
	}
	if left.Parent() != nil {
		t.Error("pruned stack still parented")
	}
	// The root row collapsed around its single remaining child.
	if root := m.Root(); root == nil || root.ID != "right" {
		t.Errorf("root = %+v, want the right stack promoted", root)
	}
}

func TestRemoveLastItemEmptiesSurface(t *testing.T) {
	m := New(40, 10)
	if err := m.Load(Config{Type: ItemStack, ID: "s", Children: []Config{
		{Type: ItemComponent, ID: "only"},
	}}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	m.RemoveChild(m.FindItem("only"))
	if m.Root() != nil {
		t.Errorf("root = %v, want empty tree", m.Root())
	}
}

func TestInsertLeafIntoStackActivatesIt(t *testing.T) {
	m := newTestManager(t)
	leaf := NewItem(ItemComponent, "E", "editor")

	right := m.FindItem("right")
	m.Insert(right, leaf)

	if leaf.Parent() != right {
		t.Fatal("leaf not attached to stack")
	}
	if right.ActiveChild() != leaf {
		t.Error("inserted tab not activated")
	}
}

func TestInsertWrappedLeafUnwraps(t *testing.T) {
	m := newTestManager(t)
	wrapped := BuildItem(Config{Type: ItemRow, Children: []Config{
		{Type: ItemStack, Children: []Config{
			{Type: ItemComponent, ID: "x", Title: "X"},
		}},
	}})

	right := m.FindItem("right")
	m.Insert(right, wrapped)

	x := m.FindItem("x")
	if x == nil || x.Parent() != right {
		t.Fatal("wrapped leaf not unwrapped into stack")
	}
}

func TestInsertBranchingSubtreeSynthesizesRow(t *testing.T) {
	m := newTestManager(t)
	branching := BuildItem(Config{Type: ItemRow, Children: []Config{
		{Type: ItemStack, Children: []Config{{Type: ItemComponent, ID: "p"}}},
		{Type: ItemStack, Children: []Config{{Type: ItemComponent, ID: "q"}}},
	}})

	right := m.FindItem("right")
	m.Insert(right, branching)

	// The stack and the subtree now share a synthesized row; nothing was
	// dropped.
	if m.FindItem("p") == nil || m.FindItem("q") == nil {
		t.Fatal("subtree lost during synthesized-row insert")
	}
	host := right.Parent()
	if host == nil || host.Type != ItemRow {
		t.Fatalf("stack parent = %+v, want synthesized row", host)
	}
	if branching.Parent() != host {
		t.Error("subtree not attached to the synthesized row")
	}
}

func TestInsertIntoOccupiedGroundWrapsRoot(t *testing.T) {
	m := newTestManager(t)
	oldRoot := m.Root()
	extra := BuildItem(Config{Type: ItemStack, Children: []Config{
		{Type: ItemComponent, ID: "z"},
	}})

	m.Insert(m.Ground(), extra)

	root := m.Root()
	if root == nil || root.Type != ItemRow || root == oldRoot {
		t.Fatalf("root = %+v, want new wrapping row", root)
	}
	if oldRoot.Parent() != root || extra.Parent() != root {
		t.Error("old root and new content not siblings under wrapper")
	}
}

func TestOnDropRejectsForeignArea(t *testing.T) {
	m := newTestManager(t)
	other := newTestManager(t)
	area := other.GetArea(geom.Point{X: 5, Y: 5})

	defer func() {
		if recover() == nil {
			t.Error("drop through a foreign manager did not panic")
		}
	}()
	m.OnDrop(NewItem(ItemComponent, "Y", ""), area)
}

func TestOnDropFocusesAndNotifies(t *testing.T) {
	m := newTestManager(t)
	var dropped *Item
	m.OnItemDropped(func(it *Item) { dropped = it })
	focusCalls := 0
	m.FocusSurface = func() { focusCalls++ }

	leaf := NewItem(ItemComponent, "E", "editor")
	area := m.GetArea(geom.Point{X: 5, Y: 5})
	m.OnDrop(leaf, area)

	if dropped != leaf {
		t.Error("itemDropped not fired with the dropped item")
	}
	if m.Focused() != leaf {
		t.Errorf("focused = %+v, want dropped leaf", m.Focused())
	}
	if focusCalls != 1 {
		t.Errorf("focus hook called %d times, want 1", focusCalls)
	}
}

func TestSetFocusedRaisesTab(t *testing.T) {
	m := newTestManager(t)
	b := m.FindItem("b")
	if b.Visible() {
		t.Fatal("inactive tab reported visible")
	}
	m.SetFocused(b)
	if !b.Visible() {
		t.Error("focusing a tab did not raise it")
	}
	if m.FindItem("a").Visible() {
		t.Error("previously active tab still visible")
	}
}

func TestHiddenSiblingSharesMetrics(t *testing.T) {
	m := newTestManager(t)
	a, _ := m.ItemRect(m.FindItem("a"))
	b, _ := m.ItemRect(m.FindItem("b"))
	if a != b {
		t.Errorf("stack siblings have different rects: %+v vs %+v", a, b)
	}
	if a.Empty() {
		t.Error("tab body rect is empty")
	}
}

func TestConfigCloneIsDeep(t *testing.T) {
	cfg := deskConfig()
	cfg.Children[0].ReorderEnabled = boolPtr(true)
	clone := cfg.Clone()

	clone.Children[0].Children[0].ID = "mutated"
	*clone.Children[0].ReorderEnabled = false

	if cfg.Children[0].Children[0].ID != "a" {
		t.Error("clone shares child slices with the source")
	}
	if !*cfg.Children[0].ReorderEnabled {
		t.Error("clone shares pointer fields with the source")
	}
}

func TestBuildItemPanicsOnUnknownType(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("BuildItem accepted an unknown type tag")
		}
	}()
	BuildItem(Config{Type: "mystery"})
}
