package layout

import (
	"fmt"

	"github.com/dodorz/dockyard/internal/geom"
)

// DropIndicator is the overlay a manager highlights candidate areas with.
// The concrete indicator is supplied by whatever renders the surface.
type DropIndicator interface {
	Highlight(area geom.Rect, margin int)
	Hide()
}

// Manager owns one surface's content tree: area geometry, tree mutation,
// focus, and the event registries external consumers observe. All methods
// are called from the owning surface's event loop; the manager does no
// locking of its own.
type Manager struct {
	ground *Item
	bounds geom.Rect
	areas  []Area
	rects  map[*Item]geom.Rect

	focused     *Item
	initialised bool

	// Indicator is highlighted and hidden during drag negotiation. Nil is
	// fine; a headless manager just skips the visuals.
	Indicator DropIndicator
	// FocusSurface brings the surface hosting this manager to the user's
	// attention. Defaults to a no-op.
	FocusSurface func()
	// MoveToFront raises the surface in the stacking order during drags.
	// Defaults to a no-op.
	MoveToFront func()

	itemDropped  []func(*Item)
	stateChanged []func()
	windowOpened []func(id string)
	windowClosed []func(id string)
}

// New creates a manager with an empty tree filling the given surface size.
func New(width, height int) *Manager {
	m := &Manager{
		ground: &Item{ID: "ground", Type: ItemGround},
		bounds: geom.Rect{Width: width, Height: height},
	}
	m.CalculateItemAreas()
	return m
}

// Ground returns the always-present root placeholder.
func (m *Manager) Ground() *Item { return m.ground }

// Root returns the tree's single top-level container, nil when empty.
func (m *Manager) Root() *Item {
	if len(m.ground.children) == 0 {
		return nil
	}
	return m.ground.children[0]
}

// Bounds returns the surface's content area in local coordinates.
func (m *Manager) Bounds() geom.Rect { return m.bounds }

// SetSize resizes the surface's content area and recomputes every rect.
func (m *Manager) SetSize(width, height int) {
	m.bounds = geom.Rect{Width: width, Height: height}
	m.CalculateItemAreas()
}

// IsInitialised reports whether the manager has finished loading a layout.
// A freshly opened detached surface flips this once its tree is built; the
// opener polls it during the readiness handshake.
func (m *Manager) IsInitialised() bool { return m.initialised }

// Load replaces the tree with the given wire config and marks the manager
// initialised.
func (m *Manager) Load(cfg Config) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}
	m.ground = &Item{ID: "ground", Type: ItemGround}
	m.focused = nil
	if cfg.Type == ItemGround {
		if len(cfg.Children) > 1 {
			return fmt.Errorf("layout: ground config with %d roots", len(cfg.Children))
		}
		if len(cfg.Children) == 1 {
			m.ground.attach(BuildItem(cfg.Children[0]), 0)
		}
	} else {
		m.ground.attach(BuildItem(cfg), 0)
	}
	m.initialised = true
	m.CalculateItemAreas()
	m.emitStateChanged()
	return nil
}

func validateConfig(cfg Config) error {
	switch cfg.Type {
	case ItemGround, ItemRow, ItemColumn, ItemStack, ItemComponent:
	default:
		return fmt.Errorf("layout: unknown item type %q", cfg.Type)
	}
	if cfg.Type == ItemStack {
		for _, child := range cfg.Children {
			if child.Type != ItemComponent {
				return fmt.Errorf("layout: stack may only hold components, found %q", child.Type)
			}
		}
	}
	for _, child := range cfg.Children {
		if err := validateConfig(child); err != nil {
			return err
		}
	}
	return nil
}

// ToConfig serializes the current tree. An empty surface serializes to a
// bare ground node.
func (m *Manager) ToConfig() Config {
	root := m.Root()
	if root == nil {
		return Config{Type: ItemGround}
	}
	return ItemToConfig(root)
}

// FindItem locates an item anywhere in the tree by ID, nil when absent.
func (m *Manager) FindItem(id string) *Item {
	if m.ground.ID == id {
		return m.ground
	}
	for _, it := range m.ground.Descendants(nil) {
		if it.ID == id {
			return it
		}
	}
	return nil
}

// TopmostContainer returns the root container when one exists, otherwise
// the ground item. Pop-in falls back to it when a recorded parent no longer
// resolves.
func (m *Manager) TopmostContainer() *Item {
	if root := m.Root(); root != nil && root.IsContainer() {
		return root
	}
	return m.ground
}

// AddChild attaches a detached item under parent at idx and recomputes
// geometry. idx beyond the child count appends.
func (m *Manager) AddChild(parent, child *Item, idx int) {
	parent.attach(child, idx)
	m.CalculateItemAreas()
	m.emitStateChanged()
}

// RemoveChild severs it from the tree, pruning containers the removal left
// empty and collapsing single-child rows and columns. The item itself is
// returned detached and intact so callers can re-home it.
func (m *Manager) RemoveChild(it *Item) *Item {
	parent := it.parent
	if parent == nil {
		return it
	}
	parent.detach(it)
	m.prune(parent)
	if m.focused != nil && m.containsItem(it, m.focused) {
		m.focused = nil
	}
	m.CalculateItemAreas()
	m.emitStateChanged()
	return it
}

func (m *Manager) containsItem(root, target *Item) bool {
	if root == target {
		return true
	}
	for _, c := range root.children {
		if m.containsItem(c, target) {
			return true
		}
	}
	return false
}

func (m *Manager) prune(it *Item) {
	if it.Type == ItemGround {
		return
	}
	parent := it.parent
	if parent == nil {
		return
	}
	switch {
	case len(it.children) == 0:
		parent.detach(it)
		m.prune(parent)
	case len(it.children) == 1 && (it.Type == ItemRow || it.Type == ItemColumn):
		only := it.children[0]
		idx := parent.indexOf(it)
		it.detach(only)
		parent.detach(it)
		only.SizeHint = it.SizeHint
		parent.attach(only, idx)
	}
}

// Insert places a detached item into container, adapting the subtree to the
// container's constraints. Stacks can only hold component leaves, so a
// non-leaf subtree is unwrapped to its single leaf when possible, and
// otherwise the stack is paired with the new content in a synthesized row
// rather than failing the insert.
func (m *Manager) Insert(container, item *Item) {
	switch container.Type {
	case ItemGround:
		if root := m.Root(); root != nil {
			idx := m.ground.indexOf(root)
			m.ground.detach(root)
			row := NewItem(ItemRow, "", "")
			row.attach(root, 0)
			row.attach(item, 1)
			m.ground.attach(row, idx)
		} else {
			m.ground.attach(item, 0)
		}
	case ItemRow, ItemColumn:
		container.attach(item, len(container.children))
	case ItemStack:
		if item.IsLeaf() {
			container.attach(item, len(container.children))
			container.ActiveIndex = len(container.children) - 1
			break
		}
		if leaf, ok := unwrapItemToLeaf(item); ok {
			container.attach(leaf, len(container.children))
			container.ActiveIndex = len(container.children) - 1
			break
		}
		// No single leaf to extract. Pair the stack with the new content
		// in a synthesized row instead of dropping the reattachment.
		parent := container.parent
		if parent == nil {
			panic("layout: insert target stack is detached")
		}
		idx := parent.indexOf(container)
		parent.detach(container)
		row := NewItem(ItemRow, "", "")
		row.attach(container, 0)
		row.attach(item, 1)
		parent.attach(row, idx)
	case ItemComponent:
		panic("layout: insert into a component leaf")
	}
	m.CalculateItemAreas()
	m.emitStateChanged()
}

// unwrapItemToLeaf descends single-child wrappers to a lone component leaf,
// detaching it from the wrappers on the way out.
func unwrapItemToLeaf(it *Item) (*Item, bool) {
	node := it
	for !node.IsLeaf() {
		if len(node.children) != 1 {
			return nil, false
		}
		node = node.children[0]
	}
	if node.parent != nil {
		node.parent.detach(node)
	}
	return node, true
}

// OnDrop commits a dragged item into the given area's container. The area
// must have been produced by this manager; committing through the wrong
// manager is a programming error.
func (m *Manager) OnDrop(item *Item, area *Area) {
	if area.Manager != m {
		panic("layout: drop area belongs to a different manager")
	}
	m.Insert(area.Item, item)
	if leaf := firstLeaf(item); leaf != nil {
		m.SetFocused(leaf)
	}
	if m.FocusSurface != nil {
		m.FocusSurface()
	}
	m.emitItemDropped(item)
}

func firstLeaf(it *Item) *Item {
	if it.IsLeaf() {
		return it
	}
	for _, c := range it.children {
		if leaf := firstLeaf(c); leaf != nil {
			return leaf
		}
	}
	return nil
}

// Focused returns the currently focused component, nil if none.
func (m *Manager) Focused() *Item { return m.focused }

// SetFocused focuses a component and raises its tab when it lives in a
// stack.
func (m *Manager) SetFocused(it *Item) {
	m.focused = it
	if it == nil {
		return
	}
	if p := it.parent; p != nil && p.Type == ItemStack {
		if idx := p.indexOf(it); idx >= 0 && p.ActiveIndex != idx {
			p.ActiveIndex = idx
			m.CalculateItemAreas()
			m.emitStateChanged()
		}
	}
}

// HideDropTargetIndicator hides this surface's indicator if one is wired.
func (m *Manager) HideDropTargetIndicator() {
	if m.Indicator != nil {
		m.Indicator.Hide()
	}
}

// HighlightDropZone shows this surface's indicator over the given area.
func (m *Manager) HighlightDropZone(area geom.Rect, margin int) {
	if m.Indicator != nil {
		m.Indicator.Highlight(area, margin)
	}
}

// OnItemDropped registers a callback fired whenever a drag gesture commits,
// detaches or discards an item on this surface.
func (m *Manager) OnItemDropped(fn func(*Item)) {
	m.itemDropped = append(m.itemDropped, fn)
}

// OnStateChanged registers a callback fired after any tree shape change.
func (m *Manager) OnStateChanged(fn func()) {
	m.stateChanged = append(m.stateChanged, fn)
}

// OnWindowOpened registers a callback fired when a detached surface owned
// by this manager opens.
func (m *Manager) OnWindowOpened(fn func(id string)) {
	m.windowOpened = append(m.windowOpened, fn)
}

// OnWindowClosed registers a callback fired when a detached surface owned
// by this manager closes.
func (m *Manager) OnWindowClosed(fn func(id string)) {
	m.windowClosed = append(m.windowClosed, fn)
}

func (m *Manager) emitItemDropped(it *Item) {
	for _, fn := range m.itemDropped {
		fn(it)
	}
}

func (m *Manager) emitStateChanged() {
	for _, fn := range m.stateChanged {
		fn()
	}
}

// EmitWindowOpened notifies listeners of a new detached surface. Called by
// the popout lifecycle.
func (m *Manager) EmitWindowOpened(id string) {
	for _, fn := range m.windowOpened {
		fn(id)
	}
}

// EmitWindowClosed notifies listeners that a detached surface went away.
func (m *Manager) EmitWindowClosed(id string) {
	for _, fn := range m.windowClosed {
		fn(id)
	}
}

// EmitItemDropped is the drag engine's hook for the itemDropped event.
func (m *Manager) EmitItemDropped(it *Item) {
	m.emitItemDropped(it)
}
