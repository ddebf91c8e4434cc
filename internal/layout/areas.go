package layout

import "github.com/dodorz/dockyard/internal/geom"

// Area is a (container, rectangle) pair describing where a dragged item
// could be inserted. Areas are snapshots: a tree mutation or resize
// replaces the manager's set, and a previously returned area keeps its
// old values rather than tracking the change.
type Area struct {
	// Manager is the layout instance that produced the area. Drops check
	// it so an area from one surface is never committed through another.
	Manager *Manager
	// Item is the container that will receive the drop.
	Item *Item
	// Rect is the container's extent in the surface's local coordinates.
	Rect geom.Rect
}

// stackHeaderHeight is the tab header row of a stack, in cells.
const stackHeaderHeight = 1

// splitterSize is the gutter between row and column children, in cells.
// Gutter cells belong to no candidate area.
const splitterSize = 1

// CalculateItemAreas recomputes the rectangle of every item and the set of
// candidate drop areas. Must be called after any change to the tree shape
// or the surface size. The area slice is replaced, never reused: a drop
// commit recomputes areas while other gesture participants still hold
// pointers from the previous pass, and those must keep reading the values
// they were handed.
func (m *Manager) CalculateItemAreas() {
	m.rects = make(map[*Item]geom.Rect)
	m.areas = nil

	m.rects[m.ground] = m.bounds
	root := m.Root()
	if root == nil {
		// An empty surface accepts drops anywhere.
		m.areas = append(m.areas, Area{Manager: m, Item: m.ground, Rect: m.bounds})
		return
	}
	m.layoutItem(root, m.bounds)
}

func (m *Manager) layoutItem(it *Item, r geom.Rect) {
	m.rects[it] = r

	switch it.Type {
	case ItemRow:
		m.splitAxis(it, r, true)
	case ItemColumn:
		m.splitAxis(it, r, false)
	case ItemStack:
		m.areas = append(m.areas, Area{Manager: m, Item: it, Rect: r})
		body := geom.Rect{X: r.X, Y: r.Y + stackHeaderHeight, Width: r.Width, Height: r.Height - stackHeaderHeight}
		if body.Height < 0 {
			body.Height = 0
		}
		// Every tab shares the body rect, so a hidden sibling still has
		// usable metrics.
		for _, child := range it.children {
			m.layoutItem(child, body)
		}
	case ItemComponent:
		// Leaf. No candidate area of its own; drops land on its stack.
	case ItemGround:
		panic("layout: ground item nested inside the tree")
	}
}

// splitAxis distributes r among it's children proportionally to their size
// hints, leaving a one-cell splitter gutter between neighbors. The last
// child absorbs rounding remainder.
func (m *Manager) splitAxis(it *Item, r geom.Rect, horizontal bool) {
	n := len(it.children)
	if n == 0 {
		return
	}
	total := 0.0
	for _, child := range it.children {
		total += child.shareHint()
	}
	span := r.Width
	if !horizontal {
		span = r.Height
	}
	usable := span - splitterSize*(n-1)
	if usable < 0 {
		usable = 0
	}
	offset := 0
	for i, child := range it.children {
		size := int(float64(usable) * child.shareHint() / total)
		if i == n-1 {
			size = span - offset
		}
		var cr geom.Rect
		if horizontal {
			cr = geom.Rect{X: r.X + offset, Y: r.Y, Width: size, Height: r.Height}
		} else {
			cr = geom.Rect{X: r.X, Y: r.Y + offset, Width: r.Width, Height: size}
		}
		m.layoutItem(child, cr)
		offset += size + splitterSize
	}
}

func (it *Item) shareHint() float64 {
	if it.SizeHint > 0 {
		return it.SizeHint
	}
	return 1
}

// GetArea returns the smallest candidate area containing p, or nil. When
// areas overlap, the smaller one wins so the most specific container is
// preferred over anything enclosing it.
func (m *Manager) GetArea(p geom.Point) *Area {
	var best *Area
	for i := range m.areas {
		a := &m.areas[i]
		if !a.Rect.Contains(p) {
			continue
		}
		if best == nil || a.Rect.Area() < best.Rect.Area() {
			best = a
		}
	}
	return best
}

// ItemRect returns the rectangle computed for it by the last
// CalculateItemAreas call.
func (m *Manager) ItemRect(it *Item) (geom.Rect, bool) {
	r, ok := m.rects[it]
	return r, ok
}
