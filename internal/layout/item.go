// Package layout implements the content-item tree the drag engine
// negotiates over: rows, columns, tabbed stacks and component leaves under
// an always-present ground item, plus the serializable wire form used to
// hand subtrees between surfaces.
package layout

import (
	"fmt"

	"github.com/google/uuid"
)

// ItemType tags a node in the content tree.
type ItemType string

const (
	// ItemGround is the root placeholder. Exactly one exists per surface
	// and it holds at most one child.
	ItemGround ItemType = "ground"
	// ItemRow lays its children out left to right.
	ItemRow ItemType = "row"
	// ItemColumn lays its children out top to bottom.
	ItemColumn ItemType = "column"
	// ItemStack shows one child at a time behind a tab header. Stacks may
	// only contain component leaves.
	ItemStack ItemType = "stack"
	// ItemComponent is a leaf hosting user content.
	ItemComponent ItemType = "component"
)

// Item is one node of a surface's content tree. Items are owned by exactly
// one Manager at a time; a detached item (severed for a drag or a popout)
// has a nil parent until it is committed somewhere.
type Item struct {
	// ID uniquely identifies the item across serialization round trips.
	ID string
	// Type decides layout behavior and which children are legal.
	Type ItemType
	// Title is shown in stack tab headers.
	Title string
	// Component names the hosted content for leaves.
	Component string
	// SizeHint is this item's fractional share of its parent's axis.
	// Zero means an equal share.
	SizeHint float64
	// ReorderEnabled gates drag gestures on this item.
	ReorderEnabled bool
	// ActiveIndex selects the visible child of a stack.
	ActiveIndex int

	parent   *Item
	children []*Item
}

// NewItem creates an item of the given type with a fresh identity.
func NewItem(t ItemType, title, component string) *Item {
	return &Item{
		ID:             uuid.NewString(),
		Type:           t,
		Title:          title,
		Component:      component,
		ReorderEnabled: true,
	}
}

// Parent returns the item's current parent, nil while detached.
func (it *Item) Parent() *Item { return it.parent }

// Children returns the item's child slice. Callers must not mutate it
// directly; tree shape changes go through the Manager.
func (it *Item) Children() []*Item { return it.children }

// IsLeaf reports whether the item is a component leaf.
func (it *Item) IsLeaf() bool { return it.Type == ItemComponent }

// IsContainer reports whether the item may hold children.
func (it *Item) IsContainer() bool { return it.Type != ItemComponent }

// ActiveChild returns the visible child of a stack, or nil for an empty
// container.
func (it *Item) ActiveChild() *Item {
	if len(it.children) == 0 {
		return nil
	}
	idx := it.ActiveIndex
	if idx < 0 || idx >= len(it.children) {
		idx = 0
	}
	return it.children[idx]
}

// Visible reports whether the item is currently shown, i.e. it is not an
// inactive tab of any stack on its ancestor path.
func (it *Item) Visible() bool {
	for node := it; node.parent != nil; node = node.parent {
		if node.parent.Type == ItemStack && node.parent.ActiveChild() != node {
			return false
		}
	}
	return true
}

// Descendants appends every item below it (depth first) to dst and returns
// the result.
func (it *Item) Descendants(dst []*Item) []*Item {
	for _, c := range it.children {
		dst = append(dst, c)
		dst = c.Descendants(dst)
	}
	return dst
}

// ComponentCount returns the number of component leaves at or below it.
func (it *Item) ComponentCount() int {
	if it.IsLeaf() {
		return 1
	}
	n := 0
	for _, c := range it.children {
		n += c.ComponentCount()
	}
	return n
}

// attach inserts child at idx, clamping idx into range. It is the only
// place the parent pointer is set.
func (it *Item) attach(child *Item, idx int) {
	if child.parent != nil {
		panic(fmt.Sprintf("layout: item %s attached while still parented to %s", child.ID, child.parent.ID))
	}
	if idx < 0 || idx > len(it.children) {
		idx = len(it.children)
	}
	it.children = append(it.children, nil)
	copy(it.children[idx+1:], it.children[idx:])
	it.children[idx] = child
	child.parent = it
}

// detach removes child from it and clears its parent pointer. Reports
// whether child was actually present.
func (it *Item) detach(child *Item) bool {
	for i, c := range it.children {
		if c != child {
			continue
		}
		it.children = append(it.children[:i], it.children[i+1:]...)
		child.parent = nil
		if it.Type == ItemStack {
			if it.ActiveIndex > i || it.ActiveIndex >= len(it.children) {
				it.ActiveIndex--
			}
			if it.ActiveIndex < 0 {
				it.ActiveIndex = 0
			}
		}
		return true
	}
	return false
}

// indexOf returns child's position under it, or -1.
func (it *Item) indexOf(child *Item) int {
	for i, c := range it.children {
		if c == child {
			return i
		}
	}
	return -1
}
