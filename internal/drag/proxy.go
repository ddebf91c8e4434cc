package drag

import (
	"github.com/dodorz/dockyard/internal/config"
	"github.com/dodorz/dockyard/internal/geom"
	"github.com/dodorz/dockyard/internal/layout"
)

// Proxy is the floating stand-in for the item being dragged. It owns the
// item for the gesture's duration: the item's parent relationship is
// severed on construction and re-established only by a successful drop.
// The proxy is destroyed unconditionally when the gesture resolves.
type Proxy struct {
	action *Action
	item   *layout.Item
	mgr    *layout.Manager

	pos    geom.Point
	width  int
	height int

	// origSize is the item's pre-drag footprint, kept so a popout created
	// from this gesture has sane dimensions.
	origSize geom.Rect
	// origParentID records where the item came from for restore and
	// pop-in resolution.
	origParentID string

	lastTarget *layout.Area
	destroyed  bool
}

// newProxy severs item from its tree and floats it at pos (local
// coordinates of the owning action's surface).
func newProxy(a *Action, item *layout.Item, pos geom.Point) *Proxy {
	p := &Proxy{
		action: a,
		item:   item,
		mgr:    a.mgr,
		pos:    pos,
		width:  a.env.ProxyWidth,
		height: a.env.ProxyHeight,
	}

	// Capture the pre-drag outer size before the tree changes under us.
	// A hidden item (an inactive tab) borrows its active sibling's size.
	rect, ok := p.mgr.ItemRect(item)
	if !ok || rect.Empty() || !item.Visible() {
		if parent := item.Parent(); parent != nil && parent.Type == layout.ItemStack {
			if sib := parent.ActiveChild(); sib != nil && sib != item {
				if sr, sok := p.mgr.ItemRect(sib); sok && !sr.Empty() {
					rect = sr
				}
			}
		}
	}
	p.origSize = rect

	if parent := item.Parent(); parent != nil {
		p.origParentID = parent.ID
		p.mgr.RemoveChild(item)
	}
	// Candidate areas must reflect the tree without the dragged item.
	p.mgr.CalculateItemAreas()
	return p
}

// Pos returns the proxy's top-left corner in local coordinates.
func (p *Proxy) Pos() geom.Point { return p.pos }

// Size returns the proxy's fixed footprint.
func (p *Proxy) Size() (w, h int) { return p.width, p.height }

// Item returns the content the proxy is carrying.
func (p *Proxy) Item() *layout.Item { return p.item }

// Drag repositions the proxy and reports the candidate target under the
// local point. When no area matches but the point is still inside the host
// surface's bounds, the previous valid result is retained so crossing a
// splitter gap does not flicker; only leaving the host entirely clears it.
func (p *Proxy) Drag(local geom.Point) *layout.Area {
	if p.destroyed {
		return nil
	}
	p.pos = local
	if area := p.mgr.GetArea(local); area != nil {
		p.lastTarget = area
		return area
	}
	if p.mgr.Bounds().Contains(local) {
		return p.lastTarget
	}
	p.lastTarget = nil
	return nil
}

// Drop resolves the gesture for this proxy: commit into the shared target
// when it belongs to this action, detach to a new surface when nothing
// matched anywhere and this is the primary, and otherwise discard the
// carried item. The proxy is destroyed in every case and itemDropped is
// raised on the owning layout manager.
func (p *Proxy) Drop() {
	if p.destroyed {
		return
	}
	p.destroyed = true
	defer func() { p.lastTarget = nil }()

	a := p.action
	target := a.CurrentTarget()
	switch {
	case target != nil && target.Manager == p.mgr:
		// OnDrop raises itemDropped after committing.
		p.mgr.OnDrop(p.item, target)
	case target == nil && !a.IsSecondary() && a.env.AllowDetach && a.env.Detach != nil:
		p.detachToNewSurface()
		p.mgr.EmitItemDropped(p.item)
	default:
		// The item landed elsewhere or detachment is off; this proxy's
		// copy and its descendants are discarded.
		p.mgr.EmitItemDropped(p.item)
	}
}

// detachToNewSurface spawns a popout at the proxy's final screen offset,
// sized to the captured pre-drag footprint. A refused detachment puts the
// item back exactly where it was.
func (p *Proxy) detachToNewSurface() {
	a := p.action
	w, h := p.origSize.Width, p.origSize.Height
	if w <= 0 || h <= 0 {
		w, h = config.DefaultPopoutWidth, config.DefaultPopoutHeight
	}
	screen := a.localToScreen(p.pos)
	placement := layout.Placement{Left: screen.X, Top: screen.Y, Width: w, Height: h}
	if err := a.env.Detach(layout.ItemToConfig(p.item), placement, p.origParentID); err != nil {
		p.restore()
	}
}

// restore reinserts the item at its recorded parent, falling back to the
// topmost container when that parent no longer resolves.
func (p *Proxy) restore() {
	parent := p.mgr.FindItem(p.origParentID)
	if parent == nil || !parent.IsContainer() {
		parent = p.mgr.TopmostContainer()
	}
	p.mgr.Insert(parent, p.item)
}

// destroyQuiet tears the proxy down without resolving a drop. Used when a
// secondary's surface stops being a viable participant mid-gesture; the
// carried clone never entered a tree, so there is nothing to notify.
func (p *Proxy) destroyQuiet() {
	p.destroyed = true
	p.lastTarget = nil
}
