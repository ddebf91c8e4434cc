package drag

import (
	"time"

	"github.com/dodorz/dockyard/internal/config"
	"github.com/dodorz/dockyard/internal/geom"
	"github.com/dodorz/dockyard/internal/layout"
	"github.com/dodorz/dockyard/internal/surface"
)

// State is a drag action's lifecycle phase.
type State int

const (
	// StateSpawned is a secondary that has not materialized a proxy yet.
	StateSpawned State = iota
	// StateProxyActive means the action owns a live proxy.
	StateProxyActive
	// StateResolved is terminal; the instance is discarded.
	StateResolved
)

// Env carries the capabilities and knobs one gesture negotiates with. One
// Env is shared by the whole action family.
type Env struct {
	System surface.WindowSystem
	Clock  surface.Clock

	ThresholdCells  int
	ActivationDelay time.Duration
	ProxyWidth      int
	ProxyHeight     int
	IndicatorMargin int

	// AllowDetach permits ending a gesture by creating a new surface.
	AllowDetach bool
	// AllowCrossSurface permits moving items between live surfaces.
	AllowCrossSurface bool

	// Surfaces enumerates every live surface, primary included. Used to
	// spawn one secondary action per additional surface.
	Surfaces func() []surface.Surface
	// Detach opens a new detached surface for the given subtree. Wired to
	// the popout lifecycle by the embedding host.
	Detach func(cfg layout.Config, placement layout.Placement, parentID string) error
}

// NewEnv returns an Env with the compiled-in defaults.
func NewEnv(sys surface.WindowSystem, clock surface.Clock) *Env {
	return &Env{
		System:            sys,
		Clock:             clock,
		ThresholdCells:    config.DragThresholdCells,
		ActivationDelay:   config.DragActivationDelay,
		ProxyWidth:        config.ProxyWidth,
		ProxyHeight:       config.ProxyHeight,
		IndicatorMargin:   config.IndicatorMargin,
		AllowDetach:       true,
		AllowCrossSurface: true,
	}
}

// Action is the negotiation state machine for one surface's share of a
// gesture. The primary action owns the gesture: the priority-ordered
// family list and the shared current target live on it, and secondaries
// only ever read them through the primary.
type Action struct {
	env  *Env
	surf surface.Surface
	mgr  *layout.Manager

	parent  *Action
	family  []*Action
	itemCfg layout.Config

	proxy *Proxy
	state State

	current      *layout.Area
	currentOwner *Action
	stopped      bool
}

// Start begins a gesture for item on its home surface, with the pointer at
// startLocal in that surface's coordinates. It returns false without
// creating any proxy when the gesture could only ever land back where it
// started: the item is not reorderable, or it is the only content in its
// tree and neither detaching nor moving across surfaces is permitted.
func Start(env *Env, surf surface.Surface, item *layout.Item, startLocal geom.Point) (*Action, bool) {
	mgr := surf.Layout()
	if mgr == nil {
		return nil, false
	}
	if !item.ReorderEnabled {
		return nil, false
	}
	soleItem := mgr.Ground().ComponentCount() == item.ComponentCount()
	if soleItem && !env.AllowDetach && !env.AllowCrossSurface {
		return nil, false
	}

	a := &Action{
		env:     env,
		surf:    surf,
		mgr:     mgr,
		itemCfg: layout.ItemToConfig(item),
		state:   StateProxyActive,
	}
	a.family = []*Action{a}
	a.proxy = newProxy(a, item, startLocal)

	if env.AllowCrossSurface && env.Surfaces != nil {
		for _, other := range env.Surfaces() {
			if other == nil || other.ID() == surf.ID() || other.IsClosed() {
				continue
			}
			a.Spawn(other)
		}
	}
	return a, true
}

// Spawn creates a secondary action bound to an additional live surface.
// Only the primary may spawn; the hierarchy is flat by construction.
func (a *Action) Spawn(surf surface.Surface) *Action {
	if a.parent != nil {
		panic("drag: spawn from a secondary action")
	}
	sec := &Action{
		env:    a.env,
		surf:   surf,
		mgr:    surf.Layout(),
		parent: a,
		state:  StateSpawned,
	}
	a.family = append(a.family, sec)
	return sec
}

// IsSecondary reports whether the action was spawned by another.
func (a *Action) IsSecondary() bool { return a.parent != nil }

// State returns the action's lifecycle phase.
func (a *Action) State() State { return a.state }

// Proxy returns the action's live proxy, nil when none.
func (a *Action) Proxy() *Proxy { return a.proxy }

// Family returns the priority-ordered action list, primary's copy. Nil for
// secondaries.
func (a *Action) Family() []*Action { return a.family }

// Surface returns the surface this action negotiates for.
func (a *Action) Surface() surface.Surface { return a.surf }

func (a *Action) root() *Action {
	if a.parent != nil {
		return a.parent
	}
	return a
}

// CurrentTarget returns the gesture's shared target. Stored on the
// primary; secondaries read through it.
func (a *Action) CurrentTarget() *layout.Area { return a.root().current }

// HandleDrag runs one negotiation tick with the pointer at an absolute
// screen position. Every family member is evaluated even after a winner is
// found, because the visibility cull must run for losing secondaries too;
// the winning highlight is applied only after the full pass.
func (a *Action) HandleDrag(screen geom.Point) {
	if a.parent != nil {
		panic("drag: tick delivered to a secondary action")
	}
	if a.stopped {
		return
	}

	order := append([]*Action(nil), a.family...)
	results := make([]*layout.Area, len(order))
	for i, member := range order {
		results[i] = member.evaluate(screen)
	}

	var winner *Action
	var winArea *layout.Area
	for i, r := range results {
		if r != nil {
			winner = order[i]
			winArea = r
			break
		}
	}

	prevOwner := a.currentOwner
	if winner != nil {
		a.moveToFront(winner)
		if prevOwner != nil && prevOwner != winner {
			prevOwner.mgr.HideDropTargetIndicator()
		}
		winner.mgr.HighlightDropZone(winArea.Rect, a.env.IndicatorMargin)
		winner.surf.MoveToFront()
	} else if prevOwner != nil {
		prevOwner.mgr.HideDropTargetIndicator()
	}
	a.current = winArea
	a.currentOwner = winner
}

// evaluate is one member's share of a tick: translate the screen point
// into local space, keep the proxy lifecycle in step with visibility, and
// yield a candidate target or nil.
func (a *Action) evaluate(screen geom.Point) *layout.Area {
	if a.state == StateResolved {
		return nil
	}
	// A surface closed mid-tick reads as not visible, never as an error.
	content, ok := a.surf.ContentBounds()
	if a.parent == nil {
		if !ok || a.proxy == nil {
			return nil
		}
		// The proxy follows the pointer regardless, but the home surface
		// only claims the target while it is the one the user sees there.
		target := a.proxy.Drag(screen.Sub(geom.Point{X: content.X, Y: content.Y}))
		if target != nil && a.occluded(screen) {
			return nil
		}
		return target
	}

	if a.mgr == nil {
		// The surface may have finished bootstrapping since spawn.
		a.mgr = a.surf.Layout()
	}
	visible := ok && a.mgr != nil
	if visible {
		// The pointer counts as over this surface within an outward
		// margin of one proxy footprint, so the proxy stays representable
		// while approaching an edge.
		reach := content.Expand(a.env.ProxyWidth, a.env.ProxyHeight, a.env.ProxyWidth, a.env.ProxyHeight)
		visible = reach.Contains(screen)
	}
	if visible && a.occluded(screen) {
		visible = false
	}
	if !visible {
		if a.proxy != nil && a.root().currentOwner != a {
			a.proxy.destroyQuiet()
			a.proxy = nil
			a.state = StateSpawned
		}
		return nil
	}

	local := screen.Sub(geom.Point{X: content.X, Y: content.Y})
	if a.proxy == nil {
		item := layout.BuildItem(a.root().itemCfg.Clone())
		a.proxy = newProxy(a, item, local)
		a.state = StateProxyActive
	}
	return a.proxy.Drag(local)
}

// occluded reports whether a different surface is stacked over this one at
// the screen point. Only the frontmost surface under the pointer may
// participate; a point over the desktop occludes nothing.
func (a *Action) occluded(screen geom.Point) bool {
	if a.env.System == nil {
		return false
	}
	front := a.env.System.SurfaceAt(screen)
	return front != nil && front.ID() != a.surf.ID()
}

// moveToFront applies the recency-biased tie-break: the member that held a
// valid target most recently is evaluated first on the next tick.
func (a *Action) moveToFront(member *Action) {
	for i, cand := range a.family {
		if cand == member {
			copy(a.family[1:i+1], a.family[:i])
			a.family[0] = member
			return
		}
	}
}

// DragStop resolves the gesture: every participant's proxy drops and is
// discarded, indicators hide, and the shared target clears. Runs exactly
// once no matter how many pointer-up paths race to call it.
func (a *Action) DragStop() {
	root := a.root()
	if root.stopped {
		return
	}
	root.stopped = true
	for _, member := range root.family {
		if member.proxy != nil {
			member.proxy.Drop()
			member.proxy = nil
		}
		if member.mgr != nil {
			member.mgr.HideDropTargetIndicator()
		}
		member.state = StateResolved
	}
	root.current = nil
	root.currentOwner = nil
}

// localToScreen converts a point in this action's surface coordinates to
// screen space. A closed surface leaves the point as is.
func (a *Action) localToScreen(p geom.Point) geom.Point {
	content, ok := a.surf.ContentBounds()
	if !ok {
		return p
	}
	return p.Add(geom.Point{X: content.X, Y: content.Y})
}
