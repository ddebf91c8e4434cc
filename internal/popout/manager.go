package popout

import (
	"errors"
	"fmt"
	"time"

	"github.com/dodorz/dockyard/internal/config"
	"github.com/dodorz/dockyard/internal/geom"
	"github.com/dodorz/dockyard/internal/layout"
	"github.com/dodorz/dockyard/internal/surface"
	"github.com/google/uuid"
)

// ErrBlocked reports that the window system refused to create a detached
// surface. Whether it reaches the user is configurable; the detached item
// is restored either way.
var ErrBlocked = errors.New("popout: surface creation blocked")

// Manager owns every detached surface spawned from one primary layout.
type Manager struct {
	sys   surface.WindowSystem
	clock surface.Clock
	owner *layout.Manager
	store *Store

	pollInterval time.Duration
	pollBudget   int
	closedDelay  time.Duration
	popInOnClose bool

	popouts []*Popout
}

// NewManager wires a popout lifecycle to the primary layout it detaches
// from, with the compiled-in defaults.
func NewManager(sys surface.WindowSystem, clock surface.Clock, owner *layout.Manager) *Manager {
	return &Manager{
		sys:          sys,
		clock:        clock,
		owner:        owner,
		store:        NewStore(),
		pollInterval: config.PopoutPollInterval,
		pollBudget:   config.PopoutPollBudget,
		closedDelay:  config.ClosedEventDelay,
		popInOnClose: config.PopInOnClose,
	}
}

// SetPollPolicy overrides the readiness handshake cadence.
func (m *Manager) SetPollPolicy(interval time.Duration, budget int) {
	m.pollInterval = interval
	m.pollBudget = budget
}

// SetClosedDelay overrides the delay before closed events fire.
func (m *Manager) SetClosedDelay(d time.Duration) { m.closedDelay = d }

// SetPopInOnClose toggles reattaching content when a surface closes.
func (m *Manager) SetPopInOnClose(v bool) { m.popInOnClose = v }

// Store returns the configuration handoff store. The child context reads
// its staged subtree from it while bootstrapping.
func (m *Manager) Store() *Store { return m.store }

// Popouts returns the live popout records.
func (m *Manager) Popouts() []*Popout {
	out := make([]*Popout, 0, len(m.popouts))
	for _, p := range m.popouts {
		if !p.closing {
			out = append(out, p)
		}
	}
	return out
}

// Create opens a detached surface for the given subtree. The surface is
// created under a decoy name unique to this call, the subtree is staged in
// the handoff store under that name, and the readiness handshake starts.
// The placement describes the desired content box; the outer frame is
// corrected once the surface reports plausible border metrics.
func (m *Manager) Create(cfg layout.Config, placement layout.Placement, parentID string) (*Popout, error) {
	if placement.Width < config.MinSurfaceWidth {
		placement.Width = config.MinSurfaceWidth
	}
	if placement.Height < config.MinSurfaceHeight {
		placement.Height = config.MinSurfaceHeight
	}

	key := "dockyard-popout-" + uuid.NewString()
	staged := layout.PopoutConfig{Root: cfg.Clone(), Placement: placement, ParentID: parentID}
	m.store.Put(key, staged)

	content := geom.Rect{X: placement.Left, Y: placement.Top, Width: placement.Width, Height: placement.Height}
	surf, err := m.sys.CreateSurface(key, content)
	if err != nil {
		m.store.Discard(key)
		if errors.Is(err, surface.ErrBlocked) {
			return nil, fmt.Errorf("%w: %w", ErrBlocked, err)
		}
		return nil, fmt.Errorf("popout: create surface: %w", err)
	}

	p := &Popout{mgr: m, key: key, cfg: staged, surf: surf}
	m.popouts = append(m.popouts, p)
	surf.OnClose(p.handleClose)
	p.beginPoll()
	m.owner.EmitWindowOpened(surf.ID())
	return p, nil
}

// Bootstrap runs the child context's half of the handoff: it takes the
// staged subtree keyed by the surface's decoy name, builds the layout
// instance, and installs it as the surface's readiness marker. A lone
// component is wrapped in a stack so the new surface can receive drops.
func (m *Manager) Bootstrap(s surface.Surface) (*layout.Manager, bool) {
	cfg, ok := m.store.Take(s.Name())
	if !ok {
		return nil, false
	}
	content, ok := s.ContentBounds()
	if !ok {
		return nil, false
	}
	root := cfg.Root
	if root.Type == layout.ItemComponent {
		root = layout.Config{Type: layout.ItemStack, Children: []layout.Config{root}}
	}
	child := layout.New(content.Width, content.Height)
	if err := child.Load(root); err != nil {
		return nil, false
	}
	s.AttachLayout(child)
	return child, true
}

// Find returns the popout owning the given surface ID, nil when unknown.
func (m *Manager) Find(surfaceID string) *Popout {
	for _, p := range m.popouts {
		if p.surf.ID() == surfaceID {
			return p
		}
	}
	return nil
}

func (m *Manager) remove(p *Popout) {
	for i, cand := range m.popouts {
		if cand == p {
			m.popouts = append(m.popouts[:i], m.popouts[i+1:]...)
			return
		}
	}
}

// ToConfigs serializes every live popout for a desk save: the child's
// current tree when linked, the staged subtree otherwise, plus the current
// content placement.
func (m *Manager) ToConfigs() []layout.PopoutConfig {
	var out []layout.PopoutConfig
	for _, p := range m.popouts {
		if p.closing {
			continue
		}
		cfg := p.cfg
		if p.child != nil {
			cfg.Root = p.child.ToConfig()
		}
		if content, ok := p.surf.ContentBounds(); ok {
			cfg.Placement = layout.Placement{Left: content.X, Top: content.Y, Width: content.Width, Height: content.Height}
		}
		out = append(out, cfg)
	}
	return out
}

// Restore recreates popouts from a saved desk. Creation failures skip the
// record rather than aborting the whole restore.
func (m *Manager) Restore(cfgs []layout.PopoutConfig) {
	for _, cfg := range cfgs {
		_, _ = m.Create(cfg.Root, cfg.Placement, cfg.ParentID)
	}
}

// CloseAll tears down every detached surface. A surface that is already
// gone, or a close that fails under it, is swallowed: teardown must always
// finish.
func (m *Manager) CloseAll() {
	snapshot := append([]*Popout(nil), m.popouts...)
	for _, p := range snapshot {
		func() {
			defer func() { _ = recover() }()
			_ = p.surf.Close()
		}()
	}
}
