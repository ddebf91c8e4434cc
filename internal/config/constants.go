// Package config provides configuration constants, user settings, and CLI
// flag overrides for the docking engine and the demo desk.
package config

import "time"

// =============================================================================
// Drag Gesture
// =============================================================================

// DragThresholdCells is how far the pointer must travel from its origin
// before a gesture activates by distance
var DragThresholdCells = 2

// DragActivationDelay activates a gesture by long-press when the pointer
// stays down without crossing the distance threshold
var DragActivationDelay = 400 * time.Millisecond

// ProxyWidth is the floating drag proxy's footprint width in cells
var ProxyWidth = 16

// ProxyHeight is the floating drag proxy's footprint height in cells
var ProxyHeight = 5

// IndicatorMargin is drawn around a highlighted drop area
const IndicatorMargin = 0

// =============================================================================
// Popout Lifecycle
// =============================================================================

const (
	// PopoutPollInterval is how often the opener checks whether a new
	// detached surface's layout instance has bootstrapped
	PopoutPollInterval = 50 * time.Millisecond

	// PopoutPollBudget is the maximum number of readiness checks before
	// the handshake is abandoned
	PopoutPollBudget = 100

	// ClosedEventDelay separates detecting a surface close from emitting
	// the closed event, so listeners registered synchronously after the
	// close still observe it
	ClosedEventDelay = 50 * time.Millisecond

	// DefaultPopoutWidth is used when a detached item has no usable
	// pre-drag footprint
	DefaultPopoutWidth = 40

	// DefaultPopoutHeight is used when a detached item has no usable
	// pre-drag footprint
	DefaultPopoutHeight = 12
)

// =============================================================================
// Demo Desk
// =============================================================================

const (
	// MaxLogMessages is the size of the in-memory log ring buffer
	MaxLogMessages = 100

	// NotificationDuration is how long notifications remain visible
	NotificationDuration = 1500 * time.Millisecond

	// DefaultAnimationDuration is the proxy glide and snap-back duration
	DefaultAnimationDuration = 200 * time.Millisecond

	// MinSurfaceWidth is the smallest content box a detached surface may
	// be created with
	MinSurfaceWidth = 10

	// MinSurfaceHeight is the smallest content box a detached surface may
	// be created with
	MinSurfaceHeight = 4

	// DockHeight is the number of rows reserved for the dockbar
	DockHeight = 1
)

// =============================================================================
// Runtime Settings (set from user config and CLI flags at startup)
// =============================================================================

// PopInOnClose reattaches a closing popout's content into the primary tree
// instead of discarding it
var PopInOnClose = true

// RaisePopoutErrors reports blocked surface creation as an error instead of
// silently cancelling the detachment
var RaisePopoutErrors = false

// PopoutWholeStack detaches a component's enclosing stack rather than the
// single component
var PopoutWholeStack = false

// AnimationsEnabled toggles proxy glide and snap-back animations
var AnimationsEnabled = true

// DockbarPosition is where the demo desk draws its surface list: bottom,
// top, hidden
var DockbarPosition = "bottom"

// GetAnimationDuration returns the animation duration, zero when
// animations are disabled
func GetAnimationDuration() time.Duration {
	if !AnimationsEnabled {
		return 0
	}
	return DefaultAnimationDuration
}
