package config

import "time"

// Overrides contains CLI flag values that can override user config.
// Zero values indicate the flag was not set and should use the user config
// default.
type Overrides struct {
	// DockbarPosition overrides the dockbar position
	DockbarPosition string

	// NoAnimations disables proxy glide animations
	NoAnimations bool

	// NoPopIn disables reattaching content when a popout closes
	NoPopIn bool

	// PopoutWholeStack detaches the enclosing stack instead of the item
	PopoutWholeStack bool

	// RaisePopoutErrors reports blocked surface creation as errors
	RaisePopoutErrors bool

	// ThemeName is the theme to load
	ThemeName string
}

// ApplyOverrides applies CLI flag overrides to the runtime settings,
// falling back to user config defaults. If userConfig is nil, only CLI
// flag values (when set) are applied.
func ApplyOverrides(overrides Overrides, userConfig *UserConfig) {
	if overrides.DockbarPosition != "" {
		DockbarPosition = overrides.DockbarPosition
	} else if userConfig != nil && userConfig.Appearance.DockbarPosition != "" {
		DockbarPosition = userConfig.Appearance.DockbarPosition
	}

	if overrides.NoAnimations {
		AnimationsEnabled = false
	} else if userConfig != nil && userConfig.Appearance.AnimationsEnabled != nil {
		AnimationsEnabled = *userConfig.Appearance.AnimationsEnabled
	}

	if overrides.NoPopIn {
		PopInOnClose = false
	} else if userConfig != nil && userConfig.Popout.PopInOnClose != nil {
		PopInOnClose = *userConfig.Popout.PopInOnClose
	}

	if userConfig != nil {
		PopoutWholeStack = overrides.PopoutWholeStack || userConfig.Popout.WholeStack
		RaisePopoutErrors = overrides.RaisePopoutErrors || userConfig.Popout.RaiseErrors
	} else {
		PopoutWholeStack = overrides.PopoutWholeStack
		RaisePopoutErrors = overrides.RaisePopoutErrors
	}

	if userConfig != nil {
		if userConfig.Drag.ThresholdCells > 0 {
			DragThresholdCells = userConfig.Drag.ThresholdCells
		}
		if userConfig.Drag.ActivationDelay > 0 {
			DragActivationDelay = time.Duration(userConfig.Drag.ActivationDelay) * time.Millisecond
		}
		if userConfig.Drag.ProxyWidth > 0 {
			ProxyWidth = userConfig.Drag.ProxyWidth
		}
		if userConfig.Drag.ProxyHeight > 0 {
			ProxyHeight = userConfig.Drag.ProxyHeight
		}
	}
}
