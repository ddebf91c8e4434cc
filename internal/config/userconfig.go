package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

// UserConfig represents the user's custom configuration
type UserConfig struct {
	Appearance AppearanceConfig `toml:"appearance"`
	Drag       DragConfig       `toml:"drag"`
	Popout     PopoutConfig     `toml:"popout"`
}

// AppearanceConfig holds appearance-related settings
type AppearanceConfig struct {
	Theme             string `toml:"theme"`              // Color theme name (e.g., dracula, nord)
	DockbarPosition   string `toml:"dockbar_position"`   // Dockbar position: bottom, top, hidden
	AnimationsEnabled *bool  `toml:"animations_enabled"` // Enable proxy glide animations (default: true)
}

// DragConfig holds drag gesture settings
type DragConfig struct {
	ThresholdCells  int `toml:"threshold_cells"`   // Pointer travel before a gesture activates by distance (default: 2)
	ActivationDelay int `toml:"activation_delay"`  // Long-press activation in milliseconds (default: 400)
	ProxyWidth      int `toml:"proxy_width"`       // Floating proxy footprint width in cells (default: 16)
	ProxyHeight     int `toml:"proxy_height"`      // Floating proxy footprint height in cells (default: 5)
}

// PopoutConfig holds detached-surface lifecycle settings
type PopoutConfig struct {
	PopInOnClose    *bool `toml:"pop_in_on_close"`   // Reattach content when a popout closes (default: true)
	WholeStack      bool  `toml:"whole_stack"`       // Detach the enclosing stack instead of the single item
	RaiseErrors     bool  `toml:"raise_errors"`      // Report blocked surface creation instead of silently cancelling
	PollIntervalMS  int   `toml:"poll_interval_ms"`  // Readiness handshake poll interval in milliseconds (default: 50)
	PollBudget      int   `toml:"poll_budget"`       // Maximum readiness checks before giving up (default: 100)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *UserConfig {
	enabled := true
	popIn := true
	return &UserConfig{
		Appearance: AppearanceConfig{
			Theme:             "dracula",
			DockbarPosition:   "bottom",
			AnimationsEnabled: &enabled,
		},
		Drag: DragConfig{
			ThresholdCells:  DragThresholdCells,
			ActivationDelay: int(DragActivationDelay / time.Millisecond),
			ProxyWidth:      ProxyWidth,
			ProxyHeight:     ProxyHeight,
		},
		Popout: PopoutConfig{
			PopInOnClose:   &popIn,
			PollIntervalMS: int(PopoutPollInterval / time.Millisecond),
			PollBudget:     PopoutPollBudget,
		},
	}
}

// ConfigFilePath returns the path the user config is read from, whether or
// not it exists yet.
func ConfigFilePath() (string, error) {
	if path, err := xdg.SearchConfigFile("dockyard/config.toml"); err == nil {
		return path, nil
	}
	return xdg.ConfigFile("dockyard/config.toml")
}

// LoadUserConfig loads the user configuration from the XDG config
// directory, creating a default file on first run.
func LoadUserConfig() (*UserConfig, error) {
	configPath, err := xdg.SearchConfigFile("dockyard/config.toml")
	if err != nil {
		return createDefaultConfig()
	}

	// #nosec G304 - configPath is from XDG search, reading user config is intentional
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg UserConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	fillMissing(&cfg, DefaultConfig())
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func fillMissing(cfg, def *UserConfig) {
	if cfg.Appearance.Theme == "" {
		cfg.Appearance.Theme = def.Appearance.Theme
	}
	if cfg.Appearance.DockbarPosition == "" {
		cfg.Appearance.DockbarPosition = def.Appearance.DockbarPosition
	}
	if cfg.Appearance.AnimationsEnabled == nil {
		cfg.Appearance.AnimationsEnabled = def.Appearance.AnimationsEnabled
	}
	if cfg.Drag.ThresholdCells <= 0 {
		cfg.Drag.ThresholdCells = def.Drag.ThresholdCells
	}
	if cfg.Drag.ActivationDelay <= 0 {
		cfg.Drag.ActivationDelay = def.Drag.ActivationDelay
	}
	if cfg.Drag.ProxyWidth <= 0 {
		cfg.Drag.ProxyWidth = def.Drag.ProxyWidth
	}
	if cfg.Drag.ProxyHeight <= 0 {
		cfg.Drag.ProxyHeight = def.Drag.ProxyHeight
	}
	if cfg.Popout.PopInOnClose == nil {
		cfg.Popout.PopInOnClose = def.Popout.PopInOnClose
	}
	if cfg.Popout.PollIntervalMS <= 0 {
		cfg.Popout.PollIntervalMS = def.Popout.PollIntervalMS
	}
	if cfg.Popout.PollBudget <= 0 {
		cfg.Popout.PollBudget = def.Popout.PollBudget
	}
}

func validate(cfg *UserConfig) error {
	switch cfg.Appearance.DockbarPosition {
	case "bottom", "top", "hidden":
	default:
		return fmt.Errorf("config: dockbar_position %q is not one of bottom, top, hidden", cfg.Appearance.DockbarPosition)
	}
	return nil
}

// createDefaultConfig creates a default config file in the user's config
// directory
func createDefaultConfig() (*UserConfig, error) {
	cfg := DefaultConfig()

	configPath, err := xdg.ConfigFile("dockyard/config.toml")
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# Dockyard Configuration File\n")
	sb.WriteString("# Customize appearance, drag gestures, and popout behavior.\n")
	sb.WriteString("#\n")
	sb.WriteString("# Configuration location: " + configPath + "\n\n")
	sb.Write(data)

	if err := os.WriteFile(configPath, []byte(sb.String()), 0600); err != nil {
		return nil, fmt.Errorf("failed to write config file: %w", err)
	}
	return cfg, nil
}

// ResetUserConfig overwrites the config file with defaults.
func ResetUserConfig() (string, error) {
	configPath, err := xdg.ConfigFile("dockyard/config.toml")
	if err != nil {
		return "", fmt.Errorf("failed to get config path: %w", err)
	}
	if err := os.Remove(configPath); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to remove config file: %w", err)
	}
	if _, err := createDefaultConfig(); err != nil {
		return "", err
	}
	return configPath, nil
}
