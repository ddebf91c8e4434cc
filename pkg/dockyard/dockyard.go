// Package dockyard provides a reusable terminal docking desk that can be
// embedded in other Bubble Tea applications or used as a standalone TUI.
//
// Components live in a draggable tab-and-split layout, can be torn off into
// floating popout surfaces, and pop back in when those surfaces close.
//
// # Basic Usage
//
// Create a new desk with default options:
//
//	model, err := dockyard.New()
//	if err != nil {
//		log.Fatal(err)
//	}
//	p := tea.NewProgram(model, tea.WithFilter(dockyard.FilterMouseMotion))
//	if _, err := p.Run(); err != nil {
//		log.Fatal(err)
//	}
//
// # Custom Configuration
//
// Use options to customize behavior:
//
//	model, err := dockyard.New(
//		dockyard.WithTheme("dracula"),
//		dockyard.WithLayout(myLayout),
//		dockyard.WithPopInOnClose(false),
//	)
package dockyard

import (
	tea "charm.land/bubbletea/v2"

	"github.com/dodorz/dockyard/internal/app"
	"github.com/dodorz/dockyard/internal/config"
	"github.com/dodorz/dockyard/internal/drag"
	"github.com/dodorz/dockyard/internal/input"
	"github.com/dodorz/dockyard/internal/layout"
	"github.com/dodorz/dockyard/internal/theme"
)

// Model is the desk model that implements tea.Model. It wraps the internal
// Desk struct and provides a clean public API.
type Model = app.Desk

// Layout is a serializable layout tree. Use it with WithLayout to start the
// desk from a custom arrangement instead of the default one.
type Layout = layout.Config

// Item type constants for building Layout trees.
const (
	// Row splits its children horizontally.
	Row = layout.ItemRow
	// Column splits its children vertically.
	Column = layout.ItemColumn
	// Stack holds components behind a shared tab header.
	Stack = layout.ItemStack
	// Component is a leaf hosting one piece of content.
	Component = layout.ItemComponent
)

// Options configures a desk instance.
type Options struct {
	// Theme is the color theme name (e.g., "dracula", "nord").
	// Leave empty to use standard terminal colors.
	Theme string

	// Layout is the initial layout tree. Nil uses the default desk.
	Layout *Layout

	// Animations enables/disables proxy glide animations.
	Animations bool

	// DockbarPosition sets where the dockbar appears.
	// Valid values: "bottom", "top", "hidden"
	DockbarPosition string

	// PopInOnClose reattaches a popout's content into the desk when its
	// surface closes. When false the content is discarded.
	PopInOnClose bool

	// WholeStack tears off a component's enclosing stack instead of the
	// single component.
	WholeStack bool

	// Width is the initial width (resized by the first WindowSizeMsg if 0).
	Width int

	// Height is the initial height (resized by the first WindowSizeMsg if 0).
	Height int

	// UserConfig is a custom user configuration. If nil, the XDG config
	// file is loaded, falling back to defaults.
	UserConfig *config.UserConfig
}

// Option is a functional option for configuring the desk.
type Option func(*Options)

// WithTheme sets the color theme.
func WithTheme(name string) Option {
	return func(o *Options) {
		o.Theme = name
	}
}

// WithLayout sets the initial layout tree.
func WithLayout(l Layout) Option {
	return func(o *Options) {
		o.Layout = &l
	}
}

// WithAnimations enables or disables proxy animations.
func WithAnimations(enabled bool) Option {
	return func(o *Options) {
		o.Animations = enabled
	}
}

// WithDockbarPosition sets the dockbar position.
func WithDockbarPosition(position string) Option {
	return func(o *Options) {
		o.DockbarPosition = position
	}
}

// WithPopInOnClose controls whether closing a popout docks its content back
// into the desk.
func WithPopInOnClose(enabled bool) Option {
	return func(o *Options) {
		o.PopInOnClose = enabled
	}
}

// WithWholeStack tears off whole stacks instead of single components.
func WithWholeStack(enabled bool) Option {
	return func(o *Options) {
		o.WholeStack = enabled
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(o *Options) {
		o.Width = width
		o.Height = height
	}
}

// WithUserConfig sets a custom user configuration.
func WithUserConfig(cfg *config.UserConfig) Option {
	return func(o *Options) {
		o.UserConfig = cfg
	}
}

// DefaultOptions returns the default options.
func DefaultOptions() Options {
	return Options{
		Animations:   true,
		PopInOnClose: true,
		Width:        80,
		Height:       24,
	}
}

// New creates a new desk model with the given options. This is the main
// entry point for using dockyard as a library.
func New(opts ...Option) (*Model, error) {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return newModel(options)
}

// newModel creates the internal model with applied options.
func newModel(options Options) (*Model, error) {
	var userConfig *config.UserConfig
	if options.UserConfig != nil {
		userConfig = options.UserConfig
	} else {
		var err error
		userConfig, err = config.LoadUserConfig()
		if err != nil {
			userConfig = config.DefaultConfig()
		}
	}

	config.ApplyOverrides(config.Overrides{
		DockbarPosition:   options.DockbarPosition,
		NoAnimations:      !options.Animations,
		NoPopIn:           !options.PopInOnClose,
		PopoutWholeStack:  options.WholeStack,
		RaisePopoutErrors: false,
		ThemeName:         options.Theme,
	}, userConfig)

	name := options.Theme
	if name == "" {
		name = userConfig.Appearance.Theme
	}
	if err := theme.Initialize(name); err != nil {
		return nil, err
	}

	width, height := options.Width, options.Height
	if width <= 0 || height <= 0 {
		width, height = 80, 24
	}

	d, err := app.NewDesk(width, height)
	if err != nil {
		return nil, err
	}
	if options.Layout != nil {
		if err := d.Primary.Load(*options.Layout); err != nil {
			return nil, err
		}
	}
	input.Install(d)
	return d, nil
}

// FilterMouseMotion is a tea.WithFilter function that drops mouse motion
// events while no drag gesture is tracking them.
//
// Usage:
//
//	p := tea.NewProgram(model, tea.WithFilter(dockyard.FilterMouseMotion))
func FilterMouseMotion(model tea.Model, msg tea.Msg) tea.Msg {
	if _, ok := msg.(tea.MouseMotionMsg); !ok {
		return msg
	}
	d, ok := model.(*Model)
	if !ok {
		return msg
	}
	if d.Sys.Dragging() || d.Tracker.State() != drag.TrackIdle {
		return msg
	}
	return nil
}

// Config re-exports configuration helpers so embedders don't need to import
// internal packages.
var Config = struct {
	// LoadUserConfig loads the user's configuration file.
	LoadUserConfig func() (*config.UserConfig, error)
	// DefaultConfig returns the default configuration.
	DefaultConfig func() *config.UserConfig
	// ConfigFilePath returns the path to the configuration file.
	ConfigFilePath func() (string, error)
}{
	LoadUserConfig: config.LoadUserConfig,
	DefaultConfig:  config.DefaultConfig,
	ConfigFilePath: config.ConfigFilePath,
}
