// Package theme provides color themes and styling for the dockyard desk.
package theme

import (
	"fmt"
	"image/color"
	"log"

	"charm.land/lipgloss/v2"
	tint "github.com/lrstanley/bubbletint/v2"
)

var enabled bool

// Initialize sets up the theme registry with the specified theme name.
// Call this once at application startup.
// If themeName is empty, theming will be disabled and standard terminal colors will be used.
func Initialize(themeName string) error {
	if themeName == "" {
		enabled = false
		return nil
	}

	enabled = true
	tint.NewDefaultRegistry()

	// Load custom themes from user's themes directory
	if themesDir, err := GetThemesDir(); err == nil {
		if _, err := LoadCustomThemes(themesDir); err != nil {
			log.Printf("Warning: error loading custom themes: %v", err)
		}
	}

	ok := tint.SetTintID(themeName)
	if !ok {
		tint.SetTintID("default")
	}

	return nil
}

// IsEnabled returns true if theming is enabled
func IsEnabled() bool {
	return enabled
}

// Current returns the currently active theme.
// Returns nil if theming is disabled.
func Current() *tint.Tint {
	if !enabled {
		return nil
	}
	return tint.Current()
}

// SurfaceFg returns the foreground color for surface content.
func SurfaceFg() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#e5e5e5")
	}
	return t.Fg
}

// SurfaceBg returns the background color for surface content.
func SurfaceBg() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#000000")
	}
	return t.Bg
}

// BorderUnfocused returns the color for unfocused popout window frames.
func BorderUnfocused() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#808090")
	}
	return t.BrightBlack
}

// BorderFocused returns the color for the focused popout window frame.
func BorderFocused() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#AFFFFF")
	}
	return t.BrightCyan
}

// BorderDragging returns the frame color while a drag gesture owns the
// pointer.
func BorderDragging() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#AAFFAA")
	}
	return t.BrightGreen
}

// TabActive returns foreground and background colors for the raised tab in
// a stack header.
func TabActive() (fg color.Color, bg color.Color) {
	t := Current()
	if t == nil {
		return lipgloss.Color("#000000"), lipgloss.Color("#00cdcd")
	}
	return t.Black, t.Cyan
}

// TabInactive returns foreground and background colors for lowered tabs.
func TabInactive() (fg color.Color, bg color.Color) {
	t := Current()
	if t == nil {
		return lipgloss.Color("#a0a0a8"), lipgloss.Color("#2a2a3e")
	}
	return t.White, t.Bg
}

// Splitter returns the color for the gutter cells between siblings.
func Splitter() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#303040")
	}
	return t.BrightBlack
}

// DropZone returns the color the drop indicator highlights a candidate
// area with.
func DropZone() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#5c5cff")
	}
	return t.BrightBlue
}

// ProxyBorder returns the border color of the floating drag proxy.
func ProxyBorder() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#ffff00")
	}
	return t.Yellow
}

// ProxyTitle returns the title color of the floating drag proxy.
func ProxyTitle() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#ffffff")
	}
	return t.BrightWhite
}

// DockBg returns the background color for the dockbar.
func DockBg() color.Color {
	return lipgloss.Color("#2a2a3e")
}

// DockFg returns the foreground color for the dockbar.
func DockFg() color.Color {
	return lipgloss.Color("#a0a0a8")
}

// DockHighlight returns the highlight color for the focused dockbar entry.
func DockHighlight() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#00ff00")
	}
	return t.BrightGreen
}

// DockDimmed returns the dimmed color for detached dockbar entries.
func DockDimmed() color.Color {
	return lipgloss.Color("#808090")
}

// DockSeparator returns the separator color for the dockbar.
func DockSeparator() color.Color {
	return lipgloss.Color("#303040")
}

// NotificationError returns the color for error notifications.
func NotificationError() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#cd0000")
	}
	return t.Red
}

// NotificationWarning returns the color for warning notifications.
func NotificationWarning() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#cdcd00")
	}
	return t.Yellow
}

// NotificationSuccess returns the color for success notifications.
func NotificationSuccess() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#00cd00")
	}
	return t.Green
}

// NotificationInfo returns the color for info notifications.
func NotificationInfo() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#0000ee")
	}
	return t.Blue
}

// NotificationBg returns the background color for notifications.
func NotificationBg() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#000000")
	}
	return t.Bg
}

// NotificationFg returns the foreground color for notifications.
func NotificationFg() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#e5e5e5")
	}
	return t.Fg
}

// LogError returns the color for error lines in the log component.
func LogError() color.Color {
	return lipgloss.Color("9")
}

// LogWarn returns the color for warning lines in the log component.
func LogWarn() color.Color {
	return lipgloss.Color("11")
}

// LogInfo returns the color for info lines in the log component.
func LogInfo() color.Color {
	return lipgloss.Color("10")
}

// WelcomeTitle returns the color for the empty desk placeholder title.
func WelcomeTitle() color.Color {
	return lipgloss.Color("14")
}

// WelcomeText returns the color for the empty desk placeholder text.
func WelcomeText() color.Color {
	return lipgloss.Color("7")
}

// WelcomeHighlight returns the color for highlighted hints on the empty
// desk placeholder.
func WelcomeHighlight() color.Color {
	return lipgloss.Color("6")
}

// ANSIPalette returns the active theme's 16 ANSI colors in standard order.
func ANSIPalette() [16]color.Color {
	t := Current()
	if t == nil {
		return [16]color.Color{
			lipgloss.Color("#000000"), lipgloss.Color("#cd0000"), lipgloss.Color("#00cd00"), lipgloss.Color("#cdcd00"),
			lipgloss.Color("#0000ee"), lipgloss.Color("#cd00cd"), lipgloss.Color("#00cdcd"), lipgloss.Color("#e5e5e5"),
			lipgloss.Color("#7f7f7f"), lipgloss.Color("#ff0000"), lipgloss.Color("#00ff00"), lipgloss.Color("#ffff00"),
			lipgloss.Color("#5c5cff"), lipgloss.Color("#ff00ff"), lipgloss.Color("#00ffff"), lipgloss.Color("#ffffff"),
		}
	}
	return [16]color.Color{
		t.Black, t.Red, t.Green, t.Yellow,
		t.Blue, t.Purple, t.Cyan, t.White,
		t.BrightBlack, t.BrightRed, t.BrightGreen, t.BrightYellow,
		t.BrightBlue, t.BrightPurple, t.BrightCyan, t.BrightWhite,
	}
}

// ColorToString converts a color.Color to a hex string.
func ColorToString(c color.Color) string {
	if c == nil {
		return "#000000"
	}
	r, g, b, _ := c.RGBA()
	r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)
	return fmt.Sprintf("#%02x%02x%02x", r8, g8, b8)
}
