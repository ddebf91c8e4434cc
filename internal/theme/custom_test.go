package theme

import (
	"os"
	"path/filepath"
	"testing"

	tint "github.com/lrstanley/bubbletint/v2"
)

func writeTheme(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCustomThemeFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("full theme", func(t *testing.T) {
		path := writeTheme(t, dir, "full.json", `{
			"id": "test-full",
			"display_name": "Test Full Theme",
			"dark": true,
			"fg": "#d4d4d4",
			"bg": "#1e1e2e",
			"cursor": "#f5e0dc",
			"black": "#45475a",
			"red": "#f38ba8",
			"green": "#a6e3a1",
			"yellow": "#f9e2af",
			"blue": "#89b4fa",
			"purple": "#cba6f7",
			"cyan": "#94e2d5",
			"white": "#bac2de"
		}`)

		theme, err := LoadCustomThemeFile(path)
		if err != nil {
			t.Fatalf("LoadCustomThemeFile failed: %v", err)
		}
		if theme.ID != "test-full" || theme.DisplayName != "Test Full Theme" || !theme.Dark {
			t.Errorf("metadata = %q %q dark=%v", theme.ID, theme.DisplayName, theme.Dark)
		}
		for i, c := range []*tint.Color{
			theme.Fg, theme.Bg, theme.Cursor,
			theme.Black, theme.Red, theme.Green, theme.Yellow,
			theme.Blue, theme.Purple, theme.Cyan, theme.White,
			theme.BrightBlack, theme.BrightRed, theme.BrightGreen, theme.BrightYellow,
			theme.BrightBlue, theme.BrightPurple, theme.BrightCyan, theme.BrightWhite,
		} {
			if c == nil {
				t.Errorf("color at index %d is nil", i)
			}
		}
	})

	t.Run("partial theme gets defaults", func(t *testing.T) {
		path := writeTheme(t, dir, "minimal-dark.json", `{
			"id": "minimal-dark",
			"fg": "#c0c0c0",
			"bg": "#1a1a1a"
		}`)

		theme, err := LoadCustomThemeFile(path)
		if err != nil {
			t.Fatalf("LoadCustomThemeFile failed: %v", err)
		}
		if theme.Cursor == nil || theme.Black == nil || theme.BrightWhite == nil {
			t.Fatal("fillDefaults left color fields nil")
		}
		if theme.Cursor.R != theme.Fg.R || theme.Cursor.G != theme.Fg.G || theme.Cursor.B != theme.Fg.B {
			t.Error("cursor should default to the foreground color")
		}
		if theme.BrightBlack.R != theme.Black.R {
			t.Error("bright variants should default to their normal counterparts")
		}
	})

	t.Run("id from filename", func(t *testing.T) {
		path := writeTheme(t, dir, "My-Cool-Theme.json", `{"fg": "#ffffff", "bg": "#000000"}`)

		theme, err := LoadCustomThemeFile(path)
		if err != nil {
			t.Fatalf("LoadCustomThemeFile failed: %v", err)
		}
		if theme.ID != "my-cool-theme" {
			t.Errorf("ID = %q, want 'my-cool-theme' derived from the filename", theme.ID)
		}
		if theme.DisplayName != "my-cool-theme" {
			t.Errorf("DisplayName = %q, want the ID", theme.DisplayName)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		path := writeTheme(t, dir, "bad.json", "not valid json{{{")
		if _, err := LoadCustomThemeFile(path); err == nil {
			t.Error("expected error for invalid JSON, got nil")
		}
	})
}

func TestLoadCustomThemesSkipsNonJSON(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"readme.txt", "notes.md", ".hidden"} {
		writeTheme(t, dir, name, "not a theme")
	}

	loaded, err := LoadCustomThemes(dir)
	if err != nil {
		t.Fatalf("LoadCustomThemes should not error: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("loaded %d themes from non-JSON files, want 0", len(loaded))
	}
}

func TestLoadCustomThemesRegisters(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, "test-registration-unique.json", `{
		"id": "test-registration-unique",
		"fg": "#ffffff",
		"bg": "#000000"
	}`)

	tint.NewDefaultRegistry()

	loaded, err := LoadCustomThemes(dir)
	if err != nil {
		t.Fatalf("LoadCustomThemes failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("loaded = %d themes, want 1", len(loaded))
	}

	found := false
	for _, id := range tint.TintIDs() {
		if id == "test-registration-unique" {
			found = true
			break
		}
	}
	if !found {
		t.Error("custom theme not registered with the tint registry")
	}
}

func TestCopyColor(t *testing.T) {
	original := &tint.Color{R: 255, G: 128, B: 0, A: 255}
	copied := copyColor(original)

	if copied == original {
		t.Error("copyColor should return a different pointer")
	}
	copied.R = 0
	if original.R == 0 {
		t.Error("modifying the copy should not affect the original")
	}
	if copyColor(nil) != nil {
		t.Error("copyColor(nil) should return nil")
	}
}
