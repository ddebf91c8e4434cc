package input

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/dodorz/dockyard/internal/app"
	"github.com/dodorz/dockyard/internal/layout"
)

func newTestDesk(t *testing.T) *app.Desk {
	t.Helper()
	d, err := app.NewDesk(80, 24)
	if err != nil {
		t.Fatalf("new desk: %v", err)
	}
	Install(d)
	return d
}

func press(d *app.Desk, key tea.KeyPressMsg) tea.Cmd {
	_, cmd := HandleInput(key, d)
	return cmd
}

func leafWithComponent(d *app.Desk, kind string) *layout.Item {
	for _, it := range d.Primary.Ground().Descendants(nil) {
		if it.IsLeaf() && it.Component == kind {
			return it
		}
	}
	return nil
}

func TestQuitKeyShutsDownAndQuits(t *testing.T) {
	d := newTestDesk(t)

	cmd := press(d, tea.KeyPressMsg{Code: 'q', Text: "q"})
	if cmd == nil {
		t.Fatal("quit key produced no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit key did not produce tea.Quit")
	}
}

func TestNewComponentKey(t *testing.T) {
	d := newTestDesk(t)
	before := d.Primary.Ground().ComponentCount()

	press(d, tea.KeyPressMsg{Code: 'n', Text: "n"})

	if got := d.Primary.Ground().ComponentCount(); got != before+1 {
		t.Errorf("components = %d, want %d", got, before+1)
	}
	if f := d.Primary.Focused(); f == nil || f.Component != "editor" {
		t.Error("spawned component not focused")
	}
}

func TestTabKeyCyclesFocus(t *testing.T) {
	d := newTestDesk(t)

	press(d, tea.KeyPressMsg{Code: tea.KeyTab})
	first := d.Primary.Focused()
	if first == nil {
		t.Fatal("cycle focused nothing")
	}

	press(d, tea.KeyPressMsg{Code: tea.KeyTab})
	if d.Primary.Focused() == first {
		t.Error("second cycle did not advance focus")
	}
}

func TestCloseKeyRemovesFocusedComponent(t *testing.T) {
	d := newTestDesk(t)
	clock := leafWithComponent(d, "clock")
	d.Primary.SetFocused(clock)

	press(d, tea.KeyPressMsg{Code: 'x', Text: "x"})

	if d.Primary.FindItem(clock.ID) != nil {
		t.Error("focused component survived the close key")
	}
}

func TestPopOutKeyDetachesFocused(t *testing.T) {
	d := newTestDesk(t)
	editor := leafWithComponent(d, "editor")
	d.Primary.SetFocused(editor)

	press(d, tea.KeyPressMsg{Code: 'p', Text: "p"})

	if got := len(d.Sys.Windows()); got != 2 {
		t.Errorf("windows = %d after pop out key, want 2", got)
	}
	if d.Primary.FindItem(editor.ID) != nil {
		t.Error("popped-out component still docked")
	}
}

func TestLogOverlayKeys(t *testing.T) {
	d := newTestDesk(t)

	press(d, tea.KeyPressMsg{Code: 'L', Text: "L"})
	if !d.ShowLogs {
		t.Fatal("L did not open the log overlay")
	}

	press(d, tea.KeyPressMsg{Code: tea.KeyUp})
	press(d, tea.KeyPressMsg{Code: tea.KeyUp})
	if d.LogScrollOffset != 2 {
		t.Errorf("scroll offset = %d after two ups, want 2", d.LogScrollOffset)
	}
	press(d, tea.KeyPressMsg{Code: tea.KeyDown})
	if d.LogScrollOffset != 1 {
		t.Errorf("scroll offset = %d after one down, want 1", d.LogScrollOffset)
	}

	// q closes the overlay instead of quitting while it is open.
	if cmd := press(d, tea.KeyPressMsg{Code: 'q', Text: "q"}); cmd != nil {
		t.Error("q quit the program while the log overlay was open")
	}
	if d.ShowLogs {
		t.Error("overlay still open")
	}
	if d.LogScrollOffset != 0 {
		t.Error("scroll offset not reset on close")
	}
}

func TestLogOverlaySwallowsDeskKeys(t *testing.T) {
	d := newTestDesk(t)
	before := d.Primary.Ground().ComponentCount()
	windows := len(d.Sys.Windows())

	press(d, tea.KeyPressMsg{Code: 'L', Text: "L"})
	press(d, tea.KeyPressMsg{Code: 'x', Text: "x"})
	press(d, tea.KeyPressMsg{Code: 'n', Text: "n"})
	press(d, tea.KeyPressMsg{Code: 'p', Text: "p"})

	if !d.ShowLogs {
		t.Fatal("overlay closed by a swallowed key")
	}
	if got := d.Primary.Ground().ComponentCount(); got != before {
		t.Errorf("components = %d, want %d untouched behind the overlay", got, before)
	}
	if got := len(d.Sys.Windows()); got != windows {
		t.Errorf("windows = %d, want %d untouched behind the overlay", got, windows)
	}
}
