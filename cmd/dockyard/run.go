package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/dodorz/dockyard/internal/app"
	"github.com/dodorz/dockyard/internal/config"
	"github.com/dodorz/dockyard/internal/drag"
	"github.com/dodorz/dockyard/internal/input"
	"github.com/dodorz/dockyard/internal/theme"
)

// filterMouseMotion drops mouse motion events while no gesture is tracking
// them. Motion arrives far more often than anything else and only the drag
// engine consumes it.
func filterMouseMotion(model tea.Model, msg tea.Msg) tea.Msg {
	if _, ok := msg.(tea.MouseMotionMsg); !ok {
		return msg
	}
	d, ok := model.(*app.Desk)
	if !ok {
		return msg
	}
	if d.Sys.Dragging() || d.Tracker.State() != drag.TrackIdle {
		return msg
	}
	return nil
}

func runDesk() error {
	if debugMode {
		if configPath, err := config.ConfigFilePath(); err == nil {
			log.Printf("Configuration: %s", configPath)
		}
		if statePath, err := app.DeskStatePath(); err == nil {
			log.Printf("Desk state: %s", statePath)
		}
	}

	userConfig, err := config.LoadUserConfig()
	if err != nil {
		log.Printf("Warning: failed to load config, using defaults: %v", err)
		userConfig = config.DefaultConfig()
	}

	config.ApplyOverrides(config.Overrides{
		DockbarPosition:   dockbarPosition,
		NoAnimations:      noAnimations,
		NoPopIn:           noPopIn,
		PopoutWholeStack:  wholeStack,
		RaisePopoutErrors: raisePopoutErrors,
		ThemeName:         themeName,
	}, userConfig)

	name := themeName
	if name == "" {
		name = userConfig.Appearance.Theme
	}
	if err := theme.Initialize(name); err != nil {
		return fmt.Errorf("failed to initialize theme: %w", err)
	}

	d, err := app.NewDesk(80, 24)
	if err != nil {
		return fmt.Errorf("failed to build desk: %w", err)
	}
	d.Popouts.SetPollPolicy(
		time.Duration(userConfig.Popout.PollIntervalMS)*time.Millisecond,
		userConfig.Popout.PollBudget,
	)
	input.Install(d)

	p := tea.NewProgram(
		d,
		tea.WithoutSignalHandler(),
		tea.WithFilter(filterMouseMotion),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		p.Send(tea.QuitMsg{})
	}()

	finalModel, err := p.Run()
	if finalDesk, ok := finalModel.(*app.Desk); ok {
		finalDesk.Shutdown()
	}
	if err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

// previewThemeColors prints a theme's 16 ANSI colors as swatches.
func previewThemeColors(name string) error {
	if err := theme.Initialize(name); err != nil {
		return fmt.Errorf("failed to initialize theme %q: %w", name, err)
	}
	if !theme.IsEnabled() {
		return fmt.Errorf("theme %q not found", name)
	}

	names := [16]string{
		"black", "red", "green", "yellow",
		"blue", "purple", "cyan", "white",
		"bright black", "bright red", "bright green", "bright yellow",
		"bright blue", "bright purple", "bright cyan", "bright white",
	}
	palette := theme.ANSIPalette()

	fmt.Printf("Theme: %s\n\n", name)
	for i, c := range palette {
		swatch := lipgloss.NewStyle().Background(c).Render("        ")
		fmt.Printf("%2d  %s  %-14s %s\n", i, swatch, names[i], theme.ColorToString(c))
	}
	return nil
}

func printConfigPath() error {
	path, err := config.ConfigFilePath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	fmt.Println(path)
	return nil
}

func editConfigFile() error {
	path, err := config.ConfigFilePath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if _, err := config.LoadUserConfig(); err != nil {
			return fmt.Errorf("failed to create default config: %w", err)
		}
	}

	editor := findEditor()
	if editor == "" {
		return fmt.Errorf("no editor found: set $EDITOR or $VISUAL")
	}

	cmd := exec.Command(editor, path) // #nosec G204 - editor comes from the user's environment
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func findEditor() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	for _, candidate := range []string{"vim", "vi", "nano", "emacs"} {
		if _, err := exec.LookPath(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

func resetConfigToDefaults() error {
	path, err := config.ResetUserConfig()
	if err != nil {
		return err
	}
	fmt.Printf("Configuration reset: %s\n", path)
	return nil
}

func printDeskStatePath() error {
	path, err := app.DeskStatePath()
	if err != nil {
		return fmt.Errorf("failed to get desk state path: %w", err)
	}
	fmt.Println(path)
	return nil
}

func resetDeskState() error {
	path, err := app.DeskStatePath()
	if err != nil {
		return fmt.Errorf("failed to get desk state path: %w", err)
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No saved desk state")
			return nil
		}
		return fmt.Errorf("failed to remove desk state: %w", err)
	}
	fmt.Printf("Desk state removed: %s\n", path)
	return nil
}
