// Package main implements dockyard, a terminal docking desk. Components live
// in a draggable tab-and-split layout, can be torn off into floating popout
// surfaces, and pop back in when those surfaces close.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	tint "github.com/lrstanley/bubbletint/v2"
	"github.com/spf13/cobra"

	"github.com/dodorz/dockyard/internal/theme"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags
var (
	debugMode         bool
	themeName         string
	listThemes        bool
	previewTheme      string
	dockbarPosition   string
	noAnimations      bool
	noPopIn           bool
	wholeStack        bool
	raisePopoutErrors bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dockyard",
		Short: "Terminal docking desk",
		Long: `Dockyard - a terminal docking desk

Components live in a draggable tab-and-split layout. Drag a tab to rearrange
the desk, drag it off the desk edge (or press p) to tear it into a floating
popout surface, and close the popout to dock it back in.`,
		Example: `  # Run dockyard
  dockyard

  # Run with a specific theme
  dockyard --theme dracula

  # List all available themes
  dockyard --list-themes

  # Tear off whole stacks instead of single components
  dockyard --whole-stack

  # Edit configuration
  dockyard config edit`,
		Version: version,
		RunE: func(_ *cobra.Command, _ []string) error {
			if previewTheme != "" {
				return previewThemeColors(previewTheme)
			}
			if listThemes {
				if err := theme.Initialize("default"); err != nil {
					return fmt.Errorf("failed to initialize themes: %w", err)
				}
				for _, t := range tint.TintIDs() {
					fmt.Println(t)
				}
				return nil
			}
			return runDesk()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Log resolved config and state paths at startup")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "Color theme to use (e.g., dracula, nord). Leave empty to use standard terminal colors without theming")
	rootCmd.PersistentFlags().BoolVar(&listThemes, "list-themes", false, "List all available themes and exit")
	rootCmd.PersistentFlags().StringVar(&previewTheme, "preview-theme", "", "Preview a theme's 16 ANSI colors")
	rootCmd.PersistentFlags().StringVar(&dockbarPosition, "dockbar-position", "", "Dockbar position: bottom, top, hidden (default: from config or bottom)")
	rootCmd.PersistentFlags().BoolVar(&noAnimations, "no-animations", false, "Disable proxy glide animations")
	rootCmd.PersistentFlags().BoolVar(&noPopIn, "no-pop-in", false, "Discard popout content on close instead of docking it back in")
	rootCmd.PersistentFlags().BoolVar(&wholeStack, "whole-stack", false, "Tear off the enclosing stack instead of the single component")
	rootCmd.PersistentFlags().BoolVar(&raisePopoutErrors, "raise-popout-errors", false, "Report blocked surface creation as errors instead of silently cancelling")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage dockyard configuration",
		Long:  `Manage dockyard configuration file and settings`,
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		RunE: func(_ *cobra.Command, _ []string) error {
			return printConfigPath()
		},
	}

	configEditCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		Long: `Open the dockyard configuration file in your default editor

The editor is determined by checking $EDITOR, $VISUAL, or common editors
like vim, vi, nano, and emacs in that order.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return editConfigFile()
		},
	}

	configResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		Long:  `Overwrite the dockyard configuration file with default settings`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return resetConfigToDefaults()
		},
	}

	configCmd.AddCommand(configPathCmd, configEditCmd, configResetCmd)

	deskCmd := &cobra.Command{
		Use:   "desk",
		Short: "Manage the saved desk state",
		Long:  `Inspect and manage the desk layout saved with the s key`,
	}

	deskPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the saved desk state path",
		RunE: func(_ *cobra.Command, _ []string) error {
			return printDeskStatePath()
		},
	}

	deskResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the saved desk state",
		RunE: func(_ *cobra.Command, _ []string) error {
			return resetDeskState()
		},
	}

	deskCmd.AddCommand(deskPathCmd, deskResetCmd)

	rootCmd.AddCommand(configCmd, deskCmd)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s", version, commit, date)),
	); err != nil {
		os.Exit(1)
	}
}
