// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the transcript view.
// Each binding supports multiple keys and includes help text for documentation.
type KeyMap struct {
	StepUp     key.Binding
	StepDown   key.Binding
	Toggle     key.Binding
	ToggleAll  key.Binding
	Copy       key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Home       key.Binding
	End        key.Binding
	Replay     key.Binding
	Apps       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default key bindings.
// These bindings support both standard terminal navigation and vim-like shortcuts.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		StepUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "previous step"),
		),
		StepDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "next step"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("Enter", "expand step"),
		),
		ToggleAll: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "expand all"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy step"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("C-e", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp/C-u", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn/C-d", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("Home/g", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("End/G", "go to bottom"),
		),
		Replay: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "replay animations"),
		),
		Apps: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "connected apps"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q/C-c", "quit"),
		),
	}
}

// =============================================================================
// KEY BINDING HELPERS
// =============================================================================

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.StepDown, k.Toggle, k.Copy, k.Apps, k.Help, k.Quit}
}

// FullHelp returns every binding, grouped for the help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Steps
		{k.StepUp, k.StepDown, k.Toggle, k.ToggleAll, k.Copy},
		// Scrolling
		{k.ScrollUp, k.ScrollDown, k.PageUp, k.PageDown, k.Home, k.End},
		// Other
		{k.Replay, k.Apps, k.Help, k.Quit},
	}
}
