// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package console

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the console's key bindings.
type KeyMap struct {
	Up   key.Binding
	Down key.Binding

	// Fine and coarse slider steps.
	Decrease       key.Binding
	Increase       key.Binding
	DecreaseCoarse key.Binding
	IncreaseCoarse key.Binding

	// Activate opens a chooser or presses a button.
	Activate key.Binding
	Dismiss  key.Binding

	Export key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// DefaultKeyMap is the built-in key binding set: vim-style movement
// alongside the arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Decrease: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "decrease"),
	),
	Increase: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "increase"),
	),
	DecreaseCoarse: key.NewBinding(
		key.WithKeys("H", "shift+left"),
		key.WithHelp("H", "decrease ×10"),
	),
	IncreaseCoarse: key.NewBinding(
		key.WithKeys("L", "shift+right"),
		key.WithHelp("L", "increase ×10"),
	),
	Activate: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("Enter", "choose/press"),
	),
	Dismiss: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "close menu"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export frame"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (keys KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.Up, keys.Down, keys.Decrease, keys.Increase, keys.Activate, keys.Export, keys.Help, keys.Quit}
}

// FullHelp implements help.KeyMap.
func (keys KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{keys.Up, keys.Down},
		{keys.Decrease, keys.Increase, keys.DecreaseCoarse, keys.IncreaseCoarse},
		{keys.Activate, keys.Dismiss},
		{keys.Export, keys.Help, keys.Quit},
	}
}
