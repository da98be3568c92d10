// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timelineui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the timeline view.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding // Top of the loaded timeline; requests history.
	End      key.Binding // Bottom; resumes following live events.

	MarkRead     key.Binding // Move the read marker to the last shown row.
	JumpMarker   key.Binding // Select the read-marker row.
	ToggleSource key.Binding // Show the selected event's JSON.

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set: vim-style navigation
// alongside arrow keys and page up/down.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("ctrl+u", "pgup"),
		key.WithHelp("C-u", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("ctrl+d", "pgdown"),
		key.WithHelp("C-d", "page down"),
	),
	Home: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	End: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	MarkRead: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "mark read"),
	),
	JumpMarker: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "read marker"),
	),
	ToggleSource: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "source"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
