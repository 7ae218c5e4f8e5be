// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the bindings shared by the login and sign-up forms.
type KeyMap struct {
	Next         key.Binding
	Prev         key.Binding
	Submit       key.Binding
	ShowPassword key.Binding
	Quit         key.Binding
}

// DefaultKeyMap returns the default form bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("S-tab", "previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		ShowPassword: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "show/hide password"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
	}
}
