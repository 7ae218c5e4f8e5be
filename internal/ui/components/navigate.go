// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatbox-tui/internal/router"
)

// NavigateMsg asks the root program to switch screens. Protected routes
// pass through the guard first.
type NavigateMsg struct {
	Route router.Route
}

// Navigate returns a command that requests route.
func Navigate(route router.Route) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Route: route} }
}
