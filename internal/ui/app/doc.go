// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package app provides the root Bubble Tea model of the chatbox TUI.

The root model owns the current route. Screens request a route change with
components.NavigateMsg; protected routes pass through the route guard on
every navigation, and a refused navigation lands on the guard's redirect
instead.

# Key Types

  - Model: the root model hosting the login, sign-up, and chat screens
  - Deps: everything the screens need, constructed once by the caller
  - SessionChangedMsg: delivered when the session store changes

# Usage

	m := app.New(deps, router.Chat(nil))
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	unsubscribe := m.Bind(p.Send)
	defer unsubscribe()
	_, err := p.Run()
*/
package app
