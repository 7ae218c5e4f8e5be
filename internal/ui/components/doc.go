// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the UI pieces shared by the chatbox screens.

# Core Components

Flash (flash.go) - Transient banner that hides itself after a duration.
A newer message supersedes an older one; the older timer is ignored.

Notice (flash.go) - Blocking dialog that swallows input until acknowledged.

Panel (panel.go) - Side panel with the user's name, New Chat, the recent
chats list, and Logout. It reports selections as messages.

Markdown (markdown.go) - glamour renderer for AI replies with a plain-text
fallback.

# Navigation

Screens never switch routes themselves. They return Navigate(route) and
the app model performs the switch after running the route guard:

	return m, components.Navigate(router.Chat(&room))

# Timers

Flash.Show returns a tea.Tick command; feed the FlashExpiredMsg back to
Flash.Expire:

	case components.FlashExpiredMsg:
		m.banner.Expire(msg)
*/
package components
