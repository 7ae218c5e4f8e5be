// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the main chat view of the chatbox TUI.

The view shows a heading, the messages of the current room, a prompt input,
and a collapsible side panel with the user's profile, recent chats, and the
New Chat and Logout actions.

# Key Components

## Model (model.go)

The Model struct is the Bubble Tea model for one mounted chat view. It owns
the message list and the recent chat list for as long as it lives; nothing
here is persisted locally.

## Update Loop (update.go)

Prompts, history loads, and recent-chat fetches run as commands and report
back with messages. Busy flags block re-entrant sends and fetches. Replies
that arrive after the view moved to another room are dropped.

## View Rendering (view.go)

Messages are rendered as markdown with glamour. The side panel overlays the
left edge and closes on a click outside it; whether a button press or its
release counts as that click is configurable.

# Usage

	m := chat.New(theme, client, store, room, chat.Options{
	    BannerDuration: cfg.UI.BannerDuration.Std(),
	    PanelDismiss:   cfg.UI.PanelDismiss,
	})
*/
package chat
