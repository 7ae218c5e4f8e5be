// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"github.com/jeranaias/chatbox-tui/internal/util"
)

// NoRecentChatsTitle is the title of the placeholder shown when the server
// has no recent chats (or the fetch failed).
const NoRecentChatsTitle = "No recent chats"

// TitleWords is how many words of the first AI reply make up a chat title.
const TitleWords = 5

// Chat summarizes a room for the recent-chats list.
type Chat struct {
	ID      *RoomID `json:"id,omitempty"`
	Title   string  `json:"title"`
	Message string  `json:"message,omitempty"`
}

// Navigable reports whether selecting the entry can open a room.
func (c Chat) Navigable() bool {
	return c.ID != nil && !c.ID.IsZero()
}

// IsPlaceholder reports whether c is the "No recent chats" sentinel.
func (c Chat) IsPlaceholder() bool {
	return c.ID == nil && c.Title == NoRecentChatsTitle
}

// NoRecentChats returns the single-entry list displayed for an empty result.
func NoRecentChats() []Chat {
	return []Chat{{Title: NoRecentChatsTitle}}
}

// NormalizeRecent substitutes the placeholder for an empty list so the side
// panel always has something to render.
func NormalizeRecent(chats []Chat) []Chat {
	if len(chats) == 0 {
		return NoRecentChats()
	}
	return chats
}

// TitleFromReply derives a heading from an AI reply: its first five words
// followed by an ellipsis.
func TitleFromReply(reply string) string {
	return util.FirstWords(reply, TitleWords) + "..."
}
