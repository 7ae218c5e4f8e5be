// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatbox-tui/internal/api"
	"github.com/jeranaias/chatbox-tui/internal/model"
)

// =============================================================================
// TRANSPORT
// =============================================================================

// Client is the part of the API client the chat view uses.
type Client interface {
	FetchHistory(ctx context.Context, room model.RoomID) ([]model.Message, error)
	SendPrompt(ctx context.Context, room *model.RoomID, text string) (api.PromptResult, error)
	FetchRecent(ctx context.Context) ([]model.Chat, error)
}

// =============================================================================
// RESULT MESSAGES
// =============================================================================

// promptResultMsg carries the reply to a sent prompt. epoch identifies the
// conversation the prompt belonged to.
type promptResultMsg struct {
	epoch  int
	result api.PromptResult
	err    error
}

// historyResultMsg carries a room's stored messages.
type historyResultMsg struct {
	epoch    int
	room     model.RoomID
	messages []model.Message
	err      error
}

// recentResultMsg carries the recent chat list.
type recentResultMsg struct {
	chats []model.Chat
	err   error
}

// =============================================================================
// COMMANDS
// =============================================================================

func sendPromptCmd(client Client, epoch int, room *model.RoomID, text string) tea.Cmd {
	return func() tea.Msg {
		res, err := client.SendPrompt(context.Background(), room, text)
		return promptResultMsg{epoch: epoch, result: res, err: err}
	}
}

func fetchHistoryCmd(client Client, epoch int, room model.RoomID) tea.Cmd {
	return func() tea.Msg {
		msgs, err := client.FetchHistory(context.Background(), room)
		return historyResultMsg{epoch: epoch, room: room, messages: msgs, err: err}
	}
}

func fetchRecentCmd(client Client) tea.Cmd {
	return func() tea.Msg {
		chats, err := client.FetchRecent(context.Background())
		return recentResultMsg{chats: chats, err: err}
	}
}
