// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jeranaias/chatbox-tui/internal/model"
)

// PromptResult is the server's reply to a prompt.
type PromptResult struct {
	RoomID  model.RoomID
	Message string
}

type promptRequest struct {
	// nil encodes as JSON null for a new room.
	ChatRoomID any    `json:"chatRoomId"`
	Message    string `json:"message"`
}

type promptResponse struct {
	ChatRoomID *model.RoomID `json:"chatRoomId"`
	Message    string        `json:"message"`
}

// FetchHistory returns the messages of a room, oldest first.
func (c *Client) FetchHistory(ctx context.Context, room model.RoomID) ([]model.Message, error) {
	if room.IsZero() {
		return nil, model.ErrEmptyRoomID
	}
	var msgs []model.Message
	path := fmt.Sprintf(pathHistoryFmt, url.PathEscape(room.String()))
	if err := c.do(ctx, http.MethodGet, path, nil, true, &msgs); err != nil {
		return nil, err
	}
	return model.EnsureKeys(msgs), nil
}

// SendPrompt submits text to room, or to a new room when room is nil. The
// returned RoomID is the one to use for subsequent prompts.
func (c *Client) SendPrompt(ctx context.Context, room *model.RoomID, text string) (PromptResult, error) {
	req := promptRequest{Message: text}
	if room != nil && !room.IsZero() {
		req.ChatRoomID = room.WireValue(c.numericRoomIDs)
	}

	var res promptResponse
	if err := c.do(ctx, http.MethodPost, PathPrompt, req, true, &res); err != nil {
		return PromptResult{}, err
	}

	out := PromptResult{Message: res.Message}
	switch {
	case res.ChatRoomID != nil && !res.ChatRoomID.IsZero():
		out.RoomID = *res.ChatRoomID
	case room != nil && !room.IsZero():
		out.RoomID = *room
	default:
		return PromptResult{}, ErrNoRoomID
	}
	return out, nil
}

// FetchRecent returns the user's recent chats. The list may be empty.
func (c *Client) FetchRecent(ctx context.Context) ([]model.Chat, error) {
	var chats []model.Chat
	if err := c.do(ctx, http.MethodGet, PathRecent, nil, true, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}
