// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat_cmd.go - recent, history, and ask commands.
//
// These run the same requests as the chat screen without starting the TUI,
// so chats can be scripted or piped.

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jeranaias/chatbox-tui/internal/api"
	"github.com/jeranaias/chatbox-tui/internal/model"
)

// askResult is the ask command's JSON payload.
type askResult struct {
	RoomID  model.RoomID `json:"roomId"`
	Message string       `json:"message"`
}

// =============================================================================
// RECENT
// =============================================================================

// HandleRecent lists the user's recent chats.
func HandleRecent(ctx context.Context, env *Env, args Args) error {
	if _, err := env.requireSession(); err != nil {
		return err
	}

	chats, err := env.Client.FetchRecent(ctx)
	if err != nil {
		return &friendlyError{msg: api.MessageOr(err, "failed to fetch recent chats"), err: err}
	}

	if args.JSON {
		if chats == nil {
			chats = []model.Chat{}
		}
		return NewJSONResponse("recent", chats).Write(env.Out)
	}

	for _, c := range model.NormalizeRecent(chats) {
		if !c.Navigable() {
			fmt.Fprintln(env.Out, DimStyle.Render(c.Title))
			continue
		}
		fmt.Fprintf(env.Out, "%s  %s\n", LabelStyle.Render(c.ID.String()), ValueStyle.Render(c.Title))
	}
	return nil
}

// =============================================================================
// HISTORY
// =============================================================================

// HandleHistory prints every message of the room named by the first
// positional argument.
func HandleHistory(ctx context.Context, env *Env, args Args) error {
	if len(args.Positional) == 0 {
		return ErrMissingArgument("ID", "chatbox history ID")
	}
	room, err := model.ParseRoomID(args.Positional[0])
	if err != nil {
		return &UsageError{Message: err.Error()}
	}
	if _, err := env.requireSession(); err != nil {
		return err
	}

	msgs, err := env.Client.FetchHistory(ctx, room)
	if err != nil {
		return &friendlyError{msg: api.MessageOr(err, "failed to load chat "+room.String()), err: err}
	}

	if args.JSON {
		if msgs == nil {
			msgs = []model.Message{}
		}
		return NewJSONResponse("history", msgs).Write(env.Out)
	}

	rich := IsStdoutTTY()
	for i, msg := range msgs {
		if i > 0 {
			fmt.Fprintln(env.Out)
		}
		label := AIStyle.Render(msg.UserRole.DisplayName())
		if msg.IsSender() {
			label = SenderStyle.Render(msg.UserRole.DisplayName())
		}
		fmt.Fprintln(env.Out, label)
		if rich && !msg.IsSender() {
			fmt.Fprintln(env.Out, renderMarkdown(msg.Message, GetTerminalWidth()))
		} else {
			fmt.Fprintln(env.Out, msg.Message)
		}
	}
	return nil
}

// =============================================================================
// ASK
// =============================================================================

// HandleAsk sends one prompt and prints the reply. The prompt comes from
// the positional arguments, or from stdin when it is piped.
func HandleAsk(ctx context.Context, env *Env, args Args, stdin io.Reader) error {
	text := strings.TrimSpace(args.Query)
	if text == "" && stdin != nil {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("read prompt: %w", err)
		}
		text = strings.TrimSpace(string(raw))
	}
	if text == "" {
		return ErrMissingArgument("TEXT", "chatbox ask [--room ID] TEXT")
	}

	var room *model.RoomID
	if args.Room != "" {
		id, err := model.ParseRoomID(args.Room)
		if err != nil {
			return &UsageError{Message: err.Error()}
		}
		room = &id
	}
	if _, err := env.requireSession(); err != nil {
		return err
	}

	res, err := env.Client.SendPrompt(ctx, room, text)
	if err != nil {
		return &friendlyError{msg: api.MessageOr(err, api.GenericErrorMessage), err: err}
	}

	if args.JSON {
		return NewJSONResponse("ask", askResult{RoomID: res.RoomID, Message: res.Message}).Write(env.Out)
	}

	if IsStdoutTTY() {
		fmt.Fprintln(env.Out, renderMarkdown(res.Message, GetTerminalWidth()))
		fmt.Fprintln(env.Err, DimStyle.Render("room "+res.RoomID.String()+"; continue with --room "+res.RoomID.String()))
		return nil
	}
	fmt.Fprintln(env.Out, res.Message)
	fmt.Fprintln(env.Err, "room "+res.RoomID.String())
	return nil
}

// PipedStdin returns os.Stdin when it is not a terminal, otherwise nil.
func PipedStdin() io.Reader {
	if IsTTY() {
		return nil
	}
	return os.Stdin
}
