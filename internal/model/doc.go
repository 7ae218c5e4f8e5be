// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures exchanged with the chat API
// and shared between the session, transport, and UI layers.
//
// # Key Types
//
//   - Session: Signed-in user (email, full name, bearer token)
//   - Message: Single chat entry with role SENDER or ai-message
//   - Chat: Recent-chat summary shown in the side panel
//   - RoomID: Server room identifier accepting numeric and string forms
//
// # Usage
//
//	msgs = append(msgs, model.NewSenderMessage(prompt))
//	...
//	msgs = append(msgs, model.NewAIMessage(res.RoomID, res.Message))
//	heading := model.TitleFromReply(res.Message)
package model
