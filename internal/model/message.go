// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role identifies who produced a message. The values are the wire values
// used by the chat API.
type Role string

const (
	// RoleSender marks a message typed by the local user.
	RoleSender Role = "SENDER"
	// RoleAI marks a completion returned by the server.
	RoleAI Role = "ai-message"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleSender:
		return "You"
	case RoleAI:
		return "AI"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is one entry of a chat room. Insertion order is display order.
type Message struct {
	// ID is the room the message belongs to, when the server reported it.
	ID       *RoomID `json:"id,omitempty"`
	Message  string  `json:"message"`
	UserRole Role    `json:"userRole"`

	// Key is a client-side identity used for rendering; never sent.
	Key string `json:"-"`
}

// NewSenderMessage creates the optimistic message appended before a prompt
// is submitted.
func NewSenderMessage(text string) Message {
	return Message{
		Message:  text,
		UserRole: RoleSender,
		Key:      uuid.NewString(),
	}
}

// NewAIMessage creates a completion entry tagged with the room it came from.
func NewAIMessage(room RoomID, text string) Message {
	id := room
	return Message{
		ID:       &id,
		Message:  text,
		UserRole: RoleAI,
		Key:      uuid.NewString(),
	}
}

// IsSender reports whether the local user wrote the message.
func (m Message) IsSender() bool {
	return m.UserRole == RoleSender
}

// EnsureKeys assigns a client key to every message that lacks one.
// Messages loaded from history arrive without keys.
func EnsureKeys(msgs []Message) []Message {
	for i := range msgs {
		if msgs[i].Key == "" {
			msgs[i].Key = uuid.NewString()
		}
	}
	return msgs
}
