// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Session is the signed-in user. It is either fully present or absent.
type Session struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Token    string `json:"token"`
}

// StoredUser is the profile half of a Session as persisted under the
// "user" storage key. The token lives under its own key.
type StoredUser struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// User returns the persisted profile part of the session.
func (s Session) User() StoredUser {
	return StoredUser{Email: s.Email, FullName: s.FullName}
}

// DisplayName returns the full name, the email, or "N/A" in that order.
func (s Session) DisplayName() string {
	if s.FullName != "" {
		return s.FullName
	}
	if s.Email != "" {
		return s.Email
	}
	return "N/A"
}
