// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth holds the route guard, sign-up validation, and the login and
// registration flows that populate the session.
package auth

import (
	"log/slog"
	"time"

	"github.com/jeranaias/chatbox-tui/internal/router"
	"github.com/jeranaias/chatbox-tui/internal/storage"
)

// SessionCheckFailedNotice is shown when the stored token cannot be decoded.
const SessionCheckFailedNotice = "An error occurred while checking your session. Please log in again."

// Decision is the outcome of a guard check.
type Decision struct {
	// Allow is true when the protected screen may render.
	Allow bool
	// Redirect is the route to show instead when Allow is false.
	Redirect router.Route
	// Notice is a blocking message the user must acknowledge, or "".
	Notice string
}

// Guard gates protected routes on a present, unexpired token. It reads the
// token straight from storage so a logout in another process is honored on
// the next navigation.
type Guard struct {
	kv  storage.KV
	now func() time.Time
}

// NewGuard creates a guard over the session's backing storage.
func NewGuard(kv storage.KV) *Guard {
	return &Guard{kv: kv, now: time.Now}
}

// Check runs once per navigation into a protected route. It never touches
// the network.
func (g *Guard) Check() Decision {
	token, ok, err := g.kv.Get(storage.KeyToken)
	if err != nil {
		slog.Warn("guard could not read token", "error", err)
		ok = false
	}
	if !ok || token == "" {
		return Decision{Redirect: router.Signup(router.MarkerNoAuth)}
	}

	expired, err := tokenExpiredAt(token, g.now())
	if err != nil {
		slog.Warn("guard could not decode token", "error", err)
		return Decision{
			Redirect: router.Login(router.MarkerAuthRequired),
			Notice:   SessionCheckFailedNotice,
		}
	}
	if expired {
		return Decision{Redirect: router.Login(router.MarkerNoAuth)}
	}
	return Decision{Allow: true}
}
