// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the signed-in user and mirrors it into local storage.
//
// The Store is the only writer of the Session. It is built once at startup
// and passed to the screens and commands that need it; nothing reaches it
// through package state.
//
// # Key Types
//
//   - Store: Get, Set, Clear, and Subscribe over a storage.KV
//   - Listener: Callback invoked after every session change
//
// # Usage
//
//	store := session.New(kv)
//	unsubscribe := store.Subscribe(func(s model.Session, ok bool) {
//	    program.Send(app.SessionChangedMsg{Session: s, OK: ok})
//	})
//	defer unsubscribe()
//
//	if err := store.Watch(ctx); err != nil {
//	    slog.Warn("session watch disabled", "error", err)
//	}
package session
