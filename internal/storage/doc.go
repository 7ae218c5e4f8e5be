// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the local key/value store that holds the signed-in
// session between runs.
//
// It plays the part a browser's local storage plays for a web client: a flat
// string map with the keys "token", "user", and the legacy "email" and
// "fullName".
//
// # Key Types
//
//   - KV: Get/Set/Remove/Close contract shared by all backends
//   - FileKV: One JSON document written atomically (default)
//   - SQLiteKV: A kv table in a pure Go SQLite database
//   - Sealed: Wrapper that encrypts values at rest
//
// # Usage
//
//	kv, err := storage.Open(cfg)
//	if err != nil {
//	    return err
//	}
//	defer kv.Close()
//
//	token, ok, err := kv.Get(storage.KeyToken)
//
// # Storage Location
//
// ~/.chatbox/session.json or ~/.chatbox/session.db, chosen by
// storage.backend in the config file.
package storage
