// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the local key/value store that holds the signed-in
// session between runs.
package storage

import (
	"errors"
	"fmt"

	"github.com/jeranaias/chatbox-tui/internal/config"
)

// =============================================================================
// KEYS
// =============================================================================

// Storage keys. KeyEmail and KeyFullName are the legacy flat profile keys
// still written for older readers.
const (
	KeyToken    = "token"
	KeyUser     = "user"
	KeyEmail    = "email"
	KeyFullName = "fullName"
)

// SessionKeys lists every key that belongs to a session.
var SessionKeys = []string{KeyUser, KeyToken, KeyEmail, KeyFullName}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("storage closed")
	// ErrCorrupt indicates the backing file could not be decoded.
	ErrCorrupt = errors.New("storage corrupt")
)

// =============================================================================
// INTERFACE
// =============================================================================

// KV is a string key/value store. A missing key is reported with ok=false,
// not an error.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(keys ...string) error
	Close() error
}

// Located is implemented by stores backed by a file on disk.
type Located interface {
	Path() string
}

// Open builds the store selected by cfg.Storage, sealing values when
// configured.
func Open(cfg *config.Config) (KV, error) {
	path, err := cfg.StoragePath()
	if err != nil {
		return nil, fmt.Errorf("resolve storage path: %w", err)
	}

	var kv KV
	switch cfg.Storage.Backend {
	case "sqlite":
		kv, err = OpenSQLite(path)
	default:
		kv, err = OpenFile(path)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Storage.Seal {
		keyPath, err := cfg.KeyPath()
		if err != nil {
			kv.Close()
			return nil, err
		}
		key, err := LoadOrCreateKey(keyPath)
		if err != nil {
			kv.Close()
			return nil, err
		}
		sealed, err := NewSealed(kv, key)
		if err != nil {
			kv.Close()
			return nil, err
		}
		return sealed, nil
	}
	return kv, nil
}

// PathOf returns the on-disk location of kv, or "" when it has none.
func PathOf(kv KV) string {
	if l, ok := kv.(Located); ok {
		return l.Path()
	}
	return ""
}
