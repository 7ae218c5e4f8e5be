// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatbox-tui/internal/config"
)

// backends returns one fresh store per backend.
func backends(t *testing.T) map[string]KV {
	t.Helper()
	dir := t.TempDir()

	fileKV, err := OpenFile(filepath.Join(dir, "session.json"))
	require.NoError(t, err)

	sqliteKV, err := OpenSQLite(filepath.Join(dir, "session.db"))
	require.NoError(t, err)

	key, err := LoadOrCreateKey(filepath.Join(dir, "storage.key"))
	require.NoError(t, err)
	inner, err := OpenFile(filepath.Join(dir, "sealed.json"))
	require.NoError(t, err)
	sealed, err := NewSealed(inner, key)
	require.NoError(t, err)

	stores := map[string]KV{"file": fileKV, "sqlite": sqliteKV, "sealed": sealed}
	t.Cleanup(func() {
		for _, kv := range stores {
			kv.Close()
		}
	})
	return stores
}

func TestKV_Contract(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := kv.Get(KeyToken)
			require.NoError(t, err)
			require.False(t, ok)

			require.NoError(t, kv.Set(KeyToken, "T"))
			require.NoError(t, kv.Set(KeyUser, `{"email":"a@b.com","fullName":"Ameer Khan"}`))

			v, ok, err := kv.Get(KeyToken)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, "T", v)

			require.NoError(t, kv.Set(KeyToken, "T2"))
			v, _, _ = kv.Get(KeyToken)
			require.Equal(t, "T2", v)

			require.NoError(t, kv.Remove(SessionKeys...))
			_, ok, err = kv.Get(KeyToken)
			require.NoError(t, err)
			require.False(t, ok)
			_, ok, _ = kv.Get(KeyUser)
			require.False(t, ok)

			// Removing missing keys is not an error.
			require.NoError(t, kv.Remove("nope"))
		})
	}
}

func TestFileKV_SeesExternalWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	a, err := OpenFile(path)
	require.NoError(t, err)
	b, err := OpenFile(path)
	require.NoError(t, err)

	require.NoError(t, a.Set(KeyToken, "from-a"))
	v, ok, err := b.Get(KeyToken)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "from-a", v)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileKV_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	kv, err := OpenFile(path)
	require.NoError(t, err)

	_, _, err = kv.Get(KeyToken)
	require.ErrorIs(t, err, ErrCorrupt)

	// A write replaces the corrupt document.
	require.NoError(t, kv.Set(KeyToken, "T"))
	v, ok, err := kv.Get(KeyToken)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "T", v)
}

func TestFileKV_Closed(t *testing.T) {
	kv, err := OpenFile(filepath.Join(t.TempDir(), "s.json"))
	require.NoError(t, err)
	require.NoError(t, kv.Close())

	_, _, err = kv.Get(KeyToken)
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, kv.Set(KeyToken, "x"), ErrClosed)
}

func TestSealed_EncryptsAtRest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")

	key, err := LoadOrCreateKey(filepath.Join(dir, "k"))
	require.NoError(t, err)
	inner, err := OpenFile(path)
	require.NoError(t, err)
	sealed, err := NewSealed(inner, key)
	require.NoError(t, err)

	require.NoError(t, sealed.Set(KeyToken, "super-secret-token"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "super-secret-token")
	require.Contains(t, string(raw), SealedPrefix)

	stored, _, err := inner.Get(KeyToken)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stored, SealedPrefix))

	// A value sealed for one key does not open under another.
	require.NoError(t, inner.Set(KeyUser, stored))
	_, _, err = sealed.Get(KeyUser)
	require.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestSealed_PassesThroughPlainValues(t *testing.T) {
	dir := t.TempDir()
	inner, err := OpenFile(filepath.Join(dir, "session.json"))
	require.NoError(t, err)
	require.NoError(t, inner.Set(KeyToken, "legacy-plain"))

	key, err := LoadOrCreateKey(filepath.Join(dir, "k"))
	require.NoError(t, err)
	sealed, err := NewSealed(inner, key)
	require.NoError(t, err)

	v, ok, err := sealed.Get(KeyToken)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "legacy-plain", v)
}

func TestLoadOrCreateKey_Stable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.key")
	k1, err := LoadOrCreateKey(path)
	require.NoError(t, err)
	k2, err := LoadOrCreateKey(path)
	require.NoError(t, err)
	require.Equal(t, k1, k2)
	require.Len(t, k1, 32)
}

func TestOpen_FromConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CHATBOX_HOME", dir)

	cfg := config.Default()
	cfg.Storage.Backend = "sqlite"
	cfg.Storage.Seal = true

	kv, err := Open(cfg)
	require.NoError(t, err)
	defer kv.Close()

	require.Equal(t, filepath.Join(dir, "session.db"), PathOf(kv))
	require.NoError(t, kv.Set(KeyToken, "T"))
	v, ok, err := kv.Get(KeyToken)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "T", v)

	_, err = os.Stat(filepath.Join(dir, "storage.key"))
	require.NoError(t, err)
}
