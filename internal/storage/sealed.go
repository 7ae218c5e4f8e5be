// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/jeranaias/chatbox-tui/internal/util"
)

// SealedPrefix marks a value as encrypted (format: ENC:base64(nonce|ciphertext|tag)).
const SealedPrefix = "ENC:"

var (
	// ErrInvalidCiphertext indicates a sealed value is malformed.
	ErrInvalidCiphertext = errors.New("invalid ciphertext format")
	// ErrDecryptionFailed indicates the key is wrong or the value was tampered with.
	ErrDecryptionFailed = errors.New("decryption failed: authentication tag mismatch")
)

// Sealed wraps a KV and encrypts every value with XChaCha20-Poly1305.
// Values written before sealing was enabled are returned as-is.
type Sealed struct {
	inner KV
	aead  cipher.AEAD
}

// NewSealed wraps inner with a 32-byte key.
func NewSealed(inner KV, key []byte) (*Sealed, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	return &Sealed{inner: inner, aead: aead}, nil
}

// Path returns the wrapped store's location.
func (s *Sealed) Path() string {
	return PathOf(s.inner)
}

// Get returns the decrypted value stored under key.
func (s *Sealed) Get(key string) (string, bool, error) {
	v, ok, err := s.inner.Get(key)
	if err != nil || !ok {
		return v, ok, err
	}
	if !strings.HasPrefix(v, SealedPrefix) {
		return v, true, nil
	}
	plain, err := s.open(key, v)
	if err != nil {
		return "", false, err
	}
	return plain, true, nil
}

// Set encrypts value and stores it under key.
func (s *Sealed) Set(key, value string) error {
	sealed, err := s.seal(key, value)
	if err != nil {
		return err
	}
	return s.inner.Set(key, sealed)
}

// Remove deletes keys.
func (s *Sealed) Remove(keys ...string) error {
	return s.inner.Remove(keys...)
}

// Close closes the wrapped store.
func (s *Sealed) Close() error {
	return s.inner.Close()
}

// The key name is bound as associated data so values cannot be swapped
// between keys.
func (s *Sealed) seal(key, value string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(value)+s.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	out := s.aead.Seal(nonce, nonce, []byte(value), []byte(key))
	return SealedPrefix + base64.StdEncoding.EncodeToString(out), nil
}

func (s *Sealed) open(key, value string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, SealedPrefix))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCiphertext, err)
	}
	if len(raw) < s.aead.NonceSize()+s.aead.Overhead() {
		return "", ErrInvalidCiphertext
	}
	nonce, ct := raw[:s.aead.NonceSize()], raw[s.aead.NonceSize():]
	plain, err := s.aead.Open(nil, nonce, ct, []byte(key))
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plain), nil
}

// LoadOrCreateKey reads the hex-encoded sealing key at path, generating and
// persisting a new one on first use.
// SECURITY: The key file is owner-only.
func LoadOrCreateKey(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		key, err := hex.DecodeString(strings.TrimSpace(string(data)))
		if err != nil || len(key) != chacha20poly1305.KeySize {
			return nil, fmt.Errorf("invalid key file %s", path)
		}
		return key, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read key file: %w", err)
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(path, []byte(hex.EncodeToString(key)), 0600, 0700); err != nil {
		return nil, fmt.Errorf("write key file: %w", err)
	}
	return key, nil
}
