// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the signed-in user and mirrors it into local storage.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/jeranaias/chatbox-tui/internal/model"
	"github.com/jeranaias/chatbox-tui/internal/storage"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrIncomplete is returned by Set when the session lacks an email or token.
	ErrIncomplete = errors.New("session requires email and token")
)

// =============================================================================
// STORE
// =============================================================================

// Listener receives the session after every change. ok is false once the
// session has been cleared.
type Listener func(sess model.Session, ok bool)

// Store is the single writer of the Session. It is constructed once and
// handed to every component that needs the signed-in user.
type Store struct {
	kv storage.KV

	mu      sync.RWMutex
	current model.Session
	present bool

	subMu  sync.Mutex
	subs   map[int]Listener
	nextID int
}

// New creates a store over kv and rehydrates any persisted session.
func New(kv storage.KV) *Store {
	s := &Store{
		kv:   kv,
		subs: make(map[int]Listener),
	}
	sess, ok := s.read()
	s.current, s.present = sess, ok
	return s
}

// KV returns the backing storage. The route guard reads the token from it
// directly on every navigation.
func (s *Store) KV() storage.KV {
	return s.kv
}

// Get returns the current session.
func (s *Store) Get() (model.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.present
}

// Token returns the bearer token of the current session, or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.present {
		return ""
	}
	return s.current.Token
}

// Set persists sess and makes it current.
func (s *Store) Set(sess model.Session) error {
	if sess.Email == "" || sess.Token == "" {
		return ErrIncomplete
	}

	user, err := json.Marshal(sess.User())
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	prev, err := s.snapshot()
	if err != nil {
		return fmt.Errorf("read previous session: %w", err)
	}

	// Token last: a reader never sees a token without its profile.
	writes := []entry{
		{storage.KeyUser, string(user), true},
		{storage.KeyEmail, sess.Email, true},
		{storage.KeyFullName, sess.FullName, true},
		{storage.KeyToken, sess.Token, true},
	}
	// The old token goes first so a half-written profile is never paired
	// with another user's credential.
	if err := s.kv.Remove(storage.KeyToken); err != nil {
		return fmt.Errorf("persist %s: %w", storage.KeyToken, err)
	}
	for _, w := range writes {
		if err := s.kv.Set(w.key, w.value); err != nil {
			s.rollback(prev)
			return fmt.Errorf("persist %s: %w", w.key, err)
		}
	}

	s.mu.Lock()
	s.current, s.present = sess, true
	s.mu.Unlock()

	slog.Info("session stored", "email", sess.Email)
	s.notify(sess, true)
	return nil
}

// Clear removes the session from storage and memory. When storage cannot
// be cleared the session stays current and subscribers are not told.
func (s *Store) Clear() error {
	if err := s.kv.Remove(storage.SessionKeys...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	s.mu.Lock()
	s.current, s.present = model.Session{}, false
	s.mu.Unlock()

	slog.Info("session cleared")
	s.notify(model.Session{}, false)
	return nil
}

// entry is one stored session key. present is false for a key that was
// absent before a write.
type entry struct {
	key, value string
	present    bool
}

func (s *Store) snapshot() ([]entry, error) {
	prev := make([]entry, 0, len(storage.SessionKeys))
	for _, key := range storage.SessionKeys {
		v, ok, err := s.kv.Get(key)
		if err != nil {
			return nil, err
		}
		prev = append(prev, entry{key, v, ok})
	}
	return prev, nil
}

// rollback restores the keys captured by snapshot, token last. If any
// profile key cannot be restored the token is left absent. Memory is then
// brought in line with whatever storage holds.
func (s *Store) rollback(prev []entry) {
	defer s.Reload()

	var token entry
	for _, e := range prev {
		if e.key == storage.KeyToken {
			token = e
			continue
		}
		if err := s.restore(e); err != nil {
			slog.Warn("restore session key", "key", e.key, "error", err)
			return
		}
	}
	if err := s.restore(token); err != nil {
		slog.Warn("restore session key", "key", token.key, "error", err)
	}
}

func (s *Store) restore(e entry) error {
	if !e.present {
		return s.kv.Remove(e.key)
	}
	return s.kv.Set(e.key, e.value)
}

// Reload re-reads storage and notifies subscribers when the session changed.
func (s *Store) Reload() {
	sess, ok := s.read()

	s.mu.Lock()
	changed := ok != s.present || sess != s.current
	s.current, s.present = sess, ok
	s.mu.Unlock()

	if changed {
		slog.Debug("session changed on disk", "present", ok)
		s.notify(sess, ok)
	}
}

// Subscribe registers fn for session changes and returns a function that
// removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) notify(sess model.Session, ok bool) {
	s.subMu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	listeners := make([]Listener, 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, s.subs[id])
	}
	s.subMu.Unlock()

	for _, fn := range listeners {
		fn(sess, ok)
	}
}

// read rebuilds a Session only when both the user entry and the token are
// present. Legacy flat keys fill profile fields the user entry lacks.
func (s *Store) read() (model.Session, bool) {
	rawUser, hasUser, err := s.kv.Get(storage.KeyUser)
	if err != nil {
		slog.Warn("read stored user", "error", err)
		return model.Session{}, false
	}
	token, hasToken, err := s.kv.Get(storage.KeyToken)
	if err != nil {
		slog.Warn("read stored token", "error", err)
		return model.Session{}, false
	}
	if !hasUser || !hasToken || token == "" {
		return model.Session{}, false
	}

	var user model.StoredUser
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		slog.Warn("stored user is not valid JSON", "error", err)
		return model.Session{}, false
	}

	if user.Email == "" {
		if v, ok, _ := s.kv.Get(storage.KeyEmail); ok {
			user.Email = v
		}
	}
	if user.FullName == "" {
		if v, ok, _ := s.kv.Get(storage.KeyFullName); ok {
			user.FullName = v
		}
	}

	return model.Session{Email: user.Email, FullName: user.FullName, Token: token}, true
}
