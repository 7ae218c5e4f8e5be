// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/jeranaias/chatbox-tui/internal/util"
)

// FileKV stores all keys in one JSON object on disk. Every read goes to the
// file so that changes made by another chatbox process are visible
// immediately.
type FileKV struct {
	path   string
	mu     sync.Mutex
	closed bool
}

// OpenFile opens (without creating) the JSON store at path.
func OpenFile(path string) (*FileKV, error) {
	if path == "" {
		return nil, errors.New("storage path is empty")
	}
	return &FileKV{path: path}, nil
}

// Path returns the backing file.
func (f *FileKV) Path() string {
	return f.path
}

// Get returns the value stored under key.
func (f *FileKV) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return "", false, ErrClosed
	}

	data, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := data[key]
	return v, ok, nil
}

// Set stores value under key.
func (f *FileKV) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}

	data, err := f.load()
	if err != nil && !errors.Is(err, ErrCorrupt) {
		return err
	}
	if data == nil {
		data = map[string]string{}
	}
	data[key] = value
	return f.save(data)
}

// Remove deletes keys; missing keys are ignored.
func (f *FileKV) Remove(keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}

	data, err := f.load()
	if err != nil && !errors.Is(err, ErrCorrupt) {
		return err
	}
	if data == nil {
		data = map[string]string{}
	}
	changed := errors.Is(err, ErrCorrupt)
	for _, k := range keys {
		if _, ok := data[k]; ok {
			delete(data, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return f.save(data)
}

// Close marks the store closed.
func (f *FileKV) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *FileKV) load() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	if len(raw) == 0 {
		return map[string]string{}, nil
	}

	data := map[string]string{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, f.path, err)
	}
	return data, nil
}

// SECURITY: The file holds a bearer token, so it is owner-only.
func (f *FileKV) save(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode storage: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(f.path, raw, 0600, 0700); err != nil {
		return fmt.Errorf("write storage: %w", err)
	}
	return nil
}
