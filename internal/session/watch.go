// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jeranaias/chatbox-tui/internal/storage"
)

// WatchDebounce coalesces the burst of events an atomic rename produces.
const WatchDebounce = 100 * time.Millisecond

// Watch reloads the session whenever the backing file changes, so a
// `chatbox logout` in another terminal signs the running program out.
// It returns once the watcher is installed and stops when ctx is done.
// Stores without a file location are not watched.
func (s *Store) Watch(ctx context.Context) error {
	path := storage.PathOf(s.kv)
	if path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	// The directory is watched because atomic writes replace the file inode.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	go s.watchLoop(ctx, watcher, filepath.Base(path))
	return nil
}

func (s *Store) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, base string) {
	defer watcher.Close()

	timer := time.NewTimer(WatchDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			// Matches session.db-wal and session.db-shm as well.
			if !strings.HasPrefix(filepath.Base(event.Name), base) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(WatchDebounce)
			pending = true

		case <-timer.C:
			pending = false
			s.Reload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("session watcher error", "error", err)
		}
	}
}
