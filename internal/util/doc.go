// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions shared across chatbox packages.
//
// # Key Functions
//
// String Utilities:
//   - TruncateWidth: Cell-width truncation for terminal layout
//   - FirstWords: Leading words of a text, used for chat titles
//   - Initials: Avatar initials from a full name
//
// File Operations:
//   - AtomicWriteFileWithDir: Crash-safe file writing with fsync
//
// # Usage
//
//	title := util.FirstWords(reply, 5) + "..."
//	err := util.AtomicWriteFileWithDir(path, data, 0600, 0700)
package util
