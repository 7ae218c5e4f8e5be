// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_Basic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	data := []byte(`{"token":"abc"}`)

	if err := AtomicWriteFileWithDir(path, data, 0600, 0700); err != nil {
		t.Fatalf("AtomicWriteFileWithDir failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(content) != string(data) {
		t.Errorf("Content mismatch: got %q, want %q", string(content), string(data))
	}
}

func TestAtomicWriteFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	if err := AtomicWriteFileWithDir(path, []byte("initial"), 0600, 0700); err != nil {
		t.Fatalf("First write failed: %v", err)
	}
	if err := AtomicWriteFileWithDir(path, []byte("updated"), 0600, 0700); err != nil {
		t.Fatalf("Second write failed: %v", err)
	}

	content, _ := os.ReadFile(path)
	if string(content) != "updated" {
		t.Errorf("Expected 'updated', got %q", string(content))
	}

	// No temp files left behind
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("Expected 1 file in directory, found %d", len(entries))
	}
}

func TestAtomicWriteFileWithDir_Permissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "newdir", "config.toml")

	if err := AtomicWriteFileWithDir(path, []byte("x"), 0600, 0700); err != nil {
		t.Fatalf("AtomicWriteFileWithDir failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("File not created: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected mode 0600, got %o", info.Mode().Perm())
	}
}

// =============================================================================
// STRING TESTS
// =============================================================================

func TestTruncateWidth(t *testing.T) {
	if got := TruncateWidth("short", 10); got != "short" {
		t.Errorf("expected unchanged string, got %q", got)
	}
	if got := TruncateWidth("abcdefghij", 6); got != "abc..." {
		t.Errorf("TruncateWidth = %q, want %q", got, "abc...")
	}
	// Each CJK character is two cells wide.
	if got := TruncateWidth("日本語テキスト", 7); got != "日本..." {
		t.Errorf("TruncateWidth CJK = %q, want %q", got, "日本...")
	}
}

func TestFirstWords(t *testing.T) {
	tests := []struct {
		input    string
		n        int
		expected string
	}{
		{"Hello there friend", 5, "Hello there friend"},
		{"one two three four five six seven", 5, "one two three four five"},
		{"  spaced\tout\n words ", 2, "spaced out"},
		{"", 5, ""},
		{"anything", 0, ""},
	}

	for _, tt := range tests {
		if got := FirstWords(tt.input, tt.n); got != tt.expected {
			t.Errorf("FirstWords(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.expected)
		}
	}
}

func TestInitials(t *testing.T) {
	tests := map[string]string{
		"Ameer Khan":        "AK",
		"ameer khan":        "AK",
		"Single":            "S",
		"  Mary  Jane Watson ": "MJW",
		"":                  "",
		"émile zola":        "ÉZ",
	}

	for input, expected := range tests {
		if got := Initials(input); got != expected {
			t.Errorf("Initials(%q) = %q, want %q", input, got, expected)
		}
	}
}
