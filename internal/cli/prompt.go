// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// prompt.go - Line and password input for interactive commands.
//
// USABILITY: Line editing via liner; passwords are read without echo.

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"
)

// ErrAborted is returned when the user cancels a prompt with Ctrl+C.
var ErrAborted = errors.New("aborted")

// Prompter reads answers from the user.
type Prompter interface {
	// Line reads one line with echo.
	Line(prompt string) (string, error)
	// Password reads one line without echo when possible.
	Password(prompt string) (string, error)
	Close() error
}

// =============================================================================
// TERMINAL PROMPTER
// =============================================================================

// TerminalPrompter reads from stdin with liner line editing.
type TerminalPrompter struct {
	line *liner.State
	out  io.Writer
}

// NewTerminalPrompter creates a prompter over the process terminal.
func NewTerminalPrompter() *TerminalPrompter {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return &TerminalPrompter{line: line, out: os.Stderr}
}

// Line implements Prompter.
func (p *TerminalPrompter) Line(prompt string) (string, error) {
	input, err := p.line.Prompt(prompt)
	if err == liner.ErrPromptAborted {
		return "", ErrAborted
	}
	if err != nil {
		return "", err
	}
	return input, nil
}

// Password implements Prompter. Without a terminal the input is read as
// an ordinary line.
func (p *TerminalPrompter) Password(prompt string) (string, error) {
	if !IsTTY() {
		return p.Line(prompt)
	}
	fmt.Fprint(p.out, prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}

// Close restores the terminal.
func (p *TerminalPrompter) Close() error {
	return p.line.Close()
}

// =============================================================================
// CONFIRMATION
// =============================================================================

// ConfirmationOptions controls Confirm.
type ConfirmationOptions struct {
	// ConfirmFlag indicates --confirm was passed
	ConfirmFlag bool
	// JSONMode indicates --json was passed; prompting is not allowed
	JSONMode bool
}

// Confirm asks a yes/no question. --confirm answers yes without asking;
// JSON mode without --confirm is an error.
func Confirm(p Prompter, question string, opts ConfirmationOptions) (bool, error) {
	if opts.ConfirmFlag {
		return true, nil
	}
	if opts.JSONMode {
		return false, &UsageError{Message: "--confirm is required with --json"}
	}
	answer, err := p.Line(question + " [y/N] ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
