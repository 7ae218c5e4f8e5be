// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the commands of chatbox.
//
// With no command chatbox starts the TUI. The other commands reuse the same
// session storage and API client so a shell and a running TUI stay in sync:
// logging out from one logs out the other.
//
// # Key Types
//
//   - Command: Enumeration of the available commands
//   - Args: Parsed flags and positional arguments
//   - Env: Storage, session, and API client shared by every handler
//   - Prompter: Line and password input, faked in tests
//
// # Usage
//
//	cmd, args := cli.Parse(os.Args[1:])
//	env, err := cli.Open(cfg)
//	...
//	switch cmd {
//	case cli.CmdAsk:
//	    err = cli.HandleAsk(ctx, env, args, cli.PipedStdin())
//	}
//
// # Commands
//
//   - tui: Full-screen client (default)
//   - login, signup, google, logout, whoami: Session management
//   - recent, history, ask: Chat without the TUI
//   - config: Show, locate, or create the config file
//
// Most commands accept --json for scripting.
package cli
