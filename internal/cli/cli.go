// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command parsing and usage text for chatbox.

package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdSignup
	CmdGoogle
	CmdLogout
	CmdWhoami
	CmdRecent
	CmdHistory
	CmdAsk
	CmdConfig
	CmdVersion
	CmdHelp
	// CmdUnknown is returned for an unrecognized command; Args.Unknown holds it.
	CmdUnknown
)

// String returns the command name as typed.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdLogin:
		return "login"
	case CmdSignup:
		return "signup"
	case CmdGoogle:
		return "google"
	case CmdLogout:
		return "logout"
	case CmdWhoami:
		return "whoami"
	case CmdRecent:
		return "recent"
	case CmdHistory:
		return "history"
	case CmdAsk:
		return "ask"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	JSON    bool
	Verbose bool

	// Command-specific
	Route      string // tui: start route
	Room       string // ask: existing room id
	Subcommand string // config: show, path, init
	Query      string // ask: prompt text
	Confirm    bool   // config init: overwrite without asking
	Unknown    string // the unrecognized command, for CmdUnknown

	// Positional holds the arguments after the command.
	Positional []string
}

// boolFlags are the flags that never take a value.
var boolFlags = []string{"json", "verbose", "confirm", "help", "h", "version"}

const usageText = `chatbox - terminal chat client

Usage:
  chatbox                        Start the TUI (default)
  chatbox tui [--route PATH]     Start the TUI at a route, e.g. /ameerchatbox/42
  chatbox login                  Log in with email and password
  chatbox signup                 Create an account
  chatbox google                 Sign in with Google
  chatbox logout                 Clear the stored session
  chatbox whoami [--json]        Show the signed-in user
  chatbox recent [--json]        List recent chats
  chatbox history ID [--json]    Print the messages of a chat
  chatbox ask [--room ID] TEXT   Send one prompt and print the reply
  chatbox config [show|path|init [--confirm]]
                                 Show, locate, or create the config file
  chatbox version [--json]       Show version information
  chatbox help                   Show this help

Global flags:
  --json                         Machine-readable output
  --verbose                      Log debug messages

Configuration:
  ~/.chatbox/config.toml (or $CHATBOX_HOME/config.toml), overridden by
  CHATBOX_* environment variables and a .env file in the working directory.
`

// Parse parses argv, usually os.Args[1:].
func Parse(argv []string) (Command, Args) {
	p := NewArgParser(argv, boolFlags...)

	args := Args{
		JSON:    p.BoolFlag("json"),
		Verbose: p.BoolFlag("verbose"),
		Route:   p.Flag("route"),
		Room:    p.Flag("room"),
		Confirm: p.BoolFlag("confirm"),
	}
	args.Positional = p.PositionalFrom(1)
	if len(args.Positional) > 0 {
		args.Subcommand = strings.ToLower(args.Positional[0])
	}
	args.Query = strings.Join(args.Positional, " ")

	if p.PositionalCount() == 0 {
		switch {
		case p.BoolFlag("help") || p.BoolFlag("h"):
			return CmdHelp, args
		case p.BoolFlag("version"):
			return CmdVersion, args
		}
		return CmdTUI, args
	}

	switch name := p.Command(); name {
	case "tui":
		return CmdTUI, args
	case "login", "signin":
		return CmdLogin, args
	case "signup", "register":
		return CmdSignup, args
	case "google":
		return CmdGoogle, args
	case "logout", "signout":
		return CmdLogout, args
	case "whoami", "me":
		return CmdWhoami, args
	case "recent":
		return CmdRecent, args
	case "history":
		return CmdHistory, args
	case "ask":
		return CmdAsk, args
	case "config":
		return CmdConfig, args
	case "version":
		return CmdVersion, args
	case "help":
		return CmdHelp, args
	default:
		args.Unknown = name
		return CmdUnknown, args
	}
}

// PrintUsage writes the usage text.
func PrintUsage(w io.Writer) {
	fmt.Fprint(w, usageText)
}

// HandleHelp prints usage to w.
func HandleHelp(w io.Writer) error {
	PrintUsage(w)
	return nil
}

// HandleUnknown reports an unrecognized command with a suggestion.
func HandleUnknown(args Args) error {
	msg := fmt.Sprintf("unknown command %q", args.Unknown)
	if s := SuggestCommand(args.Unknown); s != "" {
		msg += fmt.Sprintf("; did you mean %q?", s)
	}
	return &UsageError{Message: msg + " (see 'chatbox help')"}
}

// VersionInfo is the version command's JSON payload.
type VersionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// HandleVersion prints version information.
func HandleVersion(w io.Writer, args Args) error {
	info := VersionInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if args.JSON {
		return NewJSONResponse("version", info).Write(w)
	}
	fmt.Fprintf(w, "chatbox %s\n", info.Version)
	fmt.Fprintf(w, "  Commit:   %s\n", info.GitCommit)
	fmt.Fprintf(w, "  Built:    %s\n", info.BuildDate)
	fmt.Fprintf(w, "  Go:       %s\n", info.GoVersion)
	fmt.Fprintf(w, "  Platform: %s\n", info.Platform)
	return nil
}
