// chatbox - A terminal client for the Ameer chat service.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jeranaias/chatbox-tui/internal/cli"
	"github.com/jeranaias/chatbox-tui/internal/config"
	"github.com/jeranaias/chatbox-tui/internal/logging"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse(os.Args[1:])
	if err := run(cmd, args); err != nil {
		cli.DisplayError(os.Stderr, cmd.String(), err, args.JSON)
		os.Exit(cli.GetExitCode(err))
	}
}

func run(cmd cli.Command, args cli.Args) error {
	// Commands that need neither config nor session.
	switch cmd {
	case cli.CmdHelp:
		return cli.HandleHelp(os.Stdout)
	case cli.CmdVersion:
		return cli.HandleVersion(os.Stdout, args)
	case cli.CmdUnknown:
		return cli.HandleUnknown(args)
	}

	cfg, err := config.Load()
	if cfg == nil {
		return err
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v; using defaults\n", err)
	}
	if args.Verbose {
		cfg.Log.Level = "debug"
	}

	closer, err := logging.Setup(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		logging.Discard()
	} else {
		defer closer.Close()
	}

	if cmd == cli.CmdConfig {
		p := cli.NewTerminalPrompter()
		defer p.Close()
		return cli.HandleConfig(os.Stdout, cfg, args, p)
	}

	env, err := cli.Open(cfg)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case cli.CmdTUI:
		return cli.RunTUI(ctx, env, args)
	case cli.CmdLogin, cli.CmdSignup:
		if err := cli.RequiresTTY(cmd.String()); err != nil {
			return err
		}
		p := cli.NewTerminalPrompter()
		defer p.Close()
		if cmd == cli.CmdLogin {
			return cli.HandleLogin(ctx, env, args, p)
		}
		return cli.HandleSignup(ctx, env, args, p)
	case cli.CmdGoogle:
		return cli.HandleGoogle(ctx, env, args)
	case cli.CmdLogout:
		return cli.HandleLogout(env, args)
	case cli.CmdWhoami:
		return cli.HandleWhoami(env, args)
	case cli.CmdRecent:
		return cli.HandleRecent(ctx, env, args)
	case cli.CmdHistory:
		return cli.HandleHistory(ctx, env, args)
	case cli.CmdAsk:
		return cli.HandleAsk(ctx, env, args, cli.PipedStdin())
	}
	return cli.HandleUnknown(args)
}
