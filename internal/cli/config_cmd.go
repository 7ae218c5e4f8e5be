// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - config show, path, and init.

package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/jeranaias/chatbox-tui/internal/config"
)

// configPathInfo is the JSON payload of config path.
type configPathInfo struct {
	Config  string `json:"config"`
	Storage string `json:"storage"`
	Log     string `json:"log"`
}

// HandleConfig dispatches the config subcommands. show is the default.
func HandleConfig(w io.Writer, cfg *config.Config, args Args, p Prompter) error {
	switch args.Subcommand {
	case "", "show":
		return showConfig(w, cfg, args)
	case "path":
		return showConfigPath(w, cfg, args)
	case "init":
		return initConfig(w, args, p)
	default:
		return &UsageError{Message: fmt.Sprintf("unknown config subcommand %q (show, path, init)", args.Subcommand)}
	}
}

// showConfig prints the effective configuration with secrets redacted.
func showConfig(w io.Writer, cfg *config.Config, args Args) error {
	safe := cfg.Redacted()
	if args.JSON {
		return NewJSONResponse("config", safe).Write(w)
	}
	data, err := config.EncodeTOML(safe)
	if err != nil {
		return err
	}
	out := string(data)
	if ColorsEnabled() {
		out = highlight(out, "toml")
	}
	fmt.Fprint(w, out)
	return nil
}

func showConfigPath(w io.Writer, cfg *config.Config, args Args) error {
	var info configPathInfo
	var err error
	if info.Config, err = config.ConfigPathTOML(); err != nil {
		return err
	}
	if info.Storage, err = cfg.StoragePath(); err != nil {
		return err
	}
	if info.Log, err = cfg.LogPath(); err != nil {
		return err
	}

	if args.JSON {
		return NewJSONResponse("config", info).Write(w)
	}
	fmt.Fprintln(w, RenderField("Config", info.Config))
	fmt.Fprintln(w, RenderField("Storage", info.Storage))
	fmt.Fprintln(w, RenderField("Log", info.Log))
	return nil
}

// initConfig writes the default configuration, asking before it replaces
// an existing file.
func initConfig(w io.Writer, args Args, p Prompter) error {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return err
	}

	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		ok, err := Confirm(p, fmt.Sprintf("%s exists. Overwrite?", path), ConfirmationOptions{
			ConfirmFlag: args.Confirm,
			JSONMode:    args.JSON,
		})
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(w, DimStyle.Render("Left unchanged."))
			return nil
		}
	case !errors.Is(statErr, fs.ErrNotExist):
		return fmt.Errorf("check %s: %w", path, statErr)
	}

	if err := config.SaveTOML(config.Default(), path); err != nil {
		return err
	}
	if args.JSON {
		return NewJSONResponse("config", configPathInfo{Config: path}).Write(w)
	}
	fmt.Fprintf(w, "%s %s\n", SuccessStyle.Render("Wrote"), path)
	return nil
}
