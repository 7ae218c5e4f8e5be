// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// tui.go - Launch the full-screen client.

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	authflow "github.com/jeranaias/chatbox-tui/internal/auth"
	"github.com/jeranaias/chatbox-tui/internal/identity"
	"github.com/jeranaias/chatbox-tui/internal/router"
	"github.com/jeranaias/chatbox-tui/internal/ui/app"
	uiauth "github.com/jeranaias/chatbox-tui/internal/ui/auth"
	"github.com/jeranaias/chatbox-tui/internal/ui/chat"
	"github.com/jeranaias/chatbox-tui/internal/ui/styles"
)

// StartRoute resolves --route. Without one the TUI opens the chat screen
// and lets the guard redirect.
func StartRoute(raw string) router.Route {
	if raw == "" {
		return router.Chat(nil)
	}
	route, redirected := router.Parse(raw)
	if redirected {
		slog.Info("unknown start route", "route", raw, "resolved", route.String())
	}
	return route
}

// BuildDeps assembles the screens' shared dependencies from env.
func BuildDeps(env *Env) app.Deps {
	cfg := env.Config

	auth := uiauth.Options{
		BannerDuration: cfg.UI.BannerDuration.Std(),
		PopupDuration:  cfg.UI.PopupDuration.Std(),
	}
	if signIn, err := env.identitySignIn(); err == nil {
		auth.SignIn = signIn
	} else if !errors.Is(err, identity.ErrDisabled) {
		slog.Warn("google sign-in unavailable", "error", err)
	}

	return app.Deps{
		Theme:  styles.NewTheme(cfg.UI.Theme),
		Store:  env.Store,
		Flows:  env.Flows,
		Guard:  authflow.NewGuard(env.KV),
		Client: env.Client,
		Auth:   auth,
		Chat: chat.Options{
			BannerDuration: cfg.UI.BannerDuration.Std(),
			WordWrap:       cfg.UI.WordWrap,
			PanelDismiss:   cfg.UI.PanelDismiss,
		},
	}
}

// RunTUI runs the client until the user quits or ctx is cancelled.
func RunTUI(ctx context.Context, env *Env, args Args) error {
	if !IsTTY() || !IsStdoutTTY() {
		return &TTYRequiredError{Operation: "start the TUI"}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Another process logging in or out shows up as a session change.
	if err := env.Store.Watch(ctx); err != nil {
		slog.Warn("session watcher unavailable", "error", err)
	}

	m := app.New(BuildDeps(env), StartRoute(args.Route))

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if env.Config.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(m, opts...)

	unbind := m.Bind(p.Send)
	defer unbind()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}
