// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// env.go - Shared wiring for commands that touch the session or the API.

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jeranaias/chatbox-tui/internal/api"
	authflow "github.com/jeranaias/chatbox-tui/internal/auth"
	"github.com/jeranaias/chatbox-tui/internal/config"
	"github.com/jeranaias/chatbox-tui/internal/identity"
	"github.com/jeranaias/chatbox-tui/internal/model"
	"github.com/jeranaias/chatbox-tui/internal/session"
	"github.com/jeranaias/chatbox-tui/internal/storage"
)

// Env is built once per invocation and passed to every handler.
type Env struct {
	Config *config.Config
	KV     storage.KV
	Store  *session.Store
	Client *api.Client
	Flows  *authflow.Flows

	// Out receives command output; Err receives prompts and notices.
	Out io.Writer
	Err io.Writer

	// SignIn runs identity-provider sign-in. Nil means Google, built from
	// Config.Identity on first use.
	SignIn func(ctx context.Context) (model.Session, error)
}

// Open opens the configured storage and wires the client and flows over it.
func Open(cfg *config.Config) (*Env, error) {
	kv, err := storage.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open session storage: %w", err)
	}
	return NewEnv(cfg, kv, os.Stdout, os.Stderr), nil
}

// NewEnv wires an Env over kv.
func NewEnv(cfg *config.Config, kv storage.KV, out, errOut io.Writer) *Env {
	store := session.New(kv)
	client := api.NewClient(cfg.API.BaseURL, store).
		WithTimeout(cfg.API.Timeout.Std()).
		WithRateLimit(cfg.API.RequestsPerSecond).
		WithNumericRoomIDs(cfg.API.NumericRoomIDs)

	return &Env{
		Config: cfg,
		KV:     kv,
		Store:  store,
		Client: client,
		Flows:  authflow.NewFlows(client, store),
		Out:    out,
		Err:    errOut,
	}
}

// Close releases the storage.
func (e *Env) Close() error {
	return e.KV.Close()
}

// identitySignIn returns the sign-in function, or identity.ErrDisabled.
func (e *Env) identitySignIn() (func(context.Context) (model.Session, error), error) {
	if e.SignIn != nil {
		return e.SignIn, nil
	}
	provider, err := identity.New(e.Config.Identity)
	if err != nil {
		return nil, err
	}
	provider.WithOpener(func(url string) error {
		fmt.Fprintf(e.Err, "Opening your browser to sign in. If it does not open, visit:\n  %s\n", url)
		return identity.OpenBrowser(url)
	})
	e.SignIn = provider.SignIn
	return e.SignIn, nil
}

// requireSession runs the route guard offline, the same check the TUI
// makes before showing the chat screen.
func (e *Env) requireSession() (model.Session, error) {
	decision := authflow.NewGuard(e.KV).Check()
	if !decision.Allow {
		if decision.Notice != "" {
			return model.Session{}, &friendlyError{msg: decision.Notice, err: api.ErrNotSignedIn}
		}
		return model.Session{}, &friendlyError{
			msg: "not signed in or session expired; run 'chatbox login'",
			err: api.ErrNotSignedIn,
		}
	}
	sess, ok := e.Store.Get()
	if !ok {
		return model.Session{}, api.ErrNotSignedIn
	}
	return sess, nil
}
