// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jeranaias/chatbox-tui/internal/api"
	"github.com/jeranaias/chatbox-tui/internal/model"
	"github.com/jeranaias/chatbox-tui/internal/session"
	"github.com/jeranaias/chatbox-tui/internal/storage"
)

// SessionExpiredMessage is shown on the login screen when the stored token
// has already expired.
const SessionExpiredMessage = "Your session has expired. Please log in again."

// Authenticator is the part of the API client the flows use.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (api.AuthResult, error)
	Register(ctx context.Context, fullName, email, password string) (api.AuthResult, error)
}

// Flows runs login, registration, and logout against the API and writes
// the outcome to the session store.
type Flows struct {
	client Authenticator
	store  *session.Store
}

// NewFlows wires the API client to the session store.
func NewFlows(client Authenticator, store *session.Store) *Flows {
	return &Flows{client: client, store: store}
}

// Store returns the session store the flows write to.
func (f *Flows) Store() *session.Store {
	return f.store
}

// Login authenticates and stores the session. Validation failures return
// ErrMissingFields without a network call.
func (f *Flows) Login(ctx context.Context, email, password string) (model.Session, error) {
	email = strings.TrimSpace(email)
	if err := ValidateLogin(email, password); err != nil {
		return model.Session{}, err
	}

	res, err := f.client.Authenticate(ctx, email, password)
	if err != nil {
		slog.Info("login failed", "email", email, "error", err)
		return model.Session{}, err
	}

	sess := model.Session{Email: email, FullName: res.FullName, Token: res.Token}
	if err := f.store.Set(sess); err != nil {
		return model.Session{}, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

// Register validates the form, creates the account, and stores the session.
// A failed validation is returned as FieldErrors and nothing is sent.
func (f *Flows) Register(ctx context.Context, email, fullName, password string) (model.Session, error) {
	email = strings.TrimSpace(email)
	fullName = CapitalizeName(strings.TrimSpace(fullName))
	if fe := ValidateSignUp(email, fullName, password); !fe.OK() {
		return model.Session{}, fe
	}

	res, err := f.client.Register(ctx, fullName, email, password)
	if err != nil {
		slog.Info("registration failed", "email", email, "error", err)
		return model.Session{}, err
	}

	sess := model.Session{Email: email, FullName: fullName, Token: res.Token}
	if err := f.store.Set(sess); err != nil {
		return model.Session{}, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

// Adopt stores a session obtained elsewhere, such as identity-provider
// sign-in.
func (f *Flows) Adopt(sess model.Session) error {
	return f.store.Set(sess)
}

// Logout clears the session.
func (f *Flows) Logout() error {
	return f.store.Clear()
}

// ArrivalNotice explains why the user landed on the login screen: the
// stored token has expired, or it cannot be decoded. It returns "" when
// no token is stored or the token is still valid.
func (f *Flows) ArrivalNotice() string {
	token, ok, err := f.store.KV().Get(storage.KeyToken)
	if err != nil || !ok || token == "" {
		return ""
	}
	expired, err := TokenExpired(token)
	switch {
	case err != nil:
		return SessionCheckFailedNotice
	case expired:
		return SessionExpiredMessage
	default:
		return ""
	}
}

// FailureMessage turns a login or registration error into banner text.
func FailureMessage(err error) string {
	return api.MessageOr(err, api.GenericErrorMessage)
}
