// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - login, signup, google, logout, and whoami commands.

package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jeranaias/chatbox-tui/internal/api"
	authflow "github.com/jeranaias/chatbox-tui/internal/auth"
	"github.com/jeranaias/chatbox-tui/internal/model"
)

// sessionInfo is the JSON payload for commands that report the user.
type sessionInfo struct {
	Email     string     `json:"email"`
	FullName  string     `json:"fullName"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Expired   bool       `json:"expired"`
}

// =============================================================================
// LOGIN / SIGNUP
// =============================================================================

// HandleLogin prompts for credentials and stores the session.
func HandleLogin(ctx context.Context, env *Env, args Args, p Prompter) error {
	email, err := p.Line("Email: ")
	if err != nil {
		return err
	}
	password, err := p.Password("Password: ")
	if err != nil {
		return err
	}

	sess, err := env.Flows.Login(ctx, email, password)
	if err != nil {
		return authFailure(err)
	}
	return reportSignedIn(env, args, "login", sess)
}

// HandleSignup prompts for the registration form and stores the session.
func HandleSignup(ctx context.Context, env *Env, args Args, p Prompter) error {
	email, err := p.Line("Email: ")
	if err != nil {
		return err
	}
	fullName, err := p.Line("Full name: ")
	if err != nil {
		return err
	}
	password, err := p.Password("Password: ")
	if err != nil {
		return err
	}

	sess, err := env.Flows.Register(ctx, email, fullName, password)
	if err != nil {
		var fe authflow.FieldErrors
		if errors.As(err, &fe) {
			return &UsageError{Message: fe.Error()}
		}
		return authFailure(err)
	}
	if !args.JSON {
		fmt.Fprintln(env.Out, SuccessStyle.Render("Registration successful."))
	}
	return reportSignedIn(env, args, "signup", sess)
}

// HandleGoogle runs identity-provider sign-in and stores the session.
func HandleGoogle(ctx context.Context, env *Env, args Args) error {
	signIn, err := env.identitySignIn()
	if err != nil {
		return err
	}
	sess, err := signIn(ctx)
	if err != nil {
		return fmt.Errorf("google sign-in: %w", err)
	}
	if err := env.Flows.Adopt(sess); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return reportSignedIn(env, args, "google", sess)
}

// authFailure keeps the server's message, or the generic one, as the text.
func authFailure(err error) error {
	if errors.Is(err, authflow.ErrMissingFields) {
		return &UsageError{Message: authflow.MsgMissingFields}
	}
	return &friendlyError{msg: authflow.FailureMessage(err), err: err}
}

func reportSignedIn(env *Env, args Args, command string, sess model.Session) error {
	if args.JSON {
		return NewJSONResponse(command, describe(sess)).Write(env.Out)
	}
	fmt.Fprintf(env.Out, "%s %s <%s>\n", SuccessStyle.Render("Signed in as"), sess.DisplayName(), sess.Email)
	return nil
}

// =============================================================================
// LOGOUT / WHOAMI
// =============================================================================

// HandleLogout clears the session. A running TUI notices through the
// storage watcher.
func HandleLogout(env *Env, args Args) error {
	if err := env.Flows.Logout(); err != nil {
		return err
	}
	if args.JSON {
		return NewJSONResponse("logout", nil).Write(env.Out)
	}
	fmt.Fprintln(env.Out, SuccessStyle.Render("Logged out."))
	return nil
}

// HandleWhoami prints the stored user and whether the token has expired.
func HandleWhoami(env *Env, args Args) error {
	sess, ok := env.Store.Get()
	if !ok {
		return &friendlyError{msg: "not signed in; run 'chatbox login'", err: api.ErrNotSignedIn}
	}

	info := describe(sess)
	if args.JSON {
		return NewJSONResponse("whoami", info).Write(env.Out)
	}

	fmt.Fprintln(env.Out, TitleStyle.Render(sess.DisplayName()))
	fmt.Fprintln(env.Out, RenderField("Email", sess.Email))
	fmt.Fprintln(env.Out, RenderField("Token", tokenStatus(sess.Token, info)))
	return nil
}

// describe decodes the token expiry for display.
func describe(sess model.Session) sessionInfo {
	info := sessionInfo{Email: sess.Email, FullName: sess.FullName}
	exp, ok, err := authflow.TokenExpiry(sess.Token)
	if err == nil && ok {
		info.ExpiresAt = &exp
		info.Expired = !time.Now().Before(exp)
	}
	return info
}

func tokenStatus(token string, info sessionInfo) string {
	if _, _, err := authflow.TokenExpiry(token); err != nil {
		return WarningStyle.Render("unreadable")
	}
	switch {
	case info.ExpiresAt == nil:
		return "no expiry"
	case info.Expired:
		return WarningStyle.Render("expired " + info.ExpiresAt.Local().Format(time.RFC1123))
	default:
		return "valid until " + info.ExpiresAt.Local().Format(time.RFC1123)
	}
}
