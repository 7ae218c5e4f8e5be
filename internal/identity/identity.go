// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/jeranaias/chatbox-tui/internal/config"
	"github.com/jeranaias/chatbox-tui/internal/model"
)

// =============================================================================
// CONSTANTS AND ERRORS
// =============================================================================

// CallbackPath is where the provider redirects the browser.
const CallbackPath = "/callback"

// DefaultTimeout bounds how long SignIn waits for the browser.
const DefaultTimeout = 3 * time.Minute

var (
	// ErrDisabled is returned when identity sign-in is not configured.
	ErrDisabled = errors.New("identity sign-in is not enabled")

	// ErrStateMismatch indicates the callback did not carry our state value.
	ErrStateMismatch = errors.New("sign-in state mismatch")

	// ErrDenied indicates the user declined or the provider reported an error.
	ErrDenied = errors.New("sign-in was not completed")

	// ErrNoEmail indicates the provider profile carried no email address.
	ErrNoEmail = errors.New("identity profile has no email")
)

// Scopes requested from the provider.
var Scopes = []string{"openid", "email", "profile"}

// =============================================================================
// PROVIDER
// =============================================================================

// Profile is the part of the provider's user record the session needs.
type Profile struct {
	Email string
	Name  string
}

// Provider runs the browser sign-in against Google using the
// authorization-code flow with PKCE and a loopback redirect.
type Provider struct {
	conf    oauth2.Config
	port    int
	timeout time.Duration
	open    func(url string) error

	// apiEndpoint overrides the userinfo service root.
	apiEndpoint string
}

// New creates a provider from configuration.
func New(cfg config.IdentityConfig) (*Provider, error) {
	if !cfg.Enabled || cfg.ClientID == "" {
		return nil, ErrDisabled
	}
	return &Provider{
		conf: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       Scopes,
		},
		port:    cfg.RedirectPort,
		timeout: DefaultTimeout,
		open:    OpenBrowser,
	}, nil
}

// WithOpener replaces the function that shows the authorization URL.
func (p *Provider) WithOpener(open func(url string) error) *Provider {
	p.open = open
	return p
}

// WithTimeout bounds how long SignIn waits for the callback.
func (p *Provider) WithTimeout(d time.Duration) *Provider {
	p.timeout = d
	return p
}

// callbackResult is what the loopback handler hands back to SignIn.
type callbackResult struct {
	code string
	err  error
}

// SignIn opens the provider's consent page, waits for the redirect, and
// returns a Session built from the provider's profile and ID token.
func (p *Provider) SignIn(ctx context.Context) (model.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	// SECURITY: Bind to loopback only.
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", p.port))
	if err != nil {
		return model.Session{}, fmt.Errorf("listen for callback: %w", err)
	}

	conf := p.conf
	conf.RedirectURL = fmt.Sprintf("http://%s%s", ln.Addr().String(), CallbackPath)

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()

	results := make(chan callbackResult, 1)
	srv := &http.Server{
		Handler:           callbackRouter(state, results),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Warn("identity callback server stopped", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
		defer stop()
		srv.Shutdown(shutdownCtx)
	}()

	authURL := conf.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
	if err := p.open(authURL); err != nil {
		slog.Warn("could not open browser", "error", err)
	}

	var code string
	select {
	case res := <-results:
		if res.err != nil {
			return model.Session{}, res.err
		}
		code = res.code
	case <-ctx.Done():
		return model.Session{}, fmt.Errorf("waiting for sign-in: %w", ctx.Err())
	}

	tok, err := conf.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return model.Session{}, fmt.Errorf("exchange code: %w", err)
	}

	profile, err := p.fetchProfile(ctx, conf.TokenSource(ctx, tok))
	if err != nil {
		return model.Session{}, err
	}

	token := tok.AccessToken
	if idToken, ok := tok.Extra("id_token").(string); ok && idToken != "" {
		token = idToken
	}

	slog.Info("identity sign-in complete", "email", profile.Email)
	return model.Session{
		Email:    profile.Email,
		FullName: profile.Name,
		Token:    token,
	}, nil
}

// fetchProfile reads the signed-in user's email and name.
func (p *Provider) fetchProfile(ctx context.Context, ts oauth2.TokenSource) (Profile, error) {
	opts := []option.ClientOption{option.WithTokenSource(ts)}
	if p.apiEndpoint != "" {
		opts = append(opts, option.WithEndpoint(p.apiEndpoint))
	}
	svc, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return Profile{}, fmt.Errorf("userinfo service: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return Profile{}, fmt.Errorf("fetch profile: %w", err)
	}
	if strings.TrimSpace(info.Email) == "" {
		return Profile{}, ErrNoEmail
	}
	return Profile{Email: info.Email, Name: info.Name}, nil
}

// callbackRouter serves the single redirect endpoint. Only the first
// callback is delivered; later ones see the same page but are ignored.
func callbackRouter(state string, results chan<- callbackResult) http.Handler {
	deliver := func(res callbackResult) {
		select {
		case results <- res:
		default:
		}
	}

	r := chi.NewRouter()
	r.Get(CallbackPath, func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		switch {
		case q.Get("state") != state:
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, page("Sign-in failed. You can close this window."))
			deliver(callbackResult{err: ErrStateMismatch})
		case q.Get("error") != "":
			fmt.Fprint(w, page("Sign-in was cancelled. You can close this window."))
			deliver(callbackResult{err: fmt.Errorf("%w: %s", ErrDenied, q.Get("error"))})
		case q.Get("code") == "":
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, page("Sign-in failed. You can close this window."))
			deliver(callbackResult{err: fmt.Errorf("%w: no code", ErrDenied)})
		default:
			fmt.Fprint(w, page("Signed in. You can return to the terminal."))
			deliver(callbackResult{code: q.Get("code")})
		}
	})
	return r
}

func page(msg string) string {
	return "<!doctype html><html><body style=\"font-family:sans-serif\"><p>" + msg + "</p></body></html>"
}

// OpenBrowser opens url in the default browser for the OS.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux", "freebsd", "openbsd":
		cmd = exec.Command("xdg-open", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return cmd.Start()
}
