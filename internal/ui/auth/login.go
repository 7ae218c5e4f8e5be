// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	authflow "github.com/jeranaias/chatbox-tui/internal/auth"
	"github.com/jeranaias/chatbox-tui/internal/model"
	"github.com/jeranaias/chatbox-tui/internal/router"
	"github.com/jeranaias/chatbox-tui/internal/ui/components"
	"github.com/jeranaias/chatbox-tui/internal/ui/styles"
)

// Login focus positions.
const (
	loginEmail = iota
	loginPassword
	loginSubmit
	loginToSignup
	loginIdentity
)

// loginResultMsg reports the outcome of an authentication call.
type loginResultMsg struct {
	sess model.Session
	err  error
}

// Login is the email and password sign-in screen.
type Login struct {
	theme *styles.Theme
	flows *authflow.Flows
	keys  KeyMap
	opts  Options

	email    textinput.Model
	password textinput.Model
	focus    int
	busy     bool

	banner components.Flash

	width  int
	height int
}

// NewLogin creates the login screen.
func NewLogin(theme *styles.Theme, flows *authflow.Flows, opts Options) Login {
	m := Login{
		theme:    theme,
		flows:    flows,
		keys:     DefaultKeyMap(),
		opts:     opts,
		email:    newInput("Enter your email", false),
		password: newInput("Enter your password", true),
		banner:   components.NewFlash(components.FlashError, opts.BannerDuration),
	}
	m.email.Focus()
	return m
}

// Init checks the stored session so the user knows why they are here.
func (m Login) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if notice := m.flows.ArrivalNotice(); notice != "" {
		cmds = append(cmds, func() tea.Msg { return arrivalNoticeMsg{text: notice} })
	}
	return tea.Batch(cmds...)
}

// arrivalNoticeMsg lets Init raise the banner from Update.
type arrivalNoticeMsg struct{ text string }

// Banner returns the current banner text, or "".
func (m Login) Banner() string { return m.banner.Text() }

// Busy reports whether an authentication call is in flight.
func (m Login) Busy() bool { return m.busy }

func (m Login) controls() int {
	if m.opts.SignIn != nil {
		return loginIdentity + 1
	}
	return loginIdentity
}

// Update handles input and results.
func (m Login) Update(msg tea.Msg) (Login, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case arrivalNoticeMsg:
		cmd := m.banner.Show(msg.text)
		return m, cmd

	case components.FlashExpiredMsg:
		m.banner.Expire(msg)
		return m, nil

	case loginResultMsg:
		m.busy = false
		if msg.err != nil {
			if errors.Is(msg.err, authflow.ErrMissingFields) {
				cmd := m.banner.Show(authflow.MsgMissingFields)
				return m, cmd
			}
			cmd := m.banner.Show(authflow.FailureMessage(msg.err))
			return m, cmd
		}
		return m, components.Navigate(router.Chat(nil))

	case identityResultMsg:
		m.busy = false
		if msg.err != nil {
			slog.Warn("identity sign-in failed", "error", msg.err)
			cmd := m.banner.Show(IdentityFailedMessage)
			return m, cmd
		}
		return m, components.Navigate(router.Chat(nil))

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m Login) handleKey(msg tea.KeyMsg) (Login, tea.Cmd) {
	if delta := navKey(m.keys, msg); delta != 0 {
		m.focus = cycle(m.focus, delta, m.controls())
		cmd := focusOnly([]*textinput.Model{&m.email, &m.password}, m.focus)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.ShowPassword):
		togglePassword(&m.password)
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		switch m.focus {
		case loginEmail:
			m.focus = loginPassword
			cmd := focusOnly([]*textinput.Model{&m.email, &m.password}, m.focus)
			return m, cmd
		case loginToSignup:
			return m, components.Navigate(router.Signup(""))
		case loginIdentity:
			return m.startIdentity()
		default:
			return m.submit()
		}
	}

	return m.updateFocused(msg)
}

func (m Login) updateFocused(msg tea.Msg) (Login, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case loginEmail:
		m.email, cmd = m.email.Update(msg)
	case loginPassword:
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

// submit validates locally and calls the API.
func (m Login) submit() (Login, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	email, password := strings.TrimSpace(m.email.Value()), m.password.Value()
	if err := authflow.ValidateLogin(email, password); err != nil {
		cmd := m.banner.Show(authflow.MsgMissingFields)
		return m, cmd
	}
	m.busy = true
	flows := m.flows
	return m, func() tea.Msg {
		sess, err := flows.Login(context.Background(), email, password)
		return loginResultMsg{sess: sess, err: err}
	}
}

func (m Login) startIdentity() (Login, tea.Cmd) {
	if m.busy || m.opts.SignIn == nil {
		return m, nil
	}
	m.busy = true
	return m, identityCmd(m.opts.SignIn, m.flows)
}

// View renders the form.
func (m Login) View() string {
	t := m.theme
	rows := []string{
		t.Brand.Render("Chatbox") + "  " + t.Heading.Render("Log in"),
		"",
		field(t, "Email", m.email, m.focus == loginEmail, ""),
		field(t, "Password", m.password, m.focus == loginPassword, ""),
		"",
	}

	label := "Log In"
	if m.busy {
		label = "Logging in..."
	}
	rows = append(rows,
		button(t, label, m.focus == loginSubmit, m.busy),
		"",
		t.Muted.Render("Don't have an account? ")+link(t, "Sign up", m.focus == loginToSignup),
	)
	if m.opts.SignIn != nil {
		rows = append(rows, link(t, "Continue with Google", m.focus == loginIdentity))
	}

	return frame(t, m.width, m.height,
		m.banner.View(t, 0),
		strings.Join(rows, "\n"),
		"tab next • enter submit • ctrl+t show password • ctrl+c quit",
	)
}
