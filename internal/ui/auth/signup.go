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
	"github.com/charmbracelet/lipgloss"

	authflow "github.com/jeranaias/chatbox-tui/internal/auth"
	"github.com/jeranaias/chatbox-tui/internal/model"
	"github.com/jeranaias/chatbox-tui/internal/router"
	"github.com/jeranaias/chatbox-tui/internal/ui/components"
	"github.com/jeranaias/chatbox-tui/internal/ui/styles"
)

// RegistrationSuccessMessage is shown in the popup before redirecting.
const RegistrationSuccessMessage = "Registration Successful🥳, You'll be redirected to the chatbox"

// SignUp focus positions.
const (
	signupEmail = iota
	signupName
	signupPassword
	signupSubmit
	signupToLogin
	signupIdentity
)

// registerResultMsg reports the outcome of a registration call.
type registerResultMsg struct {
	sess model.Session
	err  error
}

// SignUp is the registration screen.
type SignUp struct {
	theme *styles.Theme
	flows *authflow.Flows
	keys  KeyMap
	opts  Options

	email    textinput.Model
	fullName textinput.Model
	password textinput.Model
	focus    int
	busy     bool
	// done is set once registration succeeded; the form is inert until
	// the popup closes.
	done bool

	emailErr    components.Flash
	nameErr     components.Flash
	passwordErr components.Flash
	banner      components.Flash
	popup       components.Flash

	width  int
	height int
}

// NewSignUp creates the sign-up screen.
func NewSignUp(theme *styles.Theme, flows *authflow.Flows, opts Options) SignUp {
	m := SignUp{
		theme:       theme,
		flows:       flows,
		keys:        DefaultKeyMap(),
		opts:        opts,
		email:       newInput("Enter your email", false),
		fullName:    newInput("Enter your full name", false),
		password:    newInput("Enter your password", true),
		emailErr:    components.NewFlash(components.FlashField, opts.BannerDuration),
		nameErr:     components.NewFlash(components.FlashField, opts.BannerDuration),
		passwordErr: components.NewFlash(components.FlashField, opts.BannerDuration),
		banner:      components.NewFlash(components.FlashError, opts.BannerDuration),
		popup:       components.NewFlash(components.FlashSuccess, opts.PopupDuration),
	}
	m.email.Focus()
	return m
}

// Init starts the cursor blinking.
func (m SignUp) Init() tea.Cmd {
	return textinput.Blink
}

// FieldMessages returns the inline messages currently shown.
func (m SignUp) FieldMessages() authflow.FieldErrors {
	return authflow.FieldErrors{
		Email:    m.emailErr.Text(),
		FullName: m.nameErr.Text(),
		Password: m.passwordErr.Text(),
	}
}

// Banner returns the API error banner text, or "".
func (m SignUp) Banner() string { return m.banner.Text() }

// Popup returns the success popup text, or "".
func (m SignUp) Popup() string { return m.popup.Text() }

// FullName returns the name field as displayed.
func (m SignUp) FullName() string { return m.fullName.Value() }

func (m SignUp) controls() int {
	if m.opts.SignIn != nil {
		return signupIdentity + 1
	}
	return signupIdentity
}

func (m *SignUp) inputs() []*textinput.Model {
	return []*textinput.Model{&m.email, &m.fullName, &m.password}
}

// Update handles input and results.
func (m SignUp) Update(msg tea.Msg) (SignUp, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case components.FlashExpiredMsg:
		if m.popup.Expire(msg) {
			return m, components.Navigate(router.Chat(nil))
		}
		for _, f := range []*components.Flash{&m.emailErr, &m.nameErr, &m.passwordErr, &m.banner} {
			if f.Expire(msg) {
				break
			}
		}
		return m, nil

	case registerResultMsg:
		m.busy = false
		if msg.err != nil {
			var fe authflow.FieldErrors
			if errors.As(msg.err, &fe) {
				return m, m.showFieldErrors(fe)
			}
			cmd := m.banner.Show(authflow.FailureMessage(msg.err))
			return m, cmd
		}
		m.done = true
		cmd := m.popup.Show(RegistrationSuccessMessage)
		return m, cmd

	case identityResultMsg:
		m.busy = false
		if msg.err != nil {
			slog.Warn("identity sign-in failed", "error", msg.err)
			cmd := m.banner.Show(IdentityFailedMessage)
			return m, cmd
		}
		return m, components.Navigate(router.Chat(nil))

	case tea.KeyMsg:
		if m.done {
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m SignUp) handleKey(msg tea.KeyMsg) (SignUp, tea.Cmd) {
	if delta := navKey(m.keys, msg); delta != 0 {
		m.focus = cycle(m.focus, delta, m.controls())
		cmd := focusOnly(m.inputs(), m.focus)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.ShowPassword):
		togglePassword(&m.password)
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		switch m.focus {
		case signupEmail, signupName:
			m.focus++
			cmd := focusOnly(m.inputs(), m.focus)
			return m, cmd
		case signupToLogin:
			return m, components.Navigate(router.Login(""))
		case signupIdentity:
			return m.startIdentity()
		default:
			return m.submit()
		}
	}

	return m.updateFocused(msg)
}

func (m SignUp) updateFocused(msg tea.Msg) (SignUp, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case signupEmail:
		m.email, cmd = m.email.Update(msg)
	case signupName:
		m.fullName, cmd = m.fullName.Update(msg)
		m.capitalizeName()
	case signupPassword:
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

// capitalizeName re-capitalizes the name field after every edit and keeps
// the cursor where it was.
func (m *SignUp) capitalizeName() {
	value := m.fullName.Value()
	capped := authflow.CapitalizeName(value)
	if capped == value {
		return
	}
	pos := m.fullName.Position()
	m.fullName.SetValue(capped)
	m.fullName.SetCursor(pos)
}

// showFieldErrors raises one inline message per failing field.
func (m *SignUp) showFieldErrors(fe authflow.FieldErrors) tea.Cmd {
	var cmds []tea.Cmd
	if fe.Email != "" {
		cmds = append(cmds, m.emailErr.Show(fe.Email))
	}
	if fe.FullName != "" {
		cmds = append(cmds, m.nameErr.Show(fe.FullName))
	}
	if fe.Password != "" {
		cmds = append(cmds, m.passwordErr.Show(fe.Password))
	}
	return tea.Batch(cmds...)
}

// submit validates every field and only calls the API when all pass.
func (m SignUp) submit() (SignUp, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	email := strings.TrimSpace(m.email.Value())
	fullName := authflow.CapitalizeName(strings.TrimSpace(m.fullName.Value()))
	password := m.password.Value()

	if fe := authflow.ValidateSignUp(email, fullName, password); !fe.OK() {
		return m, m.showFieldErrors(fe)
	}

	m.busy = true
	flows := m.flows
	return m, func() tea.Msg {
		sess, err := flows.Register(context.Background(), email, fullName, password)
		return registerResultMsg{sess: sess, err: err}
	}
}

func (m SignUp) startIdentity() (SignUp, tea.Cmd) {
	if m.busy || m.opts.SignIn == nil {
		return m, nil
	}
	m.busy = true
	return m, identityCmd(m.opts.SignIn, m.flows)
}

// View renders the form, or the success popup once registered.
func (m SignUp) View() string {
	t := m.theme
	if m.popup.Visible() {
		popup := m.popup.View(t, 0)
		if m.width <= 0 || m.height <= 0 {
			return popup
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, popup)
	}

	rows := []string{
		t.Brand.Render("Chatbox") + "  " + t.Heading.Render("Create an account"),
		"",
		field(t, "Email", m.email, m.focus == signupEmail, m.emailErr.View(t, 0)),
		field(t, "Full Name", m.fullName, m.focus == signupName, m.nameErr.View(t, 0)),
		field(t, "Password", m.password, m.focus == signupPassword, m.passwordErr.View(t, 0)),
		"",
	}

	label := "Sign Up"
	if m.busy {
		label = "Signing up..."
	}
	rows = append(rows,
		button(t, label, m.focus == signupSubmit, m.busy),
		"",
		t.Muted.Render("Already have an account? ")+link(t, "Log in", m.focus == signupToLogin),
	)
	if m.opts.SignIn != nil {
		rows = append(rows, link(t, "Continue with Google", m.focus == signupIdentity))
	}

	return frame(t, m.width, m.height,
		m.banner.View(t, 0),
		strings.Join(rows, "\n"),
		"tab next • enter submit • ctrl+t show password • ctrl+c quit",
	)
}
