// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	authflow "github.com/jeranaias/chatbox-tui/internal/auth"
	"github.com/jeranaias/chatbox-tui/internal/model"
	"github.com/jeranaias/chatbox-tui/internal/router"
	"github.com/jeranaias/chatbox-tui/internal/session"
	uiauth "github.com/jeranaias/chatbox-tui/internal/ui/auth"
	"github.com/jeranaias/chatbox-tui/internal/ui/chat"
	"github.com/jeranaias/chatbox-tui/internal/ui/components"
	"github.com/jeranaias/chatbox-tui/internal/ui/styles"
)

// =============================================================================
// DEPENDENCIES
// =============================================================================

// Deps are constructed once by the caller and shared by every screen.
type Deps struct {
	Theme  *styles.Theme
	Store  *session.Store
	Flows  *authflow.Flows
	Guard  *authflow.Guard
	Client chat.Client

	Auth uiauth.Options
	Chat chat.Options
}

// SessionChangedMsg reports a change of the session store, including
// changes written by another process.
type SessionChangedMsg struct {
	Session model.Session
	OK      bool
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the root model. Exactly one screen is mounted at a time.
type Model struct {
	deps Deps

	route router.Route

	login  uiauth.Login
	signup uiauth.SignUp
	chat   chat.Model
	// chatMounted is false whenever the chat view has been torn down.
	chatMounted bool

	// notice blocks all input until acknowledged.
	notice components.Notice

	// initCmd is the command produced while mounting the start route.
	initCmd tea.Cmd

	width  int
	height int
}

// New creates the root model and mounts start, running the guard when
// start is protected.
func New(deps Deps, start router.Route) *Model {
	m := &Model{deps: deps}
	m.initCmd = m.navigate(start)
	return m
}

// Bind forwards session store changes into the running program. send is
// usually (*tea.Program).Send. Listeners run on the writer's goroutine,
// which may be the event loop itself, so one forwarding goroutine delivers
// the changes in order. A change that arrives while an earlier one is still
// pending replaces it; the program always ends up with the latest session.
func (m *Model) Bind(send func(tea.Msg)) (unsubscribe func()) {
	var (
		mu      sync.Mutex
		pending *SessionChangedMsg
	)
	wake := make(chan struct{}, 1)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case <-wake:
			}
			mu.Lock()
			msg := pending
			pending = nil
			mu.Unlock()
			if msg != nil {
				send(*msg)
			}
		}
	}()

	stop := m.deps.Store.Subscribe(func(sess model.Session, ok bool) {
		mu.Lock()
		pending = &SessionChangedMsg{Session: sess, OK: ok}
		mu.Unlock()
		select {
		case wake <- struct{}{}:
		default:
		}
	})

	var once sync.Once
	return func() {
		once.Do(func() {
			stop()
			close(done)
		})
	}
}

// Route returns the current route.
func (m *Model) Route() router.Route { return m.route }

// Notice returns the blocking notice text, or "".
func (m *Model) Notice() string { return m.notice.Text() }

// Chat returns the mounted chat view and whether it is mounted.
func (m *Model) Chat() (chat.Model, bool) { return m.chat, m.chatMounted }

// Login returns the login screen.
func (m *Model) Login() uiauth.Login { return m.login }

// SignUp returns the sign-up screen.
func (m *Model) SignUp() uiauth.SignUp { return m.signup }

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init returns the start route's mount command.
func (m *Model) Init() tea.Cmd {
	cmd := m.initCmd
	m.initCmd = nil
	return cmd
}

// Update routes navigation and forwards everything else to the mounted
// screen.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.deps.Theme.SetSize(msg.Width, msg.Height)
		return m, m.forward(msg)

	case components.NavigateMsg:
		return m, m.navigate(msg.Route)

	case SessionChangedMsg:
		return m, m.sessionChanged(msg)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.notice.Visible() {
			if m.notice.Acknowledges(msg) {
				m.notice.Dismiss()
			}
			return m, nil
		}

	case tea.MouseMsg:
		if m.notice.Visible() {
			return m, nil
		}
	}

	return m, m.forward(msg)
}

// View renders the mounted screen, or the notice over it.
func (m *Model) View() string {
	if m.notice.Visible() {
		return m.notice.View(m.deps.Theme, m.width, m.height)
	}
	switch m.route.Screen {
	case router.ScreenChat:
		return m.chat.View()
	case router.ScreenLogin:
		return m.login.View()
	default:
		return m.signup.View()
	}
}

// =============================================================================
// NAVIGATION
// =============================================================================

// navigate mounts route. Every entry into a protected route is checked by
// the guard; a refusal mounts the redirect and may raise a notice.
func (m *Model) navigate(route router.Route) tea.Cmd {
	if route.Protected() {
		decision := m.deps.Guard.Check()
		if !decision.Allow {
			slog.Info("navigation refused", "route", route.String(), "redirect", decision.Redirect.String())
			if decision.Notice != "" {
				m.notice.Show(decision.Notice)
			}
			route = decision.Redirect
		}
	}

	prev := m.route
	m.route = route

	if route.Screen == router.ScreenChat {
		if m.chatMounted && prev.Screen == router.ScreenChat {
			var cmd tea.Cmd
			m.chat, cmd = m.chat.SetRoom(route.Room)
			return cmd
		}
		m.chat = chat.New(m.deps.Theme, m.deps.Client, m.deps.Store, route.Room, m.deps.Chat)
		m.chatMounted = true
		return tea.Batch(m.chat.Init(), m.resize())
	}

	m.unmountChat()
	switch route.Screen {
	case router.ScreenLogin:
		m.login = uiauth.NewLogin(m.deps.Theme, m.deps.Flows, m.deps.Auth)
		return tea.Batch(m.login.Init(), m.resize())
	default:
		m.signup = uiauth.NewSignUp(m.deps.Theme, m.deps.Flows, m.deps.Auth)
		return tea.Batch(m.signup.Init(), m.resize())
	}
}

func (m *Model) unmountChat() {
	if !m.chatMounted {
		return
	}
	m.chat.Close()
	m.chat = chat.Model{}
	m.chatMounted = false
}

// resize replays the last window size to a freshly mounted screen.
func (m *Model) resize() tea.Cmd {
	if m.width == 0 && m.height == 0 {
		return nil
	}
	size := tea.WindowSizeMsg{Width: m.width, Height: m.height}
	return func() tea.Msg { return size }
}

// sessionChanged keeps the profile display current. A session cleared
// elsewhere sends the chat view back through the guard.
func (m *Model) sessionChanged(msg SessionChangedMsg) tea.Cmd {
	if !m.chatMounted {
		return nil
	}
	if msg.OK {
		m.chat.SetUser(msg.Session)
		return nil
	}
	return m.navigate(m.route)
}

// forward passes msg to the mounted screen.
func (m *Model) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.route.Screen {
	case router.ScreenChat:
		if m.chatMounted {
			m.chat, cmd = m.chat.Update(msg)
		}
	case router.ScreenLogin:
		m.login, cmd = m.login.Update(msg)
	default:
		m.signup, cmd = m.signup.Update(msg)
	}
	return cmd
}
