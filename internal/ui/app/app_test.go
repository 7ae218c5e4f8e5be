// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jeranaias/chatbox-tui/internal/api"
	authflow "github.com/jeranaias/chatbox-tui/internal/auth"
	"github.com/jeranaias/chatbox-tui/internal/model"
	"github.com/jeranaias/chatbox-tui/internal/router"
	"github.com/jeranaias/chatbox-tui/internal/session"
	"github.com/jeranaias/chatbox-tui/internal/storage"
	uiauth "github.com/jeranaias/chatbox-tui/internal/ui/auth"
	"github.com/jeranaias/chatbox-tui/internal/ui/chat"
	"github.com/jeranaias/chatbox-tui/internal/ui/components"
	"github.com/jeranaias/chatbox-tui/internal/ui/styles"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type fakeAuth struct{}

func (fakeAuth) Authenticate(context.Context, string, string) (api.AuthResult, error) {
	return api.AuthResult{}, nil
}

func (fakeAuth) Register(context.Context, string, string, string) (api.AuthResult, error) {
	return api.AuthResult{}, nil
}

type fakeChat struct {
	historyCalls int
}

func (f *fakeChat) FetchHistory(context.Context, model.RoomID) ([]model.Message, error) {
	f.historyCalls++
	return nil, nil
}

func (f *fakeChat) SendPrompt(context.Context, *model.RoomID, string) (api.PromptResult, error) {
	return api.PromptResult{}, nil
}

func (f *fakeChat) FetchRecent(context.Context) ([]model.Chat, error) {
	return nil, nil
}

func token(t *testing.T, exp time.Time) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

type fixture struct {
	kv    storage.KV
	store *session.Store
	chat  *fakeChat
	deps  Deps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	kv, err := storage.OpenFile(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	store := session.New(kv)
	fc := &fakeChat{}
	return &fixture{
		kv:    kv,
		store: store,
		chat:  fc,
		deps: Deps{
			Theme:  styles.NewTheme(styles.ModeDark),
			Store:  store,
			Flows:  authflow.NewFlows(fakeAuth{}, store),
			Guard:  authflow.NewGuard(kv),
			Client: fc,
			Auth:   uiauth.Options{BannerDuration: time.Millisecond, PopupDuration: time.Millisecond},
			Chat:   chat.Options{BannerDuration: time.Millisecond},
		},
	}
}

func (f *fixture) signIn(t *testing.T, tok string) {
	t.Helper()
	if err := f.store.Set(model.Session{Email: "a@b.com", FullName: "Ameer Khan", Token: tok}); err != nil {
		t.Fatalf("set session: %v", err)
	}
}

func navigate(m *Model, route router.Route) {
	m.Update(components.NavigateMsg{Route: route})
}

// =============================================================================
// GUARD
// =============================================================================

func TestStart_GuardRedirects(t *testing.T) {
	tests := []struct {
		name       string
		token      func(t *testing.T) string
		wantRoute  string
		wantNotice string
	}{
		{
			name:      "no session",
			wantRoute: "/signup?no-auth=true",
		},
		{
			name:      "expired token",
			token:     func(t *testing.T) string { return token(t, time.Now().Add(-time.Hour)) },
			wantRoute: "/login?no-auth=true",
		},
		{
			name:       "malformed token",
			token:      func(*testing.T) string { return "garbage" },
			wantRoute:  "/login?auth-required=true",
			wantNotice: authflow.SessionCheckFailedNotice,
		},
		{
			name:      "valid token",
			token:     func(t *testing.T) string { return token(t, time.Now().Add(time.Hour)) },
			wantRoute: "/ameerchatbox",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.token != nil {
				f.signIn(t, tt.token(t))
			}

			m := New(f.deps, router.Chat(nil))
			if got := m.Route().String(); got != tt.wantRoute {
				t.Errorf("Route() = %q, want %q", got, tt.wantRoute)
			}
			if m.Notice() != tt.wantNotice {
				t.Errorf("Notice() = %q, want %q", m.Notice(), tt.wantNotice)
			}
		})
	}
}

func TestGuard_RunsOnEveryNavigation(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, token(t, time.Now().Add(time.Hour)))

	m := New(f.deps, router.Chat(nil))
	if _, ok := m.Chat(); !ok {
		t.Fatal("chat should mount with a valid token")
	}

	// Another process removes the token; the next navigation is refused.
	if err := f.kv.Remove(storage.KeyToken); err != nil {
		t.Fatal(err)
	}
	room := model.NumericRoomID(7)
	navigate(m, router.Chat(&room))
	if m.Route().String() != "/signup?no-auth=true" {
		t.Errorf("Route() = %q", m.Route().String())
	}
	if _, ok := m.Chat(); ok {
		t.Error("chat should be torn down")
	}
}

func TestNotice_BlocksUntilAcknowledged(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "garbage")

	m := New(f.deps, router.Chat(nil))
	if !strings.Contains(m.View(), authflow.SessionCheckFailedNotice) {
		t.Error("notice should be rendered")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if m.Notice() == "" {
		t.Fatal("ordinary keys should not dismiss the notice")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.Notice() != "" {
		t.Error("enter should acknowledge the notice")
	}
	if m.Route().Screen != router.ScreenLogin {
		t.Errorf("screen = %v, want login", m.Route().Screen)
	}
}

// =============================================================================
// SCREENS
// =============================================================================

func TestNavigate_ChatToChatKeepsView(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, token(t, time.Now().Add(time.Hour)))

	m := New(f.deps, router.Chat(nil))
	room := model.NumericRoomID(3)
	navigate(m, router.Chat(&room))

	c, ok := m.Chat()
	if !ok || c.Room() == nil || c.Room().String() != "3" {
		t.Fatalf("chat room = %v", c.Room())
	}
	if m.Route().String() != "/ameerchatbox/3" {
		t.Errorf("Route() = %q", m.Route().String())
	}
}

func TestNavigate_PublicRoutes(t *testing.T) {
	f := newFixture(t)
	m := New(f.deps, router.Login(""))
	if m.Route().Screen != router.ScreenLogin {
		t.Fatalf("screen = %v", m.Route().Screen)
	}
	if !strings.Contains(m.View(), "Log in") {
		t.Error("login screen should render")
	}

	navigate(m, router.Signup(""))
	if m.Route().Screen != router.ScreenSignup {
		t.Errorf("screen = %v", m.Route().Screen)
	}
}

func TestSessionCleared_LeavesChat(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, token(t, time.Now().Add(time.Hour)))
	m := New(f.deps, router.Chat(nil))

	if err := f.store.Clear(); err != nil {
		t.Fatal(err)
	}
	m.Update(SessionChangedMsg{})
	if m.Route().Screen != router.ScreenSignup {
		t.Errorf("screen = %v, want signup", m.Route().Screen)
	}
}

func TestSessionChanged_UpdatesProfile(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, token(t, time.Now().Add(time.Hour)))
	m := New(f.deps, router.Chat(nil))
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	m.Update(SessionChangedMsg{OK: true, Session: model.Session{Email: "z@b.com", FullName: "Zed Zulu", Token: "t"}})
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlB})
	if !strings.Contains(m.View(), "Zed Zulu") {
		t.Error("panel should show the updated profile")
	}
}

func TestBind_DeliversChanges(t *testing.T) {
	f := newFixture(t)
	m := New(f.deps, router.Signup(""))

	got := make(chan tea.Msg, 1)
	unsubscribe := m.Bind(func(msg tea.Msg) { got <- msg })
	defer unsubscribe()

	f.signIn(t, token(t, time.Now().Add(time.Hour)))
	select {
	case msg := <-got:
		changed, ok := msg.(SessionChangedMsg)
		if !ok || !changed.OK || changed.Session.Email != "a@b.com" {
			t.Errorf("unexpected message %#v", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("no session change delivered")
	}
}

func TestBind_DeliversChangesInOrder(t *testing.T) {
	f := newFixture(t)
	m := New(f.deps, router.Signup(""))

	var (
		mu     sync.Mutex
		emails []string
	)
	last := func() string {
		mu.Lock()
		defer mu.Unlock()
		if len(emails) == 0 {
			return ""
		}
		return emails[len(emails)-1]
	}
	unsubscribe := m.Bind(func(msg tea.Msg) {
		time.Sleep(5 * time.Millisecond)
		changed := msg.(SessionChangedMsg)
		mu.Lock()
		emails = append(emails, changed.Session.Email)
		mu.Unlock()
	})
	defer unsubscribe()

	f.signIn(t, "T1")
	if err := f.store.Clear(); err != nil {
		t.Fatal(err)
	}
	if err := f.store.Set(model.Session{Email: "b@c.com", FullName: "Bee", Token: "T2"}); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(time.Second)
	for {
		if last() == "b@c.com" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("latest session never delivered; got %v", emails)
		}
		time.Sleep(time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	order := map[string]int{"a@b.com": 0, "": 1, "b@c.com": 2}
	for i := 1; i < len(emails); i++ {
		if order[emails[i]] <= order[emails[i-1]] {
			t.Fatalf("changes delivered out of order: %v", emails)
		}
	}
}

func TestCtrlC_Quits(t *testing.T) {
	f := newFixture(t)
	m := New(f.deps, router.Signup(""))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
}
