// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"path/filepath"
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
	"github.com/jeranaias/chatbox-tui/internal/ui/components"
	"github.com/jeranaias/chatbox-tui/internal/ui/styles"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type fakeAPI struct {
	calls  int
	result api.AuthResult
	err    error
}

func (f *fakeAPI) Authenticate(context.Context, string, string) (api.AuthResult, error) {
	f.calls++
	return f.result, f.err
}

func (f *fakeAPI) Register(context.Context, string, string, string) (api.AuthResult, error) {
	f.calls++
	return f.result, f.err
}

func newFlows(t *testing.T, fake *fakeAPI) (*authflow.Flows, storage.KV) {
	t.Helper()
	kv, err := storage.OpenFile(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	return authflow.NewFlows(fake, session.New(kv)), kv
}

func testOptions() Options {
	return Options{BannerDuration: time.Millisecond, PopupDuration: time.Millisecond}
}

func typeText(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var enter = tea.KeyMsg{Type: tea.KeyEnter}

// navigation runs cmd and returns the route it requests.
func navigation(t *testing.T, cmd tea.Cmd) router.Route {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a navigation command")
	}
	msg, ok := cmd().(components.NavigateMsg)
	if !ok {
		t.Fatalf("expected NavigateMsg, got %T", msg)
	}
	return msg.Route
}

// =============================================================================
// SIGN-UP
// =============================================================================

func TestSignUp_CapitalizesNameAsTyped(t *testing.T) {
	flows, _ := newFlows(t, &fakeAPI{})
	m := NewSignUp(styles.NewTheme(styles.ModeDark), flows, testOptions())

	m, _ = m.Update(enter) // email -> name
	m, _ = m.Update(typeText("ameer"))
	m, _ = m.Update(typeText(" khan"))
	if got := m.FullName(); got != "Ameer Khan" {
		t.Errorf("FullName() = %q, want %q", got, "Ameer Khan")
	}
}

func TestSignUp_ShortPasswordBlocksSubmit(t *testing.T) {
	fake := &fakeAPI{result: api.AuthResult{Token: "T"}}
	flows, _ := newFlows(t, fake)
	m := NewSignUp(styles.NewTheme(styles.ModeDark), flows, testOptions())

	m, _ = m.Update(typeText("a@b.com"))
	m, _ = m.Update(enter)
	m, _ = m.Update(typeText("ameer khan"))
	m, _ = m.Update(enter)
	m, _ = m.Update(typeText("abc"))
	m, _ = m.Update(enter)

	if fake.calls != 0 {
		t.Errorf("API called %d times, want 0", fake.calls)
	}
	fe := m.FieldMessages()
	if fe.Password != authflow.MsgShortPassword {
		t.Errorf("password message = %q", fe.Password)
	}
	if fe.Email != "" || fe.FullName != "" {
		t.Errorf("unexpected messages: %+v", fe)
	}
}

func TestSignUp_FieldMessagesClearThemselves(t *testing.T) {
	flows, _ := newFlows(t, &fakeAPI{})
	m := NewSignUp(styles.NewTheme(styles.ModeDark), flows, testOptions())

	m.focus = signupSubmit
	m, _ = m.Update(enter)
	if m.FieldMessages().OK() {
		t.Fatal("empty form should raise messages")
	}

	for _, f := range []components.Flash{m.emailErr, m.nameErr, m.passwordErr} {
		m, _ = m.Update(components.FlashExpiredMsg{ID: f.ID(), Seq: 1})
	}
	if !m.FieldMessages().OK() {
		t.Errorf("messages should clear, got %+v", m.FieldMessages())
	}
}

func TestSignUp_SuccessShowsPopupThenNavigates(t *testing.T) {
	fake := &fakeAPI{result: api.AuthResult{Token: "T"}}
	flows, _ := newFlows(t, fake)
	m := NewSignUp(styles.NewTheme(styles.ModeDark), flows, testOptions())

	m, _ = m.Update(typeText("a@b.com"))
	m, _ = m.Update(enter)
	m, _ = m.Update(typeText("ameer khan"))
	m, _ = m.Update(enter)
	m, _ = m.Update(typeText("secret1"))
	m, cmd := m.Update(enter)
	if cmd == nil {
		t.Fatal("valid form should submit")
	}

	m, popupCmd := m.Update(cmd())
	if m.Popup() != RegistrationSuccessMessage {
		t.Fatalf("Popup() = %q", m.Popup())
	}

	sess, ok := flows.Store().Get()
	want := model.Session{Email: "a@b.com", FullName: "Ameer Khan", Token: "T"}
	if !ok || sess != want {
		t.Errorf("stored session = %+v, want %+v", sess, want)
	}

	_, navCmd := m.Update(popupCmd())
	if route := navigation(t, navCmd); route.String() != "/ameerchatbox" {
		t.Errorf("navigated to %s, want /ameerchatbox", route)
	}
}

func TestSignUp_APIErrorBanner(t *testing.T) {
	fake := &fakeAPI{err: &api.APIError{Status: 200, Message: "Email already exists"}}
	flows, _ := newFlows(t, fake)
	m := NewSignUp(styles.NewTheme(styles.ModeDark), flows, testOptions())

	m, _ = m.Update(typeText("a@b.com"))
	m, _ = m.Update(enter)
	m, _ = m.Update(typeText("Ameer"))
	m, _ = m.Update(enter)
	m, _ = m.Update(typeText("secret1"))
	m, cmd := m.Update(enter)
	m, _ = m.Update(cmd())

	if m.Banner() != "Email already exists" {
		t.Errorf("Banner() = %q", m.Banner())
	}
	if m.Popup() != "" {
		t.Error("popup should not show on failure")
	}
}

// =============================================================================
// LOGIN
// =============================================================================

func TestLogin_EmptyFieldsMakeNoCall(t *testing.T) {
	fake := &fakeAPI{}
	flows, _ := newFlows(t, fake)
	m := NewLogin(styles.NewTheme(styles.ModeDark), flows, testOptions())

	m.focus = loginSubmit
	m, _ = m.Update(enter)
	if fake.calls != 0 {
		t.Errorf("API called %d times", fake.calls)
	}
	if m.Banner() != authflow.MsgMissingFields {
		t.Errorf("Banner() = %q", m.Banner())
	}
}

func TestLogin_SuccessNavigatesToChat(t *testing.T) {
	fake := &fakeAPI{result: api.AuthResult{Token: "T", FullName: "Ameer Khan"}}
	flows, _ := newFlows(t, fake)
	m := NewLogin(styles.NewTheme(styles.ModeDark), flows, testOptions())

	m, _ = m.Update(typeText("a@b.com"))
	m, _ = m.Update(enter)
	m, _ = m.Update(typeText("pw"))
	m, cmd := m.Update(enter)
	if !m.Busy() {
		t.Error("login should be busy while the call runs")
	}

	m, navCmd := m.Update(cmd())
	if route := navigation(t, navCmd); route.Screen != router.ScreenChat {
		t.Errorf("navigated to %s", route)
	}
	if m.Busy() {
		t.Error("busy should clear")
	}
}

func TestLogin_TransportErrorShowsGeneric(t *testing.T) {
	fake := &fakeAPI{err: context.DeadlineExceeded}
	flows, _ := newFlows(t, fake)
	m := NewLogin(styles.NewTheme(styles.ModeDark), flows, testOptions())

	m, _ = m.Update(typeText("a@b.com"))
	m, _ = m.Update(enter)
	m, _ = m.Update(typeText("pw"))
	m, cmd := m.Update(enter)
	m, _ = m.Update(cmd())

	if m.Banner() != api.GenericErrorMessage {
		t.Errorf("Banner() = %q", m.Banner())
	}
}

// mountLogin runs Init and feeds its arrival notice back into Update.
func mountLogin(t *testing.T, flows *authflow.Flows) Login {
	t.Helper()
	m := NewLogin(styles.NewTheme(styles.ModeDark), flows, testOptions())
	batch, ok := m.Init()().(tea.BatchMsg)
	if !ok {
		t.Fatal("Init should batch its commands")
	}
	for _, cmd := range batch {
		if cmd == nil {
			continue
		}
		if msg, ok := cmd().(arrivalNoticeMsg); ok {
			m, _ = m.Update(msg)
		}
	}
	return m
}

func TestLogin_ExpiredOnArrival(t *testing.T) {
	flows, kv := newFlows(t, &fakeAPI{})
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("k"))
	if err != nil {
		t.Fatal(err)
	}
	if err := kv.Set(storage.KeyToken, token); err != nil {
		t.Fatal(err)
	}

	m := mountLogin(t, flows)
	if m.Banner() != authflow.SessionExpiredMessage {
		t.Errorf("Banner() = %q, want expiry message", m.Banner())
	}
}

func TestLogin_UnreadableTokenOnArrival(t *testing.T) {
	flows, kv := newFlows(t, &fakeAPI{})
	if err := kv.Set(storage.KeyToken, "not-a-jwt"); err != nil {
		t.Fatal(err)
	}

	m := mountLogin(t, flows)
	if m.Banner() != authflow.SessionCheckFailedNotice {
		t.Errorf("Banner() = %q, want session check notice", m.Banner())
	}
}

func TestLogin_IdentitySignIn(t *testing.T) {
	flows, _ := newFlows(t, &fakeAPI{})
	opts := testOptions()
	opts.SignIn = func(context.Context) (model.Session, error) {
		return model.Session{Email: "g@b.com", FullName: "Gee", Token: "id-token"}, nil
	}
	m := NewLogin(styles.NewTheme(styles.ModeDark), flows, opts)

	m.focus = loginIdentity
	m, cmd := m.Update(enter)
	_, navCmd := m.Update(cmd())
	if route := navigation(t, navCmd); route.Screen != router.ScreenChat {
		t.Errorf("navigated to %s", route)
	}
	if sess, ok := flows.Store().Get(); !ok || sess.Email != "g@b.com" {
		t.Errorf("identity session not stored: %+v", sess)
	}
}

func TestLogin_LinkToSignUp(t *testing.T) {
	flows, _ := newFlows(t, &fakeAPI{})
	m := NewLogin(styles.NewTheme(styles.ModeDark), flows, testOptions())

	m.focus = loginToSignup
	_, cmd := m.Update(enter)
	if route := navigation(t, cmd); route.Screen != router.ScreenSignup {
		t.Errorf("navigated to %s", route)
	}
}
