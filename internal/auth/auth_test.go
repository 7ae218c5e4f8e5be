// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatbox-tui/internal/api"
	"github.com/jeranaias/chatbox-tui/internal/model"
	"github.com/jeranaias/chatbox-tui/internal/router"
	"github.com/jeranaias/chatbox-tui/internal/session"
	"github.com/jeranaias/chatbox-tui/internal/storage"
)

// signed returns an HS256 token with the given claims.
func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func tokenExpiring(t *testing.T, at time.Time) string {
	return signed(t, jwt.MapClaims{"sub": "a@b.com", "exp": at.Unix()})
}

func newKV(t *testing.T) storage.KV {
	t.Helper()
	kv, err := storage.OpenFile(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	return kv
}

// =============================================================================
// TOKEN
// =============================================================================

func TestTokenExpired(t *testing.T) {
	expired, err := TokenExpired(tokenExpiring(t, time.Now().Add(time.Hour)))
	require.NoError(t, err)
	require.False(t, expired)

	expired, err = TokenExpired(tokenExpiring(t, time.Now().Add(-time.Minute)))
	require.NoError(t, err)
	require.True(t, expired)

	expired, err = TokenExpired(signed(t, jwt.MapClaims{"sub": "no-exp"}))
	require.NoError(t, err)
	require.False(t, expired)

	_, err = TokenExpired("not-a-jwt")
	require.ErrorIs(t, err, ErrMalformedToken)

	_, err = TokenExpired(signed(t, jwt.MapClaims{"exp": "tomorrow"}))
	require.ErrorIs(t, err, ErrMalformedToken)
}

// =============================================================================
// GUARD
// =============================================================================

func TestGuard_NoToken(t *testing.T) {
	d := NewGuard(newKV(t)).Check()
	require.False(t, d.Allow)
	require.Equal(t, "/signup?no-auth=true", d.Redirect.String())
	require.Empty(t, d.Notice)
}

func TestGuard_ValidToken(t *testing.T) {
	kv := newKV(t)
	require.NoError(t, kv.Set(storage.KeyToken, tokenExpiring(t, time.Now().Add(time.Hour))))

	d := NewGuard(kv).Check()
	require.True(t, d.Allow)
	require.Empty(t, d.Notice)
}

func TestGuard_TokenWithoutExpiry(t *testing.T) {
	kv := newKV(t)
	require.NoError(t, kv.Set(storage.KeyToken, signed(t, jwt.MapClaims{"sub": "x"})))
	require.True(t, NewGuard(kv).Check().Allow)
}

func TestGuard_ExpiredToken(t *testing.T) {
	kv := newKV(t)
	require.NoError(t, kv.Set(storage.KeyToken, tokenExpiring(t, time.Now().Add(-time.Hour))))

	d := NewGuard(kv).Check()
	require.False(t, d.Allow)
	require.Equal(t, "/login?no-auth=true", d.Redirect.String())
	require.Empty(t, d.Notice)
}

func TestGuard_MalformedToken(t *testing.T) {
	kv := newKV(t)
	require.NoError(t, kv.Set(storage.KeyToken, "garbage"))

	d := NewGuard(kv).Check()
	require.False(t, d.Allow)
	require.Equal(t, router.Login(router.MarkerAuthRequired), d.Redirect)
	require.Equal(t, SessionCheckFailedNotice, d.Notice)
}

func TestGuard_UsesClock(t *testing.T) {
	kv := newKV(t)
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, kv.Set(storage.KeyToken, tokenExpiring(t, exp)))

	g := NewGuard(kv)
	g.now = func() time.Time { return exp.Add(-time.Second) }
	require.True(t, g.Check().Allow)

	g.now = func() time.Time { return exp.Add(time.Second) }
	require.False(t, g.Check().Allow)
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestValidateSignUp(t *testing.T) {
	require.True(t, ValidateSignUp("a@b.com", "Ameer Khan", "secret1").OK())

	fe := ValidateSignUp("a@b.com", "Ameer Khan", "abc")
	require.False(t, fe.OK())
	require.Equal(t, MsgShortPassword, fe.Password)
	require.Empty(t, fe.Email)
	require.Empty(t, fe.FullName)

	fe = ValidateSignUp("not-an-email", "", "secret1")
	require.Equal(t, MsgInvalidEmail, fe.Email)
	require.Equal(t, MsgMissingFullName, fe.FullName)
	require.Empty(t, fe.Password)
}

func TestValidEmail(t *testing.T) {
	for _, ok := range []string{"a@b.com", "first.last@sub.example.org", "x+y@d.io"} {
		require.True(t, ValidEmail(ok), ok)
	}
	for _, bad := range []string{"", "a@b", "@b.com", "a b@c.com", "a@b@c.com", "a@.com "} {
		require.False(t, ValidEmail(bad), bad)
	}
}

func TestCapitalizeName(t *testing.T) {
	require.Equal(t, "Ameer Khan", CapitalizeName("ameer khan"))
	require.Equal(t, "Ameer", CapitalizeName("ameer"))
	require.Equal(t, "McDonald Old", CapitalizeName("mcDonald old"))
	require.Equal(t, "", CapitalizeName(""))
}

// =============================================================================
// FLOWS
// =============================================================================

type fakeAPI struct {
	authCalls     int
	registerCalls int
	result        api.AuthResult
	err           error
	gotFullName   string
}

func (f *fakeAPI) Authenticate(_ context.Context, email, password string) (api.AuthResult, error) {
	f.authCalls++
	return f.result, f.err
}

func (f *fakeAPI) Register(_ context.Context, fullName, email, password string) (api.AuthResult, error) {
	f.registerCalls++
	f.gotFullName = fullName
	return f.result, f.err
}

func TestRegister_Success(t *testing.T) {
	fake := &fakeAPI{result: api.AuthResult{Token: "T"}}
	store := session.New(newKV(t))
	flows := NewFlows(fake, store)

	sess, err := flows.Register(context.Background(), "a@b.com", "ameer khan", "secret1")
	require.NoError(t, err)

	want := model.Session{Email: "a@b.com", FullName: "Ameer Khan", Token: "T"}
	require.Equal(t, want, sess)
	require.Equal(t, "Ameer Khan", fake.gotFullName)

	stored, ok := store.Get()
	require.True(t, ok)
	require.Equal(t, want, stored)
}

func TestRegister_ShortPasswordMakesNoCall(t *testing.T) {
	fake := &fakeAPI{result: api.AuthResult{Token: "T"}}
	flows := NewFlows(fake, session.New(newKV(t)))

	_, err := flows.Register(context.Background(), "a@b.com", "ameer khan", "abc")
	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	require.Equal(t, MsgShortPassword, fe.Password)
	require.Zero(t, fake.registerCalls)
}

func TestRegister_APIError(t *testing.T) {
	fake := &fakeAPI{err: &api.APIError{Status: 200, Message: "Email already registered"}}
	store := session.New(newKV(t))
	flows := NewFlows(fake, store)

	_, err := flows.Register(context.Background(), "a@b.com", "ameer", "secret1")
	require.Error(t, err)
	require.Equal(t, "Email already registered", FailureMessage(err))

	_, ok := store.Get()
	require.False(t, ok)
}

func TestLogin_Success(t *testing.T) {
	fake := &fakeAPI{result: api.AuthResult{Token: "T", FullName: "Ameer Khan"}}
	store := session.New(newKV(t))

	sess, err := NewFlows(fake, store).Login(context.Background(), " a@b.com ", "pw")
	require.NoError(t, err)
	require.Equal(t, model.Session{Email: "a@b.com", FullName: "Ameer Khan", Token: "T"}, sess)

	stored, ok := store.Get()
	require.True(t, ok)
	require.Equal(t, sess, stored)
}

func TestLogin_MissingFields(t *testing.T) {
	fake := &fakeAPI{}
	_, err := NewFlows(fake, session.New(newKV(t))).Login(context.Background(), "", "pw")
	require.ErrorIs(t, err, ErrMissingFields)
	require.Zero(t, fake.authCalls)
}

func TestLogin_TransportErrorIsGeneric(t *testing.T) {
	fake := &fakeAPI{err: errors.New("connection refused")}
	_, err := NewFlows(fake, session.New(newKV(t))).Login(context.Background(), "a@b.com", "pw")
	require.Equal(t, "An error occurred. Please try again.", FailureMessage(err))
}

func TestArrivalNotice(t *testing.T) {
	kv := newKV(t)
	flows := NewFlows(&fakeAPI{}, session.New(kv))
	require.Empty(t, flows.ArrivalNotice())

	require.NoError(t, kv.Set(storage.KeyToken, tokenExpiring(t, time.Now().Add(-time.Hour))))
	require.Equal(t, SessionExpiredMessage, flows.ArrivalNotice())

	require.NoError(t, kv.Set(storage.KeyToken, tokenExpiring(t, time.Now().Add(time.Hour))))
	require.Empty(t, flows.ArrivalNotice())

	require.NoError(t, kv.Set(storage.KeyToken, "not-a-jwt"))
	require.Equal(t, SessionCheckFailedNotice, flows.ArrivalNotice())
}

func TestLogout(t *testing.T) {
	store := session.New(newKV(t))
	flows := NewFlows(&fakeAPI{}, store)
	require.NoError(t, flows.Adopt(model.Session{Email: "a@b.com", Token: "T"}))
	require.NoError(t, flows.Logout())

	_, ok := store.Get()
	require.False(t, ok)
}
