// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"testing"

	"github.com/jeranaias/chatbox-tui/internal/model"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw        string
		screen     Screen
		room       string
		marker     string
		redirected bool
	}{
		{"/signup", ScreenSignup, "", "", false},
		{"/signup?no-auth=true", ScreenSignup, "", MarkerNoAuth, false},
		{"/login?auth-required=true", ScreenLogin, "", MarkerAuthRequired, false},
		{"/login?no-auth=true", ScreenLogin, "", MarkerNoAuth, false},
		{"/ameerchatbox", ScreenChat, "", "", false},
		{"/ameerchatbox/", ScreenChat, "", "", false},
		{"/ameerchatbox/42", ScreenChat, "42", "", false},
		{"/ameerchatbox/room-x", ScreenChat, "room-x", "", false},
		{"/", ScreenSignup, "", "", true},
		{"", ScreenSignup, "", "", true},
		{"/settings", ScreenSignup, "", "", true},
		{"/ameerchatbox/1/2", ScreenSignup, "", "", true},
	}

	for _, tt := range tests {
		route, redirected := Parse(tt.raw)
		if route.Screen != tt.screen {
			t.Errorf("Parse(%q).Screen = %v, want %v", tt.raw, route.Screen, tt.screen)
		}
		if redirected != tt.redirected {
			t.Errorf("Parse(%q) redirected = %v, want %v", tt.raw, redirected, tt.redirected)
		}
		if route.Marker != tt.marker {
			t.Errorf("Parse(%q).Marker = %q, want %q", tt.raw, route.Marker, tt.marker)
		}
		gotRoom := ""
		if route.Room != nil {
			gotRoom = route.Room.String()
		}
		if gotRoom != tt.room {
			t.Errorf("Parse(%q).Room = %q, want %q", tt.raw, gotRoom, tt.room)
		}
	}
}

func TestRouteString(t *testing.T) {
	room := model.NumericRoomID(42)
	tests := map[string]Route{
		"/signup?no-auth=true":      Signup(MarkerNoAuth),
		"/login?no-auth=true":       Login(MarkerNoAuth),
		"/login?auth-required=true": Login(MarkerAuthRequired),
		"/login":                    Login(""),
		"/ameerchatbox":             Chat(nil),
		"/ameerchatbox/42":          Chat(&room),
	}
	for want, route := range tests {
		if got := route.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
		// Every rendered route parses back to itself.
		back, redirected := Parse(want)
		if redirected || back.String() != want {
			t.Errorf("Parse(%q) round trip gave %q (redirected=%v)", want, back.String(), redirected)
		}
	}
}

func TestProtected(t *testing.T) {
	if !Chat(nil).Protected() {
		t.Error("chat route should be protected")
	}
	if Login("").Protected() || Signup("").Protected() {
		t.Error("auth routes should not be protected")
	}
}
