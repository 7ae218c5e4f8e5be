// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package router maps in-app route paths to screens.
package router

import (
	"net/url"
	"strings"

	"github.com/jeranaias/chatbox-tui/internal/model"
)

// =============================================================================
// PATHS AND MARKERS
// =============================================================================

// Route paths.
const (
	PathSignup = "/signup"
	PathLogin  = "/login"
	PathChat   = "/ameerchatbox"
)

// Query markers set by the route guard. Each is sent as "<marker>=true".
const (
	MarkerNoAuth       = "no-auth"
	MarkerAuthRequired = "auth-required"
)

// =============================================================================
// SCREEN
// =============================================================================

// Screen identifies which top-level view a route renders.
type Screen int

const (
	// ScreenSignup is the registration form.
	ScreenSignup Screen = iota
	// ScreenLogin is the login form.
	ScreenLogin
	// ScreenChat is the guarded chat view.
	ScreenChat
)

// String returns the screen name.
func (s Screen) String() string {
	switch s {
	case ScreenSignup:
		return "signup"
	case ScreenLogin:
		return "login"
	case ScreenChat:
		return "chat"
	default:
		return "unknown"
	}
}

// =============================================================================
// ROUTE
// =============================================================================

// Route is a parsed in-app location.
type Route struct {
	Screen Screen
	// Room is set only for /ameerchatbox/:id.
	Room *model.RoomID
	// Marker is the guard marker carried in the query, if any.
	Marker string
}

// Signup returns the sign-up route with an optional marker.
func Signup(marker string) Route {
	return Route{Screen: ScreenSignup, Marker: marker}
}

// Login returns the login route with an optional marker.
func Login(marker string) Route {
	return Route{Screen: ScreenLogin, Marker: marker}
}

// Chat returns the chat route, scoped to room when it is non-nil.
func Chat(room *model.RoomID) Route {
	if room != nil && room.IsZero() {
		room = nil
	}
	return Route{Screen: ScreenChat, Room: room}
}

// Protected reports whether entering the route requires a valid token.
func (r Route) Protected() bool {
	return r.Screen == ScreenChat
}

// String renders the route as a path with its query.
func (r Route) String() string {
	var path string
	switch r.Screen {
	case ScreenLogin:
		path = PathLogin
	case ScreenChat:
		path = PathChat
		if r.Room != nil {
			path += "/" + url.PathEscape(r.Room.String())
		}
	default:
		path = PathSignup
	}
	if r.Marker != "" {
		path += "?" + url.Values{r.Marker: {"true"}}.Encode()
	}
	return path
}

// Parse resolves a path such as "/ameerchatbox/42". The root path and any
// unmatched path resolve to the sign-up screen; redirected reports that.
func Parse(raw string) (route Route, redirected bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Signup(""), true
	}

	marker := ""
	for _, m := range []string{MarkerNoAuth, MarkerAuthRequired} {
		if u.Query().Get(m) == "true" {
			marker = m
			break
		}
	}

	path := strings.TrimRight(u.Path, "/")
	switch {
	case path == PathSignup:
		return Signup(marker), false
	case path == PathLogin:
		return Login(marker), false
	case path == PathChat:
		return Chat(nil), false
	case strings.HasPrefix(path, PathChat+"/"):
		rest := strings.TrimPrefix(path, PathChat+"/")
		if strings.Contains(rest, "/") {
			return Signup(""), true
		}
		id, err := model.ParseRoomID(rest)
		if err != nil {
			return Signup(""), true
		}
		return Chat(&id), false
	default:
		return Signup(""), true
	}
}
