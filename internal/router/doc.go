// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package router maps in-app route paths to screens.
//
// Routes:
//   - /signup: registration form
//   - /login: login form
//   - /ameerchatbox: new chat (guarded)
//   - /ameerchatbox/:id: existing room (guarded)
//
// The root path and unmatched paths redirect to /signup. The route guard
// adds "?no-auth=true" or "?auth-required=true" when it sends the user to
// an auth screen.
//
// # Usage
//
//	route, _ := router.Parse("/ameerchatbox/42")
//	if route.Protected() {
//	    decision := guard.Check()
//	    ...
//	}
package router
