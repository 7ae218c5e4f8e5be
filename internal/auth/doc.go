// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth holds the route guard, sign-up validation, and the login and
// registration flows that populate the session.
//
// # Key Types
//
//   - Guard: Offline token presence and expiry check run on every
//     navigation into a protected route
//   - Decision: Allow, or a redirect route with an optional blocking notice
//   - Flows: Login, Register, Adopt, and Logout over the session store
//   - FieldErrors: Inline sign-up validation messages
//
// # Guard Outcomes
//
//   - no token: /signup?no-auth=true
//   - expired token: /login?no-auth=true
//   - undecodable token: notice, then /login?auth-required=true
//   - otherwise: allow
//
// # Usage
//
//	guard := auth.NewGuard(store.KV())
//	if d := guard.Check(); !d.Allow {
//	    navigate(d.Redirect)
//	}
package auth
