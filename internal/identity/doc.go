// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package identity signs the user in through Google as an alternative to
// email and password.
//
// The flow is OAuth 2.0 authorization code with PKCE. A loopback HTTP server
// on 127.0.0.1 receives the redirect, the code is exchanged for tokens, and
// the userinfo endpoint supplies the email and display name. The resulting
// Session carries the ID token as its credential.
//
// # Key Types
//
//   - Provider: Runs the browser sign-in
//   - Profile: Email and name returned by the provider
//
// # Usage
//
//	p, err := identity.New(cfg.Identity)
//	if err != nil {
//	    return err
//	}
//	sess, err := p.SignIn(ctx)
//	if err == nil {
//	    flows.Adopt(sess)
//	}
package identity
