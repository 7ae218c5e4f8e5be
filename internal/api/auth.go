// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
)

// AuthResult is the data payload of a successful login or registration.
// Registration responses carry only the token.
type AuthResult struct {
	Token    string `json:"token"`
	FullName string `json:"fullName"`
}

type authenticateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Authenticate exchanges credentials for a token.
func (c *Client) Authenticate(ctx context.Context, email, password string) (AuthResult, error) {
	var res AuthResult
	err := c.do(ctx, http.MethodPost, PathAuthenticate,
		authenticateRequest{Email: email, Password: password}, false, &res)
	if err != nil {
		return AuthResult{}, err
	}
	if res.Token == "" {
		return AuthResult{}, ErrInvalidResponse
	}
	return res, nil
}

// Register creates an account and returns its token.
func (c *Client) Register(ctx context.Context, fullName, email, password string) (AuthResult, error) {
	var res AuthResult
	err := c.do(ctx, http.MethodPost, PathRegister,
		registerRequest{FullName: fullName, Email: email, Password: password}, false, &res)
	if err != nil {
		return AuthResult{}, err
	}
	if res.Token == "" {
		return AuthResult{}, ErrInvalidResponse
	}
	return res, nil
}
