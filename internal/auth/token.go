// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken indicates the stored token could not be decoded.
var ErrMalformedToken = errors.New("malformed token")

// TokenExpiry decodes token without verifying its signature and returns
// its exp claim. ok is false when the token carries no exp.
// SECURITY: Only the server verifies tokens; this is a local freshness hint.
func TokenExpiry(token string) (exp time.Time, ok bool, err error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	date, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if date == nil {
		return time.Time{}, false, nil
	}
	return date.Time, true, nil
}

// TokenExpired reports whether token's exp claim lies in the past.
// A token without exp never expires.
func TokenExpired(token string) (bool, error) {
	return tokenExpiredAt(token, time.Now())
}

func tokenExpiredAt(token string, now time.Time) (bool, error) {
	exp, ok, err := TokenExpiry(token)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return exp.Before(now), nil
}
