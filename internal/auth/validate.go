// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MinPasswordLength is the shortest password sign-up accepts.
const MinPasswordLength = 6

// Inline validation messages.
const (
	MsgInvalidEmail    = "Please enter a valid email."
	MsgMissingFullName = "Please enter your full name."
	MsgShortPassword   = "Password must be at least 6 characters."
	MsgMissingFields   = "Please fill in all fields."
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ErrMissingFields is returned by login when a field is empty.
var ErrMissingFields = errors.New(MsgMissingFields)

// FieldErrors carries one inline message per sign-up field.
type FieldErrors struct {
	Email    string
	FullName string
	Password string
}

// OK reports whether every field passed.
func (f FieldErrors) OK() bool {
	return f.Email == "" && f.FullName == "" && f.Password == ""
}

// Error implements error so a failed validation can be returned directly.
func (f FieldErrors) Error() string {
	var msgs []string
	for _, m := range []string{f.Email, f.FullName, f.Password} {
		if m != "" {
			msgs = append(msgs, m)
		}
	}
	return strings.Join(msgs, " ")
}

// ValidEmail reports whether email looks like local@domain.tld.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateSignUp checks the three sign-up fields.
func ValidateSignUp(email, fullName, password string) FieldErrors {
	var f FieldErrors
	if !ValidEmail(email) {
		f.Email = MsgInvalidEmail
	}
	if strings.TrimSpace(fullName) == "" {
		f.FullName = MsgMissingFullName
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		f.Password = MsgShortPassword
	}
	return f
}

// ValidateLogin requires both fields; their format is not checked.
func ValidateLogin(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return ErrMissingFields
	}
	return nil
}

// CapitalizeName upper-cases the first letter of every word and leaves the
// rest untouched, so "ameer khan" becomes "Ameer Khan" as it is typed.
func CapitalizeName(name string) string {
	// Casers keep state; one per call.
	return cases.Title(language.Und, cases.NoLower).String(name)
}
