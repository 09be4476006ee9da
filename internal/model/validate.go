// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for users, conversations and
// messages.
package model

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

// =============================================================================
// FORM VALIDATION
// =============================================================================

// Validation runs entirely client-side and blocks submission; no request is
// issued for input that fails these checks.

const (
	// MinNameLen and MaxNameLen bound the display name length in runes.
	MinNameLen = 2
	MaxNameLen = 50

	// MinPasswordLen is the minimum accepted password length.
	MinPasswordLen = 6
)

var (
	ErrEmailRequired    = errors.New("email is required")
	ErrEmailInvalid     = errors.New("please enter a valid email address")
	ErrNameRequired     = errors.New("name is required")
	ErrNameLength       = errors.New("name must be between 2 and 50 characters")
	ErrPasswordRequired = errors.New("password is required")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordSame     = errors.New("new password must be different from current password")
	ErrTitleRequired    = errors.New("title cannot be empty")
)

// Loose shape check only; the backend is the authority on deliverability.
var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// ValidateEmail checks that the address is present and plausibly shaped.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailRequired
	}
	if !emailPattern.MatchString(email) {
		return ErrEmailInvalid
	}
	return nil
}

// ValidateName checks the display name length bounds.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	n := len([]rune(name))
	if n < MinNameLen || n > MaxNameLen {
		return ErrNameLength
	}
	return nil
}

// ValidatePassword checks the minimum password length.
func ValidatePassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if len([]rune(password)) < MinPasswordLen {
		return ErrPasswordTooShort
	}
	return nil
}

// ValidatePasswordConfirm checks that the confirmation matches.
func ValidatePasswordConfirm(password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}

// ValidatePasswordChange checks a change-password form: current required,
// new valid, confirmed, and different from current.
func ValidatePasswordChange(current, next, confirm string) error {
	if current == "" {
		return errors.New("current password is required")
	}
	if err := ValidatePassword(next); err != nil {
		return err
	}
	if err := ValidatePasswordConfirm(next, confirm); err != nil {
		return err
	}
	if current == next {
		return ErrPasswordSame
	}
	return nil
}

// ValidateTitle rejects empty conversation titles before any request.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrTitleRequired
	}
	return nil
}

// =============================================================================
// PASSWORD STRENGTH
// =============================================================================

// PasswordStrength scores a password 0-5: minimum length, length >= 8,
// an uppercase letter, a digit, and a symbol each add one point.
func PasswordStrength(password string) int {
	if password == "" {
		return 0
	}

	score := 0
	if len([]rune(password)) >= MinPasswordLen {
		score++
	}
	if len([]rune(password)) >= 8 {
		score++
	}

	var hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			hasSymbol = true
		}
	}
	if hasUpper {
		score++
	}
	if hasDigit {
		score++
	}
	if hasSymbol {
		score++
	}
	return score
}

// PasswordStrengthLabel maps a strength score to its display label.
func PasswordStrengthLabel(score int) string {
	switch {
	case score <= 0:
		return ""
	case score <= 2:
		return "Weak"
	case score == 3:
		return "Fair"
	case score == 4:
		return "Good"
	default:
		return "Strong"
	}
}
