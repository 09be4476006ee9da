// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for users, conversations and
// messages.
package model

import (
	"strings"
	"time"
	"unicode"
)

// =============================================================================
// USER TYPE
// =============================================================================

// User is the authenticated account profile as the backend reports it.
type User struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Merge shallow-merges non-zero fields of other into a copy of u.
// Used after profile edits where the backend returns only changed fields.
func (u User) Merge(other User) User {
	merged := u
	if other.ID != "" {
		merged.ID = other.ID
	}
	if other.Name != "" {
		merged.Name = other.Name
	}
	if other.Email != "" {
		merged.Email = other.Email
	}
	if other.Avatar != "" {
		merged.Avatar = other.Avatar
	}
	if !other.CreatedAt.IsZero() {
		merged.CreatedAt = other.CreatedAt
	}
	return merged
}

// Initials returns up to two uppercase initials from the user's name,
// for avatar placeholders in the terminal UI.
func Initials(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "U"
	}

	var b strings.Builder
	for i, f := range fields {
		if i >= 2 {
			break
		}
		r := []rune(f)[0]
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
