// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for users, conversations and
// messages.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/converse-tui/internal/util"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// Valid reports whether the role is one of the enumerated kinds.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// OptimisticIDPrefix marks locally-created messages that have not been
// confirmed by the backend. Confirmed messages carry server-assigned IDs
// which never use this prefix.
const OptimisticIDPrefix = "temp-"

// Message represents a single message in a conversation.
// Content is immutable once created; the backend owns confirmed message IDs.
type Message struct {
	ID        string    `json:"_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewOptimisticMessage creates a local placeholder for a just-sent user
// message. It carries a temporary ID and is cleared once the triggering send
// settles; it is never merged into confirmed data.
func NewOptimisticMessage(content string) Message {
	return Message{
		ID:        OptimisticIDPrefix + uuid.NewString(),
		Role:      RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// IsOptimistic reports whether the message is a local placeholder awaiting
// backend confirmation.
func (m Message) IsOptimistic() bool {
	return strings.HasPrefix(m.ID, OptimisticIDPrefix)
}

// Preview returns a truncated single-line preview of the message content.
func (m Message) Preview(maxLen int) string {
	oneLine := strings.Join(strings.Fields(m.Content), " ")
	return util.TruncateRunes(oneLine, maxLen)
}

// IsEmpty returns true if the message has no content.
func (m Message) IsEmpty() bool {
	return strings.TrimSpace(m.Content) == ""
}
