// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package state tracks the transient chat view state.
package state

import (
	"sync"

	"github.com/jeranaias/converse-tui/internal/model"
)

// ChatState is the view model state for the chat screen. Safe for
// concurrent use; bubbletea commands settle sends from goroutines.
//
// Invariants: the optimistic buffer is scoped to the active conversation
// and is empty whenever no send is in flight for it; switching the active
// conversation always yields an empty buffer and a cleared typing flag.
type ChatState struct {
	mu          sync.RWMutex
	activeID    string
	optimistic  []model.Message
	typing      bool
	sidebarOpen bool
}

// New creates chat state with the sidebar open, its default.
func New() *ChatState {
	return &ChatState{sidebarOpen: true}
}

// =============================================================================
// ACTIVE CONVERSATION
// =============================================================================

// ActiveID returns the active conversation id, or "" when none is selected.
func (s *ChatState) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// SetActive switches the active conversation. Switching resets the
// optimistic buffer and typing flag immediately; an in-flight send for the
// previous conversation is not cancelled, its settle just no longer applies.
func (s *ChatState) SetActive(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeID == id {
		return
	}
	s.activeID = id
	s.optimistic = nil
	s.typing = false
}

// ConversationDeleted reacts to a deletion: when the deleted conversation
// was active, the pointer and buffer are cleared.
func (s *ChatState) ConversationDeleted(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeID != id {
		return
	}
	s.activeID = ""
	s.optimistic = nil
	s.typing = false
}

// =============================================================================
// SENDS
// =============================================================================

// BeginSend records a send being dispatched for the active conversation:
// the content is appended to the optimistic buffer and the typing flag is
// set. Returns the placeholder message and the conversation id the send is
// for (possibly "", meaning implicit creation).
func (s *ChatState) BeginSend(content string) (model.Message, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := model.NewOptimisticMessage(content)
	s.optimistic = append(s.optimistic, msg)
	s.typing = true
	return msg, s.activeID
}

// SettleSend records a send completing, successfully or not. sentFor is the
// id returned by BeginSend; returnedID is the backend's conversation id on
// success ("" on failure). The buffer and typing flag are cleared only when
// the user is still on the conversation the send was for; on a successful
// implicit creation the returned id becomes active.
func (s *ChatState) SettleSend(sentFor, returnedID string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeID != sentFor {
		// Switched away mid-flight; SetActive already reset the state and
		// the response only affects the cache.
		return
	}

	s.typing = false
	s.optimistic = nil
	if ok && returnedID != "" {
		s.activeID = returnedID
	}
}

// IsTyping reports whether a send is awaiting the assistant's reply.
func (s *ChatState) IsTyping() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.typing
}

// =============================================================================
// OPTIMISTIC BUFFER
// =============================================================================

// Optimistic returns a copy of the optimistic buffer.
func (s *ChatState) Optimistic() []model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Message, len(s.optimistic))
	copy(out, s.optimistic)
	return out
}

// ClearOptimistic empties the buffer.
func (s *ChatState) ClearOptimistic() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.optimistic = nil
}

// Merged returns the list a view renders: confirmed messages in server
// order followed by any still-pending optimistic messages, regardless of
// timestamps.
func (s *ChatState) Merged(confirmed []model.Message) []model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Message, 0, len(confirmed)+len(s.optimistic))
	out = append(out, confirmed...)
	out = append(out, s.optimistic...)
	return out
}

// =============================================================================
// LAYOUT / RESET
// =============================================================================

// SidebarOpen reports whether the conversation sidebar is shown.
func (s *ChatState) SidebarOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sidebarOpen
}

// ToggleSidebar flips the sidebar open state.
func (s *ChatState) ToggleSidebar() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sidebarOpen = !s.sidebarOpen
}

// ClearChat resets everything but layout state. Wired to logout.
func (s *ChatState) ClearChat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeID = ""
	s.optimistic = nil
	s.typing = false
}
