// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/converse-tui/internal/model"
)

// =============================================================================
// DEFAULTS
// =============================================================================

func TestNew_Defaults(t *testing.T) {
	s := New()

	assert.Empty(t, s.ActiveID())
	assert.Empty(t, s.Optimistic())
	assert.False(t, s.IsTyping())
	assert.True(t, s.SidebarOpen(), "sidebar defaults open")
}

// =============================================================================
// SEND LIFECYCLE
// =============================================================================

func TestBeginSend_AppendsOptimisticAndSetsTyping(t *testing.T) {
	s := New()
	s.SetActive("c1")

	msg, sentFor := s.BeginSend("Hello")

	assert.Equal(t, "c1", sentFor)
	assert.True(t, msg.IsOptimistic())
	assert.Equal(t, model.RoleUser, msg.Role)
	assert.True(t, s.IsTyping())
	assert.Len(t, s.Optimistic(), 1)
}

func TestSettleSend_Success(t *testing.T) {
	s := New()
	s.SetActive("c1")
	_, sentFor := s.BeginSend("Hello")

	s.SettleSend(sentFor, "c1", true)

	assert.False(t, s.IsTyping())
	assert.Empty(t, s.Optimistic(), "buffer empty exactly when no send is in flight")
	assert.Equal(t, "c1", s.ActiveID())
}

func TestSettleSend_FailureAlsoClears(t *testing.T) {
	s := New()
	s.SetActive("c1")
	_, sentFor := s.BeginSend("Hello")

	s.SettleSend(sentFor, "", false)

	assert.False(t, s.IsTyping())
	assert.Empty(t, s.Optimistic(), "failure clears too; the user may resend")
	assert.Equal(t, "c1", s.ActiveID(), "failure does not adopt any id")
}

func TestSettleSend_ImplicitCreationAdoptsReturnedID(t *testing.T) {
	s := New()

	// Send with no active conversation.
	msg, sentFor := s.BeginSend("Hello")
	assert.Empty(t, sentFor)
	assert.Equal(t, "Hello", msg.Content)

	s.SettleSend(sentFor, "c1", true)

	assert.Equal(t, "c1", s.ActiveID(), "returned conversation becomes active")
	assert.Empty(t, s.Optimistic())
	assert.False(t, s.IsTyping())
}

func TestSettleSend_IgnoredAfterSwitch(t *testing.T) {
	s := New()
	s.SetActive("c1")
	_, sentFor := s.BeginSend("Hello")

	// User switches before the send settles.
	s.SetActive("c2")
	_, sentFor2 := s.BeginSend("Other")

	// The old settle must not disturb c2's in-flight state.
	s.SettleSend(sentFor, "c1", true)

	assert.Equal(t, "c2", s.ActiveID())
	assert.True(t, s.IsTyping())
	assert.Len(t, s.Optimistic(), 1)

	s.SettleSend(sentFor2, "c2", true)
	assert.False(t, s.IsTyping())
}

// =============================================================================
// SWITCHING / DELETION
// =============================================================================

func TestSetActive_ResetsBufferAndTyping(t *testing.T) {
	s := New()
	s.SetActive("c1")
	s.BeginSend("Hello")

	s.SetActive("c2")

	assert.Empty(t, s.Optimistic(), "switching always yields an empty buffer")
	assert.False(t, s.IsTyping())
	assert.Equal(t, "c2", s.ActiveID())
}

func TestSetActive_SameIDKeepsState(t *testing.T) {
	s := New()
	s.SetActive("c1")
	s.BeginSend("Hello")

	s.SetActive("c1")

	assert.Len(t, s.Optimistic(), 1, "re-selecting the active conversation is a no-op")
	assert.True(t, s.IsTyping())
}

func TestConversationDeleted(t *testing.T) {
	s := New()
	s.SetActive("c1")
	s.BeginSend("Hello")

	s.ConversationDeleted("c2")
	assert.Equal(t, "c1", s.ActiveID(), "deleting another conversation changes nothing")

	s.ConversationDeleted("c1")
	assert.Empty(t, s.ActiveID(), "deleting the active conversation clears the pointer")
	assert.Empty(t, s.Optimistic())
	assert.False(t, s.IsTyping())
}

// =============================================================================
// MERGED VIEW
// =============================================================================

func TestMerged_OptimisticAfterConfirmed(t *testing.T) {
	s := New()
	s.SetActive("c1")

	confirmed := []model.Message{
		{ID: "m1", Role: model.RoleUser, Content: "Hi"},
		{ID: "m2", Role: model.RoleAssistant, Content: "Hello!"},
	}

	msg, _ := s.BeginSend("Follow-up")
	merged := s.Merged(confirmed)

	assert.Len(t, merged, 3)
	assert.Equal(t, "m1", merged[0].ID)
	assert.Equal(t, "m2", merged[1].ID)
	assert.Equal(t, msg.ID, merged[2].ID, "optimistic entries always render last")
}

func TestMerged_EmptyBuffer(t *testing.T) {
	s := New()
	confirmed := []model.Message{{ID: "m1"}}
	assert.Equal(t, confirmed, s.Merged(confirmed))
}

// =============================================================================
// LAYOUT / RESET
// =============================================================================

func TestToggleSidebar(t *testing.T) {
	s := New()
	s.ToggleSidebar()
	assert.False(t, s.SidebarOpen())
	s.ToggleSidebar()
	assert.True(t, s.SidebarOpen())
}

func TestClearChat(t *testing.T) {
	s := New()
	s.SetActive("c1")
	s.BeginSend("Hello")
	s.ToggleSidebar()

	s.ClearChat()

	assert.Empty(t, s.ActiveID())
	assert.Empty(t, s.Optimistic())
	assert.False(t, s.IsTyping())
	assert.False(t, s.SidebarOpen(), "layout state survives a chat reset")
}
