// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main chat view.
//
// This file holds the async commands and their result messages. Every
// network call goes through the cache so reads coalesce and writes
// invalidate the right entries.
package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/converse-tui/internal/api"
	"github.com/jeranaias/converse-tui/internal/cache"
	"github.com/jeranaias/converse-tui/internal/model"
)

// =============================================================================
// RESULT MESSAGES
// =============================================================================

// OpenProfileMsg asks the parent to switch to the profile view.
type OpenProfileMsg struct{}

// LogoutRequestedMsg asks the parent to log out and return to the auth view.
type LogoutRequestedMsg struct{}

type conversationsLoadedMsg struct {
	page model.Page[model.Conversation]
	err  error
}

type messagesLoadedMsg struct {
	conversationID string
	page           model.Page[model.Message]
	err            error
}

type sendSettledMsg struct {
	sentFor string
	result  api.SendResult
	err     error
}

type conversationCreatedMsg struct {
	conversation model.Conversation
	err          error
}

type conversationRenamedMsg struct {
	conversation model.Conversation
	err          error
}

type conversationDeletedMsg struct {
	id  string
	err error
}

type messagesClearedMsg struct {
	id  string
	err error
}

// =============================================================================
// COMMANDS
// =============================================================================

const (
	readTimeout  = 30 * time.Second
	sendTimeout  = 2 * time.Minute
	writeTimeout = 30 * time.Second
)

func loadConversationsCmd(c *cache.Cache, page, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
		defer cancel()

		p, err := c.ListConversations(ctx, page, limit)
		return conversationsLoadedMsg{page: p, err: err}
	}
}

func loadMessagesCmd(c *cache.Cache, conversationID string, page, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
		defer cancel()

		p, err := c.GetMessages(ctx, conversationID, page, limit)
		return messagesLoadedMsg{conversationID: conversationID, page: p, err: err}
	}
}

// sendMessageCmd carries sentFor, the conversation id the send was
// dispatched for, so the settle can be matched against the conversation
// the user is looking at when the reply lands.
func sendMessageCmd(c *cache.Cache, content, sentFor string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		result, err := c.SendMessage(ctx, content, sentFor)
		return sendSettledMsg{sentFor: sentFor, result: result, err: err}
	}
}

func createConversationCmd(c *cache.Cache, title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		conv, err := c.CreateConversation(ctx, title)
		return conversationCreatedMsg{conversation: conv, err: err}
	}
}

func renameConversationCmd(c *cache.Cache, id, title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		conv, err := c.UpdateConversation(ctx, id, title)
		return conversationRenamedMsg{conversation: conv, err: err}
	}
}

func deleteConversationCmd(c *cache.Cache, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		err := c.DeleteConversation(ctx, id)
		return conversationDeletedMsg{id: id, err: err}
	}
}

func clearMessagesCmd(c *cache.Cache, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		err := c.ClearMessages(ctx, id)
		return messagesClearedMsg{id: id, err: err}
	}
}
