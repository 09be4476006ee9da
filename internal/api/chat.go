// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the assistant backend.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jeranaias/converse-tui/internal/model"
)

// =============================================================================
// CHAT ENDPOINTS
// =============================================================================

// SendResult is the outcome of a message send: the id of the (possibly
// implicitly created) conversation and the persisted exchange.
type SendResult struct {
	ConversationID string
	Messages       []model.Message
}

// UnmarshalJSON decodes the send payload. The backend returns the
// conversation as a bare id string; a full conversation object carrying
// `_id` is accepted too.
func (r *SendResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		Conversation json.RawMessage `json:"conversation"`
		Messages     []model.Message `json:"messages"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Messages = raw.Messages
	r.ConversationID = ""
	if len(raw.Conversation) == 0 || string(raw.Conversation) == "null" {
		return nil
	}

	var id string
	if err := json.Unmarshal(raw.Conversation, &id); err == nil {
		r.ConversationID = id
		return nil
	}

	var conv model.Conversation
	if err := json.Unmarshal(raw.Conversation, &conv); err != nil {
		return fmt.Errorf("unexpected conversation shape in send payload: %w", err)
	}
	r.ConversationID = conv.ID
	return nil
}

// SendMessage sends a user message. When conversationID is empty the backend
// creates a conversation implicitly; the result's conversation id is
// authoritative and may differ from the input. The call blocks until the
// assistant reply is generated.
func (c *Client) SendMessage(ctx context.Context, content, conversationID string) (SendResult, error) {
	var zero SendResult

	if err := c.sendLimiter.Wait(ctx); err != nil {
		return zero, err
	}

	body := map[string]any{"message": content}
	if conversationID != "" {
		body["conversationId"] = conversationID
	} else {
		body["conversationId"] = nil
	}

	data, err := c.doJSON(ctx, http.MethodPost, "/chat/send", body)
	if err != nil {
		return zero, err
	}

	var result SendResult
	if err := json.Unmarshal(data, &result); err != nil {
		return zero, fmt.Errorf("failed to parse send payload: %w", err)
	}
	return result, nil
}

// QuickChat sends a stateless prompt; nothing is persisted server-side.
func (c *Client) QuickChat(ctx context.Context, message string) (string, error) {
	if err := c.sendLimiter.Wait(ctx); err != nil {
		return "", err
	}

	data, err := c.doJSON(ctx, http.MethodPost, "/chat/quick", map[string]string{"message": message})
	if err != nil {
		return "", err
	}

	var payload struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("failed to parse quick chat payload: %w", err)
	}
	return payload.Response, nil
}
