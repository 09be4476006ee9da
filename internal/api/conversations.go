// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the assistant backend.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jeranaias/converse-tui/internal/model"
)

// =============================================================================
// CONVERSATION ENDPOINTS
// =============================================================================

// pagination is the backend's page descriptor.
type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// ListConversations fetches one page of the conversation list, ordered most
// recent first by the backend.
func (c *Client) ListConversations(ctx context.Context, page, limit int) (model.Page[model.Conversation], error) {
	var zero model.Page[model.Conversation]

	data, err := c.doJSON(ctx, http.MethodGet, "/conversations"+pageQuery(page, limit), nil)
	if err != nil {
		return zero, err
	}

	var payload struct {
		Conversations []model.Conversation `json:"conversations"`
		Pagination    pagination           `json:"pagination"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return zero, fmt.Errorf("failed to parse conversations payload: %w", err)
	}

	return model.Page[model.Conversation]{
		Items: payload.Conversations,
		Page:  payload.Pagination.Page,
		Limit: payload.Pagination.Limit,
		Total: payload.Pagination.Total,
	}, nil
}

// GetConversation fetches a single conversation by id.
func (c *Client) GetConversation(ctx context.Context, id string) (model.Conversation, error) {
	data, err := c.doJSON(ctx, http.MethodGet, "/conversations/"+url.PathEscape(id), nil)
	if err != nil {
		return model.Conversation{}, err
	}
	return decodeConversation(data)
}

// GetMessages fetches one page of a conversation's messages in server order.
func (c *Client) GetMessages(ctx context.Context, conversationID string, page, limit int) (model.Page[model.Message], error) {
	var zero model.Page[model.Message]

	path := "/conversations/" + url.PathEscape(conversationID) + "/messages" + pageQuery(page, limit)
	data, err := c.doJSON(ctx, http.MethodGet, path, nil)
	if err != nil {
		return zero, err
	}

	var payload struct {
		Messages   []model.Message `json:"messages"`
		Pagination pagination      `json:"pagination"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return zero, fmt.Errorf("failed to parse messages payload: %w", err)
	}

	return model.Page[model.Message]{
		Items: payload.Messages,
		Page:  payload.Pagination.Page,
		Limit: payload.Pagination.Limit,
		Total: payload.Pagination.Total,
	}, nil
}

// CreateConversation creates a new empty conversation.
func (c *Client) CreateConversation(ctx context.Context, title string) (model.Conversation, error) {
	body := map[string]string{}
	if title != "" {
		body["title"] = title
	}
	data, err := c.doJSON(ctx, http.MethodPost, "/conversations", body)
	if err != nil {
		return model.Conversation{}, err
	}
	return decodeConversation(data)
}

// UpdateConversation renames a conversation.
func (c *Client) UpdateConversation(ctx context.Context, id, title string) (model.Conversation, error) {
	body := map[string]string{"title": title}
	data, err := c.doJSON(ctx, http.MethodPut, "/conversations/"+url.PathEscape(id), body)
	if err != nil {
		return model.Conversation{}, err
	}
	return decodeConversation(data)
}

// DeleteConversation deletes a conversation. Clearing the active pointer
// when the deleted conversation was selected is the caller's job.
func (c *Client) DeleteConversation(ctx context.Context, id string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "/conversations/"+url.PathEscape(id), nil)
	return err
}

// ClearMessages removes all messages from a conversation, keeping the
// conversation itself.
func (c *Client) ClearMessages(ctx context.Context, id string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "/conversations/"+url.PathEscape(id)+"/messages", nil)
	return err
}

func decodeConversation(data json.RawMessage) (model.Conversation, error) {
	var payload struct {
		Conversation model.Conversation `json:"conversation"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return model.Conversation{}, fmt.Errorf("failed to parse conversation payload: %w", err)
	}
	return payload.Conversation, nil
}
