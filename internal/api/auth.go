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
// AUTH ENDPOINTS
// =============================================================================

// Session is the credentials pair returned by login and register.
type Session struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

// RegisterRequest carries the register form. AvatarPath is optional; when
// set, the file is validated locally (type sniff, 5MB cap) before any
// request is issued and uploaded as a multipart attachment.
type RegisterRequest struct {
	Name       string
	Email      string
	Password   string
	AvatarPath string
}

// Register creates a new account and returns its session.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (Session, error) {
	fields := map[string]string{
		"name":     req.Name,
		"email":    req.Email,
		"password": req.Password,
	}

	var file *multipartFile
	if req.AvatarPath != "" {
		info, err := model.CheckAvatar(req.AvatarPath)
		if err != nil {
			return Session{}, err
		}
		file = &multipartFile{Field: "avatar", Path: info.Path, ContentType: info.ContentType}
	}

	data, err := c.doMultipart(ctx, http.MethodPost, "/auth/register", fields, file)
	if err != nil {
		return Session{}, err
	}
	return decodeSession(data)
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	body := map[string]string{"email": email, "password": password}
	data, err := c.doJSON(ctx, http.MethodPost, "/auth/login", body)
	if err != nil {
		return Session{}, err
	}
	return decodeSession(data)
}

// Me fetches the current account profile.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	data, err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return model.User{}, err
	}
	return decodeUser(data)
}

// UpdateProfile updates name and email, returning the updated profile.
func (c *Client) UpdateProfile(ctx context.Context, name, email string) (model.User, error) {
	body := map[string]string{"name": name, "email": email}
	data, err := c.doJSON(ctx, http.MethodPut, "/auth/profile", body)
	if err != nil {
		return model.User{}, err
	}
	return decodeUser(data)
}

// UpdateAvatar uploads a new avatar image. The file is validated locally
// before any connection is opened.
func (c *Client) UpdateAvatar(ctx context.Context, path string) (model.User, error) {
	info, err := model.CheckAvatar(path)
	if err != nil {
		return model.User{}, err
	}

	file := &multipartFile{Field: "avatar", Path: info.Path, ContentType: info.ContentType}
	data, err := c.doMultipart(ctx, http.MethodPut, "/auth/avatar", nil, file)
	if err != nil {
		return model.User{}, err
	}
	return decodeUser(data)
}

// DeleteAvatar removes the account's avatar.
func (c *Client) DeleteAvatar(ctx context.Context) (model.User, error) {
	data, err := c.doJSON(ctx, http.MethodDelete, "/auth/avatar", nil)
	if err != nil {
		return model.User{}, err
	}
	return decodeUser(data)
}

// ChangePassword changes the account password.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	body := map[string]string{
		"currentPassword": current,
		"newPassword":     next,
	}
	_, err := c.doJSON(ctx, http.MethodPut, "/auth/password", body)
	return err
}

// =============================================================================
// PAYLOAD DECODING
// =============================================================================

func decodeSession(data json.RawMessage) (Session, error) {
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("failed to parse session payload: %w", err)
	}
	return sess, nil
}

func decodeUser(data json.RawMessage) (model.User, error) {
	var payload struct {
		User model.User `json:"user"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return model.User{}, fmt.Errorf("failed to parse user payload: %w", err)
	}
	return payload.User, nil
}
