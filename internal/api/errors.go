// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the assistant backend.
package api

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrUnauthorized indicates the bearer token was missing, expired or
	// invalid. Receiving it from any endpoint invalidates the whole session.
	ErrUnauthorized = errors.New("authentication required")

	// ErrForbidden indicates the token was valid but the resource is not
	// accessible to this account.
	ErrForbidden = errors.New("access denied")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the backend rejected the request payload.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limited")

	// ErrServerError indicates a 5xx response from the backend.
	ErrServerError = errors.New("server error")
)

// APIError carries the backend's own message alongside the HTTP status.
// It wraps one of the sentinel errors above so callers can use errors.Is.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend error (HTTP %d)", e.Status)
}

// UserMessage returns the backend-supplied message, or a generic fallback
// suitable for a toast.
func (e *APIError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return "Something went wrong. Please try again."
}

// UserFacingMessage extracts a display message from any error returned by
// this package. Backend-supplied messages win; network and decode errors
// collapse to a generic fallback.
func UserFacingMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	return "Something went wrong. Please try again."
}
