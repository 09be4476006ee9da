// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for users, conversations and
// messages.
//
// This package defines the core domain types used throughout the application
// for representing the authenticated user, chat conversations and their
// messages as the backend reports them, plus client-side helpers for
// display grouping, form validation and avatar file checks.
//
// # Key Types
//
//   - User: the authenticated account profile
//   - Conversation: a titled message thread with server-assigned ordering
//   - Message: single message with role, content and timestamp
//   - Role: message role enumeration (user, assistant, system)
//   - Page: one page of a paginated backend listing
//
// # Usage
//
// Create an optimistic placeholder for a just-sent message:
//
//	msg := model.NewOptimisticMessage("Hello!")
//	// msg.ID is "temp-" prefixed; msg.IsOptimistic() == true
//
// Group a conversation under a date heading for the sidebar:
//
//	bucket := model.DateBucket(conv.SortTime(), time.Now())
package model
