// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for users, conversations and
// messages.
package model

import (
	"strings"
	"time"

	"github.com/jeranaias/converse-tui/internal/util"
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation represents a titled thread of messages. The backend assigns
// IDs and list order (most recent first); the client never re-sorts beyond
// grouping under date headings for display.
type Conversation struct {
	ID            string    `json:"_id"`
	Title         string    `json:"title"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	CreatedAt     time.Time `json:"createdAt"`
}

// DisplayTitle returns the title, or a placeholder for untitled threads.
func (c Conversation) DisplayTitle() string {
	if strings.TrimSpace(c.Title) == "" {
		return "New Conversation"
	}
	return c.Title
}

// TitlePreview returns the display title truncated for sidebar rendering.
func (c Conversation) TitlePreview(maxLen int) string {
	return util.TruncateRunes(c.DisplayTitle(), maxLen)
}

// SortTime returns the timestamp used for date bucketing: the last message
// activity when present, creation time otherwise.
func (c Conversation) SortTime() time.Time {
	if !c.LastMessageAt.IsZero() {
		return c.LastMessageAt
	}
	return c.CreatedAt
}

// =============================================================================
// PAGINATION
// =============================================================================

// Page is one page of a paginated backend listing.
type Page[T any] struct {
	Items []T `json:"items"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// HasMore reports whether further pages exist after this one.
func (p Page[T]) HasMore() bool {
	if p.Limit <= 0 {
		return false
	}
	return p.Page*p.Limit < p.Total
}

// =============================================================================
// DATE BUCKETS
// =============================================================================

// DateBucket returns the sidebar heading for a timestamp: "Today",
// "Yesterday", the weekday name within the last week, otherwise a short
// date (with year when it differs from the current one).
func DateBucket(t, now time.Time) string {
	t = t.Local()
	now = now.Local()

	ty, tm, td := t.Date()
	ny, nm, nd := now.Date()
	if ty == ny && tm == nm && td == nd {
		return "Today"
	}

	yesterday := now.AddDate(0, 0, -1)
	yy, ym, yd := yesterday.Date()
	if ty == yy && tm == ym && td == yd {
		return "Yesterday"
	}

	if now.Sub(t) < 7*24*time.Hour && t.Before(now) {
		return t.Weekday().String()
	}

	if ty == ny {
		return t.Format("Jan 2")
	}
	return t.Format("Jan 2, 2006")
}

// GroupByDate partitions conversations into ordered (bucket, conversations)
// pairs, preserving the server-assigned order within each bucket.
type DateGroup struct {
	Label         string
	Conversations []Conversation
}

// GroupByDate buckets conversations under date headings in first-seen order.
// Input order (most recent first, per the backend) is preserved.
func GroupByDate(conversations []Conversation, now time.Time) []DateGroup {
	var groups []DateGroup
	index := make(map[string]int)

	for _, conv := range conversations {
		label := DateBucket(conv.SortTime(), now)
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, DateGroup{Label: label})
		}
		groups[i].Conversations = append(groups[i].Conversations, conv)
	}
	return groups
}
