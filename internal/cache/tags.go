// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cache is the client-side source of truth for server-confirmed
// conversations and messages.
package cache

// Tag labels a dependency between cached reads and the mutations that make
// them stale. Reads record the tags they depend on; mutations invalidate
// tags; overlap forces a refetch on the next read.
type Tag string

// TagUser covers the account profile.
func TagUser() Tag {
	return "user"
}

// TagList covers the conversation collection as a whole. Creating or
// deleting any conversation invalidates it.
func TagList() Tag {
	return "conversations:list"
}

// TagConversation covers one conversation's own fields (title, activity).
func TagConversation(id string) Tag {
	return Tag("conversation:" + id)
}

// TagMessages covers one conversation's message pages.
func TagMessages(id string) Tag {
	return Tag("messages:" + id)
}
