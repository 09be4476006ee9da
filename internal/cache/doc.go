// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cache is the client-side source of truth for server-confirmed
// conversations and messages.
//
// Reads go through the cache and are remembered with the tags they depend
// on; mutations invalidate by tag rather than writing through, so the next
// dependent read refetches. Entries stay fresh for a bounded window and are
// still served while stale (the UI refetches in the background). At most
// one request per distinct query key is in flight at a time; concurrent
// callers share the result.
package cache
