// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package state tracks the transient chat view state: which conversation is
// active, the optimistic buffer of not-yet-confirmed messages, the
// assistant-typing flag, and sidebar layout state.
//
// Optimistic messages exist only to cover the latency gap between sending
// and the cache refetch landing; they always render after confirmed
// messages and are discarded when the send settles or the active
// conversation changes.
package state
