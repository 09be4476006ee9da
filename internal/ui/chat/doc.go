// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the main chat screen of the TUI.
//
// The model composes the conversation sidebar, the message transcript, and
// the input line. All reads go through the conversation cache so repeated
// navigation is served from memory; sends append to the optimistic buffer
// in the shared chat state and settle when the backend replies.
package chat
