// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the reusable visual pieces of the converse
// TUI: message bubbles, the conversation sidebar, the header and status
// bars, toast notifications, spinners, confirmation dialogs, and the
// markdown/code renderer used for assistant replies.
//
// Components are plain structs that render strings; the bubbletea models
// in the ui/chat, ui/auth, and ui/profile packages own all state
// transitions and feed these components on every View call.
package components
