// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the non-TUI subcommands: quick one-shot chat, a
// lightweight REPL, and login/logout for scripting.
package cli
