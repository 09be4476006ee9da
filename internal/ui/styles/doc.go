// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the converse TUI.
//
// The package is organized around three pieces:
//
//   - colors.go: the adaptive color palette. Every color is a
//     lipgloss.AdaptiveColor so light and dark terminals are handled
//     automatically.
//   - theme.go: the Theme struct, which pre-builds a lipgloss.Style for
//     every visual component (bubbles, sidebar, forms, dialogs).
//   - animations.go: spinner frame sets and cursor timing.
//
// A single Theme is created at startup and shared by all views:
//
//	theme := styles.NewTheme()
//	theme.SetSize(width, height)
//	rendered := theme.UserBubble.Render(content)
//
// Status messages should use the Render* helpers, which pair high
// contrast colors with ASCII shape indicators for colorblind users.
package styles
