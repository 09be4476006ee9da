// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/converse-tui/internal/ui/components"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat screen: header, sidebar beside the transcript and
// input, status bar, with dialogs and toasts layered on top.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.header.View())
	b.WriteString("\n")

	chat := m.renderChatPane()
	if m.state.SidebarOpen() && m.sidebar.Width > 0 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), chat))
	} else {
		b.WriteString(chat)
	}
	b.WriteString("\n")

	if m.toasts.HasToasts() {
		// Height 0 keeps the stack compact so it sits above the status bar.
		stack := components.RenderToastStack(m.toasts.Toasts(), m.width, 0)
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Right, stack))
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatusBar())

	if m.confirming != confirmNone {
		return m.confirm.Overlay(m.width, m.height)
	}
	return b.String()
}

func (m Model) renderChatPane() string {
	var b strings.Builder

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.typing.IsActive() {
		b.WriteString(m.typing.View())
		b.WriteString("\n")
	}

	if m.renaming {
		b.WriteString(m.theme.FormLabel.Render("Rename: "))
		b.WriteString(m.renameInput.View())
	} else {
		b.WriteString(m.theme.InputPrompt.Render("> "))
		b.WriteString(m.input.View())
	}

	return b.String()
}

func (m Model) renderStatusBar() string {
	hints := m.keys.ShortcutHints(m.focus == focusSidebar)
	shortcuts := make([]components.Shortcut, 0, len(hints))
	for _, h := range hints {
		shortcuts = append(shortcuts, components.Shortcut{Key: h[0], Desc: h[1]})
	}
	m.statusBar.Shortcuts = shortcuts
	m.statusBar.Online = m.online
	if m.loadingMessages {
		m.statusBar.Status = "Loading messages..."
	} else if m.loadingConversations {
		m.statusBar.Status = "Loading conversations..."
	} else {
		m.statusBar.Status = ""
	}
	return m.statusBar.View()
}
