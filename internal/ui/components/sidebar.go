// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/converse-tui/internal/model"
	"github.com/jeranaias/converse-tui/internal/ui/styles"
	"github.com/jeranaias/converse-tui/internal/util"
)

// =============================================================================
// SIDEBAR (CONVERSATION LIST) COMPONENT
// =============================================================================

// Sidebar renders the conversation list grouped by date, with cursor
// selection and the active conversation highlighted.
type Sidebar struct {
	Conversations []model.Conversation
	ActiveID      string
	Cursor        int
	Width         int
	Height        int
	Compact       bool
	Loading       bool
	theme         *styles.Theme
}

// NewSidebar creates an empty sidebar.
func NewSidebar(theme *styles.Theme) *Sidebar {
	return &Sidebar{
		Width:  32,
		Height: 24,
		theme:  theme,
	}
}

// SetConversations replaces the list and clamps the cursor.
func (s *Sidebar) SetConversations(conversations []model.Conversation) {
	s.Conversations = conversations
	s.clampCursor()
}

// SetSize sets the sidebar dimensions.
func (s *Sidebar) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// CursorUp moves the selection up.
func (s *Sidebar) CursorUp() {
	if s.Cursor > 0 {
		s.Cursor--
	}
}

// CursorDown moves the selection down.
func (s *Sidebar) CursorDown() {
	if s.Cursor < len(s.Conversations)-1 {
		s.Cursor++
	}
}

// Selected returns the conversation under the cursor, if any.
func (s *Sidebar) Selected() (model.Conversation, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Conversations) {
		return model.Conversation{}, false
	}
	return s.Conversations[s.Cursor], true
}

// SelectID moves the cursor to the conversation with the given id.
func (s *Sidebar) SelectID(id string) {
	for i, c := range s.Conversations {
		if c.ID == id {
			s.Cursor = i
			return
		}
	}
}

func (s *Sidebar) clampCursor() {
	if s.Cursor >= len(s.Conversations) {
		s.Cursor = len(s.Conversations) - 1
	}
	if s.Cursor < 0 {
		s.Cursor = 0
	}
}

// View renders the sidebar.
func (s *Sidebar) View() string {
	innerWidth := s.Width - 4
	if innerWidth < 10 {
		innerWidth = 10
	}

	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(styles.Purple).
		Bold(true).
		Render("Conversations")
	b.WriteString(title)
	b.WriteString("\n")

	switch {
	case s.Loading && len(s.Conversations) == 0:
		b.WriteString(s.theme.SidebarEmpty.Render("Loading..."))
	case len(s.Conversations) == 0:
		b.WriteString(s.theme.SidebarEmpty.Render("No conversations yet"))
	default:
		b.WriteString(s.renderGroups(innerWidth))
	}

	return s.theme.Sidebar.
		Width(s.Width).
		Height(s.Height).
		Render(b.String())
}

// renderGroups renders the date-grouped conversation entries.
func (s *Sidebar) renderGroups(width int) string {
	groups := model.GroupByDate(s.Conversations, time.Now())

	// Map conversation id to absolute index for cursor comparison
	index := make(map[string]int, len(s.Conversations))
	for i, c := range s.Conversations {
		index[c.ID] = i
	}

	var b strings.Builder
	for _, group := range groups {
		b.WriteString(s.theme.SidebarGroupHeader.Render(group.Label))
		b.WriteString("\n")

		for _, conv := range group.Conversations {
			b.WriteString(s.renderItem(conv, index[conv.ID] == s.Cursor, width))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderItem renders one conversation row.
func (s *Sidebar) renderItem(conv model.Conversation, selected bool, width int) string {
	title := util.TruncateWidth(conv.DisplayTitle(), width-4)

	marker := "  "
	if conv.ID == s.ActiveID {
		marker = styles.StatusIndicators.Active + " "
	}

	line := marker + title
	if selected {
		return s.theme.SidebarItemSelected.Width(width).Render(line)
	}
	if conv.ID == s.ActiveID {
		return s.theme.SidebarItem.Width(width).Foreground(styles.Cyan).Render(line)
	}
	return s.theme.SidebarItem.Width(width).Render(line)
}
