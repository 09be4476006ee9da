// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/converse-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Shortcut is a key hint displayed in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar renders the bottom bar with key hints and connection state.
type StatusBar struct {
	Shortcuts []Shortcut
	Status    string
	Online    bool
	Width     int
	theme     *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Width:  80,
		Online: true,
		theme:  theme,
	}
}

// SetWidth sets the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetShortcuts replaces the key hints.
func (s *StatusBar) SetShortcuts(shortcuts []Shortcut) {
	s.Shortcuts = shortcuts
}

// SetStatus sets a transient status message (e.g. "Saved").
func (s *StatusBar) SetStatus(status string) {
	s.Status = status
}

// SetOnline sets the connection indicator.
func (s *StatusBar) SetOnline(online bool) {
	s.Online = online
}

// View renders the status bar.
func (s *StatusBar) View() string {
	parts := make([]string, 0, len(s.Shortcuts))
	for _, sc := range s.Shortcuts {
		parts = append(parts,
			s.theme.ShortcutKey.Render(sc.Key)+" "+s.theme.ShortcutDesc.Render(sc.Desc))
	}
	left := strings.Join(parts, "  ")

	var right string
	if s.Status != "" {
		right = lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(s.Status) + "  "
	}
	if s.Online {
		right += s.theme.StatusOnline.Render(styles.StatusIndicators.Active + " online")
	} else {
		right += s.theme.StatusOffline.Render(styles.StatusIndicators.Error + " offline")
	}

	gap := s.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	return s.theme.StatusBar.
		Width(s.Width).
		Render(left + strings.Repeat(" ", gap) + right)
}
