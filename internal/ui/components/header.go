// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/converse-tui/internal/model"
	"github.com/jeranaias/converse-tui/internal/ui/styles"
	"github.com/jeranaias/converse-tui/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header renders the top bar: brand, active conversation title, and the
// signed-in user's initials badge.
type Header struct {
	AppName string
	Title   string
	User    model.User
	Width   int
	theme   *styles.Theme
}

// NewHeader creates a header.
func NewHeader(appName string, theme *styles.Theme) *Header {
	return &Header{
		AppName: appName,
		Width:   80,
		theme:   theme,
	}
}

// SetWidth sets the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetTitle sets the active conversation title.
func (h *Header) SetTitle(title string) {
	h.Title = title
}

// SetUser sets the signed-in user.
func (h *Header) SetUser(user model.User) {
	h.User = user
}

// View renders the header bar.
func (h *Header) View() string {
	brand := h.theme.HeaderBrand.Render(h.AppName)

	title := ""
	if h.Title != "" {
		maxTitle := h.Width - util.StringWidth(h.AppName) - 16
		if maxTitle < 10 {
			maxTitle = 10
		}
		title = h.theme.HeaderTitle.Render(util.TruncateWidth(h.Title, maxTitle))
	}

	badge := ""
	if h.User.ID != "" {
		badge = lipgloss.NewStyle().
			Foreground(styles.TextInverse).
			Background(styles.Purple).
			Bold(true).
			Padding(0, 1).
			Render(model.Initials(h.User.Name))
	}

	left := brand
	if title != "" {
		left += "  " + title
	}

	// Right-align the badge
	gap := h.Width - lipgloss.Width(left) - lipgloss.Width(badge) - 2
	if gap < 1 {
		gap = 1
	}

	bar := left + strings.Repeat(" ", gap) + badge

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Width(h.Width).
		Padding(0, 1).
		Render(bar)
}
