// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/converse-tui/internal/ui/styles"
)

// =============================================================================
// CONFIRMATION DIALOG
// =============================================================================

// ConfirmDialog is a modal yes/no prompt used for destructive actions
// (deleting a conversation, clearing messages).
type ConfirmDialog struct {
	Title        string
	Prompt       string
	ConfirmLabel string
	CancelLabel  string
	ConfirmFocus bool
	theme        *styles.Theme
}

// NewConfirmDialog creates a dialog with Cancel focused, so a stray Enter
// never destroys data.
func NewConfirmDialog(title, prompt string, theme *styles.Theme) *ConfirmDialog {
	return &ConfirmDialog{
		Title:        title,
		Prompt:       prompt,
		ConfirmLabel: "Delete",
		CancelLabel:  "Cancel",
		ConfirmFocus: false,
		theme:        theme,
	}
}

// Toggle switches focus between the two buttons.
func (d *ConfirmDialog) Toggle() {
	d.ConfirmFocus = !d.ConfirmFocus
}

// Confirmed reports whether the confirm button is focused.
func (d *ConfirmDialog) Confirmed() bool {
	return d.ConfirmFocus
}

// View renders the dialog box.
func (d *ConfirmDialog) View() string {
	title := d.theme.DialogTitle.Render(d.Title)
	prompt := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		Render(d.Prompt)

	var confirm, cancel string
	if d.ConfirmFocus {
		confirm = d.theme.DialogButtonActive.Render(d.ConfirmLabel)
		cancel = d.theme.DialogButton.Render(d.CancelLabel)
	} else {
		confirm = d.theme.DialogButton.Render(d.ConfirmLabel)
		cancel = d.theme.DialogButtonActive.Render(d.CancelLabel)
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Top, cancel, confirm)

	return d.theme.DialogBox.Render(
		lipgloss.JoinVertical(lipgloss.Left, title, "", prompt, "", buttons),
	)
}

// Overlay centers the dialog over the given screen dimensions.
func (d *ConfirmDialog) Overlay(width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, d.View())
}
