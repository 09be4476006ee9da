// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package profile provides the account settings view: profile fields,
// avatar upload, and password change.
package profile

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/converse-tui/internal/api"
	"github.com/jeranaias/converse-tui/internal/model"
	"github.com/jeranaias/converse-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// UpdatedMsg is emitted after a successful profile or avatar change so the
// parent can refresh the stored user.
type UpdatedMsg struct {
	User   model.User
	Status string
}

// PasswordChangedMsg is emitted after a successful password change.
type PasswordChangedMsg struct{}

// BackMsg asks the parent to return to the chat view.
type BackMsg struct{}

type failedMsg struct {
	err error
}

// form fields
const (
	fieldName = iota
	fieldEmail
	fieldAvatar
	fieldCurrentPassword
	fieldNewPassword
	fieldConfirmPassword
	fieldCount
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the profile view.
type Model struct {
	client *api.Client
	theme  *styles.Theme
	user   model.User

	inputs []textinput.Model
	focus  int

	fieldErrs map[int]string
	formErr   string
	status    string
	busy      bool

	width  int
	height int
}

// New creates the profile model pre-filled from the current user.
func New(client *api.Client, user model.User, theme *styles.Theme) Model {
	m := Model{
		client:    client,
		theme:     theme,
		user:      user,
		fieldErrs: make(map[int]string),
	}

	m.inputs = make([]textinput.Model, fieldCount)
	for i := range m.inputs {
		in := textinput.New()
		in.CharLimit = 128
		in.Width = 40
		m.inputs[i] = in
	}

	m.inputs[fieldName].Placeholder = "name"
	m.inputs[fieldName].SetValue(user.Name)
	m.inputs[fieldEmail].Placeholder = "email"
	m.inputs[fieldEmail].SetValue(user.Email)
	m.inputs[fieldAvatar].Placeholder = "avatar path"
	m.inputs[fieldCurrentPassword].Placeholder = "current password"
	m.inputs[fieldCurrentPassword].EchoMode = textinput.EchoPassword
	m.inputs[fieldNewPassword].Placeholder = "new password"
	m.inputs[fieldNewPassword].EchoMode = textinput.EchoPassword
	m.inputs[fieldConfirmPassword].Placeholder = "confirm new password"
	m.inputs[fieldConfirmPassword].EchoMode = textinput.EchoPassword

	m.inputs[0].Focus()
	return m
}

// SetSize updates layout dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Init satisfies tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles key events and async results.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case failedMsg:
		m.busy = false
		m.formErr = api.UserFacingMessage(msg.err)
		return m, nil

	case UpdatedMsg:
		m.busy = false
		m.user = msg.User
		m.status = msg.Status
		m.formErr = ""
		return m, nil

	case PasswordChangedMsg:
		m.busy = false
		m.status = "Password changed"
		m.formErr = ""
		m.inputs[fieldCurrentPassword].SetValue("")
		m.inputs[fieldNewPassword].SetValue("")
		m.inputs[fieldConfirmPassword].SetValue("")
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return BackMsg{} }
		case "tab", "down":
			m.moveFocus(1)
			return m, nil
		case "shift+tab", "up":
			m.moveFocus(-1)
			return m, nil
		case "ctrl+s":
			return m.saveProfile()
		case "ctrl+a":
			return m.uploadAvatar()
		case "ctrl+x":
			return m.removeAvatar()
		case "enter":
			// Enter in the password section submits the password change
			if m.focus >= fieldCurrentPassword {
				return m.changePassword()
			}
			m.moveFocus(1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) moveFocus(delta int) {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

// saveProfile validates and submits name/email changes.
func (m Model) saveProfile() (Model, tea.Cmd) {
	m.fieldErrs = make(map[int]string)
	m.formErr = ""
	m.status = ""

	name := strings.TrimSpace(m.inputs[fieldName].Value())
	email := strings.TrimSpace(m.inputs[fieldEmail].Value())

	if err := model.ValidateName(name); err != nil {
		m.fieldErrs[fieldName] = err.Error()
	}
	if err := model.ValidateEmail(email); err != nil {
		m.fieldErrs[fieldEmail] = err.Error()
	}
	if len(m.fieldErrs) > 0 {
		return m, nil
	}

	m.busy = true
	client := m.client
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		user, err := client.UpdateProfile(ctx, name, email)
		if err != nil {
			return failedMsg{err: err}
		}
		return UpdatedMsg{User: user, Status: "Profile saved"}
	}
}

// uploadAvatar validates the file locally, then uploads it. A bad file
// never reaches the network.
func (m Model) uploadAvatar() (Model, tea.Cmd) {
	m.fieldErrs = make(map[int]string)
	m.formErr = ""
	m.status = ""

	path := strings.TrimSpace(m.inputs[fieldAvatar].Value())
	if path == "" {
		m.fieldErrs[fieldAvatar] = "avatar path is required"
		return m, nil
	}
	if _, err := model.CheckAvatar(path); err != nil {
		m.fieldErrs[fieldAvatar] = err.Error()
		return m, nil
	}

	m.busy = true
	client := m.client
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		user, err := client.UpdateAvatar(ctx, path)
		if err != nil {
			return failedMsg{err: err}
		}
		return UpdatedMsg{User: user, Status: "Avatar updated"}
	}
}

// removeAvatar deletes the stored avatar.
func (m Model) removeAvatar() (Model, tea.Cmd) {
	m.formErr = ""
	m.status = ""
	m.busy = true
	client := m.client
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		user, err := client.DeleteAvatar(ctx)
		if err != nil {
			return failedMsg{err: err}
		}
		return UpdatedMsg{User: user, Status: "Avatar removed"}
	}
}

// changePassword validates the password fields and submits.
func (m Model) changePassword() (Model, tea.Cmd) {
	m.fieldErrs = make(map[int]string)
	m.formErr = ""
	m.status = ""

	current := m.inputs[fieldCurrentPassword].Value()
	next := m.inputs[fieldNewPassword].Value()
	confirm := m.inputs[fieldConfirmPassword].Value()

	if current == "" {
		m.fieldErrs[fieldCurrentPassword] = "current password is required"
	}
	if err := model.ValidatePassword(next); err != nil {
		m.fieldErrs[fieldNewPassword] = err.Error()
	} else if current != "" && current == next {
		m.fieldErrs[fieldNewPassword] = model.ErrPasswordSame.Error()
	}
	if err := model.ValidatePasswordConfirm(next, confirm); err != nil {
		m.fieldErrs[fieldConfirmPassword] = err.Error()
	}
	if len(m.fieldErrs) > 0 {
		return m, nil
	}

	m.busy = true
	client := m.client
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := client.ChangePassword(ctx, current, next); err != nil {
			return failedMsg{err: err}
		}
		return PasswordChangedMsg{}
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the profile form.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.FormTitle.Render("Account settings"))
	b.WriteString("\n")
	b.WriteString(m.theme.FormHint.Render(m.user.Email))
	b.WriteString("\n\n")

	labels := []string{"Name", "Email", "Avatar", "Current password", "New password", "Confirm new password"}
	for i, in := range m.inputs {
		if i == fieldCurrentPassword {
			b.WriteString(m.theme.FormLabel.Render("Change password"))
			b.WriteString("\n\n")
		}
		b.WriteString(m.theme.FormLabel.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n")
		if errText, ok := m.fieldErrs[i]; ok {
			b.WriteString(m.theme.FormError.Render(errText))
			b.WriteString("\n")
		}
		if i == fieldNewPassword && in.Value() != "" {
			label := model.PasswordStrengthLabel(model.PasswordStrength(in.Value()))
			b.WriteString(m.theme.StrengthStyle(label).Render("strength: " + label))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.formErr != "" {
		b.WriteString(styles.RenderError(m.formErr))
		b.WriteString("\n\n")
	}
	if m.status != "" {
		b.WriteString(styles.RenderSuccess(m.status))
		b.WriteString("\n\n")
	}
	if m.busy {
		b.WriteString(m.theme.FormHint.Render("Saving..."))
		b.WriteString("\n\n")
	}

	b.WriteString(m.theme.FormHint.Render(
		"ctrl+s save profile    ctrl+a upload avatar    ctrl+x remove avatar    enter change password    esc back"))

	box := m.theme.FormBox.Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
