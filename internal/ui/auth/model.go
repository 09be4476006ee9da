// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides the login and registration views for the TUI.
package auth

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
// MODES AND MESSAGES
// =============================================================================

// Mode selects between the login and register forms.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

// CompletedMsg is emitted when authentication succeeds. The parent model
// stores the session and switches to the chat view.
type CompletedMsg struct {
	Session api.Session
}

// failedMsg carries an authentication error back into Update.
type failedMsg struct {
	err error
}

// login form fields
const (
	loginFieldEmail = iota
	loginFieldPassword
	loginFieldCount
)

// register form fields
const (
	regFieldName = iota
	regFieldEmail
	regFieldPassword
	regFieldConfirm
	regFieldAvatar
	regFieldCount
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the auth screens.
type Model struct {
	mode    Mode
	client  *api.Client
	theme   *styles.Theme
	appName string

	inputs []textinput.Model
	focus  int

	fieldErrs  map[int]string
	formErr    string
	notice     string
	submitting bool

	width  int
	height int
}

// New creates the auth model in login mode.
func New(client *api.Client, appName string, theme *styles.Theme) Model {
	m := Model{
		mode:      ModeLogin,
		client:    client,
		theme:     theme,
		appName:   appName,
		fieldErrs: make(map[int]string),
	}
	m.buildInputs()
	return m
}

// buildInputs constructs the text inputs for the current mode.
func (m *Model) buildInputs() {
	count := loginFieldCount
	if m.mode == ModeRegister {
		count = regFieldCount
	}

	m.inputs = make([]textinput.Model, count)
	for i := range m.inputs {
		in := textinput.New()
		in.CharLimit = 128
		in.Width = 40
		m.inputs[i] = in
	}

	if m.mode == ModeLogin {
		m.inputs[loginFieldEmail].Placeholder = "email"
		m.inputs[loginFieldPassword].Placeholder = "password"
		m.inputs[loginFieldPassword].EchoMode = textinput.EchoPassword
	} else {
		m.inputs[regFieldName].Placeholder = "name"
		m.inputs[regFieldEmail].Placeholder = "email"
		m.inputs[regFieldPassword].Placeholder = "password"
		m.inputs[regFieldPassword].EchoMode = textinput.EchoPassword
		m.inputs[regFieldConfirm].Placeholder = "confirm password"
		m.inputs[regFieldConfirm].EchoMode = textinput.EchoPassword
		m.inputs[regFieldAvatar].Placeholder = "avatar path (optional)"
	}

	m.focus = 0
	m.fieldErrs = make(map[int]string)
	m.formErr = ""
	m.inputs[0].Focus()
}

// SetNotice sets a one-shot banner shown above the form, used for the
// "session expired" message after a forced logout.
func (m *Model) SetNotice(notice string) {
	m.notice = notice
}

// Mode returns the current form mode.
func (m Model) Mode() Mode {
	return m.mode
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

// Update handles key events and submit results.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case failedMsg:
		m.submitting = false
		m.formErr = api.UserFacingMessage(msg.err)
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			m.moveFocus(1)
			return m, nil
		case "shift+tab", "up":
			m.moveFocus(-1)
			return m, nil
		case "ctrl+t":
			m.toggleMode()
			return m, nil
		case "enter":
			if m.focus == len(m.inputs)-1 {
				return m.submit()
			}
			m.moveFocus(1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) toggleMode() {
	if m.mode == ModeLogin {
		m.mode = ModeRegister
	} else {
		m.mode = ModeLogin
	}
	m.buildInputs()
}

func (m *Model) moveFocus(delta int) {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

// submit validates locally, then issues the API call.
func (m Model) submit() (Model, tea.Cmd) {
	m.fieldErrs = make(map[int]string)
	m.formErr = ""

	if m.mode == ModeLogin {
		return m.submitLogin()
	}
	return m.submitRegister()
}

func (m Model) submitLogin() (Model, tea.Cmd) {
	email := strings.TrimSpace(m.inputs[loginFieldEmail].Value())
	password := m.inputs[loginFieldPassword].Value()

	if err := model.ValidateEmail(email); err != nil {
		m.fieldErrs[loginFieldEmail] = err.Error()
	}
	if err := model.ValidatePassword(password); err != nil {
		m.fieldErrs[loginFieldPassword] = err.Error()
	}
	if len(m.fieldErrs) > 0 {
		return m, nil
	}

	m.submitting = true
	client := m.client
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		sess, err := client.Login(ctx, email, password)
		if err != nil {
			return failedMsg{err: err}
		}
		return CompletedMsg{Session: sess}
	}
}

func (m Model) submitRegister() (Model, tea.Cmd) {
	name := strings.TrimSpace(m.inputs[regFieldName].Value())
	email := strings.TrimSpace(m.inputs[regFieldEmail].Value())
	password := m.inputs[regFieldPassword].Value()
	confirm := m.inputs[regFieldConfirm].Value()
	avatar := strings.TrimSpace(m.inputs[regFieldAvatar].Value())

	if err := model.ValidateName(name); err != nil {
		m.fieldErrs[regFieldName] = err.Error()
	}
	if err := model.ValidateEmail(email); err != nil {
		m.fieldErrs[regFieldEmail] = err.Error()
	}
	if err := model.ValidatePassword(password); err != nil {
		m.fieldErrs[regFieldPassword] = err.Error()
	}
	if err := model.ValidatePasswordConfirm(password, confirm); err != nil {
		m.fieldErrs[regFieldConfirm] = err.Error()
	}
	if avatar != "" {
		if _, err := model.CheckAvatar(avatar); err != nil {
			m.fieldErrs[regFieldAvatar] = err.Error()
		}
	}
	if len(m.fieldErrs) > 0 {
		return m, nil
	}

	m.submitting = true
	client := m.client
	req := api.RegisterRequest{
		Name:       name,
		Email:      email,
		Password:   password,
		AvatarPath: avatar,
	}
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		sess, err := client.Register(ctx, req)
		if err != nil {
			return failedMsg{err: err}
		}
		return CompletedMsg{Session: sess}
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the form.
func (m Model) View() string {
	var b strings.Builder

	title := "Sign in"
	hint := "ctrl+t  create an account"
	if m.mode == ModeRegister {
		title = "Create an account"
		hint = "ctrl+t  back to sign in"
	}

	b.WriteString(m.theme.FormTitle.Render(m.appName + " - " + title))
	b.WriteString("\n\n")

	if m.notice != "" {
		b.WriteString(styles.RenderWarning(m.notice))
		b.WriteString("\n\n")
	}

	labels := m.fieldLabels()
	for i, in := range m.inputs {
		b.WriteString(m.theme.FormLabel.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n")
		if errText, ok := m.fieldErrs[i]; ok {
			b.WriteString(m.theme.FormError.Render(errText))
			b.WriteString("\n")
		}
		// Inline strength meter under the register password field
		if m.mode == ModeRegister && i == regFieldPassword && in.Value() != "" {
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
	if m.submitting {
		b.WriteString(m.theme.FormHint.Render("Signing in..."))
		b.WriteString("\n\n")
	}

	b.WriteString(m.theme.FormHint.Render("enter  submit    tab  next field    " + hint))

	box := m.theme.FormBox.Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

func (m Model) fieldLabels() []string {
	if m.mode == ModeLogin {
		return []string{"Email", "Password"}
	}
	return []string{"Name", "Email", "Password", "Confirm password", "Avatar"}
}
