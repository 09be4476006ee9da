// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/converse-tui/internal/api"
	"github.com/jeranaias/converse-tui/internal/ui/styles"
)

func newTestModel() Model {
	client := api.NewClient("http://localhost:5000/api")
	return New(client, "Converse", styles.NewTheme())
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestStartsInLoginMode(t *testing.T) {
	m := newTestModel()
	if m.Mode() != ModeLogin {
		t.Fatal("should start in login mode")
	}
	if len(m.inputs) != loginFieldCount {
		t.Fatalf("login form should have %d fields, got %d", loginFieldCount, len(m.inputs))
	}
}

func TestToggleMode(t *testing.T) {
	m := newTestModel()
	m, _ = m.Update(keyMsg("ctrl+t"))
	if m.Mode() != ModeRegister {
		t.Fatal("ctrl+t should switch to register")
	}
	if len(m.inputs) != regFieldCount {
		t.Fatalf("register form should have %d fields, got %d", regFieldCount, len(m.inputs))
	}
	m, _ = m.Update(keyMsg("ctrl+t"))
	if m.Mode() != ModeLogin {
		t.Fatal("ctrl+t should switch back to login")
	}
}

func TestTabCyclesFocus(t *testing.T) {
	m := newTestModel()
	if m.focus != 0 {
		t.Fatal("focus should start at first field")
	}
	m, _ = m.Update(keyMsg("tab"))
	if m.focus != 1 {
		t.Fatalf("tab should advance focus, got %d", m.focus)
	}
	m, _ = m.Update(keyMsg("tab"))
	if m.focus != 0 {
		t.Fatalf("tab should wrap around, got %d", m.focus)
	}
	m, _ = m.Update(keyMsg("shift+tab"))
	if m.focus != 1 {
		t.Fatalf("shift+tab should go backwards with wrap, got %d", m.focus)
	}
}

func TestLoginValidationBlocksSubmit(t *testing.T) {
	m := newTestModel()
	// Empty fields, submit from last field
	m, _ = m.Update(keyMsg("tab"))
	var cmd tea.Cmd
	m, cmd = m.Update(keyMsg("enter"))
	if cmd != nil {
		t.Fatal("invalid form must not issue network command")
	}
	if len(m.fieldErrs) == 0 {
		t.Fatal("expected field errors")
	}
	view := m.View()
	if !strings.Contains(view, "email") {
		t.Error("view should surface the email error")
	}
}

func TestLoginValidSubmitIssuesCommand(t *testing.T) {
	m := newTestModel()
	m = typeText(m, "ada@example.com")
	m, _ = m.Update(keyMsg("tab"))
	m = typeText(m, "hunter22")

	var cmd tea.Cmd
	m, cmd = m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("valid form should issue a submit command")
	}
	if !m.submitting {
		t.Fatal("model should be marked submitting")
	}
}

func TestRegisterPasswordMismatch(t *testing.T) {
	m := newTestModel()
	m, _ = m.Update(keyMsg("ctrl+t"))

	m = typeText(m, "Ada Lovelace")
	m, _ = m.Update(keyMsg("tab"))
	m = typeText(m, "ada@example.com")
	m, _ = m.Update(keyMsg("tab"))
	m = typeText(m, "password1")
	m, _ = m.Update(keyMsg("tab"))
	m = typeText(m, "password2")
	m, _ = m.Update(keyMsg("tab")) // avatar field (last)

	var cmd tea.Cmd
	m, cmd = m.Update(keyMsg("enter"))
	if cmd != nil {
		t.Fatal("mismatched passwords must not submit")
	}
	if _, ok := m.fieldErrs[regFieldConfirm]; !ok {
		t.Fatal("expected confirm-password error")
	}
}

func TestFailedMsgShowsError(t *testing.T) {
	m := newTestModel()
	m.submitting = true
	m, _ = m.Update(failedMsg{err: errors.New("boom")})
	if m.submitting {
		t.Fatal("failure should clear submitting flag")
	}
	if m.formErr == "" {
		t.Fatal("failure should set form error")
	}
	if !strings.Contains(m.View(), m.formErr) {
		t.Error("view should show form error")
	}
}

func TestRegisterViewShowsStrengthMeter(t *testing.T) {
	m := newTestModel()
	m, _ = m.Update(keyMsg("ctrl+t"))
	m, _ = m.Update(keyMsg("tab"))
	m, _ = m.Update(keyMsg("tab"))
	m = typeText(m, "Str0ng!pass")

	if !strings.Contains(m.View(), "strength:") {
		t.Error("register view should show the strength meter")
	}
}
