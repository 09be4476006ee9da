// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/converse-tui/internal/api"
	"github.com/jeranaias/converse-tui/internal/model"
	"github.com/jeranaias/converse-tui/internal/ui/components"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update routes messages to the right handler.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case components.ToastTickMsg:
		m.toasts.Tick()
		if m.toasts.HasToasts() {
			return m, components.ToastTickCmd()
		}
		return m, nil

	case components.SpinnerTickMsg:
		var cmd tea.Cmd
		m.typing, cmd = m.typing.Update(msg)
		return m, cmd

	case conversationsLoadedMsg:
		return m.handleConversationsLoaded(msg)

	case messagesLoadedMsg:
		return m.handleMessagesLoaded(msg)

	case sendSettledMsg:
		return m.handleSendSettled(msg)

	case conversationCreatedMsg:
		if msg.err != nil {
			return m, m.notifyError(msg.err)
		}
		m.state.SetActive(msg.conversation.ID)
		m.messages = nil
		m.sidebar.ActiveID = msg.conversation.ID
		m.refreshTranscript()
		return m, tea.Batch(
			loadConversationsCmd(m.cache, 1, m.convPageSize),
			loadMessagesCmd(m.cache, msg.conversation.ID, 1, m.msgPageSize),
		)

	case conversationRenamedMsg:
		if msg.err != nil {
			return m, m.notifyError(msg.err)
		}
		m.toasts.AddSuccess("Conversation renamed")
		return m, tea.Batch(
			loadConversationsCmd(m.cache, 1, m.convPageSize),
			components.ToastTickCmd(),
		)

	case conversationDeletedMsg:
		if msg.err != nil {
			return m, m.notifyError(msg.err)
		}
		m.state.ConversationDeleted(msg.id)
		if m.state.ActiveID() == "" {
			m.messages = nil
			m.sidebar.ActiveID = ""
			m.refreshTranscript()
		}
		m.toasts.AddStatus("Conversation deleted")
		return m, tea.Batch(
			loadConversationsCmd(m.cache, 1, m.convPageSize),
			components.ToastTickCmd(),
		)

	case messagesClearedMsg:
		if msg.err != nil {
			return m, m.notifyError(msg.err)
		}
		if m.state.ActiveID() == msg.id {
			m.messages = nil
			m.refreshTranscript()
		}
		m.toasts.AddStatus("Messages cleared")
		return m, tea.Batch(
			loadConversationsCmd(m.cache, 1, m.convPageSize),
			components.ToastTickCmd(),
		)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// ASYNC RESULT HANDLERS
// =============================================================================

func (m Model) handleConversationsLoaded(msg conversationsLoadedMsg) (Model, tea.Cmd) {
	m.loadingConversations = false
	m.sidebar.Loading = false
	if msg.err != nil {
		m.online = false
		return m, m.notifyError(msg.err)
	}

	m.online = true
	m.conversations = msg.page.Items
	m.sidebar.SetConversations(msg.page.Items)
	m.sidebar.ActiveID = m.state.ActiveID()
	m.sidebar.SelectID(m.state.ActiveID())

	if conv, ok := m.activeConversation(); ok {
		m.header.SetTitle(conv.DisplayTitle())
	} else {
		m.header.SetTitle("")
	}
	return m, nil
}

func (m Model) handleMessagesLoaded(msg messagesLoadedMsg) (Model, tea.Cmd) {
	// A stale load for a conversation the user already left is dropped.
	if msg.conversationID != m.state.ActiveID() {
		return m, nil
	}
	m.loadingMessages = false
	if msg.err != nil {
		return m, m.notifyError(msg.err)
	}
	m.messages = msg.page.Items
	m.refreshTranscript()
	return m, nil
}

func (m Model) handleSendSettled(msg sendSettledMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		m.state.SettleSend(msg.sentFor, "", false)
		m.typing.Stop()
		m.refreshTranscript()
		m.toasts.Add(components.NewRetryableErrorToast(api.UserFacingMessage(msg.err)))
		return m, components.ToastTickCmd()
	}

	m.online = true
	m.lastFailedSend = ""
	returnedID := msg.result.ConversationID
	m.state.SettleSend(msg.sentFor, returnedID, true)
	m.typing.Stop()
	m.refreshTranscript()

	// The send invalidated the list and message entries; reload both so the
	// transcript shows the confirmed exchange and the sidebar reorders.
	return m, tea.Batch(
		loadConversationsCmd(m.cache, 1, m.convPageSize),
		loadMessagesCmd(m.cache, returnedID, 1, m.msgPageSize),
	)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.confirming != confirmNone {
		return m.handleConfirmKey(msg)
	}
	if m.renaming {
		return m.handleRenameKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.NewChat):
		return m, createConversationCmd(m.cache, "")

	case key.Matches(msg, m.keys.ToggleSidebar):
		m.state.ToggleSidebar()
		m.setSize(m.width, m.height)
		return m, nil

	case key.Matches(msg, m.keys.Profile):
		return m, func() tea.Msg { return OpenProfileMsg{} }

	case key.Matches(msg, m.keys.Logout):
		return m, func() tea.Msg { return LogoutRequestedMsg{} }

	case key.Matches(msg, m.keys.Rename):
		return m.startRename()

	case key.Matches(msg, m.keys.Delete):
		return m.startConfirm(confirmDelete)

	case key.Matches(msg, m.keys.ClearChat):
		return m.startConfirm(confirmClear)

	case key.Matches(msg, m.keys.FocusSwitch):
		if m.focus == focusInput {
			m.focus = focusSidebar
			m.input.Blur()
		} else {
			m.focus = focusInput
			m.input.Focus()
		}
		return m, nil
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleInputKey(msg)
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.sidebar.CursorUp()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.sidebar.CursorDown()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		if conv, ok := m.sidebar.Selected(); ok {
			return m.selectConversation(conv)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown),
		key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keys.Submit):
		return m.submitMessage()
	}

	// Retry and dismiss shortcuts apply only while the input is empty, so
	// typing is never intercepted.
	if m.input.Value() == "" && m.toasts.HasToasts() {
		switch msg.String() {
		case "r":
			if m.lastFailedSend != "" {
				m.toasts.Clear()
				return m.resendLastFailed()
			}
		case "x":
			m.toasts.Clear()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// ACTIONS
// =============================================================================

func (m Model) selectConversation(conv model.Conversation) (Model, tea.Cmd) {
	if m.state.ActiveID() == conv.ID {
		return m, nil
	}
	// Switching drops any optimistic messages and the typing flag.
	m.state.SetActive(conv.ID)
	m.typing.Stop()
	m.messages = nil
	m.loadingMessages = true
	m.sidebar.ActiveID = conv.ID
	m.header.SetTitle(conv.DisplayTitle())
	m.refreshTranscript()

	// A cached page, stale or fresh, renders immediately; the load command
	// below revalidates it when the freshness window has passed.
	if page, ok := m.cache.PeekMessages(conv.ID, 1, m.msgPageSize); ok {
		m.messages = page.Items
		m.loadingMessages = false
		m.refreshTranscript()
	}
	return m, loadMessagesCmd(m.cache, conv.ID, 1, m.msgPageSize)
}

func (m Model) submitMessage() (Model, tea.Cmd) {
	content := strings.TrimSpace(m.input.Value())
	if content == "" {
		return m, nil
	}

	_, sentFor := m.state.BeginSend(content)
	m.lastFailedSend = content
	m.input.SetValue("")
	m.refreshTranscript()

	return m, tea.Batch(
		sendMessageCmd(m.cache, content, sentFor),
		m.typing.Start(),
	)
}

func (m Model) resendLastFailed() (Model, tea.Cmd) {
	content := m.lastFailedSend
	_, sentFor := m.state.BeginSend(content)
	m.refreshTranscript()
	return m, tea.Batch(
		sendMessageCmd(m.cache, content, sentFor),
		m.typing.Start(),
	)
}

func (m Model) startRename() (Model, tea.Cmd) {
	conv, ok := m.activeConversation()
	if !ok {
		m.toasts.AddWarning("Select a conversation to rename")
		return m, components.ToastTickCmd()
	}
	m.renaming = true
	m.renameID = conv.ID
	m.renameInput.SetValue(conv.DisplayTitle())
	m.renameInput.CursorEnd()
	m.renameInput.Focus()
	m.input.Blur()
	return m, textinput.Blink
}

func (m Model) handleRenameKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.renaming = false
		m.renameInput.Blur()
		m.input.Focus()
		return m, nil
	case "enter":
		title := strings.TrimSpace(m.renameInput.Value())
		if err := model.ValidateTitle(title); err != nil {
			// Rejected locally, nothing is sent.
			m.toasts.AddWarning(err.Error())
			return m, components.ToastTickCmd()
		}
		id := m.renameID
		m.renaming = false
		m.renameInput.Blur()
		m.input.Focus()
		return m, renameConversationCmd(m.cache, id, title)
	}

	var cmd tea.Cmd
	m.renameInput, cmd = m.renameInput.Update(msg)
	return m, cmd
}

func (m Model) startConfirm(action pendingConfirm) (Model, tea.Cmd) {
	conv, ok := m.activeConversation()
	if !ok {
		m.toasts.AddWarning("Select a conversation first")
		return m, components.ToastTickCmd()
	}

	switch action {
	case confirmDelete:
		m.confirm = components.NewConfirmDialog(
			"Delete conversation",
			"Delete \""+conv.DisplayTitle()+"\"? This cannot be undone.",
			m.theme,
		)
	case confirmClear:
		m.confirm = components.NewConfirmDialog(
			"Clear messages",
			"Remove all messages in \""+conv.DisplayTitle()+"\"?",
			m.theme,
		)
	}
	m.confirming = action
	m.confirmID = conv.ID
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.confirming = confirmNone
		return m, nil
	case "left", "right", "tab":
		m.confirm.Toggle()
		return m, nil
	case "enter":
		action := m.confirming
		id := m.confirmID
		confirmed := m.confirm.Confirmed()
		m.confirming = confirmNone
		if !confirmed {
			return m, nil
		}
		switch action {
		case confirmDelete:
			return m, deleteConversationCmd(m.cache, id)
		case confirmClear:
			return m, clearMessagesCmd(m.cache, id)
		}
	}
	return m, nil
}

// notifyError surfaces an error as a toast and keeps the ticker running.
func (m *Model) notifyError(err error) tea.Cmd {
	m.toasts.AddError(api.UserFacingMessage(err))
	return components.ToastTickCmd()
}
