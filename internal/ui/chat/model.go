// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/converse-tui/internal/cache"
	"github.com/jeranaias/converse-tui/internal/config"
	"github.com/jeranaias/converse-tui/internal/model"
	"github.com/jeranaias/converse-tui/internal/state"
	"github.com/jeranaias/converse-tui/internal/ui/components"
	"github.com/jeranaias/converse-tui/internal/ui/styles"
)

// =============================================================================
// MODEL
// =============================================================================

// focusArea identifies which pane receives key input.
type focusArea int

const (
	focusInput focusArea = iota
	focusSidebar
)

// pendingConfirm identifies what the confirm dialog will do.
type pendingConfirm int

const (
	confirmNone pendingConfirm = iota
	confirmDelete
	confirmClear
)

// Model is the Bubble Tea model for the chat screen. The cache serves all
// reads, the shared chat state owns the optimistic buffer, and components
// render from both.
type Model struct {
	keys  KeyMap
	theme *styles.Theme

	cache *cache.Cache
	state *state.ChatState
	user  model.User

	sidebar   *components.Sidebar
	header    *components.Header
	statusBar *components.StatusBar
	toasts    *components.ToastManager
	typing    components.TypingIndicator
	markdown  *components.Markdown
	msgList   *components.MessageList

	viewport    viewport.Model
	input       textinput.Model
	renameInput textinput.Model
	renaming    bool
	renameID    string

	confirm    *components.ConfirmDialog
	confirming pendingConfirm
	confirmID  string

	focus focusArea

	conversations []model.Conversation
	messages      []model.Message

	convPageSize int
	msgPageSize  int

	loadingConversations bool
	loadingMessages      bool

	lastFailedSend string

	width  int
	height int
	online bool
}

// New creates the chat model for an authenticated user.
func New(c *cache.Cache, st *state.ChatState, user model.User, theme *styles.Theme) Model {
	cfg := config.Global()

	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.CharLimit = 4000
	input.Focus()

	rename := textinput.New()
	rename.Placeholder = "Conversation title"
	rename.CharLimit = 100

	markdown := components.NewMarkdown(80)
	msgList := components.NewMessageList(theme)
	msgList.ShowTimestamps = cfg.UI.ShowTimestamps
	msgList.RenderBody = markdown.Render

	header := components.NewHeader(cfg.App.Name, theme)
	header.SetUser(user)

	sidebar := components.NewSidebar(theme)
	sidebar.Compact = cfg.UI.CompactSidebar
	sidebar.Loading = true

	return Model{
		keys:                 DefaultKeyMap(),
		theme:                theme,
		cache:                c,
		state:                st,
		user:                 user,
		sidebar:              sidebar,
		header:               header,
		statusBar:            components.NewStatusBar(theme),
		toasts:               components.NewToastManager(),
		typing:               components.NewTypingIndicator(),
		markdown:             markdown,
		msgList:              msgList,
		viewport:             viewport.New(80, 20),
		input:                input,
		renameInput:          rename,
		confirm:              components.NewConfirmDialog("", "", theme),
		convPageSize:         cfg.UI.ConversationPageSize,
		msgPageSize:          cfg.UI.MessagePageSize,
		loadingConversations: true,
		online:               true,
	}
}

// Init loads the first page of conversations and starts the toast ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		loadConversationsCmd(m.cache, 1, m.convPageSize),
		components.ToastTickCmd(),
		textinput.Blink,
	)
}

// User returns the user the model was built for.
func (m Model) User() model.User {
	return m.user
}

// SetUser refreshes the user shown in the header, after a profile edit.
func (m *Model) SetUser(user model.User) {
	m.user = user
	m.header.SetUser(user)
}

// activeConversation returns the conversation matching the shared state's
// active id, if it is in the loaded page.
func (m Model) activeConversation() (model.Conversation, bool) {
	id := m.state.ActiveID()
	if id == "" {
		return model.Conversation{}, false
	}
	for _, c := range m.conversations {
		if c.ID == id {
			return c, true
		}
	}
	return model.Conversation{}, false
}

// refreshTranscript rebuilds the viewport content from the confirmed
// messages merged with the optimistic buffer and pins the view to the
// bottom.
func (m *Model) refreshTranscript() {
	m.msgList.Messages = m.state.Merged(m.messages)
	m.msgList.Width = m.viewport.Width
	m.viewport.SetContent(m.msgList.View())
	m.viewport.GotoBottom()
}

func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)

	sidebarWidth := 0
	if m.state.SidebarOpen() && m.theme.GetLayoutMode() != styles.LayoutNarrow {
		sidebarWidth = 32
		if m.sidebar.Compact {
			sidebarWidth = 24
		}
	}

	chatWidth := width - sidebarWidth
	// header + input + status bar
	chatHeight := height - 5
	if chatHeight < 3 {
		chatHeight = 3
	}

	m.header.SetWidth(width)
	m.statusBar.Width = width
	m.sidebar.SetSize(sidebarWidth, chatHeight)
	m.viewport.Width = chatWidth - 2
	m.viewport.Height = chatHeight
	m.input.Width = chatWidth - 6
	m.refreshTranscript()
}
