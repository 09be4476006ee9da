// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the root Bubble Tea model. It routes between the auth,
// chat, and profile views and owns the pieces they share: the API client,
// the session store, the conversation cache, and the chat state.
package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/converse-tui/internal/api"
	"github.com/jeranaias/converse-tui/internal/cache"
	"github.com/jeranaias/converse-tui/internal/config"
	"github.com/jeranaias/converse-tui/internal/session"
	"github.com/jeranaias/converse-tui/internal/state"
	"github.com/jeranaias/converse-tui/internal/ui/auth"
	"github.com/jeranaias/converse-tui/internal/ui/chat"
	"github.com/jeranaias/converse-tui/internal/ui/profile"
	"github.com/jeranaias/converse-tui/internal/ui/styles"
)

// =============================================================================
// ROOT MODEL
// =============================================================================

// view identifies the screen currently shown.
type view int

const (
	viewAuth view = iota
	viewChat
	viewProfile
)

// unauthorizedMsg is delivered when any API call came back 401.
type unauthorizedMsg struct{}

// Model is the root application model.
type Model struct {
	client   *api.Client
	sessions *session.Store
	cache    *cache.Cache
	state    *state.ChatState
	theme    *styles.Theme

	active  view
	auth    auth.Model
	chat    chat.Model
	profile profile.Model

	// unauthorized carries 401 notifications from command goroutines into
	// the update loop.
	unauthorized chan struct{}

	width  int
	height int
}

// New wires the shared infrastructure and picks the initial view from the
// persisted session.
func New(client *api.Client, sessions *session.Store) Model {
	theme := styles.NewTheme()
	cfg := config.Global()

	m := Model{
		client:       client,
		sessions:     sessions,
		cache:        cache.New(client),
		state:        state.New(),
		theme:        theme,
		unauthorized: make(chan struct{}, 1),
	}

	client.WithTokenSource(sessions.Token)
	client.OnUnauthorized(func() {
		select {
		case m.unauthorized <- struct{}{}:
		default:
		}
	})

	if sessions.IsAuthenticated() {
		m.active = viewChat
		m.chat = chat.New(m.cache, m.state, sessions.User(), theme)
	} else {
		m.active = viewAuth
		m.auth = auth.New(client, cfg.App.Name, theme)
	}
	return m
}

// Init starts the active view and the 401 listener.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.listenUnauthorized()}
	switch m.active {
	case viewChat:
		cmds = append(cmds, m.chat.Init())
	default:
		cmds = append(cmds, m.auth.Init())
	}
	return tea.Batch(cmds...)
}

// listenUnauthorized blocks on the 401 channel and converts a notification
// into a message. Re-armed after every delivery.
func (m Model) listenUnauthorized() tea.Cmd {
	ch := m.unauthorized
	return func() tea.Msg {
		<-ch
		return unauthorizedMsg{}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update routes messages to the active view and handles the transitions
// between views.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Every view gets the size so switching never renders stale layout.
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.auth, cmd = m.auth.Update(msg)
		cmds = append(cmds, cmd)
		if m.active == viewChat || m.active == viewProfile {
			m.chat, cmd = m.chat.Update(msg)
			cmds = append(cmds, cmd)
			m.profile, cmd = m.profile.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case unauthorizedMsg:
		// A 401 on the sign-in form itself is just a wrong password; the
		// forced logout only applies to an authenticated session.
		if m.active == viewAuth {
			return m, m.listenUnauthorized()
		}
		return m.logout("Your session expired. Please sign in again.")

	case auth.CompletedMsg:
		return m.enterChat(msg.Session)

	case chat.LogoutRequestedMsg:
		return m.logout("")

	case chat.OpenProfileMsg:
		m.active = viewProfile
		m.profile = profile.New(m.client, m.sessions.User(), m.theme)
		m.profile.SetSize(m.width, m.height)
		return m, m.profile.Init()

	case profile.BackMsg:
		m.active = viewChat
		return m, nil

	case profile.UpdatedMsg:
		// Persist the refreshed user, then let the profile view show it.
		if err := m.sessions.UpdateUser(msg.User); err == nil {
			m.chat.SetUser(m.sessions.User())
		}
	}

	var cmd tea.Cmd
	switch m.active {
	case viewAuth:
		m.auth, cmd = m.auth.Update(msg)
	case viewChat:
		m.chat, cmd = m.chat.Update(msg)
	case viewProfile:
		m.profile, cmd = m.profile.Update(msg)
	}
	return m, cmd
}

// enterChat stores the credentials and switches to the chat view.
func (m Model) enterChat(sess api.Session) (tea.Model, tea.Cmd) {
	// A persistence failure is not fatal; the session still works for this
	// run, it just won't survive a restart.
	_ = m.sessions.SetCredentials(sess.User, sess.Token)
	m.active = viewChat
	m.chat = chat.New(m.cache, m.state, sess.User, m.theme)
	if m.width > 0 {
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		return m, tea.Batch(m.chat.Init(), cmd)
	}
	return m, m.chat.Init()
}

// logout clears everything user-scoped and returns to the auth view. The
// note, when set, is shown on the login form.
func (m Model) logout(note string) (tea.Model, tea.Cmd) {
	_ = m.sessions.Logout()
	m.cache.Clear()
	m.state.ClearChat()

	cfg := config.Global()
	m.active = viewAuth
	m.auth = auth.New(m.client, cfg.App.Name, m.theme)
	m.auth.SetNotice(note)
	if m.width > 0 {
		var cmd tea.Cmd
		m.auth, cmd = m.auth.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		return m, tea.Batch(m.auth.Init(), m.listenUnauthorized(), cmd)
	}
	return m, tea.Batch(m.auth.Init(), m.listenUnauthorized())
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the active screen.
func (m Model) View() string {
	switch m.active {
	case viewChat:
		return m.chat.View()
	case viewProfile:
		return m.profile.View()
	default:
		return m.auth.View()
	}
}
