// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/converse-tui/internal/ui/styles"
)

// =============================================================================
// SPINNER COMPONENT
// =============================================================================

// SpinnerTickMsg advances the spinner animation.
type SpinnerTickMsg struct {
	Time time.Time
}

// Spinner is an animated loading indicator with an optional message
// and elapsed-time display.
type Spinner struct {
	config    styles.SpinnerConfig
	frame     int
	message   string
	active    bool
	showTimer bool
	startedAt time.Time
}

// NewSpinner creates a braille spinner.
func NewSpinner() Spinner {
	return Spinner{
		config:  styles.BrailleSpinner,
		message: "Loading",
	}
}

// SetMessage sets the label shown next to the spinner.
func (s *Spinner) SetMessage(msg string) {
	s.message = msg
}

// SetShowTimer toggles the elapsed-time suffix.
func (s *Spinner) SetShowTimer(show bool) {
	s.showTimer = show
}

// Start activates the spinner and returns the first tick command.
func (s *Spinner) Start() tea.Cmd {
	s.active = true
	s.frame = 0
	s.startedAt = time.Now()
	return s.tick()
}

// Stop deactivates the spinner.
func (s *Spinner) Stop() {
	s.active = false
}

// IsActive reports whether the spinner is running.
func (s *Spinner) IsActive() bool {
	return s.active
}

// Elapsed returns how long the spinner has been running.
func (s *Spinner) Elapsed() time.Duration {
	if !s.active {
		return 0
	}
	return time.Since(s.startedAt)
}

func (s *Spinner) tick() tea.Cmd {
	return tea.Tick(s.config.Duration(), func(t time.Time) tea.Msg {
		return SpinnerTickMsg{Time: t}
	})
}

// Update advances the animation on tick messages.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if _, ok := msg.(SpinnerTickMsg); ok && s.active {
		s.frame = (s.frame + 1) % len(s.config.Frames)
		return s, s.tick()
	}
	return s, nil
}

// View renders the spinner with its message.
func (s Spinner) View() string {
	if !s.active {
		return ""
	}

	frame := lipgloss.NewStyle().
		Foreground(styles.Purple).
		Render(s.config.Frames[s.frame])

	text := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Render(s.message)

	out := frame + " " + text
	if s.showTimer {
		secs := int(s.Elapsed().Seconds())
		out += " " + lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Render("("+strconv.Itoa(secs)+"s)")
	}
	return out
}

// =============================================================================
// TYPING INDICATOR
// =============================================================================

// TypingIndicator shows "Assistant is typing..." with animated dots while
// a reply is pending.
type TypingIndicator struct {
	spinner Spinner
}

// NewTypingIndicator creates a typing indicator.
func NewTypingIndicator() TypingIndicator {
	return TypingIndicator{
		spinner: Spinner{
			config:  styles.DotsSpinner,
			message: "Assistant is typing",
		},
	}
}

// Start activates the indicator.
func (t *TypingIndicator) Start() tea.Cmd {
	return t.spinner.Start()
}

// Stop deactivates the indicator.
func (t *TypingIndicator) Stop() {
	t.spinner.Stop()
}

// IsActive reports whether the indicator is visible.
func (t *TypingIndicator) IsActive() bool {
	return t.spinner.IsActive()
}

// Update advances the animation.
func (t TypingIndicator) Update(msg tea.Msg) (TypingIndicator, tea.Cmd) {
	var cmd tea.Cmd
	t.spinner, cmd = t.spinner.Update(msg)
	return t, cmd
}

// View renders the indicator.
func (t TypingIndicator) View() string {
	if !t.spinner.IsActive() {
		return ""
	}

	dots := lipgloss.NewStyle().
		Foreground(styles.Purple).
		Render(t.spinner.config.Frames[t.spinner.frame])

	text := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Italic(true).
		Render(t.spinner.message)

	return text + dots
}
