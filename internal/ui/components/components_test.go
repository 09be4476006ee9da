// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/converse-tui/internal/model"
	"github.com/jeranaias/converse-tui/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme()
}

// =============================================================================
// TOASTS
// =============================================================================

func TestToastManagerAddAndExpire(t *testing.T) {
	m := NewToastManager()

	id := m.AddError("request failed")
	if id == 0 {
		t.Fatal("expected non-zero toast id")
	}
	if !m.HasToasts() {
		t.Fatal("expected active toast")
	}

	m.Remove(id)
	if m.HasToasts() {
		t.Fatal("toast should be removed")
	}
}

func TestToastManagerNewestFirst(t *testing.T) {
	m := NewToastManager()
	m.AddStatus("first")
	m.AddStatus("second")

	toasts := m.Toasts()
	if len(toasts) != 2 {
		t.Fatalf("expected 2 toasts, got %d", len(toasts))
	}
	if toasts[0].Message != "second" {
		t.Errorf("newest toast should be first, got %q", toasts[0].Message)
	}
}

func TestToastManagerMaxStack(t *testing.T) {
	m := NewToastManager()
	for i := 0; i < 10; i++ {
		m.AddStatus("toast")
	}
	if got := len(m.Toasts()); got != 5 {
		t.Errorf("stack should cap at 5, got %d", got)
	}
}

func TestToastTickDropsExpired(t *testing.T) {
	m := NewToastManager()
	expired := NewStatusToast("old")
	expired.CreatedAt = time.Now().Add(-time.Minute)
	m.Add(expired)
	m.AddStatus("fresh")

	remaining := m.Tick()
	if len(remaining) != 1 {
		t.Fatalf("expected 1 remaining toast, got %d", len(remaining))
	}
	if remaining[0].Message != "fresh" {
		t.Errorf("wrong toast survived: %q", remaining[0].Message)
	}
}

func TestRenderToastIncludesMessage(t *testing.T) {
	toast := NewErrorToast("could not send message")
	out := RenderToast(toast, 80)
	if !strings.Contains(out, "could not send") {
		t.Errorf("rendered toast missing message: %q", out)
	}
	if !strings.Contains(out, "Dismiss") {
		t.Errorf("rendered toast missing dismiss hint: %q", out)
	}
}

func TestRenderRetryableToastShowsRetry(t *testing.T) {
	toast := NewRetryableErrorToast("send failed")
	out := RenderToast(toast, 80)
	if !strings.Contains(out, "Retry") {
		t.Errorf("retryable toast missing retry hint: %q", out)
	}
}

func TestRenderToastStackEmpty(t *testing.T) {
	if out := RenderToastStack(nil, 80, 24); out != "" {
		t.Errorf("empty stack should render nothing, got %q", out)
	}
}

// =============================================================================
// MESSAGE BUBBLES
// =============================================================================

func TestMessageBubbleRoles(t *testing.T) {
	theme := testTheme()
	now := time.Now()

	tests := []struct {
		name string
		msg  model.Message
		want string
	}{
		{
			name: "user message",
			msg:  model.Message{ID: "m1", Role: model.RoleUser, Content: "hello there", CreatedAt: now},
			want: "hello there",
		},
		{
			name: "assistant message",
			msg:  model.Message{ID: "m2", Role: model.RoleAssistant, Content: "hi, how can I help?", CreatedAt: now},
			want: "hi, how can I help?",
		},
		{
			name: "system message",
			msg:  model.Message{ID: "m3", Role: model.RoleSystem, Content: "conversation cleared", CreatedAt: now},
			want: "conversation cleared",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewMessageBubble(tt.msg, theme)
			b.SetWidth(80)
			out := b.View()
			if !strings.Contains(out, tt.want) {
				t.Errorf("bubble missing content %q", tt.want)
			}
		})
	}
}

func TestOptimisticMessageRendersPending(t *testing.T) {
	msg := model.NewOptimisticMessage("on its way")
	b := NewMessageBubble(msg, testTheme())
	b.SetWidth(80)
	out := b.View()

	if !strings.Contains(out, "on its way") {
		t.Error("pending bubble missing content")
	}
	if !strings.Contains(out, "sending") {
		t.Error("pending bubble missing sending marker")
	}
}

func TestMessageListEmptyState(t *testing.T) {
	ml := NewMessageList(testTheme())
	ml.SetWidth(80)
	out := ml.View()
	if !strings.Contains(out, "No messages yet") {
		t.Errorf("empty list missing placeholder: %q", out)
	}
}

func TestMessageListRendersAllMessages(t *testing.T) {
	ml := NewMessageList(testTheme())
	ml.SetWidth(80)
	ml.SetMessages([]model.Message{
		{ID: "m1", Role: model.RoleUser, Content: "question"},
		{ID: "m2", Role: model.RoleAssistant, Content: "answer"},
	})
	out := ml.View()
	if !strings.Contains(out, "question") || !strings.Contains(out, "answer") {
		t.Error("message list missing messages")
	}
}

func TestWordWrap(t *testing.T) {
	wrapped := wordWrap("one two three four five", 9)
	for _, line := range strings.Split(wrapped, "\n") {
		if len(line) > 9 {
			t.Errorf("line %q exceeds width", line)
		}
	}
}

// =============================================================================
// SIDEBAR
// =============================================================================

func sampleConversations(now time.Time) []model.Conversation {
	return []model.Conversation{
		{ID: "c1", Title: "Trip planning", LastMessageAt: now},
		{ID: "c2", Title: "Recipe ideas", LastMessageAt: now.Add(-24 * time.Hour)},
		{ID: "c3", Title: "", LastMessageAt: now.Add(-24 * time.Hour)},
	}
}

func TestSidebarGroupsAndTitles(t *testing.T) {
	now := time.Now()
	sb := NewSidebar(testTheme())
	sb.SetSize(36, 24)
	sb.SetConversations(sampleConversations(now))

	out := sb.View()
	if !strings.Contains(out, "Today") {
		t.Error("sidebar missing Today group")
	}
	if !strings.Contains(out, "Yesterday") {
		t.Error("sidebar missing Yesterday group")
	}
	if !strings.Contains(out, "Trip planning") {
		t.Error("sidebar missing conversation title")
	}
	if !strings.Contains(out, "New Conversation") {
		t.Error("untitled conversation should use fallback title")
	}
}

func TestSidebarCursorMovement(t *testing.T) {
	sb := NewSidebar(testTheme())
	sb.SetConversations(sampleConversations(time.Now()))

	sb.CursorUp() // already at top
	if sb.Cursor != 0 {
		t.Error("cursor should clamp at top")
	}

	sb.CursorDown()
	sb.CursorDown()
	sb.CursorDown() // past end
	if sb.Cursor != 2 {
		t.Errorf("cursor should clamp at bottom, got %d", sb.Cursor)
	}

	sel, ok := sb.Selected()
	if !ok || sel.ID != "c3" {
		t.Errorf("expected c3 selected, got %v", sel.ID)
	}
}

func TestSidebarSelectID(t *testing.T) {
	sb := NewSidebar(testTheme())
	sb.SetConversations(sampleConversations(time.Now()))
	sb.SelectID("c2")
	sel, _ := sb.Selected()
	if sel.ID != "c2" {
		t.Errorf("SelectID failed, got %s", sel.ID)
	}
}

func TestSidebarEmptyState(t *testing.T) {
	sb := NewSidebar(testTheme())
	out := sb.View()
	if !strings.Contains(out, "No conversations yet") {
		t.Error("empty sidebar missing placeholder")
	}
}

// =============================================================================
// HEADER / STATUS BAR
// =============================================================================

func TestHeaderShowsBrandAndInitials(t *testing.T) {
	h := NewHeader("Converse", testTheme())
	h.SetWidth(80)
	h.SetUser(model.User{ID: "u1", Name: "Ada Lovelace"})
	h.SetTitle("Trip planning")

	out := h.View()
	if !strings.Contains(out, "Converse") {
		t.Error("header missing brand")
	}
	if !strings.Contains(out, "AL") {
		t.Error("header missing user initials")
	}
	if !strings.Contains(out, "Trip planning") {
		t.Error("header missing title")
	}
}

func TestStatusBarShortcutsAndState(t *testing.T) {
	sb := NewStatusBar(testTheme())
	sb.SetWidth(100)
	sb.SetShortcuts([]Shortcut{{Key: "ctrl+n", Desc: "new chat"}})

	out := sb.View()
	if !strings.Contains(out, "ctrl+n") || !strings.Contains(out, "new chat") {
		t.Error("status bar missing shortcut")
	}
	if !strings.Contains(out, "online") {
		t.Error("status bar missing online indicator")
	}

	sb.SetOnline(false)
	if !strings.Contains(sb.View(), "offline") {
		t.Error("status bar missing offline indicator")
	}
}

// =============================================================================
// DIALOG
// =============================================================================

func TestConfirmDialogDefaultsToCancel(t *testing.T) {
	d := NewConfirmDialog("Delete conversation", "This cannot be undone.", testTheme())
	if d.Confirmed() {
		t.Error("dialog must not default to confirm")
	}
	d.Toggle()
	if !d.Confirmed() {
		t.Error("toggle should focus confirm")
	}
}

func TestConfirmDialogView(t *testing.T) {
	d := NewConfirmDialog("Delete conversation", "This cannot be undone.", testTheme())
	out := d.View()
	for _, want := range []string{"Delete conversation", "cannot be undone", "Delete", "Cancel"} {
		if !strings.Contains(out, want) {
			t.Errorf("dialog missing %q", want)
		}
	}
}

// =============================================================================
// CODE BLOCKS
// =============================================================================

func TestParseCodeBlocks(t *testing.T) {
	text := "intro\n```go\nfmt.Println(\"hi\")\n```\noutro"
	out := ParseCodeBlocks(text, 80)
	if !strings.Contains(out, "intro") || !strings.Contains(out, "outro") {
		t.Error("prose should pass through")
	}
	if !strings.Contains(out, "go") {
		t.Error("language badge missing")
	}
}

func TestParseCodeBlocksUnclosed(t *testing.T) {
	text := "```python\nprint(1)"
	out := ParseCodeBlocks(text, 80)
	if !strings.Contains(out, "print") {
		t.Error("unclosed code block should still render")
	}
}

func TestMarkdownFallback(t *testing.T) {
	m := NewMarkdown(80)
	out := m.Render("plain **bold** text", 80)
	if out == "" {
		t.Error("markdown render produced nothing")
	}
}
