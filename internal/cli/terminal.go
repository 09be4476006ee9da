// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// =============================================================================
// TERMINAL HELPERS
// =============================================================================

// stdoutIsTerminal reports whether stdout is a TTY. Markdown rendering is
// skipped for piped output so scripts get plain text.
func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// stdinIsTerminal reports whether stdin is a TTY.
func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// renderMarkdown renders assistant output for the terminal, falling back to
// the raw text when rendering is unavailable or stdout is piped.
func renderMarkdown(content string) string {
	if !stdoutIsTerminal() {
		return content
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
