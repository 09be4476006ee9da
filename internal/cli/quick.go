// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// quick.go - Stateless chat from the command line.
//
// "converse quick <question>" sends a single prompt and prints the reply;
// nothing is persisted server-side. With no question it drops into a small
// REPL with line editing and history.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/jeranaias/converse-tui/internal/api"
	"github.com/jeranaias/converse-tui/internal/config"
)

const quickTimeout = 2 * time.Minute

// =============================================================================
// QUICK COMMAND
// =============================================================================

// RunQuick handles the quick subcommand. Returns the process exit code.
func RunQuick(args []string) int {
	store, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer store.Close()

	if !store.IsAuthenticated() {
		fmt.Fprintln(os.Stderr, "Not logged in. Run \"converse login\" first.")
		return 1
	}

	client := newClient(store)

	if len(args) > 0 {
		return quickOnce(client, strings.Join(args, " "))
	}
	if !stdinIsTerminal() {
		// Piped input: read everything and answer once.
		return quickFromStdin(client)
	}
	return quickREPL(client)
}

func quickOnce(client *api.Client, question string) int {
	ctx, cancel := context.WithTimeout(context.Background(), quickTimeout)
	defer cancel()

	reply, err := client.QuickChat(ctx, question)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", api.UserFacingMessage(err))
		return 1
	}
	fmt.Print(renderMarkdown(reply))
	if !strings.HasSuffix(reply, "\n") {
		fmt.Println()
	}
	return 0
}

func quickFromStdin(client *api.Client) int {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to read stdin: %v\n", err)
		return 1
	}
	question := strings.TrimSpace(string(data))
	if question == "" {
		fmt.Fprintln(os.Stderr, "Error: empty input")
		return 1
	}
	return quickOnce(client, question)
}

// =============================================================================
// REPL
// =============================================================================

// historyPath returns the REPL history file location inside the configured
// data directory.
func historyPath() string {
	dir, err := config.Global().DataDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "quick_history")
}

func quickREPL(client *api.Client) int {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	defer line.Close()

	histFile := historyPath()
	if f, err := os.Open(histFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer saveHistory(line, histFile)

	fmt.Println("Quick chat. Replies are not saved. /help for commands.")

	for {
		input, err := line.Prompt("> ")
		if err != nil {
			// Ctrl-C or EOF ends the session.
			if err == liner.ErrPromptAborted {
				fmt.Println()
			}
			return 0
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if done := handleREPLCommand(input); done {
				return 0
			}
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), quickTimeout)
		reply, err := client.QuickChat(ctx, input)
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", api.UserFacingMessage(err))
			continue
		}
		fmt.Print(renderMarkdown(reply))
		if !strings.HasSuffix(reply, "\n") {
			fmt.Println()
		}
	}
}

// handleREPLCommand processes a slash command; true means quit.
func handleREPLCommand(input string) bool {
	switch strings.ToLower(strings.Fields(input)[0]) {
	case "/quit", "/exit", "/q":
		return true
	case "/clear":
		// ANSI clear screen + home
		fmt.Print("\033[2J\033[H")
	case "/help", "/h":
		fmt.Println("Commands:")
		fmt.Println("  /help   show this help")
		fmt.Println("  /clear  clear the screen")
		fmt.Println("  /quit   exit")
	default:
		fmt.Printf("Unknown command %q. Try /help.\n", input)
	}
	return false
}

// saveHistory persists REPL history with owner-only permissions.
func saveHistory(line *liner.State, path string) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	line.WriteHistory(f)
}
