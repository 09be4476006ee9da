// converse TUI - A terminal client for the Converse assistant backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/converse-tui/internal/api"
	"github.com/jeranaias/converse-tui/internal/cli"
	"github.com/jeranaias/converse-tui/internal/config"
	"github.com/jeranaias/converse-tui/internal/session"
	"github.com/jeranaias/converse-tui/internal/ui/app"
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		os.Exit(runTUI())
	}

	switch args[0] {
	case "quick", "q":
		os.Exit(cli.RunQuick(args[1:]))
	case "login":
		os.Exit(cli.RunLogin(args[1:]))
	case "logout":
		os.Exit(cli.RunLogout())
	case "version", "--version", "-v":
		fmt.Println("converse " + api.Version)
		os.Exit(0)
	case "help", "--help", "-h":
		printUsage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q.\n\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func runTUI() int {
	store, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer store.Close()

	cfg := config.Global()
	client := api.NewClient(cfg.API.URL)
	if os.Getenv("CONVERSE_DEBUG") != "" {
		client.WithDebug(true)
	}

	// Reload the TUI's config when the file changes on disk.
	watcher, err := config.NewWatcher(nil)
	if err == nil {
		if err := watcher.Watch(); err == nil {
			defer watcher.Close()
		}
	}

	program := tea.NewProgram(app.New(client, store), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func openSession() (*session.Store, error) {
	dir, err := config.Global().DataDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate data directory: %w", err)
	}
	return session.Open(dir)
}

func printUsage() {
	fmt.Println(`converse - terminal client for the Converse assistant

Usage:
  converse              start the interactive TUI
  converse quick [MSG]  one-shot chat; REPL when MSG is omitted
  converse login        sign in and persist the session
  converse logout       discard the persisted session
  converse version      print the version
  converse help         show this help

Environment:
  CONVERSE_API_URL      override the backend URL
  CONVERSE_THEME        dark or light
  CONVERSE_DEBUG        log request method/status to stderr`)
}
