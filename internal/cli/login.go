// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// login.go - Credential commands for scripting.
//
// "converse login" prompts for credentials (password never echoed) and
// persists the session; "converse logout" discards it.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/jeranaias/converse-tui/internal/api"
	"github.com/jeranaias/converse-tui/internal/model"
)

// =============================================================================
// LOGIN
// =============================================================================

// RunLogin handles the login subcommand. Returns the process exit code.
func RunLogin(args []string) int {
	if !stdinIsTerminal() {
		fmt.Fprintln(os.Stderr, "Error: login requires an interactive terminal")
		return 1
	}

	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		fmt.Print("Email: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to read email: %v\n", err)
			return 1
		}
		email = strings.TrimSpace(line)
	}

	if err := model.ValidateEmail(email); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Print("Password: ")
	passBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to read password: %v\n", err)
		return 1
	}
	password := string(passBytes)
	if password == "" {
		fmt.Fprintln(os.Stderr, "Error: password is required")
		return 1
	}

	store, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer store.Close()

	client := newClient(nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sess, err := client.Login(ctx, email, password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", api.UserFacingMessage(err))
		return 1
	}

	if err := store.SetCredentials(sess.User, sess.Token); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save session: %v\n", err)
		return 1
	}

	fmt.Printf("Logged in as %s <%s>\n", sess.User.Name, sess.User.Email)
	return 0
}

// =============================================================================
// LOGOUT
// =============================================================================

// RunLogout handles the logout subcommand. Returns the process exit code.
func RunLogout() int {
	store, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer store.Close()

	if !store.IsAuthenticated() {
		fmt.Println("Not logged in.")
		return 0
	}

	if err := store.Logout(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to clear session: %v\n", err)
		return 1
	}
	fmt.Println("Logged out.")
	return 0
}
