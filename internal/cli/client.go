// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"

	"github.com/jeranaias/converse-tui/internal/api"
	"github.com/jeranaias/converse-tui/internal/config"
	"github.com/jeranaias/converse-tui/internal/session"
)

// =============================================================================
// SHARED SETUP
// =============================================================================

// openSession opens the persistent session store under the configured data
// directory, so app.data_dir / CONVERSE_DATA_DIR relocate it.
func openSession() (*session.Store, error) {
	dir, err := config.Global().DataDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate data directory: %w", err)
	}
	return session.Open(dir)
}

// newClient builds the API client from config, reading the bearer token
// from the session store.
func newClient(store *session.Store) *api.Client {
	cfg := config.Global()
	client := api.NewClient(cfg.API.URL)
	if store != nil {
		client.WithTokenSource(store.Token)
	}
	if os.Getenv("CONVERSE_DEBUG") != "" {
		client.WithDebug(true)
	}
	return client
}
