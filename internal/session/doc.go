// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the authenticated user's token and profile and
// persists them across restarts.
//
// Credentials live in a small SQLite key-value store under the configured
// data directory (keys "token" and "user"). The bearer token is encrypted at
// rest with AES-256-GCM; the profile is stored as plain JSON. Logout clears
// both memory and durable state and is idempotent.
//
// # Usage
//
//	dir, err := config.Global().DataDir()
//	if err != nil { ... }
//	store, err := session.Open(dir)
//	if err != nil { ... }
//	defer store.Close()
//
//	store.OnLogout(func() { cache.Clear() })
//	if store.IsAuthenticated() {
//	    // hydrated from a previous run
//	}
package session
