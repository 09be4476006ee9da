// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the authenticated user's token and profile and
// persists them across restarts.
package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/jeranaias/converse-tui/internal/model"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// Fixed keys for the persisted credential pair.
const (
	keyToken = "token"
	keyUser  = "user"
)

const (
	dbFileName  = "session.db"
	keyFileName = "session.key"
)

// =============================================================================
// STORE
// =============================================================================

// Store is the session store: the current bearer token and user profile,
// mirrored to a durable SQLite key-value table. Safe for concurrent use.
//
// Invariant: IsAuthenticated() is true exactly when a token is held.
type Store struct {
	mu            sync.RWMutex
	token         string
	user          model.User
	authenticated bool

	db  *sql.DB
	box *secretBox

	onLogout []func()
}

// Open opens (creating if needed) the session store under dir and hydrates
// any persisted credentials. A corrupt or undecryptable row degrades to the
// logged-out state rather than failing.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	box, err := loadOrCreateSecretBox(filepath.Join(dir, keyFileName))
	if err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, dbFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value BLOB NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	// Session material must not be world-readable.
	if err := os.Chmod(dbPath, 0600); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to restrict session store permissions: %w", err)
	}

	s := &Store{db: db, box: box}
	s.hydrate()
	return s, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// OnLogout registers a callback fired when the session transitions from
// authenticated to logged out (explicit logout or a 401 anywhere).
func (s *Store) OnLogout(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLogout = append(s.onLogout, fn)
}

// =============================================================================
// STATE ACCESS
// =============================================================================

// IsAuthenticated reports whether a token is held.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Token returns the current bearer token, or "" when logged out.
// Matches the api.TokenSource signature.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the current profile.
func (s *Store) User() model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// =============================================================================
// MUTATIONS
// =============================================================================

// SetCredentials stores a fresh login or registration result, persisting
// both halves so a restart restores authentication without re-login.
func (s *Store) SetCredentials(user model.User, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(user, token); err != nil {
		return err
	}

	s.user = user
	s.token = token
	s.authenticated = token != ""
	return nil
}

// UpdateUser shallow-merges non-zero fields of partial into the current
// profile and re-persists it. The token is untouched.
func (s *Store) UpdateUser(partial model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := s.user.Merge(partial)
	if err := s.persistUser(merged); err != nil {
		return err
	}
	s.user = merged
	return nil
}

// Logout clears the in-memory and durable session. Idempotent: calling it
// while logged out is a no-op and fires no callbacks.
func (s *Store) Logout() error {
	s.mu.Lock()

	wasAuthenticated := s.authenticated
	s.token = ""
	s.user = model.User{}
	s.authenticated = false

	_, err := s.db.Exec(`DELETE FROM kv WHERE key IN (?, ?)`, keyToken, keyUser)

	var callbacks []func()
	if wasAuthenticated {
		callbacks = append(callbacks, s.onLogout...)
	}
	s.mu.Unlock()

	// Fire outside the lock: callbacks may call back into the store.
	for _, fn := range callbacks {
		fn()
	}

	if err != nil {
		return fmt.Errorf("failed to clear persisted session: %w", err)
	}
	return nil
}

// =============================================================================
// PERSISTENCE
// =============================================================================

func (s *Store) persist(user model.User, token string) error {
	encToken, err := s.box.Encrypt(token)
	if err != nil {
		return fmt.Errorf("failed to encrypt token: %w", err)
	}
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin session write: %w", err)
	}
	defer tx.Rollback()

	upsert := `INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := tx.Exec(upsert, keyToken, []byte(encToken)); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	if _, err := tx.Exec(upsert, keyUser, userJSON); err != nil {
		return fmt.Errorf("failed to persist user: %w", err)
	}
	return tx.Commit()
}

func (s *Store) persistUser(user model.User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, keyUser, userJSON)
	if err != nil {
		return fmt.Errorf("failed to persist user: %w", err)
	}
	return nil
}

// hydrate restores persisted credentials. Anything unreadable leaves the
// store logged out and removes the stale rows.
func (s *Store) hydrate() {
	var encToken []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, keyToken).Scan(&encToken)
	if errors.Is(err, sql.ErrNoRows) {
		return
	}
	if err != nil {
		return
	}

	token, err := s.box.Decrypt(string(encToken))
	if err != nil || token == "" {
		s.db.Exec(`DELETE FROM kv WHERE key IN (?, ?)`, keyToken, keyUser)
		return
	}

	var user model.User
	var userJSON []byte
	if err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, keyUser).Scan(&userJSON); err == nil {
		if err := json.Unmarshal(userJSON, &user); err != nil {
			user = model.User{}
		}
	}

	s.token = token
	s.user = user
	s.authenticated = true
}
