// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the authenticated user's token and profile and
// persists them across restarts.
package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/jeranaias/converse-tui/internal/util"
)

// =============================================================================
// TOKEN-AT-REST ENCRYPTION
// =============================================================================

// The bearer token is the only secret this client holds; it is stored
// AES-256-GCM encrypted under a key derived from a random master key file.
// Losing the key file just forces a re-login.

const (
	// encryptedPrefix marks an encrypted value: ENC:base64(salt|nonce|ciphertext).
	encryptedPrefix = "ENC:"

	// keySize is the AES-256 key length.
	keySize = 32

	// saltSize is the per-value key derivation salt length.
	saltSize = 32

	// nonceSize is the AES-GCM nonce length.
	nonceSize = 12

	// pbkdf2Iterations follows the OWASP recommendation for PBKDF2-SHA-256.
	pbkdf2Iterations = 600000
)

var (
	// ErrInvalidCiphertext indicates the stored value is not a well-formed
	// encrypted blob.
	ErrInvalidCiphertext = errors.New("invalid ciphertext format")

	// ErrDecryptionFailed indicates a wrong key or tampered data.
	ErrDecryptionFailed = errors.New("decryption failed")
)

// zeroBytes zeros sensitive byte slices after use.
// SECURITY: limits key material exposure in crash dumps.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// secretBox encrypts and decrypts small values with a master key loaded
// from a 0600 key file.
type secretBox struct {
	master []byte
}

// loadOrCreateSecretBox reads the master key file, creating it with fresh
// random material on first run.
func loadOrCreateSecretBox(keyPath string) (*secretBox, error) {
	data, err := os.ReadFile(keyPath)
	if err == nil {
		if len(data) != keySize {
			return nil, fmt.Errorf("key file %s is corrupt (length %d)", keyPath, len(data))
		}
		return &secretBox{master: data}, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	master := make([]byte, keySize)
	if _, err := rand.Read(master); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	if err := util.AtomicWriteFilePrivate(keyPath, master, 0600); err != nil {
		return nil, fmt.Errorf("failed to write key file: %w", err)
	}
	return &secretBox{master: master}, nil
}

// Encrypt returns ENC:base64(salt|nonce|ciphertext) for the plaintext.
func (b *secretBox) Encrypt(plaintext string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := pbkdf2.Key(b.master, salt, pbkdf2Iterations, keySize, sha256.New)
	defer zeroBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := aead.Seal(nil, nonce, []byte(plaintext), nil)

	blob := make([]byte, 0, saltSize+nonceSize+len(sealed))
	blob = append(blob, salt...)
	blob = append(blob, nonce...)
	blob = append(blob, sealed...)

	return encryptedPrefix + base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt reverses Encrypt. Tampered or foreign-key values fail with
// ErrDecryptionFailed.
func (b *secretBox) Decrypt(value string) (string, error) {
	if !strings.HasPrefix(value, encryptedPrefix) {
		return "", ErrInvalidCiphertext
	}

	blob, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, encryptedPrefix))
	if err != nil {
		return "", ErrInvalidCiphertext
	}
	if len(blob) < saltSize+nonceSize {
		return "", ErrInvalidCiphertext
	}

	salt := blob[:saltSize]
	nonce := blob[saltSize : saltSize+nonceSize]
	sealed := blob[saltSize+nonceSize:]

	key := pbkdf2.Key(b.master, salt, pbkdf2Iterations, keySize, sha256.New)
	defer zeroBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plaintext), nil
}
