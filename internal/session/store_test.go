// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/converse-tui/internal/model"
)

// =============================================================================
// STORE TESTS
// =============================================================================

func openTestStore(t *testing.T, dir string) *Store {
	t.Helper()
	store, err := Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_StartsLoggedOut(t *testing.T) {
	store := openTestStore(t, t.TempDir())

	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, store.Token())
	assert.Empty(t, store.User().ID)
}

func TestStore_SetCredentials(t *testing.T) {
	store := openTestStore(t, t.TempDir())

	user := model.User{ID: "u1", Name: "Ada", Email: "a@x.com"}
	require.NoError(t, store.SetCredentials(user, "jwt-abc"))

	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, "jwt-abc", store.Token())
	assert.Equal(t, "Ada", store.User().Name)
}

func TestStore_HydratesAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	first := openTestStore(t, dir)
	user := model.User{ID: "u1", Name: "Ada", Email: "a@x.com"}
	require.NoError(t, first.SetCredentials(user, "jwt-abc"))
	require.NoError(t, first.Close())

	second := openTestStore(t, dir)
	assert.True(t, second.IsAuthenticated(), "reopen should restore authentication")
	assert.Equal(t, "jwt-abc", second.Token())
	assert.Equal(t, "a@x.com", second.User().Email)
}

func TestStore_TokenNotStoredInPlaintext(t *testing.T) {
	dir := t.TempDir()
	store := openTestStore(t, dir)
	require.NoError(t, store.SetCredentials(model.User{ID: "u1"}, "super-secret-token"))
	require.NoError(t, store.Close())

	raw, err := os.ReadFile(filepath.Join(dir, dbFileName))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "super-secret-token")
}

func TestStore_Logout(t *testing.T) {
	dir := t.TempDir()
	store := openTestStore(t, dir)
	require.NoError(t, store.SetCredentials(model.User{ID: "u1"}, "jwt-abc"))

	var callbackCount int
	store.OnLogout(func() { callbackCount++ })

	require.NoError(t, store.Logout())
	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, store.Token())
	assert.Empty(t, store.User().ID)
	assert.Equal(t, 1, callbackCount)

	// Idempotent: a second logout changes nothing and fires no callbacks.
	require.NoError(t, store.Logout())
	assert.Equal(t, 1, callbackCount)

	// Durable state is gone too.
	require.NoError(t, store.Close())
	reopened := openTestStore(t, dir)
	assert.False(t, reopened.IsAuthenticated())
}

func TestStore_UpdateUser_ShallowMerge(t *testing.T) {
	dir := t.TempDir()
	store := openTestStore(t, dir)
	require.NoError(t, store.SetCredentials(
		model.User{ID: "u1", Name: "Ada", Email: "a@x.com", Avatar: "old.png"}, "jwt"))

	require.NoError(t, store.UpdateUser(model.User{Name: "Alicia"}))

	got := store.User()
	assert.Equal(t, "Alicia", got.Name)
	assert.Equal(t, "a@x.com", got.Email, "unset fields must survive the merge")
	assert.Equal(t, "old.png", got.Avatar)
	assert.Equal(t, "jwt", store.Token(), "token untouched by profile updates")

	// Merge result is persisted.
	require.NoError(t, store.Close())
	reopened := openTestStore(t, dir)
	assert.Equal(t, "Alicia", reopened.User().Name)
}

func TestStore_CorruptTokenDegradesToLoggedOut(t *testing.T) {
	dir := t.TempDir()
	store := openTestStore(t, dir)
	require.NoError(t, store.SetCredentials(model.User{ID: "u1"}, "jwt-abc"))

	// Overwrite the stored token with garbage.
	_, err := store.db.Exec(`UPDATE kv SET value = ? WHERE key = ?`, []byte("garbage"), keyToken)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened := openTestStore(t, dir)
	assert.False(t, reopened.IsAuthenticated(), "corrupt rows must not be fatal")
}

func TestStore_DBFilePermissions(t *testing.T) {
	dir := t.TempDir()
	store := openTestStore(t, dir)
	require.NoError(t, store.SetCredentials(model.User{ID: "u1"}, "jwt"))

	info, err := os.Stat(filepath.Join(dir, dbFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	keyInfo, err := os.Stat(filepath.Join(dir, keyFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), keyInfo.Mode().Perm())
}

// =============================================================================
// CRYPTO TESTS
// =============================================================================

func TestSecretBox_RoundTrip(t *testing.T) {
	box, err := loadOrCreateSecretBox(filepath.Join(t.TempDir(), "k"))
	require.NoError(t, err)

	sealed, err := box.Encrypt("the-token")
	require.NoError(t, err)
	assert.True(t, len(sealed) > len(encryptedPrefix))
	assert.NotContains(t, sealed, "the-token")

	plain, err := box.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, "the-token", plain)
}

func TestSecretBox_KeyFileReuse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "k")

	first, err := loadOrCreateSecretBox(path)
	require.NoError(t, err)
	sealed, err := first.Encrypt("tok")
	require.NoError(t, err)

	// A box loaded from the same file decrypts values from the first.
	second, err := loadOrCreateSecretBox(path)
	require.NoError(t, err)
	plain, err := second.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, "tok", plain)
}

func TestSecretBox_WrongKeyFails(t *testing.T) {
	dir := t.TempDir()
	a, err := loadOrCreateSecretBox(filepath.Join(dir, "ka"))
	require.NoError(t, err)
	b, err := loadOrCreateSecretBox(filepath.Join(dir, "kb"))
	require.NoError(t, err)

	sealed, err := a.Encrypt("tok")
	require.NoError(t, err)

	_, err = b.Decrypt(sealed)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestSecretBox_MalformedValues(t *testing.T) {
	box, err := loadOrCreateSecretBox(filepath.Join(t.TempDir(), "k"))
	require.NoError(t, err)

	for _, v := range []string{"", "plaintext", "ENC:!!!not-base64", "ENC:c2hvcnQ="} {
		_, err := box.Decrypt(v)
		assert.ErrorIs(t, err, ErrInvalidCiphertext, "value %q", v)
	}
}
