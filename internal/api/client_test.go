// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/converse-tui/internal/model"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(server.URL).WithHTTPClient(server.Client())
	return client, server
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

// =============================================================================
// HEADER / AUTH GATEWAY TESTS
// =============================================================================

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"user":{"_id":"u1"}}}`)
	}))
	client.WithTokenSource(func() string { return "tok-123" })

	_, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"user":{}}}`)
	}))
	client.WithTokenSource(func() string { return "" })

	_, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_UnauthorizedFiresHookFromAnyEndpoint(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"success":false,"message":"Not authorized"}`)
	}))

	var hookCalls atomic.Int32
	client.OnUnauthorized(func() { hookCalls.Add(1) })

	// Hit several unrelated endpoints; each 401 must fire the hook.
	_, err := client.ListConversations(context.Background(), 1, 20)
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = client.DeleteConversation(context.Background(), "c9")
	assert.ErrorIs(t, err, ErrUnauthorized)

	assert.Equal(t, int32(2), hookCalls.Load())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Not authorized", apiErr.Message)
}

// =============================================================================
// ERROR MAPPING TESTS
// =============================================================================

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ErrForbidden},
		{"not found", http.StatusNotFound, ErrNotFound},
		{"bad request", http.StatusBadRequest, ErrInvalidInput},
		{"unprocessable", http.StatusUnprocessableEntity, ErrInvalidInput},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"server error", http.StatusInternalServerError, ErrServerError},
		{"bad gateway", http.StatusBadGateway, ErrServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tc.status, `{"success":false,"message":"boom"}`)
			}))

			_, err := client.GetConversation(context.Background(), "c1")
			assert.ErrorIs(t, err, tc.sentinel)
		})
	}
}

func TestAPIError_UserMessage(t *testing.T) {
	withMsg := &APIError{Status: 400, Message: "Title is required"}
	assert.Equal(t, "Title is required", withMsg.UserMessage())

	blank := &APIError{Status: 500}
	assert.Contains(t, blank.UserMessage(), "try again")
}

// =============================================================================
// AUTH ENDPOINT TESTS
// =============================================================================

func TestClient_Login(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, jsonDecode(r, &body))
		assert.Equal(t, "a@x.com", body["email"])
		assert.Equal(t, "secret", body["password"])

		writeJSON(w, http.StatusOK, `{"success":true,"data":{
			"user":{"_id":"u1","name":"Ada","email":"a@x.com"},
			"token":"jwt-abc"}}`)
	}))

	sess, err := client.Login(context.Background(), "a@x.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", sess.Token)
	assert.Equal(t, "Ada", sess.User.Name)
}

func TestClient_RegisterMultipart(t *testing.T) {
	avatarPath := filepath.Join(t.TempDir(), "avatar.png")
	png := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 13, 'I', 'H', 'D', 'R'}
	require.NoError(t, os.WriteFile(avatarPath, png, 0644))

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(10<<20))
		assert.Equal(t, "Ada", r.FormValue("name"))
		assert.Equal(t, "a@x.com", r.FormValue("email"))
		assert.Equal(t, "secret", r.FormValue("password"))

		file, header, err := r.FormFile("avatar")
		require.NoError(t, err)
		file.Close()
		assert.Equal(t, "avatar.png", header.Filename)
		assert.Equal(t, "image/png", header.Header.Get("Content-Type"))

		writeJSON(w, http.StatusCreated, `{"success":true,"data":{
			"user":{"_id":"u1","name":"Ada"},"token":"jwt-new"}}`)
	}))

	sess, err := client.Register(context.Background(), RegisterRequest{
		Name: "Ada", Email: "a@x.com", Password: "secret", AvatarPath: avatarPath,
	})
	require.NoError(t, err)
	assert.Equal(t, "jwt-new", sess.Token)
}

func TestClient_AvatarRejectedWithZeroRequests(t *testing.T) {
	badPath := filepath.Join(t.TempDir(), "doc.png")
	require.NoError(t, os.WriteFile(badPath, []byte("%PDF-1.4 not an image"), 0644))

	var requests atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		writeJSON(w, http.StatusOK, `{"success":true,"data":{}}`)
	}))

	_, err := client.UpdateAvatar(context.Background(), badPath)
	assert.ErrorIs(t, err, model.ErrAvatarUnsupported)

	_, err = client.Register(context.Background(), RegisterRequest{
		Name: "Ada", Email: "a@x.com", Password: "secret", AvatarPath: badPath,
	})
	assert.ErrorIs(t, err, model.ErrAvatarUnsupported)

	assert.Equal(t, int32(0), requests.Load(), "constraint violations must issue no network calls")
}

func TestClient_ChangePassword(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/auth/password", r.URL.Path)

		var body map[string]string
		require.NoError(t, jsonDecode(r, &body))
		assert.Equal(t, "oldpass", body["currentPassword"])
		assert.Equal(t, "newpass", body["newPassword"])

		writeJSON(w, http.StatusOK, `{"success":true,"message":"Password updated"}`)
	}))

	err := client.ChangePassword(context.Background(), "oldpass", "newpass")
	assert.NoError(t, err)
}

// =============================================================================
// CONVERSATION ENDPOINT TESTS
// =============================================================================

func TestClient_ListConversations(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/conversations", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))

		writeJSON(w, http.StatusOK, `{"success":true,"data":{
			"conversations":[{"_id":"c1","title":"First"},{"_id":"c2","title":"Second"}],
			"pagination":{"page":2,"limit":10,"total":25}}}`)
	}))

	page, err := client.ListConversations(context.Background(), 2, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "c1", page.Items[0].ID)
	assert.Equal(t, 25, page.Total)
	assert.True(t, page.HasMore())
}

func TestClient_GetMessages(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/conversations/c1/messages", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"success":true,"data":{
			"messages":[
				{"_id":"m1","role":"user","content":"Hello"},
				{"_id":"m2","role":"assistant","content":"Hi there"}],
			"pagination":{"page":1,"limit":50,"total":2}}}`)
	}))

	page, err := client.GetMessages(context.Background(), "c1", 1, 50)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, model.RoleAssistant, page.Items[1].Role)
}

func TestClient_UpdateConversation(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/conversations/c1", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"success":true,"data":{
			"conversation":{"_id":"c1","title":"Renamed"}}}`)
	}))

	conv, err := client.UpdateConversation(context.Background(), "c1", "Renamed")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", conv.Title)
}

func TestClient_ClearMessages(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		writeJSON(w, http.StatusOK, `{"success":true}`)
	}))

	require.NoError(t, client.ClearMessages(context.Background(), "c1"))
	assert.Equal(t, "DELETE /conversations/c1/messages", gotPath)
}

// =============================================================================
// CHAT ENDPOINT TESTS
// =============================================================================

func TestClient_SendMessage_ImplicitConversation(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/send", r.URL.Path)

		var body map[string]any
		require.NoError(t, jsonDecode(r, &body))
		assert.Equal(t, "Hello", body["message"])
		assert.Nil(t, body["conversationId"], "no active conversation sends null")

		// The backend returns the conversation as a bare id string.
		writeJSON(w, http.StatusOK, `{"success":true,"data":{
			"conversation":"c1",
			"messages":[
				{"_id":"m1","role":"user","content":"Hello"},
				{"_id":"m2","role":"assistant","content":"Hi!"}]}}`)
	}))

	result, err := client.SendMessage(context.Background(), "Hello", "")
	require.NoError(t, err)
	assert.Equal(t, "c1", result.ConversationID, "returned conversation id is authoritative")
	require.Len(t, result.Messages, 2)
	assert.Equal(t, model.RoleUser, result.Messages[0].Role)
	assert.Equal(t, model.RoleAssistant, result.Messages[1].Role)
}

func TestClient_SendMessage_ExistingConversation(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, jsonDecode(r, &body))
		assert.Equal(t, "c7", body["conversationId"])
		writeJSON(w, http.StatusOK, `{"success":true,"data":{
			"conversation":"c7","messages":[]}}`)
	}))

	result, err := client.SendMessage(context.Background(), "More", "c7")
	require.NoError(t, err)
	assert.Equal(t, "c7", result.ConversationID)
}

func TestClient_SendMessage_ConversationObjectAccepted(t *testing.T) {
	// Older payloads carried the full conversation document; the id is
	// pulled from `_id`.
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":{
			"conversation":{"_id":"c7","title":"Hello"},"messages":[]}}`)
	}))

	result, err := client.SendMessage(context.Background(), "More", "c7")
	require.NoError(t, err)
	assert.Equal(t, "c7", result.ConversationID)
}

func TestClient_QuickChat(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/quick", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"response":"42"}}`)
	}))

	reply, err := client.QuickChat(context.Background(), "meaning of life?")
	require.NoError(t, err)
	assert.Equal(t, "42", reply)
}

func TestClient_ContextCancellation(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Me(ctx)
	assert.Error(t, err)
}

// jsonDecode decodes a request body into v.
func jsonDecode(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
