// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/converse-tui/internal/api"
	"github.com/jeranaias/converse-tui/internal/model"
)

// =============================================================================
// TEST BACKEND
// =============================================================================

// testBackend counts requests per path so tests can assert on cache hits.
type testBackend struct {
	mu       sync.Mutex
	counts   map[string]int
	handlers map[string]string
}

func newTestBackend() *testBackend {
	return &testBackend{
		counts: make(map[string]int),
		handlers: map[string]string{
			"GET /conversations": `{"success":true,"data":{
				"conversations":[{"_id":"c1","title":"First"},{"_id":"c2","title":"Second"}],
				"pagination":{"page":1,"limit":20,"total":2}}}`,
			"GET /conversations/c1/messages": `{"success":true,"data":{
				"messages":[{"_id":"m1","role":"user","content":"Hello"}],
				"pagination":{"page":1,"limit":50,"total":1}}}`,
			"GET /auth/me": `{"success":true,"data":{"user":{"_id":"u1","name":"Ada"}}}`,
			"PUT /conversations/c1": `{"success":true,"data":{
				"conversation":{"_id":"c1","title":"Renamed"}}}`,
			"POST /conversations": `{"success":true,"data":{
				"conversation":{"_id":"c3","title":"New"}}}`,
			"DELETE /conversations/c1":          `{"success":true}`,
			"DELETE /conversations/c1/messages": `{"success":true}`,
			"POST /chat/send": `{"success":true,"data":{
				"conversation":"c9",
				"messages":[
					{"_id":"m1","role":"user","content":"Hello"},
					{"_id":"m2","role":"assistant","content":"Hi!"}]}}`,
		},
	}
}

func (b *testBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path

	b.mu.Lock()
	b.counts[key]++
	body, ok := b.handlers[key]
	b.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(body))
}

func (b *testBackend) count(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts[key]
}

func newTestCache(t *testing.T) (*Cache, *testBackend) {
	t.Helper()
	backend := newTestBackend()
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	client := api.NewClient(server.URL).WithHTTPClient(server.Client())
	return New(client), backend
}

// =============================================================================
// FRESHNESS TESTS
// =============================================================================

func TestCache_FreshReadsHitCache(t *testing.T) {
	c, backend := newTestCache(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		page, err := c.ListConversations(ctx, 1, 20)
		require.NoError(t, err)
		assert.Len(t, page.Items, 2)
	}

	assert.Equal(t, 1, backend.count("GET /conversations"),
		"repeat reads within the fresh window must not refetch")
}

func TestCache_StaleAfterFreshWindow(t *testing.T) {
	c, backend := newTestCache(t)
	ctx := context.Background()

	current := time.Now()
	c.now = func() time.Time { return current }

	_, err := c.ListConversations(ctx, 1, 20)
	require.NoError(t, err)

	// Just inside the window: cached.
	current = current.Add(FreshFor - time.Second)
	_, err = c.ListConversations(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.count("GET /conversations"))

	// Past the window: refetch.
	current = current.Add(2 * time.Second)
	_, err = c.ListConversations(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.count("GET /conversations"))
}

func TestCache_PeekServesStaleData(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	_, err := c.ListConversations(ctx, 1, 20)
	require.NoError(t, err)

	c.Invalidate(TagList())

	page, ok := c.PeekConversations(1, 20)
	assert.True(t, ok, "stale data stays available for display")
	assert.Len(t, page.Items, 2)
}

// =============================================================================
// INVALIDATION TESTS
// =============================================================================

func TestCache_CreateInvalidatesList(t *testing.T) {
	c, backend := newTestCache(t)
	ctx := context.Background()

	_, err := c.ListConversations(ctx, 1, 20)
	require.NoError(t, err)

	_, err = c.CreateConversation(ctx, "New")
	require.NoError(t, err)

	_, err = c.ListConversations(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.count("GET /conversations"))
}

// The list entry must carry the collection tag the moment fetch stores it.
// An invalidation that lands before the per-conversation tags are merged in
// still has to mark the entry stale, so the interleaving is replayed here
// step by step.
func TestCache_ListTaggedBeforeItemTagsMerge(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	fetches := 0
	fn := func(context.Context) (any, error) {
		fetches++
		return model.Page[model.Conversation]{}, nil
	}

	_, err := c.fetch(ctx, listKey(1, 20), []Tag{TagList()}, fn)
	require.NoError(t, err)

	c.Invalidate(TagList())
	c.addTags(listKey(1, 20), itemTags(nil))

	_, err = c.fetch(ctx, listKey(1, 20), []Tag{TagList()}, fn)
	require.NoError(t, err)
	assert.Equal(t, 2, fetches,
		"an invalidation before the tag merge must force a refetch")
}

func TestCache_UpdateInvalidatesConversationAndList(t *testing.T) {
	c, backend := newTestCache(t)
	ctx := context.Background()

	_, err := c.ListConversations(ctx, 1, 20)
	require.NoError(t, err)
	_, err = c.GetMessages(ctx, "c1", 1, 50)
	require.NoError(t, err)

	_, err = c.UpdateConversation(ctx, "c1", "Renamed")
	require.NoError(t, err)

	// Both the list (contains c1) and c1's messages are stale now.
	_, err = c.ListConversations(ctx, 1, 20)
	require.NoError(t, err)
	_, err = c.GetMessages(ctx, "c1", 1, 50)
	require.NoError(t, err)

	assert.Equal(t, 2, backend.count("GET /conversations"))
	assert.Equal(t, 2, backend.count("GET /conversations/c1/messages"))
}

func TestCache_DeleteInvalidatesList(t *testing.T) {
	c, backend := newTestCache(t)
	ctx := context.Background()

	_, err := c.ListConversations(ctx, 1, 20)
	require.NoError(t, err)

	require.NoError(t, c.DeleteConversation(ctx, "c1"))

	_, err = c.ListConversations(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.count("GET /conversations"))
}

func TestCache_SendInvalidatesByReturnedID(t *testing.T) {
	c, backend := newTestCache(t)
	ctx := context.Background()

	// No active conversation: the backend creates c9 implicitly.
	result, err := c.SendMessage(ctx, "Hello", "")
	require.NoError(t, err)
	assert.Equal(t, "c9", result.ConversationID)

	// Prime c9's message cache, send again, and verify it refetches:
	// invalidation is keyed by the returned id, not the input id.
	backend.mu.Lock()
	backend.handlers["GET /conversations/c9/messages"] = `{"success":true,"data":{
		"messages":[{"_id":"m1","role":"user","content":"Hello"}],
		"pagination":{"page":1,"limit":50,"total":1}}}`
	backend.mu.Unlock()

	_, err = c.GetMessages(ctx, "c9", 1, 50)
	require.NoError(t, err)

	_, err = c.SendMessage(ctx, "Again", "")
	require.NoError(t, err)

	_, err = c.GetMessages(ctx, "c9", 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.count("GET /conversations/c9/messages"))
}

func TestCache_ClearMessagesInvalidates(t *testing.T) {
	c, backend := newTestCache(t)
	ctx := context.Background()

	_, err := c.GetMessages(ctx, "c1", 1, 50)
	require.NoError(t, err)

	require.NoError(t, c.ClearMessages(ctx, "c1"))

	_, err = c.GetMessages(ctx, "c1", 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.count("GET /conversations/c1/messages"))
}

// =============================================================================
// SKIP / DEDUP / CLEAR TESTS
// =============================================================================

func TestCache_GetMessagesEmptyIDSkipsRequest(t *testing.T) {
	c, backend := newTestCache(t)

	page, err := c.GetMessages(context.Background(), "", 1, 50)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, backend.count("GET /conversations//messages"))

	_, ok := c.PeekMessages("", 1, 50)
	assert.False(t, ok)
}

func TestCache_ConcurrentReadsShareOneRequest(t *testing.T) {
	backend := newTestBackend()
	var inFlight atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inFlight.Add(1)
		time.Sleep(50 * time.Millisecond)
		backend.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)

	c := New(api.NewClient(server.URL).WithHTTPClient(server.Client()))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			page, err := c.ListConversations(context.Background(), 1, 20)
			if err == nil && len(page.Items) != 2 {
				t.Error("unexpected page size")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, backend.count("GET /conversations"),
		"concurrent callers for one query key must share a single request")
	assert.Equal(t, int32(1), inFlight.Load())
}

func TestCache_Clear(t *testing.T) {
	c, backend := newTestCache(t)
	ctx := context.Background()

	_, err := c.ListConversations(ctx, 1, 20)
	require.NoError(t, err)
	_, err = c.Me(ctx)
	require.NoError(t, err)

	c.Clear()

	_, ok := c.PeekConversations(1, 20)
	assert.False(t, ok, "Clear must drop everything")

	_, err = c.ListConversations(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.count("GET /conversations"))
}

func TestCache_FailedFetchKeepsStaleEntry(t *testing.T) {
	backend := newTestBackend()
	var fail atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"success":false,"message":"down"}`))
			return
		}
		backend.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)

	c := New(api.NewClient(server.URL).WithHTTPClient(server.Client()))
	ctx := context.Background()

	_, err := c.ListConversations(ctx, 1, 20)
	require.NoError(t, err)

	c.Invalidate(TagList())
	fail.Store(true)

	_, err = c.ListConversations(ctx, 1, 20)
	assert.ErrorIs(t, err, api.ErrServerError)

	// Last-known data survives the failed refetch.
	page, ok := c.PeekConversations(1, 20)
	assert.True(t, ok)
	assert.Len(t, page.Items, 2)
}
