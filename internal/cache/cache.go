// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cache is the client-side source of truth for server-confirmed
// conversations and messages.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jeranaias/converse-tui/internal/api"
	"github.com/jeranaias/converse-tui/internal/model"
)

// FreshFor is how long a cached read stays fresh before a dependent read
// triggers a refetch. Stale entries are still served in the meantime.
const FreshFor = 60 * time.Second

// =============================================================================
// ENTRIES
// =============================================================================

// entry is one cached read result with its dependency tags.
type entry struct {
	value     any
	fetchedAt time.Time
	tags      map[Tag]bool
	stale     bool
}

// inflightCall dedups concurrent fetches of the same query key.
type inflightCall struct {
	done  chan struct{}
	value any
	err   error
}

// =============================================================================
// CACHE
// =============================================================================

// Cache wraps the API client with tag-indexed caching of reads and
// tag invalidation on mutations. Safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	client   *api.Client
	entries  map[string]*entry
	inflight map[string]*inflightCall

	// now is replaceable in tests.
	now func() time.Time
}

// New creates a cache over the given client.
func New(client *api.Client) *Cache {
	return &Cache{
		client:   client,
		entries:  make(map[string]*entry),
		inflight: make(map[string]*inflightCall),
		now:      time.Now,
	}
}

// Clear drops all cached data. Wired to session logout.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}

// Invalidate marks every entry depending on any of the tags as stale.
// The data stays available for display until the next read replaces it.
func (c *Cache) Invalidate(tags ...Tag) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		for _, tag := range tags {
			if e.tags[tag] {
				e.stale = true
				break
			}
		}
	}
}

// =============================================================================
// FETCH CORE
// =============================================================================

// fetch returns the cached value for key when fresh, otherwise fetches via
// fn with at most one request per key in flight. Concurrent callers for the
// same key share one result. On fetch failure any stale entry is preserved.
func (c *Cache) fetch(ctx context.Context, key string, tags []Tag, fn func(context.Context) (any, error)) (any, error) {
	c.mu.Lock()

	if e, ok := c.entries[key]; ok && !e.stale && c.now().Sub(e.fetchedAt) < FreshFor {
		value := e.value
		c.mu.Unlock()
		return value, nil
	}

	if call, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		select {
		case <-call.done:
			return call.value, call.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	call := &inflightCall{done: make(chan struct{})}
	c.inflight[key] = call
	c.mu.Unlock()

	value, err := fn(ctx)

	c.mu.Lock()
	delete(c.inflight, key)
	if err == nil {
		tagSet := make(map[Tag]bool, len(tags))
		for _, t := range tags {
			tagSet[t] = true
		}
		c.entries[key] = &entry{value: value, fetchedAt: c.now(), tags: tagSet}
	}
	c.mu.Unlock()

	call.value = value
	call.err = err
	close(call.done)

	return value, err
}

// peek returns the last-known value for key, fresh or stale.
func (c *Cache) peek(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		return e.value, true
	}
	return nil, false
}

func listKey(page, limit int) string {
	return fmt.Sprintf("conversations:p%d:l%d", page, limit)
}

func messagesKey(id string, page, limit int) string {
	return fmt.Sprintf("messages:%s:p%d:l%d", id, page, limit)
}

// =============================================================================
// READS
// =============================================================================

// ListConversations returns one page of the conversation list, cached.
// The result depends on the collection tag plus each conversation's own tag.
func (c *Cache) ListConversations(ctx context.Context, page, limit int) (model.Page[model.Conversation], error) {
	value, err := c.fetch(ctx, listKey(page, limit), []Tag{TagList()}, func(ctx context.Context) (any, error) {
		result, err := c.client.ListConversations(ctx, page, limit)
		if err != nil {
			return nil, err
		}
		return result, nil
	})
	if err != nil {
		return model.Page[model.Conversation]{}, err
	}

	result := value.(model.Page[model.Conversation])

	// The entry is stored under the collection tag so it is invalidatable
	// from the moment it exists; the per-conversation tags depend on the
	// fetched ids and are merged in afterwards.
	c.addTags(listKey(page, limit), itemTags(result.Items))
	return result, nil
}

// PeekConversations returns the last-known list page, stale or fresh, for
// stale-while-revalidate display.
func (c *Cache) PeekConversations(page, limit int) (model.Page[model.Conversation], bool) {
	if value, ok := c.peek(listKey(page, limit)); ok {
		return value.(model.Page[model.Conversation]), true
	}
	return model.Page[model.Conversation]{}, false
}

// GetMessages returns one page of a conversation's messages, cached.
// An empty conversation id short-circuits to an empty page with no request.
func (c *Cache) GetMessages(ctx context.Context, conversationID string, page, limit int) (model.Page[model.Message], error) {
	if conversationID == "" {
		return model.Page[model.Message]{}, nil
	}

	key := messagesKey(conversationID, page, limit)
	tags := []Tag{TagMessages(conversationID), TagConversation(conversationID)}
	value, err := c.fetch(ctx, key, tags, func(ctx context.Context) (any, error) {
		result, err := c.client.GetMessages(ctx, conversationID, page, limit)
		if err != nil {
			return nil, err
		}
		return result, nil
	})
	if err != nil {
		return model.Page[model.Message]{}, err
	}
	return value.(model.Page[model.Message]), nil
}

// PeekMessages returns the last-known message page for a conversation.
func (c *Cache) PeekMessages(conversationID string, page, limit int) (model.Page[model.Message], bool) {
	if conversationID == "" {
		return model.Page[model.Message]{}, false
	}
	if value, ok := c.peek(messagesKey(conversationID, page, limit)); ok {
		return value.(model.Page[model.Message]), true
	}
	return model.Page[model.Message]{}, false
}

// Me returns the account profile, cached under the user tag.
func (c *Cache) Me(ctx context.Context) (model.User, error) {
	value, err := c.fetch(ctx, "user", []Tag{TagUser()}, func(ctx context.Context) (any, error) {
		user, err := c.client.Me(ctx)
		if err != nil {
			return nil, err
		}
		return user, nil
	})
	if err != nil {
		return model.User{}, err
	}
	return value.(model.User), nil
}

// itemTags builds the per-conversation tags for the conversations on a
// list page.
func itemTags(items []model.Conversation) []Tag {
	tags := make([]Tag, 0, len(items))
	for _, conv := range items {
		tags = append(tags, TagConversation(conv.ID))
	}
	return tags
}

// addTags merges tags into the tag set of an existing entry.
func (c *Cache) addTags(key string, tags []Tag) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		for _, t := range tags {
			e.tags[t] = true
		}
	}
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Mutations never write cached data directly; they invalidate tags and let
// the next dependent read refetch.

// CreateConversation creates a conversation and invalidates the list.
func (c *Cache) CreateConversation(ctx context.Context, title string) (model.Conversation, error) {
	conv, err := c.client.CreateConversation(ctx, title)
	if err != nil {
		return model.Conversation{}, err
	}
	c.Invalidate(TagList())
	return conv, nil
}

// UpdateConversation renames a conversation and invalidates both its own
// tag and the list.
func (c *Cache) UpdateConversation(ctx context.Context, id, title string) (model.Conversation, error) {
	conv, err := c.client.UpdateConversation(ctx, id, title)
	if err != nil {
		return model.Conversation{}, err
	}
	c.Invalidate(TagConversation(id), TagList())
	return conv, nil
}

// DeleteConversation deletes a conversation and invalidates the list.
// Clearing the active pointer is the caller's responsibility.
func (c *Cache) DeleteConversation(ctx context.Context, id string) error {
	if err := c.client.DeleteConversation(ctx, id); err != nil {
		return err
	}
	c.Invalidate(TagList())
	return nil
}

// ClearMessages empties a conversation and invalidates its message pages.
func (c *Cache) ClearMessages(ctx context.Context, id string) error {
	if err := c.client.ClearMessages(ctx, id); err != nil {
		return err
	}
	c.Invalidate(TagMessages(id), TagConversation(id), TagList())
	return nil
}

// SendMessage sends a user message and invalidates by the conversation id
// the backend returns, which may differ from the input when a conversation
// was created implicitly. This is what refreshes the view after a send.
func (c *Cache) SendMessage(ctx context.Context, content, conversationID string) (api.SendResult, error) {
	result, err := c.client.SendMessage(ctx, content, conversationID)
	if err != nil {
		return api.SendResult{}, err
	}

	returnedID := result.ConversationID
	c.Invalidate(TagList(), TagConversation(returnedID), TagMessages(returnedID))
	return result, nil
}
