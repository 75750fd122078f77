// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package registry mirrors the backend's indexed-file listing.
package registry

import (
	"context"
	"sync"

	"github.com/jeranaias/docchat-tui/internal/api"
)

// =============================================================================
// CACHE
// =============================================================================

// Cache holds the last successfully fetched file listing. Refresh replaces
// the listing wholesale; a failed refresh leaves the previous listing in
// place, so readers always see the most recent good data.
//
// The Cache is thread-safe.
type Cache struct {
	client *api.Client

	mu        sync.RWMutex
	files     []api.FileRecord
	fetched   bool
	observers []func()
}

// NewCache creates an empty cache backed by the given client.
func NewCache(client *api.Client) *Cache {
	return &Cache{client: client}
}

// Subscribe registers an observer called after every successful refresh.
func (c *Cache) Subscribe(fn func()) {
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

// Refresh fetches the listing from the backend. On success the cached
// listing is replaced and observers are notified; on failure the cache is
// untouched and the error is returned.
func (c *Cache) Refresh(ctx context.Context) error {
	files, err := c.client.ListFiles(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.files = files
	c.fetched = true
	observers := c.observers
	c.mu.Unlock()

	for _, fn := range observers {
		fn()
	}
	return nil
}

// Files returns a snapshot copy of the cached listing.
func (c *Cache) Files() []api.FileRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]api.FileRecord, len(c.files))
	copy(out, c.files)
	return out
}

// Fetched reports whether at least one refresh has succeeded.
func (c *Cache) Fetched() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetched
}

// Count returns the number of cached records.
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.files)
}
