// Package service provides the courier lookup collaborators: the response
// cache, the credential rotator and the upstream aggregation client.
package service

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"
)

// cacheEntry holds one cached raw upstream payload with its expiry.
type cacheEntry struct {
	payload   []byte
	expiresAt time.Time
}

// ResponseCache is an in-process TTL cache for raw upstream response bodies.
// Entries expire lazily on read and are swept by a janitor goroutine. The
// cached bytes are stored and returned verbatim; any decoration happens at
// the transport boundary, never here.
type ResponseCache struct {
	mu       sync.RWMutex
	entries  map[string]cacheEntry
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewResponseCache creates a cache and starts its janitor.
func NewResponseCache() *ResponseCache {
	cache := &ResponseCache{
		entries:  make(map[string]cacheEntry),
		stopChan: make(chan struct{}),
	}

	go cache.cleanup()

	return cache
}

// Get returns the cached payload for key, or false when absent or expired.
func (c *ResponseCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}

	return entry.payload, true
}

// Put stores payload under key for the given TTL. A non-positive TTL stores
// nothing.
func (c *ResponseCache) Put(key string, payload []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		payload:   payload,
		expiresAt: time.Now().Add(ttl),
	}
}

// Stop terminates the janitor goroutine. Safe to call more than once.
func (c *ResponseCache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopChan)
	})
}

// cleanup sweeps expired entries periodically so payloads for queries that
// never recur do not accumulate.
func (c *ResponseCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stopChan:
			return
		}
	}
}

func (c *ResponseCache) removeExpired() {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// CacheKey derives the deterministic cache key for a search term: sha256 of
// the trimmed, lowercased term. Identical queries within the TTL window hash
// to the same key.
func CacheKey(searchTerm string) string {
	normalized := strings.ToLower(strings.TrimSpace(searchTerm))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
