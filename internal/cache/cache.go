// Package cache provides the query cache the aggregator owns. Keys are
// derived from (dataset, strategy, filter) so identical lookups within
// the TTL are served without a registry round-trip; there is no hidden
// cross-request state anywhere else in the pipeline.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// Cache stores raw row sets under derived keys with a TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]map[string]any, bool)
	Set(ctx context.Context, key string, rows []map[string]any)
}

// Key derives a stable cache key from the dataset, strategy, and the
// exact filter expression issued.
func Key(dataset, strategy, where string) string {
	sum := sha256.Sum256([]byte(dataset + "|" + strategy + "|" + where))
	return hex.EncodeToString(sum[:])
}

type memoryEntry struct {
	rows      []map[string]any
	expiresAt time.Time
}

// Memory is an in-process TTL cache.
type Memory struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory creates an in-memory cache with the given TTL.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// WithNow fixes the clock for testing.
func (m *Memory) WithNow(now func() time.Time) *Memory {
	m.now = now
	return m
}

// Get implements Cache.
func (m *Memory) Get(_ context.Context, key string) ([]map[string]any, bool) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok || m.now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.rows, true
}

// Set implements Cache.
func (m *Memory) Set(_ context.Context, key string, rows []map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Opportunistically drop expired entries so the map does not grow
	// without bound across long-running serve sessions.
	now := m.now()
	for k, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, k)
		}
	}
	m.entries[key] = memoryEntry{rows: rows, expiresAt: now.Add(m.ttl)}
}
