package decision

import (
	"context"
	"sync"
	"time"

	"steamgate/pkg/platform/sentinel"
)

type entry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// InMemory is a process-local decision cache. Used by unit tests and by
// deployments that run without Redis; entries expire lazily on read.
type InMemory struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewInMemory constructs an empty in-memory cache.
func NewInMemory() *InMemory {
	return &InMemory{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the value at key, or sentinel.ErrNotFound when absent or
// expired.
func (m *InMemory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return "", sentinel.ErrNotFound
	}
	if !e.expiresAt.IsZero() && m.now().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return "", sentinel.ErrNotFound
	}
	return e.value, nil
}

// Set stores value at key. A zero ttl stores without expiry.
func (m *InMemory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
	return nil
}
