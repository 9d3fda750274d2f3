package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value    string
	expireAt time.Time
}

// Memory est une implémentation locale de Cache (dev sans Redis, tests).
// L'expiration est paresseuse : une entrée périmée est supprimée au
// prochain Get.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
	}
}

func (c *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return "", false, nil
	}

	if time.Now().After(entry.expireAt) {
		c.mu.Lock()
		// re-check : un Set concurrent a pu remplacer l'entrée
		if current, ok := c.entries[key]; ok && time.Now().After(current.expireAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return "", false, nil
	}

	return entry.value, true, nil
}

func (c *Memory) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{
		value:    value,
		expireAt: time.Now().Add(ttl),
	}
	return nil
}

var _ Cache = (*Memory)(nil)
