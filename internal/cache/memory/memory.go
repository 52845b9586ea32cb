// Package memory is a process-local cache.Cache used when no Redis address is
// configured.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/NewtTheWolf/sendblue/internal/cache"
)

type entry struct {
	value     string
	expiresAt time.Time
}

// Cache stores entries in a map; expired entries are dropped lazily on Get.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func New() *Cache {
	return &Cache{entries: make(map[string]entry), now: time.Now}
}

func (c *Cache) Ping(ctx context.Context) error { return ctx.Err() }

func (c *Cache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", cache.ErrMiss
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return "", cache.ErrMiss
	}
	return e.value, nil
}

func (c *Cache) Del(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

var _ cache.Cache = (*Cache)(nil)
