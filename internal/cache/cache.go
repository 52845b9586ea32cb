// Package cache defines the small key/value contract used to memoise
// evaluate-service answers.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Cache is a minimal key/value cache (Redis or in-process).
type Cache interface {
	// Ping checks if the cache is reachable.
	Ping(ctx context.Context) error

	// Set stores a value with the given TTL. A TTL <= 0 never expires.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Get retrieves a value by key, returning ErrMiss when absent.
	Get(ctx context.Context, key string) (string, error)

	// Del removes a key. No-op if the key does not exist.
	Del(ctx context.Context, key string) error
}

// Prefix namespaces keys so several kinds of entries can share one store.
type Prefix string

// Evaluations holds evaluate-service answers keyed by E.164 number.
const Evaluations Prefix = "sendblue:evaluate"

// Key joins the prefix and id, e.g. "sendblue:evaluate:+14155552671".
func (p Prefix) Key(id string) string {
	return string(p) + ":" + id
}
