package session

import (
	"context"
	"sync"
)

// Cache is a single-slot, request-scoped session cache. It avoids a second
// store round-trip when one request looks up the same session repeatedly.
// It is carried in the request context and never shared across requests.
//
// All methods are safe on a nil *Cache and do nothing.
type Cache struct {
	mu      sync.Mutex
	current *Session
}

// Get returns the cached session, if any
func (c *Cache) Get() (*Session, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.current != nil
}

// Set caches s, replacing whatever occupied the slot
func (c *Cache) Set(s *Session) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.current = s
	c.mu.Unlock()
}

// Clear empties the slot
func (c *Cache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()
}

type cacheContextKey struct{}

// WithCache returns a context carrying a fresh, empty cache
func WithCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, cacheContextKey{}, &Cache{})
}

// CacheFromContext retrieves the request cache from the context
func CacheFromContext(ctx context.Context) (*Cache, bool) {
	c, ok := ctx.Value(cacheContextKey{}).(*Cache)
	return c, ok
}

func cacheFrom(ctx context.Context) *Cache {
	c, _ := CacheFromContext(ctx)
	return c
}
