// Package memcache is an in-process domain.Cache used when no Redis is configured.
package memcache

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"reviewwise/internal/adapters/observability"
)

// Cache stores JSON-encoded values so callers never share memory with the cache.
type Cache struct {
	cache *gocache.Cache
}

func New(defaultTTL, cleanupInterval time.Duration) *Cache {
	return &Cache{cache: gocache.New(defaultTTL, cleanupInterval)}
}

func (c *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, found := c.cache.Get(key)
	if !found {
		observability.ObserveCache("memory", "miss")
		return false, nil
	}
	observability.ObserveCache("memory", "hit")
	return true, json.Unmarshal(v.([]byte), dst)
}

// Set stores v; ttlSec <= 0 uses the cache default.
func (c *Cache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ttl := gocache.DefaultExpiration
	if ttlSec > 0 {
		ttl = time.Duration(ttlSec) * time.Second
	}
	observability.ObserveCache("memory", "set")
	c.cache.Set(key, b, ttl)
	return nil
}

func (c *Cache) Del(ctx context.Context, key string) error {
	observability.ObserveCache("memory", "del")
	c.cache.Delete(key)
	return nil
}
