package redisad

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"reviewwise/internal/adapters/observability"
)

const (
	name      = "redis"
	keyPrefix = "reviewwise:"
)

// Cache stores JSON values under a shared key prefix so the API and the
// ingestor agree on what to evict.
type Cache struct{ c *redis.Client }

func New(addr, pass string, db int) *Cache {
	return &Cache{c: redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     pass,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})}
}

func (r *Cache) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

// Get reports a miss for absent keys and for payloads that no longer decode;
// the latter are evicted.
func (r *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, err := r.c.Get(ctx, keyPrefix+key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		observability.ObserveCache(name, "miss")
		return false, nil
	case err != nil:
		return false, err
	}
	if err := json.Unmarshal(v, dst); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("dropping undecodable cache entry")
		observability.ObserveCache(name, "miss")
		_ = r.c.Del(ctx, keyPrefix+key).Err()
		return false, nil
	}
	observability.ObserveCache(name, "hit")
	return true, nil
}

func (r *Cache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	observability.ObserveCache(name, "set")
	return r.c.Set(ctx, keyPrefix+key, b, time.Duration(ttlSec)*time.Second).Err()
}

func (r *Cache) Del(ctx context.Context, key string) error {
	observability.ObserveCache(name, "del")
	return r.c.Del(ctx, keyPrefix+key).Err()
}

func (r *Cache) Close() error { return r.c.Close() }
