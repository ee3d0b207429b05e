package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

// WishCache memoizes generated wishes for a bounded time.
type WishCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, wish string, ttl time.Duration) error
}

type redisWishCache struct {
	redis *RedisDB
}

func NewRedisWishCache(redis *RedisDB) WishCache {
	return &redisWishCache{redis: redis}
}

func (r *redisWishCache) Get(ctx context.Context, key string) (string, error) {
	wish, err := r.redis.Client.Get(ctx, r.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}
		return "", fmt.Errorf("failed to read wish cache: %w", err)
	}
	return wish, nil
}

func (r *redisWishCache) Set(ctx context.Context, key string, wish string, ttl time.Duration) error {
	return r.redis.Client.Set(ctx, r.key(key), wish, ttl).Err()
}

func (r *redisWishCache) key(key string) string {
	return "wish:" + key
}

type memoryEntry struct {
	wish      string
	expiresAt time.Time
}

// memoryWishCache is used when no Redis address is configured.
type memoryWishCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryWishCache() WishCache {
	return &memoryWishCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *memoryWishCache) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return "", ErrCacheMiss
	}
	if !m.now().Before(entry.expiresAt) {
		delete(m.entries, key)
		return "", ErrCacheMiss
	}
	return entry.wish, nil
}

func (m *memoryWishCache) Set(ctx context.Context, key string, wish string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	// expired entries are swept on write so the map stays bounded by the live set
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
		}
	}
	m.entries[key] = memoryEntry{wish: wish, expiresAt: now.Add(ttl)}
	return nil
}
