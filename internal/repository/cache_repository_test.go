package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/SergeiKhy/click-to-wish/internal/config"
	"github.com/SergeiKhy/click-to-wish/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestMemoryWishCache_GetSet(t *testing.T) {
	cache := repository.NewMemoryWishCache()
	ctx := context.Background()

	_, err := cache.Get(ctx, "friend:1")
	assert.ErrorIs(t, err, repository.ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, "friend:1", "Happy birthday!", time.Minute))

	wish, err := cache.Get(ctx, "friend:1")
	require.NoError(t, err)
	assert.Equal(t, "Happy birthday!", wish)
}

// TestRedisWishCache интеграционный тест кэша поздравлений на Redis в контейнере
func TestRedisWishCache(t *testing.T) {
	if testing.Short() {
		t.Skip("Пропускаем интеграционный тест в коротком режиме")
	}

	ctx := context.Background()

	// Запускаем контейнер Redis
	container, err := redis.Run(ctx,
		"redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections").WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client, err := repository.NewRedisClient(config.RedisConfig{Host: host, Port: port.Port()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	cache := repository.NewRedisWishCache(client)

	_, err = cache.Get(ctx, "friend:7")
	assert.ErrorIs(t, err, repository.ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, "friend:7", "Seven clicks of glory", time.Minute))

	wish, err := cache.Get(ctx, "friend:7")
	require.NoError(t, err)
	assert.Equal(t, "Seven clicks of glory", wish)

	ttl, err := client.Client.TTL(ctx, "wish:friend:7").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}
