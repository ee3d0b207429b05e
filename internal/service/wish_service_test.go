package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/SergeiKhy/click-to-wish/internal/service"
	"github.com/SergeiKhy/click-to-wish/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWishService(gen service.WishGenerator) (service.WishService, *mocks.MockWishCache) {
	cache := mocks.NewMockWishCache()
	svc := service.NewWishService(gen, cache, service.WishConfig{
		FriendName: "Vamsi",
		Timeout:    time.Second,
		CacheTTL:   time.Minute,
	}, nil)
	return svc, cache
}

// TestWishService_Generated проверяет успешную генерацию и кэширование
func TestWishService_Generated(t *testing.T) {
	gen := &mocks.MockWishGenerator{Text: "Synergy overload, Vamsi!"}
	svc, cache := setupWishService(gen)
	ctx := context.Background()

	wish := svc.Wish(ctx, 7)
	assert.Equal(t, "Synergy overload, Vamsi!", wish.Text)
	assert.Equal(t, service.SourceGenerated, wish.Source)
	assert.Empty(t, wish.Reason)
	assert.Equal(t, 1, cache.Len())

	// Второй запрос с тем же счётчиком берётся из кэша
	wish = svc.Wish(ctx, 7)
	assert.Equal(t, service.SourceCache, wish.Source)
	assert.Equal(t, "Synergy overload, Vamsi!", wish.Text)
	assert.Equal(t, 1, gen.Calls())

	// Новый счётчик, новый вызов генератора
	svc.Wish(ctx, 8)
	assert.Equal(t, 2, gen.Calls())
}

// TestWishService_FallbackReasons проверяет, что любой сбой даёт запасной текст
func TestWishService_FallbackReasons(t *testing.T) {
	reasons := []service.FailureReason{
		service.ReasonDisabled,
		service.ReasonTimeout,
		service.ReasonAuth,
		service.ReasonQuota,
		service.ReasonNetwork,
		service.ReasonUpstream,
		service.ReasonEmpty,
	}

	for _, reason := range reasons {
		t.Run(string(reason), func(t *testing.T) {
			gen := &mocks.MockWishGenerator{Err: &service.GenerationError{Reason: reason}}
			svc, cache := setupWishService(gen)

			wish := svc.Wish(context.Background(), 4)
			assert.Equal(t, service.SourceFallback, wish.Source)
			assert.Equal(t, reason, wish.Reason)
			assert.Equal(t, service.FallbackWish("Vamsi", 4), wish.Text)
			assert.Zero(t, cache.Len(), "fallback wishes are not cached")
		})
	}
}

func TestWishService_DisabledGenerator(t *testing.T) {
	svc, _ := setupWishService(service.NewDisabledGenerator())

	wish := svc.Wish(context.Background(), 0)
	assert.Equal(t, service.SourceFallback, wish.Source)
	assert.Equal(t, service.ReasonDisabled, wish.Reason)
	assert.NotEmpty(t, wish.Text)
}

// TestWishService_Timeout проверяет, что медленный генератор не блокирует страницу
func TestWishService_Timeout(t *testing.T) {
	svc := service.NewWishService(slowGenerator{}, nil, service.WishConfig{
		FriendName: "Vamsi",
		Timeout:    20 * time.Millisecond,
	}, nil)

	start := time.Now()
	wish := svc.Wish(context.Background(), 3)

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, service.SourceFallback, wish.Source)
	assert.Equal(t, service.ReasonTimeout, wish.Reason)
}

type slowGenerator struct{}

func (slowGenerator) Generate(ctx context.Context, _ string, _ int64) (string, error) {
	select {
	case <-ctx.Done():
		return "", &service.GenerationError{Reason: service.ReasonTimeout, Err: ctx.Err()}
	case <-time.After(5 * time.Second):
		return "too late", nil
	}
}

func TestFallbackWish_Rotation(t *testing.T) {
	first := service.FallbackWish("Vamsi", 0)
	second := service.FallbackWish("Vamsi", 1)
	third := service.FallbackWish("Vamsi", 2)

	require.NotEqual(t, first, second)
	require.NotEqual(t, second, third)

	assert.True(t, strings.HasPrefix(first, "Happy Birthday, Vamsi!"))
	assert.Contains(t, second, "#OpenToRoasts")
	assert.Contains(t, third, "2 clicks so far")

	// Вариант определяется остатком от деления на три
	assert.Equal(t, strings.Replace(first, "0", "3", 1), service.FallbackWish("Vamsi", 3))
	assert.Contains(t, service.FallbackWish("Vamsi", 5), "Alert: A well-wisher appeared! 5 clicks")
}

func TestReasonOf(t *testing.T) {
	assert.Equal(t, service.ReasonQuota, service.ReasonOf(&service.GenerationError{Reason: service.ReasonQuota}))
	assert.Equal(t, service.ReasonUpstream, service.ReasonOf(assert.AnError))
}
