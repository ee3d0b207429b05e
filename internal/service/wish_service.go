package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SergeiKhy/click-to-wish/internal/metrics"
	"github.com/SergeiKhy/click-to-wish/internal/repository"
	"go.uber.org/zap"
)

// Источник поздравления
const (
	SourceCache     = "cache"
	SourceGenerated = "generated"
	SourceFallback  = "fallback"
)

// Wish поздравление и его происхождение
type Wish struct {
	Text   string
	Source string
	Reason FailureReason // Заполнено только для запасного текста
}

// WishService возвращает поздравление для текущего значения счётчика.
// Метод Wish никогда не возвращает ошибку: при любом сбое используется запасной текст.
type WishService interface {
	Wish(ctx context.Context, totalClicks int64) Wish
}

// WishConfig параметры сервиса поздравлений
type WishConfig struct {
	FriendName string
	Timeout    time.Duration // Ограничение на вызов внешнего сервиса
	CacheTTL   time.Duration
}

type wishService struct {
	generator WishGenerator
	cache     repository.WishCache
	config    WishConfig
	logger    *zap.Logger
}

// NewWishService создаёт новый экземпляр сервиса поздравлений
func NewWishService(generator WishGenerator, cache repository.WishCache, config WishConfig, logger *zap.Logger) WishService {
	if config.Timeout <= 0 {
		config.Timeout = 8 * time.Second
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &wishService{
		generator: generator,
		cache:     cache,
		config:    config,
		logger:    logger,
	}
}

func (s *wishService) Wish(ctx context.Context, totalClicks int64) Wish {
	key := fmt.Sprintf("%s:%d", s.config.FriendName, totalClicks)

	// Проверка кэша
	if s.cache != nil {
		text, err := s.cache.Get(ctx, key)
		if err == nil {
			metrics.WishResults.WithLabelValues(SourceCache, "").Inc()
			return Wish{Text: text, Source: SourceCache}
		}
		if !errors.Is(err, repository.ErrCacheMiss) {
			s.logger.Debug("Ошибка чтения кэша поздравлений", zap.Error(err))
		}
	}

	genCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	text, err := s.generator.Generate(genCtx, s.config.FriendName, totalClicks)
	if err != nil {
		reason := ReasonOf(err)
		if reason != ReasonDisabled {
			s.logger.Warn("Генерация поздравления не удалась, используем запасной текст",
				zap.String("reason", string(reason)),
				zap.Error(err),
			)
		}
		metrics.WishResults.WithLabelValues(SourceFallback, string(reason)).Inc()
		return Wish{
			Text:   FallbackWish(s.config.FriendName, totalClicks),
			Source: SourceFallback,
			Reason: reason,
		}
	}

	// Кэширование результата
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, text, s.config.CacheTTL); err != nil {
			s.logger.Debug("Не удалось сохранить поздравление в кэш", zap.Error(err))
		}
	}

	metrics.WishResults.WithLabelValues(SourceGenerated, "").Inc()
	return Wish{Text: text, Source: SourceGenerated}
}

// FallbackWish выбирает локальный текст по остатку от деления счётчика на число вариантов
func FallbackWish(friendName string, totalClicks int64) string {
	picks := []string{
		fmt.Sprintf("Happy Birthday, %s! Another brave soul clicked. Count: %d.🎂", friendName, totalClicks),
		fmt.Sprintf("%s, +1 click to your LinkedIn charisma. Total: %d. #OpenToRoasts", friendName, totalClicks),
		fmt.Sprintf("Alert: A well-wisher appeared! %d clicks so far. Stay humble, stay hireable.", totalClicks),
	}
	idx := totalClicks % int64(len(picks))
	if idx < 0 {
		idx += int64(len(picks))
	}
	return picks[idx]
}
