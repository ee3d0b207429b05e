package service

import (
	"context"
	"fmt"
	"time"

	"github.com/SergeiKhy/click-to-wish/internal/metrics"
	"github.com/SergeiKhy/click-to-wish/internal/models"
	"github.com/SergeiKhy/click-to-wish/internal/repository"
	"github.com/SergeiKhy/click-to-wish/internal/session"
	"go.uber.org/zap"
)

// VisitService собирает данные страницы для одного пересчёта сессии
type VisitService interface {
	Visit(ctx context.Context, sess *session.Session, event *models.ClickEvent) (*models.PageView, error)
	Stats(ctx context.Context) (*models.ClickStats, error)
}

// Friend данные именинника для страницы
type Friend struct {
	Name       string
	ProfileURL string
}

type visitService struct {
	gate      *session.Gate
	clickRepo repository.ClickRepository
	messages  MessageService
	wishes    WishService
	friend    Friend
	logger    *zap.Logger
	now       func() time.Time
}

// NewVisitService создаёт новый экземпляр сервиса посещений
func NewVisitService(
	clickRepo repository.ClickRepository,
	messages MessageService,
	wishes WishService,
	friend Friend,
	logger *zap.Logger,
) VisitService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &visitService{
		gate:      session.NewGate(clickRepo, logger),
		clickRepo: clickRepo,
		messages:  messages,
		wishes:    wishes,
		friend:    friend,
		logger:    logger,
		now:       time.Now,
	}
}

// Visit учитывает клик сессии (не более одного раза), затем читает счётчик,
// поздравление и ленту. Ошибки хранилища возвращаются вызывающему.
func (s *visitService) Visit(ctx context.Context, sess *session.Session, event *models.ClickEvent) (*models.PageView, error) {
	counted, err := s.gate.Evaluate(ctx, sess, event)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("record_click").Inc()
		return nil, fmt.Errorf("record click: %w", err)
	}
	if counted {
		metrics.ClicksRecorded.Inc()
	}

	total, err := s.clickRepo.CountClicks(ctx)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("count_clicks").Inc()
		return nil, fmt.Errorf("count clicks: %w", err)
	}

	wish := s.wishes.Wish(ctx, total)

	feed, err := s.messages.Recent(ctx, models.DefaultFeedLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch messages: %w", err)
	}

	return &models.PageView{
		FriendName:       s.friend.Name,
		ProfileURL:       s.friend.ProfileURL,
		TotalClicks:      total,
		JustCounted:      counted,
		Wish:             wish.Text,
		WishSource:       wish.Source,
		Messages:         feed,
		RedirectInSecond: sess.RemainingRedirect(s.now()),
	}, nil
}

// Stats возвращает общее число кликов
func (s *visitService) Stats(ctx context.Context) (*models.ClickStats, error) {
	total, err := s.clickRepo.CountClicks(ctx)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("count_clicks").Inc()
		return nil, err
	}
	return &models.ClickStats{TotalClicks: total}, nil
}
