package service

import (
	"context"

	"github.com/SergeiKhy/click-to-wish/internal/metrics"
	"github.com/SergeiKhy/click-to-wish/internal/models"
	"github.com/SergeiKhy/click-to-wish/internal/repository"
	"go.uber.org/zap"
)

// Максимальный размер ленты за один запрос
const maxFeedLimit = 200

// MessageService интерфейс публичной ленты сообщений
type MessageService interface {
	Submit(ctx context.Context, input *models.MessageInput) (bool, error)
	Recent(ctx context.Context, limit int) ([]models.Message, error)
}

type messageService struct {
	messageRepo repository.MessageRepository
	logger      *zap.Logger
}

// NewMessageService создаёт новый экземпляр сервиса сообщений
func NewMessageService(messageRepo repository.MessageRepository, logger *zap.Logger) MessageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &messageService{messageRepo: messageRepo, logger: logger}
}

// Submit сохраняет сообщение; пустой текст не ошибка, просто ничего не сохраняется
func (s *messageService) Submit(ctx context.Context, input *models.MessageInput) (bool, error) {
	if input == nil {
		return false, nil
	}

	stored, err := s.messageRepo.AddMessage(ctx, input.Name, input.Text)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("add_message").Inc()
		return false, err
	}
	if stored {
		metrics.MessagesStored.Inc()
	}
	return stored, nil
}

// Recent возвращает последние сообщения, новые первыми
func (s *messageService) Recent(ctx context.Context, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = models.DefaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}

	messages, err := s.messageRepo.FetchRecent(ctx, limit)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("fetch_messages").Inc()
		return nil, err
	}
	return messages, nil
}
