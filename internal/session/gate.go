package session

import (
	"context"

	"github.com/SergeiKhy/click-to-wish/internal/models"
	"go.uber.org/zap"
)

// ClickRecorder записывает клик в хранилище
type ClickRecorder interface {
	RecordClick(ctx context.Context, event *models.ClickEvent) error
}

// Gate гарантирует не более одной записи клика на сессию,
// сколько бы раз страница ни пересчитывалась в её рамках.
// Это не глобальная идемпотентность: две сессии одного посетителя считаются дважды.
type Gate struct {
	recorder ClickRecorder
	logger   *zap.Logger
}

// NewGate создаёт новый экземпляр гейта
func NewGate(recorder ClickRecorder, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{recorder: recorder, logger: logger}
}

// Evaluate записывает клик, если сессия ещё не учтена, и переводит её в состояние COUNTED.
// Возвращает true только для вызова, который выполнил запись.
// При ошибке записи сессия остаётся неучтённой, ошибка возвращается вызывающему.
func (g *Gate) Evaluate(ctx context.Context, s *Session, event *models.ClickEvent) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.counted {
		return false, nil
	}

	if err := g.recorder.RecordClick(ctx, event); err != nil {
		g.logger.Error("Не удалось записать клик сессии", zap.String("session_id", s.ID), zap.Error(err))
		return false, err
	}

	s.counted = true
	g.logger.Debug("Клик сессии учтён", zap.String("session_id", s.ID))
	return true, nil
}
