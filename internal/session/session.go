package session

import (
	"math"
	"sync"
	"time"
)

// Session контекст одной сессии посетителя: флаг учёта клика и дедлайн редиректа.
// Состояние живёт только в памяти процесса и не сохраняется в БД.
type Session struct {
	ID         string
	CreatedAt  time.Time
	RedirectAt time.Time

	mu       sync.Mutex
	counted  bool
	lastSeen time.Time
}

func newSession(id string, now time.Time, redirectDelay time.Duration) *Session {
	return &Session{
		ID:         id,
		CreatedAt:  now,
		RedirectAt: now.Add(redirectDelay),
		lastSeen:   now,
	}
}

// Counted сообщает, был ли уже записан клик этой сессии
func (s *Session) Counted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counted
}

// RemainingRedirect возвращает число секунд до редиректа (не меньше нуля)
func (s *Session) RemainingRedirect(now time.Time) int {
	left := s.RedirectAt.Sub(now).Seconds()
	if left <= 0 {
		return 0
	}
	return int(math.Round(left))
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}
