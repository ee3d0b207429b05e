package session

import (
	"sync"
	"time"

	"github.com/SergeiKhy/click-to-wish/internal/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ManagerConfig конфигурация реестра сессий
type ManagerConfig struct {
	TTL             time.Duration // Время жизни неактивной сессии
	RedirectDelay   time.Duration // Задержка редиректа для новой сессии
	CleanupInterval time.Duration // Интервал очистки устаревших сессий
}

// Manager хранит сессии в памяти процесса, ключ: идентификатор из cookie
type Manager struct {
	config   ManagerConfig
	sessions map[string]*Session
	mu       sync.RWMutex
	logger   *zap.Logger
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

// NewManager создаёт реестр сессий и запускает горутину очистки
func NewManager(config ManagerConfig, logger *zap.Logger) *Manager {
	if config.TTL <= 0 {
		config.TTL = 30 * time.Minute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		config:   config,
		sessions: make(map[string]*Session),
		logger:   logger,
		now:      time.Now,
		stop:     make(chan struct{}),
	}

	go m.cleanupLoop()

	return m
}

// Stop останавливает горутину очистки
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

// Resolve возвращает живую сессию по идентификатору или создаёт новую.
// Второе значение true, если сессия была создана.
func (m *Manager) Resolve(id string) (*Session, bool) {
	now := m.now()

	if id != "" {
		m.mu.RLock()
		s, ok := m.sessions[id]
		m.mu.RUnlock()
		if ok && s.idleSince(now) <= m.config.TTL {
			s.touch(now)
			return s, false
		}
	}

	s := newSession(uuid.NewString(), now, m.config.RedirectDelay)

	m.mu.Lock()
	m.sessions[s.ID] = s
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	m.mu.Unlock()

	return s, true
}

// Get возвращает сессию без создания новой
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Len возвращает количество сессий в реестре
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(m.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.cleanup()
		}
	}
}

// cleanup удаляет сессии, неактивные дольше TTL
func (m *Manager) cleanup() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.idleSince(now) > m.config.TTL {
			delete(m.sessions, id)
			removed++
		}
	}
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	if removed > 0 {
		m.logger.Debug("Удалены устаревшие сессии", zap.Int("count", removed), zap.Int("active", len(m.sessions)))
	}
	return removed
}
