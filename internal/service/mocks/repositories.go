package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/SergeiKhy/click-to-wish/internal/models"
	"github.com/SergeiKhy/click-to-wish/internal/repository"
)

// MockClickRepository implements repository.ClickRepository for testing
type MockClickRepository struct {
	mu     sync.RWMutex
	clicks []models.Click
	calls  int
	Err    error // returned by RecordClick when set
}

func NewMockClickRepository() *MockClickRepository {
	return &MockClickRepository{}
}

func (m *MockClickRepository) RecordClick(ctx context.Context, event *models.ClickEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.Err != nil {
		return m.Err
	}
	m.clicks = append(m.clicks, models.Click{
		ID:        int64(len(m.clicks) + 1),
		IPAddress: event.IPAddress,
		UserAgent: event.UserAgent,
		SourceTag: event.SourceTag,
		ClickedAt: time.Now().UTC(),
	})
	return nil
}

func (m *MockClickRepository) CountClicks(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.clicks)), nil
}

// Calls returns how many times RecordClick was invoked, failed calls included.
func (m *MockClickRepository) Calls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

func (m *MockClickRepository) Clicks() []models.Click {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Click(nil), m.clicks...)
}

// MockMessageRepository implements repository.MessageRepository for testing.
// It keeps raw input; trimming is covered by the SQLite repository tests.
type MockMessageRepository struct {
	mu       sync.RWMutex
	messages []models.Message
	Err      error
}

func NewMockMessageRepository() *MockMessageRepository {
	return &MockMessageRepository{}
}

func (m *MockMessageRepository) AddMessage(ctx context.Context, authorName, body string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return false, m.Err
	}
	if body == "" {
		return false, nil
	}
	m.messages = append(m.messages, models.Message{
		ID:         int64(len(m.messages) + 1),
		AuthorName: authorName,
		Body:       body,
		CreatedAt:  time.Now().UTC(),
	})
	return true, nil
}

func (m *MockMessageRepository) FetchRecent(ctx context.Context, limit int) ([]models.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]models.Message, 0, limit)
	for i := len(m.messages) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, m.messages[i])
	}
	return result, nil
}

// MockWishCache implements repository.WishCache for testing
type MockWishCache struct {
	mu    sync.RWMutex
	cache map[string]string
}

func NewMockWishCache() *MockWishCache {
	return &MockWishCache{cache: make(map[string]string)}
}

func (m *MockWishCache) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wish, exists := m.cache[key]
	if !exists {
		return "", repository.ErrCacheMiss
	}
	return wish, nil
}

func (m *MockWishCache) Set(ctx context.Context, key string, wish string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[key] = wish
	return nil
}

func (m *MockWishCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cache)
}

// MockWishGenerator implements service.WishGenerator for testing
type MockWishGenerator struct {
	mu    sync.Mutex
	Text  string
	Err   error
	calls int
}

func (m *MockWishGenerator) Generate(ctx context.Context, friendName string, totalClicks int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.Err != nil {
		return "", m.Err
	}
	return m.Text, nil
}

func (m *MockWishGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
