package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, ttl, delay time.Duration) (*Manager, *time.Time) {
	t.Helper()
	m := NewManager(ManagerConfig{TTL: ttl, RedirectDelay: delay, CleanupInterval: time.Hour}, nil)
	t.Cleanup(m.Stop)

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	return m, &now
}

func TestManager_ResolveCreatesAndReuses(t *testing.T) {
	m, _ := newTestManager(t, 30*time.Minute, 6*time.Second)

	s, created := m.Resolve("")
	require.True(t, created)
	require.NotEmpty(t, s.ID)
	assert.False(t, s.Counted())

	again, created := m.Resolve(s.ID)
	assert.False(t, created)
	assert.Same(t, s, again)

	unknown, created := m.Resolve("missing-id")
	assert.True(t, created)
	assert.NotEqual(t, "missing-id", unknown.ID)

	assert.Equal(t, 2, m.Len())
}

func TestManager_ExpiredSessionIsReplaced(t *testing.T) {
	m, now := newTestManager(t, time.Minute, 6*time.Second)

	s, _ := m.Resolve("")
	s.counted = true

	*now = now.Add(2 * time.Minute)

	fresh, created := m.Resolve(s.ID)
	assert.True(t, created)
	assert.NotEqual(t, s.ID, fresh.ID)
	assert.False(t, fresh.Counted())
}

func TestManager_ResolveKeepsSessionAlive(t *testing.T) {
	m, now := newTestManager(t, time.Minute, 0)

	s, _ := m.Resolve("")
	for i := 0; i < 5; i++ {
		*now = now.Add(45 * time.Second)
		got, created := m.Resolve(s.ID)
		require.False(t, created)
		require.Same(t, s, got)
	}
}

func TestManager_Cleanup(t *testing.T) {
	m, now := newTestManager(t, time.Minute, 0)

	stale, _ := m.Resolve("")
	*now = now.Add(50 * time.Second)
	live, _ := m.Resolve("")

	*now = now.Add(30 * time.Second)
	removed := m.cleanup()

	assert.Equal(t, 1, removed)
	_, ok := m.Get(stale.ID)
	assert.False(t, ok)
	_, ok = m.Get(live.ID)
	assert.True(t, ok)
}

func TestSession_RemainingRedirect(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	s := newSession("s", start, 6*time.Second)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    int
	}{
		{"fresh", 0, 6},
		{"rounded", 2400 * time.Millisecond, 4},
		{"rerun keeps deadline", 5 * time.Second, 1},
		{"due", 6 * time.Second, 0},
		{"overdue", time.Minute, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.RemainingRedirect(start.Add(tt.elapsed)))
		})
	}
}
