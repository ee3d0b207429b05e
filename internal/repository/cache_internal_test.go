package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryWishCache_Expires(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cache := &memoryWishCache{
		entries: make(map[string]memoryEntry),
		now:     func() time.Time { return now },
	}
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", "first", time.Minute))
	require.NoError(t, cache.Set(ctx, "b", "second", 2*time.Minute))

	now = now.Add(61 * time.Second)

	_, err := cache.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrCacheMiss)

	wish, err := cache.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "second", wish)

	now = now.Add(2 * time.Minute)
	require.NoError(t, cache.Set(ctx, "c", "third", time.Minute))
	assert.Len(t, cache.entries, 1)
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-05-01T10:00:00.123456", time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC)},
		{"2024-05-01T10:00:00", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-05-01T10:00:00Z", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-05-01T12:00:00+02:00", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"not a date", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.True(t, tt.want.Equal(parseTimestamp(tt.in)), "got %v", parseTimestamp(tt.in))
		})
	}
}

func TestIsMissingColumn(t *testing.T) {
	assert.False(t, isMissingColumn(nil))
	assert.False(t, isMissingColumn(context.Canceled))
	assert.True(t, isMissingColumn(errString("table clicks has no column named origin_ip")))
	assert.True(t, isMissingColumn(errString("no such column: source_tag")))
}

type errString string

func (e errString) Error() string { return string(e) }
