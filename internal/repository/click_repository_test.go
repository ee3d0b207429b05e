package repository_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/SergeiKhy/click-to-wish/internal/models"
	"github.com/SergeiKhy/click-to-wish/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClickRepository_RecordClick_StoresOptionalFields(t *testing.T) {
	db := openTestDB(t, tempDBPath(t))
	repo := repository.NewClickRepository(db)
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Second)
	require.NoError(t, repo.RecordClick(ctx, &models.ClickEvent{
		IPAddress: "203.0.113.7",
		UserAgent: "Mozilla/5.0",
		SourceTag: "linkedin",
	}))
	require.NoError(t, repo.RecordClick(ctx, nil))

	rows, err := db.DB.Query(`SELECT ts, origin_ip, user_agent, source_tag FROM clicks ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	type row struct {
		ts          string
		ip, ua, tag sql.NullString
	}
	var got []row
	for rows.Next() {
		var r row
		require.NoError(t, rows.Scan(&r.ts, &r.ip, &r.ua, &r.tag))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())
	require.Len(t, got, 2)

	assert.Equal(t, "203.0.113.7", got[0].ip.String)
	assert.Equal(t, "Mozilla/5.0", got[0].ua.String)
	assert.Equal(t, "linkedin", got[0].tag.String)

	// Пустые поля сохраняются как NULL
	assert.False(t, got[1].ip.Valid)
	assert.False(t, got[1].ua.Valid)
	assert.False(t, got[1].tag.Valid)

	ts, err := time.Parse(time.RFC3339Nano, got[0].ts)
	require.NoError(t, err)
	assert.True(t, ts.After(before))
	assert.Equal(t, time.UTC, ts.Location())
}

// Таблица без опциональных колонок: вставка деградирует до минимальной, а не падает
func TestClickRepository_RecordClick_FallsBackOnMinimalSchema(t *testing.T) {
	db := openTestDB(t, tempDBPath(t))
	ctx := context.Background()

	_, err := db.DB.Exec(`
		DROP TABLE clicks;
		CREATE TABLE clicks (id INTEGER PRIMARY KEY AUTOINCREMENT, ts TEXT NOT NULL);
	`)
	require.NoError(t, err)

	repo := repository.NewClickRepository(db)
	require.NoError(t, repo.RecordClick(ctx, &models.ClickEvent{IPAddress: "10.1.1.1", SourceTag: "x"}))
	require.NoError(t, repo.RecordClick(ctx, &models.ClickEvent{}))

	total, err := repo.CountClicks(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestClickRepository_PropagatesStoreFailure(t *testing.T) {
	db := openTestDB(t, tempDBPath(t))
	repo := repository.NewClickRepository(db)
	require.NoError(t, db.Close())

	err := repo.RecordClick(context.Background(), &models.ClickEvent{})
	assert.Error(t, err)

	_, err = repo.CountClicks(context.Background())
	assert.Error(t, err)
}

func TestClickRepository_ConcurrentWriters(t *testing.T) {
	db := openTestDB(t, tempDBPath(t))
	repo := repository.NewClickRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.RecordClick(ctx, &models.ClickEvent{SourceTag: "seed"}))

	const writers = 40
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.RecordClick(ctx, &models.ClickEvent{UserAgent: "load"}); err != nil {
				errs <- err
				return
			}
			// читатели работают параллельно с писателями
			if _, err := repo.CountClicks(ctx); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	total, err := repo.CountClicks(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(writers+1), total)
}

func TestClickRepository_SharedFileAcrossHandles(t *testing.T) {
	path := tempDBPath(t)
	first := repository.NewClickRepository(openTestDB(t, path))
	second := repository.NewClickRepository(openTestDB(t, path))
	ctx := context.Background()

	require.NoError(t, first.RecordClick(ctx, &models.ClickEvent{}))
	require.NoError(t, second.RecordClick(ctx, &models.ClickEvent{}))

	total, err := first.CountClicks(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}
