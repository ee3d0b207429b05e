package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/SergeiKhy/click-to-wish/internal/models"
)

type ClickRepository interface {
	RecordClick(ctx context.Context, event *models.ClickEvent) error
	CountClicks(ctx context.Context) (int64, error)
}

type clickRepository struct {
	db *SQLiteDB
}

func NewClickRepository(db *SQLiteDB) ClickRepository {
	return &clickRepository{db: db}
}

// RecordClick inserts one click stamped with the current UTC time. Against a
// clicks table that lacks the optional columns it falls back to an insert of
// the guaranteed columns only; every other failure is returned as is.
func (r *clickRepository) RecordClick(ctx context.Context, event *models.ClickEvent) error {
	if event == nil {
		event = &models.ClickEvent{}
	}
	ts := formatTimestamp(time.Now())

	query := `
		INSERT INTO clicks (ts, origin_ip, user_agent, source_tag)
		VALUES (?, ?, ?, ?)
	`
	_, err := r.db.DB.ExecContext(ctx, query,
		ts,
		nullString(event.IPAddress),
		nullString(event.UserAgent),
		nullString(event.SourceTag),
	)
	if err == nil {
		return nil
	}
	if !isMissingColumn(err) {
		return fmt.Errorf("failed to record click: %w", err)
	}

	if _, err := r.db.DB.ExecContext(ctx, `INSERT INTO clicks (ts) VALUES (?)`, ts); err != nil {
		return fmt.Errorf("failed to record click: %w", err)
	}
	return nil
}

func (r *clickRepository) CountClicks(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM clicks`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count clicks: %w", err)
	}
	return total, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
