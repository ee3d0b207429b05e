package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/SergeiKhy/click-to-wish/internal/models"
)

type MessageRepository interface {
	AddMessage(ctx context.Context, authorName, body string) (bool, error)
	FetchRecent(ctx context.Context, limit int) ([]models.Message, error)
}

type messageRepository struct {
	db *SQLiteDB
}

func NewMessageRepository(db *SQLiteDB) MessageRepository {
	return &messageRepository{db: db}
}

// AddMessage stores a trimmed and truncated message. A body that is empty after
// trimming is not an error: nothing is written and false is returned.
func (r *messageRepository) AddMessage(ctx context.Context, authorName, body string) (bool, error) {
	body = truncate(strings.TrimSpace(body), models.MaxMessageLength)
	if body == "" {
		return false, nil
	}
	authorName = truncate(strings.TrimSpace(authorName), models.MaxAuthorNameLength)

	query := `INSERT INTO messages (ts, name, text) VALUES (?, ?, ?)`
	if _, err := r.db.DB.ExecContext(ctx, query, formatTimestamp(time.Now()), nullString(authorName), body); err != nil {
		return false, fmt.Errorf("failed to add message: %w", err)
	}
	return true, nil
}

// FetchRecent returns at most limit messages, newest first.
func (r *messageRepository) FetchRecent(ctx context.Context, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = models.DefaultFeedLimit
	}

	rows, err := r.db.DB.QueryContext(ctx,
		`SELECT id, ts, name, text FROM messages ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0, limit)
	for rows.Next() {
		var (
			msg            models.Message
			ts, name, text sql.NullString
		)
		if err := rows.Scan(&msg.ID, &ts, &name, &text); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.AuthorName = name.String
		msg.Body = text.String
		msg.CreatedAt = parseTimestamp(ts.String)
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}

// truncate cuts s to at most n characters without splitting a rune.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
