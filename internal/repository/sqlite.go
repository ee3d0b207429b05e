package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SergeiKhy/click-to-wish/internal/config"
	"github.com/mattn/go-sqlite3"
)

var ErrEmptyPath = errors.New("database path is empty")

// SQLiteDB owns the database file. One instance is opened at startup and shared
// by every request; it is safe for concurrent use.
type SQLiteDB struct {
	DB   *sql.DB
	path string
}

// NewSQLiteDB opens (creating if absent) the database file, switches it to WAL
// mode and brings the schema up to date. Opening the same file again is safe.
func NewSQLiteDB(cfg config.DBConfig) (*SQLiteDB, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, ErrEmptyPath
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}

	// _txlock=immediate: a writer takes the RESERVED lock up front, so concurrent
	// writers wait on busy_timeout instead of failing on lock upgrade.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL&_synchronous=NORMAL&_txlock=immediate",
		cfg.Path, busy.Milliseconds())

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite3: %w", err)
	}

	maxConns := cfg.MaxOpenConns
	if maxConns <= 0 {
		maxConns = 8
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	db.SetConnMaxIdleTime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), busy+5*time.Second)
	defer cancel()

	store := &SQLiteDB{DB: db, path: cfg.Path}
	if err := store.configurePragmas(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *SQLiteDB) configurePragmas(ctx context.Context) error {
	var mode string
	if err := s.DB.QueryRowContext(ctx, "PRAGMA journal_mode=WAL;").Scan(&mode); err != nil {
		return fmt.Errorf("failed to set journal mode: %w", err)
	}
	if !strings.EqualFold(mode, "wal") {
		return fmt.Errorf("failed to set journal mode: got %q", mode)
	}
	return nil
}

// Path returns the file the handle was opened against.
func (s *SQLiteDB) Path() string {
	return s.path
}

func (s *SQLiteDB) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// JournalMode reports the journal mode of the underlying file.
func (s *SQLiteDB) JournalMode(ctx context.Context) (string, error) {
	var mode string
	if err := s.DB.QueryRowContext(ctx, "PRAGMA journal_mode;").Scan(&mode); err != nil {
		return "", fmt.Errorf("failed to read journal mode: %w", err)
	}
	return strings.ToLower(mode), nil
}

func (s *SQLiteDB) Close() error {
	return s.DB.Close()
}

// isMissingColumn reports whether err is SQLite rejecting a statement because
// the table lacks a referenced column.
func isMissingColumn(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code != sqlite3.ErrError {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "has no column named") || strings.Contains(msg, "no such column")
}
