package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// migration is one additive schema step. Every step checks for the structure it
// adds before touching the schema, so it can run against files written by any
// earlier revision, with or without a schema_migrations ledger.
type migration struct {
	version int
	desc    string
	apply   func(ctx context.Context, tx *sql.Tx) error
}

var migrations = []migration{
	{version: 1, desc: "create clicks", apply: createTable("clicks", `
		CREATE TABLE clicks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ts TEXT NOT NULL
		);`)},
	{version: 2, desc: "create messages", apply: createTable("messages", `
		CREATE TABLE messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ts TEXT NOT NULL,
			name TEXT,
			text TEXT
		);`)},
	{version: 3, desc: "clicks.origin_ip", apply: addColumn("clicks", "origin_ip", "TEXT")},
	{version: 4, desc: "clicks.user_agent", apply: addColumn("clicks", "user_agent", "TEXT")},
	{version: 5, desc: "clicks.source_tag", apply: addColumn("clicks", "source_tag", "TEXT")},
}

// SchemaVersion is the highest migration version known to this build.
func SchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// Migrate applies the migration list inside a single transaction.
func Migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TEXT NOT NULL
		);`); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, m := range migrations {
		if err := m.apply(ctx, tx); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.desc, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)`,
			m.version, m.desc, now,
		); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migrations: %w", err)
	}
	return nil
}

// AppliedVersion returns the highest version recorded in schema_migrations.
func AppliedVersion(ctx context.Context, db *sql.DB) (int, error) {
	var current int
	err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return current, nil
}

func createTable(table, ddl string) func(ctx context.Context, tx *sql.Tx) error {
	return func(ctx context.Context, tx *sql.Tx) error {
		exists, err := tableExists(ctx, tx, table)
		if err != nil || exists {
			return err
		}
		_, err = tx.ExecContext(ctx, ddl)
		return err
	}
}

func addColumn(table, column, decl string) func(ctx context.Context, tx *sql.Tx) error {
	return func(ctx context.Context, tx *sql.Tx) error {
		exists, err := columnExists(ctx, tx, table, column)
		if err != nil || exists {
			return err
		}
		// identifiers come from the static list above, never from input
		_, err = tx.ExecContext(ctx, fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s;`, table, column, decl))
		return err
	}
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func tableExists(ctx context.Context, q queryer, table string) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", table, err)
	}
	return n > 0, nil
}

func columnExists(ctx context.Context, q queryer, table, column string) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check column %s.%s: %w", table, column, err)
	}
	return n > 0, nil
}
