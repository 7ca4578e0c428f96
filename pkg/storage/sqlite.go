package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	// use the sqlite db driver.
	_ "github.com/mattn/go-sqlite3"
)

//go:embed kv.sql
var kvSQL string

// SQLite is the local, non-synced backend. Values live in a single kv table of a sqlite file.
type SQLite struct {
	conn     *sql.DB
	filename string
}

// NewSQLite connects to the sqlite database at the given filename and creates the kv table if
// it is not present.
func NewSQLite(ctx context.Context, filename string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("error connecting to sqlite db at %s: %w", filename, err)
	}

	s := &SQLite{conn: conn, filename: filename}

	if err := s.initialize(ctx); err != nil {
		conn.Close()

		return nil, err
	}

	return s, nil
}

func (s *SQLite) initialize(ctx context.Context) error {
	// idempotent setup sql to create the table if it doesn't exist
	if _, err := s.conn.ExecContext(ctx, kvSQL); err != nil {
		return fmt.Errorf("error running kv sql: %w", err)
	}

	return nil
}

// Name implements Backend.
func (s *SQLite) Name() string {
	return "sqlite"
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.conn.Close()
}

// Get implements Backend.
func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var value string

	err := s.conn.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("error reading key %s: %w", key, err)
	}

	return value, true, nil
}

// Set implements Backend.
func (s *SQLite) Set(ctx context.Context, key, value string) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_datetime) VALUES ($1, $2, $3)
		     ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_datetime = excluded.updated_datetime`,
		key, value, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("error writing key %s: %w", key, err)
	}

	return nil
}

// Remove implements Backend.
func (s *SQLite) Remove(ctx context.Context, key string) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM kv WHERE key = $1`, key); err != nil {
		return fmt.Errorf("error removing key %s: %w", key, err)
	}

	return nil
}
