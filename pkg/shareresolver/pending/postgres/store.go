package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the table used by Store
const Schema = `
CREATE TABLE IF NOT EXISTS pending_path (
	channel    TEXT PRIMARY KEY,
	path       TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Store keeps pending paths in PostgreSQL so they survive a process restart
type Store struct {
	db   DBTX
	pool *pgxpool.Pool
}

// New creates a new PostgreSQL pending store
func New(db DBTX) *Store {
	return &Store{db: db}
}

// NewWithPool creates a new PostgreSQL pending store with connection pool
func NewWithPool(pool *pgxpool.Pool) *Store {
	return &Store{db: pool, pool: pool}
}

// Close releases the pool passed to NewWithPool. Stores built with New leave
// the caller's connection open.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// EnsureSchema creates the pending_path table when missing
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return s.handlePostgresError("ensure schema", err)
	}
	return nil
}

func (s *Store) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "42P01": // undefined_table
			return fmt.Errorf("table pending_path does not exist - run EnsureSchema")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

func (s *Store) Load(ctx context.Context, channel string) (string, bool, error) {
	query := `SELECT path FROM pending_path WHERE channel = $1`

	var path string
	err := s.db.QueryRow(ctx, query, channel).Scan(&path)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, s.handlePostgresError("load pending path", err)
	}
	return path, true, nil
}

func (s *Store) Store(ctx context.Context, channel, path string) error {
	query := `
		INSERT INTO pending_path (channel, path, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (channel) DO UPDATE SET path = EXCLUDED.path, updated_at = EXCLUDED.updated_at`

	if _, err := s.db.Exec(ctx, query, channel, path); err != nil {
		return s.handlePostgresError("store pending path", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context, channel string) error {
	query := `DELETE FROM pending_path WHERE channel = $1`

	if _, err := s.db.Exec(ctx, query, channel); err != nil {
		return s.handlePostgresError("clear pending path", err)
	}
	return nil
}
