package prefs

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS preferences (
	namespace  TEXT        NOT NULL,
	key        TEXT        NOT NULL,
	value      TEXT        NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (namespace, key)
)`

// PostgresStore keeps preferences in a PostgreSQL table.
type PostgresStore struct {
	pool  *pgxpool.Pool
	owned bool
}

// NewPostgresStore connects to url, verifies the connection and creates the
// preferences table when missing. The store owns the pool it creates.
func NewPostgresStore(ctx context.Context, url string) (*PostgresStore, error) {
	if url == "" {
		return nil, errors.New("postgres preference store: database URL is required")
	}
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &PostgresStore{pool: pool, owned: true}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresStoreFromPool wraps an existing pool. Close leaves the pool open.
func NewPostgresStoreFromPool(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	s := &PostgresStore{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("create preferences table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	var value string
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM preferences WHERE namespace = $1 AND key = $2`,
		namespace, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get preference %s/%s: %w", namespace, key, err)
	}
	return value, true, nil
}

func (s *PostgresStore) Set(ctx context.Context, namespace, key, value string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO preferences (namespace, key, value) VALUES ($1, $2, $3)
		ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		namespace, key, value,
	)
	if err != nil {
		return fmt.Errorf("set preference %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, namespace, key string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM preferences WHERE namespace = $1 AND key = $2`,
		namespace, key,
	)
	if err != nil {
		return fmt.Errorf("delete preference %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	if s.owned {
		s.pool.Close()
	}
	return nil
}
