package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/hongminglow/clevo-client/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// Store provides Postgres-backed session persistence. Rows are scoped to a
// profile so several terminals can share one database.
type Store struct {
	pool    *pgxpool.Pool
	profile string
}

// NewSessionStore creates a new Store and runs migrations.
func NewSessionStore(ctx context.Context, databaseURL, profile string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse database url")
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "connect to database")
	}

	s := &Store{pool: pool, profile: profile}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS client_sessions (
			profile TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (profile, key)
		);`,
		`CREATE INDEX IF NOT EXISTS client_sessions_updated_idx ON client_sessions (updated_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return errors.Wrap(err, "apply migrations")
		}
	}
	return nil
}

// Get fetches the value stored under key for this profile.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	const query = `SELECT value FROM client_sessions WHERE profile = $1 AND key = $2;`
	var value string
	if err := s.pool.QueryRow(ctx, query, s.profile, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", storage.ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set upserts the value for key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	const query = `
		INSERT INTO client_sessions (profile, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (profile, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW();
	`
	_, err := s.pool.Exec(ctx, query, s.profile, key, value)
	return err
}

// Delete removes key; deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM client_sessions WHERE profile = $1 AND key = $2;`
	_, err := s.pool.Exec(ctx, query, s.profile, key)
	return err
}
