package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/hongminglow/clevo-client/internal/config"
	"github.com/hongminglow/clevo-client/internal/storage"
	"github.com/hongminglow/clevo-client/internal/storage/file"
	"github.com/hongminglow/clevo-client/internal/storage/memory"
	"github.com/hongminglow/clevo-client/internal/storage/postgres"
	"github.com/hongminglow/clevo-client/internal/storage/sqlite"
)

// openStore picks the session backend named by the config and seals the
// token when a secret is set.
func openStore(ctx context.Context, cfg config.Config) (storage.Store, func(), error) {
	var (
		inner   storage.Store
		closeFn = func() {}
	)
	switch cfg.SessionStore {
	case config.StoreMemory:
		inner = memory.New()
	case config.StoreFile:
		s, err := file.New(cfg.SessionPath)
		if err != nil {
			return nil, nil, err
		}
		inner = s
	case config.StoreSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.SessionPath), 0o700); err != nil {
			return nil, nil, errors.Wrap(err, "create session directory")
		}
		s, err := sqlite.Open(ctx, cfg.SessionPath)
		if err != nil {
			return nil, nil, err
		}
		inner, closeFn = s, func() { _ = s.Close() }
	case config.StorePostgres:
		s, err := postgres.NewSessionStore(ctx, cfg.DatabaseURL, cfg.Profile)
		if err != nil {
			return nil, nil, err
		}
		inner, closeFn = s, s.Close
	default:
		return nil, nil, errors.Errorf("unknown session store %q", cfg.SessionStore)
	}

	if cfg.SessionSecret != "" {
		return storage.NewSealed(inner, cfg.SessionSecret, storage.TokenKey), closeFn, nil
	}
	return inner, closeFn, nil
}
