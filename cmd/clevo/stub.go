package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/hongminglow/clevo-client/internal/backend"
	"github.com/hongminglow/clevo-client/internal/config"
	"github.com/hongminglow/clevo-client/internal/server"
)

// runStub serves a seeded in-memory backend until ctx is cancelled.
func runStub(ctx context.Context, cfg config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("stub", flag.ContinueOnError)
	port := fs.String("port", cfg.Stub.Port, "port to listen on")
	empty := fs.Bool("empty", false, "start without demo data")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.Stub.Port = *port

	b := backend.New()
	if !*empty {
		if _, err := backend.Seed(b); err != nil {
			return errors.Wrap(err, "seed demo data")
		}
		logger.Info("seeded demo accounts",
			slog.String("authority", backend.AuthorityUsername),
			slog.String("recycler", backend.RecyclerUsername),
			slog.String("citizen", backend.CitizenUsername),
		)
	}

	srv := server.New(cfg, b, logger)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("stub backend listening", slog.String("addr", cfg.StubAddress()))
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return errors.Wrap(err, "http server")
		}
		return nil
	case <-ctx.Done():
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Warn("graceful shutdown error", slog.Any("err", err))
	}
	return nil
}
