package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hongminglow/clevo-client/internal/auth"
	"github.com/hongminglow/clevo-client/internal/backend"
	"github.com/hongminglow/clevo-client/internal/config"
	"github.com/hongminglow/clevo-client/internal/http/handlers"
	"github.com/hongminglow/clevo-client/internal/middleware"
)

// Server wraps an http.Server serving the stub backend.
type Server struct {
	inner *http.Server
}

// Handler wires middleware and routes around b.
func Handler(cfg config.StubConfig, b *backend.Backend, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	handlers.NewHealthHandler(time.Now()).Register(mux)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	guard := handlers.NewGuard(b, tokens)
	handlers.NewAuthHandler(b, tokens, logger).Register(mux)
	handlers.NewCitizenHandler(b, guard, logger).Register(mux)
	handlers.NewRecyclerHandler(b, guard, logger).Register(mux)
	handlers.NewAuthorityHandler(b, guard, logger).Register(mux)

	return middleware.CORS(cfg.CORSOrigins)(middleware.Logging(logger)(mux))
}

// New returns a ready server bound to the configured stub port.
func New(cfg config.Config, b *backend.Backend, logger *slog.Logger) *Server {
	httpServer := &http.Server{
		Addr:              cfg.StubAddress(),
		Handler:           Handler(cfg.Stub, b, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
