package logs

import (
	"io"
	"log/slog"

	"github.com/hongminglow/clevo-client/internal/config"
)

// New builds the process logger. Output goes to w (stderr in the CLI) so it
// never interleaves with rendered tables on stdout.
func New(cfg config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
