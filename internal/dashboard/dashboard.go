// Package dashboard holds the per-role dashboard views: the state each one
// renders, the parallel fetch that fills it, and the handlers behind its
// buttons. Handlers never return errors; outcomes are reported as toasts.
package dashboard

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/hongminglow/clevo-client/internal/clienterr"
	"github.com/hongminglow/clevo-client/internal/toast"
)

const loadFailed = "Failed to load dashboard data"

// fetchAll runs every fetch concurrently and waits for all of them. The first
// failure cancels the rest and is returned.
func fetchAll(ctx context.Context, fetches ...func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, fetch := range fetches {
		g.Go(func() error { return fetch(gctx) })
	}
	return g.Wait()
}

// view carries what every dashboard shares.
type view struct {
	notifier toast.Notifier
	logger   *slog.Logger

	// Loading is true while a batch fetch is in flight.
	Loading bool
	// Busy is true while a mutating handler is in flight.
	Busy bool
	// Err holds the message of the last failed batch, or "".
	Err string
}

// load runs a batch. On success apply assigns the results; on failure nothing
// from the batch is assigned, Err is set, and a single toast is shown.
func (v *view) load(ctx context.Context, apply func(), fetches ...func(context.Context) error) bool {
	v.Loading = true
	defer func() { v.Loading = false }()

	if err := fetchAll(ctx, fetches...); err != nil {
		v.logger.Warn("dashboard batch failed", slog.String("error", err.Error()))
		v.Err = clienterr.MessageOr(err, "Failed to fetch data")
		v.notifier.Notify(toast.Error(loadFailed))
		return false
	}
	v.Err = ""
	apply()
	return true
}

// mutate runs one handler with Busy set, reporting failure with fallback
// and success with the given description.
func (v *view) mutate(ctx context.Context, success, fallback string, fn func(context.Context) error) bool {
	v.Busy = true
	defer func() { v.Busy = false }()

	if err := fn(ctx); err != nil {
		v.logger.Info("dashboard action failed", slog.String("error", err.Error()))
		v.notifier.Notify(toast.FromError(err, fallback))
		return false
	}
	v.notifier.Notify(toast.Success("Success", success))
	return true
}
