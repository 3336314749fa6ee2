package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/hongminglow/clevo-client/internal/api"
	"github.com/hongminglow/clevo-client/internal/auth"
	"github.com/hongminglow/clevo-client/internal/config"
	"github.com/hongminglow/clevo-client/internal/middleware"
	"github.com/hongminglow/clevo-client/internal/models"
	"github.com/hongminglow/clevo-client/internal/session"
	"github.com/hongminglow/clevo-client/internal/storage"
	"github.com/hongminglow/clevo-client/internal/toast"
)

var (
	// errUsage asks the caller to print usage.
	errUsage = errors.New("usage")
	// errReported means the failure was already shown as a toast.
	errReported = errors.New("reported")
)

type app struct {
	cfg    config.Config
	logger *slog.Logger
	sess   *session.Manager
	client *api.Client
	notes  *toast.Recorder
	out    io.Writer
}

func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger, store storage.Store, out io.Writer, transport http.RoundTripper) *app {
	authTransport := middleware.Chain(transport, middleware.WithRequestID(), middleware.WithLogging(logger))
	sess := session.New(ctx, cfg.APIBaseURL, store,
		session.WithHTTPClient(&http.Client{Transport: authTransport}),
		session.WithLogger(logger),
	)
	return &app{
		cfg:    cfg,
		logger: logger,
		sess:   sess,
		client: api.New(cfg.APIBaseURL, sess, api.WithTransport(transport), api.WithLogger(logger)),
		notes:  &toast.Recorder{},
		out:    out,
	}
}

type command struct {
	name    string
	summary string
	role    models.Role
	run     func(ctx context.Context, a *app, fs *flag.FlagSet, args []string) error
}

func commandTable() []command {
	return []command{
		{name: "login", summary: "sign in and keep the session", run: cmdLogin},
		{name: "logout", summary: "forget the stored session", run: cmdLogout},
		{name: "register", summary: "create an account", run: cmdRegister},
		{name: "whoami", summary: "show the signed-in user", run: cmdWhoami},

		{name: "citizen", summary: "citizen dashboard: slots, bookings, eco-points, rewards", role: models.Citizen, run: cmdCitizen},
		{name: "book", summary: "book a pickup slot", role: models.Citizen, run: cmdBook},
		{name: "redeem", summary: "redeem a reward", role: models.Citizen, run: cmdRedeem},

		{name: "recycler", summary: "recycler dashboard: slots and ward bookings", role: models.Recycler, run: cmdRecycler},
		{name: "create-slot", summary: "publish a pickup slot", role: models.Recycler, run: cmdCreateSlot},
		{name: "update-slot", summary: "change a slot's capacity or availability", role: models.Recycler, run: cmdUpdateSlot},
		{name: "delete-slot", summary: "delete a pickup slot", role: models.Recycler, run: cmdDeleteSlot},
		{name: "slot-bookings", summary: "list the bookings of one slot", role: models.Recycler, run: cmdSlotBookings},
		{name: "collect", summary: "mark a booking collected", role: models.Recycler, run: cmdCollect},
		{name: "cancel-booking", summary: "cancel a booking", role: models.Recycler, run: cmdCancelBooking},

		{name: "authority", summary: "authority dashboard: users, wards, categories, statistics", role: models.Authority, run: cmdAuthority},
		{name: "activate", summary: "activate a user", role: models.Authority, run: cmdActivate},
		{name: "deactivate", summary: "deactivate a user", role: models.Authority, run: cmdDeactivate},
		{name: "add-ward", summary: "create a ward", role: models.Authority, run: cmdAddWard},
		{name: "add-category", summary: "create a waste category", role: models.Authority, run: cmdAddCategory},
	}
}

// run dispatches one subcommand and prints the toasts it raised.
func (a *app) run(ctx context.Context, name string, args []string) error {
	for _, c := range commandTable() {
		if c.name != name {
			continue
		}
		if c.role != "" {
			if err := a.requireRole(c.role); err != nil {
				return err
			}
		}
		fs := flag.NewFlagSet(c.name, flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		err := c.run(ctx, a, fs, args)
		a.flushToasts()
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(a.out)
			fs.PrintDefaults()
			return nil
		}
		return err
	}
	return errUsage
}

func (a *app) requireRole(role models.Role) error {
	if !a.sess.IsAuthenticated() {
		return fmt.Errorf("not signed in; run `clevo login` first")
	}
	if u := a.sess.User(); u != nil && u.Role != role {
		return fmt.Errorf("this command needs a %s account, signed in as %s", role, u.Role)
	}
	return nil
}

// userID is the signed-in user's id, falling back to the token subject when
// no user record was stored.
func (a *app) userID() string {
	if u := a.sess.User(); u != nil {
		return u.ID
	}
	return auth.Inspect(a.sess.Token()).Subject
}

func (a *app) flushToasts() {
	for _, t := range a.notes.Drain() {
		renderToast(a.out, t)
	}
}

// outcome turns a view handler's result into an exit status. Failures were
// already surfaced as toasts.
func outcome(ok bool) error {
	if !ok {
		return errReported
	}
	return nil
}
