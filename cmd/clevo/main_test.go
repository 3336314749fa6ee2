package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hongminglow/clevo-client/internal/backend"
	"github.com/hongminglow/clevo-client/internal/config"
	"github.com/hongminglow/clevo-client/internal/logs"
	"github.com/hongminglow/clevo-client/internal/models/dto"
	"github.com/hongminglow/clevo-client/internal/server"
	"github.com/hongminglow/clevo-client/internal/storage"
	"github.com/hongminglow/clevo-client/internal/storage/memory"
)

type cli struct {
	t       *testing.T
	cfg     config.Config
	store   storage.Store
	backend *backend.Backend
	seed    backend.Seeded
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	b := backend.New(backend.WithHashCost(bcrypt.MinCost))
	seed, err := backend.Seed(b)
	require.NoError(t, err)

	stub := config.StubConfig{JWTSecret: "s", JWTIssuer: "clevo-test", JWTTTL: time.Hour}
	ts := httptest.NewServer(server.Handler(stub, b, logs.Discard()))
	t.Cleanup(ts.Close)

	return &cli{
		t:       t,
		cfg:     config.Config{APIBaseURL: ts.URL + "/api", SessionStore: config.StoreMemory},
		store:   memory.New(),
		backend: b,
		seed:    seed,
	}
}

// exec runs one command in a fresh process-like app sharing the session store.
func (c *cli) exec(args ...string) (string, error) {
	c.t.Helper()
	return c.execWith(http.DefaultTransport, args...)
}

func (c *cli) execWith(transport http.RoundTripper, args ...string) (string, error) {
	c.t.Helper()
	var out bytes.Buffer
	ctx := context.Background()
	a := newApp(ctx, c.cfg, logs.Discard(), c.store, &out, transport)
	err := a.run(ctx, args[0], args[1:])
	return out.String(), err
}

func TestCitizenFlow(t *testing.T) {
	c := newCLI(t)

	out, err := c.exec("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in")

	_, err = c.exec("citizen")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not signed in")

	out, err = c.exec("login", "-u", backend.CitizenUsername, "-p", backend.CitizenPassword)
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as citizen (CITIZEN)")

	out, err = c.exec("citizen")
	require.NoError(t, err)
	assert.Contains(t, out, "Eco-points: 0.0")
	assert.Contains(t, out, c.seed.Slot.ID)
	assert.Contains(t, out, "Reusable shopping bag")

	out, err = c.exec("book", "-slot", c.seed.Slot.ID, "-category", c.seed.Categories[0].ID, "-quantity", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Estimated eco-points: 4.0 (Plastic)")
	assert.Contains(t, out, "* Success! Slot booked successfully")
	assert.Contains(t, out, "Confirmation code:")

	_, err = c.exec("recycler")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs a RECYCLER account")

	out, err = c.exec("redeem", "-reward", "1")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "! Error: Insufficient eco-points")
}

func TestRecyclerCollects(t *testing.T) {
	c := newCLI(t)
	booked, err := c.backend.Book(c.seed.Citizen.ID, bookingFor(c.seed, 3))
	require.NoError(t, err)

	_, err = c.exec("login", "-u", backend.RecyclerUsername, "-p", backend.RecyclerPassword)
	require.NoError(t, err)

	out, err := c.exec("recycler")
	require.NoError(t, err)
	assert.Contains(t, out, booked.ConfirmationCode)

	out, err = c.exec("collect", "-booking", booked.ID, "-quantity", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Booking status updated successfully")
	assert.InDelta(t, 7.5, c.backend.Points(c.seed.Citizen.ID), 1e-9)

	out, err = c.exec("collect", "-booking", booked.ID, "-quantity", "5")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "Cannot change booking from COLLECTED to COLLECTED")

	out, err = c.exec("delete-slot", "-id", c.seed.Slot.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Slot deleted successfully")
}

func TestAuthorityCommands(t *testing.T) {
	c := newCLI(t)
	_, err := c.exec("login", "-u", backend.AuthorityUsername, "-p", backend.AuthorityPassword)
	require.NoError(t, err)

	out, err := c.exec("authority")
	require.NoError(t, err)
	assert.Contains(t, out, "Users: 3 (3 active)")
	assert.Contains(t, out, "Riverside")

	out, err = c.exec("add-category", "-name", "Glass", "-description", "Jars", "-points", "0")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "! Error: Eco points must be greater than 0")

	out, err = c.exec("deactivate", "-user", c.seed.Recycler.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "User deactivated successfully")

	_, err = c.exec("nope")
	assert.ErrorIs(t, err, errUsage)

	out, err = c.exec("logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out")
	out, err = c.exec("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in")
}

func TestHelpPrintsUsage(t *testing.T) {
	var stderr bytes.Buffer
	code := realMain(context.Background(), []string{"help"}, &bytes.Buffer{}, &stderr)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "create-slot")
	assert.Contains(t, stderr.String(), "stub")
}

func bookingFor(seed backend.Seeded, qty float64) dto.BookingRequest {
	return dto.BookingRequest{SlotID: seed.Slot.ID, WasteCategoryID: seed.Categories[1].ID, EstimatedQuantity: qty}
}

// failNthGet answers the nth GET of path with a 500 and passes everything
// else through.
type failNthGet struct {
	path string
	n    int

	mu   sync.Mutex
	seen int
}

func (f *failNthGet) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method == http.MethodGet && strings.HasSuffix(req.URL.Path, f.path) {
		f.mu.Lock()
		f.seen++
		hit := f.seen == f.n
		f.mu.Unlock()
		if hit {
			return &http.Response{
				StatusCode: http.StatusInternalServerError,
				Header:     http.Header{"Content-Type": []string{"application/json"}},
				Body:       io.NopCloser(strings.NewReader(`{"message":"database unavailable"}`)),
				Request:    req,
			}, nil
		}
	}
	return http.DefaultTransport.RoundTrip(req)
}

func TestBookPrintsAcceptedCodeWhenResyncFails(t *testing.T) {
	c := newCLI(t)
	earlier, err := c.backend.Book(c.seed.Citizen.ID, bookingFor(c.seed, 1))
	require.NoError(t, err)

	_, err = c.exec("login", "-u", backend.CitizenUsername, "-p", backend.CitizenPassword)
	require.NoError(t, err)

	transport := &failNthGet{path: "/citizen/bookings", n: 2}
	out, err := c.execWith(transport, "book", "-slot", c.seed.Slot.ID, "-category", c.seed.Categories[0].ID, "-quantity", "2")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "! Error: Failed to load dashboard data")

	bookings := c.backend.CitizenBookings(c.seed.Citizen.ID)
	require.Len(t, bookings, 2)
	var created string
	for _, b := range bookings {
		if b.ID != earlier.ID {
			created = b.ConfirmationCode
		}
	}
	assert.Contains(t, out, "Confirmation code: "+created)
	assert.NotContains(t, out, earlier.ConfirmationCode)
}

// requestIDs records the X-Request-ID of every request by path.
type requestIDs struct {
	mu  sync.Mutex
	ids map[string]string
}

func (r *requestIDs) RoundTrip(req *http.Request) (*http.Response, error) {
	r.mu.Lock()
	if r.ids == nil {
		r.ids = map[string]string{}
	}
	r.ids[req.URL.Path] = req.Header.Get("X-Request-ID")
	r.mu.Unlock()
	return http.DefaultTransport.RoundTrip(req)
}

func TestAuthCallsCarryRequestID(t *testing.T) {
	c := newCLI(t)
	spy := &requestIDs{}

	_, err := c.execWith(spy, "login", "-u", backend.CitizenUsername, "-p", backend.CitizenPassword)
	require.NoError(t, err)
	_, err = c.execWith(spy, "citizen")
	require.NoError(t, err)

	assert.NotEmpty(t, spy.ids["/api/auth/login"])
	assert.NotEmpty(t, spy.ids["/api/citizen/slots"])
}
