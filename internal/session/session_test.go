package session

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/clevo-client/internal/auth"
	"github.com/hongminglow/clevo-client/internal/clienterr"
	"github.com/hongminglow/clevo-client/internal/models"
	"github.com/hongminglow/clevo-client/internal/models/dto"
	"github.com/hongminglow/clevo-client/internal/storage"
	"github.com/hongminglow/clevo-client/internal/storage/memory"
)

// countingTransport records how many requests reach the network.
type countingTransport struct {
	calls atomic.Int32
	next  http.RoundTripper
}

func (c *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	c.calls.Add(1)
	return c.next.RoundTrip(r)
}

type fixture struct {
	t       *testing.T
	server  *httptest.Server
	spy     *countingTransport
	store   *memory.Store
	handler http.HandlerFunc
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{t: t, store: memory.New()}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f.handler == nil {
			http.NotFound(w, r)
			return
		}
		f.handler(w, r)
	}))
	t.Cleanup(f.server.Close)
	f.spy = &countingTransport{next: http.DefaultTransport}
	return f
}

func (f *fixture) manager() *Manager {
	return New(context.Background(), f.server.URL+"/api", f.store,
		WithHTTPClient(&http.Client{Transport: f.spy}),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func validRegistration() dto.RegisterRequest {
	return dto.RegisterRequest{
		Username:    "alice",
		Email:       "alice@example.com",
		Password:    "secret",
		Role:        models.Citizen,
		FirstName:   "Alice",
		LastName:    "Ngugi",
		Address:     "1 Main St",
		PhoneNumber: "+254700000000",
		WardID:      "ward-1",
	}
}

func TestRegisterRequiredFieldsFailBeforeNetwork(t *testing.T) {
	tests := []struct {
		mutate func(*dto.RegisterRequest)
		field  string
		msg    string
	}{
		{func(r *dto.RegisterRequest) { r.Username = "" }, "username", "Username is required"},
		{func(r *dto.RegisterRequest) { r.Username = "   " }, "username", "Username is required"},
		{func(r *dto.RegisterRequest) { r.Email = "" }, "email", "Email is required"},
		{func(r *dto.RegisterRequest) { r.Password = "" }, "password", "Password is required"},
		{func(r *dto.RegisterRequest) { r.FirstName = " " }, "firstName", "First name is required"},
		{func(r *dto.RegisterRequest) { r.LastName = "" }, "lastName", "Last name is required"},
		{func(r *dto.RegisterRequest) { r.Address = "" }, "address", "Address is required"},
		{func(r *dto.RegisterRequest) { r.PhoneNumber = "" }, "phoneNumber", "Phone number is required"},
		{func(r *dto.RegisterRequest) { r.WardID = "" }, "wardId", "Ward is required for citizens"},
		{func(r *dto.RegisterRequest) { r.WardID = "  " }, "wardId", "Ward is required for citizens"},
		{func(r *dto.RegisterRequest) { r.Role = "ADMIN" }, "role", "Role must be CITIZEN, RECYCLER or AUTHORITY"},
	}
	for _, tt := range tests {
		t.Run(tt.msg+"/"+tt.field, func(t *testing.T) {
			f := newFixture(t)
			req := validRegistration()
			tt.mutate(&req)

			_, err := f.manager().Register(context.Background(), req)

			var valErr *clienterr.ValidationError
			require.True(t, errors.As(err, &valErr), "got %v", err)
			assert.Equal(t, tt.field, valErr.Field)
			assert.Equal(t, tt.msg, valErr.Message)
			assert.Zero(t, f.spy.calls.Load())
		})
	}
}

func TestRegisterRejectsMalformedEmail(t *testing.T) {
	for _, email := range []string{"alice", "alice@", "@example.com", "alice@example", "a b@example.com", "alice@@example.com"} {
		t.Run(email, func(t *testing.T) {
			f := newFixture(t)
			req := validRegistration()
			req.Email = email

			_, err := f.manager().Register(context.Background(), req)

			var valErr *clienterr.ValidationError
			require.True(t, errors.As(err, &valErr))
			assert.Equal(t, "Please enter a valid email address", valErr.Message)
			assert.Zero(t, f.spy.calls.Load())
		})
	}
}

func TestRegisterNonCitizenDropsWard(t *testing.T) {
	f := newFixture(t)
	var got map[string]any
	f.handler = func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/register", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}
	req := validRegistration()
	req.Role = models.Recycler
	req.Username = "  bob  "

	resp, err := f.manager().Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Registration successful", resp.Message)
	assert.NotContains(t, got, "wardId")
	assert.Equal(t, "bob", got["username"])
	assert.EqualValues(t, 1, f.spy.calls.Load())
}

func TestRegisterResponses(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"empty", "", "Registration successful"},
		{"plain text", "User registered", "User registered"},
		{"json", `{"message":"created","id":"u-9"}`, "created"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.handler = func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			}
			m := f.manager()

			resp, err := m.Register(context.Background(), validRegistration())
			require.NoError(t, err)
			assert.Equal(t, tt.message, resp.Message)
			assert.False(t, m.IsAuthenticated(), "registration never logs in")
		})
	}
}

func TestRegisterServerError(t *testing.T) {
	f := newFixture(t)
	f.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"message":"Username already taken"}`)
	}

	_, err := f.manager().Register(context.Background(), validRegistration())
	var authErr *clienterr.AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, "Username already taken", authErr.Message)
	assert.Equal(t, http.StatusConflict, authErr.Status)
}

func TestLoginLogoutLifecycle(t *testing.T) {
	f := newFixture(t)
	f.handler = func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		var body dto.LoginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, dto.LoginRequest{Username: "alice", Password: "pw"}, body)
		_, _ = io.WriteString(w, `{"token":"T","user":{"id":"u-1","username":"alice","role":"CITIZEN","active":true},"refreshIn":300}`)
	}
	ctx := context.Background()
	m := f.manager()
	require.False(t, m.IsAuthenticated())
	require.Empty(t, m.AuthHeaders().Get("Authorization"))

	resp, err := m.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.Contains(t, resp.Extra, "refreshIn")

	assert.True(t, m.IsAuthenticated())
	headers := m.AuthHeaders()
	assert.Equal(t, "Bearer T", headers.Get("Authorization"))
	assert.Equal(t, "application/json", headers.Get("Content-Type"))
	assert.Equal(t, "application/json", headers.Get("Accept"))
	require.NotNil(t, m.User())
	assert.Equal(t, models.Citizen, m.User().Role)

	token, err := f.store.Get(ctx, storage.TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "T", token)

	restored := f.manager()
	assert.True(t, restored.IsAuthenticated())
	assert.Equal(t, "alice", restored.User().Username)

	require.NoError(t, m.Logout(ctx))
	assert.False(t, m.IsAuthenticated())
	assert.Nil(t, m.User())
	assert.Empty(t, m.AuthHeaders().Get("Authorization"))
	_, err = f.store.Get(ctx, storage.TokenKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = f.store.Get(ctx, storage.UserKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, m.Logout(ctx), "logout is idempotent")
}

func TestLoginWithoutToken(t *testing.T) {
	f := newFixture(t)
	f.handler = func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"message":"check your email"}`)
	}
	m := f.manager()

	resp, err := m.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, "check your email", resp.Message)
	assert.False(t, m.IsAuthenticated())
}

func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"server message", http.StatusUnauthorized, `{"message":"Invalid credentials"}`, "Invalid credentials"},
		{"json without message", http.StatusUnauthorized, `{"error":"nope"}`, "Login failed: 401"},
		{"raw body", http.StatusBadGateway, "upstream down", "Login failed: 502 - upstream down"},
		{"bad success body", http.StatusOK, "<html>", "Invalid response format from server"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.handler = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}
			m := f.manager()

			_, err := m.Login(context.Background(), "alice", "pw")
			var authErr *clienterr.AuthError
			require.True(t, errors.As(err, &authErr))
			assert.Equal(t, tt.want, authErr.Message)
			assert.False(t, m.IsAuthenticated())
		})
	}
}

func TestLoginNetworkError(t *testing.T) {
	f := newFixture(t)
	m := f.manager()
	f.server.Close()

	_, err := m.Login(context.Background(), "alice", "pw")
	var netErr *clienterr.NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, clienterr.NetworkMessage, clienterr.UserMessage(err))
}

func TestRestoreDiscardsCorruptUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Set(ctx, storage.TokenKey, "T"))
	require.NoError(t, f.store.Set(ctx, storage.UserKey, "{broken"))

	m := f.manager()
	assert.True(t, m.IsAuthenticated())
	assert.Nil(t, m.User())
	_, err := f.store.Get(ctx, storage.UserKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRestoreDiscardsExpiredToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	token, err := auth.NewTokenManager("k", "iss", time.Minute).Generate(models.User{ID: "u-1"})
	require.NoError(t, err)
	require.NoError(t, f.store.Set(ctx, storage.TokenKey, token))
	require.NoError(t, f.store.Set(ctx, storage.UserKey, `{"id":"u-1"}`))

	m := New(ctx, f.server.URL, f.store,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithClock(func() time.Time { return time.Now().Add(time.Hour) }),
	)
	assert.False(t, m.IsAuthenticated())
	assert.Nil(t, m.User())
	_, err = f.store.Get(ctx, storage.TokenKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRestoreDiscardsUnsealableToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Set(ctx, storage.TokenKey, "plain"))
	sealed := storage.NewSealed(f.store, "secret", storage.TokenKey)

	m := New(ctx, f.server.URL, sealed, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	assert.False(t, m.IsAuthenticated())
	_, err := f.store.Get(ctx, storage.TokenKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
