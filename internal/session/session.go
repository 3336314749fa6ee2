// Package session holds the logged-in state of one client: the bearer token
// and user profile, persisted to a storage.Store, plus the login, register,
// and logout calls that change it.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/hongminglow/clevo-client/internal/auth"
	"github.com/hongminglow/clevo-client/internal/clienterr"
	"github.com/hongminglow/clevo-client/internal/models"
	"github.com/hongminglow/clevo-client/internal/models/dto"
	"github.com/hongminglow/clevo-client/internal/storage"
)

const maxBody = 1 << 20

// Manager is the source of truth for who is logged in. It is safe for
// concurrent use; create one per session rather than sharing a global.
type Manager struct {
	baseURL string
	store   storage.Store
	client  *http.Client
	logger  *slog.Logger
	now     func() time.Time

	mu    sync.RWMutex
	token string
	user  *models.User
}

// Option customizes a Manager.
type Option func(*Manager)

// WithHTTPClient sets the client used for /auth calls.
func WithHTTPClient(c *http.Client) Option {
	return func(m *Manager) { m.client = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithClock overrides the time source used for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// New creates a Manager for the backend at baseURL and eagerly restores any
// session persisted in store. Missing, corrupt, or expired data is discarded.
func New(ctx context.Context, baseURL string, store storage.Store, opts ...Option) *Manager {
	m := &Manager{
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   store,
		client:  http.DefaultClient,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.restore(ctx)
	return m
}

func (m *Manager) restore(ctx context.Context) {
	token, err := m.store.Get(ctx, storage.TokenKey)
	switch {
	case err == nil:
		if auth.Inspect(token).Expired(m.now()) {
			m.logger.Info("stored session expired; discarding")
			m.forget(ctx)
			return
		}
		m.token = token
	case errors.Is(err, storage.ErrNotFound):
	default:
		m.logger.Warn("discarding unreadable stored token", slog.String("error", err.Error()))
		m.discard(ctx, storage.TokenKey)
	}

	raw, err := m.store.Get(ctx, storage.UserKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			m.logger.Warn("discarding unreadable stored user", slog.String("error", err.Error()))
			m.discard(ctx, storage.UserKey)
		}
		return
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		m.logger.Warn("discarding corrupt stored user", slog.String("error", err.Error()))
		m.discard(ctx, storage.UserKey)
		return
	}
	m.user = &user
}

func (m *Manager) discard(ctx context.Context, key string) {
	if err := m.store.Delete(ctx, key); err != nil {
		m.logger.Warn("delete stored key", slog.String("key", key), slog.String("error", err.Error()))
	}
}

func (m *Manager) forget(ctx context.Context) {
	m.discard(ctx, storage.TokenKey)
	m.discard(ctx, storage.UserKey)
}

// Login exchanges credentials for a session. When the response carries a
// token and/or user they are held and persisted.
func (m *Manager) Login(ctx context.Context, username, password string) (dto.AuthResponse, error) {
	status, body, err := m.post(ctx, "/auth/login", dto.LoginRequest{Username: username, Password: password})
	if err != nil {
		return dto.AuthResponse{}, &clienterr.NetworkError{Op: "login", Err: err}
	}
	if !success(status) {
		m.logger.Info("login rejected", slog.Int("status", status))
		return dto.AuthResponse{}, authFailure("Login failed", status, body)
	}

	var resp dto.AuthResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return dto.AuthResponse{}, &clienterr.AuthError{Status: status, Message: "Invalid response format from server"}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if resp.HasSession() {
		m.token = *resp.Token
		if err := m.store.Set(ctx, storage.TokenKey, m.token); err != nil {
			m.logger.Warn("persist token", slog.String("error", err.Error()))
		}
	}
	if resp.User != nil {
		user := *resp.User
		m.user = &user
		if data, err := json.Marshal(user); err == nil {
			if err := m.store.Set(ctx, storage.UserKey, string(data)); err != nil {
				m.logger.Warn("persist user", slog.String("error", err.Error()))
			}
		}
	}
	return resp, nil
}

// Register validates req and submits it. It never changes the session: the
// user logs in afterwards.
func (m *Manager) Register(ctx context.Context, req dto.RegisterRequest) (dto.AuthResponse, error) {
	req, err := ValidateRegistration(req)
	if err != nil {
		return dto.AuthResponse{}, err
	}
	m.logger.Debug("registering user",
		slog.String("username", req.Username),
		slog.String("role", string(req.Role)),
		slog.String("password", "[HIDDEN]"),
	)

	status, body, err := m.post(ctx, "/auth/register", req.Payload())
	if err != nil {
		return dto.AuthResponse{}, &clienterr.NetworkError{Op: "register", Err: err}
	}
	if !success(status) {
		return dto.AuthResponse{}, authFailure("Registration failed", status, body)
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return dto.AuthResponse{Message: "Registration successful"}, nil
	}
	var resp dto.AuthResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return dto.AuthResponse{Message: text}, nil
	}
	return resp, nil
}

// Logout clears the session in memory and in the store. Calling it when
// already logged out is harmless.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.mu.Unlock()

	errToken := m.store.Delete(ctx, storage.TokenKey)
	errUser := m.store.Delete(ctx, storage.UserKey)
	if errToken != nil {
		return errors.Wrap(errToken, "delete stored token")
	}
	return errors.Wrap(errUser, "delete stored user")
}

// Token returns the held bearer token, or "".
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// User returns a copy of the held profile, or nil.
func (m *Manager) User() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// IsAuthenticated reports whether a token is held and has not visibly expired.
func (m *Manager) IsAuthenticated() bool {
	token := m.Token()
	return token != "" && !auth.Inspect(token).Expired(m.now())
}

// AuthHeaders returns the headers every API call carries: JSON content type
// and accept, plus a bearer Authorization header when a token is held.
func (m *Manager) AuthHeaders() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")
	if token := m.Token(); token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func (m *Manager) post(ctx context.Context, path string, payload any) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, errors.Wrap(err, "encode request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

func success(status int) bool {
	return status >= 200 && status < 300
}

// authFailure prefers the body's "message" field, then falls back to the
// status and raw body.
func authFailure(prefix string, status int, body []byte) error {
	var payload struct {
		Message string `json:"message"`
	}
	text := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return &clienterr.AuthError{Status: status, Message: payload.Message}
		}
		return &clienterr.AuthError{Status: status, Message: fmt.Sprintf("%s: %d", prefix, status)}
	}
	msg := fmt.Sprintf("%s: %d", prefix, status)
	if text != "" {
		msg += " - " + text
	}
	return &clienterr.AuthError{Status: status, Message: msg}
}
