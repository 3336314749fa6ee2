// Package handlers serves the Clevo REST surface from an in-memory backend.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/hongminglow/clevo-client/internal/auth"
	"github.com/hongminglow/clevo-client/internal/backend"
	"github.com/hongminglow/clevo-client/internal/http/respond"
	"github.com/hongminglow/clevo-client/internal/models"
)

// Prefix is the path every route is mounted under.
const Prefix = "/api"

type ctxKey struct{}

// Guard authenticates bearer tokens and restricts routes by role.
type Guard struct {
	backend *backend.Backend
	tokens  *auth.TokenManager
}

// NewGuard constructs a Guard.
func NewGuard(b *backend.Backend, tokens *auth.TokenManager) *Guard {
	return &Guard{backend: b, tokens: tokens}
}

// Require wraps next so it only runs for an active caller holding one of roles.
// No roles means any authenticated caller.
func (g *Guard) Require(next http.HandlerFunc, roles ...models.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			respond.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		claims, err := g.tokens.Verify(strings.TrimSpace(raw))
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		user, err := g.backend.User(claims.Subject)
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, "unknown account")
			return
		}
		if !user.Active {
			respond.Error(w, http.StatusForbidden, "account is deactivated")
			return
		}
		if len(roles) > 0 && !slices.Contains(roles, user.Role) {
			respond.Error(w, http.StatusForbidden, "insufficient role")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, user)))
	}
}

// caller returns the user Require stored on the request.
func caller(r *http.Request) models.User {
	u, _ := r.Context().Value(ctxKey{}).(models.User)
	return u
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return false
	}
	return true
}

// fail maps backend errors to statuses. Unknown errors are logged and hidden.
func fail(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, backend.ErrNotFound):
		respond.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, backend.ErrAlreadyExists),
		errors.Is(err, backend.ErrSlotFull),
		errors.Is(err, backend.ErrSlotHasBookings),
		errors.Is(err, backend.ErrInvalidTransition):
		respond.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, backend.ErrForbidden):
		respond.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, backend.ErrInvalidInput),
		errors.Is(err, backend.ErrSlotInactive),
		errors.Is(err, backend.ErrInsufficientPoints):
		respond.Error(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error(op, slog.Any("err", err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}
