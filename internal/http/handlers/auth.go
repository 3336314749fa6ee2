package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hongminglow/clevo-client/internal/auth"
	"github.com/hongminglow/clevo-client/internal/backend"
	"github.com/hongminglow/clevo-client/internal/http/respond"
	"github.com/hongminglow/clevo-client/internal/models"
	"github.com/hongminglow/clevo-client/internal/models/dto"
)

// AuthHandler owns register/login.
type AuthHandler struct {
	backend *backend.Backend
	tokens  *auth.TokenManager
	logger  *slog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(b *backend.Backend, tokens *auth.TokenManager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{backend: b, tokens: tokens, logger: logger}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST "+Prefix+"/auth/register", h.handleRegister)
	mux.HandleFunc("POST "+Prefix+"/auth/login", h.handleLogin)
}

type loginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type registerResponse struct {
	Message string      `json:"message"`
	User    models.User `json:"user"`
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Role == models.Citizen && strings.TrimSpace(req.WardID) == "" {
		respond.Error(w, http.StatusBadRequest, "wardId is required for citizens")
		return
	}
	created, err := h.backend.Register(req.Payload())
	if err != nil {
		if errors.Is(err, backend.ErrAlreadyExists) {
			respond.Error(w, http.StatusConflict, "Username or email already taken")
			return
		}
		fail(w, h.logger, "register", err)
		return
	}
	h.logger.Info("registered account", slog.String("username", created.Username), slog.String("role", string(created.Role)))
	respond.JSON(w, http.StatusCreated, registerResponse{Message: "User registered successfully", User: created})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "username and password are required")
		return
	}
	user, err := h.backend.Authenticate(strings.TrimSpace(req.Username), req.Password)
	switch {
	case errors.Is(err, backend.ErrInvalidCredentials):
		respond.Error(w, http.StatusUnauthorized, "Invalid username or password")
		return
	case errors.Is(err, backend.ErrInactive):
		respond.Error(w, http.StatusForbidden, "Account is deactivated")
		return
	case err != nil:
		fail(w, h.logger, "login", err)
		return
	}
	token, err := h.tokens.Generate(user)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respond.JSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}
