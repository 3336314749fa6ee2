package handlers

import (
	"log/slog"
	"net/http"

	"github.com/hongminglow/clevo-client/internal/backend"
	"github.com/hongminglow/clevo-client/internal/http/respond"
	"github.com/hongminglow/clevo-client/internal/models"
	"github.com/hongminglow/clevo-client/internal/models/dto"
)

// AuthorityHandler serves /authority routes and the shared ward list.
type AuthorityHandler struct {
	backend *backend.Backend
	guard   *Guard
	logger  *slog.Logger
}

// NewAuthorityHandler constructs the handler.
func NewAuthorityHandler(b *backend.Backend, guard *Guard, logger *slog.Logger) *AuthorityHandler {
	return &AuthorityHandler{backend: b, guard: guard, logger: logger}
}

// Register attaches authority routes to the mux.
func (h *AuthorityHandler) Register(mux *http.ServeMux) {
	route := func(pattern string, fn http.HandlerFunc) {
		mux.HandleFunc(pattern, h.guard.Require(fn, models.Authority))
	}
	route("GET "+Prefix+"/authority/users", h.users)
	route("PUT "+Prefix+"/authority/users/{id}/activate", h.setActive(true))
	route("PUT "+Prefix+"/authority/users/{id}/deactivate", h.setActive(false))
	route("GET "+Prefix+"/authority/wards", h.wards)
	route("POST "+Prefix+"/authority/wards", h.addWard)
	route("GET "+Prefix+"/authority/waste-categories", h.categories)
	route("POST "+Prefix+"/authority/waste-categories", h.addCategory)
	route("GET "+Prefix+"/authority/dashboard/{series}", h.series)

	mux.HandleFunc("GET "+Prefix+"/wards", h.guard.Require(h.wards))
}

func (h *AuthorityHandler) users(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, h.backend.Users())
}

func (h *AuthorityHandler) setActive(active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == caller(r).ID && !active {
			respond.Error(w, http.StatusBadRequest, "authorities cannot deactivate themselves")
			return
		}
		user, err := h.backend.SetActive(id, active)
		if err != nil {
			fail(w, h.logger, "set active", err)
			return
		}
		respond.JSON(w, http.StatusOK, user)
	}
}

func (h *AuthorityHandler) wards(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, h.backend.Wards())
}

func (h *AuthorityHandler) addWard(w http.ResponseWriter, r *http.Request) {
	var req dto.WardRequest
	if !decode(w, r, &req) {
		return
	}
	ward, err := h.backend.AddWard(caller(r).ID, req)
	if err != nil {
		fail(w, h.logger, "add ward", err)
		return
	}
	respond.JSON(w, http.StatusCreated, ward)
}

func (h *AuthorityHandler) categories(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, h.backend.Categories())
}

func (h *AuthorityHandler) addCategory(w http.ResponseWriter, r *http.Request) {
	var req dto.WasteCategoryRequest
	if !decode(w, r, &req) {
		return
	}
	cat, err := h.backend.AddCategory(req)
	if err != nil {
		fail(w, h.logger, "add waste category", err)
		return
	}
	respond.JSON(w, http.StatusCreated, cat)
}

func (h *AuthorityHandler) series(w http.ResponseWriter, r *http.Request) {
	var points []backend.Point
	switch r.PathValue("series") {
	case "waste-trend":
		points = h.backend.WasteTrend()
	case "waste-by-type":
		points = h.backend.WasteByType()
	case "waste-by-region":
		points = h.backend.WasteByRegion()
	case "eco-points-distribution":
		points = h.backend.EcoPointsDistribution()
	default:
		respond.Error(w, http.StatusNotFound, "unknown dashboard series")
		return
	}
	respond.JSON(w, http.StatusOK, points)
}
