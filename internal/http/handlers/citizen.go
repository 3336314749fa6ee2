package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hongminglow/clevo-client/internal/backend"
	"github.com/hongminglow/clevo-client/internal/http/respond"
	"github.com/hongminglow/clevo-client/internal/models"
	"github.com/hongminglow/clevo-client/internal/models/dto"
)

// CitizenHandler serves /citizen routes.
type CitizenHandler struct {
	backend *backend.Backend
	guard   *Guard
	logger  *slog.Logger
}

// NewCitizenHandler constructs the handler.
func NewCitizenHandler(b *backend.Backend, guard *Guard, logger *slog.Logger) *CitizenHandler {
	return &CitizenHandler{backend: b, guard: guard, logger: logger}
}

// Register attaches citizen routes to the mux.
func (h *CitizenHandler) Register(mux *http.ServeMux) {
	route := func(pattern string, fn http.HandlerFunc) {
		mux.HandleFunc(pattern, h.guard.Require(fn, models.Citizen))
	}
	route("GET "+Prefix+"/citizen/slots", h.slots)
	route("GET "+Prefix+"/citizen/bookings", h.bookings)
	route("POST "+Prefix+"/citizen/book", h.book)
	route("GET "+Prefix+"/citizen/rewards/total", h.total)
	route("GET "+Prefix+"/citizen/rewards/available", h.rewards)
	route("POST "+Prefix+"/citizen/rewards/redeem", h.redeem)
	route("GET "+Prefix+"/citizen/waste-categories", h.categories)
}

func (h *CitizenHandler) slots(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, h.backend.ActiveSlots())
}

func (h *CitizenHandler) bookings(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.backend.CitizenBookings(caller(r).ID))
}

func (h *CitizenHandler) book(w http.ResponseWriter, r *http.Request) {
	var req dto.BookingRequest
	if !decode(w, r, &req) {
		return
	}
	booked, err := h.backend.Book(caller(r).ID, req)
	if err != nil {
		fail(w, h.logger, "book slot", err)
		return
	}
	respond.JSON(w, http.StatusCreated, booked)
}

func (h *CitizenHandler) total(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.backend.Points(caller(r).ID))
}

func (h *CitizenHandler) rewards(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, h.backend.Rewards())
}

func (h *CitizenHandler) redeem(w http.ResponseWriter, r *http.Request) {
	var req dto.RewardRedeemRequest
	if !decode(w, r, &req) {
		return
	}
	id := caller(r).ID
	reward, err := h.backend.Redeem(id, req.RewardID)
	if err != nil {
		fail(w, h.logger, "redeem reward", err)
		return
	}
	respond.Text(w, http.StatusOK, fmt.Sprintf("Redeemed %s. Remaining balance: %.1f", reward.Name, h.backend.Points(id)))
}

func (h *CitizenHandler) categories(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, h.backend.Categories())
}
