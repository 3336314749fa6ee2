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

// RecyclerHandler serves /recycler routes.
type RecyclerHandler struct {
	backend *backend.Backend
	guard   *Guard
	logger  *slog.Logger
}

// NewRecyclerHandler constructs the handler.
func NewRecyclerHandler(b *backend.Backend, guard *Guard, logger *slog.Logger) *RecyclerHandler {
	return &RecyclerHandler{backend: b, guard: guard, logger: logger}
}

// Register attaches recycler routes to the mux.
func (h *RecyclerHandler) Register(mux *http.ServeMux) {
	route := func(pattern string, fn http.HandlerFunc) {
		mux.HandleFunc(pattern, h.guard.Require(fn, models.Recycler))
	}
	route("GET "+Prefix+"/recycler/slots/{recyclerId}", h.slots)
	route("POST "+Prefix+"/recycler/slots", h.createSlot)
	route("PUT "+Prefix+"/recycler/slots/{id}", h.updateSlot)
	route("DELETE "+Prefix+"/recycler/slots/{id}", h.deleteSlot)
	route("GET "+Prefix+"/recycler/bookings/ward/{wardId}", h.byWard)
	route("GET "+Prefix+"/recycler/bookings/slot/{slotId}", h.bySlot)
	route("PUT "+Prefix+"/recycler/bookings/{id}/status", h.updateStatus)
}

func (h *RecyclerHandler) slots(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("recyclerId") != caller(r).ID {
		respond.Error(w, http.StatusForbidden, "recyclers may only list their own slots")
		return
	}
	respond.JSON(w, http.StatusOK, h.backend.RecyclerSlots(caller(r).ID))
}

func (h *RecyclerHandler) createSlot(w http.ResponseWriter, r *http.Request) {
	var req dto.SlotRequest
	if !decode(w, r, &req) {
		return
	}
	slot, err := h.backend.CreateSlot(caller(r).ID, req)
	if err != nil {
		fail(w, h.logger, "create slot", err)
		return
	}
	respond.JSON(w, http.StatusCreated, slot)
}

func (h *RecyclerHandler) updateSlot(w http.ResponseWriter, r *http.Request) {
	var req dto.SlotRequest
	if !decode(w, r, &req) {
		return
	}
	slot, err := h.backend.UpdateSlot(caller(r).ID, r.PathValue("id"), req)
	if err != nil {
		fail(w, h.logger, "update slot", err)
		return
	}
	respond.JSON(w, http.StatusOK, slot)
}

func (h *RecyclerHandler) deleteSlot(w http.ResponseWriter, r *http.Request) {
	if err := h.backend.DeleteSlot(caller(r).ID, r.PathValue("id")); err != nil {
		fail(w, h.logger, "delete slot", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RecyclerHandler) byWard(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.backend.BookingsByWard(r.PathValue("wardId")))
}

func (h *RecyclerHandler) bySlot(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.backend.BookingsBySlot(r.PathValue("slotId")))
}

func (h *RecyclerHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateBookingStatusRequest
	if !decode(w, r, &req) {
		return
	}
	updated, err := h.backend.UpdateStatus(caller(r).ID, r.PathValue("id"), req.Status, req.ActualQuantity)
	if err != nil {
		fail(w, h.logger, "update booking status", err)
		return
	}
	respond.Text(w, http.StatusOK, fmt.Sprintf("Booking %s is now %s", updated.ConfirmationCode, updated.Status))
}
