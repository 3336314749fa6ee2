package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/hongminglow/clevo-client/internal/models"
	"github.com/hongminglow/clevo-client/internal/models/dto"
)

// RecyclerAPI groups the /recycler endpoints.
type RecyclerAPI struct{ c *Client }

// ListSlots returns the slots recyclerID published. GET /recycler/slots/{recyclerID}.
func (a RecyclerAPI) ListSlots(ctx context.Context, recyclerID string) ([]models.PickupSlot, error) {
	return doJSON[[]models.PickupSlot](ctx, a.c, call{
		op: "list recycler slots", method: http.MethodGet, path: "/recycler/slots/" + url.PathEscape(recyclerID),
		fail: "Failed to fetch recycler slots",
	})
}

// CreateSlot publishes a pickup slot. POST /recycler/slots.
func (a RecyclerAPI) CreateSlot(ctx context.Context, req dto.SlotRequest) (models.PickupSlot, error) {
	return doJSON[models.PickupSlot](ctx, a.c, call{
		op: "create slot", method: http.MethodPost, path: "/recycler/slots", body: req,
		fail: "Failed to create slot",
	})
}

// UpdateSlot replaces a slot's window, capacity and availability. PUT /recycler/slots/{id}.
func (a RecyclerAPI) UpdateSlot(ctx context.Context, id string, req dto.SlotRequest) (models.PickupSlot, error) {
	return doJSON[models.PickupSlot](ctx, a.c, call{
		op: "update slot", method: http.MethodPut, path: "/recycler/slots/" + url.PathEscape(id), body: req,
		fail: "Failed to update slot",
	})
}

// DeleteSlot removes a slot. DELETE /recycler/slots/{id}.
func (a RecyclerAPI) DeleteSlot(ctx context.Context, id string) error {
	return doNoContent(ctx, a.c, call{
		op: "delete slot", method: http.MethodDelete, path: "/recycler/slots/" + url.PathEscape(id),
		fail: "Failed to delete slot",
	})
}

// BookingsByWard returns the bookings against slots in a ward. GET /recycler/bookings/ward/{wardID}.
func (a RecyclerAPI) BookingsByWard(ctx context.Context, wardID string) ([]models.Booking, error) {
	return doJSON[[]models.Booking](ctx, a.c, call{
		op: "bookings by ward", method: http.MethodGet, path: "/recycler/bookings/ward/" + url.PathEscape(wardID),
		fail: "Failed to fetch bookings",
	})
}

// BookingsBySlot returns the bookings against one slot. GET /recycler/bookings/slot/{slotID}.
func (a RecyclerAPI) BookingsBySlot(ctx context.Context, slotID string) ([]models.Booking, error) {
	return doJSON[[]models.Booking](ctx, a.c, call{
		op: "bookings by slot", method: http.MethodGet, path: "/recycler/bookings/slot/" + url.PathEscape(slotID),
		fail: "Failed to fetch bookings",
	})
}

// UpdateBookingStatus returns the backend's plain-text confirmation.
func (a RecyclerAPI) UpdateBookingStatus(ctx context.Context, bookingID string, req dto.UpdateBookingStatusRequest) (string, error) {
	return doText(ctx, a.c, call{
		op: "update booking status", method: http.MethodPut, path: "/recycler/bookings/" + url.PathEscape(bookingID) + "/status", body: req,
		fail: "Failed to update booking status",
	})
}

// ListWards reads the shared ward listing for the slot form.
func (a RecyclerAPI) ListWards(ctx context.Context) ([]models.Ward, error) {
	return WardsAPI{c: a.c}.List(ctx)
}
