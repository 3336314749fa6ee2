package api

import (
	"context"
	"net/http"

	"github.com/hongminglow/clevo-client/internal/models"
	"github.com/hongminglow/clevo-client/internal/models/dto"
)

// CitizenAPI groups the /citizen endpoints.
type CitizenAPI struct{ c *Client }

// ListSlots returns the pickup slots open to citizens. GET /citizen/slots.
func (a CitizenAPI) ListSlots(ctx context.Context) ([]models.PickupSlot, error) {
	return doJSON[[]models.PickupSlot](ctx, a.c, call{
		op: "list slots", method: http.MethodGet, path: "/citizen/slots",
		fail: "Failed to fetch slots",
	})
}

// ListBookings returns the signed-in citizen's bookings. GET /citizen/bookings.
func (a CitizenAPI) ListBookings(ctx context.Context) ([]models.Booking, error) {
	return doJSON[[]models.Booking](ctx, a.c, call{
		op: "list bookings", method: http.MethodGet, path: "/citizen/bookings",
		fail: "Failed to fetch bookings",
	})
}

// BookSlot reserves a slot. Only the slot, category, and estimated quantity
// are sent.
func (a CitizenAPI) BookSlot(ctx context.Context, req dto.BookingRequest) (models.Booking, error) {
	return doJSON[models.Booking](ctx, a.c, call{
		op: "book slot", method: http.MethodPost, path: "/citizen/book", body: req,
		fail: "Failed to book slot",
	})
}

// TotalRewards returns the citizen's eco-point balance.
func (a CitizenAPI) TotalRewards(ctx context.Context) (float64, error) {
	return doJSON[float64](ctx, a.c, call{
		op: "total rewards", method: http.MethodGet, path: "/citizen/rewards/total",
		fail: "Failed to fetch total rewards",
	})
}

// AvailableRewards returns the rewards catalog. GET /citizen/rewards/available.
func (a CitizenAPI) AvailableRewards(ctx context.Context) ([]models.Reward, error) {
	return doJSON[[]models.Reward](ctx, a.c, call{
		op: "available rewards", method: http.MethodGet, path: "/citizen/rewards/available",
		fail: "Failed to fetch available rewards",
	})
}

// RedeemReward returns the backend's plain-text confirmation.
func (a CitizenAPI) RedeemReward(ctx context.Context, req dto.RewardRedeemRequest) (string, error) {
	return doText(ctx, a.c, call{
		op: "redeem reward", method: http.MethodPost, path: "/citizen/rewards/redeem", body: req,
		fail: "Failed to redeem reward",
	})
}

// ListWasteCategories feeds the booking dialog. GET /citizen/waste-categories.
func (a CitizenAPI) ListWasteCategories(ctx context.Context) ([]models.WasteCategory, error) {
	return doJSON[[]models.WasteCategory](ctx, a.c, call{
		op: "list waste categories", method: http.MethodGet, path: "/citizen/waste-categories",
		fail: "Failed to fetch waste categories",
	})
}
