package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hongminglow/clevo-client/internal/booking"
	"github.com/hongminglow/clevo-client/internal/models"
	"github.com/hongminglow/clevo-client/internal/models/dto"
	"github.com/hongminglow/clevo-client/internal/toast"
)

// CitizenService is the subset of the citizen API the dashboard calls.
type CitizenService interface {
	booking.Service
	ListSlots(ctx context.Context) ([]models.PickupSlot, error)
	ListBookings(ctx context.Context) ([]models.Booking, error)
	TotalRewards(ctx context.Context) (float64, error)
	AvailableRewards(ctx context.Context) ([]models.Reward, error)
	RedeemReward(ctx context.Context, req dto.RewardRedeemRequest) (string, error)
}

// Citizen is the citizen's dashboard.
type Citizen struct {
	view
	svc CitizenService

	Slots       []models.PickupSlot
	Bookings    []models.Booking
	TotalPoints float64
	Rewards     []models.Reward

	// Booking is the slot-booking dialog; a successful booking re-syncs.
	Booking *booking.Form
}

// NewCitizen creates an empty dashboard; call Load to fill it.
func NewCitizen(svc CitizenService, notifier toast.Notifier, logger *slog.Logger) *Citizen {
	c := &Citizen{view: view{notifier: notifier, logger: logger}, svc: svc}
	c.Booking = booking.NewForm(svc, notifier, func(ctx context.Context) { c.Resync(ctx) })
	return c
}

// Load fetches slots, bookings, point balance, and the rewards catalog.
func (c *Citizen) Load(ctx context.Context) bool {
	var (
		slots    []models.PickupSlot
		bookings []models.Booking
		total    float64
		rewards  []models.Reward
	)
	return c.load(ctx,
		func() {
			c.Slots, c.Bookings, c.TotalPoints, c.Rewards = slots, bookings, total, rewards
		},
		func(ctx context.Context) (err error) { slots, err = c.svc.ListSlots(ctx); return },
		func(ctx context.Context) (err error) { bookings, err = c.svc.ListBookings(ctx); return },
		func(ctx context.Context) (err error) { total, err = c.svc.TotalRewards(ctx); return },
		func(ctx context.Context) (err error) { rewards, err = c.svc.AvailableRewards(ctx); return },
	)
}

// Resync re-fetches what a booking changes: bookings, slots, and points.
func (c *Citizen) Resync(ctx context.Context) bool {
	var (
		slots    []models.PickupSlot
		bookings []models.Booking
		total    float64
	)
	return c.load(ctx,
		func() { c.Slots, c.Bookings, c.TotalPoints = slots, bookings, total },
		func(ctx context.Context) (err error) { bookings, err = c.svc.ListBookings(ctx); return },
		func(ctx context.Context) (err error) { slots, err = c.svc.ListSlots(ctx); return },
		func(ctx context.Context) (err error) { total, err = c.svc.TotalRewards(ctx); return },
	)
}

// OpenBooking opens the booking dialog for slot.
func (c *Citizen) OpenBooking(ctx context.Context, slot models.PickupSlot) *booking.Form {
	c.Booking.Open(ctx, slot)
	return c.Booking
}

// AvailableSlots returns the slots that still have spots.
func (c *Citizen) AvailableSlots() []models.PickupSlot {
	var out []models.PickupSlot
	for _, s := range c.Slots {
		if booking.Bookable(s) {
			out = append(out, s)
		}
	}
	return out
}

// Upcoming returns bookings not yet collected or cancelled.
func (c *Citizen) Upcoming() []models.Booking {
	return filterBookings(c.Bookings, models.StatusPending, models.StatusConfirmed)
}

// Completed returns collected bookings.
func (c *Citizen) Completed() []models.Booking {
	return filterBookings(c.Bookings, models.StatusCollected)
}

// CanRedeem reports whether the held balance covers reward.
func (c *Citizen) CanRedeem(reward models.Reward) bool {
	return c.TotalPoints >= float64(reward.Points)
}

// Redeem spends points on reward and refreshes the balance.
func (c *Citizen) Redeem(ctx context.Context, reward models.Reward) bool {
	if !c.CanRedeem(reward) {
		c.notifier.Notify(toast.Error(fmt.Sprintf("Insufficient eco-points: %s costs %d", reward.Name, reward.Points)))
		return false
	}

	c.Busy = true
	defer func() { c.Busy = false }()

	msg, err := c.svc.RedeemReward(ctx, dto.RewardRedeemRequest{RewardID: reward.ID})
	if err != nil {
		c.notifier.Notify(toast.FromError(err, "Failed to redeem reward"))
		return false
	}
	if msg == "" {
		msg = "Reward redeemed successfully"
	}
	c.notifier.Notify(toast.Success("Success!", msg))

	total, err := c.svc.TotalRewards(ctx)
	if err != nil {
		c.notifier.Notify(toast.FromError(err, "Failed to fetch total rewards"))
		return true
	}
	c.TotalPoints = total
	return true
}

func filterBookings(bookings []models.Booking, statuses ...models.BookingStatus) []models.Booking {
	var out []models.Booking
	for _, b := range bookings {
		for _, s := range statuses {
			if b.Status == s {
				out = append(out, b)
				break
			}
		}
	}
	return out
}
