package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hongminglow/clevo-client/internal/models"
	"github.com/hongminglow/clevo-client/internal/models/dto"
	"github.com/hongminglow/clevo-client/internal/toast"
	"github.com/hongminglow/clevo-client/internal/validation"
)

// RecyclerService is the subset of the recycler API the dashboard calls.
type RecyclerService interface {
	ListSlots(ctx context.Context, recyclerID string) ([]models.PickupSlot, error)
	CreateSlot(ctx context.Context, req dto.SlotRequest) (models.PickupSlot, error)
	DeleteSlot(ctx context.Context, id string) error
	BookingsByWard(ctx context.Context, wardID string) ([]models.Booking, error)
	UpdateBookingStatus(ctx context.Context, bookingID string, req dto.UpdateBookingStatusRequest) (string, error)
	ListWards(ctx context.Context) ([]models.Ward, error)
}

// Recycler is the recycler's dashboard, scoped to one recycler and the ward
// whose bookings it works.
type Recycler struct {
	view
	svc RecyclerService

	RecyclerID string
	WardID     string

	Slots    []models.PickupSlot
	Bookings []models.Booking
	// Wards feeds the slot form's ward picker.
	Wards []models.Ward
}

// NewRecycler creates an empty dashboard; call Load to fill it.
func NewRecycler(svc RecyclerService, notifier toast.Notifier, logger *slog.Logger, recyclerID, wardID string) *Recycler {
	return &Recycler{
		view:       view{notifier: notifier, logger: logger},
		svc:        svc,
		RecyclerID: recyclerID,
		WardID:     wardID,
	}
}

// Load fetches the recycler's slots and the bookings of its ward.
func (r *Recycler) Load(ctx context.Context) bool {
	var (
		slots    []models.PickupSlot
		bookings []models.Booking
	)
	fetches := []func(context.Context) error{
		func(ctx context.Context) (err error) { slots, err = r.svc.ListSlots(ctx, r.RecyclerID); return },
	}
	if r.WardID != "" {
		fetches = append(fetches, func(ctx context.Context) (err error) {
			bookings, err = r.svc.BookingsByWard(ctx, r.WardID)
			return
		})
	}
	return r.load(ctx, func() { r.Slots, r.Bookings = slots, bookings }, fetches...)
}

// Pending returns bookings awaiting collection.
func (r *Recycler) Pending() []models.Booking {
	return filterBookings(r.Bookings, models.StatusPending)
}

// Collected returns collected bookings.
func (r *Recycler) Collected() []models.Booking {
	return filterBookings(r.Bookings, models.StatusCollected)
}

// DeleteSlot deletes a slot and drops it from the local list.
func (r *Recycler) DeleteSlot(ctx context.Context, slotID string) bool {
	return r.mutate(ctx, "Slot deleted successfully", "Failed to delete slot", func(ctx context.Context) error {
		if err := r.svc.DeleteSlot(ctx, slotID); err != nil {
			return err
		}
		kept := r.Slots[:0:0]
		for _, s := range r.Slots {
			if s.ID != slotID {
				kept = append(kept, s)
			}
		}
		r.Slots = kept
		return nil
	})
}

// UpdateStatus moves a booking to status and patches it locally. Moves the
// booking's current status does not allow are refused without a request.
func (r *Recycler) UpdateStatus(ctx context.Context, bookingID string, status models.BookingStatus, actualQuantity *float64) bool {
	idx := r.bookingIndex(bookingID)
	if idx >= 0 && !r.Bookings[idx].Status.CanTransition(status) {
		r.notifier.Notify(toast.Error(fmt.Sprintf("Cannot change booking from %s to %s", r.Bookings[idx].Status, status)))
		return false
	}
	req := dto.UpdateBookingStatusRequest{Status: status, ActualQuantity: actualQuantity}
	return r.mutate(ctx, "Booking status updated successfully", "Failed to update booking status", func(ctx context.Context) error {
		if _, err := r.svc.UpdateBookingStatus(ctx, bookingID, req); err != nil {
			return err
		}
		if idx >= 0 {
			r.Bookings[idx].Status = status
			if actualQuantity != nil {
				r.Bookings[idx].ActualQuantity = *actualQuantity
			}
		}
		return nil
	})
}

// MarkCollected records the collected quantity and closes the booking.
func (r *Recycler) MarkCollected(ctx context.Context, bookingID string, actualQuantity float64) bool {
	if actualQuantity <= 0 {
		r.notifier.Notify(toast.Error("Collected quantity must be greater than 0"))
		return false
	}
	return r.UpdateStatus(ctx, bookingID, models.StatusCollected, &actualQuantity)
}

func (r *Recycler) bookingIndex(id string) int {
	for i := range r.Bookings {
		if r.Bookings[i].ID == id {
			return i
		}
	}
	return -1
}

// OpenSlotForm loads the ward options for the slot form.
func (r *Recycler) OpenSlotForm(ctx context.Context) bool {
	wards, err := r.svc.ListWards(ctx)
	if err != nil {
		r.notifier.Notify(toast.Error("Failed to load options"))
		return false
	}
	r.Wards = wards
	return true
}

var slotMessages = validation.Messages{
	"WardID":    "Please fill in all required fields",
	"StartTime": "Please fill in all required fields",
	"EndTime":   "End time must be after start time",
	"Capacity":  "Capacity must be greater than 0",
}

// CreateSlot publishes a slot and then reloads the whole dashboard.
func (r *Recycler) CreateSlot(ctx context.Context, req dto.SlotRequest) bool {
	if req.EndTime.IsZero() {
		r.notifier.Notify(toast.Error("Please fill in all required fields"))
		return false
	}
	if err := validation.Struct(req, slotMessages); err != nil {
		r.notifier.Notify(toast.FromError(err, "Please fill in all required fields"))
		return false
	}
	ok := r.mutate(ctx, "Pickup slot created successfully", "Failed to create slot", func(ctx context.Context) error {
		_, err := r.svc.CreateSlot(ctx, req)
		return err
	})
	if ok {
		r.Load(ctx)
	}
	return ok
}
