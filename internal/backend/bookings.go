package backend

import (
	"sort"

	"github.com/hongminglow/clevo-client/internal/models"
)

// snapshot copies a booking so callers never share the live slot pointer.
func snapshot(bk *models.Booking) models.Booking {
	out := *bk
	if bk.PickupSlot != nil {
		slot := *bk.PickupSlot
		out.PickupSlot = &slot
	}
	return out
}

func (b *Backend) bookingsWhere(keep func(*models.Booking) bool) []models.Booking {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []models.Booking{}
	for _, bk := range b.bookings {
		if keep(bk) {
			out = append(out, snapshot(bk))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// CitizenBookings lists a citizen's bookings, oldest first.
func (b *Backend) CitizenBookings(citizenID string) []models.Booking {
	return b.bookingsWhere(func(bk *models.Booking) bool {
		return bk.Citizen != nil && bk.Citizen.ID == citizenID
	})
}

// BookingsByWard lists bookings against slots in a ward.
func (b *Backend) BookingsByWard(wardID string) []models.Booking {
	return b.bookingsWhere(func(bk *models.Booking) bool {
		return bk.PickupSlot != nil && bk.PickupSlot.WardID() == wardID
	})
}

// BookingsBySlot lists bookings against one slot.
func (b *Backend) BookingsBySlot(slotID string) []models.Booking {
	return b.bookingsWhere(func(bk *models.Booking) bool {
		return bk.PickupSlot != nil && bk.PickupSlot.ID == slotID
	})
}

// UpdateStatus moves a booking forward. Collecting credits the citizen with
// actual quantity × category rate; the estimate stands in when no actual
// quantity is given. Cancelling frees the spot.
func (b *Backend) UpdateStatus(recyclerID, bookingID string, next models.BookingStatus, actual *float64) (models.Booking, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	bk, ok := b.bookings[bookingID]
	if !ok {
		return models.Booking{}, ErrNotFound
	}
	if bk.PickupSlot == nil || bk.PickupSlot.Recycler == nil || bk.PickupSlot.Recycler.ID != recyclerID {
		return models.Booking{}, ErrForbidden
	}
	if !bk.Status.CanTransition(next) {
		return models.Booking{}, ErrInvalidTransition
	}

	switch next {
	case models.StatusCollected:
		qty := bk.EstimatedQuantity
		if actual != nil {
			if *actual <= 0 {
				return models.Booking{}, ErrInvalidInput
			}
			qty = *actual
		}
		bk.ActualQuantity = qty
		if bk.Citizen != nil && bk.WasteCategory != nil {
			b.points[bk.Citizen.ID] += qty * bk.WasteCategory.EcoPointsPerUnit
		}
	case models.StatusCancelled:
		if bk.PickupSlot.CurrentBookingsCount > 0 {
			bk.PickupSlot.CurrentBookingsCount--
		}
	}
	bk.Status = next
	bk.UpdatedAt = b.now()
	return snapshot(bk), nil
}
