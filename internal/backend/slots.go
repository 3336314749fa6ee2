package backend

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/hongminglow/clevo-client/internal/models"
	"github.com/hongminglow/clevo-client/internal/models/dto"
)

// ActiveSlots lists slots open to citizens, soonest first.
func (b *Backend) ActiveSlots() []models.PickupSlot {
	return b.slotsWhere(func(s *models.PickupSlot) bool { return s.IsActive })
}

// RecyclerSlots lists the slots a recycler published.
func (b *Backend) RecyclerSlots(recyclerID string) []models.PickupSlot {
	return b.slotsWhere(func(s *models.PickupSlot) bool {
		return s.Recycler != nil && s.Recycler.ID == recyclerID
	})
}

func (b *Backend) slotsWhere(keep func(*models.PickupSlot) bool) []models.PickupSlot {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []models.PickupSlot
	for _, s := range b.slots {
		if keep(s) {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	if out == nil {
		out = []models.PickupSlot{}
	}
	return out
}

// CreateSlot publishes a slot for recyclerID.
func (b *Backend) CreateSlot(recyclerID string, req dto.SlotRequest) (models.PickupSlot, error) {
	if req.Capacity <= 0 || !req.EndTime.After(req.StartTime) {
		return models.PickupSlot{}, ErrInvalidInput
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	ward, ok := b.wards[req.WardID]
	if !ok {
		return models.PickupSlot{}, ErrInvalidInput
	}
	owner, ok := b.accounts[recyclerID]
	if !ok {
		return models.PickupSlot{}, ErrNotFound
	}
	now := b.now()
	recycler := owner.user
	wardCopy := *ward
	s := &models.PickupSlot{
		ID:        uuid.NewString(),
		Recycler:  &recycler,
		Ward:      &wardCopy,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Capacity:  req.Capacity,
		IsActive:  req.IsActive,
		CreatedAt: &now,
		UpdatedAt: &now,
	}
	b.slots[s.ID] = s
	return *s, nil
}

// UpdateSlot edits a recycler's slot. Capacity may not drop below the
// bookings already taken.
func (b *Backend) UpdateSlot(recyclerID, id string, req dto.SlotRequest) (models.PickupSlot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, err := b.ownedSlot(recyclerID, id)
	if err != nil {
		return models.PickupSlot{}, err
	}
	if req.Capacity < s.CurrentBookingsCount || req.Capacity <= 0 || !req.EndTime.After(req.StartTime) {
		return models.PickupSlot{}, ErrInvalidInput
	}
	if req.WardID != "" && req.WardID != s.WardID() {
		ward, ok := b.wards[req.WardID]
		if !ok {
			return models.PickupSlot{}, ErrInvalidInput
		}
		wardCopy := *ward
		s.Ward = &wardCopy
	}
	now := b.now()
	s.StartTime, s.EndTime, s.Capacity, s.IsActive, s.UpdatedAt = req.StartTime, req.EndTime, req.Capacity, req.IsActive, &now
	return *s, nil
}

// DeleteSlot removes a recycler's slot unless it still has open bookings.
func (b *Backend) DeleteSlot(recyclerID, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.ownedSlot(recyclerID, id); err != nil {
		return err
	}
	for _, bk := range b.bookings {
		if bk.PickupSlot != nil && bk.PickupSlot.ID == id && !bk.Status.Terminal() {
			return ErrSlotHasBookings
		}
	}
	delete(b.slots, id)
	return nil
}

func (b *Backend) ownedSlot(recyclerID, id string) (*models.PickupSlot, error) {
	s, ok := b.slots[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.Recycler == nil || s.Recycler.ID != recyclerID {
		return nil, ErrForbidden
	}
	return s, nil
}

// Book reserves a spot in a slot for a citizen.
func (b *Backend) Book(citizenID string, req dto.BookingRequest) (models.Booking, error) {
	if req.EstimatedQuantity <= 0 {
		return models.Booking{}, ErrInvalidInput
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	citizen, ok := b.accounts[citizenID]
	if !ok {
		return models.Booking{}, ErrNotFound
	}
	s, ok := b.slots[req.SlotID]
	if !ok {
		return models.Booking{}, ErrNotFound
	}
	category, ok := b.categories[req.WasteCategoryID]
	if !ok {
		return models.Booking{}, ErrInvalidInput
	}
	if !s.IsActive {
		return models.Booking{}, ErrSlotInactive
	}
	if s.CurrentBookingsCount >= s.Capacity {
		return models.Booking{}, ErrSlotFull
	}
	s.CurrentBookingsCount++

	now := b.now()
	user := citizen.user
	cat := *category
	bk := &models.Booking{
		ID:                uuid.NewString(),
		Citizen:           &user,
		PickupSlot:        s,
		WasteCategory:     &cat,
		EstimatedQuantity: req.EstimatedQuantity,
		Status:            models.StatusPending,
		ConfirmationCode:  strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8]),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	b.bookings[bk.ID] = bk
	return snapshot(bk), nil
}
