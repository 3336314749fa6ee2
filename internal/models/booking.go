package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCollected BookingStatus = "COLLECTED"
	StatusCancelled BookingStatus = "CANCELLED"
)

var statusRank = map[BookingStatus]int{
	StatusPending:   0,
	StatusConfirmed: 1,
	StatusCollected: 2,
}

// CanTransition reports whether a booking may move from s to next.
// Status only advances forward; cancellation is allowed from any non-terminal state.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	return ok && to > from
}

// Terminal reports whether no further transition is possible.
func (s BookingStatus) Terminal() bool {
	return s == StatusCollected || s == StatusCancelled
}

// Booking is a citizen's reservation against a slot.
type Booking struct {
	ID                string         `json:"id"`
	Citizen           *User          `json:"citizen,omitempty"`
	PickupSlot        *PickupSlot    `json:"pickupSlot,omitempty"`
	WasteCategory     *WasteCategory `json:"wasteCategory,omitempty"`
	EstimatedQuantity float64        `json:"estimatedQuantity"`
	ActualQuantity    float64        `json:"actualQuantity"`
	Status            BookingStatus  `json:"status"`
	ConfirmationCode  string         `json:"confirmationCode"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

// EarnedPoints returns actualQuantity × category rate, or 0 when the booking
// is not collected or its category is unknown.
func (b Booking) EarnedPoints() float64 {
	if b.Status != StatusCollected || b.WasteCategory == nil {
		return 0
	}
	return b.ActualQuantity * b.WasteCategory.EcoPointsPerUnit
}
