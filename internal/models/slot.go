package models

import "time"

// PickupSlot is a recycler-published, capacity-bounded time window.
type PickupSlot struct {
	ID                   string     `json:"id,omitempty"`
	Recycler             *User      `json:"recycler,omitempty"`
	Ward                 *Ward      `json:"ward,omitempty"`
	StartTime            time.Time  `json:"startTime"`
	EndTime              time.Time  `json:"endTime"`
	Capacity             int        `json:"capacity"`
	CurrentBookingsCount int        `json:"currentBookingsCount"`
	IsActive             bool       `json:"isActive"`
	CreatedAt            *time.Time `json:"createdAt,omitempty"`
	UpdatedAt            *time.Time `json:"updatedAt,omitempty"`
}

// SpotsLeft returns how many bookings the slot can still take, never below zero.
func (s PickupSlot) SpotsLeft() int {
	if left := s.Capacity - s.CurrentBookingsCount; left > 0 {
		return left
	}
	return 0
}

// WardID returns the id of the slot's ward, or "" when the ward is not embedded.
func (s PickupSlot) WardID() string {
	if s.Ward == nil {
		return ""
	}
	return s.Ward.ID
}
