package dto

import (
	"time"

	"github.com/hongminglow/clevo-client/internal/models"
)

// BookingRequest is what a citizen submits to reserve a slot. The point
// estimate shown before submission is never part of it.
type BookingRequest struct {
	SlotID            string  `json:"slotId" validate:"required"`
	WasteCategoryID   string  `json:"wasteCategoryId" validate:"required"`
	EstimatedQuantity float64 `json:"estimatedQuantity" validate:"gt=0"`
}

type RewardRedeemRequest struct {
	RewardID int64 `json:"rewardId"`
}

type UpdateBookingStatusRequest struct {
	Status         models.BookingStatus `json:"status"`
	ActualQuantity *float64             `json:"actualQuantity,omitempty"`
}

// SlotRequest creates or updates a pickup slot.
type SlotRequest struct {
	WardID    string    `json:"wardId" validate:"required"`
	StartTime time.Time `json:"startTime" validate:"required"`
	EndTime   time.Time `json:"endTime" validate:"required,gtfield=StartTime"`
	Capacity  int       `json:"capacity" validate:"gt=0"`
	IsActive  bool      `json:"isActive"`
}

type WardRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type WasteCategoryRequest struct {
	Name             string  `json:"name" validate:"required"`
	Description      string  `json:"description" validate:"required"`
	EcoPointsPerUnit float64 `json:"ecoPointsPerUnit" validate:"gt=0"`
}
