// Package booking is the citizen's slot-booking dialog: the advisory point
// estimate, the spots-left check, and the submit flow.
package booking

import (
	"context"
	"strconv"
	"strings"

	"github.com/hongminglow/clevo-client/internal/models"
	"github.com/hongminglow/clevo-client/internal/models/dto"
	"github.com/hongminglow/clevo-client/internal/toast"
	"github.com/hongminglow/clevo-client/internal/validation"
)

// Service is the subset of the citizen API the dialog calls.
type Service interface {
	ListWasteCategories(ctx context.Context) ([]models.WasteCategory, error)
	BookSlot(ctx context.Context, req dto.BookingRequest) (models.Booking, error)
}

// EstimatePoints is category rate × quantity. It is shown before submission
// only and never sent. An unknown category or unparsable quantity yields 0.
func EstimatePoints(category *models.WasteCategory, quantity string) float64 {
	if category == nil {
		return 0
	}
	q, err := strconv.ParseFloat(strings.TrimSpace(quantity), 64)
	if err != nil {
		return 0
	}
	return category.EcoPointsPerUnit * q
}

// FormatPoints renders points with one decimal, as the dialog displays them.
func FormatPoints(points float64) string {
	return strconv.FormatFloat(points, 'f', 1, 64)
}

// Bookable reports whether the slot still has spots. The backend decides
// races between citizens; this check is advisory.
func Bookable(slot models.PickupSlot) bool {
	return slot.SpotsLeft() > 0
}

var requestMessages = validation.Messages{
	"SlotID":            "Please choose a slot",
	"WasteCategoryID":   "Please choose a waste category",
	"EstimatedQuantity": "Please enter a valid quantity",
}

// Form holds the dialog state for booking one slot.
type Form struct {
	svc       Service
	notifier  toast.Notifier
	onSuccess func(context.Context)

	Slot       *models.PickupSlot
	Categories []models.WasteCategory
	CategoryID string
	Quantity   string
	Loading    bool
	IsOpen     bool

	// Booked is the booking the backend accepted on the last successful
	// submit; it carries the confirmation code.
	Booked *models.Booking
}

// NewForm creates a closed dialog. onSuccess runs after a booking is accepted
// so the caller can re-sync from the backend.
func NewForm(svc Service, notifier toast.Notifier, onSuccess func(context.Context)) *Form {
	return &Form{svc: svc, notifier: notifier, onSuccess: onSuccess}
}

// Open shows the dialog for slot and loads the category list.
func (f *Form) Open(ctx context.Context, slot models.PickupSlot) {
	f.Slot = &slot
	f.IsOpen = true
	categories, err := f.svc.ListWasteCategories(ctx)
	if err != nil {
		f.notifier.Notify(toast.Error("Failed to load waste categories"))
		return
	}
	f.Categories = categories
}

// Close hides the dialog.
func (f *Form) Close() {
	f.IsOpen = false
}

// SelectedCategory returns the chosen category, or nil.
func (f *Form) SelectedCategory() *models.WasteCategory {
	for i := range f.Categories {
		if f.Categories[i].ID == f.CategoryID {
			return &f.Categories[i]
		}
	}
	return nil
}

// Estimate returns the advisory point estimate for the current input.
func (f *Form) Estimate() float64 {
	return EstimatePoints(f.SelectedCategory(), f.Quantity)
}

// CanSubmit mirrors the submit button's enabled state.
func (f *Form) CanSubmit() bool {
	return f.Slot != nil && Bookable(*f.Slot) && !f.Loading &&
		f.CategoryID != "" && strings.TrimSpace(f.Quantity) != ""
}

// Submit books the slot. Outcomes are reported through toasts; it returns
// whether the booking was accepted.
func (f *Form) Submit(ctx context.Context) bool {
	f.Booked = nil
	if f.Slot == nil || f.CategoryID == "" || strings.TrimSpace(f.Quantity) == "" {
		return false
	}
	if !Bookable(*f.Slot) {
		f.notifier.Notify(toast.Error("No spots left in this slot"))
		return false
	}
	quantity, err := strconv.ParseFloat(strings.TrimSpace(f.Quantity), 64)
	if err != nil {
		quantity = 0
	}
	req := dto.BookingRequest{
		SlotID:            f.Slot.ID,
		WasteCategoryID:   f.CategoryID,
		EstimatedQuantity: quantity,
	}
	if err := validation.Struct(req, requestMessages); err != nil {
		f.notifier.Notify(toast.FromError(err, "Failed to book slot"))
		return false
	}

	f.Loading = true
	defer func() { f.Loading = false }()

	booked, err := f.svc.BookSlot(ctx, req)
	if err != nil {
		f.notifier.Notify(toast.FromError(err, "Failed to book slot"))
		return false
	}
	f.Booked = &booked

	f.notifier.Notify(toast.Success("Success!", "Slot booked successfully. You will receive a confirmation code."))
	if f.onSuccess != nil {
		f.onSuccess(ctx)
	}
	f.IsOpen = false
	f.CategoryID = ""
	f.Quantity = ""
	return true
}
