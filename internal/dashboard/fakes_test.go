package dashboard

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/hongminglow/clevo-client/internal/api"
	"github.com/hongminglow/clevo-client/internal/models"
	"github.com/hongminglow/clevo-client/internal/models/dto"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// calls counts invocations by name; safe for the concurrent batch fetches.
type calls struct {
	mu sync.Mutex
	n  map[string]int
}

func (c *calls) hit(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.n == nil {
		c.n = map[string]int{}
	}
	c.n[name]++
}

func (c *calls) count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n[name]
}

type fakeCitizen struct {
	calls
	slots      []models.PickupSlot
	bookings   []models.Booking
	total      float64
	rewards    []models.Reward
	categories []models.WasteCategory
	fail       map[string]error
	booked     []dto.BookingRequest
	redeemed   []int64
}

func (f *fakeCitizen) err(name string) error {
	f.hit(name)
	return f.fail[name]
}

func (f *fakeCitizen) ListSlots(context.Context) ([]models.PickupSlot, error) {
	return f.slots, f.err("slots")
}

func (f *fakeCitizen) ListBookings(context.Context) ([]models.Booking, error) {
	return f.bookings, f.err("bookings")
}

func (f *fakeCitizen) TotalRewards(context.Context) (float64, error) {
	return f.total, f.err("total")
}

func (f *fakeCitizen) AvailableRewards(context.Context) ([]models.Reward, error) {
	return f.rewards, f.err("rewards")
}

func (f *fakeCitizen) RedeemReward(_ context.Context, req dto.RewardRedeemRequest) (string, error) {
	if err := f.err("redeem"); err != nil {
		return "", err
	}
	f.redeemed = append(f.redeemed, req.RewardID)
	return "Reward redeemed", nil
}

func (f *fakeCitizen) ListWasteCategories(context.Context) ([]models.WasteCategory, error) {
	return f.categories, f.err("categories")
}

func (f *fakeCitizen) BookSlot(_ context.Context, req dto.BookingRequest) (models.Booking, error) {
	if err := f.err("book"); err != nil {
		return models.Booking{}, err
	}
	f.booked = append(f.booked, req)
	return models.Booking{ID: "b-new", Status: models.StatusPending}, nil
}

type fakeRecycler struct {
	calls
	slots    []models.PickupSlot
	bookings []models.Booking
	wards    []models.Ward
	fail     map[string]error
	created  []dto.SlotRequest
	statuses []dto.UpdateBookingStatusRequest
}

func (f *fakeRecycler) err(name string) error {
	f.hit(name)
	return f.fail[name]
}

func (f *fakeRecycler) ListSlots(context.Context, string) ([]models.PickupSlot, error) {
	return f.slots, f.err("slots")
}

func (f *fakeRecycler) CreateSlot(_ context.Context, req dto.SlotRequest) (models.PickupSlot, error) {
	if err := f.err("create"); err != nil {
		return models.PickupSlot{}, err
	}
	f.created = append(f.created, req)
	return models.PickupSlot{ID: "s-new"}, nil
}

func (f *fakeRecycler) DeleteSlot(context.Context, string) error {
	return f.err("delete")
}

func (f *fakeRecycler) BookingsByWard(context.Context, string) ([]models.Booking, error) {
	return f.bookings, f.err("bookings")
}

func (f *fakeRecycler) UpdateBookingStatus(_ context.Context, _ string, req dto.UpdateBookingStatusRequest) (string, error) {
	if err := f.err("status"); err != nil {
		return "", err
	}
	f.statuses = append(f.statuses, req)
	return "updated", nil
}

func (f *fakeRecycler) ListWards(context.Context) ([]models.Ward, error) {
	return f.wards, f.err("wards")
}

type fakeAuthority struct {
	calls
	users      []models.User
	wards      []models.Ward
	categories []models.WasteCategory
	series     api.Series
	fail       map[string]error
}

func (f *fakeAuthority) err(name string) error {
	f.hit(name)
	return f.fail[name]
}

func (f *fakeAuthority) ListUsers(context.Context) ([]models.User, error) {
	return f.users, f.err("users")
}

func (f *fakeAuthority) ActivateUser(_ context.Context, id string) (models.User, error) {
	return models.User{ID: id, Username: "updated", Active: true}, f.err("activate")
}

func (f *fakeAuthority) DeactivateUser(_ context.Context, id string) (models.User, error) {
	return models.User{ID: id, Username: "updated", Active: false}, f.err("deactivate")
}

func (f *fakeAuthority) ListWards(context.Context) ([]models.Ward, error) {
	return f.wards, f.err("wards")
}

func (f *fakeAuthority) AddWard(_ context.Context, req dto.WardRequest) (models.Ward, error) {
	return models.Ward{ID: "w-new", Name: req.Name}, f.err("addWard")
}

func (f *fakeAuthority) ListWasteCategories(context.Context) ([]models.WasteCategory, error) {
	return f.categories, f.err("categories")
}

func (f *fakeAuthority) AddWasteCategory(_ context.Context, req dto.WasteCategoryRequest) (models.WasteCategory, error) {
	return models.WasteCategory{ID: "c-new", Name: req.Name}, f.err("addCategory")
}

func (f *fakeAuthority) WasteTrend(context.Context) (api.Series, error) {
	return f.series, f.err("trend")
}

func (f *fakeAuthority) WasteByType(context.Context) (api.Series, error) {
	return f.series, f.err("byType")
}

func (f *fakeAuthority) WasteByRegion(context.Context) (api.Series, error) {
	return f.series, f.err("byRegion")
}

func (f *fakeAuthority) EcoPointsDistribution(context.Context) (api.Series, error) {
	return f.series, f.err("ecoPoints")
}
