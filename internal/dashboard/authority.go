package dashboard

import (
	"context"
	"log/slog"

	"github.com/hongminglow/clevo-client/internal/api"
	"github.com/hongminglow/clevo-client/internal/models"
	"github.com/hongminglow/clevo-client/internal/models/dto"
	"github.com/hongminglow/clevo-client/internal/toast"
	"github.com/hongminglow/clevo-client/internal/validation"
)

// AuthorityService is the subset of the authority API the dashboard calls.
type AuthorityService interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	ActivateUser(ctx context.Context, id string) (models.User, error)
	DeactivateUser(ctx context.Context, id string) (models.User, error)
	ListWards(ctx context.Context) ([]models.Ward, error)
	AddWard(ctx context.Context, req dto.WardRequest) (models.Ward, error)
	ListWasteCategories(ctx context.Context) ([]models.WasteCategory, error)
	AddWasteCategory(ctx context.Context, req dto.WasteCategoryRequest) (models.WasteCategory, error)
	WasteTrend(ctx context.Context) (api.Series, error)
	WasteByType(ctx context.Context) (api.Series, error)
	WasteByRegion(ctx context.Context) (api.Series, error)
	EcoPointsDistribution(ctx context.Context) (api.Series, error)
}

// Stats holds the aggregate chart series.
type Stats struct {
	WasteTrend            api.Series
	WasteByType           api.Series
	WasteByRegion         api.Series
	EcoPointsDistribution api.Series
}

// Authority is the authority's dashboard.
type Authority struct {
	view
	svc AuthorityService

	Users      []models.User
	Wards      []models.Ward
	Categories []models.WasteCategory
	Stats      Stats
}

// NewAuthority creates an empty dashboard; call Load to fill it.
func NewAuthority(svc AuthorityService, notifier toast.Notifier, logger *slog.Logger) *Authority {
	return &Authority{view: view{notifier: notifier, logger: logger}, svc: svc}
}

// Load fetches users, reference data, and the four aggregates.
func (a *Authority) Load(ctx context.Context) bool {
	var (
		users      []models.User
		wards      []models.Ward
		categories []models.WasteCategory
		stats      Stats
	)
	return a.load(ctx,
		func() { a.Users, a.Wards, a.Categories, a.Stats = users, wards, categories, stats },
		func(ctx context.Context) (err error) { users, err = a.svc.ListUsers(ctx); return },
		func(ctx context.Context) (err error) { wards, err = a.svc.ListWards(ctx); return },
		func(ctx context.Context) (err error) { categories, err = a.svc.ListWasteCategories(ctx); return },
		func(ctx context.Context) (err error) { stats.WasteTrend, err = a.svc.WasteTrend(ctx); return },
		func(ctx context.Context) (err error) { stats.WasteByType, err = a.svc.WasteByType(ctx); return },
		func(ctx context.Context) (err error) { stats.WasteByRegion, err = a.svc.WasteByRegion(ctx); return },
		func(ctx context.Context) (err error) {
			stats.EcoPointsDistribution, err = a.svc.EcoPointsDistribution(ctx)
			return
		},
	)
}

// ActiveUsers returns users whose account is active.
func (a *Authority) ActiveUsers() []models.User {
	var out []models.User
	for _, u := range a.Users {
		if u.Active {
			out = append(out, u)
		}
	}
	return out
}

// UsersByRole counts users per role.
func (a *Authority) UsersByRole() map[models.Role]int {
	out := make(map[models.Role]int, 3)
	for _, u := range a.Users {
		out[u.Role]++
	}
	return out
}

// Activate enables a user and replaces it in the local list.
func (a *Authority) Activate(ctx context.Context, userID string) bool {
	return a.mutate(ctx, "User activated successfully", "Failed to activate user", func(ctx context.Context) error {
		updated, err := a.svc.ActivateUser(ctx, userID)
		if err != nil {
			return err
		}
		a.replaceUser(userID, updated)
		return nil
	})
}

// Deactivate disables a user and replaces it in the local list.
func (a *Authority) Deactivate(ctx context.Context, userID string) bool {
	return a.mutate(ctx, "User deactivated successfully", "Failed to deactivate user", func(ctx context.Context) error {
		updated, err := a.svc.DeactivateUser(ctx, userID)
		if err != nil {
			return err
		}
		a.replaceUser(userID, updated)
		return nil
	})
}

func (a *Authority) replaceUser(id string, updated models.User) {
	for i := range a.Users {
		if a.Users[i].ID == id {
			a.Users[i] = updated
		}
	}
}

var wardMessages = validation.Messages{
	"Name":        "Please fill in all required fields",
	"Description": "Please fill in all required fields",
}

var categoryMessages = validation.Messages{
	"Name":             "Please fill in all required fields",
	"Description":      "Please fill in all required fields",
	"EcoPointsPerUnit": "Eco points must be greater than 0",
}

// AddWard creates a ward and then reloads the whole dashboard.
func (a *Authority) AddWard(ctx context.Context, req dto.WardRequest) bool {
	req = validation.TrimStrings(req)
	if err := validation.Struct(req, wardMessages); err != nil {
		a.notifier.Notify(toast.FromError(err, "Please fill in all required fields"))
		return false
	}
	ok := a.mutate(ctx, "Ward created successfully", "Failed to create ward", func(ctx context.Context) error {
		_, err := a.svc.AddWard(ctx, req)
		return err
	})
	if ok {
		a.Load(ctx)
	}
	return ok
}

// AddWasteCategory creates a category and then reloads the whole dashboard.
func (a *Authority) AddWasteCategory(ctx context.Context, req dto.WasteCategoryRequest) bool {
	req = validation.TrimStrings(req)
	if err := validation.Struct(req, categoryMessages); err != nil {
		a.notifier.Notify(toast.FromError(err, "Please fill in all required fields"))
		return false
	}
	ok := a.mutate(ctx, "Waste category created successfully", "Failed to create waste category", func(ctx context.Context) error {
		_, err := a.svc.AddWasteCategory(ctx, req)
		return err
	})
	if ok {
		a.Load(ctx)
	}
	return ok
}
