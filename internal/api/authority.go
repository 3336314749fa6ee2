package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/hongminglow/clevo-client/internal/models"
	"github.com/hongminglow/clevo-client/internal/models/dto"
)

// Series is a loosely typed aggregate returned by the dashboard endpoints,
// one map per chart point.
type Series []map[string]any

// AuthorityAPI groups the /authority endpoints.
type AuthorityAPI struct{ c *Client }

// ListUsers returns every account. GET /authority/users.
func (a AuthorityAPI) ListUsers(ctx context.Context) ([]models.User, error) {
	return doJSON[[]models.User](ctx, a.c, call{
		op: "list users", method: http.MethodGet, path: "/authority/users",
		fail: "Failed to fetch users",
	})
}

// ActivateUser re-enables an account and returns it. PUT /authority/users/{id}/activate.
func (a AuthorityAPI) ActivateUser(ctx context.Context, id string) (models.User, error) {
	return doJSON[models.User](ctx, a.c, call{
		op: "activate user", method: http.MethodPut, path: "/authority/users/" + url.PathEscape(id) + "/activate",
		fail: "Failed to activate user",
	})
}

// DeactivateUser disables an account and returns it. PUT /authority/users/{id}/deactivate.
func (a AuthorityAPI) DeactivateUser(ctx context.Context, id string) (models.User, error) {
	return doJSON[models.User](ctx, a.c, call{
		op: "deactivate user", method: http.MethodPut, path: "/authority/users/" + url.PathEscape(id) + "/deactivate",
		fail: "Failed to deactivate user",
	})
}

// ListWards returns the wards the authority manages. GET /authority/wards.
func (a AuthorityAPI) ListWards(ctx context.Context) ([]models.Ward, error) {
	return doJSON[[]models.Ward](ctx, a.c, call{
		op: "list wards", method: http.MethodGet, path: "/authority/wards",
		fail: "Failed to fetch wards",
	})
}

// AddWard creates a ward. POST /authority/wards.
func (a AuthorityAPI) AddWard(ctx context.Context, req dto.WardRequest) (models.Ward, error) {
	return doJSON[models.Ward](ctx, a.c, call{
		op: "add ward", method: http.MethodPost, path: "/authority/wards", body: req,
		fail: "Failed to add ward",
	})
}

// ListWasteCategories returns the categories and their point rates. GET /authority/waste-categories.
func (a AuthorityAPI) ListWasteCategories(ctx context.Context) ([]models.WasteCategory, error) {
	return doJSON[[]models.WasteCategory](ctx, a.c, call{
		op: "list waste categories", method: http.MethodGet, path: "/authority/waste-categories",
		fail: "Failed to fetch waste categories",
	})
}

// AddWasteCategory creates a category. POST /authority/waste-categories.
func (a AuthorityAPI) AddWasteCategory(ctx context.Context, req dto.WasteCategoryRequest) (models.WasteCategory, error) {
	return doJSON[models.WasteCategory](ctx, a.c, call{
		op: "add waste category", method: http.MethodPost, path: "/authority/waste-categories", body: req,
		fail: "Failed to add waste category",
	})
}

// WasteTrend is collected quantity over time.
func (a AuthorityAPI) WasteTrend(ctx context.Context) (Series, error) {
	return a.series(ctx, "waste-trend", "Failed to fetch waste trend")
}

// WasteByType is collected quantity per waste category.
func (a AuthorityAPI) WasteByType(ctx context.Context) (Series, error) {
	return a.series(ctx, "waste-by-type", "Failed to fetch waste by type")
}

// WasteByRegion is collections per ward.
func (a AuthorityAPI) WasteByRegion(ctx context.Context) (Series, error) {
	return a.series(ctx, "waste-by-region", "Failed to fetch waste by region")
}

// EcoPointsDistribution is the point balance per citizen.
func (a AuthorityAPI) EcoPointsDistribution(ctx context.Context) (Series, error) {
	return a.series(ctx, "eco-points-distribution", "Failed to fetch eco points distribution")
}

func (a AuthorityAPI) series(ctx context.Context, name, fail string) (Series, error) {
	return doJSON[Series](ctx, a.c, call{
		op: name, method: http.MethodGet, path: "/authority/dashboard/" + name,
		fail: fail,
	})
}

// WardsAPI is the shared /wards listing, readable by every role.
type WardsAPI struct{ c *Client }

// List returns all wards. GET /wards.
func (a WardsAPI) List(ctx context.Context) ([]models.Ward, error) {
	return doJSON[[]models.Ward](ctx, a.c, call{
		op: "list wards", method: http.MethodGet, path: "/wards",
		fail: "Failed to fetch wards",
	})
}
