package backend

import (
	"sort"

	"github.com/hongminglow/clevo-client/internal/models"
)

// Point is one row of a dashboard series.
type Point map[string]any

// WasteTrend sums collected quantity per calendar month.
func (b *Backend) WasteTrend() []Point {
	totals := map[string]float64{}
	b.eachCollected(func(bk *models.Booking) {
		totals[bk.UpdatedAt.Format("2006-01")] += bk.ActualQuantity
	})
	out := make([]Point, 0, len(totals))
	for month, qty := range totals {
		out = append(out, Point{"month": month, "quantity": qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i]["month"].(string) < out[j]["month"].(string) })
	return out
}

// WasteByType sums collected quantity per waste category.
func (b *Backend) WasteByType() []Point {
	totals := map[string]float64{}
	b.eachCollected(func(bk *models.Booking) {
		if bk.WasteCategory != nil {
			totals[bk.WasteCategory.Name] += bk.ActualQuantity
		}
	})
	return byName(totals, "value")
}

// WasteByRegion counts collections per ward.
func (b *Backend) WasteByRegion() []Point {
	totals := map[string]float64{}
	b.eachCollected(func(bk *models.Booking) {
		if bk.PickupSlot != nil && bk.PickupSlot.Ward != nil {
			totals[bk.PickupSlot.Ward.Name]++
		}
	})
	return byName(totals, "collections")
}

// EcoPointsDistribution lists each citizen's current balance.
func (b *Backend) EcoPointsDistribution() []Point {
	b.mu.Lock()
	totals := map[string]float64{}
	for id, pts := range b.points {
		if a, ok := b.accounts[id]; ok {
			totals[a.user.Username] = pts
		}
	}
	b.mu.Unlock()
	return byName(totals, "points")
}

func (b *Backend) eachCollected(fn func(*models.Booking)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, bk := range b.bookings {
		if bk.Status == models.StatusCollected {
			fn(bk)
		}
	}
}

func byName(totals map[string]float64, valueKey string) []Point {
	out := make([]Point, 0, len(totals))
	for name, v := range totals {
		out = append(out, Point{"name": name, valueKey: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i]["name"].(string) < out[j]["name"].(string) })
	return out
}
