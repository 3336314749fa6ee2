package backend

import (
	"time"

	"github.com/hongminglow/clevo-client/internal/models"
	"github.com/hongminglow/clevo-client/internal/models/dto"
)

// Demo credentials created by Seed.
const (
	AuthorityUsername = "authority"
	AuthorityPassword = "authority123"
	RecyclerUsername  = "recycler"
	RecyclerPassword  = "recycler123"
	CitizenUsername   = "citizen"
	CitizenPassword   = "citizen123"
)

// Seeded carries the ids of the demo records.
type Seeded struct {
	Authority  models.User
	Recycler   models.User
	Citizen    models.User
	Wards      []models.Ward
	Categories []models.WasteCategory
	Slot       models.PickupSlot
}

// Seed fills an empty Backend with two wards, three waste categories, three
// rewards, one account per role, and a slot published by the recycler.
func Seed(b *Backend) (Seeded, error) {
	var out Seeded
	var err error

	out.Authority, err = b.Register(dto.RegisterRequest{
		Username: AuthorityUsername, Email: "authority@clevo.local", Password: AuthorityPassword,
		Role: models.Authority, FirstName: "Ada", LastName: "Mensah",
		Address: "1 Civic Centre", PhoneNumber: "+10000000001",
	})
	if err != nil {
		return Seeded{}, err
	}

	for _, w := range []dto.WardRequest{
		{Name: "Central", Description: "Old town and market district"},
		{Name: "Riverside", Description: "Residential blocks along the river"},
	} {
		ward, err := b.AddWard(out.Authority.ID, w)
		if err != nil {
			return Seeded{}, err
		}
		out.Wards = append(out.Wards, ward)
	}

	for _, c := range []dto.WasteCategoryRequest{
		{Name: "Plastic", Description: "Bottles, containers and film", EcoPointsPerUnit: 2},
		{Name: "Paper", Description: "Cardboard, newspaper and office paper", EcoPointsPerUnit: 1.5},
		{Name: "E-waste", Description: "Small electronics and batteries", EcoPointsPerUnit: 5},
	} {
		cat, err := b.AddCategory(c)
		if err != nil {
			return Seeded{}, err
		}
		out.Categories = append(out.Categories, cat)
	}

	b.AddReward("Reusable shopping bag", 20)
	b.AddReward("Compost bin", 60)
	b.AddReward("Monthly bus pass", 150)

	out.Recycler, err = b.Register(dto.RegisterRequest{
		Username: RecyclerUsername, Email: "recycler@clevo.local", Password: RecyclerPassword,
		Role: models.Recycler, FirstName: "Rui", LastName: "Costa",
		Address: "12 Depot Road", PhoneNumber: "+10000000002",
	})
	if err != nil {
		return Seeded{}, err
	}

	out.Citizen, err = b.Register(dto.RegisterRequest{
		Username: CitizenUsername, Email: "citizen@clevo.local", Password: CitizenPassword,
		Role: models.Citizen, FirstName: "Chen", LastName: "Wei",
		Address: "4 Elm Street", PhoneNumber: "+10000000003", WardID: out.Wards[0].ID,
	})
	if err != nil {
		return Seeded{}, err
	}

	start := b.now().Add(24 * time.Hour).Truncate(time.Hour)
	out.Slot, err = b.CreateSlot(out.Recycler.ID, dto.SlotRequest{
		WardID:    out.Wards[0].ID,
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
		Capacity:  5,
		IsActive:  true,
	})
	if err != nil {
		return Seeded{}, err
	}
	return out, nil
}
