package models

// Ward is an administrative region grouping citizens, slots, and an owning authority.
type Ward struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Authority   *User  `json:"authority,omitempty"`
}

// WasteCategory classifies collectible waste and carries its point-earning rate.
type WasteCategory struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	EcoPointsPerUnit float64 `json:"ecoPointsPerUnit"`
}

// Reward is a catalog entry redeemable against a citizen's eco-point balance.
type Reward struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Points int64  `json:"points"`
}
