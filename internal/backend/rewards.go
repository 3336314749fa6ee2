package backend

import (
	"sort"

	"github.com/hongminglow/clevo-client/internal/models"
)

// Points returns a citizen's balance.
func (b *Backend) Points(citizenID string) float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.points[citizenID]
}

// Rewards lists the catalog, cheapest first.
func (b *Backend) Rewards() []models.Reward {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Reward, 0, len(b.rewards))
	for _, r := range b.rewards {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Points < out[j].Points })
	return out
}

// AddReward puts an entry in the catalog.
func (b *Backend) AddReward(name string, points int64) models.Reward {
	b.mu.Lock()
	defer b.mu.Unlock()
	r := models.Reward{ID: int64(len(b.rewards) + 1), Name: name, Points: points}
	b.rewards[r.ID] = r
	return r
}

// Redeem debits the reward's cost from the citizen's balance.
func (b *Backend) Redeem(citizenID string, rewardID int64) (models.Reward, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.rewards[rewardID]
	if !ok {
		return models.Reward{}, ErrNotFound
	}
	if b.points[citizenID] < float64(r.Points) {
		return models.Reward{}, ErrInsufficientPoints
	}
	b.points[citizenID] -= float64(r.Points)
	return r, nil
}
