package combat

import (
	"math"

	"dconn.dev/realmgen/internal/content"
	"dconn.dev/realmgen/internal/models"
	"dconn.dev/realmgen/internal/random"
)

// CalculateBattleRewards totals the experience, gold and loot for a won battle
func CalculateBattleRewards(monsters []models.Monster, playerLevel int, seed string) models.Rewards {
	rng := random.New(seed + "-rewards")
	tables := content.Default()
	rewards := models.Rewards{Items: []models.RewardItem{}}

	for _, m := range monsters {
		level := max(1, m.Level)
		rewards.Experience += int(math.Floor(float64(level*10) * levelMultiplier(level-playerLevel)))
	}
	for _, m := range monsters {
		level := max(1, m.Level)
		rewards.Gold += int(math.Floor(float64(level*5) * (1 + rng.Float(-0.2, 0.2))))
	}
	for _, m := range monsters {
		for _, drop := range m.Drops {
			if !rng.Bool(drop.Chance) {
				continue
			}
			lo := max(1, drop.MinQuantity)
			hi := max(lo, drop.MaxQuantity)
			rewards.Items = append(rewards.Items, models.RewardItem{
				ID:       drop.ItemID,
				Name:     tables.ItemName(drop.ItemID),
				Quantity: rng.IntN(lo, hi),
			})
		}
	}
	return rewards
}

// levelMultiplier scales experience by how far a monster outlevels the player
func levelMultiplier(diff int) float64 {
	switch {
	case diff >= 3:
		return 1.5
	case diff >= 1:
		return 1.2
	case diff <= -3:
		return 0.5
	case diff <= -1:
		return 0.8
	}
	return 1
}
