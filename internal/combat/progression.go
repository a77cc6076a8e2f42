package combat

import (
	"math"
	"slices"

	"dconn.dev/realmgen/internal/content"
	"dconn.dev/realmgen/internal/models"
)

const (
	startingCurrency  = 100
	startingThreshold = 100
	respawnFraction   = 0.4
)

// NewPlayer builds a level 1 adventurer carrying the starter kit for a seed
func NewPlayer(name, seed string) models.Player {
	if name == "" {
		name = "Hero"
	}
	return models.Player{
		Name:                  name,
		Class:                 "Adventurer",
		Level:                 1,
		ExperienceToNextLevel: startingThreshold,
		Stats: models.PlayerStats{
			Strength:      10,
			Dexterity:     10,
			Vitality:      10,
			Energy:        10,
			MaxHealth:     100,
			CurrentHealth: 100,
			MaxMana:       50,
			CurrentMana:   50,
			Attack:        5,
			Defense:       5,
		},
		Inventory:         content.Default().StarterItems(seed),
		InventoryCapacity: 20,
		Currency:          startingCurrency,
	}
}

// ApplyRewards credits a victory to the player, levelling up as often as the experience allows
func ApplyRewards(player models.Player, rewards models.Rewards) models.Player {
	p := player.Clone()
	p.Currency += rewards.Gold

	for _, r := range rewards.Items {
		if i := slices.IndexFunc(p.Inventory, func(it models.Item) bool { return it.ID == r.ID }); i >= 0 {
			p.Inventory[i].Quantity += r.Quantity
			continue
		}
		p.Inventory = append(p.Inventory, models.Item{
			ID:          r.ID,
			Name:        r.Name,
			Description: "Taken from a defeated foe.",
			Type:        models.ItemMaterial,
			Rarity:      "common",
			Value:       1,
			Weight:      0.5,
			Quantity:    r.Quantity,
		})
	}

	p.Experience += rewards.Experience
	if p.ExperienceToNextLevel <= 0 {
		p.ExperienceToNextLevel = startingThreshold
	}
	for p.Experience >= p.ExperienceToNextLevel {
		p.Experience -= p.ExperienceToNextLevel
		p.Level++
		p.ExperienceToNextLevel = int(math.Floor(float64(p.ExperienceToNextLevel) * 1.5))
		p.StatPoints += 5
		p.Stats.MaxHealth += 10
		p.Stats.MaxMana += 5
		p.Stats.CurrentHealth = p.Stats.MaxHealth
		p.Stats.CurrentMana = p.Stats.MaxMana
	}
	return p
}

// Respawn returns a defeated player to a town with reduced health and no experience
func Respawn(player models.Player, town models.Town) models.Player {
	p := player.Clone()
	p.Position = town.Position
	p.LastVisitedTown = town.ID
	p.Experience = 0
	p.Stats.CurrentHealth = max(1, int(math.Floor(float64(p.Stats.MaxHealth)*respawnFraction)))
	p.Stats.CurrentMana = int(math.Floor(float64(p.Stats.MaxMana) * respawnFraction))
	return p
}
