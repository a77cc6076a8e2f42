package combat

import (
	"fmt"
	"math"
	"strings"

	"dconn.dev/realmgen/internal/content"
	"dconn.dev/realmgen/internal/models"
	"dconn.dev/realmgen/internal/random"
)

const (
	baseEncounterChance = 0.2
	ambushChance        = 0.2
	canRunChance        = 0.8
	defaultUseChance    = 0.5
)

var biomeDanger = map[models.Biome]float64{
	models.BiomeForest:    0.05,
	models.BiomeMountains: 0.1,
	models.BiomeSwamp:     0.15,
}

// GenerateEncounter rolls whether stepping onto a tile starts a fight.
// The salt is the only input that is not derived from the world seed.
func GenerateEncounter(tile models.Tile, worldSeed string, playerLevel int, salt string) models.Encounter {
	if tile.HasTown {
		return models.Encounter{Monsters: []models.Monster{}, CanRun: true}
	}

	encounterSeed := fmt.Sprintf("%s-%d-%d-%s", worldSeed, tile.X, tile.Y, salt)
	rng := random.New(encounterSeed)

	if !rng.Bool(baseEncounterChance + biomeDanger[tile.Biome]) {
		return models.Encounter{Monsters: []models.Monster{}, CanRun: true}
	}

	count := rng.IntN(1, 3)
	ambush := rng.Bool(ambushChance)
	canRun := rng.Bool(canRunChance)

	templates := content.Default().MonsterTemplates(tile.Biome)
	monsters := make([]models.Monster, count)
	for i := range count {
		monsters[i] = generateMonster(templates, fmt.Sprintf("%s-monster-%d", encounterSeed, i), playerLevel)
	}

	return models.Encounter{Triggered: true, Monsters: monsters, Ambush: ambush, CanRun: canRun}
}

// generateMonster scales a random template to a level near the player's
func generateMonster(templates []content.MonsterTemplate, seed string, playerLevel int) models.Monster {
	rng := random.New(seed)
	tmpl := random.MustPick(rng, templates)
	level := max(1, playerLevel+rng.IntN(-2, 2))

	scale := func(base, per float64) int {
		return int(math.Floor(base + per*float64(level-1)))
	}
	st := tmpl.Stats
	hp := scale(st.HPBase, st.HPPerLevel)
	stats := models.MonsterStats{
		HP:      hp,
		MaxHP:   hp,
		Attack:  scale(st.AttackBase, st.AttackPerLevel),
		Defense: scale(st.DefenseBase, st.DefensePerLevel),
		Speed:   scale(st.SpeedBase, st.SpeedPerLevel),
	}

	abilities := make([]models.MonsterAbility, len(tmpl.Abilities))
	for i, a := range tmpl.Abilities {
		kind := a.Kind
		if kind == "" {
			kind = models.AbilityDamage
		}
		use := a.UseChance
		if use <= 0 {
			use = defaultUseChance
		}
		ability := models.MonsterAbility{
			Name:        a.Name,
			Description: a.Description,
			Kind:        kind,
			Damage:      int(math.Floor(float64(stats.Attack) * a.DamageMultiplier)),
			UseChance:   use,
		}
		if kind == models.AbilityHeal {
			ability.Heal = max(1, int(math.Floor(float64(hp)*a.HealFraction)))
		}
		if a.Status != nil {
			status := *a.Status
			ability.Status = &status
		}
		abilities[i] = ability
	}

	return models.Monster{
		ID:          "monster-" + seed,
		Name:        tmpl.Name,
		Description: tmpl.Description,
		Type:        strings.ToLower(tmpl.Name),
		Level:       level,
		Stats:       stats,
		Abilities:   abilities,
		Drops:       append([]models.MonsterDrop(nil), tmpl.Drops...),
	}
}
