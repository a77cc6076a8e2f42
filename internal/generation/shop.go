package generation

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"dconn.dev/realmgen/internal/models"
	"dconn.dev/realmgen/internal/random"
)

// shopMix is the share of a shop's stock, in tenths, given to each item kind
var shopMix = []struct {
	kind   models.ItemType
	tenths int
}{
	{models.ItemWeapon, 3},
	{models.ItemArmor, 3},
	{models.ItemAccessory, 2},
	{models.ItemConsumable, 2},
}

// GenerateShopInventory stocks a town's shop for one visit. Deeper towns
// carry more items and roll better rarities.
func (g *Generator) GenerateShopInventory(town models.Town, visitSeed string) []models.Item {
	rng := random.New(visitSeed)
	depth := town.Depth
	total := 10 + 2*depth

	var stock []models.Item
	for _, mix := range shopMix {
		n := total * mix.tenths / 10
		for i := range n {
			id := fmt.Sprintf("item-%s-%s-%d", visitSeed, mix.kind, i)
			var item models.Item
			switch mix.kind {
			case models.ItemWeapon:
				item = g.weapon(rng, depth)
			case models.ItemArmor:
				item = g.armor(rng, depth)
			case models.ItemAccessory:
				item = g.accessory(rng, depth)
			case models.ItemConsumable:
				item = g.consumable(rng, depth)
			}
			item.ID = id
			stock = append(stock, item)
		}
	}
	return stock
}

// rollRarity draws a rarity, shifted toward rarer tiers with depth.
// It returns the tier index and the raw roll.
func rollRarity(rng *random.Rand, depth int) (int, float64) {
	d := float64(depth)
	roll := rng.Next()
	thresholds := []float64{0.6 - 0.05*d, 0.85 - 0.03*d, 0.95 - 0.01*d, 0.99 - 0.005*d}
	for i, t := range thresholds {
		if roll < t {
			return i, roll
		}
	}
	return len(thresholds), roll
}

func (g *Generator) rarityName(tier int) string {
	rarities := g.tables.Items.Rarities
	if len(rarities) == 0 {
		return "common"
	}
	return rarities[clampInt(tier, 0, len(rarities)-1)]
}

func depthMultiplier(depth int) float64 {
	return 1 + 0.2*float64(depth)
}

// affixed names an item by tier: plain, prefixed, then prefixed and suffixed
func affixed(rng *random.Rand, tier int, base string, prefixes, suffixes []string) string {
	switch {
	case tier == 0:
		return base
	case tier == 1:
		return pickOr(rng, prefixes, "Fine") + " " + base
	}
	prefix := pickOr(rng, prefixes, "Fine")
	return prefix + " " + base + " " + pickOr(rng, suffixes, "of Note")
}

// rollBonuses adds n random stat bonuses, each scaled by the multipliers
func rollBonuses(rng *random.Rand, bonuses map[string]int, stats []string, n int, mult float64) {
	for range n {
		stat, err := random.Pick(rng, stats)
		if err != nil {
			return
		}
		bonuses[stat] = int(math.Floor(float64(rng.IntN(1, 3)) * mult))
	}
}

func (g *Generator) weapon(rng *random.Rand, depth int) models.Item {
	w := g.tables.Items.Weapons
	kind := random.MustPick(rng, w.Types)
	tier, _ := rollRarity(rng, depth)
	rarity := g.rarityName(tier)
	name := affixed(rng, tier, kind.Name, w.Prefixes, w.Suffixes)

	rm, dm := g.tables.RarityMultiplier(rarity), depthMultiplier(depth)
	damage := int(math.Floor(float64(rng.IntN(kind.Min, kind.Max)) * rm * dm))
	bonuses := map[string]int{"attack": damage}
	rollBonuses(rng, bonuses, g.tables.Items.BonusStats, tier, rm*dm)

	return models.Item{
		Name:        name,
		Description: fmt.Sprintf("A %s %s that deals %d damage.", rarity, strings.ToLower(kind.Name), damage),
		Type:        models.ItemWeapon,
		Rarity:      rarity,
		Value:       int(math.Floor(10 * rm * dm * (1 + float64(len(bonuses))*0.5))),
		Weight:      rng.Float(1, 5),
		Quantity:    1,
		Bonuses:     bonuses,
	}
}

func (g *Generator) armor(rng *random.Rand, depth int) models.Item {
	a := g.tables.Items.Armor
	kind := random.MustPick(rng, a.Types)
	tier, roll := rollRarity(rng, depth)
	rarity := g.rarityName(tier)

	// Deeper towns and luckier rolls stock better materials
	mi := min(int(math.Floor(float64(len(a.Materials))*(roll+0.1*float64(depth)))), len(a.Materials)-1)
	material := a.Materials[mi]
	name := affixed(rng, tier, material.Name+" "+kind.Name, a.Prefixes, a.Suffixes)

	rm, dm := g.tables.RarityMultiplier(rarity), depthMultiplier(depth)
	defense := int(math.Floor(float64(rng.IntN(kind.Min, kind.Max)) * material.Multiplier * rm * dm))
	bonuses := map[string]int{"defense": defense}
	rollBonuses(rng, bonuses, g.tables.Items.BonusStats, tier, rm*dm)

	return models.Item{
		Name: name,
		Description: fmt.Sprintf("A %s %s %s that provides %d defense.",
			rarity, strings.ToLower(material.Name), strings.ToLower(kind.Name), defense),
		Type:     models.ItemArmor,
		Rarity:   rarity,
		Value:    int(math.Floor(10 * material.Multiplier * rm * dm * (1 + float64(len(bonuses))*0.5))),
		Weight:   rng.Float(1, 5),
		Quantity: 1,
		Bonuses:  bonuses,
	}
}

func (g *Generator) accessory(rng *random.Rand, depth int) models.Item {
	a := g.tables.Items.Accessories
	kind := random.MustPick(rng, a.Types)
	tier, _ := rollRarity(rng, depth)
	rarity := g.rarityName(tier)
	material := random.MustPick(rng, a.Materials)
	name := affixed(rng, tier, material+" "+kind, a.Prefixes, a.Suffixes)

	rm, dm := g.tables.RarityMultiplier(rarity), depthMultiplier(depth)
	bonuses := make(map[string]int)
	rollBonuses(rng, bonuses, a.BonusStats, tier+1, rm*dm)

	return models.Item{
		Name: name,
		Description: fmt.Sprintf("A %s %s %s with magical properties.",
			rarity, strings.ToLower(material), strings.ToLower(kind)),
		Type:     models.ItemAccessory,
		Rarity:   rarity,
		Value:    int(math.Floor(15 * rm * dm * (1 + float64(len(bonuses))*0.5))),
		Weight:   rng.Float(0.1, 0.5),
		Quantity: 1,
		Bonuses:  bonuses,
	}
}

func (g *Generator) consumable(rng *random.Rand, depth int) models.Item {
	c := g.tables.Items.Consumables
	kind := random.MustPick(rng, c.Types)
	si := min(int(math.Floor(float64(len(c.Sizes))*(rng.Next()+0.1*float64(depth)))), len(c.Sizes)-1)
	size := c.Sizes[si]
	// Consumables top out at epic
	rarity := g.rarityName(min(si, 3))

	dm := depthMultiplier(depth)
	amount := int(math.Floor(float64(rng.IntN(10, 20)) * size.Multiplier * dm))

	var effect *models.ConsumableEffect
	switch {
	case kind.Restores == "health":
		effect = &models.ConsumableEffect{Health: amount}
	case kind.Restores == "mana":
		effect = &models.ConsumableEffect{Mana: amount}
	case kind.Cures != models.CureNone:
		effect = &models.ConsumableEffect{StatusCure: kind.Cures}
	}

	return models.Item{
		Name: size.Name + " " + kind.Name,
		Description: fmt.Sprintf("A %s %s potion that %s by %d points.",
			strings.ToLower(size.Name), kind.Color, strings.ToLower(kind.Effect), amount),
		Type:     models.ItemConsumable,
		Rarity:   rarity,
		Value:    int(math.Floor(5 * size.Multiplier * dm)),
		Weight:   0.5 * size.Multiplier,
		Quantity: rng.IntN(1, 3),
		Effect:   effect,
	}
}

// GenerateRecruits lists the companions a town's tavern offers for one visit
func (g *Generator) GenerateRecruits(town models.Town, visitSeed string) []models.Recruit {
	rng := random.New(visitSeed + "-recruits")

	level, cost := 1+town.Depth/2, 50+25*town.Depth
	if svc, ok := findService(town, models.ServiceRecruit); ok {
		level, cost = svc.Level, svc.Cost
	}
	if level < 1 {
		level = 1
	}

	n := rng.IntN(1, 3)
	recruits := make([]models.Recruit, 0, n)
	for range n {
		recruits = append(recruits, models.Recruit{
			Name:  g.Name(rng, NameCharacter),
			Class: pickOr(rng, g.tables.Towns.RecruitClasses, "Warrior"),
			Level: level,
			Cost:  cost,
		})
	}
	return recruits
}

// findService returns the first service of a type offered anywhere in town
func findService(town models.Town, t models.ServiceType) (models.Service, bool) {
	for _, b := range town.Buildings {
		if i := slices.IndexFunc(b.Services, func(s models.Service) bool { return s.Type == t }); i >= 0 {
			return b.Services[i], true
		}
	}
	return models.Service{}, false
}
