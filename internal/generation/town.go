package generation

import (
	"fmt"
	"strconv"
	"strings"

	"dconn.dev/realmgen/internal/content"
	"dconn.dev/realmgen/internal/models"
	"dconn.dev/realmgen/internal/random"
)

// TownSite is where and how deep a town is founded
type TownSite struct {
	Seed     string
	WorldID  string
	Position Point
	Depth    int
	ParentID string
}

// GenerateTown furnishes a town at a site: name, population, region,
// buildings with services, and hunting quests. Deeper towns are smaller
// but richer in buildings and quests.
func (g *Generator) GenerateTown(site TownSite) models.Town {
	pos := site.Position
	rng := random.New(fmt.Sprintf("%s-town-%d-%d", site.Seed, pos.X, pos.Y))
	towns := g.tables.Towns

	// 1. Identity
	name := g.Name(rng, NameTown)
	sizeFactor := max(0.5, 1-0.1*float64(site.Depth))
	population := int(float64(rng.IntN(100, 1000)) * sizeFactor)
	region := pickOr(rng, towns.Regions, "Frontier")
	description := strings.ReplaceAll(pickOr(rng, towns.Descriptions, "A {region}."), "{region}", strings.ToLower(region))

	// 2. Buildings
	buildings := g.townBuildings(rng, name, region, site.Depth)

	// 3. Quests
	quests := g.townQuests(rng, name, region, site.Depth)

	return models.Town{
		ID:              fmt.Sprintf("town-%s-%d-%d", site.WorldID, pos.X, pos.Y),
		Name:            name,
		Description:     description,
		Region:          region,
		WorldID:         site.WorldID,
		Position:        pos.Position(),
		Population:      population,
		Depth:           site.Depth,
		ParentID:        site.ParentID,
		Buildings:       buildings,
		Quests:          quests,
		InfluenceRadius: 1 + population/200,
	}
}

// slug lowercases a name and joins its words with dashes
func slug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

func (g *Generator) townBuildings(rng *random.Rand, townName, region string, depth int) []models.Building {
	towns := g.tables.Towns
	buildings := make([]models.Building, 0, len(towns.CoreBuildings)+2)

	for _, tmpl := range towns.CoreBuildings {
		buildings = append(buildings, furnish(rng, tmpl, townName, depth))
	}
	if tmpl, ok := towns.RegionBuildings[region]; ok {
		buildings = append(buildings, furnish(rng, tmpl, townName, depth))
	}
	if rng.Bool(0.5+0.1*float64(depth)) && len(towns.ExtraBuildings) > 0 {
		tmpl := random.MustPick(rng, towns.ExtraBuildings)
		buildings = append(buildings, furnish(rng, tmpl, townName, depth))
	}
	return buildings
}

// furnish instantiates a building template for a town. A name is drawn
// only when the template offers a choice.
func furnish(rng *random.Rand, tmpl content.BuildingTemplate, townName string, depth int) models.Building {
	name := tmpl.Type
	switch len(tmpl.Names) {
	case 0:
	case 1:
		name = tmpl.Names[0]
	default:
		name = random.MustPick(rng, tmpl.Names)
	}

	services := make([]models.Service, len(tmpl.Services))
	for i, s := range tmpl.Services {
		services[i] = models.Service{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Type:        s.Type,
			Cost:        s.Cost.At(depth),
			Level:       s.Level.At(depth),
		}
	}

	return models.Building{
		ID:          tmpl.Type + "-" + slug(townName),
		Name:        name,
		Type:        tmpl.Type,
		Description: tmpl.Description,
		Services:    services,
	}
}

func (g *Generator) townQuests(rng *random.Rand, townName, region string, depth int) []models.Quest {
	count := 1 + depth/2 + rng.IntN(0, 2)
	quests := make([]models.Quest, 0, count)
	for i := range count {
		quests = append(quests, g.huntQuest(rng, townName, region, depth, i))
	}
	return quests
}

func (g *Generator) huntQuest(rng *random.Rand, townName, region string, depth, index int) models.Quest {
	qt := g.tables.Towns.Quests

	monster := pickOr(rng, qt.MonsterTypes, "wolves")
	difficulty := max(1, 1+depth+rng.IntN(-1, 2))
	quantity := max(1, difficulty/2) + rng.IntN(0, 2)

	rewardXP := 50 * difficulty * quantity
	rewardCurrency := 25 * difficulty * quantity

	fill := strings.NewReplacer(
		"{Monster}", capitalize(monster),
		"{monster}", monster,
		"{town}", townName,
		"{region}", region,
		"{quantity}", strconv.Itoa(quantity),
	)
	title := fill.Replace(pickOr(rng, qt.Titles, "Hunting {Monster}"))
	description := fill.Replace(pickOr(rng, qt.Descriptions, "Slay {quantity} {monster}."))
	giver := g.Name(rng, NameNPC) + " of " + townName

	id := fmt.Sprintf("quest-%s-%s-%d", slug(townName), monster, index)
	quest := models.Quest{
		ID:             id,
		Title:          title,
		Description:    description,
		Type:           "hunt",
		TargetType:     monster,
		TargetQuantity: quantity,
		Difficulty:     difficulty,
		RewardXP:       rewardXP,
		RewardCurrency: rewardCurrency,
		Giver:          giver,
		Location:       "Near " + townName,
		Available:      true,
	}

	if difficulty > 3 && rng.Bool(0.5) {
		rarity := "uncommon"
		if difficulty > 5 {
			rarity = "rare"
		}
		quest.RewardItems = []models.Item{{
			ID:          "reward-" + id,
			Name:        capitalize(monster) + " Hunter's Trophy",
			Description: "A trophy awarded for successful monster hunting.",
			Type:        models.ItemQuest,
			Rarity:      rarity,
			Value:       rewardCurrency / 2,
			Weight:      1,
			Quantity:    1,
		}}
	}
	return quest
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
