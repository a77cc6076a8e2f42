package generation

import (
	"slices"

	"dconn.dev/realmgen/internal/models"
	"dconn.dev/realmgen/internal/random"
)

// RoadCost is the base cost of building a road through a biome
func RoadCost(b models.Biome) float64 {
	switch b {
	case models.BiomeMountains, models.BiomeVolcanic:
		return 5
	case models.BiomeForest, models.BiomeJungle, models.BiomeSwamp:
		return 3
	case models.BiomeRiver:
		return 4
	case models.BiomeOcean, models.BiomeLake:
		return 10
	}
	return 1
}

// GeneratePathsBetweenTowns joins each town to its nearest neighbors by
// road. Paths follow the cheapest terrain; dirt roads wander. Every path
// tile is flagged in place. A pair with no A* route falls back to a straight
// line. Each pair is built once, seeded by the town that reached it first.
func (g *Generator) GeneratePathsBetweenTowns(world models.World, towns []models.Town, tiles []models.Tile) ([]models.Road, *RoadNetwork) {
	idx := IndexTiles(tiles)
	network := NewRoadNetwork()
	for _, t := range towns {
		network.AddTown(t)
	}

	for i, from := range towns {
		for _, to := range g.nearestTowns(towns, i) {
			if network.GetEdge(from.ID, to.ID) != nil {
				continue
			}
			edge := g.buildRoad(world.Seed, from, to, idx)
			// Both ends were added above
			_ = network.AddEdge(edge)
		}
	}
	return network.Roads(), network
}

// nearestTowns returns up to RoadNeighbors other towns, closest first.
// Equal distances keep input order.
func (g *Generator) nearestTowns(towns []models.Town, i int) []models.Town {
	origin := PointOf(towns[i].Position)
	others := make([]models.Town, 0, len(towns)-1)
	for j, t := range towns {
		if j != i {
			others = append(others, t)
		}
	}
	slices.SortStableFunc(others, func(a, b models.Town) int {
		da, db := dist(origin, PointOf(a.Position)), dist(origin, PointOf(b.Position))
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return 0
	})
	return others[:min(len(others), g.cfg.RoadNeighbors)]
}

func (g *Generator) buildRoad(seed string, from, to models.Town, idx TileIndex) *Edge {
	rng := random.New(seed + from.ID + to.ID)
	pathType := models.PathPaved
	if rng.Bool(g.cfg.DirtChance) {
		pathType = models.PathDirt
	}

	search := pathSearch{
		tiles: idx,
		step:  func(t *models.Tile) float64 { return RoadCost(t.Biome) },
	}
	if pathType == models.PathDirt {
		search.step = func(t *models.Tile) float64 { return RoadCost(t.Biome) + rng.Float(0, 2) }
		search.bump = func() float64 { return rng.Float(0, 5) }
	}

	start, goal := PointOf(from.Position), PointOf(to.Position)
	path := search.find(start, goal)
	fallback := path == nil
	if fallback {
		path = straightLine(start, goal)
	}

	for _, p := range path {
		t := idx[p]
		if t == nil {
			continue
		}
		t.HasPath = true
		// Paved wins where roads cross
		if t.PathType != models.PathPaved {
			t.PathType = pathType
		}
	}

	return &Edge{
		From:     from.ID,
		To:       to.ID,
		Weight:   float64(len(path)),
		Type:     pathType,
		Path:     path,
		Fallback: fallback,
	}
}
