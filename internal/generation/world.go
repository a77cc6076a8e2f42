package generation

import (
	"fmt"

	"dconn.dev/realmgen/internal/models"
	"dconn.dev/realmgen/internal/random"
)

// GenerateWorld derives the world parameters from a seed
func (g *Generator) GenerateWorld(seed string) (models.World, error) {
	if seed == "" {
		return models.World{}, ErrInvalidSeed
	}
	rng := random.New(seed)

	name := g.Name(rng, NameWorld)
	mapSize := rng.IntN(50, 100)
	difficulty := rng.Float(-0.5, 0.5)
	climate := rng.Float(-0.5, 0.5)
	moisture := rng.Float(-0.5, 0.5)
	numTowns := max(5, mapSize/10+rng.IntN(-2, 2))

	return models.World{
		ID:             "world-" + seed,
		Name:           name,
		Seed:           seed,
		MapSize:        mapSize,
		DifficultyBias: difficulty,
		ClimateBias:    climate,
		MoistureBias:   moisture,
		NumTowns:       numTowns,
	}, nil
}

// markTowns flags the tile under each town
func markTowns(tiles []models.Tile, towns []models.Town) {
	idx := IndexTiles(tiles)
	for _, town := range towns {
		if t := idx[PointOf(town.Position)]; t != nil {
			t.HasTown = true
			t.TownID = town.ID
		}
	}
}

// AnnotateTowns flags town tiles and refreshes adventure options, which
// mention towns on neighboring tiles
func (g *Generator) AnnotateTowns(seed string, tiles []models.Tile, towns []models.Town) {
	markTowns(tiles, towns)
	g.RefreshOptions(seed, tiles, towns)
}

// Realm is a fully generated world: terrain, towns and roads
type Realm struct {
	World     models.World
	Tiles     []models.Tile
	Towns     []models.Town
	Roads     []models.Road
	Network   *RoadNetwork
	Placement PlacementReport
}

// GenerateRealm runs the whole pipeline for a seed
func (g *Generator) GenerateRealm(seed string) (*Realm, error) {
	// 1. World parameters
	world, err := g.GenerateWorld(seed)
	if err != nil {
		return nil, fmt.Errorf("generate world: %w", err)
	}

	// 2. Terrain over the whole map
	tiles, err := g.GenerateMapChunk(seed, MapBounds(world.MapSize), world)
	if err != nil {
		return nil, fmt.Errorf("generate terrain: %w", err)
	}

	// 3. Towns
	towns, report, err := g.GenerateWorldTowns(world)
	if err != nil {
		return nil, fmt.Errorf("place towns: %w", err)
	}
	markTowns(tiles, towns)

	// 4. Roads
	roads, network := g.GeneratePathsBetweenTowns(world, towns, tiles)

	// 5. Options last, once towns and roads are on the tiles
	g.RefreshOptions(seed, tiles, towns)

	return &Realm{
		World:     world,
		Tiles:     tiles,
		Towns:     towns,
		Roads:     roads,
		Network:   network,
		Placement: report,
	}, nil
}
