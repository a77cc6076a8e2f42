package generation

import (
	"fmt"

	"dconn.dev/realmgen/internal/models"
	"dconn.dev/realmgen/internal/random"
)

// chunkGenerator generates the tiles of one map region
type chunkGenerator struct {
	gen    *Generator
	seed   string
	world  models.World
	grid   *Grid
	fields climateFields
	river  map[Point]bool
}

// GenerateMapChunk generates the tiles inside b, clamped to the world map.
// The same seed, world and region always produce identical tiles.
func (g *Generator) GenerateMapChunk(seed string, b Bounds, world models.World) ([]models.Tile, error) {
	if seed == "" {
		return nil, ErrInvalidSeed
	}
	if b.Empty() || world.MapSize <= 0 {
		return nil, fmt.Errorf("%w: %+v", ErrInvalidBounds, b)
	}
	if !overlaps(b, MapBounds(world.MapSize)) {
		return nil, fmt.Errorf("%w: %+v outside %dx%d map", ErrInvalidBounds, b, world.MapSize, world.MapSize)
	}

	cg := &chunkGenerator{
		gen:   g,
		seed:  seed,
		world: world,
		grid:  NewGrid(b.Clamp(world.MapSize)),
		river: make(map[Point]bool),
	}
	return cg.generate(), nil
}

func overlaps(a, b Bounds) bool {
	return a.MinX <= b.MaxX && a.MaxX >= b.MinX && a.MinY <= b.MaxY && a.MaxY >= b.MinY
}

func (cg *chunkGenerator) generate() []models.Tile {
	// 1. Sample the noise channels over the region
	cg.fields = sampleClimateFields(cg.gen.cfg.Noise, cg.seed, cg.grid.Bounds)

	// 2. Classify every tile
	cg.grid.Each(cg.classify)

	// 3. Lakes, rivers and shoreline
	newHydrology(cg.gen, cg.seed, cg.grid, cg.river).run()

	// 4. Adventure options, now that every biome is final
	lookup := func(p Point) *models.Tile { return cg.grid.Get(p) }
	cg.grid.Each(func(p Point, t *models.Tile) {
		t.Options = cg.gen.adventureOptions(cg.seed, p, lookup, nil)
	})

	// 5. Build output
	return cg.grid.Snapshot()
}

func (cg *chunkGenerator) classify(p Point, t *models.Tile) {
	c := climateAt(cg.fields, p, cg.world)
	biome := c.biome()

	if c.riverCandidate {
		cg.river[p] = true
	}

	rng := random.New(tileSeed(cg.seed, "tile", p))
	weather := ChooseWeather(c.temperature, c.moisture, rng)

	*t = models.Tile{
		WorldID:     cg.world.ID,
		X:           p.X,
		Y:           p.Y,
		Elevation:   clampInt(int(c.elevation*100), 0, 100),
		Temperature: clampInt(int(c.temperature*50+50), 0, 100),
		Moisture:    c.moisture * 100,
		Biome:       biome,
		Weather:     weather,
		Difficulty:  TileDifficulty(p.X, p.Y, cg.world.MapSize, c.elevation, cg.world.DifficultyBias, biome),
		HasPortal:   rng.Bool(cg.gen.cfg.PortalChance),
	}
	cg.gen.describe(cg.seed, t)
}

func formatBounds(b Bounds) string {
	return fmt.Sprintf("%d_%d_%d_%d", b.MinX, b.MinY, b.MaxX, b.MaxY)
}
