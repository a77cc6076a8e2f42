package generation

import (
	"fmt"
	"math"
	"strconv"

	"dconn.dev/realmgen/internal/models"
	"dconn.dev/realmgen/internal/random"
)

// SiteSource says which candidate pool a town site came from
type SiteSource string

const (
	// SiteRoot is the starting town near the map center
	SiteRoot SiteSource = "root"
	// SiteJunction is a tile touching more than one river tile
	SiteJunction SiteSource = "junction"
	// SiteRiverside is a tile touching exactly one river tile
	SiteRiverside SiteSource = "riverside"
	// SiteTransition is an interior tile bordering a different land biome
	SiteTransition SiteSource = "transition"
	// SiteTopUp is a random dry tile tried after the feature pools run out
	SiteTopUp SiteSource = "top-up"
)

// PlacementReport summarizes a settlement pass
type PlacementReport struct {
	Requested int
	Placed    int
	Sources   map[SiteSource]int
	// Attempts is the number of failed random top-up attempts
	Attempts int
}

// Short reports whether fewer towns were placed than requested
func (r PlacementReport) Short() bool {
	return r.Placed < r.Requested
}

// biomeMap is a full-map biome grid indexed [y][x]
type biomeMap [][]models.Biome

func (m biomeMap) at(p Point) (models.Biome, bool) {
	if p.Y < 0 || p.Y >= len(m) || p.X < 0 || p.X >= len(m[p.Y]) {
		return "", false
	}
	return m[p.Y][p.X], true
}

func (m biomeMap) water(p Point) bool {
	b, ok := m.at(p)
	return !ok || b.IsWater()
}

// settlement tracks one placement pass
type settlement struct {
	gen     *Generator
	world   models.World
	biomes  biomeMap
	minDist float64
	root    Point
	towns   []models.Town
	report  PlacementReport
}

// GenerateWorldTowns places the world's towns on its full-map climate:
// a root town near the map center, then river junctions, riversides and
// biome transitions, then random top-up sites. Towns never sit on water and
// never closer than the minimum spacing. Placing fewer towns than
// requested is not an error; the report records it.
func (g *Generator) GenerateWorldTowns(world models.World) ([]models.Town, PlacementReport, error) {
	if world.Seed == "" {
		return nil, PlacementReport{}, ErrInvalidSeed
	}
	if world.MapSize <= 0 {
		return nil, PlacementReport{}, fmt.Errorf("%w: map size %d", ErrInvalidBounds, world.MapSize)
	}

	s := &settlement{
		gen:     g,
		world:   world,
		biomes:  g.biomeMap(world),
		minDist: float64(max(g.cfg.MinTownSpacing, world.MapSize/g.cfg.TownSpacingDivisor)),
		report: PlacementReport{
			Requested: max(1, world.NumTowns),
			Sources:   make(map[SiteSource]int),
		},
	}
	rng := random.New(world.Seed + "_towns")

	// 1. Root town, snapped off water
	s.root = s.snapToLand(Point{world.MapSize / 2, world.MapSize / 2})
	s.place(s.root, SiteRoot)

	// 2. Feature sites in priority order
	junctions, riversides, transitions := s.candidates()
	for _, group := range []struct {
		source SiteSource
		points []Point
	}{
		{SiteJunction, junctions},
		{SiteRiverside, riversides},
		{SiteTransition, transitions},
	} {
		for _, p := range group.points {
			if s.full() {
				break
			}
			if s.spaced(p) {
				s.place(p, group.source)
			}
		}
	}

	// 3. Random top-up
	last := world.MapSize - 1
	for !s.full() && s.report.Attempts < g.cfg.TopUpAttempts {
		p := Point{rng.IntN(0, last), rng.IntN(0, last)}
		if s.biomes.water(p) || !s.spaced(p) {
			s.report.Attempts++
			continue
		}
		s.place(p, SiteTopUp)
	}

	s.report.Placed = len(s.towns)
	return s.towns, s.report, nil
}

// biomeMap classifies the whole map, marking river candidates as river
func (g *Generator) biomeMap(world models.World) biomeMap {
	b := MapBounds(world.MapSize)
	fields := sampleClimateFields(g.cfg.Noise, world.Seed, b)

	grid := make(biomeMap, world.MapSize)
	for y := range grid {
		grid[y] = make([]models.Biome, world.MapSize)
		for x := range grid[y] {
			c := climateAt(fields, Point{x, y}, world)
			biome := c.biome()
			if c.riverCandidate && biome != models.BiomeOcean && biome != models.BiomeLake {
				biome = models.BiomeRiver
			}
			grid[y][x] = biome
		}
	}
	return grid
}

func (s *settlement) full() bool {
	return len(s.towns) >= s.report.Requested
}

// snapToLand searches square rings of growing radius for the nearest dry tile
func (s *settlement) snapToLand(p Point) Point {
	if !s.biomes.water(p) {
		return p
	}
	for r := 1; r < s.world.MapSize; r++ {
		for dx := -r; dx <= r; dx++ {
			for dy := -r; dy <= r; dy++ {
				if max(abs(dx), abs(dy)) != r {
					continue
				}
				if q := p.Add(dx, dy); !s.biomes.water(q) {
					return q
				}
			}
		}
	}
	return p
}

// candidates sorts dry tiles into feature pools, each in scan order
func (s *settlement) candidates() (junctions, riversides, transitions []Point) {
	size := s.world.MapSize
	for y := range size {
		for x := range size {
			p := Point{x, y}
			here, _ := s.biomes.at(p)
			if here.IsWater() {
				continue
			}

			rivers, differs := 0, false
			for _, n := range p.Neighbors() {
				nb, ok := s.biomes.at(n)
				if !ok {
					continue
				}
				if nb == models.BiomeRiver {
					rivers++
				}
				if !nb.IsWater() && nb != here {
					differs = true
				}
			}

			interior := x > 0 && y > 0 && x < size-1 && y < size-1
			switch {
			case rivers > 1:
				junctions = append(junctions, p)
			case rivers == 1:
				riversides = append(riversides, p)
			case interior && differs:
				transitions = append(transitions, p)
			}
		}
	}
	return junctions, riversides, transitions
}

// spaced reports whether p keeps the minimum distance to every placed town
func (s *settlement) spaced(p Point) bool {
	for _, t := range s.towns {
		if dist(p, PointOf(t.Position)) < s.minDist {
			return false
		}
	}
	return true
}

// place adds a town at p. Its parent is the nearest placed town that is no
// deeper than it; the root is at depth 0, so every later town has one.
func (s *settlement) place(p Point, source SiteSource) {
	depth := int(math.Floor(dist(p, s.root) / 5))
	parentID := ""
	best := math.Inf(1)
	for _, t := range s.towns {
		if t.Depth > depth {
			continue
		}
		if d := dist(p, PointOf(t.Position)); d < best {
			best, parentID = d, t.ID
		}
	}

	town := s.gen.GenerateTown(TownSite{
		Seed:     siteSeed(s.world.Seed, len(s.towns), source),
		WorldID:  s.world.ID,
		Position: p,
		Depth:    depth,
		ParentID: parentID,
	})
	s.towns = append(s.towns, town)
	s.report.Sources[source]++
}

// siteSeed derives a town's seed from the world seed. The root keeps the bare
// seed, feature sites append their index among feature towns (from 0) and
// top-up sites append the number of towns already placed.
func siteSeed(worldSeed string, placed int, source SiteSource) string {
	switch source {
	case SiteRoot:
		return worldSeed
	case SiteTopUp:
		return worldSeed + strconv.Itoa(placed)
	}
	return worldSeed + strconv.Itoa(placed-1)
}

func dist(a, b Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}
