package generation

import (
	"math"

	"dconn.dev/realmgen/internal/models"
	"dconn.dev/realmgen/internal/random"
)

// hydrology carves lakes and rivers into a classified grid and smooths the
// shoreline. It never fails: a grid without candidates is left unchanged.
type hydrology struct {
	gen   *Generator
	seed  string
	grid  *Grid
	rng   *random.Rand
	river map[Point]bool // river-candidate tiles from the river noise channel
}

func newHydrology(gen *Generator, seed string, grid *Grid, candidates map[Point]bool) *hydrology {
	b := grid.Bounds
	hseed := seed + "_hydrology_" + formatBounds(b)
	return &hydrology{
		gen:   gen,
		seed:  seed,
		grid:  grid,
		rng:   random.New(hseed),
		river: candidates,
	}
}

func (h *hydrology) run() {
	h.carveLakes()
	h.carveRivers()
	h.adjustShoreline()
}

// lakeCandidates are interior low basins no neighbor sits below
func (h *hydrology) lakeCandidates() []Point {
	var out []Point
	h.grid.Each(func(p Point, t *models.Tile) {
		if !h.grid.Interior(p) || t.Biome == models.BiomeOcean {
			return
		}
		if t.Elevation <= 30 || t.Elevation >= 40 {
			return
		}
		for _, n := range p.Neighbors() {
			if nt := h.grid.Get(n); nt != nil && nt.Elevation < t.Elevation {
				return
			}
		}
		out = append(out, p)
	})
	return out
}

func (h *hydrology) carveLakes() {
	candidates := h.lakeCandidates()
	area := h.grid.Bounds.Width() * h.grid.Bounds.Height()
	count := min(len(candidates), max(1, area/h.gen.cfg.LakeAreaPerLake))

	for range count {
		i := h.rng.IntN(0, len(candidates)-1)
		center := candidates[i]
		candidates = append(candidates[:i], candidates[i+1:]...)

		radius := h.rng.IntN(3, 8)
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if math.Hypot(float64(dx), float64(dy)) > float64(radius) {
					continue
				}
				if t := h.grid.Get(center.Add(dx, dy)); t != nil && t.Biome != models.BiomeOcean {
					h.toLake(t)
				}
			}
		}
	}
}

// riverSources are high river-candidate tiles still on dry land
func (h *hydrology) riverSources() []Point {
	var out []Point
	h.grid.Each(func(p Point, t *models.Tile) {
		if h.river[p] && t.Elevation > 60 && !t.Biome.IsWater() {
			out = append(out, p)
		}
	})
	return out
}

func (h *hydrology) carveRivers() {
	sources := h.riverSources()
	area := h.grid.Bounds.Width() * h.grid.Bounds.Height()
	count := min(len(sources), max(1, area/h.gen.cfg.RiverAreaPerRiver))

	for range count {
		i := h.rng.IntN(0, len(sources)-1)
		source := sources[i]
		sources = append(sources[:i], sources[i+1:]...)
		h.flow(source)
	}
}

// flow walks a river downhill from its source until it meets water,
// dead-ends into a terminal lake, or runs out of steps
func (h *hydrology) flow(source Point) {
	course := map[Point]bool{source: true}
	current := source
	h.toRiver(h.grid.Get(current))

	dirs := make([]Point, len(offsets8))
	for range h.gen.cfg.MaxRiverSteps {
		for i, d := range offsets8 {
			dirs[i] = Point{d[0], d[1]}
		}
		random.Shuffle(h.rng, dirs)

		here := h.grid.Get(current)
		next, found := current, false
		lowest := here.Elevation
		for _, d := range dirs {
			p := current.Add(d.X, d.Y)
			nt := h.grid.Get(p)
			if nt == nil {
				continue
			}
			// Water ends the river, but its own course does not count
			if nt.Biome.IsWater() && !course[p] {
				next, found = p, true
				break
			}
			if nt.Elevation < lowest {
				lowest = nt.Elevation
				next, found = p, true
			}
		}

		if !found {
			if here.Biome != models.BiomeOcean && here.Biome != models.BiomeLake {
				h.toLake(here)
			}
			return
		}

		current = next
		t := h.grid.Get(current)
		if t.Biome.IsWater() && !course[current] {
			return
		}
		course[current] = true
		h.toRiver(t)
	}
}

func (h *hydrology) toLake(t *models.Tile) {
	t.Biome = models.BiomeLake
	t.IsLake = true
	t.HasRiver = false
	h.gen.describe(h.seed, t)
}

func (h *hydrology) toRiver(t *models.Tile) {
	t.Biome = models.BiomeRiver
	t.HasRiver = true
	t.IsLake = false
	h.gen.describe(h.seed, t)
}

// adjustShoreline turns low land beside open water into beach or marsh.
// Candidates are collected before any conversion.
func (h *hydrology) adjustShoreline() {
	var shore []Point
	h.grid.Each(func(p Point, t *models.Tile) {
		if t.Biome.IsWater() {
			return
		}
		for _, n := range p.Neighbors() {
			if nt := h.grid.Get(n); nt != nil && (nt.Biome == models.BiomeOcean || nt.Biome == models.BiomeLake) {
				shore = append(shore, p)
				return
			}
		}
	})

	for _, p := range shore {
		t := h.grid.Get(p)
		switch {
		case t.Elevation < 40 && (t.Biome == models.BiomePlains || t.Biome == models.BiomeDesert):
			t.Biome = models.BiomeBeach
		case t.Elevation < 35 && (t.Biome == models.BiomePlains || t.Biome == models.BiomeForest || t.Biome == models.BiomeSwamp):
			t.Biome = models.BiomeMarsh
		default:
			continue
		}
		h.gen.describe(h.seed, t)
	}
}
