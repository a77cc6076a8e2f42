package generation

import (
	"fmt"
	"slices"
	"strings"

	"dconn.dev/realmgen/internal/content"
	"dconn.dev/realmgen/internal/models"
	"dconn.dev/realmgen/internal/random"
)

// tileSeed derives a per-tile RNG seed for one concern
func tileSeed(seed, concern string, p Point) string {
	return fmt.Sprintf("%s_%s_%d,%d", seed, concern, p.X, p.Y)
}

// DescribeTile builds a tile's flavor text: a biome sentence, the weather,
// an optional narrative element and a danger hint
func DescribeTile(tables *content.Tables, rng *random.Rand, b models.Biome, w models.Weather, difficulty int) string {
	biomeDesc := ""
	if list := tables.Text.BiomeDescriptions[b]; len(list) > 0 {
		biomeDesc = random.MustPick(rng, list)
	}
	weatherDesc := tables.Text.Weather[w]

	hints := tables.Text.DangerHints
	dangerDesc := ""
	if len(hints) > 0 {
		dangerDesc = hints[clampInt(difficulty/2, 0, len(hints)-1)]
	}

	return biomeDesc + " " + weatherDesc + narrativeElement(tables.Text.Narrative, b, difficulty) + " " + dangerDesc
}

func narrativeElement(n content.Narrative, b models.Biome, difficulty int) string {
	switch {
	case difficulty > 7:
		return n.Conflict
	case difficulty > 4:
		return n.Travelers
	}
	for _, group := range n.Groups {
		if slices.Contains(group.Biomes, b) {
			return group.Text
		}
	}
	return ""
}

// describe regenerates a tile's description from its own RNG stream
func (g *Generator) describe(seed string, t *models.Tile) {
	rng := random.New(tileSeed(seed, "desc", Point{t.X, t.Y}))
	t.Description = DescribeTile(g.tables, rng, t.Biome, t.Weather, t.Difficulty)
}

// DangerLevel rates how risky it is to step onto a tile, from 1 to 10
func DangerLevel(t *models.Tile) int {
	danger := t.Difficulty

	switch t.Biome {
	case models.BiomeVolcanic:
		danger += 2
	case models.BiomeMountains, models.BiomeJungle, models.BiomeWasteland:
		danger++
	case models.BiomeBeach, models.BiomePlains:
		danger--
	}

	switch t.Weather {
	case models.WeatherStorm, models.WeatherSandstorm:
		danger += 2
	case models.WeatherHeatwave, models.WeatherSnow:
		danger++
	}

	if t.HasTown {
		danger = max(1, danger-3)
	}
	return clampInt(danger, 1, 10)
}

// tileLookup resolves a world coordinate to a tile, or nil when it is not loaded
type tileLookup func(p Point) *models.Tile

// townNames maps town ids to names for towns the player has visited
type townNames map[string]string

func visitedTownNames(towns []models.Town) townNames {
	names := make(townNames)
	for _, t := range towns {
		if t.Visited() {
			names[t.ID] = t.Name
		}
	}
	return names
}

// adventureOptions builds one option per cardinal neighbor that is loaded
func (g *Generator) adventureOptions(seed string, p Point, lookup tileLookup, visited townNames) []models.AdventureOption {
	rng := random.New(tileSeed(seed, "opts", p))
	text := g.tables.Text

	options := make([]models.AdventureOption, 0, 4)
	for _, dir := range Cardinals {
		dx, dy := dir.Delta()
		dest := lookup(p.Add(dx, dy))
		if dest == nil {
			continue
		}
		name := dir.String()

		dirPhrase := pickOr(rng, text.DirectionPhrases[name], "Head "+name+" toward")
		biomePhrase := pickOr(rng, text.BiomeNames[dest.Biome], "the "+string(dest.Biome))
		movePhrase := pickOr(rng, text.MovePhrases[name], "Moving "+name)

		options = append(options, models.AdventureOption{
			Text:        dirPhrase + " " + biomePhrase + destinationFeature(dest, visited) + ".",
			Direction:   name,
			Result:      movePhrase + ", you arrive at a new location. " + dest.Description,
			DangerLevel: DangerLevel(dest),
		})
	}
	return options
}

func destinationFeature(t *models.Tile, visited townNames) string {
	switch {
	case t.HasTown:
		if name, ok := visited[t.TownID]; ok {
			return " where the town of " + name + " lies"
		}
		return " where you can see a settlement"
	case t.HasPortal:
		return " where a strange portal glimmers"
	case t.HasPath:
		return " following a path"
	}
	return ""
}

func pickOr(rng *random.Rand, list []string, fallback string) string {
	if v, err := random.Pick(rng, list); err == nil {
		return v
	}
	return fallback
}

// RefreshOptions rebuilds adventure options for every tile in the slice,
// treating the slice as the loaded region
func (g *Generator) RefreshOptions(seed string, tiles []models.Tile, towns []models.Town) {
	idx := IndexTiles(tiles)
	lookup := func(p Point) *models.Tile { return idx[p] }
	visited := visitedTownNames(towns)
	for i := range tiles {
		t := &tiles[i]
		t.Options = g.adventureOptions(seed, Point{t.X, t.Y}, lookup, visited)
	}
}

// TileSummary is a one-line tile summary for logs and CLI output
func TileSummary(t *models.Tile) string {
	var flags []string
	if t.HasTown {
		flags = append(flags, "town")
	}
	if t.HasPath {
		flags = append(flags, string(t.PathType)+" road")
	}
	if t.HasPortal {
		flags = append(flags, "portal")
	}
	s := fmt.Sprintf("(%d,%d) %s, %s, difficulty %d", t.X, t.Y, t.Biome, t.Weather, t.Difficulty)
	if len(flags) > 0 {
		s += " [" + strings.Join(flags, ", ") + "]"
	}
	return s
}
