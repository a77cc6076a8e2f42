package generation

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
	"unicode"

	"dconn.dev/realmgen/internal/models"
	"dconn.dev/realmgen/internal/random"
)

func TestGenerateWorld(t *testing.T) {
	g := newTestGenerator(t)
	w, err := g.GenerateWorld("abc")
	if err != nil {
		t.Fatalf("GenerateWorld() error = %v", err)
	}
	if w.ID != "world-abc" || w.Seed != "abc" || w.Name == "" {
		t.Errorf("identity = %q %q %q", w.ID, w.Seed, w.Name)
	}
	if w.MapSize < 50 || w.MapSize > 100 {
		t.Errorf("map size %d", w.MapSize)
	}
	if w.NumTowns < 5 {
		t.Errorf("num towns %d", w.NumTowns)
	}
	for _, bias := range []float64{w.DifficultyBias, w.ClimateBias, w.MoistureBias} {
		if bias < -0.5 || bias >= 0.5 {
			t.Errorf("bias %f out of range", bias)
		}
	}

	again, _ := g.GenerateWorld("abc")
	if w != again {
		t.Fatal("same seed produced a different world")
	}
	if _, err := g.GenerateWorld(""); !errors.Is(err, ErrInvalidSeed) {
		t.Errorf("empty seed: got %v", err)
	}
}

func TestGenerateRealmDeterministic(t *testing.T) {
	g := newTestGenerator(t)
	a, err := g.GenerateRealm("determinism")
	if err != nil {
		t.Fatalf("GenerateRealm() error = %v", err)
	}
	b, err := g.GenerateRealm("determinism")
	if err != nil {
		t.Fatalf("GenerateRealm() error = %v", err)
	}
	if !reflect.DeepEqual(a.Tiles, b.Tiles) || !reflect.DeepEqual(a.Towns, b.Towns) || !reflect.DeepEqual(a.Roads, b.Roads) {
		t.Fatal("same seed produced a different realm")
	}

	idx := IndexTiles(a.Tiles)
	for _, town := range a.Towns {
		tile := idx[PointOf(town.Position)]
		if tile == nil || !tile.HasTown || tile.TownID != town.ID {
			t.Errorf("town %s not marked on its tile", town.ID)
		}
	}
}

func TestAnnotateTownsMentionsVisitedTown(t *testing.T) {
	g := newTestGenerator(t)
	tiles := flatGrid(Bounds{0, 0, 2, 0}, 50).Snapshot()
	now := time.Now()
	town := models.Town{ID: "town-1", Name: "Brightwater", Position: models.Position{X: 1, Y: 0}, LastVisited: &now}

	g.AnnotateTowns("annotate", tiles, []models.Town{town})

	if !tiles[1].HasTown || tiles[1].TownID != "town-1" {
		t.Fatalf("town tile not marked: %+v", tiles[1])
	}
	if len(tiles[0].Options) != 1 || !strings.Contains(tiles[0].Options[0].Text, "Brightwater") {
		t.Errorf("west tile options = %+v", tiles[0].Options)
	}
}

func TestGenerateNameDeterministicAndTitled(t *testing.T) {
	g := newTestGenerator(t)
	for _, kind := range []NameKind{NameTown, NameWorld, NameCharacter, NameNPC, NameMonster, NameItem, "unknown"} {
		a := g.Name(random.New("names"), kind)
		b := g.Name(random.New("names"), kind)
		if a != b {
			t.Errorf("%s: %q vs %q", kind, a, b)
		}
		if a == "" || !unicode.IsUpper([]rune(a)[0]) {
			t.Errorf("%s: name %q is not capitalized", kind, a)
		}
	}
}

func TestDangerLevel(t *testing.T) {
	tests := []struct {
		name string
		tile models.Tile
		want int
	}{
		{"plain", models.Tile{Difficulty: 5, Biome: models.BiomeForest, Weather: models.WeatherClear}, 5},
		{"volcanic storm", models.Tile{Difficulty: 5, Biome: models.BiomeVolcanic, Weather: models.WeatherStorm}, 9},
		{"safe plains", models.Tile{Difficulty: 1, Biome: models.BiomePlains, Weather: models.WeatherClear}, 1},
		{"town", models.Tile{Difficulty: 6, Biome: models.BiomeForest, Weather: models.WeatherClear, HasTown: true}, 3},
		{"capped", models.Tile{Difficulty: 10, Biome: models.BiomeVolcanic, Weather: models.WeatherSandstorm}, 10},
	}
	for _, tt := range tests {
		if got := DangerLevel(&tt.tile); got != tt.want {
			t.Errorf("%s: DangerLevel = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestPaletteGlyphPrecedence(t *testing.T) {
	p := DefaultPalette()
	tile := &models.Tile{Biome: models.BiomeForest, HasPath: true, PathType: models.PathDirt, HasPortal: true, HasTown: true}
	if got := p.Glyph(tile); got != p.Town {
		t.Errorf("town tile glyph = %+v", got)
	}
	tile.HasTown = false
	if got := p.Glyph(tile); got != p.Portal {
		t.Errorf("portal tile glyph = %+v", got)
	}
	tile.HasPortal = false
	if got := p.Glyph(tile); got != p.Dirt {
		t.Errorf("dirt road glyph = %+v", got)
	}
	tile.HasPath = false
	if got := p.Glyph(tile); got != p.Biomes[models.BiomeForest] {
		t.Errorf("forest glyph = %+v", got)
	}
	if got := p.Glyph(nil); got != p.Fog {
		t.Errorf("nil tile glyph = %+v", got)
	}
}
