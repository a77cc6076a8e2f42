package models

import "time"

// Biome is the terrain class of a tile
type Biome string

const (
	BiomeOcean     Biome = "ocean"
	BiomeBeach     Biome = "beach"
	BiomePlains    Biome = "plains"
	BiomeForest    Biome = "forest"
	BiomeJungle    Biome = "jungle"
	BiomeDesert    Biome = "desert"
	BiomeTundra    Biome = "tundra"
	BiomeMountains Biome = "mountains"
	BiomeHighlands Biome = "highlands"
	BiomeSwamp     Biome = "swamp"
	BiomeMarsh     Biome = "marsh"
	BiomeRiver     Biome = "river"
	BiomeLake      Biome = "lake"
	BiomeVolcanic  Biome = "volcanic"
	BiomeWasteland Biome = "wasteland"
)

// AllBiomes lists every biome in a stable order
var AllBiomes = []Biome{
	BiomeOcean, BiomeBeach, BiomePlains, BiomeForest, BiomeJungle,
	BiomeDesert, BiomeTundra, BiomeMountains, BiomeHighlands, BiomeSwamp,
	BiomeMarsh, BiomeRiver, BiomeLake, BiomeVolcanic, BiomeWasteland,
}

// IsWater reports whether the biome is open water
func (b Biome) IsWater() bool {
	return b == BiomeOcean || b == BiomeLake || b == BiomeRiver
}

// Weather is the current weather on a tile
type Weather string

const (
	WeatherClear     Weather = "clear"
	WeatherCloudy    Weather = "cloudy"
	WeatherRain      Weather = "rain"
	WeatherSnow      Weather = "snow"
	WeatherStorm     Weather = "storm"
	WeatherFog       Weather = "fog"
	WeatherHeatwave  Weather = "heatwave"
	WeatherSandstorm Weather = "sandstorm"
)

// PathType is the surface of a road
type PathType string

const (
	PathDirt  PathType = "dirt"
	PathPaved PathType = "paved"
)

// AdventureOption is one way the player can leave a tile
type AdventureOption struct {
	Text        string `json:"text" yaml:"text"`
	Direction   string `json:"direction" yaml:"direction"`
	Result      string `json:"result" yaml:"result"`
	DangerLevel int    `json:"danger_level" yaml:"danger_level"`
}

// Tile is a single generated map cell
type Tile struct {
	WorldID     string            `json:"world_id" yaml:"world_id"`
	X           int               `json:"x" yaml:"x"`
	Y           int               `json:"y" yaml:"y"`
	Elevation   int               `json:"elevation" yaml:"elevation"`     // 0-100
	Temperature int               `json:"temperature" yaml:"temperature"` // 0-100
	Moisture    float64           `json:"moisture" yaml:"moisture"`       // 0-100
	Biome       Biome             `json:"biome" yaml:"biome"`
	Weather     Weather           `json:"weather" yaml:"weather"`
	Difficulty  int               `json:"difficulty" yaml:"difficulty"`
	HasRiver    bool              `json:"has_river" yaml:"has_river"`
	IsLake      bool              `json:"is_lake" yaml:"is_lake"`
	HasTown     bool              `json:"has_town" yaml:"has_town"`
	TownID      string            `json:"town_id,omitempty" yaml:"town_id,omitempty"`
	HasPath     bool              `json:"has_path" yaml:"has_path"`
	PathType    PathType          `json:"path_type,omitempty" yaml:"path_type,omitempty"`
	HasPortal   bool              `json:"has_portal" yaml:"has_portal"`
	Discovered  bool              `json:"discovered" yaml:"discovered"`
	Description string            `json:"description" yaml:"description"`
	Options     []AdventureOption `json:"options,omitempty" yaml:"options,omitempty"`
}

// Position returns the tile's map coordinate
func (t Tile) Position() Position {
	return Position{X: t.X, Y: t.Y}
}

// World holds the seed-derived world parameters
type World struct {
	ID             string    `json:"id" yaml:"id"`
	Name           string    `json:"name" yaml:"name"`
	Seed           string    `json:"seed" yaml:"seed"`
	MapSize        int       `json:"map_size" yaml:"map_size"`
	DifficultyBias float64   `json:"difficulty_bias" yaml:"difficulty_bias"`
	ClimateBias    float64   `json:"climate_bias" yaml:"climate_bias"`
	MoistureBias   float64   `json:"moisture_bias" yaml:"moisture_bias"`
	NumTowns       int       `json:"num_towns" yaml:"num_towns"`
	CreatedAt      time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// Road is a realized path between two towns
type Road struct {
	From     string     `json:"from" yaml:"from"`
	To       string     `json:"to" yaml:"to"`
	Type     PathType   `json:"type" yaml:"type"`
	Points   []Position `json:"points" yaml:"points"`
	Fallback bool       `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// ViewportData represents the visible area around the player
type ViewportData struct {
	Tiles   [][]RenderedTile `json:"tiles"`
	PlayerX int              `json:"player_x"` // Relative to viewport
	PlayerY int              `json:"player_y"` // Relative to viewport
	Current *Tile            `json:"current,omitempty"`
	Town    *Town            `json:"town,omitempty"`
}

// RenderedTile represents a tile as sent to the client
type RenderedTile struct {
	Character string `json:"char"`
	Color     string `json:"color"`
}
