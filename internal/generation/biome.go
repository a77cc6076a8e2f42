package generation

import (
	"math"

	"dconn.dev/realmgen/internal/models"
	"dconn.dev/realmgen/internal/random"
)

// ClassifyBiome maps normalized elevation, temperature, moisture and
// latitude (0 at the equator, 1 at the poles) to a biome. Every input
// yields a biome; plains is the fallback.
func ClassifyBiome(e, t, m, lat float64) models.Biome {
	if e < 0.3 {
		return models.BiomeOcean
	}

	// Peaks
	if e > 0.8 {
		switch {
		case t < 0.2 || lat > 0.7:
			return models.BiomeTundra
		case t > 0.7 && lat < 0.3:
			return models.BiomeVolcanic
		}
		return models.BiomeMountains
	}

	// Uplands
	if e > 0.6 {
		switch {
		case t < 0.3 || lat > 0.6:
			return models.BiomeHighlands
		case t > 0.7 && m < 0.3 && lat < 0.4:
			return models.BiomeWasteland
		}
		return models.BiomeMountains
	}

	if t < 0.2 || lat > 0.8 {
		return models.BiomeTundra
	}

	if t > 0.8 && lat < 0.3 {
		switch {
		case m < 0.3:
			return models.BiomeDesert
		case m > 0.6:
			return models.BiomeJungle
		}
		return models.BiomeWasteland
	}

	if m < 0.3 {
		if t > 0.6 {
			return models.BiomeDesert
		}
		return models.BiomePlains
	}

	if m > 0.7 {
		switch {
		case e < 0.4:
			return models.BiomeSwamp
		case t > 0.6:
			return models.BiomeJungle
		}
		return models.BiomeForest
	}

	if m > 0.5 {
		return models.BiomeForest
	}
	return models.BiomePlains
}

// weatherWeight pairs a weather with its unnormalized weight
type weatherWeight struct {
	weather models.Weather
	weight  float64
}

// ChooseWeather picks a weather from temperature and moisture with a single draw
func ChooseWeather(t, m float64, rng *random.Rand) models.Weather {
	weights := []weatherWeight{
		{models.WeatherClear, 0.6},
		{models.WeatherCloudy, 0.2},
		{models.WeatherRain, m * 0.3},
		{models.WeatherSnow, (1 - t) * 0.3},
		{models.WeatherStorm, m * t * 0.2},
		{models.WeatherFog, m * (1 - t) * 0.2},
		{models.WeatherHeatwave, 0},
		{models.WeatherSandstorm, 0},
	}
	if t > 0.8 {
		weights[6].weight = 0.2
	}
	if t > 0.7 && m < 0.3 {
		weights[7].weight = 0.2
	}

	var total float64
	for _, w := range weights {
		total += math.Max(w.weight, 0)
	}

	roll := rng.Next() * total
	var acc float64
	for _, w := range weights {
		acc += math.Max(w.weight, 0)
		if roll < acc {
			return w.weather
		}
	}
	return weights[len(weights)-1].weather
}

// BiomeDifficultyFactor is the per-biome danger offset
func BiomeDifficultyFactor(b models.Biome) float64 {
	switch b {
	case models.BiomeDesert, models.BiomeVolcanic, models.BiomeWasteland:
		return 2
	case models.BiomeMountains, models.BiomeJungle, models.BiomeSwamp, models.BiomeMarsh:
		return 1.5
	case models.BiomeTundra, models.BiomeHighlands:
		return 1
	case models.BiomeForest:
		return 0.5
	case models.BiomeOcean, models.BiomeRiver, models.BiomeLake:
		return -0.5
	}
	return 0
}

// TileDifficulty rates a tile from 1 to 10 by distance from the map center,
// elevation, the world's difficulty bias and the biome
func TileDifficulty(x, y, mapSize int, e, bias float64, b models.Biome) int {
	half := float64(mapSize) / 2
	dist := math.Hypot(float64(x)-half, float64(y)-half) / half
	raw := (dist*5 + e*3 + bias*2 + BiomeDifficultyFactor(b)) * 1.5
	return clampInt(int(math.Floor(raw)), 1, 10)
}

// climate is the derived climate at one coordinate
type climate struct {
	elevation      float64
	temperature    float64
	moisture       float64
	latitude       float64
	riverCandidate bool
}

// Latitude is 0 at the map's horizontal midline and 1 at its top and bottom edges
func Latitude(y, mapSize int) float64 {
	return math.Abs(float64(y)/float64(mapSize)-0.5) * 2
}

// climateAt applies latitude cooling and the world biases to raw noise
func climateAt(f climateFields, p Point, w models.World) climate {
	e, t, m, r := f.raw(p)
	lat := Latitude(p.Y, w.MapSize)
	return climate{
		elevation:      e,
		temperature:    t - lat*0.5 + w.ClimateBias*0.2,
		moisture:       clampFloat(m+w.MoistureBias*0.2, 0, 1),
		latitude:       lat,
		riverCandidate: r > 0.7 && e > 0.3 && e < 0.8,
	}
}

// biome classifies this climate
func (c climate) biome() models.Biome {
	return ClassifyBiome(c.elevation, c.temperature, c.moisture, c.latitude)
}
