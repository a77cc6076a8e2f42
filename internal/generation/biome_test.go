package generation

import (
	"testing"

	"dconn.dev/realmgen/internal/models"
	"dconn.dev/realmgen/internal/random"
)

func TestClassifyBiome(t *testing.T) {
	tests := []struct {
		name       string
		e, t, m, l float64
		want       models.Biome
	}{
		{"deep water", 0.2, 0.5, 0.5, 0.0, models.BiomeOcean},
		{"cold peak", 0.9, 0.1, 0.5, 0.5, models.BiomeTundra},
		{"polar peak", 0.9, 0.5, 0.5, 0.8, models.BiomeTundra},
		{"hot equatorial peak", 0.9, 0.8, 0.5, 0.1, models.BiomeVolcanic},
		{"temperate peak", 0.9, 0.5, 0.5, 0.5, models.BiomeMountains},
		{"cold upland", 0.7, 0.2, 0.5, 0.5, models.BiomeHighlands},
		{"hot dry upland", 0.7, 0.8, 0.2, 0.2, models.BiomeWasteland},
		{"temperate upland", 0.7, 0.5, 0.5, 0.5, models.BiomeMountains},
		{"frozen lowland", 0.5, 0.1, 0.5, 0.5, models.BiomeTundra},
		{"polar lowland", 0.5, 0.5, 0.5, 0.9, models.BiomeTundra},
		{"scorched dry", 0.5, 0.9, 0.2, 0.1, models.BiomeDesert},
		{"scorched wet", 0.5, 0.9, 0.7, 0.1, models.BiomeJungle},
		{"scorched middling", 0.5, 0.9, 0.5, 0.1, models.BiomeWasteland},
		{"warm dry", 0.5, 0.7, 0.2, 0.5, models.BiomeDesert},
		{"mild dry", 0.5, 0.5, 0.2, 0.5, models.BiomePlains},
		{"low wet", 0.35, 0.5, 0.8, 0.5, models.BiomeSwamp},
		{"warm wet", 0.5, 0.7, 0.8, 0.5, models.BiomeJungle},
		{"mild wet", 0.5, 0.5, 0.8, 0.5, models.BiomeForest},
		{"damp", 0.5, 0.5, 0.6, 0.5, models.BiomeForest},
		{"fallback", 0.5, 0.5, 0.4, 0.5, models.BiomePlains},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyBiome(tt.e, tt.t, tt.m, tt.l); got != tt.want {
				t.Errorf("ClassifyBiome(%v, %v, %v, %v) = %s, want %s", tt.e, tt.t, tt.m, tt.l, got, tt.want)
			}
		})
	}
}

func TestClassifyBiomeIsTotal(t *testing.T) {
	steps := []float64{-0.2, 0, 0.15, 0.3, 0.45, 0.6, 0.75, 0.9, 1, 1.2}
	for _, e := range steps {
		for _, temp := range steps {
			for _, m := range steps {
				for _, lat := range steps {
					if ClassifyBiome(e, temp, m, lat) == "" {
						t.Fatalf("no biome for (%v, %v, %v, %v)", e, temp, m, lat)
					}
				}
			}
		}
	}
}

func TestChooseWeatherClimateGates(t *testing.T) {
	rng := random.New("weather")
	for range 2000 {
		// Cool and damp: neither heatwave nor sandstorm is possible
		switch w := ChooseWeather(0.4, 0.6, rng); w {
		case models.WeatherHeatwave, models.WeatherSandstorm:
			t.Fatalf("got %s in a cool damp climate", w)
		}
	}

	seen := make(map[models.Weather]bool)
	for range 5000 {
		seen[ChooseWeather(0.9, 0.1, rng)] = true
	}
	if !seen[models.WeatherHeatwave] || !seen[models.WeatherSandstorm] {
		t.Errorf("hot dry climate never produced heatwave and sandstorm: %v", seen)
	}
}

func TestChooseWeatherDeterministic(t *testing.T) {
	a, b := random.New("same"), random.New("same")
	for range 100 {
		if wa, wb := ChooseWeather(0.6, 0.5, a), ChooseWeather(0.6, 0.5, b); wa != wb {
			t.Fatalf("weather diverged: %s vs %s", wa, wb)
		}
	}
}

func TestTileDifficultyClamped(t *testing.T) {
	if got := TileDifficulty(50, 50, 100, 0, -0.5, models.BiomeOcean); got != 1 {
		t.Errorf("calm center difficulty = %d, want 1", got)
	}
	if got := TileDifficulty(0, 0, 100, 1, 0.5, models.BiomeVolcanic); got != 10 {
		t.Errorf("volcanic corner difficulty = %d, want 10", got)
	}
}

func TestLatitude(t *testing.T) {
	if got := Latitude(50, 100); got != 0 {
		t.Errorf("Latitude(mid) = %f, want 0", got)
	}
	if got := Latitude(0, 100); got != 1 {
		t.Errorf("Latitude(top) = %f, want 1", got)
	}
}
