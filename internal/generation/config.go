package generation

import (
	"errors"
	"fmt"

	"dconn.dev/realmgen/internal/content"
)

var (
	// ErrInvalidSeed is returned when a seed string is empty
	ErrInvalidSeed = errors.New("seed must not be empty")
	// ErrInvalidBounds is returned for inverted regions or regions fully outside the map
	ErrInvalidBounds = errors.New("invalid bounds")
)

// Config holds generation tunables
type Config struct {
	Noise NoiseBackend

	// Hydrology
	LakeAreaPerLake   int
	RiverAreaPerRiver int
	MaxRiverSteps     int

	// Settlements
	MinTownSpacing     int
	TownSpacingDivisor int
	TopUpAttempts      int

	// Roads
	RoadNeighbors int
	DirtChance    float64

	PortalChance float64
}

// DefaultConfig returns the standard generation settings
func DefaultConfig() Config {
	return Config{
		Noise:              NoiseLattice,
		LakeAreaPerLake:    500,
		RiverAreaPerRiver:  400,
		MaxRiverSteps:      100,
		MinTownSpacing:     8,
		TownSpacingDivisor: 15,
		TopUpAttempts:      1000,
		RoadNeighbors:      3,
		DirtChance:         0.7,
		PortalChance:       0.001,
	}
}

// Validate checks that the tunables are usable
func (c Config) Validate() error {
	if _, err := ParseNoiseBackend(string(c.Noise)); err != nil {
		return err
	}
	if c.LakeAreaPerLake <= 0 || c.RiverAreaPerRiver <= 0 {
		return fmt.Errorf("hydrology densities must be positive")
	}
	if c.MaxRiverSteps <= 0 {
		return fmt.Errorf("max river steps must be positive")
	}
	if c.TownSpacingDivisor <= 0 {
		return fmt.Errorf("town spacing divisor must be positive")
	}
	return nil
}

// Generator produces worlds, chunks, towns and roads from string seeds.
// It holds no mutable state and is safe for concurrent use.
type Generator struct {
	cfg    Config
	tables *content.Tables
}

// NewGenerator creates a generator. A nil tables value uses the embedded content.
func NewGenerator(cfg Config, tables *content.Tables) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("generation config: %w", err)
	}
	if tables == nil {
		tables = content.Default()
	}
	return &Generator{cfg: cfg, tables: tables}, nil
}
