package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Save backends
const (
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
)

// Config holds all application configuration
type Config struct {
	ServerAddr  string `env:"SERVER_ADDR" envDefault:":8080"`
	SaveBackend string `env:"SAVE_BACKEND" envDefault:"yaml"`
	SaveDir     string `env:"SAVE_DIR" envDefault:".saves"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"realmgen.db"`
	Noise       string `env:"NOISE" envDefault:"lattice"`
	GameConfig  GameConfig
}

// GameConfig holds play and display settings
type GameConfig struct {
	ViewDistance   int    `env:"VIEW_DISTANCE" envDefault:"5"`
	ViewportWidth  int    `env:"VIEWPORT_WIDTH" envDefault:"40"`
	ViewportHeight int    `env:"VIEWPORT_HEIGHT" envDefault:"20"`
	PlayerChar     string `env:"PLAYER_CHAR" envDefault:"@"`
	PlayerColor    string `env:"PLAYER_COLOR" envDefault:"#FFD700"`
	Theme          Theme  `envPrefix:"THEME_"`
}

// Theme holds color scheme settings for terminal output
type Theme struct {
	Text   string `env:"TEXT" envDefault:"#E0E0E0"`
	Accent string `env:"ACCENT" envDefault:"#7FDBFF"`
	Error  string `env:"ERROR" envDefault:"#FF4136"`
}

// Load reads configuration from REALMGEN_* environment variables
func Load() (*Config, error) {
	return parse(env.Options{Prefix: "REALMGEN_"})
}

// LoadFrom reads configuration from an explicit variable set instead of the process environment
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Prefix: "REALMGEN_", Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.SaveBackend = strings.ToLower(strings.TrimSpace(c.SaveBackend))
	switch c.SaveBackend {
	case BackendYAML, BackendSQLite:
	default:
		return fmt.Errorf("invalid save backend %q: want %s or %s", c.SaveBackend, BackendYAML, BackendSQLite)
	}

	c.Noise = strings.ToLower(strings.TrimSpace(c.Noise))
	switch c.Noise {
	case "lattice", "perlin", "simplex":
	default:
		return fmt.Errorf("invalid noise backend %q", c.Noise)
	}

	g := c.GameConfig
	if g.ViewDistance < 1 {
		return fmt.Errorf("view distance must be positive, got %d", g.ViewDistance)
	}
	if g.ViewportWidth < 1 || g.ViewportHeight < 1 {
		return fmt.Errorf("viewport must be positive, got %dx%d", g.ViewportWidth, g.ViewportHeight)
	}
	if len([]rune(g.PlayerChar)) != 1 {
		return fmt.Errorf("player char must be a single character, got %q", g.PlayerChar)
	}
	return nil
}
