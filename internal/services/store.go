package services

import (
	"context"
	"fmt"

	"dconn.dev/realmgen/internal/config"
	"dconn.dev/realmgen/internal/generation"
	"dconn.dev/realmgen/internal/storage"
	"dconn.dev/realmgen/internal/storage/sqlite"
	"dconn.dev/realmgen/internal/storage/yamlfs"
)

// OpenStore opens the save backend named by the configuration
func OpenStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.SaveBackend {
	case config.BackendSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite saves: %w", err)
		}
		return store, nil
	case config.BackendYAML, "":
		store, err := yamlfs.Open(cfg.SaveDir)
		if err != nil {
			return nil, fmt.Errorf("open yaml saves: %w", err)
		}
		return store, nil
	}
	return nil, fmt.Errorf("unknown save backend %q", cfg.SaveBackend)
}

// NewGenerator builds a world generator using the configured noise backend
func NewGenerator(cfg *config.Config) (*generation.Generator, error) {
	backend, err := generation.ParseNoiseBackend(cfg.Noise)
	if err != nil {
		return nil, err
	}
	genCfg := generation.DefaultConfig()
	genCfg.Noise = backend
	return generation.NewGenerator(genCfg, nil)
}
