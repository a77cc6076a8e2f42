package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"dconn.dev/realmgen/internal/config"
	"dconn.dev/realmgen/internal/generation"
	"dconn.dev/realmgen/internal/models"
	"dconn.dev/realmgen/internal/random"
	"dconn.dev/realmgen/internal/render"
	"dconn.dev/realmgen/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	seed := flag.String("seed", "", "world seed (random when empty)")
	outputDir := flag.String("out", "", "directory to write world files to")
	format := flag.String("format", "json", "output format: json or yaml")
	noise := flag.String("noise", cfg.Noise, "noise backend: lattice, perlin or simplex")
	show := flag.Bool("render", false, "print the map to the terminal")
	flag.Parse()

	if *format != "json" && *format != "yaml" {
		fmt.Fprintf(os.Stderr, "Unknown format %q\n", *format)
		os.Exit(2)
	}
	if *seed == "" {
		*seed = random.NewSeed()
	}
	cfg.Noise = *noise

	gen, err := services.NewGenerator(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create generator: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generating world from seed %q (%s noise)...\n", *seed, cfg.Noise)
	realm, err := gen.GenerateRealm(*seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  ERROR: %v\n", err)
		os.Exit(1)
	}
	theme := cfg.GameConfig.Theme
	if realm.Placement.Short() {
		fmt.Println(render.Warning(theme, fmt.Sprintf("  Placed %d of %d towns", realm.Placement.Placed, realm.Placement.Requested)))
	}
	if len(realm.Towns) > 0 && !realm.Network.IsConnected(realm.Towns[0].ID) {
		missing := realm.Network.FindUnreachable(realm.Towns[0].ID)
		fmt.Println(render.Warning(theme, fmt.Sprintf("  %d towns have no road", len(missing))))
	}

	if *outputDir != "" {
		if err := writeRealm(*outputDir, *format, realm); err != nil {
			fmt.Fprintf(os.Stderr, "  ERROR: %v\n", err)
			os.Exit(1)
		}
	}

	if *show {
		fmt.Println(render.RenderMap(realm.Tiles, realm.World.MapSize, realm.World.MapSize, render.Options{
			Palette: generation.DefaultPalette(),
			Theme:   theme,
			Title:   realm.World.Name,
			Legend:  true,
		}))
	}

	printSummary(realm)
	fmt.Println("Done!")
}

// writeRealm writes one file per part of the realm
func writeRealm(dir, format string, realm *generation.Realm) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	parts := []struct {
		name string
		data any
	}{
		{"world", realm.World},
		{"tiles", realm.Tiles},
		{"towns", realm.Towns},
		{"roads", realm.Roads},
	}
	for _, part := range parts {
		var (
			data []byte
			err  error
		)
		if format == "yaml" {
			data, err = yaml.Marshal(part.data)
		} else {
			data, err = json.MarshalIndent(part.data, "", "  ")
		}
		if err != nil {
			return fmt.Errorf("marshal %s: %w", part.name, err)
		}

		filename := part.name + "." + format
		if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", filename, err)
		}
		fmt.Printf("  Created %s (%s)\n", filename, humanize.Bytes(uint64(len(data))))
	}
	return nil
}

func printSummary(realm *generation.Realm) {
	w := realm.World
	fmt.Printf("%s: %dx%d, %s tiles, %d towns, %d roads (%d trunk)\n",
		w.Name, w.MapSize, w.MapSize, humanize.Comma(int64(len(realm.Tiles))), len(realm.Towns), len(realm.Roads),
		len(realm.Network.TrunkRoads()))

	counts := make(map[models.Biome]int)
	for _, t := range realm.Tiles {
		counts[t.Biome]++
	}
	for _, b := range models.AllBiomes {
		if counts[b] == 0 {
			continue
		}
		pct := float64(counts[b]) / float64(len(realm.Tiles)) * 100
		fmt.Printf("  %-10s %6s  %5.1f%%\n", b, humanize.Comma(int64(counts[b])), pct)
	}
	for _, t := range realm.Towns {
		fmt.Printf("  %-20s (%d,%d) %s, pop %s\n", t.Name, t.Position.X, t.Position.Y, t.Region, humanize.Comma(int64(t.Population)))
	}
}
