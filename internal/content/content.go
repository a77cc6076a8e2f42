// Package content holds the read-only tables generation and combat draw from:
// monster templates, item catalogs, name parts, town layouts and flavor text.
// The tables are embedded YAML and decoded once.
package content

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"dconn.dev/realmgen/internal/models"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Tables is the full set of content tables
type Tables struct {
	Text     TextTables
	Names    map[string]NameParts
	Towns    TownTables
	Monsters MonsterTables
	Items    ItemTables
}

// TextTables holds tile flavor text
type TextTables struct {
	BiomeDescriptions map[models.Biome][]string `yaml:"biome_descriptions"`
	Weather           map[models.Weather]string `yaml:"weather"`
	DangerHints       []string                  `yaml:"danger_hints"`
	Narrative         Narrative                 `yaml:"narrative"`
	DirectionPhrases  map[string][]string       `yaml:"direction_phrases"`
	MovePhrases       map[string][]string       `yaml:"move_phrases"`
	BiomeNames        map[models.Biome][]string `yaml:"biome_names"`
}

// Narrative holds the extra sentence appended to tile descriptions
type Narrative struct {
	Conflict  string           `yaml:"conflict"`
	Travelers string           `yaml:"travelers"`
	Groups    []NarrativeGroup `yaml:"groups"`
}

// NarrativeGroup is a biome-specific narrative line
type NarrativeGroup struct {
	Biomes []models.Biome `yaml:"biomes"`
	Text   string         `yaml:"text"`
}

// NameParts are the fragments a name is assembled from
type NameParts struct {
	Prefixes []string `yaml:"prefixes"`
	Roots    []string `yaml:"roots"`
	Suffixes []string `yaml:"suffixes"`
}

// Scaled is a value that grows with town depth: base + per_depth*depth
type Scaled struct {
	Base     int `yaml:"base"`
	PerDepth int `yaml:"per_depth"`
}

// At evaluates the value at a depth
func (s Scaled) At(depth int) int {
	return s.Base + s.PerDepth*depth
}

// Stepped is a level that grows every depth_divisor depths
type Stepped struct {
	Base         int `yaml:"base"`
	DepthDivisor int `yaml:"depth_divisor"`
}

// At evaluates the level at a depth
func (s Stepped) At(depth int) int {
	if s.DepthDivisor <= 0 {
		return s.Base
	}
	return s.Base + depth/s.DepthDivisor
}

// ServiceTemplate describes a building service
type ServiceTemplate struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Type        models.ServiceType `yaml:"type"`
	Cost        Scaled             `yaml:"cost"`
	Level       Stepped            `yaml:"level"`
}

// BuildingTemplate describes a town building
type BuildingTemplate struct {
	Type        string            `yaml:"type"`
	Names       []string          `yaml:"names"`
	Description string            `yaml:"description"`
	Services    []ServiceTemplate `yaml:"services"`
}

// QuestTables hold quest text templates
type QuestTables struct {
	MonsterTypes []string `yaml:"monster_types"`
	Titles       []string `yaml:"titles"`
	Descriptions []string `yaml:"descriptions"`
}

// TownTables hold everything needed to furnish a town
type TownTables struct {
	Regions         []string                    `yaml:"regions"`
	Descriptions    []string                    `yaml:"descriptions"`
	CoreBuildings   []BuildingTemplate          `yaml:"core_buildings"`
	RegionBuildings map[string]BuildingTemplate `yaml:"region_buildings"`
	ExtraBuildings  []BuildingTemplate          `yaml:"extra_buildings"`
	Quests          QuestTables                 `yaml:"quests"`
	RecruitClasses  []string                    `yaml:"recruit_classes"`
}

// StatScaling gives a monster's stats as base + per_level*(level-1)
type StatScaling struct {
	HPBase          float64 `yaml:"hp_base"`
	HPPerLevel      float64 `yaml:"hp_per_level"`
	AttackBase      float64 `yaml:"attack_base"`
	AttackPerLevel  float64 `yaml:"attack_per_level"`
	DefenseBase     float64 `yaml:"defense_base"`
	DefensePerLevel float64 `yaml:"defense_per_level"`
	SpeedBase       float64 `yaml:"speed_base"`
	SpeedPerLevel   float64 `yaml:"speed_per_level"`
}

// AbilityTemplate is an ability before it is scaled to a monster
type AbilityTemplate struct {
	Name             string               `yaml:"name"`
	Description      string               `yaml:"description"`
	Kind             models.AbilityKind   `yaml:"kind"`
	DamageMultiplier float64              `yaml:"damage_multiplier"`
	HealFraction     float64              `yaml:"heal_fraction"`
	UseChance        float64              `yaml:"use_chance"`
	TargetAll        bool                 `yaml:"target_all"`
	Status           *models.StatusEffect `yaml:"status"`
}

// MonsterTemplate is one kind of monster that can appear in a biome
type MonsterTemplate struct {
	Name        string               `yaml:"name"`
	Description string               `yaml:"description"`
	BaseLevel   int                  `yaml:"base_level"`
	Stats       StatScaling          `yaml:"stats"`
	Abilities   []AbilityTemplate    `yaml:"abilities"`
	Drops       []models.MonsterDrop `yaml:"drops"`
}

// MonsterTables map biomes to their encounter templates
type MonsterTables struct {
	FallbackBiome models.Biome                       `yaml:"fallback_biome"`
	Biomes        map[models.Biome][]MonsterTemplate `yaml:"biomes"`
}

// RangedType is an equipment base with a stat range
type RangedType struct {
	Name string `yaml:"name"`
	Min  int    `yaml:"min"`
	Max  int    `yaml:"max"`
}

// Material is an armor material with its multiplier
type Material struct {
	Name       string  `yaml:"name"`
	Multiplier float64 `yaml:"multiplier"`
}

// ConsumableType is a potion kind
type ConsumableType struct {
	Name     string            `yaml:"name"`
	Effect   string            `yaml:"effect"`
	Color    string            `yaml:"color"`
	Restores string            `yaml:"restores"`
	Cures    models.StatusCure `yaml:"cures"`
}

// ItemTables hold item catalogs
type ItemTables struct {
	Drops             map[string]string  `yaml:"drops"`
	StarterItems      []models.Item      `yaml:"starter_items"`
	Rarities          []string           `yaml:"rarities"`
	RarityMultipliers map[string]float64 `yaml:"rarity_multipliers"`
	BonusStats        []string           `yaml:"bonus_stats"`
	Weapons           struct {
		Types    []RangedType `yaml:"types"`
		Prefixes []string     `yaml:"prefixes"`
		Suffixes []string     `yaml:"suffixes"`
	} `yaml:"weapons"`
	Armor struct {
		Types     []RangedType `yaml:"types"`
		Materials []Material   `yaml:"materials"`
		Prefixes  []string     `yaml:"prefixes"`
		Suffixes  []string     `yaml:"suffixes"`
	} `yaml:"armor"`
	Accessories struct {
		Types      []string `yaml:"types"`
		Materials  []string `yaml:"materials"`
		Prefixes   []string `yaml:"prefixes"`
		Suffixes   []string `yaml:"suffixes"`
		BonusStats []string `yaml:"bonus_stats"`
	} `yaml:"accessories"`
	Consumables struct {
		Types []ConsumableType `yaml:"types"`
		Sizes []Material       `yaml:"sizes"`
	} `yaml:"consumables"`
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
)

// Default returns the embedded tables, decoding them on first use.
// Malformed embedded data is a build defect and panics.
func Default() *Tables {
	defaultOnce.Do(func() {
		t, err := Load()
		if err != nil {
			panic("Failed to load content tables: " + err.Error())
		}
		defaultTables = t
	})
	return defaultTables
}

// Load decodes every embedded table
func Load() (*Tables, error) {
	t := &Tables{}
	files := []struct {
		name   string
		target any
	}{
		{"text.yaml", &t.Text},
		{"names.yaml", &t.Names},
		{"towns.yaml", &t.Towns},
		{"monsters.yaml", &t.Monsters},
		{"items.yaml", &t.Items},
	}
	for _, f := range files {
		data, err := dataFS.ReadFile("data/" + f.name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.name, err)
		}
		if err := yaml.Unmarshal(data, f.target); err != nil {
			return nil, fmt.Errorf("parse %s: %w", f.name, err)
		}
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tables) validate() error {
	for _, b := range models.AllBiomes {
		if len(t.Text.BiomeDescriptions[b]) == 0 {
			return fmt.Errorf("no descriptions for biome %s", b)
		}
		if len(t.Text.BiomeNames[b]) == 0 {
			return fmt.Errorf("no names for biome %s", b)
		}
	}
	if len(t.Text.DangerHints) != 6 {
		return fmt.Errorf("expected 6 danger hints, got %d", len(t.Text.DangerHints))
	}
	for _, kind := range []string{"town", "world", "character", "monster", "item"} {
		parts, ok := t.Names[kind]
		if !ok || len(parts.Prefixes) == 0 || len(parts.Roots) == 0 || len(parts.Suffixes) == 0 {
			return fmt.Errorf("incomplete name parts for %s", kind)
		}
	}
	if len(t.Monsters.Biomes[t.Monsters.FallbackBiome]) == 0 {
		return fmt.Errorf("fallback biome %s has no monsters", t.Monsters.FallbackBiome)
	}
	if len(t.Towns.Regions) == 0 || len(t.Towns.Descriptions) == 0 || len(t.Towns.CoreBuildings) == 0 {
		return fmt.Errorf("incomplete town tables")
	}
	it := t.Items
	if len(it.Weapons.Types) == 0 || len(it.Armor.Types) == 0 || len(it.Armor.Materials) == 0 ||
		len(it.Accessories.Types) == 0 || len(it.Accessories.Materials) == 0 ||
		len(it.Consumables.Types) == 0 || len(it.Consumables.Sizes) == 0 {
		return fmt.Errorf("incomplete item tables")
	}
	return nil
}

// MonsterTemplates returns the templates for a biome, falling back when it has none
func (t *Tables) MonsterTemplates(b models.Biome) []MonsterTemplate {
	if list := t.Monsters.Biomes[b]; len(list) > 0 {
		return list
	}
	return t.Monsters.Biomes[t.Monsters.FallbackBiome]
}

// ItemName returns the display name of a drop id
func (t *Tables) ItemName(id string) string {
	if name, ok := t.Items.Drops[id]; ok {
		return name
	}
	words := strings.Split(id, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// StarterItems returns the new-player kit with ids bound to a seed
func (t *Tables) StarterItems(seed string) []models.Item {
	items := make([]models.Item, len(t.Items.StarterItems))
	for i, it := range t.Items.StarterItems {
		items[i] = it.Clone()
		items[i].ID = strings.ReplaceAll(it.ID, "{seed}", seed)
	}
	return items
}

// RarityMultiplier returns the stat multiplier for a rarity
func (t *Tables) RarityMultiplier(rarity string) float64 {
	if m, ok := t.Items.RarityMultipliers[rarity]; ok {
		return m
	}
	return 1
}
