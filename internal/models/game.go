package models

import (
	"maps"
	"slices"
	"time"
)

// Position represents a coordinate on the game map
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// ItemType classifies inventory items
type ItemType string

const (
	ItemWeapon     ItemType = "weapon"
	ItemArmor      ItemType = "armor"
	ItemAccessory  ItemType = "accessory"
	ItemConsumable ItemType = "consumable"
	ItemMaterial   ItemType = "material"
	ItemQuest      ItemType = "quest"
)

// StatusCure names which ailment a consumable removes
type StatusCure string

const (
	CureNone      StatusCure = ""
	CurePoison    StatusCure = "poison"
	CureSleep     StatusCure = "sleep"
	CureParalysis StatusCure = "paralysis"
	CureConfusion StatusCure = "confusion"
	CureAll       StatusCure = "all"
)

// ConsumableEffect is what using an item does
type ConsumableEffect struct {
	Health     int        `json:"health,omitempty" yaml:"health,omitempty"`
	Mana       int        `json:"mana,omitempty" yaml:"mana,omitempty"`
	StatusCure StatusCure `json:"status_cure,omitempty" yaml:"status_cure,omitempty"`
}

// Item is an inventory entry
type Item struct {
	ID          string            `json:"id" yaml:"id"`
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	Type        ItemType          `json:"type" yaml:"type"`
	Rarity      string            `json:"rarity" yaml:"rarity"`
	Value       int               `json:"value" yaml:"value"`
	Weight      float64           `json:"weight" yaml:"weight"`
	Quantity    int               `json:"quantity" yaml:"quantity"`
	Bonuses     map[string]int    `json:"bonuses,omitempty" yaml:"bonuses,omitempty"`
	Effect      *ConsumableEffect `json:"effect,omitempty" yaml:"effect,omitempty"`
}

// PlayerStats are the player's combat attributes
type PlayerStats struct {
	Strength      int `json:"strength" yaml:"strength"`
	Dexterity     int `json:"dexterity" yaml:"dexterity"`
	Vitality      int `json:"vitality" yaml:"vitality"`
	Energy        int `json:"energy" yaml:"energy"`
	MaxHealth     int `json:"max_health" yaml:"max_health"`
	CurrentHealth int `json:"current_health" yaml:"current_health"`
	MaxMana       int `json:"max_mana" yaml:"max_mana"`
	CurrentMana   int `json:"current_mana" yaml:"current_mana"`
	Attack        int `json:"attack" yaml:"attack"`
	Defense       int `json:"defense" yaml:"defense"`
	MagicResist   int `json:"magic_resist" yaml:"magic_resist"`
}

// Player is the adventurer
type Player struct {
	Name                  string      `json:"name" yaml:"name"`
	Class                 string      `json:"class" yaml:"class"`
	Level                 int         `json:"level" yaml:"level"`
	Experience            int         `json:"experience" yaml:"experience"`
	ExperienceToNextLevel int         `json:"experience_to_next_level" yaml:"experience_to_next_level"`
	StatPoints            int         `json:"stat_points" yaml:"stat_points"`
	Stats                 PlayerStats `json:"stats" yaml:"stats"`
	Position              Position    `json:"position" yaml:"position"`
	Inventory             []Item      `json:"inventory" yaml:"inventory"`
	InventoryCapacity     int         `json:"inventory_capacity" yaml:"inventory_capacity"`
	Currency              int         `json:"currency" yaml:"currency"`
	LastVisitedTown       string      `json:"last_visited_town,omitempty" yaml:"last_visited_town,omitempty"`
}

// Clone returns a deep copy of the player
func (p Player) Clone() Player {
	c := p
	c.Inventory = slices.Clone(p.Inventory)
	for i, it := range c.Inventory {
		c.Inventory[i] = it.Clone()
	}
	return c
}

// Clone returns a deep copy of the item
func (it Item) Clone() Item {
	c := it
	if it.Bonuses != nil {
		c.Bonuses = maps.Clone(it.Bonuses)
	}
	if it.Effect != nil {
		e := *it.Effect
		c.Effect = &e
	}
	return c
}

// SaveGame is a full snapshot of a session
type SaveGame struct {
	World  World  `json:"world" yaml:"world"`
	Tiles  []Tile `json:"tiles" yaml:"tiles"`
	Towns  []Town `json:"towns" yaml:"towns"`
	Roads  []Road `json:"roads,omitempty" yaml:"roads,omitempty"`
	Player Player `json:"player" yaml:"player"`
}

// SaveMetadata describes a stored save slot
type SaveMetadata struct {
	ID          string    `json:"id" yaml:"id"`
	PlayerName  string    `json:"player_name" yaml:"player_name"`
	PlayerLevel int       `json:"player_level" yaml:"player_level"`
	WorldName   string    `json:"world_name" yaml:"world_name"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
}

// NewSaveMetadata derives slot metadata from a snapshot
func NewSaveMetadata(id string, save SaveGame, at time.Time) SaveMetadata {
	return SaveMetadata{
		ID:          id,
		PlayerName:  save.Player.Name,
		PlayerLevel: save.Player.Level,
		WorldName:   save.World.Name,
		Timestamp:   at.UTC(),
	}
}
