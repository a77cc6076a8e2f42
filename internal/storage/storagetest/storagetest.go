// Package storagetest holds behavior checks every save backend must pass.
package storagetest

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"dconn.dev/realmgen/internal/models"
	"dconn.dev/realmgen/internal/storage"
)

// Sample returns a snapshot with every field populated
func Sample(player string, level int) models.SaveGame {
	visited := time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)
	trophy := models.Item{
		ID: "item-q1-trophy", Name: "Wolf Trophy", Description: "Proof of the hunt.",
		Type: models.ItemQuest, Rarity: "uncommon", Value: 25, Weight: 0.5, Quantity: 1,
		Bonuses: map[string]int{"strength": 1},
	}
	return models.SaveGame{
		World: models.World{
			ID: "world-s1", Name: "Eldmoor", Seed: "s1", MapSize: 64,
			DifficultyBias: -0.125, ClimateBias: 0.3, MoistureBias: 0.05, NumTowns: 6,
			CreatedAt: time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC),
		},
		Tiles: []models.Tile{
			{
				WorldID: "world-s1", X: 3, Y: 4, Elevation: 55, Temperature: 61, Moisture: 42.5,
				Biome: models.BiomeForest, Weather: models.WeatherRain, Difficulty: 4,
				HasTown: true, TownID: "town-1", HasPath: true, PathType: models.PathPaved,
				Discovered: true, Description: "Tall pines sway.",
				Options: []models.AdventureOption{{Text: "Head north", Direction: "north", Result: "hills", DangerLevel: 3}},
			},
			{
				WorldID: "world-s1", X: 4, Y: 4, Elevation: 20, Biome: models.BiomeLake, Weather: models.WeatherFog,
				Difficulty: 2, IsLake: true, HasPortal: true, Description: "Still water.",
			},
		},
		Towns: []models.Town{{
			ID: "town-1", Name: "Brightwater", Description: "A river town.", Region: "Northern Reaches",
			WorldID: "world-s1", Position: models.Position{X: 3, Y: 4}, Population: 320, Depth: 1, ParentID: "town-0",
			Buildings: []models.Building{{
				ID: "b1", Name: "The Prancing Pony", Type: "inn", Description: "Warm beds.",
				Services: []models.Service{{ID: "s1", Name: "Rest", Description: "Restore health.", Type: models.ServiceHeal, Cost: 15, Level: 1}},
			}},
			Quests: []models.Quest{{
				ID: "q1", Title: "Wolf Hunt", Description: "Thin the pack.", Type: "hunt", TargetType: "Wolf",
				TargetQuantity: 3, Difficulty: 2, RewardXP: 300, RewardCurrency: 50,
				RewardItems: []models.Item{trophy}, Giver: "Mara", Location: "Brightwater", Available: true,
			}},
			InfluenceRadius: 2,
			LastVisited:     &visited,
		}},
		Roads: []models.Road{{From: "town-0", To: "town-1", Type: models.PathDirt, Points: []models.Position{{X: 1, Y: 4}, {X: 2, Y: 4}, {X: 3, Y: 4}}, Fallback: true}},
		Player: models.Player{
			Name: player, Class: "Adventurer", Level: level, Experience: 40, ExperienceToNextLevel: 150, StatPoints: 5,
			Stats: models.PlayerStats{
				Strength: 10, Dexterity: 12, Vitality: 10, Energy: 9, MaxHealth: 110, CurrentHealth: 87,
				MaxMana: 55, CurrentMana: 20, Attack: 7, Defense: 6, MagicResist: 1,
			},
			Position: models.Position{X: 3, Y: 4},
			Inventory: []models.Item{
				{ID: "item-1", Name: "Health Potion", Description: "Restores 20 health.", Type: models.ItemConsumable,
					Rarity: "common", Value: 5, Weight: 0.5, Quantity: 2, Effect: &models.ConsumableEffect{Health: 20}},
				trophy,
			},
			InventoryCapacity: 20,
			Currency:          135,
			LastVisitedTown:   "town-1",
		},
	}
}

// Run exercises a backend; open must return an empty store
func Run(t *testing.T, open func(t *testing.T) storage.Store) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		store := open(t)
		want := Sample("Aria", 3)
		meta, err := store.Save(ctx, "slot-1", want)
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if meta.ID != "slot-1" || meta.PlayerName != "Aria" || meta.PlayerLevel != 3 || meta.WorldName != "Eldmoor" {
			t.Errorf("metadata = %+v", meta)
		}
		got, err := store.Load(ctx, "slot-1")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
		}
	})

	t.Run("empty slot allocates an id", func(t *testing.T) {
		store := open(t)
		meta, err := store.Save(ctx, "", Sample("Bren", 1))
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if meta.ID == "" {
			t.Fatal("no slot id allocated")
		}
		if _, err := store.Load(ctx, meta.ID); err != nil {
			t.Fatalf("Load(%s) error = %v", meta.ID, err)
		}
	})

	t.Run("overwrite keeps one slot", func(t *testing.T) {
		store := open(t)
		if _, err := store.Save(ctx, "slot-1", Sample("Aria", 1)); err != nil {
			t.Fatal(err)
		}
		if _, err := store.Save(ctx, "slot-1", Sample("Aria", 2)); err != nil {
			t.Fatal(err)
		}
		saves, err := store.List(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(saves) != 1 || saves[0].PlayerLevel != 2 {
			t.Errorf("List() = %+v", saves)
		}
	})

	t.Run("list newest first", func(t *testing.T) {
		store := open(t)
		for _, slot := range []string{"first", "second", "third"} {
			if _, err := store.Save(ctx, slot, Sample(slot, 1)); err != nil {
				t.Fatal(err)
			}
			time.Sleep(5 * time.Millisecond)
		}
		saves, err := store.List(ctx)
		if err != nil {
			t.Fatal(err)
		}
		var ids []string
		for _, s := range saves {
			ids = append(ids, s.ID)
		}
		if !reflect.DeepEqual(ids, []string{"third", "second", "first"}) {
			t.Errorf("List() order = %v", ids)
		}
	})

	t.Run("missing and invalid slots", func(t *testing.T) {
		store := open(t)
		if _, err := store.Load(ctx, "nope"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Load(missing) = %v, want ErrNotFound", err)
		}
		if err := store.Delete(ctx, "nope"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Delete(missing) = %v, want ErrNotFound", err)
		}
		if _, err := store.Save(ctx, "../escape", Sample("x", 1)); !errors.Is(err, storage.ErrInvalidSlot) {
			t.Errorf("Save(../escape) = %v, want ErrInvalidSlot", err)
		}
		if saves, err := store.List(ctx); err != nil || len(saves) != 0 {
			t.Errorf("empty List() = %v, %v", saves, err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		store := open(t)
		if _, err := store.Save(ctx, "gone", Sample("x", 1)); err != nil {
			t.Fatal(err)
		}
		if err := store.Delete(ctx, "gone"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := store.Load(ctx, "gone"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Load after Delete = %v", err)
		}
	})
}
