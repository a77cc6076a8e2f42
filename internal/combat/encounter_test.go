package combat

import (
	"fmt"
	"reflect"
	"testing"

	"dconn.dev/realmgen/internal/content"
	"dconn.dev/realmgen/internal/models"
)

func TestGenerateEncounterSkipsTowns(t *testing.T) {
	tile := models.Tile{X: 4, Y: 4, Biome: models.BiomeSwamp, HasTown: true}
	for i := range 20 {
		if enc := GenerateEncounter(tile, "world", 3, fmt.Sprint(i)); enc.Triggered || len(enc.Monsters) != 0 {
			t.Fatalf("encounter in town: %+v", enc)
		}
	}
}

func TestGenerateEncounterMonsters(t *testing.T) {
	tile := models.Tile{X: 7, Y: 2, Biome: models.BiomeForest}
	const level = 4
	triggered := 0

	for i := range 100 {
		salt := fmt.Sprintf("step-%d", i)
		enc := GenerateEncounter(tile, "world", level, salt)
		if again := GenerateEncounter(tile, "world", level, salt); !reflect.DeepEqual(enc, again) {
			t.Fatalf("salt %s: encounter not reproducible", salt)
		}
		if !enc.Triggered {
			continue
		}
		triggered++

		if n := len(enc.Monsters); n < 1 || n > 3 {
			t.Fatalf("got %d monsters", n)
		}
		ids := make(map[string]bool)
		for _, m := range enc.Monsters {
			if ids[m.ID] {
				t.Errorf("duplicate monster id %s", m.ID)
			}
			ids[m.ID] = true
			if m.Level < level-2 || m.Level > level+2 {
				t.Errorf("%s level %d too far from %d", m.Name, m.Level, level)
			}
			if m.Stats.HP <= 0 || m.Stats.HP != m.Stats.MaxHP {
				t.Errorf("%s hp %d/%d", m.Name, m.Stats.HP, m.Stats.MaxHP)
			}
			if len(m.Abilities) == 0 {
				t.Errorf("%s has no abilities", m.Name)
			}
			for _, a := range m.Abilities {
				if a.UseChance <= 0 || a.Kind == "" {
					t.Errorf("%s ability %+v", m.Name, a)
				}
			}
		}
	}
	if triggered == 0 {
		t.Fatal("no encounter in 100 forest steps")
	}
}

func TestGenerateMonsterScaling(t *testing.T) {
	wolf := content.Default().MonsterTemplates(models.BiomeForest)[:1]
	m := generateMonster(wolf, "wolf", 3)
	// Wolf: hp 20 + 5/level, attack 5 + 1.5/level
	wantHP := 20 + 5*(m.Level-1)
	if m.Stats.HP != wantHP {
		t.Errorf("level %d wolf hp %d, want %d", m.Level, m.Stats.HP, wantHP)
	}
	if bite := m.Abilities[0]; bite.Damage != m.Stats.Attack {
		t.Errorf("bite damage %d, attack %d", bite.Damage, m.Stats.Attack)
	}
	if howl := m.Abilities[1]; howl.Kind != models.AbilityStatus || howl.Status == nil || howl.Status.Type != models.StatusConfusion {
		t.Errorf("howl = %+v", howl)
	}
}
