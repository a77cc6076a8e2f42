package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"dconn.dev/realmgen/internal/combat"
	"dconn.dev/realmgen/internal/config"
	"dconn.dev/realmgen/internal/generation"
	"dconn.dev/realmgen/internal/models"
	"dconn.dev/realmgen/internal/storage"
	"dconn.dev/realmgen/internal/storage/yamlfs"
)

func newTestService(t *testing.T) *GameService {
	t.Helper()
	gen, err := generation.NewGenerator(generation.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	store, err := yamlfs.Open(t.TempDir())
	if err != nil {
		t.Fatalf("yamlfs.Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	cfg := config.GameConfig{ViewDistance: 3, ViewportWidth: 9, ViewportHeight: 7, PlayerChar: "&", PlayerColor: "#00FF00"}
	s := NewGameService(gen, store, cfg)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	return s
}

func TestNoGame(t *testing.T) {
	s := newTestService(t)
	if _, err := s.State(); !errors.Is(err, ErrNoGame) {
		t.Errorf("State() = %v, want ErrNoGame", err)
	}
	if _, err := s.Move("north", "x"); !errors.Is(err, ErrNoGame) {
		t.Errorf("Move() = %v, want ErrNoGame", err)
	}
	if _, err := s.Save(context.Background(), ""); !errors.Is(err, ErrNoGame) {
		t.Errorf("Save() = %v, want ErrNoGame", err)
	}
}

func TestNewGameSpawnsInFirstTown(t *testing.T) {
	s := newTestService(t)
	v, err := s.NewGame("spawn-seed", "Aria")
	if err != nil {
		t.Fatalf("NewGame() error = %v", err)
	}
	if v.World.Seed != "spawn-seed" || v.Player.Name != "Aria" {
		t.Fatalf("world %q player %q", v.World.Seed, v.Player.Name)
	}
	towns, _ := s.Towns()
	if len(towns) == 0 {
		t.Fatal("no towns placed")
	}
	if v.Player.Position != towns[0].Position || v.Player.LastVisitedTown != towns[0].ID {
		t.Errorf("player at %+v in %q, want %+v in %q", v.Player.Position, v.Player.LastVisitedTown, towns[0].Position, towns[0].ID)
	}
	if !towns[0].Visited() {
		t.Error("spawn town not marked visited")
	}
	if v.Town == nil || v.Town.ID != towns[0].ID {
		t.Errorf("view town = %+v", v.Town)
	}

	vp := v.Viewport
	if len(vp.Tiles) != 7 || len(vp.Tiles[0]) != 9 {
		t.Fatalf("viewport %dx%d", len(vp.Tiles[0]), len(vp.Tiles))
	}
	if c := vp.Tiles[vp.PlayerY][vp.PlayerX]; c.Character != "&" || c.Color != "#00FF00" {
		t.Errorf("player glyph = %+v", c)
	}
}

func TestNewGameRandomSeed(t *testing.T) {
	s := newTestService(t)
	v, err := s.NewGame("", "")
	if err != nil {
		t.Fatalf("NewGame() error = %v", err)
	}
	if v.World.Seed == "" {
		t.Error("no seed chosen")
	}
	if v.Player.Name != "Hero" {
		t.Errorf("player name = %q", v.Player.Name)
	}
}

func TestMove(t *testing.T) {
	s := newTestService(t)
	v, err := s.NewGame("move-seed", "Aria")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Move("up", "x"); !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("Move(up) = %v, want ErrInvalidDirection", err)
	}

	start := v.Player.Position
	for _, d := range generation.Cardinals {
		dx, dy := d.Delta()
		s.mu.Lock()
		tile := s.game.world.TileAt(models.Position{X: start.X + dx, Y: start.Y + dy})
		s.mu.Unlock()

		got, err := s.Move(d.String(), "salt")
		if tile == nil || tile.Biome == models.BiomeOcean {
			if !errors.Is(err, ErrBlocked) {
				t.Errorf("Move(%s) into %v = %v, want ErrBlocked", d, tile, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Move(%s) error = %v", d, err)
		}
		if got.Player.Position != tile.Position() {
			t.Errorf("player at %+v, want %+v", got.Player.Position, tile.Position())
		}
		if got.Battle != nil {
			if _, err := s.Move(d.Opposite().String(), "salt"); !errors.Is(err, ErrBattleActive) {
				t.Errorf("Move during battle = %v, want ErrBattleActive", err)
			}
		}
		return
	}
	t.Skip("spawn town is enclosed by water")
}

func TestBattleVictoryAppliesRewards(t *testing.T) {
	s := newTestService(t)
	if _, err := s.NewGame("battle-seed", "Aria"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Act(models.BattleAction{Type: models.ActionAttack}); !errors.Is(err, ErrNoBattle) {
		t.Errorf("Act() without battle = %v, want ErrNoBattle", err)
	}

	rat := models.Monster{ID: "rat", Name: "Rat", Level: 1, Stats: models.MonsterStats{HP: 1, MaxHP: 1, Attack: 1, Defense: 1, Speed: 1}}
	s.mu.Lock()
	battle := combat.InitializeBattle([]models.Monster{rat}, s.game.player, true, false)
	s.game.battle = &battle
	s.game.battleSeed = "fixed"
	before := s.game.player
	s.mu.Unlock()

	if _, err := s.Save(context.Background(), ""); !errors.Is(err, ErrBattleActive) {
		t.Errorf("Save() during battle = %v, want ErrBattleActive", err)
	}

	bv, err := s.Act(models.BattleAction{Type: models.ActionAttack})
	if err != nil {
		t.Fatalf("Act() error = %v", err)
	}
	if bv.Battle.Result != models.BattleVictory {
		t.Fatalf("result = %s, log %v", bv.Battle.Result, bv.Battle.BattleLog)
	}
	if bv.Player.Experience <= before.Experience || bv.Player.Currency <= before.Currency {
		t.Errorf("rewards not applied: xp %d -> %d, gold %d -> %d",
			before.Experience, bv.Player.Experience, before.Currency, bv.Player.Currency)
	}
	if _, err := s.Battle(); !errors.Is(err, ErrNoBattle) {
		t.Errorf("Battle() after victory = %v, want ErrNoBattle", err)
	}
}

func TestBattleDefeatRespawns(t *testing.T) {
	s := newTestService(t)
	v, err := s.NewGame("defeat-seed", "Aria")
	if err != nil {
		t.Fatal(err)
	}
	home := v.Player.LastVisitedTown

	ogre := models.Monster{ID: "ogre", Name: "Ogre", Level: 9, Stats: models.MonsterStats{HP: 500, MaxHP: 500, Attack: 900, Defense: 1, Speed: 50}}
	s.mu.Lock()
	s.game.player.Experience = 40
	battle := combat.InitializeBattle([]models.Monster{ogre}, s.game.player, false, true)
	s.game.battle = &battle
	s.game.battleSeed = "fixed"
	s.mu.Unlock()

	bv, err := s.MonsterPhase()
	if err != nil {
		t.Fatalf("MonsterPhase() error = %v", err)
	}
	if bv.Battle.Result != models.BattleDefeat {
		t.Fatalf("result = %s, log %v", bv.Battle.Result, bv.Battle.BattleLog)
	}
	town, _ := s.Town(home)
	if bv.Player.Position != town.Position || bv.Player.Experience != 0 {
		t.Errorf("respawned at %+v with %d xp", bv.Player.Position, bv.Player.Experience)
	}
	if bv.Player.Stats.CurrentHealth != bv.Player.Stats.MaxHealth*4/10 {
		t.Errorf("respawn health = %d of %d", bv.Player.Stats.CurrentHealth, bv.Player.Stats.MaxHealth)
	}
}

func TestVisitTown(t *testing.T) {
	s := newTestService(t)
	v, err := s.NewGame("visit-seed", "Aria")
	if err != nil {
		t.Fatal(err)
	}
	visit, err := s.VisitTown(v.Player.LastVisitedTown)
	if err != nil {
		t.Fatalf("VisitTown() error = %v", err)
	}
	if visit.Town.ID != v.Player.LastVisitedTown || visit.Town.LastVisited == nil {
		t.Errorf("visit town = %+v", visit.Town)
	}
	if _, err := s.VisitTown("town-nowhere"); !errors.Is(err, ErrUnknownTown) {
		t.Errorf("VisitTown(unknown) = %v, want ErrUnknownTown", err)
	}

	towns, _ := s.Towns()
	if len(towns) > 1 {
		if _, err := s.VisitTown(towns[1].ID); !errors.Is(err, ErrBlocked) {
			t.Errorf("VisitTown(far) = %v, want ErrBlocked", err)
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	v, err := s.NewGame("save-seed", "Aria")
	if err != nil {
		t.Fatal(err)
	}
	meta, err := s.Save(ctx, "slot-a")
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if meta.ID != "slot-a" || meta.PlayerName != "Aria" || meta.WorldName != v.World.Name {
		t.Errorf("metadata = %+v", meta)
	}

	if _, err := s.NewGame("other-seed", "Bren"); err != nil {
		t.Fatal(err)
	}
	loaded, err := s.Load(ctx, "slot-a")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.World.Seed != "save-seed" || loaded.Player.Name != "Aria" || loaded.Player.Position != v.Player.Position {
		t.Errorf("loaded %q %q at %+v", loaded.World.Seed, loaded.Player.Name, loaded.Player.Position)
	}
	if loaded.Town == nil {
		t.Error("loaded game lost the spawn town")
	}

	saves, err := s.ListSaves(ctx)
	if err != nil || len(saves) != 1 {
		t.Fatalf("ListSaves() = %v, %v", saves, err)
	}
	if err := s.DeleteSave(ctx, "slot-a"); err != nil {
		t.Fatalf("DeleteSave() error = %v", err)
	}
	if _, err := s.Load(ctx, "slot-a"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Load after delete = %v, want ErrNotFound", err)
	}
}

func TestChunkKeepsDiscoveries(t *testing.T) {
	s := newTestService(t)
	v, err := s.NewGame("chunk-seed", "Aria")
	if err != nil {
		t.Fatal(err)
	}
	p := generation.PointOf(v.Player.Position)
	chunk, err := s.Chunk(generation.Bounds{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y})
	if err != nil {
		t.Fatalf("Chunk() error = %v", err)
	}
	if len(chunk) != 1 || !chunk[0].Discovered || !chunk[0].HasTown {
		t.Errorf("chunk = %+v", chunk)
	}
}
