package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"dconn.dev/realmgen/internal/combat"
	"dconn.dev/realmgen/internal/config"
	"dconn.dev/realmgen/internal/generation"
	"dconn.dev/realmgen/internal/models"
	"dconn.dev/realmgen/internal/random"
	"dconn.dev/realmgen/internal/storage"
)

var (
	// ErrNoGame is returned when an operation needs a session and none is running
	ErrNoGame = errors.New("no game in progress")
	// ErrNoBattle is returned for battle commands outside a battle
	ErrNoBattle = errors.New("no battle in progress")
	// ErrBattleActive is returned when a battle must finish first
	ErrBattleActive = errors.New("battle in progress")
	// ErrBlocked is returned when the player cannot go or act where asked
	ErrBlocked = errors.New("cannot go there")
	// ErrUnknownTown is returned for town ids not in the world
	ErrUnknownTown = errors.New("unknown town")
	// ErrInvalidDirection is returned for unparseable move directions
	ErrInvalidDirection = errors.New("invalid direction")
)

// session is one running game
type session struct {
	world      *WorldService
	maps       *MapService
	player     models.Player
	battle     *models.BattleState
	battleSeed string
}

// GameService handles game logic. All methods are safe for concurrent use.
type GameService struct {
	mu      sync.Mutex
	gen     *generation.Generator
	store   storage.Store
	cfg     config.GameConfig
	palette *generation.Palette
	game    *session
	now     func() time.Time
}

// NewGameService creates a new GameService
func NewGameService(gen *generation.Generator, store storage.Store, cfg config.GameConfig) *GameService {
	palette := generation.DefaultPalette()
	if cfg.PlayerChar != "" {
		palette.Player.Char = cfg.PlayerChar
	}
	if cfg.PlayerColor != "" {
		palette.Player.Color = cfg.PlayerColor
	}
	if cfg.ViewDistance < 1 {
		cfg.ViewDistance = 5
	}
	if cfg.ViewportWidth < 1 || cfg.ViewportHeight < 1 {
		cfg.ViewportWidth, cfg.ViewportHeight = 40, 20
	}
	return &GameService{gen: gen, store: store, cfg: cfg, palette: palette, now: time.Now}
}

// GameView is the player's situation after a command
type GameView struct {
	World    models.World         `json:"world"`
	Player   models.Player        `json:"player"`
	Viewport *models.ViewportData `json:"viewport"`
	Battle   *models.BattleState  `json:"battle,omitempty"`
	Town     *models.Town         `json:"town,omitempty"`
}

// BattleView is a battle state together with the player it is being fought by
type BattleView struct {
	Battle models.BattleState `json:"battle"`
	Player models.Player      `json:"player"`
}

// NewGame generates a realm and places a new player in its first town.
// An empty seed picks a random one.
func (s *GameService) NewGame(seed, playerName string) (*GameView, error) {
	if seed == "" {
		seed = random.NewSeed()
	}
	realm, err := s.gen.GenerateRealm(seed)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	realm.World.CreatedAt = s.now().UTC().Truncate(time.Second)
	if realm.Placement.Short() {
		log.Printf("Warning: world %s placed %d of %d towns", realm.World.ID, realm.Placement.Placed, realm.Placement.Requested)
	}

	ws := NewWorldService(s.gen, realm)
	player := combat.NewPlayer(playerName, seed)
	if towns := ws.Towns(); len(towns) > 0 {
		player.Position = towns[0].Position
		player.LastVisitedTown = towns[0].ID
		if _, err := ws.MarkVisited(towns[0].ID, s.now()); err != nil {
			return nil, err
		}
	}
	if missing := ws.Unreachable(); len(missing) > 0 {
		log.Printf("Warning: world %s has %d towns without a road", realm.World.ID, len(missing))
	}
	ws.Discover(player.Position, s.cfg.ViewDistance)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.game = &session{world: ws, maps: NewMapService(ws, s.palette), player: player}
	log.Printf("Generated world %s %q (%dx%d, %d towns, %d roads)",
		realm.World.ID, realm.World.Name, realm.World.MapSize, realm.World.MapSize, len(realm.Towns), len(realm.Roads))
	return s.view(), nil
}

// view snapshots the session; callers hold the lock
func (s *GameService) view() *GameView {
	g := s.game
	v := &GameView{
		World:    g.world.World(),
		Player:   g.player.Clone(),
		Viewport: g.maps.GetViewport(g.player.Position, s.cfg.ViewportWidth, s.cfg.ViewportHeight),
	}
	if g.battle != nil {
		b := g.battle.Clone()
		v.Battle = &b
	}
	v.Town = v.Viewport.Town
	return v
}

func (s *GameService) active() (*session, error) {
	if s.game == nil {
		return nil, ErrNoGame
	}
	return s.game, nil
}

// State returns the current view with the default viewport size
func (s *GameService) State() (*GameView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.active(); err != nil {
		return nil, err
	}
	return s.view(), nil
}

// Move steps the player one tile. Stepping into a town visits it; any other
// step may start a battle. The salt seeds the encounter roll; empty uses the clock.
func (s *GameService) Move(direction, salt string) (*GameView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := s.active()
	if err != nil {
		return nil, err
	}
	if g.battle != nil {
		return nil, ErrBattleActive
	}

	dir, ok := generation.ParseDirection(direction)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDirection, direction)
	}
	dx, dy := dir.Delta()
	next := models.Position{X: g.player.Position.X + dx, Y: g.player.Position.Y + dy}
	tile := g.world.TileAt(next)
	if tile == nil || tile.Biome == models.BiomeOcean {
		return nil, fmt.Errorf("%w: (%d,%d)", ErrBlocked, next.X, next.Y)
	}

	g.player.Position = next
	g.world.Discover(next, s.cfg.ViewDistance)

	if tile.HasTown {
		if _, err := g.world.MarkVisited(tile.TownID, s.now()); err != nil {
			return nil, err
		}
		g.player.LastVisitedTown = tile.TownID
		return s.view(), nil
	}

	if salt == "" {
		salt = strconv.FormatInt(s.now().UnixNano(), 10)
	}
	world := g.world.World()
	enc := combat.GenerateEncounter(*tile, world.Seed, g.player.Level, salt)
	if enc.Triggered {
		battle := combat.InitializeBattle(enc.Monsters, g.player, enc.CanRun, enc.Ambush)
		g.battle = &battle
		g.battleSeed = fmt.Sprintf("%s-battle-%d-%d-%s", world.Seed, next.X, next.Y, salt)
	}
	return s.view(), nil
}

// Battle returns the battle in progress
func (s *GameService) Battle() (*BattleView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := s.active()
	if err != nil {
		return nil, err
	}
	if g.battle == nil {
		return nil, ErrNoBattle
	}
	return &BattleView{Battle: g.battle.Clone(), Player: g.player.Clone()}, nil
}

// Act resolves a player battle command
func (s *GameService) Act(action models.BattleAction) (*BattleView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := s.active()
	if err != nil {
		return nil, err
	}
	if g.battle == nil {
		return nil, ErrNoBattle
	}
	state, player := combat.ProcessPlayerAction(action, *g.battle, g.player, g.battleSeed)
	return s.settle(g, state, player), nil
}

// MonsterPhase lets the monsters take their turn
func (s *GameService) MonsterPhase() (*BattleView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := s.active()
	if err != nil {
		return nil, err
	}
	if g.battle == nil {
		return nil, ErrNoBattle
	}
	state, player, err := combat.ProcessMonsterAction(*g.battle, g.player, g.battleSeed)
	if err != nil {
		return nil, fmt.Errorf("monster phase: %w", err)
	}
	return s.settle(g, state, player), nil
}

// settle stores a battle step and closes the battle once it has a result
func (s *GameService) settle(g *session, state models.BattleState, player models.Player) *BattleView {
	g.player = player
	g.battle = &state
	if state.Result == models.BattleOngoing {
		return &BattleView{Battle: state.Clone(), Player: g.player.Clone()}
	}

	switch state.Result {
	case models.BattleVictory:
		if state.Rewards != nil {
			g.player = combat.ApplyRewards(g.player, *state.Rewards)
		}
	case models.BattleDefeat:
		town, err := g.world.Town(g.player.LastVisitedTown)
		if err != nil {
			if towns := g.world.Towns(); len(towns) > 0 {
				town = towns[0]
			}
		}
		g.player = combat.Respawn(g.player, town)
		log.Printf("Player %s defeated, respawned at %s", g.player.Name, town.Name)
	}
	g.battle = nil
	g.battleSeed = ""
	return &BattleView{Battle: state, Player: g.player.Clone()}
}

// Viewport renders the area around the player
func (s *GameService) Viewport(width, height int) (*models.ViewportData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := s.active()
	if err != nil {
		return nil, err
	}
	return g.maps.GetViewport(g.player.Position, width, height), nil
}

// FullMap renders the whole discovered map
func (s *GameService) FullMap() (*FullMapData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := s.active()
	if err != nil {
		return nil, err
	}
	return g.maps.GetFullMapData(g.player.Position), nil
}

// World returns the world parameters of the running game
func (s *GameService) World() (models.World, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := s.active()
	if err != nil {
		return models.World{}, err
	}
	return g.world.World(), nil
}

// Chunk regenerates a region of the running world
func (s *GameService) Chunk(b generation.Bounds) ([]models.Tile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := s.active()
	if err != nil {
		return nil, err
	}
	return g.world.GetChunk(b)
}

// Towns lists the towns of the running world
func (s *GameService) Towns() ([]models.Town, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := s.active()
	if err != nil {
		return nil, err
	}
	return g.world.Towns(), nil
}

// Town returns one town of the running world
func (s *GameService) Town(id string) (models.Town, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := s.active()
	if err != nil {
		return models.Town{}, err
	}
	return g.world.Town(id)
}

// Roads lists the roads of the running world
func (s *GameService) Roads() ([]models.Road, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := s.active()
	if err != nil {
		return nil, err
	}
	return g.world.Roads(), nil
}

// TrunkRoads lists the trunk roads of the running world
func (s *GameService) TrunkRoads() ([]models.Road, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := s.active()
	if err != nil {
		return nil, err
	}
	return g.world.TrunkRoads(), nil
}

// VisitTown enters the town the player is standing in and stocks its shop and tavern
func (s *GameService) VisitTown(id string) (*models.TownVisit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := s.active()
	if err != nil {
		return nil, err
	}
	if g.battle != nil {
		return nil, ErrBattleActive
	}
	town, err := g.world.Town(id)
	if err != nil {
		return nil, err
	}
	if town.Position != g.player.Position {
		return nil, fmt.Errorf("%w: not in %s", ErrBlocked, town.Name)
	}

	now := s.now()
	town, err = g.world.MarkVisited(id, now)
	if err != nil {
		return nil, err
	}
	g.player.LastVisitedTown = id

	visitSeed := fmt.Sprintf("%s-%s-%d", g.world.World().Seed, id, now.UnixNano())
	return &models.TownVisit{
		Town:     town,
		Shop:     s.gen.GenerateShopInventory(town, visitSeed),
		Recruits: s.gen.GenerateRecruits(town, visitSeed),
	}, nil
}

// Save writes the running game to a slot; an empty slot allocates a new one
func (s *GameService) Save(ctx context.Context, slot string) (models.SaveMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := s.active()
	if err != nil {
		return models.SaveMetadata{}, err
	}
	if g.battle != nil {
		return models.SaveMetadata{}, ErrBattleActive
	}
	save := models.SaveGame{
		World:  g.world.World(),
		Tiles:  g.world.Tiles(),
		Towns:  g.world.Towns(),
		Roads:  g.world.Roads(),
		Player: g.player.Clone(),
	}
	meta, err := s.store.Save(ctx, slot, save)
	if err != nil {
		return models.SaveMetadata{}, fmt.Errorf("save game: %w", err)
	}
	log.Printf("Saved %s (%s, level %d)", meta.ID, meta.PlayerName, meta.PlayerLevel)
	return meta, nil
}

// Load replaces the running game with a saved one
func (s *GameService) Load(ctx context.Context, slot string) (*GameView, error) {
	save, err := s.store.Load(ctx, slot)
	if err != nil {
		return nil, fmt.Errorf("load game: %w", err)
	}
	ws := RestoreWorldService(s.gen, save)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.game = &session{world: ws, maps: NewMapService(ws, s.palette), player: save.Player}
	log.Printf("Loaded %s (world %s)", slot, save.World.ID)
	return s.view(), nil
}

// ListSaves returns every save slot, newest first
func (s *GameService) ListSaves(ctx context.Context) ([]models.SaveMetadata, error) {
	saves, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	return saves, nil
}

// DeleteSave removes a save slot
func (s *GameService) DeleteSave(ctx context.Context, slot string) error {
	if err := s.store.Delete(ctx, slot); err != nil {
		return fmt.Errorf("delete save: %w", err)
	}
	return nil
}
