package services

import (
	"fmt"
	"slices"
	"time"

	"dconn.dev/realmgen/internal/generation"
	"dconn.dev/realmgen/internal/models"
)

// WorldService owns one session's generated world: the tile arena, towns and roads
type WorldService struct {
	gen     *generation.Generator
	world   models.World
	tiles   []models.Tile // row-major, whole map
	index   generation.TileIndex
	towns   []models.Town
	townIdx map[string]int
	roads   []models.Road
	network *generation.RoadNetwork
}

// NewWorldService wraps a freshly generated realm
func NewWorldService(gen *generation.Generator, realm *generation.Realm) *WorldService {
	return newWorldService(gen, realm.World, realm.Tiles, realm.Towns, realm.Roads, realm.Network)
}

// RestoreWorldService rebuilds a world from a saved snapshot
func RestoreWorldService(gen *generation.Generator, save models.SaveGame) *WorldService {
	tiles := make([]models.Tile, len(save.Tiles))
	for i, t := range save.Tiles {
		tiles[i] = t
		tiles[i].Options = slices.Clone(t.Options)
	}
	towns := slices.Clone(save.Towns)
	roads := slices.Clone(save.Roads)
	return newWorldService(gen, save.World, tiles, towns, roads, generation.NetworkOf(towns, roads))
}

func newWorldService(gen *generation.Generator, world models.World, tiles []models.Tile, towns []models.Town, roads []models.Road, network *generation.RoadNetwork) *WorldService {
	ws := &WorldService{
		gen:     gen,
		world:   world,
		tiles:   tiles,
		index:   generation.IndexTiles(tiles),
		towns:   towns,
		townIdx: make(map[string]int, len(towns)),
		roads:   roads,
		network: network,
	}
	for i, t := range towns {
		ws.townIdx[t.ID] = i
	}
	return ws
}

// World returns the world parameters
func (ws *WorldService) World() models.World {
	return ws.world
}

// Tiles returns a copy of every tile on the map
func (ws *WorldService) Tiles() []models.Tile {
	return slices.Clone(ws.tiles)
}

// TileAt returns the live tile at a position, or nil off the map
func (ws *WorldService) TileAt(pos models.Position) *models.Tile {
	return ws.index[generation.PointOf(pos)]
}

// Towns returns every town in placement order
func (ws *WorldService) Towns() []models.Town {
	return slices.Clone(ws.towns)
}

// Town looks up a town by id
func (ws *WorldService) Town(id string) (models.Town, error) {
	i, ok := ws.townIdx[id]
	if !ok {
		return models.Town{}, fmt.Errorf("%w: %s", ErrUnknownTown, id)
	}
	return ws.towns[i], nil
}

// Roads returns every road between towns
func (ws *WorldService) Roads() []models.Road {
	return slices.Clone(ws.roads)
}

// TrunkRoads returns the shortest set of roads that keeps every joined town joined
func (ws *WorldService) TrunkRoads() []models.Road {
	return ws.network.TrunkRoads()
}

// Network returns the town connectivity graph
func (ws *WorldService) Network() *generation.RoadNetwork {
	return ws.network
}

// Unreachable lists towns no road leads to from the first town
func (ws *WorldService) Unreachable() []string {
	if len(ws.towns) == 0 {
		return nil
	}
	return ws.network.FindUnreachable(ws.towns[0].ID)
}

// GetChunk regenerates a region from the seed and overlays this session's
// towns, roads and discoveries on it
func (ws *WorldService) GetChunk(b generation.Bounds) ([]models.Tile, error) {
	chunk, err := ws.gen.GenerateMapChunk(ws.world.Seed, b, ws.world)
	if err != nil {
		return nil, fmt.Errorf("generate chunk: %w", err)
	}
	for i := range chunk {
		live := ws.index[generation.Point{X: chunk[i].X, Y: chunk[i].Y}]
		if live == nil {
			continue
		}
		chunk[i].HasTown, chunk[i].TownID = live.HasTown, live.TownID
		chunk[i].HasPath, chunk[i].PathType = live.HasPath, live.PathType
		chunk[i].Discovered = live.Discovered
	}
	ws.gen.RefreshOptions(ws.world.Seed, chunk, ws.towns)
	return chunk, nil
}

// Discover reveals every tile within radius of center and returns how many were new
func (ws *WorldService) Discover(center models.Position, radius int) int {
	found := 0
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			t := ws.TileAt(models.Position{X: center.X + dx, Y: center.Y + dy})
			if t != nil && !t.Discovered {
				t.Discovered = true
				found++
			}
		}
	}
	return found
}

// MarkVisited stamps a town as visited and refreshes the options that mention it
func (ws *WorldService) MarkVisited(id string, at time.Time) (models.Town, error) {
	i, ok := ws.townIdx[id]
	if !ok {
		return models.Town{}, fmt.Errorf("%w: %s", ErrUnknownTown, id)
	}
	at = at.UTC()
	first := !ws.towns[i].Visited()
	ws.towns[i].LastVisited = &at
	if first {
		// options only change the first time a town is named
		ws.gen.RefreshOptions(ws.world.Seed, ws.tiles, ws.towns)
	}
	return ws.towns[i], nil
}
