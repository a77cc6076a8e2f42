package generation

import (
	"slices"
	"testing"

	"dconn.dev/realmgen/internal/models"
)

func plainsIndex(b Bounds) TileIndex {
	grid := flatGrid(b, 50)
	return IndexTiles(grid.Snapshot())
}

func TestPathSearchAvoidsExpensiveTerrain(t *testing.T) {
	idx := plainsIndex(Bounds{0, 0, 4, 2})
	idx[Point{2, 1}].Biome = models.BiomeOcean

	search := pathSearch{tiles: idx, step: func(t *models.Tile) float64 { return RoadCost(t.Biome) }}
	path := search.find(Point{0, 1}, Point{4, 1})
	if len(path) == 0 {
		t.Fatal("no path found")
	}
	if path[0] != (Point{0, 1}) || path[len(path)-1] != (Point{4, 1}) {
		t.Fatalf("path %v does not join the endpoints", path)
	}
	if slices.Contains(path, Point{2, 1}) {
		t.Errorf("path %v crosses water when land is free", path)
	}
}

func TestPathSearchMissingEndpoint(t *testing.T) {
	idx := plainsIndex(Bounds{0, 0, 3, 3})
	search := pathSearch{tiles: idx, step: func(*models.Tile) float64 { return 1 }}
	if path := search.find(Point{0, 0}, Point{9, 9}); path != nil {
		t.Fatalf("expected nil path to unloaded tile, got %v", path)
	}
}

func TestStraightLine(t *testing.T) {
	line := straightLine(Point{0, 0}, Point{4, 2})
	if len(line) != 5 || line[0] != (Point{0, 0}) || line[4] != (Point{4, 2}) {
		t.Fatalf("straightLine = %v", line)
	}
	for i := 1; i < len(line); i++ {
		if max(abs(line[i].X-line[i-1].X), abs(line[i].Y-line[i-1].Y)) != 1 {
			t.Errorf("gap between %v and %v", line[i-1], line[i])
		}
	}
}

func TestGeneratePathsBetweenTowns(t *testing.T) {
	g := newTestGenerator(t)
	realm, err := g.GenerateRealm("road-builders")
	if err != nil {
		t.Fatalf("GenerateRealm() error = %v", err)
	}
	if len(realm.Towns) > 1 && len(realm.Roads) == 0 {
		t.Fatal("no roads between towns")
	}

	idx := IndexTiles(realm.Tiles)
	towns := make(map[string]models.Town)
	for _, town := range realm.Towns {
		towns[town.ID] = town
	}

	for _, road := range realm.Roads {
		from, to := towns[road.From], towns[road.To]
		if road.Points[0] != from.Position || road.Points[len(road.Points)-1] != to.Position {
			t.Errorf("road %s-%s does not join its towns", road.From, road.To)
		}
		for i, pos := range road.Points {
			tile := idx[PointOf(pos)]
			if tile == nil || !tile.HasPath || tile.PathType == "" {
				t.Fatalf("road %s-%s point %v not flagged", road.From, road.To, pos)
			}
			if i > 0 {
				prev := road.Points[i-1]
				if max(abs(pos.X-prev.X), abs(pos.Y-prev.Y)) != 1 {
					t.Errorf("road %s-%s jumps from %v to %v", road.From, road.To, prev, pos)
				}
			}
		}
	}

	for id := range towns {
		if _, ok := realm.Network.Nodes[id]; !ok {
			t.Errorf("town %s missing from network", id)
		}
	}
	if trunk := realm.Network.MST(); len(trunk) > len(realm.Roads) {
		t.Errorf("trunk has %d edges, network only %d", len(trunk), len(realm.Roads))
	}
}

func TestRoadNetworkConnectivity(t *testing.T) {
	network := NewRoadNetwork()
	for _, id := range []string{"a", "b", "c"} {
		network.AddTown(models.Town{ID: id})
	}
	if err := network.AddEdge(&Edge{From: "a", To: "b", Weight: 3}); err != nil {
		t.Fatal(err)
	}
	if network.IsConnected("a") {
		t.Error("network with isolated town reported connected")
	}
	if got := network.FindUnreachable("a"); !slices.Equal(got, []string{"c"}) {
		t.Errorf("FindUnreachable = %v, want [c]", got)
	}
	if err := network.AddEdge(&Edge{From: "a", To: "z"}); err == nil {
		t.Error("expected error for unknown town")
	}

	_ = network.AddEdge(&Edge{From: "b", To: "c", Weight: 1})
	_ = network.AddEdge(&Edge{From: "a", To: "c", Weight: 5})
	if !network.IsConnected("c") {
		t.Error("fully joined network reported disconnected")
	}
	if mst := network.MST(); len(mst) != 2 || mst[0].Weight != 1 || mst[1].Weight != 3 {
		t.Errorf("MST = %+v", mst)
	}
	if trunk := network.TrunkRoads(); len(trunk) != 2 || trunk[0].From != "b" || trunk[1].To != "b" {
		t.Errorf("TrunkRoads = %+v", trunk)
	}

	rebuilt := NetworkOf([]models.Town{{ID: "a"}, {ID: "b"}, {ID: "c"}}, network.Roads())
	if len(rebuilt.Edges) != 3 || !rebuilt.IsConnected("a") {
		t.Errorf("rebuilt network has %d edges", len(rebuilt.Edges))
	}
}
