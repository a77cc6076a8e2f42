package generation

import (
	"fmt"
	"slices"

	"dconn.dev/realmgen/internal/models"
)

// Node is a town in the road network
type Node struct {
	ID       string
	Name     string
	Position Point
}

// Edge is a road between two towns
type Edge struct {
	From, To string  // Node IDs
	Weight   float64 // Path length in tiles
	Type     models.PathType
	Path     []Point
	Fallback bool // Straight line used because A* found no route
}

// RoadNetwork is the graph of towns joined by roads
type RoadNetwork struct {
	Nodes map[string]*Node
	Edges []*Edge

	// Adjacency list for quick lookups
	Adjacent map[string][]string

	order []string // Node IDs in insertion order
}

// NewRoadNetwork creates an empty network
func NewRoadNetwork() *RoadNetwork {
	return &RoadNetwork{
		Nodes:    make(map[string]*Node),
		Adjacent: make(map[string][]string),
	}
}

// AddTown adds a town as a node
func (g *RoadNetwork) AddTown(t models.Town) {
	if _, ok := g.Nodes[t.ID]; !ok {
		g.order = append(g.order, t.ID)
	}
	g.Nodes[t.ID] = &Node{ID: t.ID, Name: t.Name, Position: PointOf(t.Position)}
	if g.Adjacent[t.ID] == nil {
		g.Adjacent[t.ID] = make([]string, 0)
	}
}

// AddEdge adds a road between two towns
func (g *RoadNetwork) AddEdge(e *Edge) error {
	if _, ok := g.Nodes[e.From]; !ok {
		return fmt.Errorf("node %s not found", e.From)
	}
	if _, ok := g.Nodes[e.To]; !ok {
		return fmt.Errorf("node %s not found", e.To)
	}

	g.Edges = append(g.Edges, e)
	g.Adjacent[e.From] = append(g.Adjacent[e.From], e.To)
	g.Adjacent[e.To] = append(g.Adjacent[e.To], e.From)
	return nil
}

// GetEdge returns the edge between two nodes if it exists
func (g *RoadNetwork) GetEdge(fromID, toID string) *Edge {
	for _, e := range g.Edges {
		if (e.From == fromID && e.To == toID) || (e.From == toID && e.To == fromID) {
			return e
		}
	}
	return nil
}

// reach returns every node reachable from start using BFS
func (g *RoadNetwork) reach(startID string) map[string]bool {
	visited := map[string]bool{startID: true}
	queue := []string{startID}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, neighborID := range g.Adjacent[current] {
			if !visited[neighborID] {
				visited[neighborID] = true
				queue = append(queue, neighborID)
			}
		}
	}
	return visited
}

// IsConnected checks if all towns are reachable from a starting town
func (g *RoadNetwork) IsConnected(startID string) bool {
	if len(g.Nodes) == 0 {
		return true
	}
	return len(g.reach(startID)) == len(g.Nodes)
}

// FindUnreachable returns towns not reachable from the start, in insertion order
func (g *RoadNetwork) FindUnreachable(startID string) []string {
	visited := g.reach(startID)
	unreachable := make([]string, 0)
	for _, id := range g.order {
		if !visited[id] {
			unreachable = append(unreachable, id)
		}
	}
	return unreachable
}

// MST computes a minimum spanning forest using Kruskal's algorithm.
// These are the trunk roads: the shortest set that keeps every
// connected group of towns joined.
func (g *RoadNetwork) MST() []*Edge {
	// Union-Find data structure
	parent := make(map[string]string)
	rank := make(map[string]int)

	var find func(x string) string
	find = func(x string) string {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}

	union := func(x, y string) bool {
		rootX, rootY := find(x), find(y)
		if rootX == rootY {
			return false
		}
		if rank[rootX] < rank[rootY] {
			rootX, rootY = rootY, rootX
		}
		parent[rootY] = rootX
		if rank[rootX] == rank[rootY] {
			rank[rootX]++
		}
		return true
	}

	for id := range g.Nodes {
		parent[id] = id
	}

	sortedEdges := slices.Clone(g.Edges)
	slices.SortStableFunc(sortedEdges, func(a, b *Edge) int {
		switch {
		case a.Weight < b.Weight:
			return -1
		case a.Weight > b.Weight:
			return 1
		}
		return 0
	})

	mst := make([]*Edge, 0)
	for _, edge := range sortedEdges {
		if union(edge.From, edge.To) {
			mst = append(mst, edge)
		}
	}
	return mst
}

// Roads converts the edges to model roads in insertion order
func (g *RoadNetwork) Roads() []models.Road {
	return roadsOf(g.Edges)
}

// TrunkRoads returns the spanning-forest roads, shortest first
func (g *RoadNetwork) TrunkRoads() []models.Road {
	return roadsOf(g.MST())
}

func roadsOf(edges []*Edge) []models.Road {
	roads := make([]models.Road, 0, len(edges))
	for _, e := range edges {
		points := make([]models.Position, len(e.Path))
		for i, p := range e.Path {
			points[i] = p.Position()
		}
		roads = append(roads, models.Road{
			From:     e.From,
			To:       e.To,
			Type:     e.Type,
			Points:   points,
			Fallback: e.Fallback,
		})
	}
	return roads
}

// NetworkOf rebuilds a network from towns and saved roads
func NetworkOf(towns []models.Town, roads []models.Road) *RoadNetwork {
	g := NewRoadNetwork()
	for _, t := range towns {
		g.AddTown(t)
	}
	for _, r := range roads {
		path := make([]Point, len(r.Points))
		for i, p := range r.Points {
			path[i] = PointOf(p)
		}
		// Roads referencing unknown towns are skipped
		_ = g.AddEdge(&Edge{
			From:     r.From,
			To:       r.To,
			Weight:   float64(len(path)),
			Type:     r.Type,
			Path:     path,
			Fallback: r.Fallback,
		})
	}
	return g
}
