package generation

import (
	"container/heap"
	"math"

	"dconn.dev/realmgen/internal/models"
)

// ---- A* Pathfinding ----

// astarNode represents a node in the A* priority queue
type astarNode struct {
	point  Point
	gScore float64 // Cost from start
	fScore float64 // gScore + heuristic + jitter
	seq    int     // Insertion order, breaks fScore ties
	index  int
}

// priorityQueue implements heap.Interface for A*
type priorityQueue []*astarNode

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].fScore != pq[j].fScore {
		return pq[i].fScore < pq[j].fScore
	}
	return pq[i].seq < pq[j].seq
}
func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}
func (pq *priorityQueue) Push(x any) {
	n := x.(*astarNode)
	n.index = len(*pq)
	*pq = append(*pq, n)
}
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*pq = old[:len(old)-1]
	return n
}

// pathSearch configures one A* run over loaded tiles
type pathSearch struct {
	tiles TileIndex
	// step is the cost of entering a tile
	step func(t *models.Tile) float64
	// bump is added to each pushed node's priority; nil adds nothing
	bump func() float64
}

// find runs A* over the 8-neighborhood. Only tiles present in the index
// are walkable. Returns nil if no path exists.
func (s pathSearch) find(from, to Point) []Point {
	if s.tiles[from] == nil || s.tiles[to] == nil {
		return nil
	}

	openSet := &priorityQueue{}
	heap.Init(openSet)

	gScore := map[Point]float64{from: 0}
	cameFrom := make(map[Point]Point)
	closed := make(map[Point]bool)
	seq := 0

	heap.Push(openSet, &astarNode{point: from, fScore: heuristic(from, to)})

	for openSet.Len() > 0 {
		current := heap.Pop(openSet).(*astarNode)
		if closed[current.point] {
			continue
		}
		if current.point == to {
			return reconstruct(cameFrom, from, to)
		}
		closed[current.point] = true

		for _, neighbor := range current.point.Neighbors() {
			t := s.tiles[neighbor]
			if t == nil || closed[neighbor] {
				continue
			}

			tentativeG := current.gScore + s.step(t)
			if oldG, exists := gScore[neighbor]; exists && tentativeG >= oldG {
				continue
			}
			cameFrom[neighbor] = current.point
			gScore[neighbor] = tentativeG

			f := tentativeG + heuristic(neighbor, to)
			if s.bump != nil {
				f += s.bump()
			}
			seq++
			heap.Push(openSet, &astarNode{point: neighbor, gScore: tentativeG, fScore: f, seq: seq})
		}
	}

	return nil // No path found
}

func reconstruct(cameFrom map[Point]Point, from, to Point) []Point {
	path := []Point{to}
	for curr := to; curr != from; {
		curr = cameFrom[curr]
		path = append(path, curr)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func heuristic(a, b Point) float64 {
	return math.Abs(float64(a.X-b.X)) + math.Abs(float64(a.Y-b.Y))
}

// straightLine interpolates from one point to another, rounding each step
func straightLine(from, to Point) []Point {
	steps := max(abs(to.X-from.X), abs(to.Y-from.Y))
	if steps == 0 {
		return []Point{from}
	}
	path := make([]Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		path = append(path, Point{
			X: int(math.Round(float64(from.X) + float64(to.X-from.X)*t)),
			Y: int(math.Round(float64(from.Y) + float64(to.Y-from.Y)*t)),
		})
	}
	return path
}
