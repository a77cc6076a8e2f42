package generation

import "dconn.dev/realmgen/internal/models"

// Point represents a 2D coordinate
type Point struct {
	X, Y int
}

// Add returns a new point offset by dx, dy
func (p Point) Add(dx, dy int) Point {
	return Point{p.X + dx, p.Y + dy}
}

// offsets8 is the 8-neighborhood in N, E, S, W, NE, SE, SW, NW order
var offsets8 = [8][2]int{
	{0, -1}, {1, 0}, {0, 1}, {-1, 0},
	{1, -1}, {1, 1}, {-1, 1}, {-1, -1},
}

// Neighbors returns the 8 surrounding points, cardinals first
func (p Point) Neighbors() []Point {
	out := make([]Point, 0, 8)
	for _, d := range offsets8 {
		out = append(out, p.Add(d[0], d[1]))
	}
	return out
}

// Position converts to the model coordinate
func (p Point) Position() models.Position {
	return models.Position{X: p.X, Y: p.Y}
}

// PointOf converts a model coordinate
func PointOf(pos models.Position) Point {
	return Point{pos.X, pos.Y}
}

// Direction represents cardinal directions
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// Cardinals lists the directions in option order
var Cardinals = []Direction{North, East, South, West}

// Opposite returns the opposite direction
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// Delta returns the x,y offset for moving in this direction
func (d Direction) Delta() (int, int) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	}
	return 0, 0
}

// String returns the lowercase direction name
func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	}
	return "unknown"
}

// ParseDirection accepts a direction name or a WASD key
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "north", "n", "w", "W":
		return North, true
	case "east", "e", "d", "D":
		return East, true
	case "south", "s", "S":
		return South, true
	case "west", "a", "A":
		return West, true
	}
	return 0, false
}

// Bounds represents a rectangular region, inclusive on both ends
type Bounds struct {
	MinX, MinY, MaxX, MaxY int
}

// Width returns the width of the bounds
func (b Bounds) Width() int {
	return b.MaxX - b.MinX + 1
}

// Height returns the height of the bounds
func (b Bounds) Height() int {
	return b.MaxY - b.MinY + 1
}

// Contains checks if a point is within bounds
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Clamp restricts the bounds to a square map of the given size
func (b Bounds) Clamp(mapSize int) Bounds {
	return Bounds{
		MinX: clampInt(b.MinX, 0, mapSize-1),
		MinY: clampInt(b.MinY, 0, mapSize-1),
		MaxX: clampInt(b.MaxX, 0, mapSize-1),
		MaxY: clampInt(b.MaxY, 0, mapSize-1),
	}
}

// Empty reports whether the bounds contain no tiles
func (b Bounds) Empty() bool {
	return b.MaxX < b.MinX || b.MaxY < b.MinY
}

// MapBounds covers a whole square map
func MapBounds(mapSize int) Bounds {
	return Bounds{0, 0, mapSize - 1, mapSize - 1}
}

// Grid is the mutable tile arena a chunk is generated into.
// Tiles are addressed by world coordinates.
type Grid struct {
	Bounds Bounds
	Tiles  [][]models.Tile
}

// NewGrid allocates an empty grid covering b
func NewGrid(b Bounds) *Grid {
	tiles := make([][]models.Tile, b.Height())
	for y := range tiles {
		tiles[y] = make([]models.Tile, b.Width())
	}
	return &Grid{Bounds: b, Tiles: tiles}
}

// InBounds checks if a point is within the grid
func (g *Grid) InBounds(p Point) bool {
	return g.Bounds.Contains(p)
}

// Get returns the tile at a world position, or nil outside the grid
func (g *Grid) Get(p Point) *models.Tile {
	if !g.InBounds(p) {
		return nil
	}
	return &g.Tiles[p.Y-g.Bounds.MinY][p.X-g.Bounds.MinX]
}

// Interior reports whether p is inside the grid and not on its border
func (g *Grid) Interior(p Point) bool {
	b := g.Bounds
	return p.X > b.MinX && p.X < b.MaxX && p.Y > b.MinY && p.Y < b.MaxY
}

// Each visits every tile in row-major order
func (g *Grid) Each(fn func(p Point, t *models.Tile)) {
	for y := g.Bounds.MinY; y <= g.Bounds.MaxY; y++ {
		for x := g.Bounds.MinX; x <= g.Bounds.MaxX; x++ {
			p := Point{x, y}
			fn(p, g.Get(p))
		}
	}
}

// Snapshot copies the tiles out in row-major order
func (g *Grid) Snapshot() []models.Tile {
	out := make([]models.Tile, 0, g.Bounds.Width()*g.Bounds.Height())
	g.Each(func(_ Point, t *models.Tile) {
		c := *t
		c.Options = append([]models.AdventureOption(nil), t.Options...)
		out = append(out, c)
	})
	return out
}

// TileIndex is a position-keyed view over a tile slice
type TileIndex map[Point]*models.Tile

// IndexTiles builds an index over tiles; entries alias the slice
func IndexTiles(tiles []models.Tile) TileIndex {
	idx := make(TileIndex, len(tiles))
	for i := range tiles {
		idx[Point{tiles[i].X, tiles[i].Y}] = &tiles[i]
	}
	return idx
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
