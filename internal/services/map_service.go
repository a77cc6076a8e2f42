package services

import (
	"dconn.dev/realmgen/internal/generation"
	"dconn.dev/realmgen/internal/models"
)

var voidGlyph = generation.Glyph{Char: "?", Color: "#2a2a2a"}

// MapService renders the world as the player sees it
type MapService struct {
	world   *WorldService
	palette *generation.Palette
}

// NewMapService creates a MapService drawing with the given palette
func NewMapService(ws *WorldService, palette *generation.Palette) *MapService {
	if palette == nil {
		palette = generation.DefaultPalette()
	}
	return &MapService{world: ws, palette: palette}
}

// GetViewport returns the visible tiles around a center position
// width and height specify the viewport dimensions
func (s *MapService) GetViewport(center models.Position, width, height int) *models.ViewportData {
	halfWidth := width / 2
	halfHeight := height / 2
	viewport := &models.ViewportData{
		Tiles:   make([][]models.RenderedTile, height),
		PlayerX: halfWidth,
		PlayerY: halfHeight,
	}

	for y := 0; y < height; y++ {
		viewport.Tiles[y] = make([]models.RenderedTile, width)
		for x := 0; x < width; x++ {
			pos := models.Position{X: center.X - halfWidth + x, Y: center.Y - halfHeight + y}
			g := s.glyphAt(pos)
			if pos == center {
				g = s.palette.Player
			}
			viewport.Tiles[y][x] = models.RenderedTile{Character: g.Char, Color: g.Color}
		}
	}

	if tile := s.world.TileAt(center); tile != nil {
		current := *tile
		viewport.Current = &current
		if tile.HasTown {
			if town, err := s.world.Town(tile.TownID); err == nil {
				viewport.Town = &town
			}
		}
	}
	return viewport
}

// glyphAt returns the glyph for a position: void off the map, fog where undiscovered
func (s *MapService) glyphAt(pos models.Position) generation.Glyph {
	tile := s.world.TileAt(pos)
	if tile == nil {
		return voidGlyph
	}
	if !tile.Discovered {
		return s.palette.Fog
	}
	return s.palette.Glyph(tile)
}

// FullMapData is the discovered map for client-side caching
type FullMapData struct {
	Width  int                     `json:"width"`
	Height int                     `json:"height"`
	Player models.Position         `json:"player"`
	Tiles  [][]models.RenderedTile `json:"tiles"`
	Legend []LegendItem            `json:"legend"`
}

// LegendItem labels one biome glyph for clients
type LegendItem struct {
	Biome models.Biome `json:"biome"`
	Char  string       `json:"char"`
	Color string       `json:"color"`
}

// GetFullMapData renders the entire map with the player marked
func (s *MapService) GetFullMapData(player models.Position) *FullMapData {
	size := s.world.World().MapSize
	tiles := make([][]models.RenderedTile, size)
	for y := 0; y < size; y++ {
		tiles[y] = make([]models.RenderedTile, size)
		for x := 0; x < size; x++ {
			pos := models.Position{X: x, Y: y}
			g := s.glyphAt(pos)
			if pos == player {
				g = s.palette.Player
			}
			tiles[y][x] = models.RenderedTile{Character: g.Char, Color: g.Color}
		}
	}

	legend := make([]LegendItem, 0, len(models.AllBiomes))
	for _, e := range s.palette.Legend() {
		legend = append(legend, LegendItem{Biome: e.Biome, Char: e.Glyph.Char, Color: e.Glyph.Color})
	}

	return &FullMapData{
		Width:  size,
		Height: size,
		Player: player,
		Tiles:  tiles,
		Legend: legend,
	}
}
