// Package render draws generated maps for the terminal.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"dconn.dev/realmgen/internal/config"
	"dconn.dev/realmgen/internal/generation"
	"dconn.dev/realmgen/internal/models"
)

const legendCell = 16

// Options controls how a map is drawn
type Options struct {
	Palette *generation.Palette
	Theme   config.Theme
	Title   string
	// Player marks a position with the palette's player glyph
	Player *models.Position
	// Fog hides undiscovered tiles
	Fog    bool
	Legend bool
	// Plain skips all styling
	Plain bool
}

// RenderMap draws a width by height window of tiles. The window starts at the
// smallest tile coordinate; cells with no tile are left blank.
func RenderMap(tiles []models.Tile, width, height int, opts Options) string {
	palette := opts.Palette
	if palette == nil {
		palette = generation.DefaultPalette()
	}
	if len(tiles) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	// 1. Place tiles on the grid
	originX, originY := tiles[0].X, tiles[0].Y
	for _, t := range tiles {
		originX, originY = min(originX, t.X), min(originY, t.Y)
	}
	grid := make([][]*models.Tile, height)
	for y := range grid {
		grid[y] = make([]*models.Tile, width)
	}
	for i := range tiles {
		x, y := tiles[i].X-originX, tiles[i].Y-originY
		if x < width && y < height {
			grid[y][x] = &tiles[i]
		}
	}

	// 2. Draw each row, reusing one style per color
	styles := make(map[string]lipgloss.Style)
	paint := func(g generation.Glyph) string {
		if opts.Plain {
			return g.Char
		}
		s, ok := styles[g.Color]
		if !ok {
			s = lipgloss.NewStyle().Foreground(lipgloss.Color(g.Color))
			styles[g.Color] = s
		}
		return s.Render(g.Char)
	}

	var rows []string
	if opts.Title != "" {
		rows = append(rows, style(opts, opts.Theme.Accent, true).Render(opts.Title))
	}
	for y := 0; y < height; y++ {
		var b strings.Builder
		for x := 0; x < width; x++ {
			t := grid[y][x]
			g := generation.Glyph{Char: " "}
			switch {
			case opts.Player != nil && *opts.Player == (models.Position{X: originX + x, Y: originY + y}):
				g = palette.Player
			case t == nil:
			case opts.Fog && !t.Discovered:
				g = palette.Fog
			default:
				g = palette.Glyph(t)
			}
			b.WriteString(paint(g))
		}
		rows = append(rows, b.String())
	}

	if opts.Legend {
		rows = append(rows, "", legend(palette, opts, paint))
	}
	return strings.Join(rows, "\n")
}

// Warning styles a message with the theme's error color
func Warning(theme config.Theme, msg string) string {
	return style(Options{}, theme.Error, true).Render(msg)
}

func style(opts Options, color string, bold bool) lipgloss.Style {
	s := lipgloss.NewStyle()
	if opts.Plain || color == "" {
		return s
	}
	return s.Foreground(lipgloss.Color(color)).Bold(bold)
}

// legend lists every biome glyph followed by the overlays
func legend(p *generation.Palette, opts Options, paint func(generation.Glyph) string) string {
	text := style(opts, opts.Theme.Text, false)
	entries := make([]string, 0, len(models.AllBiomes)+4)
	for _, e := range p.Legend() {
		entries = append(entries, paint(e.Glyph)+" "+text.Render(string(e.Biome)))
	}
	for _, o := range []struct {
		name  string
		glyph generation.Glyph
	}{
		{"town", p.Town}, {"portal", p.Portal}, {"paved road", p.Paved}, {"dirt road", p.Dirt}, {"you", p.Player},
	} {
		entries = append(entries, paint(o.glyph)+" "+text.Render(o.name))
	}

	// Three entries per line
	cell := lipgloss.NewStyle().Width(legendCell)
	var lines []string
	for i := 0; i < len(entries); i += 3 {
		end := min(i+3, len(entries))
		cells := make([]string, 0, 3)
		for _, e := range entries[i:end] {
			cells = append(cells, cell.Render(e))
		}
		lines = append(lines, strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, cells...), " "))
	}
	return strings.Join(lines, "\n")
}
