package generation

import "dconn.dev/realmgen/internal/models"

// Glyph is a single rendered map cell
type Glyph struct {
	Char  string
	Color string
}

// Palette defines how tiles are drawn
type Palette struct {
	Biomes map[models.Biome]Glyph

	// Overlays, drawn over the biome in this order of precedence
	Player Glyph
	Town   Glyph
	Portal Glyph
	Paved  Glyph
	Dirt   Glyph

	// Undiscovered tiles
	Fog Glyph
}

// DefaultPalette returns the standard map palette
func DefaultPalette() *Palette {
	return &Palette{
		Biomes: map[models.Biome]Glyph{
			models.BiomeOcean:     {"≈", "#1E3A8A"},
			models.BiomeLake:      {"~", "#3B82F6"},
			models.BiomeRiver:     {"~", "#60A5FA"},
			models.BiomeBeach:     {".", "#FDE68A"},
			models.BiomeMarsh:     {"\"", "#4D7C0F"},
			models.BiomeSwamp:     {"%", "#365314"},
			models.BiomePlains:    {"^", "#84CC16"},
			models.BiomeForest:    {"T", "#15803D"},
			models.BiomeJungle:    {"♣", "#166534"},
			models.BiomeDesert:    {":", "#EAB308"},
			models.BiomeWasteland: {";", "#A8A29E"},
			models.BiomeTundra:    {"s", "#E5E7EB"},
			models.BiomeHighlands: {"n", "#A16207"},
			models.BiomeMountains: {"M", "#78716C"},
			models.BiomeVolcanic:  {"A", "#DC2626"},
		},
		Player: Glyph{"@", "#FFFFFF"},
		Town:   Glyph{"#", "#F59E0B"},
		Portal: Glyph{"*", "#C084FC"},
		Paved:  Glyph{"+", "#D6D3D1"},
		Dirt:   Glyph{"·", "#A8A29E"},
		Fog:    Glyph{" ", "#000000"},
	}
}

// Glyph returns how a tile is drawn, ignoring the player overlay
func (p *Palette) Glyph(t *models.Tile) Glyph {
	switch {
	case t == nil:
		return p.Fog
	case t.HasTown:
		return p.Town
	case t.HasPortal:
		return p.Portal
	case t.HasPath && t.PathType == models.PathPaved:
		return p.Paved
	case t.HasPath:
		return p.Dirt
	}
	if g, ok := p.Biomes[t.Biome]; ok {
		return g
	}
	return p.Biomes[models.BiomePlains]
}

// LegendEntry labels one biome glyph
type LegendEntry struct {
	Biome models.Biome
	Glyph Glyph
}

// Legend lists the biome glyphs in a stable order
func (p *Palette) Legend() []LegendEntry {
	out := make([]LegendEntry, 0, len(models.AllBiomes))
	for _, b := range models.AllBiomes {
		out = append(out, LegendEntry{b, p.Biomes[b]})
	}
	return out
}
