package generation

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"dconn.dev/realmgen/internal/content"
	"dconn.dev/realmgen/internal/random"
)

// NameKind selects a naming pattern
type NameKind string

const (
	NameTown      NameKind = "town"
	NameWorld     NameKind = "world"
	NameCharacter NameKind = "character"
	NameNPC       NameKind = "npc"
	NameMonster   NameKind = "monster"
	NameItem      NameKind = "item"
)

// namePattern gives the chance of each optional part and how the suffix joins
type namePattern struct {
	parts       NameKind
	prefix      float64
	suffix      float64
	spaceSuffix bool
}

var namePatterns = map[NameKind]namePattern{
	NameTown:      {NameTown, 0.5, 0.7, false},
	NameWorld:     {NameWorld, 0.7, 0.6, false},
	NameCharacter: {NameCharacter, 0.3, 0.8, false},
	NameNPC:       {NameCharacter, 0.3, 0.8, false},
	NameMonster:   {NameMonster, 0.6, 0.4, false},
	NameItem:      {NameItem, 0.7, 0.5, true},
}

// GenerateName assembles a name from part tables: an optional prefix word,
// a root, and an optional suffix. Unknown kinds use the town pattern.
func GenerateName(tables *content.Tables, rng *random.Rand, kind NameKind) string {
	pattern, ok := namePatterns[kind]
	if !ok {
		pattern = namePatterns[NameTown]
	}
	parts := tables.Names[string(pattern.parts)]

	name := ""
	if rng.Bool(pattern.prefix) {
		name += pickOr(rng, parts.Prefixes, "") + " "
	}
	name += pickOr(rng, parts.Roots, "nameless")
	if rng.Bool(pattern.suffix) {
		if pattern.spaceSuffix {
			name += " "
		}
		name += pickOr(rng, parts.Suffixes, "")
	}
	// Casers are stateful, so each call gets its own
	return cases.Title(language.English, cases.NoLower).String(name)
}

// Name generates a name with the generator's tables
func (g *Generator) Name(rng *random.Rand, kind NameKind) string {
	return GenerateName(g.tables, rng, kind)
}
