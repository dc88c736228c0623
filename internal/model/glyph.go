package model

// Glyph is an opaque presentation token the UI resolves to an icon
type Glyph string

const (
	GlyphRiceBowl       Glyph = "rice-bowl"
	GlyphEgg            Glyph = "egg"
	GlyphLocalDining    Glyph = "local-dining"
	GlyphLocalDrink     Glyph = "local-drink"
	GlyphFastfood       Glyph = "fastfood"
	GlyphPets           Glyph = "pets"
	GlyphRestaurant     Glyph = "restaurant"
	GlyphSoupKitchen    Glyph = "soup-kitchen"
	GlyphOutdoorGrill   Glyph = "outdoor-grill"
	GlyphEggAlt         Glyph = "egg-alt"
	GlyphShoppingBasket Glyph = "shopping-basket"
	GlyphPark           Glyph = "park"
	GlyphCake           Glyph = "cake"
	GlyphBlender        Glyph = "blender"
)

// DefaultGlyph is used for any tag outside the known set
const DefaultGlyph = GlyphRestaurant

var tagGlyphs = map[string]Glyph{
	"Rice":      GlyphRiceBowl,
	"Chicken":   GlyphEgg,
	"Shawarma":  GlyphLocalDining,
	"Juice":     GlyphLocalDrink,
	"Fastfood":  GlyphFastfood,
	"Goat meat": GlyphPets,
	"Amala":     GlyphRestaurant,
	"Soup bowl": GlyphSoupKitchen,
	"Grills":    GlyphOutdoorGrill,
	"Turkey":    GlyphEggAlt,
	"Grocery":   GlyphShoppingBasket,
	"Vegetable": GlyphPark,
	"Doughnuts": GlyphCake,
	"Smoothies": GlyphBlender,
}

// GlyphForTag returns the token for a tag name, falling back to DefaultGlyph
func GlyphForTag(name string) Glyph {
	if g, ok := tagGlyphs[name]; ok {
		return g
	}
	return DefaultGlyph
}

// TagGlyphs returns a copy of the known tag to glyph table
func TagGlyphs() map[string]Glyph {
	out := make(map[string]Glyph, len(tagGlyphs))
	for name, g := range tagGlyphs {
		out[name] = g
	}
	return out
}
