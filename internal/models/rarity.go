package models

// Rarities maps the upstream rarity word to the compact code stored on items
// and used by the query engine's rarity filter.
var Rarities = map[string]int{
	"Junk":       0,
	"Basic":      1,
	"Fine":       2,
	"Masterwork": 3,
	"Rare":       4,
	"Exotic":     5,
	"Ascended":   6,
	"Legendary":  7,
}
