package models

// Category is one top-level catalog category plus the second-level ids for
// the upstream sub-types underneath it.
type Category struct {
	ID  int            `json:"id"`
	Sub map[string]int `json:"subcategories,omitempty"`
}

// Categories maps the upstream item type to its two-level category path.
// Static data, never mutated at runtime.
var Categories = map[string]Category{
	"Armor": {ID: 0, Sub: map[string]int{
		"Boots":       0,
		"Coat":        1,
		"Gloves":      2,
		"Helm":        3,
		"HelmAquatic": 4,
		"Leggings":    5,
		"Shoulders":   6,
	}},
	"Back": {ID: 1},
	"Bag":  {ID: 2},
	"Consumable": {ID: 3, Sub: map[string]int{
		"AppearanceChange": 0,
		"Booze":            1,
		"ContractNpc":      2,
		"Food":             3,
		"Generic":          4,
		"Halloween":        5,
		"Immediate":        6,
		"Transmutation":    7,
		"Unlock":           8,
		"UnTransmutation":  9,
		"UpgradeRemoval":   10,
		"Utility":          11,
		"TeleportToFriend": 12,
	}},
	"Container": {ID: 4, Sub: map[string]int{
		"Default": 0,
		"GiftBox": 1,
		"OpenUI":  2,
	}},
	"CraftingMaterial": {ID: 5},
	"Gathering": {ID: 6, Sub: map[string]int{
		"Foraging": 0,
		"Logging":  1,
		"Mining":   2,
	}},
	"Gizmo": {ID: 7, Sub: map[string]int{
		"Default":             0,
		"ContainerKey":        1,
		"RentableContractNpc": 2,
		"UnlimitedConsumable": 3,
	}},
	"MiniPet": {ID: 8},
	"Tool": {ID: 9, Sub: map[string]int{
		"Salvage": 0,
	}},
	"Trait": {ID: 10},
	"Trinket": {ID: 11, Sub: map[string]int{
		"Amulet":    0,
		"Accessory": 1,
		"Ring":      2,
	}},
	"Trophy": {ID: 12},
	"UpgradeComponent": {ID: 13, Sub: map[string]int{
		"Default": 0,
		"Gem":     1,
		"Rune":    2,
		"Sigil":   3,
	}},
	"Weapon": {ID: 14, Sub: map[string]int{
		"Axe":          0,
		"Dagger":       1,
		"Focus":        2,
		"Greatsword":   3,
		"Hammer":       4,
		"Harpoon":      5,
		"LongBow":      6,
		"Mace":         7,
		"Pistol":       8,
		"Rifle":        9,
		"Scepter":      10,
		"Shield":       11,
		"ShortBow":     12,
		"Speargun":     13,
		"Staff":        14,
		"Sword":        15,
		"Torch":        16,
		"Toy":          17,
		"Trident":      18,
		"TwoHandedToy": 19,
		"Warhorn":      20,
		"LargeBundle":  21,
		"SmallBundle":  22,
	}},
}
