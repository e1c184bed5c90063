package models

// Languages is the closed set of locales the catalog is mirrored in.
var Languages = []string{"en", "de", "fr", "es"}

// ResolveLanguage returns lang if it is a known locale, "en" otherwise.
func ResolveLanguage(lang string) string {
	for _, l := range Languages {
		if l == lang {
			return l
		}
	}
	return "en"
}

// LastChange records the delta observed the last time a price block actually
// moved. It is sticky: unchanged observations carry the previous value
// forward instead of resetting it.
type LastChange struct {
	Quantity int    `json:"quantity"`
	Price    int    `json:"price"`
	Time     string `json:"time"`
}

// PriceBlock holds one side (buy or sell) of an item's trading post state.
// Price 0 means no open orders; LastKnown retains the last nonzero price.
type PriceBlock struct {
	Quantity   int        `json:"quantity"`
	Price      int        `json:"price"`
	LastChange LastChange `json:"last_change"`
	LastKnown  int        `json:"last_known"`
}

// CraftingCost is the cost of the cheapest known recipe for an item. It is
// written by the recipe pipeline and only read here, for crafting profit.
type CraftingCost struct {
	Buy int `json:"buy"`
}

// Item is one locale row of a catalog item. The same item id has one row per
// language; every field except Name and Description is identical across the
// rows of an id, and price writes fan out to all of them.
type Item struct {
	ID                   int           `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Lang                 string        `json:"lang" gorm:"primaryKey;size:2;index"`
	Name                 string        `json:"name" gorm:"index"`
	Description          *string       `json:"description"`
	Image                string        `json:"image"`
	Level                *int          `json:"level"`
	VendorPrice          int           `json:"vendor_price"`
	Rarity               int           `json:"rarity"`
	Skin                 *int          `json:"skin"`
	Tradable             bool          `json:"tradable" gorm:"index"`
	Craftable            bool          `json:"craftable"`
	Category             []int         `json:"category" gorm:"serializer:json"`
	Buy                  *PriceBlock   `json:"buy" gorm:"serializer:json"`
	Sell                 *PriceBlock   `json:"sell" gorm:"serializer:json"`
	Crafting             *CraftingCost `json:"crafting,omitempty" gorm:"serializer:json"`
	CraftingNoPrecursors *CraftingCost `json:"crafting_without_precursors,omitempty" gorm:"serializer:json;column:crafting_no_precursors"`
	CraftingProfit       *int          `json:"crafting_profit,omitempty"`
	LastUpdate           string        `json:"last_update,omitempty"`
}

func (Item) TableName() string {
	return "items"
}

// ItemPrice is the reduced shape served by the all-prices listing: the higher
// of an item's buy and sell price.
type ItemPrice struct {
	ID    int `json:"id"`
	Price int `json:"price"`
}
