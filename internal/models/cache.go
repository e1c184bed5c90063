package models

// CacheEntry is one named derived artifact (for example the skin index) kept
// in the small "cache" table as an opaque JSON payload.
type CacheEntry struct {
	ID      string `json:"id" gorm:"primaryKey"`
	Content []byte `json:"content"`
}

func (CacheEntry) TableName() string {
	return "cache"
}

// Well-known cache artifact names.
const (
	CacheSkinsToItems = "skinsToItems"
	CacheSkinPrices   = "skinPrices"
)
