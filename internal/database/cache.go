package database

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/itemforge/catalog-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrCacheMiss is returned by GetCache when no artifact with the given name
// has been stored yet.
var ErrCacheMiss = errors.New("cache entry not found")

// PutCache stores a named derived artifact as JSON, replacing any prior
// content under the same name.
func PutCache(db *gorm.DB, name string, content any) error {
	payload, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry %s: %w", name, err)
	}

	entry := models.CacheEntry{ID: name, Content: payload}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to store cache entry %s: %w", name, err)
	}
	return nil
}

// GetCache decodes the named artifact into out. Missing entries report
// ErrCacheMiss so callers can distinguish "not built yet" from a real error.
func GetCache(db *gorm.DB, name string, out any) error {
	var entry models.CacheEntry
	err := db.First(&entry, "id = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("failed to read cache entry %s: %w", name, err)
	}

	if err := json.Unmarshal(entry.Content, out); err != nil {
		return fmt.Errorf("failed to decode cache entry %s: %w", name, err)
	}
	return nil
}

// HasCache reports whether the named artifact exists.
func HasCache(db *gorm.DB, name string) (bool, error) {
	var count int64
	err := db.Model(&models.CacheEntry{}).Where("id = ?", name).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
