package database

import (
	"log"

	"gorm.io/gorm"
)

// normalizeItemLocales repairs rows imported before the locale column became
// part of the primary key. Rows with a missing locale are treated as English;
// rows with an unknown locale are dropped so the (id, lang) key stays clean.
func normalizeItemLocales(db *gorm.DB) error {
	if !db.Migrator().HasTable("items") {
		return nil
	}

	result := db.Exec(`UPDATE items SET lang = 'en' WHERE lang IS NULL OR lang = ''`)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("Normalized %d item rows with missing locale", result.RowsAffected)
	}

	result = db.Exec(`DELETE FROM items WHERE lang NOT IN ('en', 'de', 'fr', 'es')`)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("Removed %d item rows with unknown locale", result.RowsAffected)
	}

	return nil
}

// RunMigrations runs custom data migrations after schema changes
func RunMigrations(db *gorm.DB) error {
	return normalizeItemLocales(db)
}
