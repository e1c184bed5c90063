package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/itemforge/catalog-api/internal/metrics"
	"github.com/itemforge/catalog-api/internal/models"
)

const (
	// upsertChunkSize is the number of rows written per batched upsert.
	upsertChunkSize = 200

	// syncFanout bounds concurrent per-locale and per-chunk work.
	syncFanout = 4
)

// syncColumns are the columns a catalog sync is allowed to overwrite. Price
// state (buy, sell, last_update) and recipe state (craftable, crafting
// costs) are owned by their own pipelines and must survive a re-sync.
var syncColumns = []string{
	"name", "description", "image", "level", "vendor_price",
	"rarity", "skin", "tradable", "category",
}

// catalogSource is the part of the upstream client the synchronizer needs.
type catalogSource interface {
	AllItems(ctx context.Context, lang string) ([]UpstreamItem, error)
	ItemPageCount(ctx context.Context, lang string) (int, error)
	ItemsPage(ctx context.Context, lang string, page int) ([]UpstreamItem, error)
}

// CatalogSync mirrors the upstream item catalog into the local store, one
// row per (id, locale). Both strategies are idempotent: re-running a sync
// upserts the same rows again.
type CatalogSync struct {
	source        catalogSource
	db            *gorm.DB
	reducedMemory bool
}

func NewCatalogSync(source catalogSource, db *gorm.DB, reducedMemory bool) *CatalogSync {
	return &CatalogSync{
		source:        source,
		db:            db,
		reducedMemory: reducedMemory,
	}
}

// Initialize backfills an empty store with one full sync and one price
// cycle, then registers both on their schedules.
func (s *CatalogSync) Initialize(ctx context.Context, sched Scheduler, tracker *PriceTracker, itemSchedule, priceSchedule string) error {
	var count int64
	if err := s.db.Model(&models.Item{}).Count(&count).Error; err != nil {
		return fmt.Errorf("catalog sync: %w", err)
	}

	if count == 0 {
		log.Println("Catalog sync: store is empty, running initial sync")
		if err := sched.RunNow(ctx, "catalog-sync", s.Sync); err != nil {
			return err
		}
		if err := sched.RunNow(ctx, "price-update", tracker.UpdatePrices); err != nil {
			return err
		}
	}

	if err := sched.RunOnSchedule(itemSchedule, "catalog-sync", s.Sync); err != nil {
		return err
	}
	if err := sched.RunOnSchedule(priceSchedule, "price-update", tracker.UpdatePrices); err != nil {
		return err
	}

	log.Println("Initialized catalog sync")
	return nil
}

// Sync runs the configured strategy over all locales.
func (s *CatalogSync) Sync(ctx context.Context) error {
	start := time.Now()

	var err error
	if s.reducedMemory {
		err = s.reducedMemorySync(ctx)
	} else {
		err = s.bulkSync(ctx)
	}

	metrics.CatalogSyncDuration.Observe(time.Since(start).Seconds())
	return err
}

// bulkSync fetches every locale's full item list concurrently, transforms
// all records and writes them in batched upserts. Each locale's batches run
// concurrently with the other locales' but complete before that locale
// reports success.
func (s *CatalogSync) bulkSync(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(syncFanout)

	for _, lang := range models.Languages {
		g.Go(func() error {
			raw, err := s.source.AllItems(gctx, lang)
			if err != nil {
				return fmt.Errorf("catalog sync %s: %w", lang, err)
			}

			items := s.transformAll(raw, lang)
			if err := s.upsertItems(gctx, items); err != nil {
				return fmt.Errorf("catalog sync %s: %w", lang, err)
			}

			log.Printf("Catalog sync: upserted %d items for locale %s", len(items), lang)
			return nil
		})
	}

	return g.Wait()
}

// reducedMemorySync walks the locales sequentially and each locale page by
// page, upserting a page before fetching the next. Slower, but the full
// per-locale item list is never in memory at once.
func (s *CatalogSync) reducedMemorySync(ctx context.Context) error {
	for _, lang := range models.Languages {
		pages, err := s.source.ItemPageCount(ctx, lang)
		if err != nil {
			return fmt.Errorf("catalog sync %s: %w", lang, err)
		}

		for page := 0; page < pages; page++ {
			raw, err := s.source.ItemsPage(ctx, lang, page)
			if err != nil {
				return fmt.Errorf("catalog sync %s page %d: %w", lang, page, err)
			}

			items := s.transformAll(raw, lang)
			if err := s.upsertItems(ctx, items); err != nil {
				return fmt.Errorf("catalog sync %s page %d: %w", lang, page, err)
			}
		}

		log.Printf("Catalog sync: finished locale %s (%d pages)", lang, pages)
	}

	return nil
}

// transformAll maps raw records to rows for one locale. Records with unknown
// category or rarity codes are logged, counted and skipped; one bad record
// does not fail the cycle.
func (s *CatalogSync) transformAll(raw []UpstreamItem, lang string) []models.Item {
	items := make([]models.Item, 0, len(raw))
	for _, r := range raw {
		item, err := TransformItem(r, lang)
		if err != nil {
			var mapErr *MappingError
			if errors.As(err, &mapErr) {
				log.Printf("Catalog sync: skipping item %d (%s): %v", r.ID, lang, err)
				metrics.ItemsSkipped.Inc()
				continue
			}
			log.Printf("Catalog sync: failed to transform item %d (%s): %v", r.ID, lang, err)
			metrics.ItemsSkipped.Inc()
			continue
		}
		items = append(items, item)
	}
	return items
}

// upsertItems writes rows keyed by (id, lang) in concurrent chunks,
// inserting missing rows and overwriting the catalog-owned columns of
// existing ones.
func (s *CatalogSync) upsertItems(ctx context.Context, items []models.Item) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(syncFanout)

	for start := 0; start < len(items); start += upsertChunkSize {
		end := min(start+upsertChunkSize, len(items))
		chunk := items[start:end]

		g.Go(func() error {
			err := s.db.WithContext(gctx).Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}, {Name: "lang"}},
				DoUpdates: clause.AssignmentColumns(syncColumns),
			}).Create(&chunk).Error
			if err != nil {
				return fmt.Errorf("upsert of %d items failed: %w", len(chunk), err)
			}
			metrics.ItemsUpserted.Add(float64(len(chunk)))
			return nil
		})
	}

	return g.Wait()
}
