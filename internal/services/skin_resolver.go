package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/itemforge/catalog-api/internal/database"
	"github.com/itemforge/catalog-api/internal/metrics"
	"github.com/itemforge/catalog-api/internal/models"
)

// skinSource is the part of the upstream client the resolver needs.
type skinSource interface {
	AllSkins(ctx context.Context) ([]UpstreamSkin, error)
}

// SkinResolver builds the inverted index from skin id to the items that
// apply that skin, by explicit skin marker or by name containment. The index
// lives in the derived cache and is rebuilt wholesale, never incrementally.
type SkinResolver struct {
	source skinSource
	db     *gorm.DB

	// coalesces concurrent rebuild triggers into one build
	build singleflight.Group
}

func NewSkinResolver(source skinSource, db *gorm.DB) *SkinResolver {
	return &SkinResolver{
		source: source,
		db:     db,
	}
}

// Initialize builds the index synchronously if the cache holds none, then
// registers the periodic rebuild either way.
func (r *SkinResolver) Initialize(ctx context.Context, sched Scheduler, schedule string) error {
	built, err := database.HasCache(r.db, models.CacheSkinsToItems)
	if err != nil {
		return fmt.Errorf("skin resolver: %w", err)
	}

	if !built {
		if err := sched.RunNow(ctx, "skin-index", r.BuildIndex); err != nil {
			return err
		}
	}

	if err := sched.RunOnSchedule(schedule, "skin-index", r.BuildIndex); err != nil {
		return err
	}

	log.Println("Initialized skin resolver")
	return nil
}

// BuildIndex rebuilds the skin index and the derived skin price map from the
// upstream skin list and the stored English item rows, replacing any prior
// cached artifacts.
func (r *SkinResolver) BuildIndex(ctx context.Context) error {
	_, err, _ := r.build.Do("build", func() (any, error) {
		return nil, r.buildIndex(ctx)
	})
	return err
}

func (r *SkinResolver) buildIndex(ctx context.Context) error {
	start := time.Now()

	skins, err := r.source.AllSkins(ctx)
	if err != nil {
		return fmt.Errorf("skin index: %w", err)
	}

	// Name matching is locale-independent; the English rows carry one full
	// copy of the catalog.
	var items []models.Item
	err = r.db.WithContext(ctx).
		Where("lang = ?", "en").
		Order("id").
		Find(&items).Error
	if err != nil {
		return fmt.Errorf("skin index: %w", err)
	}

	index := make(map[int][]int, len(skins))
	for _, skin := range skins {
		index[skin.ID] = ResolveSkin(skin, items)
	}

	if err := database.PutCache(r.db, models.CacheSkinsToItems, index); err != nil {
		return fmt.Errorf("skin index: %w", err)
	}

	prices := skinPrices(index, items)
	if err := database.PutCache(r.db, models.CacheSkinPrices, prices); err != nil {
		return fmt.Errorf("skin index: %w", err)
	}

	metrics.SkinIndexSize.Set(float64(len(index)))
	metrics.SkinIndexBuildDuration.Observe(time.Since(start).Seconds())

	log.Printf("Skin index: resolved %d skins against %d items in %v", len(skins), len(items), time.Since(start).Round(time.Millisecond))
	return nil
}

// ResolveSkin returns the ids of the items that apply the given skin, in
// item order. An item with an explicit skin marker matches by id; an item
// without one matches when its name contains the skin's name as a
// case-sensitive whole word sequence ("Some" matches "Some Skin" but not
// "Something"). Pure function of its inputs.
func ResolveSkin(skin UpstreamSkin, items []models.Item) []int {
	ids := []int{}
	for _, item := range items {
		if item.Skin != nil {
			if *item.Skin == skin.ID {
				ids = append(ids, item.ID)
			}
			continue
		}
		if skin.Name != "" && nameContains(item.Name, skin.Name) {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

// nameContains tests word-bounded containment of needle in name.
func nameContains(name, needle string) bool {
	return strings.Contains(" "+name+" ", " "+needle+" ")
}

// skinPrices derives the cheapest effective price per skin: the lowest of
// its items' sell price, falling back per item to the buy price, then the
// sticky last known sell price. Skins with no priced item are omitted.
func skinPrices(index map[int][]int, items []models.Item) map[int]int {
	byID := make(map[int]models.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	prices := make(map[int]int)
	for skinID, itemIDs := range index {
		best := 0
		for _, id := range itemIDs {
			item, ok := byID[id]
			if !ok || !item.Tradable {
				continue
			}
			price := effectivePrice(item)
			if price > 0 && (best == 0 || price < best) {
				best = price
			}
		}
		if best > 0 {
			prices[skinID] = best
		}
	}
	return prices
}

func effectivePrice(item models.Item) int {
	if item.Sell != nil && item.Sell.Price > 0 {
		return item.Sell.Price
	}
	if item.Buy != nil && item.Buy.Price > 0 {
		return item.Buy.Price
	}
	if item.Sell != nil {
		return item.Sell.LastKnown
	}
	return 0
}
