package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/itemforge/catalog-api/internal/metrics"
	"github.com/itemforge/catalog-api/internal/models"
)

const (
	// priceFanout bounds concurrent per-item price updates within a cycle.
	priceFanout = 16

	// sellFeeFactor is the fraction of the sell price left after the
	// trading post's listing and exchange fees.
	sellFeeFactor = 0.85
)

// priceSource is the part of the upstream client the tracker needs.
type priceSource interface {
	AllPrices(ctx context.Context) ([]UpstreamPrice, error)
}

// PriceTracker matches upstream price quotes to stored tradable items and
// keeps per-item price state fresh. Items the catalog does not know yet, or
// knows as untradable, are skipped until a later sync picks them up.
type PriceTracker struct {
	source priceSource
	db     *gorm.DB

	mu             sync.RWMutex
	lastCycleTime  time.Time
	updatedInCycle int
}

// PriceTrackerStatus is a snapshot of the tracker's last cycle.
type PriceTrackerStatus struct {
	LastCycleTime time.Time `json:"last_cycle_time"`
	ItemsUpdated  int       `json:"items_updated"`
}

func NewPriceTracker(source priceSource, db *gorm.DB) *PriceTracker {
	return &PriceTracker{
		source: source,
		db:     db,
	}
}

// UpdatePrices runs one full price cycle: fetch all current quotes and apply
// each to the stored rows of its item. Items update concurrently and
// independently; there is no ordering guarantee between them.
func (t *PriceTracker) UpdatePrices(ctx context.Context) error {
	start := time.Now()

	quotes, err := t.source.AllPrices(ctx)
	if err != nil {
		return fmt.Errorf("price update: %w", err)
	}

	var updated int64
	var updatedMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(priceFanout)
	for _, quote := range quotes {
		g.Go(func() error {
			applied, err := t.applyQuote(gctx, quote)
			if err != nil {
				return err
			}
			if applied {
				updatedMu.Lock()
				updated++
				updatedMu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("price update: %w", err)
	}

	t.mu.Lock()
	t.lastCycleTime = time.Now()
	t.updatedInCycle = int(updated)
	t.mu.Unlock()

	metrics.PriceUpdatesTotal.Add(float64(updated))
	metrics.PriceCycleDuration.Observe(time.Since(start).Seconds())

	log.Printf("Price update: applied %d of %d quotes in %v", updated, len(quotes), time.Since(start).Round(time.Millisecond))
	return nil
}

// applyQuote updates every locale row of the quoted item. The first tradable
// row is read as the price memory; non-localized fields are identical across
// locale rows, so any row will do.
func (t *PriceTracker) applyQuote(ctx context.Context, quote UpstreamPrice) (bool, error) {
	var item models.Item
	err := t.db.WithContext(ctx).
		Where("id = ? AND tradable = ?", quote.ID, true).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Not yet synced, or not tradable
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("price lookup for item %d: %w", quote.ID, err)
	}

	now := isoDate(time.Now())
	update := NextItemPrices(item, quote, now)

	// Multi-row update: the price fields are locale-invariant, so the new
	// state fans out to all locale rows of the id.
	err = t.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", quote.ID).
		Select(priceUpdateColumns(update)).
		Updates(update).Error
	if err != nil {
		return false, fmt.Errorf("price write for item %d: %w", quote.ID, err)
	}
	return true, nil
}

// priceUpdateColumns lists the columns a price update writes. A stored
// profit stays in place when the item has no crafting cost to recompute
// it from.
func priceUpdateColumns(update models.Item) []string {
	columns := []string{"buy", "sell", "last_update"}
	if update.CraftingProfit != nil {
		columns = append(columns, "crafting_profit")
	}
	return columns
}

// NextItemPrices computes the price fields a quote produces for an item.
// Pure; exported for testing against explicit price memory.
func NextItemPrices(item models.Item, quote UpstreamPrice, now string) models.Item {
	buy := nextPriceBlock(item.Buy, quote.Buys, now)
	sell := nextPriceBlock(item.Sell, quote.Sells, now)

	update := models.Item{
		Buy:        &buy,
		Sell:       &sell,
		LastUpdate: now,
	}

	if cost := cheapestCraftingCost(item); cost != nil {
		profit := int(math.Round(float64(sell.Price)*sellFeeFactor - float64(cost.Buy)))
		update.CraftingProfit = &profit
	}

	return update
}

// nextPriceBlock folds a new quote side into the stored block. last_change
// and last_known are sticky: an unchanged observation carries the previous
// delta forward, and last_known never regresses to zero while any prior
// nonzero price exists.
func nextPriceBlock(memory *models.PriceBlock, current UpstreamQuoteSide, now string) models.PriceBlock {
	block := models.PriceBlock{
		Quantity:   current.Quantity,
		Price:      current.UnitPrice,
		LastChange: lastPriceChange(memory, current, now),
		LastKnown:  current.UnitPrice,
	}

	if block.LastKnown == 0 && memory != nil {
		if memory.Price != 0 {
			block.LastKnown = memory.Price
		} else {
			block.LastKnown = memory.LastKnown
		}
	}

	return block
}

func lastPriceChange(memory *models.PriceBlock, current UpstreamQuoteSide, now string) models.LastChange {
	if memory == nil {
		return models.LastChange{Quantity: 0, Price: 0, Time: now}
	}

	if memory.Quantity == current.Quantity && memory.Price == current.UnitPrice {
		return memory.LastChange
	}

	return models.LastChange{
		Quantity: current.Quantity - memory.Quantity,
		Price:    current.UnitPrice - memory.Price,
		Time:     now,
	}
}

// cheapestCraftingCost prefers the precursor-free recipe cost when present.
func cheapestCraftingCost(item models.Item) *models.CraftingCost {
	if item.CraftingNoPrecursors != nil {
		return item.CraftingNoPrecursors
	}
	return item.Crafting
}

// Status returns a snapshot of the last completed cycle.
func (t *PriceTracker) Status() PriceTrackerStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return PriceTrackerStatus{
		LastCycleTime: t.lastCycleTime,
		ItemsUpdated:  t.updatedInCycle,
	}
}
