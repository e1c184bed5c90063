package services

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"gorm.io/gorm"

	"github.com/itemforge/catalog-api/internal/metrics"
	"github.com/itemforge/catalog-api/internal/models"
)

const (
	// snapshotTTL bounds how stale a served read view may be.
	snapshotTTL = time.Minute

	// autocompleteMinLength is the shortest query autocomplete answers.
	autocompleteMinLength = 3

	// autocompleteLimit caps the number of ranked matches returned.
	autocompleteLimit = 20
)

// QueryOptions are the filters of the query operation. Nil name filters and
// empty sets are skipped, matching parameter absence.
type QueryOptions struct {
	Categories  [][]int
	Rarities    []int
	Craftable   bool
	ExcludeName *string
	IncludeName *string
}

// PriceStats summarizes one side's prices. Avg is rounded to the nearest
// integer. A summary over zero items is all zeroes.
type PriceStats struct {
	Min int `json:"min"`
	Avg int `json:"avg"`
	Max int `json:"max"`
}

// QueryPrices is the "prices" output mode of the query operation.
type QueryPrices struct {
	Buy  PriceStats `json:"buy"`
	Sell PriceStats `json:"sell"`
}

// ItemQuery serves the read side of the catalog from per-locale in-memory
// snapshots. Snapshots are read through from the store and cached briefly;
// reads never mutate the store and observe a point-in-time view.
type ItemQuery struct {
	db        *gorm.DB
	snapshots *expirable.LRU[string, []models.Item]
}

func NewItemQuery(db *gorm.DB) *ItemQuery {
	return &ItemQuery{
		db:        db,
		snapshots: expirable.NewLRU[string, []models.Item](len(models.Languages), nil, snapshotTTL),
	}
}

// snapshot returns the locale's items ordered by id, from cache when fresh.
func (q *ItemQuery) snapshot(lang string) ([]models.Item, error) {
	lang = models.ResolveLanguage(lang)

	if items, ok := q.snapshots.Get(lang); ok {
		metrics.SnapshotCacheHits.Inc()
		return items, nil
	}
	metrics.SnapshotCacheMisses.Inc()

	var items []models.Item
	err := q.db.Where("lang = ?", lang).Order("id").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load item snapshot for %s: %w", lang, err)
	}

	q.snapshots.Add(lang, items)
	return items, nil
}

// ByID returns the locale row of one item, or nil when unknown.
func (q *ItemQuery) ByID(id int, lang string) (*models.Item, error) {
	items, err := q.snapshot(lang)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, nil
}

// ByIDs returns the locale rows of the given ids, in store order.
func (q *ItemQuery) ByIDs(ids []int, lang string) ([]models.Item, error) {
	items, err := q.snapshot(lang)
	if err != nil {
		return nil, err
	}

	wanted := make(map[int]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	matches := []models.Item{}
	for _, item := range items {
		if wanted[item.ID] {
			matches = append(matches, item)
		}
	}
	return matches, nil
}

// AllTradable returns every tradable item of the locale.
func (q *ItemQuery) AllTradable(lang string) ([]models.Item, error) {
	items, err := q.snapshot(lang)
	if err != nil {
		return nil, err
	}

	matches := []models.Item{}
	for _, item := range items {
		if item.Tradable {
			matches = append(matches, item)
		}
	}
	return matches, nil
}

// AllPrices returns, per item with both a buy and a sell block, the higher
// of the two prices.
func (q *ItemQuery) AllPrices() ([]models.ItemPrice, error) {
	items, err := q.snapshot("en")
	if err != nil {
		return nil, err
	}

	prices := []models.ItemPrice{}
	for _, item := range items {
		if item.Buy == nil || item.Sell == nil {
			continue
		}
		prices = append(prices, models.ItemPrice{
			ID:    item.ID,
			Price: max(item.Buy.Price, item.Sell.Price),
		})
	}
	return prices, nil
}

// ByName returns the items whose display name matches one of the candidate
// names, compared case-insensitively.
func (q *ItemQuery) ByName(names []string, lang string) ([]models.Item, error) {
	items, err := q.snapshot(lang)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[strings.ToLower(name)] = true
	}

	matches := []models.Item{}
	for _, item := range items {
		if wanted[strings.ToLower(item.Name)] {
			matches = append(matches, item)
		}
	}
	return matches, nil
}

// BySkin returns the ids of the items carrying the given skin id.
func (q *ItemQuery) BySkin(skinID int) ([]int, error) {
	items, err := q.snapshot("en")
	if err != nil {
		return nil, err
	}

	ids := []int{}
	for _, item := range items {
		if item.Skin != nil && *item.Skin == skinID {
			ids = append(ids, item.ID)
		}
	}
	return ids, nil
}

// Query returns the locale items matching every given filter, in store
// order. Output shaping (ids vs. price summary) is the caller's concern.
func (q *ItemQuery) Query(lang string, opts QueryOptions) ([]models.Item, error) {
	items, err := q.snapshot(lang)
	if err != nil {
		return nil, err
	}

	if len(opts.Categories) > 0 {
		items = filterByCategories(items, opts.Categories)
	}

	if len(opts.Rarities) > 0 {
		allowed := make(map[int]bool, len(opts.Rarities))
		for _, r := range opts.Rarities {
			allowed[r] = true
		}
		items = filterItems(items, func(i models.Item) bool { return allowed[i.Rarity] })
	}

	if opts.Craftable {
		items = filterItems(items, func(i models.Item) bool { return i.Craftable })
	}

	if opts.ExcludeName != nil {
		exclude := *opts.ExcludeName
		items = filterItems(items, func(i models.Item) bool { return !containsFold(i.Name, exclude) })
	}

	if opts.IncludeName != nil {
		include := *opts.IncludeName
		items = filterItems(items, func(i models.Item) bool { return containsFold(i.Name, include) })
	}

	return items, nil
}

// Autocomplete returns up to 20 items whose name contains the query,
// best matches first. Queries under 3 characters return nothing. The
// relative order of equally ranked matches is unspecified.
func (q *ItemQuery) Autocomplete(query, lang string, craftableOnly bool) ([]models.Item, error) {
	if len(query) < autocompleteMinLength {
		return []models.Item{}, nil
	}

	items, err := q.snapshot(lang)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)

	matches := []models.Item{}
	for _, item := range items {
		if craftableOnly && !item.Craftable {
			continue
		}
		if strings.Contains(strings.ToLower(item.Name), query) {
			matches = append(matches, item)
		}
	}

	sort.Slice(matches, func(a, b int) bool {
		return matchQuality(strings.ToLower(matches[a].Name), query) <
			matchQuality(strings.ToLower(matches[b].Name), query)
	})

	if len(matches) > autocompleteLimit {
		matches = matches[:autocompleteLimit]
	}
	return matches, nil
}

// matchQuality ranks how well query matches target: 0 for an exact match,
// otherwise one more than the first occurrence index. Lower is better.
func matchQuality(target, query string) int {
	if target == query {
		return 0
	}
	return 1 + strings.Index(target, query)
}

// PriceSummary aggregates buy and sell statistics over the tradable subset
// of the given items, each side computed over the items carrying that side.
func PriceSummary(items []models.Item) QueryPrices {
	buy := []int{}
	sell := []int{}
	for _, item := range items {
		if !item.Tradable {
			continue
		}
		if item.Buy != nil {
			buy = append(buy, item.Buy.Price)
		}
		if item.Sell != nil {
			sell = append(sell, item.Sell.Price)
		}
	}

	return QueryPrices{
		Buy:  priceStats(buy),
		Sell: priceStats(sell),
	}
}

func priceStats(values []int) PriceStats {
	if len(values) == 0 {
		return PriceStats{}
	}

	stats := PriceStats{Min: values[0], Max: values[0]}
	sum := 0
	for _, v := range values {
		sum += v
		stats.Min = min(stats.Min, v)
		stats.Max = max(stats.Max, v)
	}
	stats.Avg = int(math.Round(float64(sum) / float64(len(values))))
	return stats
}

// filterByCategories keeps the items whose top-level category is requested
// and, when the requesting path names a second level, whose second level is
// allowed for that specific top level.
func filterByCategories(items []models.Item, categories [][]int) []models.Item {
	topLevel := make(map[int]bool)
	secondLevel := make(map[int]map[int]bool)

	for _, path := range categories {
		if len(path) == 0 {
			continue
		}
		topLevel[path[0]] = true
		if len(path) > 1 {
			if secondLevel[path[0]] == nil {
				secondLevel[path[0]] = make(map[int]bool)
			}
			secondLevel[path[0]][path[1]] = true
		}
	}

	matches := []models.Item{}
	for _, item := range items {
		if len(item.Category) == 0 || !topLevel[item.Category[0]] {
			continue
		}

		// Second-level sets constrain only their own top level
		if allowed, ok := secondLevel[item.Category[0]]; ok {
			if len(item.Category) < 2 || !allowed[item.Category[1]] {
				continue
			}
		}

		matches = append(matches, item)
	}
	return matches
}

func filterItems(items []models.Item, keep func(models.Item) bool) []models.Item {
	matches := []models.Item{}
	for _, item := range items {
		if keep(item) {
			matches = append(matches, item)
		}
	}
	return matches
}
