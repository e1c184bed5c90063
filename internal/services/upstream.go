package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	defaultUpstreamBaseURL = "https://api.guildwars2.com/v2"

	// maxPageSize is the largest page the upstream catalog listing serves.
	maxPageSize = 200

	// pageTotalHeader carries the page count on paged listings.
	pageTotalHeader = "X-Page-Total"
)

// UpstreamItem is one raw catalog record as served by the upstream API.
type UpstreamItem struct {
	ID          int                  `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Icon        string               `json:"icon"`
	Level       int                  `json:"level"`
	VendorValue int                  `json:"vendor_value"`
	Rarity      string               `json:"rarity"`
	DefaultSkin int                  `json:"default_skin"`
	Flags       []string             `json:"flags"`
	Type        string               `json:"type"`
	Details     *UpstreamItemDetails `json:"details"`
}

type UpstreamItemDetails struct {
	Type string `json:"type"`
}

// UpstreamQuoteSide is one side of a current price quote.
type UpstreamQuoteSide struct {
	Quantity  int `json:"quantity"`
	UnitPrice int `json:"unit_price"`
}

// UpstreamPrice is the current trading post quote for one item.
type UpstreamPrice struct {
	ID    int               `json:"id"`
	Buys  UpstreamQuoteSide `json:"buys"`
	Sells UpstreamQuoteSide `json:"sells"`
}

// UpstreamSkin is one entry of the upstream skin listing.
type UpstreamSkin struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// UpstreamClient talks to the upstream catalog, commerce and skin APIs.
// All listing endpoints are paged the same way: page/page_size parameters
// and an X-Page-Total response header.
type UpstreamClient struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

func NewUpstreamClient(baseURL string) *UpstreamClient {
	if baseURL == "" {
		baseURL = defaultUpstreamBaseURL
	}
	return &UpstreamClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		// The upstream API allows bursts but throttles sustained load
		limiter: rate.NewLimiter(rate.Limit(10), 20),
	}
}

// ItemPageCount probes the item listing for one locale and returns the
// number of pages at the maximum page size.
func (c *UpstreamClient) ItemPageCount(ctx context.Context, lang string) (int, error) {
	reqURL := fmt.Sprintf("%s/items?lang=%s&page=0&page_size=%d", c.baseURL, lang, maxPageSize)

	var items []UpstreamItem
	header, err := c.getJSON(ctx, reqURL, &items)
	if err != nil {
		return 0, err
	}

	pages, err := strconv.Atoi(header.Get(pageTotalHeader))
	if err != nil {
		return 0, fmt.Errorf("upstream item listing: bad %s header: %w", pageTotalHeader, err)
	}
	return pages, nil
}

// ItemsPage fetches one page of the item listing for a locale.
func (c *UpstreamClient) ItemsPage(ctx context.Context, lang string, page int) ([]UpstreamItem, error) {
	reqURL := fmt.Sprintf("%s/items?lang=%s&page=%d&page_size=%d", c.baseURL, lang, page, maxPageSize)

	var items []UpstreamItem
	if _, err := c.getJSON(ctx, reqURL, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AllItems fetches the complete item listing for a locale. The first page
// yields the page count, the remaining pages are fetched concurrently.
func (c *UpstreamClient) AllItems(ctx context.Context, lang string) ([]UpstreamItem, error) {
	reqURL := fmt.Sprintf("%s/items?lang=%s&page=0&page_size=%d", c.baseURL, lang, maxPageSize)

	var first []UpstreamItem
	header, err := c.getJSON(ctx, reqURL, &first)
	if err != nil {
		return nil, err
	}

	pages, err := strconv.Atoi(header.Get(pageTotalHeader))
	if err != nil {
		return nil, fmt.Errorf("upstream item listing: bad %s header: %w", pageTotalHeader, err)
	}
	if pages < 1 {
		return first, nil
	}

	pageItems := make([][]UpstreamItem, pages)
	pageItems[0] = first

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for page := 1; page < pages; page++ {
		g.Go(func() error {
			items, err := c.ItemsPage(gctx, lang, page)
			if err != nil {
				return err
			}
			pageItems[page] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := make([]UpstreamItem, 0, pages*maxPageSize)
	for _, items := range pageItems {
		all = append(all, items...)
	}
	return all, nil
}

// AllPrices fetches the complete current price listing.
func (c *UpstreamClient) AllPrices(ctx context.Context) ([]UpstreamPrice, error) {
	return fetchAllPages[UpstreamPrice](ctx, c, "/commerce/prices")
}

// AllSkins fetches the complete skin listing.
func (c *UpstreamClient) AllSkins(ctx context.Context) ([]UpstreamSkin, error) {
	return fetchAllPages[UpstreamSkin](ctx, c, "/skins")
}

// fetchAllPages walks a paged listing endpoint to the end.
func fetchAllPages[T any](ctx context.Context, c *UpstreamClient, path string) ([]T, error) {
	var all []T
	for page := 0; ; page++ {
		reqURL := fmt.Sprintf("%s%s?page=%d&page_size=%d", c.baseURL, path, page, maxPageSize)

		var batch []T
		header, err := c.getJSON(ctx, reqURL, &batch)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)

		pages, err := strconv.Atoi(header.Get(pageTotalHeader))
		if err != nil {
			return nil, fmt.Errorf("upstream listing %s: bad %s header: %w", path, pageTotalHeader, err)
		}
		if page >= pages-1 {
			return all, nil
		}
	}
}

func (c *UpstreamClient) getJSON(ctx context.Context, reqURL string, out any) (http.Header, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, fmt.Errorf("failed to decode upstream response: %w", err)
	}
	return resp.Header, nil
}
