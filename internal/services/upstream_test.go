package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

// pagedItemServer serves a fixed item set across the given number of pages.
func pagedItemServer(t *testing.T, pages int, perPage int) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page >= pages {
			http.Error(w, "page out of range", http.StatusBadRequest)
			return
		}

		items := make([]UpstreamItem, perPage)
		for i := range items {
			items[i] = UpstreamItem{ID: page*perPage + i + 1, Name: "Item", Rarity: "Basic"}
		}

		w.Header().Set(pageTotalHeader, strconv.Itoa(pages))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(items)
	}))
}

func TestItemPageCount(t *testing.T) {
	srv := pagedItemServer(t, 7, 1)
	defer srv.Close()

	c := NewUpstreamClient(srv.URL)
	pages, err := c.ItemPageCount(context.Background(), "en")
	if err != nil {
		t.Fatalf("ItemPageCount failed: %v", err)
	}
	if pages != 7 {
		t.Errorf("ItemPageCount = %d, want 7", pages)
	}
}

func TestAllItemsAssemblesPagesInOrder(t *testing.T) {
	srv := pagedItemServer(t, 3, 2)
	defer srv.Close()

	c := NewUpstreamClient(srv.URL)
	items, err := c.AllItems(context.Background(), "en")
	if err != nil {
		t.Fatalf("AllItems failed: %v", err)
	}

	if len(items) != 6 {
		t.Fatalf("AllItems returned %d items, want 6", len(items))
	}
	for i, item := range items {
		if item.ID != i+1 {
			t.Errorf("item %d has id %d, pages out of order", i, item.ID)
		}
	}
}

func TestAllItemsEmptyListing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(pageTotalHeader, "0")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := NewUpstreamClient(srv.URL)
	items, err := c.AllItems(context.Background(), "en")
	if err != nil {
		t.Fatalf("AllItems failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("AllItems = %v, want empty", items)
	}
}

func TestAllPricesBadPageTotalHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]UpstreamPrice{{ID: 1}})
	}))
	defer srv.Close()

	c := NewUpstreamClient(srv.URL)
	if _, err := c.AllPrices(context.Background()); err == nil {
		t.Error("missing page total header should surface as an error")
	}
}

func TestUpstreamErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewUpstreamClient(srv.URL)
	if _, err := c.AllPrices(context.Background()); err == nil {
		t.Error("5xx response should surface as an error")
	}
}

func TestAllPricesWalksPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		prices := []UpstreamPrice{{ID: page + 1}}

		w.Header().Set(pageTotalHeader, "2")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(prices)
	}))
	defer srv.Close()

	c := NewUpstreamClient(srv.URL)
	prices, err := c.AllPrices(context.Background())
	if err != nil {
		t.Fatalf("AllPrices failed: %v", err)
	}
	if len(prices) != 2 || prices[0].ID != 1 || prices[1].ID != 2 {
		t.Errorf("AllPrices = %v, want ids [1 2]", prices)
	}
}
