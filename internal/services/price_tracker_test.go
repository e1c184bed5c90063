package services

import (
	"testing"

	"github.com/itemforge/catalog-api/internal/models"
)

func TestNextPriceBlockFirstObservation(t *testing.T) {
	block := nextPriceBlock(nil, UpstreamQuoteSide{Quantity: 10, UnitPrice: 50}, "2024-03-07T15:04:05+0000")

	if block.Quantity != 10 || block.Price != 50 {
		t.Errorf("unexpected block: %+v", block)
	}
	if block.LastChange.Quantity != 0 || block.LastChange.Price != 0 {
		t.Errorf("first observation should have a zero delta, got %+v", block.LastChange)
	}
	if block.LastChange.Time != "2024-03-07T15:04:05+0000" {
		t.Errorf("first observation should stamp the delta, got %q", block.LastChange.Time)
	}
	if block.LastKnown != 50 {
		t.Errorf("last_known = %d, want 50", block.LastKnown)
	}
}

func TestNextPriceBlockUnchangedKeepsLastChange(t *testing.T) {
	memory := &models.PriceBlock{
		Quantity:  10,
		Price:     50,
		LastKnown: 50,
		LastChange: models.LastChange{
			Quantity: 3,
			Price:    -2,
			Time:     "2024-01-01T00:00:00+0000",
		},
	}

	block := nextPriceBlock(memory, UpstreamQuoteSide{Quantity: 10, UnitPrice: 50}, "2024-03-07T15:04:05+0000")

	if block.LastChange != memory.LastChange {
		t.Errorf("unchanged observation must carry last_change forward, got %+v", block.LastChange)
	}

	// Idempotent: applying the same quote again changes nothing
	again := nextPriceBlock(&block, UpstreamQuoteSide{Quantity: 10, UnitPrice: 50}, "2024-03-08T00:00:00+0000")
	if again != block {
		t.Errorf("repeated identical quote should be a no-op, got %+v", again)
	}
}

func TestNextPriceBlockComputesDelta(t *testing.T) {
	memory := &models.PriceBlock{Quantity: 10, Price: 50, LastKnown: 50}

	block := nextPriceBlock(memory, UpstreamQuoteSide{Quantity: 7, UnitPrice: 65}, "2024-03-07T15:04:05+0000")

	if block.LastChange.Quantity != -3 {
		t.Errorf("quantity delta = %d, want -3", block.LastChange.Quantity)
	}
	if block.LastChange.Price != 15 {
		t.Errorf("price delta = %d, want 15", block.LastChange.Price)
	}
	if block.LastChange.Time != "2024-03-07T15:04:05+0000" {
		t.Errorf("changed observation should restamp, got %q", block.LastChange.Time)
	}
}

func TestNextPriceBlockLastKnownNeverRegresses(t *testing.T) {
	tests := []struct {
		name     string
		memory   *models.PriceBlock
		price    int
		expected int
	}{
		{"nonzero price wins", &models.PriceBlock{Price: 50, LastKnown: 40}, 60, 60},
		{"zero falls back to prior price", &models.PriceBlock{Price: 50, LastKnown: 40}, 0, 50},
		{"zero falls back to prior last_known", &models.PriceBlock{Price: 0, LastKnown: 40}, 0, 40},
		{"all zero stays zero", &models.PriceBlock{}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := nextPriceBlock(tt.memory, UpstreamQuoteSide{UnitPrice: tt.price}, "2024-03-07T15:04:05+0000")
			if block.LastKnown != tt.expected {
				t.Errorf("last_known = %d, want %d", block.LastKnown, tt.expected)
			}
		})
	}
}

func TestNextItemPricesCraftingProfit(t *testing.T) {
	item := models.Item{
		ID:       1,
		Tradable: true,
		Crafting: &models.CraftingCost{Buy: 100},
	}
	quote := UpstreamPrice{
		ID:    1,
		Buys:  UpstreamQuoteSide{Quantity: 1, UnitPrice: 90},
		Sells: UpstreamQuoteSide{Quantity: 1, UnitPrice: 200},
	}

	update := NextItemPrices(item, quote, "2024-03-07T15:04:05+0000")

	// round(200 * 0.85 - 100) = 70
	if update.CraftingProfit == nil || *update.CraftingProfit != 70 {
		t.Errorf("crafting profit = %v, want 70", update.CraftingProfit)
	}
	if update.LastUpdate != "2024-03-07T15:04:05+0000" {
		t.Errorf("last_update = %q", update.LastUpdate)
	}
}

func TestNextItemPricesPrefersPrecursorFreeCost(t *testing.T) {
	item := models.Item{
		ID:                   1,
		Tradable:             true,
		Crafting:             &models.CraftingCost{Buy: 500},
		CraftingNoPrecursors: &models.CraftingCost{Buy: 100},
	}
	quote := UpstreamPrice{Sells: UpstreamQuoteSide{UnitPrice: 200}}

	update := NextItemPrices(item, quote, "2024-03-07T15:04:05+0000")

	if update.CraftingProfit == nil || *update.CraftingProfit != 70 {
		t.Errorf("crafting profit = %v, want 70 (precursor-free cost)", update.CraftingProfit)
	}
}

func TestNextItemPricesWithoutCraftingCost(t *testing.T) {
	item := models.Item{ID: 1, Tradable: true}
	quote := UpstreamPrice{Sells: UpstreamQuoteSide{UnitPrice: 200}}

	update := NextItemPrices(item, quote, "2024-03-07T15:04:05+0000")

	if update.CraftingProfit != nil {
		t.Errorf("item without crafting cost should have no profit, got %d", *update.CraftingProfit)
	}
	if update.Buy == nil || update.Sell == nil {
		t.Error("both price blocks should be set")
	}
}

func TestPriceUpdateColumnsSkipProfitWithoutCost(t *testing.T) {
	profit := 70
	tests := []struct {
		name   string
		update models.Item
		want   []string
	}{
		{"with profit", models.Item{CraftingProfit: &profit}, []string{"buy", "sell", "last_update", "crafting_profit"}},
		{"without profit", models.Item{}, []string{"buy", "sell", "last_update"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := priceUpdateColumns(tt.update)
			if len(got) != len(tt.want) {
				t.Fatalf("priceUpdateColumns = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("priceUpdateColumns = %v, want %v", got, tt.want)
				}
			}
		})
	}
}
