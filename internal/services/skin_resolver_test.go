package services

import (
	"reflect"
	"testing"

	"github.com/itemforge/catalog-api/internal/models"
)

func skinTestItems() []models.Item {
	one := 1
	return []models.Item{
		{ID: 1, Name: "Foo", Skin: &one},
		{ID: 2, Name: "Bar"},
		{ID: 3, Name: "Bar"},
		{ID: 4, Name: "Some Skin"},
		{ID: 5, Name: "Something about cake"},
	}
}

func TestResolveSkin(t *testing.T) {
	items := skinTestItems()

	tests := []struct {
		name     string
		skin     UpstreamSkin
		expected []int
	}{
		{"explicit skin marker", UpstreamSkin{ID: 1, Name: "Foo"}, []int{1}},
		{"name containment, multiple items", UpstreamSkin{ID: 2, Name: "Bar"}, []int{2, 3}},
		{"partial name containment", UpstreamSkin{ID: 3, Name: "Some"}, []int{4}},
		{"containment mid-name", UpstreamSkin{ID: 4, Name: "cake"}, []int{5}},
		{"no match", UpstreamSkin{ID: 5, Name: "herp"}, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveSkin(tt.skin, items)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ResolveSkin(%+v) = %v, want %v", tt.skin, got, tt.expected)
			}
		})
	}
}

func TestResolveSkinIsCaseSensitive(t *testing.T) {
	items := []models.Item{{ID: 1, Name: "foo bar"}}
	if got := ResolveSkin(UpstreamSkin{ID: 1, Name: "Foo"}, items); len(got) != 0 {
		t.Errorf("containment should be case sensitive, got %v", got)
	}
}

func TestResolveSkinRequiresWordBoundaries(t *testing.T) {
	items := []models.Item{
		{ID: 1, Name: "Something about cake"},
		{ID: 2, Name: "Some Skin"},
	}
	// "Some" is a word of "Some Skin" but only a prefix inside "Something"
	got := ResolveSkin(UpstreamSkin{ID: 1, Name: "Some"}, items)
	if !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("ResolveSkin = %v, want [2]", got)
	}
}

func TestResolveSkinPreservesItemOrder(t *testing.T) {
	items := []models.Item{
		{ID: 9, Name: "Bar Cloak"},
		{ID: 2, Name: "Bar Boots"},
		{ID: 5, Name: "Bar Helm"},
	}
	got := ResolveSkin(UpstreamSkin{ID: 1, Name: "Bar"}, items)
	if !reflect.DeepEqual(got, []int{9, 2, 5}) {
		t.Errorf("order should follow the candidate list, got %v", got)
	}
}

func TestSkinPrices(t *testing.T) {
	items := []models.Item{
		{ID: 1, Tradable: true, Sell: &models.PriceBlock{Price: 300}, Buy: &models.PriceBlock{Price: 250}},
		{ID: 2, Tradable: true, Sell: &models.PriceBlock{Price: 0, LastKnown: 120}, Buy: &models.PriceBlock{Price: 100}},
		{ID: 3, Tradable: false, Sell: &models.PriceBlock{Price: 5}},
		{ID: 4, Tradable: true},
	}
	index := map[int][]int{
		1: {1, 2}, // cheapest priced item wins: buy fallback of item 2
		2: {3},    // untradable only
		3: {4},    // no price data
		4: {},     // no items at all
	}

	prices := skinPrices(index, items)

	if got := prices[1]; got != 100 {
		t.Errorf("skin 1 price = %d, want 100", got)
	}
	if _, ok := prices[2]; ok {
		t.Error("skin with only untradable items should be omitted")
	}
	if _, ok := prices[3]; ok {
		t.Error("skin with unpriced items should be omitted")
	}
	if _, ok := prices[4]; ok {
		t.Error("skin with no items should be omitted")
	}
}

func TestEffectivePrice(t *testing.T) {
	tests := []struct {
		name     string
		item     models.Item
		expected int
	}{
		{"sell price preferred", models.Item{Sell: &models.PriceBlock{Price: 30}, Buy: &models.PriceBlock{Price: 50}}, 30},
		{"buy fallback", models.Item{Sell: &models.PriceBlock{Price: 0}, Buy: &models.PriceBlock{Price: 50}}, 50},
		{"last known fallback", models.Item{Sell: &models.PriceBlock{Price: 0, LastKnown: 12}}, 12},
		{"no data", models.Item{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := effectivePrice(tt.item); got != tt.expected {
				t.Errorf("effectivePrice = %d, want %d", got, tt.expected)
			}
		})
	}
}
