package services

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/itemforge/catalog-api/internal/models"
)

// MappingError marks an upstream record that carries a type, sub-type or
// rarity code outside the static mapping tables. Callers skip the single
// record instead of failing the whole cycle.
type MappingError struct {
	Field string
	Value string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("no known mapping for %s %q", e.Field, e.Value)
}

// untradableFlags are the upstream binding flags that take an item off the
// trading post. An item is tradable iff it carries none of them.
var untradableFlags = map[string]bool{
	"AccountBound":      true,
	"MonsterOnly":       true,
	"SoulbindOnAcquire": true,
}

var markupPattern = regexp.MustCompile(`<[^>]+>`)

// TransformItem maps one upstream item record into the stored row shape for
// a single locale. Pure: no I/O, deterministic for well-formed input.
func TransformItem(raw UpstreamItem, lang string) (models.Item, error) {
	rarity, ok := models.Rarities[raw.Rarity]
	if !ok {
		return models.Item{}, &MappingError{Field: "rarity", Value: raw.Rarity}
	}

	category, err := TransformCategory(raw.Type, raw.Details)
	if err != nil {
		return models.Item{}, err
	}

	return models.Item{
		ID:          raw.ID,
		Lang:        lang,
		Name:        raw.Name,
		Description: transformDescription(raw.Description),
		Image:       raw.Icon,
		Level:       transformLevel(raw.Level),
		VendorPrice: raw.VendorValue,
		Rarity:      rarity,
		Skin:        transformSkin(raw.DefaultSkin),
		Tradable:    transformTradable(raw.Flags),
		Category:    category,
	}, nil
}

// TransformCategory maps an upstream type/sub-type pair to the two-level
// integer category path: zero, one or two entries.
func TransformCategory(itemType string, details *UpstreamItemDetails) ([]int, error) {
	if itemType == "" {
		return nil, nil
	}

	category, ok := models.Categories[itemType]
	if !ok {
		return nil, &MappingError{Field: "type", Value: itemType}
	}

	ids := []int{category.ID}

	if details != nil && details.Type != "" {
		sub, ok := category.Sub[details.Type]
		if !ok {
			return nil, &MappingError{Field: "subtype", Value: itemType + "/" + details.Type}
		}
		ids = append(ids, sub)
	}

	return ids, nil
}

// transformDescription strips markup spans and normalizes empty to nil.
func transformDescription(description string) *string {
	if description == "" {
		return nil
	}
	stripped := markupPattern.ReplaceAllString(description, "")
	return &stripped
}

// transformLevel maps the upstream "no level" sentinel 0 to nil.
func transformLevel(level int) *int {
	if level == 0 {
		return nil
	}
	return &level
}

func transformSkin(skin int) *int {
	if skin == 0 {
		return nil
	}
	return &skin
}

func transformTradable(flags []string) bool {
	for _, flag := range flags {
		if untradableFlags[flag] {
			return false
		}
	}
	return true
}

// isoDate renders t as ISO 8601 UTC at second precision with the literal
// "+0000" offset suffix. Consumers depend on this exact shape; do not switch
// to the "Z" suffix.
func isoDate(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05") + "+0000"
}

// containsFold reports whether substr occurs in s, ignoring case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
