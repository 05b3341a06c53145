package pipeline

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"shoplist/internal"
	"shoplist/internal/util"
)

// DedupKey is the merge key of a shopping-list line.
func DedupKey(name, unit string) string {
	return util.NormalizeIngredientName(name) + "::" + util.NormalizeUnit(unit)
}

// AggregateIngredients merges raw ingredients sharing a normalized name and
// unit, summing their quantities. Display fields come from the first
// occurrence. The result is ordered by aisle, then by name in French collation.
func AggregateIngredients(raw []internal.RawIngredient) []internal.OrganizedItem {
	byKey := make(map[string]int, len(raw))
	out := make([]internal.OrganizedItem, 0, len(raw))

	for _, ing := range raw {
		if strings.TrimSpace(ing.Name) == "" {
			continue
		}
		normalizedName := util.NormalizeIngredientName(ing.Name)
		normalizedUnit := util.NormalizeUnit(ing.Unit)
		key := normalizedName + "::" + normalizedUnit
		qty := ing.Quantity
		if qty <= 0 || math.IsNaN(qty) || math.IsInf(qty, 0) {
			qty = 1
		}

		if idx, ok := byKey[key]; ok {
			out[idx].Quantity = roundQty(out[idx].Quantity + qty)
			continue
		}

		byKey[key] = len(out)
		out = append(out, internal.OrganizedItem{
			Key:       key,
			Name:      ing.Name,
			Quantity:  roundQty(qty),
			Unit:      normalizedUnit,
			Price:     nil,
			Checked:   false,
			AisleInfo: ClassifyIngredient(normalizedName),
		})
	}

	SortItems(out)
	return out
}

// SortItems orders items by aisle sort order, then by name using French
// collation. Equal items keep their relative order.
func SortItems(items []internal.OrganizedItem) {
	col := collate.New(language.French)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].SortOrder != items[j].SortOrder {
			return items[i].SortOrder < items[j].SortOrder
		}
		return col.CompareString(items[i].Name, items[j].Name) < 0
	})
}

// BuildShoppingList parses every summary and aggregates the result.
func BuildShoppingList(summaries []string) []internal.OrganizedItem {
	raw := make([]internal.RawIngredient, 0, len(summaries)*4)
	for _, s := range summaries {
		raw = append(raw, ParseIngredientsSummary(s)...)
	}
	return AggregateIngredients(raw)
}

func roundQty(v float64) float64 {
	return math.Round(v*100) / 100
}
