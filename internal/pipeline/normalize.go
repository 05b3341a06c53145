package pipeline

import (
	"shoplist/internal"
	"shoplist/internal/util"
)

// CollectIngredients flattens extracted summaries into raw ingredients,
// parsing free text and passing structured rows through.
func CollectIngredients(entries []internal.SummaryEntry) []internal.RawIngredient {
	out := make([]internal.RawIngredient, 0, len(entries)*3)
	for _, entry := range entries {
		if entry.Ingredient != nil {
			ing := *entry.Ingredient
			ing.Unit = util.NormalizeUnit(ing.Unit)
			out = append(out, ing)
			continue
		}
		out = append(out, ParseIngredientsSummary(entry.Summary)...)
	}
	return out
}

func BuildShoppingListFromEntries(entries []internal.SummaryEntry) []internal.OrganizedItem {
	return AggregateIngredients(CollectIngredients(entries))
}
