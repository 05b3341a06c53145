package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shoplist/internal"
)

func TestClassifyIngredient(t *testing.T) {
	cases := []struct {
		name  string
		aisle string
		order int
	}{
		{name: "tomato", aisle: "Fruits & Légumes", order: 1},
		{name: "  Bell Pepper ", aisle: "Fruits & Légumes", order: 1},
		{name: "ground beef", aisle: "Viandes & Poissons", order: 2},
		{name: "egg", aisle: "Produits Laitiers & Œufs", order: 3},
		{name: "baguette", aisle: "Boulangerie & Pains", order: 4},
		{name: "flour", aisle: "Épicerie & Céréales", order: 5},
		{name: "black beans", aisle: "Conserves & Légumineuses", order: 6},
		{name: "olive oil", aisle: "Huiles, Sauces & Condiments", order: 7},
		{name: "cinnamon", aisle: "Épices & Assaisonnements", order: 8},
		{name: "frozen peas", aisle: "Produits Surgelés", order: 9},
		{name: "sparkling water", aisle: "Boissons", order: 10},
		{name: "almond", aisle: "Collations & Noix", order: 11},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyIngredient(tc.name)
			assert.Equal(t, tc.aisle, got.Aisle)
			assert.Equal(t, tc.order, got.SortOrder)
		})
	}
}

func TestClassifyIngredientScenarios(t *testing.T) {
	assert.Equal(t, internal.AisleInfo{Aisle: "Viandes & Poissons", Category: "meat", Emoji: "🥩", SortOrder: 2}, ClassifyIngredient("chicken breast"))
	assert.Equal(t, internal.AisleInfo{Aisle: "Autres", Category: "other", Emoji: "🛒", SortOrder: 99}, ClassifyIngredient("unknown substance"))
	assert.Equal(t, "other", ClassifyIngredient("").Category)
}

func TestClassifyIngredientFirstRuleWins(t *testing.T) {
	// "cream" is a dairy keyword and dairy is scanned before frozen goods.
	assert.Equal(t, "dairy", ClassifyIngredient("ice cream").Category)
	// substring match: "pepperoni" contains "pepper" but meat is scanned first.
	assert.Equal(t, "meat", ClassifyIngredient("pepperoni").Category)
	assert.Equal(t, "dairy", ClassifyIngredient("coconut milk").Category)
}

func TestAisleRulesAreOrdered(t *testing.T) {
	assert.Len(t, aisleRules, 11)
	for i, rule := range aisleRules {
		assert.Equal(t, i+1, rule.info.SortOrder)
		assert.NotEmpty(t, rule.keywords)
	}
	assert.Equal(t, 99, otherAisle.SortOrder)
}
