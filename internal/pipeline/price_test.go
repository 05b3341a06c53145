package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoplist/internal"
	"shoplist/internal/util"
)

func testCatalog() []internal.PriceRecord {
	return []internal.PriceRecord{
		{ID: 1, Name: "Carottes", Unit: util.StringPtr("kg"), Price: 2.49},
		{ID: 2, Name: "Carrots", Unit: util.StringPtr("lb"), Price: 1.29},
		{ID: 3, Name: "Lait", Unit: util.StringPtr("L"), Price: 2.10},
		{ID: 4, Name: "Milk", Unit: util.StringPtr("litre"), Price: 1.95},
		{ID: 5, Name: "Green onions bunch", Price: 0.99},
	}
}

func TestPriceMatcherByKey(t *testing.T) {
	m := NewPriceMatcher(0.82, testCatalog())

	items := BuildShoppingList([]string{"1 kg carrots"})
	require.Len(t, items, 1)

	match := m.Match(items[0])
	require.NotNil(t, match)
	assert.Equal(t, PriceReasonKey, match.Reason)
	assert.Equal(t, 1, match.PriceID)
	assert.Equal(t, 2.49, match.Price)
}

func TestPriceMatcherByNameTakesCheapest(t *testing.T) {
	m := NewPriceMatcher(0.82, testCatalog())

	match := m.Match(internal.OrganizedItem{Key: "carrot::", Name: "carrots", Quantity: 3})
	require.NotNil(t, match)
	assert.Equal(t, PriceReasonName, match.Reason)
	assert.Equal(t, 2, match.PriceID)

	milk := m.Match(internal.OrganizedItem{Key: "milk::L", Name: "lait", Unit: "L"})
	require.NotNil(t, milk)
	assert.Equal(t, PriceReasonKey, milk.Reason)
	assert.Equal(t, 4, milk.PriceID)
}

func TestPriceMatcherFuzzyThreshold(t *testing.T) {
	item := internal.OrganizedItem{Key: "green onion::", Name: "green onion"}

	assert.Nil(t, NewPriceMatcher(0.82, testCatalog()).Match(item))

	match := NewPriceMatcher(0.6, testCatalog()).Match(item)
	require.NotNil(t, match)
	assert.Equal(t, PriceReasonFuzzy, match.Reason)
	assert.Equal(t, 5, match.PriceID)
	assert.InDelta(t, 0.656, match.Score, 0.01)
}

func TestEnrichPrices(t *testing.T) {
	m := NewPriceMatcher(0.82, testCatalog())
	items := BuildShoppingList([]string{"1 kg carrots, 1 L lait, 1 mystery powder"})

	matched := m.EnrichPrices(items)
	assert.Equal(t, 2, matched)
	for _, item := range items {
		if item.Category == "other" {
			assert.Nil(t, item.Price)
			continue
		}
		require.NotNil(t, item.Price, item.Key)
	}
}

func TestPriceMatcherEmptyCatalog(t *testing.T) {
	m := NewPriceMatcher(0.82, nil)
	items := BuildShoppingList([]string{"2 tomatoes"})
	assert.Equal(t, 0, m.EnrichPrices(items))
	assert.Nil(t, items[0].Price)
}
