package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoplist/internal"
	"shoplist/internal/util"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestPricesUpsertAndList(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.UpsertPrices([]internal.PriceRecord{
		{ID: 2, Name: "Lait", Unit: util.StringPtr("L"), Price: 1.99, RawJSON: "{}"},
		{ID: 1, Name: "Carottes", Price: 2.49, RawJSON: "{}"},
	}))
	require.NoError(t, db.UpsertPrices([]internal.PriceRecord{
		{ID: 1, Name: "Carottes", Unit: util.StringPtr("kg"), Price: 2.29, RawJSON: "{}"},
	}))

	prices, err := db.ListPrices()
	require.NoError(t, err)
	require.Len(t, prices, 2)
	assert.Equal(t, 1, prices[0].ID)
	assert.Equal(t, 2.29, prices[0].Price)
	require.NotNil(t, prices[0].Unit)
	assert.Equal(t, "kg", *prices[0].Unit)
	assert.Nil(t, prices[1].Store)
}

func TestPlanLifecycle(t *testing.T) {
	db := openTestDB(t)

	plan, err := db.UpsertPlan("imap", "42", "Menu", "chef@example.com", "2026-01-05T10:00:00Z", "h1", "/raw/42.eml", PlanStatusFetched)
	require.NoError(t, err)
	assert.Equal(t, PlanStatusFetched, plan.Status)

	require.NoError(t, db.UpdatePlanStatus(plan.ID, PlanStatusProcessed))
	again, err := db.UpsertPlan("imap", "42", "Menu v2", "chef@example.com", "2026-01-05T10:00:00Z", "h2", "/raw/42.eml", PlanStatusFetched)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, again.ID)
	assert.Equal(t, "Menu v2", again.Subject)
	assert.Equal(t, PlanStatusProcessed, again.Status)

	pending, err := db.ListPlansByStatus(PlanStatusFetched, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	missing, err := db.GetPlanByProviderMessageID("imap", "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
	_, err = db.MustPlanByProviderMessageID("imap", "nope")
	assert.Error(t, err)

	byID, err := db.GetPlanByID(plan.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "42", byID.MessageID)
}

func TestReplaceListItemsKeepsCheckedState(t *testing.T) {
	db := openTestDB(t)
	plan, err := db.UpsertPlan("file", "p1", "", "", "", "h", "/raw/p1", PlanStatusFetched)
	require.NoError(t, err)

	first := []internal.OrganizedItem{
		{Key: "carrot::", Name: "carrots", Quantity: 3, AisleInfo: internal.AisleInfo{Aisle: "Fruits & Légumes", Category: "produce", Emoji: "🥬", SortOrder: 1}},
		{Key: "milk::L", Name: "lait", Quantity: 1, Unit: "L", AisleInfo: internal.AisleInfo{Aisle: "Produits Laitiers & Œufs", Category: "dairy", Emoji: "🥛", SortOrder: 3}},
	}
	require.NoError(t, db.ReplaceListItems(plan.ID, first))
	require.NoError(t, db.SetItemChecked(plan.ID, "milk::L", true))
	assert.Error(t, db.SetItemChecked(plan.ID, "ghost::", true))

	price := 1.99
	second := []internal.OrganizedItem{
		{Key: "milk::L", Name: "lait", Quantity: 2, Unit: "L", Price: &price, AisleInfo: first[1].AisleInfo},
		{Key: "salt::", Name: "salt", Quantity: 1, AisleInfo: internal.AisleInfo{Aisle: "Épices & Assaisonnements", Category: "spices", Emoji: "🧂", SortOrder: 8}},
	}
	require.NoError(t, db.ReplaceListItems(plan.ID, second))

	items, err := db.GetListItems(plan.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "milk::L", items[0].Key)
	assert.True(t, items[0].Checked)
	assert.Equal(t, 2.0, items[0].Quantity)
	require.NotNil(t, items[0].Price)
	assert.Equal(t, 1.99, *items[0].Price)
	assert.False(t, items[1].Checked)
	assert.Nil(t, items[1].Price)
}

func TestSummariesAndRuns(t *testing.T) {
	db := openTestDB(t)
	plan, err := db.UpsertPlan("file", "p2", "", "", "", "h", "/raw/p2", PlanStatusFetched)
	require.NoError(t, err)

	entries := []internal.SummaryEntry{
		{LineNo: 1, Source: internal.SourceEmailText, Summary: "2 carrots, 1 onion", Meta: map[string]any{"label": "Lundi"}},
		{LineNo: 2, Source: internal.SourceEmailText, Summary: "salt"},
	}
	require.NoError(t, db.ReplaceSummaries(plan.ID, entries))
	require.NoError(t, db.ReplaceSummaries(plan.ID, entries[:1]))

	stored, err := db.ListSummaries(plan.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Lundi", stored[0].Meta["label"])

	require.NoError(t, db.InsertRun("trace-1", plan.ID, map[string]float64{"extract": 1.5}, map[string]int{"items": 2}))
	n, err := db.CountRuns(plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMetadata(t *testing.T) {
	db := openTestDB(t)

	value, err := db.GetMetadata("k")
	require.NoError(t, err)
	assert.Nil(t, value)

	require.NoError(t, db.SetMetadata("k", "v1"))
	require.NoError(t, db.SetMetadata("k", "v2"))
	value, err = db.GetMetadata("k")
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.Equal(t, "v2", *value)
}
