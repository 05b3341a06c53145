package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"shoplist/internal"
	"shoplist/internal/config"
	"shoplist/internal/storage"
	"shoplist/internal/util"
)

func setupPlan(t *testing.T) (*storage.DB, internal.PlanRow, string) {
	t.Helper()
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.UpsertPrices([]internal.PriceRecord{
		{ID: 100, Name: "Carottes", Unit: util.StringPtr("kg"), Price: 2.49, RawJSON: `{}`},
		{ID: 101, Name: "Lait", Unit: util.StringPtr("L"), Price: 1.99, RawJSON: `{}`},
	}))

	rawBlob, err := os.ReadFile(filepath.Join("testdata", "sample_plan.eml"))
	require.NoError(t, err)
	rawPath := filepath.Join(tmp, "fixture.eml")
	require.NoError(t, os.WriteFile(rawPath, rawBlob, 0o644))

	plan, err := db.UpsertPlan("imap", "<plan-3@example.com>", "Plan de repas - semaine 3", "chef@example.com", "2026-01-12T13:30:00Z", "hash", rawPath, storage.PlanStatusFetched)
	require.NoError(t, err)
	return db, plan, tmp
}

func TestSmokeEmailToShoppingList(t *testing.T) {
	db, plan, tmp := setupPlan(t)

	cfg, _ := config.Load()
	proc := NewProcessingService(db, cfg, zap.NewNop())
	res, err := proc.ProcessPlan(plan)
	require.NoError(t, err)
	assert.Equal(t, storage.PlanStatusProcessed, res.Status)
	assert.Equal(t, 5, res.Items)
	assert.Equal(t, 2, res.Priced)
	assert.NotEmpty(t, res.TraceID)

	items, err := db.GetListItems(plan.ID)
	require.NoError(t, err)
	keys := make([]string, 0, len(items))
	for _, item := range items {
		keys = append(keys, item.Key)
	}
	assert.Equal(t, []string{"basilic::botte", "carrot::g", "milk::L", "olive oil::c. à s.", "sel et poivre::"}, keys)
	assert.Equal(t, 800.0, items[1].Quantity)
	require.NotNil(t, items[1].Price)
	assert.Equal(t, 2.49, *items[1].Price)

	require.NoError(t, db.SetItemChecked(plan.ID, "carrot::g", true))
	_, err = proc.ProcessByProviderMessageID(plan.Provider, plan.MessageID)
	require.NoError(t, err)

	items, err = db.GetListItems(plan.ID)
	require.NoError(t, err)
	assert.True(t, items[1].Checked)
	assert.False(t, items[0].Checked)

	runs, err := db.CountRuns(plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, runs)

	out := filepath.Join(tmp, "out", "list.xlsx")
	require.NoError(t, ExportListToXLSX(items, out))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(listSheet)
	require.NoError(t, err)
	// header, then one heading row per aisle and one row per item
	assert.Len(t, rows, 1+4+5)
	assert.Equal(t, "category", rows[0][0])
	assert.Equal(t, "🥬 Fruits & Légumes", rows[1][0])
	assert.Equal(t, []string{"produce", "basilic"}, rows[2][:2])
	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	assert.Len(t, summary, 5)
}

func TestProcessSkipsNonPlan(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	require.NoError(t, err)
	defer db.Close()

	raw := "From: billing@example.com\r\nSubject: Invoice 2026-01\r\nContent-Type: text/plain\r\n\r\nYour bill of 20 dollars is due, thanks.\r\n"
	rawPath := filepath.Join(tmp, "invoice.eml")
	require.NoError(t, os.WriteFile(rawPath, []byte(raw), 0o644))

	plan, err := db.UpsertPlan("imap", "inv-1", "Invoice 2026-01", "billing@example.com", "", "h", rawPath, storage.PlanStatusFetched)
	require.NoError(t, err)

	cfg, _ := config.Load()
	processed, lines, err := NewProcessingService(db, cfg, nil).ProcessPending(10, "")
	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	assert.Equal(t, 0, lines)

	stored, err := db.GetPlanByID(plan.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.PlanStatusSkipped, stored.Status)
	items, err := db.GetListItems(plan.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestProcessPendingContinuesPastUnreadablePlan(t *testing.T) {
	db, plan, tmp := setupPlan(t)

	lost, err := db.UpsertPlan("imap", "<lost-1@example.com>", "Plan de repas - semaine 1", "chef@example.com", "2020-01-06T08:00:00Z", "h0", filepath.Join(tmp, "missing.eml"), storage.PlanStatusFetched)
	require.NoError(t, err)

	cfg, _ := config.Load()
	processed, lines, err := NewProcessingService(db, cfg, zap.NewNop()).ProcessPending(20, "")
	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	assert.Equal(t, 5, lines)

	stored, err := db.GetPlanByID(lost.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.PlanStatusFailed, stored.Status)
	stored, err = db.GetPlanByID(plan.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.PlanStatusProcessed, stored.Status)

	// the failed plan is no longer picked up
	pending, err := db.ListPlansByStatus(storage.PlanStatusFetched, 20)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestExtractSummariesFromInput(t *testing.T) {
	entries, err := ExtractSummariesFromInput("eml", filepath.Join("testdata", "sample_plan.eml"))
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, internal.SourceEmailText, entries[0].Source)

	items := BuildShoppingListFromEntries(entries)
	out := filepath.Join(t.TempDir(), "list.json")
	require.NoError(t, ExportListToJSON(items, out))
	blob, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(blob), `"aisle": "Fruits & Légumes"`)

	_, err = ExtractSummariesFromInput("docx", filepath.Join("testdata", "sample_plan.eml"))
	assert.Error(t, err)
}
