package pipeline

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"shoplist/internal"
)

func mkXLSX(rows [][]any) []byte {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	buf := bytes.NewBuffer(nil)
	_, _ = f.WriteTo(buf)
	return buf.Bytes()
}

func TestParseXLSXWithColumns(t *testing.T) {
	blob := mkXLSX([][]any{
		{"Liste de la semaine"},
		{"Ingrédients", "Qté", "Unité"},
		{"Farine", 200, "grammes"},
		{"Oeufs", 3},
		{"", 4, "g"},
	})
	entries, err := parseXLSX(blob)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "200 g Farine", entries[0].Summary)
	assert.Equal(t, &internal.RawIngredient{Name: "Farine", Quantity: 200, Unit: "g"}, entries[0].Ingredient)
	assert.Equal(t, 3, entries[0].Meta["rowNumber"])
	assert.Equal(t, &internal.RawIngredient{Name: "Oeufs", Quantity: 3}, entries[1].Ingredient)
}

func TestParseXLSXWithoutHeader(t *testing.T) {
	blob := mkXLSX([][]any{
		{"500 g carottes, 1 L lait"},
		{"sel"},
	})
	entries, err := parseXLSX(blob)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "500 g carottes, 1 L lait", entries[0].Summary)
	assert.Equal(t, 1, entries[0].LineNo)
}

func TestParseXLSXSummaryColumn(t *testing.T) {
	blob := mkXLSX([][]any{
		{"Jour", "Ingredients"},
		{"Lundi", "2 cups flour, 1 tsp salt"},
		{"Mardi", "3 tomatoes"},
	})
	entries, err := parseXLSX(blob)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2 cups flour, 1 tsp salt", entries[0].Summary)
	assert.Nil(t, entries[0].Ingredient)

	items := BuildShoppingListFromEntries(entries)
	require.Len(t, items, 3)
}

func TestParseXLSXInvalid(t *testing.T) {
	_, err := parseXLSX([]byte("not a workbook"))
	assert.Error(t, err)
}
