package pipeline

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"shoplist/internal"
)

const (
	listSheet    = "Liste"
	summarySheet = "Rayons"
)

// ExportListToXLSX writes the shopping list grouped by aisle: a heading row
// per aisle followed by its items, plus a per-aisle summary sheet.
func ExportListToXLSX(items []internal.OrganizedItem, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), listSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	headers := []any{"category", "name", "quantity", "unit", "price", "checked"}
	if err := f.SetSheetRow(listSheet, "A1", &headers); err != nil {
		return err
	}
	_ = f.SetRowStyle(listSheet, 1, 1, bold)

	type aisleTotal struct {
		info  internal.AisleInfo
		count int
		total float64
	}
	totals := []*aisleTotal{}

	row := 2
	currentAisle := ""
	for _, item := range items {
		if item.Aisle != currentAisle || len(totals) == 0 {
			currentAisle = item.Aisle
			totals = append(totals, &aisleTotal{info: item.AisleInfo})
			cell, _ := excelize.CoordinatesToCellName(1, row)
			_ = f.SetCellValue(listSheet, cell, item.Emoji+" "+item.Aisle)
			_ = f.SetRowStyle(listSheet, row, row, bold)
			row++
		}

		values := []any{item.Category, item.Name, item.Quantity, item.Unit, derefFloat(item.Price), item.Checked}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(listSheet, cell, &values); err != nil {
			return err
		}
		row++

		last := totals[len(totals)-1]
		last.count++
		if item.Price != nil {
			last.total += *item.Price
		}
	}

	summaryHeaders := []any{"sortOrder", "aisle", "items", "catalog_total"}
	if err := f.SetSheetRow(summarySheet, "A1", &summaryHeaders); err != nil {
		return err
	}
	_ = f.SetRowStyle(summarySheet, 1, 1, bold)
	for i, t := range totals {
		values := []any{t.info.SortOrder, t.info.Emoji + " " + t.info.Aisle, t.count, roundQty(t.total)}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(summarySheet, cell, &values); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

// ExportListToJSON writes the shopping list as an indented JSON array.
func ExportListToJSON(items []internal.OrganizedItem, outputPath string) error {
	if items == nil {
		items = []internal.OrganizedItem{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outputPath, buf.Bytes(), 0o644)
}

func derefFloat(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
