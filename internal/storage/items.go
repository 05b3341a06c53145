package storage

import (
	"fmt"

	"shoplist/internal"
)

// ReplaceListItems stores the plan's shopping list in one transaction. Items
// whose key was already checked off stay checked.
func (d *DB) ReplaceListItems(planID int, items []internal.OrganizedItem) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	checked := map[string]bool{}
	rows, err := tx.Query(`SELECT itemKey FROM list_items WHERE planId = ? AND checked = 1`, planID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			_ = rows.Close()
			return err
		}
		checked[key] = true
	}
	if err := rows.Close(); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM list_items WHERE planId = ?`, planID); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
INSERT INTO list_items (planId, itemKey, position, name, quantity, unit, aisle, category, emoji, sortOrder, price, checked)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, item := range items {
		if _, err := stmt.Exec(
			planID, item.Key, i, item.Name, item.Quantity, item.Unit,
			item.Aisle, item.Category, item.Emoji, item.SortOrder, item.Price,
			item.Checked || checked[item.Key],
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) GetListItems(planID int) ([]internal.OrganizedItem, error) {
	rows, err := d.conn.Query(`
SELECT itemKey, name, quantity, unit, aisle, category, emoji, sortOrder, price, checked
FROM list_items WHERE planId = ? ORDER BY position ASC
`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []internal.OrganizedItem{}
	for rows.Next() {
		var item internal.OrganizedItem
		if err := rows.Scan(
			&item.Key, &item.Name, &item.Quantity, &item.Unit,
			&item.Aisle, &item.Category, &item.Emoji, &item.SortOrder,
			&item.Price, &item.Checked,
		); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (d *DB) SetItemChecked(planID int, key string, checked bool) error {
	result, err := d.conn.Exec(
		`UPDATE list_items SET checked = ?, updatedAt = CURRENT_TIMESTAMP WHERE planId = ? AND itemKey = ?`,
		checked, planID, key,
	)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("list item not found: planId=%d key=%s", planID, key)
	}
	return nil
}
