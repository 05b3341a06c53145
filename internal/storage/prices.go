package storage

import "shoplist/internal"

func (d *DB) UpsertPrices(prices []internal.PriceRecord) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO prices (id, name, unit, price, store, updatedAt, raw_json, lastSeenAt)
VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(id) DO UPDATE SET
  name=excluded.name,
  unit=excluded.unit,
  price=excluded.price,
  store=excluded.store,
  updatedAt=excluded.updatedAt,
  raw_json=excluded.raw_json,
  lastSeenAt=CURRENT_TIMESTAMP
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range prices {
		if _, err := stmt.Exec(p.ID, p.Name, p.Unit, p.Price, p.Store, p.UpdatedAt, p.RawJSON); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) ListPrices() ([]internal.PriceRecord, error) {
	rows, err := d.conn.Query(`SELECT id, name, unit, price, store, updatedAt, raw_json FROM prices ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.PriceRecord
	for rows.Next() {
		var p internal.PriceRecord
		if err := rows.Scan(&p.ID, &p.Name, &p.Unit, &p.Price, &p.Store, &p.UpdatedAt, &p.RawJSON); err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, rows.Err()
}
