package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"shoplist/internal"
)

const (
	PlanStatusFetched   = "fetched"
	PlanStatusProcessed = "processed"
	PlanStatusSkipped   = "skipped"
	PlanStatusFailed    = "failed"
	PlanStatusExported  = "exported"
)

const planColumns = `id, provider, messageId, subject, sender, receivedAt, hash, status, rawRef`

func scanPlan(scan func(dest ...any) error) (internal.PlanRow, error) {
	var row internal.PlanRow
	err := scan(&row.ID, &row.Provider, &row.MessageID, &row.Subject, &row.Sender, &row.ReceivedAt, &row.Hash, &row.Status, &row.RawRef)
	return row, err
}

// UpsertPlan records a fetched message. Re-fetching an existing message
// refreshes its headers but leaves its status alone.
func (d *DB) UpsertPlan(provider, messageID, subject, sender, receivedAt, hash, rawRef, status string) (internal.PlanRow, error) {
	_, err := d.conn.Exec(`
INSERT INTO plans (provider, messageId, subject, sender, receivedAt, hash, status, rawRef)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(provider, messageId) DO UPDATE SET
  subject=excluded.subject,
  sender=excluded.sender,
  receivedAt=excluded.receivedAt,
  hash=excluded.hash,
  rawRef=excluded.rawRef,
  updatedAt=CURRENT_TIMESTAMP
`, provider, messageID, subject, sender, receivedAt, hash, status, rawRef)
	if err != nil {
		return internal.PlanRow{}, err
	}

	return d.MustPlanByProviderMessageID(provider, messageID)
}

func (d *DB) GetPlanByProviderMessageID(provider, messageID string) (*internal.PlanRow, error) {
	row, err := scanPlan(d.conn.QueryRow(`SELECT `+planColumns+` FROM plans WHERE provider = ? AND messageId = ?`, provider, messageID).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) MustPlanByProviderMessageID(provider, messageID string) (internal.PlanRow, error) {
	row, err := d.GetPlanByProviderMessageID(provider, messageID)
	if err != nil {
		return internal.PlanRow{}, err
	}
	if row == nil {
		return internal.PlanRow{}, fmt.Errorf("plan not found: provider=%s messageId=%s", provider, messageID)
	}
	return *row, nil
}

func (d *DB) GetPlanByID(id int) (*internal.PlanRow, error) {
	row, err := scanPlan(d.conn.QueryRow(`SELECT `+planColumns+` FROM plans WHERE id = ?`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) ListPlansByStatus(status string, limit int) ([]internal.PlanRow, error) {
	rows, err := d.conn.Query(`SELECT `+planColumns+` FROM plans WHERE status = ? ORDER BY receivedAt ASC, id ASC LIMIT ?`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.PlanRow
	for rows.Next() {
		row, err := scanPlan(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) UpdatePlanStatus(planID int, status string) error {
	_, err := d.conn.Exec(`UPDATE plans SET status = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`, status, planID)
	return err
}

// ReplaceSummaries swaps the extracted summaries stored for a plan.
func (d *DB) ReplaceSummaries(planID int, entries []internal.SummaryEntry) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM summaries WHERE planId = ?`, planID); err != nil {
		return err
	}
	for _, e := range entries {
		metaJSON, err := json.Marshal(e.Meta)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(
			`INSERT INTO summaries (planId, lineNo, source, summary, metaJson) VALUES (?, ?, ?, ?, ?)`,
			planID, e.LineNo, string(e.Source), e.Summary, string(metaJSON),
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (d *DB) ListSummaries(planID int) ([]internal.SummaryEntry, error) {
	rows, err := d.conn.Query(`SELECT lineNo, source, summary, metaJson FROM summaries WHERE planId = ? ORDER BY lineNo`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.SummaryEntry
	for rows.Next() {
		var e internal.SummaryEntry
		var source, metaJSON string
		if err := rows.Scan(&e.LineNo, &source, &e.Summary, &metaJSON); err != nil {
			return nil, err
		}
		e.Source = internal.SummarySource(source)
		_ = json.Unmarshal([]byte(metaJSON), &e.Meta)
		out = append(out, e)
	}
	return out, rows.Err()
}
