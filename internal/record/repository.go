package record

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// Repository handles split record persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new record repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save inserts a record with all its shares and entries in one transaction,
// so a half-written tree can never be observed.
func (r *Repository) Save(ctx context.Context, rec *SplitRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO split_records (id, store_name, receipt_date_time, order_number, original_subtotal, original_tax, original_total, saved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, rec.ID, rec.StoreName, rec.ReceiptDateTime, rec.OrderNumber, rec.OriginalSubtotal, rec.OriginalTax, rec.OriginalTotal, rec.SavedAt)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}

	for _, share := range rec.Shares {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO participant_shares (id, record_id, name, subtotal, tax_share, total_owed)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, share.ID, rec.ID, share.Name, share.Subtotal, share.TaxShare, share.TotalOwed)
		if err != nil {
			return fmt.Errorf("failed to insert participant share: %w", err)
		}

		for _, entry := range share.Entries {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO item_entries (id, share_id, item_name, unit_price, is_shared, sharer_count, portion_paid)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, entry.ID, share.ID, entry.ItemName, entry.UnitPrice, entry.IsShared, entry.SharerCount, entry.PortionPaid)
			if err != nil {
				return fmt.Errorf("failed to insert item entry: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit record: %w", err)
	}
	return nil
}

// GetByID retrieves a record with its full tree of shares and entries
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*SplitRecord, error) {
	rec := &SplitRecord{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, store_name, receipt_date_time, order_number, original_subtotal, original_tax, original_total, saved_at
		FROM split_records
		WHERE id = $1
	`, id).Scan(
		&rec.ID,
		&rec.StoreName,
		&rec.ReceiptDateTime,
		&rec.OrderNumber,
		&rec.OriginalSubtotal,
		&rec.OriginalTax,
		&rec.OriginalTotal,
		&rec.SavedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	shares, err := r.getShares(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	rec.Shares = shares

	return rec, nil
}

// getShares loads the participant shares and their entries for a record
func (r *Repository) getShares(ctx context.Context, recordID uuid.UUID) ([]*ParticipantShare, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, record_id, name, subtotal, tax_share, total_owed
		FROM participant_shares
		WHERE record_id = $1
		ORDER BY name
	`, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participant shares: %w", err)
	}
	defer rows.Close()

	var shares []*ParticipantShare
	for rows.Next() {
		share := &ParticipantShare{}
		if err := rows.Scan(
			&share.ID,
			&share.RecordID,
			&share.Name,
			&share.Subtotal,
			&share.TaxShare,
			&share.TotalOwed,
		); err != nil {
			return nil, fmt.Errorf("failed to scan participant share: %w", err)
		}
		shares = append(shares, share)
	}

	for _, share := range shares {
		entries, err := r.getEntries(ctx, share.ID)
		if err != nil {
			return nil, err
		}
		share.Entries = entries
	}

	return shares, nil
}

// getEntries loads the item entries for a participant share
func (r *Repository) getEntries(ctx context.Context, shareID uuid.UUID) ([]*ItemEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, share_id, item_name, unit_price, is_shared, sharer_count, portion_paid
		FROM item_entries
		WHERE share_id = $1
		ORDER BY item_name
	`, shareID)
	if err != nil {
		return nil, fmt.Errorf("failed to get item entries: %w", err)
	}
	defer rows.Close()

	var entries []*ItemEntry
	for rows.Next() {
		entry := &ItemEntry{}
		if err := rows.Scan(
			&entry.ID,
			&entry.ShareID,
			&entry.ItemName,
			&entry.UnitPrice,
			&entry.IsShared,
			&entry.SharerCount,
			&entry.PortionPaid,
		); err != nil {
			return nil, fmt.Errorf("failed to scan item entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// List retrieves saved records, newest first, without their trees
func (r *Repository) List(ctx context.Context, limit, offset int) ([]*SplitRecord, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM split_records`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count records: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, store_name, receipt_date_time, order_number, original_subtotal, original_tax, original_total, saved_at
		FROM split_records
		ORDER BY saved_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []*SplitRecord
	for rows.Next() {
		rec := &SplitRecord{}
		if err := rows.Scan(
			&rec.ID,
			&rec.StoreName,
			&rec.ReceiptDateTime,
			&rec.OrderNumber,
			&rec.OriginalSubtotal,
			&rec.OriginalTax,
			&rec.OriginalTotal,
			&rec.SavedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}

	return records, total, nil
}

// Delete removes a record and its tree
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Grandchildren first (foreign key constraints)
	_, err = tx.ExecContext(ctx, `
		DELETE FROM item_entries
		WHERE share_id IN (SELECT id FROM participant_shares WHERE record_id = $1)
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item entries: %w", err)
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM participant_shares WHERE record_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete participant shares: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM split_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}

	return tx.Commit()
}
