package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"pitaka/internal/core"
	"pitaka/internal/store"
)

// Create inserts the transaction and returns its generated id.
func (r *SQLiteRepository) Create(ctx context.Context, tx core.Transaction) (string, error) {
	if tx.UserID == "" {
		return "", core.ErrUnauthenticated
	}
	if err := tx.Validate(); err != nil {
		return "", err
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, amount_cents, description, category, type, tx_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, tx.UserID, tx.Amount.Cents, tx.Description, tx.Category, tx.Type,
		tx.Date.UTC().Format(time.RFC3339), now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", id,
		"description", tx.Description,
		"amount_cents", tx.Amount.Cents,
		"category", tx.Category)

	return id, nil
}

// ListForUser returns the user's transactions, newest first. An unknown or
// empty user id yields an empty slice, never an error.
func (r *SQLiteRepository) ListForUser(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, amount_cents, description, category, type, tx_date, created_at, updated_at
		FROM transactions
		WHERE user_id = ?
		ORDER BY tx_date DESC, created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txs := []core.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// GetTransaction retrieves a single transaction by id, scoped to its owner.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, amount_cents, description, category, type, tx_date, created_at, updated_at
		FROM transactions
		WHERE id = ? AND user_id = ?`, id, userID)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	return tx, err
}

func (r *SQLiteRepository) Update(ctx context.Context, userID, id string, patch store.TransactionPatch) error {
	if userID == "" {
		return core.ErrUnauthenticated
	}

	current, err := r.GetTransaction(ctx, userID, id)
	if err != nil {
		return err
	}
	if patch.Amount != nil {
		current.Amount = *patch.Amount
	}
	if patch.Description != nil {
		current.Description = *patch.Description
	}
	if patch.Category != nil {
		current.Category = *patch.Category
	}
	if patch.Date != nil {
		current.Date = *patch.Date
	}
	if err := current.Validate(); err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE transactions
		SET amount_cents = ?, description = ?, category = ?, tx_date = ?,
		    updated_at = ?, sync_status = 'pending', sync_version = sync_version + 1
		WHERE id = ? AND user_id = ?`,
		current.Amount.Cents, current.Description, current.Category,
		current.Date.UTC().Format(time.RFC3339), time.Now().UTC().Format(time.RFC3339),
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return core.ErrUnauthenticated
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// PendingSyncTransaction carries the minimal data needed for sync queue messages.
type PendingSyncTransaction struct {
	ID        string
	UserID    string
	Version   int64
	CreatedAt time.Time
}

// ListPendingSync returns transactions that still need to be exported.
func (r *SQLiteRepository) ListPendingSync(ctx context.Context, limit int) ([]PendingSyncTransaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, sync_version, created_at
		FROM transactions
		WHERE sync_status = 'pending'
		ORDER BY created_at ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending sync transactions: %w", err)
	}
	defer rows.Close()

	var pending []PendingSyncTransaction
	for rows.Next() {
		var p PendingSyncTransaction
		var createdAt string
		if err := rows.Scan(&p.ID, &p.UserID, &p.Version, &createdAt); err != nil {
			return nil, fmt.Errorf("scan pending sync transaction: %w", err)
		}
		p.CreatedAt = parseStoredTime(createdAt)
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// MarkSynced marks a transaction as successfully exported.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = 'synced' WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

// MarkSyncError marks a transaction as having export errors.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = 'error' WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var tx core.Transaction
	var cents int64
	var txDate, createdAt, updatedAt string
	err := row.Scan(&tx.ID, &tx.UserID, &cents, &tx.Description, &tx.Category, &tx.Type,
		&txDate, &createdAt, &updatedAt)
	if err != nil {
		return core.Transaction{}, err
	}
	tx.Amount = core.Money{Cents: cents}
	tx.Date = parseStoredTime(txDate)
	tx.CreatedAt = parseStoredTime(createdAt)
	tx.UpdatedAt = parseStoredTime(updatedAt)
	return tx, nil
}

// parseStoredTime accepts both RFC3339 (written by this code) and the
// "datetime('now')" format SQLite uses for column defaults.
func parseStoredTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}
	return time.Time{}
}
