package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pitaka/internal/core"
)

// Get returns the user's budget setting, zero-valued when never saved.
func (r *SQLiteRepository) Get(ctx context.Context, userID string) (core.BudgetSetting, error) {
	var cents int64
	var updatedAt string
	err := r.db.QueryRowContext(ctx,
		`SELECT monthly_income_cents, updated_at FROM budget_settings WHERE user_id = ?`,
		userID).Scan(&cents, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.BudgetSetting{}, nil
	}
	if err != nil {
		return core.BudgetSetting{}, fmt.Errorf("load budget setting: %w", err)
	}
	return core.BudgetSetting{
		MonthlyIncome: core.Money{Cents: cents},
		UpdatedAt:     parseStoredTime(updatedAt),
	}, nil
}

// Merge upserts the budget setting.
func (r *SQLiteRepository) Merge(ctx context.Context, userID string, setting core.BudgetSetting) error {
	if userID == "" {
		return core.ErrUnauthenticated
	}
	if err := setting.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO budget_settings (user_id, monthly_income_cents, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET monthly_income_cents = excluded.monthly_income_cents, updated_at = excluded.updated_at`,
		userID, setting.MonthlyIncome.Cents, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("store budget setting: %w", err)
	}
	return nil
}
