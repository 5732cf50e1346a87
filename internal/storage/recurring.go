package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"pitaka/internal/core"
)

// recurringDocument is the persisted shape of a user's whole recurring
// collection. Amounts are stored as decimal strings so that documents
// written by older clients still decode; malformed amounts coerce to zero
// instead of failing the read.
type recurringDocument struct {
	Definitions []recurringEntry `json:"definitions"`
}

type recurringEntry struct {
	ID               string `json:"id"`
	Amount           string `json:"amount"`
	Description      string `json:"description"`
	Category         string `json:"category"`
	Frequency        string `json:"frequency"`
	DayOfMonth       int    `json:"dayOfMonth,omitempty"`
	IsActive         bool   `json:"isActive"`
	CreatedAt        string `json:"createdAt,omitempty"`
	LastMaterialized string `json:"lastMaterialized,omitempty"`
}

// GetAll loads the user's recurring collection. A user with no stored
// document gets an empty collection.
func (r *SQLiteRepository) GetAll(ctx context.Context, userID string) ([]core.RecurringDefinition, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT document FROM recurring_collections WHERE user_id = ?`, userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []core.RecurringDefinition{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load recurring collection: %w", err)
	}

	var doc recurringDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("decode recurring collection: %w", err)
	}

	defs := make([]core.RecurringDefinition, len(doc.Definitions))
	for i, e := range doc.Definitions {
		defs[i] = core.RecurringDefinition{
			ID:          e.ID,
			Amount:      core.Money{Cents: core.CoerceDecimalToCents(e.Amount)},
			Description: e.Description,
			Category:    e.Category,
			Frequency:   core.Frequency(e.Frequency),
			DayOfMonth:  e.DayOfMonth,
			IsActive:    e.IsActive,
		}
		if e.CreatedAt != "" {
			defs[i].CreatedAt = parseStoredTime(e.CreatedAt)
		}
		if e.LastMaterialized != "" {
			defs[i].LastMaterialized = parseStoredTime(e.LastMaterialized)
		}
	}
	return defs, nil
}

// ReplaceAll overwrites the user's whole recurring collection in one write.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, userID string, defs []core.RecurringDefinition) error {
	if userID == "" {
		return core.ErrUnauthenticated
	}

	doc := recurringDocument{Definitions: make([]recurringEntry, len(defs))}
	for i, d := range defs {
		doc.Definitions[i] = recurringEntry{
			ID:          d.ID,
			Amount:      formatCents(d.Amount.Cents),
			Description: d.Description,
			Category:    d.Category,
			Frequency:   string(d.Frequency),
			DayOfMonth:  d.DayOfMonth,
			IsActive:    d.IsActive,
		}
		if !d.CreatedAt.IsZero() {
			doc.Definitions[i].CreatedAt = d.CreatedAt.UTC().Format(time.RFC3339)
		}
		if !d.LastMaterialized.IsZero() {
			doc.Definitions[i].LastMaterialized = d.LastMaterialized.UTC().Format(time.RFC3339)
		}
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode recurring collection: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO recurring_collections (user_id, document, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		userID, string(raw), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("store recurring collection: %w", err)
	}
	return nil
}

// ListRecurringUsers returns every user id with a stored recurring
// collection. The recurring worker sweeps these on each tick.
func (r *SQLiteRepository) ListRecurringUsers(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM recurring_collections ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list recurring users: %w", err)
	}
	defer rows.Close()

	users := []string{}
	for rows.Next() {
		var user string
		if err := rows.Scan(&user); err != nil {
			return nil, fmt.Errorf("scan recurring user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recurring users: %w", err)
	}
	return users, nil
}

func formatCents(cents int64) string {
	return strconv.FormatInt(cents/100, 10) + "." + fmt.Sprintf("%02d", cents%100)
}
