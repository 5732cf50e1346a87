package store

import (
	"context"
	"time"

	"pitaka/internal/core"
)

// Ports for outbound adapters. Every operation is scoped to a user id;
// writes with an empty user id fail with core.ErrUnauthenticated, while
// ListForUser("") returns an empty list so an unauthenticated session never
// sees anyone's data.
type (
	TransactionStore interface {
		// Create persists a transaction and returns the store-assigned id.
		Create(ctx context.Context, tx core.Transaction) (id string, err error)
		// ListForUser returns every transaction owned by the user, or an
		// empty slice when there are none.
		ListForUser(ctx context.Context, userID string) ([]core.Transaction, error)
		// Update applies a partial update to the user's transaction.
		Update(ctx context.Context, userID, id string, patch TransactionPatch) error
		// Delete removes the user's transaction.
		Delete(ctx context.Context, userID, id string) error
	}

	// RecurringStore persists the per-user recurring collection as one
	// aggregate document. ReplaceAll is the only write granularity.
	RecurringStore interface {
		GetAll(ctx context.Context, userID string) ([]core.RecurringDefinition, error)
		ReplaceAll(ctx context.Context, userID string, defs []core.RecurringDefinition) error
	}

	// SettingsStore holds the per-user budget singleton. Get returns a zero
	// setting when the user never saved one; Merge upserts.
	SettingsStore interface {
		Get(ctx context.Context, userID string) (core.BudgetSetting, error)
		Merge(ctx context.Context, userID string, setting core.BudgetSetting) error
	}
)

// TransactionPatch carries the user-editable fields of a partial update.
// Nil fields are left untouched; UpdatedAt is set by the write path.
type TransactionPatch struct {
	Amount      *core.Money
	Description *string
	Category    *string
	Date        *time.Time
}
