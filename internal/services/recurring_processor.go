package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pitaka/internal/core"
	"pitaka/internal/store"
)

// RecurringProcessor materializes due recurring definitions into real
// transactions for one user at a time.
type RecurringProcessor struct {
	recurring store.RecurringStore
	txService *TransactionService
}

func NewRecurringProcessor(recurringStore store.RecurringStore, txService *TransactionService) *RecurringProcessor {
	return &RecurringProcessor{
		recurring: recurringStore,
		txService: txService,
	}
}

// ProcessDue walks the user's recurring collection, creates a transaction for
// every definition that is due, advances its materialization cursor, and
// persists the collection in one write. Returns the number of transactions
// created.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, userID string, now time.Time) (int, error) {
	if p.recurring == nil || p.txService == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	defs, err := p.recurring.GetAll(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("load recurring collection: %w", err)
	}

	slog.InfoContext(ctx, "Processing recurring definitions",
		"user", userID,
		"total", len(defs),
		"processing_date", now.Format("2006-01-02"))

	processedCount := 0
	changed := false

	for i := range defs {
		def := defs[i]
		if !def.IsActive {
			continue
		}

		checker, err := GetDuenessChecker(def.Frequency)
		if err != nil {
			slog.ErrorContext(ctx, "Skipping definition with unknown frequency",
				"id", def.ID,
				"frequency", def.Frequency)
			continue
		}
		if !checker.IsDue(def, now) {
			continue
		}

		tx := core.Transaction{
			Amount:      def.Amount,
			Description: def.Description,
			Category:    def.Category,
			Type:        core.TypeExpense,
			Date:        now,
			UserID:      userID,
		}
		if _, err := p.txService.Create(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to create transaction from recurring definition",
				"id", def.ID,
				"description", def.Description,
				"error", err)
			continue
		}

		defs[i].LastMaterialized = now
		changed = true
		processedCount++

		slog.InfoContext(ctx, "Created transaction from recurring definition",
			"id", def.ID,
			"description", def.Description,
			"amount_cents", def.Amount.Cents,
			"frequency", def.Frequency)
	}

	if changed {
		if err := p.recurring.ReplaceAll(ctx, userID, defs); err != nil {
			// Transactions were created; a failed cursor write means the next
			// run may double-fire, which the caller should know about.
			return processedCount, fmt.Errorf("store recurring collection: %w", err)
		}
	}

	slog.InfoContext(ctx, "Recurring processing complete",
		"user", userID,
		"processed", processedCount,
		"total_checked", len(defs))

	return processedCount, nil
}
