// Package worker moves locally stored transactions to the external ledger.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pitaka/internal/amqp"
	"pitaka/internal/cache"
	"pitaka/internal/core"
	"pitaka/internal/export"
	"pitaka/internal/storage"
)

const (
	exportDedupSize = 1024
	exportDedupTTL  = time.Hour
)

// SyncWorker exports transactions from SQLite to the ledger. AMQP messages
// drive the normal path; the pending re-scan covers lost messages and
// downtime.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	ledger    export.LedgerWriter
	batchSize int

	// exported remembers id@version pairs already appended, so AMQP
	// redeliveries don't write duplicate ledger rows.
	exported *cache.LRUCache[string]
}

func NewSyncWorker(repo *storage.SQLiteRepository, ledger export.LedgerWriter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   repo,
		ledger:    ledger,
		batchSize: batchSize,
		exported:  cache.NewLRUCache[string](exportDedupSize, exportDedupTTL),
	}
}

// Caches returns the worker's caches for cleanup registration.
func (w *SyncWorker) Caches() []cache.Cleaner {
	return []cache.Cleaner{w.exported}
}

// HandleSyncMessage processes a single transaction sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"version", msg.Version)

	dedupKey := fmt.Sprintf("%s@%d", msg.ID, msg.Version)
	if _, seen := w.exported.Get(dedupKey); seen {
		slog.InfoContext(ctx, "Skipping already exported message",
			"id", msg.ID, "version", msg.Version)
		return nil
	}

	tx, err := w.storage.GetTransaction(ctx, msg.UserID, msg.ID)
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	if err := w.exportToLedger(ctx, tx.ID, tx); err != nil {
		return fmt.Errorf("export transaction: %w", err)
	}
	w.exported.Set(dedupKey, tx.ID)
	return nil
}

// ProcessPendingTransactions exports any transactions that haven't been
// synced yet. This is a backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPendingTransactions(ctx context.Context) error {
	pending, err := w.storage.ListPendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	for _, p := range pending {
		tx, err := w.storage.GetTransaction(ctx, p.UserID, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get transaction", "id", p.ID, "error", err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			continue
		}
		if err := w.exportToLedger(ctx, p.ID, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction", "id", p.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck drains the pending queue at worker startup with a larger
// batch, recovering from missed messages or worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.ListPendingSync(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, p := range pending {
		tx, err := w.storage.GetTransaction(ctx, p.UserID, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get transaction for startup sync",
				"id", p.ID, "error", err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			errorCount++
			continue
		}
		if err := w.exportToLedger(ctx, p.ID, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction during startup",
				"id", p.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}

func (w *SyncWorker) exportToLedger(ctx context.Context, id string, tx core.Transaction) error {
	ref, err := w.ledger.Append(ctx, tx)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append to ledger: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
		// Don't return an error here - the export actually worked
	}

	slog.InfoContext(ctx, "Successfully exported transaction",
		"id", id,
		"ledger_ref", ref,
		"description", tx.Description,
		"amount_cents", tx.Amount.Cents)

	return nil
}
