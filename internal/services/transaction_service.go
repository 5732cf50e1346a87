package services

import (
	"context"
	"fmt"
	"log/slog"

	"pitaka/internal/amqp"
	"pitaka/internal/core"
	"pitaka/internal/store"
)

// TransactionService orchestrates transaction writes across the local store
// and the AMQP sync queue. The store is the source of truth; export messages
// are best-effort and the pending re-scan in the worker covers lost ones.
type TransactionService struct {
	store      store.TransactionStore
	amqpClient *amqp.Client
}

func NewTransactionService(txStore store.TransactionStore, amqpClient *amqp.Client) *TransactionService {
	return &TransactionService{
		store:      txStore,
		amqpClient: amqpClient,
	}
}

// Create saves a transaction locally and publishes a sync message.
func (s *TransactionService) Create(ctx context.Context, tx core.Transaction) (string, error) {
	id, err := s.store.Create(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("save transaction: %w", err)
	}

	// New rows start at sync version 1.
	if err := s.publishSyncMessage(ctx, id, tx.UserID, 1); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", id, "error", err)
		// Don't fail the request - transaction is saved locally
	}

	return id, nil
}

// List returns the user's transactions.
func (s *TransactionService) List(ctx context.Context, userID string) ([]core.Transaction, error) {
	return s.store.ListForUser(ctx, userID)
}

// Update applies a partial update to the user's transaction.
func (s *TransactionService) Update(ctx context.Context, userID, id string, patch store.TransactionPatch) error {
	if err := s.store.Update(ctx, userID, id, patch); err != nil {
		return err
	}
	// Edited rows re-enter the pending queue; the worker's re-scan exports
	// them without needing a fresh message.
	return nil
}

// Delete removes the user's transaction.
func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	return s.store.Delete(ctx, userID, id)
}

func (s *TransactionService) publishSyncMessage(ctx context.Context, id, userID string, version int64) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}
	return s.amqpClient.PublishTransactionSync(ctx, id, userID, version)
}
