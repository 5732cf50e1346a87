package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"pitaka/internal/core"
	"pitaka/internal/store"
	"pitaka/internal/store/memory"
)

func newTxService() (*TransactionService, *memory.Store) {
	mem := memory.New()
	// A nil AMQP client means sync messages are skipped, not failed.
	return NewTransactionService(mem, nil), mem
}

func TestTransactionServiceCreateAndList(t *testing.T) {
	svc, _ := newTxService()
	ctx := context.Background()

	id, err := svc.Create(ctx, core.Transaction{
		Amount:      core.Money{Cents: 2500},
		Description: "coffee beans",
		Category:    "Food",
		Type:        core.TypeExpense,
		Date:        time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		UserID:      "alice",
	})
	if err != nil || id == "" {
		t.Fatalf("create: id=%q err=%v", id, err)
	}

	list, err := svc.List(ctx, "alice")
	if err != nil || len(list) != 1 {
		t.Fatalf("expected 1 transaction, got %d (err=%v)", len(list), err)
	}
}

func TestTransactionServiceRejectsInvalid(t *testing.T) {
	svc, _ := newTxService()
	ctx := context.Background()

	_, err := svc.Create(ctx, core.Transaction{
		Amount:   core.Money{Cents: 2500},
		Category: "Food",
		Type:     core.TypeExpense,
		Date:     time.Now(),
		UserID:   "alice",
	})
	if !errors.Is(err, core.ErrEmptyDescription) {
		t.Fatalf("expected ErrEmptyDescription, got %v", err)
	}

	list, _ := svc.List(ctx, "alice")
	if len(list) != 0 {
		t.Fatal("rejected create must not persist anything")
	}
}

func TestTransactionServiceUpdateDelete(t *testing.T) {
	svc, _ := newTxService()
	ctx := context.Background()

	id, _ := svc.Create(ctx, core.Transaction{
		Amount:      core.Money{Cents: 2500},
		Description: "coffee beans",
		Category:    "Food",
		Type:        core.TypeExpense,
		Date:        time.Now(),
		UserID:      "alice",
	})

	desc := "espresso beans"
	if err := svc.Update(ctx, "alice", id, store.TransactionPatch{Description: &desc}); err != nil {
		t.Fatalf("update: %v", err)
	}
	list, _ := svc.List(ctx, "alice")
	if list[0].Description != "espresso beans" {
		t.Fatalf("patch not applied: %+v", list[0])
	}

	if err := svc.Delete(ctx, "alice", id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, "alice", id); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
