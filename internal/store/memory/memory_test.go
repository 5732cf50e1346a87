package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"pitaka/internal/core"
	"pitaka/internal/store"
)

func sample(userID string) core.Transaction {
	return core.Transaction{
		Amount:      core.Money{Cents: 12345},
		Description: "electric bill",
		Category:    "Bills",
		Type:        core.TypeExpense,
		Date:        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		UserID:      userID,
	}
}

func TestCreateAndListScopedByUser(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.Create(ctx, sample("alice"))
	if err != nil || id == "" {
		t.Fatalf("unexpected create: id=%q err=%v", id, err)
	}
	if _, err := s.Create(ctx, sample("bob")); err != nil {
		t.Fatalf("create bob: %v", err)
	}

	mine, err := s.ListForUser(ctx, "alice")
	if err != nil || len(mine) != 1 {
		t.Fatalf("expected 1 transaction for alice, got %d (err=%v)", len(mine), err)
	}
	if mine[0].CreatedAt.IsZero() || mine[0].UpdatedAt.IsZero() {
		t.Fatal("bookkeeping timestamps must be set by the write path")
	}

	// Unauthenticated reads see nothing, never an error.
	none, err := s.ListForUser(ctx, "")
	if err != nil || len(none) != 0 {
		t.Fatalf("expected empty list for empty user, got %d (err=%v)", len(none), err)
	}
}

func TestCreateRequiresUser(t *testing.T) {
	s := New()
	if _, err := s.Create(context.Background(), sample("")); !errors.Is(err, core.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	s := New()
	ctx := context.Background()
	id, _ := s.Create(ctx, sample("alice"))

	desc := "water bill"
	amount := core.Money{Cents: 999}
	if err := s.Update(ctx, "alice", id, store.TransactionPatch{Description: &desc, Amount: &amount}); err != nil {
		t.Fatalf("update: %v", err)
	}
	list, _ := s.ListForUser(ctx, "alice")
	if list[0].Description != "water bill" || list[0].Amount.Cents != 999 {
		t.Fatalf("patch not applied: %+v", list[0])
	}
	if list[0].Category != "Bills" {
		t.Fatal("nil patch fields must be left untouched")
	}

	if err := s.Update(ctx, "alice", "missing", store.TransactionPatch{}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.Delete(ctx, "alice", id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, _ = s.ListForUser(ctx, "alice")
	if len(list) != 0 {
		t.Fatalf("expected empty list after delete, got %d", len(list))
	}
}

func TestRecurringReplaceAll(t *testing.T) {
	s := New()
	ctx := context.Background()

	defs := []core.RecurringDefinition{{
		ID:          "r1",
		Amount:      core.Money{Cents: 150000},
		Description: "Rent",
		Category:    "Rent",
		Frequency:   core.Monthly,
		DayOfMonth:  1,
		IsActive:    true,
	}}
	if err := s.ReplaceAll(ctx, "alice", defs); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, err := s.GetAll(ctx, "alice")
	if err != nil || len(got) != 1 || got[0].ID != "r1" {
		t.Fatalf("unexpected collection: %+v err=%v", got, err)
	}

	// The stored collection must not alias the caller's slice.
	defs[0].Description = "mutated"
	got, _ = s.GetAll(ctx, "alice")
	if got[0].Description != "Rent" {
		t.Fatal("store must copy the collection on write")
	}

	if err := s.ReplaceAll(ctx, "", defs); !errors.Is(err, core.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestSettingsMerge(t *testing.T) {
	s := New()
	ctx := context.Background()

	// Never saved -> zero value.
	setting, err := s.Get(ctx, "alice")
	if err != nil || setting.MonthlyIncome.Cents != 0 {
		t.Fatalf("expected zero setting, got %+v err=%v", setting, err)
	}

	saved := core.BudgetSetting{MonthlyIncome: core.Money{Cents: 500000}, UpdatedAt: time.Now()}
	if err := s.Merge(ctx, "alice", saved); err != nil {
		t.Fatalf("merge: %v", err)
	}
	setting, _ = s.Get(ctx, "alice")
	if setting.MonthlyIncome.Cents != 500000 {
		t.Fatalf("expected 500000, got %d", setting.MonthlyIncome.Cents)
	}
}
