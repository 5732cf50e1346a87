package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"pitaka/internal/core"
	"pitaka/internal/store"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "pitaka.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testTransaction(userID string) core.Transaction {
	return core.Transaction{
		Amount:      core.Money{Cents: 45000},
		Description: "weekly groceries",
		Category:    "Food",
		Type:        core.TypeExpense,
		Date:        time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		UserID:      userID,
	}
}

func TestTransactionCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, testTransaction("alice"))
	if err != nil || id == "" {
		t.Fatalf("create: id=%q err=%v", id, err)
	}
	if _, err := repo.Create(ctx, testTransaction("bob")); err != nil {
		t.Fatalf("create bob: %v", err)
	}

	list, err := repo.ListForUser(ctx, "alice")
	if err != nil || len(list) != 1 {
		t.Fatalf("expected 1 transaction for alice, got %d (err=%v)", len(list), err)
	}
	got := list[0]
	if got.Amount.Cents != 45000 || got.Description != "weekly groceries" || got.Category != "Food" {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatal("bookkeeping timestamps must be set by the write path")
	}

	desc := "monthly groceries"
	amount := core.Money{Cents: 52000}
	if err := repo.Update(ctx, "alice", id, store.TransactionPatch{Description: &desc, Amount: &amount}); err != nil {
		t.Fatalf("update: %v", err)
	}
	updated, err := repo.GetTransaction(ctx, "alice", id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if updated.Description != "monthly groceries" || updated.Amount.Cents != 52000 {
		t.Fatalf("patch not applied: %+v", updated)
	}
	if updated.Category != "Food" {
		t.Fatal("nil patch fields must be left untouched")
	}

	if err := repo.Delete(ctx, "alice", id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, _ = repo.ListForUser(ctx, "alice")
	if len(list) != 0 {
		t.Fatalf("expected empty list after delete, got %d", len(list))
	}
}

func TestTransactionUserScoping(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, _ := repo.Create(ctx, testTransaction("alice"))

	// Unauthenticated reads see nothing, never an error.
	none, err := repo.ListForUser(ctx, "")
	if err != nil || len(none) != 0 {
		t.Fatalf("expected empty list for empty user, got %d (err=%v)", len(none), err)
	}

	if _, err := repo.Create(ctx, testTransaction("")); !errors.Is(err, core.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated on create, got %v", err)
	}
	if err := repo.Delete(ctx, "bob", id); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("another user's delete must not find the row, got %v", err)
	}
	if err := repo.Update(ctx, "bob", id, store.TransactionPatch{}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("another user's update must not find the row, got %v", err)
	}
}

func TestPendingSyncLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, _ := repo.Create(ctx, testTransaction("alice"))

	pending, err := repo.ListPendingSync(ctx, 10)
	if err != nil || len(pending) != 1 {
		t.Fatalf("expected 1 pending transaction, got %d (err=%v)", len(pending), err)
	}
	if pending[0].ID != id || pending[0].Version != 1 {
		t.Fatalf("unexpected pending entry: %+v", pending[0])
	}

	if err := repo.MarkSynced(ctx, id); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	pending, _ = repo.ListPendingSync(ctx, 10)
	if len(pending) != 0 {
		t.Fatalf("expected no pending after sync, got %d", len(pending))
	}

	// An edit re-queues the row with a bumped version.
	desc := "edited"
	if err := repo.Update(ctx, "alice", id, store.TransactionPatch{Description: &desc}); err != nil {
		t.Fatalf("update: %v", err)
	}
	pending, _ = repo.ListPendingSync(ctx, 10)
	if len(pending) != 1 || pending[0].Version != 2 {
		t.Fatalf("expected re-queued row at version 2, got %+v", pending)
	}

	if err := repo.MarkSyncError(ctx, id); err != nil {
		t.Fatalf("mark sync error: %v", err)
	}
	pending, _ = repo.ListPendingSync(ctx, 10)
	if len(pending) != 0 {
		t.Fatalf("errored rows must leave the pending queue, got %d", len(pending))
	}
}

func TestRecurringDocumentRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	materialized := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	defs := []core.RecurringDefinition{
		{
			ID:               "r1",
			Amount:           core.Money{Cents: 150000},
			Description:      "Rent",
			Category:         "Rent",
			Frequency:        core.Monthly,
			DayOfMonth:       1,
			IsActive:         true,
			CreatedAt:        time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			LastMaterialized: materialized,
		},
		{
			ID:          "r2",
			Amount:      core.Money{Cents: 1999},
			Description: "Streaming",
			Category:    "Entertainment",
			Frequency:   core.Weekly,
			IsActive:    false,
		},
	}
	if err := repo.ReplaceAll(ctx, "alice", defs); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := repo.GetAll(ctx, "alice")
	if err != nil || len(got) != 2 {
		t.Fatalf("expected 2 definitions, got %d (err=%v)", len(got), err)
	}
	if got[0].Amount.Cents != 150000 || got[0].DayOfMonth != 1 || !got[0].IsActive {
		t.Fatalf("definition mismatch: %+v", got[0])
	}
	if !got[0].LastMaterialized.Equal(materialized) {
		t.Fatalf("materialization cursor lost: %+v", got[0].LastMaterialized)
	}
	if got[1].Amount.Cents != 1999 || got[1].IsActive {
		t.Fatalf("definition mismatch: %+v", got[1])
	}

	// Replacing with a smaller collection removes the rest.
	if err := repo.ReplaceAll(ctx, "alice", defs[:1]); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, _ = repo.GetAll(ctx, "alice")
	if len(got) != 1 || got[0].ID != "r1" {
		t.Fatalf("expected only r1 to remain, got %+v", got)
	}
}

func TestRecurringEmptyAndUnauthenticated(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	got, err := repo.GetAll(ctx, "nobody")
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty collection, got %d (err=%v)", len(got), err)
	}
	if err := repo.ReplaceAll(ctx, "", nil); !errors.Is(err, core.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestSettingsMergeAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	setting, err := repo.Get(ctx, "alice")
	if err != nil || setting.MonthlyIncome.Cents != 0 {
		t.Fatalf("expected zero setting, got %+v err=%v", setting, err)
	}

	if err := repo.Merge(ctx, "alice", core.BudgetSetting{MonthlyIncome: core.Money{Cents: 500000}}); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if err := repo.Merge(ctx, "alice", core.BudgetSetting{MonthlyIncome: core.Money{Cents: 750000}}); err != nil {
		t.Fatalf("second merge: %v", err)
	}
	setting, _ = repo.Get(ctx, "alice")
	if setting.MonthlyIncome.Cents != 750000 {
		t.Fatalf("expected upserted value 750000, got %d", setting.MonthlyIncome.Cents)
	}
	if setting.UpdatedAt.IsZero() {
		t.Fatal("updated_at must be set on merge")
	}
}

func TestListRecurringUsers(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	users, err := repo.ListRecurringUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("expected no users on a fresh database, got %v", users)
	}

	def := core.RecurringDefinition{
		ID:          "r1",
		Amount:      core.Money{Cents: 999},
		Description: "Streaming",
		Category:    "Entertainment",
		Frequency:   core.Weekly,
		IsActive:    true,
	}
	for _, user := range []string{"bob", "alice"} {
		if err := repo.ReplaceAll(ctx, user, []core.RecurringDefinition{def}); err != nil {
			t.Fatalf("replace for %s: %v", user, err)
		}
	}

	users, err = repo.ListRecurringUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 2 || users[0] != "alice" || users[1] != "bob" {
		t.Fatalf("expected [alice bob], got %v", users)
	}
}
