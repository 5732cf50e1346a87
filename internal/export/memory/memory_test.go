package memory

import (
	"context"
	"testing"
	"time"

	"pitaka/internal/core"
)

func TestAppendAndItems(t *testing.T) {
	l := New()
	ctx := context.Background()

	tx := core.Transaction{
		ID:          "tx-1",
		Amount:      core.Money{Cents: 4500},
		Description: "groceries",
		Category:    "Food",
		Type:        core.TypeExpense,
		Date:        time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		UserID:      "alice",
	}
	ref, err := l.Append(ctx, tx)
	if err != nil || ref != "mem:1" {
		t.Fatalf("append: ref=%q err=%v", ref, err)
	}

	items := l.Items()
	if len(items) != 1 || items[0].ID != "tx-1" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	l := New()
	if _, err := l.Append(context.Background(), core.Transaction{}); err == nil {
		t.Fatal("expected validation error")
	}
	if len(l.Items()) != 0 {
		t.Fatal("rejected append must not store anything")
	}
}
