package budget

import (
	"testing"
	"time"

	"pitaka/internal/core"
)

func expense(cents int64, category string, date time.Time) core.Transaction {
	return core.Transaction{
		Amount:      core.Money{Cents: cents},
		Description: category + " purchase",
		Category:    category,
		Type:        core.TypeExpense,
		Date:        date,
	}
}

func TestFilterByDate(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	today := expense(100, "Food", time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC))
	sixDaysAgo := expense(200, "Transport", now.AddDate(0, 0, -6))
	tenDaysAgo := expense(300, "Bills", now.AddDate(0, 0, -10))
	lastMonth := expense(400, "Rent", time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC))
	all := []core.Transaction{today, sixDaysAgo, tenDaysAgo, lastMonth}

	cases := []struct {
		name   string
		filter DateFilter
		want   int
	}{
		{"all keeps everything", FilterAll, 4},
		{"today matches calendar date", FilterToday, 1},
		{"week is a rolling 7-day window", FilterWeek, 2},
		{"month matches calendar month", FilterMonth, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterByDate(all, tc.filter, now)
			if len(got) != tc.want {
				t.Fatalf("expected %d transactions, got %d", tc.want, len(got))
			}
		})
	}
}

func TestFilterByDateAllIsIdentity(t *testing.T) {
	now := time.Now()
	txs := []core.Transaction{
		expense(1, "A", now.AddDate(0, -2, 0)),
		expense(2, "B", now.AddDate(0, 0, -1)),
		expense(3, "C", now),
	}
	got := FilterByDate(txs, FilterAll, now)
	if len(got) != len(txs) {
		t.Fatalf("expected %d, got %d", len(txs), len(got))
	}
	for i := range txs {
		if got[i].Category != txs[i].Category {
			t.Fatalf("order changed at %d: %s != %s", i, got[i].Category, txs[i].Category)
		}
	}
	// Must not alias the input.
	got[0].Category = "mutated"
	if txs[0].Category == "mutated" {
		t.Fatal("filter returned the input slice itself")
	}
}

func TestFilterByDateWeekBoundary(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	justInside := expense(1, "A", now.Add(-7*24*time.Hour))
	justOutside := expense(2, "B", now.Add(-7*24*time.Hour-time.Second))
	got := FilterByDate([]core.Transaction{justInside, justOutside}, FilterWeek, now)
	if len(got) != 1 || got[0].Category != "A" {
		t.Fatalf("expected only the transaction exactly 7 days old, got %d", len(got))
	}
}

func TestFilterBySearch(t *testing.T) {
	now := time.Now()
	txs := []core.Transaction{
		{Description: "Jollibee lunch", Category: "Eating out", Type: core.TypeExpense, Date: now},
		{Description: "Grab ride", Category: "Transport", Type: core.TypeExpense, Date: now},
		{Description: "Electric bill", Category: "Bills", Type: core.TypeExpense, Date: now},
	}

	cases := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"   ", 3},
		{"LUNCH", 1},      // description, case-insensitive
		{"transport", 1},  // category
		{"bill", 1},       // substring of both description and category, same row
		{"nonexistent", 0},
	}
	for _, tc := range cases {
		if got := FilterBySearch(txs, tc.query); len(got) != tc.want {
			t.Fatalf("query %q expected %d, got %d", tc.query, tc.want, len(got))
		}
	}
}
