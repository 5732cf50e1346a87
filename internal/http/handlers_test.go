package http

import (
	"net/http"
	"testing"
)

func TestDashboard(t *testing.T) {
	s, _ := newTestServer()
	do(s, http.MethodPut, "/budget", "alice", `{"monthlyIncome":"1000.00"}`)
	do(s, http.MethodPost, "/transactions", "alice", `{"amount":"100.00","description":"rent share","category":"Housing"}`)
	do(s, http.MethodPost, "/transactions", "alice", `{"amount":"50.00","description":"groceries","category":"Food"}`)

	rec := do(s, http.MethodGet, "/dashboard", "alice", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard: %d (%s)", rec.Code, rec.Body.String())
	}
	view := decode[dashboardJSON](t, rec)
	if view.Filter != "all" {
		t.Errorf("default filter = %q, want all", view.Filter)
	}
	if view.Budget != "1000.00" || view.TotalExpense != "150.00" || view.SafeToSpend != "850.00" {
		t.Errorf("unexpected totals: %+v", view)
	}
	if view.SpendingPercent != 15 {
		t.Errorf("spending percent = %v, want 15", view.SpendingPercent)
	}
	if len(view.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %+v", view.Categories)
	}
	// Sorted by total descending.
	if view.Categories[0].Name != "Housing" || view.Categories[0].Total != "100.00" {
		t.Errorf("top category: %+v", view.Categories[0])
	}
	if len(view.Recent) != 2 {
		t.Errorf("expected 2 recent transactions, got %d", len(view.Recent))
	}
}

func TestDashboardSearch(t *testing.T) {
	s, _ := newTestServer()
	do(s, http.MethodPost, "/transactions", "alice", `{"amount":"100.00","description":"rent share","category":"Housing"}`)
	do(s, http.MethodPost, "/transactions", "alice", `{"amount":"50.00","description":"groceries","category":"Food"}`)

	view := decode[dashboardJSON](t, do(s, http.MethodGet, "/dashboard?q=rent", "alice", ""))
	if view.TotalExpense != "100.00" {
		t.Errorf("search total = %q, want 100.00", view.TotalExpense)
	}
	if len(view.Recent) != 1 || view.Recent[0].Description != "rent share" {
		t.Errorf("search recent: %+v", view.Recent)
	}
}

func TestDashboardInvalidFilter(t *testing.T) {
	s, _ := newTestServer()
	if rec := do(s, http.MethodGet, "/dashboard?filter=yearly", "alice", ""); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestReport(t *testing.T) {
	s, _ := newTestServer()
	do(s, http.MethodPut, "/budget", "alice", `{"monthlyIncome":"1000.00"}`)
	do(s, http.MethodPost, "/transactions", "alice", `{"amount":"200.00","description":"groceries","category":"Food"}`)

	rec := do(s, http.MethodGet, "/reports", "alice", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reports: %d (%s)", rec.Code, rec.Body.String())
	}
	view := decode[reportJSON](t, rec)
	if view.Budget != "1000.00" || view.TotalExpense != "200.00" || view.Remaining != "800.00" {
		t.Errorf("unexpected totals: %+v", view)
	}
	if view.Insights.TopDay == "" || view.Insights.TopDayTotal != "200.00" {
		t.Errorf("expected a top day, got %+v", view.Insights)
	}
	if view.Insights.Last7Days != "200.00" {
		t.Errorf("last 7 days = %q, want 200.00", view.Insights.Last7Days)
	}
}

func TestReportEmptyHistory(t *testing.T) {
	s, _ := newTestServer()
	rec := do(s, http.MethodGet, "/reports", "alice", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reports: %d", rec.Code)
	}
	view := decode[reportJSON](t, rec)
	if view.TotalExpense != "0.00" || view.Insights.TopDay != "" {
		t.Errorf("expected empty report, got %+v", view)
	}
}

func TestRecurringLifecycle(t *testing.T) {
	s, _ := newTestServer()

	rec := do(s, http.MethodPost, "/recurring", "alice",
		`{"amount":"9.99","description":"music subscription","category":"Entertainment","frequency":"monthly","dayOfMonth":1}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d (%s)", rec.Code, rec.Body.String())
	}
	def := decode[recurringJSON](t, rec)
	if def.ID == "" || !def.IsActive || def.Amount != "9.99" {
		t.Fatalf("unexpected definition: %+v", def)
	}

	list := decode[[]recurringJSON](t, do(s, http.MethodGet, "/recurring", "alice", ""))
	if len(list) != 1 {
		t.Fatalf("expected 1 definition, got %d", len(list))
	}

	toggled := decode[recurringJSON](t, do(s, http.MethodPost, "/recurring/"+def.ID+"/toggle", "alice", ""))
	if toggled.IsActive {
		t.Fatalf("expected inactive after toggle: %+v", toggled)
	}

	if rec := do(s, http.MethodDelete, "/recurring/"+def.ID, "alice", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", rec.Code)
	}
	if rec := do(s, http.MethodDelete, "/recurring/"+def.ID, "alice", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: %d", rec.Code)
	}
}

func TestCreateRecurringErrors(t *testing.T) {
	s, _ := newTestServer()

	tests := []struct {
		name string
		body string
		want int
	}{
		{"bad amount", `{"amount":"free","description":"x","category":"c","frequency":"monthly","dayOfMonth":1}`, http.StatusUnprocessableEntity},
		{"unknown frequency", `{"amount":"5.00","description":"x","category":"c","frequency":"yearly"}`, http.StatusUnprocessableEntity},
		{"monthly without day", `{"amount":"5.00","description":"x","category":"c","frequency":"monthly"}`, http.StatusUnprocessableEntity},
		{"day out of range", `{"amount":"5.00","description":"x","category":"c","frequency":"monthly","dayOfMonth":32}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(s, http.MethodPost, "/recurring", "alice", tt.body)
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d (%s)", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRecurringProcess(t *testing.T) {
	s, _ := newTestServer()
	do(s, http.MethodPost, "/recurring", "alice",
		`{"amount":"9.99","description":"music subscription","category":"Entertainment","frequency":"monthly","dayOfMonth":1}`)

	rec := do(s, http.MethodPost, "/recurring/process", "alice", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("process: %d (%s)", rec.Code, rec.Body.String())
	}
	result := decode[map[string]int](t, rec)
	if result["processed"] != 1 {
		t.Fatalf("processed = %d, want 1", result["processed"])
	}

	txs := decode[[]transactionJSON](t, do(s, http.MethodGet, "/transactions", "alice", ""))
	if len(txs) != 1 || txs[0].Description != "music subscription" {
		t.Fatalf("expected materialized transaction, got %+v", txs)
	}

	// Same billing period, nothing new fires.
	result = decode[map[string]int](t, do(s, http.MethodPost, "/recurring/process", "alice", ""))
	if result["processed"] != 0 {
		t.Fatalf("second run processed = %d, want 0", result["processed"])
	}
}

func TestRecurringProcessRequiresUser(t *testing.T) {
	s, _ := newTestServer()
	if rec := do(s, http.MethodPost, "/recurring/process", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestBudgetRoundTrip(t *testing.T) {
	s, _ := newTestServer()

	// Unset budget reads as zero.
	got := decode[budgetJSON](t, do(s, http.MethodGet, "/budget", "alice", ""))
	if got.MonthlyIncome != "0.00" {
		t.Fatalf("default budget = %q, want 0.00", got.MonthlyIncome)
	}

	rec := do(s, http.MethodPut, "/budget", "alice", `{"monthlyIncome":"1500.50"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("put: %d (%s)", rec.Code, rec.Body.String())
	}

	got = decode[budgetJSON](t, do(s, http.MethodGet, "/budget", "alice", ""))
	if got.MonthlyIncome != "1500.50" {
		t.Fatalf("budget = %q, want 1500.50", got.MonthlyIncome)
	}

	// Other users are unaffected.
	got = decode[budgetJSON](t, do(s, http.MethodGet, "/budget", "bob", ""))
	if got.MonthlyIncome != "0.00" {
		t.Fatalf("bob's budget = %q, want 0.00", got.MonthlyIncome)
	}
}

func TestBudgetErrors(t *testing.T) {
	s, _ := newTestServer()
	if rec := do(s, http.MethodPut, "/budget", "alice", `{"monthlyIncome":"-3"}`); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("negative income: %d", rec.Code)
	}
	if rec := do(s, http.MethodPut, "/budget", "", `{"monthlyIncome":"100"}`); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no user: %d", rec.Code)
	}
}
