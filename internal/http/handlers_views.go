package http

import (
	"net/http"
	"strings"
	"time"

	"pitaka/internal/budget"
)

type categoryStatJSON struct {
	Name       string  `json:"name"`
	Total      string  `json:"total"`
	Average    float64 `json:"average"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

func toCategoryStatsJSON(stats []budget.CategoryStat) []categoryStatJSON {
	out := make([]categoryStatJSON, len(stats))
	for i, st := range stats {
		out[i] = categoryStatJSON{
			Name:       st.Name,
			Total:      formatAmount(st.Total.Cents),
			Average:    st.Average / 100,
			Count:      st.Count,
			Percentage: st.Percentage,
		}
	}
	return out
}

type dashboardJSON struct {
	Filter          string             `json:"filter"`
	Budget          string             `json:"budget"`
	TotalExpense    string             `json:"totalExpense"`
	SafeToSpend     string             `json:"safeToSpend"`
	SpendingPercent float64            `json:"spendingPercent"`
	Categories      []categoryStatJSON `json:"categories"`
	Recent          []transactionJSON  `json:"recent"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	filter := budget.FilterAll
	if v := strings.TrimSpace(r.URL.Query().Get("filter")); v != "" {
		filter = budget.DateFilter(v)
		if !filter.Valid() {
			writeError(w, http.StatusUnprocessableEntity, "invalid filter, expected all|today|week|month")
			return
		}
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	user := userID(r)
	txs, err := s.transactions.List(r.Context(), user)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	setting, err := s.settings.Get(r.Context(), user)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	view := budget.BuildDashboard(txs, setting.MonthlyIncome, filter, query, time.Now())

	out := dashboardJSON{
		Filter:          string(view.Filter),
		Budget:          formatAmount(view.Budget.Cents),
		TotalExpense:    formatAmount(view.TotalExpense.Cents),
		SafeToSpend:     formatAmount(view.SafeToSpend.Cents),
		SpendingPercent: view.SpendingPercent,
		Categories:      toCategoryStatsJSON(view.Categories),
		Recent:          make([]transactionJSON, len(view.Recent)),
	}
	for i, tx := range view.Recent {
		out.Recent[i] = toTransactionJSON(tx)
	}
	writeJSON(w, http.StatusOK, out)
}

type insightsJSON struct {
	DailyAverage     float64 `json:"dailyAverage"`
	ProjectedMonthly float64 `json:"projectedMonthly"`
	OverBudget       bool    `json:"overBudget"`
	ProjectedOverrun float64 `json:"projectedOverrun"`
	Last7Days        string  `json:"last7Days"`
	WeeklyAverage    float64 `json:"weeklyAverage"`
	TopDay           string  `json:"topDay,omitempty"`
	TopDayTotal      string  `json:"topDayTotal,omitempty"`
}

type reportJSON struct {
	Budget         string             `json:"budget"`
	TotalExpense   string             `json:"totalExpense"`
	Remaining      string             `json:"remaining"`
	MonthlyExpense string             `json:"monthlyExpense"`
	MonthlySavings string             `json:"monthlySavings"`
	Categories     []categoryStatJSON `json:"categories"`
	Insights       insightsJSON       `json:"insights"`
}

// handleReport renders the reports view over the user's full history.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	user := userID(r)
	txs, err := s.transactions.List(r.Context(), user)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	setting, err := s.settings.Get(r.Context(), user)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	view := budget.BuildReport(txs, setting.MonthlyIncome, time.Now())

	out := reportJSON{
		Budget:         formatAmount(view.Budget.Cents),
		TotalExpense:   formatAmount(view.TotalExpense.Cents),
		Remaining:      formatAmount(view.Remaining.Cents),
		MonthlyExpense: formatAmount(view.MonthlyExpense.Cents),
		MonthlySavings: formatAmount(view.MonthlySavings.Cents),
		Categories:     toCategoryStatsJSON(view.Categories),
		Insights: insightsJSON{
			DailyAverage:     view.Insights.DailyAverage / 100,
			ProjectedMonthly: view.Insights.ProjectedMonthly / 100,
			OverBudget:       view.Insights.OverBudget,
			ProjectedOverrun: view.Insights.ProjectedOverrun / 100,
			Last7Days:        formatAmount(view.Insights.Last7Days.Cents),
			WeeklyAverage:    view.Insights.WeeklyAverage / 100,
		},
	}
	if view.Insights.HasTopDay {
		out.Insights.TopDay = view.Insights.TopDay.Weekday
		out.Insights.TopDayTotal = formatAmount(view.Insights.TopDay.Total.Cents)
	}
	writeJSON(w, http.StatusOK, out)
}
