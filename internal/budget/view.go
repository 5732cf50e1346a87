package budget

import (
	"sort"
	"time"

	"pitaka/internal/core"
)

// topCategoryCount matches the dashboard's truncated category list.
const topCategoryCount = 4

// recentTransactionCount caps the dashboard's transaction feed.
const recentTransactionCount = 10

// DashboardView is everything the dashboard screen renders: filtered totals,
// safe-to-spend, budget progress and the top categories.
type DashboardView struct {
	Filter          DateFilter
	Budget          core.Money
	TotalExpense    core.Money
	SafeToSpend     core.Money
	SpendingPercent float64 // spend as a share of budget, 0 when no budget set
	Categories      []CategoryStat
	Recent          []core.Transaction
}

// Insights is the derived-statistics block of the reports screen.
type Insights struct {
	DailyAverage     float64 // cents per day, month to date
	ProjectedMonthly float64 // cents, extrapolated to the full month
	OverBudget       bool    // projection exceeds the budget
	ProjectedOverrun float64 // cents over budget when OverBudget
	Last7Days        core.Money
	WeeklyAverage    float64 // cents per day over a fixed 7-day denominator
	TopDay           WeekdayTotal
	HasTopDay        bool
}

// ReportView covers the reports screen: all-history totals, the full
// category breakdown with percentages, and the insights block.
type ReportView struct {
	Budget         core.Money
	TotalExpense   core.Money
	Remaining      core.Money
	MonthlyExpense core.Money
	MonthlySavings core.Money
	Categories     []CategoryStat
	Insights       Insights
}

// BuildDashboard applies the date filter and search query, then derives the
// dashboard aggregates. The input slice is never mutated.
func BuildDashboard(txs []core.Transaction, budget core.Money, filter DateFilter, query string, now time.Time) DashboardView {
	filtered := FilterBySearch(FilterByDate(txs, filter, now), query)
	total := TotalExpense(filtered)

	view := DashboardView{
		Filter:       filter,
		Budget:       budget,
		TotalExpense: total,
		SafeToSpend:  SafeToSpend(budget, total),
		Categories:   TopCategories(CategoryBreakdown(filtered), topCategoryCount),
		Recent:       recentExpenses(filtered, recentTransactionCount),
	}
	if budget.Cents > 0 {
		view.SpendingPercent = float64(total.Cents) / float64(budget.Cents) * 100
	}
	return view
}

// BuildReport derives the reports screen from the full transaction history.
// Totals and the breakdown span all history; the monthly figures cover the
// calendar month of now; the 7-day window trails now.
func BuildReport(txs []core.Transaction, budget core.Money, now time.Time) ReportView {
	total := TotalExpense(txs)
	monthly := TotalExpense(FilterByDate(txs, FilterMonth, now))

	daily := DailyAverage(monthly, now.Day())
	projected := ProjectedMonthly(daily, core.DaysInMonth(now))
	last7 := Last7DaysSpending(txs, now)
	topDay, hasTop := TopSpendingDay(txs)

	insights := Insights{
		DailyAverage:     daily,
		ProjectedMonthly: projected,
		Last7Days:        last7,
		WeeklyAverage:    WeeklyAverage(last7),
		TopDay:           topDay,
		HasTopDay:        hasTop,
	}
	if projected > float64(budget.Cents) {
		insights.OverBudget = true
		insights.ProjectedOverrun = projected - float64(budget.Cents)
	}

	return ReportView{
		Budget:         budget,
		TotalExpense:   total,
		Remaining:      SafeToSpend(budget, total),
		MonthlyExpense: monthly,
		MonthlySavings: SafeToSpend(budget, monthly),
		Categories:     CategoryBreakdown(txs),
		Insights:       insights,
	}
}

// recentExpenses returns up to n expense transactions, newest first. Sorting
// happens on a copy so the caller's slice keeps its order.
func recentExpenses(txs []core.Transaction, n int) []core.Transaction {
	expenses := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Type == core.TypeExpense {
			expenses = append(expenses, tx)
		}
	}
	sort.SliceStable(expenses, func(a, b int) bool {
		return expenses[a].Date.After(expenses[b].Date)
	})
	if len(expenses) > n {
		expenses = expenses[:n]
	}
	return expenses
}
