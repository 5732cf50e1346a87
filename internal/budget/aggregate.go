package budget

import (
	"sort"
	"time"

	"pitaka/internal/core"
)

// CategoryStat is one row of a category breakdown.
type CategoryStat struct {
	Name       string
	Total      core.Money
	Average    float64 // mean expense in cents, fractional
	Count      int
	Percentage float64 // share of the total expense, 0-100
}

// WeekdayTotal is the aggregate spend for one weekday across all history.
type WeekdayTotal struct {
	Weekday string
	Total   core.Money
}

// TotalExpense sums the amounts of expense-typed transactions. Entries with
// other types are reserved for future income tracking and excluded.
func TotalExpense(txs []core.Transaction) core.Money {
	var cents int64
	for _, tx := range txs {
		if tx.Type == core.TypeExpense {
			cents += tx.Amount.Cents
		}
	}
	return core.Money{Cents: cents}
}

// SafeToSpend is budget minus spend. A negative result signals overspend and
// is returned as-is; clamping is a presentation decision.
func SafeToSpend(budget, totalExpense core.Money) core.Money {
	return core.Money{Cents: budget.Cents - totalExpense.Cents}
}

// CategoryBreakdown groups expense transactions by category and returns one
// stat per category, sorted by total descending. Ties keep the order in
// which categories were first encountered. Percentage is the category's
// share of the overall expense total, zero when nothing was spent.
func CategoryBreakdown(txs []core.Transaction) []CategoryStat {
	index := make(map[string]int)
	var stats []CategoryStat
	for _, tx := range txs {
		if tx.Type != core.TypeExpense {
			continue
		}
		i, ok := index[tx.Category]
		if !ok {
			i = len(stats)
			index[tx.Category] = i
			stats = append(stats, CategoryStat{Name: tx.Category})
		}
		stats[i].Total.Cents += tx.Amount.Cents
		stats[i].Count++
	}

	total := TotalExpense(txs)
	for i := range stats {
		stats[i].Average = float64(stats[i].Total.Cents) / float64(stats[i].Count)
		if total.Cents > 0 {
			stats[i].Percentage = float64(stats[i].Total.Cents) / float64(total.Cents) * 100
		}
	}

	sort.SliceStable(stats, func(a, b int) bool {
		return stats[a].Total.Cents > stats[b].Total.Cents
	})
	return stats
}

// TopCategories truncates a breakdown to its n largest rows.
func TopCategories(stats []CategoryStat, n int) []CategoryStat {
	if n < 0 || n > len(stats) {
		n = len(stats)
	}
	return stats[:n]
}

// DailyAverage is the month-to-date spend divided by the current day of the
// month. Returns 0 when the day is 0 so callers never divide by zero.
func DailyAverage(monthlyExpense core.Money, currentDayOfMonth int) float64 {
	if currentDayOfMonth == 0 {
		return 0
	}
	return float64(monthlyExpense.Cents) / float64(currentDayOfMonth)
}

// ProjectedMonthly extrapolates the daily average across the whole month.
func ProjectedMonthly(dailyAverage float64, daysInMonth int) float64 {
	return dailyAverage * float64(daysInMonth)
}

// Last7DaysSpending sums expenses whose date falls within the last seven
// whole days relative to now (0 <= now-date in days < 7). Future-dated
// entries are excluded.
func Last7DaysSpending(txs []core.Transaction, now time.Time) core.Money {
	var cents int64
	for _, tx := range txs {
		if tx.Type != core.TypeExpense {
			continue
		}
		days := int(now.Sub(tx.Date).Hours() / 24)
		if now.Before(tx.Date) {
			continue
		}
		if days >= 0 && days < 7 {
			cents += tx.Amount.Cents
		}
	}
	return core.Money{Cents: cents}
}

// WeeklyAverage divides a 7-day total by a fixed 7, regardless of how many
// of those days actually had activity.
func WeeklyAverage(last7Days core.Money) float64 {
	return float64(last7Days.Cents) / 7
}

// TopSpendingDay sums expense amounts per weekday across all history and
// returns the weekday with the largest total. The second return is false
// when there are no expense transactions. Ties resolve to the weekday
// encountered first in input order.
func TopSpendingDay(txs []core.Transaction) (WeekdayTotal, bool) {
	totals := make(map[string]int64)
	var order []string
	for _, tx := range txs {
		if tx.Type != core.TypeExpense {
			continue
		}
		day := tx.Date.Weekday().String()
		if _, seen := totals[day]; !seen {
			order = append(order, day)
		}
		totals[day] += tx.Amount.Cents
	}
	if len(order) == 0 {
		return WeekdayTotal{}, false
	}
	top := order[0]
	for _, day := range order[1:] {
		if totals[day] > totals[top] {
			top = day
		}
	}
	return WeekdayTotal{Weekday: top, Total: core.Money{Cents: totals[top]}}, true
}
