// Package budget implements the aggregation engine: pure functions over
// transaction lists that produce totals, category breakdowns and derived
// spending insights. Nothing in this package touches storage or mutates
// its inputs.
package budget

import (
	"strings"
	"time"

	"pitaka/internal/core"
)

const (
	FilterAll   DateFilter = "all"
	FilterToday DateFilter = "today"
	FilterWeek  DateFilter = "week"
	FilterMonth DateFilter = "month"
)

// DateFilter selects the evaluation window for dashboard aggregates.
type DateFilter string

func (f DateFilter) Valid() bool {
	switch f {
	case FilterAll, FilterToday, FilterWeek, FilterMonth:
		return true
	default:
		return false
	}
}

// FilterByDate returns the transactions inside the filter window relative to
// now. "today" matches the calendar date, "week" is a rolling 7x24h window
// ending at now (not aligned to week boundaries), "month" matches the
// calendar month and year. "all" returns a copy of the input unchanged.
func FilterByDate(txs []core.Transaction, f DateFilter, now time.Time) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	weekAgo := now.Add(-7 * 24 * time.Hour)
	for _, tx := range txs {
		switch f {
		case FilterToday:
			if core.SameDay(now, tx.Date) {
				out = append(out, tx)
			}
		case FilterWeek:
			if !tx.Date.Before(weekAgo) {
				out = append(out, tx)
			}
		case FilterMonth:
			if tx.Date.Year() == now.Year() && tx.Date.Month() == now.Month() {
				out = append(out, tx)
			}
		default:
			out = append(out, tx)
		}
	}
	return out
}

// FilterBySearch keeps transactions whose description or category contains
// the query, case-insensitively. An empty query matches everything.
func FilterBySearch(txs []core.Transaction, query string) []core.Transaction {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		out := make([]core.Transaction, len(txs))
		copy(out, txs)
		return out
	}
	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if strings.Contains(strings.ToLower(tx.Description), query) ||
			strings.Contains(strings.ToLower(tx.Category), query) {
			out = append(out, tx)
		}
	}
	return out
}
