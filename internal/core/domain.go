package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Monthly  Frequency = "monthly"
	Weekly   Frequency = "weekly"
	Biweekly Frequency = "biweekly"
)

// TypeExpense is the only transaction type written today. The field exists so
// income tracking can be added without a schema change.
const TypeExpense = "expense"

type (
	Frequency string

	Money struct {
		Cents int64
	}

	// Transaction is a single ledger entry owned by one user.
	Transaction struct {
		ID          string
		Amount      Money
		Description string
		Category    string
		Type        string
		Date        time.Time
		UserID      string
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}

	// RecurringDefinition is a template that materializes into transactions
	// on its cadence. LastMaterialized is the dedup cursor: a definition
	// never fires twice for the same period.
	RecurringDefinition struct {
		ID               string
		Amount           Money
		Description      string
		Category         string
		Frequency        Frequency
		DayOfMonth       int // 1-31, meaningful only for Monthly
		IsActive         bool
		CreatedAt        time.Time
		LastMaterialized time.Time
	}

	// BudgetSetting is the per-user monthly budget ceiling. It is a
	// singleton document, merged on each save.
	BudgetSetting struct {
		MonthlyIncome Money
		UpdatedAt     time.Time
	}
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrEmptyDescription  = errors.New("empty description")
	ErrEmptyCategory     = errors.New("empty category")
	ErrInvalidFrequency  = errors.New("invalid frequency")
	ErrInvalidDayOfMonth = errors.New("day of month must be between 1 and 31")
	ErrInvalidDate       = errors.New("invalid date")
	ErrUnauthenticated   = errors.New("no authenticated user")
	ErrNotFound          = errors.New("not found")
)

func (f Frequency) Valid() bool {
	switch f {
	case Monthly, Weekly, Biweekly:
		return true
	default:
		return false
	}
}

// Interval returns the cadence length in days for rolling frequencies.
// Monthly is calendar-based and has no fixed day interval.
func (f Frequency) Interval() int {
	switch f {
	case Weekly:
		return 7
	case Biweekly:
		return 14
	default:
		return 0
	}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (rd RecurringDefinition) Validate() error {
	if err := rd.Amount.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(rd.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(rd.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if strings.TrimSpace(rd.Category) == "" {
		return ErrEmptyCategory
	}
	if !rd.Frequency.Valid() {
		return ErrInvalidFrequency
	}
	if rd.Frequency == Monthly && (rd.DayOfMonth < 1 || rd.DayOfMonth > 31) {
		return ErrInvalidDayOfMonth
	}
	return nil
}

func (b BudgetSetting) Validate() error {
	if b.MonthlyIncome.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// SameDay reports whether two instants fall on the same calendar date in the
// location of a.
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.In(a.Location()).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// DaysInMonth returns the number of calendar days in t's month.
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
