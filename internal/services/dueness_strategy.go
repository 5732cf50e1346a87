// Package services provides business logic and orchestration services.
//
// This file implements the Strategy Pattern for recurring transaction dueness
// checking. Each frequency (monthly, weekly, biweekly) has its own strategy
// that encapsulates the logic for determining if a definition is due.

package services

import (
	"fmt"
	"time"

	"pitaka/internal/core"
)

// DuenessChecker is the strategy interface for checking if a recurring
// definition is due. Each implementation encapsulates the algorithm for a
// specific frequency.
type DuenessChecker interface {
	// IsDue returns true if the definition should materialize now. Inactive
	// definitions are filtered by the caller; checkers only look at timing.
	IsDue(def core.RecurringDefinition, now time.Time) bool
}

// MonthlyChecker implements DuenessChecker for monthly definitions.
type MonthlyChecker struct{}

// IsDue returns true once per calendar month, when the target day is reached.
// A target day past the end of a short month clamps to its last day, so a
// definition for the 31st still fires in February.
func (MonthlyChecker) IsDue(def core.RecurringDefinition, now time.Time) bool {
	last := def.LastMaterialized

	// Already fired this month?
	if !last.IsZero() && last.Year() == now.Year() && last.Month() == now.Month() {
		return false
	}

	targetDay := def.DayOfMonth
	if lastDay := core.DaysInMonth(now); targetDay > lastDay {
		targetDay = lastDay
	}

	return now.Day() >= targetDay
}

// WeeklyChecker implements DuenessChecker for weekly definitions.
type WeeklyChecker struct{}

// IsDue returns true if 7 or more days have passed since the definition last
// fired, anchored on creation time when it never has.
func (WeeklyChecker) IsDue(def core.RecurringDefinition, now time.Time) bool {
	return rollingDue(def, now, core.Weekly.Interval())
}

// BiweeklyChecker implements DuenessChecker for biweekly definitions.
type BiweeklyChecker struct{}

// IsDue returns true if 14 or more days have passed since the definition last
// fired, anchored on creation time when it never has.
func (BiweeklyChecker) IsDue(def core.RecurringDefinition, now time.Time) bool {
	return rollingDue(def, now, core.Biweekly.Interval())
}

func rollingDue(def core.RecurringDefinition, now time.Time, intervalDays int) bool {
	anchor := def.LastMaterialized
	if anchor.IsZero() {
		anchor = def.CreatedAt
	}
	if anchor.IsZero() {
		return true
	}
	daysSince := now.Sub(anchor).Hours() / 24
	return daysSince >= float64(intervalDays)
}

// duenessStrategies maps frequencies to their corresponding checkers.
var duenessStrategies = map[core.Frequency]DuenessChecker{
	core.Monthly:  MonthlyChecker{},
	core.Weekly:   WeeklyChecker{},
	core.Biweekly: BiweeklyChecker{},
}

// GetDuenessChecker returns the appropriate dueness checker for a frequency.
// Returns an error if the frequency is not supported.
func GetDuenessChecker(frequency core.Frequency) (DuenessChecker, error) {
	checker, ok := duenessStrategies[frequency]
	if !ok {
		return nil, fmt.Errorf("unknown frequency: %s", frequency)
	}
	return checker, nil
}

// RegisterDuenessChecker allows registering custom dueness checkers for new
// frequencies without modifying the processor.
func RegisterDuenessChecker(frequency core.Frequency, checker DuenessChecker) {
	duenessStrategies[frequency] = checker
}
