// Package recurrence decides which calendar dates an expense is due on.
//
// Everything in this package is a pure function over a Rule and a Date so
// that the due date logic can be tested against literal date tables.
package recurrence

import (
	"errors"
	"time"

	"github.com/dueday/backend/internal/types"
)

// Rate is how often an expense recurs.
type Rate string

const (
	Once    Rate = "once"
	Daily   Rate = "daily"
	Weekly  Rate = "weekly"
	Monthly Rate = "monthly"
	Yearly  Rate = "yearly"
)

var ErrInvalidRate = errors.New("the recurrence rate must be one of: once, daily, weekly, monthly, yearly")

// Valid reports whether the rate is one of the known rates.
func (r Rate) Valid() bool {
	switch r {
	case Once, Daily, Weekly, Monthly, Yearly:
		return true
	}

	return false
}

// Rule describes the occurrences of an expense.
type Rule struct {
	Rate      Rate
	StartDate types.Date

	// EndDate is the inclusive upper bound for occurrences. Nil means the
	// rule never ends.
	EndDate *types.Date

	// DueEndOfMonth anchors every occurrence of a monthly rule to the last
	// calendar day of its month. It has no effect on other rates.
	DueEndOfMonth bool
}

// IsDueOn reports whether date is an occurrence of the rule.
func (r Rule) IsDueOn(date types.Date) bool {
	if date.Before(r.StartDate) {
		return false
	}

	if r.EndDate != nil && date.After(*r.EndDate) {
		return false
	}

	switch r.Rate {
	case Once:
		return date.Equal(r.StartDate)

	case Daily:
		return true

	case Weekly:
		return date.DaysSince(r.StartDate)%7 == 0

	case Monthly:
		if r.DueEndOfMonth {
			return date.IsLastDayOfMonth()
		}
		return date.Day() == r.StartDate.Day()

	case Yearly:
		return date.Month() == r.StartDate.Month() && date.Day() == r.StartDate.Day()
	}

	return false
}

// Next returns the occurrence of the rule after from.
//
// The second return value is false when the rule has no further occurrence,
// which is the case for Once. The end date is not checked here: whether a
// would-be occurrence past the end date deactivates the expense is the
// caller's decision.
func (r Rule) Next(from types.Date) (types.Date, bool) {
	return r.advance(from, 1)
}

// Previous returns the occurrence of the rule before from.
//
// The second return value is false when there is no earlier occurrence.
func (r Rule) Previous(from types.Date) (types.Date, bool) {
	return r.advance(from, -1)
}

// Exceeds reports whether a date is past the rule's end date.
func (r Rule) Exceeds(date types.Date) bool {
	return r.EndDate != nil && date.After(*r.EndDate)
}

func (r Rule) advance(from types.Date, direction int) (types.Date, bool) {
	switch r.Rate {
	case Once:
		return types.Date{}, false

	case Daily:
		return from.AddDate(0, 0, direction), true

	case Weekly:
		return from.AddDate(0, 0, 7*direction), true

	case Monthly:
		if r.DueEndOfMonth {
			// Step to the first of the adjacent month, then re-snap to
			// that month's last day.
			first := types.NewDate(from.Year(), from.Month(), 1)
			return first.AddDate(0, direction, 0).LastDayOfMonth(), true
		}

		// Anchored to the start date's day of the month. Months too short
		// for the anchor day are not occurrences and are stepped over,
		// which keeps Next consistent with IsDueOn.
		day := r.StartDate.Day()
		year, month := from.Year(), from.Month()
		for {
			month += time.Month(direction)
			if types.DaysInMonth(year, month) >= day {
				return types.NewDate(year, month, day), true
			}
		}

	case Yearly:
		// A February 29 anchor only recurs in leap years.
		year := from.Year()
		for {
			year += direction
			if types.DaysInMonth(year, r.StartDate.Month()) >= r.StartDate.Day() {
				return types.NewDate(year, r.StartDate.Month(), r.StartDate.Day()), true
			}
		}
	}

	return types.Date{}, false
}
