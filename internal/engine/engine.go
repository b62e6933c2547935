// Package engine implements the payment and scheduling use cases.
//
// Every exported operation runs as one transaction against models.DB: it
// either commits all of its writes or none of them. The engine is the only
// writer of an expense's next due date and active flag.
package engine

import (
	"errors"
)

var (
	// ErrInvalidDueDate is returned when a date is not an occurrence of
	// the expense's recurrence rule.
	ErrInvalidDueDate = errors.New("this date is not a due date of the expense")

	// ErrInvalidDateRange is returned when the end of a date range lies
	// before its start.
	ErrInvalidDateRange = errors.New("the end of the date range must not be before its start")

	// ErrAmountNotPositive is returned when a manual card payment is
	// recorded with a zero or negative amount.
	ErrAmountNotPositive = errors.New("the payment amount must be positive")

	// ErrPaymentsNotFound is returned when payments to delete do not all
	// belong to the given expense.
	ErrPaymentsNotFound = errors.New("not all specified payments belong to this expense")
)
