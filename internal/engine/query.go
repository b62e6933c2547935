package engine

import (
	"github.com/dueday/backend/internal/models"
	"github.com/dueday/backend/internal/types"
	"github.com/google/uuid"
)

// LateDates returns every occurrence of an expense that lies strictly
// before today and has no payment, oldest first. A pure read, nothing is
// mutated.
func LateDates(userID, expenseID uuid.UUID, today types.Date) ([]types.Date, error) {
	expense, err := models.GetExpense(models.DB, userID, expenseID)
	if err != nil {
		return nil, err
	}

	payments, err := models.PaymentsForExpense(models.DB, expense.ID)
	if err != nil {
		return nil, err
	}

	resolved := make(map[string]bool, len(payments))
	for _, payment := range payments {
		resolved[payment.DueDatePaid.String()] = true
	}

	rule := expense.Rule()
	late := []types.Date{}

	occurrence := expense.StartDate
	for occurrence.Before(today) {
		if rule.Exceeds(occurrence) {
			break
		}

		if !resolved[occurrence.String()] {
			late = append(late, occurrence)
		}

		next, ok := rule.Next(occurrence)
		if !ok {
			break
		}
		occurrence = next
	}

	return late, nil
}

// ExpensesForRange returns the user's expenses grouped by the dates in
// [start, end] they are due on. The map keys are dates in YYYY-MM-DD form.
// Dates without any due expense are absent from the map.
func ExpensesForRange(userID uuid.UUID, start, end types.Date) (map[string][]models.Expense, error) {
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	expenses, err := models.ExpensesForUser(models.DB, userID)
	if err != nil {
		return nil, err
	}

	due := make(map[string][]models.Expense)
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		for _, expense := range expenses {
			if expense.Rule().IsDueOn(date) {
				due[date.String()] = append(due[date.String()], expense)
			}
		}
	}

	return due, nil
}
