package engine

import (
	"github.com/dueday/backend/internal/models"
	"github.com/dueday/backend/internal/recurrence"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Unpay deletes payments of an expense, reopening their occurrences.
//
// A one-time expense is reactivated and its next due date reset to the
// start date, undoing its completed state. For recurring expenses the
// frontier is deliberately left alone: unpaying a past date reopens a gap
// that GetLateDates reports, but does not move the next due date backward.
func Unpay(userID, expenseID uuid.UUID, paymentIDs []uuid.UUID) error {
	return models.DB.Transaction(func(tx *gorm.DB) error {
		expense, err := models.GetExpense(tx, userID, expenseID)
		if err != nil {
			return err
		}

		payments, err := models.PaymentsByIDs(tx, expense.ID, paymentIDs)
		if err != nil {
			return err
		}

		if len(payments) != len(paymentIDs) {
			return ErrPaymentsNotFound
		}

		err = models.DeletePayments(tx, expense.ID, paymentIDs)
		if err != nil {
			return err
		}

		if expense.RecurrenceRate == recurrence.Once {
			return models.UpdateExpenseFields(tx, expense.ID, map[string]any{
				"active":        true,
				"next_due_date": expense.StartDate,
			})
		}

		return nil
	})
}
