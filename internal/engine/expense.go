package engine

import (
	"github.com/dueday/backend/internal/models"
	"github.com/dueday/backend/internal/recurrence"
	"github.com/dueday/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateExpense creates a new expense for the user.
//
// The next due date is fast-forwarded from the start date to the first
// occurrence on or after today: an expense created in the past starts
// current, it does not retroactively owe every missed occurrence. When
// automatic payments are requested, a scheduled payment is enqueued for the
// next due date. With payOnCreation the start date occurrence is paid
// immediately, exactly as a PayDueDate call would.
func CreateExpense(userID uuid.UUID, expense models.Expense, payOnCreation bool, today types.Date) (models.Expense, error) {
	expense.UserID = userID
	expense.Active = true

	if expense.RecurrenceRate == recurrence.Monthly && expense.DueEndOfMonth {
		expense.StartDate = expense.StartDate.LastDayOfMonth()
	}

	next, active := fastForward(expense, today)
	expense.NextDueDate = next
	expense.Active = active

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Create(&expense).Error
		if err != nil {
			return err
		}

		if expense.AutomaticPayments && expense.Active && expense.NextDueDate != nil {
			err = models.UpsertScheduledPayment(tx, expense.ID, *expense.NextDueDate, expense.AutomaticPaymentCreditCardID)
			if err != nil {
				return err
			}
		}

		if payOnCreation {
			return payDueDate(tx, &expense, PaymentRequest{
				DueDate: expense.StartDate,
				PaidOn:  &today,
			})
		}

		return nil
	})
	if err != nil {
		return models.Expense{}, err
	}

	return expense, nil
}

// fastForward returns the first occurrence of the expense on or after
// today. The second return value is false when the rule runs out of
// occurrences before reaching today.
func fastForward(expense models.Expense, today types.Date) (*types.Date, bool) {
	rule := expense.Rule()

	// A one-time expense keeps its start date, even in the past.
	if expense.RecurrenceRate == recurrence.Once {
		if rule.Exceeds(expense.StartDate) {
			return nil, false
		}
		next := expense.StartDate
		return &next, true
	}

	next := expense.StartDate
	for next.Before(today) {
		candidate, ok := rule.Next(next)
		if !ok {
			return nil, false
		}
		next = candidate
	}

	if rule.Exceeds(next) {
		return nil, false
	}

	return &next, true
}

// UpdateExpense patches a whitelisted set of fields on an expense and keeps
// the scheduled payment in sync with the result: an active expense with
// automatic payments has exactly one scheduled payment for its next due
// date, every other expense has none.
func UpdateExpense(userID, id uuid.UUID, fields map[string]any) (models.Expense, error) {
	var expense models.Expense

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		_, err := models.GetExpense(tx, userID, id)
		if err != nil {
			return err
		}

		err = models.UpdateExpenseFields(tx, id, fields)
		if err != nil {
			return err
		}

		expense, err = models.GetExpense(tx, userID, id)
		if err != nil {
			return err
		}

		return syncScheduledPayment(tx, expense)
	})
	if err != nil {
		return models.Expense{}, err
	}

	return expense, nil
}

// DeleteExpense deletes an expense together with its payments and its
// scheduled payment.
func DeleteExpense(userID, id uuid.UUID) error {
	return models.DB.Transaction(func(tx *gorm.DB) error {
		expense, err := models.GetExpense(tx, userID, id)
		if err != nil {
			return err
		}

		// Hard delete, a soft-deleted payment would still occupy the unique
		// index on (expense_id, due_date_paid).
		err = tx.Unscoped().Where("expense_id = ?", expense.ID).Delete(&models.Payment{}).Error
		if err != nil {
			return err
		}

		err = models.ClearScheduledPayments(tx, expense.ID)
		if err != nil {
			return err
		}

		return tx.Delete(&expense).Error
	})
}

// syncScheduledPayment reconciles the scheduled payment row of an expense
// with its current state.
func syncScheduledPayment(tx *gorm.DB, expense models.Expense) error {
	if expense.Active && expense.AutomaticPayments && expense.NextDueDate != nil {
		return models.UpsertScheduledPayment(tx, expense.ID, *expense.NextDueDate, expense.AutomaticPaymentCreditCardID)
	}

	return models.ClearScheduledPayments(tx, expense.ID)
}
