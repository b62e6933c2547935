package engine

import (
	"github.com/dueday/backend/internal/models"
	"github.com/dueday/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentRequest describes the resolution of one occurrence.
type PaymentRequest struct {
	DueDate types.Date

	// Skipped resolves the occurrence without an actual payment, e.g.
	// because it was forgiven.
	Skipped bool

	// CreditCardID charges the payment to a card. Ignored for skipped
	// occurrences.
	CreditCardID *uuid.UUID

	// PaidOn is the date the payment was actually made. Defaults to today.
	PaidOn *types.Date
}

// PayDueDate resolves one occurrence of an expense.
//
// The due date must be an occurrence of the expense's recurrence rule.
// Paying the current frontier advances the next due date to the next
// unresolved occurrence; paying an older date only fills a gap and leaves
// the frontier alone. The payment, the optional card charge, the frontier
// update and the scheduled payment bookkeeping commit or roll back as one.
func PayDueDate(userID, expenseID uuid.UUID, request PaymentRequest) error {
	return models.DB.Transaction(func(tx *gorm.DB) error {
		expense, err := models.GetExpense(tx, userID, expenseID)
		if err != nil {
			return err
		}

		return payDueDate(tx, &expense, request)
	})
}

func payDueDate(tx *gorm.DB, expense *models.Expense, request PaymentRequest) error {
	if !expense.Rule().IsDueOn(request.DueDate) {
		return ErrInvalidDueDate
	}

	paidOn := types.Today()
	if request.PaidOn != nil {
		paidOn = *request.PaidOn
	}

	err := models.CreatePayment(tx, &models.Payment{
		ExpenseID:    expense.ID,
		Cost:         expense.Cost,
		DueDatePaid:  request.DueDate,
		PaymentDate:  paidOn,
		Skipped:      request.Skipped,
		CreditCardID: request.CreditCardID,
	})
	if err != nil {
		return err
	}

	if !request.Skipped && request.CreditCardID != nil {
		err = models.ChargeCreditCard(tx, expense.UserID, *request.CreditCardID, expense.Cost)
		if err != nil {
			return err
		}
	}

	// Only resolving the current frontier moves it. A late backfill of an
	// older occurrence must not touch the next due date.
	if expense.NextDueDate != nil && !request.DueDate.Before(*expense.NextDueDate) {
		err = advanceNextDueDate(tx, expense, *expense.NextDueDate)
		if err != nil {
			return err
		}
	}

	// A scheduled payment for exactly this date is now obsolete. When
	// automatic payments remain enabled, the schedule moves along to the
	// new next due date.
	deleted, err := models.DeleteScheduledPaymentFor(tx, expense.ID, request.DueDate)
	if err != nil {
		return err
	}

	if deleted && expense.Active && expense.AutomaticPayments && expense.NextDueDate != nil {
		return models.UpsertScheduledPayment(tx, expense.ID, *expense.NextDueDate, expense.AutomaticPaymentCreditCardID)
	}

	return nil
}

// advanceNextDueDate moves the frontier of an expense to the first
// occurrence from the given date onwards that has no payment yet.
//
// When the rule runs out of occurrences, or the first unresolved occurrence
// would lie past the end date, the expense is deactivated and its next due
// date cleared. The expense struct is updated in place alongside the
// database so that callers keep working with current state.
func advanceNextDueDate(tx *gorm.DB, expense *models.Expense, from types.Date) error {
	rule := expense.Rule()
	candidate := from
	active := true

	for {
		if rule.Exceeds(candidate) {
			active = false
			break
		}

		exists, err := models.PaymentExists(tx, expense.ID, candidate)
		if err != nil {
			return err
		}

		if !exists {
			break
		}

		next, ok := rule.Next(candidate)
		if !ok {
			// A one-time expense is done once its start date is resolved.
			active = false
			break
		}
		candidate = next
	}

	fields := map[string]any{}
	if active {
		expense.NextDueDate = &candidate
		fields["next_due_date"] = candidate
	} else {
		expense.Active = false
		expense.NextDueDate = nil
		fields["active"] = false
		fields["next_due_date"] = nil
	}

	return models.UpdateExpenseFields(tx, expense.ID, fields)
}

// PayAllOverdue resolves every unresolved occurrence of an expense that
// lies strictly before today, charging each to the given card if one is
// set, and reconciles the frontier to the first unresolved occurrence on or
// after today. The whole catch-up is one transaction.
func PayAllOverdue(userID, expenseID uuid.UUID, creditCardID *uuid.UUID, today types.Date) error {
	return models.DB.Transaction(func(tx *gorm.DB) error {
		expense, err := models.GetExpense(tx, userID, expenseID)
		if err != nil {
			return err
		}

		rule := expense.Rule()
		occurrence := expense.StartDate

		for occurrence.Before(today) {
			if rule.Exceeds(occurrence) {
				break
			}

			exists, err := models.PaymentExists(tx, expense.ID, occurrence)
			if err != nil {
				return err
			}

			if !exists {
				err = models.CreatePayment(tx, &models.Payment{
					ExpenseID:    expense.ID,
					Cost:         expense.Cost,
					DueDatePaid:  occurrence,
					PaymentDate:  today,
					CreditCardID: creditCardID,
				})
				if err != nil {
					return err
				}

				if creditCardID != nil {
					err = models.ChargeCreditCard(tx, expense.UserID, *creditCardID, expense.Cost)
					if err != nil {
						return err
					}
				}
			}

			next, ok := rule.Next(occurrence)
			if !ok {
				break
			}
			occurrence = next
		}

		// occurrence now is the first occurrence on or after today, or the
		// last one before the rule ran out. Advancing from it settles the
		// frontier on the first unresolved occurrence and deactivates the
		// expense when there is none.
		err = advanceNextDueDate(tx, &expense, occurrence)
		if err != nil {
			return err
		}

		return syncScheduledPayment(tx, expense)
	})
}
