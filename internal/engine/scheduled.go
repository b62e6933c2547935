package engine

import (
	"github.com/dueday/backend/internal/models"
	"github.com/dueday/backend/internal/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var scheduledProcessed = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "scheduled_payments_processed_total",
		Help: "How many scheduled payments were executed successfully.",
	},
)

var scheduledFailed = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "scheduled_payments_failed_total",
		Help: "How many scheduled payments failed to execute.",
	},
)

func init() {
	prometheus.MustRegister(scheduledProcessed, scheduledFailed)
}

// RunScheduledPayments executes every scheduled payment that is due on or
// before asOf.
//
// Each queue entry is processed in its own transaction: one expense's
// failure is logged and counted, but does not abort the rest of the batch.
// When an expense has fallen several occurrences behind, all of them are
// caught up in the entry's transaction before the next occurrence is
// enqueued.
//
// The batch is idempotent: an executed entry is removed together with its
// payment, and a payment that already exists surfaces as
// ErrPaymentAlreadyResolved and rolls back only that entry.
func RunScheduledPayments(asOf types.Date) (processed, failed int) {
	entries, err := models.ScheduledPaymentsDueBy(models.DB, asOf)
	if err != nil {
		log.Error().Err(err).Msg("loading scheduled payments failed")
		return 0, 0
	}

	for _, entry := range entries {
		err := runScheduledPayment(entry, asOf)
		if err != nil {
			failed++
			scheduledFailed.Inc()
			log.Error().
				Err(err).
				Str("expense-id", entry.ExpenseID.String()).
				Str("due-date", entry.DueDate.String()).
				Msg("scheduled payment failed")
			continue
		}

		processed++
		scheduledProcessed.Inc()
	}

	if len(entries) > 0 {
		log.Info().
			Int("processed", processed).
			Int("failed", failed).
			Msg("scheduled payment run complete")
	}

	return processed, failed
}

func runScheduledPayment(entry models.ScheduledPayment, asOf types.Date) error {
	return models.DB.Transaction(func(tx *gorm.DB) error {
		expense, err := models.GetExpense(tx, entry.Expense.UserID, entry.ExpenseID)
		if err != nil {
			return err
		}

		err = models.DeleteScheduledPayment(tx, entry.ID)
		if err != nil {
			return err
		}

		// The entry is stale when the expense was deactivated or automatic
		// payments were turned off after it was enqueued. Dropping it is
		// all that is left to do then.
		if !expense.Active || !expense.AutomaticPayments {
			return nil
		}

		due := entry.DueDate
		for {
			if !expense.Rule().IsDueOn(due) {
				return ErrInvalidDueDate
			}

			err = models.CreatePayment(tx, &models.Payment{
				ExpenseID:    expense.ID,
				Cost:         expense.Cost,
				DueDatePaid:  due,
				PaymentDate:  asOf,
				CreditCardID: entry.CreditCardID,
			})
			if err != nil {
				return err
			}

			if entry.CreditCardID != nil {
				err = models.ChargeCreditCard(tx, expense.UserID, *entry.CreditCardID, expense.Cost)
				if err != nil {
					return err
				}
			}

			err = advanceNextDueDate(tx, &expense, due)
			if err != nil {
				return err
			}

			if !expense.Active || expense.NextDueDate == nil {
				return nil
			}

			// Catch up every occurrence that has elapsed since the last
			// run in the same transaction.
			if !expense.NextDueDate.After(asOf) {
				due = *expense.NextDueDate
				continue
			}

			return models.UpsertScheduledPayment(tx, expense.ID, *expense.NextDueDate, expense.AutomaticPaymentCreditCardID)
		}
	})
}
