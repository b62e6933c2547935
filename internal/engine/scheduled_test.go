package engine_test

import (
	"github.com/dueday/backend/internal/engine"
	"github.com/dueday/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// automaticExpense creates a monthly expense with automatic payments,
// charged to the given card if one is passed.
func (suite *TestSuiteStandard) automaticExpense(userID uuid.UUID, cardID *uuid.UUID) models.Expense {
	expense := monthlyExpense(userID)
	expense.AutomaticPayments = true
	expense.AutomaticPaymentCreditCardID = cardID

	created, err := engine.CreateExpense(userID, expense, false, date(2025, 1, 15))
	suite.Require().NoError(err)

	return created
}

func (suite *TestSuiteStandard) TestRunScheduledPayments() {
	userID := uuid.New()
	card := suite.createTestCreditCard(userID)
	expense := suite.automaticExpense(userID, &card.ID)

	processed, failed := engine.RunScheduledPayments(date(2025, 1, 15))
	suite.Assert().Equal(1, processed)
	suite.Assert().Equal(0, failed)

	payments, err := models.PaymentsForExpense(models.DB, expense.ID)
	suite.Require().NoError(err)
	suite.Require().Len(payments, 1)
	suite.Assert().True(date(2025, 1, 15).Equal(payments[0].DueDatePaid))
	suite.Assert().Equal(&card.ID, payments[0].CreditCardID)

	suite.Assert().True(suite.cardBalance(card).Equal(decimal.NewFromFloat(100)))

	// The next occurrence is enqueued for the following run
	scheduled, err := models.ScheduledPaymentsDueBy(models.DB, date(2025, 12, 31))
	suite.Require().NoError(err)
	suite.Require().Len(scheduled, 1)
	suite.Assert().True(date(2025, 2, 15).Equal(scheduled[0].DueDate))
}

func (suite *TestSuiteStandard) TestRunScheduledPaymentsCatchesUp() {
	userID := uuid.New()
	expense := suite.automaticExpense(userID, nil)

	// The timer was down for two months, all elapsed occurrences are
	// executed in one run.
	processed, failed := engine.RunScheduledPayments(date(2025, 3, 20))
	suite.Assert().Equal(1, processed)
	suite.Assert().Equal(0, failed)

	suite.Assert().Equal(3, suite.paymentCount(expense.ID), "January through March have elapsed")

	reloaded := suite.reloadExpense(expense)
	suite.Require().NotNil(reloaded.NextDueDate)
	suite.Assert().True(date(2025, 4, 15).Equal(*reloaded.NextDueDate))
}

func (suite *TestSuiteStandard) TestRunScheduledPaymentsIdempotent() {
	userID := uuid.New()
	expense := suite.automaticExpense(userID, nil)

	processed, _ := engine.RunScheduledPayments(date(2025, 1, 15))
	suite.Assert().Equal(1, processed)

	processed, failed := engine.RunScheduledPayments(date(2025, 1, 15))
	suite.Assert().Equal(0, processed, "nothing is due anymore on the second run")
	suite.Assert().Equal(0, failed)

	suite.Assert().Equal(1, suite.paymentCount(expense.ID))
}

func (suite *TestSuiteStandard) TestRunScheduledPaymentsFailureIsolation() {
	userID := uuid.New()
	healthy := suite.automaticExpense(userID, nil)
	broken := suite.automaticExpense(userID, nil)

	// Corrupt one expense so that its scheduled payment cannot execute
	err := models.DB.Exec(
		"UPDATE expenses SET recurrence_rate = ? WHERE id = ?",
		"corrupted", broken.ID,
	).Error
	suite.Require().NoError(err)

	processed, failed := engine.RunScheduledPayments(date(2025, 1, 15))
	suite.Assert().Equal(1, processed, "the healthy expense is still executed")
	suite.Assert().Equal(1, failed)

	suite.Assert().Equal(1, suite.paymentCount(healthy.ID))
	suite.Assert().Equal(0, suite.paymentCount(broken.ID))

	// The failed entry rolls back and stays queued for the next run
	var count int64
	err = models.DB.Model(&models.ScheduledPayment{}).
		Where("expense_id = ?", broken.ID).
		Count(&count).Error
	suite.Require().NoError(err)
	suite.Assert().Equal(int64(1), count)
}

func (suite *TestSuiteStandard) TestRunScheduledPaymentsDropsStaleEntry() {
	userID := uuid.New()
	expense := suite.automaticExpense(userID, nil)

	// Automatic payments were turned off after the entry was enqueued
	err := models.UpdateExpenseFields(models.DB, expense.ID, map[string]any{"automatic_payments": false})
	suite.Require().NoError(err)

	processed, failed := engine.RunScheduledPayments(date(2025, 1, 15))
	suite.Assert().Equal(1, processed)
	suite.Assert().Equal(0, failed)

	suite.Assert().Equal(0, suite.paymentCount(expense.ID), "a stale entry is dropped without paying")

	scheduled, err := models.ScheduledPaymentsDueBy(models.DB, date(2025, 12, 31))
	suite.Require().NoError(err)
	suite.Assert().Len(scheduled, 0)
}

func (suite *TestSuiteStandard) TestRunScheduledPaymentsEndDateDeactivates() {
	userID := uuid.New()

	endDate := date(2025, 2, 15)
	expense := monthlyExpense(userID)
	expense.AutomaticPayments = true
	expense.EndDate = &endDate

	created, err := engine.CreateExpense(userID, expense, false, date(2025, 1, 15))
	suite.Require().NoError(err)

	processed, failed := engine.RunScheduledPayments(date(2025, 3, 20))
	suite.Assert().Equal(1, processed)
	suite.Assert().Equal(0, failed)

	suite.Assert().Equal(2, suite.paymentCount(created.ID), "only the occurrences up to the end date are paid")

	reloaded := suite.reloadExpense(created)
	suite.Assert().False(reloaded.Active)
	suite.Assert().Nil(reloaded.NextDueDate)

	scheduled, err := models.ScheduledPaymentsDueBy(models.DB, date(2025, 12, 31))
	suite.Require().NoError(err)
	suite.Assert().Len(scheduled, 0, "a finished expense has nothing left to schedule")
}
