package engine_test

import (
	"github.com/dueday/backend/internal/engine"
	"github.com/dueday/backend/internal/models"
	"github.com/dueday/backend/internal/recurrence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestUnpayOnceReactivates() {
	userID := uuid.New()

	expense, err := engine.CreateExpense(userID, models.Expense{
		UserID:         userID,
		Name:           "Car registration",
		Cost:           decimal.NewFromFloat(50),
		RecurrenceRate: recurrence.Once,
		StartDate:      date(2025, 1, 15),
	}, false, date(2025, 1, 15))
	suite.Require().NoError(err)

	err = engine.PayDueDate(userID, expense.ID, engine.PaymentRequest{DueDate: date(2025, 1, 15)})
	suite.Require().NoError(err)

	payments, err := models.PaymentsForExpense(models.DB, expense.ID)
	suite.Require().NoError(err)
	suite.Require().Len(payments, 1)

	err = engine.Unpay(userID, expense.ID, []uuid.UUID{payments[0].ID})
	suite.Require().NoError(err)

	reloaded := suite.reloadExpense(expense)
	suite.Assert().True(reloaded.Active, "unpaying a one-time expense reopens it")
	suite.Require().NotNil(reloaded.NextDueDate)
	suite.Assert().True(date(2025, 1, 15).Equal(*reloaded.NextDueDate))
	suite.Assert().Equal(0, suite.paymentCount(expense.ID))
}

func (suite *TestSuiteStandard) TestUnpayRecurringKeepsFrontier() {
	userID := uuid.New()

	expense, err := engine.CreateExpense(userID, monthlyExpense(userID), false, date(2025, 1, 15))
	suite.Require().NoError(err)

	err = engine.PayDueDate(userID, expense.ID, engine.PaymentRequest{DueDate: date(2025, 1, 15)})
	suite.Require().NoError(err)
	err = engine.PayDueDate(userID, expense.ID, engine.PaymentRequest{DueDate: date(2025, 2, 15)})
	suite.Require().NoError(err)

	payments, err := models.PaymentsForExpense(models.DB, expense.ID)
	suite.Require().NoError(err)
	suite.Require().Len(payments, 2)

	err = engine.Unpay(userID, expense.ID, []uuid.UUID{payments[0].ID})
	suite.Require().NoError(err)

	// The reopened January occurrence becomes a gap behind the frontier,
	// the next due date stays in March.
	reloaded := suite.reloadExpense(expense)
	suite.Require().NotNil(reloaded.NextDueDate)
	suite.Assert().True(date(2025, 3, 15).Equal(*reloaded.NextDueDate))

	late, err := engine.LateDates(userID, expense.ID, date(2025, 3, 15))
	suite.Require().NoError(err)
	suite.Require().Len(late, 1)
	suite.Assert().True(date(2025, 1, 15).Equal(late[0]))
}

func (suite *TestSuiteStandard) TestUnpayForeignPayment() {
	userID := uuid.New()

	expense, err := engine.CreateExpense(userID, monthlyExpense(userID), false, date(2025, 1, 15))
	suite.Require().NoError(err)

	other, err := engine.CreateExpense(userID, monthlyExpense(userID), true, date(2025, 1, 15))
	suite.Require().NoError(err)

	payments, err := models.PaymentsForExpense(models.DB, other.ID)
	suite.Require().NoError(err)
	suite.Require().Len(payments, 1)

	err = engine.Unpay(userID, expense.ID, []uuid.UUID{payments[0].ID})
	suite.Assert().ErrorIs(err, engine.ErrPaymentsNotFound)

	suite.Assert().Equal(1, suite.paymentCount(other.ID), "the other expense's payment must not be deleted")
}

func (suite *TestSuiteStandard) TestUnpayThenPayAgain() {
	userID := uuid.New()

	expense, err := engine.CreateExpense(userID, monthlyExpense(userID), false, date(2025, 1, 15))
	suite.Require().NoError(err)

	err = engine.PayDueDate(userID, expense.ID, engine.PaymentRequest{DueDate: date(2025, 1, 15)})
	suite.Require().NoError(err)

	payments, err := models.PaymentsForExpense(models.DB, expense.ID)
	suite.Require().NoError(err)

	err = engine.Unpay(userID, expense.ID, []uuid.UUID{payments[0].ID})
	suite.Require().NoError(err)

	// The reopened occurrence can be resolved again
	err = engine.PayDueDate(userID, expense.ID, engine.PaymentRequest{DueDate: date(2025, 1, 15)})
	suite.Require().NoError(err)
	suite.Assert().Equal(1, suite.paymentCount(expense.ID))
}
