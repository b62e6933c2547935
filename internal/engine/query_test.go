package engine_test

import (
	"github.com/dueday/backend/internal/engine"
	"github.com/dueday/backend/internal/models"
	"github.com/dueday/backend/internal/recurrence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestLateDates() {
	userID := uuid.New()

	expense, err := engine.CreateExpense(userID, monthlyExpense(userID), false, date(2025, 1, 15))
	suite.Require().NoError(err)

	err = engine.PayDueDate(userID, expense.ID, engine.PaymentRequest{DueDate: date(2025, 1, 15)})
	suite.Require().NoError(err)

	late, err := engine.LateDates(userID, expense.ID, date(2025, 4, 20))
	suite.Require().NoError(err)
	suite.Require().Len(late, 3, "February through April are unresolved and before 2025-04-20")

	suite.Assert().True(date(2025, 2, 15).Equal(late[0]))
	suite.Assert().True(date(2025, 3, 15).Equal(late[1]))
	suite.Assert().True(date(2025, 4, 15).Equal(late[2]))
}

func (suite *TestSuiteStandard) TestLateDatesOnDueDateItself() {
	userID := uuid.New()

	expense, err := engine.CreateExpense(userID, monthlyExpense(userID), false, date(2025, 1, 15))
	suite.Require().NoError(err)

	late, err := engine.LateDates(userID, expense.ID, date(2025, 1, 15))
	suite.Require().NoError(err)
	suite.Assert().Len(late, 0, "an occurrence is late only strictly after its due date")
}

func (suite *TestSuiteStandard) TestLateDatesNotFound() {
	_, err := engine.LateDates(uuid.New(), uuid.New(), date(2025, 1, 15))
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestExpensesForRange() {
	userID := uuid.New()

	rent, err := engine.CreateExpense(userID, monthlyExpense(userID), false, date(2025, 1, 15))
	suite.Require().NoError(err)

	gym := monthlyExpense(userID)
	gym.Name = "Gym"
	gym.StartDate = date(2025, 1, 20)
	gymCreated, err := engine.CreateExpense(userID, gym, false, date(2025, 1, 15))
	suite.Require().NoError(err)

	water := models.Expense{
		UserID:         userID,
		Name:           "Water delivery",
		Cost:           decimal.NewFromFloat(5),
		RecurrenceRate: recurrence.Weekly,
		StartDate:      date(2025, 2, 3),
	}
	waterCreated, err := engine.CreateExpense(userID, water, false, date(2025, 1, 15))
	suite.Require().NoError(err)

	due, err := engine.ExpensesForRange(userID, date(2025, 2, 1), date(2025, 2, 28))
	suite.Require().NoError(err)

	suite.Require().Len(due["2025-02-15"], 1)
	suite.Assert().Equal(rent.ID, due["2025-02-15"][0].ID)

	suite.Require().Len(due["2025-02-20"], 1)
	suite.Assert().Equal(gymCreated.ID, due["2025-02-20"][0].ID)

	suite.Require().Len(due["2025-02-03"], 1)
	suite.Assert().Equal(waterCreated.ID, due["2025-02-03"][0].ID)
	suite.Assert().Len(due["2025-02-10"], 1, "the weekly expense recurs within the range")

	_, ok := due["2025-02-14"]
	suite.Assert().False(ok, "days without due expenses are absent from the map")
}

func (suite *TestSuiteStandard) TestExpensesForRangeInverted() {
	_, err := engine.ExpensesForRange(uuid.New(), date(2025, 2, 28), date(2025, 2, 1))
	suite.Assert().ErrorIs(err, engine.ErrInvalidDateRange)
}

func (suite *TestSuiteStandard) TestExpensesForRangeScopedToUser() {
	userID := uuid.New()

	_, err := engine.CreateExpense(userID, monthlyExpense(userID), false, date(2025, 1, 15))
	suite.Require().NoError(err)

	due, err := engine.ExpensesForRange(uuid.New(), date(2025, 1, 1), date(2025, 1, 31))
	suite.Require().NoError(err)
	suite.Assert().Len(due, 0)
}
