package models_test

import (
	"github.com/dueday/backend/internal/models"
	"github.com/dueday/backend/internal/recurrence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestExpenseTrimWhitespace() {
	expense := suite.createTestExpense(models.Expense{
		Name:        " Rent\t",
		Description: "  paid to the landlord ",
	})

	suite.Assert().Equal("Rent", expense.Name)
	suite.Assert().Equal("paid to the landlord", expense.Description)
}

func (suite *TestSuiteStandard) TestExpenseNegativeCost() {
	err := models.DB.Create(&models.Expense{
		UserID:         uuid.New(),
		Name:           "Negative",
		Cost:           decimal.NewFromFloat(-10),
		RecurrenceRate: recurrence.Monthly,
		StartDate:      date(2025, 1, 15),
	}).Error

	suite.Assert().ErrorIs(err, models.ErrExpenseCostNegative)
}

func (suite *TestSuiteStandard) TestExpenseInvalidRecurrenceRate() {
	err := models.DB.Create(&models.Expense{
		UserID:         uuid.New(),
		Name:           "Invalid",
		RecurrenceRate: recurrence.Rate("hourly"),
		StartDate:      date(2025, 1, 15),
	}).Error

	suite.Assert().ErrorIs(err, recurrence.ErrInvalidRate)
}

func (suite *TestSuiteStandard) TestExpenseEndOfMonthNormalizesStartDate() {
	expense := suite.createTestExpense(models.Expense{
		RecurrenceRate: recurrence.Monthly,
		StartDate:      date(2024, 1, 15),
		DueEndOfMonth:  true,
	})

	suite.Assert().True(date(2024, 1, 31).Equal(expense.StartDate), "start date should be snapped to the end of the month, got %s", expense.StartDate)
}

func (suite *TestSuiteStandard) TestGetExpenseScopedToUser() {
	expense := suite.createTestExpense(models.Expense{})

	_, err := models.GetExpense(models.DB, expense.UserID, expense.ID)
	suite.Assert().NoError(err)

	_, err = models.GetExpense(models.DB, uuid.New(), expense.ID)
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound, "another user must not see the expense")
}

func (suite *TestSuiteStandard) TestUpdateExpenseFieldsWhitelist() {
	expense := suite.createTestExpense(models.Expense{})

	err := models.UpdateExpenseFields(models.DB, expense.ID, map[string]any{
		"name": "Updated",
	})
	suite.Assert().NoError(err)

	err = models.UpdateExpenseFields(models.DB, expense.ID, map[string]any{
		"start_date": date(2020, 1, 1),
	})
	suite.Assert().ErrorIs(err, models.ErrFieldNotPatchable, "the start date must not be patchable")
}

func (suite *TestSuiteStandard) TestUpdateExpenseFieldsSkipsValidation() {
	expense := suite.createTestExpense(models.Expense{})

	next := date(2025, 2, 15)
	err := models.UpdateExpenseFields(models.DB, expense.ID, map[string]any{
		"active":        false,
		"next_due_date": &next,
	})
	suite.Require().NoError(err, "patching through a stub model must not re-validate the recurrence rate")

	updated, err := models.GetExpense(models.DB, expense.UserID, expense.ID)
	suite.Require().NoError(err)
	suite.Assert().False(updated.Active)
	suite.Require().NotNil(updated.NextDueDate)
	suite.Assert().True(next.Equal(*updated.NextDueDate))
	suite.Assert().Equal(recurrence.Monthly, updated.RecurrenceRate, "unpatched fields must keep their values")
}

func (suite *TestSuiteStandard) TestUpdateExpenseFieldsNegativeCost() {
	expense := suite.createTestExpense(models.Expense{})

	err := models.UpdateExpenseFields(models.DB, expense.ID, map[string]any{
		"cost": decimal.NewFromFloat(-5),
	})
	suite.Assert().ErrorIs(err, models.ErrExpenseCostNegative)
}

func (suite *TestSuiteStandard) TestOverdueActiveExpenses() {
	userID := uuid.New()

	overdueDate := date(2025, 1, 15)
	currentDate := date(2025, 4, 20)
	futureDate := date(2025, 5, 15)

	overdue := suite.createTestExpense(models.Expense{UserID: userID, Name: "Overdue", Active: true, NextDueDate: &overdueDate})
	_ = suite.createTestExpense(models.Expense{UserID: userID, Name: "Due today", Active: true, NextDueDate: &currentDate})
	_ = suite.createTestExpense(models.Expense{UserID: userID, Name: "Future", Active: true, NextDueDate: &futureDate})
	_ = suite.createTestExpense(models.Expense{UserID: userID, Name: "Inactive", Active: false, NextDueDate: &overdueDate})

	expenses, err := models.OverdueActiveExpenses(models.DB, userID, currentDate)
	suite.Require().NoError(err)
	suite.Require().Len(expenses, 1, "only the expense strictly before the reference date is overdue")
	suite.Assert().Equal(overdue.ID, expenses[0].ID)
}
