package engine_test

import (
	"github.com/dueday/backend/internal/engine"
	"github.com/dueday/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestPayCreditCard() {
	userID := uuid.New()
	card := suite.createTestCreditCard(userID)

	expense := monthlyExpense(userID)
	created, err := engine.CreateExpense(userID, expense, false, date(2025, 1, 15))
	suite.Require().NoError(err)

	err = engine.PayDueDate(userID, created.ID, engine.PaymentRequest{
		DueDate:      date(2025, 1, 15),
		CreditCardID: &card.ID,
	})
	suite.Require().NoError(err)

	paid, err := engine.PayCreditCard(userID, card.ID, decimal.NewFromFloat(60))
	suite.Require().NoError(err)
	suite.Assert().True(paid.Balance.Equal(decimal.NewFromFloat(40)), "balance is %s", paid.Balance)
}

func (suite *TestSuiteStandard) TestPayCreditCardNotPositive() {
	userID := uuid.New()
	card := suite.createTestCreditCard(userID)

	_, err := engine.PayCreditCard(userID, card.ID, decimal.Zero)
	suite.Assert().ErrorIs(err, engine.ErrAmountNotPositive)

	_, err = engine.PayCreditCard(userID, card.ID, decimal.NewFromFloat(-10))
	suite.Assert().ErrorIs(err, engine.ErrAmountNotPositive)
}

func (suite *TestSuiteStandard) TestPayCreditCardNotFound() {
	_, err := engine.PayCreditCard(uuid.New(), uuid.New(), decimal.NewFromFloat(10))
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}
