package engine

import (
	"github.com/dueday/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PayCreditCard records a manual payment against a card's running balance.
//
// It goes through the same balance primitive as the automatic charges so
// that concurrent writers cannot lose updates. The balance may go negative
// when the card is overpaid.
func PayCreditCard(userID, cardID uuid.UUID, amount decimal.Decimal) (models.CreditCard, error) {
	if !amount.IsPositive() {
		return models.CreditCard{}, ErrAmountNotPositive
	}

	var card models.CreditCard

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		err := models.CreditCreditCard(tx, userID, cardID, amount)
		if err != nil {
			return err
		}

		card, err = models.GetCreditCard(tx, userID, cardID)
		return err
	})
	if err != nil {
		return models.CreditCard{}, err
	}

	return card, nil
}
