package models

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreditCard tracks the running balance of a credit card.
//
// The balance is only ever mutated through ChargeCreditCard and
// CreditCreditCard so that concurrent writers cannot lose updates.
type CreditCard struct {
	DefaultModel
	UserID  uuid.UUID `gorm:"index"`
	Company string
	Balance decimal.Decimal `gorm:"type:DECIMAL(20,8)"` // May be negative when the card is overpaid
}

// GetCreditCard returns the credit card with the given ID for the user.
func GetCreditCard(tx *gorm.DB, userID, id uuid.UUID) (CreditCard, error) {
	var card CreditCard
	err := tx.Where("user_id = ?", userID).First(&card, id).Error
	return card, err
}

// CreditCardsForUser returns all credit cards of a user.
func CreditCardsForUser(tx *gorm.DB, userID uuid.UUID) ([]CreditCard, error) {
	var cards []CreditCard
	err := tx.Where("user_id = ?", userID).Order("company ASC").Find(&cards).Error
	return cards, err
}

// ChargeCreditCard adds a charge to the running balance of a card.
func ChargeCreditCard(tx *gorm.DB, userID, id uuid.UUID, amount decimal.Decimal) error {
	return updateBalance(tx, userID, id, "balance + ?", amount)
}

// CreditCreditCard removes an amount from the running balance of a card,
// e.g. when a manual card payment is recorded.
func CreditCreditCard(tx *gorm.DB, userID, id uuid.UUID, amount decimal.Decimal) error {
	return updateBalance(tx, userID, id, "balance - ?", amount)
}

func updateBalance(tx *gorm.DB, userID, id uuid.UUID, expr string, amount decimal.Decimal) error {
	result := tx.Model(&CreditCard{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("balance", gorm.Expr(expr, amount))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w credit card matching your query", ErrResourceNotFound)
	}

	return nil
}
