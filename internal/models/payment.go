package models

import (
	"errors"

	"github.com/dueday/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment resolves one occurrence of an expense.
//
// The cost is copied from the expense at payment time. It is a historical
// fact and is not updated when the expense changes.
type Payment struct {
	DefaultModel
	ExpenseID    uuid.UUID       `gorm:"uniqueIndex:payment_expense_due_date"`
	Expense      Expense         `json:"-"`
	Cost         decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	DueDatePaid  types.Date      `gorm:"uniqueIndex:payment_expense_due_date"`
	PaymentDate  types.Date
	Skipped      bool
	CreditCardID *uuid.UUID
}

// ErrPaymentAlreadyResolved is returned when a payment for the same expense
// and due date already exists. The unique index on (expense_id,
// due_date_paid) makes the database the arbiter, the error is translated in
// createUpdateCallback.
var ErrPaymentAlreadyResolved = errors.New("this due date has already been paid or skipped")

// CreatePayment inserts a payment.
//
// Returns ErrPaymentAlreadyResolved when the due date is already resolved
// for the expense.
func CreatePayment(tx *gorm.DB, payment *Payment) error {
	return tx.Create(payment).Error
}

// PaymentExists reports whether a payment exists for the expense and due date.
func PaymentExists(tx *gorm.DB, expenseID uuid.UUID, dueDate types.Date) (bool, error) {
	var count int64
	err := tx.Model(&Payment{}).
		Where("expense_id = ? AND date(due_date_paid) = date(?)", expenseID, dueDate).
		Count(&count).Error

	return count > 0, err
}

// PaymentsForExpense returns all payments of an expense, oldest due date first.
func PaymentsForExpense(tx *gorm.DB, expenseID uuid.UUID) ([]Payment, error) {
	var payments []Payment
	err := tx.
		Where("expense_id = ?", expenseID).
		Order("date(due_date_paid) ASC").
		Find(&payments).Error
	return payments, err
}

// PaymentsByIDs returns the payments with the given IDs belonging to the
// expense. IDs that belong to another expense are not returned.
func PaymentsByIDs(tx *gorm.DB, expenseID uuid.UUID, ids []uuid.UUID) ([]Payment, error) {
	var payments []Payment
	err := tx.
		Where("expense_id = ?", expenseID).
		Where("id IN ?", ids).
		Find(&payments).Error
	return payments, err
}

// DeletePayments deletes the payments with the given IDs belonging to the
// expense.
//
// The delete is unscoped: a soft-deleted payment would still occupy the
// unique index on (expense_id, due_date_paid) and block the reopened due
// date from ever being resolved again.
func DeletePayments(tx *gorm.DB, expenseID uuid.UUID, ids []uuid.UUID) error {
	return tx.
		Unscoped().
		Where("expense_id = ?", expenseID).
		Where("id IN ?", ids).
		Delete(&Payment{}).Error
}
