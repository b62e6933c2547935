package models

import (
	"errors"

	"github.com/dueday/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScheduledPayment is the single pending automatic payment of an expense.
//
// It represents the next occurrence awaiting automatic execution, not a
// queue of many. The unique index on expense_id enforces this.
type ScheduledPayment struct {
	DefaultModel
	ExpenseID    uuid.UUID `gorm:"uniqueIndex:scheduled_payment_expense"`
	Expense      Expense   `json:"-"`
	DueDate      types.Date
	CreditCardID *uuid.UUID
}

var ErrScheduledPaymentExists = errors.New("there already is a scheduled payment for this expense")

// UpsertScheduledPayment replaces the scheduled payment of an expense with
// one for the given due date.
//
// Delete-then-insert keeps the one-row-per-expense invariant without
// assuming the queue is empty.
func UpsertScheduledPayment(tx *gorm.DB, expenseID uuid.UUID, dueDate types.Date, creditCardID *uuid.UUID) error {
	err := ClearScheduledPayments(tx, expenseID)
	if err != nil {
		return err
	}

	return tx.Create(&ScheduledPayment{
		ExpenseID:    expenseID,
		DueDate:      dueDate,
		CreditCardID: creditCardID,
	}).Error
}

// ScheduledPaymentsDueBy returns all scheduled payments due on or before
// the given date, together with their expenses.
func ScheduledPaymentsDueBy(tx *gorm.DB, date types.Date) ([]ScheduledPayment, error) {
	var scheduled []ScheduledPayment
	err := tx.
		Preload("Expense").
		Where("date(due_date) <= date(?)", date).
		Order("date(due_date) ASC").
		Find(&scheduled).Error
	return scheduled, err
}

// DeleteScheduledPayment deletes a scheduled payment by ID.
//
// All scheduled payment deletes are unscoped: a soft-deleted row would
// still occupy the unique index on expense_id and block re-enqueueing.
func DeleteScheduledPayment(tx *gorm.DB, id uuid.UUID) error {
	return tx.Unscoped().Delete(&ScheduledPayment{}, id).Error
}

// DeleteScheduledPaymentFor deletes the scheduled payment of an expense for
// exactly the given due date. It reports whether a row was deleted.
func DeleteScheduledPaymentFor(tx *gorm.DB, expenseID uuid.UUID, dueDate types.Date) (bool, error) {
	result := tx.
		Unscoped().
		Where("expense_id = ? AND date(due_date) = date(?)", expenseID, dueDate).
		Delete(&ScheduledPayment{})

	return result.RowsAffected > 0, result.Error
}

// ClearScheduledPayments deletes all scheduled payments of an expense.
func ClearScheduledPayments(tx *gorm.DB, expenseID uuid.UUID) error {
	return tx.Unscoped().Where("expense_id = ?", expenseID).Delete(&ScheduledPayment{}).Error
}
