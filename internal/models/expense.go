package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dueday/backend/internal/recurrence"
	"github.com/dueday/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense represents a recurring or one-time financial obligation.
type Expense struct {
	DefaultModel
	UserID         uuid.UUID `gorm:"index"`
	Name           string
	Description    string
	Cost           decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	RecurrenceRate recurrence.Rate
	StartDate      types.Date

	// EndDate is the inclusive upper bound for occurrences. Nil means the
	// expense recurs forever.
	EndDate *types.Date

	// DueEndOfMonth anchors monthly expenses to the last calendar day of
	// each month instead of the start date's day of the month.
	DueEndOfMonth bool

	// NextDueDate is the earliest occurrence that has not been resolved
	// yet. Nil means the expense has no further occurrences.
	NextDueDate *types.Date

	Active                       bool
	AutomaticPayments            bool
	AutomaticPaymentCreditCardID *uuid.UUID

	// CategoryID is owned by category management, the payment engine only
	// carries it along.
	CategoryID *uuid.UUID
}

var (
	ErrExpenseCostNegative = errors.New("the cost of an expense must be zero or positive")
	ErrFieldNotPatchable   = errors.New("this field cannot be updated")
)

// expensePatchable is the whitelist of fields that UpdateExpenseFields
// accepts. Start date, recurrence rate and end-of-month anchoring are
// deliberately absent: changing them would invalidate the payment history.
var expensePatchable = map[string]bool{
	"name":                             true,
	"description":                      true,
	"cost":                             true,
	"end_date":                         true,
	"next_due_date":                    true,
	"active":                           true,
	"automatic_payments":               true,
	"automatic_payment_credit_card_id": true,
	"category_id":                      true,
}

// BeforeSave validates the expense and normalizes its fields.
//
// When the expense is due at the end of the month, the start date is
// snapped to the last day of its month so that it is itself an occurrence.
func (e *Expense) BeforeSave(_ *gorm.DB) error {
	e.Name = strings.TrimSpace(e.Name)
	e.Description = strings.TrimSpace(e.Description)

	if e.Cost.IsNegative() {
		return ErrExpenseCostNegative
	}

	if !e.RecurrenceRate.Valid() {
		return recurrence.ErrInvalidRate
	}

	if e.RecurrenceRate == recurrence.Monthly && e.DueEndOfMonth {
		e.StartDate = e.StartDate.LastDayOfMonth()
	}

	return nil
}

// Rule returns the recurrence rule for the expense.
func (e Expense) Rule() recurrence.Rule {
	return recurrence.Rule{
		Rate:          e.RecurrenceRate,
		StartDate:     e.StartDate,
		EndDate:       e.EndDate,
		DueEndOfMonth: e.RecurrenceRate == recurrence.Monthly && e.DueEndOfMonth,
	}
}

// GetExpense returns the expense with the given ID for the user.
func GetExpense(tx *gorm.DB, userID, id uuid.UUID) (Expense, error) {
	var expense Expense
	err := tx.Where("user_id = ?", userID).First(&expense, id).Error
	return expense, err
}

// UpdateExpenseFields patches a whitelisted set of fields on an expense.
//
// The keys of fields are database column names. A key outside the
// whitelist is a programmer error and fails before anything is written.
//
// Hooks are skipped: the update goes through a stub model that only carries
// the ID, so BeforeSave would validate zero values instead of the stored
// expense. The whitelist keeps the patchable columns out of BeforeSave's
// scope anyway.
func UpdateExpenseFields(tx *gorm.DB, id uuid.UUID, fields map[string]any) error {
	for column := range fields {
		if !expensePatchable[column] {
			return fmt.Errorf("%w: %s", ErrFieldNotPatchable, column)
		}
	}

	// BeforeSave does not run here, so the cost invariant is checked directly
	if cost, ok := fields["cost"].(decimal.Decimal); ok && cost.IsNegative() {
		return ErrExpenseCostNegative
	}

	return tx.
		Session(&gorm.Session{SkipHooks: true}).
		Model(&Expense{DefaultModel: DefaultModel{ID: id}}).
		Updates(fields).Error
}

// ExpensesForUser returns all expenses of a user.
func ExpensesForUser(tx *gorm.DB, userID uuid.UUID) ([]Expense, error) {
	var expenses []Expense
	err := tx.Where("user_id = ?", userID).Order("name ASC").Find(&expenses).Error
	return expenses, err
}

// OverdueActiveExpenses returns all active expenses of a user whose next
// due date lies strictly before the given date.
func OverdueActiveExpenses(tx *gorm.DB, userID uuid.UUID, before types.Date) ([]Expense, error) {
	var expenses []Expense
	err := tx.
		Where("user_id = ? AND active = ?", userID, true).
		Where("next_due_date IS NOT NULL AND date(next_due_date) < date(?)", before).
		Order("date(next_due_date) ASC").
		Find(&expenses).Error
	return expenses, err
}
