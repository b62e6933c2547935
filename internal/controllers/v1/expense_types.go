package v1

import (
	"github.com/dueday/backend/internal/httputil"
	"github.com/dueday/backend/internal/models"
	"github.com/dueday/backend/internal/recurrence"
	"github.com/dueday/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ExpenseEditable struct {
	Name                         string          `json:"name" example:"Rent" default:""`                            // Name of the expense
	Description                  string          `json:"description" example:"Apartment rent, due monthly" default:""` // Note about the expense
	Cost                         decimal.Decimal `json:"cost" example:"840.50" minimum:"0" default:"0"`             // Cost of one occurrence
	RecurrenceRate               recurrence.Rate `json:"recurrenceRate" example:"monthly" default:"once"`           // How often the expense is due
	StartDate                    types.Date      `json:"startDate" example:"2025-01-15"`                            // The first occurrence
	EndDate                      *types.Date     `json:"endDate" example:"2025-12-15"`                              // Inclusive date of the last occurrence
	DueEndOfMonth                bool            `json:"dueEndOfMonth" example:"true" default:"false"`              // Anchor monthly occurrences to the last day of the month
	AutomaticPayments            bool            `json:"automaticPayments" example:"false" default:"false"`         // Pay new occurrences automatically
	AutomaticPaymentCreditCardID *uuid.UUID      `json:"automaticPaymentCreditCardId"`                              // Card automatic payments are charged to
	CategoryID                   *uuid.UUID      `json:"categoryId"`                                                // Category of the expense
}

// model returns the database resource for the API representation of the editable fields
func (editable ExpenseEditable) model() models.Expense {
	return models.Expense{
		Name:                         editable.Name,
		Description:                  editable.Description,
		Cost:                         editable.Cost,
		RecurrenceRate:               editable.RecurrenceRate,
		StartDate:                    editable.StartDate,
		EndDate:                      editable.EndDate,
		DueEndOfMonth:                editable.DueEndOfMonth,
		AutomaticPayments:            editable.AutomaticPayments,
		AutomaticPaymentCreditCardID: editable.AutomaticPaymentCreditCardID,
		CategoryID:                   editable.CategoryID,
	}
}

type ExpenseCreate struct {
	ExpenseEditable

	// PayOnCreation also records a payment for the start date, exactly as
	// a separate pay call would.
	PayOnCreation bool `json:"payOnCreation" example:"false" default:"false"`
}

type Expense struct {
	models.DefaultModel
	ExpenseEditable
	NextDueDate *types.Date `json:"nextDueDate" example:"2025-02-15"` // The earliest unresolved occurrence
	Active      bool        `json:"active" example:"true"`            // False once the expense has no further occurrences
}

// newExpense returns the API v1 representation of the resource
func newExpense(model models.Expense) Expense {
	return Expense{
		DefaultModel: model.DefaultModel,
		ExpenseEditable: ExpenseEditable{
			Name:                         model.Name,
			Description:                  model.Description,
			Cost:                         model.Cost,
			RecurrenceRate:               model.RecurrenceRate,
			StartDate:                    model.StartDate,
			EndDate:                      model.EndDate,
			DueEndOfMonth:                model.DueEndOfMonth,
			AutomaticPayments:            model.AutomaticPayments,
			AutomaticPaymentCreditCardID: model.AutomaticPaymentCreditCardID,
			CategoryID:                   model.CategoryID,
		},
		NextDueDate: model.NextDueDate,
		Active:      model.Active,
	}
}

type ExpenseResponse struct {
	Error *string  `json:"error" example:"there is no expense matching your query"` // The error, if any occurred
	Data  *Expense `json:"data"`                                                    // The resource
}

type ExpenseListResponse struct {
	Error *string   `json:"error" example:"there is no expense matching your query"` // The error, if any occurred
	Data  []Expense `json:"data"`                                                    // List of resources
}

type PaymentRequestBody struct {
	DueDate      types.Date  `json:"dueDate" example:"2025-01-15"`      // The occurrence being resolved
	Skipped      bool        `json:"skipped" example:"false"`           // Resolve without an actual payment
	CreditCardID *uuid.UUID  `json:"creditCardId"`                      // Card to charge
	PaidOn       *types.Date `json:"paidOn" example:"2025-01-17"`       // When the payment was made. Defaults to today
}

type PayAllOverdueBody struct {
	CreditCardID *uuid.UUID `json:"creditCardId"` // Card to charge for every created payment
}

type UnpayBody struct {
	PaymentIDs []uuid.UUID `json:"paymentIds" binding:"required"` // Payments to delete
}

type LateDatesResponse struct {
	Error *string      `json:"error" example:"there is no expense matching your query"` // The error, if any occurred
	Data  []types.Date `json:"data"`                                                    // Unresolved occurrences before today
}

type ExpensesForRangeResponse struct {
	Error *string              `json:"error" example:"the end of the date range must not be before its start"` // The error, if any occurred
	Data  map[string][]Expense `json:"data"`                                                                   // Expenses due per date
}

type ExpenseQueryFilter struct {
	Name              string `form:"name" filterField:"false"`    // By name, fuzzy
	RecurrenceRate    string `form:"recurrenceRate"`              // By recurrence rate
	Active            bool   `form:"active"`                      // Is the expense active?
	AutomaticPayments bool   `form:"automaticPayments"`           // Are automatic payments enabled?
	CategoryID        string `form:"category"`                    // By category ID
	Offset            uint   `form:"offset" filterField:"false"`  // The offset of the first Expense returned. Defaults to 0.
	Limit             int    `form:"limit" filterField:"false"`   // Maximum number of Expenses to return. Defaults to 50.
}

// model returns the expense all resources are compared against for filtering
func (f ExpenseQueryFilter) model() (models.Expense, error) {
	categoryID, err := httputil.UUIDFromString(f.CategoryID)
	if err != nil {
		return models.Expense{}, err
	}

	var category *uuid.UUID
	if categoryID != uuid.Nil {
		category = &categoryID
	}

	return models.Expense{
		RecurrenceRate:    recurrence.Rate(f.RecurrenceRate),
		Active:            f.Active,
		AutomaticPayments: f.AutomaticPayments,
		CategoryID:        category,
	}, nil
}

// expensePatchColumns maps the JSON field names of ExpenseEditable that may
// be patched to their database columns. Start date, recurrence rate and
// end-of-month anchoring are absent: changing them would invalidate the
// payment history.
var expensePatchColumns = map[string]string{
	"name":                         "name",
	"description":                  "description",
	"cost":                         "cost",
	"endDate":                      "end_date",
	"active":                       "active",
	"automaticPayments":            "automatic_payments",
	"automaticPaymentCreditCardId": "automatic_payment_credit_card_id",
	"categoryId":                   "category_id",
}
