package v1

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dueday/backend/internal/engine"
	"github.com/dueday/backend/internal/httputil"
	"github.com/dueday/backend/internal/models"
	"github.com/dueday/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

func RegisterExpenseRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsExpenses)
		r.GET("", GetExpenses)
		r.POST("", CreateExpense)
	}
	{
		r.GET("/range", GetExpensesForRange)
		r.GET("/overdue", GetOverdueExpenses)
	}
	{
		r.OPTIONS("/:id", OptionsExpenseDetail)
		r.GET("/:id", GetExpense)
		r.PATCH("/:id", UpdateExpense)
		r.DELETE("/:id", DeleteExpense)
	}
	{
		r.POST("/:id/pay", PayExpense)
		r.POST("/:id/pay-overdue", PayAllOverdue)
		r.POST("/:id/unpay", UnpayExpense)
		r.GET("/:id/late-dates", GetLateDates)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Expenses
// @Success		204
// @Router			/v1/expenses [options]
func OptionsExpenses(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Expenses
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Router			/v1/expenses/{id} [options]
func OptionsExpenseDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	_, err = models.GetExpense(models.DB, httputil.UserID(c), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create expense
// @Description	Creates a new expense. The next due date is fast-forwarded to the first occurrence on or after today.
// @Tags			Expenses
// @Accept			json
// @Produce		json
// @Success		201		{object}	ExpenseResponse
// @Failure		400		{object}	ExpenseResponse
// @Failure		500		{object}	ExpenseResponse
// @Param			expense	body		ExpenseCreate	true	"Expense"
// @Router			/v1/expenses [post]
func CreateExpense(c *gin.Context) {
	var create ExpenseCreate
	err := httputil.BindData(c, &create)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &e})
		return
	}

	expense, err := engine.CreateExpense(httputil.UserID(c), create.model(), create.PayOnCreation, types.Today())
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &e})
		return
	}

	apiResource := newExpense(expense)
	c.JSON(http.StatusCreated, ExpenseResponse{Data: &apiResource})
}

// @Summary		List expenses
// @Description	Returns a list of the user's expenses
// @Tags			Expenses
// @Produce		json
// @Success		200	{object}	ExpenseListResponse
// @Failure		400	{object}	ExpenseListResponse
// @Failure		500	{object}	ExpenseListResponse
// @Param			name				query	string	false	"Filter by name"
// @Param			recurrenceRate		query	string	false	"Filter by recurrence rate"
// @Param			active				query	bool	false	"Is the expense active?"
// @Param			automaticPayments	query	bool	false	"Are automatic payments enabled?"
// @Param			category			query	string	false	"Filter by category ID"
// @Param			offset				query	uint	false	"The offset of the first Expense returned. Defaults to 0."
// @Param			limit				query	int		false	"Maximum number of Expenses to return. Defaults to 50."
// @Router			/v1/expenses [get]
func GetExpenses(c *gin.Context) {
	var filter ExpenseQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseListResponse{Error: &e})
		return
	}

	q := models.DB.
		Where("user_id = ?", httputil.UserID(c)).
		Order("name ASC").
		Where(&filterModel, queryFields...)

	if slices.Contains(setFields, "Name") {
		q = q.Where("name LIKE ?", fmt.Sprintf("%%%s%%", filter.Name))
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 Expenses and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var expenses []models.Expense
	err = q.Find(&expenses).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseListResponse{Error: &e})
		return
	}

	data := make([]Expense, 0, len(expenses))
	for _, expense := range expenses {
		data = append(data, newExpense(expense))
	}

	c.JSON(http.StatusOK, ExpenseListResponse{Data: data})
}

// @Summary		Get expense
// @Description	Returns a specific expense
// @Tags			Expenses
// @Produce		json
// @Success		200	{object}	ExpenseResponse
// @Failure		400	{object}	ExpenseResponse
// @Failure		404	{object}	ExpenseResponse
// @Router			/v1/expenses/{id} [get]
func GetExpense(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &e})
		return
	}

	expense, err := models.GetExpense(models.DB, httputil.UserID(c), uri.ID.UUID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &e})
		return
	}

	apiResource := newExpense(expense)
	c.JSON(http.StatusOK, ExpenseResponse{Data: &apiResource})
}

// @Summary		Update expense
// @Description	Updates an existing expense. Only values to be updated need to be specified.
// @Tags			Expenses
// @Accept			json
// @Produce		json
// @Success		200		{object}	ExpenseResponse
// @Failure		400		{object}	ExpenseResponse
// @Failure		404		{object}	ExpenseResponse
// @Param			expense	body		ExpenseEditable	true	"Expense"
// @Router			/v1/expenses/{id} [patch]
func UpdateExpense(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &e})
		return
	}

	fields, err := bindExpensePatch(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &e})
		return
	}

	expense, err := engine.UpdateExpense(httputil.UserID(c), uri.ID.UUID, fields)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseResponse{Error: &e})
		return
	}

	apiResource := newExpense(expense)
	c.JSON(http.StatusOK, ExpenseResponse{Data: &apiResource})
}

// @Summary		Delete expense
// @Description	Deletes an expense together with its payments and its scheduled payment
// @Tags			Expenses
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Router			/v1/expenses/{id} [delete]
func DeleteExpense(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = engine.DeleteExpense(httputil.UserID(c), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Pay due date
// @Description	Resolves one occurrence of the expense, optionally charging a credit card
// @Tags			Expenses
// @Accept			json
// @Produce		json
// @Success		204
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		409		{object}	httpError	"The due date is already resolved"
// @Param			payment	body		PaymentRequestBody	true	"Payment"
// @Router			/v1/expenses/{id}/pay [post]
func PayExpense(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var body PaymentRequestBody
	err = httputil.BindData(c, &body)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = engine.PayDueDate(httputil.UserID(c), uri.ID.UUID, engine.PaymentRequest{
		DueDate:      body.DueDate,
		Skipped:      body.Skipped,
		CreditCardID: body.CreditCardID,
		PaidOn:       body.PaidOn,
	})
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Pay all overdue dates
// @Description	Resolves every unresolved occurrence before today in one transaction
// @Tags			Expenses
// @Accept			json
// @Produce		json
// @Success		204
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Param			payment	body		PayAllOverdueBody	true	"Payment"
// @Router			/v1/expenses/{id}/pay-overdue [post]
func PayAllOverdue(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var body PayAllOverdueBody
	err = httputil.BindData(c, &body)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = engine.PayAllOverdue(httputil.UserID(c), uri.ID.UUID, body.CreditCardID, types.Today())
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Unpay
// @Description	Deletes payments, reopening their occurrences
// @Tags			Expenses
// @Accept			json
// @Produce		json
// @Success		204
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Param			payments	body		UnpayBody	true	"Payments"
// @Router			/v1/expenses/{id}/unpay [post]
func UnpayExpense(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var body UnpayBody
	err = httputil.BindData(c, &body)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = engine.Unpay(httputil.UserID(c), uri.ID.UUID, body.PaymentIDs)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Late dates
// @Description	Returns every occurrence before today that has no payment
// @Tags			Expenses
// @Produce		json
// @Success		200	{object}	LateDatesResponse
// @Failure		400	{object}	LateDatesResponse
// @Failure		404	{object}	LateDatesResponse
// @Router			/v1/expenses/{id}/late-dates [get]
func GetLateDates(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), LateDatesResponse{Error: &e})
		return
	}

	today, err := bindDate(c.Query("today"))
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, LateDatesResponse{Error: &e})
		return
	}

	late, err := engine.LateDates(httputil.UserID(c), uri.ID.UUID, today)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), LateDatesResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, LateDatesResponse{Data: late})
}

// @Summary		Expenses for date range
// @Description	Returns the user's expenses grouped by the dates they are due on
// @Tags			Expenses
// @Produce		json
// @Success		200	{object}	ExpensesForRangeResponse
// @Failure		400	{object}	ExpensesForRangeResponse
// @Param			from	query	string	true	"First date of the range"
// @Param			until	query	string	true	"Last date of the range"
// @Router			/v1/expenses/range [get]
func GetExpensesForRange(c *gin.Context) {
	from, err := types.ParseDate(c.Query("from"))
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, ExpensesForRangeResponse{Error: &e})
		return
	}

	until, err := types.ParseDate(c.Query("until"))
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, ExpensesForRangeResponse{Error: &e})
		return
	}

	due, err := engine.ExpensesForRange(httputil.UserID(c), from, until)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpensesForRangeResponse{Error: &e})
		return
	}

	data := make(map[string][]Expense, len(due))
	for date, expenses := range due {
		resources := make([]Expense, 0, len(expenses))
		for _, expense := range expenses {
			resources = append(resources, newExpense(expense))
		}
		data[date] = resources
	}

	c.JSON(http.StatusOK, ExpensesForRangeResponse{Data: data})
}

// @Summary		Overdue expenses
// @Description	Returns the user's active expenses whose next due date lies strictly before the given date
// @Tags			Expenses
// @Produce		json
// @Success		200	{object}	ExpenseListResponse
// @Failure		400	{object}	ExpenseListResponse
// @Failure		500	{object}	ExpenseListResponse
// @Param			today	query	string	false	"Reference date, defaults to today"
// @Router			/v1/expenses/overdue [get]
func GetOverdueExpenses(c *gin.Context) {
	today, err := bindDate(c.Query("today"))
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, ExpenseListResponse{Error: &e})
		return
	}

	expenses, err := models.OverdueActiveExpenses(models.DB, httputil.UserID(c), today)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseListResponse{Error: &e})
		return
	}

	data := make([]Expense, 0, len(expenses))
	for _, expense := range expenses {
		data = append(data, newExpense(expense))
	}

	c.JSON(http.StatusOK, ExpenseListResponse{Data: data})
}

// bindExpensePatch reads the patch body and translates the JSON fields into
// database columns. Fields outside the whitelist are rejected before
// anything is written.
func bindExpensePatch(c *gin.Context) (map[string]any, error) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, httputil.ErrInvalidBody
	}

	var raw map[string]json.RawMessage
	err = json.Unmarshal(body, &raw)
	if err != nil {
		return nil, httputil.ErrInvalidBody
	}

	if len(raw) == 0 {
		return nil, httputil.ErrRequestBodyEmpty
	}

	fields := make(map[string]any, len(raw))
	for key, value := range raw {
		column, ok := expensePatchColumns[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s", models.ErrFieldNotPatchable, key)
		}

		switch key {
		case "name", "description":
			var s string
			err = json.Unmarshal(value, &s)
			fields[column] = s

		case "cost":
			var d decimal.Decimal
			err = json.Unmarshal(value, &d)
			fields[column] = d

		case "endDate":
			var d *types.Date
			err = json.Unmarshal(value, &d)
			fields[column] = d

		case "active", "automaticPayments":
			var b bool
			err = json.Unmarshal(value, &b)
			fields[column] = b

		case "automaticPaymentCreditCardId", "categoryId":
			var id *uuid.UUID
			err = json.Unmarshal(value, &id)
			fields[column] = id
		}

		if err != nil {
			return nil, httputil.ErrInvalidBody
		}
	}

	return fields, nil
}
