package v1

import (
	"net/http"

	"github.com/dueday/backend/internal/engine"
	"github.com/dueday/backend/internal/httputil"
	"github.com/dueday/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func RegisterCreditCardRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsCreditCards)
		r.GET("", GetCreditCards)
		r.POST("", CreateCreditCard)
	}
	{
		r.GET("/:id", GetCreditCard)
		r.POST("/:id/pay", PayCreditCard)
	}
}

type CreditCardEditable struct {
	Company string          `json:"company" example:"Banco do Brasil" default:""`  // Issuer of the card
	Balance decimal.Decimal `json:"balance" example:"0" default:"0"`               // Initial running balance
}

type CreditCard struct {
	models.DefaultModel
	CreditCardEditable
}

func newCreditCard(model models.CreditCard) CreditCard {
	return CreditCard{
		DefaultModel: model.DefaultModel,
		CreditCardEditable: CreditCardEditable{
			Company: model.Company,
			Balance: model.Balance,
		},
	}
}

type CreditCardResponse struct {
	Error *string     `json:"error" example:"there is no credit card matching your query"` // The error, if any occurred
	Data  *CreditCard `json:"data"`                                                        // The resource
}

type CreditCardListResponse struct {
	Error *string      `json:"error" example:"there is no credit card matching your query"` // The error, if any occurred
	Data  []CreditCard `json:"data"`                                                        // List of resources
}

type CreditCardPayBody struct {
	Amount decimal.Decimal `json:"amount" example:"250" minimum:"0.00000001"` // Amount to remove from the running balance
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			CreditCards
// @Success		204
// @Router			/v1/credit-cards [options]
func OptionsCreditCards(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Create credit card
// @Description	Creates a new credit card
// @Tags			CreditCards
// @Accept			json
// @Produce		json
// @Success		201		{object}	CreditCardResponse
// @Failure		400		{object}	CreditCardResponse
// @Param			card	body		CreditCardEditable	true	"Credit card"
// @Router			/v1/credit-cards [post]
func CreateCreditCard(c *gin.Context) {
	var editable CreditCardEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CreditCardResponse{Error: &e})
		return
	}

	card := models.CreditCard{
		UserID:  httputil.UserID(c),
		Company: editable.Company,
		Balance: editable.Balance,
	}

	err = models.DB.Create(&card).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CreditCardResponse{Error: &e})
		return
	}

	apiResource := newCreditCard(card)
	c.JSON(http.StatusCreated, CreditCardResponse{Data: &apiResource})
}

// @Summary		List credit cards
// @Description	Returns all credit cards of the user
// @Tags			CreditCards
// @Produce		json
// @Success		200	{object}	CreditCardListResponse
// @Failure		500	{object}	CreditCardListResponse
// @Router			/v1/credit-cards [get]
func GetCreditCards(c *gin.Context) {
	cards, err := models.CreditCardsForUser(models.DB, httputil.UserID(c))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CreditCardListResponse{Error: &e})
		return
	}

	data := make([]CreditCard, 0, len(cards))
	for _, card := range cards {
		data = append(data, newCreditCard(card))
	}

	c.JSON(http.StatusOK, CreditCardListResponse{Data: data})
}

// @Summary		Get credit card
// @Description	Returns a specific credit card
// @Tags			CreditCards
// @Produce		json
// @Success		200	{object}	CreditCardResponse
// @Failure		400	{object}	CreditCardResponse
// @Failure		404	{object}	CreditCardResponse
// @Router			/v1/credit-cards/{id} [get]
func GetCreditCard(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CreditCardResponse{Error: &e})
		return
	}

	card, err := models.GetCreditCard(models.DB, httputil.UserID(c), uri.ID.UUID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CreditCardResponse{Error: &e})
		return
	}

	apiResource := newCreditCard(card)
	c.JSON(http.StatusOK, CreditCardResponse{Data: &apiResource})
}

// @Summary		Pay credit card
// @Description	Records a manual payment against the card's running balance
// @Tags			CreditCards
// @Accept			json
// @Produce		json
// @Success		200		{object}	CreditCardResponse
// @Failure		400		{object}	CreditCardResponse
// @Failure		404		{object}	CreditCardResponse
// @Param			payment	body		CreditCardPayBody	true	"Payment"
// @Router			/v1/credit-cards/{id}/pay [post]
func PayCreditCard(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CreditCardResponse{Error: &e})
		return
	}

	var body CreditCardPayBody
	err = httputil.BindData(c, &body)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CreditCardResponse{Error: &e})
		return
	}

	card, err := engine.PayCreditCard(httputil.UserID(c), uri.ID.UUID, body.Amount)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CreditCardResponse{Error: &e})
		return
	}

	apiResource := newCreditCard(card)
	c.JSON(http.StatusOK, CreditCardResponse{Data: &apiResource})
}
