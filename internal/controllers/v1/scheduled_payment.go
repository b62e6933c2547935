package v1

import (
	"net/http"

	"github.com/dueday/backend/internal/engine"
	"github.com/dueday/backend/internal/httputil"
	"github.com/gin-gonic/gin"
)

func RegisterScheduledPaymentRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/run", OptionsScheduledPaymentRun)
	r.POST("/run", RunScheduledPayments)
}

type ScheduledPaymentRunResponse struct {
	Data ScheduledPaymentRun `json:"data"`
}

type ScheduledPaymentRun struct {
	Processed int `json:"processed" example:"3"` // Scheduled payments executed successfully
	Failed    int `json:"failed" example:"0"`    // Scheduled payments that failed and will be retried next run
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			ScheduledPayments
// @Success		204
// @Router			/v1/scheduled-payments/run [options]
func OptionsScheduledPaymentRun(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Run scheduled payments
// @Description	Executes every scheduled payment that is due. The run is idempotent and failures of single expenses do not abort it.
// @Tags			ScheduledPayments
// @Produce		json
// @Success		200	{object}	ScheduledPaymentRunResponse
// @Failure		400	{object}	httpError
// @Router			/v1/scheduled-payments/run [post]
func RunScheduledPayments(c *gin.Context) {
	asOf, err := bindDate(c.Query("asOf"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	processed, failed := engine.RunScheduledPayments(asOf)

	c.JSON(http.StatusOK, ScheduledPaymentRunResponse{
		Data: ScheduledPaymentRun{
			Processed: processed,
			Failed:    failed,
		},
	})
}
