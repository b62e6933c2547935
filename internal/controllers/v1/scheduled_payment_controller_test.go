package v1_test

import (
	"fmt"
	"net/http"

	v1 "github.com/dueday/backend/internal/controllers/v1"
	"github.com/dueday/backend/internal/types"
	"github.com/dueday/backend/test"
)

func (suite *TestSuiteStandard) TestRunScheduledPaymentsNoUserHeader() {
	// The batch trigger works across users, it must not require one
	recorder := test.Request(suite.T(), suite.router, http.MethodPost, "/v1/scheduled-payments/run", nil, nil)
	suite.Require().Equal(http.StatusOK, recorder.Code)

	var response v1.ScheduledPaymentRunResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal(0, response.Data.Processed)
	suite.Assert().Equal(0, response.Data.Failed)
}

func (suite *TestSuiteStandard) TestRunScheduledPayments() {
	_ = suite.createTestExpense(v1.ExpenseCreate{
		ExpenseEditable: v1.ExpenseEditable{
			Name:              "Streaming",
			AutomaticPayments: true,
		},
	})

	recorder := test.Request(suite.T(), suite.router, http.MethodPost, "/v1/scheduled-payments/run", nil, nil)
	suite.Require().Equal(http.StatusOK, recorder.Code)

	var response v1.ScheduledPaymentRunResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal(1, response.Data.Processed)
	suite.Assert().Equal(0, response.Data.Failed)
}

func (suite *TestSuiteStandard) TestRunScheduledPaymentsAsOf() {
	// Nothing is due yet a week before the expense starts
	_ = suite.createTestExpense(v1.ExpenseCreate{
		ExpenseEditable: v1.ExpenseEditable{
			Name:              "Streaming",
			AutomaticPayments: true,
		},
	})

	asOf := types.Today().AddDate(0, 0, -7)
	recorder := test.Request(suite.T(), suite.router, http.MethodPost, fmt.Sprintf("/v1/scheduled-payments/run?asOf=%s", asOf), nil, nil)
	suite.Require().Equal(http.StatusOK, recorder.Code)

	var response v1.ScheduledPaymentRunResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal(0, response.Data.Processed)
}

func (suite *TestSuiteStandard) TestRunScheduledPaymentsInvalidAsOf() {
	recorder := test.Request(suite.T(), suite.router, http.MethodPost, "/v1/scheduled-payments/run?asOf=tomorrow", nil, nil)
	suite.Assert().Equal(http.StatusBadRequest, recorder.Code)
}
