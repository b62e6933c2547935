package v1

import (
	"errors"
	"net/http"

	"github.com/dueday/backend/internal/engine"
	"github.com/dueday/backend/internal/models"
	"github.com/dueday/backend/internal/types"
	ez_uuid "github.com/dueday/backend/internal/uuid"
)

type URIID struct {
	ID ez_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

type httpError struct {
	Error string `json:"error" example:"there is no expense matching your query"`
}

// status returns the appropriate HTTP status for an error.
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) || errors.Is(err, engine.ErrPaymentsNotFound) {
		return http.StatusNotFound
	}

	// Already resolved is distinguishable from other client errors so that
	// the UI can say "already paid" instead of "something went wrong".
	if errors.Is(err, models.ErrPaymentAlreadyResolved) {
		return http.StatusConflict
	}

	return http.StatusBadRequest
}

// bindDate parses an optional date parameter, falling back to today.
func bindDate(value string) (types.Date, error) {
	if value == "" {
		return types.Today(), nil
	}

	return types.ParseDate(value)
}
