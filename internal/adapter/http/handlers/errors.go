package handlers

import (
	"errors"
	"net/http"

	"dealflow/internal/usecase"
	"dealflow/pkg"
)

var errInvalidPayload = pkg.NewDomainErrorSimple("INVALID_PAYLOAD", "Invalid request payload", http.StatusBadRequest)

// mapDomainError translates the core's failure classes into the HTTP
// envelope. Conflicts are retryable by the caller after a reload; the others
// are final for the attempted operation.
func mapDomainError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, pkg.ErrValidation):
		return pkg.NewDomainError("VALIDATION_FAILED", err.Error(), err, http.StatusBadRequest)
	case errors.Is(err, pkg.ErrTransitionDenied):
		return pkg.NewDomainError("TRANSITION_DENIED", err.Error(), err, http.StatusForbidden)
	case errors.Is(err, pkg.ErrConflict):
		return pkg.NewDomainError("CONFLICT", err.Error(), err, http.StatusConflict)
	case errors.Is(err, pkg.ErrNotFound):
		return pkg.NewDomainError("NOT_FOUND", err.Error(), err, http.StatusNotFound)
	case errors.Is(err, usecase.ErrInvalidLeadID),
		errors.Is(err, usecase.ErrInvalidRequestID),
		errors.Is(err, usecase.ErrInvalidProjectID),
		errors.Is(err, usecase.ErrInvalidEstimateID),
		errors.Is(err, usecase.ErrInvalidShareToken),
		errors.Is(err, usecase.ErrInvalidRoleID),
		errors.Is(err, usecase.ErrInvalidInvoiceAmount):
		return pkg.NewDomainError("INVALID_REQUEST", err.Error(), err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayUnavailable):
		return pkg.NewDomainError("PAYMENT_GATEWAY_UNAVAILABLE", err.Error(), err, http.StatusServiceUnavailable)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
