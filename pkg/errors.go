package pkg

import (
	"errors"
	"fmt"
)

// Failure classes shared by every layer. Use cases wrap these with
// fmt.Errorf("%w: ...") so handlers can classify with errors.Is without
// importing use case packages.
var (
	// ErrValidation marks malformed input: negative hours, max < min,
	// a missing rejection reason, and so on. Rejected before any mutation.
	ErrValidation = errors.New("validation failed")

	// ErrTransitionDenied marks a workflow transition attempted by the wrong
	// role, without required ownership, or from the wrong current state.
	ErrTransitionDenied = errors.New("transition denied")

	// ErrConflict marks a concurrent modification detected at commit time.
	// Callers may retry by reloading current state; we never auto-retry.
	ErrConflict = errors.New("conflict")

	// ErrNotFound marks a referenced entity id that does not exist.
	ErrNotFound = errors.New("not found")
)

// AppError is the HTTP-facing error envelope.
type AppError struct {
	Code       string
	Message    string
	Err        error
	HTTPStatus int
}

func NewDomainErrorSimple(code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

func NewDomainError(code, message string, err error, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, Err: err, HTTPStatus: httpStatus}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// HTTPError is the JSON body returned to clients.
type HTTPError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) ToHTTPError() HTTPError {
	return HTTPError{Code: e.Code, Message: e.Message}
}
