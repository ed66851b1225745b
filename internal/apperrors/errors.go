package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller is not allowed to act on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates the request conflicts with the current state of the resource.
var ErrConflict = errors.New("conflict")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrReauthRequired is returned by the aggregator adapter when the remote
// reports that stored credentials are no longer valid. Callers that know the
// affected item should wrap it in a LinkUpdateRequiredError.
var ErrReauthRequired = errors.New("aggregator credentials require reauthentication")

// AppError wraps an underlying error with an HTTP-ish status code and message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError with the given code, message and cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that unwraps to ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// LinkUpdateRequiredError signals that an item's credentials must be
// relinked before syncing can continue. It is distinct from generic failures
// so callers can redirect the user through the relink flow.
type LinkUpdateRequiredError struct {
	ItemID string
}

func (e *LinkUpdateRequiredError) Error() string {
	return fmt.Sprintf("item %s requires credential relink", e.ItemID)
}

func (e *LinkUpdateRequiredError) Unwrap() error {
	return ErrReauthRequired
}
