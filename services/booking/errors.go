package booking

import (
	"errors"
	"fmt"
)

var (
	// ErrPaymentNotSuccessful aborts the run before any carrier call.
	ErrPaymentNotSuccessful = errors.New("payment not successful")

	// ErrDuplicateReference means a booking already exists for the
	// payment reference, either from the fast-path lookup or the
	// store's unique index.
	ErrDuplicateReference = errors.New("duplicate payment reference")

	// ErrReservationFailed means the carrier did not return an order
	// id for the reserve call.
	ErrReservationFailed = errors.New("unable to reserve flight booking")
)

// ValidationError is a local input failure; no external system was
// touched.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
