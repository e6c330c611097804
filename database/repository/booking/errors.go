package bookingRepo

import "errors"

var (
	// ErrReferenceExists means the unique index on "reference"
	// rejected an insert: a booking already exists for that payment
	// reference.
	ErrReferenceExists = errors.New("booking already exists for reference")

	ErrBookingNotFound  = errors.New("booking not found")
	ErrInvalidBookingID = errors.New("invalid booking id")
)
