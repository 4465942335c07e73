// Package errors defines the status taxonomy for the flash filesystem engine
// (spec section 7) as a set of sentinel values, plus a small wrapper type that
// lets call sites attach a human-readable message while still satisfying
// errors.Is against the sentinel.
package errors

import (
	stderrors "errors"
	"fmt"
)

// DriverError is satisfied by every sentinel in this package and by the
// values WithMessage/WrapError produce from them.
type DriverError interface {
	error
	WithMessage(message string) DriverError
	WrapError(err error) DriverError
}

// -----------------------------------------------------------------------------

type customDriverError struct {
	message       string
	originalError error
}

// Error implements the `error` object interface. When called, it returns a string
// describing the error.
func (e customDriverError) Error() string {
	return e.message
}

func (e customDriverError) WithMessage(message string) DriverError {
	return customDriverError{
		message:       fmt.Sprintf("%s: %s", e.message, message),
		originalError: e,
	}
}

func (e customDriverError) WrapError(err error) DriverError {
	return customDriverError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: stderrors.Join(e, err),
	}
}

func (e customDriverError) Unwrap() error {
	return e.originalError
}
