// Package crmerr defines the error taxonomy shared by the store, the
// engagement engine, and the transport layers.
package crmerr

import (
	"errors"
	"fmt"
)

// Code classifies a failure so transports can map it without string matching.
type Code string

const (
	// InvalidArgument: malformed or missing required input.
	InvalidArgument Code = "INVALID_ARGUMENT"
	// NotFound: a referenced identity does not exist.
	NotFound Code = "NOT_FOUND"
	// UnknownInteractionType: type name not in the seeded catalog.
	UnknownInteractionType Code = "UNKNOWN_INTERACTION_TYPE"
	// ConstraintViolation: referential or uniqueness breach at the store.
	ConstraintViolation Code = "CONSTRAINT_VIOLATION"
	// StoreUnavailable: connectivity or transient store failure.
	StoreUnavailable Code = "STORE_UNAVAILABLE"
)

// Error carries a code, a human message, and an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap annotates err with a code and operation context. Returns nil if err
// is nil. If err already carries a code, that code is preserved and only
// the context message is added.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	code := StoreUnavailable
	var ce *Error
	if errors.As(err, &ce) {
		code = ce.Code
	}
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// CodeOf extracts the code from err, or StoreUnavailable for untyped errors.
func CodeOf(err error) Code {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return StoreUnavailable
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Code == code
}
