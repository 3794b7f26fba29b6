package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrUnknownItem       = errors.New("unknown item")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidSaleDate   = errors.New("invalid sale date")
	ErrSaleNotFound      = errors.New("sale not found")
)

// ValidationError rejects a request before any state is touched.
type ValidationError struct {
	Err     error
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(err error, format string, args ...any) *ValidationError {
	return &ValidationError{Err: err, Message: fmt.Sprintf(format, args...)}
}

// PersistenceError reports a failed load or save. For saves the in-memory
// mutation has already been applied.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist state (%s): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err rejected the request.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// IsPersistence reports whether err only means the state was not written.
func IsPersistence(err error) bool {
	var perr *PersistenceError
	return errors.As(err, &perr)
}
