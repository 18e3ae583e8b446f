package domain

import (
	"errors"

	"github.com/ajna/ajna-hub/pkg/validator"
)

// Error kinds. Match with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrDispatch   = errors.New("dispatch failed")
)

// Error is a domain failure carrying a client-facing message.
type Error struct {
	Kind    error
	Message string
	Err     error
	// Fields lists the offending request fields of a validation error.
	Fields validator.ValidationErrors
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes both the kind and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func validationError(message string) error {
	return &Error{Kind: ErrValidation, Message: message}
}

func fieldErrors(errs validator.ValidationErrors) error {
	return &Error{Kind: ErrValidation, Message: errs.Error(), Fields: errs}
}

func notFoundError(message string) error {
	return &Error{Kind: ErrNotFound, Message: message}
}

func dispatchError(message string, err error) error {
	return &Error{Kind: ErrDispatch, Message: message, Err: err}
}
