package core

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField     = errors.New("missing required field")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrNegativeAmount   = errors.New("amount must not be negative")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrDescriptionLong  = errors.New("description too long (max 200 characters)")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidMonth     = errors.New("invalid month")
)

// ValidationError is returned when a record cannot be constructed from user input.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// InconsistentInputError marks data handed back by a persistence or transport
// collaborator that cannot be turned into a valid record.
type InconsistentInputError struct {
	Source string
	Err    error
}

func (e *InconsistentInputError) Error() string {
	return fmt.Sprintf("inconsistent data from %s: %v", e.Source, e.Err)
}

func (e *InconsistentInputError) Unwrap() error {
	return e.Err
}

// Inconsistent wraps err as an InconsistentInputError for the given source.
func Inconsistent(source string, err error) error {
	return &InconsistentInputError{Source: source, Err: err}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
