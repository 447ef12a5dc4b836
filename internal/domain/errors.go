package domain

import (
	"errors"
	"strings"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrStorage         = errors.New("storage failure")
)

// ValidationError lists every rule an input broke. It matches
// ErrInvalidArgument under errors.Is.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return ErrInvalidArgument.Error() + ": " + strings.Join(e.Details, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidArgument
}

func newValidationError(details []string) error {
	if len(details) == 0 {
		return nil
	}
	return &ValidationError{Details: details}
}
