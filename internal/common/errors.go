// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// ErrNotFound indicates a referenced wallet, category or transaction
	// does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a uniqueness constraint was violated, such as
	// reusing a wallet name for the same owner.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrValidation indicates a consistency rule was violated, such as a
	// category and transaction disagreeing on wallet or type.
	ErrValidation = errors.New("validation failed")
	// ErrReferenced indicates a record cannot be deleted while other
	// records still point at it.
	ErrReferenced = errors.New("record is still referenced")
	// ErrUnsupportedType indicates a transaction type outside the closed
	// enumeration. Should be unreachable given input validation.
	ErrUnsupportedType = errors.New("unsupported transaction type")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
