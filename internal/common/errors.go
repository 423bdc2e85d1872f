// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Storage errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Engine errors.
	ErrNoData          = errors.New("no transaction data")
	ErrMissingCategory = errors.New("expense has no category")
	ErrUnknownCategory = errors.New("unknown category")
	ErrInvalidMetrics  = errors.New("invalid aggregate metrics")

	// Classifier errors.
	ErrModelNotFound = errors.New("model artifact not found")
	ErrModelCorrupt  = errors.New("model artifact corrupt")
	ErrEmptyCorpus   = errors.New("training corpus is empty")

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
