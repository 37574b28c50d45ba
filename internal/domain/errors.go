// Package domain contains the core business entities of recipebook.
package domain

import (
	"errors"
	"fmt"
)

// Domain errors - these represent invariant violations and refused operations.
// They are distinct from infrastructure errors (database, network, etc.).

var (
	// ErrInvalidArgument is the target of every *ValidationError.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidOperation is the target of every *OperationError.
	ErrInvalidOperation = errors.New("invalid operation")
)

// ValidationError reports the first invariant an entity refused to accept.
type ValidationError struct {
	// Field names the offending input (e.g., "title").
	Field string

	// Message is a user-facing explanation.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap returns ErrInvalidArgument for errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidArgument
}

// OperationError reports a mutation the entity refuses in its current state.
type OperationError struct {
	// Op is the refused operation (e.g., "comment.edit").
	Op string

	// Message is a user-facing explanation.
	Message string
}

// Error implements the error interface.
func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap returns ErrInvalidOperation for errors.Is.
func (e *OperationError) Unwrap() error {
	return ErrInvalidOperation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func refused(op, message string) error {
	return &OperationError{Op: op, Message: message}
}
