package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the resource is in a state that forbids the operation.
var ErrConflict = errors.New("resource state conflict")

// ErrInternal indicates an unexpected failure inside the engine.
var ErrInternal = errors.New("internal error")

// Domain errors raised by the posting and matching engine. They represent invalid
// business state, not transient failures, and are never retried.
var (
	// ErrAlreadyMatched: the bank transaction already has a payment, expense or
	// transfer link and an exclusive-match operation was attempted.
	ErrAlreadyMatched = errors.New("bank transaction is already matched")

	// ErrAmountMismatch: two amounts that must be equal are not.
	ErrAmountMismatch = errors.New("amounts do not match")

	// ErrMissingGLAccount: an expense category has no GL account assigned.
	ErrMissingGLAccount = errors.New("expense category has no GL account assigned")

	// ErrSameAccountTransfer: both sides of a transfer reference the same bank account.
	ErrSameAccountTransfer = errors.New("transfer requires two different bank accounts")

	// ErrInvalidConfiguration: a credit-card import profile lacks a sign rule, or a
	// non-numeric chart-of-accounts code sits in the auto-allocation range.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrUnbalancedEntry: a journal entry's debits and credits do not sum equal.
	// Internal invariant violation, never a user-facing condition.
	ErrUnbalancedEntry = errors.New("journal entry is not balanced")
)

// AppError carries an HTTP-ish status code alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
